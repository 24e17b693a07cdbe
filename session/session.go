// Package session serves a single game of Ultimate Tic-Tac-Toe against a search engine.
//
// A Session owns one game and one search tree. Requests are serialised, so at most one is in flight per session.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorgonia/uttt/game"
	"github.com/gorgonia/uttt/game/ut3"
	"github.com/gorgonia/uttt/mcts"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrGameOver is returned when a move is requested from a finished game.
var ErrGameOver = errors.New("game over")

// Session is one game and its search tree.
type Session struct {
	mu   sync.Mutex
	id   uuid.UUID
	conf Config
	game *ut3.Game
	tree *mcts.MCTS
	last *Result
	log  zerolog.Logger
}

// New creates a session on an empty board. Extra options are passed to the game, which is how callers observe
// the moves played. It panics if conf is not valid.
func New(conf Config, logger zerolog.Logger, opts ...ut3.Option) *Session {
	if !conf.IsValid() {
		panic("session: Config is not valid. Unable to proceed")
	}
	s := &Session{
		id:   uuid.New(),
		conf: conf,
		tree: mcts.New(conf.MCTS),
	}
	s.log = logger.With().Str("session", s.id.String()).Logger()
	opts = append([]ut3.Option{ut3.WithMoveHook(s.advance)}, opts...)
	s.game = ut3.New(opts...)
	s.log.Debug().Msg("session-created")
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id.String() }

// Board returns a snapshot of the game.
func (s *Session) Board() ut3.Board { return s.game.Board() }

// advance is called by the game after every move.
func (s *Session) advance(m ut3.Move, b *ut3.Board) {
	s.log.Info().
		Str("move", m.Coord.String()).
		Str("player", m.Player.String()).
		Int("move-number", b.MoveNumber()).
		Str("outcome", b.Outcome().String()).
		Msg("move-played")

	if !s.conf.PruneOnAdvance {
		return
	}
	before := s.tree.Nodes()
	if err := s.tree.Prune(*b); err != nil {
		// nothing in the tree can be reached any more
		s.tree.ResetTree()
	}
	s.log.Debug().Int("before", before).Int("after", s.tree.Nodes()).Msg("tree-pruned")
}

// Play plays m.
func (s *Session) Play(m ut3.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.play(m)
}

func (s *Session) play(m ut3.Move) error {
	if err := s.game.Apply(m); err != nil {
		s.log.Debug().Err(err).Msg("move-rejected")
		return err
	}
	return nil
}

// Undo takes back the most recent move.
func (s *Session) Undo() (ut3.Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.UndoLast()
}

// Reset starts a new game. The search tree is kept.
func (s *Session) Reset() {
	s.mu.Lock()
	s.game.Reset()
	s.mu.Unlock()
	s.log.Info().Msg("game-reset")
}

// ResetTree drops the search tree.
func (s *Session) ResetTree() {
	s.mu.Lock()
	s.tree.ResetTree()
	s.mu.Unlock()
	s.log.Info().Msg("tree-reset")
}

// Statistics returns the statistics of the last search of the current state.
func (s *Session) Statistics() (mcts.Statistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Statistics(s.game.Board())
}

// Tree returns the search tree rendered as a Graphviz digraph.
func (s *Session) Tree() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.ToDot()
}

// Result is the outcome of a Generate.
type Result struct {
	Move       ut3.Move
	Statistics mcts.Statistics
	Iterations int
	Elapsed    time.Duration
	Nodes      int
}

// Generate searches the current state for budget, then plays and returns the best move. A budget of 0 uses
// the configured one.
func (s *Session) Generate(ctx context.Context, budget time.Duration) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generate(ctx, budget)
}

func (s *Session) generate(ctx context.Context, budget time.Duration) (retVal Result, err error) {
	if budget <= 0 {
		budget = s.conf.Budget
	}
	state := s.game.Board()
	if state.Complete() {
		return retVal, errors.Wrapf(ErrGameOver, "%v", state.Outcome())
	}

	start := time.Now()
	retVal.Iterations, err = s.tree.RunSearch(ctx, state, budget)
	retVal.Elapsed = time.Since(start)
	retVal.Nodes = s.tree.Nodes()
	full := errors.Is(err, mcts.ErrTreeFull)
	if err != nil && !full {
		return retVal, errors.WithMessage(err, "search failed")
	}

	if retVal.Move, err = s.tree.BestPlay(state); err != nil {
		return retVal, err
	}
	if retVal.Statistics, err = s.tree.Statistics(state); err != nil {
		return retVal, err
	}

	overrun := s.conf.OverrunFactor > 0 && retVal.Elapsed > time.Duration(float64(budget)*s.conf.OverrunFactor)
	s.log.Info().
		Int("iterations", retVal.Iterations).
		Dur("elapsed", retVal.Elapsed).
		Dur("budget", budget).
		Int("nodes", retVal.Nodes).
		Str("best", retVal.Move.Coord.String()).
		Msg("search-done")
	if full || overrun {
		s.log.Warn().Bool("full", full).Bool("overrun", overrun).Msg("resetting-tree")
		s.tree.ResetTree()
	}

	last := retVal
	s.last = &last
	if err = s.play(retVal.Move); err != nil {
		return retVal, errors.WithMessagef(err, "playing generated move %v", retVal.Move)
	}
	return retVal, nil
}

// LastSearch returns the result of the most recent Generate.
func (s *Session) LastSearch() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Result{}, false
	}
	return *s.last, true
}

// Handle serves a request. Errors are reported in the response.
func (s *Session) Handle(ctx context.Context, req Request) Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.handle(ctx, req)
	if err != nil {
		resp.Error = err.Error()
	}
	s.describe(&resp)
	return resp
}

func (s *Session) handle(ctx context.Context, req Request) (resp Response, err error) {
	if req.Move != nil {
		state := s.game.Board()
		if state.Complete() {
			return resp, errors.Wrapf(ErrGameOver, "%v", state.Outcome())
		}
		m, err := req.Move.move(state.ToMove())
		if err != nil {
			return resp, err
		}
		if err = s.play(m); err != nil {
			return resp, err
		}
	}
	if !req.Generate {
		return resp, nil
	}
	res, err := s.generate(ctx, time.Duration(req.Budget))
	if err != nil {
		return resp, err
	}
	resp.Move = moveToDTO(res.Move)
	resp.Statistics = statsToDTO(res.Statistics)
	resp.Statistics.Iterations = res.Iterations
	resp.Statistics.Elapsed = Duration(res.Elapsed)
	resp.Statistics.Nodes = res.Nodes
	return resp, nil
}

func (s *Session) describe(resp *Response) {
	b := s.game.Board()
	resp.Session = s.ID()
	resp.Outcome = b.Outcome().String()
	if !b.Complete() {
		resp.ToMove = playerToDTO(b.ToMove())
		if act := b.Active(); act != ut3.Any {
			resp.Active = &CoordDTO{X: int(act.X), Y: int(act.Y)}
		}
	}
}

// Winner returns the winner of the game so far.
func (s *Session) Winner() game.Player { return s.game.Outcome().Winner() }
