package uttt

import (
	"context"
	"math/rand"
	"time"

	"github.com/gorgonia/uttt/game"
	"github.com/gorgonia/uttt/game/ut3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Arena plays games between two agents.
type Arena struct {
	r    *rand.Rand
	game *ut3.Game
	A, B *Agent

	// state
	currentPlayer *Agent
	logger        zerolog.Logger

	name       string
	gameNumber int // which game is this in
}

// NewArena makes an arena. It panics if conf is not valid.
func NewArena(conf Config, logger zerolog.Logger) *Arena {
	if !conf.IsValid() {
		panic("Config is not valid. Unable to proceed")
	}
	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	name := conf.Name
	if name == "" {
		name = "UNKNOWN GAME"
	}

	a := &Arena{
		r:      rand.New(rand.NewSource(seed)),
		A:      newAgent("A", conf.MCTSConf, conf.Budget),
		B:      newAgent("B", conf.opponentConf(), conf.Budget),
		logger: logger.With().Str("arena", name).Logger(),
		name:   name,
	}
	a.game = ut3.New(ut3.WithMoveHook(a.moved))
	return a
}

func (a *Arena) moved(m ut3.Move, b *ut3.Board) {
	a.logger.Debug().
		Int("game", a.gameNumber).
		Str("agent", a.currentPlayer.name).
		Str("move", m.Coord.String()).
		Str("player", m.Player.String()).
		Msg("move")
}

// Play plays a game, and returns a winner. If it is a draw, the returned player is None.
func (a *Arena) Play(ctx context.Context, enc OutputEncoder) (winner game.Player, err error) {
	a.gameNumber++
	if a.r.Intn(2) == 0 {
		a.A.Player = game.Cross
		a.B.Player = game.Nought
		a.currentPlayer = a.A
	} else {
		a.A.Player = game.Nought
		a.B.Player = game.Cross
		a.currentPlayer = a.B
	}
	a.game.Reset()
	a.logger.Info().Int("game", a.gameNumber).Str("cross", a.currentPlayer.name).Msg("playing")

	defer func() {
		a.A.MCTS.ResetTree()
		a.B.MCTS.ResetTree()
	}()

	if enc != nil {
		if err = enc.Encode(a); err != nil {
			return game.None, errors.WithMessage(err, "unable to encode the first position")
		}
	}
	for state := a.game.Board(); !state.Complete(); state = a.game.Board() {
		best, err := a.currentPlayer.Search(ctx, state)
		if err != nil {
			return game.None, errors.WithMessagef(err, "agent %v searching move %d", a.currentPlayer.name, state.MoveNumber()+1)
		}
		if err = a.game.Apply(best); err != nil {
			return game.None, err
		}
		a.switchPlayer()
		if enc != nil {
			if err = enc.Encode(a); err != nil {
				return game.None, errors.WithMessage(err, "unable to encode")
			}
		}
	}

	outcome := a.game.Outcome()
	winner = outcome.Winner()
	a.A.record(winner)
	a.B.record(winner)

	ev := a.logger.Info().Int("game", a.gameNumber).Str("outcome", outcome.String())
	switch winner {
	case a.A.Player:
		ev = ev.Str("winner", a.A.name)
	case a.B.Player:
		ev = ev.Str("winner", a.B.name)
	}
	ev.Msg("game-over")
	return winner, nil
}

func (a *Arena) GameNumber() int     { return a.gameNumber }
func (a *Arena) Name() string        { return a.name }
func (a *Arena) State() ut3.Board    { return a.game.Board() }
func (a *Arena) Trace() (A, B string) { return a.A.MCTS.Trace(), a.B.MCTS.Trace() }

func (a *Arena) switchPlayer() {
	switch a.currentPlayer {
	case a.A:
		a.currentPlayer = a.B
	case a.B:
		a.currentPlayer = a.A
	}
}
