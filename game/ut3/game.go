package ut3

import (
	"fmt"
	"sync"

	"github.com/gorgonia/uttt/game"
)

// MoveHook is called after every successful Apply with the applied move and
// the board it was applied to. It must not mutate the board.
type MoveHook func(m Move, b *Board)

// Option configures a Game.
type Option func(g *Game)

// WithMoveHook registers an observer invoked once per applied move.
func WithMoveHook(h MoveHook) Option {
	return func(g *Game) { g.hooks = append(g.hooks, h) }
}

// Game owns the canonical board of a game in progress along with its observers.
// Searches work on Board snapshots, which carry no hooks.
type Game struct {
	mu    sync.Mutex
	b     Board
	hooks []MoveHook
}

// New creates a new game on an empty board.
func New(opts ...Option) *Game {
	g := &Game{b: NewBoard()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Apply plays m on the board and notifies the hooks. Hooks are not called on
// rejected moves.
func (g *Game) Apply(m Move) error {
	g.mu.Lock()
	if err := g.b.Apply(m); err != nil {
		g.mu.Unlock()
		return err
	}
	applied, _ := g.b.LastMove()
	snapshot := g.b
	g.mu.Unlock()

	for _, h := range g.hooks {
		h(applied, &snapshot)
	}
	return nil
}

// Undo takes back m, which has to be the most recent move.
func (g *Game) Undo(m Move) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.b.Undo(m)
}

// UndoLast takes back the most recent move.
func (g *Game) UndoLast() (Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.b.UndoLast()
}

// Board returns a snapshot of the current board.
func (g *Game) Board() Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.b
}

// LegalMoves returns the legal moves of the current board.
func (g *Game) LegalMoves() []Move {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.b.LegalMoves(make([]Move, 0, Cells))
}

func (g *Game) SubgridOutcome(c game.Coord) game.Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.b.SubgridOutcome(c)
}

func (g *Game) Outcome() game.Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.b.Outcome()
}

func (g *Game) ToMove() game.Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.b.ToMove()
}

// Reset clears the board. Hooks are kept.
func (g *Game) Reset() {
	g.mu.Lock()
	g.b = NewBoard()
	g.mu.Unlock()
}

func (g *Game) Format(s fmt.State, c rune) {
	b := g.Board()
	b.Format(s, c)
}
