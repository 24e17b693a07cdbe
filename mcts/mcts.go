// Package mcts implements a Monte Carlo tree search over Ultimate Tic-Tac-Toe boards.
//
// Nodes are kept in an arena and addressed by index. A node's parent is a
// non-owning index, and every node is registered in a path cache keyed by the
// canonical key of the state it holds, so a search can be resumed on any state
// the tree has seen.
package mcts

import (
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrSearchNotReady is returned by BestPlay when no child of the state has been expanded yet.
	ErrSearchNotReady = errors.New("search not ready")

	// ErrUnknownStateKey is returned when a state has no node in the tree.
	ErrUnknownStateKey = errors.New("unknown state key")

	// ErrTerminalState is returned when asked to search a finished game.
	ErrTerminalState = errors.New("terminal state")

	// ErrTreeFull is returned by RunSearch when the node cap stopped the search.
	ErrTreeFull = errors.New("tree is full")
)

// Config configures the search.
type Config struct {
	// Exploration is the C in UCB1 = w/n + sqrt(C * ln(N) / n).
	Exploration float32

	// Timeout is the budget used by RunSearch when it is given none.
	Timeout time.Duration

	// Budget caps the iterations of a single RunSearch. 0 is no cap.
	Budget int

	// MaxNodes caps the number of live nodes. 0 is no cap.
	MaxNodes int

	// Seed seeds the random source. 0 seeds from the clock.
	Seed int64
}

func DefaultConfig() Config {
	return Config{
		Exploration: 2,
		Timeout:     time.Second,
		MaxNodes:    1 << 18,
	}
}

func (c Config) IsValid() bool {
	return c.Exploration > 0 && c.Timeout >= 0 && c.Budget >= 0 && c.MaxNodes >= 0
}
