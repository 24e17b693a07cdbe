package uttt

import (
	"context"
	"sync"
	"time"

	"github.com/gorgonia/uttt/game"
	"github.com/gorgonia/uttt/game/ut3"
	"github.com/gorgonia/uttt/mcts"
	"github.com/pkg/errors"
)

// An Agent is a search engine playing one side of a game.
type Agent struct {
	MCTS   *mcts.MCTS
	Player game.Player
	Budget time.Duration

	// Statistics
	Wins float32
	Loss float32
	Draw float32

	mu   sync.Mutex
	name string
}

func newAgent(name string, conf mcts.Config, budget time.Duration) *Agent {
	return &Agent{
		MCTS:   mcts.New(conf),
		Budget: budget,
		name:   name,
	}
}

// Name returns the name of the agent.
func (a *Agent) Name() string { return a.name }

// Search searches the game state and returns a suggested move.
func (a *Agent) Search(ctx context.Context, g ut3.Board) (ut3.Move, error) {
	_, err := a.MCTS.RunSearch(ctx, g, a.Budget)
	full := errors.Is(err, mcts.ErrTreeFull)
	if err != nil && !full {
		return ut3.Move{}, err
	}
	best, err := a.MCTS.BestPlay(g)
	if full {
		a.MCTS.ResetTree()
	}
	return best, err
}

func (a *Agent) record(winner game.Player) {
	a.mu.Lock()
	switch winner {
	case game.None:
		a.Draw++
	case a.Player:
		a.Wins++
	default:
		a.Loss++
	}
	a.mu.Unlock()
}

func (a *Agent) resetStats() {
	a.mu.Lock()
	a.Wins = 0
	a.Loss = 0
	a.Draw = 0
	a.mu.Unlock()
}
