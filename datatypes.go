package uttt

import (
	"time"

	"github.com/gorgonia/uttt/game/ut3"
	"github.com/gorgonia/uttt/mcts"
)

type Config struct {
	Name string

	// MCTSConf configures agent A. OpponentConf configures agent B; its zero value means B uses MCTSConf too.
	MCTSConf     mcts.Config
	OpponentConf mcts.Config

	Budget time.Duration // search budget per move
	Seed   int64         // seeds the side assignment. 0 seeds from the clock

	// extensions
	OutputEncoder OutputEncoder
}

func DefaultConfig() Config {
	return Config{
		Name:     "Ultimate Tic-Tac-Toe",
		MCTSConf: mcts.DefaultConfig(),
		Budget:   100 * time.Millisecond,
	}
}

func (c Config) IsValid() bool {
	if c.OpponentConf != (mcts.Config{}) && !c.OpponentConf.IsValid() {
		return false
	}
	return c.MCTSConf.IsValid() && c.Budget > 0
}

func (c Config) opponentConf() mcts.Config {
	if c.OpponentConf == (mcts.Config{}) {
		return c.MCTSConf
	}
	return c.OpponentConf
}

// MetaState is a game in progress along with what it is a part of.
type MetaState interface {
	Name() string
	GameNumber() int
	State() ut3.Board
}

// OutputEncoder encodes the entire meta state as whatever.
//
// An example OutputEncoder is the GifEncoder. Another example would be a logger.
type OutputEncoder interface {
	Encode(ms MetaState) error
	Flush() error
}
