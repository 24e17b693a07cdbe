// Package uttt pits Monte Carlo tree search engines against each other at Ultimate Tic-Tac-Toe.
//
// The rules live in game/ut3, the search in mcts. A Match plays a series of games in an Arena and keeps the
// running Statistics of both agents.
package uttt

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Match is the top level structure and the entry point of the API. It plays games between two agents and
// records how they fare.
type Match struct {
	// state
	*Arena
	Statistics

	// io
	outEnc OutputEncoder
}

// New creates a match. It panics if conf is not valid.
func New(conf Config, logger zerolog.Logger) *Match {
	return &Match{
		Arena:      NewArena(conf, logger),
		Statistics: makeStatistics(),
		outEnc:     conf.OutputEncoder,
	}
}

// Run plays the given number of games. The output encoder, if any, is flushed once all games are played.
func (m *Match) Run(ctx context.Context, games int) error {
	for i := 0; i < games; i++ {
		if _, err := m.Play(ctx, m.outEnc); err != nil {
			return errors.WithMessagef(err, "game %d", m.GameNumber())
		}
		m.update(m.A)
		m.update(m.B)
	}
	if m.outEnc != nil {
		return m.outEnc.Flush()
	}
	return nil
}

// Reset clears the record of both agents.
func (m *Match) Reset() {
	m.A.resetStats()
	m.B.resetStats()
	m.Statistics = makeStatistics()
}
