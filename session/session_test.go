package session

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/gorgonia/uttt/game"
	"github.com/gorgonia/uttt/game/ut3"
	"github.com/gorgonia/uttt/mcts"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(t *testing.T, opts ...ut3.Option) (*Session, *bytes.Buffer) {
	conf := DefaultConfig()
	conf.MCTS.Seed = 1337
	conf.MCTS.Budget = 200
	conf.Budget = time.Minute
	conf.OverrunFactor = 0
	var buf bytes.Buffer
	return New(conf, zerolog.New(&buf), opts...), &buf
}

func TestConfig(t *testing.T) {
	assert.True(t, DefaultConfig().IsValid())
	conf := DefaultConfig()
	conf.OverrunFactor = 0.5
	assert.False(t, conf.IsValid())
	assert.Panics(t, func() { New(conf, zerolog.Nop()) })
}

func TestDuration(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"generate":true,"budget":"1.5s"}`), &req))
	assert.Equal(t, Duration(1500*time.Millisecond), req.Budget)

	require.NoError(t, json.Unmarshal([]byte(`{"budget":250}`), &req))
	assert.Equal(t, Duration(250*time.Millisecond), req.Budget)

	assert.Error(t, json.Unmarshal([]byte(`{"budget":"soon"}`), &req))
	assert.Error(t, json.Unmarshal([]byte(`{"budget":true}`), &req))

	b, err := json.Marshal(StatsDTO{Elapsed: Duration(time.Second)})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"elapsed":"1s"`)
}

func TestHandle(t *testing.T) {
	var played []ut3.Move
	s, logs := testSession(t, ut3.WithMoveHook(func(m ut3.Move, _ *ut3.Board) { played = append(played, m) }))
	ctx := context.Background()

	resp := s.Handle(ctx, Request{Move: &MoveDTO{X: 4, Y: 4}})
	require.Empty(t, resp.Error)
	assert.Equal(t, s.ID(), resp.Session)
	assert.Equal(t, "O", resp.ToMove)
	assert.Equal(t, &CoordDTO{X: 1, Y: 1}, resp.Active)
	assert.Equal(t, game.InProgress.String(), resp.Outcome)
	assert.Nil(t, resp.Move)

	resp = s.Handle(ctx, Request{Generate: true})
	require.Empty(t, resp.Error)
	require.NotNil(t, resp.Move)
	assert.Equal(t, "O", resp.Move.Player)
	assert.True(t, resp.Move.X >= 3 && resp.Move.X < 6 && resp.Move.Y >= 3 && resp.Move.Y < 6, "the reply must be in the centre subgrid")
	require.NotNil(t, resp.Statistics)
	assert.Equal(t, 200, resp.Statistics.Iterations)
	assert.Len(t, resp.Statistics.Children, 8)
	assert.Equal(t, "X", resp.ToMove)

	require.Len(t, played, 2)
	assert.Equal(t, ut3.NewMove(game.Nought, resp.Move.X, resp.Move.Y).Coord, played[1].Coord)
	assert.Contains(t, logs.String(), "search-done")
	assert.Contains(t, logs.String(), s.ID())

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	var back Response
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, resp.Move, back.Move)
}

func TestHandleErrors(t *testing.T) {
	s, _ := testSession(t)
	ctx := context.Background()

	resp := s.Handle(ctx, Request{Move: &MoveDTO{X: 4, Y: 4, Player: "O"}})
	assert.NotEmpty(t, resp.Error, "Cross moves first")
	assert.Equal(t, "X", resp.ToMove)

	resp = s.Handle(ctx, Request{Move: &MoveDTO{X: 4, Y: 4, Player: "?"}})
	assert.NotEmpty(t, resp.Error)

	for _, m := range []MoveDTO{{X: 260, Y: 4}, {X: 4, Y: -252}, {X: 9, Y: 0}} {
		m := m
		resp = s.Handle(ctx, Request{Move: &m})
		assert.Contains(t, resp.Error, ut3.ErrOutOfBounds.Error(), "%+v", m)
	}
	empty := s.Board()
	assert.Zero(t, empty.MoveNumber(), "moves off the board are never applied")

	resp = s.Handle(ctx, Request{Move: &MoveDTO{X: 4, Y: 4}})
	require.Empty(t, resp.Error)

	// the move is rejected, so no reply is generated
	resp = s.Handle(ctx, Request{Move: &MoveDTO{X: 0, Y: 0}, Generate: true})
	assert.Contains(t, resp.Error, ut3.ErrWrongSubgrid.Error())
	assert.Nil(t, resp.Move)
	b := s.Board()
	assert.Equal(t, 1, b.MoveNumber())
}

func TestGenerateGameOver(t *testing.T) {
	s, _ := testSession(t)
	ctx := context.Background()
	for i := 0; ; i++ {
		require.True(t, i <= ut3.Cells)
		_, err := s.Generate(ctx, 0)
		if errors.Is(err, ErrGameOver) {
			break
		}
		require.NoError(t, err)
	}
	b := s.Board()
	assert.True(t, b.Complete())
	assert.Equal(t, b.Outcome().Winner(), s.Winner())

	resp := s.Handle(ctx, Request{Move: &MoveDTO{X: 4, Y: 4}})
	assert.Contains(t, resp.Error, ErrGameOver.Error())
	assert.Empty(t, resp.ToMove)
}

func TestPruneOnAdvance(t *testing.T) {
	s, _ := testSession(t)
	s.tree.Budget = 85
	ctx := context.Background()

	res, err := s.Generate(ctx, 0)
	require.NoError(t, err)
	assert.True(t, s.tree.Nodes() < res.Nodes, "the other replies have been pruned")

	n, ok := s.tree.Node(s.Board())
	require.True(t, ok)
	_, hasMove := n.Move()
	assert.False(t, hasMove, "the current state is the root")

	// the opponent's reply was never expanded, so nothing is reachable
	b := s.Board()
	moves := b.LegalMoves(nil)
	var unexplored ut3.Move
	for _, m := range moves {
		next := s.Board()
		require.NoError(t, next.Apply(m))
		if _, ok := s.tree.Node(next); !ok {
			unexplored = m
			break
		}
	}
	require.NotEqual(t, game.None, unexplored.Player)
	require.NoError(t, s.Play(unexplored))
	assert.Zero(t, s.tree.Nodes())
}

func TestOverrunResetsTree(t *testing.T) {
	conf := DefaultConfig()
	conf.MCTS.Seed = 1
	conf.OverrunFactor = 1
	conf.PruneOnAdvance = false
	s := New(conf, zerolog.Nop())

	// a nanosecond budget is always overrun by the one cycle a search completes
	res, err := s.Generate(context.Background(), time.Nanosecond)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Iterations)
	assert.Zero(t, s.tree.Nodes())
}

func TestUndoAndReset(t *testing.T) {
	s, _ := testSession(t)
	require.NoError(t, s.Play(ut3.NewMove(game.Cross, 4, 4)))
	m, err := s.Undo()
	require.NoError(t, err)
	assert.Equal(t, game.Coord{X: 4, Y: 4}, m.Coord)
	_, err = s.Undo()
	assert.True(t, errors.Is(err, ut3.ErrIllegalUndo))

	require.NoError(t, s.Play(ut3.NewMove(game.Cross, 4, 4)))
	s.Reset()
	assert.Equal(t, ut3.NewBoard(), s.Board())

	_, err = s.Statistics()
	assert.True(t, errors.Is(err, mcts.ErrUnknownStateKey))
	_, err = s.Generate(context.Background(), 0)
	require.NoError(t, err)
	stats, err := s.Statistics()
	require.NoError(t, err, "the reply is the root of the pruned tree")
	assert.NotZero(t, stats.Visits)
	s.ResetTree()
	assert.Contains(t, s.Tree(), "digraph")
}
