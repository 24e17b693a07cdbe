package gtp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gorgonia/uttt/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine() *Engine {
	conf := session.DefaultConfig()
	conf.MCTS.Seed = 1337
	conf.MCTS.Budget = 100
	return New(session.New(conf, zerolog.Nop()), "xx", "1", nil)
}

func Test_General(t *testing.T) {
	assert := assert.New(t)
	e := testEngine()
	var x string

	ch, ret := e.Start()
	ch <- "version"
	x = <-ret
	assert.Equal("= 1\n\n", x)

	ch <- "known_command hello"
	x = <-ret
	assert.Equal("= false\n\n", x)

	ch <- "known_command name"
	x = <-ret
	assert.Equal("= true\n\n", x)

	ch <- "completelyUnheardOfCommand xxx"
	x = <-ret
	assert.Equal("? Unknown command \"completelyunheardofcommand\"\n\n", x)

	ch <- "3 name"
	x = <-ret
	assert.Equal("= 3 xx\n\n", x)

	ch <- "quit"
	x = <-ret
	assert.Equal("= \n\n", x)
	_, open := <-ret
	assert.False(open)
}

var playTests = []struct {
	cmd     string
	willErr bool
}{
	{"play x e5", false},
	{"play x d4", true}, // not x's turn
	{"play o a1", true}, // wrong subgrid
	{"play o 3,3", false},
	{"play x", true},
	{"play z a1", true},
	{"play x zz", true},
	{"genmove o", true},
}

func TestPlay(t *testing.T) {
	e := testEngine()
	for _, tc := range playTests {
		resp, ok := e.do(tc.cmd)
		require.True(t, ok)
		if tc.willErr {
			assert.True(t, strings.HasPrefix(resp, "?"), "%q: %q", tc.cmd, resp)
			continue
		}
		assert.Equal(t, "= \n\n", resp, tc.cmd)
	}
	b := e.Session().Board()
	assert.Equal(t, 2, b.MoveNumber())
}

func TestRun(t *testing.T) {
	e := testEngine()
	in := strings.NewReader(`# a comment

1 play x e5
2 genmove o
3 stats
4 undo
5 showboard
6 quit
7 name
`)
	var out bytes.Buffer
	require.NoError(t, e.Run(in, &out))

	resps := strings.Split(strings.TrimSuffix(out.String(), "\n\n"), "\n\n")
	require.Len(t, resps, 6, "nothing is answered after quit:\n%s", out.String())
	assert.Equal(t, "= 1 ", resps[0])

	move := strings.TrimPrefix(resps[1], "= 2 ")
	require.Len(t, move, 2, resps[1])
	assert.True(t, move[0] >= 'd' && move[0] <= 'f' && move[1] >= '4' && move[1] <= '6', "%q must be in the centre subgrid", move)

	assert.True(t, strings.HasPrefix(resps[2], "= 3 visits 101 "), resps[2])
	assert.Equal(t, "= 4 ", resps[3])
	assert.Contains(t, resps[4], "Nought to move")
	assert.Equal(t, "= 6 ", resps[5])
}

func TestListCommands(t *testing.T) {
	e := testEngine()
	resp, ok := e.do("list_commands")
	require.True(t, ok)
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(resp, "=")), "\n")
	assert.Len(t, lines, len(StandardLib()))
	assert.Equal(t, "clear_board", lines[0])

	_, ok = e.do("   ")
	assert.False(t, ok)
}
