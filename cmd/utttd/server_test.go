package main

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorgonia/uttt/session"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *httptest.Server {
	conf := session.DefaultConfig()
	conf.MCTS.Seed = 1
	conf.MCTS.Budget = 50
	conf.Budget = time.Minute
	ts := httptest.NewServer(newServer(conf, zerolog.Nop()).routes())
	t.Cleanup(ts.Close)
	return ts
}

func TestPing(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Get(ts.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	resp, err = http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebsocket(t *testing.T) {
	ts := testServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var resp session.Response
	require.NoError(t, conn.WriteJSON(session.Request{Move: &session.MoveDTO{X: 4, Y: 4}, Generate: true}))
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Empty(t, resp.Error)
	assert.NotEmpty(t, resp.Session)
	require.NotNil(t, resp.Move)
	assert.Equal(t, "O", resp.Move.Player)
	require.NotNil(t, resp.Statistics)
	assert.Equal(t, 50, resp.Statistics.Iterations)
	assert.Equal(t, "X", resp.ToMove)
	assert.Equal(t, "in-progress", resp.Outcome)

	// the reply is sent to the centre subgrid
	require.NotNil(t, resp.Active)
	assert.Equal(t, session.CoordDTO{X: resp.Move.X % 3, Y: resp.Move.Y % 3}, *resp.Active)

	// an illegal move is answered, and the connection survives it
	var bad session.Response
	require.NoError(t, conn.WriteJSON(session.Request{Move: &session.MoveDTO{X: resp.Move.X, Y: resp.Move.Y}}))
	require.NoError(t, conn.ReadJSON(&bad))
	assert.NotEmpty(t, bad.Error)
	assert.Equal(t, resp.Session, bad.Session)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	require.NoError(t, conn.ReadJSON(&bad))
	assert.Contains(t, bad.Error, "invalid request")

	// the count of sessions follows the open connections
	r, err := http.Get(ts.URL + "/sessions")
	require.NoError(t, err)
	defer r.Body.Close()
	var count map[string]int64
	require.NoError(t, json.NewDecoder(r.Body).Decode(&count))
	assert.Equal(t, int64(1), count["sessions"])
}

func TestWriteJSONLogsEncodingErrors(t *testing.T) {
	var logs bytes.Buffer
	s := newServer(session.DefaultConfig(), zerolog.New(&logs))
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/ping", nil)

	s.writeJSON(w, r, http.StatusOK, map[string]float64{"nan": math.NaN()})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, logs.String(), "unable to write response")
	assert.Contains(t, logs.String(), `"path":"/ping"`)

	logs.Reset()
	s.writeJSON(httptest.NewRecorder(), r, http.StatusOK, map[string]bool{"ok": true})
	assert.Empty(t, logs.String())
}
