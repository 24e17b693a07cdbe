package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorgonia/uttt/session"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const pingInterval = 30 * time.Second

// server hands every websocket connection its own session.
type server struct {
	conf     session.Config
	log      zerolog.Logger
	upgrader websocket.Upgrader
	sessions int64 // atomic
}

func newServer(conf session.Config, logger zerolog.Logger) *server {
	return &server{
		conf:     conf,
		log:      logger,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, r, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/sessions", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, r, http.StatusOK, map[string]int64{"sessions": atomic.LoadInt64(&s.sessions)})
	})
	r.Get("/ws", s.serveWS)
	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("request-id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// serveWS reads requests off the connection and answers them in order, so one request is in flight per session.
func (s *server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("upgrade")
		return
	}
	defer conn.Close()

	sess := session.New(s.conf, s.log)
	atomic.AddInt64(&s.sessions, 1)
	defer atomic.AddInt64(&s.sessions, -1)
	logger := s.log.With().Str("session", sess.ID()).Logger()
	logger.Info().Str("remote", r.RemoteAddr).Msg("connected")

	send := make(chan session.Response, 1)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		defer close(send)
		return s.read(ctx, conn, sess, send)
	})
	g.Go(func() error { return write(conn, send) })

	if err := g.Wait(); err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		logger.Warn().Err(err).Msg("connection")
	}
	logger.Info().Msg("disconnected")
}

func (s *server) read(ctx context.Context, conn *websocket.Conn, sess *session.Session, send chan<- session.Response) error {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var req session.Request
		var resp session.Response
		if err := json.Unmarshal(msg, &req); err != nil {
			resp = sess.Handle(ctx, session.Request{})
			resp.Error = errors.Wrap(err, "invalid request").Error()
		} else {
			resp = sess.Handle(ctx, req)
		}
		select {
		case send <- resp:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func write(conn *websocket.Conn, send <-chan session.Response) error {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case resp, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteJSON(resp); err != nil {
				return err
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second)); err != nil {
				return err
			}
		}
	}
}

func (s *server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).
			Str("request-id", middleware.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("unable to write response")
	}
}
