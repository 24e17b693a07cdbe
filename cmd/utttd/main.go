// utttd serves Ultimate Tic-Tac-Toe sessions over websockets.
//
// Every connection to /ws gets its own game and search tree. Clients send session.Request
// values as JSON and receive a session.Response for each.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorgonia/uttt/session"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	addr        = flag.String("addr", ":8080", "address to listen on")
	budget      = flag.Duration("budget", time.Second, "default search budget per generated move")
	exploration = flag.Float64("c", 2, "UCB1 exploration constant")
	maxNodes    = flag.Int("maxnodes", 1<<18, "maximum number of nodes in a search tree")
	debug       = flag.Bool("debug", false, "log at debug level")
)

func main() {
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339Nano
	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	conf := session.DefaultConfig()
	conf.Budget = *budget
	conf.MCTS.Exploration = float32(*exploration)
	conf.MCTS.MaxNodes = *maxNodes
	if !conf.IsValid() {
		logger.Fatal().Interface("config", conf).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           newServer(conf, logger).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", *addr).Msg("listening")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server")
	}
	logger.Info().Msg("bye")
}
