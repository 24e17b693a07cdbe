// uttt is an Ultimate Tic-Tac-Toe engine that speaks a GTP-like text protocol on stdin and stdout.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/gorgonia/uttt/gtp"
	"github.com/gorgonia/uttt/session"
	"github.com/rs/zerolog"
)

const version = "0.1"

var (
	budget      = flag.Duration("budget", time.Second, "search budget per generated move")
	exploration = flag.Float64("c", 2, "UCB1 exploration constant")
	seed        = flag.Int64("seed", 0, "random seed of the search. 0 seeds from the clock")
	prune       = flag.Bool("prune", true, "keep the reachable part of the search tree between moves")
	verbose     = flag.Bool("v", false, "log to stderr")
)

func main() {
	flag.Parse()

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	fatal := zerolog.New(os.Stderr)

	conf := session.DefaultConfig()
	conf.Budget = *budget
	conf.PruneOnAdvance = *prune
	conf.MCTS.Exploration = float32(*exploration)
	conf.MCTS.Seed = *seed
	if !conf.IsValid() {
		fatal.Fatal().Interface("config", conf).Msg("invalid configuration")
	}

	engine := gtp.New(session.New(conf, logger), "uttt", version, nil)
	if err := engine.Run(os.Stdin, os.Stdout); err != nil {
		fatal.Fatal().Err(err).Msg("engine")
	}
}
