package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gorgonia/uttt"
	"github.com/gorgonia/uttt/encoding/gif"
	"github.com/rs/zerolog"
)

var (
	games    = flag.Int("games", 10, "number of games to play")
	budget   = flag.Duration("budget", 100*time.Millisecond, "search budget per move")
	cA       = flag.Float64("a", 2, "exploration constant of agent A")
	cB       = flag.Float64("b", 0, "exploration constant of agent B. 0 is the same as A")
	seed     = flag.Int64("seed", 0, "random seed. 0 seeds from the clock")
	gifPath  = flag.String("gif", "", "record the games into this animated GIF")
	statPath = flag.String("csv", "", "write the running win rates into this CSV file")
	verbose  = flag.Bool("v", false, "log every move")
)

func main() {
	flag.Parse()
	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	conf := uttt.DefaultConfig()
	conf.Name = "Self Play"
	conf.Budget = *budget
	conf.Seed = *seed
	conf.MCTSConf.Exploration = float32(*cA)
	conf.MCTSConf.Seed = *seed
	if *cB != 0 {
		conf.OpponentConf = conf.MCTSConf
		conf.OpponentConf.Exploration = float32(*cB)
		if *seed != 0 {
			conf.OpponentConf.Seed = *seed + 1
		}
	}

	if *gifPath != "" {
		f, err := os.Create(*gifPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("unable to create gif")
		}
		defer f.Close()
		conf.OutputEncoder = gif.NewGifEncoder(f, 1000, 1000)
	}
	if !conf.IsValid() {
		logger.Fatal().Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := uttt.New(conf, logger)
	if err := m.Run(ctx, *games); err != nil {
		logger.Error().Err(err).Msg("match stopped")
	}

	fmt.Printf("A: %v wins, %v losses, %v draws. Win rate %.3f\n", m.A.Wins, m.A.Loss, m.A.Draw, m.WinRate(m.A.Name()))
	fmt.Printf("B: %v wins, %v losses, %v draws. Win rate %.3f\n", m.B.Wins, m.B.Loss, m.B.Draw, m.WinRate(m.B.Name()))
	if *statPath != "" {
		if err := m.Dump(*statPath); err != nil {
			logger.Fatal().Err(err).Msg("unable to write statistics")
		}
	}
}
