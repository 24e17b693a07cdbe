package mcts_test

import (
	"context"
	"fmt"
	"time"

	"github.com/gorgonia/uttt/game/ut3"
	"github.com/gorgonia/uttt/mcts"
)

func ExampleMCTS_BestPlay() {
	conf := mcts.DefaultConfig()
	conf.Seed = 1
	conf.Budget = 100
	tree := mcts.New(conf)

	state := ut3.NewBoard()
	if _, err := tree.BestPlay(state); err != nil {
		fmt.Println(err)
	}

	if _, err := tree.RunSearch(context.Background(), state, time.Second); err != nil {
		fmt.Println(err)
		return
	}
	stats, _ := tree.Statistics(state)
	best, _ := tree.BestPlay(state)
	fmt.Printf("%d visits over %d moves\n", stats.Visits, len(stats.Children))
	fmt.Printf("%v to play\n", best.Player)

	// Output:
	// state has not been searched: search not ready
	// 101 visits over 81 moves
	// Cross to play
}
