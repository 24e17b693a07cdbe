package gtp

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gorgonia/uttt/game"
	"github.com/gorgonia/uttt/game/ut3"
	"github.com/pkg/errors"
)

type Command interface {
	Do(id int, args []string, e *Engine) (int, string, error)
}

type stdlib func(e *Engine) string

type stdlib2 func(e *Engine, args []string) (string, error)

func (f stdlib) Do(id int, args []string, e *Engine) (int, string, error) {
	str := f(e)
	return id, str, nil
}

func (f stdlib2) Do(id int, args []string, e *Engine) (int, string, error) {
	str, err := f(e, args)
	return id, str, err
}

func protocolVersion(e *Engine) string { return "2" }
func name(e *Engine) string            { return e.name }
func version(e *Engine) string         { return e.version }

func listCommands(e *Engine) string {
	cmds := make([]string, 0, len(e.known))
	for c := range e.known {
		cmds = append(cmds, c)
	}
	sort.Strings(cmds)
	return strings.Join(cmds, "\n")
}

func quit(e *Engine) string       { e.done = true; return "" }
func clearBoard(e *Engine) string { e.s.Reset(); return "" }
func resetTree(e *Engine) string  { e.s.ResetTree(); return "" }
func tree(e *Engine) string       { return e.s.Tree() }

func showboard(e *Engine) string {
	b := e.s.Board()
	return fmt.Sprintf("\n%v%v to move. Outcome: %v", &b, b.ToMove(), b.Outcome())
}

func undo(e *Engine, args []string) (string, error) {
	_, err := e.s.Undo()
	return "", err
}

func knownCommand(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"known_command\"")
	}
	if _, ok := e.known[args[0]]; ok {
		return "true", nil
	}
	return "false", nil
}

// play takes a player and a coordinate: "play x e5".
func play(e *Engine, args []string) (string, error) {
	if len(args) < 2 {
		return "", errors.New("Not enough arguments for \"play\"")
	}
	p, err := game.ParsePlayer(args[0])
	if err != nil {
		return "", err
	}
	c, err := game.ParseCoord(args[1])
	if err != nil {
		return "", err
	}
	return "", e.s.Play(ut3.Move{Coord: c, Player: p, Prior: ut3.Any})
}

// genmove takes a player and an optional budget: "genmove o 500ms".
func genmove(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"genmove\"")
	}
	p, err := game.ParsePlayer(args[0])
	if err != nil {
		return "", err
	}
	if b := e.s.Board(); p != b.ToMove() {
		return "", errors.Errorf("%v is not to move", p)
	}
	budget := e.Budget
	if len(args) > 1 {
		if budget, err = time.ParseDuration(args[1]); err != nil {
			return "", errors.WithMessage(err, "Unable to parse budget")
		}
	}
	res, err := e.s.Generate(context.Background(), budget)
	if err != nil {
		return "", err
	}
	return res.Move.Coord.String(), nil
}

// stats lists the moves considered by the last genmove, most visited first.
func stats(e *Engine, args []string) (string, error) {
	last, ok := e.s.LastSearch()
	if !ok {
		return "", errors.New("No search has been run")
	}
	s := last.Statistics
	children := s.Children[:0:0]
	for _, ch := range s.Children {
		if ch.Expanded {
			children = append(children, ch)
		}
	}
	sort.SliceStable(children, func(i, j int) bool { return children[i].Visits > children[j].Visits })

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "visits %d iterations %d elapsed %v", s.Visits, last.Iterations, last.Elapsed)
	for _, ch := range children {
		fmt.Fprintf(&buf, "\n%v visits %d wins %d winrate %.3f", ch.Move.Coord, ch.Visits, ch.Wins, ch.WinRate())
	}
	return buf.String(), nil
}

func StandardLib() map[string]Command {
	return map[string]Command{
		"protocol_version": stdlib(protocolVersion),
		"name":             stdlib(name),
		"version":          stdlib(version),
		"list_commands":    stdlib(listCommands),
		"quit":             stdlib(quit),
		"clear_board":      stdlib(clearBoard),
		"showboard":        stdlib(showboard),
		"reset_tree":       stdlib(resetTree),
		"tree":             stdlib(tree),

		"known_command": stdlib2(knownCommand),
		"undo":          stdlib2(undo),
		"play":          stdlib2(play),
		"genmove":       stdlib2(genmove),
		"stats":         stdlib2(stats),
	}
}
