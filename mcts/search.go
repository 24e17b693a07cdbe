package mcts

import (
	"context"
	"time"

	"github.com/chewxy/math32"
	"github.com/gorgonia/uttt/game"
	"github.com/gorgonia/uttt/game/ut3"
	"github.com/pkg/errors"
)

/*
Here lies the majority of the MCTS search code, while node.go and tree.go handles the data structure stuff.

A search is a loop of cycles, each going SELECT, EXPAND, SIMULATE, BACKPROPAGATE. The deadline is only
looked at between cycles, so a search always completes at least one cycle and may overrun its budget by
up to one cycle.
*/

// RunSearch searches from state until budget has elapsed. A budget of 0 uses the configured Timeout.
// It returns the number of completed cycles.
//
// The search stops early when ctx is done, when the configured iteration Budget is spent, or when the node
// cap is reached, in which case ErrTreeFull is returned.
func (t *MCTS) RunSearch(ctx context.Context, state ut3.Board, budget time.Duration) (iterations int, err error) {
	if state.Complete() {
		return 0, errors.Wrapf(ErrTerminalState, "%v", state.Outcome())
	}
	if budget <= 0 {
		budget = t.Timeout
	}
	deadline := time.Now().Add(budget)
	root := t.prepareRoot(state)
	t.trace("SEARCH. %v to move. Budget %v", state.ToMove(), budget)

	for {
		if !t.pipeline(root) {
			err = errors.Wrapf(ErrTreeFull, "%d nodes", t.Nodes())
			break
		}
		iterations++

		if err = ctx.Err(); err != nil {
			break
		}
		if t.Budget > 0 && iterations >= t.Budget {
			break
		}
		if !time.Now().Before(deadline) {
			break
		}
	}
	t.trace("Iterations %d Playouts %d Nodes %d. Err: %v", iterations, t.playouts, t.Nodes(), err)
	return iterations, err
}

// pipeline runs one cycle from root. It returns false if the cycle could not expand because the tree is full.
func (t *MCTS) pipeline(root naughty) bool {
	// SELECT
	current := root
	for {
		n := t.nodeFromNaughty(current)
		if n.IsLeaf() || n.IsExpandable() {
			break
		}
		current = t.selectChild(current)
	}

	// EXPAND
	if t.nodeFromNaughty(current).IsExpandable() {
		if t.MaxNodes > 0 && t.Nodes() >= t.MaxNodes {
			return false
		}
		current = t.expand(current)
	}

	// SIMULATE
	outcome := t.simulate(t.nodeFromNaughty(current).state)
	t.playouts++

	// BACKPROPAGATE
	t.backpropagate(current, root, outcome)
	return true
}

// selectChild returns the child with the highest UCB1. Ties go to the first child in enumeration order.
func (t *MCTS) selectChild(of naughty) naughty {
	n := t.nodeFromNaughty(of)
	lnParent := math32.Log(float32(n.visits))

	best := nilNode
	bestValue := math32.Inf(-1)
	for _, kid := range n.kids {
		child := t.nodeFromNaughty(kid)
		if v := child.ucb1(lnParent, t.Exploration); best == nilNode || v > bestValue {
			best = kid
			bestValue = v
		}
	}
	if best == nilNode {
		panic("Cannot return nil")
	}
	return best
}

// expand creates the child of a random unexpanded move of the node and returns it.
func (t *MCTS) expand(of naughty) naughty {
	n := t.nodeFromNaughty(of)
	k := t.rand.Intn(n.unexpanded)
	slot := -1
	for i, kid := range n.kids {
		if kid.isValid() {
			continue
		}
		if k == 0 {
			slot = i
			break
		}
		k--
	}

	move := n.moves[slot]
	state := n.state
	if err := state.Apply(move); err != nil {
		panic(errors.Wrapf(err, "legal move %v rejected", move))
	}

	child, ok := t.table[state.Key()]
	if ok {
		t.trace("LINK %v to %v", of, child)
		t.graft(of, child)
	} else {
		child = t.newNode(state, of, move)
	}
	n = t.nodeFromNaughty(of) // newNode may have moved the arena
	c := t.nodeFromNaughty(child)
	c.parent = of
	c.move = move
	n.kids[slot] = child
	n.unexpanded--
	return child
}

// graft accounts for the rollouts of an existing node that is linked under of.
// Every ancestor gains the child's rollouts, seen from its own side.
func (t *MCTS) graft(of, child naughty) {
	c := t.nodeFromNaughty(child)
	visits, draws := c.visits, c.draws
	sameSide, otherSide := c.wins, c.losses()
	for n := of; n.isValid(); {
		sameSide, otherSide = otherSide, sameSide
		N := t.nodeFromNaughty(n)
		N.visits += visits
		N.draws += draws
		N.wins += sameSide
		n = N.parent
	}
}

// simulate plays uniformly random legal moves on a copy of state until the game is decided.
func (t *MCTS) simulate(state ut3.Board) game.Outcome {
	for !state.Complete() {
		t.buf = state.LegalMoves(t.buf)
		m := t.buf[t.rand.Intn(len(t.buf))]
		if err := state.Apply(m); err != nil {
			panic(errors.Wrapf(err, "legal move %v rejected", m))
		}
	}
	return state.Outcome()
}

// backpropagate records the outcome from leaf up to and including root.
func (t *MCTS) backpropagate(leaf, root naughty, outcome game.Outcome) {
	for n := leaf; n.isValid(); {
		N := t.nodeFromNaughty(n)
		N.record(outcome)
		if n == root {
			break
		}
		n = N.parent
	}
}

// BestPlay returns the move of the most visited expanded child of state. Ties go to the first move in enumeration order.
func (t *MCTS) BestPlay(state ut3.Board) (ut3.Move, error) {
	n, ok := t.table[state.Key()]
	if !ok {
		return ut3.Move{}, errors.Wrap(ErrSearchNotReady, "state has not been searched")
	}
	N := t.nodeFromNaughty(n)
	best := -1
	var bestVisits uint32
	for i, kid := range N.kids {
		if !kid.isValid() {
			continue
		}
		if v := t.nodeFromNaughty(kid).visits; best < 0 || v > bestVisits {
			best = i
			bestVisits = v
		}
	}
	if best < 0 {
		return ut3.Move{}, errors.Wrap(ErrSearchNotReady, "no child has been expanded")
	}
	t.trace("Best %v with %d visits", N.moves[best], bestVisits)
	return N.moves[best], nil
}

// ChildStatistics describes one legal move of a searched state.
type ChildStatistics struct {
	Move     ut3.Move
	Expanded bool
	Visits   uint32
	Wins     uint32 // rollouts won by the player making Move
}

// WinRate is Wins/Visits, or 0 for an unvisited child.
func (c ChildStatistics) WinRate() float32 {
	if c.Visits == 0 {
		return 0
	}
	return float32(c.Wins) / float32(c.Visits)
}

// Statistics describes a searched state and each of its legal moves, in enumeration order.
type Statistics struct {
	Visits   uint32
	Wins     uint32
	Children []ChildStatistics
}

// Statistics returns the statistics of state.
func (t *MCTS) Statistics(state ut3.Board) (Statistics, error) {
	n, ok := t.table[state.Key()]
	if !ok {
		return Statistics{}, errors.Wrapf(ErrUnknownStateKey, "%x", state.Key())
	}
	N := t.nodeFromNaughty(n)
	retVal := Statistics{
		Visits:   N.visits,
		Wins:     N.wins,
		Children: make([]ChildStatistics, len(N.moves)),
	}
	for i, m := range N.moves {
		retVal.Children[i].Move = m
		if kid := N.kids[i]; kid.isValid() {
			child := t.nodeFromNaughty(kid)
			retVal.Children[i].Expanded = true
			retVal.Children[i].Visits = child.visits
			retVal.Children[i].Wins = child.wins
		}
	}
	return retVal, nil
}
