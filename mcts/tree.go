package mcts

import (
	"math/rand"
	"time"

	"github.com/gorgonia/uttt/game/ut3"
	"github.com/pkg/errors"
)

const initialArena = 4096

// MCTS is essentially a "global" manager of sorts for the memories. The goal is to build MCTS without much pointer chasing.
//
// MCTS is not safe for concurrent use.
type MCTS struct {
	Config
	rand *rand.Rand

	// memory related fields
	nodes    []Node
	freelist []naughty
	table    map[ut3.Key]naughty

	playouts int
	buf      []ut3.Move // scratch space for rollouts

	*tracer
}

// New creates a search with an empty tree. It panics if conf is not valid.
func New(conf Config) *MCTS {
	if !conf.IsValid() {
		panic("mcts: Config is not valid. Unable to proceed")
	}
	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	retVal := &MCTS{
		Config: conf,
		rand:   rand.New(rand.NewSource(seed)),
		nodes:  make([]Node, 0, initialArena),
		table:  make(map[ut3.Key]naughty),
		buf:    make([]ut3.Move, 0, ut3.Cells),
		tracer: newTracer(),
	}
	return retVal
}

// Nodes returns the number of live nodes.
func (t *MCTS) Nodes() int { return len(t.nodes) - len(t.freelist) }

// Playouts returns the number of rollouts since the tree was last reset.
func (t *MCTS) Playouts() int { return t.playouts }

// Node returns the node holding the given state, if any.
func (t *MCTS) Node(state ut3.Board) (*Node, bool) {
	n, ok := t.table[state.Key()]
	if !ok {
		return nil, false
	}
	return t.nodeFromNaughty(n), true
}

func (t *MCTS) nodeFromNaughty(n naughty) *Node { return &t.nodes[int(n)] }

// alloc tries to get a node from the free list. If none is found a new node is allocated into the master arena.
//
// alloc may grow the arena, so any *Node held across a call to alloc must be fetched again.
func (t *MCTS) alloc() naughty {
	l := len(t.freelist)
	if l == 0 {
		t.nodes = append(t.nodes, Node{
			id:     naughty(len(t.nodes)),
			parent: nilNode,
		})
		return naughty(len(t.nodes) - 1)
	}
	n := t.freelist[l-1]
	t.freelist = t.freelist[:l-1]
	return n
}

// free puts the node back into the freelist and forgets its state.
func (t *MCTS) free(n naughty) {
	N := t.nodeFromNaughty(n)
	if !N.IsActive() {
		return
	}
	delete(t.table, N.state.Key())
	N.reset()
	t.freelist = append(t.freelist, n)
}

// newNode creates a node for state and registers it in the path cache.
func (t *MCTS) newNode(state ut3.Board, parent naughty, move ut3.Move) naughty {
	n := t.alloc()
	N := t.nodeFromNaughty(n)
	N.state = state
	N.move = move
	N.parent = parent
	N.status = Active
	N.moves = state.LegalMoves(N.moves)
	for range N.moves {
		N.kids = append(N.kids, nilNode)
	}
	N.unexpanded = len(N.moves)
	t.table[state.Key()] = n
	return n
}

// prepareRoot returns the node of state, creating it if it is not in the tree.
// A new root gets a rollout of its own, as an expanded node does in the cycle
// that creates it, so every node has more visits than any of its children.
func (t *MCTS) prepareRoot(state ut3.Board) naughty {
	if n, ok := t.table[state.Key()]; ok {
		return n
	}
	t.trace("New root\n%v", &state)
	n := t.newNode(state, nilNode, ut3.Move{})
	t.nodeFromNaughty(n).record(t.simulate(state))
	t.playouts++
	return n
}

// ResetTree drops every node and the path cache.
func (t *MCTS) ResetTree() {
	t.trace("Reset. Dropping %d nodes", t.Nodes())
	t.nodes = make([]Node, 0, initialArena)
	t.freelist = nil
	t.table = make(map[ut3.Key]naughty)
	t.playouts = 0
}

// Prune keeps only the subtree under state and recycles every other node.
// The node of state becomes a root.
func (t *MCTS) Prune(state ut3.Board) error {
	root, ok := t.table[state.Key()]
	if !ok {
		return errors.Wrapf(ErrUnknownStateKey, "unable to prune to %x", state.Key())
	}
	keep := make([]bool, len(t.nodes))
	stack := []naughty{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		keep[n] = true
		for _, kid := range t.nodeFromNaughty(n).kids {
			if kid.isValid() {
				stack = append(stack, kid)
			}
		}
	}

	var pruned int
	for i := range t.nodes {
		if keep[i] || !t.nodes[i].IsActive() {
			continue
		}
		t.free(naughty(i))
		pruned++
	}
	t.nodeFromNaughty(root).parent = nilNode
	t.trace("Pruned %d nodes. %d left", pruned, t.Nodes())
	return nil
}
