package mcts

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/gorgonia/uttt/game"
	"github.com/gorgonia/uttt/game/ut3"
)

// naughty indexes MCTS.nodes. Nodes refer to each other by index so the arena can grow and be recycled.
type naughty int32

const nilNode naughty = -1

func (n naughty) isValid() bool { return n >= 0 }

type Status uint32

const (
	Invalid Status = iota
	Active
)

func (a Status) String() string {
	switch a {
	case Invalid:
		return "Invalid"
	case Active:
		return "Active"
	}
	return "UNKNOWN STATUS"
}

// Node is a searched state.
type Node struct {
	state ut3.Board
	move  ut3.Move // the move that led here. Only meaningful when parent is valid

	visits uint32
	wins   uint32 // rollouts won by the player who moved into this node
	draws  uint32
	status Status

	// moves are the legal moves of state in enumeration order; kids[i] is the
	// child reached by moves[i], or nilNode if it has not been expanded yet.
	moves      []ut3.Move
	kids       []naughty
	unexpanded int

	parent naughty
	id     naughty
}

func (n *Node) Format(s fmt.State, c rune) {
	fmt.Fprintf(s, "{NodeID: %v Move: %v Visits: %v Wins: %v Draws: %v Unexpanded: %d/%d Status: %v}", n.id, n.move, n.visits, n.wins, n.draws, n.unexpanded, len(n.moves), n.status)
}

func (n *Node) ID() int { return int(n.id) }

// Move returns the move that led to the node. A root has none.
func (n *Node) Move() (ut3.Move, bool) { return n.move, n.parent.isValid() }

func (n *Node) Visits() uint32 { return n.visits }

func (n *Node) Wins() uint32 { return n.wins }

func (n *Node) State() ut3.Board { return n.state }

// IsActive returns true if the node is active
func (n *Node) IsActive() bool { return n.status == Active }

// IsExpandable returns true if some of the node's moves have no child yet.
func (n *Node) IsExpandable() bool { return n.unexpanded > 0 }

// IsLeaf returns true if the node has no legal moves.
func (n *Node) IsLeaf() bool { return len(n.moves) == 0 }

// WinRate is the proportion of rollouts through this node that the player who moved into it won.
func (n *Node) WinRate() float32 {
	if n.visits == 0 {
		return 0
	}
	return float32(n.wins) / float32(n.visits)
}

// ucb1 scores the node for selection. lnParent is the natural log of the parent's visits.
// Unvisited nodes are explored first.
func (n *Node) ucb1(lnParent, exploration float32) float32 {
	if n.visits == 0 {
		return math32.Inf(1)
	}
	visits := float32(n.visits)
	return float32(n.wins)/visits + math32.Sqrt(exploration*lnParent/visits)
}

// record counts one rollout ending in o.
func (n *Node) record(o game.Outcome) {
	n.visits++
	switch o.Winner() {
	case game.None:
		if o == game.Drawn {
			n.draws++
		}
	case n.state.ToMove().Opponent():
		n.wins++
	}
}

// losses are the rollouts won by the player to move in this node.
func (n *Node) losses() uint32 { return n.visits - n.wins - n.draws }

func (n *Node) reset() {
	n.state = ut3.Board{}
	n.move = ut3.Move{}
	n.visits = 0
	n.wins = 0
	n.draws = 0
	n.status = Invalid
	n.moves = n.moves[:0]
	n.kids = n.kids[:0]
	n.unexpanded = 0
	n.parent = nilNode
}
