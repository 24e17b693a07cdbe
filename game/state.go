package game

import (
	"fmt"
)

// Player represents a player. None doubles as the "empty cell" marker.
type Player int8

const (
	None Player = iota
	Cross
	Nought
)

// Opponent returns the other player. The opponent of None is None.
func (p Player) Opponent() Player {
	switch p {
	case Cross:
		return Nought
	case Nought:
		return Cross
	}
	return None
}

func (p Player) String() string {
	switch p {
	case Cross:
		return "Cross"
	case Nought:
		return "Nought"
	}
	return "None"
}

func (p Player) Format(s fmt.State, c rune) {
	switch c {
	case 's': // used in board games
		switch p {
		case None:
			fmt.Fprint(s, "·")
		case Cross:
			fmt.Fprint(s, "X")
		case Nought:
			fmt.Fprint(s, "O")
		}
	default: // used in debug
		fmt.Fprint(s, p.String())
	}
}

// Outcome is the state of a 3x3 grid, either a subgrid or the meta-board.
type Outcome int8

const (
	InProgress Outcome = iota
	CrossWon
	NoughtWon
	Drawn
)

// Won returns the Outcome in which p has won.
func Won(p Player) Outcome {
	switch p {
	case Cross:
		return CrossWon
	case Nought:
		return NoughtWon
	}
	return InProgress
}

// Decided returns true if the outcome is no longer in progress.
func (o Outcome) Decided() bool { return o != InProgress }

// Winner returns the winning player, or None for draws and games in progress.
func (o Outcome) Winner() Player {
	switch o {
	case CrossWon:
		return Cross
	case NoughtWon:
		return Nought
	}
	return None
}

func (o Outcome) String() string {
	switch o {
	case InProgress:
		return "in-progress"
	case CrossWon:
		return "cross-won"
	case NoughtWon:
		return "nought-won"
	case Drawn:
		return "drawn"
	}
	return "UNKNOWN OUTCOME"
}

// Coord represents an (x, y) coordinate.
//
// The Coord uses a standard computer cartesian coordinates
//		- (0, 0) represents the top left
//		- (8, 8) represents the bottom right of the 9x9 board
// Subgrid coordinates use the same type in a 3x3 space.
type Coord struct {
	X, Y int8
}

func (c Coord) Eq(other Coord) bool { return c.X == other.X && c.Y == other.Y }

// In returns true if the coordinate lies in a size x size space.
func (c Coord) In(size int8) bool { return c.X >= 0 && c.Y >= 0 && c.X < size && c.Y < size }

// String renders the coordinate as a column letter and a 1-based row, e.g. (4, 4) is "e5".
func (c Coord) String() string {
	if c.X < 0 || c.X > 25 || c.Y < 0 {
		return fmt.Sprintf("(%d,%d)", c.X, c.Y)
	}
	return fmt.Sprintf("%c%d", 'a'+rune(c.X), c.Y+1)
}
