package ut3

import (
	"math/bits"

	"github.com/gorgonia/uttt/game"
)

// mask is a 9 bit occupancy mask of a 3x3 grid, bit index = x + y*3.
type mask uint16

const full mask = 0x1FF

// lines are the eight winning triples of a 3x3 grid.
var lines = [8]mask{
	0x007, 0x038, 0x1C0, // rows
	0x049, 0x092, 0x124, // columns
	0x111, 0x054, // diagonals
}

// lineOwner returns the player owning a winning triple. Both masks holding a
// triple is not reachable through Apply.
func lineOwner(cross, nought mask) game.Player {
	for _, l := range lines {
		if cross&l == l {
			return game.Cross
		}
		if nought&l == l {
			return game.Nought
		}
	}
	return game.None
}

// outcomeOf evaluates a single subgrid from its two masks.
func outcomeOf(cross, nought mask) game.Outcome {
	if p := lineOwner(cross, nought); p != game.None {
		return game.Won(p)
	}
	if cross|nought == full {
		return game.Drawn
	}
	return game.InProgress
}

func (m mask) count() int { return bits.OnesCount16(uint16(m)) }

// split breaks a global coordinate into its subgrid index and local bit.
func split(c game.Coord) (sub int, bit mask) {
	sub = int(c.X/3) + int(c.Y/3)*3
	local := int(c.X%3) + int(c.Y%3)*3
	return sub, 1 << uint(local)
}

// join is the inverse of split, taking a local index instead of a bit.
func join(sub, local int) game.Coord {
	return game.Coord{
		X: int8(sub%3*3 + local%3),
		Y: int8(sub/3*3 + local/3),
	}
}

// subCoord converts a subgrid index to its 3x3 coordinate.
func subCoord(sub int) game.Coord { return game.Coord{X: int8(sub % 3), Y: int8(sub / 3)} }

// subIndex converts a 3x3 subgrid coordinate to its index.
func subIndex(c game.Coord) int { return int(c.X) + int(c.Y)*3 }
