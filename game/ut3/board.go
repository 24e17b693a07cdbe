package ut3

import (
	"fmt"

	"github.com/gorgonia/uttt/game"
	"github.com/pkg/errors"
)

const (
	// Size is the width and height of the full board.
	Size = 9
	// Cells is the number of cells on the board, and the longest possible game.
	Cells = Size * Size
)

// Any is the active subgrid sentinel meaning the player may move in any
// subgrid that is still in progress.
var Any = game.Coord{X: -1, Y: -1}

// Move is a move made by a player on the global 9x9 board. Prior is the
// active subgrid before the move; Apply fills it in.
type Move struct {
	game.Coord
	Player game.Player
	Prior  game.Coord
}

// NewMove creates a move for p at global (x, y). Coordinates off the board
// stay off the board, so Apply rejects them with ErrOutOfBounds.
func NewMove(p game.Player, x, y int) Move {
	return Move{Coord: game.Coord{X: clamp(x), Y: clamp(y)}, Player: p, Prior: Any}
}

func clamp(v int) int8 {
	if v < 0 || v >= Size {
		return -1
	}
	return int8(v)
}

// Subgrid returns the 3x3 coordinate of the subgrid the move is played in.
func (m Move) Subgrid() game.Coord { return game.Coord{X: m.X / 3, Y: m.Y / 3} }

// Eq compares the coordinate and the player. Prior is bookkeeping and is ignored.
func (m Move) Eq(other Move) bool { return m.Coord.Eq(other.Coord) && m.Player == other.Player }

func (m Move) Format(s fmt.State, c rune) { fmt.Fprintf(s, "%v@%v", m.Player, m.Coord) }

// Board is the full game state. It holds no pointers or slices, so a plain
// assignment is a complete clone:
//	snapshot := *b
type Board struct {
	cells    [2][9]mask // cells[player-1][subgrid]
	active   game.Coord
	toMove   game.Player
	complete bool

	n       uint8
	history [Cells]Move
}

// NewBoard creates an empty board with Cross to move anywhere.
func NewBoard() Board {
	return Board{
		active: Any,
		toMove: game.Cross,
	}
}

// FromMoves replays the given coordinates from an empty board, alternating
// players starting with Cross.
func FromMoves(coords ...game.Coord) (Board, error) {
	b := NewBoard()
	for i, c := range coords {
		if err := b.Apply(Move{Coord: c, Player: b.toMove}); err != nil {
			return b, errors.WithMessagef(err, "replaying move %d", i+1)
		}
	}
	return b, nil
}

func (b *Board) ToMove() game.Player { return b.toMove }

// Active returns the subgrid the next move must be played in, or Any.
func (b *Board) Active() game.Coord { return b.active }

// Complete returns true when the board outcome is decided.
func (b *Board) Complete() bool { return b.complete }

func (b *Board) MoveNumber() int { return int(b.n) }

// History returns a copy of the moves applied so far.
func (b *Board) History() []Move {
	retVal := make([]Move, b.n)
	copy(retVal, b.history[:b.n])
	return retVal
}

// LastMove returns the most recent move. ok is false on an empty board.
func (b *Board) LastMove() (m Move, ok bool) {
	if b.n == 0 {
		return Move{Prior: Any}, false
	}
	return b.history[b.n-1], true
}

// At returns the owner of the cell at global (x, y).
func (b *Board) At(x, y int) game.Player {
	c := game.Coord{X: int8(x), Y: int8(y)}
	if !c.In(Size) {
		return game.None
	}
	sub, bit := split(c)
	switch {
	case b.cells[0][sub]&bit != 0:
		return game.Cross
	case b.cells[1][sub]&bit != 0:
		return game.Nought
	}
	return game.None
}

// Key is the canonical path key of a board: its move history, one byte per move.
type Key string

// Key serializes the history in order. Bits 0-6 hold the cell index (y*9+x)
// and bit 7 is set for Nought.
func (b *Board) Key() Key {
	buf := make([]byte, b.n)
	for i, m := range b.history[:b.n] {
		v := byte(int(m.Y)*Size + int(m.X))
		if m.Player == game.Nought {
			v |= 0x80
		}
		buf[i] = v
	}
	return Key(buf)
}

func (b *Board) Format(s fmt.State, c rune) {
	for y := 0; y < Size; y++ {
		if y > 0 && y%3 == 0 {
			fmt.Fprint(s, "⎢-------+-------+-------⎥\n")
		}
		for x := 0; x < Size; x++ {
			switch {
			case x == 0:
				fmt.Fprint(s, "⎢ ")
			case x%3 == 0:
				fmt.Fprint(s, "| ")
			}
			fmt.Fprintf(s, "%s ", b.At(x, y))
		}
		fmt.Fprint(s, "⎥\n")
	}
}
