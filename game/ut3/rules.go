package ut3

import (
	"math/bits"

	"github.com/gorgonia/uttt/game"
	"github.com/pkg/errors"
)

// Check returns nil if the move may be applied, otherwise the reason it may not.
func (b *Board) Check(m Move) error {
	if !m.Coord.In(Size) {
		return moveError{m, ErrOutOfBounds}
	}
	if b.complete {
		return moveError{m, ErrGameOver}
	}
	if m.Player != b.toMove || m.Player == game.None {
		return moveError{m, ErrWrongPlayer}
	}
	sub, bit := split(m.Coord)
	if (b.cells[0][sub]|b.cells[1][sub])&bit != 0 {
		return moveError{m, ErrOccupiedCell}
	}
	if b.active != Any {
		if subIndex(b.active) != sub {
			return moveError{m, ErrWrongSubgrid}
		}
	} else if b.subgrid(sub).Decided() {
		return moveError{m, ErrWrongSubgrid}
	}
	return nil
}

// Apply plays the move. Nothing is changed if the move is rejected.
func (b *Board) Apply(m Move) error {
	if err := b.Check(m); err != nil {
		return err
	}
	sub, bit := split(m.Coord)
	m.Prior = b.active
	b.cells[m.Player-1][sub] |= bit

	next := bits.TrailingZeros16(uint16(bit))
	if b.subgrid(next).Decided() {
		b.active = Any
	} else {
		b.active = subCoord(next)
	}
	b.toMove = m.Player.Opponent()
	b.complete = b.Outcome().Decided()
	b.history[b.n] = m
	b.n++
	return nil
}

// Undo takes back m, which has to be the most recent move.
func (b *Board) Undo(m Move) error {
	if b.n == 0 {
		return errors.WithMessagef(ErrIllegalUndo, "undo %v on an empty history", m)
	}
	last := b.history[b.n-1]
	if !last.Eq(m) {
		return moveError{m, ErrIllegalUndo}
	}
	sub, bit := split(last.Coord)
	b.cells[last.Player-1][sub] &^= bit
	b.active = last.Prior
	b.toMove = last.Player
	b.complete = false
	b.n--
	b.history[b.n] = Move{}
	return nil
}

// UndoLast takes back the most recent move and returns it.
func (b *Board) UndoLast() (Move, error) {
	if b.n == 0 {
		return Move{Prior: Any}, errors.WithMessage(ErrIllegalUndo, "empty history")
	}
	m := b.history[b.n-1]
	return m, b.Undo(m)
}

// LegalMoves appends every legal move to buf[:0] and returns it. Moves are
// enumerated subgrid by subgrid, then by local index.
func (b *Board) LegalMoves(buf []Move) []Move {
	buf = buf[:0]
	if b.complete {
		return buf
	}
	if b.active != Any {
		return b.appendSubgrid(buf, subIndex(b.active))
	}
	for sub := 0; sub < 9; sub++ {
		if !b.subgrid(sub).Decided() {
			buf = b.appendSubgrid(buf, sub)
		}
	}
	return buf
}

func (b *Board) appendSubgrid(buf []Move, sub int) []Move {
	free := ^(b.cells[0][sub] | b.cells[1][sub]) & full
	for free != 0 {
		local := bits.TrailingZeros16(uint16(free))
		free &= free - 1
		buf = append(buf, Move{Coord: join(sub, local), Player: b.toMove, Prior: b.active})
	}
	return buf
}

// SubgridOutcome evaluates the subgrid at the 3x3 coordinate c. A coordinate
// outside the 3x3 meta-board, Any included, names no subgrid and is reported
// as InProgress; callers that need to tell it apart check c.In(3) first.
func (b *Board) SubgridOutcome(c game.Coord) game.Outcome {
	if !c.In(3) {
		return game.InProgress
	}
	return b.subgrid(subIndex(c))
}

func (b *Board) subgrid(sub int) game.Outcome { return outcomeOf(b.cells[0][sub], b.cells[1][sub]) }

// Outcome evaluates the meta-board. Drawn subgrids belong to nobody.
func (b *Board) Outcome() game.Outcome {
	var cross, nought, decided mask
	for sub := 0; sub < 9; sub++ {
		o := b.subgrid(sub)
		if !o.Decided() {
			continue
		}
		decided |= 1 << uint(sub)
		switch o {
		case game.CrossWon:
			cross |= 1 << uint(sub)
		case game.NoughtWon:
			nought |= 1 << uint(sub)
		}
	}
	if p := lineOwner(cross, nought); p != game.None {
		return game.Won(p)
	}
	if decided == full {
		return game.Drawn
	}
	return game.InProgress
}

// Occupied returns the number of occupied cells.
func (b *Board) Occupied() int {
	var n int
	for p := range b.cells {
		for _, m := range b.cells[p] {
			n += m.count()
		}
	}
	return n
}
