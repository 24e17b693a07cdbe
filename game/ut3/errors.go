package ut3

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrOccupiedCell = errors.New("cell is occupied")
	ErrWrongSubgrid = errors.New("move is outside the active subgrid")
	ErrIllegalUndo  = errors.New("move is not the most recent move")
	ErrOutOfBounds  = errors.New("coordinate is off the board")
	ErrWrongPlayer  = errors.New("not this player's turn")
	ErrGameOver     = errors.New("game is over")
)

// moveError records the move that was rejected. The sentinel is the cause.
type moveError struct {
	m     Move
	cause error
}

func (err moveError) Error() string {
	return fmt.Sprintf("Unable to make %v: %v", err.m, err.cause)
}

func (err moveError) Cause() error  { return err.cause }
func (err moveError) Unwrap() error { return err.cause }
