package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// MoveError describes a rejected move. It matches apperror.ErrIllegalMove and
// its Reason (ErrGameFinished, ErrOutOfBounds, ErrCellOccupied,
// ErrInvalidPlayer or ErrNotYourTurn) with errors.Is.
type MoveError struct {
	Player Player
	Column int
	Row    int
	Reason error
}

func (that *MoveError) Error() string {
	return fmt.Sprintf("%v: %s to (%d, %d): %v", apperror.ErrIllegalMove, that.Player, that.Column, that.Row, that.Reason)
}

func (that *MoveError) Unwrap() []error {
	return []error{apperror.ErrIllegalMove, that.Reason}
}
