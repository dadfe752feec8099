package apperror

import "errors"

var (
	ErrIllegalMove      = errors.New("illegal move")
	ErrGameFinished     = errors.New("game is already finished")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrOutOfBounds      = errors.New("cell is out of bounds")
	ErrInvalidBoardSize = errors.New("invalid board size")
	ErrInvalidPlayer    = errors.New("invalid player")
	ErrCorruptSnapshot  = errors.New("corrupt game snapshot")
	ErrConcurrentUpdate = errors.New("match was updated concurrently")
)
