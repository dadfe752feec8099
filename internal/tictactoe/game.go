package tictactoe

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// Game is an N×N tic-tac-toe board. Cells are stored row-major, a cell once
// occupied is never cleared, and the game freezes as soon as a line is
// completed or the board is full.
//
// A Game is safe for concurrent use: every move runs its legality check,
// placement and win scan under one lock.
type Game struct {
	mu sync.Mutex

	size      int
	cells     []Piece
	moveCount int
	turn      Player
	winner    Player
	over      bool

	enforceTurnOrder bool
}

// MaxSize bounds the board side so the cell slice stays small and size*size
// cannot overflow.
const MaxSize = 1024

type Option func(*Game)

// WithoutTurnOrder lets either player move at any time. The turn still flips
// to the mover's opponent after each move.
func WithoutTurnOrder() Option {
	return func(g *Game) {
		g.enforceTurnOrder = false
	}
}

// NewGame creates an empty board of the given size with X to move. The size
// must lie in [1, MaxSize].
func NewGame(size int, opts ...Option) (*Game, error) {
	if !validSize(size) {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidBoardSize, size)
	}

	game := &Game{
		size:             size,
		cells:            make([]Piece, size*size),
		turn:             PlayerX,
		enforceTurnOrder: true,
	}

	for _, opt := range opts {
		opt(game)
	}

	return game, nil
}

func (that *Game) Size() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.size
}

func (that *Game) MoveCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.moveCount
}

// NextPlayer returns whose move it is. After the game is over it keeps
// returning the player the last move handed the turn to.
func (that *Game) NextPlayer() Player {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.turn
}

func (that *Game) IsGameOver() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.over
}

// Winner reports the player who completed a line. It returns false while the
// game is undecided and when it ended in a draw.
func (that *Game) Winner() (Player, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.winner, that.winner != NoPlayer
}

func (that *Game) EnforcesTurnOrder() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.enforceTurnOrder
}

// PieceAt returns the piece at (column, row), or false if the cell is empty or
// outside the board.
func (that *Game) PieceAt(column, row int) (Piece, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.inBounds(column, row) {
		return Piece{}, false
	}

	piece := that.cells[that.index(column, row)]

	return piece, !piece.empty()
}

// CanMoveTo reports whether player may place a piece at (column, row) now.
func (that *Game) CanMoveTo(player Player, column, row int) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.validateMove(player, column, row) == nil
}

// MoveTo places piece at (column, row). An illegal move leaves the game
// untouched and returns a *MoveError.
func (that *Game) MoveTo(piece Piece, column, row int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.move(piece, column, row)
}

// Play places a piece of the given weight for the player whose turn it is.
func (that *Game) Play(weight, column, row int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.move(NewPiece(that.turn, weight), column, row)
}

func (that *Game) move(piece Piece, column, row int) error {
	if reason := that.validateMove(piece.Owner(), column, row); reason != nil {
		return &MoveError{
			Player: piece.Owner(),
			Column: column,
			Row:    row,
			Reason: reason,
		}
	}

	that.cells[that.index(column, row)] = piece
	that.moveCount++
	that.updateGameStatus(piece.Owner(), column, row)
	that.turn = piece.Owner().Other()

	return nil
}

// validateMove - returns the reason a move is illegal, or nil.
func (that *Game) validateMove(player Player, column, row int) error {
	if that.over {
		return apperror.ErrGameFinished
	}

	if !that.inBounds(column, row) {
		return apperror.ErrOutOfBounds
	}

	if !that.cells[that.index(column, row)].empty() {
		return apperror.ErrCellOccupied
	}

	if !player.Valid() {
		return apperror.ErrInvalidPlayer
	}

	if that.enforceTurnOrder && player != that.turn {
		return apperror.ErrNotYourTurn
	}

	return nil
}

// updateGameStatus - checks the game status after a move at (column, row).
func (that *Game) updateGameStatus(mover Player, column, row int) {
	switch {
	case that.completesLine(mover, column, row):
		that.winner = mover
		that.over = true
	case that.moveCount == len(that.cells):
		that.over = true
	}
}

func validSize(size int) bool {
	return size >= 1 && size <= MaxSize
}

func (that *Game) inBounds(column, row int) bool {
	return column >= 0 && column < that.size && row >= 0 && row < that.size
}

func (that *Game) index(column, row int) int {
	return row*that.size + column
}
