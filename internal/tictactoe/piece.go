package tictactoe

// Piece is the token a move places on the board. The weight is caller-defined
// payload and plays no part in the rules.
type Piece struct {
	owner  Player
	weight int
}

func NewPiece(owner Player, weight int) Piece {
	return Piece{owner: owner, weight: weight}
}

func (that Piece) Owner() Player {
	return that.owner
}

func (that Piece) Weight() int {
	return that.weight
}

func (that Piece) empty() bool {
	return that.owner == NoPlayer
}
