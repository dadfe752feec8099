package entity

import (
	"errors"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	ResultTie = "-"
)

var ErrMissingGame = errors.New("match has no game")

// Match is a stored game together with its identity.
type Match struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Game      *tictactoe.Game `json:"game"`
}

func NewMatch(id string, game *tictactoe.Game, now time.Time) *Match {
	return &Match{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		Game:      game,
	}
}

// MakeTurn applies a move to the match's game and stamps the update time.
func (that *Match) MakeTurn(piece tictactoe.Piece, column, row int, now time.Time) error {
	if that.Game == nil {
		return ErrMissingGame
	}

	if err := that.Game.MoveTo(piece, column, row); err != nil {
		return err
	}

	that.UpdatedAt = now

	return nil
}

func (that *Match) Status() string {
	if that.IsFinished() {
		return StatusFinished
	}
	return StatusOngoing
}

func (that *Match) IsFinished() bool {
	return that.Game != nil && that.Game.IsGameOver()
}

// Result returns the winner's mark, ResultTie for a draw, or "" while the
// game goes on.
func (that *Match) Result() string {
	if !that.IsFinished() {
		return ""
	}

	if winner, ok := that.Game.Winner(); ok {
		return winner.String()
	}

	return ResultTie
}
