package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// Player identifies one of the two sides. The zero value is no player and
// marks an empty cell.
type Player uint8

const (
	NoPlayer Player = iota
	PlayerX
	PlayerO
)

const (
	markX = "X"
	markO = "O"
)

// ParsePlayer converts a mark ("X" or "O") into a Player.
func ParsePlayer(mark string) (Player, error) {
	switch mark {
	case markX:
		return PlayerX, nil
	case markO:
		return PlayerO, nil
	default:
		return NoPlayer, fmt.Errorf("%w: %q", apperror.ErrInvalidPlayer, mark)
	}
}

// Other returns the opponent. NoPlayer has no opponent and maps to itself.
func (that Player) Other() Player {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return NoPlayer
	}
}

func (that Player) Valid() bool {
	return that == PlayerX || that == PlayerO
}

func (that Player) String() string {
	switch that {
	case PlayerX:
		return markX
	case PlayerO:
		return markO
	default:
		return ""
	}
}

func (that Player) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Player) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*that = NoPlayer
		return nil
	}

	player, err := ParsePlayer(string(text))
	if err != nil {
		return err
	}

	*that = player

	return nil
}
