package tictactoe

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// Cell is an occupied board position inside a Snapshot.
type Cell struct {
	Column int    `json:"column"`
	Row    int    `json:"row"`
	Player Player `json:"player"`
	Weight int    `json:"weight"`
}

// Snapshot is the serialisable state of a Game. Only occupied cells are
// listed, in row-major order.
type Snapshot struct {
	Size             int    `json:"size"`
	Cells            []Cell `json:"cells"`
	MoveCount        int    `json:"move_count"`
	Turn             Player `json:"turn"`
	Winner           Player `json:"winner"`
	Over             bool   `json:"over"`
	EnforceTurnOrder bool   `json:"enforce_turn_order"`
}

func (that *Game) Snapshot() Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	cells := make([]Cell, 0, that.moveCount)
	for i, piece := range that.cells {
		if piece.empty() {
			continue
		}

		cells = append(cells, Cell{
			Column: i % that.size,
			Row:    i / that.size,
			Player: piece.Owner(),
			Weight: piece.Weight(),
		})
	}

	return Snapshot{
		Size:             that.size,
		Cells:            cells,
		MoveCount:        that.moveCount,
		Turn:             that.turn,
		Winner:           that.winner,
		Over:             that.over,
		EnforceTurnOrder: that.enforceTurnOrder,
	}
}

// Restore rebuilds a Game from a snapshot, rejecting any state that normal
// play could not have produced.
func Restore(snapshot Snapshot) (*Game, error) {
	if !validSize(snapshot.Size) {
		return nil, fmt.Errorf("%w: %w: %d", apperror.ErrCorruptSnapshot, apperror.ErrInvalidBoardSize, snapshot.Size)
	}

	if len(snapshot.Cells) > snapshot.Size*snapshot.Size {
		return nil, fmt.Errorf("%w: %d cells on a %d×%d board", apperror.ErrCorruptSnapshot, len(snapshot.Cells), snapshot.Size, snapshot.Size)
	}

	game := &Game{
		size:             snapshot.Size,
		cells:            make([]Piece, snapshot.Size*snapshot.Size),
		turn:             snapshot.Turn,
		winner:           snapshot.Winner,
		over:             snapshot.Over,
		enforceTurnOrder: snapshot.EnforceTurnOrder,
	}

	counts := map[Player]int{}
	for _, cell := range snapshot.Cells {
		if !game.inBounds(cell.Column, cell.Row) {
			return nil, fmt.Errorf("%w: cell (%d, %d) is outside the board", apperror.ErrCorruptSnapshot, cell.Column, cell.Row)
		}

		if !cell.Player.Valid() {
			return nil, fmt.Errorf("%w: cell (%d, %d) has no owner", apperror.ErrCorruptSnapshot, cell.Column, cell.Row)
		}

		idx := game.index(cell.Column, cell.Row)
		if !game.cells[idx].empty() {
			return nil, fmt.Errorf("%w: cell (%d, %d) listed twice", apperror.ErrCorruptSnapshot, cell.Column, cell.Row)
		}

		game.cells[idx] = NewPiece(cell.Player, cell.Weight)
		game.moveCount++
		counts[cell.Player]++
	}

	if err := game.checkRestored(snapshot.MoveCount, counts); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrCorruptSnapshot, err)
	}

	return game, nil
}

// checkRestored - verifies the derived state of a freshly restored game.
func (that *Game) checkRestored(moveCount int, counts map[Player]int) error {
	if moveCount != that.moveCount {
		return fmt.Errorf("move count %d does not match %d occupied cells", moveCount, that.moveCount)
	}

	if !that.turn.Valid() {
		return fmt.Errorf("turn %q is not a player", that.turn)
	}

	owners := that.lineOwners()
	switch {
	case len(owners) > 1:
		return fmt.Errorf("both players hold a complete line")
	case len(owners) == 1 && that.winner != owners[0]:
		return fmt.Errorf("winner %q does not match line owner %q", that.winner, owners[0])
	case len(owners) == 0 && that.winner != NoPlayer:
		return fmt.Errorf("winner %q holds no complete line", that.winner)
	}

	over := that.winner != NoPlayer || that.moveCount == len(that.cells)
	if over != that.over {
		return fmt.Errorf("game over flag %t does not match board", that.over)
	}

	if !that.enforceTurnOrder {
		return nil
	}

	// X always opens, so X is level with O or one piece ahead.
	switch counts[PlayerX] - counts[PlayerO] {
	case 0:
		if that.turn != PlayerX {
			return fmt.Errorf("turn %q after an even number of moves", that.turn)
		}
	case 1:
		if that.turn != PlayerO {
			return fmt.Errorf("turn %q after an odd number of moves", that.turn)
		}
	default:
		return fmt.Errorf("piece counts X=%d O=%d break turn order", counts[PlayerX], counts[PlayerO])
	}

	return nil
}

func (that *Game) MarshalJSON() ([]byte, error) {
	return json.Marshal(that.Snapshot())
}

func (that *Game) UnmarshalJSON(data []byte) error {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrCorruptSnapshot, err)
	}

	restored, err := Restore(snapshot)
	if err != nil {
		return err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.size = restored.size
	that.cells = restored.cells
	that.moveCount = restored.moveCount
	that.turn = restored.turn
	that.winner = restored.winner
	that.over = restored.over
	that.enforceTurnOrder = restored.enforceTurnOrder

	return nil
}
