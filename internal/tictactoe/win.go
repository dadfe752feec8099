package tictactoe

// line maps a step 0..size-1 to the cell it visits.
type line func(step int) (column, row int)

func rowLine(row int) line {
	return func(step int) (int, int) { return step, row }
}

func columnLine(column int) line {
	return func(step int) (int, int) { return column, step }
}

func mainDiagonal() line {
	return func(step int) (int, int) { return step, step }
}

func antiDiagonal(size int) line {
	return func(step int) (int, int) { return step, size - 1 - step }
}

// linesThrough returns the full-length lines passing through (column, row).
func (that *Game) linesThrough(column, row int) []line {
	lines := []line{rowLine(row), columnLine(column)}

	if column == row {
		lines = append(lines, mainDiagonal())
	}

	if column+row == that.size-1 {
		lines = append(lines, antiDiagonal(that.size))
	}

	return lines
}

// allLines returns every row, column and both diagonals of the board.
func (that *Game) allLines() []line {
	lines := make([]line, 0, 2*that.size+2)
	for i := range that.size {
		lines = append(lines, rowLine(i), columnLine(i))
	}

	return append(lines, mainDiagonal(), antiDiagonal(that.size))
}

// completesLine reports whether mover now owns every cell of a line through
// (column, row). Only those lines can have changed with the last placement.
func (that *Game) completesLine(mover Player, column, row int) bool {
	for _, l := range that.linesThrough(column, row) {
		if that.ownsLine(mover, l) {
			return true
		}
	}

	return false
}

func (that *Game) ownsLine(player Player, l line) bool {
	for step := range that.size {
		if that.cells[that.index(l(step))].Owner() != player {
			return false
		}
	}

	return true
}

// lineOwners scans the whole board and returns every player holding a
// complete line.
func (that *Game) lineOwners() []Player {
	var owners []Player
	for _, player := range []Player{PlayerX, PlayerO} {
		for _, l := range that.allLines() {
			if that.ownsLine(player, l) {
				owners = append(owners, player)
				break
			}
		}
	}

	return owners
}
