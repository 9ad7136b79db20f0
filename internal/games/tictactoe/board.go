// Package tictactoe is noughts and crosses against a computer that blocks
// and takes wins, but slips up depending on the difficulty.
package tictactoe

// Mark is the content of a cell.
type Mark uint8

const (
	None Mark = iota
	X         // the player
	O         // the computer
)

func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	}
	return " "
}

// Cell addresses a square on the board.
type Cell struct {
	Row, Col int
}

// Board is the 3x3 grid.
type Board [3][3]Mark

var lines = [8][3]Cell{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// At returns the mark in c.
func (b Board) At(c Cell) Mark {
	return b[c.Row][c.Col]
}

// Wins reports whether m holds a full row, column or diagonal.
func (b *Board) Wins(m Mark) bool {
	for _, line := range lines {
		if b.At(line[0]) == m && b.At(line[1]) == m && b.At(line[2]) == m {
			return true
		}
	}
	return false
}

// Full reports whether no cell is empty.
func (b *Board) Full() bool {
	return len(b.EmptyCells()) == 0
}

// EmptyCells lists empty cells in row-major order.
func (b Board) EmptyCells() []Cell {
	var cells []Cell
	for r := range b {
		for c := range b[r] {
			if b[r][c] == None {
				cells = append(cells, Cell{r, c})
			}
		}
	}
	return cells
}
