package tictactoe

import (
	"fmt"

	"github.com/vovakirdan/battle-arcade/internal/core"
)

// Cells are 5 columns by 3 rows with one-character grid lines between them.
const (
	cellW = 5
	cellH = 3
)

var markColors = map[Mark]core.Color{
	X: core.ColorCyan,
	O: core.ColorBrightRed,
}

// Render draws the grid, the cursor and the running tally.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	gridW, gridH := cellW*3+2, cellH*3+2
	ox := max((dst.Width()-gridW)/2, 0)
	oy := max((dst.Height()-gridH)/2, 2)

	for i := 1; i < 3; i++ {
		for y := 0; y < gridH; y++ {
			dst.SetColored(ox+i*(cellW+1)-1, oy+y, '│', core.ColorGray)
		}
		for x := 0; x < gridW; x++ {
			dst.SetColored(ox+x, oy+i*(cellH+1)-1, '─', core.ColorGray)
		}
	}

	winning := make(map[Cell]bool, len(g.lastWin))
	for _, c := range g.lastWin {
		winning[c] = true
	}

	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			cell := Cell{r, c}
			x := ox + c*(cellW+1)
			y := oy + r*(cellH+1)
			if cell == g.cursor && !g.over && g.turn == X {
				dst.DrawBox(core.NewRect(x, y, cellW, cellH), core.ColorBrightYellow)
			}
			m := g.board.At(cell)
			if m == None {
				continue
			}
			col := markColors[m]
			if winning[cell] {
				col = core.ColorBrightGreen
			}
			dst.SetColored(x+cellW/2, y+cellH/2, []rune(m.String())[0], col)
		}
	}

	t := g.tally
	dst.DrawTextCentered(0, fmt.Sprintf("You %d  Computer %d  Draws %d", t.PlayerWins, t.ComputerWins, t.Draws))
	dst.DrawTextCenteredColored(1, "Difficulty: "+string(g.difficulty), core.ColorGray)

	status := "Your move: arrows select, space places"
	switch {
	case g.over:
		status = g.message() + "  R restart  Q quit"
	case g.turn == O:
		status = "Computer is thinking..."
	}
	dst.DrawTextCenteredColored(dst.Height()-1, status, core.ColorWhite)
}
