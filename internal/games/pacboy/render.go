package pacboy

import (
	"fmt"

	"github.com/vovakirdan/battle-arcade/internal/core"
)

// Each tile is drawn two columns wide so the board keeps its shape.
const tileW = 2

// Render draws the board centered on the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	w, h := g.board.Width()*tileW, g.board.Height()
	ox := max((dst.Width()-w)/2, 0)
	oy := max((dst.Height()-h)/2, 1)

	for y := 0; y < g.board.Height(); y++ {
		for x := 0; x < g.board.Width(); x++ {
			sx := ox + x*tileW
			switch g.board.At(Point{x, y}) {
			case Wall:
				dst.DrawTextColored(sx, oy+y, "██", core.ColorBlue)
			case Pellet:
				dst.SetColored(sx+1, oy+y, '·', core.ColorWhite)
			}
		}
	}

	for _, gh := range g.ghosts {
		dst.SetColored(ox+gh.Pos.X*tileW, oy+gh.Pos.Y, 'ᗣ', gh.Color)
	}
	dst.SetColored(ox+g.player.X*tileW, oy+g.player.Y, 'ᗧ', core.ColorBrightYellow)

	dst.DrawTextColored(1, 0, fmt.Sprintf("Score: %d", g.score), core.ColorBrightYellow)
	left := fmt.Sprintf("Pellets: %d ", g.board.Pellets())
	dst.DrawText(dst.Width()-len(left), 0, left)

	switch {
	case g.status == Won:
		g.drawBanner(dst, "YOU WIN!", core.ColorBrightGreen)
	case g.status == Lost:
		g.drawBanner(dst, "GAME OVER!", core.ColorBrightRed)
	case g.paused:
		g.drawBanner(dst, "PAUSED", core.ColorBrightYellow)
	default:
		dst.DrawTextCenteredColored(dst.Height()-1, "Arrows move one tile  P pause  Q quit", core.ColorGray)
	}
}

func (g *Game) drawBanner(dst *core.Screen, title string, c core.Color) {
	sub := fmt.Sprintf("Score %d  |  R restart  Q quit", g.score)
	if g.paused && g.status == Running {
		sub = "Press P to resume"
	}
	w := max(len(title), len(sub)) + 4
	box := core.NewRect((dst.Width()-w)/2, (dst.Height()-5)/2, w, 5)
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorWhite)
	dst.DrawTextCenteredColored(box.Y+1, title, c)
	dst.DrawTextCenteredColored(box.Y+3, sub, core.ColorGray)
}
