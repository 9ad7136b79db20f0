package tanks

import (
	"fmt"
	"math"

	"github.com/vovakirdan/battle-arcade/internal/core"
)

// Visual characters for rendering
const (
	ObstacleChar = '█'
	BaseChar     = '▓'
	TankChar     = '■'
	WreckChar    = 'x'
	BulletChar   = '•'
)

var sideColors = [2]core.Color{core.ColorBrightBlue, core.ColorBrightRed}

// Render draws the battle scaled to the screen.
func (g *Game) Render(dst *core.Screen) {
	snap := g.session.Snapshot()
	snap.Paused = g.paused
	RenderSnapshot(dst, snap, g.hint())
}

func (g *Game) hint() string {
	switch {
	case g.online:
		return "Arrows move  Space fire"
	case g.setup.Players == 2:
		return "P1: W/X/A/D + S   P2: Arrows + Space   P pause"
	default:
		return "Arrows move  Space fire  P pause"
	}
}

// viewport maps world units to the screen area below the HUD line and
// above the hint line.
type viewport struct {
	top    int
	sx, sy float64
}

func newViewport(dst *core.Screen) viewport {
	h := max(dst.Height()-2, 1)
	return viewport{top: 1, sx: float64(dst.Width()) / WorldW, sy: float64(h) / WorldH}
}

func (v viewport) point(p core.Vec) (int, int) {
	return int(math.Floor(p.X * v.sx)), v.top + int(math.Floor(p.Y*v.sy))
}

func (v viewport) rect(b core.Box) core.Rect {
	x0, y0 := v.point(core.Vec{X: b.X, Y: b.Y})
	x1, y1 := v.point(core.Vec{X: b.X + b.W, Y: b.Y + b.H})
	return core.NewRect(x0, y0, max(x1-x0, 1), max(y1-y0, 1))
}

// RenderSnapshot draws a snapshot. hint is shown on the bottom line.
func RenderSnapshot(dst *core.Screen, snap Snapshot, hint string) {
	dst.Clear()
	v := newViewport(dst)

	for _, o := range snap.Obstacles {
		dst.DrawRect(v.rect(o), ObstacleChar, core.ColorGray)
	}
	for i, b := range snap.Bases {
		if snap.BaseHP[i] > 0 {
			dst.DrawRect(v.rect(b), BaseChar, sideColors[i])
		}
	}
	for i, t := range snap.Tanks {
		r := v.rect(hitboxAt(t.Pos))
		if t.Alive {
			dst.DrawRect(r, TankChar, sideColors[i])
		} else {
			dst.DrawRect(r, WreckChar, core.ColorGray)
		}
	}
	for i, p := range snap.Bullets {
		x, y := v.point(p)
		dst.SetColored(x, y, BulletChar, sideColors[snap.Owners[i]])
	}

	left := fmt.Sprintf(" %s Lv%d  base HP %d", snap.Tanks[Tank1].Label, snap.Tanks[Tank1].Level, snap.BaseHP[Tank1])
	right := fmt.Sprintf("%s Lv%d  base HP %d ", snap.Tanks[Tank2].Label, snap.Tanks[Tank2].Level, snap.BaseHP[Tank2])
	dst.DrawTextColored(0, 0, left, sideColors[Tank1])
	dst.DrawTextColored(dst.Width()-len(right), 0, right, sideColors[Tank2])
	dst.DrawTextCenteredColored(dst.Height()-1, hint, core.ColorGray)

	switch {
	case snap.Ended:
		drawMessage(dst, "GAME OVER", snap.Reason, "R restart  Q quit")
	case snap.Paused:
		drawMessage(dst, "PAUSED", "Press P to resume", "")
	}
}

// drawMessage draws a framed message box in the middle of the screen.
func drawMessage(dst *core.Screen, title, body, footer string) {
	w := max(len(title), len(body), len(footer)) + 4
	h := 5
	if footer != "" {
		h = 6
	}
	box := core.NewRect((dst.Width()-w)/2, (dst.Height()-h)/2, w, h)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorWhite)
	dst.DrawTextCenteredColored(box.Y+1, title, core.ColorBrightYellow)
	dst.DrawTextCenteredColored(box.Y+3, body, core.ColorWhite)
	if footer != "" {
		dst.DrawTextCenteredColored(box.Y+4, footer, core.ColorGray)
	}
}
