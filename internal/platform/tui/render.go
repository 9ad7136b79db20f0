package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/battle-arcade/internal/core"
)

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

// colorStyles maps screen colors to ANSI 256 styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:      lipgloss.NewStyle(),
	core.ColorRed:          fg("1"),
	core.ColorGreen:        fg("2"),
	core.ColorYellow:       fg("3"),
	core.ColorBlue:         fg("4"),
	core.ColorMagenta:      fg("5"),
	core.ColorCyan:         fg("6"),
	core.ColorWhite:        fg("7"),
	core.ColorBrightRed:    fg("9"),
	core.ColorBrightGreen:  fg("10"),
	core.ColorBrightYellow: fg("11"),
	core.ColorBrightBlue:   fg("12"),
	core.ColorPink:         fg("218"),
	core.ColorOrange:       fg("208"),
	core.ColorGray:         fg("245"),
	core.ColorBrown:        fg("130"),
}

// RenderScreen turns a Screen into styled terminal text, one style run
// per stretch of same-colored cells.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < s.Width(); {
			color := s.GetCell(x, y).Color
			run.Reset()
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}
			style, ok := colorStyles[color]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
