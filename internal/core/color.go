package core

// Color is a foreground color hint for a screen cell.
// The platform maps each value to an ANSI 256-color code.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorPink
	ColorOrange
	ColorGray
	ColorBrown
)

// String returns the color name, used in debug dumps and tests.
func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorYellow:
		return "yellow"
	case ColorBlue:
		return "blue"
	case ColorMagenta:
		return "magenta"
	case ColorCyan:
		return "cyan"
	case ColorWhite:
		return "white"
	case ColorBrightRed:
		return "bright-red"
	case ColorBrightGreen:
		return "bright-green"
	case ColorBrightYellow:
		return "bright-yellow"
	case ColorBrightBlue:
		return "bright-blue"
	case ColorPink:
		return "pink"
	case ColorOrange:
		return "orange"
	case ColorGray:
		return "gray"
	case ColorBrown:
		return "brown"
	default:
		return "default"
	}
}
