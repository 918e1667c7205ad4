package core

// Color represents a foreground color for a screen cell.
// Values map onto ANSI 256-color codes in the platform renderer.
type Color uint8

// Palette used by the play field, HUD and overlays.
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
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorSlate
	ColorEmerald
	ColorViolet
	ColorAmber
	ColorRose
	ColorFuchsia
	ColorLime
	ColorSky
)

// stageTints gives every stage of the default catalog its own frame color.
var stageTints = map[int]Color{
	1:  ColorSlate,
	2:  ColorEmerald,
	3:  ColorViolet,
	4:  ColorAmber,
	5:  ColorRose,
	6:  ColorCyan,
	7:  ColorFuchsia,
	8:  ColorLime,
	9:  ColorOrange,
	10: ColorSky,
}

// StageTint returns the frame color for a stage id, gray for unknown stages.
func StageTint(stageID int) Color {
	if c, ok := stageTints[stageID]; ok {
		return c
	}
	return ColorGray
}
