package kanadrop

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/kana-drop/internal/core"
)

// Minimum terminal size for the play field.
const (
	MinScreenW = 40
	MinScreenH = 14
)

// Visual characters.
const (
	HeartFull  = '♥'
	HeartEmpty = '♡'
	SparkChar  = '•'
	CursorChar = '_'
)

// Render draws snap and the active effects onto dst.
// fx may be nil.
func Render(dst *core.Screen, snap Snapshot, fx *Effects) {
	dst.Clear()

	if dst.Width() < MinScreenW || dst.Height() < MinScreenH {
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small", core.ColorYellow)
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", MinScreenW, MinScreenH), core.ColorGray)
		return
	}
	if fx == nil {
		fx = &Effects{}
	}

	renderHUD(dst, snap, fx)

	field := core.NewRect(fx.ShakeOffset(), 2, dst.Width(), dst.Height()-4)
	dst.DrawBox(field, core.StageTint(snap.Stage))
	inner := field.Inset(1)

	if snap.Phase == PhasePlaying {
		renderPrompt(dst, inner, snap)
	}
	renderEffects(dst, inner, fx)
	renderInput(dst, snap)
	renderOverlay(dst, snap)
}

// fieldPoint maps a prompt position onto the field.
// The field spans from the spawn line to the floor.
func fieldPoint(inner core.Rect, x, y float64) (int, int) {
	py := (y - SpawnY) / (MaxHeight - SpawnY) * 100
	return inner.Project(x, py)
}

// renderHUD draws stage, progress, lives and score on the first two rows.
func renderHUD(dst *core.Screen, snap Snapshot, fx *Effects) {
	stageText := fmt.Sprintf("Stage %d %s  Q %d/%d", snap.Stage, snap.StageName, snap.Question, snap.Questions)
	dst.DrawTextColor(1, 0, stageText, core.ColorBrightWhite)

	hearts := core.TextWidth(strings.Repeat(string(HeartFull), snap.MaxLife))
	x := (dst.Width() - hearts) / 2
	for i := 0; i < snap.MaxLife; i++ {
		if i < snap.Life {
			x += dst.SetColor(x, 0, HeartFull, core.ColorRed)
		} else {
			x += dst.SetColor(x, 0, HeartEmpty, core.ColorGray)
		}
	}

	scoreColor := core.ColorBrightWhite
	if fx.Pulse > 0 {
		scoreColor = core.ColorBrightGreen
	}
	scoreText := fmt.Sprintf("Score %d", snap.Score)
	bestText := fmt.Sprintf("  Best %d", snap.HighScore)
	right := dst.Width() - core.TextWidth(scoreText+bestText) - 1
	dst.DrawTextColor(right, 0, scoreText, scoreColor)
	dst.DrawTextColor(right+core.TextWidth(scoreText), 0, bestText, core.ColorGray)

	progress := 0
	if snap.Questions > 0 {
		progress = core.Clamp(snap.Question*dst.Width()/snap.Questions, 0, dst.Width())
	}
	dst.DrawHLine(0, 1, progress, '━', core.StageTint(snap.Stage))
	dst.DrawHLine(progress, 1, dst.Width()-progress, '─', core.ColorGray)
}

func renderPrompt(dst *core.Screen, inner core.Rect, snap Snapshot) {
	p := snap.Prompt
	if p == nil {
		return
	}
	cx, cy := fieldPoint(inner, p.X, p.Y)
	if !inner.Contains(cx, cy) {
		return
	}

	glyph := string(p.Glyph)
	dst.DrawTextColor(cx-core.TextWidth(glyph)/2, cy, glyph, core.ColorBrightWhite)

	if snap.ShowHint && p.Hint != "" && inner.Contains(cx, cy+1) {
		hint := string(p.Hint)
		dst.DrawTextColor(cx-core.TextWidth(hint)/2, cy+1, hint, core.ColorGray)
	}
}

func renderEffects(dst *core.Screen, inner core.Rect, fx *Effects) {
	for _, p := range fx.Particles {
		x, y := fieldPoint(inner, p.X, p.Y)
		if inner.Contains(x, y) {
			dst.SetColor(x, y, SparkChar, p.Color)
		}
	}
	for _, p := range fx.Popups {
		x, y := fieldPoint(inner, p.X, p.Y)
		label := "+" + strconv.Itoa(p.Points)
		if inner.Contains(x, y) {
			dst.DrawTextColor(x, y, label, core.ColorBrightYellow)
		}
	}
}

// renderInput draws the typed buffer and the key help on the last rows.
func renderInput(dst *core.Screen, snap Snapshot) {
	h := dst.Height()
	if snap.Phase == PhasePlaying {
		dst.DrawTextCentered(h-2, "> "+snap.Buffer+string(CursorChar), core.ColorBrightCyan)
	}

	var help string
	switch snap.Phase {
	case PhaseStart:
		help = "SPACE start  v settings  F2 mute  F3/F4 volume  esc quit"
	case PhasePlaying:
		help = "type the romaji  F2 mute  esc quit"
	case PhaseStageClear:
		help = "SPACE next stage  esc quit"
	default:
		help = "SPACE play again  v settings  esc quit"
	}
	dst.DrawTextCentered(h-1, help, core.ColorGray)
}

func renderOverlay(dst *core.Screen, snap Snapshot) {
	switch snap.Phase {
	case PhaseStart:
		drawCenteredBox(dst, core.ColorBrightBlue,
			"KANA DROP",
			fmt.Sprintf("High score: %d", snap.HighScore),
			"Speed: "+formatSpeed(snap.Speed),
			"Press SPACE to start",
		)

	case PhaseStageClear:
		next := "Press SPACE for the next stage"
		if snap.Transitioning {
			next = "Get ready..."
		}
		drawCenteredBox(dst, core.ColorBrightGreen,
			"STAGE CLEAR!",
			fmt.Sprintf("Score: %d", snap.Score),
			next,
		)

	case PhaseGameOver:
		lines := []string{"GAME OVER", fmt.Sprintf("Final score: %d", snap.Score)}
		if snap.NewRecord {
			lines = append(lines, "New high score!")
		}
		lines = append(lines,
			fmt.Sprintf("Stage %d - %d/%d cleared", snap.Stage, snap.Question, snap.Questions),
			"Press SPACE to restart",
		)
		drawCenteredBox(dst, core.ColorSlate, lines...)

	case PhaseClear:
		lines := []string{"ALL STAGES CLEAR!", fmt.Sprintf("Final score: %d", snap.Score)}
		if snap.NewRecord {
			lines = append(lines, "New high score!")
		}
		lines = append(lines, "Press SPACE to play again")
		drawCenteredBox(dst, core.ColorBrightYellow, lines...)
	}
}

// drawCenteredBox draws a framed message box; the first line is the title.
func drawCenteredBox(dst *core.Screen, c core.Color, lines ...string) {
	boxW := 0
	for _, l := range lines {
		boxW = core.Max(boxW, core.TextWidth(l))
	}
	boxW += 4
	boxH := len(lines) + 3
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box, c)

	dst.DrawTextCentered(box.Y+1, lines[0], c)
	for i, l := range lines[1:] {
		dst.DrawTextCentered(box.Y+3+i, l, core.ColorBrightWhite)
	}
}

func formatSpeed(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
