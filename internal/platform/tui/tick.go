// Package tui provides the Bubble Tea front end for kana drop: the game
// screen, the settings panel, the scoreboard and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/kana-drop/internal/games/kanadrop"
)

// TickMsg is sent once per rendered frame to age the visual effects.
type TickMsg time.Time

// FrameMsg carries a frame published by the game runner.
type FrameMsg kanadrop.Frame

// framesClosedMsg reports that the runner stopped publishing.
type framesClosedMsg struct{}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(frameRate int) tea.Cmd {
	interval := time.Second / time.Duration(frameRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForFrame blocks on the next runner frame.
func waitForFrame(frames <-chan kanadrop.Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-frames
		if !ok {
			return framesClosedMsg{}
		}
		return FrameMsg(f)
	}
}
