package tui

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/kana-drop/internal/catalog"
	"github.com/vovakirdan/kana-drop/internal/config"
	"github.com/vovakirdan/kana-drop/internal/core"
	"github.com/vovakirdan/kana-drop/internal/games/kanadrop"
)

// Controller is the part of kanadrop.Runner the game screen drives.
type Controller interface {
	Start() error
	Continue() error
	Type(r rune) error
	Reset() error
	ApplySettings(s kanadrop.Settings) error
	Subscribe() (<-chan kanadrop.Frame, func())
}

// VolumeStep is how much F3 and F4 change the volume.
const VolumeStep = 0.1

// SoundControl is the sound output as seen from the game screen.
type SoundControl interface {
	ToggleMute() bool
	Muted() bool
	Volume() float64
	SetVolume(v float64)
}

// Options configures the game screen.
type Options struct {
	Catalog  *catalog.Catalog
	Settings kanadrop.Settings // settings the runner was created with

	// SaveSettings persists settings chosen in the panel. When nil the
	// choice only applies to this run.
	SaveSettings  func(kanadrop.Settings) error
	AllowSettings bool

	Sound         SoundControl // may be nil
	Width, Height int
	FrameRate     int
	Seed          int64
	ScreenshotDir string
	Logger        *log.Logger
}

// Model is the Bubble Tea model for the game screen.
type Model struct {
	ctl         Controller
	opts        Options
	frames      <-chan kanadrop.Frame
	unsubscribe func()
	snap        kanadrop.Snapshot
	effects     *kanadrop.Effects
	screen      *core.Screen
	keys        *KeyMapper
	settings    *SettingsModel
	status      string
	quitting    bool
}

// NewModel creates the game screen and subscribes it to ctl.
func NewModel(ctl Controller, opts Options) Model {
	def := core.DefaultConfig()
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = def.ScreenW, def.ScreenH
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = def.FrameRate
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.ScreenshotDir == "" {
		opts.ScreenshotDir = filepath.Join(config.DataDir(), "screenshots")
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	frames, unsubscribe := ctl.Subscribe()
	return Model{
		ctl:         ctl,
		opts:        opts,
		frames:      frames,
		unsubscribe: unsubscribe,
		effects:     kanadrop.NewEffects(opts.Seed),
		screen:      core.NewScreen(opts.Width, opts.Height),
		keys:        NewKeyMapper(),
	}
}

// Init starts listening for frames and starts the effect clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForFrame(m.frames), tickCmd(m.opts.FrameRate))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.settings != nil {
			return m.updateSettings(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case FrameMsg:
		m.snap = msg.Snapshot
		for _, e := range msg.Events {
			m.effects.OnEvent(e)
		}
		return m, waitForFrame(m.frames)

	case framesClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case TickMsg:
		m.effects.Step()
		return m, tickCmd(m.opts.FrameRate)
	}

	return m, nil
}

// handleKey processes keyboard input on the game screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	action, r := m.keys.MapKey(msg, m.snap.Phase == kanadrop.PhasePlaying)

	switch action {
	case core.ActionQuit, core.ActionBack:
		m.quitting = true
		return m, tea.Quit
	case core.ActionScreenshot:
		m.saveScreenshot()
	case core.ActionMute:
		if m.opts.Sound != nil {
			if m.opts.Sound.ToggleMute() {
				m.status = "Sound off"
			} else {
				m.status = "Sound on"
			}
		}
	case core.ActionVolumeDown:
		m.changeVolume(-VolumeStep)
	case core.ActionVolumeUp:
		m.changeVolume(VolumeStep)
	case core.ActionConfirm:
		return m.confirm()
	case core.ActionSettings:
		return m.openSettings()
	case core.ActionType:
		return m.check(m.ctl.Type(r))
	}
	return m, nil
}

func (m *Model) changeVolume(delta float64) {
	if m.opts.Sound == nil {
		return
	}
	m.opts.Sound.SetVolume(m.opts.Sound.Volume() + delta)
	m.status = fmt.Sprintf("Volume %d%%", int(math.Round(m.opts.Sound.Volume()*100)))
	if m.opts.Sound.Muted() {
		m.status += " (muted, F2 to unmute)"
	}
}

// confirm starts, continues or restarts depending on the phase.
func (m Model) confirm() (tea.Model, tea.Cmd) {
	switch m.snap.Phase {
	case kanadrop.PhaseStart, kanadrop.PhaseGameOver, kanadrop.PhaseClear:
		return m.check(m.ctl.Start())
	case kanadrop.PhaseStageClear:
		return m.check(m.ctl.Continue())
	}
	return m, nil
}

func (m Model) openSettings() (tea.Model, tea.Cmd) {
	if !m.opts.AllowSettings {
		return m, nil
	}
	switch {
	case m.snap.Phase == kanadrop.PhaseStart:
	case m.snap.Phase.Terminal():
		if err := m.ctl.Reset(); err != nil {
			return m.check(err)
		}
	default:
		return m, nil
	}
	panel := NewSettingsModel(m.opts.Catalog, m.opts.Settings, m.screen.Width(), m.screen.Height())
	m.settings = &panel
	return m, nil
}

func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	next, _ := m.settings.Update(msg)
	panel := next.(SettingsModel)

	if !panel.Done() {
		m.settings = &panel
		return m, nil
	}
	m.settings = nil
	if panel.Canceled() {
		return m, nil
	}

	chosen := panel.Settings()
	if err := m.ctl.ApplySettings(chosen); err != nil {
		return m.check(err)
	}
	m.opts.Settings = chosen
	m.status = "Settings applied"

	if m.opts.SaveSettings != nil {
		if err := m.opts.SaveSettings(chosen); err != nil {
			m.opts.Logger.Warn("could not save settings", "err", err)
			m.status = "Settings applied, but not saved"
		} else {
			m.status = "Settings saved"
		}
	}
	return m, nil
}

// check handles an error returned by the runner.
func (m Model) check(err error) (tea.Model, tea.Cmd) {
	if err == nil {
		return m, nil
	}
	if errors.Is(err, kanadrop.ErrNotRunning) {
		m.quitting = true
		return m, tea.Quit
	}
	m.opts.Logger.Warn("game rejected input", "err", err)
	m.status = err.Error()
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.screen.Resize(msg.Width, msg.Height)
	if m.settings != nil {
		next, _ := m.settings.Update(msg)
		panel := next.(SettingsModel)
		m.settings = &panel
	}
	return m, nil
}

// saveScreenshot saves the current frame as plain text.
func (m *Model) saveScreenshot() {
	m.draw()

	if err := os.MkdirAll(m.opts.ScreenshotDir, 0o755); err != nil {
		m.opts.Logger.Warn("could not create screenshot directory", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(m.opts.ScreenshotDir, fmt.Sprintf("kanadrop_%s.txt", timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.opts.Logger.Warn("could not save screenshot", "err", err)
		return
	}
	m.opts.Logger.Info("screenshot saved", "path", path)
	m.status = "Saved " + path
}

func (m Model) draw() {
	kanadrop.Render(m.screen, m.snap, m.effects)
	if m.status == "" {
		return
	}
	h := m.screen.Height()
	m.screen.DrawHLine(0, h-1, m.screen.Width(), ' ', core.ColorDefault)
	m.screen.DrawTextCentered(h-1, m.status, core.ColorBrightYellow)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.settings != nil {
		return m.settings.View()
	}
	m.draw()
	return RenderScreen(m.screen)
}

// Snapshot returns the last state received from the runner.
func (m Model) Snapshot() kanadrop.Snapshot {
	return m.snap
}

// SettingsOpen reports whether the settings panel is showing.
func (m Model) SettingsOpen() bool {
	return m.settings != nil
}

// Close cancels the frame subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Run starts the Bubble Tea program for the game screen and blocks until
// the player quits.
func Run(ctl Controller, opts Options) error {
	model := NewModel(ctl, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.Close()
	} else {
		model.Close()
	}
	return err
}
