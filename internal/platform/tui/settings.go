package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/kana-drop/internal/catalog"
	"github.com/vovakirdan/kana-drop/internal/config"
	"github.com/vovakirdan/kana-drop/internal/games/kanadrop"
)

// SettingsKeyMap defines the key bindings for the settings panel.
type SettingsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	All    key.Binding
	Slower key.Binding
	Faster key.Binding
	Save   key.Binding
	Back   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SettingsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.All, k.Slower, k.Faster, k.Save, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k SettingsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.All},
		{k.Slower, k.Faster, k.Save, k.Back},
	}
}

// DefaultSettingsKeyMap returns default key bindings.
func DefaultSettingsKeyMap() SettingsKeyMap {
	return SettingsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle"),
		),
		All: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all/none"),
		),
		Slower: key.NewBinding(
			key.WithKeys("left", "h", "-"),
			key.WithHelp("left", "slower"),
		),
		Faster: key.NewBinding(
			key.WithKeys("right", "l", "+"),
			key.WithHelp("right", "faster"),
		),
		Save: key.NewBinding(
			key.WithKeys("s", "ctrl+s"),
			key.WithHelp("s", "save"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// SettingsModel is the panel for choosing stage groups and fall speed.
// It runs inside the game model or as its own program.
type SettingsModel struct {
	cat      *catalog.Catalog
	groups   []catalog.Group
	selected map[string]bool
	speed    int
	cursor   int
	keys     SettingsKeyMap
	help     help.Model
	width    int
	height   int
	problem  string
	saved    bool
	canceled bool
}

// NewSettingsModel opens the panel on the current settings.
func NewSettingsModel(cat *catalog.Catalog, current kanadrop.Settings, width, height int) SettingsModel {
	selected := make(map[string]bool)
	for _, id := range catalog.GroupsFor(current.Stages) {
		selected[id] = true
	}
	speed := int(math.Round(current.Speed))
	speed = min(max(speed, config.MinSpeed), config.MaxSpeed)

	return SettingsModel{
		cat:      cat,
		groups:   catalog.Groups,
		selected: selected,
		speed:    speed,
		keys:     DefaultSettingsKeyMap(),
		help:     help.New(),
		width:    width,
		height:   height,
	}
}

// Init initializes the model.
func (m SettingsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg), nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m SettingsModel) handleKey(msg tea.KeyMsg) SettingsModel {
	m.problem = ""
	rows := len(m.groups) + 1 // groups, then speed

	switch {
	case key.Matches(msg, m.keys.Back):
		m.canceled = true
	case key.Matches(msg, m.keys.Up):
		m.cursor = (m.cursor - 1 + rows) % rows
	case key.Matches(msg, m.keys.Down):
		m.cursor = (m.cursor + 1) % rows
	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(m.groups) {
			id := m.groups[m.cursor].ID
			m.selected[id] = !m.selected[id]
		}
	case key.Matches(msg, m.keys.All):
		all := len(m.selectedIDs()) < len(m.groups)
		for _, g := range m.groups {
			m.selected[g.ID] = all
		}
	case key.Matches(msg, m.keys.Slower):
		if m.cursor == len(m.groups) && m.speed > config.MinSpeed {
			m.speed--
		}
	case key.Matches(msg, m.keys.Faster):
		if m.cursor == len(m.groups) && m.speed < config.MaxSpeed {
			m.speed++
		}
	case key.Matches(msg, m.keys.Save):
		if err := m.Settings().Validate(m.cat); err != nil {
			m.problem = "Select at least one group"
			return m
		}
		m.saved = true
	}
	return m
}

func (m SettingsModel) selectedIDs() []string {
	var ids []string
	for _, g := range m.groups {
		if m.selected[g.ID] {
			ids = append(ids, g.ID)
		}
	}
	return ids
}

// Settings returns the settings currently chosen in the panel.
func (m SettingsModel) Settings() kanadrop.Settings {
	stages, _ := catalog.ResolveGroups(m.selectedIDs())
	return kanadrop.Settings{Stages: stages, Speed: float64(m.speed)}
}

// Saved reports whether the user confirmed the panel.
func (m SettingsModel) Saved() bool {
	return m.saved
}

// Canceled reports whether the user backed out without saving.
func (m SettingsModel) Canceled() bool {
	return m.canceled
}

// Done reports whether the panel has closed either way.
func (m SettingsModel) Done() bool {
	return m.saved || m.canceled
}

// View renders the panel.
func (m SettingsModel) View() string {
	if m.Done() {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	var body strings.Builder
	body.WriteString(titleStyle.Render("SETTINGS"))
	body.WriteString("\n\n")
	body.WriteString(dimStyle.Render("Stage groups"))
	body.WriteString("\n")

	for i, g := range m.groups {
		mark := "[ ]"
		if m.selected[g.ID] {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, g.Label)
		if i == m.cursor {
			line = activeStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		body.WriteString(line)
		body.WriteString("\n")
	}

	body.WriteString("\n")
	speed := fmt.Sprintf("Speed  < %d >  %s", m.speed, strings.Repeat("■", m.speed)+strings.Repeat("□", config.MaxSpeed-m.speed))
	if m.cursor == len(m.groups) {
		speed = activeStyle.Render("> " + speed)
	} else {
		speed = "  " + speed
	}
	body.WriteString(speed)
	body.WriteString("\n")

	if m.problem != "" {
		body.WriteString("\n")
		body.WriteString(warnStyle.Render(m.problem))
		body.WriteString("\n")
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(1, 3).
		Render(body.String())

	var b strings.Builder
	b.WriteString("\n")
	for _, line := range strings.Split(panel, "\n") {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render(m.help.View(m.keys)), m.width))
	return b.String()
}

// RunSettings runs the settings panel as its own program and returns the
// chosen settings, or false if the user canceled.
func RunSettings(cat *catalog.Catalog, current kanadrop.Settings, width, height int) (kanadrop.Settings, bool, error) {
	model := NewSettingsModel(cat, current, width, height)

	p := tea.NewProgram(
		quitWhenDone{model},
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return current, false, err
	}

	m, ok := finalModel.(quitWhenDone)
	if !ok || !m.Saved() {
		return current, false, nil
	}
	return m.Settings(), true, nil
}

// quitWhenDone ends a standalone settings program once the panel closes.
type quitWhenDone struct {
	SettingsModel
}

func (q quitWhenDone) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := q.SettingsModel.Update(msg)
	q.SettingsModel = next.(SettingsModel)
	if q.Done() {
		return q, tea.Quit
	}
	return q, cmd
}

// centerText pads text on the left so it sits in the middle of width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
