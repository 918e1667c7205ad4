package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/kana-drop/internal/core"
)

// KeyMapper translates Bubble Tea key messages to game actions.
// Letters belong to the typing field, so every other command sits on a
// key that cannot be part of a spelling.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an action. For ActionType the typed
// letter is returned as well. While typing is false the letter v opens the
// settings panel instead.
func (km *KeyMapper) MapKey(msg tea.KeyMsg, typing bool) (core.Action, rune) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return core.ActionQuit, 0
	case tea.KeyEsc:
		return core.ActionBack, 0
	case tea.KeyCtrlS:
		return core.ActionScreenshot, 0
	case tea.KeyF2:
		return core.ActionMute, 0
	case tea.KeyF3:
		return core.ActionVolumeDown, 0
	case tea.KeyF4:
		return core.ActionVolumeUp, 0
	case tea.KeySpace, tea.KeyEnter:
		return core.ActionConfirm, 0
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return core.ActionNone, 0
		}
		r := msg.Runes[0]
		if !isLetter(r) {
			return core.ActionNone, 0
		}
		if !typing {
			if r == 'v' || r == 'V' {
				return core.ActionSettings, 0
			}
			return core.ActionNone, 0
		}
		return core.ActionType, r
	}
	return core.ActionNone, 0
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
