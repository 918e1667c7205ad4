package core

// Action represents a player intent, abstracted from physical key presses.
type Action int

const (
	ActionNone       Action = iota
	ActionConfirm           // Space, Enter - start, continue or restart
	ActionType              // A Latin letter typed at the falling prompt
	ActionSettings          // V on the title screen - open the settings panel
	ActionMute              // F2 - toggle sound
	ActionVolumeDown        // F3
	ActionVolumeUp          // F4
	ActionBack              // Esc - back to the title screen or close a panel
	ActionScreenshot        // Ctrl+S - dump the screen to a text file
	ActionQuit              // Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionConfirm:
		return "Confirm"
	case ActionType:
		return "Type"
	case ActionSettings:
		return "Settings"
	case ActionMute:
		return "Mute"
	case ActionVolumeDown:
		return "VolumeDown"
	case ActionVolumeUp:
		return "VolumeUp"
	case ActionBack:
		return "Back"
	case ActionScreenshot:
		return "Screenshot"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
