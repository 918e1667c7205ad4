package kanadrop

import "errors"

var (
	// ErrSettingsLocked is returned when settings are changed outside the
	// Start phase.
	ErrSettingsLocked = errors.New("kanadrop: settings can only change before a session starts")

	// ErrNotRunning is returned by Runner intents once its loop has exited.
	ErrNotRunning = errors.New("kanadrop: runner is not running")
)

// ConfigError reports settings or rules that cannot start a session.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "kanadrop: invalid configuration: " + e.Reason
}
