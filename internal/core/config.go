package core

import "time"

// RuntimeConfig contains what the platform hands a game view at start-up.
type RuntimeConfig struct {
	ScreenW   int           // Screen width in columns
	ScreenH   int           // Screen height in rows
	FrameRate int           // Animation frames per second for transient effects
	Tick      time.Duration // Fall-tick period of the session engine
	Seed      int64         // RNG seed, 0 means time based
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:   80,
		ScreenH:   24,
		FrameRate: 20,
		Tick:      50 * time.Millisecond,
		Seed:      0,
	}
}
