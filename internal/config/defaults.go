package config

import (
	_ "embed"
)

//go:embed defaults/kanadrop.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration: every stage group at
// speed 2 with the standard rules.
func DefaultConfig() Config {
	return Config{
		Settings: SettingsConfig{
			Groups: []string{"basic", "a", "ka", "sa", "ta", "na", "ha", "ma", "ya", "wa"},
			Speed:  2,
		},
		Rules: RulesConfig{
			Lives:             10,
			QuestionsPerStage: 20,
			InterleavePeriod:  3,
		},
		Timing: TimingConfig{
			TickMS:       50,
			TransitionMS: 500,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.8,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
