// Package config provides YAML-based configuration loading and saving for
// kana-drop: which stages to play, how fast, and the game timings.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/kana-drop/internal/catalog"
	"github.com/vovakirdan/kana-drop/internal/games/kanadrop"
)

// Speed bounds offered by the settings panel.
const (
	MinSpeed = 1
	MaxSpeed = 5
)

// Config is the full game configuration.
type Config struct {
	Settings SettingsConfig `yaml:"settings"`
	Rules    RulesConfig    `yaml:"rules"`
	Timing   TimingConfig   `yaml:"timing"`
	Audio    AudioConfig    `yaml:"audio"`
}

// SettingsConfig selects the stages and fall speed.
// Stages, when set, wins over Groups.
type SettingsConfig struct {
	Groups []string `yaml:"groups,omitempty"`
	Stages []int    `yaml:"stages,omitempty"`
	Speed  float64  `yaml:"speed"`
}

// RulesConfig overrides the fixed game parameters.
type RulesConfig struct {
	Lives             int `yaml:"lives"`
	QuestionsPerStage int `yaml:"questions_per_stage"`
	InterleavePeriod  int `yaml:"interleave_period"` // 0 disables the F/J drills
}

// TimingConfig defines the loop timings in milliseconds.
type TimingConfig struct {
	TickMS       int `yaml:"tick_ms"`
	TransitionMS int `yaml:"transition_ms"`
}

// AudioConfig controls the sound effects.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // 0.0 to 1.0
}

// Validate reports the first problem found in the configuration.
func (c Config) Validate() error {
	var problems []string

	if c.Settings.Speed < MinSpeed || c.Settings.Speed > MaxSpeed {
		problems = append(problems, fmt.Sprintf("speed %v outside %d-%d", c.Settings.Speed, MinSpeed, MaxSpeed))
	}
	if len(c.Settings.Stages) == 0 {
		stages, unknown := catalog.ResolveGroups(c.Settings.Groups)
		if len(unknown) > 0 {
			problems = append(problems, "unknown groups: "+strings.Join(unknown, ", "))
		} else if len(stages) == 0 {
			problems = append(problems, "no stages or groups selected")
		}
	}
	if c.Rules.Lives <= 0 {
		problems = append(problems, "rules.lives must be positive")
	}
	if c.Rules.QuestionsPerStage <= 0 {
		problems = append(problems, "rules.questions_per_stage must be positive")
	}
	if c.Rules.InterleavePeriod < 0 {
		problems = append(problems, "rules.interleave_period must not be negative")
	}
	if c.Timing.TickMS <= 0 {
		problems = append(problems, "timing.tick_ms must be positive")
	}
	if c.Timing.TransitionMS < 0 {
		problems = append(problems, "timing.transition_ms must not be negative")
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		problems = append(problems, fmt.Sprintf("audio.volume %v outside 0-1", c.Audio.Volume))
	}

	if len(problems) > 0 {
		return errors.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// StageList returns the stages to play in order.
func (c Config) StageList() []int {
	if len(c.Settings.Stages) > 0 {
		return append([]int(nil), c.Settings.Stages...)
	}
	stages, _ := catalog.ResolveGroups(c.Settings.Groups)
	return stages
}

// GameSettings converts the configuration into session settings.
func (c Config) GameSettings() kanadrop.Settings {
	return kanadrop.Settings{Stages: c.StageList(), Speed: c.Settings.Speed}
}

// GameRules converts the configuration into session rules.
func (c Config) GameRules() kanadrop.Rules {
	r := kanadrop.DefaultRules()
	r.Lives = c.Rules.Lives
	r.QuestionsPerStage = c.Rules.QuestionsPerStage
	r.InterleavePeriod = c.Rules.InterleavePeriod
	return r
}

// RunnerOptions converts the timings into runner options.
func (c Config) RunnerOptions() kanadrop.RunnerOptions {
	return kanadrop.RunnerOptions{
		TickInterval:    time.Duration(c.Timing.TickMS) * time.Millisecond,
		TransitionDelay: time.Duration(c.Timing.TransitionMS) * time.Millisecond,
	}
}

// WithSettings returns a copy of c carrying the given session settings.
// Stage lists that map exactly onto groups are stored as groups.
func (c Config) WithSettings(s kanadrop.Settings) Config {
	c.Settings.Speed = s.Speed
	groups := catalog.GroupsFor(s.Stages)
	if resolved, _ := catalog.ResolveGroups(groups); equalInts(resolved, s.Stages) {
		c.Settings.Groups = groups
		c.Settings.Stages = nil
	} else {
		c.Settings.Groups = nil
		c.Settings.Stages = append([]int(nil), s.Stages...)
	}
	return c
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
