package config

import "fmt"

// DifficultyPreset is a named fall speed.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyInsane DifficultyPreset = "insane"
)

// SpeedForPreset returns the speed multiplier for a preset.
func SpeedForPreset(preset DifficultyPreset) (float64, error) {
	switch preset {
	case DifficultyEasy:
		return 1, nil
	case DifficultyNormal:
		return 2, nil
	case DifficultyHard:
		return 4, nil
	case DifficultyInsane:
		return MaxSpeed, nil
	default:
		return 0, fmt.Errorf("config: unknown difficulty %q (easy, normal, hard, insane)", preset)
	}
}

// ApplyDifficultyPreset sets the speed from a preset.
func ApplyDifficultyPreset(cfg *Config, preset DifficultyPreset) error {
	speed, err := SpeedForPreset(preset)
	if err != nil {
		return err
	}
	cfg.Settings.Speed = speed
	return nil
}
