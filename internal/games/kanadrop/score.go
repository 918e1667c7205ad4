package kanadrop

import "math"

// Scoring constants.
const (
	MaxScore  = 8
	MinScore  = 1
	MaxHeight = 100
)

// Points returns the reward for catching a prompt at height y.
// Early catches and higher speeds pay more; the result is never below MinScore.
func Points(y, speed float64) int {
	raw := math.Ceil(MaxScore * (1 - y/MaxHeight) * (1 + speed*0.2))
	if raw < MinScore {
		return MinScore
	}
	return int(raw)
}
