package kanadrop

import (
	"math/rand"

	"github.com/vovakirdan/kana-drop/internal/core"
)

// Effect lifetimes in rendered frames (20 fps).
const (
	PopupFrames         = 20
	ParticleFrames      = 20
	ShakeFrames         = 10
	PulseFrames         = 6
	ParticlesPerCorrect = 10
)

var particleColors = []core.Color{core.ColorBlue, core.ColorEmerald, core.ColorAmber}

// Popup is a floating "+N" score label.
type Popup struct {
	Points int
	X, Y   float64
	Age    int
}

// Particle is a spark thrown off by a correct answer.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Color  core.Color
	Age    int
}

// Effects holds the cosmetic feedback generated from session events.
// It is fed as a Listener and aged once per rendered frame; none of it
// influences the game.
type Effects struct {
	rng       *rand.Rand
	Popups    []Popup
	Particles []Particle
	Shake     int
	Pulse     int
}

// NewEffects creates an empty effect set.
func NewEffects(seed int64) *Effects {
	return &Effects{rng: rand.New(rand.NewSource(seed))}
}

// OnEvent spawns the effects for e.
func (fx *Effects) OnEvent(e Event) {
	switch e.Kind {
	case EventCorrect:
		fx.Popups = append(fx.Popups, Popup{Points: e.Points, X: e.X, Y: e.Y})
		for i := 0; i < ParticlesPerCorrect; i++ {
			fx.Particles = append(fx.Particles, Particle{
				X:     e.X,
				Y:     e.Y,
				VX:    (fx.rng.Float64()*2 - 1) * 1.5,
				VY:    (fx.rng.Float64()*2 - 1) * 1.5,
				Color: particleColors[fx.rng.Intn(len(particleColors))],
			})
		}
		fx.Pulse = PulseFrames
	case EventMiss:
		fx.Shake = ShakeFrames
	case EventSessionBegin:
		fx.Clear()
	}
}

// Step ages every effect by one frame and drops the expired ones.
func (fx *Effects) Step() {
	popups := fx.Popups[:0]
	for _, p := range fx.Popups {
		p.Age++
		p.Y -= 0.5
		if p.Age < PopupFrames {
			popups = append(popups, p)
		}
	}
	fx.Popups = popups

	particles := fx.Particles[:0]
	for _, p := range fx.Particles {
		p.Age++
		p.X += p.VX
		p.Y += p.VY
		if p.Age < ParticleFrames {
			particles = append(particles, p)
		}
	}
	fx.Particles = particles

	if fx.Shake > 0 {
		fx.Shake--
	}
	if fx.Pulse > 0 {
		fx.Pulse--
	}
}

// Active reports whether anything is still animating.
func (fx *Effects) Active() bool {
	return len(fx.Popups) > 0 || len(fx.Particles) > 0 || fx.Shake > 0 || fx.Pulse > 0
}

// Clear drops all effects.
func (fx *Effects) Clear() {
	fx.Popups = fx.Popups[:0]
	fx.Particles = fx.Particles[:0]
	fx.Shake = 0
	fx.Pulse = 0
}

// ShakeOffset is the horizontal jitter of the play field this frame.
func (fx *Effects) ShakeOffset() int {
	if fx.Shake == 0 {
		return 0
	}
	if fx.Shake%2 == 0 {
		return 1
	}
	return -1
}
