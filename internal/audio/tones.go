package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// SampleRate is the output rate every sound is rendered at.
const SampleRate = beep.SampleRate(44100)

// floorGain is where every tone's exponential decay ends.
const floorGain = 0.01

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveTriangle
)

func (w Wave) String() string {
	switch w {
	case WaveSine:
		return "sine"
	case WaveSquare:
		return "square"
	case WaveTriangle:
		return "triangle"
	default:
		return "unknown"
	}
}

// tone is a single oscillator whose gain decays exponentially from its
// starting level down to floorGain over its lifetime.
type tone struct {
	freq  float64
	phase float64
	wave  Wave
	gain  float64
	pos   int
	total int
	rate  beep.SampleRate
}

// NewTone returns a mono tone duplicated on both channels. It ends after d.
func NewTone(freq float64, d time.Duration, wave Wave, gain float64, rate beep.SampleRate) beep.Streamer {
	return &tone{
		freq:  freq,
		wave:  wave,
		gain:  gain,
		total: rate.N(d),
		rate:  rate,
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}
		val := t.sample() * t.envelope()
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

func (t *tone) sample() float64 {
	switch t.wave {
	case WaveSquare:
		if t.phase < 0.5 {
			return 1
		}
		return -1
	case WaveTriangle:
		return 1 - 4*math.Abs(t.phase-0.5)
	default:
		return math.Sin(2 * math.Pi * t.phase)
	}
}

func (t *tone) envelope() float64 {
	if t.gain <= floorGain || t.total == 0 {
		return t.gain
	}
	progress := float64(t.pos) / float64(t.total)
	return t.gain * math.Pow(floorGain/t.gain, progress)
}

// withVolume scales s by a linear factor. Zero or less is silence, since
// log2(0) has no finite value.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
