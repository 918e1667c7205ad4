package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// Sound names one of the game's sound effects.
type Sound int

const (
	SoundKeystroke Sound = iota
	SoundCorrect
	SoundMiss
	SoundStageClear
	SoundFanfare
)

func (s Sound) String() string {
	switch s {
	case SoundKeystroke:
		return "keystroke"
	case SoundCorrect:
		return "correct"
	case SoundMiss:
		return "miss"
	case SoundStageClear:
		return "stage-clear"
	case SoundFanfare:
		return "fanfare"
	default:
		return "unknown"
	}
}

// Note is one tone in a sound, starting At after the sound begins.
type Note struct {
	Freq     float64
	At       time.Duration
	Duration time.Duration
	Wave     Wave
	Gain     float64
}

// C major arpeggio from C5 upwards.
var arpeggio = []float64{523.25, 659.25, 783.99, 1046.5, 1318.51, 1567.98, 2093.0}

// Notes returns the tones that make up s.
func Notes(s Sound) []Note {
	switch s {
	case SoundKeystroke:
		return []Note{{Freq: 800, Duration: 50 * time.Millisecond, Wave: WaveSquare, Gain: 0.1}}
	case SoundCorrect:
		return []Note{
			{Freq: 880, Duration: 100 * time.Millisecond, Wave: WaveSine, Gain: 0.2},
			{Freq: 1760, Duration: 150 * time.Millisecond, Wave: WaveSine, Gain: 0.1},
		}
	case SoundMiss:
		return []Note{{Freq: 220, Duration: 150 * time.Millisecond, Wave: WaveSquare, Gain: 0.2}}
	case SoundStageClear:
		notes := make([]Note, 0, 4)
		for i, f := range arpeggio[:4] {
			notes = append(notes, Note{
				Freq:     f,
				At:       time.Duration(i) * 200 * time.Millisecond,
				Duration: 500 * time.Millisecond,
				Wave:     WaveSine,
				Gain:     0.2,
			})
		}
		return notes
	case SoundFanfare:
		var notes []Note
		for i, f := range arpeggio {
			at := time.Duration(i) * 300 * time.Millisecond
			notes = append(notes, Note{Freq: f, At: at, Duration: 800 * time.Millisecond, Wave: WaveSine, Gain: 0.15})
			if i%2 == 0 {
				notes = append(notes, Note{Freq: f / 2, At: at, Duration: 800 * time.Millisecond, Wave: WaveTriangle, Gain: 0.1})
			}
		}
		return notes
	default:
		return nil
	}
}

// Length is the time from the start of s until its last note has ended.
func Length(s Sound) time.Duration {
	var end time.Duration
	for _, n := range Notes(s) {
		if e := n.At + n.Duration; e > end {
			end = e
		}
	}
	return end
}

// Build renders s as a streamer at the given master volume.
func Build(s Sound, volume float64, rate beep.SampleRate) beep.Streamer {
	notes := Notes(s)
	if len(notes) == 0 {
		return nil
	}
	voices := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		t := NewTone(n.Freq, n.Duration, n.Wave, n.Gain, rate)
		if n.At > 0 {
			t = beep.Seq(beep.Silence(rate.N(n.At)), t)
		}
		voices = append(voices, t)
	}
	mixed := voices[0]
	if len(voices) > 1 {
		mixed = beep.Mix(voices...)
	}
	return withVolume(mixed, volume)
}
