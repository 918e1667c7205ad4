package audio

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/kana-drop/internal/core"
	"github.com/vovakirdan/kana-drop/internal/games/kanadrop"
)

// Output is where rendered sounds are sent.
type Output interface {
	Play(beep.Streamer)
	Close()
}

// speakerOutput plays through the system audio device.
type speakerOutput struct{}

func (speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }

func (speakerOutput) Close() {
	speaker.Clear()
	speaker.Close()
}

var (
	speakerOnce sync.Once
	speakerErr  error
)

// OpenSpeaker initialises the audio device. The device is shared by the
// process, so later calls return the result of the first.
func OpenSpeaker() (Output, error) {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond))
	})
	if speakerErr != nil {
		return nil, speakerErr
	}
	return speakerOutput{}, nil
}

// Options configures a Player.
type Options struct {
	Enabled bool
	Volume  float64
	Logger  *log.Logger
}

// Player turns session events into sound. A Player without an output is
// silent but still tracks its mute state.
type Player struct {
	mu     sync.Mutex
	out    Output
	volume float64
	muted  bool
	logger *log.Logger

	now         func() time.Time
	jingleUntil time.Time // end of the stage or session jingle still sounding
}

// NewPlayer creates a player writing to out, which may be nil.
func NewPlayer(out Output, opts Options) *Player {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Player{
		out:    out,
		volume: opts.Volume,
		muted:  !opts.Enabled,
		logger: opts.Logger,
		now:    time.Now,
	}
}

// Open creates a player on the system speaker, falling back to silence when
// no device is available.
func Open(opts Options) *Player {
	p := NewPlayer(nil, opts)
	out, err := OpenSpeaker()
	if err != nil {
		p.logger.Warn("audio unavailable, running silent", "err", err)
		return p
	}
	p.out = out
	return p
}

// Available reports whether the player has somewhere to send sound.
func (p *Player) Available() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out != nil
}

// Muted reports whether sound is currently off.
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// ToggleMute flips the mute state and returns the new one.
func (p *Player) ToggleMute() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = !p.muted
	return p.muted
}

// Volume returns the master volume.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume changes the master volume, clamped to 0-1.
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = core.ClampF(v, 0, 1)
}

// OnEvent plays the sounds for e. Every typed letter clicks, and a letter
// that resolves a prompt also plays its verdict.
func (p *Player) OnEvent(e kanadrop.Event) {
	switch e.Kind {
	case kanadrop.EventKeystroke:
		p.Play(SoundKeystroke)
	case kanadrop.EventCorrect:
		p.Play(SoundKeystroke)
		p.Play(SoundCorrect)
	case kanadrop.EventMiss:
		p.Play(SoundKeystroke)
		p.Play(SoundMiss)
	case kanadrop.EventStageClear:
		p.Play(SoundStageClear)
	case kanadrop.EventSessionClear, kanadrop.EventGameOver:
		p.Play(SoundFanfare)
	}
}

// Play renders and queues s unless the player is muted or silent. A jingle
// is dropped while an earlier one is still sounding.
func (p *Player) Play(s Sound) {
	p.mu.Lock()
	out, vol, muted := p.out, p.volume, p.muted
	if out != nil && !muted && isJingle(s) {
		now := p.now()
		if now.Before(p.jingleUntil) {
			p.mu.Unlock()
			return
		}
		p.jingleUntil = now.Add(Length(s))
	}
	p.mu.Unlock()

	if out == nil || muted {
		return
	}
	st := Build(s, vol, SampleRate)
	if st == nil {
		return
	}
	out.Play(st)
}

func isJingle(s Sound) bool {
	return s == SoundStageClear || s == SoundFanfare
}

// Close releases the output. The player is silent afterwards.
func (p *Player) Close() {
	p.mu.Lock()
	out := p.out
	p.out = nil
	p.mu.Unlock()

	if out != nil {
		out.Close()
	}
}
