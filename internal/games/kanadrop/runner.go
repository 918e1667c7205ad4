package kanadrop

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Default runner timings.
const (
	DefaultTickInterval    = 50 * time.Millisecond
	DefaultTransitionDelay = 500 * time.Millisecond
)

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	TickInterval    time.Duration
	TransitionDelay time.Duration
	Logger          *log.Logger
}

// Frame is what a Runner publishes after every tick or intent: the new
// state and the events that led to it.
type Frame struct {
	Snapshot Snapshot
	Events   []Event
}

type request struct {
	fn   func()
	done chan struct{}
}

// Runner drives a Session from a single goroutine. The fall ticker and the
// stage transition timer live on that goroutine, and user intents are
// delivered to it over a channel, so the session never sees concurrent
// mutation.
type Runner struct {
	s    *Session
	opts RunnerOptions

	reqs      chan request
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	subs    map[int]chan Frame
	nextSub int
	last    Snapshot
	stopped bool

	// Owned by the loop goroutine.
	ticker  *time.Ticker
	tickC   <-chan time.Time
	timer   *time.Timer
	timerC  <-chan time.Time
	pending []Event
}

// NewRunner wraps s. Run must be called exactly once to start the loop.
func NewRunner(s *Session, opts RunnerOptions) *Runner {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.TransitionDelay < 0 {
		opts.TransitionDelay = 0
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	r := &Runner{
		s:    s,
		opts: opts,
		reqs: make(chan request),
		quit: make(chan struct{}),
		done: make(chan struct{}),
		subs: make(map[int]chan Frame),
		last: s.Snapshot(),
	}
	s.AddListener(ListenerFunc(func(e Event) {
		r.pending = append(r.pending, e)
	}))
	return r
}

// Run processes ticks and intents until ctx is done or Close is called.
func (r *Runner) Run(ctx context.Context) error {
	defer r.shutdown()

	r.sync()
	r.publish()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.quit:
			return nil
		case req := <-r.reqs:
			req.fn()
			close(req.done)
		case <-r.tickC:
			r.s.Tick()
		case <-r.timerC:
			r.timer, r.timerC = nil, nil
			r.s.CompleteTransition()
		}
		r.sync()
		r.publish()
	}
}

// Close stops the loop. It is safe to call more than once.
func (r *Runner) Close() {
	r.closeOnce.Do(func() { close(r.quit) })
}

// Done is closed once the loop has exited.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Start begins or restarts a session.
func (r *Runner) Start() error {
	var err error
	if derr := r.do(func() {
		r.stopTicker()
		r.stopTimer()
		err = r.s.Start()
	}); derr != nil {
		return derr
	}
	return err
}

// Continue leaves a stage clear screen after the transition delay.
func (r *Runner) Continue() error {
	return r.do(func() {
		if r.s.Continue() {
			r.timer = time.NewTimer(r.opts.TransitionDelay)
			r.timerC = r.timer.C
		}
	})
}

// Type delivers one keystroke.
func (r *Runner) Type(c rune) error {
	return r.do(func() { r.s.Type(c) })
}

// Reset abandons the current session and returns to the Start phase.
func (r *Runner) Reset() error {
	return r.do(func() {
		r.stopTimer()
		r.s.Reset()
	})
}

// ApplySettings replaces the settings of a session in the Start phase.
func (r *Runner) ApplySettings(settings Settings) error {
	var err error
	if derr := r.do(func() { err = r.s.ApplySettings(settings) }); derr != nil {
		return derr
	}
	return err
}

// Snapshot returns the current state. Once the loop has exited it returns
// the last published state.
func (r *Runner) Snapshot() Snapshot {
	var snap Snapshot
	if err := r.do(func() { snap = r.s.Snapshot() }); err != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.last
	}
	return snap
}

// Subscribe returns a channel of frames. The channel holds at most one
// frame; a slow reader skips stale snapshots but still receives their
// events. The returned func cancels the subscription.
func (r *Runner) Subscribe() (<-chan Frame, func()) {
	ch := make(chan Frame, 1)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		close(ch)
		return ch, func() {}
	}
	id := r.nextSub
	r.nextSub++
	r.subs[id] = ch
	ch <- Frame{Snapshot: r.last}

	return ch, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if c, ok := r.subs[id]; ok {
			delete(r.subs, id)
			close(c)
		}
	}
}

func (r *Runner) do(fn func()) error {
	req := request{fn: fn, done: make(chan struct{})}
	select {
	case r.reqs <- req:
	case <-r.done:
		return ErrNotRunning
	}
	<-req.done
	return nil
}

// sync creates or stops the fall ticker to match the session phase.
func (r *Runner) sync() {
	playing := r.s.Phase() == PhasePlaying
	switch {
	case playing && r.ticker == nil:
		r.ticker = time.NewTicker(r.opts.TickInterval)
		r.tickC = r.ticker.C
	case !playing && r.ticker != nil:
		r.stopTicker()
	}
	if r.timer != nil && r.s.Phase() != PhaseStageClear {
		r.stopTimer()
	}
}

func (r *Runner) stopTicker() {
	if r.ticker != nil {
		r.ticker.Stop()
	}
	r.ticker, r.tickC = nil, nil
}

func (r *Runner) stopTimer() {
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer, r.timerC = nil, nil
	r.s.CancelTransition()
}

func (r *Runner) publish() {
	frame := Frame{Snapshot: r.s.Snapshot(), Events: r.pending}
	r.pending = nil

	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = frame.Snapshot

	for _, ch := range r.subs {
		f := frame
		select {
		case ch <- f:
			continue
		default:
		}
		select {
		case old := <-ch:
			if len(old.Events) > 0 {
				merged := make([]Event, 0, len(old.Events)+len(f.Events))
				merged = append(merged, old.Events...)
				f.Events = append(merged, f.Events...)
			}
		default:
		}
		// Only this goroutine sends, so the buffer has room now.
		ch <- f
	}
}

func (r *Runner) shutdown() {
	r.stopTicker()
	r.stopTimer()

	r.mu.Lock()
	r.stopped = true
	r.last = r.s.Snapshot()
	for id, ch := range r.subs {
		delete(r.subs, id)
		close(ch)
	}
	r.mu.Unlock()

	close(r.done)
	r.opts.Logger.Debug("runner stopped")
}
