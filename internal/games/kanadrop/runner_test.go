package kanadrop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/kana-drop/internal/catalog"
)

func startRunner(t *testing.T, s *Session, opts RunnerOptions) (*Runner, chan error) {
	t.Helper()
	r := NewRunner(s, opts)
	errc := make(chan error, 1)
	go func() { errc <- r.Run(context.Background()) }()
	t.Cleanup(func() {
		r.Close()
		<-r.Done()
	})
	return r, errc
}

// waitFor polls the runner until cond holds or the deadline passes.
func waitFor(t *testing.T, r *Runner, what string, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := r.Snapshot()
		if cond(snap) {
			return snap
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
	return Snapshot{}
}

func tickerRunning(r *Runner) bool {
	var running bool
	r.do(func() { running = r.ticker != nil })
	return running
}

func TestRunnerPlaysASession(t *testing.T) {
	s := newTestSession(t, catalog.Default(), Settings{Stages: []int{2}, Speed: 2}, nil)
	r, _ := startRunner(t, s, RunnerOptions{TickInterval: 5 * time.Millisecond})

	if tickerRunning(r) {
		t.Error("no ticker should run in the Start phase")
	}
	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !tickerRunning(r) {
		t.Error("the ticker should run while playing")
	}

	snap := waitFor(t, r, "a prompt", func(s Snapshot) bool { return s.Prompt != nil })
	for _, c := range string(snap.Prompt.Hint) {
		if err := r.Type(c); err != nil {
			t.Fatalf("Type: %v", err)
		}
	}
	if got := r.Snapshot().Score; got == 0 {
		t.Error("typing the hint should score")
	}

	waitFor(t, r, "game over", func(s Snapshot) bool { return s.Phase == PhaseGameOver })
	if tickerRunning(r) {
		t.Error("the ticker should be stopped after game over")
	}
}

func TestRunnerStartError(t *testing.T) {
	s := newTestSession(t, catalog.Default(), Settings{Speed: 1}, nil)
	r, _ := startRunner(t, s, RunnerOptions{})

	var cfgErr *ConfigError
	if err := r.Start(); !errors.As(err, &cfgErr) {
		t.Errorf("Start() = %v, expected *ConfigError", err)
	}
	if err := r.ApplySettings(Settings{Stages: []int{2}, Speed: 2}); err != nil {
		t.Fatalf("ApplySettings: %v", err)
	}
	if err := r.Start(); err != nil {
		t.Errorf("Start after fixing settings: %v", err)
	}
	if err := r.ApplySettings(Settings{Stages: []int{3}, Speed: 1}); !errors.Is(err, ErrSettingsLocked) {
		t.Errorf("ApplySettings while playing = %v, expected ErrSettingsLocked", err)
	}
}

func TestRunnerStageTransition(t *testing.T) {
	rules := DefaultRules()
	rules.QuestionsPerStage = 1
	s := newTestSession(t, catalog.Default(), Settings{Stages: []int{2, 3}, Speed: 1}, nil, WithRules(rules))
	r, _ := startRunner(t, s, RunnerOptions{
		TickInterval:    5 * time.Millisecond,
		TransitionDelay: 30 * time.Millisecond,
	})

	r.Start()
	snap := waitFor(t, r, "a prompt", func(s Snapshot) bool { return s.Prompt != nil })
	for _, c := range string(snap.Prompt.Hint) {
		r.Type(c)
	}
	if got := r.Snapshot().Phase; got != PhaseStageClear {
		t.Fatalf("Phase = %v, expected StageClear", got)
	}
	if tickerRunning(r) {
		t.Error("the ticker should stop on the stage clear screen")
	}

	r.Continue()
	if snap := r.Snapshot(); snap.Phase != PhaseStageClear || !snap.Transitioning {
		t.Errorf("right after Continue: phase %v transitioning %v", snap.Phase, snap.Transitioning)
	}

	snap = waitFor(t, r, "next stage", func(s Snapshot) bool { return s.Phase == PhasePlaying })
	if snap.Stage != 3 || snap.Question != 0 {
		t.Errorf("after transition: stage %d question %d", snap.Stage, snap.Question)
	}
}

func TestRunnerResetCancelsTransition(t *testing.T) {
	rules := DefaultRules()
	rules.QuestionsPerStage = 1
	s := newTestSession(t, catalog.Default(), Settings{Stages: []int{2, 3}, Speed: 1}, nil, WithRules(rules))
	r, _ := startRunner(t, s, RunnerOptions{
		TickInterval:    5 * time.Millisecond,
		TransitionDelay: 20 * time.Millisecond,
	})

	r.Start()
	snap := waitFor(t, r, "a prompt", func(s Snapshot) bool { return s.Prompt != nil })
	for _, c := range string(snap.Prompt.Hint) {
		r.Type(c)
	}
	r.Continue()
	r.Reset()

	time.Sleep(60 * time.Millisecond)
	snap = r.Snapshot()
	if snap.Phase != PhaseStart || snap.Transitioning {
		t.Errorf("a cancelled transition fired: phase %v transitioning %v", snap.Phase, snap.Transitioning)
	}
}

func TestRunnerSubscribe(t *testing.T) {
	s := newTestSession(t, catalog.Default(), Settings{Stages: []int{2}, Speed: 1}, nil)
	r, _ := startRunner(t, s, RunnerOptions{TickInterval: 5 * time.Millisecond})

	frames, cancel := r.Subscribe()
	defer cancel()

	r.Start()
	r.Type('x') // no prompt yet, ignored

	// Wait for the first prompt, then miss it
	deadline := time.After(2 * time.Second)
	var sawBegin, sawMiss bool
	missed := false
	for !sawMiss {
		select {
		case f, ok := <-frames:
			if !ok {
				t.Fatal("frames closed early")
			}
			for _, e := range f.Events {
				switch e.Kind {
				case EventSessionBegin:
					sawBegin = true
				case EventMiss:
					sawMiss = true
				}
			}
			if f.Snapshot.Prompt != nil && !missed {
				missed = true
				r.Type('x')
			}
		case <-deadline:
			t.Fatal("timed out waiting for frames")
		}
	}
	if !sawBegin {
		t.Error("the SessionBegin event was lost")
	}
}

func TestRunnerShutdown(t *testing.T) {
	s := newTestSession(t, catalog.Default(), Settings{Stages: []int{2}, Speed: 1}, nil)
	r := NewRunner(s, RunnerOptions{TickInterval: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- r.Run(ctx) }()

	frames, _ := r.Subscribe()
	r.Start()
	cancel()

	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, expected context.Canceled", err)
	}
	for range frames {
		// drain until closed
	}

	if err := r.Type('a'); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Type after shutdown = %v, expected ErrNotRunning", err)
	}
	if snap := r.Snapshot(); snap.Phase != PhasePlaying {
		t.Errorf("Snapshot after shutdown should return the last state, got %v", snap.Phase)
	}
	if r.ticker != nil {
		t.Error("ticker left running after shutdown")
	}

	late, _ := r.Subscribe()
	if _, ok := <-late; ok {
		t.Error("subscribing after shutdown should give a closed channel")
	}
}
