package kanadrop

import (
	"errors"
	"math"
	"testing"

	"github.com/vovakirdan/kana-drop/internal/catalog"
)

func TestSessionStartsInStart(t *testing.T) {
	store := &fakeStore{score: 33}
	s := newTestSession(t, catalog.Default(), Settings{Stages: []int{2}, Speed: 1}, store)

	snap := s.Snapshot()
	if snap.Phase != PhaseStart {
		t.Errorf("Phase = %v, expected Start", snap.Phase)
	}
	if snap.HighScore != 33 {
		t.Errorf("HighScore = %d, expected 33 from the store", snap.HighScore)
	}
	if snap.Life != 10 || snap.MaxLife != 10 {
		t.Errorf("Life = %d/%d, expected 10/10", snap.Life, snap.MaxLife)
	}
	if snap.Prompt != nil {
		t.Error("no prompt should exist before start")
	}

	// Ticks and keys do nothing before start
	s.Tick()
	s.Type('a')
	if s.Phase() != PhaseStart || s.prompt != nil || s.buffer != "" {
		t.Error("Start phase should ignore ticks and keys")
	}
}

func TestStartResetsState(t *testing.T) {
	rec := &recorder{}
	s := newTestSession(t, catalog.Default(), Settings{Stages: []int{2}, Speed: 1}, nil, WithListener(rec))

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.Phase() != PhasePlaying {
		t.Fatalf("Phase = %v, expected Playing", s.Phase())
	}
	if rec.count(EventSessionBegin) != 1 {
		t.Errorf("expected one SessionBegin event, got %v", rec.kinds())
	}

	answer(t, s)
	typeWord(s, "x")
	if s.score == 0 || s.life == 10 {
		t.Fatalf("setup failed: score=%d life=%d", s.score, s.life)
	}

	// Start while playing is ignored
	if err := s.Start(); err != nil {
		t.Fatalf("Start while playing: %v", err)
	}
	if s.score == 0 {
		t.Error("Start while playing should not reset the session")
	}
}

func TestSpeedTwoSingleQuestionScenario(t *testing.T) {
	rec := &recorder{}
	rules := DefaultRules()
	rules.QuestionsPerStage = 1
	s := newTestSession(t, fjCatalog(t), Settings{Stages: []int{1}, Speed: 2}, nil,
		WithRules(rules), WithListener(rec))

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Tick() // spawn
	s.Tick() // fall
	p := *s.prompt
	if math.Abs(p.Y-(SpawnY+0.69*2)) > 1e-9 {
		t.Fatalf("prompt y = %v after one fall tick at speed 2", p.Y)
	}

	want := int(math.Ceil(8 * (1 - p.Y/100) * (1 + 2*0.2)))
	s.Type(rune(p.Glyph[0]))

	if s.score != want {
		t.Errorf("score = %d, expected %d", s.score, want)
	}
	if s.Phase() != PhaseClear {
		t.Errorf("Phase = %v, expected Clear after the only stage", s.Phase())
	}
	if rec.count(EventCorrect) != 1 || rec.last().Kind != EventSessionClear {
		t.Errorf("events = %v", rec.kinds())
	}
	if ev := rec.events[len(rec.events)-2]; ev.Points != want || ev.X != p.X || ev.Y != p.Y {
		t.Errorf("Correct event = %+v, expected points %d at (%v, %v)", ev, want, p.X, p.Y)
	}
}

func TestWrongLetterScenario(t *testing.T) {
	rec := &recorder{}
	s := newTestSession(t, kaCatalog(t), Settings{Stages: []int{2}, Speed: 1}, nil, WithListener(rec))
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Tick()
	if s.prompt.Glyph != "か" {
		t.Fatalf("first prompt = %q, expected か", s.prompt.Glyph)
	}

	s.Type('X')

	if s.life != 9 {
		t.Errorf("life = %d, expected 9", s.life)
	}
	if s.buffer != "" {
		t.Errorf("buffer = %q, expected empty", s.buffer)
	}
	if rec.last().Kind != EventMiss {
		t.Errorf("last event = %v, expected Miss", rec.last().Kind)
	}
	if s.prompt == nil {
		t.Error("a typing miss should leave the prompt falling")
	}
	if s.Phase() != PhasePlaying {
		t.Errorf("Phase = %v, expected Playing", s.Phase())
	}
}

func TestPartialInputIsPending(t *testing.T) {
	rec := &recorder{}
	s := newTestSession(t, kaCatalog(t), Settings{Stages: []int{2}, Speed: 1}, nil, WithListener(rec))
	s.Start()
	s.Tick()

	s.Type('k')
	if s.buffer != "K" {
		t.Errorf("buffer = %q, expected uppercased K", s.buffer)
	}
	if rec.last().Kind != EventKeystroke {
		t.Errorf("last event = %v, expected Keystroke", rec.last().Kind)
	}

	s.Type('a')
	if s.score == 0 || s.buffer != "" {
		t.Errorf("KA should score and clear the buffer: score=%d buffer=%q", s.score, s.buffer)
	}
	if s.prompt == nil {
		t.Error("next prompt should spawn immediately after a correct answer")
	}
}

func TestNonLetterKeysIgnored(t *testing.T) {
	rec := &recorder{}
	s := newTestSession(t, kaCatalog(t), Settings{Stages: []int{2}, Speed: 1}, nil, WithListener(rec))
	s.Start()
	s.Tick()
	n := len(rec.events)

	for _, r := range []rune{'1', ' ', '-', 'か', 'é'} {
		s.Type(r)
	}
	if s.buffer != "" || s.life != 10 || len(rec.events) != n {
		t.Errorf("non-letter keys changed state: buffer=%q life=%d events=%v", s.buffer, s.life, rec.kinds())
	}
}

func TestStageCompletion(t *testing.T) {
	rec := &recorder{}
	s := newTestSession(t, catalog.Default(), Settings{Stages: []int{2, 3}, Speed: 1}, nil, WithListener(rec))
	s.Start()

	for i := 0; i < 19; i++ {
		answer(t, s)
		if s.Phase() != PhasePlaying {
			t.Fatalf("phase %v after %d correct answers", s.Phase(), i+1)
		}
	}
	if s.questionCount != 19 {
		t.Fatalf("questionCount = %d, expected 19", s.questionCount)
	}

	answer(t, s)
	if s.Phase() != PhaseStageClear {
		t.Fatalf("Phase = %v after 20 answers, expected StageClear", s.Phase())
	}
	if s.prompt != nil {
		t.Error("no prompt should be left on the stage clear screen")
	}
	if rec.last().Kind != EventStageClear {
		t.Errorf("last event = %v, expected StageClear", rec.last().Kind)
	}
	snap := s.Snapshot()
	if snap.Stage != 2 || snap.StageIndex != 1 {
		t.Errorf("clear screen shows stage %d (index %d), expected the finished stage 2 at index 1", snap.Stage, snap.StageIndex)
	}

	// Ticks do nothing until continue
	s.Tick()
	if s.prompt != nil {
		t.Error("Tick should be a no-op in StageClear")
	}

	if !s.Continue() {
		t.Fatal("Continue should schedule the transition")
	}
	if s.Continue() {
		t.Error("a second Continue should not schedule another transition")
	}
	if !s.Snapshot().Transitioning || s.Phase() != PhaseStageClear {
		t.Error("the phase should only change after CompleteTransition")
	}

	s.CompleteTransition()
	snap = s.Snapshot()
	if snap.Phase != PhasePlaying || snap.Question != 0 || snap.Stage != 3 || snap.Prompt != nil {
		t.Fatalf("after transition: %+v", snap)
	}

	for i := 0; i < 20; i++ {
		answer(t, s)
	}
	if s.Phase() != PhaseClear {
		t.Errorf("Phase = %v after the last stage, expected Clear", s.Phase())
	}
	if rec.last().Kind != EventSessionClear {
		t.Errorf("last event = %v, expected SessionClear", rec.last().Kind)
	}
}

func TestLifeExhaustion(t *testing.T) {
	rec := &recorder{}
	s := newTestSession(t, catalog.Default(), Settings{Stages: []int{2}, Speed: 1}, nil, WithListener(rec))
	s.Start()
	answer(t, s)
	frozen := s.score

	for i := 0; i < 9; i++ {
		s.Type('x')
		if s.Phase() != PhasePlaying {
			t.Fatalf("phase %v after %d misses", s.Phase(), i+1)
		}
	}
	s.Type('x')

	if s.Phase() != PhaseGameOver {
		t.Fatalf("Phase = %v after 10 misses, expected GameOver", s.Phase())
	}
	if s.life != 0 {
		t.Errorf("life = %d, expected 0", s.life)
	}
	if s.score != frozen {
		t.Errorf("score = %d, expected frozen at %d", s.score, frozen)
	}
	if rec.count(EventMiss) != 10 || rec.last().Kind != EventGameOver {
		t.Errorf("events = %v", rec.kinds())
	}
	if snap := s.Snapshot(); snap.Prompt != nil {
		t.Errorf("prompt %+v still active after game over", snap.Prompt)
	}

	// Keys after game over are ignored
	s.Type('a')
	if s.score != frozen || s.Phase() != PhaseGameOver {
		t.Error("game over should ignore keys")
	}
}

func TestFloorReach(t *testing.T) {
	rec := &recorder{}
	s := newTestSession(t, catalog.Default(), Settings{Stages: []int{2}, Speed: 1}, nil, WithListener(rec))
	s.Start()
	typeWord(s, "") // nothing typed
	s.Tick()
	s.Type('x') // one miss, life 9

	ticks := 0
	for s.Phase() == PhasePlaying && ticks < 1000 {
		s.Tick()
		ticks++
	}

	if s.Phase() != PhaseGameOver {
		t.Fatalf("Phase = %v, expected GameOver", s.Phase())
	}
	if s.life != 9 {
		t.Errorf("life = %d, floor reach should not touch life", s.life)
	}
	if s.prompt != nil {
		t.Error("the prompt should be destroyed at the floor")
	}
	if want := int(math.Ceil(110 / 0.69)); ticks != want {
		t.Errorf("reached the floor after %d ticks, expected %d", ticks, want)
	}
	if ev := rec.last(); ev.Kind != EventGameOver || ev.Y <= 100 {
		t.Errorf("last event = %+v, expected GameOver below the floor", ev)
	}
}

func TestRestartFromTerminalPhase(t *testing.T) {
	rules := DefaultRules()
	rules.QuestionsPerStage = 1
	s := newTestSession(t, fjCatalog(t), Settings{Stages: []int{1}, Speed: 1}, nil, WithRules(rules))
	s.Start()
	answer(t, s)
	if s.Phase() != PhaseClear {
		t.Fatalf("Phase = %v, expected Clear", s.Phase())
	}

	if err := s.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	snap := s.Snapshot()
	if snap.Phase != PhasePlaying || snap.Score != 0 || snap.Life != 10 || snap.Question != 0 || snap.NewRecord {
		t.Errorf("restart did not reset: %+v", snap)
	}
	if snap.HighScore == 0 {
		t.Error("high score should survive a restart")
	}
}

func TestHighScorePersistedOnImprovement(t *testing.T) {
	store := &fakeStore{score: 1000}
	s := newTestSession(t, catalog.Default(), Settings{Stages: []int{2}, Speed: 1}, store)
	s.Start()
	answer(t, s)
	for s.Phase() == PhasePlaying {
		s.Type('x')
	}
	if len(store.sets) != 0 {
		t.Errorf("a lower score must not be written, got %v", store.sets)
	}
	if s.Snapshot().NewRecord {
		t.Error("NewRecord should be false")
	}

	store = &fakeStore{score: 1}
	s = newTestSession(t, catalog.Default(), Settings{Stages: []int{2}, Speed: 1}, store)
	s.Start()
	answer(t, s)
	answer(t, s)
	for s.Phase() == PhasePlaying {
		s.Type('x')
	}
	if len(store.sets) != 1 || store.sets[0] != s.score {
		t.Errorf("store writes = %v, expected exactly [%d]", store.sets, s.score)
	}
	if !s.Snapshot().NewRecord || s.Snapshot().HighScore != s.score {
		t.Errorf("snapshot should show the new record: %+v", s.Snapshot())
	}
}

func TestHighScoreMonotonic(t *testing.T) {
	store := &fakeStore{}
	s := newTestSession(t, catalog.Default(), Settings{Stages: []int{2, 3}, Speed: 3}, store)

	// Sessions of varying length, each ended by misses
	for round, n := range []int{3, 1, 25, 5, 30, 0} {
		if err := s.Start(); err != nil {
			t.Fatalf("round %d: Start: %v", round, err)
		}
		for i := 0; i < n && s.Phase() == PhasePlaying; i++ {
			answer(t, s)
			if s.Phase() == PhaseStageClear {
				s.Continue()
				s.CompleteTransition()
			}
		}
		for s.Phase() == PhasePlaying {
			if s.prompt == nil {
				s.Tick()
			}
			s.Type('x')
		}
	}

	prev := 0
	for i, v := range store.sets {
		if v <= prev {
			t.Errorf("write %d = %d does not exceed previous %d (all writes %v)", i, v, prev, store.sets)
		}
		prev = v
	}
	if len(store.sets) == 0 {
		t.Error("expected at least one high score write")
	}
}

func TestHighScoreSharedBetweenSessions(t *testing.T) {
	store := &fakeStore{}
	settings := Settings{Stages: []int{2}, Speed: 1}
	a := newTestSession(t, catalog.Default(), settings, store)
	b := newTestSession(t, catalog.Default(), settings, store)

	a.Start()
	for i := 0; i < 3; i++ {
		answer(t, a)
	}
	for a.Phase() == PhasePlaying {
		a.Type('x')
	}

	b.Start()
	answer(t, b)
	for b.Phase() == PhasePlaying {
		b.Type('x')
	}
	if b.score >= a.score {
		t.Fatalf("setup: second score %d should be below first %d", b.score, a.score)
	}

	if len(store.sets) != 1 || store.sets[0] != a.score {
		t.Errorf("store writes = %v, expected only [%d]", store.sets, a.score)
	}
	snap := b.Snapshot()
	if snap.NewRecord {
		t.Error("a score below the shared record is not a new record")
	}
	if snap.HighScore != a.score {
		t.Errorf("HighScore = %d, expected the shared record %d", snap.HighScore, a.score)
	}
}

func TestStartPicksUpSharedHighScore(t *testing.T) {
	store := &fakeStore{score: 10}
	s := newTestSession(t, catalog.Default(), Settings{Stages: []int{2}, Speed: 1}, store)

	store.score = 250
	s.Start()
	if got := s.Snapshot().HighScore; got != 250 {
		t.Errorf("HighScore after Start = %d, expected 250", got)
	}

	store.getErr = errDisk
	s.Reset()
	s.Start()
	if got := s.Snapshot().HighScore; got != 250 {
		t.Errorf("a failed reload should keep the last value, got %d", got)
	}
}

func TestHighScoreStoreFailures(t *testing.T) {
	store := &fakeStore{getErr: errDisk}
	s := newTestSession(t, catalog.Default(), Settings{Stages: []int{2}, Speed: 1}, store)
	if s.Snapshot().HighScore != 0 {
		t.Errorf("a failed read should start from 0, got %d", s.Snapshot().HighScore)
	}

	store.getErr = nil
	store.setErr = errDisk
	s.Start()
	answer(t, s)
	for s.Phase() == PhasePlaying {
		s.Type('x')
	}
	if s.Snapshot().HighScore != s.score {
		t.Errorf("in-memory high score = %d, expected %d despite the failed write", s.Snapshot().HighScore, s.score)
	}
	if len(store.sets) != 1 {
		t.Errorf("expected one attempted write, got %v", store.sets)
	}
}

func TestStartRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
	}{
		{"no stages", Settings{Speed: 1}},
		{"unknown stage", Settings{Stages: []int{2, 42}, Speed: 1}},
		{"zero speed", Settings{Stages: []int{2}, Speed: 0}},
		{"negative speed", Settings{Stages: []int{2}, Speed: -1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSession(t, catalog.Default(), tc.settings, nil)
			err := s.Start()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Start() error = %v, expected *ConfigError", err)
			}
			if s.Phase() != PhaseStart {
				t.Errorf("Phase = %v, a rejected start must stay in Start", s.Phase())
			}
		})
	}
}

func TestNewSessionRejectsBadRules(t *testing.T) {
	rules := DefaultRules()
	rules.QuestionsPerStage = 0
	_, err := NewSession(catalog.Default(), Settings{Stages: []int{2}, Speed: 1}, nil, WithRules(rules))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("NewSession error = %v, expected *ConfigError", err)
	}

	if _, err := NewSession(nil, Settings{}, nil); err == nil {
		t.Error("NewSession without a catalog should fail")
	}
}

func TestApplySettings(t *testing.T) {
	s := newTestSession(t, catalog.Default(), Settings{Stages: []int{2}, Speed: 1}, nil)

	if err := s.ApplySettings(Settings{Stages: []int{4, 5}, Speed: 3}); err != nil {
		t.Fatalf("ApplySettings in Start: %v", err)
	}
	snap := s.Snapshot()
	if snap.Stage != 4 || snap.StageCount != 2 || snap.Speed != 3 {
		t.Errorf("snapshot after ApplySettings: %+v", snap)
	}

	if err := s.ApplySettings(Settings{Speed: 3}); err == nil {
		t.Error("invalid settings should be rejected")
	}
	if s.Settings().Speed != 3 || len(s.Settings().Stages) != 2 {
		t.Error("a rejected change must keep the old settings")
	}

	s.Start()
	if err := s.ApplySettings(Settings{Stages: []int{2}, Speed: 1}); !errors.Is(err, ErrSettingsLocked) {
		t.Errorf("ApplySettings while playing = %v, expected ErrSettingsLocked", err)
	}

	s.Reset()
	if s.Phase() != PhaseStart {
		t.Fatalf("Reset should return to Start, got %v", s.Phase())
	}
	if err := s.ApplySettings(Settings{Stages: []int{2}, Speed: 1}); err != nil {
		t.Errorf("ApplySettings after Reset: %v", err)
	}
}

func TestSettingsAreCopied(t *testing.T) {
	stages := []int{2, 3}
	s := newTestSession(t, catalog.Default(), Settings{Stages: stages, Speed: 1}, nil)
	stages[0] = 99

	if err := s.Start(); err != nil {
		t.Errorf("caller mutation leaked into the session: %v", err)
	}
}

func TestContinueOutsideStageClear(t *testing.T) {
	s := newTestSession(t, catalog.Default(), Settings{Stages: []int{2}, Speed: 1}, nil)
	if s.Continue() {
		t.Error("Continue in Start should be refused")
	}
	s.Start()
	if s.Continue() {
		t.Error("Continue while playing should be refused")
	}
	s.CompleteTransition()
	if s.Phase() != PhasePlaying {
		t.Error("CompleteTransition without a pending Continue should do nothing")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newTestSession(t, catalog.Default(), Settings{Stages: []int{3}, Speed: 1}, nil)
	s.Start()
	s.Tick()

	snap := s.Snapshot()
	if snap.Prompt == nil {
		t.Fatal("expected a prompt")
	}
	if !snap.ShowHint {
		t.Error("hints should be shown above the home-key stage")
	}
	if snap.Prompt.Hint != s.cat.Hint(snap.Prompt.Glyph) {
		t.Errorf("Hint = %q", snap.Prompt.Hint)
	}

	y := snap.Prompt.Y
	s.Tick()
	if snap.Prompt.Y != y {
		t.Error("snapshot prompt changed after a tick")
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase    Phase
		name     string
		terminal bool
	}{
		{PhaseStart, "Start", false},
		{PhasePlaying, "Playing", false},
		{PhaseStageClear, "StageClear", false},
		{PhaseGameOver, "GameOver", true},
		{PhaseClear, "Clear", true},
		{Phase(99), "Unknown", false},
	}
	for _, tc := range tests {
		if tc.phase.String() != tc.name || tc.phase.Terminal() != tc.terminal {
			t.Errorf("%d: String=%q Terminal=%v", tc.phase, tc.phase.String(), tc.phase.Terminal())
		}
	}
}
