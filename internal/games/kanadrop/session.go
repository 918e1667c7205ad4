// Package kanadrop implements the falling-kana typing game: prompts drop down
// the field and the player types their romaji before they reach the floor.
package kanadrop

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/kana-drop/internal/catalog"
)

// Phase is the session state machine position.
type Phase int

const (
	PhaseStart Phase = iota
	PhasePlaying
	PhaseStageClear
	PhaseGameOver
	PhaseClear
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "Start"
	case PhasePlaying:
		return "Playing"
	case PhaseStageClear:
		return "StageClear"
	case PhaseGameOver:
		return "GameOver"
	case PhaseClear:
		return "Clear"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the phase ends a session.
func (p Phase) Terminal() bool {
	return p == PhaseGameOver || p == PhaseClear
}

// Settings selects what a session plays.
type Settings struct {
	Stages []int   // stage IDs in play order
	Speed  float64 // fall speed multiplier
}

// Validate checks that every stage exists in cat and has glyphs.
func (s Settings) Validate(cat *catalog.Catalog) error {
	if len(s.Stages) == 0 {
		return &ConfigError{Reason: "no stages selected"}
	}
	for _, id := range s.Stages {
		st, ok := cat.Stage(id)
		if !ok {
			return &ConfigError{Reason: fmt.Sprintf("unknown stage %d", id)}
		}
		if len(st.Glyphs) == 0 {
			return &ConfigError{Reason: fmt.Sprintf("stage %d has no glyphs", id)}
		}
	}
	if s.Speed <= 0 {
		return &ConfigError{Reason: fmt.Sprintf("speed must be positive, got %v", s.Speed)}
	}
	return nil
}

func (s Settings) clone() Settings {
	return Settings{Stages: append([]int(nil), s.Stages...), Speed: s.Speed}
}

// Rules are the fixed game parameters.
type Rules struct {
	Lives             int
	QuestionsPerStage int
	InterleavePeriod  int
	BaseRate          float64 // field percent per tick before the speed multiplier
	FloorY            float64
}

// DefaultRules returns the standard game parameters.
func DefaultRules() Rules {
	return Rules{
		Lives:             10,
		QuestionsPerStage: 20,
		InterleavePeriod:  3,
		BaseRate:          0.6 + 1*0.09,
		FloorY:            100,
	}
}

func (r Rules) validate() error {
	switch {
	case r.Lives <= 0:
		return &ConfigError{Reason: "lives must be positive"}
	case r.QuestionsPerStage <= 0:
		return &ConfigError{Reason: "questions per stage must be positive"}
	case r.BaseRate <= 0:
		return &ConfigError{Reason: "base fall rate must be positive"}
	case r.FloorY <= SpawnY:
		return &ConfigError{Reason: "floor must be below the spawn line"}
	}
	return nil
}

// Option configures a Session.
type Option func(*Session)

// WithRules overrides DefaultRules.
func WithRules(r Rules) Option {
	return func(s *Session) { s.rules = r }
}

// WithSeed makes prompt selection and placement deterministic.
func WithSeed(seed int64) Option {
	return func(s *Session) { s.seed = seed }
}

// WithListener registers a listener for session events.
func WithListener(l Listener) Option {
	return func(s *Session) { s.listeners = append(s.listeners, l) }
}

// WithLogger sets the logger for phase transitions and storage failures.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithClock sets the time source used to stamp prompts.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session is the game state machine. It is not safe for concurrent use;
// Runner serialises access from several goroutines.
type Session struct {
	cat       *catalog.Catalog
	store     HighScoreStore
	spawner   *Spawner
	rules     Rules
	settings  Settings
	listeners []Listener
	logger    *log.Logger
	now       func() time.Time
	seed      int64

	phase         Phase
	stageIndex    int
	stageID       int // stage on display; lags stageIndex while a clear screen is up
	score         int
	life          int
	questionCount int
	buffer        string
	prompt        *Prompt
	highScore     int
	newRecord     bool
	transitioning bool
}

// NewSession creates a session in the Start phase. The high score is read
// from store here and again whenever a session starts or ends; a failed
// read keeps the last known value.
func NewSession(cat *catalog.Catalog, settings Settings, store HighScoreStore, opts ...Option) (*Session, error) {
	if cat == nil {
		return nil, &ConfigError{Reason: "no catalog"}
	}
	if store == nil {
		store = NewMemoryStore(0)
	}

	s := &Session{
		cat:      cat,
		store:    store,
		rules:    DefaultRules(),
		settings: settings.clone(),
		now:      time.Now,
		seed:     time.Now().UnixNano(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if err := s.rules.validate(); err != nil {
		return nil, err
	}

	s.spawner = NewSpawner(cat, rand.New(rand.NewSource(s.seed)), s.rules.InterleavePeriod, s.rules.BaseRate, s.now)
	s.life = s.rules.Lives
	if len(s.settings.Stages) > 0 {
		s.stageID = s.settings.Stages[0]
	}

	hs, err := store.Get()
	if err != nil {
		s.logger.Warn("failed to load high score", "err", err)
		hs = 0
	}
	s.highScore = hs

	return s, nil
}

// AddListener registers l for subsequent events.
func (s *Session) AddListener(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Settings returns a copy of the active settings.
func (s *Session) Settings() Settings {
	return s.settings.clone()
}

// Rules returns the game parameters.
func (s *Session) Rules() Rules {
	return s.rules
}

// Start begins a session from Start or restarts from a terminal phase.
// It is ignored while a session is in progress. Invalid settings leave the
// phase unchanged.
func (s *Session) Start() error {
	if s.phase != PhaseStart && !s.phase.Terminal() {
		return nil
	}
	if err := s.settings.Validate(s.cat); err != nil {
		return err
	}

	s.score = 0
	s.life = s.rules.Lives
	s.questionCount = 0
	s.stageIndex = 0
	s.stageID = s.settings.Stages[0]
	s.buffer = ""
	s.prompt = nil
	s.newRecord = false
	s.transitioning = false
	s.refreshHighScore()
	s.setPhase(PhasePlaying)

	s.emit(Event{Kind: EventSessionBegin})
	return nil
}

// Reset abandons the current session and returns to Start so settings can
// be changed. Score and progress of the abandoned session are discarded.
func (s *Session) Reset() {
	s.score = 0
	s.life = s.rules.Lives
	s.questionCount = 0
	s.stageIndex = 0
	if len(s.settings.Stages) > 0 {
		s.stageID = s.settings.Stages[0]
	}
	s.buffer = ""
	s.prompt = nil
	s.newRecord = false
	s.transitioning = false
	s.setPhase(PhaseStart)
}

// Tick advances the fall simulation by one step while playing.
func (s *Session) Tick() {
	if s.phase != PhasePlaying {
		return
	}
	if s.prompt == nil {
		s.spawn()
		return
	}

	s.prompt.Y += s.prompt.FallRate
	if s.prompt.Y > s.rules.FloorY {
		p := *s.prompt
		s.prompt = nil
		s.buffer = ""
		s.finish(PhaseGameOver, p.X, p.Y)
	}
}

// Type feeds one keystroke to the active prompt. Anything other than a
// Latin letter is ignored.
func (s *Session) Type(r rune) {
	if s.phase != PhasePlaying || s.prompt == nil {
		return
	}
	if !isLatinLetter(r) {
		return
	}

	s.buffer += string(toUpper(r))
	p := s.prompt

	switch Evaluate(s.buffer, s.cat.MustSpellings(p.Glyph)) {
	case MatchPending:
		s.emit(Event{Kind: EventKeystroke, X: p.X, Y: p.Y})

	case MatchFailure:
		s.life--
		s.buffer = ""
		s.emit(Event{Kind: EventMiss, X: p.X, Y: p.Y})
		if s.life <= 0 {
			s.life = 0
			s.prompt = nil
			s.finish(PhaseGameOver, p.X, p.Y)
		}

	case MatchSuccess:
		pts := Points(p.Y, s.settings.Speed)
		s.score += pts
		s.buffer = ""
		solved := s.questionCount
		s.questionCount++
		s.prompt = nil
		s.emit(Event{Kind: EventCorrect, Points: pts, X: p.X, Y: p.Y})

		if solved >= s.rules.QuestionsPerStage-1 {
			s.stageIndex++
			if s.stageIndex >= len(s.settings.Stages) {
				s.finish(PhaseClear, p.X, p.Y)
			} else {
				s.finish(PhaseStageClear, p.X, p.Y)
			}
			return
		}
		s.spawn()
	}
}

// Continue requests the move from a stage clear screen to the next stage.
// It returns true when the caller should schedule CompleteTransition.
func (s *Session) Continue() bool {
	if s.phase != PhaseStageClear || s.transitioning {
		return false
	}
	s.transitioning = true
	return true
}

// CompleteTransition enters the next stage once the presentation delay
// scheduled by Continue has elapsed.
func (s *Session) CompleteTransition() {
	if s.phase != PhaseStageClear || !s.transitioning {
		return
	}
	s.transitioning = false
	s.questionCount = 0
	s.buffer = ""
	s.prompt = nil
	s.stageID = s.settings.Stages[s.stageIndex]
	s.setPhase(PhasePlaying)
}

// CancelTransition drops a pending stage transition.
func (s *Session) CancelTransition() {
	s.transitioning = false
}

// ApplySettings replaces the stage order and speed. Only allowed in Start.
func (s *Session) ApplySettings(settings Settings) error {
	if s.phase != PhaseStart {
		return ErrSettingsLocked
	}
	if err := settings.Validate(s.cat); err != nil {
		return err
	}
	s.settings = settings.clone()
	s.stageIndex = 0
	s.stageID = s.settings.Stages[0]
	s.logger.Debug("settings applied", "stages", s.settings.Stages, "speed", s.settings.Speed)
	return nil
}

// finish moves into a clear or game over phase, records the score and
// notifies listeners.
func (s *Session) finish(next Phase, x, y float64) {
	s.setPhase(next)
	s.recordHighScore()

	ev := Event{X: x, Y: y}
	switch next {
	case PhaseStageClear:
		ev.Kind = EventStageClear
	case PhaseClear:
		ev.Kind = EventSessionClear
	default:
		ev.Kind = EventGameOver
	}
	s.emit(ev)
}

// recordHighScore persists the score if it beats the best so far.
// A failed write is logged; the in-memory value still moves up.
func (s *Session) recordHighScore() {
	s.refreshHighScore()
	if s.score <= s.highScore {
		return
	}
	s.highScore = s.score
	s.newRecord = true
	if err := s.store.Set(s.score); err != nil {
		s.logger.Warn("failed to save high score", "score", s.score, "err", err)
	}
}

// refreshHighScore picks up a record set elsewhere on the same store,
// such as another connection. The cached value never goes down.
func (s *Session) refreshHighScore() {
	hs, err := s.store.Get()
	if err != nil {
		s.logger.Debug("failed to reload high score", "err", err)
		return
	}
	s.highScore = max(s.highScore, hs)
}

func (s *Session) spawn() {
	p := s.spawner.Spawn(s.settings.Stages[s.stageIndex], s.questionCount, s.settings.Speed)
	s.prompt = &p
}

func (s *Session) setPhase(p Phase) {
	if s.phase == p {
		return
	}
	s.logger.Debug("phase", "from", s.phase, "to", p, "score", s.score, "stage", s.stageID)
	s.phase = p
}

func (s *Session) emit(e Event) {
	e.Score = s.score
	e.Stage = s.stageID
	e.Question = s.questionCount
	e.Life = s.life
	for _, l := range s.listeners {
		l.OnEvent(e)
	}
}

func isLatinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}
