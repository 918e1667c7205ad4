package kanadrop

import (
	"errors"
	"testing"

	"github.com/vovakirdan/kana-drop/internal/catalog"
)

// fakeStore records every write.
type fakeStore struct {
	score  int
	sets   []int
	getErr error
	setErr error
}

func (f *fakeStore) Get() (int, error) {
	if f.getErr != nil {
		return 0, f.getErr
	}
	return f.score, nil
}

func (f *fakeStore) Set(score int) error {
	f.sets = append(f.sets, score)
	if f.setErr != nil {
		return f.setErr
	}
	f.score = score
	return nil
}

// recorder collects events in order.
type recorder struct {
	events []Event
}

func (r *recorder) OnEvent(e Event) {
	r.events = append(r.events, e)
}

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func (r *recorder) count(k EventKind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

func (r *recorder) last() Event {
	if len(r.events) == 0 {
		return Event{Kind: -1}
	}
	return r.events[len(r.events)-1]
}

var errDisk = errors.New("disk full")

func fjCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(
		[]catalog.Stage{{ID: 1, Name: "F J", Glyphs: []catalog.Glyph{"F", "J"}}},
		map[catalog.Glyph][]catalog.Spelling{"F": {"F"}, "J": {"J"}},
	)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return c
}

func kaCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(
		[]catalog.Stage{
			{ID: 1, Glyphs: []catalog.Glyph{"F", "J"}},
			{ID: 2, Glyphs: []catalog.Glyph{"か"}},
		},
		map[catalog.Glyph][]catalog.Spelling{"F": {"F"}, "J": {"J"}, "か": {"KA"}},
	)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return c
}

func newTestSession(t *testing.T, cat *catalog.Catalog, settings Settings, store HighScoreStore, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithSeed(42)}, opts...)
	s, err := NewSession(cat, settings, store, opts...)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

// typeWord sends every rune of w.
func typeWord(s *Session, w string) {
	for _, r := range w {
		s.Type(r)
	}
}

// answer makes sure a prompt is active and types its first spelling.
// It returns the points gained.
func answer(t *testing.T, s *Session) int {
	t.Helper()
	if s.prompt == nil {
		s.Tick()
	}
	if s.prompt == nil {
		t.Fatalf("no prompt after tick in phase %v", s.Phase())
	}
	before := s.score
	typeWord(s, string(s.cat.Hint(s.prompt.Glyph)))
	return s.score - before
}
