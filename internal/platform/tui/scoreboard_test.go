package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/kana-drop/internal/storage"
)

type fakeSource struct {
	top    []storage.Result
	recent []storage.Result
	err    error
}

func (f *fakeSource) TopResults(int) ([]storage.Result, error)    { return f.top, f.err }
func (f *fakeSource) RecentResults(int) ([]storage.Result, error) { return f.recent, f.err }

func (f *fakeSource) GetStats() (*storage.Stats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &storage.Stats{Sessions: len(f.recent), BestScore: 120, AvgScore: 80}, nil
}

func sampleSource() *fakeSource {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &fakeSource{
		top: []storage.Result{
			{ID: 2, Score: 120, Stage: 10, Question: 20, Outcome: storage.OutcomeClear, CreatedAt: at},
			{ID: 1, Score: 40, Stage: 3, Question: 7, Outcome: storage.OutcomeGameOver, CreatedAt: at},
		},
		recent: []storage.Result{
			{ID: 1, Score: 40, Stage: 3, Question: 7, Outcome: storage.OutcomeGameOver, CreatedAt: at},
		},
	}
}

func TestScoreboardSwitchesViews(t *testing.T) {
	m := NewScoreboardModel(sampleSource(), 80, 30)
	if m.Board() != BoardBest || len(m.Results()) != 2 {
		t.Fatalf("initial board = %v with %d rows, expected Best with 2", m.Board(), len(m.Results()))
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.Board() != BoardRecent || len(m.Results()) != 1 {
		t.Errorf("after tab board = %v with %d rows, expected Recent with 1", m.Board(), len(m.Results()))
	}
}

func TestScoreboardView(t *testing.T) {
	view := NewScoreboardModel(sampleSource(), 80, 30).View()
	for _, want := range []string{"KANA DROP SCORES", "all clear", "out at 7", "best 120"} {
		if !strings.Contains(view, want) {
			t.Errorf("view is missing %q", want)
		}
	}
}

func TestScoreboardEmptyAndError(t *testing.T) {
	empty := NewScoreboardModel(&fakeSource{}, 80, 30).View()
	if !strings.Contains(empty, "No sessions recorded yet") {
		t.Error("empty history should say so")
	}

	broken := NewScoreboardModel(&fakeSource{err: errors.New("locked")}, 80, 30).View()
	if !strings.Contains(broken, "Could not read") {
		t.Error("a read failure should be shown")
	}

	none := NewScoreboardModel(nil, 80, 30).View()
	if !strings.Contains(none, "No sessions recorded yet") {
		t.Error("a missing store should look like an empty history")
	}
}

func TestScoreboardQuit(t *testing.T) {
	m := NewScoreboardModel(sampleSource(), 80, 30)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if next.(ScoreboardModel).View() != "" {
		t.Error("quitting scoreboard should render nothing")
	}
}
