package storage

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/kana-drop/internal/games/kanadrop"
)

// Recorder is a kanadrop.Listener that writes every finished session to
// the history table.
type Recorder struct {
	store  *Store
	logger *log.Logger
}

var _ kanadrop.Listener = (*Recorder)(nil)

// NewRecorder creates a recorder. logger may be nil.
func NewRecorder(store *Store, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Recorder{store: store, logger: logger}
}

// OnEvent saves game over and clear events. Write failures are logged.
func (r *Recorder) OnEvent(e kanadrop.Event) {
	var outcome string
	switch e.Kind {
	case kanadrop.EventGameOver:
		outcome = OutcomeGameOver
	case kanadrop.EventSessionClear:
		outcome = OutcomeClear
	default:
		return
	}

	_, err := r.store.SaveResult(Result{
		Score:    e.Score,
		Stage:    e.Stage,
		Question: e.Question,
		Outcome:  outcome,
	})
	if err != nil {
		r.logger.Warn("failed to record session", "score", e.Score, "err", err)
		return
	}
	r.logger.Debug("session recorded", "score", e.Score, "outcome", outcome)
}
