package kanadrop

import "sync"

// HighScoreStore is a durable cell holding the best score ever achieved.
type HighScoreStore interface {
	Get() (int, error)
	Set(score int) error
}

// MemoryStore is a HighScoreStore that lives only as long as the process.
// It is used when no database is available.
type MemoryStore struct {
	mu    sync.Mutex
	score int
}

// NewMemoryStore creates a store seeded with score.
func NewMemoryStore(score int) *MemoryStore {
	return &MemoryStore{score: score}
}

// Get returns the stored score.
func (m *MemoryStore) Get() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.score, nil
}

// Set raises the stored score. Lower values are ignored.
func (m *MemoryStore) Set(score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if score > m.score {
		m.score = score
	}
	return nil
}
