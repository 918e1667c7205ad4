package storage

import "github.com/vovakirdan/kana-drop/internal/games/kanadrop"

// DefaultHighScoreKey names the single high score cell used by the game.
const DefaultHighScoreKey = "kanadrop"

// HighScoreCell exposes one row of the high_scores table as a
// kanadrop.HighScoreStore.
type HighScoreCell struct {
	store *Store
	key   string
}

var _ kanadrop.HighScoreStore = (*HighScoreCell)(nil)

// NewHighScoreCell binds key in store.
func NewHighScoreCell(store *Store, key string) *HighScoreCell {
	if key == "" {
		key = DefaultHighScoreKey
	}
	return &HighScoreCell{store: store, key: key}
}

// Get returns the stored high score.
func (c *HighScoreCell) Get() (int, error) {
	return c.store.HighScore(c.key)
}

// Set raises the stored high score. Lower values leave it unchanged.
func (c *HighScoreCell) Set(score int) error {
	_, err := c.store.RaiseHighScore(c.key, score)
	return err
}
