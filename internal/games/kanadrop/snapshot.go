package kanadrop

import "github.com/vovakirdan/kana-drop/internal/catalog"

// PromptView is the renderer's copy of the active prompt.
type PromptView struct {
	ID    uint64
	Glyph catalog.Glyph
	Hint  catalog.Spelling
	X, Y  float64
}

// Snapshot is an immutable copy of the session for renderers.
type Snapshot struct {
	Phase         Phase
	Stage         int
	StageName     string
	StageIndex    int
	StageCount    int
	Score         int
	HighScore     int
	NewRecord     bool
	Life          int
	MaxLife       int
	Question      int
	Questions     int
	Buffer        string
	Prompt        *PromptView
	ShowHint      bool // romaji hint under the glyph, off for the home-key stage
	Speed         float64
	Transitioning bool
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:         s.phase,
		Stage:         s.stageID,
		StageIndex:    s.stageIndex,
		StageCount:    len(s.settings.Stages),
		Score:         s.score,
		HighScore:     s.highScore,
		NewRecord:     s.newRecord,
		Life:          s.life,
		MaxLife:       s.rules.Lives,
		Question:      s.questionCount,
		Questions:     s.rules.QuestionsPerStage,
		Buffer:        s.buffer,
		ShowHint:      s.stageID > s.cat.BaseStage(),
		Speed:         s.settings.Speed,
		Transitioning: s.transitioning,
	}
	if st, ok := s.cat.Stage(s.stageID); ok {
		snap.StageName = st.Name
	}
	if s.prompt != nil {
		snap.Prompt = &PromptView{
			ID:    s.prompt.ID,
			Glyph: s.prompt.Glyph,
			Hint:  s.cat.Hint(s.prompt.Glyph),
			X:     s.prompt.X,
			Y:     s.prompt.Y,
		}
	}
	return snap
}
