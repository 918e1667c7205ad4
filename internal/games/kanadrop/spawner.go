package kanadrop

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/kana-drop/internal/catalog"
)

// Spawn geometry in field percent.
const (
	SpawnMinX = 10.0
	SpawnMaxX = 90.0
	SpawnY    = -10.0
)

// Prompt is a glyph falling down the play field.
type Prompt struct {
	ID        uint64
	Glyph     catalog.Glyph
	X, Y      float64
	FallRate  float64
	SpawnedAt time.Time
}

// Spawner creates prompts for a stage.
type Spawner struct {
	cat        *catalog.Catalog
	rng        *rand.Rand
	now        func() time.Time
	interleave int
	baseRate   float64
	nextID     uint64
}

// NewSpawner creates a spawner drawing from rng.
// An interleave period of zero or less disables the base glyph drills.
func NewSpawner(cat *catalog.Catalog, rng *rand.Rand, interleave int, baseRate float64, now func() time.Time) *Spawner {
	if now == nil {
		now = time.Now
	}
	return &Spawner{
		cat:        cat,
		rng:        rng,
		now:        now,
		interleave: interleave,
		baseRate:   baseRate,
	}
}

// Spawn produces the prompt for question questionCount of stageID.
// Every interleave-th question (after the first) is a base glyph drill.
func (s *Spawner) Spawn(stageID, questionCount int, speed float64) Prompt {
	var set []catalog.Glyph
	if s.interleave > 0 && questionCount > 0 && questionCount%s.interleave == 0 {
		set = s.cat.BaseGlyphs()
	} else {
		st, ok := s.cat.Stage(stageID)
		if !ok || len(st.Glyphs) == 0 {
			panic(fmt.Sprintf("kanadrop: spawn from unplayable stage %d", stageID))
		}
		set = st.Glyphs
	}

	s.nextID++
	return Prompt{
		ID:        s.nextID,
		Glyph:     set[s.rng.Intn(len(set))],
		X:         SpawnMinX + s.rng.Float64()*(SpawnMaxX-SpawnMinX),
		Y:         SpawnY,
		FallRate:  s.baseRate * speed,
		SpawnedAt: s.now(),
	}
}
