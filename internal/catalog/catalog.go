// Package catalog holds the static prompt data: which glyphs belong to each
// stage and which Latin spellings are accepted for every glyph.
package catalog

import (
	"errors"
	"fmt"
	"sort"
)

// Glyph is a single practice character shown to the player.
type Glyph string

// Spelling is one accepted uppercase Latin keystroke sequence for a glyph.
type Spelling string

// ErrUnknownGlyph is returned when a glyph has no entry in the catalog.
var ErrUnknownGlyph = errors.New("catalog: unknown glyph")

// Stage is an ordered glyph set played as one unit of questions.
type Stage struct {
	ID     int
	Name   string
	Glyphs []Glyph
}

// Catalog maps stages to glyphs and glyphs to spellings.
// It is immutable once built.
type Catalog struct {
	stages    []Stage
	byID      map[int]int
	spellings map[Glyph][]Spelling
	baseID    int
}

// New builds a catalog from stage and spelling tables.
// The stage with the lowest ID provides the base practice glyphs.
func New(stages []Stage, spellings map[Glyph][]Spelling) (*Catalog, error) {
	if len(stages) == 0 {
		return nil, errors.New("catalog: no stages")
	}

	c := &Catalog{
		byID:      make(map[int]int, len(stages)),
		spellings: make(map[Glyph][]Spelling, len(spellings)),
	}

	for _, st := range stages {
		if _, dup := c.byID[st.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate stage id %d", st.ID)
		}
		if len(st.Glyphs) == 0 {
			return nil, fmt.Errorf("catalog: stage %d has no glyphs", st.ID)
		}
		for _, g := range st.Glyphs {
			list, ok := spellings[g]
			if !ok || len(list) == 0 {
				return nil, fmt.Errorf("catalog: stage %d: glyph %q has no spellings", st.ID, g)
			}
			for _, sp := range list {
				if err := validSpelling(sp); err != nil {
					return nil, fmt.Errorf("catalog: glyph %q: %w", g, err)
				}
			}
		}
		c.byID[st.ID] = len(c.stages)
		c.stages = append(c.stages, Stage{
			ID:     st.ID,
			Name:   st.Name,
			Glyphs: append([]Glyph(nil), st.Glyphs...),
		})
	}

	for g, list := range spellings {
		c.spellings[g] = append([]Spelling(nil), list...)
	}

	sort.SliceStable(c.stages, func(i, j int) bool { return c.stages[i].ID < c.stages[j].ID })
	for i, st := range c.stages {
		c.byID[st.ID] = i
	}
	c.baseID = c.stages[0].ID

	return c, nil
}

func validSpelling(sp Spelling) error {
	if sp == "" {
		return errors.New("empty spelling")
	}
	for _, r := range sp {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("spelling %q is not uppercase Latin", sp)
		}
	}
	return nil
}

// Stage returns the stage with the given ID.
func (c *Catalog) Stage(id int) (Stage, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Stage{}, false
	}
	return c.stages[i], true
}

// Stages returns every stage ordered by ID.
func (c *Catalog) Stages() []Stage {
	out := make([]Stage, len(c.stages))
	copy(out, c.stages)
	return out
}

// BaseStage returns the ID of the stage whose glyphs are the key drills.
func (c *Catalog) BaseStage() int {
	return c.baseID
}

// BaseGlyphs returns the glyphs mixed into every stage as key drills.
func (c *Catalog) BaseGlyphs() []Glyph {
	st, _ := c.Stage(c.baseID)
	return st.Glyphs
}

// Spellings returns the accepted spellings for g.
func (c *Catalog) Spellings(g Glyph) ([]Spelling, error) {
	list, ok := c.spellings[g]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownGlyph, g)
	}
	return list, nil
}

// MustSpellings is like Spellings but panics on a miss.
// Stage sets are validated on construction, so a miss is a bug.
func (c *Catalog) MustSpellings(g Glyph) []Spelling {
	list, err := c.Spellings(g)
	if err != nil {
		panic(err)
	}
	return list
}

// Hint returns the first accepted spelling, or "" for an unknown glyph.
func (c *Catalog) Hint(g Glyph) Spelling {
	list := c.spellings[g]
	if len(list) == 0 {
		return ""
	}
	return list[0]
}
