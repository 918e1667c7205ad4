package catalog

import (
	"errors"
	"reflect"
	"testing"
)

func TestDefaultStages(t *testing.T) {
	c := Default()

	stages := c.Stages()
	if len(stages) != 10 {
		t.Fatalf("Default() has %d stages, expected 10", len(stages))
	}
	for i, st := range stages {
		if st.ID != i+1 {
			t.Errorf("stage %d has ID %d", i, st.ID)
		}
		if len(st.Glyphs) == 0 {
			t.Errorf("stage %d has no glyphs", st.ID)
		}
	}

	if base := c.BaseGlyphs(); !reflect.DeepEqual(base, []Glyph{"F", "J"}) {
		t.Errorf("BaseGlyphs() = %v, expected [F J]", base)
	}
}

func TestDefaultSpellings(t *testing.T) {
	c := Default()

	tests := []struct {
		glyph Glyph
		want  []Spelling
	}{
		{"F", []Spelling{"F"}},
		{"か", []Spelling{"KA"}},
		{"し", []Spelling{"SI", "SHI"}},
		{"ち", []Spelling{"TI", "CHI"}},
		{"つ", []Spelling{"TU", "TSU"}},
		{"ふ", []Spelling{"FU", "HU"}},
		{"を", []Spelling{"WO"}},
		{"ん", []Spelling{"NN"}},
	}

	for _, tc := range tests {
		t.Run(string(tc.glyph), func(t *testing.T) {
			got, err := c.Spellings(tc.glyph)
			if err != nil {
				t.Fatalf("Spellings(%q) error: %v", tc.glyph, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Spellings(%q) = %v, expected %v", tc.glyph, got, tc.want)
			}
			if hint := c.Hint(tc.glyph); hint != tc.want[0] {
				t.Errorf("Hint(%q) = %q, expected %q", tc.glyph, hint, tc.want[0])
			}
		})
	}
}

func TestEveryStageGlyphHasSpellings(t *testing.T) {
	c := Default()
	for _, st := range c.Stages() {
		for _, g := range st.Glyphs {
			if _, err := c.Spellings(g); err != nil {
				t.Errorf("stage %d glyph %q: %v", st.ID, g, err)
			}
		}
	}
}

func TestUnknownGlyph(t *testing.T) {
	c := Default()

	_, err := c.Spellings("ア")
	if !errors.Is(err, ErrUnknownGlyph) {
		t.Fatalf("Spellings of a katakana glyph: err = %v, expected ErrUnknownGlyph", err)
	}
	if c.Hint("ア") != "" {
		t.Error("Hint of an unknown glyph should be empty")
	}

	defer func() {
		if recover() == nil {
			t.Error("MustSpellings should panic on an unknown glyph")
		}
	}()
	c.MustSpellings("ア")
}

func TestNewValidation(t *testing.T) {
	fj := map[Glyph][]Spelling{"F": {"F"}, "J": {"J"}}

	tests := []struct {
		name      string
		stages    []Stage
		spellings map[Glyph][]Spelling
		wantErr   bool
	}{
		{"valid", []Stage{{ID: 1, Glyphs: []Glyph{"F", "J"}}}, fj, false},
		{"no stages", nil, fj, true},
		{"empty stage", []Stage{{ID: 1}}, fj, true},
		{"duplicate id", []Stage{{ID: 1, Glyphs: []Glyph{"F"}}, {ID: 1, Glyphs: []Glyph{"J"}}}, fj, true},
		{"missing spelling", []Stage{{ID: 1, Glyphs: []Glyph{"か"}}}, fj, true},
		{"lowercase spelling", []Stage{{ID: 1, Glyphs: []Glyph{"か"}}}, map[Glyph][]Spelling{"か": {"ka"}}, true},
		{"empty spelling", []Stage{{ID: 1, Glyphs: []Glyph{"か"}}}, map[Glyph][]Spelling{"か": {""}}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.stages, tc.spellings)
			if (err != nil) != tc.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestBaseGlyphsUseLowestStage(t *testing.T) {
	c, err := New([]Stage{
		{ID: 5, Glyphs: []Glyph{"か"}},
		{ID: 2, Glyphs: []Glyph{"F"}},
	}, map[Glyph][]Spelling{"か": {"KA"}, "F": {"F"}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if base := c.BaseGlyphs(); !reflect.DeepEqual(base, []Glyph{"F"}) {
		t.Errorf("BaseGlyphs() = %v, expected [F]", base)
	}
	if st, ok := c.Stage(5); !ok || st.Glyphs[0] != "か" {
		t.Errorf("Stage(5) = %+v, %v", st, ok)
	}
	if _, ok := c.Stage(3); ok {
		t.Error("Stage(3) should not exist")
	}
}

func TestResolveGroups(t *testing.T) {
	stages, unknown := ResolveGroups([]string{"ka", "basic", "a", "ka", "zz"})

	if !reflect.DeepEqual(stages, []int{1, 2, 3}) {
		t.Errorf("stages = %v, expected [1 2 3]", stages)
	}
	if !reflect.DeepEqual(unknown, []string{"zz"}) {
		t.Errorf("unknown = %v, expected [zz]", unknown)
	}

	if stages, _ := ResolveGroups(nil); len(stages) != 0 {
		t.Errorf("no groups should give no stages, got %v", stages)
	}
}

func TestGroupsFor(t *testing.T) {
	got := GroupsFor([]int{3, 1, 10})
	want := []string{"ka", "wa", "basic"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GroupsFor = %v, expected %v", got, want)
	}
}
