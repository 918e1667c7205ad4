package catalog

var defaultStages = []Stage{
	{ID: 1, Name: "F J", Glyphs: []Glyph{"F", "J"}},
	{ID: 2, Name: "あ行", Glyphs: []Glyph{"あ", "い", "う", "え", "お"}},
	{ID: 3, Name: "か行", Glyphs: []Glyph{"か", "き", "く", "け", "こ"}},
	{ID: 4, Name: "さ行", Glyphs: []Glyph{"さ", "し", "す", "せ", "そ"}},
	{ID: 5, Name: "た行", Glyphs: []Glyph{"た", "ち", "つ", "て", "と"}},
	{ID: 6, Name: "な行", Glyphs: []Glyph{"な", "に", "ぬ", "ね", "の"}},
	{ID: 7, Name: "は行", Glyphs: []Glyph{"は", "ひ", "ふ", "へ", "ほ"}},
	{ID: 8, Name: "ま行", Glyphs: []Glyph{"ま", "み", "む", "め", "も"}},
	{ID: 9, Name: "や行", Glyphs: []Glyph{"や", "ゆ", "よ"}},
	{ID: 10, Name: "わ行", Glyphs: []Glyph{"わ", "を", "ん"}},
}

// Hepburn and Kunrei spellings are both accepted where they differ.
var defaultSpellings = map[Glyph][]Spelling{
	"F": {"F"},
	"J": {"J"},

	"あ": {"A"}, "い": {"I"}, "う": {"U"}, "え": {"E"}, "お": {"O"},
	"か": {"KA"}, "き": {"KI"}, "く": {"KU"}, "け": {"KE"}, "こ": {"KO"},
	"さ": {"SA"}, "し": {"SI", "SHI"}, "す": {"SU"}, "せ": {"SE"}, "そ": {"SO"},
	"た": {"TA"}, "ち": {"TI", "CHI"}, "つ": {"TU", "TSU"}, "て": {"TE"}, "と": {"TO"},
	"な": {"NA"}, "に": {"NI"}, "ぬ": {"NU"}, "ね": {"NE"}, "の": {"NO"},
	"は": {"HA"}, "ひ": {"HI"}, "ふ": {"FU", "HU"}, "へ": {"HE"}, "ほ": {"HO"},
	"ま": {"MA"}, "み": {"MI"}, "む": {"MU"}, "め": {"ME"}, "も": {"MO"},
	"や": {"YA"}, "ゆ": {"YU"}, "よ": {"YO"},
	"わ": {"WA"}, "を": {"WO"}, "ん": {"NN"},
}

// Default returns the built-in hiragana catalog.
func Default() *Catalog {
	c, err := New(defaultStages, defaultSpellings)
	if err != nil {
		panic(err)
	}
	return c
}
