package kanadrop

import (
	"strings"

	"github.com/vovakirdan/kana-drop/internal/catalog"
)

// MatchResult is the verdict on a partial keystroke buffer.
type MatchResult int

const (
	MatchPending MatchResult = iota
	MatchSuccess
	MatchFailure
)

func (m MatchResult) String() string {
	switch m {
	case MatchPending:
		return "Pending"
	case MatchSuccess:
		return "Success"
	case MatchFailure:
		return "Failure"
	default:
		return "Unknown"
	}
}

// Evaluate checks buffer against the accepted spellings of a glyph.
// The buffer only has to stay a live prefix of some spelling, so glyphs with
// several spellings resolve as more letters arrive.
func Evaluate(buffer string, accepted []catalog.Spelling) MatchResult {
	if buffer == "" {
		return MatchPending
	}
	buffer = strings.ToUpper(buffer)

	live := false
	for _, sp := range accepted {
		s := string(sp)
		if s == buffer {
			return MatchSuccess
		}
		if strings.HasPrefix(s, buffer) {
			live = true
		}
	}
	if live {
		return MatchPending
	}
	return MatchFailure
}
