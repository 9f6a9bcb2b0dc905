package photosearch

import (
	"strings"

	"github.com/csheth/photoscout/internal/manifest"
)

// State is the presentation outcome of a completed search.
type State int

const (
	// StateIdle means the query held no tokens; nothing is rendered.
	StateIdle State = iota
	// StateResults means at least one entry matched.
	StateResults
	// StateNoMatches means the query held tokens but nothing matched.
	StateNoMatches
)

func (s State) String() string {
	switch s {
	case StateResults:
		return "results"
	case StateNoMatches:
		return "no matches"
	default:
		return "idle"
	}
}

// Result is the complete outcome of one search pass. Every search rebuilds it
// from scratch; nothing is patched incrementally.
type Result struct {
	State   State
	Matches []manifest.Entry
	// Query keeps the trimmed raw text for the results caption.
	Query string
}

// Search filters entries against rawQuery. The query is normalized and split
// into whitespace-delimited tokens; an entry matches when every token appears
// as a substring of its haystack ("mar" matches "Maria", token order is
// irrelevant). Matches keep manifest order and duplicates are preserved.
func Search(entries []manifest.Entry, rawQuery string) Result {
	result := Result{Query: strings.TrimSpace(rawQuery)}
	tokens := strings.Fields(Normalize(rawQuery))
	if len(tokens) == 0 {
		result.State = StateIdle
		return result
	}
	for _, entry := range entries {
		if matchesAll(entry, tokens) {
			result.Matches = append(result.Matches, entry)
		}
	}
	if len(result.Matches) == 0 {
		result.State = StateNoMatches
		return result
	}
	result.State = StateResults
	return result
}

// Haystack builds the searchable text of an entry: caption, last name, then
// first name, space-joined and normalized. Entries keep their original case;
// normalization happens here, at query time.
func Haystack(entry manifest.Entry) string {
	return Normalize(entry.Caption + " " + entry.LastName + " " + entry.FirstName)
}

func matchesAll(entry manifest.Entry, tokens []string) bool {
	haystack := Haystack(entry)
	for _, token := range tokens {
		if !strings.Contains(haystack, token) {
			return false
		}
	}
	return true
}
