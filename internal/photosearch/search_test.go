package photosearch

import (
	"testing"

	"github.com/csheth/photoscout/internal/manifest"
)

func familyEntries() []manifest.Entry {
	return []manifest.Entry{
		{Caption: "Smith Family", LastName: "Smith", URL: "a.jpg"},
		{Caption: "Jones", LastName: "Jones", URL: "b.jpg"},
	}
}

func TestSearchSingleMatch(t *testing.T) {
	result := Search(familyEntries(), "smith")
	if result.State != StateResults {
		t.Fatalf("state = %v, want %v", result.State, StateResults)
	}
	if len(result.Matches) != 1 || result.Matches[0].URL != "a.jpg" {
		t.Fatalf("unexpected matches: %#v", result.Matches)
	}
	if result.Query != "smith" {
		t.Fatalf("query = %q, want %q", result.Query, "smith")
	}
}

func TestSearchNoMatches(t *testing.T) {
	result := Search(familyEntries(), "xyz")
	if result.State != StateNoMatches {
		t.Fatalf("state = %v, want %v", result.State, StateNoMatches)
	}
	if len(result.Matches) != 0 {
		t.Fatalf("expected no matches, got %#v", result.Matches)
	}
}

func TestSearchEmptyQueryIsIdleNotNoMatches(t *testing.T) {
	for _, query := range []string{"", "   ", "\t \n"} {
		result := Search(familyEntries(), query)
		if result.State != StateIdle {
			t.Fatalf("query %q: state = %v, want %v", query, result.State, StateIdle)
		}
		if len(result.Matches) != 0 {
			t.Fatalf("query %q: expected empty matches", query)
		}
	}
}

func TestSearchAllTokensMustMatch(t *testing.T) {
	// No single entry contains both tokens, so the conjunction fails.
	result := Search(familyEntries(), "SMITH jones")
	if result.State != StateNoMatches {
		t.Fatalf("state = %v, want %v", result.State, StateNoMatches)
	}
}

func TestSearchTokenOrderIrrelevant(t *testing.T) {
	entries := []manifest.Entry{
		{Caption: "Summer picnic", FirstName: "Ana", LastName: "García", URL: "p.jpg"},
	}
	forward := Search(entries, "ana picnic")
	backward := Search(entries, "picnic ana")
	if forward.State != StateResults || backward.State != StateResults {
		t.Fatalf("both orders should match: %v / %v", forward.State, backward.State)
	}
	if len(forward.Matches) != len(backward.Matches) {
		t.Fatalf("match sets differ by token order: %d vs %d", len(forward.Matches), len(backward.Matches))
	}
}

func TestSearchSubstringNotWholeWord(t *testing.T) {
	entries := []manifest.Entry{{FirstName: "Maria", URL: "m.jpg"}}
	if result := Search(entries, "mar"); result.State != StateResults {
		t.Fatalf("substring query should match, got %v", result.State)
	}
}

func TestSearchDiacriticsFoldAcrossQueryAndEntry(t *testing.T) {
	entries := []manifest.Entry{{LastName: "García", URL: "g.jpg"}}
	if result := Search(entries, "garcia"); result.State != StateResults {
		t.Fatalf("expected accent-folded match, got %v", result.State)
	}
}

func TestSearchPreservesManifestOrderAndDuplicates(t *testing.T) {
	entries := []manifest.Entry{
		{Caption: "Smith reunion", URL: "1.jpg"},
		{Caption: "Jones", URL: "2.jpg"},
		{Caption: "Smith wedding", URL: "3.jpg"},
		{Caption: "Smith reunion", URL: "1.jpg"}, // duplicate stays
	}
	result := Search(entries, "smith")
	want := []string{"1.jpg", "3.jpg", "1.jpg"}
	if len(result.Matches) != len(want) {
		t.Fatalf("got %d matches, want %d", len(result.Matches), len(want))
	}
	for i, url := range want {
		if result.Matches[i].URL != url {
			t.Fatalf("match %d = %q, want %q", i, result.Matches[i].URL, url)
		}
	}
}

func TestHaystackOrderIsCaptionLastFirst(t *testing.T) {
	entry := manifest.Entry{Caption: "Picnic", FirstName: "Ana", LastName: "García"}
	if got, want := Haystack(entry), "picnic garcia ana"; got != want {
		t.Fatalf("Haystack = %q, want %q", got, want)
	}
}
