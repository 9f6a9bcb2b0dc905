// Package photosearch filters the in-memory photo manifest against free-text
// queries. The whole working set is rescanned on every search; at manifest
// scale a linear pass is cheaper than maintaining any index.
package photosearch

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	stripMarks    = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes text for comparison: accented characters are
// decomposed and their combining marks removed (so "José" and "Jose" compare
// equal), whitespace runs collapse to a single space, and the result is
// lowercased and trimmed. Idempotent and side-effect free.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	stripped, _, err := transform.String(stripMarks, text)
	if err != nil {
		stripped = text
	}
	collapsed := whitespaceRun.ReplaceAllString(stripped, " ")
	return strings.ToLower(strings.TrimSpace(collapsed))
}
