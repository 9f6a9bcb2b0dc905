package manifest

import (
	"strconv"
	"strings"
)

// Entry represents one validated photo record from the manifest. Entries are
// immutable after load: search reads them, nothing writes them, and their
// lifetime equals the program session.
type Entry struct {
	URL       string
	Caption   string
	FirstName string
	LastName  string
	FamilyID  string
}

// Title returns the display title for the entry's card, falling back to a
// generic label when the caption is empty.
func (e Entry) Title() string {
	if e.Caption != "" {
		return e.Caption
	}
	return "Family photo"
}

// RawRecord is one undecoded manifest record as it appears on the wire.
type RawRecord map[string]any

// Legacy manifests used different keys for the same fields; aliases are
// resolved highest priority first.
var (
	urlAliases    = []string{"url", "image", "src"}
	familyAliases = []string{"familyId", "family"}
)

// Adapt validates raw records into entries. A record without a resolvable URL
// under any alias is dropped; every other missing or oddly typed field
// degrades to an empty string rather than failing the record.
func Adapt(records []RawRecord) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, record := range records {
		url := firstAlias(record, urlAliases)
		if url == "" {
			continue
		}
		entries = append(entries, Entry{
			URL:       url,
			Caption:   strings.TrimSpace(stringField(record, "caption")),
			FirstName: stringField(record, "firstName"),
			LastName:  stringField(record, "lastName"),
			FamilyID:  firstAlias(record, familyAliases),
		})
	}
	return entries
}

func firstAlias(record RawRecord, aliases []string) string {
	for _, key := range aliases {
		if value := stringField(record, key); value != "" {
			return value
		}
	}
	return ""
}

func stringField(record RawRecord, key string) string {
	switch value := record[key].(type) {
	case string:
		return value
	case float64:
		// JSON numbers arrive as float64; coerce the way a loose
		// upstream producer would have serialized them.
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return ""
	}
}
