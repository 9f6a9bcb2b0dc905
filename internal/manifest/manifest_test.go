package manifest

import "testing"

func TestAdaptResolvesURLAliases(t *testing.T) {
	cases := []struct {
		name   string
		record RawRecord
		want   string
	}{
		{"url key", RawRecord{"url": "a.jpg"}, "a.jpg"},
		{"image key", RawRecord{"image": "b.jpg"}, "b.jpg"},
		{"src key", RawRecord{"src": "c.jpg"}, "c.jpg"},
		{"url wins over image", RawRecord{"url": "a.jpg", "image": "b.jpg"}, "a.jpg"},
		{"image wins over src", RawRecord{"image": "b.jpg", "src": "c.jpg"}, "b.jpg"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entries := Adapt([]RawRecord{tc.record})
			if len(entries) != 1 {
				t.Fatalf("expected one entry, got %d", len(entries))
			}
			if entries[0].URL != tc.want {
				t.Fatalf("URL = %q, want %q", entries[0].URL, tc.want)
			}
		})
	}
}

func TestAdaptDropsRecordsWithoutURL(t *testing.T) {
	records := []RawRecord{
		{"caption": "no url at all"},
		{"url": ""},
		{"url": nil},
		{"url": 12, "image": "", "src": ""},
		{"url": "keep.jpg"},
	}
	entries := Adapt(records)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %#v", len(entries), entries)
	}
	if entries[0].URL != "12" || entries[1].URL != "keep.jpg" {
		t.Fatalf("unexpected survivors: %#v", entries)
	}
}

func TestAdaptTrimsCaptionAndCoercesFields(t *testing.T) {
	entries := Adapt([]RawRecord{{
		"url":       "a.jpg",
		"caption":   "  Smith Family  ",
		"firstName": "Ana",
		"lastName":  nil,
		"family":    "smith-01",
	}})
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Caption != "Smith Family" {
		t.Fatalf("caption not trimmed: %q", entry.Caption)
	}
	if entry.FirstName != "Ana" || entry.LastName != "" {
		t.Fatalf("names mishandled: %#v", entry)
	}
	if entry.FamilyID != "smith-01" {
		t.Fatalf("family alias not resolved: %q", entry.FamilyID)
	}
}

func TestAdaptFamilyIDAliasPriority(t *testing.T) {
	entries := Adapt([]RawRecord{{"url": "a.jpg", "familyId": "primary", "family": "legacy"}})
	if entries[0].FamilyID != "primary" {
		t.Fatalf("familyId should win over family, got %q", entries[0].FamilyID)
	}
}

func TestAdaptCoercesNumericValues(t *testing.T) {
	entries := Adapt([]RawRecord{{"url": "a.jpg", "family": float64(42)}})
	if entries[0].FamilyID != "42" {
		t.Fatalf("numeric family not coerced: %q", entries[0].FamilyID)
	}
}

func TestEntryTitleFallsBack(t *testing.T) {
	if got := (Entry{Caption: "Picnic"}).Title(); got != "Picnic" {
		t.Fatalf("Title = %q", got)
	}
	if got := (Entry{}).Title(); got != "Family photo" {
		t.Fatalf("fallback Title = %q", got)
	}
}
