package locale

import (
	"testing"

	"github.com/google/uuid"
)

func mustRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry(English, Somali, Arabic)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return reg
}

func TestRegistryPick(t *testing.T) {
	reg := mustRegistry(t)

	if got := reg.Pick("so"); got != Somali {
		t.Fatalf("Pick(so) = %s", got)
	}
	if got := reg.Pick(" AR "); got != Arabic {
		t.Fatalf("Pick normalisation failed, got %s", got)
	}
	if got := reg.Pick(""); got != English {
		t.Fatalf("Pick empty should default, got %s", got)
	}
	if got := reg.Pick("fr"); got != English {
		t.Fatalf("Pick unsupported should default, got %s", got)
	}
}

func TestNewRegistryRequiresDefault(t *testing.T) {
	if _, err := NewRegistry(" "); err != ErrDefaultLanguageRequired {
		t.Fatalf("expected ErrDefaultLanguageRequired, got %v", err)
	}
}

func TestResolveUsesRequestedLanguageWhenPopulated(t *testing.T) {
	rec := Record{
		ID:     uuid.New(),
		Active: true,
		Fields: map[string]Field{
			"title": {English: "Fresh produce", Somali: "Khudaar cusub"},
		},
	}

	flat := Resolve(rec, Somali, English)
	if flat.Fields["title"] != "Khudaar cusub" {
		t.Fatalf("expected somali title, got %q", flat.Fields["title"])
	}
	if flat.Language != Somali {
		t.Fatalf("expected language so, got %s", flat.Language)
	}
	if flat.ID != rec.ID || !flat.Active {
		t.Fatalf("record attributes not carried over: %+v", flat)
	}
}

func TestResolveFallsBackToDefaultPerField(t *testing.T) {
	rec := Record{
		Fields: map[string]Field{
			"title":       {English: "Hello", Arabic: ""},
			"description": {English: "Local grocery", Arabic: "بقالة محلية"},
		},
	}

	flat := Resolve(rec, Arabic, English)
	if flat.Fields["title"] != "Hello" {
		t.Fatalf("empty arabic variant should fall back, got %q", flat.Fields["title"])
	}
	if flat.Fields["description"] != "بقالة محلية" {
		t.Fatalf("populated arabic variant should win, got %q", flat.Fields["description"])
	}
}

func TestResolveTwoTierOnly(t *testing.T) {
	// Requested ar is empty, so is so; only the default may be consulted.
	rec := Record{
		Fields: map[string]Field{
			"text": {English: "Organic", Somali: "Dabiici"},
		},
	}
	flat := Resolve(rec, Arabic, English)
	if flat.Fields["text"] != "Organic" {
		t.Fatalf("expected default fallback, got %q", flat.Fields["text"])
	}
}

func TestResolveCollectionPreservesOrder(t *testing.T) {
	recs := []Record{
		{Order: 30, Fields: map[string]Field{"text": {English: "c"}}},
		{Order: 10, Fields: map[string]Field{"text": {English: "a"}}},
		{Order: 20, Fields: map[string]Field{"text": {English: "b"}}},
	}

	for _, lang := range []Language{English, Somali, Arabic} {
		flats := ResolveCollection(recs, lang, English)
		if len(flats) != 3 {
			t.Fatalf("expected 3 records, got %d", len(flats))
		}
		for i, flat := range flats {
			if flat.Order != recs[i].Order {
				t.Fatalf("lang %s: order not preserved at %d: %+v", lang, i, flat)
			}
		}
	}
}

func TestResolverPicksAndProjects(t *testing.T) {
	resolver := NewResolver(mustRegistry(t))
	rec := Record{Fields: map[string]Field{"title": {English: "Hello"}}}

	flat := resolver.Resolve(rec, "ar")
	if flat.Fields["title"] != "Hello" {
		t.Fatalf("expected fallback to default, got %q", flat.Fields["title"])
	}
	if flat.Language != Arabic {
		t.Fatalf("expected requested language to be kept, got %s", flat.Language)
	}
}
