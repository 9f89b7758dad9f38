package locale

import (
	"strings"

	"github.com/google/uuid"
)

// Field models the per-language fan-out of one logical field: a map from
// language to value where an absent key or empty string both mean
// "unpopulated". Records persisted as sibling columns (text_en, text_so,
// text_ar) load into this shape so resolution stays language-count-agnostic.
type Field map[Language]string

// Get returns the populated variant for the language, if any.
func (f Field) Get(lang Language) (string, bool) {
	value, ok := f[lang]
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

// Record is a localized row: logical fields fanned out per language plus the
// collection bookkeeping attributes.
type Record struct {
	ID     uuid.UUID        `json:"id"`
	Order  int              `json:"display_order"`
	Active bool             `json:"active"`
	Fields map[string]Field `json:"fields"`
}

// FlatRecord is the read-side projection of a Record for one language: each
// logical field collapsed to a single string.
type FlatRecord struct {
	ID       uuid.UUID         `json:"id"`
	Order    int               `json:"display_order"`
	Active   bool              `json:"active"`
	Language Language          `json:"language"`
	Fields   map[string]string `json:"fields"`
}

// Resolve projects a localized record to a single language. For each logical
// field it selects the requested-language variant when populated and the
// default-language variant otherwise. There is no multi-hop fallback chain:
// requested or default, nothing in between. Fields resolve independently, so
// a partially translated record legitimately mixes languages.
func Resolve(rec Record, lang Language, def Language) FlatRecord {
	flat := FlatRecord{
		ID:       rec.ID,
		Order:    rec.Order,
		Active:   rec.Active,
		Language: lang,
		Fields:   make(map[string]string, len(rec.Fields)),
	}
	for name, field := range rec.Fields {
		if value, ok := field.Get(lang); ok {
			flat.Fields[name] = value
			continue
		}
		value, _ := field.Get(def)
		flat.Fields[name] = value
	}
	return flat
}

// ResolveCollection applies Resolve to every record, preserving input order.
// It never re-sorts; ordering is established by the read query.
func ResolveCollection(recs []Record, lang Language, def Language) []FlatRecord {
	out := make([]FlatRecord, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Resolve(rec, lang, def))
	}
	return out
}

// Resolver binds a registry to the pure projection functions so callers do
// not repeat the default-language plumbing.
type Resolver struct {
	registry *Registry
}

// NewResolver wraps a registry.
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Registry exposes the bound language registry.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Resolve projects one record using the registry default as fallback.
func (r *Resolver) Resolve(rec Record, requested string) FlatRecord {
	lang := r.registry.Pick(requested)
	return Resolve(rec, lang, r.registry.Default())
}

// ResolveCollection projects a slice of records, preserving order.
func (r *Resolver) ResolveCollection(recs []Record, requested string) []FlatRecord {
	lang := r.registry.Pick(requested)
	return ResolveCollection(recs, lang, r.registry.Default())
}
