package locale

import (
	"errors"
	"strings"
)

// Language identifies a supported content language by its lowercase code.
type Language string

// Languages shipped with the default site configuration. Additional languages
// come from the runtime configuration; nothing in this package is limited to
// these three.
const (
	English Language = "en"
	Somali  Language = "so"
	Arabic  Language = "ar"
)

// ErrDefaultLanguageRequired indicates a registry was built without a default.
var ErrDefaultLanguageRequired = errors.New("locale: default language is required")

// Normalize lowercases and trims a language code.
func Normalize(code string) Language {
	return Language(strings.ToLower(strings.TrimSpace(code)))
}

// Registry holds the supported languages and the designated default. The
// default language variant is the fallback for every logical field and is the
// one variant content editors must always populate.
type Registry struct {
	def       Language
	supported map[Language]struct{}
	ordered   []Language
}

// NewRegistry builds a registry from a default language and optional extras.
// The default is always part of the supported set.
func NewRegistry(def Language, extra ...Language) (*Registry, error) {
	def = Normalize(string(def))
	if def == "" {
		return nil, ErrDefaultLanguageRequired
	}
	reg := &Registry{
		def:       def,
		supported: map[Language]struct{}{def: {}},
		ordered:   []Language{def},
	}
	for _, lang := range extra {
		lang = Normalize(string(lang))
		if lang == "" {
			continue
		}
		if _, ok := reg.supported[lang]; ok {
			continue
		}
		reg.supported[lang] = struct{}{}
		reg.ordered = append(reg.ordered, lang)
	}
	return reg, nil
}

// Default returns the default language.
func (r *Registry) Default() Language {
	return r.def
}

// Supported reports whether the language belongs to the registry.
func (r *Registry) Supported(lang Language) bool {
	_, ok := r.supported[Normalize(string(lang))]
	return ok
}

// Languages returns the supported languages, default first, in registration
// order.
func (r *Registry) Languages() []Language {
	out := make([]Language, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Pick returns the requested language when supported, the default otherwise.
// Unknown or empty requests silently resolve to the default so public reads
// never fail on a bad language hint.
func (r *Registry) Pick(requested string) Language {
	lang := Normalize(requested)
	if lang == "" {
		return r.def
	}
	if _, ok := r.supported[lang]; ok {
		return lang
	}
	return r.def
}
