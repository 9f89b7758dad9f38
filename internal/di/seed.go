package di

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wadani-market/cms/internal/collection"
	"github.com/wadani-market/cms/internal/identity"
	"github.com/wadani-market/cms/internal/locale"
	"github.com/wadani-market/cms/internal/logging"
	"github.com/wadani-market/cms/internal/schema"
)

// languageNames carries the display labels for the languages the site ships
// with. Languages outside this table fall back to their code.
var languageNames = map[locale.Language]struct {
	english string
	native  string
}{
	locale.English: {english: "English", native: "English"},
	locale.Somali:  {english: "Somali", native: "Soomaali"},
	locale.Arabic:  {english: "Arabic", native: "العربية"},
}

// SeedItem is one deterministic bootstrap row for a collection. Key must be
// stable across deployments; it derives the row identity.
type SeedItem struct {
	Key    string
	Order  int
	Active bool
	Fields map[string]locale.Field
}

// Seed writes the deterministic bootstrap rows: one row per configured
// language in the languages collection. Rows carry identities derived from
// the language code, so reseeding finds them in place and does nothing.
func (c *Container) Seed(ctx context.Context) error {
	if !c.Config.Features.Seeding {
		return nil
	}
	def, err := c.schemas.Get("languages")
	if err != nil {
		// The host removed the languages collection; nothing to seed.
		return nil
	}

	present, err := c.existingIDs(ctx, def)
	if err != nil {
		return err
	}

	logger := logging.LocaleLogger(c.loggerProvider)
	defLang := c.languages.Default()
	for i, lang := range c.languages.Languages() {
		id := identity.LanguageUUID(string(lang))
		if present[id] {
			continue
		}
		names, ok := languageNames[lang]
		if !ok {
			names.english = string(lang)
			names.native = string(lang)
		}
		item := collection.Item{
			Identity: collection.ExistingIdentity(id),
			Order:    i + 1,
			Active:   true,
			Fields: map[string]locale.Field{
				"code":  {defLang: string(lang)},
				"label": {defLang: names.english, lang: names.native},
			},
		}
		if _, err := c.store.Insert(ctx, def, item); err != nil {
			return fmt.Errorf("seed language %s: %w", lang, err)
		}
		logger.Info("seeded language", "code", string(lang))
	}
	return nil
}

// SeedCollection writes deterministic bootstrap rows into any configured
// collection. Row identities derive from the collection id and the item key,
// so repeated calls with the same seed set insert nothing new.
func (c *Container) SeedCollection(ctx context.Context, collectionID string, items []SeedItem) error {
	def, err := c.schemas.Get(collectionID)
	if err != nil {
		return err
	}
	present, err := c.existingIDs(ctx, def)
	if err != nil {
		return err
	}
	for _, seed := range items {
		id := identity.CollectionItemUUID(collectionID, seed.Key)
		if present[id] {
			continue
		}
		item := collection.Item{
			Identity: collection.ExistingIdentity(id),
			Order:    seed.Order,
			Active:   seed.Active,
			Fields:   seed.Fields,
		}
		if _, err := c.store.Insert(ctx, def, item); err != nil {
			return fmt.Errorf("seed %s item %q: %w", collectionID, seed.Key, err)
		}
	}
	return nil
}

func (c *Container) existingIDs(ctx context.Context, def schema.Definition) (map[uuid.UUID]bool, error) {
	existing, err := c.store.SelectAll(ctx, def)
	if err != nil {
		return nil, err
	}
	present := make(map[uuid.UUID]bool, len(existing))
	for _, item := range existing {
		if item.Identity.Known() {
			present[item.Identity.UUID()] = true
		}
	}
	return present, nil
}
