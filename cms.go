package cms

import (
	"context"
	"net/http"

	"github.com/wadani-market/cms/internal/articles"
	"github.com/wadani-market/cms/internal/auth"
	"github.com/wadani-market/cms/internal/collection"
	"github.com/wadani-market/cms/internal/di"
	cmshttp "github.com/wadani-market/cms/internal/http"
	"github.com/wadani-market/cms/internal/locale"
	"github.com/wadani-market/cms/internal/schema"
	"github.com/wadani-market/cms/internal/urls"
	"github.com/wadani-market/cms/pkg/interfaces"
)

// Item exports a collection item for consumers of the cms package.
type Item = collection.Item

// Identity exports the item identity variant.
type Identity = collection.Identity

// Result exports the reconcile outcome.
type Result = collection.Result

// Failure exports a single reconcile failure.
type Failure = collection.Failure

// Store exports the collection persistence contract.
type Store = collection.Store

// Language exports the locale language code type.
type Language = locale.Language

// Field exports a per-language text field.
type Field = locale.Field

// Definition exports a collection schema definition.
type Definition = schema.Definition

// Draft exports the article editing payload.
type Draft = articles.Draft

// Article exports the stored article record.
type Article = articles.Article

// LocalizedArticle exports the read-side article projection.
type LocalizedArticle = articles.LocalizedArticle

// SeedItem exports a seed entry for SeedCollection.
type SeedItem = di.SeedItem

// Principal exports the authenticated caller identity.
type Principal = interfaces.Principal

// TokenVerifier exports the admin token verification contract.
type TokenVerifier = interfaces.TokenVerifier

// TokenVerifierFunc adapts a function to the TokenVerifier contract.
type TokenVerifierFunc = interfaces.TokenVerifierFunc

// Module represents the top level CMS runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a CMS module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Languages returns the configured language registry.
func (m *Module) Languages() *locale.Registry {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Languages()
}

// Schemas returns the registered collection definitions.
func (m *Module) Schemas() *schema.Registry {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Schemas()
}

// Collections returns the collection store.
func (m *Module) Collections() collection.Store {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Store()
}

// Reconciler returns the collection reconciler.
func (m *Module) Reconciler() *collection.Reconciler {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Reconciler()
}

// Articles returns the article service, or nil when the feature is disabled.
func (m *Module) Articles() *articles.Service {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Articles()
}

// Gate returns the admin auth gate, or nil when no verifier was supplied.
func (m *Module) Gate() *auth.Gate {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Gate()
}

// AdminAPI returns the admin HTTP surface.
func (m *Module) AdminAPI() *cmshttp.AdminAPI {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.AdminAPI()
}

// PublicAPI returns the public read-side HTTP surface.
func (m *Module) PublicAPI() *cmshttp.PublicAPI {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.PublicAPI()
}

// URLs returns the frontend URL resolver, or nil when navigation is not configured.
func (m *Module) URLs() *urls.Resolver {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.URLResolver()
}

// Mount registers the admin and public HTTP routes on the provided mux.
func (m *Module) Mount(mux *http.ServeMux) error {
	if err := m.AdminAPI().Register(mux); err != nil {
		return err
	}
	return m.PublicAPI().Register(mux)
}

// EnsureSchema creates the backing tables when a database is configured.
func (m *Module) EnsureSchema(ctx context.Context) error {
	return m.container.EnsureSchema(ctx)
}

// Seed populates the languages collection with the configured languages.
func (m *Module) Seed(ctx context.Context) error {
	return m.container.Seed(ctx)
}

// SeedCollection inserts seed items into a collection, skipping ones already present.
func (m *Module) SeedCollection(ctx context.Context, collectionID string, items []SeedItem) error {
	return m.container.SeedCollection(ctx, collectionID, items)
}

// Close releases resources owned by the module, such as an opened database.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
