package di

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	bunschema "github.com/uptrace/bun/schema"

	"github.com/wadani-market/cms/internal/articles"
	"github.com/wadani-market/cms/internal/auth"
	"github.com/wadani-market/cms/internal/collection"
	cmshttp "github.com/wadani-market/cms/internal/http"
	"github.com/wadani-market/cms/internal/locale"
	"github.com/wadani-market/cms/internal/logging"
	"github.com/wadani-market/cms/internal/logging/console"
	"github.com/wadani-market/cms/internal/logging/gologger"
	"github.com/wadani-market/cms/internal/runtimeconfig"
	"github.com/wadani-market/cms/internal/schema"
	"github.com/wadani-market/cms/internal/urls"
	"github.com/wadani-market/cms/pkg/interfaces"
)

// Container wires module dependencies from the runtime configuration.
// Storage defaults to in-memory until a database is injected or the sqlite
// provider is configured.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	verifier       interfaces.TokenVerifier

	bunDB         *bun.DB
	hostDB        *sql.DB
	sqlDB         *sql.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	languages  *locale.Registry
	schemas    *schema.Registry
	store      collection.Store
	reconciler *collection.Reconciler

	articleRepo articles.ArticleRepository
	articleSvc  *articles.Service

	routeManager *urlkit.RouteManager
	urlResolver  *urls.Resolver

	gate      *auth.Gate
	adminAPI  *cmshttp.AdminAPI
	publicAPI *cmshttp.PublicAPI
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB injects an already-open database; it takes precedence over the
// configured storage provider and is never closed by the container.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithSQLDB injects an opened database handle. The container wraps it with
// the bun dialect matching the configured storage provider and never closes
// it. Postgres storage only works through this option or WithBunDB.
func WithSQLDB(db *sql.DB) Option {
	return func(c *Container) {
		c.hostDB = db
	}
}

// WithCache overrides the default cache service bindings.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithTokenVerifier injects the credential verifier backing the admin gate.
func WithTokenVerifier(verifier interfaces.TokenVerifier) Option {
	return func(c *Container) {
		c.verifier = verifier
	}
}

// WithLoggerProvider overrides the configured logging provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithCollectionStore overrides the collection store binding.
func WithCollectionStore(store collection.Store) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithArticleRepository overrides the article repository binding.
func WithArticleRepository(repo articles.ArticleRepository) Option {
	return func(c *Container) {
		c.articleRepo = repo
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	extras := make([]locale.Language, 0, len(cfg.Languages))
	for _, code := range cfg.Languages {
		extras = append(extras, locale.Language(code))
	}
	languages, err := locale.NewRegistry(locale.Language(cfg.DefaultLanguage), extras...)
	if err != nil {
		return nil, err
	}

	defs := make([]schema.Definition, 0, len(cfg.Collections))
	for _, col := range cfg.Collections {
		defs = append(defs, col.Definition())
	}
	schemas, err := schema.NewRegistry(defs...)
	if err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:    cfg,
		languages: languages,
		schemas:   schemas,
		cacheTTL:  cacheTTL,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureCollections()
	if err := c.configureArticles(); err != nil {
		return nil, err
	}
	c.configureNavigation()
	c.configureAuth()
	c.configureHTTP()

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}
	switch c.Config.Logging.Provider {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		c.loggerProvider = console.NewProvider(console.Options{})
	}
	return nil
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil {
		return nil
	}
	if c.hostDB != nil {
		c.bunDB = bun.NewDB(c.hostDB, c.dialect())
		return nil
	}
	switch c.Config.Storage.Provider {
	case runtimeconfig.StorageSQLite:
		dsn := c.Config.Storage.DSN
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return fmt.Errorf("di: open sqlite: %w", err)
		}
		bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
		bunDB.SetMaxOpenConns(1)
		c.sqlDB = sqlDB
		c.bunDB = bunDB
	case runtimeconfig.StoragePostgres:
		return fmt.Errorf("di: postgres storage requires a database injected via WithSQLDB or WithBunDB")
	}
	return nil
}

// dialect maps the configured storage provider to its bun dialect.
func (c *Container) dialect() bunschema.Dialect {
	if c.Config.Storage.Provider == runtimeconfig.StoragePostgres {
		return pgdialect.New()
	}
	return sqlitedialect.New()
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}
	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureCollections() {
	if c.store == nil {
		if c.bunDB != nil {
			c.store = collection.NewBunStore(c.bunDB, c.languages)
		} else {
			c.store = collection.NewMemoryStore()
		}
	}
	c.reconciler = collection.NewReconciler(c.store, c.languages,
		collection.WithLogger(logging.CollectionsLogger(c.loggerProvider)))
}

func (c *Container) configureArticles() error {
	if !c.Config.Features.Articles {
		return nil
	}
	if c.articleRepo == nil {
		if c.bunDB != nil {
			c.articleRepo = articles.NewBunArticleRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		} else {
			c.articleRepo = articles.NewMemoryArticleRepository()
		}
	}
	svc, err := articles.NewService(c.articleRepo, c.languages,
		articles.WithLogger(logging.ArticlesLogger(c.loggerProvider)))
	if err != nil {
		return err
	}
	c.articleSvc = svc
	return nil
}

func (c *Container) configureNavigation() {
	navCfg := c.Config.Navigation
	if navCfg.RouteConfig == nil {
		return
	}
	c.routeManager = urlkit.NewRouteManager(navCfg.RouteConfig)
	c.urlResolver = urls.NewResolver(urls.Options{
		Manager:      c.routeManager,
		DefaultGroup: navCfg.URLKit.DefaultGroup,
		LocaleGroups: navCfg.URLKit.LocaleGroups,
	})
}

func (c *Container) configureAuth() {
	if c.verifier == nil {
		return
	}
	c.gate = auth.NewGate(c.verifier,
		auth.WithLogger(logging.AuthLogger(c.loggerProvider)))
}

func (c *Container) configureHTTP() {
	httpLogger := logging.HTTPLogger(c.loggerProvider)

	adminOpts := []cmshttp.AdminOption{
		cmshttp.WithBasePath(c.Config.HTTP.AdminBasePath),
		cmshttp.WithSchemaRegistry(c.schemas),
		cmshttp.WithCollectionStore(c.store),
		cmshttp.WithReconciler(c.reconciler),
		cmshttp.WithAdminLanguages(c.languages),
		cmshttp.WithAdminLogger(httpLogger),
	}
	if c.gate != nil {
		adminOpts = append(adminOpts, cmshttp.WithAuthGate(c.gate))
	}
	if c.articleSvc != nil {
		adminOpts = append(adminOpts, cmshttp.WithArticleService(c.articleSvc))
	}
	c.adminAPI = cmshttp.NewAdminAPI(adminOpts...)

	publicOpts := []cmshttp.PublicOption{
		cmshttp.WithPublicBasePath(c.Config.HTTP.PublicBasePath),
		cmshttp.WithPublicSchemaRegistry(c.schemas),
		cmshttp.WithPublicCollectionStore(c.store),
		cmshttp.WithPublicLogger(httpLogger),
	}
	if c.articleSvc != nil {
		publicOpts = append(publicOpts, cmshttp.WithPublicArticleService(c.articleSvc))
	}
	if c.urlResolver != nil {
		publicOpts = append(publicOpts, cmshttp.WithURLResolver(c.urlResolver))
	}
	c.publicAPI = cmshttp.NewPublicAPI(c.languages, publicOpts...)
}

// EnsureSchema creates the collection tables and the articles table when the
// container owns a database. Memory-backed containers need no schema.
func (c *Container) EnsureSchema(ctx context.Context) error {
	if c.bunDB == nil {
		return nil
	}
	if err := collection.EnsureTables(ctx, c.bunDB, c.languages, c.schemas.List()); err != nil {
		return err
	}
	if c.Config.Features.Articles {
		if err := articles.EnsureTable(ctx, c.bunDB); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database when the container opened it. Injected
// databases stay open.
func (c *Container) Close() error {
	if c.sqlDB == nil {
		return nil
	}
	return c.sqlDB.Close()
}

// Languages returns the configured language registry.
func (c *Container) Languages() *locale.Registry { return c.languages }

// Schemas returns the collection schema registry.
func (c *Container) Schemas() *schema.Registry { return c.schemas }

// Store returns the collection store.
func (c *Container) Store() collection.Store { return c.store }

// Reconciler returns the collection reconciler.
func (c *Container) Reconciler() *collection.Reconciler { return c.reconciler }

// Articles returns the article service; nil when the feature is disabled.
func (c *Container) Articles() *articles.Service { return c.articleSvc }

// Gate returns the admin auth gate; nil when no verifier is configured.
func (c *Container) Gate() *auth.Gate { return c.gate }

// AdminAPI returns the admin HTTP surface.
func (c *Container) AdminAPI() *cmshttp.AdminAPI { return c.adminAPI }

// PublicAPI returns the public HTTP surface.
func (c *Container) PublicAPI() *cmshttp.PublicAPI { return c.publicAPI }

// URLResolver returns the public URL resolver; nil without route config.
func (c *Container) URLResolver() *urls.Resolver { return c.urlResolver }

// DB returns the active database handle; nil when memory-backed.
func (c *Container) DB() *bun.DB { return c.bunDB }

// LoggerProvider returns the active logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }
