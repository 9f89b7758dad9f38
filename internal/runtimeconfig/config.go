package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/wadani-market/cms/internal/schema"
)

var ErrDefaultLanguageRequired = errors.New("cms config: default language is required")
var ErrStorageProviderUnknown = errors.New("cms config: storage provider is invalid")
var ErrCacheTTLInvalid = errors.New("cms config: cache TTL must be zero or positive")
var ErrCollectionInvalid = errors.New("cms config: collection definition is invalid")
var ErrLoggingProviderRequired = errors.New("cms config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("cms config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("cms config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("cms config: logging format is invalid")

// Storage providers understood by the container. Postgres requires the host
// to inject an opened database handle.
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config aggregates language, collection, and adapter bindings for the CMS
// module. Fields intentionally use simple types so host applications can
// extend them later.
type Config struct {
	Enabled         bool
	DefaultLanguage string
	Languages       []string
	Collections     []CollectionConfig
	Storage         StorageConfig
	Cache           CacheConfig
	Navigation      NavigationConfig
	HTTP            HTTPConfig
	Features        Features
	Logging         LoggingConfig
}

// CollectionConfig declares one reconciled collection and its logical fields.
type CollectionConfig struct {
	ID     string
	Fields []FieldConfig
}

// FieldConfig declares a logical field fanned out per language.
type FieldConfig struct {
	Name     string
	Required bool
}

// Definition converts the config shape into a schema definition.
func (c CollectionConfig) Definition() schema.Definition {
	fields := make([]schema.FieldDefinition, 0, len(c.Fields))
	for _, f := range c.Fields {
		fields = append(fields, schema.FieldDefinition{Name: f.Name, Required: f.Required})
	}
	return schema.Definition{ID: c.ID, Fields: fields}
}

// StorageConfig selects the collection store and article repository backing.
// An injected *bun.DB always wins over the provider setting.
type StorageConfig struct {
	Provider string
	DSN      string
}

// CacheConfig captures article read-cache behaviour.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// NavigationConfig captures routing configuration for public URL resolution.
type NavigationConfig struct {
	RouteConfig *urlkit.Config
	URLKit      URLKitResolverConfig
}

// URLKitResolverConfig configures the go-urlkit based resolver.
type URLKitResolverConfig struct {
	DefaultGroup string
	LocaleGroups map[string]string
}

// HTTPConfig positions the admin and public API mounts.
type HTTPConfig struct {
	AdminBasePath  string
	PublicBasePath string
}

// Features toggles module functionality.
type Features struct {
	Articles bool
	Seeding  bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the defaults for the grocery market site: English
// default with Somali and Arabic variants, the built-in public collections,
// articles enabled, in-memory storage until a database is injected.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		DefaultLanguage: "en",
		Languages:       []string{"so", "ar"},
		Collections: []CollectionConfig{
			{ID: "benefits", Fields: []FieldConfig{
				{Name: "text", Required: true},
				{Name: "details"},
			}},
			{ID: "produce-items", Fields: []FieldConfig{
				{Name: "name", Required: true},
				{Name: "description"},
			}},
			{ID: "business-model-features", Fields: []FieldConfig{
				{Name: "title", Required: true},
				{Name: "description"},
			}},
			{ID: "menu-items", Fields: []FieldConfig{
				{Name: "name", Required: true},
				{Name: "description"},
				{Name: "price"},
			}},
			{ID: "gallery-categories", Fields: []FieldConfig{
				{Name: "title", Required: true},
			}},
			{ID: "languages", Fields: []FieldConfig{
				{Name: "code", Required: true},
				{Name: "label", Required: true},
			}},
		},
		Storage: StorageConfig{
			Provider: StorageMemory,
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		HTTP: HTTPConfig{
			AdminBasePath:  "/admin/api",
			PublicBasePath: "/api",
		},
		Features: Features{
			Articles: true,
			Seeding:  true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.DefaultLanguage) == "" {
		return ErrDefaultLanguageRequired
	}
	for _, col := range cfg.Collections {
		if err := schema.Validate(col.Definition()); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrCollectionInvalid, col.ID, err)
		}
	}
	switch normalize(cfg.Storage.Provider) {
	case "", StorageMemory, StorageSQLite, StoragePostgres:
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}
	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}

	provider := normalize(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
