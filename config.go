package cms

import "github.com/wadani-market/cms/internal/runtimeconfig"

var (
	ErrDefaultLanguageRequired = runtimeconfig.ErrDefaultLanguageRequired
	ErrStorageProviderUnknown  = runtimeconfig.ErrStorageProviderUnknown
	ErrCacheTTLInvalid         = runtimeconfig.ErrCacheTTLInvalid
	ErrCollectionInvalid       = runtimeconfig.ErrCollectionInvalid
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	CollectionConfig     = runtimeconfig.CollectionConfig
	FieldConfig          = runtimeconfig.FieldConfig
	StorageConfig        = runtimeconfig.StorageConfig
	CacheConfig          = runtimeconfig.CacheConfig
	NavigationConfig     = runtimeconfig.NavigationConfig
	URLKitResolverConfig = runtimeconfig.URLKitResolverConfig
	HTTPConfig           = runtimeconfig.HTTPConfig
	Features             = runtimeconfig.Features
	LoggingConfig        = runtimeconfig.LoggingConfig
)

// Storage providers understood by the module.
const (
	StorageMemory   = runtimeconfig.StorageMemory
	StorageSQLite   = runtimeconfig.StorageSQLite
	StoragePostgres = runtimeconfig.StoragePostgres
)

// DefaultConfig returns the module defaults: English as the default
// language with Somali and Arabic alongside, in-memory storage, and
// the standard site collections registered.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
