package di

import (
	"context"
	"testing"

	"github.com/wadani-market/cms/internal/locale"
	"github.com/wadani-market/cms/internal/runtimeconfig"
	"github.com/wadani-market/cms/pkg/testsupport"
)

func TestNewContainerMemoryDefaults(t *testing.T) {
	c, err := NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer c.Close()

	if c.Languages().Default() != locale.English {
		t.Fatalf("expected en default, got %q", c.Languages().Default())
	}
	if c.Store() == nil || c.Reconciler() == nil {
		t.Fatal("collection wiring missing")
	}
	if c.Articles() == nil {
		t.Fatal("articles enabled by default")
	}
	if c.AdminAPI() == nil || c.PublicAPI() == nil {
		t.Fatal("http surfaces missing")
	}
	if c.Gate() != nil {
		t.Fatal("gate must be nil without a verifier")
	}
	if c.DB() != nil {
		t.Fatal("memory provider must not open a database")
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.DefaultLanguage = ""
	if _, err := NewContainer(cfg); err == nil {
		t.Fatal("expected config validation error")
	}
}

func TestContainerArticlesDisabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Articles = false
	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer c.Close()
	if c.Articles() != nil {
		t.Fatal("articles service must be nil when disabled")
	}
}

func TestContainerPostgresRequiresInjectedDB(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = runtimeconfig.StoragePostgres
	if _, err := NewContainer(cfg); err == nil {
		t.Fatal("expected error without an injected database")
	}
}

func TestContainerWrapsInjectedSQLDB(t *testing.T) {
	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	defer sqlDB.Close()

	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = runtimeconfig.StorageSQLite
	c, err := NewContainer(cfg, WithSQLDB(sqlDB))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer c.Close()

	if c.DB() == nil {
		t.Fatal("expected bun DB wrapping the injected handle")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// The container must not close a handle it did not open.
	if err := sqlDB.Ping(); err != nil {
		t.Fatalf("injected db closed by container: %v", err)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	c, err := NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	def, err := c.Schemas().Get("languages")
	if err != nil {
		t.Fatalf("languages schema: %v", err)
	}
	first, err := c.Store().SelectAll(ctx, def)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("expected 3 seeded languages, got %d", len(first))
	}

	if err := c.Seed(ctx); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	second, err := c.Store().SelectAll(ctx, def)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(second) != 3 {
		t.Fatalf("reseed must not add rows, got %d", len(second))
	}
	for i := range first {
		if first[i].Identity.UUID() != second[i].Identity.UUID() {
			t.Fatalf("seed identities must be stable across runs")
		}
	}
}

func TestSeedCollectionIsIdempotent(t *testing.T) {
	c, err := NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	seeds := []SeedItem{
		{
			Key:    "halal-certified",
			Order:  1,
			Active: true,
			Fields: map[string]locale.Field{
				"text": {locale.English: "Everything halal certified"},
			},
		},
		{
			Key:    "community-owned",
			Order:  2,
			Active: true,
			Fields: map[string]locale.Field{
				"text": {locale.English: "Community owned and operated"},
			},
		},
	}
	if err := c.SeedCollection(ctx, "benefits", seeds); err != nil {
		t.Fatalf("seed collection: %v", err)
	}
	if err := c.SeedCollection(ctx, "benefits", seeds); err != nil {
		t.Fatalf("reseed collection: %v", err)
	}

	def, err := c.Schemas().Get("benefits")
	if err != nil {
		t.Fatalf("benefits schema: %v", err)
	}
	items, err := c.Store().SelectAll(ctx, def)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 seeded benefits, got %d", len(items))
	}

	if err := c.SeedCollection(ctx, "unknown", seeds); err == nil {
		t.Fatal("expected unknown collection error")
	}
}
