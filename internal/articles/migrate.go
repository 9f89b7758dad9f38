package articles

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// EnsureTable creates the articles table when it does not exist. Localized
// maps persist as JSON text so the DDL stays portable across the sqlite and
// postgres dialects.
func EnsureTable(ctx context.Context, db bun.IDB) error {
	const ddl = `CREATE TABLE IF NOT EXISTS articles (
    id TEXT PRIMARY KEY,
    slug TEXT NOT NULL UNIQUE,
    published BOOLEAN NOT NULL DEFAULT FALSE,
    published_at TIMESTAMP,
    title TEXT NOT NULL DEFAULT '{}',
    summary TEXT DEFAULT '{}',
    body TEXT NOT NULL DEFAULT '{}',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("articles: ensure table: %w", err)
	}
	return nil
}
