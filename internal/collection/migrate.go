package collection

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"github.com/wadani-market/cms/internal/locale"
	"github.com/wadani-market/cms/internal/schema"
)

// EnsureTables creates the backing table for each collection definition when
// it does not exist. Column types stay portable across the sqlite and
// postgres dialects: TEXT identities and variants, INTEGER order, BOOLEAN
// active flag. Only the default-language column of required fields is NOT
// NULL; optional variants stay nullable.
func EnsureTables(ctx context.Context, db bun.IDB, languages *locale.Registry, defs []schema.Definition) error {
	for _, def := range defs {
		ddl := buildTableDDL(def, languages)
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensure table %s: %w", def.Table, err)
		}
	}
	return nil
}

func buildTableDDL(def schema.Definition, languages *locale.Registry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", def.Table)
	fmt.Fprintf(&b, "    %s TEXT PRIMARY KEY,\n", schema.ColumnID)
	fmt.Fprintf(&b, "    %s INTEGER NOT NULL DEFAULT 0,\n", schema.ColumnOrder)
	fmt.Fprintf(&b, "    %s BOOLEAN NOT NULL DEFAULT TRUE", schema.ColumnActive)
	for _, fieldDef := range def.Fields {
		for _, lang := range languages.Languages() {
			column := schema.Column(fieldDef.Name, lang)
			constraint := ""
			if fieldDef.Required && lang == languages.Default() {
				constraint = " NOT NULL DEFAULT ''"
			}
			fmt.Fprintf(&b, ",\n    %s TEXT%s", column, constraint)
		}
	}
	b.WriteString("\n)")
	return b.String()
}
