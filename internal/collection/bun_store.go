package collection

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/wadani-market/cms/internal/locale"
	"github.com/wadani-market/cms/internal/schema"
)

// BunStore implements Store over a relational database. Collection tables are
// described at runtime by schema definitions, so queries are built dynamically
// instead of going through per-model repositories.
type BunStore struct {
	db        bun.IDB
	languages *locale.Registry
}

// NewBunStore constructs a store over the given database handle.
func NewBunStore(db bun.IDB, languages *locale.Registry) *BunStore {
	return &BunStore{db: db, languages: languages}
}

// SelectAll returns every row ordered ascending by display order.
func (s *BunStore) SelectAll(ctx context.Context, def schema.Definition) ([]Item, error) {
	var rows []map[string]any
	err := s.db.NewSelect().
		Table(def.Table).
		OrderExpr("? ASC", bun.Ident(schema.ColumnOrder)).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", def.Table, err)
	}

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		item, err := s.rowToItem(def, row)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Insert persists a new row. Items without an identity get a fresh one; a
// pre-assigned identity (deterministic seeding) is kept as the row id.
func (s *BunStore) Insert(ctx context.Context, def schema.Definition, item Item) (Item, error) {
	if !item.Identity.Known() {
		item.Identity = ExistingIdentity(uuid.New())
	}
	values := s.itemToValues(def, item)
	values[schema.ColumnID] = item.Identity.UUID().String()

	if _, err := s.db.NewInsert().
		Model(&values).
		TableExpr("?", bun.Ident(def.Table)).
		Exec(ctx); err != nil {
		return Item{}, fmt.Errorf("insert into %s: %w", def.Table, err)
	}
	return item, nil
}

// Update overwrites the row matching the item's identity.
func (s *BunStore) Update(ctx context.Context, def schema.Definition, item Item) (Item, error) {
	values := s.itemToValues(def, item)

	res, err := s.db.NewUpdate().
		Model(&values).
		TableExpr("?", bun.Ident(def.Table)).
		Where("? = ?", bun.Ident(schema.ColumnID), item.Identity.UUID().String()).
		Exec(ctx)
	if err != nil {
		return Item{}, fmt.Errorf("update %s: %w", def.Table, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return Item{}, &NotFoundError{Collection: def.ID, Key: item.Identity.UUID().String()}
	}
	return item, nil
}

// Delete removes the row with the given identity.
func (s *BunStore) Delete(ctx context.Context, def schema.Definition, id uuid.UUID) error {
	res, err := s.db.NewDelete().
		TableExpr("?", bun.Ident(def.Table)).
		Where("? = ?", bun.Ident(schema.ColumnID), id.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", def.Table, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return &NotFoundError{Collection: def.ID, Key: id.String()}
	}
	return nil
}

func (s *BunStore) itemToValues(def schema.Definition, item Item) map[string]any {
	values := map[string]any{
		schema.ColumnOrder:  item.Order,
		schema.ColumnActive: item.Active,
	}
	for _, fieldDef := range def.Fields {
		field := item.Fields[fieldDef.Name]
		for _, lang := range s.languages.Languages() {
			column := schema.Column(fieldDef.Name, lang)
			if value, ok := field.Get(lang); ok {
				values[column] = value
			} else {
				values[column] = nil
			}
		}
	}
	return values
}

func (s *BunStore) rowToItem(def schema.Definition, row map[string]any) (Item, error) {
	id, err := uuid.Parse(asString(row[schema.ColumnID]))
	if err != nil {
		return Item{}, fmt.Errorf("table %s: malformed row id: %w", def.Table, err)
	}

	item := Item{
		Identity: ExistingIdentity(id),
		Order:    asInt(row[schema.ColumnOrder]),
		Active:   asBool(row[schema.ColumnActive]),
		Fields:   make(map[string]locale.Field, len(def.Fields)),
	}
	for _, fieldDef := range def.Fields {
		field := locale.Field{}
		for _, lang := range s.languages.Languages() {
			value := asString(row[schema.Column(fieldDef.Name, lang)])
			if strings.TrimSpace(value) != "" {
				field[lang] = value
			}
		}
		item.Fields[fieldDef.Name] = field
	}
	return item, nil
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func asInt(value any) int {
	switch v := value.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

func asBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	case string:
		return v == "true" || v == "1" || v == "t"
	default:
		return false
	}
}

var _ Store = (*BunStore)(nil)
