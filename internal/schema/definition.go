package schema

import (
	"fmt"
	"strings"

	"github.com/wadani-market/cms/internal/locale"
)

// Column names shared by every collection table.
const (
	ColumnID     = "id"
	ColumnOrder  = "display_order"
	ColumnActive = "active"
)

// FieldDefinition describes one logical field of a collection. The field fans
// out to one column per supported language (<name>_<lang>); the
// default-language column is the required variant.
type FieldDefinition struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

// Definition describes one reconciled collection: its identifier on the API
// surface, the backing table, and its logical fields.
type Definition struct {
	ID     string            `json:"id"`
	Table  string            `json:"table"`
	Fields []FieldDefinition `json:"fields"`
}

// Column returns the physical column for a logical field in a language.
func Column(field string, lang locale.Language) string {
	return fmt.Sprintf("%s_%s", field, lang)
}

// FieldNames returns the logical field names in declaration order.
func (d Definition) FieldNames() []string {
	names := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		names = append(names, f.Name)
	}
	return names
}

// Field returns the definition of a logical field by name.
func (d Definition) Field(name string) (FieldDefinition, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

func (d Definition) normalized() Definition {
	d.ID = strings.TrimSpace(strings.ToLower(d.ID))
	d.Table = strings.TrimSpace(d.Table)
	if d.Table == "" {
		d.Table = strings.ReplaceAll(d.ID, "-", "_")
	}
	for i := range d.Fields {
		d.Fields[i].Name = strings.TrimSpace(strings.ToLower(d.Fields[i].Name))
	}
	return d
}
