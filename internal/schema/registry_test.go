package schema

import (
	"errors"
	"testing"

	"github.com/wadani-market/cms/internal/locale"
)

func TestValidateAcceptsWellFormedDefinition(t *testing.T) {
	def := Definition{
		ID: "benefits",
		Fields: []FieldDefinition{
			{Name: "text", Required: true},
		},
	}
	if err := Validate(def); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateRejectsReservedFieldNames(t *testing.T) {
	def := Definition{
		ID:     "benefits",
		Fields: []FieldDefinition{{Name: "display_order"}},
	}
	if err := Validate(def); !errors.Is(err, ErrDefinitionInvalid) {
		t.Fatalf("expected ErrDefinitionInvalid, got %v", err)
	}
}

func TestValidateRejectsMissingFields(t *testing.T) {
	if err := Validate(Definition{ID: "empty"}); !errors.Is(err, ErrDefinitionInvalid) {
		t.Fatalf("expected ErrDefinitionInvalid for empty fields, got %v", err)
	}
}

func TestValidateRejectsDuplicateFields(t *testing.T) {
	def := Definition{
		ID:     "produce",
		Fields: []FieldDefinition{{Name: "name"}, {Name: "name"}},
	}
	if err := Validate(def); !errors.Is(err, ErrDefinitionInvalid) {
		t.Fatalf("expected ErrDefinitionInvalid for duplicate, got %v", err)
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	reg, err := NewRegistry(
		Definition{ID: "benefits", Fields: []FieldDefinition{{Name: "text", Required: true}}},
		Definition{ID: "produce-items", Fields: []FieldDefinition{{Name: "name", Required: true}, {Name: "description"}}},
	)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	def, err := reg.Get("produce-items")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if def.Table != "produce_items" {
		t.Fatalf("expected derived table name, got %q", def.Table)
	}

	if _, err := reg.Get("missing"); !errors.Is(err, ErrDefinitionNotFound) {
		t.Fatalf("expected ErrDefinitionNotFound, got %v", err)
	}

	if err := reg.Register(Definition{ID: "benefits", Fields: []FieldDefinition{{Name: "text"}}}); !errors.Is(err, ErrDefinitionExists) {
		t.Fatalf("expected ErrDefinitionExists, got %v", err)
	}

	defs := reg.List()
	if len(defs) != 2 || defs[0].ID != "benefits" {
		t.Fatalf("unexpected List() order: %+v", defs)
	}
}

func TestColumnNaming(t *testing.T) {
	if got := Column("text", locale.Somali); got != "text_so" {
		t.Fatalf("Column() = %q", got)
	}
}
