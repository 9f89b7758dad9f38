package collection

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/wadani-market/cms/internal/locale"
	"github.com/wadani-market/cms/internal/schema"
)

// ValidateDesired checks a submitted desired state against the collection
// definition before any persistence operation is issued. The first offending
// item aborts the whole submission (fail-fast, never partial).
func ValidateDesired(def schema.Definition, languages *locale.Registry, desired []Item) error {
	for index, item := range desired {
		if err := validateItem(def, languages, index, item); err != nil {
			return err
		}
	}
	return nil
}

func validateItem(def schema.Definition, languages *locale.Registry, index int, item Item) error {
	for name, field := range item.Fields {
		if _, ok := def.Field(name); !ok {
			return &ValidationError{Index: index, Field: name, Reason: "field not defined for collection"}
		}
		for lang := range field {
			if !languages.Supported(lang) {
				return &ValidationError{Index: index, Field: name, Reason: "unsupported language " + string(lang)}
			}
		}
	}

	for _, fieldDef := range def.Fields {
		if !fieldDef.Required {
			continue
		}
		value, _ := item.Fields[fieldDef.Name].Get(languages.Default())
		if err := validation.Validate(value, validation.Required); err != nil {
			return &ValidationError{
				Index:  index,
				Field:  schema.Column(fieldDef.Name, languages.Default()),
				Reason: "default-language value is required",
			}
		}
	}
	return nil
}
