package logging

import (
	"maps"

	"github.com/wadani-market/cms/pkg/interfaces"
)

// WithFields attaches structured fields when the logger supports the
// FieldsLogger extension; otherwise the logger is returned as is. The fields
// map is copied so the caller may reuse it.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	copied := make(map[string]any, len(fields))
	maps.Copy(copied, fields)
	return fieldsLogger.WithFields(copied)
}
