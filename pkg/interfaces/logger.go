package interfaces

import "context"

// Logger is the leveled logging contract the module logs through. The method
// set matches github.com/goliatone/go-logger, so hosts already using that
// package can hand their loggers straight in.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out named loggers, one per module area (collections,
// articles, http, auth). A provider may return the same logger for every
// name.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is an optional extension for loggers that carry persistent
// structured fields, such as a reconcile collection id. Callers type-assert
// for it; plain Loggers keep working without it.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
