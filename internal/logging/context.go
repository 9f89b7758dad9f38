package logging

import "context"

type contextKey string

const contextFieldsKey contextKey = "cms.logging.fields"

// ContextWithFields annotates the context with structured fields, such as the
// collection id of an in-flight reconcile. Fields already on the context are
// kept; new values win on key collision.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := mergeFields(ContextFields(ctx), fields)
	return context.WithValue(ctx, contextFieldsKey, merged)
}

// ContextFields returns a copy of the fields annotated on the context, or nil
// when none were set. The copy keeps later mutation from leaking into log
// entries.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(contextFieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	return mergeFields(nil, fields)
}

func mergeFields(base, extra map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(extra))
	for key, value := range base {
		merged[key] = value
	}
	for key, value := range extra {
		merged[key] = value
	}
	return merged
}
