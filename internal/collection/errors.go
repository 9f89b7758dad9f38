package collection

import (
	"errors"
	"fmt"
)

// ErrSchemaRequired indicates a reconcile call without a collection definition.
var ErrSchemaRequired = errors.New("collection: schema definition is required")

// ErrStoreRequired indicates the reconciler was constructed without a store.
var ErrStoreRequired = errors.New("collection: store is required")

// ValidationError rejects a submitted desired state before any persistence
// operation is issued. Index and Field name the offending item.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("collection: item %d invalid: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("collection: item %d field %q invalid: %s", e.Index, e.Field, e.Reason)
}

// StoreError wraps a failure at the persistence boundary with the operation
// and collection that produced it.
type StoreError struct {
	Collection string
	Op         string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("collection %q: store %s failed: %v", e.Collection, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NotFoundError is returned when a collection row cannot be located.
type NotFoundError struct {
	Collection string
	Key        string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("collection %q: row not found", e.Collection)
	}
	return fmt.Sprintf("collection %q: row %q not found", e.Collection, e.Key)
}
