package collection

import (
	"context"

	"github.com/google/uuid"

	"github.com/wadani-market/cms/internal/schema"
)

// Store is the persistence boundary consumed by the reconciler. Each call is
// an independent operation that may independently fail; no batch transaction
// is assumed, matching the granularity of the backing store.
type Store interface {
	// SelectAll returns every row of the collection ordered ascending by
	// display order.
	SelectAll(ctx context.Context, def schema.Definition) ([]Item, error)
	// Insert persists a new row and returns it with its assigned identity.
	Insert(ctx context.Context, def schema.Definition, item Item) (Item, error)
	// Update overwrites the row matching the item's identity.
	Update(ctx context.Context, def schema.Definition, item Item) (Item, error)
	// Delete removes the row with the given identity.
	Delete(ctx context.Context, def schema.Definition, id uuid.UUID) error
}
