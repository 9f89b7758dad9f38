package collection

import (
	"github.com/google/uuid"

	"github.com/wadani-market/cms/internal/locale"
)

// Identity is the tagged persisted-identity variant of a collection item: a
// submitted item either carries the surrogate id of an existing row or is a
// new item. Modelling this explicitly keeps the insert/update branch
// exhaustive instead of hanging off an optional field.
type Identity struct {
	id    uuid.UUID
	known bool
}

// NewItemIdentity marks an item as not yet persisted.
func NewItemIdentity() Identity {
	return Identity{}
}

// ExistingIdentity marks an item as referencing a persisted row.
func ExistingIdentity(id uuid.UUID) Identity {
	if id == uuid.Nil {
		return Identity{}
	}
	return Identity{id: id, known: true}
}

// Known reports whether the item claims a persisted identity.
func (i Identity) Known() bool {
	return i.known
}

// UUID returns the claimed identity; uuid.Nil when unknown.
func (i Identity) UUID() uuid.UUID {
	if !i.known {
		return uuid.Nil
	}
	return i.id
}

// Item is one member of an ordered collection. Order and Active are mutated
// in place across submissions and never participate in identity matching.
type Item struct {
	Identity Identity
	Order    int
	Active   bool
	Fields   map[string]locale.Field
}

// Record projects the item into the localization model.
func (it Item) Record() locale.Record {
	return locale.Record{
		ID:     it.Identity.UUID(),
		Order:  it.Order,
		Active: it.Active,
		Fields: it.Fields,
	}
}

// Records converts a slice of items, preserving order.
func Records(items []Item) []locale.Record {
	out := make([]locale.Record, 0, len(items))
	for _, it := range items {
		out = append(out, it.Record())
	}
	return out
}

// Failure reports one persistence operation that did not apply. Index is the
// position in the submitted desired state; deletes carry -1 because the
// deleted row has no submitted counterpart.
type Failure struct {
	Index    int       `json:"index"`
	Op       string    `json:"op"`
	Identity uuid.UUID `json:"identity,omitempty"`
	Message  string    `json:"message"`
}

// Operations performed by the reconciler, in application order.
const (
	OpDelete = "delete"
	OpInsert = "insert"
	OpUpdate = "update"
)

// Result is the outcome of one reconciliation: the refreshed persisted state
// plus per-operation failures. Failures never abort the batch; callers decide
// how partial success surfaces. Attempted counts the store operations the
// batch issued, failed or not.
type Result struct {
	Items     []Item    `json:"items"`
	Failures  []Failure `json:"failures,omitempty"`
	Attempted int       `json:"attempted"`
}

// FullyApplied reports whether every operation succeeded.
func (r Result) FullyApplied() bool {
	return len(r.Failures) == 0
}

// AllFailed reports whether operations were attempted and not one of them
// applied. A no-op batch never counts as failed.
func (r Result) AllFailed() bool {
	return r.Attempted > 0 && len(r.Failures) == r.Attempted
}
