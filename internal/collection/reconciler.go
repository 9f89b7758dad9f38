package collection

import (
	"context"

	"github.com/google/uuid"

	"github.com/wadani-market/cms/internal/locale"
	"github.com/wadani-market/cms/internal/logging"
	"github.com/wadani-market/cms/internal/schema"
	"github.com/wadani-market/cms/pkg/interfaces"
)

// Reconciler applies a submitted desired state to the persisted state of one
// collection. It holds no state across calls: persisted rows are re-read at
// the start of every reconciliation, so concurrent writers race only at the
// store (last write wins, an accepted property of the admin write path).
type Reconciler struct {
	store     Store
	languages *locale.Registry
	logger    interfaces.Logger
}

// ReconcilerOption mutates the reconciler configuration.
type ReconcilerOption func(*Reconciler)

// WithLogger attaches a logger to the reconciler.
func WithLogger(logger interfaces.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReconciler constructs a reconciler over the given store and language
// registry.
func NewReconciler(store Store, languages *locale.Registry, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		store:     store,
		languages: languages,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile makes the persisted state of the collection match the desired
// state. Items carrying a known persisted identity are updated (skipped when
// nothing changed); items without
// one, or with an identity the persisted state does not contain (stale client
// data), are inserted fresh; persisted rows not referenced by any retained
// item are deleted. Deletes apply first so a recreated item cannot collide
// with a soon-to-be-removed row on a unique business key, then inserts, then
// updates, each as an independent store call.
//
// An empty desired state empties the collection; guarding against that is the
// caller's decision. Per-operation failures are accumulated in the result
// rather than aborting the batch; the refreshed persisted state is returned
// alongside them.
func (r *Reconciler) Reconcile(ctx context.Context, def schema.Definition, desired []Item) (Result, error) {
	if r.store == nil {
		return Result{}, ErrStoreRequired
	}
	if def.ID == "" {
		return Result{}, ErrSchemaRequired
	}

	if err := ValidateDesired(def, r.languages, desired); err != nil {
		return Result{}, err
	}

	persisted, err := r.store.SelectAll(ctx, def)
	if err != nil {
		return Result{}, &StoreError{Collection: def.ID, Op: "select", Err: err}
	}

	existing := make(map[uuid.UUID]Item, len(persisted))
	for _, row := range persisted {
		existing[row.Identity.UUID()] = row
	}

	type pendingOp struct {
		index int
		item  Item
	}
	var toInsert, toUpdate []pendingOp
	retained := make(map[uuid.UUID]struct{}, len(desired))

	for index, item := range desired {
		if item.Identity.Known() {
			if current, ok := existing[item.Identity.UUID()]; ok {
				retained[item.Identity.UUID()] = struct{}{}
				if !itemEqual(current, item) {
					toUpdate = append(toUpdate, pendingOp{index: index, item: item})
				}
				continue
			}
			// Stale identity from the client: treat as a brand new item.
			item.Identity = NewItemIdentity()
		}
		toInsert = append(toInsert, pendingOp{index: index, item: item})
	}

	var failures []Failure

	for _, row := range persisted {
		id := row.Identity.UUID()
		if _, keep := retained[id]; keep {
			continue
		}
		if err := r.store.Delete(ctx, def, id); err != nil {
			r.logOpFailure(def.ID, OpDelete, -1, err)
			failures = append(failures, Failure{Index: -1, Op: OpDelete, Identity: id, Message: err.Error()})
		}
	}

	for _, op := range toInsert {
		if _, err := r.store.Insert(ctx, def, op.item); err != nil {
			r.logOpFailure(def.ID, OpInsert, op.index, err)
			failures = append(failures, Failure{Index: op.index, Op: OpInsert, Message: err.Error()})
		}
	}

	for _, op := range toUpdate {
		if _, err := r.store.Update(ctx, def, op.item); err != nil {
			r.logOpFailure(def.ID, OpUpdate, op.index, err)
			failures = append(failures, Failure{Index: op.index, Op: OpUpdate, Identity: op.item.Identity.UUID(), Message: err.Error()})
		}
	}

	refreshed, err := r.store.SelectAll(ctx, def)
	if err != nil {
		return Result{Failures: failures}, &StoreError{Collection: def.ID, Op: "refresh", Err: err}
	}

	attempted := (len(persisted) - len(retained)) + len(toInsert) + len(toUpdate)
	result := Result{Items: refreshed, Failures: failures, Attempted: attempted}
	r.logger.Info("collection.reconciled",
		"collection", def.ID,
		"submitted", len(desired),
		"deleted", len(persisted)-len(retained),
		"inserted", len(toInsert),
		"updated", len(toUpdate),
		"failures", len(failures),
	)
	return result, nil
}

func (r *Reconciler) logOpFailure(collection, op string, index int, err error) {
	logging.WithReconcileContext(r.logger, collection, op, index).Error("collection.op_failed", "error", err)
}

// itemEqual reports whether a desired item would leave the persisted row
// unchanged. Unchanged retained items are skipped so resubmitting a
// collection to its own result issues no operations at all.
func itemEqual(persisted, desired Item) bool {
	if persisted.Order != desired.Order || persisted.Active != desired.Active {
		return false
	}
	return fieldsEqual(persisted.Fields, desired.Fields)
}

func fieldsEqual(a, b map[string]locale.Field) bool {
	names := map[string]struct{}{}
	for name := range a {
		names[name] = struct{}{}
	}
	for name := range b {
		names[name] = struct{}{}
	}
	for name := range names {
		va, vb := a[name], b[name]
		langs := map[locale.Language]struct{}{}
		for lang := range va {
			langs[lang] = struct{}{}
		}
		for lang := range vb {
			langs[lang] = struct{}{}
		}
		for lang := range langs {
			// Empty and absent variants are equivalent on both sides.
			sa, _ := va.Get(lang)
			sb, _ := vb.Get(lang)
			if sa != sb {
				return false
			}
		}
	}
	return true
}
