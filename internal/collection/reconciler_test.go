package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/wadani-market/cms/internal/locale"
	"github.com/wadani-market/cms/internal/schema"
)

func testLanguages(t *testing.T) *locale.Registry {
	t.Helper()
	reg, err := locale.NewRegistry(locale.English, locale.Somali, locale.Arabic)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return reg
}

func benefitsDef() schema.Definition {
	return schema.Definition{
		ID:     "benefits",
		Table:  "benefits",
		Fields: []schema.FieldDefinition{{Name: "text", Required: true}},
	}
}

func textItem(text string, order int) Item {
	return Item{
		Order:  order,
		Active: true,
		Fields: map[string]locale.Field{"text": {locale.English: text}},
	}
}

func seed(t *testing.T, store *MemoryStore, def schema.Definition, items ...Item) []Item {
	t.Helper()
	persisted := make([]Item, 0, len(items))
	for _, item := range items {
		stored, err := store.Insert(context.Background(), def, item)
		if err != nil {
			t.Fatalf("seed insert error = %v", err)
		}
		persisted = append(persisted, stored)
	}
	store.ResetOperations()
	return persisted
}

func TestReconcileUpdatesDeletesAndInserts(t *testing.T) {
	store := NewMemoryStore()
	def := benefitsDef()
	persisted := seed(t, store, def,
		textItem("Old", 1),
		textItem("Stale", 2),
	)
	keep := persisted[0].Identity.UUID()
	drop := persisted[1].Identity.UUID()

	updated := textItem("Fresh", 1)
	updated.Identity = ExistingIdentity(keep)
	desired := []Item{updated, textItem("Organic", 2)}

	result, err := NewReconciler(store, testLanguages(t)).Reconcile(context.Background(), def, desired)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if !result.FullyApplied() {
		t.Fatalf("unexpected failures: %+v", result.Failures)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected exactly 2 rows, got %d", len(result.Items))
	}

	byID := map[uuid.UUID]Item{}
	for _, item := range result.Items {
		byID[item.Identity.UUID()] = item
	}
	if got, ok := byID[keep]; !ok {
		t.Fatalf("identity %s should have been retained", keep)
	} else if value, _ := got.Fields["text"].Get(locale.English); value != "Fresh" {
		t.Fatalf("retained row not updated, text = %q", value)
	}
	if _, ok := byID[drop]; ok {
		t.Fatalf("identity %s should have been deleted", drop)
	}
}

func TestReconcileEmptyDesiredEmptiesCollection(t *testing.T) {
	store := NewMemoryStore()
	def := benefitsDef()
	seed(t, store, def, textItem("a", 1), textItem("b", 2), textItem("c", 3))

	result, err := NewReconciler(store, testLanguages(t)).Reconcile(context.Background(), def, nil)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(result.Items) != 0 {
		t.Fatalf("expected empty collection, got %d rows", len(result.Items))
	}
	if got := store.Operations(); len(got) != 3 {
		t.Fatalf("expected 3 deletes, got %v", got)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	def := benefitsDef()
	persisted := seed(t, store, def, textItem("keep", 5))

	keep := textItem("keep", 5)
	keep.Identity = persisted[0].Identity
	desired := []Item{keep, textItem("new", 10)}

	reconciler := NewReconciler(store, testLanguages(t))
	first, err := reconciler.Reconcile(context.Background(), def, desired)
	if err != nil {
		t.Fatalf("first Reconcile() error = %v", err)
	}
	store.ResetOperations()

	// Resubmit the refreshed state verbatim: a no-op, zero store mutations.
	second, err := reconciler.Reconcile(context.Background(), def, first.Items)
	if err != nil {
		t.Fatalf("second Reconcile() error = %v", err)
	}
	if ops := store.Operations(); len(ops) != 0 {
		t.Fatalf("resubmission must be a no-op, issued %v", ops)
	}
	if len(second.Items) != len(first.Items) {
		t.Fatalf("row count changed on resubmission: %d != %d", len(second.Items), len(first.Items))
	}
	for i := range first.Items {
		if first.Items[i].Identity.UUID() != second.Items[i].Identity.UUID() {
			t.Fatalf("identity churn on resubmission at %d", i)
		}
	}
}

func TestReconcileTreatsStaleIdentityAsInsert(t *testing.T) {
	store := NewMemoryStore()
	def := benefitsDef()

	stale := textItem("ghost", 1)
	stale.Identity = ExistingIdentity(uuid.New())

	result, err := NewReconciler(store, testLanguages(t)).Reconcile(context.Background(), def, []Item{stale})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 row, got %d", len(result.Items))
	}
	if result.Items[0].Identity.UUID() == stale.Identity.UUID() {
		t.Fatalf("stale identity must not be resurrected")
	}
	if got := store.Operations(); len(got) != 1 || got[0] != OpInsert {
		t.Fatalf("expected a single insert, got %v", got)
	}
}

func TestReconcileFailFastValidationIssuesNoStoreOps(t *testing.T) {
	store := NewMemoryStore()
	def := benefitsDef()
	seed(t, store, def, textItem("stays", 1))

	desired := []Item{
		textItem("ok 1", 1),
		textItem("ok 2", 2),
		{Order: 3, Active: true, Fields: map[string]locale.Field{"text": {locale.Somali: "so only"}}},
		textItem("ok 4", 4),
		textItem("ok 5", 5),
	}

	_, err := NewReconciler(store, testLanguages(t)).Reconcile(context.Background(), def, desired)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Index != 2 || verr.Field != "text_en" {
		t.Fatalf("validation error should name item 2 field text_en, got %+v", verr)
	}
	if got := store.Operations(); len(got) != 0 {
		t.Fatalf("validation failure must issue zero store operations, got %v", got)
	}
}

func TestReconcileRejectsUnknownFieldAndLanguage(t *testing.T) {
	store := NewMemoryStore()
	def := benefitsDef()
	reconciler := NewReconciler(store, testLanguages(t))

	unknownField := Item{Active: true, Fields: map[string]locale.Field{
		"text":  {locale.English: "ok"},
		"badge": {locale.English: "nope"},
	}}
	var verr *ValidationError
	if _, err := reconciler.Reconcile(context.Background(), def, []Item{unknownField}); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for unknown field, got %v", err)
	}

	unknownLang := Item{Active: true, Fields: map[string]locale.Field{
		"text": {locale.English: "ok", locale.Language("fr"): "non"},
	}}
	if _, err := reconciler.Reconcile(context.Background(), def, []Item{unknownLang}); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for unknown language, got %v", err)
	}
}

func TestReconcileAccumulatesPartialFailures(t *testing.T) {
	store := NewMemoryStore()
	def := benefitsDef()
	persisted := seed(t, store, def, textItem("doomed", 1))

	failing := errors.New("disk full")
	store.SetFailHook(func(op string, item Item) error {
		if op == OpDelete {
			return failing
		}
		return nil
	})

	result, err := NewReconciler(store, testLanguages(t)).Reconcile(context.Background(), def, []Item{textItem("new", 1)})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("expected one failure, got %+v", result.Failures)
	}
	failure := result.Failures[0]
	if failure.Op != OpDelete || failure.Index != -1 || failure.Identity != persisted[0].Identity.UUID() {
		t.Fatalf("unexpected failure %+v", failure)
	}
	// The failed delete must not block the insert.
	if len(result.Items) != 2 {
		t.Fatalf("expected failed delete to leave 2 rows, got %d", len(result.Items))
	}
}

func TestReconcileReportsAllFailed(t *testing.T) {
	store := NewMemoryStore()
	def := benefitsDef()
	store.SetFailHook(func(op string, item Item) error {
		return errors.New("disk full")
	})

	result, err := NewReconciler(store, testLanguages(t)).Reconcile(context.Background(), def, []Item{textItem("a", 1), textItem("b", 2)})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if result.Attempted != 2 || len(result.Failures) != 2 {
		t.Fatalf("expected 2 attempted and 2 failed, got %+v", result)
	}
	if !result.AllFailed() {
		t.Fatalf("AllFailed() = false with every operation failed")
	}

	// A no-op batch attempts nothing and therefore cannot be all-failed.
	empty, err := NewReconciler(NewMemoryStore(), testLanguages(t)).Reconcile(context.Background(), def, nil)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if empty.AllFailed() {
		t.Fatalf("AllFailed() = true for a batch with no operations")
	}
}

func TestReconcileOrderingDeleteInsertUpdate(t *testing.T) {
	store := NewMemoryStore()
	def := benefitsDef()
	persisted := seed(t, store, def, textItem("keep", 1), textItem("drop", 2))

	keep := textItem("keep edited", 1)
	keep.Identity = persisted[0].Identity

	_, err := NewReconciler(store, testLanguages(t)).Reconcile(context.Background(), def, []Item{keep, textItem("add", 3)})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	want := []string{OpDelete, OpInsert, OpUpdate}
	got := store.Operations()
	if len(got) != len(want) {
		t.Fatalf("expected ops %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("operation order mismatch: want %v, got %v", want, got)
		}
	}
}

func TestReconcileRequiresStoreAndSchema(t *testing.T) {
	if _, err := NewReconciler(nil, testLanguages(t)).Reconcile(context.Background(), benefitsDef(), nil); !errors.Is(err, ErrStoreRequired) {
		t.Fatalf("expected ErrStoreRequired, got %v", err)
	}
	if _, err := NewReconciler(NewMemoryStore(), testLanguages(t)).Reconcile(context.Background(), schema.Definition{}, nil); !errors.Is(err, ErrSchemaRequired) {
		t.Fatalf("expected ErrSchemaRequired, got %v", err)
	}
}
