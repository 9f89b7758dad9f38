package collection

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/wadani-market/cms/internal/locale"
	"github.com/wadani-market/cms/internal/schema"
)

// MemoryStore keeps collection rows in memory. It backs tests and storeless
// bootstrap and mirrors the relational layout: rows keyed by surrogate id,
// read back ordered by display order.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[uuid.UUID]memoryRow
	seq  int
	ops  []string
	fail func(op string, item Item) error
}

type memoryRow struct {
	item Item
	seq  int
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[uuid.UUID]memoryRow)}
}

// SetFailHook installs a hook consulted before every mutating operation; a
// non-nil return fails that single operation. Tests use this to exercise
// partial-failure behaviour.
func (s *MemoryStore) SetFailHook(hook func(op string, item Item) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = hook
}

// Operations returns the mutating operations applied so far, in order.
func (s *MemoryStore) Operations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.ops))
	copy(out, s.ops)
	return out
}

// ResetOperations clears the recorded operation journal.
func (s *MemoryStore) ResetOperations() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = nil
}

func (s *MemoryStore) table(def schema.Definition) map[uuid.UUID]memoryRow {
	rows, ok := s.data[def.ID]
	if !ok {
		rows = make(map[uuid.UUID]memoryRow)
		s.data[def.ID] = rows
	}
	return rows
}

// SelectAll returns the collection rows ordered ascending by display order,
// insertion order breaking ties.
func (s *MemoryStore) SelectAll(_ context.Context, def schema.Definition) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]memoryRow, 0, len(s.data[def.ID]))
	for _, row := range s.data[def.ID] {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].item.Order != rows[j].item.Order {
			return rows[i].item.Order < rows[j].item.Order
		}
		return rows[i].seq < rows[j].seq
	})

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, copyItem(row.item))
	}
	return items, nil
}

// Insert stores a new row. Items without an identity get a fresh one; a
// pre-assigned identity (deterministic seeding) is kept as the row id.
func (s *MemoryStore) Insert(_ context.Context, def schema.Definition, item Item) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail != nil {
		if err := s.fail(OpInsert, item); err != nil {
			return Item{}, err
		}
	}

	if !item.Identity.Known() {
		item.Identity = ExistingIdentity(uuid.New())
	}
	s.seq++
	s.table(def)[item.Identity.UUID()] = memoryRow{item: copyItem(item), seq: s.seq}
	s.ops = append(s.ops, OpInsert)
	return copyItem(item), nil
}

// Update overwrites an existing row in place, preserving its insertion order.
func (s *MemoryStore) Update(_ context.Context, def schema.Definition, item Item) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail != nil {
		if err := s.fail(OpUpdate, item); err != nil {
			return Item{}, err
		}
	}

	rows := s.table(def)
	existing, ok := rows[item.Identity.UUID()]
	if !ok {
		return Item{}, &NotFoundError{Collection: def.ID, Key: item.Identity.UUID().String()}
	}
	rows[item.Identity.UUID()] = memoryRow{item: copyItem(item), seq: existing.seq}
	s.ops = append(s.ops, OpUpdate)
	return copyItem(item), nil
}

// Delete removes the row with the given identity.
func (s *MemoryStore) Delete(_ context.Context, def schema.Definition, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail != nil {
		if err := s.fail(OpDelete, Item{Identity: ExistingIdentity(id)}); err != nil {
			return err
		}
	}

	rows := s.table(def)
	if _, ok := rows[id]; !ok {
		return &NotFoundError{Collection: def.ID, Key: id.String()}
	}
	delete(rows, id)
	s.ops = append(s.ops, OpDelete)
	return nil
}

func copyItem(item Item) Item {
	fields := make(map[string]locale.Field, len(item.Fields))
	for name, field := range item.Fields {
		copied := make(locale.Field, len(field))
		for lang, value := range field {
			copied[lang] = value
		}
		fields[name] = copied
	}
	item.Fields = fields
	return item
}

var _ Store = (*MemoryStore)(nil)
