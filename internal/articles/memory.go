package articles

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryArticleRepository is an in-memory ArticleRepository used when no
// database is configured, and in tests.
type MemoryArticleRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Article
}

func NewMemoryArticleRepository() *MemoryArticleRepository {
	return &MemoryArticleRepository{
		records: make(map[uuid.UUID]*Article),
	}
}

func (r *MemoryArticleRepository) Create(ctx context.Context, record *Article) (*Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	for _, existing := range r.records {
		if existing.Slug == record.Slug {
			return nil, ErrSlugConflict
		}
	}
	stored := copyArticle(record)
	r.records[stored.ID] = stored
	return copyArticle(stored), nil
}

func (r *MemoryArticleRepository) Update(ctx context.Context, record *Article) (*Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[record.ID]; !ok {
		return nil, &NotFoundError{Key: record.ID.String()}
	}
	stored := copyArticle(record)
	r.records[stored.ID] = stored
	return copyArticle(stored), nil
}

func (r *MemoryArticleRepository) GetByID(ctx context.Context, id uuid.UUID) (*Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	return copyArticle(record), nil
}

func (r *MemoryArticleRepository) GetBySlug(ctx context.Context, slug string) (*Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, record := range r.records {
		if record.Slug == slug {
			return copyArticle(record), nil
		}
	}
	return nil, &NotFoundError{Key: slug}
}

func (r *MemoryArticleRepository) List(ctx context.Context) ([]*Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Article, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, copyArticle(record))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Slug < out[j].Slug
	})
	return out, nil
}

func (r *MemoryArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return &NotFoundError{Key: id.String()}
	}
	delete(r.records, id)
	return nil
}

func copyArticle(in *Article) *Article {
	out := *in
	out.Title = copyStringMap(in.Title)
	out.Summary = copyStringMap(in.Summary)
	out.Body = copyStringMap(in.Body)
	if in.PublishedAt != nil {
		at := *in.PublishedAt
		out.PublishedAt = &at
	}
	return &out
}

func copyStringMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
