package articles

import (
	"context"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"

	"github.com/wadani-market/cms/internal/identity"
	"github.com/wadani-market/cms/internal/locale"
	"github.com/wadani-market/cms/internal/logging"
	"github.com/wadani-market/cms/internal/markdown"
	"github.com/wadani-market/cms/pkg/interfaces"
)

// Service manages news articles and their localized projections.
type Service struct {
	repo      ArticleRepository
	languages *locale.Registry
	renderer  *markdown.Renderer
	logger    interfaces.Logger
}

// ServiceOption configures the article service.
type ServiceOption func(*Service)

// WithLogger overrides the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs an article service backed by the given repository.
func NewService(repo ArticleRepository, languages *locale.Registry, opts ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if languages == nil {
		return nil, locale.ErrDefaultLanguageRequired
	}
	svc := &Service{
		repo:      repo,
		languages: languages,
		renderer:  markdown.NewRenderer(),
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Create validates a draft and stores it as an unpublished article. Body
// values may carry a frontmatter block; its title and summary fill in any
// language the explicit maps leave blank. The slug defaults to a normalized
// form of the default-language title, and the article id is derived from the
// slug so repeated seeding converges on the same record.
func (s *Service) Create(ctx context.Context, draft Draft) (*Article, error) {
	prepared, err := s.prepareDraft(draft)
	if err != nil {
		return nil, err
	}

	slugValue := strings.TrimSpace(draft.Slug)
	if slugValue == "" {
		slugValue = prepared.Title[string(s.languages.Default())]
	}
	normalized, err := slug.Normalize(slugValue)
	if err != nil || normalized == "" {
		return nil, fmt.Errorf("articles: cannot derive slug from %q", slugValue)
	}

	if _, err := s.repo.GetBySlug(ctx, normalized); err == nil {
		return nil, ErrSlugConflict
	} else if !IsNotFound(err) {
		return nil, err
	}

	now := time.Now().UTC()
	record := &Article{
		ID:        identity.ArticleUUID(normalized),
		Slug:      normalized,
		Title:     prepared.Title,
		Summary:   prepared.Summary,
		Body:      prepared.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("article created", "slug", created.Slug, "id", created.ID.String())
	return created, nil
}

// Revise replaces the localized text of an existing article, keyed by slug.
// Publish state is untouched.
func (s *Service) Revise(ctx context.Context, slugValue string, draft Draft) (*Article, error) {
	existing, err := s.repo.GetBySlug(ctx, strings.TrimSpace(slugValue))
	if err != nil {
		return nil, err
	}
	prepared, err := s.prepareDraft(draft)
	if err != nil {
		return nil, err
	}
	existing.Title = prepared.Title
	existing.Summary = prepared.Summary
	existing.Body = prepared.Body
	existing.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, existing)
}

// Publish marks an article visible on the public site.
func (s *Service) Publish(ctx context.Context, slugValue string) (*Article, error) {
	return s.setPublished(ctx, slugValue, true)
}

// Unpublish hides an article from the public site without deleting it.
func (s *Service) Unpublish(ctx context.Context, slugValue string) (*Article, error) {
	return s.setPublished(ctx, slugValue, false)
}

func (s *Service) setPublished(ctx context.Context, slugValue string, published bool) (*Article, error) {
	record, err := s.repo.GetBySlug(ctx, strings.TrimSpace(slugValue))
	if err != nil {
		return nil, err
	}
	if record.Published == published {
		return record, nil
	}
	record.Published = published
	now := time.Now().UTC()
	record.UpdatedAt = now
	if published {
		record.PublishedAt = &now
	} else {
		record.PublishedAt = nil
	}
	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("article publish state changed", "slug", updated.Slug, "published", published)
	return updated, nil
}

// Get returns the raw stored record for a slug.
func (s *Service) Get(ctx context.Context, slugValue string) (*Article, error) {
	return s.repo.GetBySlug(ctx, strings.TrimSpace(slugValue))
}

// List returns all raw stored records, drafts included.
func (s *Service) List(ctx context.Context) ([]*Article, error) {
	return s.repo.List(ctx)
}

// Delete removes an article by slug.
func (s *Service) Delete(ctx context.Context, slugValue string) error {
	record, err := s.repo.GetBySlug(ctx, strings.TrimSpace(slugValue))
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, record.ID)
}

// GetLocalized returns one article projected into the requested language,
// falling back to the default language per field. Unknown language codes
// resolve to the default language.
func (s *Service) GetLocalized(ctx context.Context, slugValue string, language string) (*LocalizedArticle, error) {
	record, err := s.repo.GetBySlug(ctx, strings.TrimSpace(slugValue))
	if err != nil {
		return nil, err
	}
	return s.localize(record, s.languages.Pick(language))
}

// ListLocalized returns all articles projected into the requested language.
// When publishedOnly is set, unpublished drafts are filtered out.
func (s *Service) ListLocalized(ctx context.Context, language string, publishedOnly bool) ([]*LocalizedArticle, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	lang := s.languages.Pick(language)
	out := make([]*LocalizedArticle, 0, len(records))
	for _, record := range records {
		if publishedOnly && !record.Published {
			continue
		}
		localized, err := s.localize(record, lang)
		if err != nil {
			return nil, err
		}
		out = append(out, localized)
	}
	return out, nil
}

func (s *Service) localize(record *Article, lang locale.Language) (*LocalizedArticle, error) {
	def := s.languages.Default()
	body := fallback(record.bodyField(), lang, def)
	html, err := s.renderer.Render([]byte(body))
	if err != nil {
		return nil, err
	}
	title := fallback(record.titleField(), lang, def)
	summary := fallback(record.summaryField(), lang, def)
	return &LocalizedArticle{
		ID:          record.ID,
		Slug:        record.Slug,
		Language:    lang,
		Title:       title,
		Summary:     summary,
		BodyHTML:    string(html),
		Published:   record.Published,
		PublishedAt: record.PublishedAt,
	}, nil
}

// prepareDraft validates language codes, splits frontmatter out of each body
// and checks the default language carries a title and body.
func (s *Service) prepareDraft(draft Draft) (Draft, error) {
	prepared := Draft{
		Title:   copyStringMap(draft.Title),
		Summary: copyStringMap(draft.Summary),
		Body:    make(map[string]string, len(draft.Body)),
	}
	if prepared.Title == nil {
		prepared.Title = make(map[string]string)
	}
	if prepared.Summary == nil {
		prepared.Summary = make(map[string]string)
	}

	for _, values := range []map[string]string{draft.Title, draft.Summary, draft.Body} {
		for code := range values {
			if !s.supported(code) {
				return Draft{}, fmt.Errorf("articles: unsupported language %q", code)
			}
		}
	}

	for code, body := range draft.Body {
		meta, stripped, err := markdown.SplitFrontMatter([]byte(body))
		if err != nil {
			return Draft{}, err
		}
		prepared.Body[code] = string(stripped)
		if meta.Title != "" && prepared.Title[code] == "" {
			prepared.Title[code] = meta.Title
		}
		if meta.Summary != "" && prepared.Summary[code] == "" {
			prepared.Summary[code] = meta.Summary
		}
	}

	def := string(s.languages.Default())
	if err := validation.Validate(prepared.Title[def], validation.Required); err != nil {
		return Draft{}, ErrTitleRequired
	}
	if err := validation.Validate(prepared.Body[def], validation.Required); err != nil {
		return Draft{}, ErrBodyRequired
	}
	return prepared, nil
}

func (s *Service) supported(code string) bool {
	return s.languages.Supported(locale.Language(code))
}

// fallback resolves a localized value with the default-language variant as
// the only fallback tier.
func fallback(field locale.Field, lang, def locale.Language) string {
	if value, ok := field.Get(lang); ok {
		return value
	}
	value, _ := field.Get(def)
	return value
}
