package articles

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/wadani-market/cms/internal/locale"
)

// Article is the canonical record for a news entry. Localized text lives in
// per-language maps keyed by language code; the body holds raw Markdown and
// is rendered to HTML on read.
type Article struct {
	bun.BaseModel `bun:"table:articles,alias:a"`

	ID          uuid.UUID         `bun:",pk,type:uuid" json:"id"`
	Slug        string            `bun:"slug,notnull,unique" json:"slug"`
	Published   bool              `bun:"published,notnull,default:false" json:"published"`
	PublishedAt *time.Time        `bun:"published_at,nullzero" json:"published_at,omitempty"`
	Title       map[string]string `bun:"title,type:jsonb,notnull" json:"title"`
	Summary     map[string]string `bun:"summary,type:jsonb" json:"summary,omitempty"`
	Body        map[string]string `bun:"body,type:jsonb,notnull" json:"body"`
	CreatedAt   time.Time         `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time         `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// titleField adapts the stored map to the localization fallback helpers.
func (a *Article) titleField() locale.Field   { return toField(a.Title) }
func (a *Article) summaryField() locale.Field { return toField(a.Summary) }
func (a *Article) bodyField() locale.Field    { return toField(a.Body) }

func toField(values map[string]string) locale.Field {
	field := make(locale.Field, len(values))
	for code, value := range values {
		field[locale.Language(code)] = value
	}
	return field
}

// Draft is the editor-supplied input for creating or revising an article.
// Body values are Markdown and may carry a frontmatter block; when the block
// supplies a title or summary the explicit maps win.
type Draft struct {
	Slug    string            `json:"slug,omitempty"`
	Title   map[string]string `json:"title"`
	Summary map[string]string `json:"summary,omitempty"`
	Body    map[string]string `json:"body"`
}

// LocalizedArticle is the read-side projection for one language.
type LocalizedArticle struct {
	ID          uuid.UUID       `json:"id"`
	Slug        string          `json:"slug"`
	Language    locale.Language `json:"language"`
	Title       string          `json:"title"`
	Summary     string          `json:"summary,omitempty"`
	BodyHTML    string          `json:"body_html"`
	Published   bool            `json:"published"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
}
