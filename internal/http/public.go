package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/wadani-market/cms/internal/articles"
	"github.com/wadani-market/cms/internal/collection"
	"github.com/wadani-market/cms/internal/locale"
	"github.com/wadani-market/cms/internal/logging"
	"github.com/wadani-market/cms/internal/schema"
	"github.com/wadani-market/cms/internal/urls"
	"github.com/wadani-market/cms/pkg/interfaces"
)

// languageCookie is the cookie the public site sets when a visitor picks a
// language.
const languageCookie = "lang"

// PublicAPI serves the localized read-only endpoints the public site renders
// from. Requests never require credentials and bad language hints resolve to
// the default language instead of failing.
type PublicAPI struct {
	basePath  string
	languages *locale.Registry
	schemas   *schema.Registry
	store     collection.Store
	articles  *articles.Service
	urls      *urls.Resolver
	logger    interfaces.Logger
}

// PublicOption mutates the PublicAPI configuration.
type PublicOption func(*PublicAPI)

// NewPublicAPI constructs a PublicAPI instance.
func NewPublicAPI(languages *locale.Registry, opts ...PublicOption) *PublicAPI {
	api := &PublicAPI{
		basePath:  "/api",
		languages: languages,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithPublicBasePath overrides the base API path (defaults to "/api").
func WithPublicBasePath(path string) PublicOption {
	return func(api *PublicAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithPublicSchemaRegistry wires the collection schema registry.
func WithPublicSchemaRegistry(registry *schema.Registry) PublicOption {
	return func(api *PublicAPI) {
		api.schemas = registry
	}
}

// WithPublicCollectionStore wires the store used for collection reads.
func WithPublicCollectionStore(store collection.Store) PublicOption {
	return func(api *PublicAPI) {
		api.store = store
	}
}

// WithPublicArticleService wires the article service.
func WithPublicArticleService(service *articles.Service) PublicOption {
	return func(api *PublicAPI) {
		api.articles = service
	}
}

// WithURLResolver wires the public URL resolver used to decorate article
// responses with site links.
func WithURLResolver(resolver *urls.Resolver) PublicOption {
	return func(api *PublicAPI) {
		api.urls = resolver
	}
}

// WithPublicLogger overrides the public API logger.
func WithPublicLogger(logger interfaces.Logger) PublicOption {
	return func(api *PublicAPI) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// Register attaches the public endpoints to the provided mux.
func (api *PublicAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api.languages == nil {
		return locale.ErrDefaultLanguageRequired
	}

	mux.HandleFunc("GET "+joinPath(api.basePath, "languages"), api.handleLanguages)
	mux.HandleFunc("GET "+joinPath(api.basePath, "collections")+"/{collection}", api.handleCollection)
	articlesRoot := joinPath(api.basePath, "articles")
	mux.HandleFunc("GET "+articlesRoot, api.handleArticles)
	mux.HandleFunc("GET "+articlesRoot+"/{slug}", api.handleArticle)

	return nil
}

// pickLanguage resolves the request language from the lang query parameter,
// then the language cookie, then the default.
func (api *PublicAPI) pickLanguage(r *http.Request) locale.Language {
	if requested := strings.TrimSpace(r.URL.Query().Get("lang")); requested != "" {
		return api.languages.Pick(requested)
	}
	if cookie, err := r.Cookie(languageCookie); err == nil {
		return api.languages.Pick(cookie.Value)
	}
	return api.languages.Default()
}

func (api *PublicAPI) handleLanguages(w http.ResponseWriter, r *http.Request) {
	langs := api.languages.Languages()
	codes := make([]string, 0, len(langs))
	for _, lang := range langs {
		codes = append(codes, string(lang))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"default":   string(api.languages.Default()),
		"languages": codes,
	})
}

type publicItem struct {
	ID     uuid.UUID         `json:"id"`
	Order  int               `json:"order"`
	Fields map[string]string `json:"fields"`
}

func (api *PublicAPI) handleCollection(w http.ResponseWriter, r *http.Request) {
	if api.schemas == nil {
		writeError(w, collection.ErrSchemaRequired)
		return
	}
	if api.store == nil {
		writeError(w, collection.ErrStoreRequired)
		return
	}
	def, err := api.schemas.Get(r.PathValue("collection"))
	if err != nil {
		writeError(w, err)
		return
	}

	items, err := api.store.SelectAll(r.Context(), def)
	if err != nil {
		writeError(w, err)
		return
	}

	lang := api.pickLanguage(r)
	flat := locale.ResolveCollection(collection.Records(items), lang, api.languages.Default())
	out := make([]publicItem, 0, len(flat))
	for _, rec := range flat {
		if !rec.Active {
			continue
		}
		out = append(out, publicItem{ID: rec.ID, Order: rec.Order, Fields: rec.Fields})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"language": string(lang),
		"items":    out,
	})
}

type publicArticle struct {
	*articles.LocalizedArticle
	URL string `json:"url,omitempty"`
}

func (api *PublicAPI) handleArticles(w http.ResponseWriter, r *http.Request) {
	if api.articles == nil {
		writeError(w, articles.ErrRepositoryRequired)
		return
	}
	lang := api.pickLanguage(r)
	localized, err := api.articles.ListLocalized(r.Context(), string(lang), true)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]publicArticle, 0, len(localized))
	for _, article := range localized {
		out = append(out, api.decorate(article))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"language": string(lang),
		"articles": out,
	})
}

func (api *PublicAPI) handleArticle(w http.ResponseWriter, r *http.Request) {
	if api.articles == nil {
		writeError(w, articles.ErrRepositoryRequired)
		return
	}
	lang := api.pickLanguage(r)
	slug := r.PathValue("slug")
	localized, err := api.articles.GetLocalized(r.Context(), slug, string(lang))
	if err != nil {
		writeError(w, err)
		return
	}
	if !localized.Published {
		writeError(w, &articles.NotFoundError{Key: slug})
		return
	}
	writeJSON(w, http.StatusOK, api.decorate(localized))
}

func (api *PublicAPI) decorate(article *articles.LocalizedArticle) publicArticle {
	out := publicArticle{LocalizedArticle: article}
	if api.urls == nil {
		return out
	}
	url, err := api.urls.ArticleURL(string(article.Language), article.Slug)
	if err != nil {
		api.logger.Warn("article url resolution failed", "slug", article.Slug, "error", err.Error())
		return out
	}
	out.URL = url
	return out
}
