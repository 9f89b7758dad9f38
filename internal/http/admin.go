package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/wadani-market/cms/internal/articles"
	"github.com/wadani-market/cms/internal/auth"
	"github.com/wadani-market/cms/internal/collection"
	"github.com/wadani-market/cms/internal/locale"
	"github.com/wadani-market/cms/internal/logging"
	"github.com/wadani-market/cms/internal/schema"
	"github.com/wadani-market/cms/pkg/interfaces"
)

// AdminAPI registers the authenticated endpoints editors use to manage
// collections and news articles.
type AdminAPI struct {
	basePath   string
	schemas    *schema.Registry
	store      collection.Store
	reconciler *collection.Reconciler
	articles   *articles.Service
	gate       *auth.Gate
	languages  *locale.Registry
	logger     interfaces.Logger
}

// AdminOption mutates the AdminAPI configuration.
type AdminOption func(*AdminAPI)

// NewAdminAPI constructs an AdminAPI instance.
func NewAdminAPI(opts ...AdminOption) *AdminAPI {
	api := &AdminAPI{
		basePath: "/admin/api",
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/admin/api").
func WithBasePath(path string) AdminOption {
	return func(api *AdminAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithSchemaRegistry wires the collection schema registry.
func WithSchemaRegistry(registry *schema.Registry) AdminOption {
	return func(api *AdminAPI) {
		api.schemas = registry
	}
}

// WithCollectionStore wires the store used for collection reads.
func WithCollectionStore(store collection.Store) AdminOption {
	return func(api *AdminAPI) {
		api.store = store
	}
}

// WithReconciler wires the collection reconciler.
func WithReconciler(reconciler *collection.Reconciler) AdminOption {
	return func(api *AdminAPI) {
		api.reconciler = reconciler
	}
}

// WithArticleService wires the article service.
func WithArticleService(service *articles.Service) AdminOption {
	return func(api *AdminAPI) {
		api.articles = service
	}
}

// WithAuthGate wires the credential gate. Without a gate every admin request
// is rejected.
func WithAuthGate(gate *auth.Gate) AdminOption {
	return func(api *AdminAPI) {
		api.gate = gate
	}
}

// WithAdminLanguages wires the language registry used for localized editor
// previews.
func WithAdminLanguages(languages *locale.Registry) AdminOption {
	return func(api *AdminAPI) {
		api.languages = languages
	}
}

// WithAdminLogger overrides the admin API logger.
func WithAdminLogger(logger interfaces.Logger) AdminOption {
	return func(api *AdminAPI) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// Register attaches the admin endpoints to the provided mux.
func (api *AdminAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}

	collections := joinPath(api.basePath, "collections")
	mux.HandleFunc("GET "+collections, api.handleCollectionList)
	mux.HandleFunc("GET "+collections+"/{collection}", api.handleCollectionGet)
	mux.HandleFunc("PUT "+collections+"/{collection}", api.handleCollectionReconcile)

	articlesRoot := joinPath(api.basePath, "articles")
	mux.HandleFunc("GET "+articlesRoot, api.handleArticleList)
	mux.HandleFunc("POST "+articlesRoot, api.handleArticleCreate)
	mux.HandleFunc("PUT "+articlesRoot+"/{slug}", api.handleArticleRevise)
	mux.HandleFunc("DELETE "+articlesRoot+"/{slug}", api.handleArticleDelete)
	mux.HandleFunc("POST "+articlesRoot+"/{slug}/publish", api.handleArticlePublish)
	mux.HandleFunc("POST "+articlesRoot+"/{slug}/unpublish", api.handleArticleUnpublish)

	return nil
}

// requireAuth authenticates the request and writes a 401 when it fails.
func (api *AdminAPI) requireAuth(w http.ResponseWriter, r *http.Request) bool {
	if api.gate == nil {
		writeError(w, auth.ErrMissingCredential)
		return false
	}
	principal, err := api.gate.AuthenticateRequest(r)
	if err != nil {
		api.logger.Warn("admin request rejected", "path", r.URL.Path, "error", err.Error())
		writeError(w, err)
		return false
	}
	api.logger.Debug("admin request", "path", r.URL.Path, "subject", principal.Subject)
	return true
}

func (api *AdminAPI) handleCollectionList(w http.ResponseWriter, r *http.Request) {
	if !api.requireAuth(w, r) {
		return
	}
	if api.schemas == nil {
		writeError(w, collection.ErrSchemaRequired)
		return
	}
	defs := api.schemas.List()
	type collectionSummary struct {
		ID     string   `json:"id"`
		Fields []string `json:"fields"`
	}
	out := make([]collectionSummary, 0, len(defs))
	for _, def := range defs {
		out = append(out, collectionSummary{ID: def.ID, Fields: def.FieldNames()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"collections": out})
}

func (api *AdminAPI) handleCollectionGet(w http.ResponseWriter, r *http.Request) {
	if !api.requireAuth(w, r) {
		return
	}
	def, ok := api.lookupDefinition(w, r)
	if !ok {
		return
	}
	if api.store == nil {
		writeError(w, collection.ErrStoreRequired)
		return
	}
	items, err := api.store.SelectAll(r.Context(), def)
	if err != nil {
		writeError(w, err)
		return
	}

	// An explicit lang parameter returns the flattened editor preview
	// instead of the full per-language payload.
	if requested := strings.TrimSpace(r.URL.Query().Get("lang")); requested != "" && api.languages != nil {
		lang := api.languages.Pick(requested)
		flat := locale.ResolveCollection(collection.Records(items), lang, api.languages.Default())
		writeJSON(w, http.StatusOK, map[string]any{
			"language": string(lang),
			"items":    flat,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": payloadsFromItems(items)})
}

func (api *AdminAPI) handleCollectionReconcile(w http.ResponseWriter, r *http.Request) {
	if !api.requireAuth(w, r) {
		return
	}
	def, ok := api.lookupDefinition(w, r)
	if !ok {
		return
	}
	if api.reconciler == nil {
		writeError(w, collection.ErrStoreRequired)
		return
	}

	var payload reconcileRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid JSON payload"})
		return
	}
	desired, err := itemsFromPayload(payload.Items)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	result, err := api.reconciler.Reconcile(r.Context(), def, desired)
	if err != nil {
		writeError(w, err)
		return
	}

	// Partial failures still report 200 with the per-item detail; only a
	// batch where nothing applied is a server error.
	status := http.StatusOK
	if result.AllFailed() {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, reconcileResponse{
		Items:     payloadsFromItems(result.Items),
		Failures:  payloadsFromFailures(result.Failures),
		Saved:     result.FullyApplied(),
		Submitted: len(payload.Items),
	})
}

func (api *AdminAPI) lookupDefinition(w http.ResponseWriter, r *http.Request) (schema.Definition, bool) {
	if api.schemas == nil {
		writeError(w, collection.ErrSchemaRequired)
		return schema.Definition{}, false
	}
	def, err := api.schemas.Get(r.PathValue("collection"))
	if err != nil {
		writeError(w, err)
		return schema.Definition{}, false
	}
	return def, true
}

func (api *AdminAPI) handleArticleList(w http.ResponseWriter, r *http.Request) {
	if !api.requireAuth(w, r) {
		return
	}
	if api.articles == nil {
		writeError(w, articles.ErrRepositoryRequired)
		return
	}
	records, err := api.articles.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"articles": records})
}

func (api *AdminAPI) handleArticleCreate(w http.ResponseWriter, r *http.Request) {
	if !api.requireAuth(w, r) {
		return
	}
	if api.articles == nil {
		writeError(w, articles.ErrRepositoryRequired)
		return
	}
	var draft articles.Draft
	if err := decodeJSON(r, &draft); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid JSON payload"})
		return
	}
	created, err := api.articles.Create(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (api *AdminAPI) handleArticleRevise(w http.ResponseWriter, r *http.Request) {
	if !api.requireAuth(w, r) {
		return
	}
	if api.articles == nil {
		writeError(w, articles.ErrRepositoryRequired)
		return
	}
	var draft articles.Draft
	if err := decodeJSON(r, &draft); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid JSON payload"})
		return
	}
	revised, err := api.articles.Revise(r.Context(), r.PathValue("slug"), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, revised)
}

func (api *AdminAPI) handleArticleDelete(w http.ResponseWriter, r *http.Request) {
	if !api.requireAuth(w, r) {
		return
	}
	if api.articles == nil {
		writeError(w, articles.ErrRepositoryRequired)
		return
	}
	if err := api.articles.Delete(r.Context(), r.PathValue("slug")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (api *AdminAPI) handleArticlePublish(w http.ResponseWriter, r *http.Request) {
	api.handlePublishState(w, r, true)
}

func (api *AdminAPI) handleArticleUnpublish(w http.ResponseWriter, r *http.Request) {
	api.handlePublishState(w, r, false)
}

func (api *AdminAPI) handlePublishState(w http.ResponseWriter, r *http.Request, published bool) {
	if !api.requireAuth(w, r) {
		return
	}
	if api.articles == nil {
		writeError(w, articles.ErrRepositoryRequired)
		return
	}
	var (
		record any
		err    error
	)
	if published {
		record, err = api.articles.Publish(r.Context(), r.PathValue("slug"))
	} else {
		record, err = api.articles.Unpublish(r.Context(), r.PathValue("slug"))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
