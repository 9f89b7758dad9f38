package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wadani-market/cms/internal/articles"
	"github.com/wadani-market/cms/internal/collection"
	"github.com/wadani-market/cms/internal/locale"
	"github.com/wadani-market/cms/internal/schema"
)

func setupPublicAPI(t *testing.T) *http.ServeMux {
	t.Helper()
	languages := testRegistry(t)
	schemas, err := schema.NewRegistry(testDefinition())
	if err != nil {
		t.Fatalf("schemas: %v", err)
	}
	store := collection.NewMemoryStore()
	reconciler := collection.NewReconciler(store, languages)

	ctx := context.Background()
	if _, err := reconciler.Reconcile(ctx, testDefinition(), []collection.Item{
		{
			Identity: collection.NewItemIdentity(),
			Order:    1,
			Active:   true,
			Fields: map[string]locale.Field{
				"text": {locale.English: "Fresh halal meat", locale.Somali: "Hilib xalaal ah"},
			},
		},
		{
			Identity: collection.NewItemIdentity(),
			Order:    2,
			Active:   false,
			Fields: map[string]locale.Field{
				"text": {locale.English: "Hidden benefit"},
			},
		},
	}); err != nil {
		t.Fatalf("seed collection: %v", err)
	}

	articleSvc, err := articles.NewService(articles.NewMemoryArticleRepository(), languages)
	if err != nil {
		t.Fatalf("articles: %v", err)
	}
	if _, err := articleSvc.Create(ctx, articles.Draft{
		Title: map[string]string{"en": "Eid Specials", "so": "Qaybaha Ciidda"},
		Body:  map[string]string{"en": "Discounts on dates."},
	}); err != nil {
		t.Fatalf("create article: %v", err)
	}
	if _, err := articleSvc.Publish(ctx, "eid-specials"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, err := articleSvc.Create(ctx, articles.Draft{
		Title: map[string]string{"en": "Unfinished Draft"},
		Body:  map[string]string{"en": "Not yet public."},
	}); err != nil {
		t.Fatalf("create draft: %v", err)
	}

	api := NewPublicAPI(languages,
		WithPublicSchemaRegistry(schemas),
		WithPublicCollectionStore(store),
		WithPublicArticleService(articleSvc),
	)
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		t.Fatalf("register: %v", err)
	}
	return mux
}

func doPublicRequest(t *testing.T, mux *http.ServeMux, path string, cookie string, wantStatus int) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: languageCookie, Value: cookie})
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		t.Fatalf("expected status %d got %d (%s)", wantStatus, rec.Code, rec.Body.String())
	}
	return rec
}

func TestPublicAPI_Languages(t *testing.T) {
	mux := setupPublicAPI(t)

	rec := doPublicRequest(t, mux, "/api/languages", "", http.StatusOK)
	var payload struct {
		Default   string   `json:"default"`
		Languages []string `json:"languages"`
	}
	decodeJSONBody(t, rec, &payload)
	if payload.Default != "en" || len(payload.Languages) != 3 {
		t.Fatalf("unexpected languages payload: %+v", payload)
	}
}

func TestPublicAPI_CollectionLocalizedWithFallback(t *testing.T) {
	mux := setupPublicAPI(t)

	rec := doPublicRequest(t, mux, "/api/collections/benefits?lang=so", "", http.StatusOK)
	var payload struct {
		Language string       `json:"language"`
		Items    []publicItem `json:"items"`
	}
	decodeJSONBody(t, rec, &payload)
	if payload.Language != "so" {
		t.Fatalf("expected so, got %q", payload.Language)
	}
	if len(payload.Items) != 1 {
		t.Fatalf("inactive items must be filtered, got %+v", payload.Items)
	}
	if payload.Items[0].Fields["text"] != "Hilib xalaal ah" {
		t.Fatalf("expected Somali text, got %+v", payload.Items[0].Fields)
	}
}

func TestPublicAPI_UnknownLanguageFallsBackToDefault(t *testing.T) {
	mux := setupPublicAPI(t)

	rec := doPublicRequest(t, mux, "/api/collections/benefits?lang=fr", "", http.StatusOK)
	var payload struct {
		Language string `json:"language"`
	}
	decodeJSONBody(t, rec, &payload)
	if payload.Language != "en" {
		t.Fatalf("expected default language, got %q", payload.Language)
	}
}

func TestPublicAPI_LanguageCookie(t *testing.T) {
	mux := setupPublicAPI(t)

	rec := doPublicRequest(t, mux, "/api/collections/benefits", "so", http.StatusOK)
	var payload struct {
		Language string `json:"language"`
	}
	decodeJSONBody(t, rec, &payload)
	if payload.Language != "so" {
		t.Fatalf("cookie should pick language, got %q", payload.Language)
	}

	// An explicit query parameter wins over the cookie.
	rec = doPublicRequest(t, mux, "/api/collections/benefits?lang=ar", "so", http.StatusOK)
	decodeJSONBody(t, rec, &payload)
	if payload.Language != "ar" {
		t.Fatalf("query should win over cookie, got %q", payload.Language)
	}
}

func TestPublicAPI_ArticlesPublishedOnly(t *testing.T) {
	mux := setupPublicAPI(t)

	rec := doPublicRequest(t, mux, "/api/articles?lang=so", "", http.StatusOK)
	var payload struct {
		Language string          `json:"language"`
		Articles []publicArticle `json:"articles"`
	}
	decodeJSONBody(t, rec, &payload)
	if len(payload.Articles) != 1 {
		t.Fatalf("expected only published articles, got %+v", payload.Articles)
	}
	if payload.Articles[0].Title != "Qaybaha Ciidda" {
		t.Fatalf("expected Somali title, got %q", payload.Articles[0].Title)
	}
}

func TestPublicAPI_ArticleBySlug(t *testing.T) {
	mux := setupPublicAPI(t)

	rec := doPublicRequest(t, mux, "/api/articles/eid-specials", "", http.StatusOK)
	var payload publicArticle
	decodeJSONBody(t, rec, &payload)
	if payload.Title != "Eid Specials" || payload.BodyHTML == "" {
		t.Fatalf("unexpected article payload: %+v", payload)
	}

	doPublicRequest(t, mux, "/api/articles/unfinished-draft", "", http.StatusNotFound)
	doPublicRequest(t, mux, "/api/articles/missing", "", http.StatusNotFound)
}
