package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	urlkit "github.com/goliatone/go-urlkit"

	cms "github.com/wadani-market/cms"
	"github.com/wadani-market/cms/internal/articles"
	"github.com/wadani-market/cms/internal/di"
	"github.com/wadani-market/cms/internal/locale"
)

// Demo server for the market site. Seeds the standard collections with
// sample content, then serves the admin and public APIs on one mux.
//
//	ADMIN_TOKEN  credential accepted on the admin endpoints (default "local-dev-token")
//	CMS_DSN      sqlite DSN (defaults to a shared in-memory database)
//	ADDR         listen address (default ":8080")
func main() {
	ctx := context.Background()

	adminToken := envOr("ADMIN_TOKEN", "local-dev-token")
	addr := envOr("ADDR", ":8080")

	cfg := cms.DefaultConfig()
	cfg.Storage.Provider = cms.StorageSQLite
	cfg.Storage.DSN = os.Getenv("CMS_DSN")
	cfg.Cache.Enabled = true

	cfg.Navigation.RouteConfig = &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "frontend",
				BaseURL: envOr("SITE_URL", "http://localhost:8080"),
				Paths: map[string]string{
					"home":    "/",
					"news":    "/news",
					"article": "/news/:slug",
				},
				Groups: []urlkit.GroupConfig{
					{
						Name: "so",
						Path: "/so",
						Paths: map[string]string{
							"home":    "/",
							"news":    "/wararka",
							"article": "/wararka/:slug",
						},
					},
				},
			},
		},
	}
	cfg.Navigation.URLKit = cms.URLKitResolverConfig{
		DefaultGroup: "frontend",
		LocaleGroups: map[string]string{
			"so": "frontend.so",
		},
	}

	verifier := cms.TokenVerifierFunc(func(_ context.Context, token string) (cms.Principal, error) {
		if token != adminToken {
			return cms.Principal{}, errors.New("unknown token")
		}
		return cms.Principal{Subject: "local-admin", Name: "Local Admin", Roles: []string{"editor"}}, nil
	})

	module, err := cms.New(cfg, di.WithTokenVerifier(verifier))
	if err != nil {
		log.Fatalf("initialise cms: %v", err)
	}
	defer module.Close()

	if err := module.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}
	if err := module.Seed(ctx); err != nil {
		log.Fatalf("seed languages: %v", err)
	}
	if err := seedMarketContent(ctx, module); err != nil {
		log.Fatalf("seed content: %v", err)
	}

	mux := http.NewServeMux()
	if err := module.Mount(mux); err != nil {
		log.Fatalf("mount routes: %v", err)
	}

	log.Printf("admin API on %s/admin/api (token %q), public API on %s/api", addr, adminToken, addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("serve: %v", err)
	}
}

func seedMarketContent(ctx context.Context, module *cms.Module) error {
	benefits := []cms.SeedItem{
		{
			Key:    "halal",
			Order:  1,
			Active: true,
			Fields: map[string]locale.Field{
				"text": {
					locale.English: "100% halal certified meat and groceries",
					locale.Somali:  "Hilib iyo raashin xalaal ah oo la hubiyay",
					locale.Arabic:  "لحوم وبقالة حلال معتمدة",
				},
				"details": {
					locale.English: "Every supplier is vetted for halal certification.",
				},
			},
		},
		{
			Key:    "fresh-daily",
			Order:  2,
			Active: true,
			Fields: map[string]locale.Field{
				"text": {
					locale.English: "Fresh produce delivered daily",
					locale.Somali:  "Khudaar cusub oo maalin kasta la keeno",
				},
			},
		},
	}
	if err := module.SeedCollection(ctx, "benefits", benefits); err != nil {
		return err
	}

	menuItems := []cms.SeedItem{
		{
			Key:    "sambusa",
			Order:  1,
			Active: true,
			Fields: map[string]locale.Field{
				"name":  {locale.English: "Sambusa", locale.Somali: "Sambuus", locale.Arabic: "سمبوسة"},
				"price": {locale.English: "$1.50"},
			},
		},
		{
			Key:    "camel-milk",
			Order:  2,
			Active: true,
			Fields: map[string]locale.Field{
				"name":        {locale.English: "Camel milk", locale.Somali: "Caano geel"},
				"description": {locale.English: "Fresh from regional farms, weekly delivery."},
				"price":       {locale.English: "$8.99"},
			},
		},
	}
	if err := module.SeedCollection(ctx, "menu-items", menuItems); err != nil {
		return err
	}

	svc := module.Articles()
	if svc == nil {
		return nil
	}
	_, err := svc.Create(ctx, articles.Draft{
		Title: map[string]string{
			"en": "Grand Opening Week",
			"so": "Toddobaadka Furitaanka",
		},
		Body: map[string]string{
			"en": "# Grand Opening Week\n\nJoin us for **free sambusa** and tastings all week.",
			"so": "# Toddobaadka Furitaanka\n\nNagu soo biir **sambuus bilaash ah** toddobaadka oo dhan.",
		},
	})
	if err != nil && !errors.Is(err, articles.ErrSlugConflict) {
		return err
	}
	if _, err := svc.Publish(ctx, "grand-opening-week"); err != nil {
		return err
	}
	return nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
