package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// LanguageUUID derives the identity of a seeded language row.
func LanguageUUID(code string) uuid.UUID {
	return UUID("wadani-cms:language:" + strings.ToLower(strings.TrimSpace(code)))
}

// CollectionItemUUID derives the identity of a seeded collection item from its
// collection id and a stable seed key.
func CollectionItemUUID(collectionID, seedKey string) uuid.UUID {
	return UUID("wadani-cms:collection_item:" + strings.TrimSpace(collectionID) + ":" + strings.TrimSpace(seedKey))
}

// ArticleUUID derives the identity of a seeded article from its slug.
func ArticleUUID(slug string) uuid.UUID {
	return UUID("wadani-cms:article:" + strings.ToLower(strings.TrimSpace(slug)))
}
