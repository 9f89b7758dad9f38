package articles

import (
	"errors"
	"fmt"
)

var (
	// ErrRepositoryRequired indicates the service was built without storage.
	ErrRepositoryRequired = errors.New("articles: repository is required")
	// ErrTitleRequired indicates a draft carries no default-language title.
	ErrTitleRequired = errors.New("articles: default-language title is required")
	// ErrBodyRequired indicates a draft carries no default-language body.
	ErrBodyRequired = errors.New("articles: default-language body is required")
	// ErrSlugConflict indicates another article already owns the slug.
	ErrSlugConflict = errors.New("articles: slug already in use")
)

// NotFoundError indicates a lookup for a missing article.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("article %q not found", e.Key)
}

// IsNotFound reports whether err wraps an article NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
