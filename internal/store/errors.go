package store

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

// ErrNotFound is the sentinel matched by errors.Is for missing documents.
var ErrNotFound = errors.New("store: document not found")

// ErrPathRequired is returned when a document is written without a path.
var ErrPathRequired = errors.New("store: document path is required")

// TextCodeNotFound is attached to not found errors for transport layers.
const TextCodeNotFound = "DOCS_NOT_FOUND"

func notFound(field, value string) error {
	return goerrors.Wrap(ErrNotFound, goerrors.CategoryNotFound, fmt.Sprintf("document with %s %q not found", field, value)).
		WithTextCode(TextCodeNotFound).
		WithMetadata(map[string]any{field: value})
}

// IsNotFound reports whether err means the requested document is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || goerrors.IsCategory(err, goerrors.CategoryNotFound)
}

func mapRepositoryError(err error, field, value string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return notFound(field, value)
	}
	return fmt.Errorf("document repository error: %w", err)
}
