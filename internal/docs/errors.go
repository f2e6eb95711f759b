package docs

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-docsync/internal/store"
)

var (
	// ErrNotFound reports an explicit absence on the read path.
	ErrNotFound = store.ErrNotFound
	// ErrSyncInProgress is returned when a pass is requested while another
	// one is still running on the same syncer.
	ErrSyncInProgress = errors.New("docs: sync already in progress")
	// ErrSourceRequired is returned when neither the syncer nor the call
	// supplies a tree source.
	ErrSourceRequired = errors.New("docs: tree source is required")
	// ErrStoreRequired is returned by constructors given a nil store.
	ErrStoreRequired = errors.New("docs: document store is required")
)

const (
	TextCodeStoreWriteFailed  = "DOCS_STORE_WRITE_FAILED"
	TextCodeRootListingFailed = "DOCS_ROOT_LISTING_FAILED"
	TextCodeSyncInProgress    = "DOCS_SYNC_IN_PROGRESS"
	TextCodeResetFailed       = "DOCS_RESET_FAILED"
)

// IsNotFound reports whether err means the requested document is absent.
func IsNotFound(err error) bool {
	return store.IsNotFound(err)
}

func notFound(path string) error {
	return goerrors.Wrap(ErrNotFound, goerrors.CategoryNotFound, "document not found").
		WithTextCode(store.TextCodeNotFound).
		WithMetadata(map[string]any{"path": path})
}
