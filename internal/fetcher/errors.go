package fetcher

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrRootListing marks a failure to list the documentation root. It is
	// the only listing failure that aborts a walk.
	ErrRootListing = errors.New("fetcher: root listing failed")
	// ErrLocalPathNotFound is returned when a local source directory is missing.
	ErrLocalPathNotFound = errors.New("fetcher: local docs path not found")
	// ErrNotDirectory is returned when a listing target resolves to a file.
	ErrNotDirectory = errors.New("fetcher: path is not a directory")
)

const (
	textCodeRateLimited = "GITHUB_RATE_LIMITED"
	textCodeNotFound    = "GITHUB_NOT_FOUND"
	textCodeUpstream    = "GITHUB_UPSTREAM_ERROR"
	textCodeTransport   = "GITHUB_TRANSPORT_ERROR"
)

// IsRateLimited reports whether err stems from a remote rate limit.
func IsRateLimited(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryRateLimit)
}
