package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Document is one documentation page keyed by its slash-delimited path.
// ContentHTML is always the rendered form of ContentRaw; writers must set both
// together.
type Document struct {
	ID          uuid.UUID `json:"id"`
	Path        string    `json:"path"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	ContentRaw  string    `json:"content_raw"`
	ContentHTML string    `json:"content_html"`
	// ContentHash is the opaque version identifier reported by the remote
	// source. It is only ever compared for equality.
	ContentHash string    `json:"content_hash"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DocumentStore is the keyed record store behind the pipeline.
type DocumentStore interface {
	FindByPath(ctx context.Context, path string) (*Document, error)
	FindByHash(ctx context.Context, hash string) (*Document, error)
	Upsert(ctx context.Context, doc *Document) (*Document, error)
	DeleteAll(ctx context.Context) (int, error)
	// List returns every document ordered by (order, path).
	List(ctx context.Context) ([]*Document, error)
	// Search matches the query as a case-insensitive substring of the title
	// or the raw content, ordered like List and capped at limit.
	Search(ctx context.Context, query string, limit int) ([]*Document, error)
}

// Page is the read-path projection of a Document.
type Page struct {
	Path        string  `json:"path"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	HTML        string  `json:"html"`
	EditURL     string  `json:"edit_url,omitempty"`
}

// SearchResult is a single search hit.
type SearchResult struct {
	Path        string  `json:"path"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}
