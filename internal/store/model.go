package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-docsync/pkg/interfaces"
)

// TableName is the relation holding documentation pages.
const TableName = "docs_documents"

type documentRecord struct {
	bun.BaseModel `bun:"table:docs_documents,alias:d"`

	ID          uuid.UUID `bun:",pk,type:uuid"`
	Path        string    `bun:"path,notnull,unique"`
	Title       string    `bun:"title,notnull"`
	Description *string   `bun:"description"`
	ContentRaw  string    `bun:"content_raw,notnull"`
	ContentHTML string    `bun:"content_html,notnull"`
	ContentHash string    `bun:"content_hash,notnull"`
	Order       int       `bun:"sort_order,notnull,default:0"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func recordFromDocument(doc *interfaces.Document) *documentRecord {
	return &documentRecord{
		ID:          doc.ID,
		Path:        doc.Path,
		Title:       doc.Title,
		Description: cloneString(doc.Description),
		ContentRaw:  doc.ContentRaw,
		ContentHTML: doc.ContentHTML,
		ContentHash: doc.ContentHash,
		Order:       doc.Order,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func (r *documentRecord) toDocument() *interfaces.Document {
	if r == nil {
		return nil
	}
	return &interfaces.Document{
		ID:          r.ID,
		Path:        r.Path,
		Title:       r.Title,
		Description: cloneString(r.Description),
		ContentRaw:  r.ContentRaw,
		ContentHTML: r.ContentHTML,
		ContentHash: r.ContentHash,
		Order:       r.Order,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneDocument(doc *interfaces.Document) *interfaces.Document {
	if doc == nil {
		return nil
	}
	out := *doc
	out.Description = cloneString(doc.Description)
	return &out
}
