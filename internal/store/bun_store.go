package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-docsync/internal/identity"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

// documentNamespace is the key namespace go-repository-cache derives from
// the documentRecord type name.
const documentNamespace = "document_record"

// BunStore implements interfaces.DocumentStore on a bun database. Reads go
// through go-repository-bun. Lookups by path use the read-through cache when
// one is configured; filtered listings always hit the database because their
// query processors cannot be keyed. Every write drops the cached namespace.
type BunStore struct {
	db           *bun.DB
	repo         repository.Repository[*documentRecord]
	query        repository.Repository[*documentRecord]
	cacheService cache.CacheService
	cachePrefix  string
	now          func() time.Time
}

var _ interfaces.DocumentStore = (*BunStore)(nil)

func newDocumentRepository(db *bun.DB) repository.Repository[*documentRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*documentRecord]{
		NewRecord: func() *documentRecord { return &documentRecord{} },
		GetID: func(r *documentRecord) uuid.UUID {
			return r.ID
		},
		SetID: func(r *documentRecord, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "path"
		},
		GetIdentifierValue: func(r *documentRecord) string {
			return r.Path
		},
	})
}

// NewBunStore creates a store without caching.
func NewBunStore(db *bun.DB) *BunStore {
	return NewBunStoreWithCache(db, nil, nil)
}

// NewBunStoreWithCache creates a store whose reads are cached.
func NewBunStoreWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunStore {
	query := newDocumentRepository(db)
	base := query
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = documentNamespace + cache.KeySeparator
	}
	return &BunStore{
		db:           db,
		repo:         base,
		query:        query,
		cacheService: svc,
		cachePrefix:  prefix,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// FindByPath implements interfaces.DocumentStore.
func (s *BunStore) FindByPath(ctx context.Context, path string) (*interfaces.Document, error) {
	record, err := s.repo.GetByIdentifier(ctx, path)
	if err != nil {
		return nil, mapRepositoryError(err, "path", path)
	}
	return record.toDocument(), nil
}

// FindByHash implements interfaces.DocumentStore. When several documents
// share a hash the lowest path wins.
func (s *BunStore) FindByHash(ctx context.Context, hash string) (*interfaces.Document, error) {
	if hash == "" {
		return nil, notFound("content_hash", hash)
	}
	records, _, err := s.query.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_hash = ?", hash).
				OrderExpr("?TableAlias.path ASC")
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "content_hash", hash)
	}
	if len(records) == 0 {
		return nil, notFound("content_hash", hash)
	}
	return records[0].toDocument(), nil
}

// Upsert inserts or replaces the document keyed by doc.Path. The stored ID
// and creation time survive updates.
func (s *BunStore) Upsert(ctx context.Context, doc *interfaces.Document) (*interfaces.Document, error) {
	if doc == nil || strings.TrimSpace(doc.Path) == "" {
		return nil, ErrPathRequired
	}
	record := recordFromDocument(doc)
	now := s.now()
	record.UpdatedAt = now

	var existing documentRecord
	err := s.db.NewSelect().Model(&existing).Where("?TableAlias.path = ?", record.Path).Scan(ctx)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if record.ID == uuid.Nil {
			record.ID = identity.DocumentUUID(record.Path)
		}
		record.CreatedAt = now
		if _, err := s.repo.Create(ctx, record); err != nil {
			return nil, fmt.Errorf("create document %s: %w", record.Path, err)
		}
	case err != nil:
		return nil, fmt.Errorf("lookup document %s: %w", record.Path, err)
	default:
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		if _, err := s.db.NewUpdate().
			Model(record).
			Column("title", "description", "content_raw", "content_html", "content_hash", "sort_order", "updated_at").
			WherePK().
			Exec(ctx); err != nil {
			return nil, fmt.Errorf("update document %s: %w", record.Path, err)
		}
	}

	if err := s.InvalidateCache(ctx); err != nil {
		return nil, err
	}
	return record.toDocument(), nil
}

// DeleteAll removes every document and reports how many were deleted.
func (s *BunStore) DeleteAll(ctx context.Context) (int, error) {
	res, err := s.db.NewDelete().Model((*documentRecord)(nil)).Where("1 = 1").Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete documents: %w", err)
	}
	if err := s.InvalidateCache(ctx); err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(affected), nil
}

// List implements interfaces.DocumentStore.
func (s *BunStore) List(ctx context.Context) ([]*interfaces.Document, error) {
	records, _, err := s.query.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.sort_order ASC").
				OrderExpr("?TableAlias.path ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return toDocuments(records), nil
}

// Search narrows candidates with LIKE and then applies an exact
// case-insensitive substring check, so LIKE wildcards typed by the user
// never widen the result.
func (s *BunStore) Search(ctx context.Context, query string, limit int) ([]*interfaces.Document, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" || limit <= 0 {
		return []*interfaces.Document{}, nil
	}
	pattern := "%" + needle + "%"

	records, _, err := s.query.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Where("LOWER(?TableAlias.title) LIKE ?", pattern).
					WhereOr("LOWER(?TableAlias.content_raw) LIKE ?", pattern)
			}).
				OrderExpr("?TableAlias.sort_order ASC").
				OrderExpr("?TableAlias.path ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}

	out := make([]*interfaces.Document, 0, min(limit, len(records)))
	for _, record := range records {
		doc := record.toDocument()
		if !matches(doc, needle) {
			continue
		}
		out = append(out, doc)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// InvalidateCache drops cached reads for the document namespace.
func (s *BunStore) InvalidateCache(ctx context.Context) error {
	if s.cacheService == nil || s.cachePrefix == "" {
		return nil
	}
	return s.cacheService.DeleteByPrefix(ctx, s.cachePrefix)
}

func toDocuments(records []*documentRecord) []*interfaces.Document {
	out := make([]*interfaces.Document, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDocument())
	}
	return out
}

func matches(doc *interfaces.Document, needle string) bool {
	return strings.Contains(strings.ToLower(doc.Title), needle) ||
		strings.Contains(strings.ToLower(doc.ContentRaw), needle)
}
