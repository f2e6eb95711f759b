package docs

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-docsync/internal/logging"
	"github.com/goliatone/go-docsync/internal/navigation"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

const (
	// IndexDocument is the page served for a folder path.
	IndexDocument = "README"
	// MinSearchLength is the shortest query, in runes, that reaches the store.
	MinSearchLength = 2
	// SearchLimit caps the hits returned by Search.
	SearchLimit = 20
)

// Service exposes the sync entry point and the read path.
type Service interface {
	interfaces.DocsService
	InvalidateNavigation(ctx context.Context) error
}

// ServiceOption configures the service.
type ServiceOption func(*service)

// WithEditURL sets the function that builds the edit link for a page.
func WithEditURL(fn func(docPath string) string) ServiceOption {
	return func(s *service) {
		s.editURL = fn
	}
}

// WithServiceLogger sets the service logger.
func WithServiceLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSearchLimit overrides SearchLimit.
func WithSearchLimit(limit int) ServiceOption {
	return func(s *service) {
		if limit > 0 {
			s.searchLimit = limit
		}
	}
}

type service struct {
	store       interfaces.DocumentStore
	syncer      *Syncer
	navigation  navigation.Builder
	editURL     func(string) string
	searchLimit int
	logger      interfaces.Logger
}

// NewService composes the read path over store. The navigation builder
// defaults to an uncached one over the same store.
func NewService(store interfaces.DocumentStore, syncer *Syncer, nav navigation.Builder, opts ...ServiceOption) Service {
	if nav == nil {
		nav = navigation.NewBuilder(store)
	}
	s := &service{
		store:       store,
		syncer:      syncer,
		navigation:  nav,
		searchLimit: SearchLimit,
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *service) Sync(ctx context.Context, opts interfaces.SyncOptions) (interfaces.SyncResult, error) {
	if s.syncer == nil {
		return interfaces.SyncResult{}, ErrSourceRequired
	}
	return s.syncer.Sync(ctx, opts)
}

// Get returns the page stored at path, falling back to the folder index. An
// empty path is the site index.
func (s *service) Get(ctx context.Context, path string) (*interfaces.Page, error) {
	key := NormalizePath(path)
	if key == "" {
		key = IndexDocument
	}

	doc, err := s.store.FindByPath(ctx, key)
	if IsNotFound(err) && !strings.HasSuffix(key, IndexDocument) {
		doc, err = s.store.FindByPath(ctx, key+"/"+IndexDocument)
	}
	if err != nil {
		if IsNotFound(err) {
			return nil, notFound(key)
		}
		return nil, err
	}
	return s.toPage(doc), nil
}

func (s *service) Navigation(ctx context.Context) (interfaces.NavigationTree, error) {
	return s.navigation.Navigation(ctx)
}

func (s *service) InvalidateNavigation(ctx context.Context) error {
	return s.navigation.Invalidate(ctx)
}

// Search returns an empty slice for queries shorter than MinSearchLength
// without reaching the store.
func (s *service) Search(ctx context.Context, query string) ([]interfaces.SearchResult, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinSearchLength {
		return []interfaces.SearchResult{}, nil
	}
	docs, err := s.store.Search(ctx, query, s.searchLimit)
	if err != nil {
		s.logger.Error("docs.search.failed", "query", query, "error", err)
		return nil, err
	}
	out := make([]interfaces.SearchResult, 0, len(docs))
	for _, doc := range docs {
		out = append(out, interfaces.SearchResult{
			Path:        doc.Path,
			Title:       doc.Title,
			Description: doc.Description,
		})
	}
	return out, nil
}

func (s *service) toPage(doc *interfaces.Document) *interfaces.Page {
	page := &interfaces.Page{
		Path:        doc.Path,
		Title:       doc.Title,
		Description: doc.Description,
		HTML:        doc.ContentHTML,
	}
	if page.Title == "" {
		page.Title = navigation.PathToTitle(doc.Path)
	}
	if s.editURL != nil {
		page.EditURL = s.editURL(doc.Path)
	}
	return page
}

// NormalizePath trims whitespace, slashes and a trailing Markdown extension
// from a requested document path.
func NormalizePath(path string) string {
	path = strings.Trim(strings.TrimSpace(path), "/")
	return strings.TrimSuffix(path, ".md")
}
