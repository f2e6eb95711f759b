package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-docsync/internal/identity"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

// MemoryStore keeps documents in-memory for tests and lightweight deployments.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*interfaces.Document
	now  func() time.Time
}

var _ interfaces.DocumentStore = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]*interfaces.Document),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// FindByPath implements interfaces.DocumentStore.
func (s *MemoryStore) FindByPath(_ context.Context, path string) (*interfaces.Document, error) {
	s.mu.RLock()
	doc, ok := s.docs[path]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound("path", path)
	}
	return cloneDocument(doc), nil
}

// FindByHash implements interfaces.DocumentStore.
func (s *MemoryStore) FindByHash(_ context.Context, hash string) (*interfaces.Document, error) {
	if hash == "" {
		return nil, notFound("content_hash", hash)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *interfaces.Document
	for _, doc := range s.docs {
		if doc.ContentHash != hash {
			continue
		}
		if found == nil || doc.Path < found.Path {
			found = doc
		}
	}
	if found == nil {
		return nil, notFound("content_hash", hash)
	}
	return cloneDocument(found), nil
}

// Upsert implements interfaces.DocumentStore.
func (s *MemoryStore) Upsert(_ context.Context, doc *interfaces.Document) (*interfaces.Document, error) {
	if doc == nil || strings.TrimSpace(doc.Path) == "" {
		return nil, ErrPathRequired
	}
	stored := cloneDocument(doc)
	now := s.now()
	stored.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.docs[stored.Path]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	} else {
		if stored.ID == uuid.Nil {
			stored.ID = identity.DocumentUUID(stored.Path)
		}
		stored.CreatedAt = now
	}
	s.docs[stored.Path] = stored
	return cloneDocument(stored), nil
}

// DeleteAll implements interfaces.DocumentStore.
func (s *MemoryStore) DeleteAll(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := len(s.docs)
	s.docs = make(map[string]*interfaces.Document)
	return count, nil
}

// List implements interfaces.DocumentStore.
func (s *MemoryStore) List(context.Context) ([]*interfaces.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(), nil
}

// Search implements interfaces.DocumentStore.
func (s *MemoryStore) Search(_ context.Context, query string, limit int) ([]*interfaces.Document, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" || limit <= 0 {
		return []*interfaces.Document{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*interfaces.Document{}
	for _, doc := range s.sortedLocked() {
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

func (s *MemoryStore) sortedLocked() []*interfaces.Document {
	out := make([]*interfaces.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, cloneDocument(doc))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Path < out[j].Path
	})
	return out
}
