package navigation

import (
	"context"
	"fmt"
	"slices"

	"github.com/goliatone/go-docsync/internal/adapters/noop"
	"github.com/goliatone/go-docsync/internal/cache"
	"github.com/goliatone/go-docsync/internal/logging"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

// Builder projects the document store into the sidebar tree.
type Builder interface {
	// Build reads the store and returns a fresh tree. It never touches the
	// cache.
	Build(ctx context.Context) (interfaces.NavigationTree, error)
	// Navigation returns the cached tree, building and caching it on a miss.
	Navigation(ctx context.Context) (interfaces.NavigationTree, error)
	// Invalidate drops the cached tree.
	Invalidate(ctx context.Context) error
}

// BuilderOption configures the builder.
type BuilderOption func(*builder)

// WithConfig overrides the section layout.
func WithConfig(cfg Config) BuilderOption {
	return func(b *builder) {
		b.cfg = cfg
	}
}

// WithCache sets the cache holding the built tree.
func WithCache(provider interfaces.CacheProvider) BuilderOption {
	return func(b *builder) {
		if provider != nil {
			b.cache = provider
		}
	}
}

// WithLogger sets the builder logger.
func WithLogger(logger interfaces.Logger) BuilderOption {
	return func(b *builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithCacheObserver receives a hit flag for every Navigation call.
func WithCacheObserver(fn func(hit bool)) BuilderOption {
	return func(b *builder) {
		b.observe = fn
	}
}

type builder struct {
	store   interfaces.DocumentStore
	cache   interfaces.CacheProvider
	cfg     Config
	logger  interfaces.Logger
	observe func(bool)
}

// NewBuilder returns a Builder over store. Without WithCache every call
// rebuilds the tree.
func NewBuilder(store interfaces.DocumentStore, opts ...BuilderOption) Builder {
	b := &builder{
		store:  store,
		cache:  noop.Cache(),
		cfg:    DefaultConfig(),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	if b.cfg.TTL <= 0 {
		b.cfg.TTL = DefaultTTL
	}
	return b
}

func (b *builder) Navigation(ctx context.Context) (interfaces.NavigationTree, error) {
	cached, err := b.cache.Get(ctx, CacheKey)
	if err == nil {
		if tree, ok := cached.(interfaces.NavigationTree); ok {
			b.notify(true)
			return cloneTree(tree), nil
		}
		b.logger.Warn("navigation.cache.unexpected_type", "type", fmt.Sprintf("%T", cached))
	} else if !cache.IsMiss(err) {
		b.logger.Warn("navigation.cache.get_failed", "error", err)
	}
	b.notify(false)

	tree, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}
	if err := b.cache.Set(ctx, CacheKey, cloneTree(tree), b.cfg.TTL); err != nil {
		b.logger.Warn("navigation.cache.set_failed", "error", err)
	}
	return tree, nil
}

func (b *builder) Invalidate(ctx context.Context) error {
	if err := b.cache.Delete(ctx, CacheKey); err != nil {
		return fmt.Errorf("navigation: invalidate cache: %w", err)
	}
	b.logger.Debug("navigation.cache.invalidated")
	return nil
}

func (b *builder) Build(ctx context.Context) (interfaces.NavigationTree, error) {
	docs, err := b.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("navigation: list documents: %w", err)
	}
	return Project(docs, b.cfg), nil
}

func (b *builder) notify(hit bool) {
	if b.observe != nil {
		b.observe(hit)
	}
}

// Project groups documents, already in store order (order, path), into the
// configured sections followed by any discovered ones.
func Project(docs []*interfaces.Document, cfg Config) interfaces.NavigationTree {
	groups := map[string][]*interfaces.Document{}
	var discovered []string
	for _, doc := range docs {
		if doc == nil || doc.Path == "" {
			continue
		}
		key := sectionOf(doc.Path)
		if _, seen := groups[key]; !seen {
			discovered = append(discovered, key)
		}
		groups[key] = append(groups[key], doc)
	}

	tree := interfaces.NavigationTree{}
	configured := make(map[string]struct{}, len(cfg.Sections))

	for _, section := range cfg.Sections {
		if _, dup := configured[section.Key]; dup {
			continue
		}
		configured[section.Key] = struct{}{}

		members := groups[section.Key]
		if len(members) == 0 {
			continue
		}
		if order, ok := cfg.ItemOrder[section.Key]; ok && len(order) > 0 {
			members = sortByPreference(members, section.Key, order)
		}
		title := section.Title
		if title == "" {
			title = Humanize(section.Key)
		}
		tree = append(tree, interfaces.NavigationSection{Title: title, Items: toItems(members)})
	}

	for _, key := range discovered {
		if _, ok := configured[key]; ok {
			continue
		}
		tree = append(tree, interfaces.NavigationSection{Title: Humanize(key), Items: toItems(groups[key])})
	}
	return tree
}

// sortByPreference orders members by their index in order. The sort is
// stable so unlisted members keep store order after the listed ones.
func sortByPreference(members []*interfaces.Document, section string, order []string) []*interfaces.Document {
	rank := make(map[string]int, len(order))
	for i, name := range order {
		if _, ok := rank[name]; !ok {
			rank[name] = i
		}
	}
	position := func(doc *interfaces.Document) int {
		name := doc.Path
		if len(name) > len(section)+1 {
			name = name[len(section)+1:]
		}
		if idx, ok := rank[name]; ok {
			return idx
		}
		return len(order)
	}

	sorted := slices.Clone(members)
	slices.SortStableFunc(sorted, func(a, b *interfaces.Document) int {
		return position(a) - position(b)
	})
	return sorted
}

func toItems(docs []*interfaces.Document) []interfaces.NavigationItem {
	items := make([]interfaces.NavigationItem, 0, len(docs))
	for _, doc := range docs {
		title := doc.Title
		if title == "" {
			title = PathToTitle(doc.Path)
		}
		items = append(items, interfaces.NavigationItem{Title: title, Path: doc.Path})
	}
	return items
}

func cloneTree(tree interfaces.NavigationTree) interfaces.NavigationTree {
	if tree == nil {
		return nil
	}
	out := make(interfaces.NavigationTree, len(tree))
	for i, section := range tree {
		out[i] = interfaces.NavigationSection{
			Title: section.Title,
			Items: slices.Clone(section.Items),
		}
	}
	return out
}
