package di

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-docsync/internal/adapters/noop"
	"github.com/goliatone/go-docsync/internal/cache"
	docscmd "github.com/goliatone/go-docsync/internal/commands/docs"
	"github.com/goliatone/go-docsync/internal/docs"
	"github.com/goliatone/go-docsync/internal/fetcher"
	"github.com/goliatone/go-docsync/internal/logging"
	"github.com/goliatone/go-docsync/internal/logging/gologger"
	"github.com/goliatone/go-docsync/internal/markdown"
	"github.com/goliatone/go-docsync/internal/metrics"
	"github.com/goliatone/go-docsync/internal/navigation"
	"github.com/goliatone/go-docsync/internal/runtimeconfig"
	"github.com/goliatone/go-docsync/internal/store"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

// Container wires the documentation pipeline from configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	store      interfaces.DocumentStore
	navCache   interfaces.CacheProvider
	source     interfaces.TreeSource
	httpClient *http.Client
	metrics    *metrics.Metrics
	clock      func() time.Time

	pipeline   *markdown.Pipeline
	navigation navigation.Builder
	syncer     *docs.Syncer
	docsSvc    docs.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB backs the document store with db instead of opening one from
// the store config. The caller keeps ownership of db.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the record cache used by the SQL store.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithStore overrides the document store.
func WithStore(st interfaces.DocumentStore) Option {
	return func(c *Container) {
		c.store = st
	}
}

// WithNavigationCache overrides the navigation cache provider.
func WithNavigationCache(provider interfaces.CacheProvider) Option {
	return func(c *Container) {
		c.navCache = provider
	}
}

// WithSource overrides the default tree source.
func WithSource(source interfaces.TreeSource) Option {
	return func(c *Container) {
		c.source = source
	}
}

// WithHTTPClient sets the client used by the GitHub source.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

// WithMetrics overrides the collectors built from the metrics config.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Container) {
		c.metrics = m
	}
}

// WithClock overrides the clock used to time sync passes.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.configureMetrics()
	c.configureCacheDefaults()
	if err := c.configureStore(); err != nil {
		return nil, err
	}
	if err := c.configureSource(); err != nil {
		c.Close()
		return nil, err
	}
	c.configurePipeline()
	c.configureNavigation()
	if err := c.configureDocs(); err != nil {
		c.Close()
		return nil, err
	}

	logging.ModuleLogger(c.loggerProvider, "docs").Debug("docs.container.configured",
		"store", c.Config.Store.Driver,
		"source", c.Config.Source.Provider,
		"cache", c.Config.Cache.Enabled,
		"metrics", c.metrics != nil,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case runtimeconfig.LoggingGoLogger:
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return fmt.Errorf("configure logger: %w", err)
		}
		c.loggerProvider = provider
	default:
		c.loggerProvider = noop.LoggerProvider()
	}
	return nil
}

func (c *Container) configureMetrics() {
	if c.metrics != nil || !c.Config.Metrics.Enabled {
		return
	}
	c.metrics = metrics.New(c.Config.Metrics.Namespace)
}

func (c *Container) configureCacheDefaults() {
	if c.navCache == nil {
		if c.Config.Cache.Enabled {
			c.navCache = cache.NewTTL(c.Config.Cache.NavigationTTL)
		} else {
			c.navCache = noop.Cache()
		}
	}

	if !c.Config.Cache.Enabled || !c.Config.Store.CacheRecords {
		return
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.RecordTTL > 0 {
			cfg.TTL = c.Config.Cache.RecordTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}
	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureStore() error {
	if c.store != nil {
		return nil
	}

	driver := strings.ToLower(strings.TrimSpace(c.Config.Store.Driver))
	if c.bunDB == nil {
		if driver == runtimeconfig.StoreMemory || driver == "" {
			c.store = store.NewMemoryStore()
			return nil
		}
		db, err := store.Open(store.OpenOptions{
			Driver: driver,
			DSN:    c.Config.Store.DSN,
			Debug:  c.Config.Store.Debug,
		})
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}

	if c.Config.Store.AutoMigrate {
		if err := store.CreateSchema(context.Background(), c.bunDB); err != nil {
			c.Close()
			return err
		}
	}
	c.store = store.NewBunStoreWithCache(c.bunDB, c.cacheService, c.keySerializer)
	return nil
}

func (c *Container) configureSource() error {
	if c.source != nil {
		return nil
	}
	src := c.Config.Source
	switch strings.ToLower(strings.TrimSpace(src.Provider)) {
	case runtimeconfig.SourceLocal:
		local, err := fetcher.NewLocalSource(src.LocalPath)
		if err != nil {
			return err
		}
		c.source = local
	default:
		github, err := fetcher.NewGitHubSource(fetcher.GitHubConfig{
			Repo:              src.Repo,
			Branch:            src.Branch,
			DocsPath:          src.DocsPath,
			Token:             src.Token,
			APIBaseURL:        src.APIBaseURL,
			RawBaseURL:        src.RawBaseURL,
			UserAgent:         src.UserAgent,
			Timeout:           src.Timeout,
			RequestsPerSecond: src.RequestsPerSecond,
			MaxRetries:        src.MaxRetries,
			HTTPClient:        c.httpClient,
			Logger:            logging.FetcherLogger(c.loggerProvider),
		})
		if err != nil {
			return err
		}
		c.source = github
	}
	return nil
}

func (c *Container) configurePipeline() {
	opts := markdown.DefaultRendererOptions()
	if prefix := strings.TrimSpace(c.Config.Rendering.IDPrefix); prefix != "" {
		opts.IDPrefix = prefix
	}
	c.pipeline = markdown.NewPipeline(
		markdown.NewRenderer(opts),
		markdown.NewLinkRewriter(c.Config.Rendering.BasePath),
	)
}

func (c *Container) configureNavigation() {
	c.navigation = navigation.NewBuilder(c.store,
		navigation.WithConfig(c.Config.NavigationSettings()),
		navigation.WithCache(c.navCache),
		navigation.WithLogger(logging.NavigationLogger(c.loggerProvider)),
		navigation.WithCacheObserver(c.metrics.ObserveNavigationCache),
	)
}

func (c *Container) configureDocs() error {
	syncer, err := docs.NewSyncer(docs.SyncerConfig{
		Store:       c.store,
		Source:      c.source,
		Pipeline:    c.pipeline,
		Navigation:  c.navigation,
		Metrics:     c.metrics,
		Logger:      logging.SyncLogger(c.loggerProvider),
		Concurrency: c.Config.Source.Concurrency,
		Shallow:     c.Config.Source.Shallow,
		Clock:       c.clock,
	})
	if err != nil {
		return err
	}
	c.syncer = syncer

	svcOpts := []docs.ServiceOption{
		docs.WithServiceLogger(logging.ModuleLogger(c.loggerProvider, "docs.service")),
	}
	if github, ok := c.source.(*fetcher.GitHubSource); ok {
		svcOpts = append(svcOpts, docs.WithEditURL(github.EditURL))
	}
	c.docsSvc = docs.NewService(c.store, c.syncer, c.navigation, svcOpts...)
	return nil
}

// SyncSourceResolver maps a sync command to its tree source. Commands that
// ask for a local tree read Path, falling back to the configured local
// directory; every other command uses the default source.
func (c *Container) SyncSourceResolver() docscmd.SourceResolver {
	return func(msg docscmd.SyncDocumentationCommand) (interfaces.TreeSource, error) {
		if !msg.Local {
			return nil, nil
		}
		dir := strings.TrimSpace(msg.Path)
		if dir == "" {
			dir = c.Config.Source.LocalPath
		}
		return fetcher.NewLocalSource(dir)
	}
}

// Close releases the database opened by the container.
func (c *Container) Close() error {
	if c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	return err
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Store exposes the configured document store.
func (c *Container) Store() interfaces.DocumentStore {
	return c.store
}

// Source exposes the default tree source.
func (c *Container) Source() interfaces.TreeSource {
	return c.source
}

// Metrics returns the collectors, or nil when metrics are disabled.
func (c *Container) Metrics() *metrics.Metrics {
	return c.metrics
}

// Navigation exposes the cached navigation builder.
func (c *Container) Navigation() navigation.Builder {
	return c.navigation
}

// Pipeline exposes the Markdown transformation pipeline.
func (c *Container) Pipeline() *markdown.Pipeline {
	return c.pipeline
}

// Syncer exposes the sync orchestrator.
func (c *Container) Syncer() *docs.Syncer {
	return c.syncer
}

// DocsService returns the configured docs service.
func (c *Container) DocsService() docs.Service {
	return c.docsSvc
}

// BunDB exposes the SQL database, nil for the memory store.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}
