package docsync

import (
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-docsync/commands"
	"github.com/goliatone/go-docsync/internal/di"
	"github.com/goliatone/go-docsync/internal/docs"
	"github.com/goliatone/go-docsync/internal/logging"
	"github.com/goliatone/go-docsync/internal/mcpserver"
	"github.com/goliatone/go-docsync/internal/metrics"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

// DocsService exports the sync and read path contract.
type DocsService = docs.Service

type (
	Document       = interfaces.Document
	Page           = interfaces.Page
	SearchResult   = interfaces.SearchResult
	NavigationTree = interfaces.NavigationTree
	SyncOptions    = interfaces.SyncOptions
	SyncResult     = interfaces.SyncResult
	TreeSource     = interfaces.TreeSource
	DocumentStore  = interfaces.DocumentStore
	Logger         = interfaces.Logger
	LoggerProvider = interfaces.LoggerProvider
)

// Option overrides a dependency built from the config.
type Option = di.Option

// ErrNotFound reports an absent document on the read path.
var ErrNotFound = docs.ErrNotFound

// IsNotFound reports whether err means the requested document is absent.
func IsNotFound(err error) bool {
	return docs.IsNotFound(err)
}

func WithLoggerProvider(provider LoggerProvider) Option { return di.WithLoggerProvider(provider) }
func WithStore(store DocumentStore) Option              { return di.WithStore(store) }
func WithSource(source TreeSource) Option               { return di.WithSource(source) }
func WithBunDB(db *bun.DB) Option                       { return di.WithBunDB(db) }
func WithHTTPClient(client *http.Client) Option         { return di.WithHTTPClient(client) }

// Module represents the top level documentation runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a docsync module using the provided configuration and optional overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Docs returns the configured docs service.
func (m *Module) Docs() DocsService {
	return m.container.DocsService()
}

// Store returns the document store.
func (m *Module) Store() DocumentStore {
	return m.container.Store()
}

// Metrics returns the Prometheus collectors, nil when disabled.
func (m *Module) Metrics() *metrics.Metrics {
	return m.container.Metrics()
}

// MetricsHandler serves the collectors in the Prometheus text format.
func (m *Module) MetricsHandler() http.Handler {
	return m.container.Metrics().Handler()
}

// MCPServer exposes the read path as MCP tools.
func (m *Module) MCPServer() *server.MCPServer {
	return mcpserver.NewServer(m.Docs(), logging.MCPLogger(m.container.LoggerProvider()))
}

// RegisterCommands builds the docs command handlers and hands them to the
// registrars in opts.
func (m *Module) RegisterCommands(opts commands.RegistrationOptions) (*commands.RegistrationResult, error) {
	return commands.RegisterContainerCommands(m.container, opts)
}

// Close releases resources opened from the config.
func (m *Module) Close() error {
	return m.container.Close()
}
