package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-docsync/internal/navigation"
)

var ErrSourceProviderUnknown = errors.New("docsync config: source provider is invalid")
var ErrSourceRepoRequired = errors.New("docsync config: source repo is required for the github provider")
var ErrSourceLocalPathRequired = errors.New("docsync config: source local path is required for the local provider")
var ErrSourceConcurrencyInvalid = errors.New("docsync config: source concurrency must be zero or positive")
var ErrSourceRateInvalid = errors.New("docsync config: source requests per second must be zero or positive")

// ErrStoreDriverUnknown is returned for drivers other than memory, sqlite and postgres.
var ErrStoreDriverUnknown = errors.New("docsync config: store driver is invalid")

// ErrStoreDSNRequired ensures a postgres store is always given a connection string.
var ErrStoreDSNRequired = errors.New("docsync config: store dsn is required for the postgres driver")

// ErrStoreCacheRequiresCache keeps record caching behind the cache switch.
var ErrStoreCacheRequiresCache = errors.New("docsync config: store record cache requires cache to be enabled")

var ErrNavigationSectionKeyRequired = errors.New("docsync config: navigation section key is required")
var ErrNavigationSectionDuplicate = errors.New("docsync config: navigation section key is duplicated")

// ErrCommandsCronExpressionRequired ensures cron registration has a schedule.
var ErrCommandsCronExpressionRequired = errors.New("docsync config: cron expression is required when cron is enabled")

// ErrRenderingBasePathInvalid ensures rewritten links stay absolute.
var ErrRenderingBasePathInvalid = errors.New("docsync config: rendering base path must start with '/'")

var ErrLoggingProviderUnknown = errors.New("docsync config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("docsync config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("docsync config: logging format is invalid")

const (
	SourceGitHub = "github"
	SourceLocal  = "local"

	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"

	LoggingNoop     = "noop"
	LoggingGoLogger = "gologger"
)

// Config aggregates the settings of the documentation pipeline. Every field
// carries a mapstructure tag so the CLI can decode files and environment
// variables straight into it.
type Config struct {
	Source     SourceConfig     `mapstructure:"source"`
	Store      StoreConfig      `mapstructure:"store"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Navigation NavigationConfig `mapstructure:"navigation"`
	Rendering  RenderingConfig  `mapstructure:"rendering"`
	Commands   CommandsConfig   `mapstructure:"commands"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// SourceConfig selects the documentation tree and how it is fetched.
type SourceConfig struct {
	Provider string `mapstructure:"provider"`
	Repo     string `mapstructure:"repo"`
	Branch   string `mapstructure:"branch"`
	DocsPath string `mapstructure:"docs_path"`
	// LocalPath is the directory used by the local provider and by
	// sync requests that ask for a local source without a path.
	LocalPath string `mapstructure:"local_path"`
	Token     string `mapstructure:"token"`

	APIBaseURL string `mapstructure:"api_base_url"`
	RawBaseURL string `mapstructure:"raw_base_url"`
	UserAgent  string `mapstructure:"user_agent"`

	Timeout           time.Duration `mapstructure:"timeout"`
	Concurrency       int           `mapstructure:"concurrency"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	MaxRetries        uint          `mapstructure:"max_retries"`
	// Shallow lists only the docs root on every pass.
	Shallow bool `mapstructure:"shallow"`
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	// CacheRecords wraps the SQL repository in go-repository-cache.
	CacheRecords bool `mapstructure:"cache_records"`
	AutoMigrate  bool `mapstructure:"auto_migrate"`
	Debug        bool `mapstructure:"debug"`
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	NavigationTTL time.Duration `mapstructure:"navigation_ttl"`
	RecordTTL     time.Duration `mapstructure:"record_ttl"`
}

// NavigationConfig captures sidebar sections and per-section item order.
type NavigationConfig struct {
	Sections  []navigation.Section `mapstructure:"sections"`
	ItemOrder map[string][]string  `mapstructure:"item_order"`
}

// RenderingConfig captures link rewriting and heading anchor settings.
type RenderingConfig struct {
	BasePath string `mapstructure:"base_path"`
	IDPrefix string `mapstructure:"id_prefix"`
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	CronEnabled    bool          `mapstructure:"cron_enabled"`
	CronExpression string        `mapstructure:"cron_expression"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// MetricsConfig toggles the Prometheus collectors.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// DefaultConfig returns defaults that sync the public documentation
// repository into memory.
func DefaultConfig() Config {
	nav := navigation.DefaultConfig()
	return Config{
		Source: SourceConfig{
			Provider:    SourceGitHub,
			Repo:        "laravilt/laravilt",
			Branch:      "master",
			DocsPath:    "docs",
			LocalPath:   "docs",
			Timeout:     15 * time.Second,
			Concurrency: 4,
			MaxRetries:  3,
		},
		Store: StoreConfig{
			Driver:      StoreMemory,
			AutoMigrate: true,
		},
		Cache: CacheConfig{
			Enabled:       true,
			NavigationTTL: navigation.DefaultTTL,
			RecordTTL:     time.Minute,
		},
		Navigation: NavigationConfig{
			Sections:  nav.Sections,
			ItemOrder: nav.ItemOrder,
		},
		Rendering: RenderingConfig{
			BasePath: "/docs",
			IDPrefix: "content",
		},
		Commands: CommandsConfig{
			CronExpression: "@every 1h",
			Timeout:        5 * time.Minute,
		},
		Logging: LoggingConfig{
			Provider: LoggingNoop,
			Level:    "info",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "docsync",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	switch normalize(cfg.Source.Provider) {
	case SourceGitHub:
		if strings.TrimSpace(cfg.Source.Repo) == "" {
			return ErrSourceRepoRequired
		}
	case SourceLocal:
		if strings.TrimSpace(cfg.Source.LocalPath) == "" {
			return ErrSourceLocalPathRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrSourceProviderUnknown, cfg.Source.Provider)
	}
	if cfg.Source.Concurrency < 0 {
		return ErrSourceConcurrencyInvalid
	}
	if cfg.Source.RequestsPerSecond < 0 {
		return ErrSourceRateInvalid
	}

	switch normalize(cfg.Store.Driver) {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if strings.TrimSpace(cfg.Store.DSN) == "" {
			return ErrStoreDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStoreDriverUnknown, cfg.Store.Driver)
	}
	if cfg.Store.CacheRecords && !cfg.Cache.Enabled {
		return ErrStoreCacheRequiresCache
	}

	seen := map[string]struct{}{}
	for _, section := range cfg.Navigation.Sections {
		key := strings.TrimSpace(section.Key)
		if key == "" {
			return ErrNavigationSectionKeyRequired
		}
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s", ErrNavigationSectionDuplicate, key)
		}
		seen[key] = struct{}{}
	}

	if base := strings.TrimSpace(cfg.Rendering.BasePath); base != "" && !strings.HasPrefix(base, "/") {
		return fmt.Errorf("%w: %s", ErrRenderingBasePathInvalid, base)
	}

	if cfg.Commands.CronEnabled && strings.TrimSpace(cfg.Commands.CronExpression) == "" {
		return ErrCommandsCronExpressionRequired
	}

	provider := normalize(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == LoggingGoLogger {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// NavigationSettings converts the navigation block into builder settings.
func (cfg Config) NavigationSettings() navigation.Config {
	ttl := cfg.Cache.NavigationTTL
	if ttl <= 0 {
		ttl = navigation.DefaultTTL
	}
	return navigation.Config{
		Sections:  cfg.Navigation.Sections,
		ItemOrder: cfg.Navigation.ItemOrder,
		TTL:       ttl,
	}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case LoggingNoop, LoggingGoLogger:
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
