package runtimeconfig_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-docsync/internal/navigation"
	"github.com/goliatone/go-docsync/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.Source.DocsPath != "docs" || cfg.Source.Branch == "" {
		t.Fatalf("unexpected source defaults %+v", cfg.Source)
	}
	if len(cfg.Navigation.Sections) == 0 {
		t.Fatalf("expected default navigation sections")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{
			name:   "unknown source provider",
			mutate: func(c *runtimeconfig.Config) { c.Source.Provider = "gitlab" },
			want:   runtimeconfig.ErrSourceProviderUnknown,
		},
		{
			name:   "github requires repo",
			mutate: func(c *runtimeconfig.Config) { c.Source.Repo = " " },
			want:   runtimeconfig.ErrSourceRepoRequired,
		},
		{
			name: "local requires path",
			mutate: func(c *runtimeconfig.Config) {
				c.Source.Provider = runtimeconfig.SourceLocal
				c.Source.LocalPath = ""
			},
			want: runtimeconfig.ErrSourceLocalPathRequired,
		},
		{
			name:   "negative concurrency",
			mutate: func(c *runtimeconfig.Config) { c.Source.Concurrency = -1 },
			want:   runtimeconfig.ErrSourceConcurrencyInvalid,
		},
		{
			name:   "negative rate",
			mutate: func(c *runtimeconfig.Config) { c.Source.RequestsPerSecond = -2 },
			want:   runtimeconfig.ErrSourceRateInvalid,
		},
		{
			name:   "unknown store driver",
			mutate: func(c *runtimeconfig.Config) { c.Store.Driver = "mongo" },
			want:   runtimeconfig.ErrStoreDriverUnknown,
		},
		{
			name:   "postgres requires dsn",
			mutate: func(c *runtimeconfig.Config) { c.Store.Driver = runtimeconfig.StorePostgres },
			want:   runtimeconfig.ErrStoreDSNRequired,
		},
		{
			name: "record cache requires cache",
			mutate: func(c *runtimeconfig.Config) {
				c.Cache.Enabled = false
				c.Store.CacheRecords = true
			},
			want: runtimeconfig.ErrStoreCacheRequiresCache,
		},
		{
			name: "empty section key",
			mutate: func(c *runtimeconfig.Config) {
				c.Navigation.Sections = []navigation.Section{{Key: "", Title: "Nameless"}}
			},
			want: runtimeconfig.ErrNavigationSectionKeyRequired,
		},
		{
			name: "duplicate section key",
			mutate: func(c *runtimeconfig.Config) {
				c.Navigation.Sections = []navigation.Section{{Key: "forms"}, {Key: "forms"}}
			},
			want: runtimeconfig.ErrNavigationSectionDuplicate,
		},
		{
			name:   "relative base path",
			mutate: func(c *runtimeconfig.Config) { c.Rendering.BasePath = "docs" },
			want:   runtimeconfig.ErrRenderingBasePathInvalid,
		},
		{
			name: "cron without expression",
			mutate: func(c *runtimeconfig.Config) {
				c.Commands.CronEnabled = true
				c.Commands.CronExpression = ""
			},
			want: runtimeconfig.ErrCommandsCronExpressionRequired,
		},
		{
			name:   "unknown logging provider",
			mutate: func(c *runtimeconfig.Config) { c.Logging.Provider = "syslog" },
			want:   runtimeconfig.ErrLoggingProviderUnknown,
		},
		{
			name:   "invalid logging level",
			mutate: func(c *runtimeconfig.Config) { c.Logging.Level = "loud" },
			want:   runtimeconfig.ErrLoggingLevelInvalid,
		},
		{
			name: "invalid gologger format",
			mutate: func(c *runtimeconfig.Config) {
				c.Logging.Provider = runtimeconfig.LoggingGoLogger
				c.Logging.Format = "xml"
			},
			want: runtimeconfig.ErrLoggingFormatInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidate_AllowsSQLiteWithoutDSN(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Store.Driver = "SQLite"
	cfg.Store.CacheRecords = true

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestNavigationSettings(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Cache.NavigationTTL = 0
	cfg.Navigation.ItemOrder = map[string][]string{"forms": {"installation"}}

	settings := cfg.NavigationSettings()
	if settings.TTL != navigation.DefaultTTL {
		t.Fatalf("expected default ttl, got %s", settings.TTL)
	}
	if got := settings.ItemOrder["forms"]; len(got) != 1 || got[0] != "installation" {
		t.Fatalf("unexpected item order %v", settings.ItemOrder)
	}

	cfg.Cache.NavigationTTL = 10 * time.Minute
	if ttl := cfg.NavigationSettings().TTL; ttl != 10*time.Minute {
		t.Fatalf("expected configured ttl, got %s", ttl)
	}
}
