package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	docsync "github.com/goliatone/go-docsync"
	"github.com/goliatone/go-docsync/internal/navigation"
)

const (
	envPrefix         = "DOCSYNC"
	defaultConfigName = "docsync"
)

// loadConfig resolves the runtime config from defaults, the config file,
// DOCSYNC_* environment variables and bound flags, in increasing priority.
// An explicit file must exist; the default docsync.yaml is optional.
func loadConfig(v *viper.Viper, file string) (docsync.Config, error) {
	cfg := docsync.DefaultConfig()
	setDefaults(v, cfg)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.docsync")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	// Lists from the file replace the defaults instead of merging by index.
	if v.IsSet("navigation.sections") {
		var sections []navigation.Section
		if err := v.UnmarshalKey("navigation.sections", &sections); err != nil {
			return cfg, fmt.Errorf("decode navigation sections: %w", err)
		}
		cfg.Navigation.Sections = sections
	}
	return cfg, nil
}

// setDefaults registers every scalar key so AutomaticEnv can resolve it.
func setDefaults(v *viper.Viper, cfg docsync.Config) {
	v.SetDefault("source.provider", cfg.Source.Provider)
	v.SetDefault("source.repo", cfg.Source.Repo)
	v.SetDefault("source.branch", cfg.Source.Branch)
	v.SetDefault("source.docs_path", cfg.Source.DocsPath)
	v.SetDefault("source.local_path", cfg.Source.LocalPath)
	v.SetDefault("source.token", cfg.Source.Token)
	v.SetDefault("source.api_base_url", cfg.Source.APIBaseURL)
	v.SetDefault("source.raw_base_url", cfg.Source.RawBaseURL)
	v.SetDefault("source.user_agent", cfg.Source.UserAgent)
	v.SetDefault("source.timeout", cfg.Source.Timeout)
	v.SetDefault("source.concurrency", cfg.Source.Concurrency)
	v.SetDefault("source.requests_per_second", cfg.Source.RequestsPerSecond)
	v.SetDefault("source.max_retries", cfg.Source.MaxRetries)
	v.SetDefault("source.shallow", cfg.Source.Shallow)

	v.SetDefault("store.driver", cfg.Store.Driver)
	v.SetDefault("store.dsn", cfg.Store.DSN)
	v.SetDefault("store.cache_records", cfg.Store.CacheRecords)
	v.SetDefault("store.auto_migrate", cfg.Store.AutoMigrate)
	v.SetDefault("store.debug", cfg.Store.Debug)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.navigation_ttl", cfg.Cache.NavigationTTL)
	v.SetDefault("cache.record_ttl", cfg.Cache.RecordTTL)

	v.SetDefault("rendering.base_path", cfg.Rendering.BasePath)
	v.SetDefault("rendering.id_prefix", cfg.Rendering.IDPrefix)

	v.SetDefault("commands.cron_enabled", cfg.Commands.CronEnabled)
	v.SetDefault("commands.cron_expression", cfg.Commands.CronExpression)
	v.SetDefault("commands.timeout", cfg.Commands.Timeout)

	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.namespace", cfg.Metrics.Namespace)
}
