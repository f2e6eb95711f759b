package noop

import (
	"context"
	"time"

	"github.com/goliatone/go-docsync/internal/cache"
	"github.com/goliatone/go-docsync/internal/logging"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

// Cache returns an interfaces.CacheProvider that stores nothing and always
// misses.
func Cache() interfaces.CacheProvider {
	return cacheAdapter{}
}

type cacheAdapter struct{}

func (cacheAdapter) Get(context.Context, string) (any, error) {
	return nil, cache.ErrCacheMiss
}

func (cacheAdapter) Set(context.Context, string, any, time.Duration) error {
	return nil
}

func (cacheAdapter) Delete(context.Context, string) error {
	return nil
}

func (cacheAdapter) Clear(context.Context) error {
	return nil
}

// LoggerProvider returns a provider whose loggers discard every entry.
func LoggerProvider() interfaces.LoggerProvider {
	return loggerProvider{}
}

type loggerProvider struct{}

func (loggerProvider) GetLogger(string) interfaces.Logger {
	return logging.NoOp()
}
