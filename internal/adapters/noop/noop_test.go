package noop_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-docsync/internal/adapters/noop"
	"github.com/goliatone/go-docsync/internal/cache"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

func TestCacheAlwaysMisses(t *testing.T) {
	var c interfaces.CacheProvider = noop.Cache()
	ctx := context.Background()

	if err := c.Set(ctx, "docs_navigation", "value", time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := c.Get(ctx, "docs_navigation"); !cache.IsMiss(err) {
		t.Fatalf("expected miss, got %v", err)
	}
	if err := c.Delete(ctx, "docs_navigation"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
}

func TestLoggerProviderDiscards(t *testing.T) {
	logger := noop.LoggerProvider().GetLogger("docs.sync")
	if logger == nil {
		t.Fatalf("expected logger")
	}
	logger.Info("docs.sync.completed", "changed", 1)
	if logger.WithContext(context.Background()) == nil {
		t.Fatalf("expected logger from WithContext")
	}
}
