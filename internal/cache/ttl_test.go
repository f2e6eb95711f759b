package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestTTLCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewTTL(time.Minute)

	if _, err := c.Get(ctx, "docs_navigation"); !IsMiss(err) {
		t.Fatalf("expected miss on empty cache, got %v", err)
	}

	if err := c.Set(ctx, "docs_navigation", []string{"a"}, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := c.Get(ctx, "docs_navigation")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v, ok := got.([]string); !ok || len(v) != 1 || v[0] != "a" {
		t.Fatalf("unexpected value %#v", got)
	}

	if err := c.Delete(ctx, "docs_navigation"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.Get(ctx, "docs_navigation"); !IsMiss(err) {
		t.Fatalf("expected miss after delete, got %v", err)
	}
}

func TestTTLCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewTTL(time.Minute)

	if err := c.Set(ctx, "short", 1, 20*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(40 * time.Millisecond)
	if _, err := c.Get(ctx, "short"); !IsMiss(err) {
		t.Fatalf("expected expired entry to miss, got %v", err)
	}
}

func TestTTLCache_Clear(t *testing.T) {
	ctx := context.Background()
	c := NewTTL(0)
	for _, key := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, key, key, 0)
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	for _, key := range []string{"a", "b", "c"} {
		if _, err := c.Get(ctx, key); !IsMiss(err) {
			t.Fatalf("expected %s to be cleared, got %v", key, err)
		}
	}
}

func TestTTLCache_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := NewTTL(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = c.Set(ctx, "key", i, 0)
			_, _ = c.Get(ctx, "key")
			_ = c.Delete(ctx, "key")
		}(i)
	}
	wg.Wait()
}

func TestTTLCache_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewTTL(time.Minute)
	if err := c.Set(ctx, "k", 1, 0); err == nil {
		t.Fatalf("expected cancelled context to fail set")
	}
}
