package cache

import (
	"context"
	"errors"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/goliatone/go-docsync/pkg/interfaces"
)

// ErrCacheMiss is returned by Get for missing or expired keys.
var ErrCacheMiss = errors.New("cache: miss")

// DefaultTTL applies when Set is called with a zero ttl.
const DefaultTTL = time.Hour

// TTLCache is an in-process interfaces.CacheProvider backed by ttlcache.
// Expiry is absolute: reads do not extend an entry's lifetime.
type TTLCache struct {
	store *ttlcache.Cache[string, any]
}

var _ interfaces.CacheProvider = (*TTLCache)(nil)

// NewTTL returns a cache whose entries default to ttl; non-positive values
// use DefaultTTL.
func NewTTL(ttl time.Duration) *TTLCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TTLCache{
		store: ttlcache.New[string, any](
			ttlcache.WithTTL[string, any](ttl),
			ttlcache.WithDisableTouchOnHit[string, any](),
		),
	}
}

// Get implements interfaces.CacheProvider.
func (c *TTLCache) Get(ctx context.Context, key string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	item := c.store.Get(key)
	if item == nil {
		return nil, ErrCacheMiss
	}
	return item.Value(), nil
}

// Set implements interfaces.CacheProvider. A zero ttl uses the cache default.
func (c *TTLCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = ttlcache.DefaultTTL
	}
	c.store.Set(key, value, ttl)
	return nil
}

// Delete implements interfaces.CacheProvider.
func (c *TTLCache) Delete(_ context.Context, key string) error {
	c.store.Delete(key)
	return nil
}

// Clear implements interfaces.CacheProvider.
func (c *TTLCache) Clear(context.Context) error {
	c.store.DeleteAll()
	return nil
}

// IsMiss reports whether err signals an absent cache entry.
func IsMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}
