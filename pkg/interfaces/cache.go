package interfaces

import (
	"context"
	"time"
)

// CacheProvider is the minimal cache contract shared by the navigation builder
// and the sync orchestrator. Implementations must make Get, Set and Delete
// individually atomic; a missing or expired key is reported as an error.
type CacheProvider interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
