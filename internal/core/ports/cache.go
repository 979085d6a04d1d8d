// internal/core/ports/cache.go
package ports

import (
	"context"
	"time"
)

// CacheRepository is the interface for the boundary-level cache. Only the
// query results that are expensive relative to their churn go through it
// (category summaries, the table-wide count); record reads always hit the
// store.
type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}) error
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)

	// GetOrSet returns the cached value when present, otherwise runs fetch,
	// caches its result and copies it into dest.
	GetOrSet(ctx context.Context, key string, dest interface{},
		fetch func() (interface{}, error), ttl time.Duration) error

	Ping(ctx context.Context) error
}
