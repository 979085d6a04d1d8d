// internal/adapters/redis_adapter/cache.go
package redis_a

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pvasilev/stockroom-be/internal/core/ports"
)

// CacheKeyPrefix defines prefixes for different cache types
type CacheKeyPrefix string

const (
	PrefixCategories CacheKeyPrefix = "cat"
	PrefixCounts     CacheKeyPrefix = "cnt"
)

// ErrCacheMiss is returned when a key is not found in cache
var ErrCacheMiss = errors.New("cache miss")

// Cache implements ports.CacheRepository on Redis with JSON values.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.CacheRepository = (*Cache)(nil)

// NewCache creates a new cache instance
func NewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) ports.CacheRepository {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "cache")),
	}
}

// Set stores a value under the default TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	return c.SetWithTTL(ctx, key, value, c.ttl)
}

// SetWithTTL stores a value under an explicit TTL.
func (c *Cache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return c.fail(ctx, key, "marshal error", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return c.fail(ctx, key, "redis set error", err)
	}

	c.logger.DebugContext(ctx, "cache set",
		slog.String("key", key),
		slog.Duration("ttl", ttl))
	return nil
}

// Get reads a key into dest. A missing key comes back as ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.logger.DebugContext(ctx, "cache miss", slog.String("key", key))
		return ErrCacheMiss
	case err != nil:
		return c.fail(ctx, key, "redis get error", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return c.fail(ctx, key, "unmarshal error", err)
	}

	c.logger.DebugContext(ctx, "cache hit", slog.String("key", key))
	return nil
}

// Delete removes keys from cache
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return c.fail(ctx, strings.Join(keys, ","), "redis del error", err)
	}

	c.logger.DebugContext(ctx, "cache deleted", slog.Any("keys", keys))
	return nil
}

// Exists reports whether every given key is present.
func (c *Cache) Exists(ctx context.Context, keys ...string) (bool, error) {
	n, err := c.client.Exists(ctx, keys...).Result()
	if err != nil {
		return false, c.fail(ctx, strings.Join(keys, ","), "redis exists error", err)
	}

	return n == int64(len(keys)), nil
}

// GetOrSet reads a key, and on a miss fetches the value, stores it and
// fills dest with it. A failed cache write after a successful fetch is
// logged but not surfaced.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{},
	fetch func() (interface{}, error), ttl time.Duration) error {

	switch err := c.Get(ctx, key, dest); {
	case err == nil:
		return nil
	case !errors.Is(err, ErrCacheMiss):
		return err
	}

	value, err := fetch()
	if err != nil {
		return fmt.Errorf("fetch error: %w", err)
	}

	if err := c.SetWithTTL(ctx, key, value, ttl); err != nil {
		c.logger.WarnContext(ctx, "failed to cache value after fetch",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	return json.Unmarshal(data, dest)
}

// Ping checks if Redis is accessible
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		c.logger.ErrorContext(ctx, "redis ping failed",
			slog.String("error", err.Error()))
		return fmt.Errorf("redis ping error: %w", err)
	}

	return nil
}

func (c *Cache) fail(ctx context.Context, key, msg string, err error) error {
	c.logger.ErrorContext(ctx, msg,
		slog.String("key", key),
		slog.String("error", err.Error()))
	return fmt.Errorf("%s: %w", msg, err)
}

// BuildKey creates a cache key with prefix
func BuildKey(prefix CacheKeyPrefix, parts ...string) string {
	if len(parts) == 0 {
		return string(prefix)
	}
	return string(prefix) + ":" + strings.Join(parts, ":")
}
