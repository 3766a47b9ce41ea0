package cache

import (
	"context"
	"time"
)

// LayeredCache puts a small in-process layer in front of redis. Writes go
// through to redis first so the durable layer is never behind the local one;
// reads that miss locally are refilled from redis.
type LayeredCache struct {
	local  *MemoryCache
	remote *RedisCache
	// local entries expire well before the remote TTL so a restart of one
	// instance cannot serve stale reads for long
	localTTL time.Duration
}

// LayeredOption configures LayeredCache.
type LayeredOption func(*LayeredCache)

// WithLocalTTL bounds how long the in-process layer keeps an entry.
func WithLocalTTL(ttl time.Duration) LayeredOption {
	return func(c *LayeredCache) {
		if ttl > 0 {
			c.localTTL = ttl
		}
	}
}

// NewLayeredCache creates the two-layer cache over an existing redis cache.
func NewLayeredCache(remote *RedisCache, opts ...LayeredOption) *LayeredCache {
	c := &LayeredCache{
		local:    NewMemoryCache(),
		remote:   remote,
		localTTL: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *LayeredCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if err := c.remote.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	_ = c.local.Set(ctx, key, value, c.localTTL)
	return nil
}

func (c *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := c.local.Get(ctx, key, dest); err == nil {
		return nil
	}
	if err := c.remote.Get(ctx, key, dest); err != nil {
		return err
	}
	_ = c.local.Set(ctx, key, dest, c.localTTL)
	return nil
}

func (c *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = c.local.Delete(ctx, keys...)
	return c.remote.Delete(ctx, keys...)
}

// Close closes both layers.
func (c *LayeredCache) Close() error {
	_ = c.local.Close()
	return c.remote.Close()
}
