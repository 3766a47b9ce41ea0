package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

const defaultRetention = 7 * 24 * time.Hour

type memoryEntry struct {
	data     []byte
	expireAt time.Time
	lastUsed time.Time
}

// MemoryCache is an in-process Service used when redis is disabled and as the
// L1 layer of LayeredCache. Entries are JSON bytes; the oldest-used entry is
// evicted when the cache is full, and a janitor drops expired entries in the
// background.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*memoryEntry
	maxEntries int
	stopCh     chan struct{}
	closeOnce  sync.Once
}

// MemoryOption configures MemoryCache.
type MemoryOption func(*MemoryCache)

// WithMaxEntries caps how many entries the cache holds before evicting.
func WithMaxEntries(n int) MemoryOption {
	return func(c *MemoryCache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// NewMemoryCache creates an in-process cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		entries:    make(map[string]*memoryEntry),
		maxEntries: 1000,
		stopCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.janitor(5 * time.Minute)
	return c
}

func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = defaultRetention
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}
	now := time.Now()
	c.entries[key] = &memoryEntry{data: data, expireAt: now.Add(ttl), lastUsed: now}
	return nil
}

func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expireAt) {
		if ok {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return ErrCacheMiss
	}
	e.lastUsed = time.Now()
	data := e.data
	c.mu.Unlock()

	return json.Unmarshal(data, dest)
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

// Close stops the janitor. Safe to call more than once.
func (c *MemoryCache) Close() error {
	c.closeOnce.Do(func() { close(c.stopCh) })
	return nil
}

// evictOldest removes the least recently used entry. Caller holds the lock.
func (c *MemoryCache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, e := range c.entries {
		if oldestKey == "" || e.lastUsed.Before(oldest) {
			oldestKey = key
			oldest = e.lastUsed
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

func (c *MemoryCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, e := range c.entries {
				if now.After(e.expireAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
