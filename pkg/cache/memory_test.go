package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	type payload struct {
		Steps int64  `json:"steps"`
		Day   string `json:"day"`
	}
	in := payload{Steps: 4200, Day: "2024-10-10"}
	if err := c.Set(ctx, "steps:2024-10-10", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out payload
	if err := c.Get(ctx, "steps:2024-10-10", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != in {
		t.Fatalf("got %+v want %+v", out, in)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()

	var out int
	if err := c.Get(context.Background(), "absent", &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", 1, 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	var out int
	if err := c.Get(ctx, "k", &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected expiry miss, got %v", err)
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", 1, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var out int
	if err := c.Get(ctx, "k", &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after delete, got %v", err)
	}
}

func TestMemoryCacheEvictsOldest(t *testing.T) {
	c := NewMemoryCache(WithMaxEntries(3))
	defer c.Close()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := c.Set(ctx, fmt.Sprintf("k%d", i), i, time.Minute); err != nil {
			t.Fatalf("set: %v", err)
		}
		time.Sleep(time.Millisecond)
	}

	// Touch k0 so k1 becomes the least recently used entry.
	var out int
	if err := c.Get(ctx, "k0", &out); err != nil {
		t.Fatalf("get k0: %v", err)
	}
	if err := c.Set(ctx, "k3", 3, time.Minute); err != nil {
		t.Fatalf("set k3: %v", err)
	}

	if err := c.Get(ctx, "k1", &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected k1 evicted, got %v", err)
	}
	if err := c.Get(ctx, "k0", &out); err != nil {
		t.Fatalf("k0 should survive eviction: %v", err)
	}
}

// Shutdown closes the cache through the Service interface; a second close
// must not panic.
func TestMemoryCacheCloseIdempotent(t *testing.T) {
	var svc Service = NewMemoryCache()
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
