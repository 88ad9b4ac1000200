// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package cache

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeNow returns a controllable clock for c.
func fakeNow[V any](c *Cache[V], start time.Time) *time.Time {
	now := start
	c.now = func() time.Time { return now }
	return &now
}

func TestCacheBasicOperations(t *testing.T) {
	t.Parallel()

	c := New[[]byte](time.Minute, 0)
	c.Set("detection:1", []byte("png"))

	value, ok := c.Get("detection:1")
	if !ok {
		t.Fatal("Get() ok = false, want true")
	}
	if string(value) != "png" {
		t.Errorf("Get() = %q, want png", value)
	}
	if _, ok := c.Get("detection:2"); ok {
		t.Error("Get() of missing key returned ok")
	}

	stats := c.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit 1 miss", stats)
	}
	if got := c.HitRate(); got != 50 {
		t.Errorf("HitRate() = %v, want 50", got)
	}
}

func TestCacheExpiration(t *testing.T) {
	t.Parallel()

	c := New[string](time.Minute, 0)
	now := fakeNow(c, time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC))

	c.Set("k", "v")
	*now = now.Add(59 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Error("entry expired early")
	}
	*now = now.Add(2 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Error("entry still present after ttl")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after expired read", c.Len())
	}
}

func TestCacheCleanup(t *testing.T) {
	t.Parallel()

	c := New[int](time.Minute, 0)
	now := fakeNow(c, time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC))

	c.Set("short", 1)
	c.SetWithTTL("long", 2, time.Hour)
	*now = now.Add(2 * time.Minute)

	if removed := c.Cleanup(); removed != 1 {
		t.Errorf("Cleanup() = %d, want 1", removed)
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("long-lived entry removed")
	}
}

func TestCacheMaxEntries(t *testing.T) {
	t.Parallel()

	c := New[int](time.Minute, 2)
	now := fakeNow(c, time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC))

	c.Set("a", 1)
	*now = now.Add(time.Second)
	c.Set("b", 2)
	*now = now.Add(time.Second)
	c.Set("c", 3)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry a should have been evicted")
	}

	// Overwriting an existing key does not evict.
	c.Set("c", 4)
	if _, ok := c.Get("b"); !ok {
		t.Error("b evicted by overwrite of c")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	t.Parallel()

	c := New[string](time.Minute, 0)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("a present after Delete")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", c.Len())
	}
}

func TestCacheRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	c := New[string](time.Minute, 0)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		c.Run(ctx, 10*time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := New[int](time.Minute, 16)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := GenerateKey("g", []int{n, j % 20})
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 16 {
		t.Errorf("Len() = %d, exceeds bound 16", c.Len())
	}
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	a := GenerateKey("graphic", map[string]any{"id": 1, "thumb": true})
	b := GenerateKey("graphic", map[string]any{"id": 1, "thumb": true})
	c := GenerateKey("graphic", map[string]any{"id": 2, "thumb": true})

	if a != b {
		t.Errorf("GenerateKey not deterministic: %s vs %s", a, b)
	}
	if a == c {
		t.Error("different params produced the same key")
	}
	if !strings.HasPrefix(a, "graphic:") {
		t.Errorf("key %q missing prefix", a)
	}
}
