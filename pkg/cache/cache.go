// Copyright (C) 2025-2026 Inkwell Labs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

// Package cache provides a bounded TTL cache with an injected clock and
// explicit eviction. There are no ambient timers: the owner decides when
// stale entries are swept, which keeps expiry deterministic under test.
package cache

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// Clock supplies the current time. Production code uses SystemClock; tests
// inject a manual clock to step through expiry without sleeping.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type entry struct {
	value   any
	expires time.Time
}

// Cache is a size-bounded TTL cache. Capacity pressure is handled by LRU
// eviction; time-based expiry is checked on read and swept by Evict.
type Cache struct {
	mu    sync.Mutex
	lru   *lru.Cache
	ttl   time.Duration
	clock Clock
}

// New creates a cache holding at most size entries, each valid for ttl
// after insertion. A nil clock defaults to SystemClock.
func New(size int, ttl time.Duration, clock Clock) (*Cache, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("ttl must be positive, got %v", ttl)
	}
	if clock == nil {
		clock = SystemClock{}
	}
	l, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &Cache{lru: l, ttl: ttl, clock: clock}, nil
}

// Get returns the live value for key. An expired entry is removed and
// reported as a miss.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	e := v.(entry)
	if c.clock.Now().After(e.expires) {
		c.lru.Remove(key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with a fresh TTL.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, entry{value: value, expires: c.clock.Now().Add(c.ttl)})
}

// Delete removes key if present.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(key)
}

// Evict sweeps every expired entry and returns how many were removed.
// Callers own the sweep cadence.
func (c *Cache) Evict() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	removed := 0
	for _, key := range c.lru.Keys() {
		if v, ok := c.lru.Peek(key); ok {
			if now.After(v.(entry).expires) {
				c.lru.Remove(key)
				removed++
			}
		}
	}
	return removed
}

// Len reports the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
