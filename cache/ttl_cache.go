// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cache provides a small TTL cache used to debounce liveness
// probes against remote canisters.
package cache

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	value   V
	fetched time.Time
}

// TTLCache caches fetched values for a fixed duration. Concurrent fetches
// of the same key are collapsed into one remote call, so a burst of
// operations probing the same canister costs a single round trip.
type TTLCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration
	group   singleflight.Group
	now     func() time.Time
}

// NewTTLCache builds a cache whose values stay fresh for ttl.
func NewTTLCache[K comparable, V any](ttl time.Duration) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		entries: make(map[K]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for key, calling fetch when the entry is
// missing or stale. Fetch errors are not cached; the next Get retries.
func (c *TTLCache[K, V]) Get(key K, fetch func(K) (V, error)) (V, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().Sub(e.fetched) < c.ttl {
		return e.value, nil
	}

	v, err, _ := c.group.Do(keyString(key), func() (interface{}, error) {
		value, err := fetch(key)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = entry[V]{value: value, fetched: c.now()}
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Evict drops the entry for key so the next Get refetches.
func (c *TTLCache[K, V]) Evict(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func keyString[K comparable](key K) string {
	if s, ok := any(key).(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", key)
}
