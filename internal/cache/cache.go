// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/storefront-recommender/internal/metrics"
)

// BackendMemory is the name of the in-process backend.
const BackendMemory = "memory"

// entry is a cached value with expiration
type entry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is a thread-safe in-process cache with TTL support.
//
// Expired entries are dropped lazily on Get and in bulk by Sweep, which the
// supervisor's cache janitor calls periodically.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration
	now        func() time.Time

	statsMu   sync.Mutex
	hits      int64
	misses    int64
	evictions int64
}

// NewMemory creates an in-process cache. defaultTTL applies to Set calls
// that pass a non-positive TTL.
func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get retrieves a value, treating expired entries as misses.
func (c *Memory) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.record(false, 0)
		return nil, ErrMiss
	}

	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		c.record(false, 1)
		return nil, ErrMiss
	}

	c.record(true, 0)
	return e.data, nil
}

// Set stores a copy of value for ttl.
func (c *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	data := append([]byte(nil), value...)

	c.mu.Lock()
	c.entries[key] = entry{data: data, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// DeletePrefix removes all keys starting with prefix.
func (c *Memory) DeletePrefix(_ context.Context, prefix string) (int, error) {
	c.mu.Lock()
	deleted := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			deleted++
		}
	}
	c.mu.Unlock()
	return deleted, nil
}

// Stats returns a snapshot of size and counters. Memory usage counts key
// and value bytes only.
func (c *Memory) Stats(_ context.Context) (Stats, error) {
	c.mu.RLock()
	var size int64
	for key, e := range c.entries {
		size += int64(len(key) + len(e.data))
	}
	keys := int64(len(c.entries))
	c.mu.RUnlock()

	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return Stats{
		Backend:     BackendMemory,
		Keys:        keys,
		MemoryBytes: size,
		MemoryHuman: HumanBytes(size),
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
	}, nil
}

// Sweep removes all expired entries.
func (c *Memory) Sweep(_ context.Context) error {
	now := c.now()
	c.mu.Lock()
	var evicted int64
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	c.mu.Unlock()

	if evicted > 0 {
		c.statsMu.Lock()
		c.evictions += evicted
		c.statsMu.Unlock()
		metrics.CacheEvictions.WithLabelValues(BackendMemory).Add(float64(evicted))
	}
	return nil
}

// Ping always succeeds.
func (c *Memory) Ping(context.Context) error { return nil }

// Backend returns "memory".
func (c *Memory) Backend() string { return BackendMemory }

// Close drops all entries.
func (c *Memory) Close() error {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
	return nil
}

func (c *Memory) record(hit bool, evicted int64) {
	c.statsMu.Lock()
	if hit {
		c.hits++
	} else {
		c.misses++
	}
	c.evictions += evicted
	c.statsMu.Unlock()
}
