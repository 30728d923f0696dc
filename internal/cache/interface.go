// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package cache

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

var (
	// ErrMiss is returned by Get when the key is absent or expired.
	ErrMiss = errors.New("cache: miss")

	// ErrUnavailable wraps every backend failure. Callers treat it as a miss.
	ErrUnavailable = errors.New("cache: backend unavailable")
)

// Store is a best-effort byte cache with per-entry TTL. Every backend
// (memory, redis, badger) implements it.
//
//	var c cache.Store = cache.NewMemory(5 * time.Minute)
//	if err := c.Set(ctx, "recommend:popular:n=5", payload, 30*time.Minute); err != nil {
//	    // log and continue
//	}
type Store interface {
	// Get returns the value for key, ErrMiss, or an error wrapping ErrUnavailable.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// DeletePrefix removes every key starting with prefix and returns how
	// many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	// Stats reports size and efficiency counters.
	Stats(ctx context.Context) (Stats, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Backend returns the backend name: memory, redis or badger.
	Backend() string

	// Close releases backend resources.
	Close() error
}

// Sweeper is implemented by backends that need periodic housekeeping, such
// as dropping expired entries or collecting the value log.
type Sweeper interface {
	Sweep(ctx context.Context) error
}

// Stats describes cache size and efficiency.
type Stats struct {
	Backend     string `json:"backend"`
	Keys        int64  `json:"keys"`
	MemoryBytes int64  `json:"memory_bytes"`
	MemoryHuman string `json:"memory_usage"`
	Hits        int64  `json:"hits"`
	Misses      int64  `json:"misses"`
	Evictions   int64  `json:"evictions"`
}

// HitRate returns the hit rate as a percentage.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}
	return float64(s.Hits) / float64(total) * 100.0
}

// Key joins a namespace, a kind and its parameters into a deterministic key.
// Params are appended in the order given and must not contain ':'. Tags are
// sorted by name; names and values are query-escaped so caller input cannot
// forge a separator and collide with a different tag set.
//
//	cache.Key("recommend:", "product", []string{"42", "n=5"}, map[string]string{"size": "M"})
//	// recommend:product:42:n=5:size=M
func Key(namespace, kind string, params []string, tags map[string]string) string {
	var b strings.Builder
	b.WriteString(namespace)
	b.WriteString(kind)
	for _, p := range params {
		b.WriteByte(':')
		b.WriteString(p)
	}

	names := make([]string, 0, len(tags))
	for name, v := range tags {
		if v != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, ":%s=%s", url.QueryEscape(name), url.QueryEscape(tags[name]))
	}
	return b.String()
}

// HumanBytes formats a byte count the way redis INFO does (e.g. 1.50K).
func HumanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 4; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f%c", float64(n)/float64(div), "KMGTP"[exp])
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}
