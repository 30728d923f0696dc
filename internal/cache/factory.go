// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Options select and configure a backend for Open.
type Options struct {
	// Backend is memory, redis or badger.
	Backend string

	// DefaultTTL applies to Set calls without a TTL (memory backend).
	DefaultTTL time.Duration

	Redis  RedisConfig
	Badger BadgerConfig
}

// Open creates the configured backend.
//
//	store, err := cache.Open(ctx, cache.Options{Backend: "redis", Redis: cache.RedisConfig{Addr: "localhost:6379"}}, logger)
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(ctx context.Context, opts Options, logger zerolog.Logger) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemory(opts.DefaultTTL), nil
	case BackendRedis:
		return NewRedis(ctx, opts.Redis, logger), nil
	case BackendBadger:
		return NewBadger(opts.Badger, logger)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
