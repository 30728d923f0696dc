// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/storefront-recommender/internal/cache"
)

// CacheJanitorService runs periodic housekeeping on cache backends that
// need it: expired entry removal for the memory backend and value log
// garbage collection for badger. Redis expires keys itself and does not
// get a janitor.
//
// Example usage:
//
//	if sweeper, ok := store.(cache.Sweeper); ok {
//	    tree.AddCacheService(services.NewCacheJanitorService(sweeper, 5*time.Minute, logger))
//	}
type CacheJanitorService struct {
	sweeper  cache.Sweeper
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCacheJanitorService creates a janitor sweeping every interval
// (default 5m).
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheJanitorService(sweeper cache.Sweeper, interval time.Duration, logger zerolog.Logger) *CacheJanitorService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CacheJanitorService{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger.With().Str("service", "cache-janitor").Logger(),
		name:     "cache-janitor",
	}
}

// Serve implements suture.Service. Sweep failures are logged and retried on
// the next tick; they never restart the service.
func (s *CacheJanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *CacheJanitorService) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	start := time.Now()
	if err := s.sweeper.Sweep(sweepCtx); err != nil {
		s.logger.Warn().Err(err).Msg("cache sweep failed")
		return
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("cache sweep complete")
}

// String implements fmt.Stringer for logging.
func (s *CacheJanitorService) String() string {
	return s.name
}
