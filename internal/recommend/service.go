// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package recommend

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/storefront-recommender/internal/cache"
	"github.com/tomtom215/storefront-recommender/internal/metrics"
)

// Query modes used for cache keys and metrics.
const (
	ModeProduct = "product"
	ModeUser    = "user"
	ModePopular = "popular"
)

// ServiceConfig controls response caching.
type ServiceConfig struct {
	Enabled         bool
	Namespace       string
	ProductTTL      time.Duration
	PopularTTL      time.Duration
	PersonalizedTTL time.Duration
}

// DefaultServiceConfig returns the default TTL classes.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Enabled:         true,
		Namespace:       "recommend:",
		ProductTTL:      time.Hour,
		PopularTTL:      30 * time.Minute,
		PersonalizedTTL: 10 * time.Minute,
	}
}

// CacheStatus summarizes the response cache for health checks.
type CacheStatus struct {
	Enabled   bool   `json:"enabled"`
	Backend   string `json:"backend,omitempty"`
	Available bool   `json:"available"`
}

// Service answers queries through a cache-aside layer in front of the
// engine. Cache failures degrade to recomputation and are never returned.
type Service struct {
	engine *Engine
	cache  cache.Store
	config ServiceConfig
	logger zerolog.Logger
}

// NewService wraps engine with the response cache. A nil store or a
// disabled config serves every query from the engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(engine *Engine, store cache.Store, cfg ServiceConfig, logger zerolog.Logger) *Service {
	if store == nil {
		cfg.Enabled = false
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultServiceConfig().Namespace
	}
	return &Service{
		engine: engine,
		cache:  store,
		config: cfg,
		logger: logger.With().Str("component", "recommend-service").Logger(),
	}
}

// ByProduct returns products similar to productID.
func (s *Service) ByProduct(ctx context.Context, productID int64, filters Filters, n int) ([]Recommendation, error) {
	params := []string{strconv.FormatInt(productID, 10), "n=" + strconv.Itoa(n)}
	return cached(ctx, s, ModeProduct, s.config.ProductTTL,
		func(m *Model) string { return s.key(m, ModeProduct, params, filters) },
		func(m *Model) ([]Recommendation, error) { return s.engine.byProduct(m, productID, filters, n) })
}

// ForUser returns personalized recommendations for userID.
func (s *Service) ForUser(ctx context.Context, userID int64, n int) (*UserRecommendations, error) {
	params := []string{strconv.FormatInt(userID, 10), "n=" + strconv.Itoa(n)}
	res, err := cached(ctx, s, ModeUser, s.config.PersonalizedTTL,
		func(m *Model) string { return s.key(m, ModeUser, params, nil) },
		func(m *Model) (*UserRecommendations, error) { return s.engine.forUser(ctx, m, userID, n) })
	if err != nil {
		return nil, err
	}
	metrics.RecommendUserStrategy.WithLabelValues(string(res.Strategy)).Inc()
	return res, nil
}

// Popular returns the highest-rated products.
func (s *Service) Popular(ctx context.Context, n int) ([]Recommendation, error) {
	params := []string{"n=" + strconv.Itoa(n)}
	return cached(ctx, s, ModePopular, s.config.PopularTTL,
		func(m *Model) string { return s.key(m, ModePopular, params, nil) },
		func(m *Model) ([]Recommendation, error) { return popular(m, n), nil })
}

// key builds the cache key of a query answered by m. The model version is
// part of the key, so an entry written for a replaced model is never read.
func (s *Service) key(m *Model, mode string, params []string, filters Filters) string {
	withVersion := make([]string, 0, len(params)+1)
	withVersion = append(withVersion, params...)
	withVersion = append(withVersion, "m="+m.Version())
	return cache.Key(s.config.Namespace, mode, withVersion, filters)
}

// PurgeCache deletes every cached response in the namespace.
func (s *Service) PurgeCache(ctx context.Context) (int, error) {
	if !s.config.Enabled {
		return 0, nil
	}
	deleted, err := s.cache.DeletePrefix(ctx, s.config.Namespace)
	if err != nil {
		metrics.RecordCacheError(s.cache.Backend(), "purge")
		return 0, err
	}
	metrics.CachePurgedKeys.WithLabelValues(s.cache.Backend()).Add(float64(deleted))
	s.logger.Info().Int("deleted", deleted).Str("namespace", s.config.Namespace).Msg("recommendation cache purged")
	return deleted, nil
}

// CacheStatus reports whether the cache is enabled and reachable.
func (s *Service) CacheStatus(ctx context.Context) CacheStatus {
	if !s.config.Enabled {
		return CacheStatus{}
	}
	return CacheStatus{
		Enabled:   true,
		Backend:   s.cache.Backend(),
		Available: s.cache.Ping(ctx) == nil,
	}
}

// CacheStats returns backend statistics. It returns nil when caching is disabled.
func (s *Service) CacheStats(ctx context.Context) (*cache.Stats, error) {
	if !s.config.Enabled {
		return nil, nil //nolint:nilnil // nil stats means caching is disabled
	}
	stats, err := s.cache.Stats(ctx)
	if err != nil {
		metrics.RecordCacheError(s.cache.Backend(), "stats")
		return nil, err
	}
	return &stats, nil
}

// cached runs the cache-aside read for one query. The key and the computed
// value both come from a single model snapshot.
func cached[T any](ctx context.Context, s *Service, mode string, ttl time.Duration,
	keyFor func(*Model) string, compute func(*Model) (T, error),
) (T, error) {
	start := time.Now()

	m, err := s.engine.snapshot()
	if err != nil {
		metrics.RecordRecommendQuery(mode, "not_ready", time.Since(start))
		var zero T
		return zero, err
	}
	key := keyFor(m)

	if s.config.Enabled {
		if v, ok := lookup[T](ctx, s, key); ok {
			metrics.RecordRecommendQuery(mode, "hit", time.Since(start))
			return v, nil
		}
	}

	v, err := compute(m)
	if err != nil {
		metrics.RecordRecommendQuery(mode, "error", time.Since(start))
		return v, err
	}

	if s.config.Enabled {
		// A swap during compute makes this entry unreachable; skip the write.
		if s.engine.models.Current() == m {
			s.store(ctx, key, v, ttl)
		} else {
			s.logger.Debug().Str("key", key).Msg("model replaced during query, not caching")
		}
	}
	metrics.RecordRecommendQuery(mode, "miss", time.Since(start))
	return v, nil
}

// lookup returns a decoded cached value. Backend errors and undecodable
// entries are treated as misses.
func lookup[T any](ctx context.Context, s *Service, key string) (T, bool) {
	var out T
	data, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
	case errors.Is(err, cache.ErrMiss):
		metrics.RecordCacheLookup(s.cache.Backend(), false)
		return out, false
	default:
		metrics.RecordCacheError(s.cache.Backend(), "get")
		s.logger.Warn().Err(err).Str("key", key).Msg("cache read failed, recomputing")
		return out, false
	}

	if err := json.Unmarshal(data, &out); err != nil {
		metrics.RecordCacheError(s.cache.Backend(), "decode")
		s.logger.Warn().Err(err).Str("key", key).Msg("cached entry undecodable, recomputing")
		var zero T
		return zero, false
	}
	metrics.RecordCacheLookup(s.cache.Backend(), true)
	return out, true
}

// store writes a computed value. Failures are logged only.
func (s *Service) store(ctx context.Context, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to encode response for cache")
		return
	}
	if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		metrics.RecordCacheError(s.cache.Backend(), "set")
		s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
