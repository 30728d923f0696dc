// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/storefront-recommender/internal/api"
	"github.com/tomtom215/storefront-recommender/internal/cache"
	"github.com/tomtom215/storefront-recommender/internal/config"
	"github.com/tomtom215/storefront-recommender/internal/recommend"
	"github.com/tomtom215/storefront-recommender/internal/recommend/source"
	"github.com/tomtom215/storefront-recommender/internal/recommend/storage"
	"github.com/tomtom215/storefront-recommender/internal/supervisor"
	"github.com/tomtom215/storefront-recommender/internal/supervisor/services"
)

// app is the service context: every long-lived component, built once and
// passed explicitly to the HTTP layer and the supervisor tree.
type app struct {
	cache   cache.Store // nil when caching is disabled or unavailable
	store   *storage.Store
	engine  *recommend.Engine
	service *recommend.Service
	retrain *services.RetrainService
}

// initRecommend builds the recommender components and loads or trains the
// first model. It always returns with a model unless construction fails.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	a := &app{}

	if cfg.Cache.Enabled {
		store, err := cache.Open(ctx, cache.Options{
			Backend:    cfg.Cache.Backend,
			DefaultTTL: cfg.Cache.ProductTTL,
			Redis: cache.RedisConfig{
				Addr:     cfg.Cache.Redis.Addr,
				Password: cfg.Cache.Redis.Password,
				DB:       cfg.Cache.Redis.DB,
				Timeout:  cfg.Cache.Redis.Timeout,
			},
			Badger: cache.BadgerConfig{
				Path:     cfg.Cache.Badger.Path,
				InMemory: cfg.Cache.Badger.InMemory,
			},
		}, logger)
		if err != nil {
			// The cache is advisory; serve uncached rather than refuse to start.
			logger.Warn().Err(err).Str("backend", cfg.Cache.Backend).Msg("cache unavailable, serving without cache")
		} else {
			a.cache = store
			logger.Info().Str("backend", store.Backend()).Str("namespace", cfg.Cache.Namespace).Msg("response cache enabled")
		}
	} else {
		logger.Info().Msg("response cache disabled (CACHE_ENABLED=false)")
	}

	client, err := source.NewClient(source.ClientConfig{
		BaseURL:       cfg.Recommend.BackendURL,
		Timeout:       cfg.Recommend.FetchTimeout,
		RatePerSecond: cfg.Recommend.FetchRatePerSecond,
	}, logger)
	if err != nil {
		a.close(logger)
		return nil, fmt.Errorf("create upstream client: %w", err)
	}

	a.store, err = storage.NewStore(storage.Config{
		ModelPath:    cfg.Recommend.ModelPath,
		MaxFeatures:  cfg.Recommend.MaxFeatures,
		TrainingDays: cfg.Recommend.TrainingDays,
	}, client, source.SyntheticFetcher{Seed: cfg.Recommend.SyntheticSeed}, logger)
	if err != nil {
		a.close(logger)
		return nil, fmt.Errorf("create model store: %w", err)
	}

	engineCfg := recommend.DefaultConfig()
	engineCfg.MaxFeatures = cfg.Recommend.MaxFeatures
	engineCfg.MaxHistorySeeds = cfg.Recommend.MaxHistorySeeds
	a.engine, err = recommend.NewEngine(a.store, engineCfg, logger)
	if err != nil {
		a.close(logger)
		return nil, fmt.Errorf("create engine: %w", err)
	}

	a.service = recommend.NewService(a.engine, a.cache, recommend.ServiceConfig{
		Enabled:         cfg.Cache.Enabled,
		Namespace:       cfg.Cache.Namespace,
		ProductTTL:      cfg.Cache.ProductTTL,
		PopularTTL:      cfg.Cache.PopularTTL,
		PersonalizedTTL: cfg.Cache.PersonalizedTTL,
	}, logger)

	// Registers the purge-on-swap hook, so it must exist before the first
	// model is installed.
	retrainCfg := services.DefaultRetrainServiceConfig()
	retrainCfg.Enabled = cfg.Schedule.Enabled
	retrainCfg.Cron = cfg.Schedule.Cron
	retrainCfg.Timezone = cfg.Schedule.Timezone
	retrainCfg.Timeout = cfg.Schedule.Timeout
	retrainCfg.Days = cfg.Recommend.TrainingDays
	a.retrain, err = services.NewRetrainService(a.store, a.service, retrainCfg, logger)
	if err != nil {
		a.close(logger)
		return nil, fmt.Errorf("create retrain scheduler: %w", err)
	}

	initCtx, cancel := context.WithTimeout(ctx, cfg.Schedule.Timeout)
	defer cancel()
	outcome := a.store.Initialize(initCtx)
	if !outcome.Swapped() {
		a.close(logger)
		return nil, fmt.Errorf("initialize model: %w", outcome.Err)
	}
	logger.Info().
		Str("outcome", outcome.Kind.String()).
		Int("products", outcome.NumProducts).
		Int("features", outcome.NumFeatures).
		Bool("persisted", outcome.Persisted).
		Dur("duration", outcome.Duration).
		Msg("recommendation model ready")

	return a, nil
}

// addServices registers the recommender's background services.
func (a *app) addServices(tree *supervisor.SupervisorTree, logger zerolog.Logger) {
	if sweeper, ok := a.cache.(cache.Sweeper); ok {
		tree.AddCacheService(services.NewCacheJanitorService(sweeper, 0, logger))
		logger.Info().Msg("cache janitor added to supervisor tree")
	}
	tree.AddModelService(a.retrain)
	logger.Info().Msg("retrain scheduler added to supervisor tree")
}

// handler builds the HTTP handler over the service context.
func (a *app) handler(cfg *config.Config, logger zerolog.Logger) *api.Handler {
	return api.NewHandler(a.service, a.store, a.retrain, api.HandlerConfig{
		DefaultN:     cfg.Recommend.DefaultN,
		MaxN:         cfg.Recommend.MaxN,
		TrainingDays: cfg.Recommend.TrainingDays,
	}, logger)
}

// close releases the cache backend.
func (a *app) close(logger zerolog.Logger) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Close(); err != nil {
		logger.Error().Err(err).Msg("error closing cache")
	}
}
