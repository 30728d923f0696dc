// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package api

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/storefront-recommender/internal/cache"
	"github.com/tomtom215/storefront-recommender/internal/logging"
	"github.com/tomtom215/storefront-recommender/internal/recommend"
	"github.com/tomtom215/storefront-recommender/internal/recommend/storage"
	"github.com/tomtom215/storefront-recommender/internal/validation"
)

// Recommender answers recommendation queries and manages the response cache.
// *recommend.Service implements it.
type Recommender interface {
	ByProduct(ctx context.Context, productID int64, filters recommend.Filters, n int) ([]recommend.Recommendation, error)
	ForUser(ctx context.Context, userID int64, n int) (*recommend.UserRecommendations, error)
	Popular(ctx context.Context, n int) ([]recommend.Recommendation, error)
	PurgeCache(ctx context.Context) (int, error)
	CacheStatus(ctx context.Context) recommend.CacheStatus
	CacheStats(ctx context.Context) (*cache.Stats, error)
}

// ModelInfoProvider describes the loaded model. *storage.Store implements it.
type ModelInfoProvider interface {
	Info() storage.Info
}

// RetrainTrigger starts an asynchronous retrain. *services.RetrainService
// implements it.
type RetrainTrigger interface {
	Trigger(days int) error
}

// HandlerConfig holds request defaults.
type HandlerConfig struct {
	// DefaultN is used when a query omits n
	DefaultN int
	// MaxN caps n below the validation bound
	MaxN int
	// TrainingDays is used when a retrain request omits days
	TrainingDays int
}

// DefaultHandlerConfig returns the request defaults.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		DefaultN:     5,
		MaxN:         validation.MaxN,
		TrainingDays: 90,
	}
}

// Handler serves the recommendation API. Every dependency is injected by
// the caller; the package keeps no globals.
type Handler struct {
	recommender Recommender
	models      ModelInfoProvider
	retrainer   RetrainTrigger
	config      HandlerConfig
	logger      zerolog.Logger
	audit       *logging.AuditLogger
}

// NewHandler creates the API handler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(recommender Recommender, models ModelInfoProvider, retrainer RetrainTrigger, cfg HandlerConfig, logger zerolog.Logger) *Handler {
	defaults := DefaultHandlerConfig()
	if cfg.DefaultN < 1 {
		cfg.DefaultN = defaults.DefaultN
	}
	if cfg.MaxN < 1 || cfg.MaxN > validation.MaxN {
		cfg.MaxN = defaults.MaxN
	}
	if cfg.TrainingDays < 1 {
		cfg.TrainingDays = defaults.TrainingDays
	}
	return &Handler{
		recommender: recommender,
		models:      models,
		retrainer:   retrainer,
		config:      cfg,
		logger:      logger.With().Str("component", "api").Logger(),
		audit:       logging.NewAuditLogger(logger),
	}
}
