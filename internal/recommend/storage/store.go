// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/storefront-recommender/internal/metrics"
	"github.com/tomtom215/storefront-recommender/internal/recommend"
)

// Model status values reported by Info.
const (
	StatusTrained    = "trained"
	StatusNotTrained = "not_trained"
)

// Fetcher retrieves a training data snapshot covering the last days days.
type Fetcher interface {
	Fetch(ctx context.Context, days int) (*recommend.TrainingData, error)
}

// Config configures a Store.
type Config struct {
	// ModelPath is the artifact location.
	ModelPath string

	// MaxFeatures caps the vocabulary of newly trained models.
	MaxFeatures int

	// TrainingDays is the window used by Initialize.
	TrainingDays int
}

// Info describes the served model.
type Info struct {
	Status      string           `json:"status"`
	NumProducts int              `json:"num_products"`
	NumFeatures int              `json:"num_features"`
	NumUsers    int              `json:"num_users"`
	PriceMean   float64          `json:"price_mean"`
	PriceStd    float64          `json:"price_std"`
	Version     string           `json:"version,omitempty"`
	ModelPath   string           `json:"model_path"`
	Source      recommend.Origin `json:"source,omitempty"`
	TrainedAt   *time.Time       `json:"trained_at,omitempty"`

	// UpstreamBreaker is the upstream circuit state when the upstream
	// fetcher reports one.
	UpstreamBreaker string `json:"upstream_breaker,omitempty"`
}

// breakerReporter is implemented by fetchers guarded by a circuit breaker.
type breakerReporter interface {
	BreakerState() string
}

// Store owns the served model, its artifact and the retraining workflow.
type Store struct {
	config   Config
	upstream Fetcher
	fallback Fetcher
	logger   zerolog.Logger

	current atomic.Pointer[recommend.Model]
	flight  singleflight.Group

	hooksMu sync.RWMutex
	hooks   []func(*recommend.Model)

	now func() time.Time
}

// NewStore creates a model store. The fallback fetcher supplies training
// data when upstream is unusable and no model is being served.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStore(cfg Config, upstream, fallback Fetcher, logger zerolog.Logger) (*Store, error) {
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("model path is required")
	}
	if upstream == nil || fallback == nil {
		return nil, fmt.Errorf("upstream and fallback fetchers are required")
	}
	if cfg.MaxFeatures <= 0 {
		cfg.MaxFeatures = recommend.DefaultConfig().MaxFeatures
	}
	if cfg.TrainingDays <= 0 {
		cfg.TrainingDays = 90
	}
	return &Store{
		config:   cfg,
		upstream: upstream,
		fallback: fallback,
		logger:   logger.With().Str("component", "model-store").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// Current returns the served model, or nil before the first swap.
func (s *Store) Current() *recommend.Model {
	return s.current.Load()
}

// OnSwap registers fn to run after every model swap.
func (s *Store) OnSwap(fn func(*recommend.Model)) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Load restores the artifact at the configured path and serves it.
// On any error the served model is left unchanged.
func (s *Store) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(s.config.ModelPath)
	if err != nil {
		return fmt.Errorf("read model file: %w", err)
	}
	m, err := decodeModel(data)
	if err != nil {
		return fmt.Errorf("load %s: %w", s.config.ModelPath, err)
	}
	s.swap(m)
	return nil
}

// Save persists m to the configured path.
func (s *Store) Save(m *recommend.Model) error {
	if m == nil {
		return fmt.Errorf("save: nil model")
	}
	data, err := encodeModel(m, s.now())
	if err != nil {
		return err
	}
	return writeFileAtomic(s.config.ModelPath, data)
}

// Initialize brings up the first model: the persisted artifact if it
// loads, otherwise a freshly trained one, otherwise the synthetic catalog.
func (s *Store) Initialize(ctx context.Context) Outcome {
	start := time.Now()

	err := s.Load(ctx)
	if err == nil {
		m := s.Current()
		out := Outcome{
			Kind:        OutcomeLoaded,
			NumProducts: m.NumProducts(),
			NumFeatures: m.NumFeatures(),
			Source:      m.Source(),
			Duration:    time.Since(start),
			Persisted:   true,
		}
		s.report(out)
		return out
	}
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info().Str("path", s.config.ModelPath).Msg("no saved model, training a new one")
	} else {
		s.logger.Warn().Err(err).Str("path", s.config.ModelPath).Msg("saved model unusable, training a new one")
	}

	return s.Retrain(ctx, s.config.TrainingDays)
}

// Retrain fetches fresh training data, fits a model, persists it and swaps
// it in. Concurrent calls share one execution. Upstream failures keep the
// served model; with no model served the synthetic catalog is used.
func (s *Store) Retrain(ctx context.Context, days int) Outcome {
	v, _, _ := s.flight.Do("retrain", func() (interface{}, error) {
		out := s.retrain(ctx, days)
		s.report(out)
		return out, nil
	})
	return v.(Outcome) //nolint:forcetypeassert // singleflight only ever stores Outcome
}

func (s *Store) retrain(ctx context.Context, days int) Outcome {
	start := time.Now()

	data, err := s.upstream.Fetch(ctx, days)
	if err == nil && (data == nil || len(data.Products) == 0) {
		err = recommend.ErrEmptyCatalog
	}

	var m *recommend.Model
	if err == nil {
		m, err = s.build(data)
	}

	kind := OutcomeTrained
	if err != nil {
		if s.Current() != nil {
			return Outcome{Kind: OutcomeFailed, Err: err, Duration: time.Since(start)}
		}

		s.logger.Warn().Err(err).Msg("upstream training data unusable and no model loaded, using synthetic catalog")
		data, ferr := s.fallback.Fetch(ctx, days)
		if ferr != nil {
			return Outcome{Kind: OutcomeFailed, Err: errors.Join(err, ferr), Duration: time.Since(start)}
		}
		m, ferr = s.build(data)
		if ferr != nil {
			return Outcome{Kind: OutcomeFailed, Err: errors.Join(err, ferr), Duration: time.Since(start)}
		}
		kind = OutcomeFellBackToSynthetic
	}

	persisted := true
	if serr := s.Save(m); serr != nil {
		persisted = false
		s.logger.Error().Err(serr).Str("path", s.config.ModelPath).Msg("failed to persist model, serving it from memory")
	}
	s.swap(m)

	return Outcome{
		Kind:        kind,
		Err:         err,
		NumProducts: m.NumProducts(),
		NumFeatures: m.NumFeatures(),
		Source:      m.Source(),
		Duration:    time.Since(start),
		Persisted:   persisted,
	}
}

func (s *Store) build(data *recommend.TrainingData) (*recommend.Model, error) {
	if data == nil {
		return nil, recommend.ErrEmptyCatalog
	}
	source := data.Source
	if source == "" {
		source = recommend.OriginUpstream
	}
	return recommend.BuildModel(data.Products, data.Interactions, recommend.BuildOptions{
		MaxFeatures: s.config.MaxFeatures,
		Source:      source,
		TrainedAt:   s.now(),
	})
}

// swap serves m and runs the swap hooks.
func (s *Store) swap(m *recommend.Model) {
	s.current.Store(m)
	metrics.RecordModelSwap(m.NumProducts(), m.NumFeatures(), m.TrainedAt())

	s.hooksMu.RLock()
	hooks := make([]func(*recommend.Model), len(s.hooks))
	copy(hooks, s.hooks)
	s.hooksMu.RUnlock()

	for _, fn := range hooks {
		fn(m)
	}
}

//nolint:gocritic // Outcome is a small value type
func (s *Store) report(out Outcome) {
	metrics.RecordRetrain(out.Kind.String(), out.Duration)

	var event *zerolog.Event
	switch out.Kind {
	case OutcomeFailed:
		event = s.logger.Error().Err(out.Err)
	case OutcomeFellBackToSynthetic:
		event = s.logger.Warn().Err(out.Err)
	default:
		event = s.logger.Info()
	}
	event.
		Str("outcome", out.Kind.String()).
		Int("num_products", out.NumProducts).
		Int("num_features", out.NumFeatures).
		Str("source", string(out.Source)).
		Bool("persisted", out.Persisted).
		Dur("duration", out.Duration).
		Msg("model update finished")
}

// Info describes the served model.
func (s *Store) Info() Info {
	info := Info{
		Status:    StatusNotTrained,
		ModelPath: s.config.ModelPath,
	}
	if br, ok := s.upstream.(breakerReporter); ok {
		info.UpstreamBreaker = br.BreakerState()
	}
	m := s.Current()
	if m == nil {
		return info
	}
	trainedAt := m.TrainedAt()
	info.Status = StatusTrained
	info.NumProducts = m.NumProducts()
	info.NumFeatures = m.NumFeatures()
	info.NumUsers = m.NumUsers()
	info.PriceMean, info.PriceStd = m.PriceStats()
	info.Version = m.Version()
	info.Source = m.Source()
	info.TrainedAt = &trainedAt
	return info
}
