// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/tomtom215/storefront-recommender/internal/logging"
	"github.com/tomtom215/storefront-recommender/internal/recommend"
	"github.com/tomtom215/storefront-recommender/internal/recommend/storage"
)

// ErrRetrainStopped is returned by Trigger once the scheduler is shutting down.
var ErrRetrainStopped = errors.New("retrain scheduler is shutting down")

// ModelRetrainer is the part of *storage.Store the scheduler drives.
type ModelRetrainer interface {
	Retrain(ctx context.Context, days int) storage.Outcome
	OnSwap(fn func(*recommend.Model))
}

// CachePurger deletes the response cache namespace.
// Satisfied by *recommend.Service.
type CachePurger interface {
	PurgeCache(ctx context.Context) (int, error)
}

// RetrainServiceConfig holds configuration for the retrain scheduler.
type RetrainServiceConfig struct {
	// Enabled turns the cron schedule on. Manual triggers work either way.
	Enabled bool

	// Cron is a standard 5-field expression. Default: "0 2 * * *".
	Cron string

	// Timezone is an IANA zone name or "Local". Default: Local.
	Timezone string

	// Timeout bounds one retrain run. Default: 30m.
	Timeout time.Duration

	// Days is the training window of scheduled runs. Default: 90.
	Days int

	// PurgeTimeout bounds the cache purge after a swap. Default: 10s.
	PurgeTimeout time.Duration

	// DrainTimeout is how long Serve waits for running retrains on
	// shutdown. Default: 5s.
	DrainTimeout time.Duration
}

// DefaultRetrainServiceConfig returns the daily 2 AM schedule.
func DefaultRetrainServiceConfig() RetrainServiceConfig {
	return RetrainServiceConfig{
		Enabled:      true,
		Cron:         "0 2 * * *",
		Timezone:     "Local",
		Timeout:      30 * time.Minute,
		Days:         90,
		PurgeTimeout: 10 * time.Second,
		DrainTimeout: 5 * time.Second,
	}
}

// RetrainService schedules model retrains and clears the response cache
// after every model swap.
//
// Retrains run detached from the caller: Trigger returns at once and the
// run continues even if the triggering request goes away. Each run is
// bounded by Timeout. Overlapping runs share one execution inside the
// store.
//
// Example usage:
//
//	svc, err := services.NewRetrainService(store, recService, cfg, logger)
//	tree.AddModelService(svc)
//	svc.Trigger(30) // manual retrain over the last 30 days
type RetrainService struct {
	store  ModelRetrainer
	purger CachePurger
	config RetrainServiceConfig
	logger zerolog.Logger
	cron   *cron.Cron
	name   string

	mu       sync.Mutex // guards stopping and wg.Add
	stopping bool
	wg       sync.WaitGroup
}

// NewRetrainService creates the scheduler and registers the cache purge as
// a swap hook on store. Register it before the first model swap so the
// startup model also clears the namespace.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRetrainService(store ModelRetrainer, purger CachePurger, cfg RetrainServiceConfig, logger zerolog.Logger) (*RetrainService, error) {
	defaults := DefaultRetrainServiceConfig()
	if cfg.Cron == "" {
		cfg.Cron = defaults.Cron
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.Days <= 0 {
		cfg.Days = defaults.Days
	}
	if cfg.PurgeTimeout <= 0 {
		cfg.PurgeTimeout = defaults.PurgeTimeout
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = defaults.DrainTimeout
	}

	loc, err := loadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	s := &RetrainService{
		store:  store,
		purger: purger,
		config: cfg,
		logger: logger.With().Str("service", "retrain").Logger(),
		name:   "retrain-scheduler",
	}

	cl := cronLogger{logger: s.logger}
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := s.cron.AddFunc(cfg.Cron, func() { s.run(cfg.Days, "scheduled") }); err != nil {
		return nil, fmt.Errorf("invalid retrain schedule %q: %w", cfg.Cron, err)
	}

	if purger != nil {
		store.OnSwap(s.purgeOnSwap)
	}
	return s, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid retrain timezone %q: %w", name, err)
	}
	return loc, nil
}

// Serve implements suture.Service. It runs the cron schedule until ctx is
// canceled, then waits up to DrainTimeout for running retrains.
func (s *RetrainService) Serve(ctx context.Context) error {
	if s.config.Enabled {
		s.cron.Start()
		s.logger.Info().
			Str("cron", s.config.Cron).
			Str("timezone", s.config.Timezone).
			Time("next_run", s.NextRun()).
			Msg("retrain scheduler started")
	} else {
		s.logger.Info().Msg("scheduled retraining disabled, manual triggers only")
	}

	<-ctx.Done()

	s.mu.Lock()
	s.stopping = true
	s.mu.Unlock()

	stopped := s.cron.Stop()
	if !s.drain(stopped) {
		s.logger.Warn().Dur("drain_timeout", s.config.DrainTimeout).Msg("retrain still running at shutdown")
	}
	return ctx.Err()
}

// drain waits for the cron runner and manual runs to finish.
func (s *RetrainService) drain(cronStopped context.Context) bool {
	done := make(chan struct{})
	go func() {
		<-cronStopped.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(s.config.DrainTimeout):
		return false
	}
}

// Trigger starts a retrain over the last days days and returns immediately.
// It returns ErrRetrainStopped after shutdown has begun.
func (s *RetrainService) Trigger(days int) error {
	if days <= 0 {
		days = s.config.Days
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopping {
		s.logger.Warn().Int("days", days).Msg("manual retrain rejected during shutdown")
		return ErrRetrainStopped
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(days, "manual")
	}()
	return nil
}

// NextRun returns the next scheduled run, or the zero time when the
// schedule is not running.
func (s *RetrainService) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// run executes one retrain with its own deadline, independent of whoever
// asked for it.
func (s *RetrainService) run(days int, trigger string) storage.Outcome {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
	defer cancel()
	ctx = logging.ContextWithNewCorrelationID(ctx)

	logger := logging.Decorate(ctx, s.logger)
	logger.Info().Str("trigger", trigger).Int("days", days).Msg("retrain started")

	out := s.store.Retrain(ctx, days)

	event := logger.Info()
	if !out.Swapped() {
		event = logger.Warn().Err(out.Err)
	}
	event.
		Str("trigger", trigger).
		Str("outcome", out.Kind.String()).
		Dur("duration", out.Duration).
		Msg("retrain finished")
	return out
}

// purgeOnSwap drops every cached response produced by the previous model.
func (s *RetrainService) purgeOnSwap(m *recommend.Model) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.PurgeTimeout)
	defer cancel()

	deleted, err := s.purger.PurgeCache(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("cache purge after model swap failed, entries expire by TTL")
		return
	}
	s.logger.Info().
		Int("deleted", deleted).
		Int("num_products", m.NumProducts()).
		Msg("response cache purged after model swap")
}

// String implements fmt.Stringer for logging.
func (s *RetrainService) String() string {
	return s.name
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
