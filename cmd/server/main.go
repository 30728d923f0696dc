// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/tomtom215/storefront-recommender/internal/api"
	"github.com/tomtom215/storefront-recommender/internal/config"
	"github.com/tomtom215/storefront-recommender/internal/logging"
	"github.com/tomtom215/storefront-recommender/internal/metrics"
	"github.com/tomtom215/storefront-recommender/internal/supervisor"
	"github.com/tomtom215/storefront-recommender/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Storefront recommender exited")
	}
	logging.Info().Msg("Application stopped gracefully")
}

// run wires the recommender and blocks until SIGINT or SIGTERM. Errors are
// returned instead of exiting so deferred cleanup still runs.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("version", version).
		Str("backend_url", logging.SanitizeURL(cfg.Recommend.BackendURL)).
		Str("model_path", cfg.Recommend.ModelPath).
		Bool("cache_enabled", cfg.Cache.Enabled).
		Str("cache_backend", cfg.Cache.Backend).
		Bool("schedule_enabled", cfg.Schedule.Enabled).
		Str("schedule_cron", cfg.Schedule.Cron).
		Msg("Starting storefront recommender")

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := logging.Logger()
	recommender, err := initRecommend(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize recommender: %w", err)
	}
	defer recommender.close(logger)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.HasWildcardCORS() {
		logging.Info().Msg("CORS allows any origin, set CORS_ORIGINS to restrict")
	}
	router := api.NewRouter(
		recommender.handler(cfg, logger),
		api.NewChiMiddleware(api.MiddlewareConfigFromSecurity(cfg.Security), logger),
	)
	server := &http.Server{
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	recommender.addServices(tree, logger)
	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, cfg.Server.ShutdownTimeout, logger))

	if err := tree.Run(ctx); err != nil {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	return nil
}
