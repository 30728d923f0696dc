// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

// Package logging provides centralized zerolog-based structured logging for the
// recommender.
//
// # Overview
//
// The package provides:
//   - A global zerolog logger configured once at startup
//   - JSON output for production and console output for development
//   - Request and correlation ID propagation through context.Context
//   - An slog adapter for Suture v4 integration
//   - An audit logger for retrains, cache purges and rate limit rejections
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Int("products", 100).Msg("recommendation model ready")
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("cache read failed")
//
// Components that own a logger keep their component field and add request
// context with Decorate:
//
//	logger := logging.Decorate(ctx, s.logger)
//
// # slog Adapter
//
// Suture reports supervisor events through slog:
//
//	slogLogger := logging.NewSlogLogger()
//
// # Audit Logging
//
// Administrative actions and abuse signals go through AuditLogger. Values are
// sanitized: credentials in error messages collapse to "credential error" and
// URL passwords are redacted.
//
//	audit := logging.NewAuditLogger(logger)
//	audit.LogRetrainRequested(ctx, 30, clientIP, userAgent)
//
// # Output Formats
//
// JSON Format (Production):
//
//	{"level":"info","time":"2026-01-03T10:30:00Z","message":"recommendation model ready","products":100}
//
// Console Format (Development):
//
//	10:30:00 INF recommendation model ready products=100
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. The global logger
// is protected by sync.RWMutex for configuration changes.
//
// # Testing
//
// Create test loggers that capture output:
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
//	logger.Info().Msg("test message")
package logging
