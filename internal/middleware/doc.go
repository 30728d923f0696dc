// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - RequestID: assigns X-Request-ID and seeds the logging context with
    request and correlation IDs
  - PrometheusMetrics: request count, latency and in-flight gauge, labeled
    by chi route pattern

Both are chi-compatible (func(http.Handler) http.Handler):

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

See Also:

  - internal/api: router and handlers
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
