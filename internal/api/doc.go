// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

/*
Package api provides the HTTP surface of the recommender using the Chi router.

# Endpoints

	GET  /health                               liveness, model and cache status
	GET  /metrics                              Prometheus exposition
	GET  /api/model/info                       loaded model metadata
	GET  /api/recommendations/product/{id}     similar products (n, gender, size, color, material, category)
	GET  /api/recommendations/user/{id}        personalized or popular_fallback
	GET  /api/recommendations/popular          highest rated products
	POST /api/retrain?days=                    asynchronous retrain, 202 Accepted
	POST /api/cache/clear                      purge the recommendation namespace
	GET  /api/cache/stats                      backend size and hit counters

# Middleware Stack

Global middleware runs in this order: request ID with logging context,
RealIP, Recoverer, CORS. Each route group then adds its own httprate limiter,
security headers and Prometheus instrumentation.

# Responses

Success bodies are the payload itself. Errors share one shape:

	{"error": {"code": "VALIDATION_ERROR", "message": "n must be at most 100", "request_id": "..."}}

Status mapping:
  - 400 BAD_REQUEST: non-numeric id, n or days
  - 400 VALIDATION_ERROR: out-of-range parameters
  - 429 TOO_MANY_REQUESTS: rate limit exceeded
  - 503 SERVICE_UNAVAILABLE: no model loaded
  - 503 CACHE_UNAVAILABLE: cache backend unreachable for cache endpoints

# Dependencies

Handler receives every collaborator explicitly:

	h := api.NewHandler(service, store, retrainService, api.HandlerConfig{
	    DefaultN:     cfg.Recommend.DefaultN,
	    MaxN:         cfg.Recommend.MaxN,
	    TrainingDays: cfg.Recommend.TrainingDays,
	}, logger)
	mw := api.NewChiMiddleware(api.MiddlewareConfigFromSecurity(cfg.Security), logger)
	router := api.NewRouter(h, mw)
	srv := &http.Server{Handler: router.Setup()}
*/
package api
