// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Recommendation queries per mode
// - Model retrain outcomes
// - Response cache efficiency
// - Circuit breakers around the upstream and redis

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_queries_total",
			Help: "Total number of recommendation queries",
		},
		[]string{"mode", "outcome"}, // mode: product, user, popular; outcome: ok, cached, not_ready, error
	)

	RecommendQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_query_duration_seconds",
			Help:    "Recommendation query latency in seconds, cache lookups included",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
		[]string{"mode"},
	)

	RecommendUserStrategy = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_user_strategy_total",
			Help: "Per-user queries by strategy (personalized, popular_fallback)",
		},
		[]string{"strategy"},
	)

	// Model Metrics
	ModelRetrainsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_retrains_total",
			Help: "Total number of model initializations and retrains by outcome",
		},
		[]string{"outcome"}, // loaded, trained, fell_back_to_synthetic, failed
	)

	ModelRetrainDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "model_retrain_duration_seconds",
			Help:    "Duration of model retrains in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	ModelProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_products",
			Help: "Number of products in the served model",
		},
	)

	ModelFeatures = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_features",
			Help: "Vocabulary size of the served model",
		},
	)

	ModelLastSwap = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_last_swap_timestamp_seconds",
			Help: "Unix timestamp of the last model swap",
		},
	)

	UpstreamFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_fetch_duration_seconds",
			Help:    "Duration of training data fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"}, // success, error
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"backend"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"backend"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of cache operations that failed and were treated as misses",
		},
		[]string{"backend", "operation"},
	)

	CachePurgedKeys = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_purged_keys_total",
			Help: "Total number of keys deleted by namespace purges",
		},
		[]string{"backend"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"backend"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendQuery records one recommendation query
func RecordRecommendQuery(mode, outcome string, duration time.Duration) {
	RecommendQueries.WithLabelValues(mode, outcome).Inc()
	RecommendQueryDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordRetrain records a model initialization or retrain outcome
func RecordRetrain(outcome string, duration time.Duration) {
	ModelRetrainsTotal.WithLabelValues(outcome).Inc()
	ModelRetrainDuration.Observe(duration.Seconds())
}

// RecordModelSwap updates the served model gauges
func RecordModelSwap(products, features int, at time.Time) {
	ModelProducts.Set(float64(products))
	ModelFeatures.Set(float64(features))
	ModelLastSwap.Set(float64(at.Unix()))
}

// RecordUpstreamFetch records a training data fetch
func RecordUpstreamFetch(duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	UpstreamFetchDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// RecordCacheLookup records a cache hit or miss
func RecordCacheLookup(backend string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(backend).Inc()
	} else {
		CacheMisses.WithLabelValues(backend).Inc()
	}
}

// RecordCacheError records a failed cache operation
func RecordCacheError(backend, operation string) {
	CacheErrors.WithLabelValues(backend, operation).Inc()
}
