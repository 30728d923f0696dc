// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

/*
Package metrics provides Prometheus metrics for the recommender.

All collectors are registered with the default registry through promauto and
exposed by the API router at /metrics:

	curl http://localhost:8001/metrics

# Available Metrics

API:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Recommendations:
  - recommend_queries_total{mode,outcome}
  - recommend_query_duration_seconds{mode}
  - recommend_user_strategy_total{strategy}

Model lifecycle:
  - model_retrains_total{outcome}
  - model_retrain_duration_seconds
  - model_products, model_features
  - model_last_swap_timestamp_seconds
  - upstream_fetch_duration_seconds{result}

Cache:
  - cache_hits_total{backend}, cache_misses_total{backend}
  - cache_errors_total{backend,operation}
  - cache_purged_keys_total{backend}
  - cache_evictions_total{backend}

Circuit breakers (upstream catalog client, redis cache):
  - circuit_breaker_state{name}
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

# Usage

	start := time.Now()
	recs, err := engine.Popular(ctx, n)
	metrics.RecordRecommendQuery("popular", "ok", time.Since(start))
*/
package metrics
