// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

/*
Package cache provides the best-effort response cache behind recommendation
queries.

Three backends implement Store:
  - memory: in-process map with TTLs (default)
  - redis: go-redis v9 behind a circuit breaker with per-call timeouts
  - badger: embedded BadgerDB with native TTLs, survives restarts

# Semantics

The cache is advisory. Get returns ErrMiss for absent or expired keys and an
error wrapping ErrUnavailable when the backend fails; callers treat both as
a miss and recompute. Values are opaque bytes (JSON payloads in practice).

Keys are built with Key and share a namespace prefix so a whole generation of
responses can be dropped with DeletePrefix after a model swap. Tag names and
values are query-escaped:

	key := cache.Key("recommend:", "product", []string{"7", "n=5"}, map[string]string{"color": "Off White"})
	// recommend:product:7:n=5:color=Off+White

# Housekeeping

Backends that implement Sweeper (memory, badger) are swept periodically by
the supervisor's cache janitor service.
*/
package cache
