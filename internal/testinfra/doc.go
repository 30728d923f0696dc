// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

// Package testinfra provides container helpers for integration tests.
//
// Everything here is behind the integration build tag and uses
// testcontainers-go, so a plain `go test ./...` never needs Docker:
//
//	go test -tags integration ./internal/cache/...
//
// # Redis Container
//
//	func TestRedisCache(t *testing.T) {
//	    rc := testinfra.StartRedis(t, testinfra.WithRedisPassword("s3cret"))
//	    store := cache.NewRedis(ctx, cache.RedisConfig{Addr: rc.Addr, Password: rc.Password}, zerolog.Nop())
//	    // exercise the store against a real server
//	}
//
// StartRedis skips the test when no container runtime is reachable and
// terminates the container in t.Cleanup.
package testinfra
