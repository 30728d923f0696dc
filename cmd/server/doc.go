// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

/*
Package main is the entry point for the storefront recommender server.

The server answers "similar products", "recommended for this user" and
"popular products" queries for the storefront from a content-based model
trained on the catalog export of the storefront backend.

# Application Architecture

The server implements a layered architecture with Suture v4 process supervision:

	storefront-recommender
	├── cache-layer
	│   └── Cache janitor (memory and badger backends)
	├── model-layer
	│   └── Retrain scheduler (cron + manual triggers)
	└── api-layer
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config file and environment variables
 2. Logging: zerolog with the configured level and format
 3. Cache: memory, redis or badger backend (optional, advisory)
 4. Model store: upstream client, synthetic fallback, artifact path
 5. Engine and cached query service
 6. Retrain scheduler, registered before the first model so every swap
    purges the cache namespace
 7. First model: load the artifact, else train from upstream, else synthetic
 8. HTTP router and supervisor tree

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
  - Environment variables
  - Config file (CONFIG_PATH or config.yaml)
  - Built-in defaults

Common settings:
  - PORT: listen port (default: 8001)
  - BACKEND_URL: storefront backend serving the training export
  - MODEL_PATH: model artifact (default: models/recommender_model.json)
  - RETRAIN_CRON: daily retrain schedule (default: "0 2 * * *")
  - CACHE_BACKEND: memory, redis or badger (default: memory)

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:
  - Stops accepting new connections and drains in-flight requests
  - Stops the retrain schedule and waits briefly for a running retrain
  - Closes the cache backend

# Example Usage

	export BACKEND_URL=http://storefront:8000
	export CACHE_BACKEND=redis
	export REDIS_ADDR=redis:6379
	./storefront-recommender
*/
package main
