// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

/*
Package services provides suture.Service wrappers for recommender components.

# Available Services

HTTP Server (HTTPServerService):
  - Binds the listen address itself, so a port conflict fails Serve and is retried with backoff
  - BoundAddr reports the resolved address (useful with port 0)
  - Shutdown gets its own deadline since the supervisor context is already canceled

Retrain Scheduler (RetrainService):
  - Daily retrain on a cron expression (robfig/cron/v3) in a configurable timezone
  - Trigger starts a manual retrain and returns immediately
  - Each run is detached from the caller and bounded by its timeout
  - Purges the response cache after every model swap, startup included

Cache Janitor (CacheJanitorService):
  - Periodic Sweep for backends implementing cache.Sweeper
  - Sweep errors are logged, never returned

# Error Handling

Returning an error from Serve makes suture restart the service with backoff.
Returning ctx.Err() after cancellation is a clean stop.
*/
package services
