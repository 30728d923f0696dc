// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

// Package storage holds the served recommendation model and its on-disk
// artifact.
//
// # Overview
//
// The Store owns one model pointer. Queries read it lock-free through
// Current; retraining builds a replacement off to the side and swaps it in
// atomically, so every query works on a single consistent snapshot.
//
// The store provides:
//   - JSON artifact persistence with a format version and SHA-256 checksum
//   - Atomic writes (temp file then rename) so a crash never leaves a torn file
//   - Startup initialization that always ends with a usable model
//   - Single-flight retraining with a tagged Outcome instead of errors
//   - Swap hooks for cache invalidation and metrics
//
// # Artifact Format
//
//	{
//	  "version": 1,
//	  "saved_at": "2026-01-02T02:00:00Z",
//	  "checksum": "<sha256 of model>",
//	  "model": { "records": [...], "vocabulary": [...], "idf": [...], ... }
//	}
//
// A missing, corrupt or inconsistent artifact is rejected as a whole; the
// store never serves a partially restored model.
//
// # Usage Example
//
//	store, err := storage.NewStore(storage.Config{
//	    ModelPath:   "models/recommender_model.json",
//	    MaxFeatures: 50,
//	    TrainingDays: 90,
//	}, upstream, source.SyntheticFetcher{Seed: 42}, logger)
//	if err != nil {
//	    return err
//	}
//
//	outcome := store.Initialize(ctx)
//	logger.Info().Str("outcome", outcome.Kind.String()).Msg("model ready")
//
//	// later, from the scheduler
//	outcome = store.Retrain(ctx, 90)
//
// # Thread Safety
//
// Current and Info are safe to call from any goroutine. Concurrent Retrain
// calls share one execution and all receive its Outcome.
package storage
