// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

/*
Package supervisor provides process supervision for the recommender using suture v4.

# Overview

Services are organized into three layers for failure isolation:

	storefront-recommender
	├── cache-layer
	│   └── CacheJanitorService (memory and badger backends)
	├── model-layer
	│   └── RetrainService
	└── api-layer
	    └── HTTPServerService

A panic or error in the retrain scheduler restarts only that service. The
HTTP server keeps answering from the model already being served.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}

	tree.AddModelService(retrainSvc)
	tree.AddAPIService(httpSvc)

	if err := tree.Run(ctx); err != nil {
	    logging.Error().Err(err).Msg("supervisor tree stopped")
	}

Run blocks until ctx is canceled, then logs every service that missed its
shutdown timeout.

# Logging

Supervisor events (restarts, backoff, stop timeouts) are logged through
sutureslog, backed by the zerolog slog adapter in internal/logging.

See internal/supervisor/services for the service wrappers.
*/
package supervisor
