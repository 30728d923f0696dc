// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package recommend

import "errors"

var (
	// ErrEmptyCatalog is returned when a model is built from zero products.
	ErrEmptyCatalog = errors.New("recommend: empty product catalog")

	// ErrProductNotFound is returned when the reference product is not in the model.
	ErrProductNotFound = errors.New("recommend: product not found")

	// ErrModelNotReady is returned by queries issued before any model is loaded.
	ErrModelNotReady = errors.New("recommend: model not ready")

	// ErrUpstreamFetch wraps every failure to retrieve training data.
	ErrUpstreamFetch = errors.New("recommend: upstream fetch failed")
)
