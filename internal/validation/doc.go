// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

// Package validation provides query parameter validation using go-playground/validator v10.
//
// It wraps a thread-safe singleton validator and translates failures into
// the API's VALIDATION_ERROR format. Field names in messages come from the
// `query` struct tag.
//
// # Query Structs
//
// Handlers parse raw query parameters into these structs and validate them:
//   - ProductQuery: id >= 1, n in 1..100, attribute filters up to 100 chars
//     without control characters
//   - UserQuery: id >= 1, n in 1..100
//   - PopularQuery: n in 1..100
//   - RetrainQuery: days in 1..3650
//
// # Quick Start
//
//	q := validation.PopularQuery{N: n}
//	if err := validation.Validate(&q); err != nil {
//	    apiErr := err.ToAPIError()
//	    respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message)
//	    return
//	}
//
// # Error Messages
//
//	n must be at most 100
//	days must be at least 1
//	gender must be at most 100 characters
//	color must not contain control characters
package validation
