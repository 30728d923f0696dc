// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package storage

import (
	"time"

	"github.com/tomtom215/storefront-recommender/internal/recommend"
)

// OutcomeKind tags how an initialize or retrain attempt ended.
type OutcomeKind int

const (
	// OutcomeFailed means no new model was swapped in.
	OutcomeFailed OutcomeKind = iota

	// OutcomeLoaded means the persisted artifact was restored.
	OutcomeLoaded

	// OutcomeTrained means a model was fitted from upstream data.
	OutcomeTrained

	// OutcomeFellBackToSynthetic means upstream data was unusable and the
	// synthetic catalog was used instead.
	OutcomeFellBackToSynthetic
)

// String returns the label used in logs and metrics.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeLoaded:
		return "loaded"
	case OutcomeTrained:
		return "trained"
	case OutcomeFellBackToSynthetic:
		return "fell_back_to_synthetic"
	default:
		return "failed"
	}
}

// Outcome reports the result of Initialize or Retrain. Failures are
// reported here instead of as returned errors.
type Outcome struct {
	Kind OutcomeKind

	// Err is the cause of a failure or of a fallback.
	Err error

	NumProducts int
	NumFeatures int
	Source      recommend.Origin
	Duration    time.Duration

	// Persisted is false when the model was swapped in but could not be saved.
	Persisted bool
}

// Swapped reports whether a new model is now being served.
//
//nolint:gocritic // value receiver keeps Outcome a plain value type
func (o Outcome) Swapped() bool {
	return o.Kind != OutcomeFailed
}
