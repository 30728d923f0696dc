// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package recommend

import (
	"fmt"
)

// Config contains the scoring and query parameters of the engine.
type Config struct {
	// MaxFeatures caps the TF-IDF vocabulary.
	MaxFeatures int `json:"max_features"`

	// Weights combine the score components.
	Weights Weights `json:"weights"`

	// FilterBoost multiplies the score of products matching a preference filter.
	FilterBoost float64 `json:"filter_boost"`

	// MaxHistorySeeds caps how many interacted products seed a personalized
	// query. Zero means every interacted product is used.
	MaxHistorySeeds int `json:"max_history_seeds"`

	// SeedConcurrency bounds the goroutines scoring seeds of one personalized query.
	SeedConcurrency int `json:"seed_concurrency"`
}

// Weights are the coefficients of the similarity score.
//
//	score = Similarity*cosine + Price*priceProximity + Rating*ratingNorm
type Weights struct {
	Similarity float64 `json:"similarity"`
	Price      float64 `json:"price"`
	Rating     float64 `json:"rating"`
}

// DefaultConfig returns the production scoring parameters.
func DefaultConfig() Config {
	return Config{
		MaxFeatures: 50,
		Weights: Weights{
			Similarity: 0.7,
			Price:      0.2,
			Rating:     0.2,
		},
		FilterBoost:     1.3,
		MaxHistorySeeds: 0,
		SeedConcurrency: 4,
	}
}

// Validate checks the configuration for out-of-range values.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (c Config) Validate() error {
	if c.MaxFeatures < 1 {
		return fmt.Errorf("max_features must be positive, got %d", c.MaxFeatures)
	}
	if c.Weights.Similarity < 0 || c.Weights.Price < 0 || c.Weights.Rating < 0 {
		return fmt.Errorf("weights must be non-negative, got %+v", c.Weights)
	}
	if c.FilterBoost <= 0 {
		return fmt.Errorf("filter_boost must be positive, got %f", c.FilterBoost)
	}
	if c.MaxHistorySeeds < 0 {
		return fmt.Errorf("max_history_seeds must be non-negative, got %d", c.MaxHistorySeeds)
	}
	if c.SeedConcurrency < 1 {
		return fmt.Errorf("seed_concurrency must be positive, got %d", c.SeedConcurrency)
	}
	return nil
}
