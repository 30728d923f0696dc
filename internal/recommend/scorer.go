// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package recommend

import (
	"math"
	"sort"
)

// Scorer ranks catalog products by weighted similarity to a reference product.
//
//	score = w.Similarity*cosine(text) + w.Price*clamp(1-|Δz|/2, 0, 1) + w.Rating*rating/5
//
// Each preference filter that matches a product attribute exactly
// multiplies that product's score by the boost factor.
type Scorer struct {
	weights Weights
	boost   float64
}

// NewScorer creates a scorer from engine configuration.
//
//nolint:gocritic // Config is read once at construction
func NewScorer(cfg Config) *Scorer {
	return &Scorer{weights: cfg.Weights, boost: cfg.FilterBoost}
}

type scored struct {
	pos   int
	score float64
}

// Similar returns up to n products most similar to productID, excluding the
// product itself. Ties keep catalog order.
func (s *Scorer) Similar(m *Model, productID int64, filters Filters, n int) ([]Recommendation, error) {
	ref, ok := m.Record(productID)
	if !ok {
		return nil, ErrProductNotFound
	}
	if n <= 0 {
		return []Recommendation{}, nil
	}

	ranked := s.rank(m, ref, filters)
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	out := make([]Recommendation, len(ranked))
	records := m.Records()
	for i, c := range ranked {
		out[i] = similarityResult(&records[c.pos], c.score)
	}
	return out, nil
}

// Score returns the filtered score of candidate against reference.
func (s *Scorer) Score(reference, candidate *ProductRecord, filters Filters) float64 {
	sim := Cosine(reference.Features, candidate.Features)
	priceProx := clamp(1-math.Abs(reference.PriceNorm-candidate.PriceNorm)/2, 0, 1)

	score := s.weights.Similarity*sim + s.weights.Price*priceProx + s.weights.Rating*candidate.RatingNorm
	for key, want := range filters {
		if got, known := attribute(&candidate.Product, key); known && got == want {
			score *= s.boost
		}
	}
	return score
}

func (s *Scorer) rank(m *Model, ref *ProductRecord, filters Filters) []scored {
	records := m.Records()
	out := make([]scored, 0, len(records))
	for i := range records {
		if records[i].Product.ID == ref.Product.ID {
			continue
		}
		out = append(out, scored{pos: i, score: s.Score(ref, &records[i], filters)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].score > out[j].score
	})
	return out
}

func similarityResult(r *ProductRecord, score float64) Recommendation {
	return Recommendation{
		ProductID:       r.Product.ID,
		Name:            r.Product.Name,
		Category:        r.Product.Category,
		Gender:          r.Product.Gender,
		Color:           r.Product.Color,
		Price:           r.Product.Price,
		Rating:          r.Product.Rating,
		SimilarityScore: &score,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
