// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package source

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/tomtom215/storefront-recommender/internal/recommend"
)

// Synthetic catalog shape.
const (
	SyntheticProducts = 100
	SyntheticUsers    = 200
)

var (
	syntheticCategories = []string{"T-Shirts", "Jeans", "Jackets", "Shoes", "Dresses", "Sweaters"}
	syntheticGenders    = []string{"M", "W", "U"}
	syntheticColors     = []string{"Black", "Blue", "Red", "White", "Green", "Navy"}
	syntheticMaterials  = []string{"Cotton", "Polyester", "Denim", "Wool", "Silk", "Linen"}
	syntheticSizes      = []string{"XS", "S", "M", "L", "XL", "XXL"}
)

// SyntheticFetcher serves the synthetic catalog as training data.
type SyntheticFetcher struct {
	Seed int64
}

// Fetch returns the synthetic catalog. days only spreads interaction timestamps.
func (f SyntheticFetcher) Fetch(ctx context.Context, days int) (*recommend.TrainingData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return generate(f.Seed, days, time.Now().UTC()), nil
}

// Synthetic generates a deterministic clothing catalog of 100 products and
// 200 users, each with 2-15 distinct interactions.
func Synthetic(seed int64) *recommend.TrainingData {
	return generate(seed, 90, time.Now().UTC())
}

//nolint:gocritic // now passed by value like every time.Time
func generate(seed int64, days int, now time.Time) *recommend.TrainingData {
	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)) //nolint:gosec // deterministic fixture data
	if days < 1 {
		days = 1
	}

	pick := func(values []string) string { return values[r.IntN(len(values))] }

	products := make([]recommend.Product, SyntheticProducts)
	for i := range products {
		category := pick(syntheticCategories)
		gender := pick(syntheticGenders)
		color := pick(syntheticColors)
		material := pick(syntheticMaterials)
		size := pick(syntheticSizes)

		products[i] = recommend.Product{
			ID:       int64(i + 1),
			Name:     fmt.Sprintf("%s %s %s", color, material, category),
			Category: category,
			Gender:   gender,
			Color:    color,
			Material: material,
			Size:     size,
			Price:    math.Round((20+r.Float64()*180)*100) / 100,
			Rating:   math.Round((3+r.Float64()*2)*10) / 10,
			Stock:    r.IntN(100),
		}
	}

	window := time.Duration(days) * 24 * time.Hour
	interactions := make([]recommend.Interaction, 0, SyntheticUsers*8)
	for u := 1; u <= SyntheticUsers; u++ {
		count := 2 + r.IntN(14)
		for _, idx := range r.Perm(SyntheticProducts)[:count] {
			in := recommend.Interaction{
				UserID:    int64(u),
				ProductID: int64(idx + 1),
				Type:      syntheticType(r.Float64()),
				Timestamp: now.Add(-time.Duration(r.Int64N(int64(window)))),
			}
			if r.Float64() > 0.7 {
				rating := 1 + r.IntN(5)
				in.Rating = &rating
			}
			interactions = append(interactions, in)
		}
	}

	return &recommend.TrainingData{
		Products:     products,
		Interactions: interactions,
		Source:       recommend.OriginSynthetic,
	}
}

// syntheticType maps a uniform draw to view 0.5, purchase 0.3, rate 0.2.
func syntheticType(p float64) recommend.InteractionType {
	switch {
	case p < 0.5:
		return recommend.InteractionView
	case p < 0.8:
		return recommend.InteractionPurchase
	default:
		return recommend.InteractionRate
	}
}
