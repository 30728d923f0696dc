// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package recommend

import (
	"time"
)

// InteractionType classifies a user-product event exported by the catalog.
type InteractionType string

const (
	InteractionView             InteractionType = "view"
	InteractionAddToCart        InteractionType = "add_to_cart"
	InteractionPurchase         InteractionType = "purchase"
	InteractionRate             InteractionType = "rate"
	InteractionPaymentConfirmed InteractionType = "payment_confirmed"
	InteractionPaymentFailed    InteractionType = "payment_failed"
)

// Valid reports whether t is one of the known interaction types.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionView, InteractionAddToCart, InteractionPurchase,
		InteractionRate, InteractionPaymentConfirmed, InteractionPaymentFailed:
		return true
	}
	return false
}

// DefaultRating is assumed for products the catalog exports without one.
const DefaultRating = 3.5

// MaxRating is the top of the catalog's 0 to 5 rating scale.
const MaxRating = 5.0

// Product is a catalog item as consumed by the recommender.
type Product struct {
	// ID is the catalog's stable product identifier.
	ID int64 `json:"id"`

	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`

	// Price is non-negative.
	Price float64 `json:"price"`

	// Rating is the average review score on a 0-5 scale.
	Rating float64 `json:"rating"`

	// Attribute fields. Any of them may be empty.
	Gender   string `json:"gender,omitempty"`
	Size     string `json:"size,omitempty"`
	Color    string `json:"color,omitempty"`
	Material string `json:"material,omitempty"`

	Stock int `json:"stock"`
}

// Interaction is a single user-product event. The recommender only reads
// interactions; it never writes them back.
type Interaction struct {
	UserID    int64           `json:"user_id"`
	ProductID int64           `json:"product_id"`
	Type      InteractionType `json:"interaction_type"`

	// Rating is the explicit 1-5 score, present only for some events.
	Rating *int `json:"rating,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// Recommendation is one ranked product in a query result.
type Recommendation struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Gender    string  `json:"gender,omitempty"`
	Color     string  `json:"color,omitempty"`
	Price     float64 `json:"price"`
	Rating    float64 `json:"rating"`

	// SimilarityScore is nil for popularity results.
	SimilarityScore *float64 `json:"similarity_score,omitempty"`
}

// Score returns the similarity score, or 0 when the result carries none.
func (r *Recommendation) Score() float64 {
	if r.SimilarityScore == nil {
		return 0
	}
	return *r.SimilarityScore
}

// Strategy tags how a per-user result was produced.
type Strategy string

const (
	// StrategyPersonalized merges similarity results seeded by the user's history.
	StrategyPersonalized Strategy = "personalized"

	// StrategyPopularFallback is used for users with no recorded interactions.
	StrategyPopularFallback Strategy = "popular_fallback"
)

// UserRecommendations is the result of a per-user query.
type UserRecommendations struct {
	Strategy Strategy         `json:"strategy"`
	Items    []Recommendation `json:"recommendations"`
}

// Origin records where a model's training data came from.
type Origin string

const (
	OriginUpstream  Origin = "upstream"
	OriginSynthetic Origin = "synthetic"
)

// Filters are exact-match attribute preferences that boost matching products.
// Keys outside the known attribute set are ignored.
type Filters map[string]string

// Known filter keys.
const (
	FilterCategory = "category"
	FilterGender   = "gender"
	FilterSize     = "size"
	FilterColor    = "color"
	FilterMaterial = "material"
	FilterName     = "name"
)

// attribute returns the product's value for a filter key.
func attribute(p *Product, key string) (string, bool) {
	switch key {
	case FilterCategory:
		return p.Category, true
	case FilterGender:
		return p.Gender, true
	case FilterSize:
		return p.Size, true
	case FilterColor:
		return p.Color, true
	case FilterMaterial:
		return p.Material, true
	case FilterName:
		return p.Name, true
	default:
		return "", false
	}
}

// TrainingData is one snapshot of catalog products and interactions used
// to fit a model.
type TrainingData struct {
	Products     []Product     `json:"products"`
	Interactions []Interaction `json:"interactions"`
	Source       Origin        `json:"source"`
}
