// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package source

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/storefront-recommender/internal/recommend"
)

// trainingPayload is the backend's training data export.
type trainingPayload struct {
	Products     []wireProduct     `json:"products"`
	Interactions []wireInteraction `json:"interactions"`
	Metadata     json.RawMessage   `json:"metadata,omitempty"`
}

// wireProduct accepts both id and product_id, and numeric or string decimals.
type wireProduct struct {
	ID          *int64     `json:"id"`
	ProductID   *int64     `json:"product_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Price       flexFloat  `json:"price"`
	Rating      *flexFloat `json:"rating"`
	Gender      string     `json:"gender"`
	Size        string     `json:"size"`
	Color       string     `json:"color"`
	Material    string     `json:"material"`
	Stock       int        `json:"stock"`
}

type wireInteraction struct {
	UserID    int64                     `json:"user_id"`
	ProductID int64                     `json:"product_id"`
	Type      recommend.InteractionType `json:"interaction_type"`
	Rating    *int                      `json:"rating"`
	Timestamp time.Time                 `json:"timestamp"`
}

// flexFloat decodes a JSON number, a decimal string or null.
type flexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if data[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("invalid decimal string %s: %w", s, err)
		}
		s = strings.TrimSpace(unquoted)
		if s == "" {
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid decimal %s: %w", s, err)
	}
	*f = flexFloat(v)
	return nil
}

// toTrainingData converts the wire payload, dropping products without an id,
// products with a negative or non-finite price or a rating outside 0 to 5,
// and interactions of unknown type or with an out-of-range rating. It returns
// how many rows were dropped.
func (p *trainingPayload) toTrainingData() (*recommend.TrainingData, int) {
	skipped := 0
	products := make([]recommend.Product, 0, len(p.Products))
	for i := range p.Products {
		w := &p.Products[i]
		var id int64
		switch {
		case w.ID != nil:
			id = *w.ID
		case w.ProductID != nil:
			id = *w.ProductID
		default:
			skipped++
			continue
		}

		rating := recommend.DefaultRating
		if w.Rating != nil {
			rating = float64(*w.Rating)
		}
		price := float64(w.Price)
		if !validPrice(price) || !validRating(rating) {
			skipped++
			continue
		}

		products = append(products, recommend.Product{
			ID:          id,
			Name:        w.Name,
			Description: w.Description,
			Category:    w.Category,
			Price:       price,
			Rating:      rating,
			Gender:      w.Gender,
			Size:        w.Size,
			Color:       w.Color,
			Material:    w.Material,
			Stock:       w.Stock,
		})
	}

	interactions := make([]recommend.Interaction, 0, len(p.Interactions))
	for i := range p.Interactions {
		w := &p.Interactions[i]
		if !w.Type.Valid() {
			skipped++
			continue
		}
		if w.Rating != nil && !validRating(float64(*w.Rating)) {
			skipped++
			continue
		}
		interactions = append(interactions, recommend.Interaction{
			UserID:    w.UserID,
			ProductID: w.ProductID,
			Type:      w.Type,
			Rating:    w.Rating,
			Timestamp: w.Timestamp,
		})
	}

	return &recommend.TrainingData{
		Products:     products,
		Interactions: interactions,
		Source:       recommend.OriginUpstream,
	}, skipped
}

func validPrice(p float64) bool {
	return p >= 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}

func validRating(r float64) bool {
	return r >= 0 && r <= recommend.MaxRating
}
