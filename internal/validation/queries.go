// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package validation

// Query parameter bounds.
const (
	MinN       = 1
	MaxN       = 100
	MinDays    = 1
	MaxDays    = 3650
	MaxAttrLen = 100
)

// ProductQuery is GET /api/recommendations/product/{id}.
type ProductQuery struct {
	ID       int64  `query:"id" validate:"min=1"`
	N        int    `query:"n" validate:"min=1,max=100"`
	Category string `query:"category" validate:"omitempty,max=100,attr"`
	Gender   string `query:"gender" validate:"omitempty,max=100,attr"`
	Size     string `query:"size" validate:"omitempty,max=100,attr"`
	Color    string `query:"color" validate:"omitempty,max=100,attr"`
	Material string `query:"material" validate:"omitempty,max=100,attr"`
}

// UserQuery is GET /api/recommendations/user/{id}.
type UserQuery struct {
	ID int64 `query:"id" validate:"min=1"`
	N  int   `query:"n" validate:"min=1,max=100"`
}

// PopularQuery is GET /api/recommendations/popular.
type PopularQuery struct {
	N int `query:"n" validate:"min=1,max=100"`
}

// RetrainQuery is POST /api/retrain.
type RetrainQuery struct {
	Days int `query:"days" validate:"min=1,max=3650"`
}
