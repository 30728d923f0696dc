// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package api

import (
	"net/http"

	"github.com/tomtom215/storefront-recommender/internal/recommend"
	"github.com/tomtom215/storefront-recommender/internal/validation"
)

// ProductRecommendationsResponse is the body of the similar-products endpoint.
type ProductRecommendationsResponse struct {
	ProductID       int64                      `json:"product_id"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Count           int                        `json:"count"`
}

// UserRecommendationsResponse is the body of the personalized endpoint.
type UserRecommendationsResponse struct {
	UserID          int64                      `json:"user_id"`
	Strategy        recommend.Strategy         `json:"strategy"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Count           int                        `json:"count"`
}

// PopularResponse is the body of the popular-products endpoint.
type PopularResponse struct {
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Count           int                        `json:"count"`
}

// ProductRecommendations handles GET /api/recommendations/product/{id}.
// Optional gender, size, color, material and category parameters boost
// products with exactly that attribute value.
func (h *Handler) ProductRecommendations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteBadRequest(w, r, "Invalid product id: "+err.Error())
		return
	}
	n, err := queryInt(r, "n", h.config.DefaultN)
	if err != nil {
		WriteBadRequest(w, r, err.Error())
		return
	}

	q := r.URL.Query()
	req := validation.ProductQuery{
		ID:       id,
		N:        n,
		Category: q.Get(recommend.FilterCategory),
		Gender:   q.Get(recommend.FilterGender),
		Size:     q.Get(recommend.FilterSize),
		Color:    q.Get(recommend.FilterColor),
		Material: q.Get(recommend.FilterMaterial),
	}
	if !h.validateRequest(w, r, &req) || !h.checkMaxN(w, r, req.N) {
		return
	}

	recs, err := h.recommender.ByProduct(r.Context(), req.ID, productFilters(&req), req.N)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	WriteSuccess(w, r, ProductRecommendationsResponse{
		ProductID:       req.ID,
		Recommendations: nonNil(recs),
		Count:           len(recs),
	})
}

// UserRecommendations handles GET /api/recommendations/user/{id}.
func (h *Handler) UserRecommendations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteBadRequest(w, r, "Invalid user id: "+err.Error())
		return
	}
	n, err := queryInt(r, "n", h.config.DefaultN)
	if err != nil {
		WriteBadRequest(w, r, err.Error())
		return
	}

	req := validation.UserQuery{ID: id, N: n}
	if !h.validateRequest(w, r, &req) || !h.checkMaxN(w, r, req.N) {
		return
	}

	result, err := h.recommender.ForUser(r.Context(), req.ID, req.N)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	WriteSuccess(w, r, UserRecommendationsResponse{
		UserID:          req.ID,
		Strategy:        result.Strategy,
		Recommendations: nonNil(result.Items),
		Count:           len(result.Items),
	})
}

// PopularRecommendations handles GET /api/recommendations/popular.
func (h *Handler) PopularRecommendations(w http.ResponseWriter, r *http.Request) {
	n, err := queryInt(r, "n", h.config.DefaultN)
	if err != nil {
		WriteBadRequest(w, r, err.Error())
		return
	}

	req := validation.PopularQuery{N: n}
	if !h.validateRequest(w, r, &req) || !h.checkMaxN(w, r, req.N) {
		return
	}

	recs, err := h.recommender.Popular(r.Context(), req.N)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	WriteSuccess(w, r, PopularResponse{
		Recommendations: nonNil(recs),
		Count:           len(recs),
	})
}

// productFilters keeps only the attribute filters the caller set.
func productFilters(req *validation.ProductQuery) recommend.Filters {
	filters := recommend.Filters{}
	for key, value := range map[string]string{
		recommend.FilterCategory: req.Category,
		recommend.FilterGender:   req.Gender,
		recommend.FilterSize:     req.Size,
		recommend.FilterColor:    req.Color,
		recommend.FilterMaterial: req.Material,
	} {
		if value != "" {
			filters[key] = value
		}
	}
	return filters
}

// nonNil makes an empty result encode as [] rather than null.
func nonNil(recs []recommend.Recommendation) []recommend.Recommendation {
	if recs == nil {
		return []recommend.Recommendation{}
	}
	return recs
}
