// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package api

import (
	"net/http"

	"github.com/tomtom215/storefront-recommender/internal/recommend"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "ml-recommender"

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string                `json:"status"`
	Service string                `json:"service"`
	Model   ModelHealth           `json:"model"`
	Cache   recommend.CacheStatus `json:"cache"`

	// UpstreamBreaker is the catalog API circuit state, when known.
	UpstreamBreaker string `json:"upstream_breaker,omitempty"`
}

// ModelHealth summarizes the loaded model.
type ModelHealth struct {
	Status      string `json:"status"`
	NumProducts int    `json:"num_products"`
}

// Health handles GET /health. The process always reports healthy while it
// can serve; model and cache state are informational.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	info := h.models.Info()
	WriteSuccess(w, r, HealthResponse{
		Status:  "healthy",
		Service: ServiceName,
		Model: ModelHealth{
			Status:      info.Status,
			NumProducts: info.NumProducts,
		},
		Cache:           h.recommender.CacheStatus(r.Context()),
		UpstreamBreaker: info.UpstreamBreaker,
	})
}

// ModelInfo handles GET /api/model/info.
func (h *Handler) ModelInfo(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, h.models.Info())
}
