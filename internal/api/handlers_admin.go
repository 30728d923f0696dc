// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package api

import (
	"net/http"

	"github.com/tomtom215/storefront-recommender/internal/logging"
	"github.com/tomtom215/storefront-recommender/internal/validation"
)

// RetrainResponse acknowledges a background retrain.
type RetrainResponse struct {
	Message string `json:"message"`
	Days    int    `json:"days"`
	Status  string `json:"status"`
}

// CacheClearResponse reports how many cached entries were deleted.
type CacheClearResponse struct {
	Message string `json:"message"`
	Deleted int    `json:"deleted"`
}

// CacheStatsResponse is the body of GET /api/cache/stats.
type CacheStatsResponse struct {
	Enabled     bool    `json:"enabled"`
	Backend     string  `json:"backend,omitempty"`
	MemoryUsage string  `json:"memory_usage,omitempty"`
	MemoryBytes int64   `json:"memory_bytes"`
	Keys        int64   `json:"keys"`
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	HitRate     float64 `json:"hit_rate"`
}

// Retrain handles POST /api/retrain. The retrain runs in the background and
// the request returns 202 immediately, or 503 once the scheduler is shutting
// down.
func (h *Handler) Retrain(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", h.config.TrainingDays)
	if err != nil {
		WriteBadRequest(w, r, err.Error())
		return
	}
	req := validation.RetrainQuery{Days: days}
	if !h.validateRequest(w, r, &req) {
		return
	}

	if err := h.retrainer.Trigger(req.Days); err != nil {
		h.logger.Warn().Err(err).Int("days", req.Days).Msg("Retrain request rejected")
		NewResponseWriter(w, r).ServiceUnavailable("Retrain scheduler is shutting down")
		return
	}
	h.audit.LogRetrainRequested(r.Context(), req.Days, clientIP(r), r.UserAgent())

	NewResponseWriter(w, r).Accepted(RetrainResponse{
		Message: "Model retraining initiated",
		Days:    req.Days,
		Status:  "in_progress",
	})
}

// CacheClear handles POST /api/cache/clear.
func (h *Handler) CacheClear(w http.ResponseWriter, r *http.Request) {
	if !h.recommender.CacheStatus(r.Context()).Enabled {
		WriteSuccess(w, r, CacheClearResponse{Message: "Cache is disabled", Deleted: 0})
		return
	}

	deleted, err := h.recommender.PurgeCache(r.Context())
	h.audit.LogCacheCleared(r.Context(), deleted, clientIP(r), r.UserAgent(), err)
	if err != nil {
		WriteError(w, r, http.StatusServiceUnavailable, ErrCodeCacheUnavailable, "Cache backend unavailable")
		return
	}

	WriteSuccess(w, r, CacheClearResponse{Message: "Cache cleared", Deleted: deleted})
}

// CacheStats handles GET /api/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.recommender.CacheStats(r.Context())
	if err != nil {
		logger := logging.Decorate(r.Context(), h.logger)
		logger.Warn().Err(err).Msg("cache stats failed")
		WriteError(w, r, http.StatusServiceUnavailable, ErrCodeCacheUnavailable, "Cache backend unavailable")
		return
	}
	if stats == nil {
		WriteSuccess(w, r, CacheStatsResponse{Enabled: false})
		return
	}

	WriteSuccess(w, r, CacheStatsResponse{
		Enabled:     true,
		Backend:     stats.Backend,
		MemoryUsage: stats.MemoryHuman,
		MemoryBytes: stats.MemoryBytes,
		Keys:        stats.Keys,
		Hits:        stats.Hits,
		Misses:      stats.Misses,
		HitRate:     stats.HitRate(),
	})
}
