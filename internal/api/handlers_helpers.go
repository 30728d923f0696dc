// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package api

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/storefront-recommender/internal/logging"
	"github.com/tomtom215/storefront-recommender/internal/validation"
)

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// clientIP returns the client address without its port. RealIP has already
// replaced RemoteAddr when a proxy header was present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return sanitizeLogValue(r.RemoteAddr)
	}
	return host
}

// queryInt reads an integer query parameter, returning def when it is absent.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}

// pathID reads a positive integer path parameter.
func pathID(r *http.Request, key string) (int64, error) {
	raw := chi.URLParam(r, key)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}

// validateRequest validates a query struct and writes the 400 response on
// failure. It reports whether the handler may continue.
func (h *Handler) validateRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if verr := validation.Validate(v); verr != nil {
		apiErr := verr.ToAPIError()
		NewResponseWriter(w, r).ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// checkMaxN enforces the configured cap, which may be tighter than the
// validation bound.
func (h *Handler) checkMaxN(w http.ResponseWriter, r *http.Request, n int) bool {
	if n > h.config.MaxN {
		NewResponseWriter(w, r).ValidationError(
			fmt.Sprintf("n must be at most %d", h.config.MaxN),
			map[string]interface{}{"field": "n", "tag": "max", "value": n},
		)
		return false
	}
	return true
}

// respondServiceError maps recommender errors to HTTP responses and logs
// the ones that are not an expected degraded state.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if NewResponseWriter(w, r).ServiceError(err) {
		return
	}
	logger := logging.Decorate(r.Context(), h.logger)
	logger.Error().
		Str("path", sanitizeLogValue(r.URL.Path)).
		Str("error", sanitizeLogValue(err.Error())).
		Msg("recommendation request failed")
}
