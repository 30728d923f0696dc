// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/tomtom215/storefront-recommender/internal/config"
	"github.com/tomtom215/storefront-recommender/internal/logging"
	"github.com/tomtom215/storefront-recommender/internal/metrics"
)

// Rate limit groups. Each route group has its own per-IP budget and its
// own label on api_rate_limit_hits_total.
const (
	GroupAPI    = "api"
	GroupHealth = "health"
	GroupAdmin  = "admin"
)

// Limit is a per-IP request budget.
type Limit struct {
	Requests int
	Window   time.Duration
}

// MiddlewareConfig configures CORS and the per-group rate limits.
type MiddlewareConfig struct {
	// CORSOrigins lists allowed origins. Empty allows none.
	CORSOrigins []string

	// Limits holds the budget of each group. Groups missing here use the
	// GroupAPI budget.
	Limits map[string]Limit

	// RateLimitDisabled turns every limiter into a pass-through.
	RateLimitDisabled bool

	// KeyFunc identifies a client. Default: httprate.KeyByIP.
	KeyFunc httprate.KeyFunc
}

// DefaultMiddlewareConfig returns the defaults: no CORS origins, a
// permissive health budget so monitoring can poll, and a tight admin budget
// because retrains and purges are expensive.
func DefaultMiddlewareConfig() MiddlewareConfig {
	return MiddlewareConfig{
		Limits: map[string]Limit{
			GroupAPI:    {Requests: 300, Window: time.Minute},
			GroupHealth: {Requests: 1000, Window: time.Minute},
			GroupAdmin:  {Requests: 10, Window: time.Minute},
		},
	}
}

// MiddlewareConfigFromSecurity applies the security section of the service
// configuration to the defaults. The configured budget applies to GroupAPI.
func MiddlewareConfigFromSecurity(sec config.SecurityConfig) MiddlewareConfig {
	cfg := DefaultMiddlewareConfig()
	cfg.CORSOrigins = sec.CORSOrigins
	cfg.Limits[GroupAPI] = Limit{Requests: sec.RateLimitReqs, Window: sec.RateLimitWindow}
	cfg.RateLimitDisabled = sec.RateLimitDisabled
	return cfg
}

// ChiMiddleware provides Chi-compatible middleware factories.
type ChiMiddleware struct {
	config MiddlewareConfig
	cors   func(http.Handler) http.Handler
	audit  *logging.AuditLogger
}

// NewChiMiddleware creates the middleware factory. Rejected requests are
// written to the audit log through logger.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewChiMiddleware(cfg MiddlewareConfig, logger zerolog.Logger) *ChiMiddleware {
	if cfg.Limits == nil {
		cfg.Limits = DefaultMiddlewareConfig().Limits
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = httprate.KeyByIP
	}

	return &ChiMiddleware{
		config: cfg,
		cors: cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         86400,
		}),
		audit: logging.NewAuditLogger(logger),
	}
}

// CORS returns the go-chi/cors middleware. It must be global so OPTIONS
// preflights reach it before routing.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// limitFor returns the budget of group.
func (m *ChiMiddleware) limitFor(group string) Limit {
	if l, ok := m.config.Limits[group]; ok {
		return l
	}
	return m.config.Limits[GroupAPI]
}

// RateLimit returns the httprate limiter of a route group.
func (m *ChiMiddleware) RateLimit(group string) func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	l := m.limitFor(group)
	return httprate.Limit(
		l.Requests,
		l.Window,
		httprate.WithKeyFuncs(m.config.KeyFunc),
		httprate.WithLimitHandler(m.rateLimitExceeded(group)),
	)
}

// rateLimitExceeded writes the JSON 429 body, counts the rejection and
// records it in the audit log.
func (m *ChiMiddleware) rateLimitExceeded(group string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics.APIRateLimitHits.WithLabelValues(group).Inc()
		m.audit.LogRateLimited(r.Context(), group, clientIP(r), r.URL.Path)
		NewResponseWriter(w, r).TooManyRequests("Rate limit exceeded, retry later")
	}
}

// APISecurityHeaders sets the response hardening headers. HSTS is only sent
// when the request arrived over TLS, directly or through a proxy that set
// X-Forwarded-Proto.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
