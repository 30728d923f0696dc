// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package logging

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// AuditEvent is an administrative or abuse-relevant event: retrains, cache
// purges and rate limit rejections.
type AuditEvent struct {
	// Event is the type of event (e.g., "retrain_requested", "cache_cleared").
	Event string
	// IPAddress is the client's IP address.
	IPAddress string
	// UserAgent is the client's user agent (truncated).
	UserAgent string
	// Success indicates if the operation was successful.
	Success bool
	// Error is the error message if the operation failed.
	Error string
	// Details contains additional sanitized details.
	Details map[string]string
}

// AuditLogger writes audit events with request and correlation IDs from the
// context. Values are sanitized before they are logged.
type AuditLogger struct {
	logger zerolog.Logger
}

// NewAuditLogger creates an audit logger on top of logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAuditLogger(logger zerolog.Logger) *AuditLogger {
	return &AuditLogger{
		logger: logger.With().Str("component", "audit").Logger(),
	}
}

// LogEvent logs an audit event with automatic sanitization.
func (l *AuditLogger) LogEvent(ctx context.Context, event *AuditEvent) {
	logger := Decorate(ctx, l.logger)

	var e *zerolog.Event
	if event.Success {
		e = logger.Info().Str("status", "success")
	} else {
		e = logger.Warn().Str("status", "failed")
	}
	e = e.Str("event", event.Event)

	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.UserAgent != "" {
		e = e.Str("user_agent", truncateString(event.UserAgent, 100))
	}
	if event.Error != "" && !event.Success {
		e = e.Str("error", SanitizeError(event.Error))
	}
	for k, v := range event.Details {
		e = e.Str(k, SanitizeValue(k, v))
	}

	e.Msg("")
}

// LogRetrainRequested logs a manual retrain request.
func (l *AuditLogger) LogRetrainRequested(ctx context.Context, days int, ip, userAgent string) {
	l.LogEvent(ctx, &AuditEvent{
		Event:     "retrain_requested",
		IPAddress: ip,
		UserAgent: userAgent,
		Success:   true,
		Details:   map[string]string{"days": strconv.Itoa(days)},
	})
}

// LogCacheCleared logs a manual cache purge and its result.
func (l *AuditLogger) LogCacheCleared(ctx context.Context, deleted int, ip, userAgent string, err error) {
	event := &AuditEvent{
		Event:     "cache_cleared",
		IPAddress: ip,
		UserAgent: userAgent,
		Success:   err == nil,
		Details:   map[string]string{"deleted": strconv.Itoa(deleted)},
	}
	if err != nil {
		event.Error = err.Error()
	}
	l.LogEvent(ctx, event)
}

// LogRateLimited logs a request rejected by a rate limiter.
func (l *AuditLogger) LogRateLimited(ctx context.Context, group, ip, path string) {
	l.LogEvent(ctx, &AuditEvent{
		Event:     "rate_limited",
		IPAddress: ip,
		Success:   false,
		Error:     "rate limit exceeded",
		Details:   map[string]string{"group": group, "path": truncateString(path, 200)},
	})
}

// ============================================================
// Sanitization Helpers
// ============================================================

// SanitizeToken masks a secret, showing only first and last 4 characters.
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeURL masks the password in a URL such as redis://:password@host.
func SanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}

// SanitizeError removes potentially sensitive information from error messages.
func SanitizeError(err string) string {
	sensitivePatterns := []string{
		"password",
		"secret",
		"token",
		"authorization",
		"noauth",
		"wrongpass",
	}

	lowerErr := strings.ToLower(err)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(lowerErr, pattern) {
			return "credential error"
		}
	}

	return truncateString(err, 200)
}

// SanitizeValue sanitizes a value based on its key name.
func SanitizeValue(key, value string) string {
	sensitiveKeys := map[string]bool{
		"token":         true,
		"password":      true,
		"secret":        true,
		"api_key":       true,
		"authorization": true,
	}

	lowerKey := strings.ToLower(key)
	if sensitiveKeys[lowerKey] {
		return SanitizeToken(value)
	}
	if strings.HasSuffix(lowerKey, "url") || strings.HasSuffix(lowerKey, "addr") {
		return SanitizeURL(value)
	}
	return value
}

// truncateString truncates a string to a maximum length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
