// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateSchedule(); err != nil {
		return err
	}

	return c.validateCache()
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateSecurity validates rate limiting bounds. Disabled rate limiting
// skips the checks entirely.
func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// HasWildcardCORS reports whether any origin is allowed.
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// Recommender limits
const (
	// MaxTrainingDays bounds the recency window accepted from config and from
	// the retrain endpoint.
	MaxTrainingDays = 3650
	maxFeatureCap   = 10000
)

// validateRecommend validates model, upstream and query settings
func (c *Config) validateRecommend() error {
	r := c.Recommend
	if strings.TrimSpace(r.ModelPath) == "" {
		return fmt.Errorf("MODEL_PATH is required")
	}
	if err := validateBackendURL(r.BackendURL); err != nil {
		return fmt.Errorf("BACKEND_URL is invalid: %w", err)
	}
	if r.TrainingDays < 1 || r.TrainingDays > MaxTrainingDays {
		return fmt.Errorf("TRAINING_DAYS must be between 1 and %d", MaxTrainingDays)
	}
	if r.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if r.FetchRatePerSecond <= 0 {
		return fmt.Errorf("FETCH_RATE_PER_SECOND must be positive")
	}
	if r.MaxFeatures < 1 || r.MaxFeatures > maxFeatureCap {
		return fmt.Errorf("MAX_FEATURES must be between 1 and %d", maxFeatureCap)
	}
	if r.MaxN < 1 {
		return fmt.Errorf("MAX_RECOMMENDATIONS must be at least 1")
	}
	if r.DefaultN < 1 || r.DefaultN > r.MaxN {
		return fmt.Errorf("DEFAULT_RECOMMENDATIONS must be between 1 and MAX_RECOMMENDATIONS (%d)", r.MaxN)
	}
	if r.MaxHistorySeeds < 0 {
		return fmt.Errorf("MAX_HISTORY_SEEDS must not be negative")
	}
	return nil
}

// validateSchedule validates the retrain schedule (only if enabled)
func (c *Config) validateSchedule() error {
	if !c.Schedule.Enabled {
		return nil
	}
	if _, err := cron.ParseStandard(c.Schedule.Cron); err != nil {
		return fmt.Errorf("RETRAIN_CRON is invalid: %w", err)
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("RETRAIN_TIMEZONE is invalid: %w", err)
	}
	if c.Schedule.Timeout <= 0 {
		return fmt.Errorf("RETRAIN_TIMEOUT must be positive")
	}
	return nil
}

// validateCache validates cache backend settings (only if enabled)
func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}

	switch c.Cache.Backend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
		}
		if err := validateHostPort(c.Cache.Redis.Addr); err != nil {
			return fmt.Errorf("REDIS_ADDR is invalid: %w", err)
		}
		if c.Cache.Redis.DB < 0 {
			return fmt.Errorf("REDIS_DB must not be negative")
		}
	case CacheBackendBadger:
		if !c.Cache.Badger.InMemory && c.Cache.Badger.Path == "" {
			return fmt.Errorf("BADGER_PATH is required when CACHE_BACKEND=badger")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of: memory, redis, badger")
	}

	if c.Cache.Namespace == "" {
		return fmt.Errorf("CACHE_NAMESPACE is required")
	}
	if c.Cache.ProductTTL <= 0 || c.Cache.PopularTTL <= 0 || c.Cache.PersonalizedTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	return nil
}

// validateBackendURL checks the storefront backend base URL. The client
// appends the training-data path itself, so only a bare http(s) origin is
// accepted.
func validateBackendURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	if u.Path != "" && u.Path != "/" {
		return fmt.Errorf("remove path %q, the training-data path is added by the client", u.Path)
	}
	if u.RawQuery != "" {
		return fmt.Errorf("remove query parameters ?%s", u.RawQuery)
	}
	return nil
}

// validateHostPort checks a redis address of the form host:port.
func validateHostPort(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	if host == "" {
		return fmt.Errorf("host is required")
	}
	p, err := strconv.Atoi(port)
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %q", port)
	}
	return nil
}
