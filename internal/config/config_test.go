// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "PORT"},
		{name: "port too high", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "PORT"},
		{name: "rate limit zero", mutate: func(c *Config) { c.Security.RateLimitReqs = 0 }, wantErr: "RATE_LIMIT_REQUESTS"},
		{
			name: "rate limit ignored when disabled",
			mutate: func(c *Config) {
				c.Security.RateLimitDisabled = true
				c.Security.RateLimitReqs = 0
			},
		},
		{name: "window too small", mutate: func(c *Config) { c.Security.RateLimitWindow = time.Millisecond }, wantErr: "RATE_LIMIT_WINDOW"},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantErr: "LOG_LEVEL"},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "LOG_FORMAT"},
		{name: "empty model path", mutate: func(c *Config) { c.Recommend.ModelPath = " " }, wantErr: "MODEL_PATH"},
		{name: "backend url scheme", mutate: func(c *Config) { c.Recommend.BackendURL = "ftp://catalog" }, wantErr: "BACKEND_URL"},
		{name: "backend url path", mutate: func(c *Config) { c.Recommend.BackendURL = "http://catalog/api" }, wantErr: "BACKEND_URL"},
		{name: "backend url query", mutate: func(c *Config) { c.Recommend.BackendURL = "http://catalog?x=1" }, wantErr: "BACKEND_URL"},
		{name: "backend url trailing slash", mutate: func(c *Config) { c.Recommend.BackendURL = "http://catalog:8000/" }},
		{name: "training days zero", mutate: func(c *Config) { c.Recommend.TrainingDays = 0 }, wantErr: "TRAINING_DAYS"},
		{name: "training days too many", mutate: func(c *Config) { c.Recommend.TrainingDays = MaxTrainingDays + 1 }, wantErr: "TRAINING_DAYS"},
		{name: "default n above max", mutate: func(c *Config) { c.Recommend.DefaultN = 500 }, wantErr: "DEFAULT_RECOMMENDATIONS"},
		{name: "negative seeds", mutate: func(c *Config) { c.Recommend.MaxHistorySeeds = -1 }, wantErr: "MAX_HISTORY_SEEDS"},
		{name: "fetch rate zero", mutate: func(c *Config) { c.Recommend.FetchRatePerSecond = 0 }, wantErr: "FETCH_RATE_PER_SECOND"},
		{name: "bad cron", mutate: func(c *Config) { c.Schedule.Cron = "61 * * * *" }, wantErr: "RETRAIN_CRON"},
		{name: "bad timezone", mutate: func(c *Config) { c.Schedule.Timezone = "Mars/Olympus" }, wantErr: "RETRAIN_TIMEZONE"},
		{
			name: "schedule ignored when disabled",
			mutate: func(c *Config) {
				c.Schedule.Enabled = false
				c.Schedule.Cron = "nonsense"
			},
		},
		{name: "unknown cache backend", mutate: func(c *Config) { c.Cache.Backend = "memcached" }, wantErr: "CACHE_BACKEND"},
		{
			name: "redis without addr",
			mutate: func(c *Config) {
				c.Cache.Backend = CacheBackendRedis
				c.Cache.Redis.Addr = ""
			},
			wantErr: "REDIS_ADDR",
		},
		{
			name: "redis addr without port",
			mutate: func(c *Config) {
				c.Cache.Backend = CacheBackendRedis
				c.Cache.Redis.Addr = "redis"
			},
			wantErr: "REDIS_ADDR",
		},
		{
			name: "redis addr port out of range",
			mutate: func(c *Config) {
				c.Cache.Backend = CacheBackendRedis
				c.Cache.Redis.Addr = "redis:70000"
			},
			wantErr: "REDIS_ADDR",
		},
		{
			name: "badger in memory needs no path",
			mutate: func(c *Config) {
				c.Cache.Backend = CacheBackendBadger
				c.Cache.Badger.Path = ""
				c.Cache.Badger.InMemory = true
			},
		},
		{name: "zero ttl", mutate: func(c *Config) { c.Cache.PopularTTL = 0 }, wantErr: "TTL"},
		{
			name: "cache ignored when disabled",
			mutate: func(c *Config) {
				c.Cache.Enabled = false
				c.Cache.Backend = "bogus"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() error = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestHasWildcardCORS(t *testing.T) {
	cfg := defaultConfig()
	if !cfg.HasWildcardCORS() {
		t.Error("default CORS origins should be a wildcard")
	}
	cfg.Security.CORSOrigins = []string{"https://shop.example.com"}
	if cfg.HasWildcardCORS() {
		t.Error("explicit origin list reported as wildcard")
	}
}
