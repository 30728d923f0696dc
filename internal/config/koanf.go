// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/storefront-recommender/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8001,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     300,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Recommend: RecommendConfig{
			ModelPath:          "models/recommender_model.json",
			BackendURL:         "http://localhost:8000",
			TrainingDays:       90,
			FetchTimeout:       30 * time.Second,
			FetchRatePerSecond: 1,
			MaxFeatures:        50,
			DefaultN:           5,
			MaxN:               100,
			MaxHistorySeeds:    0, // 0 = every interacted product seeds the personalized query
			SyntheticSeed:      42,
		},
		Schedule: ScheduleConfig{
			Enabled:  true,
			Cron:     "0 2 * * *", // daily at 2 AM
			Timezone: "Local",
			Timeout:  30 * time.Minute,
		},
		Cache: CacheConfig{
			Enabled:         true,
			Backend:         CacheBackendMemory,
			Namespace:       "recommend:",
			ProductTTL:      time.Hour,
			PopularTTL:      30 * time.Minute,
			PersonalizedTTL: 10 * time.Minute,
			Redis: RedisConfig{
				Addr:    "localhost:6379",
				DB:      0,
				Timeout: 200 * time.Millisecond,
			},
			Badger: BadgerConfig{
				Path:     "data/cache",
				InMemory: false,
			},
		},
	}
}

// LoadWithKoanf loads configuration from layered sources:
//  1. Defaults
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak in.
var envMappings = map[string]string{
	// Server
	"port":             "server.port",
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Recommender
	"model_path":              "recommend.model_path",
	"backend_url":             "recommend.backend_url",
	"training_days":           "recommend.training_days",
	"fetch_timeout":           "recommend.fetch_timeout",
	"fetch_rate_per_second":   "recommend.fetch_rate_per_second",
	"max_features":            "recommend.max_features",
	"default_recommendations": "recommend.default_n",
	"max_recommendations":     "recommend.max_n",
	"max_history_seeds":       "recommend.max_history_seeds",
	"synthetic_seed":          "recommend.synthetic_seed",

	// Retrain schedule
	"retrain_enabled":  "schedule.enabled",
	"retrain_cron":     "schedule.cron",
	"retrain_timezone": "schedule.timezone",
	"retrain_timeout":  "schedule.timeout",

	// Cache
	"cache_enabled":          "cache.enabled",
	"cache_backend":          "cache.backend",
	"cache_namespace":        "cache.namespace",
	"cache_product_ttl":      "cache.product_ttl",
	"cache_popular_ttl":      "cache.popular_ttl",
	"cache_personalized_ttl": "cache.personalized_ttl",
	"redis_addr":             "cache.redis.addr",
	"redis_password":         "cache.redis.password",
	"redis_db":               "cache.redis.db",
	"redis_timeout":          "cache.redis.timeout",
	"badger_path":            "cache.badger.path",
	"badger_in_memory":       "cache.badger.in_memory",
}

// envTransformFunc maps an environment variable name to its koanf path.
//
// Examples:
//   - PORT -> server.port
//   - CACHE_BACKEND -> cache.backend
//   - RETRAIN_CRON -> schedule.cron
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
