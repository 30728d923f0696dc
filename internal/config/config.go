// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package config

import (
	"time"
)

// Config holds all application configuration.
//
// Loading order (Koanf v2), highest priority last:
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file (config.yaml, or the path in CONFIG_PATH)
//  3. Environment variables
//
// Config is immutable after Load and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
	Schedule  ScheduleConfig  `koanf:"schedule"`
	Cache     CacheConfig     `koanf:"cache"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - PORT: listen port (default: 8001)
//   - HTTP_HOST: bind address (default: 0.0.0.0)
//   - HTTP_TIMEOUT: read/write timeout (default: 30s)
//   - SHUTDOWN_TIMEOUT: graceful shutdown budget (default: 10s)
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SecurityConfig holds CORS and rate limiting settings. The recommender has
// no authentication of its own; it is expected to sit behind the platform
// gateway.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// RecommendConfig holds model and query settings.
//
// Environment Variables:
//   - MODEL_PATH: serialized model artifact (default: models/recommender_model.json)
//   - BACKEND_URL: catalog service base URL (default: http://localhost:8000)
//   - TRAINING_DAYS: recency window for training data (default: 90)
//   - FETCH_TIMEOUT: upstream request timeout (default: 30s)
//   - FETCH_RATE_PER_SECOND: upstream request budget (default: 1)
//   - MAX_FEATURES: TF-IDF vocabulary cap (default: 50)
//   - DEFAULT_RECOMMENDATIONS: n when the query omits it (default: 5)
//   - MAX_RECOMMENDATIONS: largest accepted n (default: 100)
//   - MAX_HISTORY_SEEDS: personalized seed cap, 0 = all (default: 0)
//   - SYNTHETIC_SEED: synthetic catalog seed (default: 42)
type RecommendConfig struct {
	ModelPath          string        `koanf:"model_path"`
	BackendURL         string        `koanf:"backend_url"`
	TrainingDays       int           `koanf:"training_days"`
	FetchTimeout       time.Duration `koanf:"fetch_timeout"`
	FetchRatePerSecond float64       `koanf:"fetch_rate_per_second"`
	MaxFeatures        int           `koanf:"max_features"`
	DefaultN           int           `koanf:"default_n"`
	MaxN               int           `koanf:"max_n"`
	MaxHistorySeeds    int           `koanf:"max_history_seeds"`
	SyntheticSeed      int64         `koanf:"synthetic_seed"`
}

// ScheduleConfig holds the daily retrain schedule.
//
// Environment Variables:
//   - RETRAIN_ENABLED: run the scheduled retrain (default: true)
//   - RETRAIN_CRON: standard 5-field cron expression (default: "0 2 * * *")
//   - RETRAIN_TIMEZONE: IANA zone for the schedule (default: Local)
//   - RETRAIN_TIMEOUT: upper bound for one retrain run (default: 30m)
type ScheduleConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Cron     string        `koanf:"cron"`
	Timezone string        `koanf:"timezone"`
	Timeout  time.Duration `koanf:"timeout"`
}

// CacheConfig holds response cache settings.
//
// Environment Variables:
//   - CACHE_ENABLED: enable the response cache (default: true)
//   - CACHE_BACKEND: memory, redis, badger (default: memory)
//   - CACHE_NAMESPACE: key prefix purged on retrain (default: "recommend:")
//   - CACHE_PRODUCT_TTL / CACHE_POPULAR_TTL / CACHE_PERSONALIZED_TTL
//   - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, REDIS_TIMEOUT
//   - BADGER_PATH, BADGER_IN_MEMORY
type CacheConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Backend         string        `koanf:"backend"`
	Namespace       string        `koanf:"namespace"`
	ProductTTL      time.Duration `koanf:"product_ttl"`
	PopularTTL      time.Duration `koanf:"popular_ttl"`
	PersonalizedTTL time.Duration `koanf:"personalized_ttl"`
	Redis           RedisConfig   `koanf:"redis"`
	Badger          BadgerConfig  `koanf:"badger"`
}

// RedisConfig holds connection settings for the redis cache backend.
type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	Timeout  time.Duration `koanf:"timeout"`
}

// BadgerConfig holds settings for the embedded badger cache backend.
type BadgerConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// Cache backend names.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
	CacheBackendBadger = "badger"
)

// Load reads configuration from defaults, an optional config file and the
// environment. See LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
