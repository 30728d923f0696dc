// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithKoanf_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 8001 {
		t.Errorf("Server.Port = %d, want 8001", cfg.Server.Port)
	}
	if cfg.Recommend.ModelPath != "models/recommender_model.json" {
		t.Errorf("Recommend.ModelPath = %q", cfg.Recommend.ModelPath)
	}
	if cfg.Recommend.BackendURL != "http://localhost:8000" {
		t.Errorf("Recommend.BackendURL = %q", cfg.Recommend.BackendURL)
	}
	if cfg.Recommend.TrainingDays != 90 {
		t.Errorf("Recommend.TrainingDays = %d, want 90", cfg.Recommend.TrainingDays)
	}
	if cfg.Recommend.DefaultN != 5 || cfg.Recommend.MaxN != 100 {
		t.Errorf("DefaultN/MaxN = %d/%d, want 5/100", cfg.Recommend.DefaultN, cfg.Recommend.MaxN)
	}
	if cfg.Schedule.Cron != "0 2 * * *" {
		t.Errorf("Schedule.Cron = %q", cfg.Schedule.Cron)
	}
	if cfg.Cache.Backend != CacheBackendMemory {
		t.Errorf("Cache.Backend = %q, want memory", cfg.Cache.Backend)
	}
	if cfg.Cache.ProductTTL != time.Hour || cfg.Cache.PopularTTL != 30*time.Minute || cfg.Cache.PersonalizedTTL != 10*time.Minute {
		t.Errorf("cache TTLs = %v/%v/%v", cfg.Cache.ProductTTL, cfg.Cache.PopularTTL, cfg.Cache.PersonalizedTTL)
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("PORT", "9100")
	t.Setenv("BACKEND_URL", "https://catalog.internal:8443")
	t.Setenv("TRAINING_DAYS", "30")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("CACHE_POPULAR_TTL", "5m")
	t.Setenv("CORS_ORIGINS", "https://shop.example.com, https://admin.example.com")
	t.Setenv("RETRAIN_ENABLED", "false")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Recommend.BackendURL != "https://catalog.internal:8443" {
		t.Errorf("Recommend.BackendURL = %q", cfg.Recommend.BackendURL)
	}
	if cfg.Recommend.TrainingDays != 30 {
		t.Errorf("Recommend.TrainingDays = %d, want 30", cfg.Recommend.TrainingDays)
	}
	if cfg.Cache.Backend != CacheBackendRedis || cfg.Cache.Redis.Addr != "redis:6379" {
		t.Errorf("cache backend = %q addr = %q", cfg.Cache.Backend, cfg.Cache.Redis.Addr)
	}
	if cfg.Cache.PopularTTL != 5*time.Minute {
		t.Errorf("Cache.PopularTTL = %v, want 5m", cfg.Cache.PopularTTL)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://admin.example.com" {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Schedule.Enabled {
		t.Error("Schedule.Enabled = true, want false")
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
recommend:
  training_days: 14
  max_history_seeds: 5
schedule:
  cron: "30 3 * * *"
  timezone: UTC
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("TRAINING_DAYS", "21")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	// Environment wins over the file
	if cfg.Recommend.TrainingDays != 21 {
		t.Errorf("Recommend.TrainingDays = %d, want 21", cfg.Recommend.TrainingDays)
	}
	if cfg.Recommend.MaxHistorySeeds != 5 {
		t.Errorf("Recommend.MaxHistorySeeds = %d, want 5", cfg.Recommend.MaxHistorySeeds)
	}
	if cfg.Schedule.Cron != "30 3 * * *" || cfg.Schedule.Timezone != "UTC" {
		t.Errorf("Schedule = %+v", cfg.Schedule)
	}
}

func TestLoadWithKoanf_InvalidValueFails(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("RETRAIN_CRON", "every day")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("LoadWithKoanf() error = nil, want cron validation error")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"PORT", "server.port"},
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"MODEL_PATH", "recommend.model_path"},
		{"RETRAIN_TIMEZONE", "schedule.timezone"},
		{"REDIS_ADDR", "cache.redis.addr"},
		{"BADGER_IN_MEMORY", "cache.badger.in_memory"},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := envTransformFunc(tt.key); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
