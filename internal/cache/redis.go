// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tomtom215/storefront-recommender/internal/breaker"
)

// BackendRedis is the name of the redis backend.
const BackendRedis = "redis"

// scanBatch is the COUNT hint used when walking a key prefix.
const scanBatch = 500

// RedisConfig holds connection settings for NewRedis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// Timeout bounds every individual redis call.
	Timeout time.Duration
}

// Redis is a Store backed by a redis server. Every call runs through a
// circuit breaker and a per-operation timeout, so a slow or down redis
// degrades to cache misses instead of stalling requests.
type Redis struct {
	client  redis.UniversalClient
	cb      *breaker.Breaker[[]byte]
	timeout time.Duration
	logger  zerolog.Logger
}

// NewRedis connects to redis. The connection is verified with PING; a
// failed ping is logged but does not prevent startup.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRedis(ctx context.Context, cfg RedisConfig, logger zerolog.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})
	r := NewRedisFromClient(client, cfg.Timeout, logger)

	if err := r.Ping(ctx); err != nil {
		r.logger.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis not reachable at startup, cache will degrade to misses")
	} else {
		r.logger.Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("Redis cache connected")
	}
	return r
}

// NewRedisFromClient wraps an existing client.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRedisFromClient(client redis.UniversalClient, timeout time.Duration, logger zerolog.Logger) *Redis {
	if timeout <= 0 {
		timeout = 200 * time.Millisecond
	}
	settings := breaker.DefaultSettings("redis-cache")
	settings.Timeout = 30 * time.Second
	settings.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, redis.Nil)
	}
	return &Redis{
		client:  client,
		cb:      breaker.New[[]byte](settings),
		timeout: timeout,
		logger:  logger.With().Str("component", "cache-redis").Logger(),
	}
}

// Get returns the value for key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	data, err := r.cb.Execute(func() ([]byte, error) {
		return r.client.Get(ctx, key).Bytes()
	})
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, unavailable("get", err)
	}
	return data, nil
}

// Set stores value for ttl.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.cb.Execute(func() ([]byte, error) {
		return nil, r.client.Set(ctx, key, value, ttl).Err()
	})
	if err != nil {
		return unavailable("set", err)
	}
	return nil
}

// DeletePrefix walks the prefix with SCAN and unlinks matches in batches.
// The whole walk shares one budget of ten operation timeouts.
func (r *Redis) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*r.timeout)
	defer cancel()

	deleted := 0
	_, err := r.cb.Execute(func() ([]byte, error) {
		iter := r.client.Scan(ctx, 0, escapeGlob(prefix)+"*", scanBatch).Iterator()
		batch := make([]string, 0, scanBatch)
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			n, err := r.client.Unlink(ctx, batch...).Result()
			if err != nil {
				return err
			}
			deleted += int(n)
			batch = batch[:0]
			return nil
		}
		for iter.Next(ctx) {
			batch = append(batch, iter.Val())
			if len(batch) >= scanBatch {
				if err := flush(); err != nil {
					return nil, err
				}
			}
		}
		if err := iter.Err(); err != nil {
			return nil, err
		}
		return nil, flush()
	})
	if err != nil {
		return deleted, unavailable("delete prefix", err)
	}
	return deleted, nil
}

// Stats reads memory and keyspace counters from INFO. Keys is the size of
// the selected database.
func (r *Redis) Stats(ctx context.Context) (Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var info string
	var keys int64
	_, err := r.cb.Execute(func() ([]byte, error) {
		var err error
		if info, err = r.client.Info(ctx, "memory", "stats").Result(); err != nil {
			return nil, err
		}
		keys, err = r.client.DBSize(ctx).Result()
		return nil, err
	})
	if err != nil {
		return Stats{Backend: BackendRedis}, unavailable("stats", err)
	}

	fields := parseInfo(info)
	used, _ := strconv.ParseInt(fields["used_memory"], 10, 64)
	hits, _ := strconv.ParseInt(fields["keyspace_hits"], 10, 64)
	misses, _ := strconv.ParseInt(fields["keyspace_misses"], 10, 64)
	evicted, _ := strconv.ParseInt(fields["evicted_keys"], 10, 64)
	human := fields["used_memory_human"]
	if human == "" {
		human = HumanBytes(used)
	}

	return Stats{
		Backend:     BackendRedis,
		Keys:        keys,
		MemoryBytes: used,
		MemoryHuman: human,
		Hits:        hits,
		Misses:      misses,
		Evictions:   evicted,
	}, nil
}

// Ping checks connectivity without going through the breaker, so health
// checks report the real state while the circuit is open.
func (r *Redis) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.client.Ping(ctx).Err(); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Backend returns "redis".
func (r *Redis) Backend() string { return BackendRedis }

// Close closes the client.
func (r *Redis) Close() error {
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("close redis client: %w", err)
	}
	return nil
}

// parseInfo turns INFO output into a field map, skipping section headers.
func parseInfo(info string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if k, v, ok := strings.Cut(line, ":"); ok {
			fields[k] = v
		}
	}
	return fields
}

// escapeGlob escapes redis MATCH metacharacters in a literal prefix.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\', '^':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
