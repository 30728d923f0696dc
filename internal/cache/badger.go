// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// BackendBadger is the name of the embedded badger backend.
const BackendBadger = "badger"

// gcDiscardRatio is the value log garbage ratio passed to RunValueLogGC.
const gcDiscardRatio = 0.5

// BadgerConfig holds settings for NewBadger.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in RAM (useful for tests).
	InMemory bool
}

// Badger is a Store backed by an embedded BadgerDB. Entries carry native
// badger TTLs, so expired keys are invisible to reads; Sweep reclaims
// their space from the value log.
type Badger struct {
	db     *badger.DB
	logger zerolog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewBadger opens (or creates) the badger database.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBadger(cfg BadgerConfig, logger zerolog.Logger) (*Badger, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}

	b := &Badger{
		db:     db,
		logger: logger.With().Str("component", "cache-badger").Logger(),
	}
	b.logger.Info().Str("path", cfg.Path).Bool("in_memory", cfg.InMemory).Msg("Badger cache opened")
	return b, nil
}

// Get returns the value for key.
func (b *Badger) Get(_ context.Context, key string) ([]byte, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		b.misses.Add(1)
		return nil, ErrMiss
	}
	if err != nil {
		return nil, unavailable("get", err)
	}
	b.hits.Add(1)
	return data, nil
}

// Set stores value with a native TTL.
func (b *Badger) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return unavailable("set", err)
	}
	return nil
}

// DeletePrefix counts the live keys under prefix, then drops them.
func (b *Badger) DeletePrefix(_ context.Context, prefix string) (int, error) {
	count, err := b.countPrefix([]byte(prefix))
	if err != nil {
		return 0, unavailable("delete prefix", err)
	}
	if count == 0 {
		return 0, nil
	}
	if err := b.db.DropPrefix([]byte(prefix)); err != nil {
		return 0, unavailable("delete prefix", err)
	}
	return count, nil
}

// Stats reports the on-disk size (LSM + value log) and live key count.
func (b *Badger) Stats(_ context.Context) (Stats, error) {
	keys, err := b.countPrefix(nil)
	if err != nil {
		return Stats{Backend: BackendBadger}, unavailable("stats", err)
	}
	lsm, vlog := b.db.Size()
	size := lsm + vlog
	return Stats{
		Backend:     BackendBadger,
		Keys:        int64(keys),
		MemoryBytes: size,
		MemoryHuman: HumanBytes(size),
		Hits:        b.hits.Load(),
		Misses:      b.misses.Load(),
	}, nil
}

// Sweep runs value log garbage collection until nothing is left to rewrite.
func (b *Badger) Sweep(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := b.db.RunValueLogGC(gcDiscardRatio)
		switch {
		case err == nil:
			continue
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrGCInMemoryMode):
			return nil
		default:
			return fmt.Errorf("badger value log gc: %w", err)
		}
	}
}

// Ping reports an error once the database is closed.
func (b *Badger) Ping(context.Context) error {
	if b.db.IsClosed() {
		return unavailable("ping", errors.New("database closed"))
	}
	return nil
}

// Backend returns "badger".
func (b *Badger) Backend() string { return BackendBadger }

// Close closes the database.
func (b *Badger) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("close badger cache: %w", err)
	}
	return nil
}

func (b *Badger) countPrefix(prefix []byte) (int, error) {
	count := 0
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
