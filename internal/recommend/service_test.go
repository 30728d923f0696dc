// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/storefront-recommender/internal/cache"
)

// brokenCache fails every operation like an unreachable backend.
type brokenCache struct {
	mu   sync.Mutex
	sets int
}

func (b *brokenCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, fmt.Errorf("%w: connection refused", cache.ErrUnavailable)
}

func (b *brokenCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	b.mu.Lock()
	b.sets++
	b.mu.Unlock()
	return fmt.Errorf("%w: connection refused", cache.ErrUnavailable)
}

func (b *brokenCache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	return 0, fmt.Errorf("%w: connection refused", cache.ErrUnavailable)
}

func (b *brokenCache) Stats(ctx context.Context) (cache.Stats, error) {
	return cache.Stats{}, fmt.Errorf("%w: connection refused", cache.ErrUnavailable)
}

func (b *brokenCache) Ping(ctx context.Context) error {
	return fmt.Errorf("%w: connection refused", cache.ErrUnavailable)
}

func (b *brokenCache) Backend() string { return "broken" }
func (b *brokenCache) Close() error    { return nil }

func newTestService(t *testing.T, store cache.Store) (*Service, *staticModels) {
	t.Helper()
	models := &staticModels{m: mustBuild(t, storeCatalog(), storeInteractions())}
	e, err := NewEngine(models, DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return NewService(e, store, DefaultServiceConfig(), zerolog.Nop()), models
}

func TestServiceCachesPerModel(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemory(time.Minute)
	svc, models := newTestService(t, mem)

	first, err := svc.Popular(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Popular(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if stats, _ := mem.Stats(ctx); stats.Hits != 1 {
		t.Errorf("cache hits = %d, want 1", stats.Hits)
	}

	// A new model is served immediately, before any purge.
	models.set(mustBuild(t, abcCatalog(), nil))

	fresh, err := svc.Popular(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if fresh[0].ProductID != 1 || fresh[1].ProductID != 2 {
		t.Errorf("Popular() after swap = %+v, want the new catalog (A, B), not %+v", fresh, first)
	}

	deleted, err := svc.PurgeCache(ctx)
	if err != nil || deleted != 2 {
		t.Fatalf("PurgeCache() = %d, %v, want 2", deleted, err)
	}
}

func TestServiceFilterSeparatorsDoNotShareEntries(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, cache.NewMemory(time.Minute))

	if _, err := svc.ByProduct(ctx, 3, Filters{FilterGender: "W", FilterSize: "L"}, 3); err != nil {
		t.Fatal(err)
	}

	forged := Filters{FilterGender: "W:size=L"}
	got, err := svc.ByProduct(ctx, 3, forged, 3)
	if err != nil {
		t.Fatal(err)
	}
	want, err := svc.engine.ByProduct(ctx, 3, forged, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("ByProduct() = %d items, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ProductID != want[i].ProductID || got[i].Score() != want[i].Score() {
			t.Errorf("item %d = %d (%.4f), want %d (%.4f)",
				i, got[i].ProductID, got[i].Score(), want[i].ProductID, want[i].Score())
		}
	}
}

// purgingCache swaps the model and purges the namespace inside the first
// Set, the way a retrain finishing mid-request would.
type purgingCache struct {
	*cache.Memory
	once  sync.Once
	onSet func()
}

func (p *purgingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	p.once.Do(p.onSet)
	return p.Memory.Set(ctx, key, value, ttl)
}

func TestServiceSwapDuringWriteIsNotServed(t *testing.T) {
	ctx := context.Background()
	store := &purgingCache{Memory: cache.NewMemory(time.Minute)}
	svc, models := newTestService(t, store)
	next := mustBuild(t, abcCatalog(), nil)
	store.onSet = func() {
		models.set(next)
		if _, err := svc.PurgeCache(ctx); err != nil {
			t.Errorf("PurgeCache() error = %v", err)
		}
	}

	if _, err := svc.Popular(ctx, 1); err != nil {
		t.Fatal(err)
	}
	got, err := svc.Popular(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ProductID != 1 {
		t.Errorf("Popular() after swap = %+v, want product 1 from the new model", got)
	}
}

// swapAfterSnapshot serves old on the first Current call and next after.
type swapAfterSnapshot struct {
	mu        sync.Mutex
	old, next *Model
	calls     int
}

func (s *swapAfterSnapshot) Current() *Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls == 1 {
		return s.old
	}
	return s.next
}

func TestServiceSkipsWriteWhenModelReplacedDuringCompute(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemory(time.Minute)
	models := &swapAfterSnapshot{
		old:  mustBuild(t, storeCatalog(), storeInteractions()),
		next: mustBuild(t, abcCatalog(), nil),
	}
	e, err := NewEngine(models, DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService(e, mem, DefaultServiceConfig(), zerolog.Nop())

	if _, err := svc.Popular(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if stats, _ := mem.Stats(ctx); stats.Keys != 0 {
		t.Errorf("cached keys = %d, want 0 for a result of a replaced model", stats.Keys)
	}
}

func TestModelVersionsAreUnique(t *testing.T) {
	a := mustBuild(t, abcCatalog(), nil)
	b := mustBuild(t, abcCatalog(), nil)
	if a.Version() == "" || a.Version() == b.Version() {
		t.Errorf("versions %q and %q, want distinct non-empty", a.Version(), b.Version())
	}
}

func TestServiceKeysSeparateQueries(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemory(time.Minute)
	svc, _ := newTestService(t, mem)

	_, _ = svc.ByProduct(ctx, 1, nil, 3)
	_, _ = svc.ByProduct(ctx, 1, Filters{FilterColor: "Blue"}, 3)
	_, _ = svc.ByProduct(ctx, 1, nil, 4)
	_, _ = svc.ForUser(ctx, 10, 3)
	_, _ = svc.Popular(ctx, 3)

	stats, _ := mem.Stats(ctx)
	if stats.Keys != 5 {
		t.Errorf("cached keys = %d, want 5 distinct entries", stats.Keys)
	}
	if stats.Hits != 0 {
		t.Errorf("hits = %d, want 0", stats.Hits)
	}
}

func TestServiceRoundTripsUserResult(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, cache.NewMemory(time.Minute))

	a, err := svc.ForUser(ctx, 10, 3)
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.ForUser(ctx, 10, 3)
	if err != nil {
		t.Fatal(err)
	}
	if a.Strategy != b.Strategy || len(a.Items) != len(b.Items) {
		t.Fatalf("cached result differs: %+v vs %+v", a, b)
	}
	for i := range a.Items {
		if a.Items[i].ProductID != b.Items[i].ProductID || a.Items[i].Score() != b.Items[i].Score() {
			t.Errorf("item %d differs: %+v vs %+v", i, a.Items[i], b.Items[i])
		}
	}
}

func TestServiceDegradesOnCacheFailure(t *testing.T) {
	ctx := context.Background()
	broken := &brokenCache{}
	svc, _ := newTestService(t, broken)

	recs, err := svc.ByProduct(ctx, 1, nil, 3)
	if err != nil || len(recs) != 3 {
		t.Errorf("ByProduct() = %d items, %v", len(recs), err)
	}
	if _, err := svc.ForUser(ctx, 10, 3); err != nil {
		t.Errorf("ForUser() error = %v", err)
	}
	if broken.sets != 2 {
		t.Errorf("Set attempts = %d, want 2", broken.sets)
	}

	if _, err := svc.PurgeCache(ctx); !errors.Is(err, cache.ErrUnavailable) {
		t.Errorf("PurgeCache() error = %v, want ErrUnavailable", err)
	}
	status := svc.CacheStatus(ctx)
	if !status.Enabled || status.Available || status.Backend != "broken" {
		t.Errorf("CacheStatus() = %+v", status)
	}
}

func TestServiceWithoutCache(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)

	if _, err := svc.Popular(ctx, 2); err != nil {
		t.Errorf("Popular() error = %v", err)
	}
	if n, err := svc.PurgeCache(ctx); n != 0 || err != nil {
		t.Errorf("PurgeCache() = %d, %v", n, err)
	}
	if stats, err := svc.CacheStats(ctx); stats != nil || err != nil {
		t.Errorf("CacheStats() = %v, %v, want nil", stats, err)
	}
	if status := svc.CacheStatus(ctx); status.Enabled {
		t.Errorf("CacheStatus() = %+v, want disabled", status)
	}
}

func TestServiceDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemory(time.Minute)
	models := &staticModels{}
	e, _ := NewEngine(models, DefaultConfig(), zerolog.Nop())
	svc := NewService(e, mem, DefaultServiceConfig(), zerolog.Nop())

	if _, err := svc.Popular(ctx, 2); !errors.Is(err, ErrModelNotReady) {
		t.Fatalf("Popular() error = %v, want ErrModelNotReady", err)
	}
	stats, _ := mem.Stats(ctx)
	if stats.Keys != 0 {
		t.Errorf("cached keys = %d after error, want 0", stats.Keys)
	}
}
