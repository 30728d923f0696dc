// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/storefront-recommender/internal/cache"
	"github.com/tomtom215/storefront-recommender/internal/recommend"
	"github.com/tomtom215/storefront-recommender/internal/recommend/storage"
)

// staticModels serves a fixed model to the engine and the info endpoint.
type staticModels struct {
	model   *recommend.Model
	breaker string
}

func (s *staticModels) Current() *recommend.Model { return s.model }

func (s *staticModels) Info() storage.Info {
	if s.model == nil {
		return storage.Info{Status: storage.StatusNotTrained, ModelPath: "models/test.json", UpstreamBreaker: s.breaker}
	}
	trainedAt := s.model.TrainedAt()
	mean, std := s.model.PriceStats()
	return storage.Info{
		Status:          storage.StatusTrained,
		NumProducts:     s.model.NumProducts(),
		NumFeatures:     s.model.NumFeatures(),
		NumUsers:        s.model.NumUsers(),
		PriceMean:       mean,
		PriceStd:        std,
		Version:         s.model.Version(),
		ModelPath:       "models/test.json",
		Source:          s.model.Source(),
		TrainedAt:       &trainedAt,
		UpstreamBreaker: s.breaker,
	}
}

// recordingTrigger records retrain requests.
type recordingTrigger struct {
	mu   sync.Mutex
	days []int
	err  error
}

func (r *recordingTrigger) Trigger(days int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.days = append(r.days, days)
	return nil
}

func (r *recordingTrigger) calls() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.days...)
}

// fixtureProducts has ratings 4.5, 5.0, 3.0, 5.0, 4.0 so the top two
// popular products are 2 and 4.
func fixtureProducts() []recommend.Product {
	return []recommend.Product{
		{ID: 1, Name: "Classic Tee", Category: "T-Shirts", Gender: "M", Color: "Black", Material: "Cotton", Size: "M", Price: 25, Rating: 4.5},
		{ID: 2, Name: "Slim Jeans", Category: "Jeans", Gender: "W", Color: "Blue", Material: "Denim", Size: "S", Price: 80, Rating: 5.0},
		{ID: 3, Name: "Rain Jacket", Category: "Jackets", Gender: "U", Color: "Navy", Material: "Polyester", Size: "L", Price: 150, Rating: 3.0},
		{ID: 4, Name: "Linen Tee", Category: "T-Shirts", Gender: "W", Color: "White", Material: "Linen", Size: "S", Price: 30, Rating: 5.0},
		{ID: 5, Name: "Wool Sweater", Category: "Sweaters", Gender: "W", Color: "Red", Material: "Wool", Size: "M", Price: 90, Rating: 4.0},
	}
}

func fixtureModel(t *testing.T) *recommend.Model {
	t.Helper()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	interactions := []recommend.Interaction{
		{UserID: 7, ProductID: 2, Type: recommend.InteractionPurchase, Timestamp: at},
		{UserID: 7, ProductID: 4, Type: recommend.InteractionView, Timestamp: at},
	}
	m, err := recommend.BuildModel(fixtureProducts(), interactions, recommend.BuildOptions{
		MaxFeatures: 50,
		Source:      recommend.OriginSynthetic,
		TrainedAt:   at,
	})
	if err != nil {
		t.Fatalf("BuildModel() error = %v", err)
	}
	return m
}

type testEnv struct {
	handler *Handler
	models  *staticModels
	trigger *recordingTrigger
	cache   *cache.Memory
	router  http.Handler
}

// newTestEnv wires a real engine and service behind the handler. A nil
// model leaves the engine without a loaded model.
func newTestEnv(t *testing.T, model *recommend.Model, cacheEnabled bool, cfg HandlerConfig) *testEnv {
	t.Helper()

	models := &staticModels{model: model}
	engine, err := recommend.NewEngine(models, recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	env := &testEnv{models: models, trigger: &recordingTrigger{}}
	svcCfg := recommend.DefaultServiceConfig()
	var store cache.Store
	if cacheEnabled {
		env.cache = cache.NewMemory(time.Minute)
		t.Cleanup(func() { _ = env.cache.Close() })
		store = env.cache
		svcCfg.Enabled = true
	}
	svc := recommend.NewService(engine, store, svcCfg, zerolog.Nop())

	env.handler = NewHandler(svc, models, env.trigger, cfg, zerolog.Nop())
	mwCfg := DefaultMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	env.router = NewRouter(env.handler, NewChiMiddleware(mwCfg, zerolog.Nop())).Setup()
	return env
}

func (e *testEnv) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return body
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, rec)
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected error object, got %v", body)
	}
	code, _ := errObj["code"].(string)
	return code
}

// stubRecommender returns canned errors for paths the real service cannot
// easily reach.
type stubRecommender struct {
	statsErr error
	purgeErr error
	status   recommend.CacheStatus
}

func (s *stubRecommender) ByProduct(context.Context, int64, recommend.Filters, int) ([]recommend.Recommendation, error) {
	return nil, nil
}

func (s *stubRecommender) ForUser(context.Context, int64, int) (*recommend.UserRecommendations, error) {
	return &recommend.UserRecommendations{Strategy: recommend.StrategyPopularFallback}, nil
}

func (s *stubRecommender) Popular(context.Context, int) ([]recommend.Recommendation, error) {
	return nil, nil
}

func (s *stubRecommender) PurgeCache(context.Context) (int, error) { return 0, s.purgeErr }

func (s *stubRecommender) CacheStatus(context.Context) recommend.CacheStatus { return s.status }

func (s *stubRecommender) CacheStats(context.Context) (*cache.Stats, error) {
	return nil, s.statsErr
}
