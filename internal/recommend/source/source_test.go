// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/storefront-recommender/internal/recommend"
)

const samplePayload = `{
  "products": [
    {"id": 1, "name": "Slim Jeans", "category": "Jeans", "price": "49.90", "rating": 4.5, "gender": "M", "color": "Blue"},
    {"product_id": 2, "name": "Linen Shirt", "category": "Shirts", "price": 30, "gender": "W"},
    {"name": "no id", "category": "Shoes", "price": 10},
    {"id": 3, "name": "Boots", "category": "Shoes", "price": 120.5, "rating": "3.9", "stock": 4}
  ],
  "interactions": [
    {"user_id": 7, "product_id": 1, "interaction_type": "view", "timestamp": "2026-01-02T10:00:00Z"},
    {"user_id": 7, "product_id": 2, "interaction_type": "purchase", "rating": 5, "timestamp": "2026-01-03T10:00:00Z"},
    {"user_id": 8, "product_id": 3, "interaction_type": "wishlist", "timestamp": "2026-01-03T10:00:00Z"}
  ],
  "metadata": {"days": 90, "generated_at": "2026-01-04T00:00:00Z"}
}`

func TestClientFetch(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products/training_data/" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer server.Close()

	c, err := NewClient(ClientConfig{BaseURL: server.URL + "/", Timeout: time.Second}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	data, err := c.Fetch(context.Background(), 30)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if gotQuery != "days=30&format=json" {
		t.Errorf("query = %q", gotQuery)
	}
	if data.Source != recommend.OriginUpstream {
		t.Errorf("Source = %q", data.Source)
	}

	if len(data.Products) != 3 {
		t.Fatalf("products = %d, want 3 (row without id dropped)", len(data.Products))
	}
	tests := []struct {
		id     int64
		price  float64
		rating float64
	}{
		{1, 49.90, 4.5},
		{2, 30, recommend.DefaultRating},
		{3, 120.5, 3.9},
	}
	for i, tt := range tests {
		p := data.Products[i]
		if p.ID != tt.id || p.Price != tt.price || p.Rating != tt.rating {
			t.Errorf("product[%d] = id %d price %v rating %v, want %d %v %v",
				i, p.ID, p.Price, p.Rating, tt.id, tt.price, tt.rating)
		}
	}

	if len(data.Interactions) != 2 {
		t.Fatalf("interactions = %d, want 2 (unknown type dropped)", len(data.Interactions))
	}
	if r := data.Interactions[1].Rating; r == nil || *r != 5 {
		t.Errorf("interaction rating = %v, want 5", r)
	}
	if ts := data.Interactions[0].Timestamp; !ts.Equal(time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("timestamp = %v", ts)
	}
}

func TestClientFetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		}},
		{"bad price", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"products":[{"id":1,"price":"cheap"}]}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			c, err := NewClient(ClientConfig{BaseURL: server.URL}, zerolog.Nop())
			if err != nil {
				t.Fatal(err)
			}
			if _, err := c.Fetch(context.Background(), 90); !errors.Is(err, recommend.ErrUpstreamFetch) {
				t.Errorf("Fetch() error = %v, want ErrUpstreamFetch", err)
			}
		})
	}
}

func TestClientBreakerOpens(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c, err := NewClient(ClientConfig{BaseURL: server.URL}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		_, _ = c.Fetch(context.Background(), 90)
	}
	if c.BreakerState() != "open" {
		t.Fatalf("BreakerState() = %q, want open", c.BreakerState())
	}

	before := atomic.LoadInt32(&hits)
	if _, err := c.Fetch(context.Background(), 90); !errors.Is(err, recommend.ErrUpstreamFetch) {
		t.Errorf("Fetch() with open breaker error = %v", err)
	}
	if atomic.LoadInt32(&hits) != before {
		t.Error("open breaker still reached the backend")
	}
}

func TestClientRateLimitHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"products":[],"interactions":[]}`))
	}))
	defer server.Close()

	c, err := NewClient(ClientConfig{BaseURL: server.URL, RatePerSecond: 0.001}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Fetch(context.Background(), 90); err != nil {
		t.Fatalf("first Fetch() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.Fetch(ctx, 90); !errors.Is(err, recommend.ErrUpstreamFetch) {
		t.Errorf("throttled Fetch() error = %v, want ErrUpstreamFetch", err)
	}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8000", "://bad"} {
		if _, err := NewClient(ClientConfig{BaseURL: raw}, zerolog.Nop()); err == nil {
			t.Errorf("NewClient(%q) error = nil", raw)
		}
	}
}

func TestFlexFloat(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{`12.5`, 12.5, false},
		{`"12.50"`, 12.5, false},
		{`" 7 "`, 7, false},
		{`null`, 0, false},
		{`""`, 0, false},
		{`"abc"`, 0, true},
	}
	for _, tt := range tests {
		var f flexFloat
		err := json.Unmarshal([]byte(tt.in), &f)
		if (err != nil) != tt.wantErr {
			t.Errorf("Unmarshal(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && float64(f) != tt.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.in, f, tt.want)
		}
	}
}

func TestToTrainingDataRejectsOutOfRangeValues(t *testing.T) {
	const body = `{
  "products": [
    {"id": 1, "name": "Tee", "category": "Shirts", "price": 20, "rating": 4},
    {"id": 2, "name": "Refund Line", "category": "Shirts", "price": "-15.00", "rating": 4},
    {"id": 3, "name": "Hype", "category": "Shirts", "price": 30, "rating": 11},
    {"id": 4, "name": "Sunk", "category": "Shirts", "price": 30, "rating": -0.5},
    {"id": 5, "name": "Unpriced", "category": "Shirts", "price": "NaN"},
    {"id": 6, "name": "Freebie", "category": "Shirts", "price": 0, "rating": 0},
    {"id": 7, "name": "Top", "category": "Shirts", "price": 10, "rating": "5.0"}
  ],
  "interactions": [
    {"user_id": 1, "product_id": 1, "interaction_type": "rate", "rating": 5},
    {"user_id": 1, "product_id": 6, "interaction_type": "rate", "rating": 9},
    {"user_id": 2, "product_id": 7, "interaction_type": "rate", "rating": -1},
    {"user_id": 2, "product_id": 7, "interaction_type": "view"}
  ]
}`
	var payload trainingPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	data, skipped := payload.toTrainingData()
	if skipped != 6 {
		t.Errorf("skipped = %d, want 6", skipped)
	}
	var ids []int64
	for _, p := range data.Products {
		ids = append(ids, p.ID)
		if p.Price < 0 || p.Rating < 0 || p.Rating > recommend.MaxRating {
			t.Errorf("product %d kept with price %v rating %v", p.ID, p.Price, p.Rating)
		}
	}
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 6 || ids[2] != 7 {
		t.Errorf("product ids = %v, want [1 6 7]", ids)
	}
	if len(data.Interactions) != 2 {
		t.Errorf("interactions = %d, want 2", len(data.Interactions))
	}
}

func TestSynthetic(t *testing.T) {
	data := Synthetic(42)
	if data.Source != recommend.OriginSynthetic {
		t.Errorf("Source = %q", data.Source)
	}
	if len(data.Products) != SyntheticProducts {
		t.Fatalf("products = %d", len(data.Products))
	}

	for _, p := range data.Products {
		if p.Price < 20 || p.Price > 200 {
			t.Errorf("product %d price %v out of range", p.ID, p.Price)
		}
		if p.Rating < 3 || p.Rating > 5 {
			t.Errorf("product %d rating %v out of range", p.ID, p.Rating)
		}
		if p.Category == "" || p.Gender == "" || p.Color == "" || p.Material == "" || p.Size == "" {
			t.Errorf("product %d missing attributes: %+v", p.ID, p)
		}
	}

	perUser := make(map[int64]map[int64]bool)
	for _, in := range data.Interactions {
		if perUser[in.UserID] == nil {
			perUser[in.UserID] = make(map[int64]bool)
		}
		if perUser[in.UserID][in.ProductID] {
			t.Errorf("user %d interacted with product %d twice", in.UserID, in.ProductID)
		}
		perUser[in.UserID][in.ProductID] = true
		if !in.Type.Valid() {
			t.Errorf("invalid interaction type %q", in.Type)
		}
	}
	if len(perUser) != SyntheticUsers {
		t.Errorf("users = %d, want %d", len(perUser), SyntheticUsers)
	}
	for u, items := range perUser {
		if len(items) < 2 || len(items) > 15 {
			t.Errorf("user %d has %d interactions, want 2-15", u, len(items))
		}
	}
}

func TestSyntheticDeterministic(t *testing.T) {
	a, b := Synthetic(42), Synthetic(42)
	for i := range a.Products {
		if a.Products[i] != b.Products[i] {
			t.Fatalf("product %d differs between runs with the same seed", i)
		}
	}
	if len(a.Interactions) != len(b.Interactions) {
		t.Errorf("interaction counts differ: %d vs %d", len(a.Interactions), len(b.Interactions))
	}

	c := Synthetic(7)
	if a.Products[0] == c.Products[0] && a.Products[1] == c.Products[1] {
		t.Error("different seeds produced the same catalog")
	}
}

func TestSyntheticFetcherBuildsModel(t *testing.T) {
	data, err := SyntheticFetcher{Seed: 42}.Fetch(context.Background(), 90)
	if err != nil {
		t.Fatal(err)
	}
	m, err := recommend.BuildModel(data.Products, data.Interactions, recommend.BuildOptions{Source: data.Source})
	if err != nil {
		t.Fatalf("BuildModel() error = %v", err)
	}
	if m.NumProducts() != SyntheticProducts || m.NumUsers() != SyntheticUsers {
		t.Errorf("model = %d products / %d users", m.NumProducts(), m.NumUsers())
	}
}
