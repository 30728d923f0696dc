// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package recommend

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"
)

// abcCatalog is the three-product fixture used across scoring tests.
func abcCatalog() []Product {
	return []Product{
		{ID: 1, Name: "A", Category: "Shirt", Price: 50, Rating: 5},
		{ID: 2, Name: "B", Category: "Shirt", Price: 55, Rating: 4},
		{ID: 3, Name: "C", Category: "Pants", Price: 50, Rating: 3},
	}
}

func mustBuild(t *testing.T, products []Product, interactions []Interaction) *Model {
	t.Helper()
	m, err := BuildModel(products, interactions, BuildOptions{MaxFeatures: 50})
	if err != nil {
		t.Fatalf("BuildModel() error = %v", err)
	}
	return m
}

func TestBuildModel(t *testing.T) {
	m := mustBuild(t, abcCatalog(), nil)

	if m.NumProducts() != 3 {
		t.Errorf("NumProducts() = %d, want 3", m.NumProducts())
	}
	if m.NumFeatures() != 2 {
		t.Errorf("NumFeatures() = %d, want 2 (pants, shirt)", m.NumFeatures())
	}
	if m.Source() != OriginUpstream {
		t.Errorf("Source() = %q, want upstream default", m.Source())
	}
	if m.TrainedAt().IsZero() {
		t.Error("TrainedAt() is zero")
	}

	mean, std := m.PriceStats()
	if math.Abs(mean-155.0/3) > 1e-9 || math.Abs(std-math.Sqrt(50.0/9)) > 1e-9 {
		t.Errorf("PriceStats() = %v, %v", mean, std)
	}

	want := map[int64][2]float64{
		1: {-1 / math.Sqrt2, 1.0},
		2: {math.Sqrt2, 0.8},
		3: {-1 / math.Sqrt2, 0.6},
	}
	for id, w := range want {
		r, ok := m.Record(id)
		if !ok {
			t.Fatalf("Record(%d) missing", id)
		}
		if math.Abs(r.PriceNorm-w[0]) > 1e-9 || math.Abs(r.RatingNorm-w[1]) > 1e-12 {
			t.Errorf("record %d norms = %v/%v, want %v/%v", id, r.PriceNorm, r.RatingNorm, w[0], w[1])
		}
		if math.Abs(r.Features.Norm()-1) > 1e-12 {
			t.Errorf("record %d feature norm = %v, want 1", id, r.Features.Norm())
		}
	}
}

func TestBuildModelEdgeCases(t *testing.T) {
	t.Run("empty catalog", func(t *testing.T) {
		if _, err := BuildModel(nil, nil, BuildOptions{}); !errors.Is(err, ErrEmptyCatalog) {
			t.Errorf("BuildModel(nil) error = %v, want ErrEmptyCatalog", err)
		}
	})

	t.Run("duplicate ids keep first", func(t *testing.T) {
		products := append(abcCatalog(), Product{ID: 1, Name: "dup", Category: "Hats", Price: 999})
		m := mustBuild(t, products, nil)
		if m.NumProducts() != 3 {
			t.Errorf("NumProducts() = %d, want 3", m.NumProducts())
		}
		if r, _ := m.Record(1); r.Product.Name != "A" {
			t.Errorf("Record(1).Name = %q, want first occurrence", r.Product.Name)
		}
	})

	t.Run("identical prices", func(t *testing.T) {
		m := mustBuild(t, []Product{
			{ID: 1, Category: "Shirt", Price: 20, Rating: 4},
			{ID: 2, Category: "Shirt", Price: 20, Rating: 4},
		}, nil)
		for _, r := range m.Records() {
			if r.PriceNorm != 0 || math.IsNaN(r.PriceNorm) {
				t.Errorf("PriceNorm = %v, want 0", r.PriceNorm)
			}
		}
	})

	t.Run("no attribute text", func(t *testing.T) {
		m := mustBuild(t, []Product{{ID: 1, Price: 10}, {ID: 2, Price: 12}}, nil)
		if m.NumFeatures() != 1 {
			t.Errorf("NumFeatures() = %d, want placeholder only", m.NumFeatures())
		}
	})

	t.Run("single product", func(t *testing.T) {
		m := mustBuild(t, []Product{{ID: 9, Category: "Shoes", Price: 80, Rating: 4}}, nil)
		if m.NumProducts() != 1 {
			t.Errorf("NumProducts() = %d", m.NumProducts())
		}
	})
}

func TestBuildHistory(t *testing.T) {
	history := BuildHistory([]Interaction{
		{UserID: 1, ProductID: 3, Type: InteractionView},
		{UserID: 2, ProductID: 1, Type: InteractionView},
		{UserID: 1, ProductID: 1, Type: InteractionPurchase},
		{UserID: 1, ProductID: 3, Type: InteractionRate},
	})
	if got := history[1]; !reflect.DeepEqual(got, []int64{3, 1}) {
		t.Errorf("history[1] = %v, want [3 1]", got)
	}
	if got := history[2]; !reflect.DeepEqual(got, []int64{1}) {
		t.Errorf("history[2] = %v, want [1]", got)
	}
}

func TestRestoreModelRoundTrip(t *testing.T) {
	trainedAt := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)
	orig, err := BuildModel(abcCatalog(), []Interaction{{UserID: 4, ProductID: 2}}, BuildOptions{
		Source:    OriginSynthetic,
		TrainedAt: trainedAt,
	})
	if err != nil {
		t.Fatal(err)
	}

	restored, err := RestoreModel(orig.Parts())
	if err != nil {
		t.Fatalf("RestoreModel() error = %v", err)
	}
	if restored.NumProducts() != orig.NumProducts() || restored.NumFeatures() != orig.NumFeatures() {
		t.Errorf("restored %d/%d, want %d/%d", restored.NumProducts(), restored.NumFeatures(),
			orig.NumProducts(), orig.NumFeatures())
	}
	if !restored.TrainedAt().Equal(trainedAt) || restored.Source() != OriginSynthetic {
		t.Errorf("restored metadata = %v/%q", restored.TrainedAt(), restored.Source())
	}
	if !reflect.DeepEqual(restored.History(4), []int64{2}) {
		t.Errorf("History(4) = %v", restored.History(4))
	}

	scorer := NewScorer(DefaultConfig())
	a, _ := scorer.Similar(orig, 1, nil, 2)
	b, _ := scorer.Similar(restored, 1, nil, 2)
	for i := range a {
		if a[i].ProductID != b[i].ProductID || a[i].Score() != b[i].Score() {
			t.Errorf("result %d differs after restore: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestRestoreModelRejectsInconsistentParts(t *testing.T) {
	base := func() ModelParts {
		m, _ := BuildModel(abcCatalog(), nil, BuildOptions{})
		return m.Parts()
	}

	tests := []struct {
		name   string
		mutate func(p *ModelParts)
	}{
		{"no records", func(p *ModelParts) { p.Records = nil }},
		{"idf length mismatch", func(p *ModelParts) { p.IDF = p.IDF[:1] }},
		{"non-positive std", func(p *ModelParts) { p.PriceStd = 0 }},
		{"duplicate product", func(p *ModelParts) {
			p.Records = append(append([]ProductRecord(nil), p.Records...), p.Records[0])
		}},
		{"feature index out of range", func(p *ModelParts) {
			recs := append([]ProductRecord(nil), p.Records...)
			recs[0].Features = SparseVector{Indices: []int{99}, Values: []float64{1}}
			p.Records = recs
		}},
		{"malformed features", func(p *ModelParts) {
			recs := append([]ProductRecord(nil), p.Records...)
			recs[1].Features = SparseVector{Indices: []int{0, 1}, Values: []float64{1}}
			p.Records = recs
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := base()
			tt.mutate(&parts)
			if _, err := RestoreModel(parts); err == nil {
				t.Error("RestoreModel() error = nil")
			}
		})
	}
}
