// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package recommend

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// placeholderToken stands in for products with no attribute text.
const placeholderToken = "unspecified"

// priceEpsilon replaces a degenerate price standard deviation.
const priceEpsilon = 1e-9

// modelSeq numbers every model constructed by this process.
var modelSeq atomic.Uint64

// ProductRecord bundles a product with its derived features. Keeping the
// feature row on the record means no positional index can drift out of
// step with the catalog.
type ProductRecord struct {
	Product    Product      `json:"product"`
	Features   SparseVector `json:"features"`
	PriceNorm  float64      `json:"price_norm"`
	RatingNorm float64      `json:"rating_norm"`
}

// Model is a fitted, immutable snapshot of the catalog. It is shared by
// concurrent readers and replaced wholesale on retrain.
type Model struct {
	records    []ProductRecord
	index      map[int64]int
	vectorizer *Vectorizer
	priceMean  float64
	priceStd   float64
	history    map[int64][]int64
	trainedAt  time.Time
	source     Origin
	version    string
}

// BuildOptions control model construction.
type BuildOptions struct {
	MaxFeatures int
	Source      Origin
	TrainedAt   time.Time
}

// BuildModel fits a model from catalog products and interaction history.
// Duplicate product IDs keep their first occurrence. An empty catalog
// returns ErrEmptyCatalog.
func BuildModel(products []Product, interactions []Interaction, opts BuildOptions) (*Model, error) {
	unique := make([]Product, 0, len(products))
	seen := make(map[int64]struct{}, len(products))
	for i := range products {
		if _, dup := seen[products[i].ID]; dup {
			continue
		}
		seen[products[i].ID] = struct{}{}
		unique = append(unique, products[i])
	}
	if len(unique) == 0 {
		return nil, ErrEmptyCatalog
	}

	maxFeatures := opts.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = DefaultConfig().MaxFeatures
	}

	corpus := make([]string, len(unique))
	for i := range unique {
		corpus[i] = featureText(&unique[i])
	}
	vec := FitVectorizer(corpus, maxFeatures)

	mean, std := priceStats(unique)

	records := make([]ProductRecord, len(unique))
	for i := range unique {
		records[i] = ProductRecord{
			Product:    unique[i],
			Features:   vec.Transform(corpus[i]),
			PriceNorm:  (unique[i].Price - mean) / std,
			RatingNorm: unique[i].Rating / 5.0,
		}
	}

	trainedAt := opts.TrainedAt
	if trainedAt.IsZero() {
		trainedAt = time.Now().UTC()
	}
	source := opts.Source
	if source == "" {
		source = OriginUpstream
	}

	return newModel(records, vec, mean, std, BuildHistory(interactions), trainedAt, source), nil
}

// BuildHistory groups interactions by user into distinct product IDs in
// first-seen order.
func BuildHistory(interactions []Interaction) map[int64][]int64 {
	history := make(map[int64][]int64)
	seen := make(map[int64]map[int64]struct{})
	for i := range interactions {
		in := &interactions[i]
		userSeen, ok := seen[in.UserID]
		if !ok {
			userSeen = make(map[int64]struct{})
			seen[in.UserID] = userSeen
		}
		if _, dup := userSeen[in.ProductID]; dup {
			continue
		}
		userSeen[in.ProductID] = struct{}{}
		history[in.UserID] = append(history[in.UserID], in.ProductID)
	}
	return history
}

// ModelParts is the exported state of a model, used for persistence.
type ModelParts struct {
	Records    []ProductRecord
	Vocabulary []string
	IDF        []float64
	PriceMean  float64
	PriceStd   float64
	History    map[int64][]int64
	TrainedAt  time.Time
	Source     Origin
}

// Parts returns the model's state for serialization.
func (m *Model) Parts() ModelParts {
	return ModelParts{
		Records:    m.records,
		Vocabulary: m.vectorizer.Vocabulary(),
		IDF:        m.vectorizer.IDF(),
		PriceMean:  m.priceMean,
		PriceStd:   m.priceStd,
		History:    m.history,
		TrainedAt:  m.trainedAt,
		Source:     m.source,
	}
}

// RestoreModel rebuilds a model from persisted parts. Inconsistent parts
// are rejected so a half-valid model is never served.
//
//nolint:gocritic // hugeParam: parts is consumed once at load time
func RestoreModel(parts ModelParts) (*Model, error) {
	if len(parts.Records) == 0 {
		return nil, ErrEmptyCatalog
	}
	vec, err := NewVectorizer(parts.Vocabulary, parts.IDF)
	if err != nil {
		return nil, fmt.Errorf("restore vectorizer: %w", err)
	}
	if parts.PriceStd <= 0 {
		return nil, fmt.Errorf("restore model: price std must be positive, got %f", parts.PriceStd)
	}

	ids := make(map[int64]struct{}, len(parts.Records))
	for i := range parts.Records {
		r := &parts.Records[i]
		if _, dup := ids[r.Product.ID]; dup {
			return nil, fmt.Errorf("restore model: duplicate product %d", r.Product.ID)
		}
		ids[r.Product.ID] = struct{}{}
		if len(r.Features.Indices) != len(r.Features.Values) {
			return nil, fmt.Errorf("restore model: product %d has malformed features", r.Product.ID)
		}
		for _, idx := range r.Features.Indices {
			if idx < 0 || idx >= vec.Len() {
				return nil, fmt.Errorf("restore model: product %d feature index %d out of range", r.Product.ID, idx)
			}
		}
	}

	history := parts.History
	if history == nil {
		history = make(map[int64][]int64)
	}
	return newModel(parts.Records, vec, parts.PriceMean, parts.PriceStd, history, parts.TrainedAt, parts.Source), nil
}

//nolint:gocritic // trainedAt passed by value like every time.Time
func newModel(records []ProductRecord, vec *Vectorizer, mean, std float64, history map[int64][]int64, trainedAt time.Time, source Origin) *Model {
	index := make(map[int64]int, len(records))
	for i := range records {
		index[records[i].Product.ID] = i
	}
	return &Model{
		records:    records,
		index:      index,
		vectorizer: vec,
		priceMean:  mean,
		priceStd:   std,
		history:    history,
		trainedAt:  trainedAt,
		source:     source,
		version:    strconv.FormatInt(trainedAt.UnixNano(), 36) + "." + strconv.FormatUint(modelSeq.Add(1), 36),
	}
}

// NumProducts returns the catalog size.
func (m *Model) NumProducts() int { return len(m.records) }

// NumFeatures returns the vocabulary size.
func (m *Model) NumFeatures() int { return m.vectorizer.Len() }

// TrainedAt returns when the model was fitted.
func (m *Model) TrainedAt() time.Time { return m.trainedAt }

// Version identifies this model instance. Two models never share a version
// within a process, even when built from identical data at the same instant.
func (m *Model) Version() string { return m.version }

// Source returns where the training data came from.
func (m *Model) Source() Origin { return m.source }

// PriceStats returns the population mean and std used for price normalization.
func (m *Model) PriceStats() (mean, std float64) { return m.priceMean, m.priceStd }

// Record returns the record for a product ID.
func (m *Model) Record(id int64) (*ProductRecord, bool) {
	i, ok := m.index[id]
	if !ok {
		return nil, false
	}
	return &m.records[i], true
}

// Records returns the records in catalog order. Callers must not modify them.
func (m *Model) Records() []ProductRecord { return m.records }

// History returns the distinct products a user interacted with, in first-seen order.
func (m *Model) History(userID int64) []int64 { return m.history[userID] }

// NumUsers returns how many users have recorded history.
func (m *Model) NumUsers() int { return len(m.history) }

// featureText joins the attribute fields used for text features.
func featureText(p *Product) string {
	parts := make([]string, 0, 5)
	for _, f := range []string{p.Category, p.Gender, p.Color, p.Material, p.Size} {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, f)
		}
	}
	if len(parts) == 0 {
		return placeholderToken
	}
	return strings.Join(parts, " ")
}

// priceStats returns the population mean and standard deviation of prices.
func priceStats(products []Product) (mean, std float64) {
	n := float64(len(products))
	for i := range products {
		mean += products[i].Price
	}
	mean /= n

	var variance float64
	for i := range products {
		d := products[i].Price - mean
		variance += d * d
	}
	std = math.Sqrt(variance / n)
	if std < priceEpsilon {
		std = priceEpsilon
	}
	return mean, std
}
