// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/storefront-recommender/internal/recommend"
)

// ArtifactVersion is the current on-disk format version.
const ArtifactVersion = 1

// artifact is the on-disk envelope of a persisted model.
type artifact struct {
	Version  int             `json:"version"`
	SavedAt  time.Time       `json:"saved_at"`
	Checksum string          `json:"checksum"`
	Model    json.RawMessage `json:"model"`
}

// modelDocument is the serialized model state.
type modelDocument struct {
	Records    []recommend.ProductRecord `json:"records"`
	Vocabulary []string                  `json:"vocabulary"`
	IDF        []float64                 `json:"idf"`
	PriceMean  float64                   `json:"price_mean"`
	PriceStd   float64                   `json:"price_std"`
	History    map[int64][]int64         `json:"history"`
	TrainedAt  time.Time                 `json:"trained_at"`
	Source     recommend.Origin          `json:"source"`
}

// encodeModel serializes a model into an artifact.
//
//nolint:gocritic // savedAt passed by value like every time.Time
func encodeModel(m *recommend.Model, savedAt time.Time) ([]byte, error) {
	parts := m.Parts()
	doc := modelDocument{
		Records:    parts.Records,
		Vocabulary: parts.Vocabulary,
		IDF:        parts.IDF,
		PriceMean:  parts.PriceMean,
		PriceStd:   parts.PriceStd,
		History:    parts.History,
		TrainedAt:  parts.TrainedAt,
		Source:     parts.Source,
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	hash := sha256.Sum256(raw)

	data, err := json.Marshal(artifact{
		Version:  ArtifactVersion,
		SavedAt:  savedAt.UTC(),
		Checksum: hex.EncodeToString(hash[:]),
		Model:    raw,
	})
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return data, nil
}

// decodeModel validates an artifact and restores the model it holds.
func decodeModel(data []byte) (*recommend.Model, error) {
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if a.Version != ArtifactVersion {
		return nil, fmt.Errorf("unsupported artifact version %d (want %d)", a.Version, ArtifactVersion)
	}
	if len(a.Model) == 0 {
		return nil, fmt.Errorf("artifact has no model")
	}

	hash := sha256.Sum256(a.Model)
	if checksum := hex.EncodeToString(hash[:]); checksum != a.Checksum {
		return nil, fmt.Errorf("checksum mismatch: expected %s, got %s", a.Checksum, checksum)
	}

	var doc modelDocument
	if err := json.Unmarshal(a.Model, &doc); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	m, err := recommend.RestoreModel(recommend.ModelParts{
		Records:    doc.Records,
		Vocabulary: doc.Vocabulary,
		IDF:        doc.IDF,
		PriceMean:  doc.PriceMean,
		PriceStd:   doc.PriceStd,
		History:    doc.History,
		TrainedAt:  doc.TrainedAt,
		Source:     doc.Source,
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return fmt.Errorf("create model directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) } //nolint:errcheck // best-effort cleanup of temp file

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // sync error takes precedence
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename model file: %w", err)
	}
	return nil
}
