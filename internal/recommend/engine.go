// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ModelSource provides the currently served model. Implementations must
// return nil when no model is loaded.
type ModelSource interface {
	Current() *Model
}

// Engine answers the three query modes against the current model.
// Every query reads the model pointer once and works on that snapshot.
// It is safe for concurrent use.
type Engine struct {
	models ModelSource
	scorer *Scorer
	config Config
	logger zerolog.Logger
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(models ModelSource, cfg Config, logger zerolog.Logger) (*Engine, error) {
	if models == nil {
		return nil, fmt.Errorf("model source is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Engine{
		models: models,
		scorer: NewScorer(cfg),
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// ByProduct returns up to n products similar to productID. An unknown
// product yields an empty list rather than an error.
func (e *Engine) ByProduct(ctx context.Context, productID int64, filters Filters, n int) ([]Recommendation, error) {
	m, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	return e.byProduct(m, productID, filters, n)
}

// ForUser returns personalized recommendations seeded by the user's
// interaction history. Users without history get the popular list.
func (e *Engine) ForUser(ctx context.Context, userID int64, n int) (*UserRecommendations, error) {
	m, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	return e.forUser(ctx, m, userID, n)
}

// Popular returns the n highest-rated products, ties in catalog order.
func (e *Engine) Popular(ctx context.Context, n int) ([]Recommendation, error) {
	m, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	return popular(m, n), nil
}

// snapshot returns the model queries should run against.
func (e *Engine) snapshot() (*Model, error) {
	m := e.models.Current()
	if m == nil {
		return nil, ErrModelNotReady
	}
	return m, nil
}

func (e *Engine) byProduct(m *Model, productID int64, filters Filters, n int) ([]Recommendation, error) {
	recs, err := e.scorer.Similar(m, productID, filters, n)
	if errors.Is(err, ErrProductNotFound) {
		e.logger.Debug().Int64("product_id", productID).Msg("reference product not in model")
		return []Recommendation{}, nil
	}
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (e *Engine) forUser(ctx context.Context, m *Model, userID int64, n int) (*UserRecommendations, error) {
	history := m.History(userID)
	if len(history) == 0 {
		return &UserRecommendations{
			Strategy: StrategyPopularFallback,
			Items:    popular(m, n),
		}, nil
	}

	items, err := e.personalized(ctx, m, history, n)
	if err != nil {
		return nil, err
	}
	return &UserRecommendations{Strategy: StrategyPersonalized, Items: items}, nil
}

func (e *Engine) personalized(ctx context.Context, m *Model, history []int64, n int) ([]Recommendation, error) {
	if n <= 0 {
		return []Recommendation{}, nil
	}

	var filters Filters
	if gender := preferredGender(m, history); gender != "" {
		filters = Filters{FilterGender: gender}
	}

	seeds := make([]int64, 0, len(history))
	for _, id := range history {
		if _, ok := m.Record(id); ok {
			seeds = append(seeds, id)
		}
	}
	if e.config.MaxHistorySeeds > 0 && len(seeds) > e.config.MaxHistorySeeds {
		seeds = seeds[:e.config.MaxHistorySeeds]
	}

	perSeed := make([][]Recommendation, len(seeds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.SeedConcurrency)
	for i, seed := range seeds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			recs, err := e.scorer.Similar(m, seed, filters, 2*n)
			if err != nil {
				return fmt.Errorf("score seed %d: %w", seed, err)
			}
			perSeed[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	interacted := make(map[int64]struct{}, len(history))
	for _, id := range history {
		interacted[id] = struct{}{}
	}

	merged := make([]Recommendation, 0, len(seeds)*2*n)
	pos := make(map[int64]int)
	for _, recs := range perSeed {
		for _, r := range recs {
			if _, skip := interacted[r.ProductID]; skip {
				continue
			}
			if i, ok := pos[r.ProductID]; ok {
				if r.Score() > merged[i].Score() {
					merged[i] = r
				}
				continue
			}
			pos[r.ProductID] = len(merged)
			merged = append(merged, r)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score() > merged[j].Score()
	})
	if len(merged) > n {
		merged = merged[:n]
	}

	e.logger.Debug().
		Int("seeds", len(seeds)).
		Str("gender_preference", filters[FilterGender]).
		Int("returned", len(merged)).
		Msg("personalized recommendations merged")

	return merged, nil
}

// preferredGender returns the most frequent non-empty gender among the
// user's interacted products. Ties go to the value seen first.
func preferredGender(m *Model, history []int64) string {
	counts := make(map[string]int)
	order := make([]string, 0, 3)
	for _, id := range history {
		r, ok := m.Record(id)
		if !ok || r.Product.Gender == "" {
			continue
		}
		if _, seen := counts[r.Product.Gender]; !seen {
			order = append(order, r.Product.Gender)
		}
		counts[r.Product.Gender]++
	}

	best, bestCount := "", 0
	for _, g := range order {
		if counts[g] > bestCount {
			best, bestCount = g, counts[g]
		}
	}
	return best
}

func popular(m *Model, n int) []Recommendation {
	if n <= 0 {
		return []Recommendation{}
	}
	records := m.Records()
	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return records[order[i]].Product.Rating > records[order[j]].Product.Rating
	})
	if len(order) > n {
		order = order[:n]
	}

	out := make([]Recommendation, len(order))
	for i, pos := range order {
		p := &records[pos].Product
		out[i] = Recommendation{
			ProductID: p.ID,
			Name:      p.Name,
			Category:  p.Category,
			Price:     p.Price,
			Rating:    p.Rating,
		}
	}
	return out
}
