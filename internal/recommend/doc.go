// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

// Package recommend implements content-based product recommendations for
// the storefront catalog.
//
// # Architecture
//
// A fitted Model holds one ProductRecord per catalog product. Each record
// bundles the product with its TF-IDF feature row, its z-scored price and
// its rating scaled to [0, 1], so features can never drift out of step with
// the catalog.
//
//   - Vectorizer: TF-IDF over category, gender, color, material and size
//   - Scorer: weighted cosine, price proximity and rating, with filter boosts
//   - Engine: by-product, personalized and popular query modes
//   - Service: cache-aside layer in front of the Engine, keyed by model version
//
// Persistence, retraining and data sources live in the storage and source
// subpackages.
//
// # Scoring
//
//	score = 0.7*cosine + 0.2*clamp(1 - |Δz|/2, 0, 1) + 0.2*rating/5
//
// Each preference filter (category, gender, size, color, material, name)
// that matches a product attribute exactly multiplies its score by 1.3.
// Results are sorted by score, ties in catalog order, and never include the
// reference product.
//
// # Query Modes
//
//   - ByProduct: similar products, empty list for unknown products
//   - ForUser: merged similarity results seeded by the user's history with
//     an implicit gender preference; users without history get Popular
//   - Popular: highest rating first, ties in catalog order
//
// # Thread Safety
//
// Models are immutable after construction. The Engine reads the current
// model once per query, so a concurrent swap never mixes two models in one
// result.
//
// # Usage Example
//
//	engine, err := recommend.NewEngine(store, recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	svc := recommend.NewService(engine, cacheStore, recommend.DefaultServiceConfig(), logger)
//
//	recs, err := svc.ByProduct(ctx, 42, recommend.Filters{recommend.FilterGender: "W"}, 5)
package recommend
