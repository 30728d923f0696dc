// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

// Package source supplies training data to the model store: the storefront
// backend's training data export (Client) and a seeded synthetic clothing
// catalog (SyntheticFetcher) used when the backend is unusable at startup.
package source
