// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

/*
client.go - Catalog Training Data Client

Fetches the product catalog and interaction history exported by the
storefront backend:

	GET {backend}/api/products/training_data/?days={d}&format=json

Calls are throttled by a token bucket and run through a circuit breaker so a
down backend is not hammered by scheduled and manual retrains.
*/

package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/storefront-recommender/internal/breaker"
	"github.com/tomtom215/storefront-recommender/internal/metrics"
	"github.com/tomtom215/storefront-recommender/internal/recommend"
)

const trainingDataPath = "/api/products/training_data/"

// maxResponseBytes bounds the body read from the backend.
const maxResponseBytes = 256 << 20

// ClientConfig configures a Client.
type ClientConfig struct {
	// BaseURL is the storefront backend, e.g. http://localhost:8000.
	BaseURL string

	// Timeout bounds one fetch including body read.
	Timeout time.Duration

	// RatePerSecond limits fetch frequency. Zero or negative disables the limit.
	RatePerSecond float64
}

// Client fetches training data from the storefront backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *breaker.Breaker[*recommend.TrainingData]
	logger     zerolog.Logger
}

// NewClient creates a training data client.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg ClientConfig, logger zerolog.Logger) (*Client, error) {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	settings := breaker.DefaultSettings("catalog-upstream")
	settings.MinRequests = 3

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		breaker:    breaker.New[*recommend.TrainingData](settings),
		logger:     logger.With().Str("component", "catalog-client").Logger(),
	}, nil
}

// Fetch retrieves products and interactions from the last days days.
// Every failure wraps recommend.ErrUpstreamFetch.
func (c *Client) Fetch(ctx context.Context, days int) (*recommend.TrainingData, error) {
	start := time.Now()
	data, err := c.fetch(ctx, days)
	metrics.RecordUpstreamFetch(time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", recommend.ErrUpstreamFetch, err)
	}
	return data, nil
}

// BreakerState returns the upstream circuit breaker state.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}

func (c *Client) fetch(ctx context.Context, days int) (*recommend.TrainingData, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	data, err := c.breaker.Execute(func() (*recommend.TrainingData, error) {
		return c.doRequest(ctx, days)
	})
	if breaker.IsRejection(err) {
		c.logger.Warn().Str("breaker", c.breaker.Name()).Msg("catalog backend circuit open, skipping fetch")
	}
	return data, err
}

func (c *Client) doRequest(ctx context.Context, days int) (*recommend.TrainingData, error) {
	q := url.Values{}
	q.Set("days", strconv.Itoa(days))
	q.Set("format", "json")
	endpoint := c.baseURL + trainingDataPath + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("training data request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body := io.LimitReader(resp.Body, maxResponseBytes)
	if resp.StatusCode != http.StatusOK {
		snippet, rerr := io.ReadAll(io.LimitReader(body, 512))
		if rerr != nil {
			return nil, fmt.Errorf("training data returned status %d (failed to read body)", resp.StatusCode)
		}
		return nil, fmt.Errorf("training data returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var payload trainingPayload
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode training data: %w", err)
	}

	data, skipped := payload.toTrainingData()
	c.logger.Info().
		Int("days", days).
		Int("products", len(data.Products)).
		Int("interactions", len(data.Interactions)).
		Int("skipped", skipped).
		Msg("fetched training data")
	return data, nil
}
