// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/storefront-recommender/internal/metrics"
)

func TestPrometheusMetrics(t *testing.T) {
	t.Run("passes status through", func(t *testing.T) {
		statusCodes := []int{
			http.StatusOK,
			http.StatusAccepted,
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusServiceUnavailable,
		}

		for _, code := range statusCodes {
			t.Run(http.StatusText(code), func(t *testing.T) {
				handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(code)
				}))

				rec := httptest.NewRecorder()
				handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

				if rec.Code != code {
					t.Errorf("Expected status %d, got %d", code, rec.Code)
				}
			})
		}
	})

	t.Run("labels by route pattern", func(t *testing.T) {
		r := chi.NewRouter()
		r.Use(PrometheusMetrics)
		r.Get("/test/product/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})

		counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/test/product/{id}", "418")
		before := testutil.ToFloat64(counter)

		for _, path := range []string{"/test/product/1", "/test/product/2", "/test/product/3"} {
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
		}

		if got := testutil.ToFloat64(counter) - before; got != 3 {
			t.Errorf("counter delta = %v, want 3", got)
		}
	})

	t.Run("unmatched paths share one label", func(t *testing.T) {
		r := chi.NewRouter()
		r.Use(PrometheusMetrics)
		r.Get("/known", func(w http.ResponseWriter, r *http.Request) {})

		counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404")
		before := testutil.ToFloat64(counter)

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wp-admin/x.php", nil))
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/.env", nil))

		if got := testutil.ToFloat64(counter) - before; got != 2 {
			t.Errorf("counter delta = %v, want 2", got)
		}
	})

	t.Run("active requests return to baseline", func(t *testing.T) {
		before := testutil.ToFloat64(metrics.APIActiveRequests)
		var during float64

		handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			during = testutil.ToFloat64(metrics.APIActiveRequests)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if during < before+1 {
			t.Errorf("active during request = %v, want >= %v", during, before+1)
		}
	})
}

func TestMetricsResponseWriter(t *testing.T) {
	t.Run("captures first status code", func(t *testing.T) {
		rec := httptest.NewRecorder()
		wrapper := &metricsResponseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

		wrapper.WriteHeader(http.StatusNotFound)
		wrapper.WriteHeader(http.StatusInternalServerError)

		if wrapper.statusCode != http.StatusNotFound {
			t.Errorf("Expected status code 404, got %d", wrapper.statusCode)
		}
	})

	t.Run("default status code is 200", func(t *testing.T) {
		rec := httptest.NewRecorder()
		wrapper := &metricsResponseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

		if _, err := wrapper.Write([]byte("test")); err != nil {
			t.Fatalf("Write error: %v", err)
		}
		if wrapper.statusCode != http.StatusOK {
			t.Errorf("Expected default status 200, got %d", wrapper.statusCode)
		}
		if rec.Body.String() != "test" {
			t.Errorf("Body not written: %s", rec.Body.String())
		}
	})

	t.Run("unwraps", func(t *testing.T) {
		rec := httptest.NewRecorder()
		wrapper := &metricsResponseWriter{ResponseWriter: rec}
		if wrapper.Unwrap() != rec {
			t.Error("Unwrap() did not return the wrapped writer")
		}
	})
}

func BenchmarkPrometheusMetrics(b *testing.B) {
	handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}
