// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// HTTPServer is the part of *http.Server the service drives.
type HTTPServer interface {
	Serve(ln net.Listener) error
	Shutdown(ctx context.Context) error
}

// HTTPServerService binds the recommendation API address and serves it under
// suture.
//
// Binding happens in Serve itself, so a port conflict is returned to the
// supervisor straight away and retried with backoff. Shutdown uses its own
// deadline because the supervisor context is already canceled by then.
//
//	server := &http.Server{Handler: router}
//	tree.AddAPIService(services.NewHTTPServerService(server, ":8001", 10*time.Second, logger))
type HTTPServerService struct {
	server          HTTPServer
	addr            string
	shutdownTimeout time.Duration
	logger          zerolog.Logger
	bound           atomic.Pointer[string]
}

// NewHTTPServerService wraps server to listen on addr. A non-positive
// shutdownTimeout defaults to 10s.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHTTPServerService(server HTTPServer, addr string, shutdownTimeout time.Duration, logger zerolog.Logger) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server:          server,
		addr:            addr,
		shutdownTimeout: shutdownTimeout,
		logger:          logger.With().Str("service", "http").Logger(),
	}
}

// BoundAddr returns the address of the current listener, or "" before the
// first successful bind. With port 0 this is the port the kernel picked.
func (h *HTTPServerService) BoundAddr() string {
	if p := h.bound.Load(); p != nil {
		return *p
	}
	return ""
}

// Serve implements suture.Service. It returns ctx.Err() after a clean
// shutdown and a wrapped error for bind, serve or shutdown failures.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", h.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", h.addr, err)
	}

	bound := ln.Addr().String()
	h.bound.Store(&bound)
	h.logger.Info().Str("addr", bound).Msg("Recommendation API listening")

	done := make(chan error, 1)
	go func() {
		err := h.server.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			err = errors.New("server stopped unexpectedly")
		}
		return fmt.Errorf("serve %s: %w", bound, err)

	case <-ctx.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()

	h.logger.Info().Dur("timeout", h.shutdownTimeout).Msg("Draining recommendation API")
	if err := h.server.Shutdown(stopCtx); err != nil {
		return fmt.Errorf("shutdown %s: %w", bound, err)
	}
	<-done
	return ctx.Err()
}

func (h *HTTPServerService) String() string {
	return "recommendation-api"
}
