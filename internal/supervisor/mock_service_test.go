// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// stubService is a suture.Service that can fail its first runs or ignore
// cancellation until released.
type stubService struct {
	name     string
	starts   atomic.Int32
	failures atomic.Int32
	hang     chan struct{} // non-nil: Serve ignores ctx until closed
}

func newStubService(name string) *stubService {
	return &stubService{name: name}
}

// failFirst makes the next n runs return an error immediately.
func (s *stubService) failFirst(n int32) *stubService {
	s.failures.Store(n)
	return s
}

// hangOnStop makes Serve ignore cancellation until release is called.
func (s *stubService) hangOnStop() *stubService {
	s.hang = make(chan struct{})
	return s
}

func (s *stubService) release() {
	if s.hang != nil {
		close(s.hang)
	}
}

func (s *stubService) Serve(ctx context.Context) error {
	s.starts.Add(1)
	if s.failures.Add(-1) >= 0 {
		return errors.New("simulated failure")
	}

	<-ctx.Done()
	if s.hang != nil {
		<-s.hang
	}
	return ctx.Err()
}

func (s *stubService) runs() int32 {
	return s.starts.Load()
}

func (s *stubService) String() string {
	return s.name
}
