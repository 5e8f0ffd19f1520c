// Package service defines the backend-agnostic Service and Layer contracts.
//
// A Service turns one request into exactly one response. Run blocks on the
// caller's goroutine; the host backend decides where that goroutine runs, and
// cancellation flows through the context. There is no error channel: every
// failure must already be a response by the time Run returns.
//
// A Layer wraps an erased Service to produce a new one. Layers are applied once,
// when a stack is built, never per request.
package service

import (
	"context"
	"sync"
)

// Service converts a request into a response.
type Service[Req, Res any] interface {
	// Run handles req and returns its response. req is consumed by the call.
	Run(ctx context.Context, req Req) Res
}

// ServiceFunc is an adapter to allow the use of ordinary functions as Services.
type ServiceFunc[Req, Res any] func(ctx context.Context, req Req) Res

// Run calls f(ctx, req).
func (f ServiceFunc[Req, Res]) Run(ctx context.Context, req Req) Res {
	return f(ctx, req)
}

// exclusive serializes calls to a Service that is not safe for concurrent use.
type exclusive[Req, Res any] struct {
	mu    sync.Mutex
	inner Service[Req, Res]
}

// Exclusive wraps s so that at most one Run is in flight at a time.
// Backends such as net/http call handlers concurrently; use this for services
// that keep unsynchronized per-call state.
func Exclusive[Req, Res any](s Service[Req, Res]) Service[Req, Res] {
	return &exclusive[Req, Res]{inner: s}
}

func (e *exclusive[Req, Res]) Run(ctx context.Context, req Req) Res {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inner.Run(ctx, req)
}
