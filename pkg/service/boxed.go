package service

import "context"

// BoxedService is a type-erased Service handle. It holds exactly one Service
// and is the unit passed between Layers.
type BoxedService[Req, Res any] struct {
	inner Service[Req, Res]
}

// Box erases the concrete type of s. Boxing a BoxedService returns it unchanged.
// Box panics if s is nil: a handle always holds a live Service.
func Box[Req, Res any](s Service[Req, Res]) BoxedService[Req, Res] {
	switch v := s.(type) {
	case nil:
		panic("service: Box called with a nil Service")
	case BoxedService[Req, Res]:
		if v.inner == nil {
			panic("service: Box called with an empty BoxedService")
		}
		return v
	case *BoxedService[Req, Res]:
		if v == nil || v.inner == nil {
			panic("service: Box called with an empty BoxedService")
		}
		return *v
	}
	return BoxedService[Req, Res]{inner: s}
}

// BoxFunc erases a plain function.
func BoxFunc[Req, Res any](fn func(ctx context.Context, req Req) Res) BoxedService[Req, Res] {
	return Box[Req, Res](ServiceFunc[Req, Res](fn))
}

// Run forwards to the held Service.
func (b BoxedService[Req, Res]) Run(ctx context.Context, req Req) Res {
	return b.inner.Run(ctx, req)
}

// Ready reports whether the handle can accept work. It always returns nil:
// the uniform contract has no notion of backoff, so a held service that is
// not ready reports that as a failure response on its next Run.
func (b BoxedService[Req, Res]) Ready(ctx context.Context) error {
	return nil
}

// Inner returns the held Service.
func (b BoxedService[Req, Res]) Inner() Service[Req, Res] {
	return b.inner
}
