package service

import "context"

// Context is what an Around layer receives for one request.
type Context[Req, Res any] struct {
	Ctx     context.Context
	Request Req

	inner BoxedService[Req, Res]
}

// Next invokes the inner service with ctx and req.
func (c Context[Req, Res]) Next(ctx context.Context, req Req) Res {
	return c.inner.Run(ctx, req)
}

// Forward invokes the inner service with the received context and request.
func (c Context[Req, Res]) Forward() Res {
	return c.inner.Run(c.Ctx, c.Request)
}

type around[Req, Res any] struct {
	fn    func(ctx Context[Req, Res]) Res
	inner BoxedService[Req, Res]
}

func (a *around[Req, Res]) Run(ctx context.Context, req Req) Res {
	return a.fn(Context[Req, Res]{Ctx: ctx, Request: req, inner: a.inner})
}
