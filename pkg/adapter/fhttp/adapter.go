package fhttp

import (
	"context"
	"fmt"

	"github.com/Suhaibinator/SLayer/pkg/common"
	"github.com/Suhaibinator/SLayer/pkg/service"
	"github.com/valyala/fasthttp"
)

// User value keys under which native handlers find request-scoped values
// set by uniform layers.
const (
	TraceIDUserValue  = "trace_id"
	ClientIPUserValue = "client_ip"
)

// Service is the uniform service type for fasthttp.
type Service = service.Service[*fasthttp.RequestCtx, *fasthttp.Response]

// BoxedService is the erased handle for fasthttp.
type BoxedService = service.BoxedService[*fasthttp.RequestCtx, *fasthttp.Response]

// Layer is the uniform layer type for fasthttp.
type Layer = service.Layer[*fasthttp.RequestCtx, *fasthttp.Response]

// ErrorHandler is a fasthttp handler that reports failure by returning an error.
type ErrorHandler func(ctx *fasthttp.RequestCtx) error

// Middleware is the native fasthttp middleware shape.
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// Metadata configures a middleware factory.
type Metadata map[string]string

// MiddlewareFactory produces a Middleware from configuration. Producing it may
// fail, which a synchronous Layer cannot express per request.
type MiddlewareFactory interface {
	GetHandler(metadata Metadata) (func(h fasthttp.RequestHandler) fasthttp.RequestHandler, error)
}

// FromHandler adapts a fasthttp.RequestHandler. A panic is its only failure mode.
func FromHandler(h fasthttp.RequestHandler, opts ...service.Option) Service {
	return service.Contain[*fasthttp.RequestCtx, *fasthttp.Response](Backend{}, func(c context.Context, ctx *fasthttp.RequestCtx) (*fasthttp.Response, error) {
		exposeContext(c, ctx)
		h(ctx)
		return &ctx.Response, nil
	}, opts...)
}

// FromErrorHandler adapts an error-returning handler.
func FromErrorHandler(h ErrorHandler, opts ...service.Option) Service {
	return service.Contain[*fasthttp.RequestCtx, *fasthttp.Response](Backend{}, func(c context.Context, ctx *fasthttp.RequestCtx) (*fasthttp.Response, error) {
		exposeContext(c, ctx)
		if err := h(ctx); err != nil {
			return nil, err
		}
		return &ctx.Response, nil
	}, opts...)
}

// exposeContext copies layer-provided values from c into ctx's user values.
func exposeContext(c context.Context, ctx *fasthttp.RequestCtx) {
	if c == nil || c == context.Context(ctx) {
		return
	}
	if traceID := common.TraceIDFromContext(c); traceID != "" {
		ctx.SetUserValue(TraceIDUserValue, traceID)
	}
	if ip := common.ClientIPFromContext(c); ip != "" {
		ctx.SetUserValue(ClientIPUserValue, ip)
	}
}

// Handler mounts an erased service as a fasthttp.RequestHandler. A response
// other than the context's own is copied into it.
func Handler(b BoxedService) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		res := b.Run(ctx, ctx)
		if res != nil && res != &ctx.Response {
			res.CopyTo(&ctx.Response)
		}
	}
}

// FromMiddleware adapts a native fasthttp middleware into a Layer.
func FromMiddleware(mw Middleware, opts ...service.Option) Layer {
	return service.LayerFunc[*fasthttp.RequestCtx, *fasthttp.Response](func(inner BoxedService) BoxedService {
		return service.Box(FromHandler(mw(Handler(inner)), opts...))
	})
}

// FromFactory resolves a middleware factory once, at composition time, and
// adapts the result. A factory error means the middleware cannot be built
// synchronously; it is reported as service.ErrUnsupportedLayer.
func FromFactory(f MiddlewareFactory, metadata Metadata, opts ...service.Option) (Layer, error) {
	mw, err := f.GetHandler(metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", service.ErrUnsupportedLayer, err)
	}
	if mw == nil {
		return nil, fmt.Errorf("%w: factory returned no middleware", service.ErrUnsupportedLayer)
	}
	return FromMiddleware(mw, opts...), nil
}
