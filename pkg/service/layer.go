package service

import "errors"

// ErrUnsupportedLayer is returned when a native middleware construct cannot be
// built synchronously at composition time and therefore cannot act as a Layer.
var ErrUnsupportedLayer = errors.New("service: middleware cannot be used as a synchronous layer")

// Layer wraps an inner Service to produce a new one.
type Layer[Req, Res any] interface {
	// Layer takes ownership of inner and returns the wrapping Service.
	Layer(inner BoxedService[Req, Res]) BoxedService[Req, Res]
}

// LayerFunc is an adapter to allow the use of ordinary functions as Layers.
type LayerFunc[Req, Res any] func(inner BoxedService[Req, Res]) BoxedService[Req, Res]

// Layer calls f(inner).
func (f LayerFunc[Req, Res]) Layer(inner BoxedService[Req, Res]) BoxedService[Req, Res] {
	return f(inner)
}

// Around builds a Layer from a function that sees both the request and the
// inner service. It covers the common pre/post-processing and
// short-circuiting shapes.
func Around[Req, Res any](fn func(ctx Context[Req, Res]) Res) Layer[Req, Res] {
	return LayerFunc[Req, Res](func(inner BoxedService[Req, Res]) BoxedService[Req, Res] {
		return Box[Req, Res](&around[Req, Res]{fn: fn, inner: inner})
	})
}
