package nethttp

import (
	"context"
	"errors"
	"net/http"

	"github.com/Suhaibinator/SLayer/pkg/common"
	"github.com/Suhaibinator/SLayer/pkg/service"
)

// Service is the uniform service type for net/http.
type Service = service.Service[*http.Request, *Response]

// BoxedService is the erased handle for net/http.
type BoxedService = service.BoxedService[*http.Request, *Response]

// Layer is the uniform layer type for net/http.
type Layer = service.Layer[*http.Request, *Response]

var errNoResponse = errors.New("service returned no response")

// HandlerFunc is a net/http handler that reports failure by returning an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// FromHandler adapts an http.Handler. A panic in h is its only failure mode.
func FromHandler(h http.Handler, opts ...service.Option) Service {
	return service.Contain[*http.Request, *Response](Backend{}, func(ctx context.Context, r *http.Request) (*Response, error) {
		return Record(h, r.WithContext(ctx)), nil
	}, opts...)
}

// FromHandlerFunc adapts an error-returning handler. Anything the handler wrote
// before failing is discarded in favor of the failure response.
func FromHandlerFunc(fn HandlerFunc, opts ...service.Option) Service {
	return service.Contain[*http.Request, *Response](Backend{}, func(ctx context.Context, r *http.Request) (*Response, error) {
		rec := newRecorder()
		if err := fn(rec, r.WithContext(ctx)); err != nil {
			return nil, err
		}
		return rec.resp, nil
	}, opts...)
}

// Record serves r with h and returns the buffered response. Panics are not
// recovered.
func Record(h http.Handler, r *http.Request) *Response {
	rec := newRecorder()
	h.ServeHTTP(rec, r)
	return rec.resp
}

// Handler mounts an erased service as an http.Handler.
func Handler(b BoxedService) http.Handler {
	return &boxedHandler{svc: b}
}

type boxedHandler struct {
	svc BoxedService
}

// ServeHTTP runs the service with the request context and writes its response
func (h *boxedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res := h.svc.Run(r.Context(), r)
	if res == nil {
		res = Backend{}.ErrorResponse(r.URL.Path, common.NewServiceError(errNoResponse))
	}
	// The client is gone if this fails; there is nobody left to answer.
	_ = res.WriteTo(w)
}

// FromMiddleware adapts a native net/http middleware into a Layer: the erased
// inner service is mounted as an http.Handler, wrapped by mw, and the result
// is erased again.
func FromMiddleware(mw common.Middleware, opts ...service.Option) Layer {
	return service.LayerFunc[*http.Request, *Response](func(inner BoxedService) BoxedService {
		return service.Box(FromHandler(mw(Handler(inner)), opts...))
	})
}

// FromMiddlewares adapts each middleware in order.
func FromMiddlewares(mws ...common.Middleware) []Layer {
	layers := make([]Layer, 0, len(mws))
	for _, mw := range mws {
		layers = append(layers, FromMiddleware(mw))
	}
	return layers
}
