// Package hrouter bridges julienschmidt/httprouter handles to the uniform
// Service contract. Requests and responses are the net/http ones; route
// parameters travel in the request context.
package hrouter

import (
	"context"
	"net/http"

	"github.com/Suhaibinator/SLayer/pkg/adapter/nethttp"
	"github.com/Suhaibinator/SLayer/pkg/service"
	"github.com/julienschmidt/httprouter"
)

// contextKey is a type for context keys.
type contextKey string

// ParamsKey is the key used to store httprouter.Params in the request context.
const ParamsKey contextKey = "params"

// Handle converts an erased service to an httprouter.Handle.
// It stores the route parameters in the request context so they can be
// accessed by layers and handlers.
func Handle(b nethttp.BoxedService) httprouter.Handle {
	h := nethttp.Handler(b)
	return func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(req.Context(), ParamsKey, ps)
		h.ServeHTTP(w, req.WithContext(ctx))
	}
}

// FromHandle adapts an httprouter.Handle. The parameters it receives are the
// ones Handle stored in the context; outside a router they are empty.
func FromHandle(h httprouter.Handle, opts ...service.Option) nethttp.Service {
	return nethttp.FromHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h(w, r, GetParams(r))
	}), opts...)
}

// Mount registers an erased service on router for method and path.
func Mount(router *httprouter.Router, method, path string, b nethttp.BoxedService) {
	router.Handle(method, path, Handle(b))
}

// GetParams retrieves the httprouter.Params from the request context.
func GetParams(r *http.Request) httprouter.Params {
	return GetParamsFromContext(r.Context())
}

// GetParamsFromContext retrieves the httprouter.Params from a context.
func GetParamsFromContext(ctx context.Context) httprouter.Params {
	params, _ := ctx.Value(ParamsKey).(httprouter.Params)
	return params
}

// GetParam retrieves a specific parameter from the request context.
func GetParam(r *http.Request, name string) string {
	return GetParams(r).ByName(name)
}
