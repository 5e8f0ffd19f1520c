// Package fhttp bridges valyala/fasthttp handlers and middleware to the
// uniform Service and Layer contracts.
//
// The uniform request is the *fasthttp.RequestCtx itself, which also serves as
// the context.Context of the call. The uniform response is *fasthttp.Response;
// a native handler's response is &ctx.Response, passed through without copying.
//
// fasthttp handlers only see the RequestCtx. The trace ID and client IP that
// uniform layers add to the context passed to Run are copied into user values
// (TraceIDUserValue, ClientIPUserValue) before a native handler runs; other
// context values and deadlines are not visible to it.
package fhttp

import (
	"github.com/Suhaibinator/SLayer/pkg/common"
	"github.com/Suhaibinator/SLayer/pkg/service"
	"github.com/valyala/fasthttp"
)

// Backend implements service.Backend for fasthttp.
type Backend struct{}

var _ service.Backend[*fasthttp.RequestCtx, *fasthttp.Response] = Backend{}

// Path returns a copy of the request path.
func (Backend) Path(ctx *fasthttp.RequestCtx) string { return string(ctx.Path()) }

// Method returns a copy of the request method.
func (Backend) Method(ctx *fasthttp.RequestCtx) string { return string(ctx.Method()) }

// Header returns a copy of the named request header value.
func (Backend) Header(ctx *fasthttp.RequestCtx, name string) string {
	return string(ctx.Request.Header.Peek(name))
}

// RemoteAddr returns the address of the client connection.
func (Backend) RemoteAddr(ctx *fasthttp.RequestCtx) string { return ctx.RemoteAddr().String() }

// StatusCode returns the response status code.
func (Backend) StatusCode(res *fasthttp.Response) int { return res.StatusCode() }

// SetHeader sets a response header, replacing any existing value.
func (Backend) SetHeader(res *fasthttp.Response, name, value string) { res.Header.Set(name, value) }

// ErrorResponse builds a fresh plain-text failure response.
func (Backend) ErrorResponse(path string, err *common.ServiceError) *fasthttp.Response {
	res := &fasthttp.Response{}
	res.SetStatusCode(err.StatusCode())
	res.Header.SetContentType("text/plain; charset=utf-8")
	res.Header.Set("X-Content-Type-Options", "nosniff")
	res.SetBodyString(err.Describe(path) + "\n")
	return res
}
