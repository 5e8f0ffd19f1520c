package nethttp

import (
	"net/http"

	"github.com/Suhaibinator/SLayer/pkg/common"
	"github.com/Suhaibinator/SLayer/pkg/service"
)

// Backend implements service.Backend for *http.Request and *Response.
type Backend struct{}

var _ service.Backend[*http.Request, *Response] = Backend{}

// Path returns the URL path of the request.
func (Backend) Path(r *http.Request) string { return r.URL.Path }

// Method returns the request method.
func (Backend) Method(r *http.Request) string { return r.Method }

// Header returns the first value of the named request header.
func (Backend) Header(r *http.Request, name string) string { return r.Header.Get(name) }

// RemoteAddr returns the network address of the client as set by the server.
func (Backend) RemoteAddr(r *http.Request) string { return r.RemoteAddr }

// StatusCode returns the status code of the buffered response.
func (Backend) StatusCode(res *Response) int { return res.StatusCode }

// SetHeader sets a response header, allocating the header map of a
// literal Response on first use.
func (Backend) SetHeader(res *Response, name, value string) {
	if res.Header == nil {
		res.Header = make(http.Header)
	}
	res.Header.Set(name, value)
}

// ErrorResponse builds a plain-text failure response, mirroring http.Error.
func (Backend) ErrorResponse(path string, err *common.ServiceError) *Response {
	res := NewResponse(err.StatusCode())
	res.Header.Set("Content-Type", "text/plain; charset=utf-8")
	res.Header.Set("X-Content-Type-Options", "nosniff")
	res.Body.WriteString(err.Describe(path))
	res.Body.WriteByte('\n')
	return res
}
