// Package nethttp bridges net/http handlers and middleware to the uniform
// Service and Layer contracts.
//
// The uniform request is *http.Request. The uniform response is a buffered
// *Response, so a failure discovered after a handler has started writing can
// still replace the whole response.
package nethttp

import (
	"bytes"
	"net/http"
)

// Response is a fully buffered HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       bytes.Buffer
}

// NewResponse creates an empty response with the given status.
func NewResponse(statusCode int) *Response {
	return &Response{
		StatusCode: statusCode,
		Header:     make(http.Header),
	}
}

// WriteTo writes the response to w.
func (r *Response) WriteTo(w http.ResponseWriter) error {
	dst := w.Header()
	for k, v := range r.Header {
		dst[k] = append([]string(nil), v...)
	}
	status := r.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, err := w.Write(r.Body.Bytes())
	return err
}

// recorder is an http.ResponseWriter that captures into a Response.
type recorder struct {
	resp        *Response
	wroteHeader bool
}

func newRecorder() *recorder {
	return &recorder{resp: NewResponse(http.StatusOK)}
}

// Header returns the header map of the captured response
func (rw *recorder) Header() http.Header {
	return rw.resp.Header
}

// WriteHeader captures the status code; only the first call counts
func (rw *recorder) WriteHeader(statusCode int) {
	if rw.wroteHeader {
		return
	}
	rw.wroteHeader = true
	rw.resp.StatusCode = statusCode
}

// Write captures the body and implies a 200 status if none was written
func (rw *recorder) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.resp.Body.Write(b)
}

// Flush is a no-op; the response is delivered once the handler returns
func (rw *recorder) Flush() {}
