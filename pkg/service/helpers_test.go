package service

import (
	"context"
	"fmt"

	"github.com/Suhaibinator/SLayer/pkg/common"
)

type testRequest struct {
	path   string
	header map[string]string
}

type testResponse struct {
	status int
	body   string
	header map[string]string
}

type testBackend struct{}

func (testBackend) Path(r *testRequest) string                { return r.path }
func (testBackend) Method(r *testRequest) string              { return "GET" }
func (testBackend) Header(r *testRequest, name string) string { return r.header[name] }
func (testBackend) RemoteAddr(r *testRequest) string          { return "127.0.0.1:1234" }
func (testBackend) StatusCode(res *testResponse) int          { return res.status }

func (testBackend) SetHeader(res *testResponse, name, value string) {
	if res.header == nil {
		res.header = map[string]string{}
	}
	res.header[name] = value
}

func (testBackend) ErrorResponse(path string, err *common.ServiceError) *testResponse {
	return &testResponse{status: err.StatusCode(), body: err.Describe(path)}
}

func echo() Service[*testRequest, *testResponse] {
	return ServiceFunc[*testRequest, *testResponse](func(_ context.Context, r *testRequest) *testResponse {
		return &testResponse{status: 200, body: r.path}
	})
}

// recordingLayer appends name-before / name-after around the inner call.
func recordingLayer(name string, order *[]string) Layer[*testRequest, *testResponse] {
	return Around(func(c Context[*testRequest, *testResponse]) *testResponse {
		*order = append(*order, fmt.Sprintf("%s-before", name))
		res := c.Forward()
		*order = append(*order, fmt.Sprintf("%s-after", name))
		return res
	})
}
