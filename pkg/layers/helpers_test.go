package layers

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/Suhaibinator/SLayer/pkg/adapter/nethttp"
	"github.com/Suhaibinator/SLayer/pkg/service"
)

var backend = nethttp.Backend{}

// echoService answers 200 with the request path.
func echoService() nethttp.BoxedService {
	return service.BoxFunc(func(_ context.Context, r *http.Request) *nethttp.Response {
		res := nethttp.NewResponse(http.StatusOK)
		res.Body.WriteString(r.URL.Path)
		return res
	})
}

// statusService answers with a fixed status.
func statusService(status int) nethttp.BoxedService {
	return service.BoxFunc(func(context.Context, *http.Request) *nethttp.Response {
		return nethttp.NewResponse(status)
	})
}

func get(svc nethttp.BoxedService, target string, header map[string]string) *nethttp.Response {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	return svc.Run(context.Background(), req)
}
