package nethttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/Suhaibinator/SLayer/pkg/common"
	"github.com/Suhaibinator/SLayer/pkg/service"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func echoHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(r.URL.Path))
	})
}

func run(svc Service, method, target string) *Response {
	return svc.Run(context.Background(), httptest.NewRequest(method, target, nil))
}

func TestFromHandlerSuccess(t *testing.T) {
	res := run(FromHandler(echoHandler()), http.MethodGet, "/hello")

	if res.StatusCode != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, res.StatusCode)
	}
	if res.Body.String() != "/hello" {
		t.Errorf("Expected body %q, got %q", "/hello", res.Body.String())
	}
	if res.Header.Get("Content-Type") != "text/plain" {
		t.Errorf("Expected Content-Type %q, got %q", "text/plain", res.Header.Get("Content-Type"))
	}
}

func TestFromHandlerPanic(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("partial"))
		panic("boom")
	})

	res := run(FromHandler(h), http.MethodGet, "/panic")
	if res.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status code %d, got %d", http.StatusInternalServerError, res.StatusCode)
	}
	if strings.Contains(res.Body.String(), "partial") {
		t.Errorf("Expected partial output to be discarded, got %q", res.Body.String())
	}
}

func TestFromHandlerFuncNotFound(t *testing.T) {
	svc := FromHandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
		if r.URL.Path == "/x" {
			_, _ = w.Write([]byte("half a body"))
			return errors.New("not found")
		}
		_, _ = w.Write([]byte("ok"))
		return nil
	})

	res := run(svc, http.MethodGet, "/x")
	if res.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status code %d, got %d", http.StatusInternalServerError, res.StatusCode)
	}
	if res.Body.String() != "error handling /x: not found\n" {
		t.Errorf("Expected failure text referencing /x, got %q", res.Body.String())
	}
	if res.Header.Get("Content-Type") != "text/plain; charset=utf-8" {
		t.Errorf("Expected plain text failure, got %q", res.Header.Get("Content-Type"))
	}

	res = run(svc, http.MethodGet, "/y")
	if res.StatusCode != http.StatusOK || res.Body.String() != "ok" {
		t.Errorf("Expected 200 ok, got %d %q", res.StatusCode, res.Body.String())
	}
}

func TestFromHandlerFuncHTTPError(t *testing.T) {
	svc := FromHandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
		return common.NewHTTPError(http.StatusNotFound, "no such page")
	})

	res := run(svc, http.MethodGet, "/missing")
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status code %d, got %d", http.StatusNotFound, res.StatusCode)
	}
	if res.Body.String() != "error handling /missing: no such page\n" {
		t.Errorf("Expected body %q, got %q", "error handling /missing: no such page\n", res.Body.String())
	}
}

func TestBoxedMatchesUnboxed(t *testing.T) {
	svc := FromHandler(echoHandler())
	boxed := service.Box(svc)

	for _, path := range []string{"/", "/a", "/a/b?c=d"} {
		direct := run(svc, http.MethodGet, path)
		erased := boxed.Run(context.Background(), httptest.NewRequest(http.MethodGet, path, nil))

		if direct.StatusCode != erased.StatusCode {
			t.Errorf("%s: expected status %d, got %d", path, direct.StatusCode, erased.StatusCode)
		}
		if !bytes.Equal(direct.Body.Bytes(), erased.Body.Bytes()) {
			t.Errorf("%s: expected body %q, got %q", path, direct.Body.String(), erased.Body.String())
		}
		if !reflect.DeepEqual(direct.Header, erased.Header) {
			t.Errorf("%s: expected headers %v, got %v", path, direct.Header, erased.Header)
		}
	}
}

func TestHandler(t *testing.T) {
	h := Handler(service.Box(FromHandler(echoHandler())))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/served", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, rr.Code)
	}
	if rr.Body.String() != "/served" {
		t.Errorf("Expected body %q, got %q", "/served", rr.Body.String())
	}
}

func TestHandlerNilResponse(t *testing.T) {
	h := Handler(service.BoxFunc(func(context.Context, *http.Request) *Response { return nil }))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nil", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected status code %d, got %d", http.StatusInternalServerError, rr.Code)
	}
}

func TestHandlerOverServer(t *testing.T) {
	srv := httptest.NewServer(Handler(service.Box(FromHandler(echoHandler()))))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/over/the/wire")
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	if string(body) != "/over/the/wire" {
		t.Errorf("Expected body %q, got %q", "/over/the/wire", string(body))
	}
}

func TestFromMiddlewareOrder(t *testing.T) {
	var order []string
	mw := func(name string) common.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, fmt.Sprintf("%s-before", name))
				next.ServeHTTP(w, r)
				order = append(order, fmt.Sprintf("%s-after", name))
			})
		}
	}

	svc := service.Apply(FromHandler(echoHandler()), FromMiddlewares(mw("first"), mw("second"))...)
	svc.Run(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))

	expected := "first-before second-before second-after first-after"
	if got := strings.Join(order, " "); got != expected {
		t.Errorf("Expected order %q, got %q", expected, got)
	}
}

func TestFromMiddlewareShortCircuit(t *testing.T) {
	deny := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "forbidden", http.StatusForbidden)
		})
	}

	called := false
	terminal := service.BoxFunc(func(context.Context, *http.Request) *Response {
		called = true
		return NewResponse(http.StatusOK)
	})

	res := service.Apply[*http.Request, *Response](terminal, FromMiddleware(deny)).
		Run(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	if res.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status code %d, got %d", http.StatusForbidden, res.StatusCode)
	}
	if called {
		t.Error("Expected the inner service not to be called")
	}
}

func TestChiMiddleware(t *testing.T) {
	terminal := service.BoxFunc(func(ctx context.Context, r *http.Request) *Response {
		res := NewResponse(http.StatusOK)
		res.Body.WriteString(middleware.GetReqID(ctx))
		return res
	})

	svc := service.Apply[*http.Request, *Response](terminal,
		FromMiddleware(middleware.SetHeader("X-Frame-Options", "DENY")),
		FromMiddleware(middleware.RequestID),
	)

	res := svc.Run(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	if res.Body.Len() == 0 {
		t.Error("Expected the request id set by chi to reach the inner service")
	}
	if res.Header.Get("X-Frame-Options") != "DENY" {
		t.Errorf("Expected X-Frame-Options %q, got %q", "DENY", res.Header.Get("X-Frame-Options"))
	}
}

func TestOtelHTTPMiddleware(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	layer := FromMiddleware(otelhttp.NewMiddleware("echo", otelhttp.WithTracerProvider(tp)))
	svc := service.Apply[*http.Request, *Response](FromHandler(echoHandler()), layer)

	res := svc.Run(context.Background(), httptest.NewRequest(http.MethodGet, "/traced", nil))
	if res.StatusCode != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, res.StatusCode)
	}
	if spans := sr.Ended(); len(spans) != 1 {
		t.Errorf("Expected 1 span, got %d", len(spans))
	}
}

func TestCanceledRequestContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := FromHandler(echoHandler()).Run(ctx, httptest.NewRequest(http.MethodGet, "/gone", nil))
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected status code %d, got %d", http.StatusServiceUnavailable, res.StatusCode)
	}
}
