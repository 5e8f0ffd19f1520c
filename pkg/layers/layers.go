// Package layers provides middleware written once against the uniform Service
// contract. Every layer takes the service.Backend of the requests it handles,
// so the same layer value works on net/http, httprouter, fasthttp and gin.
package layers

import (
	"context"
	"time"

	"github.com/Suhaibinator/SLayer/pkg/service"
	"go.uber.org/zap"
)

// Recovery is a layer that recovers from panics raised by the layers inside it.
// The panic is logged and the request gets a 500 failure response.
func Recovery[Req, Res any](backend service.Backend[Req, Res], logger *zap.Logger) service.Layer[Req, Res] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return service.Around(func(c service.Context[Req, Res]) (res Res) {
		path := backend.Path(c.Request)
		method := backend.Method(c.Request)
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Panic recovered",
					zap.Any("panic", rec),
					zap.String("method", method),
					zap.String("path", path),
				)
				res = backend.ErrorResponse(path, serviceErrorFromPanic(rec))
			}
		}()
		return c.Forward()
	})
}

// Logging is a layer that logs requests.
// Server errors are logged at Error level, client errors and slow requests at
// Warn, everything else at Debug to avoid log spam. The path is captured before
// the request is handed on, so it is logged even if an inner layer rejects the
// request. A nil logger discards the entries.
func Logging[Req, Res any](backend service.Backend[Req, Res], logger *zap.Logger, enableTraceID bool) service.Layer[Req, Res] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return service.Around(func(c service.Context[Req, Res]) Res {
		start := time.Now()
		path := backend.Path(c.Request)
		method := backend.Method(c.Request)

		res := c.Forward()

		duration := time.Since(start)
		status := backend.StatusCode(res)
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
		}
		if ip := ClientIPFromContext(c.Ctx); ip != "" {
			fields = append(fields, zap.String("client_ip", ip))
		}
		if traceID := GetTraceIDFromContext(c.Ctx); enableTraceID && traceID != "" {
			fields = append([]zap.Field{zap.String("trace_id", traceID)}, fields...)
		}

		switch {
		case status >= 500:
			logger.Error("Server error", fields...)
		case status >= 400:
			logger.Warn("Client error", fields...)
		case duration > 1*time.Second:
			logger.Warn("Slow request", fields...)
		default:
			logger.Debug("Request", fields...)
		}
		return res
	})
}

// Timeout is a layer that puts a deadline on the request context.
// The inner service runs on the caller's goroutine and is expected to honor
// the context. If the deadline has passed by the time it returns, its
// response is replaced with a 408 failure response.
func Timeout[Req, Res any](backend service.Backend[Req, Res], timeout time.Duration, logger *zap.Logger) service.Layer[Req, Res] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return service.Around(func(c service.Context[Req, Res]) Res {
		if timeout <= 0 {
			return c.Forward()
		}
		path := backend.Path(c.Request)
		method := backend.Method(c.Request)

		ctx, cancel := context.WithTimeout(c.Ctx, timeout)
		defer cancel()

		res := c.Next(ctx, c.Request)
		if ctx.Err() == context.DeadlineExceeded && c.Ctx.Err() == nil {
			logger.Error("Request timed out",
				zap.String("method", method),
				zap.String("path", path),
				zap.Duration("timeout", timeout),
			)
			return backend.ErrorResponse(path, timeoutError())
		}
		return res
	})
}
