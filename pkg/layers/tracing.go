package layers

import (
	"strconv"

	"github.com/Suhaibinator/SLayer/pkg/service"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing is a layer that records one OpenTelemetry span per request.
// Responses with a 5xx status mark the span as failed.
func Tracing[Req, Res any](backend service.Backend[Req, Res], tracer trace.Tracer) service.Layer[Req, Res] {
	return service.Around(func(c service.Context[Req, Res]) Res {
		method := backend.Method(c.Request)
		path := backend.Path(c.Request)

		ctx, span := tracer.Start(c.Ctx, method+" "+path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", method),
				attribute.String("url.path", path),
			),
		)
		defer span.End()

		if traceID := GetTraceIDFromContext(c.Ctx); traceID != "" {
			span.SetAttributes(attribute.String("slayer.trace_id", traceID))
		}

		res := c.Next(ctx, c.Request)

		status := backend.StatusCode(res)
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, strconv.Itoa(status))
		}
		return res
	})
}
