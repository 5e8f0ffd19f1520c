package layers

import (
	"context"

	"github.com/Suhaibinator/SLayer/pkg/common"
	"github.com/Suhaibinator/SLayer/pkg/service"
	"github.com/google/uuid"
)

// TraceIDHeader is the response header carrying the trace ID.
const TraceIDHeader = "X-Trace-ID"

// Trace is a layer that generates a unique trace ID for each request, adds it
// to the context passed to the inner service and echoes it in the
// X-Trace-ID response header.
func Trace[Req, Res any](backend service.Backend[Req, Res]) service.Layer[Req, Res] {
	return service.Around(func(c service.Context[Req, Res]) Res {
		traceID := uuid.New().String()
		res := c.Next(WithTraceID(c.Ctx, traceID), c.Request)
		backend.SetHeader(res, TraceIDHeader, traceID)
		return res
	})
}

// WithTraceID returns a copy of ctx carrying traceID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return common.WithTraceID(ctx, traceID)
}

// GetTraceIDFromContext extracts the trace ID from a context.
// Returns an empty string if no trace ID is found.
func GetTraceIDFromContext(ctx context.Context) string {
	return common.TraceIDFromContext(ctx)
}
