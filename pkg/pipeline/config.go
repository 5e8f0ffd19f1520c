// Package pipeline assembles the standard layer stack around terminal
// services. One Config can be reused with the Backend of every adapter, so
// the same stack is mounted unchanged on net/http, httprouter, fasthttp and gin.
package pipeline

import (
	"time"

	"github.com/Suhaibinator/SLayer/pkg/layers"
	"github.com/Suhaibinator/SLayer/pkg/service"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Config defines the configuration for a pipeline.
// It includes settings for logging, timeouts, tracing, metrics and authentication.
type Config[Req, Res any] struct {
	Logger        *zap.Logger               // Logger for all pipeline operations
	Timeout       time.Duration             // Deadline for every request (0 disables)
	IPConfig      *layers.IPConfig          // Configuration for client IP extraction
	EnableTraceID bool                      // Generate trace IDs and include them in logs
	Tracer        trace.Tracer              // OpenTelemetry tracer (nil disables spans)
	Metrics       *layers.Metrics           // Prometheus metrics (nil disables)
	Auth          layers.AuthProvider       // Authentication provider (nil disables)
	Layers        []service.Layer[Req, Res] // Additional layers, applied between Timeout and Auth
	ContainOpts   []service.Option          // Options for adapters built through the pipeline
}
