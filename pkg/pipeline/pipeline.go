package pipeline

import (
	"context"

	"github.com/Suhaibinator/SLayer/pkg/layers"
	"github.com/Suhaibinator/SLayer/pkg/service"
	"go.uber.org/zap"
)

// Pipeline builds services wrapped in the standard stack.
type Pipeline[Req, Res any] struct {
	config  Config[Req, Res]
	backend service.Backend[Req, Res]
	logger  *zap.Logger
	drainer *layers.Drainer
	stack   service.Stack[Req, Res]
}

// New creates a Pipeline for the given backend.
// The stack is fixed here, outermost first: Recovery, Drain, ClientIP, Trace,
// Tracing, Logging, Metrics, Timeout, the configured Layers, Auth.
func New[Req, Res any](config Config[Req, Res], backend service.Backend[Req, Res]) *Pipeline[Req, Res] {
	logger := config.Logger
	if logger == nil {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			logger = zap.NewNop()
		}
	}

	p := &Pipeline[Req, Res]{
		config:  config,
		backend: backend,
		logger:  logger,
		drainer: layers.NewDrainer(),
	}

	stack := service.NewStack(
		layers.Recovery(backend, logger),
		layers.Drain(backend, p.drainer),
		layers.ClientIP(backend, config.IPConfig),
	)
	if config.EnableTraceID {
		stack = stack.Append(layers.Trace(backend))
	}
	if config.Tracer != nil {
		stack = stack.Append(layers.Tracing(backend, config.Tracer))
	}
	stack = stack.Append(layers.Logging(backend, logger, config.EnableTraceID))
	if config.Metrics != nil {
		stack = stack.Append(layers.MetricsLayer(backend, config.Metrics))
	}
	if config.Timeout > 0 {
		stack = stack.Append(layers.Timeout(backend, config.Timeout, logger))
	}
	stack = stack.Append(config.Layers...)
	if config.Auth != nil {
		stack = stack.Append(layers.Auth(backend, config.Auth, logger))
	}
	p.stack = stack

	return p
}

// Build wraps terminal in the pipeline's stack.
func (p *Pipeline[Req, Res]) Build(terminal service.Service[Req, Res]) service.BoxedService[Req, Res] {
	return p.stack.Then(terminal)
}

// BuildFallible contains a fallible native call and wraps it in the stack.
func (p *Pipeline[Req, Res]) BuildFallible(call service.FallibleFunc[Req, Res]) service.BoxedService[Req, Res] {
	opts := append([]service.Option{service.WithLogger(p.logger)}, p.config.ContainOpts...)
	return p.Build(service.Contain(p.backend, call, opts...))
}

// Stack returns a copy of the layers the pipeline applies.
func (p *Pipeline[Req, Res]) Stack() service.Stack[Req, Res] {
	return append(service.Stack[Req, Res](nil), p.stack...)
}

// Logger returns the pipeline's logger.
func (p *Pipeline[Req, Res]) Logger() *zap.Logger {
	return p.logger
}

// Shutdown gracefully drains every service built by the pipeline.
// New requests get a 503 response; in-flight requests are waited for until
// ctx is done.
func (p *Pipeline[Req, Res]) Shutdown(ctx context.Context) error {
	return p.drainer.Shutdown(ctx)
}
