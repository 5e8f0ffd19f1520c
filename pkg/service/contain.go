package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Suhaibinator/SLayer/pkg/common"
	"go.uber.org/zap"
)

// FallibleFunc is the shape every backend-native service reduces to: a call
// that either yields the native response or fails.
type FallibleFunc[Req, Res any] func(ctx context.Context, req Req) (Res, error)

// Option configures Contain.
type Option func(*containOptions)

type containOptions struct {
	logger *zap.Logger
}

// WithLogger logs every contained failure at Error level.
func WithLogger(logger *zap.Logger) Option {
	return func(o *containOptions) {
		o.logger = logger
	}
}

// errCanceled marks a request whose context was done before the native call.
var errCanceled = errors.New("request canceled before handling")

// Contain adapts a fallible native call into a Service. It is the failure
// containment boundary: the request path is captured before the call, a
// returned error or a panic becomes backend.ErrorResponse(path, err), and a
// successful native response is passed through unchanged.
//
// A context that is already done is not handed to the native call; the
// request gets a 503 failure response instead.
func Contain[Req, Res any](backend Backend[Req, Res], call FallibleFunc[Req, Res], opts ...Option) Service[Req, Res] {
	o := containOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return &contained[Req, Res]{backend: backend, call: call, logger: o.logger}
}

type contained[Req, Res any] struct {
	backend Backend[Req, Res]
	call    FallibleFunc[Req, Res]
	logger  *zap.Logger
}

func (c *contained[Req, Res]) Run(ctx context.Context, req Req) (res Res) {
	path := c.backend.Path(req)
	method := c.backend.Method(req)

	if err := ctx.Err(); err != nil {
		return c.fail(path, method, common.WithStatus(fmt.Errorf("%w: %w", errCanceled, err), http.StatusServiceUnavailable))
	}

	defer func() {
		if rec := recover(); rec != nil {
			se := common.ServiceErrorFromPanic(rec)
			c.logger.Error("Panic recovered",
				zap.Any("panic", rec),
				zap.String("method", method),
				zap.String("path", path),
			)
			res = c.backend.ErrorResponse(path, se)
		}
	}()

	out, err := c.call(ctx, req)
	if err != nil {
		return c.fail(path, method, err)
	}
	return out
}

func (c *contained[Req, Res]) fail(path, method string, err error) Res {
	se := common.NewServiceError(err)
	c.logger.Error("Handler error",
		zap.Error(se),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", se.StatusCode()),
	)
	return c.backend.ErrorResponse(path, se)
}
