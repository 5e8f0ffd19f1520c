// Package ginx bridges gin handlers and middleware to the uniform Service and
// Layer contracts. Requests and responses are the net/http ones.
//
// Gin middleware is a handler chain driven by c.Next(), not a function that
// wraps a handler. To use it as a Layer, each application builds a private
// engine: the middleware is installed with Use and the erased inner service is
// the engine's catch-all route. Middleware therefore sees the route pattern
// "/*path" and a single "path" parameter rather than the application's routes.
//
// Every FromHandlers call and every FromMiddleware application creates its own
// engine. In gin's default debug mode each engine prints its startup warning and
// route table to gin.DefaultWriter, so programs should call
// gin.SetMode(gin.ReleaseMode) before building services with this package.
package ginx

import (
	"context"
	"errors"
	"net/http"

	"github.com/Suhaibinator/SLayer/pkg/adapter/nethttp"
	"github.com/Suhaibinator/SLayer/pkg/common"
	"github.com/Suhaibinator/SLayer/pkg/service"
	"github.com/gin-gonic/gin"
)

var errNoResponse = errors.New("service returned no response")

// catchAll is the route every private engine serves.
const catchAll = "/*path"

type errorSlotKey struct{}

// errorSlot receives the last error gin recorded for one request.
type errorSlot struct {
	err    error
	status int
}

// Adapter carries the options applied to every service it builds.
type Adapter struct {
	opts []service.Option
}

// New creates an Adapter. The engines it builds follow the global gin mode;
// set gin.ReleaseMode to keep them quiet.
func New(opts ...service.Option) Adapter {
	return Adapter{opts: opts}
}

// FromHandlers adapts a gin handler chain into a terminal service using the
// default Adapter.
func FromHandlers(handlers ...gin.HandlerFunc) nethttp.Service {
	return Adapter{}.FromHandlers(handlers...)
}

// FromMiddleware adapts gin middleware into a Layer using the default Adapter.
func FromMiddleware(middleware ...gin.HandlerFunc) nethttp.Layer {
	return Adapter{}.FromMiddleware(middleware...)
}

// FromHandlers adapts a gin handler chain into a terminal service. Errors
// recorded with c.Error are gin's failure channel: if any are present when the
// chain finishes, the request gets a failure response built from the last one.
func (a Adapter) FromHandlers(handlers ...gin.HandlerFunc) nethttp.Service {
	engine := newEngine()
	engine.Any(catchAll, handlers...)
	return a.fromEngine(engine)
}

// FromMiddleware adapts gin middleware into a Layer.
func (a Adapter) FromMiddleware(middleware ...gin.HandlerFunc) nethttp.Layer {
	return service.LayerFunc[*http.Request, *nethttp.Response](func(inner nethttp.BoxedService) nethttp.BoxedService {
		engine := newEngine()
		engine.Use(middleware...)
		engine.Any(catchAll, Handler(inner))
		return service.Box(a.fromEngine(engine))
	})
}

// Handler mounts an erased service as a gin handler.
func Handler(b nethttp.BoxedService) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := b.Run(c.Request.Context(), c.Request)
		if res == nil {
			res = nethttp.Backend{}.ErrorResponse(c.Request.URL.Path, common.NewServiceError(errNoResponse))
		}
		_ = res.WriteTo(c.Writer)
	}
}

func newEngine() *gin.Engine {
	engine := gin.New()
	engine.ContextWithFallback = true
	engine.Use(captureErrors)
	return engine
}

// captureErrors runs first in every private engine and copies the chain's
// errors into the request's slot once the chain has finished.
func captureErrors(c *gin.Context) {
	c.Next()
	if len(c.Errors) == 0 {
		return
	}
	slot, ok := c.Request.Context().Value(errorSlotKey{}).(*errorSlot)
	if !ok {
		return
	}
	slot.err = c.Errors.Last().Err
	slot.status = c.Writer.Status()
}

func (a Adapter) fromEngine(engine *gin.Engine) nethttp.Service {
	return service.Contain[*http.Request, *nethttp.Response](nethttp.Backend{}, func(ctx context.Context, r *http.Request) (*nethttp.Response, error) {
		slot := &errorSlot{}
		ctx = context.WithValue(ctx, errorSlotKey{}, slot)
		res := nethttp.Record(engine, r.WithContext(ctx))
		if slot.err != nil {
			if slot.status >= http.StatusBadRequest {
				return nil, common.WithStatus(slot.err, slot.status)
			}
			return nil, slot.err
		}
		return res, nil
	}, a.opts...)
}
