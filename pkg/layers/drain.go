package layers

import (
	"context"
	"sync"

	"github.com/Suhaibinator/SLayer/pkg/service"
)

// Drainer gates requests for graceful shutdown. Once Shutdown is called, new
// requests get a 503 failure response and Shutdown waits for the ones already
// in flight. A single Drainer can guard any number of services.
type Drainer struct {
	wg         sync.WaitGroup
	shutdown   bool
	shutdownMu sync.RWMutex
}

// NewDrainer creates a Drainer that accepts requests.
func NewDrainer() *Drainer {
	return &Drainer{}
}

// enter registers an in-flight request, or reports false after shutdown.
func (d *Drainer) enter() bool {
	d.shutdownMu.RLock()
	defer d.shutdownMu.RUnlock()
	if d.shutdown {
		return false
	}
	d.wg.Add(1)
	return true
}

// Shutdown stops accepting requests and waits for existing requests to complete.
// If the context is canceled before all requests complete, it returns the context's error.
func (d *Drainer) Shutdown(ctx context.Context) error {
	d.shutdownMu.Lock()
	d.shutdown = true
	d.shutdownMu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Drain returns a layer that admits requests through d.
func Drain[Req, Res any](backend service.Backend[Req, Res], d *Drainer) service.Layer[Req, Res] {
	return service.Around(func(c service.Context[Req, Res]) Res {
		if !d.enter() {
			return backend.ErrorResponse(backend.Path(c.Request), unavailableError())
		}
		defer d.wg.Done()
		return c.Forward()
	})
}
