package layers

import (
	"errors"
	"strconv"
	"time"

	"github.com/Suhaibinator/SLayer/pkg/service"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsConfig defines the configuration for Prometheus metrics.
type MetricsConfig struct {
	Registerer prometheus.Registerer // Registry to register collectors on; defaults to prometheus.DefaultRegisterer
	Namespace  string                // Namespace for metrics
	Subsystem  string                // Subsystem for metrics
	Buckets    []float64             // Latency histogram buckets; defaults to prometheus.DefBuckets
	// PathLabel maps a request path to its label value. Unbounded paths
	// explode label cardinality, so the default labels every request "all".
	PathLabel func(path string) string
}

// Metrics records request count, latency and in-flight requests. One Metrics
// value may be shared by any number of layer applications; the collectors are
// safe for concurrent use.
type Metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	inFlight  prometheus.Gauge
	pathLabel func(string) string
}

// NewMetrics creates and registers the collectors. Collectors that are already
// registered with identical descriptors are reused.
func NewMetrics(config MetricsConfig) (*Metrics, error) {
	reg := config.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	buckets := config.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}
	pathLabel := config.PathLabel
	if pathLabel == nil {
		pathLabel = func(string) string { return "all" }
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Subsystem: config.Subsystem,
		Name:      "requests_total",
		Help:      "Total requests by method, path, and status code.",
	}, []string{"method", "path", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: config.Namespace,
		Subsystem: config.Subsystem,
		Name:      "request_duration_seconds",
		Help:      "Request latency in seconds.",
		Buckets:   buckets,
	}, []string{"method", "path"})
	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: config.Namespace,
		Subsystem: config.Subsystem,
		Name:      "requests_in_flight",
		Help:      "Number of requests currently being processed.",
	})

	var err error
	if requests, err = register(reg, requests); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if inFlight, err = register(reg, inFlight); err != nil {
		return nil, err
	}

	return &Metrics{
		requests:  requests,
		duration:  duration,
		inFlight:  inFlight,
		pathLabel: pathLabel,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// MetricsLayer returns a layer that records into m.
func MetricsLayer[Req, Res any](backend service.Backend[Req, Res], m *Metrics) service.Layer[Req, Res] {
	return service.Around(func(c service.Context[Req, Res]) Res {
		start := time.Now()
		method := backend.Method(c.Request)
		path := m.pathLabel(backend.Path(c.Request))

		m.inFlight.Inc()
		defer m.inFlight.Dec()

		res := c.Forward()

		status := strconv.Itoa(backend.StatusCode(res))
		m.requests.WithLabelValues(method, path, status).Inc()
		m.duration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		return res
	})
}
