package observability

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// Collector bundles Prometheus metrics for shape editing and the gesture
// transport, and provides helpers to wire them into gRPC servers and HTTP
// handlers. It satisfies editor.MetricsRecorder.
type Collector struct {
	gatherer prometheus.Gatherer

	RPCRequests  *prometheus.CounterVec
	RPCDurations *prometheus.HistogramVec

	Edits          *prometheus.CounterVec
	NoopDeletes    *prometheus.CounterVec
	Rebuilds       *prometheus.CounterVec
	RebuildHandles prometheus.Histogram
	Sessions       prometheus.Gauge
}

// NewCollector registers mapdraw Prometheus metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mapdraw_rpc_requests_total",
		Help: "Total number of handled gesture RPCs, labeled by service, method, and gRPC status code.",
	}, []string{"service", "method", "code"}), "mapdraw_rpc_requests_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mapdraw_rpc_duration_seconds",
		Help:    "Gesture RPC latency in seconds.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"service", "method"}), "mapdraw_rpc_duration_seconds")
	if err != nil {
		return nil, err
	}

	edits, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mapdraw_edits_total",
		Help: "Committed shape edits, labeled by shape and edit kind.",
	}, []string{"shape", "kind"}), "mapdraw_edits_total")
	if err != nil {
		return nil, err
	}

	noops, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mapdraw_noop_deletes_total",
		Help: "Vertex deletes ignored because the shape was at its minimum vertex count.",
	}, []string{"shape"}), "mapdraw_noop_deletes_total")
	if err != nil {
		return nil, err
	}

	rebuilds, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mapdraw_rebuilds_total",
		Help: "Full handle rebuilds after structural changes.",
	}, []string{"shape"}), "mapdraw_rebuilds_total")
	if err != nil {
		return nil, err
	}

	handles, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mapdraw_rebuild_handles",
		Help:    "Vertex plus midpoint handles created per rebuild.",
		Buckets: prometheus.ExponentialBuckets(4, 2, 10),
	}), "mapdraw_rebuild_handles")
	if err != nil {
		return nil, err
	}

	sessions, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mapdraw_sessions",
		Help: "Current number of open edit sessions.",
	}), "mapdraw_sessions")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:       gatherer,
		RPCRequests:    requests,
		RPCDurations:   durations,
		Edits:          edits,
		NoopDeletes:    noops,
		Rebuilds:       rebuilds,
		RebuildHandles: handles,
		Sessions:       sessions,
	}, nil
}

// UnaryServerInterceptor records request counts and durations for unary RPCs.
func (c *Collector) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		if c == nil {
			return resp, err
		}

		fullMethod := ""
		if info != nil {
			fullMethod = info.FullMethod
		}
		service, method := SplitMethod(fullMethod)
		code := status.Code(err).String()

		if c.RPCRequests != nil {
			c.RPCRequests.WithLabelValues(service, method, code).Inc()
		}
		if c.RPCDurations != nil {
			c.RPCDurations.WithLabelValues(service, method).Observe(time.Since(start).Seconds())
		}

		return resp, err
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// RecordEdit counts one committed edit.
func (c *Collector) RecordEdit(shape, kind string) {
	if c == nil || c.Edits == nil {
		return
	}
	c.Edits.WithLabelValues(shape, kind).Inc()
}

// RecordNoopDelete counts a delete ignored at the vertex floor.
func (c *Collector) RecordNoopDelete(shape string) {
	if c == nil || c.NoopDeletes == nil {
		return
	}
	c.NoopDeletes.WithLabelValues(shape).Inc()
}

// RecordRebuild counts a handle rebuild and how many handles it created.
func (c *Collector) RecordRebuild(shape string, handles int) {
	if c == nil {
		return
	}
	if c.Rebuilds != nil {
		c.Rebuilds.WithLabelValues(shape).Inc()
	}
	if c.RebuildHandles != nil {
		c.RebuildHandles.Observe(float64(handles))
	}
}

// SetSessions satisfies session.MetricsRecorder so the store drives the
// gauge directly from its mutators.
func (c *Collector) SetSessions(n int) {
	if c == nil || c.Sessions == nil {
		return
	}
	c.Sessions.Set(float64(n))
}

// SplitMethod parses a fully-qualified gRPC method name into service and method
// components. It tolerates empty strings and partial paths, returning
// "unknown"/"unknown" when parsing fails.
func SplitMethod(fullMethod string) (string, string) {
	if fullMethod == "" {
		return "unknown", "unknown"
	}
	fullMethod = strings.TrimPrefix(fullMethod, "/")
	parts := strings.Split(fullMethod, "/")
	if len(parts) < 2 {
		return "unknown", "unknown"
	}
	service := parts[len(parts)-2]
	method := parts[len(parts)-1]
	if dot := strings.LastIndex(service, "."); dot >= 0 && dot+1 < len(service) {
		service = service[dot+1:]
	}
	if service == "" {
		service = "unknown"
	}
	if method == "" {
		method = "unknown"
	}
	return service, method
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
