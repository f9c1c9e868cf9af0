package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates the Prometheus registry and HTTP server responsible
// for exposing application metrics, plus the domain metrics of the vector
// search subsystem.
type Metrics struct {
	// Server defines the HTTP server used to expose the /metrics endpoint.
	Server *http.Server

	// Registry is the Prometheus registry where all metrics are registered.
	// Each service maintains its own isolated registry to prevent metric
	// name collisions when multiple services run in the same process.
	Registry *prometheus.Registry

	// Core vector-search metrics
	operationsTotal *prometheus.CounterVec
	searchDuration  *prometheus.HistogramVec
	fallbacksTotal  *prometheus.CounterVec
	mirrorSize      prometheus.Gauge
}

// NewMetrics initializes and returns a new Metrics instance.
// It sets up a dedicated Prometheus registry, registers the vector-search
// domain metrics, wraps everything with a constant `service` label, and
// creates an HTTP server exposing the /metrics endpoint.
//
// Example:
//
//	m := metrics.NewMetrics(metrics.Config{
//	    Address:                 ":9090",
//	    ServiceName:             "vectorsearch",
//	    EnableDefaultCollectors: true,
//	})
//	go m.Server.ListenAndServe()
//
// Access metrics at: http://localhost:9090/metrics
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	// All metrics emitted by this service automatically include the label
	//   service="<cfg.ServiceName>"
	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry: registry,
	}

	m.operationsTotal = createCounterVec(
		"vector_operations_total",
		"Total number of vector store operations by operation, backend tier and status",
		[]string{"operation", "backend", "status"},
	)
	m.searchDuration = createHistogramVec(
		"vector_search_duration_seconds",
		"Duration of similarity searches in seconds per backend tier",
		[]string{"backend"},
		prometheus.DefBuckets,
	)
	m.fallbacksTotal = createCounterVec(
		"vector_fallbacks_total",
		"Number of times an operation fell back to the in-process mirror",
		[]string{"operation"},
	)
	m.mirrorSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vector_mirror_records",
		Help: "Current number of records held by the in-process mirror",
	})

	wrappedRegistry.MustRegister(
		m.operationsTotal,
		m.searchDuration,
		m.fallbacksTotal,
		m.mirrorSize,
	)

	// Standard collectors provide essential runtime metrics for Go
	// processes: memory, goroutines, GC, CPU, file descriptors, build info.
	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	m.Server = &http.Server{
		Addr:    cfg.Address,
		Handler: handler,
	}
	return m
}
