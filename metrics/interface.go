package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector provides an interface for collecting and exposing application
// metrics. It abstracts Prometheus metric operations with support for
// counters, histograms, and gauges.
//
// This interface is implemented by the concrete *Metrics type.
type Collector interface {
	// Domain metric methods

	// IncrementOperation increments the operation counter.
	IncrementOperation(operation, backend, status string)

	// RecordSearchDuration records the elapsed search time for a backend tier.
	RecordSearchDuration(start time.Time, backend string)

	// IncrementFallback counts an operation that fell back to the mirror tier.
	IncrementFallback(operation string)

	// SetMirrorSize updates the mirror record-count gauge.
	SetMirrorSize(n int)

	// Dynamic metric factories

	// CreateCounter creates a new CounterVec metric and registers it.
	CreateCounter(name, help string, labels []string) *prometheus.CounterVec

	// CreateHistogram creates a new HistogramVec metric and registers it.
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec

	// CreateGauge creates a new GaugeVec metric and registers it.
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}
