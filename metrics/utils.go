package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IncrementOperation increments the operation counter.
// Example: m.IncrementOperation("put", "qdrant", "success")
func (m *Metrics) IncrementOperation(operation, backend, status string) {
	m.operationsTotal.WithLabelValues(operation, backend, status).Inc()
}

// RecordSearchDuration records the elapsed search time for a backend tier.
// Example: defer m.RecordSearchDuration(time.Now(), "qdrant")
func (m *Metrics) RecordSearchDuration(start time.Time, backend string) {
	m.searchDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())
}

// IncrementFallback counts an operation that fell back to the mirror tier.
// Example: m.IncrementFallback("query")
func (m *Metrics) IncrementFallback(operation string) {
	m.fallbacksTotal.WithLabelValues(operation).Inc()
}

// SetMirrorSize updates the mirror record-count gauge.
func (m *Metrics) SetMirrorSize(n int) {
	m.mirrorSize.Set(float64(n))
}

// CreateCounter creates a new CounterVec metric and registers it.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec(name, help, labels)
	m.Registry.MustRegister(counter)
	return counter
}

// CreateHistogram creates a new HistogramVec metric and registers it.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec(name, help, labels, buckets)
	m.Registry.MustRegister(hist)
	return hist
}

// CreateGauge creates a new GaugeVec metric and registers it.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := createGaugeVec(name, help, labels)
	m.Registry.MustRegister(gauge)
	return gauge
}

// createCounterVec defines a new CounterVec with standard options.
func createCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}

// createHistogramVec defines a new HistogramVec with configurable buckets.
func createHistogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: buckets,
		},
		labels,
	)
}

// createGaugeVec defines a new GaugeVec for resource monitoring.
func createGaugeVec(name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}
