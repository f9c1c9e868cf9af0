// Package metrics exposes Prometheus instrumentation for the vector search
// subsystem.
//
// Each service gets its own isolated registry wrapped with a constant
// "service" label, plus an HTTP server serving /metrics for scraping.
//
// Domain metrics:
//
//   - vector_operations_total{operation, backend, status} — every store
//     operation, labeled with the backend tier that served it
//   - vector_search_duration_seconds{backend} — similarity search latency
//   - vector_fallbacks_total{operation} — cascades into the mirror tier
//   - vector_mirror_records — current size of the in-process mirror
//
// Consumers depend on the [Collector] interface, implemented by *Metrics,
// so tests can substitute a no-op recorder.
package metrics
