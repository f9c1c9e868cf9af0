// Package tracer wraps OpenTelemetry setup and span helpers.
//
// NewClient configures a TracerProvider with service/environment resource
// attributes and, when enabled, an OTLP HTTP exporter driven by the
// standard OTEL_EXPORTER_OTLP_* environment variables. The provider is
// registered globally so instrumented libraries pick it up.
//
// The orchestrator uses StartSpan / SetAttributes / RecordErrorOnSpan
// around every backend call, so a search that cascades from the primary
// backend to the mirror shows up as sibling spans under one operation.
package tracer
