package vectorservice

import (
	"context"
	"time"

	traceSpan "go.opentelemetry.io/otel/trace"

	"github.com/ideascout/vectorsearch/vectorstore"
)

// Embedder turns text into fixed-length vectors. Implemented by
// embedding.Client, which never fails: remote errors cascade into the
// deterministic fallback generator.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Mirror is the in-process tier of the cascade: a full Store that can also
// report its size synchronously. Implemented by memstore.Store.
type Mirror interface {
	vectorstore.Store
	Len() int
}

// Logger defines the logging interface used by the vectorservice package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Recorder is the slice of metrics.Collector the orchestrator emits.
type Recorder interface {
	IncrementOperation(operation, backend, status string)
	RecordSearchDuration(start time.Time, backend string)
	IncrementFallback(operation string)
	SetMirrorSize(n int)
}

// SpanTracer is the slice of tracer.Tracer the orchestrator uses.
type SpanTracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, traceSpan.Span)
	RecordErrorOnSpan(span traceSpan.Span, err error)
	SetAttributes(span traceSpan.Span, attrs map[string]interface{})
}

// SearchRequest describes one orchestrated similarity search.
// Either Text or Embedding must be set; when both are present the
// embedding wins and the text is ignored.
type SearchRequest struct {
	Text      string
	Embedding []float32

	Limit     int
	Threshold float32

	Filters         []vectorstore.FilterCondition
	IncludeMetadata bool
}

// BatchResult reports the independent outcome of one batch entry.
type BatchResult struct {
	ID      string
	Outcome vectorstore.PutOutcome
	Err     error
}

// BackendStats is the per-backend portion of a Stats report.
type BackendStats struct {
	Name  string `json:"name"`
	Count uint64 `json:"count"`

	// Error carries the reachability failure for this backend, empty when
	// the count succeeded. Stats never fails as a whole.
	Error string `json:"error,omitempty"`
}

// Stats is a best-effort snapshot of the cascade's state.
type Stats struct {
	Primary       string         `json:"primary"`
	MirrorRecords int            `json:"mirrorRecords"`
	Unreconciled  int            `json:"unreconciled"`
	Backends      []BackendStats `json:"backends"`
}
