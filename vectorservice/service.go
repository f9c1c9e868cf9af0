package vectorservice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	traceSpan "go.opentelemetry.io/otel/trace"

	"github.com/ideascout/vectorsearch/vectorstore"
)

// ErrAllTiersFailed is returned when both the primary store and the
// in-process mirror reject an operation. It marks a terminal failure, as
// opposed to vectorstore.ErrNotFound which simply means the id is absent.
var ErrAllTiersFailed = errors.New("[VectorService] all storage tiers failed")

// Service orchestrates a two-tier store cascade: a durable primary backend
// (Qdrant, Chroma or Elasticsearch) fronted by an in-process mirror that
// keeps searches available when the primary is unreachable.
type Service struct {
	cfg      *Config
	embedder Embedder
	primary  vectorstore.Store
	mirror   Mirror

	logger  Logger
	metrics Recorder
	tracer  SpanTracer

	mu           sync.Mutex
	unreconciled map[string]struct{}
}

// Params groups the dependencies of a Service. Primary, Logger, Metrics and
// Tracer are optional; Embedder and Mirror are required.
type Params struct {
	Config   *Config
	Embedder Embedder
	Primary  vectorstore.Store
	Mirror   Mirror

	Logger  Logger
	Metrics Recorder
	Tracer  SpanTracer
}

// New creates a Service. When no primary store is configured every write and
// search runs against the mirror alone, counted as a fallback.
func New(p Params) (*Service, error) {
	if p.Embedder == nil {
		return nil, fmt.Errorf("[VectorService] embedder is required")
	}
	if p.Mirror == nil {
		return nil, fmt.Errorf("[VectorService] mirror store is required")
	}
	cfg := p.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = DefaultConfig().BatchConcurrency
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultConfig().DefaultLimit
	}

	return &Service{
		cfg:          cfg,
		embedder:     p.Embedder,
		primary:      p.Primary,
		mirror:       p.Mirror,
		logger:       p.Logger,
		metrics:      p.Metrics,
		tracer:       p.Tracer,
		unreconciled: make(map[string]struct{}),
	}, nil
}

// UnreconciledIDs returns the ids that were written to the mirror while the
// primary was unreachable and still await reconciliation.
func (s *Service) UnreconciledIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.unreconciled))
	for id := range s.unreconciled {
		ids = append(ids, id)
	}
	return ids
}

func (s *Service) markUnreconciled(id string) {
	s.mu.Lock()
	s.unreconciled[id] = struct{}{}
	s.mu.Unlock()
}

func (s *Service) clearUnreconciled(id string) {
	s.mu.Lock()
	delete(s.unreconciled, id)
	s.mu.Unlock()
}

func (s *Service) unreconciledCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.unreconciled)
}

// opContext applies the configured operation deadline.
func (s *Service) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.OperationTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.cfg.OperationTimeout)
}

func (s *Service) startSpan(ctx context.Context, name string) (context.Context, traceSpan.Span) {
	if s.tracer == nil {
		return ctx, nil
	}
	return s.tracer.StartSpan(ctx, name)
}

func (s *Service) finishSpan(span traceSpan.Span, err error) {
	if span == nil {
		return
	}
	if err != nil && s.tracer != nil {
		s.tracer.RecordErrorOnSpan(span, err)
	}
	span.End()
}

func (s *Service) spanAttributes(span traceSpan.Span, attrs map[string]interface{}) {
	if span == nil || s.tracer == nil {
		return
	}
	s.tracer.SetAttributes(span, attrs)
}

func (s *Service) countOperation(operation, backend, status string) {
	if s.metrics != nil {
		s.metrics.IncrementOperation(operation, backend, status)
	}
}

func (s *Service) countFallback(operation string) {
	if s.metrics != nil {
		s.metrics.IncrementFallback(operation)
	}
}

func (s *Service) observeSearch(start time.Time, backend string) {
	if s.metrics != nil {
		s.metrics.RecordSearchDuration(start, backend)
	}
}

func (s *Service) publishMirrorSize() {
	if s.metrics != nil {
		s.metrics.SetMirrorSize(s.mirror.Len())
	}
}

func (s *Service) logWarn(msg string, err error, fields ...map[string]interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, err, fields...)
	}
}

func (s *Service) logDebug(msg string, err error, fields ...map[string]interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, err, fields...)
	}
}

func (s *Service) primaryName() string {
	if s.primary == nil {
		return ""
	}
	return s.primary.Name()
}
