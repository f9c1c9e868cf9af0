package vectorservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ideascout/vectorsearch/vectorstore"
)

// StoreRecord writes a record through the cascade. A missing embedding is
// computed from the record's text first. The primary store is written
// synchronously and the mirror best-effort afterwards; when the primary
// write fails the record lands in the mirror alone and its id is remembered
// as not yet reconciled.
func (s *Service) StoreRecord(ctx context.Context, record vectorstore.Record) (vectorstore.PutOutcome, error) {
	ctx, span := s.startSpan(ctx, "VectorService.StoreRecord")
	var err error
	defer func() { s.finishSpan(span, err) }()
	s.spanAttributes(span, map[string]interface{}{"record.id": record.ID})

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if record.ID == "" {
		err = vectorstore.ErrEmptyID
		return "", fmt.Errorf("[VectorService] store: %w", err)
	}
	if len(record.Embedding) == 0 {
		record.Embedding, err = s.embedder.Embed(ctx, record.Text)
		if err != nil {
			err = fmt.Errorf("[VectorService] embedding record %q: %w", record.ID, err)
			return "", err
		}
	}

	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	var outcome vectorstore.PutOutcome
	outcome, err = s.writeThrough(ctx, record)
	return outcome, err
}

// writeThrough implements the write half of the cascade.
func (s *Service) writeThrough(ctx context.Context, record vectorstore.Record) (vectorstore.PutOutcome, error) {
	if s.primary != nil {
		outcome, perr := s.primary.Put(ctx, record)
		if perr == nil {
			s.countOperation("store", s.primaryName(), "success")
			s.clearUnreconciled(record.ID)

			// The mirror write is best-effort: its failure is logged but
			// never surfaced to the caller.
			if _, merr := s.mirror.Put(ctx, record); merr != nil {
				s.countOperation("store", s.mirror.Name(), "error")
				s.logWarn("mirror write failed", merr, map[string]interface{}{"id": record.ID})
			} else {
				s.publishMirrorSize()
			}
			return outcome, nil
		}

		// A record the backends would reject for shape reasons fails the
		// same way on every tier; report it without falling back.
		if isValidationError(perr) {
			s.countOperation("store", s.primaryName(), "invalid")
			return "", perr
		}

		s.countOperation("store", s.primaryName(), "error")
		s.countFallback("store")
		s.logWarn("primary write failed, falling back to mirror", perr,
			map[string]interface{}{"id": record.ID, "backend": s.primaryName()})

		outcome, merr := s.mirror.Put(ctx, record)
		if merr != nil {
			s.countOperation("store", s.mirror.Name(), "error")
			return "", fmt.Errorf("%w: primary %s: %v; mirror: %v",
				ErrAllTiersFailed, s.primaryName(), perr, merr)
		}
		s.countOperation("store", s.mirror.Name(), "success")
		s.markUnreconciled(record.ID)
		s.publishMirrorSize()
		return outcome, nil
	}

	// Mirror-only mode: no primary configured.
	outcome, merr := s.mirror.Put(ctx, record)
	if merr != nil {
		s.countOperation("store", s.mirror.Name(), "error")
		return "", merr
	}
	s.countOperation("store", s.mirror.Name(), "success")
	s.publishMirrorSize()
	return outcome, nil
}

// StoreBatch writes a batch of records with bounded concurrency. Entries are
// independent: one failure never aborts the rest, and every entry gets its
// own result in input order. Records without embeddings are embedded in one
// batched call up front.
func (s *Service) StoreBatch(ctx context.Context, records []vectorstore.Record) []BatchResult {
	ctx, span := s.startSpan(ctx, "VectorService.StoreBatch")
	defer s.finishSpan(span, nil)
	s.spanAttributes(span, map[string]interface{}{"batch.size": len(records)})

	s.embedMissing(ctx, records)

	results := make([]BatchResult, len(records))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(s.cfg.BatchConcurrency)
	for i := range records {
		group.Go(func() error {
			outcome, err := s.StoreRecord(ctx, records[i])
			results[i] = BatchResult{ID: records[i].ID, Outcome: outcome, Err: err}
			return nil
		})
	}
	_ = group.Wait()
	return results
}

// embedMissing fills in embeddings for records that lack one, using a single
// batched call. On failure the records are left untouched and StoreRecord
// embeds them individually.
func (s *Service) embedMissing(ctx context.Context, records []vectorstore.Record) {
	var texts []string
	var indices []int
	for i := range records {
		if len(records[i].Embedding) == 0 && records[i].ID != "" {
			texts = append(texts, records[i].Text)
			indices = append(indices, i)
		}
	}
	if len(texts) == 0 {
		return
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil || len(embeddings) != len(texts) {
		s.logDebug("batched embedding unavailable, embedding per record", err, nil)
		return
	}
	for j, i := range indices {
		records[i].Embedding = embeddings[j]
	}
}

// UpdateRecord replaces an existing record. The embedding is always
// recomputed from the new text, and the original creation time is preserved
// when the record is already known.
func (s *Service) UpdateRecord(ctx context.Context, record vectorstore.Record) (vectorstore.PutOutcome, error) {
	ctx, span := s.startSpan(ctx, "VectorService.UpdateRecord")
	var err error
	defer func() { s.finishSpan(span, err) }()

	record.Embedding = nil
	if existing, gerr := s.GetRecord(ctx, record.ID); gerr == nil {
		record.CreatedAt = existing.CreatedAt
	}

	var outcome vectorstore.PutOutcome
	outcome, err = s.StoreRecord(ctx, record)
	return outcome, err
}

// GetRecord fetches a record by id. A transport failure on the primary falls
// back to the mirror; a definite not-found does not, unless the id is known
// to live only in the mirror because an earlier primary write failed.
func (s *Service) GetRecord(ctx context.Context, id string) (*vectorstore.Record, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if s.primary == nil {
		return s.mirror.Get(ctx, id)
	}

	record, perr := s.primary.Get(ctx, id)
	if perr == nil {
		return record, nil
	}
	if errors.Is(perr, vectorstore.ErrNotFound) && !s.isUnreconciled(id) {
		return nil, perr
	}

	if !errors.Is(perr, vectorstore.ErrNotFound) {
		s.countFallback("get")
		s.logWarn("primary read failed, falling back to mirror", perr,
			map[string]interface{}{"id": id, "backend": s.primaryName()})
	}

	record, merr := s.mirror.Get(ctx, id)
	if merr != nil {
		if errors.Is(merr, vectorstore.ErrNotFound) && errors.Is(perr, vectorstore.ErrNotFound) {
			return nil, merr
		}
		if errors.Is(merr, vectorstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: primary %s: %v; mirror: record absent",
				ErrAllTiersFailed, s.primaryName(), perr)
		}
		return nil, fmt.Errorf("%w: primary %s: %v; mirror: %v",
			ErrAllTiersFailed, s.primaryName(), perr, merr)
	}
	return record, nil
}

func (s *Service) isUnreconciled(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.unreconciled[id]
	return ok
}

// DeleteRecord removes a record from both tiers best-effort. The overall
// operation succeeds as long as the mirror deletion succeeds; a primary
// failure is logged and the id stays marked for reconciliation. The returned
// flag reports whether any tier actually held the record.
func (s *Service) DeleteRecord(ctx context.Context, id string) (bool, error) {
	ctx, span := s.startSpan(ctx, "VectorService.DeleteRecord")
	var err error
	defer func() { s.finishSpan(span, err) }()
	s.spanAttributes(span, map[string]interface{}{"record.id": id})

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	var primaryExisted bool
	var perr error
	if s.primary != nil {
		primaryExisted, perr = s.primary.Delete(ctx, id)
		if perr != nil {
			s.countOperation("delete", s.primaryName(), "error")
			s.countFallback("delete")
			// The primary may still hold the record; remember the id so the
			// deletion can be replayed once the backend recovers.
			s.markUnreconciled(id)
			s.logWarn("primary delete failed", perr,
				map[string]interface{}{"id": id, "backend": s.primaryName()})
		} else {
			s.countOperation("delete", s.primaryName(), "success")
		}
	}

	mirrorExisted, merr := s.mirror.Delete(ctx, id)
	if merr != nil {
		s.countOperation("delete", s.mirror.Name(), "error")
		if perr != nil {
			err = fmt.Errorf("%w: primary %s: %v; mirror: %v",
				ErrAllTiersFailed, s.primaryName(), perr, merr)
		} else {
			err = fmt.Errorf("[VectorService] mirror delete: %w", merr)
		}
		return false, err
	}
	s.countOperation("delete", s.mirror.Name(), "success")

	if perr == nil {
		s.clearUnreconciled(id)
	}
	s.publishMirrorSize()
	return primaryExisted || mirrorExisted, nil
}

// Search runs a similarity search through the cascade. The primary backend
// answers when reachable; only a failure triggers the mirror — an empty
// result set is a valid answer and is returned as-is.
func (s *Service) Search(ctx context.Context, req SearchRequest) ([]vectorstore.SimilarityResult, error) {
	ctx, span := s.startSpan(ctx, "VectorService.Search")
	var err error
	defer func() { s.finishSpan(span, err) }()

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	embeddingVec := req.Embedding
	if len(embeddingVec) == 0 {
		if req.Text == "" {
			err = fmt.Errorf("[VectorService] search requires text or an embedding")
			return nil, err
		}
		embeddingVec, err = s.embedder.Embed(ctx, req.Text)
		if err != nil {
			err = fmt.Errorf("[VectorService] embedding query: %w", err)
			return nil, err
		}
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	query := vectorstore.SimilarityQuery{
		Embedding:       embeddingVec,
		Limit:           limit,
		Threshold:       req.Threshold,
		Filters:         req.Filters,
		IncludeMetadata: req.IncludeMetadata,
	}
	s.spanAttributes(span, map[string]interface{}{
		"query.limit":     limit,
		"query.threshold": float64(req.Threshold),
	})

	var results []vectorstore.SimilarityResult
	results, err = s.queryCascade(ctx, query)
	return results, err
}

// queryCascade implements the read half of the cascade.
func (s *Service) queryCascade(ctx context.Context, query vectorstore.SimilarityQuery) ([]vectorstore.SimilarityResult, error) {
	var perr error
	if s.primary != nil {
		start := time.Now()
		results, err := s.primary.Query(ctx, query)
		s.observeSearch(start, s.primaryName())
		if err == nil {
			s.countOperation("search", s.primaryName(), "success")
			return results, nil
		}
		if isValidationError(err) {
			s.countOperation("search", s.primaryName(), "invalid")
			return nil, err
		}
		perr = err
		s.countOperation("search", s.primaryName(), "error")
		s.countFallback("search")
		s.logWarn("primary search failed, falling back to mirror", perr,
			map[string]interface{}{"backend": s.primaryName()})
	}

	start := time.Now()
	results, merr := s.mirror.Query(ctx, query)
	s.observeSearch(start, s.mirror.Name())
	if merr != nil {
		s.countOperation("search", s.mirror.Name(), "error")
		if perr != nil {
			return nil, fmt.Errorf("%w: primary %s: %v; mirror: %v",
				ErrAllTiersFailed, s.primaryName(), perr, merr)
		}
		return nil, fmt.Errorf("[VectorService] mirror search: %w", merr)
	}
	s.countOperation("search", s.mirror.Name(), "success")
	return results, nil
}

// FindSimilar searches for records similar to an already stored one, using
// its embedding as the query vector. The source record itself is excluded
// from the results.
func (s *Service) FindSimilar(ctx context.Context, id string, limit int, threshold float32) ([]vectorstore.SimilarityResult, error) {
	ctx, span := s.startSpan(ctx, "VectorService.FindSimilar")
	var err error
	defer func() { s.finishSpan(span, err) }()
	s.spanAttributes(span, map[string]interface{}{"record.id": id})

	var record *vectorstore.Record
	record, err = s.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	// One extra candidate so the excluded source never eats into the limit.
	var results []vectorstore.SimilarityResult
	results, err = s.Search(ctx, SearchRequest{
		Embedding: record.Embedding,
		Limit:     limit + 1,
		Threshold: threshold,
	})
	if err != nil {
		return nil, err
	}

	filtered := results[:0]
	for _, result := range results {
		if result.ID == id {
			continue
		}
		filtered = append(filtered, result)
	}
	return vectorstore.TruncateResults(filtered, limit), nil
}

// GetStats assembles a best-effort snapshot of the cascade. It never returns
// an error: an unreachable backend contributes a zero count plus the failure
// message instead of failing the whole report.
func (s *Service) GetStats(ctx context.Context) Stats {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	stats := Stats{
		Primary:       s.primaryName(),
		MirrorRecords: s.mirror.Len(),
		Unreconciled:  s.unreconciledCount(),
	}

	if s.primary != nil {
		backend := BackendStats{Name: s.primaryName()}
		if count, err := s.primary.Count(ctx); err != nil {
			backend.Error = err.Error()
		} else {
			backend.Count = count
		}
		stats.Backends = append(stats.Backends, backend)
	}

	mirrorStats := BackendStats{Name: s.mirror.Name()}
	if count, err := s.mirror.Count(ctx); err != nil {
		mirrorStats.Error = err.Error()
	} else {
		mirrorStats.Count = count
	}
	stats.Backends = append(stats.Backends, mirrorStats)

	s.publishMirrorSize()
	return stats
}

// isValidationError reports whether err is an input-shape rejection that no
// fallback could fix.
func isValidationError(err error) bool {
	return errors.Is(err, vectorstore.ErrEmptyID) ||
		errors.Is(err, vectorstore.ErrDimensionMismatch) ||
		errors.Is(err, vectorstore.ErrInvalidVector)
}
