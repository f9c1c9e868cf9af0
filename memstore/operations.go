package memstore

import (
	"context"
	"sort"

	"github.com/ideascout/vectorsearch/vectorstore"
)

// Put upserts a record by id. The stored copy never aliases the caller's
// slices or maps.
func (s *Store) Put(_ context.Context, record vectorstore.Record) (vectorstore.PutOutcome, error) {
	if err := vectorstore.ValidateRecord(record, s.cfg.Dimension); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := vectorstore.PutInserted
	if _, exists := s.records[record.ID]; exists {
		outcome = vectorstore.PutUpdated
	}
	s.records[record.ID] = record.Clone()

	return outcome, nil
}

// Get fetches a record by id.
func (s *Store) Get(_ context.Context, id string) (*vectorstore.Record, error) {
	if id == "" {
		return nil, vectorstore.ErrEmptyID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, vectorstore.ErrNotFound
	}
	out := record.Clone()
	return &out, nil
}

// Delete removes a record by id. Deleting a missing id returns false
// without error.
func (s *Store) Delete(_ context.Context, id string) (bool, error) {
	if id == "" {
		return false, vectorstore.ErrEmptyID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return false, nil
	}
	delete(s.records, id)
	return true, nil
}

// Query scans all records, applies metadata filters before scoring, computes
// cosine similarity directly, and returns descending results capped at the
// query limit with every similarity >= threshold.
func (s *Store) Query(_ context.Context, query vectorstore.SimilarityQuery) ([]vectorstore.SimilarityResult, error) {
	if err := vectorstore.ValidateQuery(query, s.cfg.Dimension); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]vectorstore.SimilarityResult, 0, len(s.records))
	for _, record := range s.records {
		if !vectorstore.MatchesAll(query.Filters, record.Metadata) {
			continue
		}

		similarity := vectorstore.CosineSimilarity(query.Embedding, record.Embedding)
		if similarity < query.Threshold {
			continue
		}

		result := vectorstore.SimilarityResult{
			ID:         record.ID,
			Similarity: similarity,
		}
		if query.IncludeMetadata {
			result.Text = record.Text
			result.Metadata = record.Clone().Metadata
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	return vectorstore.TruncateResults(results, query.Limit), nil
}

// Count returns the number of stored records.
func (s *Store) Count(_ context.Context) (uint64, error) {
	return uint64(s.Len()), nil
}
