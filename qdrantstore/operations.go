package qdrantstore

import (
	"context"
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/ideascout/vectorsearch/vectorstore"
)

// Put upserts a single record, reporting whether it was inserted or
// replaced. The write is blocking (Wait=true) so data is persisted before
// returning.
func (s *Store) Put(ctx context.Context, rec vectorstore.Record) (vectorstore.PutOutcome, error) {
	if err := vectorstore.ValidateRecord(rec, s.cfg.Dimension); err != nil {
		return "", fmt.Errorf("[Qdrant] invalid record: %w", err)
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	// Qdrant's upsert does not report insert-vs-replace, so probe first.
	// The gap between probe and write is acceptable: the outcome is
	// informational and the upsert itself is idempotent either way.
	existed, err := s.exists(ctx, rec.ID)
	if err != nil {
		return "", err
	}

	wait := true
	req := &qdrant.UpsertPoints{
		CollectionName: s.cfg.Collection,
		Points: []*qdrant.PointStruct{{
			Id:      derivePointID(rec.ID),
			Vectors: qdrant.NewVectors(rec.Embedding...),
			Payload: qdrant.NewValueMap(buildPayload(rec)),
		}},
		Wait: &wait,
	}

	if _, err := s.api.Upsert(ctx, req); err != nil {
		return "", fmt.Errorf("[Qdrant] upsert failed: %w", err)
	}

	if existed {
		return vectorstore.PutUpdated, nil
	}
	return vectorstore.PutInserted, nil
}

// Get retrieves a record by its external id, including the stored vector.
// Returns vectorstore.ErrNotFound if the id does not exist.
func (s *Store) Get(ctx context.Context, id string) (*vectorstore.Record, error) {
	if id == "" {
		return nil, vectorstore.ErrEmptyID
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	points, err := s.api.Get(ctx, &qdrant.GetPoints{
		CollectionName: s.cfg.Collection,
		Ids:            []*qdrant.PointId{derivePointID(id)},
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] get failed: %w", err)
	}
	if len(points) == 0 {
		return nil, vectorstore.ErrNotFound
	}

	point := points[0]
	rec := recordFromPayload(convertPayload(point.Payload))
	if rec.ID == "" {
		rec.ID = id
	}
	if vec := point.Vectors.GetVector(); vec != nil {
		rec.Embedding = vec.GetData()
	}
	return &rec, nil
}

// Delete removes a record by its external id. The boolean reports whether
// the record existed; deleting an absent id is not an error.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, vectorstore.ErrEmptyID
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	// Qdrant's delete does not report whether anything was removed.
	existed, err := s.exists(ctx, id)
	if err != nil {
		return false, err
	}
	if !existed {
		return false, nil
	}

	wait := true
	req := &qdrant.DeletePoints{
		CollectionName: s.cfg.Collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: []*qdrant.PointId{derivePointID(id)}},
			},
		},
		Wait: &wait,
	}

	if _, err := s.api.Delete(ctx, req); err != nil {
		return false, fmt.Errorf("[Qdrant] delete failed: %w", err)
	}
	return true, nil
}

// Query performs a filtered similarity search. The threshold is pushed
// down natively via ScoreThreshold since Qdrant's cosine score already is
// a similarity in [-1, 1].
func (s *Store) Query(ctx context.Context, q vectorstore.SimilarityQuery) ([]vectorstore.SimilarityResult, error) {
	if err := vectorstore.ValidateQuery(q, s.cfg.Dimension); err != nil {
		return nil, fmt.Errorf("[Qdrant] invalid query: %w", err)
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	limit := uint64(q.Limit)
	threshold := q.Threshold
	req := &qdrant.QueryPoints{
		CollectionName: s.cfg.Collection,
		Query:          qdrant.NewQuery(q.Embedding...),
		Limit:          &limit,
		ScoreThreshold: &threshold,
		WithPayload:    qdrant.NewWithPayload(true),
		Filter:         buildFilter(q.Filters),
	}

	resp, err := s.api.Query(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] search failed: %w", err)
	}

	results, err := parseSearchResults(resp, q.IncludeMetadata)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Debug("qdrant search completed", nil, map[string]interface{}{
			"collection": s.cfg.Collection,
			"results":    len(results),
		})
	}
	return results, nil
}

// Count returns the exact number of records in the collection.
func (s *Store) Count(ctx context.Context) (uint64, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	exact := true
	count, err := s.api.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.cfg.Collection,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("[Qdrant] count failed: %w", err)
	}
	return count, nil
}

// exists checks whether a record with the given external id is stored.
func (s *Store) exists(ctx context.Context, id string) (bool, error) {
	points, err := s.api.Get(ctx, &qdrant.GetPoints{
		CollectionName: s.cfg.Collection,
		Ids:            []*qdrant.PointId{derivePointID(id)},
		WithPayload:    qdrant.NewWithPayload(false),
	})
	if err != nil {
		return false, fmt.Errorf("[Qdrant] existence check failed: %w", err)
	}
	return len(points) > 0, nil
}
