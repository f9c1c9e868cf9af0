package elasticstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ideascout/vectorsearch/vectorstore"
)

// document is the index representation of a record.
type document struct {
	ID        string         `json:"id"`
	Embedding []float32      `json:"embedding"`
	Text      string         `json:"text"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Put upserts a single record, reporting whether it was inserted or
// replaced. Writes refresh immediately so subsequent queries see them —
// the cascade's read-after-write tests depend on that.
func (s *Store) Put(ctx context.Context, rec vectorstore.Record) (vectorstore.PutOutcome, error) {
	if err := vectorstore.ValidateRecord(rec, s.cfg.Dimension); err != nil {
		return "", fmt.Errorf("[Elasticsearch] invalid record: %w", err)
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	body, err := json.Marshal(document{
		ID:        rec.ID,
		Embedding: rec.Embedding,
		Text:      rec.Text,
		Metadata:  rec.Metadata,
		CreatedAt: rec.CreatedAt.UTC(),
		UpdatedAt: rec.UpdatedAt.UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("[Elasticsearch] encode document: %w", err)
	}

	res, err := s.api.Index(
		s.cfg.Index,
		bytes.NewReader(body),
		s.api.Index.WithContext(ctx),
		s.api.Index.WithDocumentID(rec.ID),
		s.api.Index.WithRefresh("true"),
	)
	if err != nil {
		return "", fmt.Errorf("[Elasticsearch] index failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return "", fmt.Errorf("[Elasticsearch] index returned %s", res.Status())
	}

	// The index API reports created-vs-updated directly, no probe needed.
	var indexed struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(res.Body).Decode(&indexed); err != nil {
		return "", fmt.Errorf("[Elasticsearch] decode index response: %w", err)
	}
	if indexed.Result == "created" {
		return vectorstore.PutInserted, nil
	}
	return vectorstore.PutUpdated, nil
}

// Get retrieves a record by id, including the stored vector.
// Returns vectorstore.ErrNotFound if the id does not exist.
func (s *Store) Get(ctx context.Context, id string) (*vectorstore.Record, error) {
	if id == "" {
		return nil, vectorstore.ErrEmptyID
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	res, err := s.api.Get(s.cfg.Index, id, s.api.Get.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("[Elasticsearch] get failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil, vectorstore.ErrNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("[Elasticsearch] get returned %s", res.Status())
	}

	var envelope struct {
		Source document `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("[Elasticsearch] decode get response: %w", err)
	}

	doc := envelope.Source
	return &vectorstore.Record{
		ID:        doc.ID,
		Embedding: doc.Embedding,
		Text:      doc.Text,
		Metadata:  doc.Metadata,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// Delete removes a record by id. The boolean reports whether the record
// existed; deleting an absent id is not an error.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, vectorstore.ErrEmptyID
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	res, err := s.api.Delete(
		s.cfg.Index,
		id,
		s.api.Delete.WithContext(ctx),
		s.api.Delete.WithRefresh("true"),
	)
	if err != nil {
		return false, fmt.Errorf("[Elasticsearch] delete failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if res.IsError() {
		return false, fmt.Errorf("[Elasticsearch] delete returned %s", res.Status())
	}
	return true, nil
}

// Query performs a filtered similarity search via an exact script_score
// query.
//
// The script computes cosineSimilarity(query, 'embedding') + 1.0, whose
// range is [0, 2], because Elasticsearch rejects negative scores. The
// threshold is shifted into that domain as min_score = threshold + 1, and
// every hit score is shifted back with similarity = score - 1. The shift
// must stay consistent in both directions or thresholds drift by one.
func (s *Store) Query(ctx context.Context, q vectorstore.SimilarityQuery) ([]vectorstore.SimilarityResult, error) {
	if err := vectorstore.ValidateQuery(q, s.cfg.Dimension); err != nil {
		return nil, fmt.Errorf("[Elasticsearch] invalid query: %w", err)
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	var inner map[string]any
	if clauses := buildFilterClauses(q.Filters); len(clauses) > 0 {
		inner = map[string]any{"bool": map[string]any{"filter": clauses}}
	} else {
		inner = map[string]any{"match_all": map[string]any{}}
	}

	source := []string{"id"}
	if q.IncludeMetadata {
		source = append(source, "text", "metadata")
	}

	body, err := json.Marshal(map[string]any{
		"size":      q.Limit,
		"min_score": q.Threshold + 1,
		"_source":   source,
		"query": map[string]any{
			"script_score": map[string]any{
				"query": inner,
				"script": map[string]any{
					"source": "cosineSimilarity(params.query_vector, 'embedding') + 1.0",
					"params": map[string]any{"query_vector": q.Embedding},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("[Elasticsearch] encode query: %w", err)
	}

	res, err := s.api.Search(
		s.api.Search.WithContext(ctx),
		s.api.Search.WithIndex(s.cfg.Index),
		s.api.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("[Elasticsearch] search failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("[Elasticsearch] search returned %s", res.Status())
	}

	var envelope struct {
		Hits struct {
			Hits []struct {
				ID     string   `json:"_id"`
				Score  float32  `json:"_score"`
				Source document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("[Elasticsearch] decode search response: %w", err)
	}

	results := make([]vectorstore.SimilarityResult, 0, len(envelope.Hits.Hits))
	for _, hit := range envelope.Hits.Hits {
		result := vectorstore.SimilarityResult{
			ID:         hit.ID,
			Similarity: hit.Score - 1,
		}
		if q.IncludeMetadata {
			result.Text = hit.Source.Text
			result.Metadata = hit.Source.Metadata
		}
		results = append(results, result)
	}

	if s.logger != nil {
		s.logger.Debug("elasticsearch search completed", nil, map[string]interface{}{
			"index":   s.cfg.Index,
			"results": len(results),
		})
	}
	return results, nil
}

// Count returns the number of records in the index.
func (s *Store) Count(ctx context.Context) (uint64, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	res, err := s.api.Count(
		s.api.Count.WithContext(ctx),
		s.api.Count.WithIndex(s.cfg.Index),
	)
	if err != nil {
		return 0, fmt.Errorf("[Elasticsearch] count failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, fmt.Errorf("[Elasticsearch] count returned %s", res.Status())
	}

	var counted struct {
		Count uint64 `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&counted); err != nil {
		return 0, fmt.Errorf("[Elasticsearch] decode count response: %w", err)
	}
	return counted.Count, nil
}
