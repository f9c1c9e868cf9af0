package chromastore

import (
	"context"
	"fmt"
	"time"

	"github.com/ideascout/vectorsearch/vectorstore"
)

// Reserved metadata keys for internal fields. Chroma metadata documents
// are flat scalar maps, so timestamps travel alongside user fields under
// underscore-prefixed keys and are stripped on the way out.
const (
	createdAtKey = "_created_at"
	updatedAtKey = "_updated_at"
)

// Put upserts a single record, reporting whether it was inserted or
// replaced.
func (s *Store) Put(ctx context.Context, rec vectorstore.Record) (vectorstore.PutOutcome, error) {
	if err := vectorstore.ValidateRecord(rec, s.cfg.Dimension); err != nil {
		return "", fmt.Errorf("[Chroma] invalid record: %w", err)
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	// The upsert endpoint does not report insert-vs-replace, so probe
	// first. The outcome is informational; the upsert is idempotent.
	existed, err := s.exists(ctx, rec.ID)
	if err != nil {
		return "", err
	}

	body := map[string]any{
		"ids":        []string{rec.ID},
		"embeddings": [][]float32{rec.Embedding},
		"documents":  []string{rec.Text},
		"metadatas":  []map[string]any{buildMetadata(rec)},
	}
	if err := s.postJSON(ctx, s.collectionURL("upsert"), body, nil); err != nil {
		return "", fmt.Errorf("[Chroma] upsert failed: %w", err)
	}

	if existed {
		return vectorstore.PutUpdated, nil
	}
	return vectorstore.PutInserted, nil
}

// Get retrieves a record by id, including the stored vector.
// Returns vectorstore.ErrNotFound if the id does not exist.
func (s *Store) Get(ctx context.Context, id string) (*vectorstore.Record, error) {
	if id == "" {
		return nil, vectorstore.ErrEmptyID
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	var resp struct {
		IDs        []string         `json:"ids"`
		Embeddings [][]float32      `json:"embeddings"`
		Documents  []string         `json:"documents"`
		Metadatas  []map[string]any `json:"metadatas"`
	}
	body := map[string]any{
		"ids":     []string{id},
		"include": []string{"embeddings", "documents", "metadatas"},
	}
	if err := s.postJSON(ctx, s.collectionURL("get"), body, &resp); err != nil {
		return nil, fmt.Errorf("[Chroma] get failed: %w", err)
	}
	if len(resp.IDs) == 0 {
		return nil, vectorstore.ErrNotFound
	}

	rec := vectorstore.Record{ID: resp.IDs[0]}
	if len(resp.Embeddings) > 0 {
		rec.Embedding = resp.Embeddings[0]
	}
	if len(resp.Documents) > 0 {
		rec.Text = resp.Documents[0]
	}
	if len(resp.Metadatas) > 0 {
		rec.Metadata, rec.CreatedAt, rec.UpdatedAt = splitMetadata(resp.Metadatas[0])
	}
	return &rec, nil
}

// Delete removes a record by id. The boolean reports whether the record
// existed; deleting an absent id is not an error.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, vectorstore.ErrEmptyID
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	existed, err := s.exists(ctx, id)
	if err != nil {
		return false, err
	}
	if !existed {
		return false, nil
	}

	if err := s.postJSON(ctx, s.collectionURL("delete"), map[string]any{"ids": []string{id}}, nil); err != nil {
		return false, fmt.Errorf("[Chroma] delete failed: %w", err)
	}
	return true, nil
}

// Query performs a filtered similarity search.
//
// Chroma returns cosine distance; the adapter converts each score with
// similarity = 1 - distance and applies the threshold client-side. Results
// arrive ordered by ascending distance, which is descending similarity, so
// no re-sort is needed.
func (s *Store) Query(ctx context.Context, q vectorstore.SimilarityQuery) ([]vectorstore.SimilarityResult, error) {
	if err := vectorstore.ValidateQuery(q, s.cfg.Dimension); err != nil {
		return nil, fmt.Errorf("[Chroma] invalid query: %w", err)
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	include := []string{"distances"}
	if q.IncludeMetadata {
		include = append(include, "documents", "metadatas")
	}
	body := map[string]any{
		"query_embeddings": [][]float32{q.Embedding},
		"n_results":        q.Limit,
		"include":          include,
	}
	if where := buildWhere(q.Filters); where != nil {
		body["where"] = where
	}

	var resp struct {
		IDs       [][]string         `json:"ids"`
		Distances [][]float32        `json:"distances"`
		Documents [][]string         `json:"documents"`
		Metadatas [][]map[string]any `json:"metadatas"`
	}
	if err := s.postJSON(ctx, s.collectionURL("query"), body, &resp); err != nil {
		return nil, fmt.Errorf("[Chroma] search failed: %w", err)
	}
	if len(resp.IDs) == 0 {
		return []vectorstore.SimilarityResult{}, nil
	}

	ids := resp.IDs[0]
	results := make([]vectorstore.SimilarityResult, 0, len(ids))
	for i, id := range ids {
		if i >= len(resp.Distances[0]) {
			break
		}
		similarity := 1 - resp.Distances[0][i]
		if similarity < q.Threshold {
			continue
		}

		result := vectorstore.SimilarityResult{ID: id, Similarity: similarity}
		if q.IncludeMetadata {
			if len(resp.Documents) > 0 && i < len(resp.Documents[0]) {
				result.Text = resp.Documents[0][i]
			}
			if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
				result.Metadata, _, _ = splitMetadata(resp.Metadatas[0][i])
			}
		}
		results = append(results, result)
	}

	if s.logger != nil {
		s.logger.Debug("chroma search completed", nil, map[string]interface{}{
			"collection": s.cfg.Collection,
			"results":    len(results),
		})
	}
	return results, nil
}

// Count returns the number of records in the collection.
func (s *Store) Count(ctx context.Context) (uint64, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	var count uint64
	if err := s.getJSON(ctx, s.collectionURL("count"), &count); err != nil {
		return 0, fmt.Errorf("[Chroma] count failed: %w", err)
	}
	return count, nil
}

// exists checks whether a record with the given id is stored.
func (s *Store) exists(ctx context.Context, id string) (bool, error) {
	var resp struct {
		IDs []string `json:"ids"`
	}
	if err := s.postJSON(ctx, s.collectionURL("get"), map[string]any{"ids": []string{id}}, &resp); err != nil {
		return false, fmt.Errorf("[Chroma] existence check failed: %w", err)
	}
	return len(resp.IDs) > 0, nil
}

// opContext applies the configured request timeout.
func (s *Store) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.Timeout)
}

// buildMetadata flattens a record into a Chroma metadata document: user
// fields pass through, timestamps go under reserved keys. Chroma only
// accepts scalar metadata values; non-scalar user values are skipped.
func buildMetadata(rec vectorstore.Record) map[string]any {
	meta := make(map[string]any, len(rec.Metadata)+2)
	for k, v := range rec.Metadata {
		switch v.(type) {
		case string, bool, int, int32, int64, float32, float64:
			meta[k] = v
		}
	}
	if !rec.CreatedAt.IsZero() {
		meta[createdAtKey] = rec.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	if !rec.UpdatedAt.IsZero() {
		meta[updatedAtKey] = rec.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	return meta
}

// splitMetadata separates user metadata from the reserved internal keys.
func splitMetadata(meta map[string]any) (map[string]any, time.Time, time.Time) {
	var createdAt, updatedAt time.Time
	user := make(map[string]any, len(meta))
	for k, v := range meta {
		switch k {
		case createdAtKey:
			if s, ok := v.(string); ok {
				createdAt, _ = time.Parse(time.RFC3339Nano, s)
			}
		case updatedAtKey:
			if s, ok := v.(string); ok {
				updatedAt, _ = time.Parse(time.RFC3339Nano, s)
			}
		default:
			user[k] = v
		}
	}
	if len(user) == 0 {
		user = nil
	}
	return user, createdAt, updatedAt
}
