package vectorstore

import "context"

// Store is the common contract implemented by every vector backend.
// It provides a backend-agnostic abstraction over vector persistence and
// similarity search, allowing the orchestrator to treat the in-process
// mirror, Qdrant, Chroma, and Elasticsearch uniformly.
//
// All implementations must preserve the same semantics:
//
//   - Put is an idempotent upsert keyed by record id and reports whether
//     the record was inserted or updated.
//   - Query returns at most Limit results, every result's similarity is
//     >= Threshold, and results are ordered by descending similarity in
//     the uniform [-1, 1] cosine domain regardless of the backend's
//     native scoring.
//   - Filter conditions an implementation does not recognize are skipped,
//     never rejected.
type Store interface {
	// Name identifies the backend ("memory", "qdrant", "chroma", "elastic").
	// Used in stats reports, metrics labels, and log fields.
	Name() string

	// Put upserts a record by id. The record's embedding must already have
	// the collection's configured dimension.
	Put(ctx context.Context, record Record) (PutOutcome, error)

	// Get fetches a record by id. Returns ErrNotFound when the id is absent;
	// any other error means the backend could not answer.
	Get(ctx context.Context, id string) (*Record, error)

	// Delete removes a record by id. Returns true if something was removed,
	// false (without error) when the id did not exist.
	Delete(ctx context.Context, id string) (bool, error)

	// Query runs a similarity search. See SimilarityQuery for parameter
	// semantics.
	Query(ctx context.Context, query SimilarityQuery) ([]SimilarityResult, error)

	// Count returns the number of records held by the backend.
	Count(ctx context.Context) (uint64, error)
}
