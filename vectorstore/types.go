package vectorstore

import "time"

// PutOutcome reports what an idempotent upsert did.
type PutOutcome string

const (
	// PutInserted - the id did not exist before the call
	PutInserted PutOutcome = "inserted"
	// PutUpdated - an existing record was replaced
	PutUpdated PutOutcome = "updated"
)

// Record is a single vector record inside a collection.
type Record struct {
	// ID is the opaque unique identifier within the collection
	ID string `json:"id"`

	// Embedding is the dense vector; its length must equal the
	// collection's configured dimension
	Embedding []float32 `json:"embedding"`

	// Text is the source string the embedding was computed from,
	// kept as a denormalized display snapshot
	Text string `json:"text"`

	// Metadata is an open mapping of string keys to scalar or array values
	Metadata map[string]any `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the record so callers and stores never
// alias each other's embedding slice or metadata map.
func (r Record) Clone() Record {
	out := r
	if r.Embedding != nil {
		out.Embedding = make([]float32, len(r.Embedding))
		copy(out.Embedding, r.Embedding)
	}
	if r.Metadata != nil {
		out.Metadata = make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// SimilarityQuery describes a nearest-neighbor query against one backend.
type SimilarityQuery struct {
	// Embedding is the query vector
	Embedding []float32 `json:"embedding"`

	// Limit is the maximum number of results to return
	Limit int `json:"limit"`

	// Threshold is the minimum acceptable similarity in [-1, 1].
	// Backends whose native score lives in a shifted domain translate
	// this value into their native minimum-score parameter.
	Threshold float32 `json:"threshold"`

	// Filters are metadata predicates combined with AND logic
	Filters []FilterCondition `json:"filters,omitempty"`

	// IncludeMetadata controls whether results carry the text/metadata
	// snapshot or just ids and scores
	IncludeMetadata bool `json:"includeMetadata"`
}

// SimilarityResult is a single query hit, similarity already normalized
// into the uniform [-1, 1] cosine domain.
type SimilarityResult struct {
	ID         string  `json:"id"`
	Similarity float32 `json:"similarity"`

	// Text and Metadata are populated only when the query asked for them.
	// They are a display snapshot, never authoritative domain data.
	Text     string         `json:"text,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
