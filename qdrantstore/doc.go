// Package qdrantstore implements the vectorstore.Store contract on top of
// the Qdrant vector database.
//
// Qdrant is the prioritized primary backend of the cascade: it returns
// cosine similarity natively in [-1, 1], so scores pass through unchanged
// and the query threshold is pushed down server-side via ScoreThreshold.
//
// # Core Features
//
//   - Managed client lifecycle with Fx integration
//   - Config struct supporting environment and YAML loading
//   - Automatic health check and collection bootstrap on construction
//   - Blocking writes (Wait=true) so data is persisted before returning
//   - Metadata filters translated to native Qdrant filter conditions
//
// # Point IDs
//
// Qdrant accepts only UUIDs or unsigned integers as point ids, while
// record ids are opaque strings. Each external id is therefore mapped to
// a deterministic SHA1-derived UUID, and the external id itself is kept
// in the payload under "id". All reads resolve ids from the payload, so
// callers only ever see their own identifiers.
//
// # Payload Layout
//
// Internal fields live at the top level of the payload; user metadata is
// nested under "metadata" so filter paths are unambiguous:
//
//	{
//	    "id":         "idea-42",
//	    "text":       "AI-assisted crop rotation planning",
//	    "created_at": "2025-11-02T10:00:00Z",
//	    "updated_at": "2025-11-02T10:00:00Z",
//	    "metadata":   {"category": "AgTech", "viability_score": 0.8}
//	}
//
// A filter on the user field "category" becomes a Qdrant condition on
// "metadata.category".
//
// # Basic Usage
//
//	store, err := qdrantstore.NewStore(
//	    qdrantstore.FromEndpoint("localhost").WithCollection("ideas"),
//	    log,
//	)
//	if err != nil {
//	    log.Fatal("qdrant unavailable", err)
//	}
//	defer store.Close()
//
//	outcome, err := store.Put(ctx, vectorstore.Record{
//	    ID:        "idea-42",
//	    Embedding: vec,
//	    Text:      "AI-assisted crop rotation planning",
//	    Metadata:  map[string]any{"category": "AgTech"},
//	})
//
//	results, err := store.Query(ctx, vectorstore.SimilarityQuery{
//	    Embedding: queryVec,
//	    Limit:     5,
//	    Threshold: 0.6,
//	    Filters:   []vectorstore.FilterCondition{vectorstore.NewMatch("category", "AgTech")},
//	})
//
// # Package Layout
//
//	qdrantstore/
//	├── client.go        // client wrapper, health check, collection bootstrap
//	├── operations.go    // vectorstore.Store implementation
//	├── converter.go     // payload, point-id and filter conversion
//	├── configs.go       // configuration struct
//	└── fx_module.go     // Fx dependency injection module
//
// # Related Packages
//
//   - [vectorstore]: backend-agnostic types, filters, and the Store contract
package qdrantstore
