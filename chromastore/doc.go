// Package chromastore implements the vectorstore.Store contract over
// Chroma's REST API.
//
// # Score Normalization
//
// Chroma collections created with hnsw:space=cosine report cosine
// *distance* in [0, 2]. The adapter converts every score into the uniform
// similarity domain with
//
//	similarity = 1 - distance
//
// and applies the query threshold client-side, since Chroma has no native
// minimum-similarity parameter. Results arrive ordered by ascending
// distance, which is already descending similarity.
//
// # Metadata Layout
//
// Chroma metadata documents are flat scalar maps. User metadata fields
// pass through unchanged, so filter paths need no prefix; record
// timestamps travel under the reserved keys "_created_at" / "_updated_at"
// and are stripped before metadata is returned to callers. Non-scalar
// user values cannot be represented and are dropped on write.
//
// # Filters
//
// The three condition kinds map to Chroma where-documents: equality to
// $eq, set membership to $in, numeric ranges to $gt/$gte/$lt/$lte clauses
// combined with $and. Conditions the adapter cannot express are skipped.
//
// No Go client library exists for Chroma in this codebase's dependency
// set; the five REST endpoints used here are called directly, the same way
// the embedding package talks to its inference API.
package chromastore
