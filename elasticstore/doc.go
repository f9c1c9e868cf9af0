// Package elasticstore implements the vectorstore.Store contract over an
// Elasticsearch index with a dense_vector field.
//
// # Score Normalization
//
// Elasticsearch rejects negative query scores, so similarity searches use
// an exact script_score of
//
//	cosineSimilarity(params.query_vector, 'embedding') + 1.0
//
// whose native range is [0, 2]. The adapter shifts consistently in both
// directions: the query threshold becomes min_score = threshold + 1 on the
// way down, and every hit is converted with similarity = score - 1 on the
// way up, restoring the uniform [-1, 1] domain.
//
// # Index Layout
//
// The index is created once at construction (idempotent) with an explicit
// mapping: the embedding as an unindexed dense_vector (script_score scans
// the filtered set exactly, which keeps scores deterministic), text as
// analyzed text, timestamps as dates, and metadata as a dynamic object.
// Dynamic string fields get the default .keyword sub-field, which the
// filter builder uses for exact term matching.
//
// Writes refresh immediately so a Put is visible to the next Query.
package elasticstore
