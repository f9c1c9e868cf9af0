// Package vectorstore provides a backend-agnostic abstraction for vector
// similarity search.
//
// # Overview
//
// This package defines the common [Store] contract implemented by every
// backend adapter (in-process, Qdrant, Chroma, Elasticsearch), plus the
// shared data model: [Record], [SimilarityQuery], [SimilarityResult], and
// the metadata filter conditions. The orchestrator in package vectorservice
// depends only on this package, never on a concrete adapter.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                   vectorservice.Service                     │
//	│        (cascade: primary backend → in-process mirror)       │
//	└──────────────────────────┬──────────────────────────────────┘
//	                           │
//	                           ▼
//	┌─────────────────────────────────────────────────────────────┐
//	│                     vectorstore.Store                       │
//	│           (common contract + backend-agnostic types)        │
//	└──────────────────────────┬──────────────────────────────────┘
//	                           │
//	     ┌──────────────┬──────┴───────┬──────────────┐
//	     ▼              ▼              ▼              ▼
//	┌──────────┐ ┌────────────┐ ┌────────────┐ ┌──────────────┐
//	│ memstore │ │ qdrantstore│ │ chromastore│ │ elasticstore │
//	└──────────┘ └────────────┘ └────────────┘ └──────────────┘
//
// # Score normalization
//
// Every adapter returns similarities in the uniform cosine domain [-1, 1],
// whatever its backend natively reports:
//
//	| Backend  | Native score      | Conversion                      |
//	|----------|-------------------|---------------------------------|
//	| memory   | cosine similarity | none                            |
//	| qdrant   | cosine similarity | none (threshold pushed down)    |
//	| chroma   | cosine distance   | similarity = 1 - distance       |
//	| elastic  | script score [0,2]| similarity = score - 1          |
//
// The query threshold is translated into each backend's native
// minimum-score parameter with the same conversion, in both directions.
//
// # Filters
//
// Metadata filters are a conjunction of three predicate kinds — equality,
// set membership, and numeric range — built with the convenience
// constructors:
//
//	vectorstore.NewMatch("category", "SaaS")
//	vectorstore.NewMatchAny("category", "SaaS", "FinTech")
//	vectorstore.NewNumericRange("viability_score", vectorstore.NumericRange{Gte: &min})
//
// Conditions with no predicate set, and condition types an adapter does not
// recognize, are skipped rather than rejected.
package vectorstore
