// Package vectorservice orchestrates the two-tier vector store cascade.
//
// A Service fronts a durable primary backend (Qdrant, Chroma or
// Elasticsearch behind the vectorstore.Store contract) with an in-process
// mirror. Writes go to the primary first and are mirrored best-effort;
// searches prefer the primary and fall back to the mirror only on failure.
// The fallback is deliberately asymmetric: a backend error triggers it, an
// empty result set never does, because "nothing matched" is a valid answer.
//
// When a primary write fails the record still lands in the mirror and its
// id is tracked as not yet reconciled; GetStats exposes the count and
// UnreconciledIDs the ids, so an external process can replay them once the
// primary recovers.
//
// Records arriving without an embedding are embedded from their text via
// the configured Embedder before any store is touched. Batch writes run
// with bounded concurrency and fully independent entries.
package vectorservice
