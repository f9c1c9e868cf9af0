// Package memstore implements vectorstore.Store with an in-process,
// mutex-guarded map and brute-force cosine similarity search.
//
// It serves two roles in the cascade:
//
//   - Mirror: every successful write to the primary backend is replayed
//     here best-effort, so the process keeps a searchable corpus when the
//     primary becomes unreachable.
//   - Last resort: reads that fail on the primary are retried here with
//     identical parameters. Failure at this tier is terminal.
//
// Queries are O(n) linear scans with filters applied before scoring. That
// is acceptable only because this backend is never the primary path at
// scale; it exists so the subsystem degrades instead of failing.
package memstore
