// Package embedding turns text into fixed-length vectors.
//
// Two providers sit behind one [Client]:
//
//   - [InferenceProvider] calls an OpenAI-compatible /embeddings endpoint.
//   - [FallbackProvider] derives a deterministic vector from a hash of the
//     text. Same text, same vector — no semantic meaning.
//
// The client cascades remote → fallback on every failure mode (unreachable,
// rate-limited, misconfigured, wrong dimension), so Embed never propagates
// a provider error and a write is never blocked by embedding availability.
// An optional Redis cache short-circuits repeated embeds of identical text;
// cache failures degrade silently to recomputation.
package embedding
