// Package coordination defines the task dispatch contract for offloading
// work to a distributed execution layer, plus a stub implementation.
//
// The stub fails every task with ErrNotImplemented rather than fabricating
// results: confidence stays zero and the elapsed time is genuinely measured.
// Callers should branch on the error, not on the placeholder fields.
package coordination
