package vectorstore

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for the validation taxonomy. Malformed input is rejected
// before any backend call; backend unavailability is wrapped by the adapters
// and never conflated with ErrNotFound.
var (
	// ErrNotFound - the id does not exist in the queried backend
	ErrNotFound = errors.New("vectorstore: record not found")

	// ErrEmptyID - records and lookups require a non-empty id
	ErrEmptyID = errors.New("vectorstore: id cannot be empty")

	// ErrDimensionMismatch - the vector's length differs from the
	// collection's configured dimension
	ErrDimensionMismatch = errors.New("vectorstore: embedding dimension mismatch")

	// ErrInvalidVector - the vector contains NaN or Infinity components
	ErrInvalidVector = errors.New("vectorstore: embedding contains non-finite components")
)

// ValidateVector checks a vector against the collection dimension and
// rejects non-finite components. Must be called before any similarity
// computation or backend write.
func ValidateVector(v []float32, dimension int) error {
	if len(v) != dimension {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(v), dimension)
	}
	for i, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: component %d", ErrInvalidVector, i)
		}
	}
	return nil
}

// ValidateRecord checks the fields every backend relies on.
func ValidateRecord(r Record, dimension int) error {
	if r.ID == "" {
		return ErrEmptyID
	}
	return ValidateVector(r.Embedding, dimension)
}

// ValidateQuery normalizes and checks query parameters.
// A non-positive limit is rejected; thresholds outside [-1, 1] can never
// be satisfied consistently across backends and are rejected too.
func ValidateQuery(q SimilarityQuery, dimension int) error {
	if q.Limit <= 0 {
		return fmt.Errorf("vectorstore: limit must be positive, got %d", q.Limit)
	}
	if q.Threshold < -1 || q.Threshold > 1 {
		return fmt.Errorf("vectorstore: threshold %v outside [-1, 1]", q.Threshold)
	}
	return ValidateVector(q.Embedding, dimension)
}
