package vectorstore

import "math"

// CosineSimilarity computes dot(a,b) / (‖a‖·‖b‖) in the range [-1, 1].
//
// Defined as 0 when either norm is 0, so the all-zero vector is "similar to
// nothing", including itself. Accumulates in float64 so that
// CosineSimilarity(a, a) == 1 holds within float tolerance for any non-zero a.
//
// Callers are expected to have validated dimensions already; mismatched
// lengths return 0 rather than panicking.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
