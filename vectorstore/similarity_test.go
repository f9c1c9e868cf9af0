package vectorstore

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity_SelfIsOne(t *testing.T) {
	vectors := [][]float32{
		{1, 0, 0, 0},
		{0.3, -0.7, 0.2, 0.9},
		{1e-3, 2e-3, -3e-3, 4e-3},
	}
	for _, v := range vectors {
		assert.InDelta(t, 1.0, float64(CosineSimilarity(v, v)), 1e-6)
	}
}

func TestCosineSimilarity_ZeroVectorIsZero(t *testing.T) {
	zero := []float32{0, 0, 0, 0}
	other := []float32{1, 2, 3, 4}

	assert.Equal(t, float32(0), CosineSimilarity(zero, zero))
	assert.Equal(t, float32(0), CosineSimilarity(zero, other))
	assert.Equal(t, float32(0), CosineSimilarity(other, zero))
}

func TestCosineSimilarity_Symmetry(t *testing.T) {
	a := []float32{0.1, -0.5, 0.3, 0.8}
	b := []float32{-0.2, 0.4, 0.9, -0.1}

	assert.Equal(t, CosineSimilarity(a, b), CosineSimilarity(b, a))
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	a := []float32{1, 0, 0, 0, 0, 0, 0, 0}
	b := []float32{0, 1, 0, 0, 0, 0, 0, 0}

	assert.InDelta(t, 0.0, float64(CosineSimilarity(a, b)), 1e-6)
}

func TestCosineSimilarity_Opposite(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{-1, -2, -3}

	assert.InDelta(t, -1.0, float64(CosineSimilarity(a, b)), 1e-6)
}

func TestCosineSimilarity_LengthMismatchIsZero(t *testing.T) {
	assert.Equal(t, float32(0), CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
}

func TestValidateVector(t *testing.T) {
	require.NoError(t, ValidateVector([]float32{1, 2, 3}, 3))

	err := ValidateVector([]float32{1, 2}, 3)
	require.ErrorIs(t, err, ErrDimensionMismatch)

	err = ValidateVector([]float32{1, float32(math.NaN()), 3}, 3)
	require.ErrorIs(t, err, ErrInvalidVector)

	err = ValidateVector([]float32{1, float32(math.Inf(1)), 3}, 3)
	require.ErrorIs(t, err, ErrInvalidVector)
}

func TestValidateRecord(t *testing.T) {
	rec := Record{ID: "a", Embedding: []float32{1, 0, 0}}
	require.NoError(t, ValidateRecord(rec, 3))

	rec.ID = ""
	require.ErrorIs(t, ValidateRecord(rec, 3), ErrEmptyID)
}

func TestValidateQuery(t *testing.T) {
	q := SimilarityQuery{Embedding: []float32{1, 0, 0}, Limit: 10, Threshold: 0.5}
	require.NoError(t, ValidateQuery(q, 3))

	q.Limit = 0
	require.Error(t, ValidateQuery(q, 3))

	q.Limit = 10
	q.Threshold = 1.5
	require.Error(t, ValidateQuery(q, 3))
}

func TestRecordClone_NoAliasing(t *testing.T) {
	rec := Record{
		ID:        "a",
		Embedding: []float32{1, 2, 3},
		Metadata:  map[string]any{"category": "SaaS"},
	}
	clone := rec.Clone()

	clone.Embedding[0] = 99
	clone.Metadata["category"] = "FinTech"

	assert.Equal(t, float32(1), rec.Embedding[0])
	assert.Equal(t, "SaaS", rec.Metadata["category"])
}
