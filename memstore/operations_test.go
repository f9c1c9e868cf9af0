package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideascout/vectorsearch/vectorstore"
)

func newTestStore(t *testing.T, dim int) *Store {
	t.Helper()
	s, err := New(Config{Dimension: dim})
	require.NoError(t, err)
	return s
}

func unit(dim, axis int) []float32 {
	v := make([]float32, dim)
	v[axis] = 1
	return v
}

func TestPut_InsertThenUpdate(t *testing.T) {
	s := newTestStore(t, 8)
	ctx := context.Background()

	rec := vectorstore.Record{ID: "a", Embedding: unit(8, 0), Text: "alpha"}

	outcome, err := s.Put(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, vectorstore.PutInserted, outcome)

	outcome, err = s.Put(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, vectorstore.PutUpdated, outcome)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestPut_RejectsMalformedInput(t *testing.T) {
	s := newTestStore(t, 8)
	ctx := context.Background()

	_, err := s.Put(ctx, vectorstore.Record{ID: "", Embedding: unit(8, 0)})
	require.ErrorIs(t, err, vectorstore.ErrEmptyID)

	_, err = s.Put(ctx, vectorstore.Record{ID: "a", Embedding: unit(4, 0)})
	require.ErrorIs(t, err, vectorstore.ErrDimensionMismatch)
}

func TestGet_RoundTrip(t *testing.T) {
	s := newTestStore(t, 8)
	ctx := context.Background()

	rec := vectorstore.Record{
		ID:        "a",
		Embedding: unit(8, 0),
		Text:      "alpha",
		Metadata:  map[string]any{"category": "SaaS", "viability_score": 0.8},
	}
	_, err := s.Put(ctx, rec)
	require.NoError(t, err)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Text)
	assert.Equal(t, rec.Metadata, got.Metadata)
	assert.Len(t, got.Embedding, 8)
}

func TestGet_Absent(t *testing.T) {
	s := newTestStore(t, 8)
	_, err := s.Get(context.Background(), "nope")
	require.ErrorIs(t, err, vectorstore.ErrNotFound)
}

func TestDelete_MissingReturnsFalse(t *testing.T) {
	s := newTestStore(t, 8)
	ctx := context.Background()

	removed, err := s.Delete(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = s.Put(ctx, vectorstore.Record{ID: "a", Embedding: unit(8, 0)})
	require.NoError(t, err)

	removed, err = s.Delete(ctx, "a")
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestQuery_ThresholdExcludesOrthogonal(t *testing.T) {
	s := newTestStore(t, 8)
	ctx := context.Background()

	_, err := s.Put(ctx, vectorstore.Record{ID: "a", Embedding: unit(8, 0), Text: "alpha"})
	require.NoError(t, err)
	_, err = s.Put(ctx, vectorstore.Record{ID: "b", Embedding: unit(8, 1), Text: "beta"})
	require.NoError(t, err)

	results, err := s.Query(ctx, vectorstore.SimilarityQuery{
		Embedding: unit(8, 0),
		Limit:     10,
		Threshold: 0.5,
	})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
	assert.InDelta(t, 1.0, float64(results[0].Similarity), 1e-6)
}

func TestQuery_ThresholdMonotonicity(t *testing.T) {
	s := newTestStore(t, 4)
	ctx := context.Background()

	vectors := [][]float32{
		{1, 0, 0, 0},
		{0.9, 0.1, 0, 0},
		{0.5, 0.5, 0.5, 0.5},
		{0, 1, 0, 0},
	}
	for i, v := range vectors {
		_, err := s.Put(ctx, vectorstore.Record{ID: string(rune('a' + i)), Embedding: v})
		require.NoError(t, err)
	}

	query := unit(4, 0)
	prev := len(vectors) + 1
	for _, threshold := range []float32{-1, 0, 0.5, 0.9, 1} {
		results, err := s.Query(ctx, vectorstore.SimilarityQuery{
			Embedding: query,
			Limit:     10,
			Threshold: threshold,
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(results), prev, "raising threshold grew the result set")
		prev = len(results)
	}
}

func TestQuery_LimitRespected(t *testing.T) {
	s := newTestStore(t, 4)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		_, err := s.Put(ctx, vectorstore.Record{
			ID:        string(rune('a' + i)),
			Embedding: []float32{1, float32(i) * 0.01, 0, 0},
		})
		require.NoError(t, err)
	}

	results, err := s.Query(ctx, vectorstore.SimilarityQuery{
		Embedding: unit(4, 0),
		Limit:     5,
		Threshold: -1,
	})
	require.NoError(t, err)
	assert.Len(t, results, 5)

	// Descending order.
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Similarity, results[i].Similarity)
	}
}

func TestQuery_FilterExcludesDespiteSimilarity(t *testing.T) {
	s := newTestStore(t, 4)
	ctx := context.Background()

	_, err := s.Put(ctx, vectorstore.Record{
		ID:        "health",
		Embedding: unit(4, 0),
		Metadata:  map[string]any{"category": "HealthTech"},
	})
	require.NoError(t, err)
	_, err = s.Put(ctx, vectorstore.Record{
		ID:        "saas",
		Embedding: []float32{0.9, 0.1, 0, 0},
		Metadata:  map[string]any{"category": "SaaS"},
	})
	require.NoError(t, err)

	results, err := s.Query(ctx, vectorstore.SimilarityQuery{
		Embedding: unit(4, 0),
		Limit:     10,
		Threshold: -1,
		Filters: []vectorstore.FilterCondition{
			vectorstore.NewMatchAny("category", "SaaS", "FinTech"),
		},
		IncludeMetadata: true,
	})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "saas", results[0].ID)
	assert.Equal(t, "SaaS", results[0].Metadata["category"])
}

func TestQuery_MetadataOmittedUnlessRequested(t *testing.T) {
	s := newTestStore(t, 4)
	ctx := context.Background()

	_, err := s.Put(ctx, vectorstore.Record{
		ID:        "a",
		Embedding: unit(4, 0),
		Text:      "alpha",
		Metadata:  map[string]any{"category": "SaaS"},
	})
	require.NoError(t, err)

	results, err := s.Query(ctx, vectorstore.SimilarityQuery{
		Embedding: unit(4, 0),
		Limit:     1,
		Threshold: 0,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Text)
	assert.Nil(t, results[0].Metadata)
}
