package vectorservice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideascout/vectorsearch/memstore"
	"github.com/ideascout/vectorsearch/vectorstore"
)

const testDim = 8

var errBackendDown = errors.New("backend unreachable")

// fakeEmbedder produces deterministic unit vectors keyed off the text, so
// equal texts are identical and similarity comparisons are stable.
type fakeEmbedder struct {
	mu         sync.Mutex
	embedCalls int
	batchCalls int
	failBatch  bool
}

func (f *fakeEmbedder) vectorFor(text string) []float32 {
	v := make([]float32, testDim)
	v[len(text)%testDim] = 1
	return v
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.embedCalls++
	f.mu.Unlock()
	return f.vectorFor(text), nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	f.batchCalls++
	failBatch := f.failBatch
	f.mu.Unlock()
	if failBatch {
		return nil, errBackendDown
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = f.vectorFor(text)
	}
	return out, nil
}

// flakyStore wraps an in-process store and fails selected operations on
// demand. It stands in for an unreachable primary backend (or, as a
// mirror, for a broken last tier).
type flakyStore struct {
	name  string
	inner *memstore.Store

	failPut    bool
	failGet    bool
	failDelete bool
	failQuery  bool
	failCount  bool
}

func newFlakyStore(t *testing.T, name string) *flakyStore {
	t.Helper()
	inner, err := memstore.New(memstore.Config{Dimension: testDim})
	require.NoError(t, err)
	return &flakyStore{name: name, inner: inner}
}

func (f *flakyStore) Name() string { return f.name }
func (f *flakyStore) Len() int     { return f.inner.Len() }

func (f *flakyStore) Put(ctx context.Context, record vectorstore.Record) (vectorstore.PutOutcome, error) {
	if f.failPut {
		return "", errBackendDown
	}
	return f.inner.Put(ctx, record)
}

func (f *flakyStore) Get(ctx context.Context, id string) (*vectorstore.Record, error) {
	if f.failGet {
		return nil, errBackendDown
	}
	return f.inner.Get(ctx, id)
}

func (f *flakyStore) Delete(ctx context.Context, id string) (bool, error) {
	if f.failDelete {
		return false, errBackendDown
	}
	return f.inner.Delete(ctx, id)
}

func (f *flakyStore) Query(ctx context.Context, query vectorstore.SimilarityQuery) ([]vectorstore.SimilarityResult, error) {
	if f.failQuery {
		return nil, errBackendDown
	}
	return f.inner.Query(ctx, query)
}

func (f *flakyStore) Count(ctx context.Context) (uint64, error) {
	if f.failCount {
		return 0, errBackendDown
	}
	return f.inner.Count(ctx)
}

// countingRecorder records fallback and operation counts per key.
type countingRecorder struct {
	mu         sync.Mutex
	fallbacks  map[string]int
	operations map[string]int
	mirrorSize int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{fallbacks: map[string]int{}, operations: map[string]int{}}
}

func (r *countingRecorder) IncrementOperation(operation, backend, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations[operation+"/"+backend+"/"+status]++
}

func (r *countingRecorder) RecordSearchDuration(_ time.Time, _ string) {}

func (r *countingRecorder) IncrementFallback(operation string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbacks[operation]++
}

func (r *countingRecorder) SetMirrorSize(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mirrorSize = n
}

func (r *countingRecorder) fallbackCount(operation string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fallbacks[operation]
}

type testHarness struct {
	service  *Service
	primary  *flakyStore
	mirror   *memstore.Store
	embedder *fakeEmbedder
	recorder *countingRecorder
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	primary := newFlakyStore(t, "flaky-primary")
	mirror, err := memstore.New(memstore.Config{Dimension: testDim})
	require.NoError(t, err)
	embedder := &fakeEmbedder{}
	recorder := newCountingRecorder()

	service, err := New(Params{
		Embedder: embedder,
		Primary:  primary,
		Mirror:   mirror,
		Metrics:  recorder,
	})
	require.NoError(t, err)
	return &testHarness{
		service:  service,
		primary:  primary,
		mirror:   mirror,
		embedder: embedder,
		recorder: recorder,
	}
}

func TestStoreRecord_EmbedsMissingEmbedding(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	outcome, err := h.service.StoreRecord(ctx, vectorstore.Record{ID: "a", Text: "an idea"})
	require.NoError(t, err)
	assert.Equal(t, vectorstore.PutInserted, outcome)
	assert.Equal(t, 1, h.embedder.embedCalls)

	got, err := h.primary.Get(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, got.Embedding, testDim)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestStoreRecord_MirrorsBestEffort(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.service.StoreRecord(ctx, vectorstore.Record{ID: "a", Text: "alpha"})
	require.NoError(t, err)

	_, err = h.primary.Get(ctx, "a")
	assert.NoError(t, err, "primary must hold the record")
	_, err = h.mirror.Get(ctx, "a")
	assert.NoError(t, err, "mirror must hold the record")
	assert.Empty(t, h.service.UnreconciledIDs())
}

func TestStoreRecord_PrimaryFailureFallsBack(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.primary.failPut = true
	outcome, err := h.service.StoreRecord(ctx, vectorstore.Record{ID: "a", Text: "alpha"})
	require.NoError(t, err, "mirror write must carry the operation")
	assert.Equal(t, vectorstore.PutInserted, outcome)

	_, err = h.mirror.Get(ctx, "a")
	assert.NoError(t, err)
	assert.Equal(t, []string{"a"}, h.service.UnreconciledIDs())
	assert.Equal(t, 1, h.recorder.fallbackCount("store"))

	// Once the primary accepts the record again the id is reconciled.
	h.primary.failPut = false
	_, err = h.service.StoreRecord(ctx, vectorstore.Record{ID: "a", Text: "alpha"})
	require.NoError(t, err)
	assert.Empty(t, h.service.UnreconciledIDs())
}

func TestStoreRecord_ValidationErrorDoesNotFallBack(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.service.StoreRecord(ctx, vectorstore.Record{
		ID:        "bad",
		Embedding: []float32{1, 2}, // wrong dimension
	})
	require.ErrorIs(t, err, vectorstore.ErrDimensionMismatch)

	_, err = h.mirror.Get(ctx, "bad")
	assert.ErrorIs(t, err, vectorstore.ErrNotFound, "a rejected record must not land in the mirror")
	assert.Zero(t, h.recorder.fallbackCount("store"))

	_, err = h.service.StoreRecord(ctx, vectorstore.Record{Text: "no id"})
	assert.ErrorIs(t, err, vectorstore.ErrEmptyID)
}

func TestSearch_EmptyPrimaryResultDoesNotFallBack(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// The mirror holds a record the primary never saw; an empty primary
	// answer must still win, because empty is a valid result.
	rec := vectorstore.Record{ID: "only-mirror", Text: "alpha"}
	rec.Embedding = h.embedder.vectorFor(rec.Text)
	_, err := h.mirror.Put(ctx, rec)
	require.NoError(t, err)

	results, err := h.service.Search(ctx, SearchRequest{Text: "alpha", Threshold: -1})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, h.recorder.fallbackCount("search"))
}

func TestSearch_PrimaryErrorFallsBack(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.service.StoreRecord(ctx, vectorstore.Record{ID: "a", Text: "alpha"})
	require.NoError(t, err)

	h.primary.failQuery = true
	results, err := h.service.Search(ctx, SearchRequest{Text: "alpha", Threshold: -1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, 1, h.recorder.fallbackCount("search"))
}

func TestSearch_BothTiersFailingIsTerminal(t *testing.T) {
	primary := newFlakyStore(t, "flaky-primary")
	mirror := newFlakyStore(t, "flaky-mirror")
	service, err := New(Params{
		Embedder: &fakeEmbedder{},
		Primary:  primary,
		Mirror:   mirror,
	})
	require.NoError(t, err)

	primary.failQuery = true
	mirror.failQuery = true
	_, err = service.Search(context.Background(), SearchRequest{Text: "alpha"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllTiersFailed)
}

func TestSearch_RequiresTextOrEmbedding(t *testing.T) {
	h := newHarness(t)

	_, err := h.service.Search(context.Background(), SearchRequest{})
	assert.Error(t, err)
}

func TestStoreBatch_EntriesIndependent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	results := h.service.StoreBatch(ctx, []vectorstore.Record{
		{ID: "a", Text: "alpha"},
		{ID: "bad", Embedding: []float32{1}},
		{ID: "c", Text: "gamma"},
	})
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, "a", results[0].ID)
	assert.ErrorIs(t, results[1].Err, vectorstore.ErrDimensionMismatch)
	assert.NoError(t, results[2].Err, "a bad entry must not poison its neighbors")

	count, err := h.primary.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
	assert.Equal(t, 1, h.embedder.batchCalls, "missing embeddings are computed in one batched call")
}

func TestStoreBatch_BatchedEmbeddingFailureFallsBackPerRecord(t *testing.T) {
	h := newHarness(t)
	h.embedder.failBatch = true

	results := h.service.StoreBatch(context.Background(), []vectorstore.Record{
		{ID: "a", Text: "alpha"},
		{ID: "b", Text: "beta"},
	})
	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, 2, h.embedder.embedCalls)
}

func TestUpdateRecord_PreservesCreationTime(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.service.StoreRecord(ctx, vectorstore.Record{ID: "a", Text: "first draft"})
	require.NoError(t, err)
	original, err := h.service.GetRecord(ctx, "a")
	require.NoError(t, err)

	outcome, err := h.service.UpdateRecord(ctx, vectorstore.Record{ID: "a", Text: "second draft!"})
	require.NoError(t, err)
	assert.Equal(t, vectorstore.PutUpdated, outcome)

	updated, err := h.service.GetRecord(ctx, "a")
	require.NoError(t, err)
	assert.True(t, updated.CreatedAt.Equal(original.CreatedAt))
	assert.NotEqual(t, original.Embedding, updated.Embedding, "the embedding follows the new text")
}

func TestGetRecord_UnreconciledIDReadFromMirror(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.primary.failPut = true
	_, err := h.service.StoreRecord(ctx, vectorstore.Record{ID: "a", Text: "alpha"})
	require.NoError(t, err)
	h.primary.failPut = false

	// The primary reports not-found, but the id is known to live only in
	// the mirror, so the read is served from there.
	got, err := h.service.GetRecord(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)

	// A genuinely unknown id stays not-found without a fallback.
	_, err = h.service.GetRecord(ctx, "never-stored")
	assert.ErrorIs(t, err, vectorstore.ErrNotFound)
}

func TestDeleteRecord_PrimaryFailureStillSucceeds(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.service.StoreRecord(ctx, vectorstore.Record{ID: "a", Text: "alpha"})
	require.NoError(t, err)

	h.primary.failDelete = true
	existed, err := h.service.DeleteRecord(ctx, "a")
	require.NoError(t, err, "mirror deletion alone carries the operation")
	assert.True(t, existed)

	_, err = h.mirror.Get(ctx, "a")
	assert.ErrorIs(t, err, vectorstore.ErrNotFound)

	// The primary may still hold the record, so the id is remembered until
	// the deletion can be replayed.
	assert.Equal(t, []string{"a"}, h.service.UnreconciledIDs())

	h.primary.failDelete = false
	_, err = h.service.DeleteRecord(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, h.service.UnreconciledIDs())
}

func TestDeleteRecord_MirrorFailureIsTerminal(t *testing.T) {
	primary := newFlakyStore(t, "flaky-primary")
	mirror := newFlakyStore(t, "flaky-mirror")
	service, err := New(Params{
		Embedder: &fakeEmbedder{},
		Primary:  primary,
		Mirror:   mirror,
	})
	require.NoError(t, err)

	mirror.failDelete = true
	_, err = service.DeleteRecord(context.Background(), "a")
	assert.Error(t, err)
}

func TestDeleteRecord_AbsentIDIsNotAnError(t *testing.T) {
	h := newHarness(t)

	existed, err := h.service.DeleteRecord(context.Background(), "never-stored")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestFindSimilar_ExcludesSourceRecord(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// "alpha" and "gamma" embed identically (same length), "x" differently.
	for _, rec := range []vectorstore.Record{
		{ID: "a", Text: "alpha"},
		{ID: "b", Text: "gamma"},
		{ID: "c", Text: "x"},
	} {
		_, err := h.service.StoreRecord(ctx, rec)
		require.NoError(t, err)
	}

	results, err := h.service.FindSimilar(ctx, "a", 2, 0.5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].ID)

	_, err = h.service.FindSimilar(ctx, "never-stored", 2, 0)
	assert.ErrorIs(t, err, vectorstore.ErrNotFound)
}

func TestGetStats_NeverFails(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.service.StoreRecord(ctx, vectorstore.Record{ID: "a", Text: "alpha"})
	require.NoError(t, err)

	h.primary.failPut = true
	_, err = h.service.StoreRecord(ctx, vectorstore.Record{ID: "b", Text: "beta"})
	require.NoError(t, err)

	h.primary.failCount = true
	stats := h.service.GetStats(ctx)

	assert.Equal(t, "flaky-primary", stats.Primary)
	assert.Equal(t, 2, stats.MirrorRecords)
	assert.Equal(t, 1, stats.Unreconciled)
	require.Len(t, stats.Backends, 2)

	assert.Equal(t, "flaky-primary", stats.Backends[0].Name)
	assert.NotEmpty(t, stats.Backends[0].Error, "an unreachable backend is reported, not fatal")
	assert.Equal(t, "memory", stats.Backends[1].Name)
	assert.Equal(t, uint64(2), stats.Backends[1].Count)
}

func TestMirrorOnlyMode(t *testing.T) {
	mirror, err := memstore.New(memstore.Config{Dimension: testDim})
	require.NoError(t, err)
	service, err := New(Params{Embedder: &fakeEmbedder{}, Mirror: mirror})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = service.StoreRecord(ctx, vectorstore.Record{ID: "a", Text: "alpha"})
	require.NoError(t, err)

	results, err := service.Search(ctx, SearchRequest{Text: "alpha", Threshold: 0.9})
	require.NoError(t, err)
	require.Len(t, results, 1)

	stats := service.GetStats(ctx)
	assert.Empty(t, stats.Primary)
	require.Len(t, stats.Backends, 1)
	assert.Equal(t, "memory", stats.Backends[0].Name)
}
