package elasticstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideascout/vectorsearch/vectorstore"
)

// fakeElastic is a minimal in-memory stand-in for the Elasticsearch REST
// API, covering the endpoints the adapter calls. It evaluates the
// script_score query exactly the way the real engine would: shifted cosine
// over the filtered document set, cut at min_score.
type fakeElastic struct {
	t    *testing.T
	docs map[string]document

	lastMinScore float64
}

func newFakeElastic(t *testing.T) (*fakeElastic, *httptest.Server) {
	f := &fakeElastic{t: t, docs: map[string]document{}}
	srv := httptest.NewServer(http.HandlerFunc(f.route))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeElastic) route(w http.ResponseWriter, r *http.Request) {
	// The v8 client refuses to talk to anything that does not identify
	// itself as Elasticsearch.
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	path := strings.TrimPrefix(r.URL.Path, "/")
	switch {
	case path == "ideas" && r.Method == http.MethodHead:
		w.WriteHeader(http.StatusNotFound) // force index creation
	case path == "ideas" && r.Method == http.MethodPut:
		f.writeJSON(w, map[string]any{"acknowledged": true})
	case strings.HasPrefix(path, "ideas/_doc/") && r.Method == http.MethodPut:
		f.handleIndex(w, r, strings.TrimPrefix(path, "ideas/_doc/"))
	case strings.HasPrefix(path, "ideas/_doc/") && r.Method == http.MethodGet:
		f.handleGet(w, strings.TrimPrefix(path, "ideas/_doc/"))
	case strings.HasPrefix(path, "ideas/_doc/") && r.Method == http.MethodDelete:
		f.handleDelete(w, strings.TrimPrefix(path, "ideas/_doc/"))
	case path == "ideas/_search":
		f.handleSearch(w, r)
	case path == "ideas/_count":
		f.writeJSON(w, map[string]any{"count": len(f.docs)})
	default:
		f.t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
	}
}

func (f *fakeElastic) writeJSON(w http.ResponseWriter, v any) {
	require.NoError(f.t, json.NewEncoder(w).Encode(v))
}

func (f *fakeElastic) handleIndex(w http.ResponseWriter, r *http.Request, id string) {
	var doc document
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&doc))

	result := "created"
	if _, ok := f.docs[id]; ok {
		result = "updated"
	}
	f.docs[id] = doc
	f.writeJSON(w, map[string]any{"_id": id, "result": result})
}

func (f *fakeElastic) handleGet(w http.ResponseWriter, id string) {
	doc, ok := f.docs[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		f.writeJSON(w, map[string]any{"found": false})
		return
	}
	f.writeJSON(w, map[string]any{"_id": id, "found": true, "_source": doc})
}

func (f *fakeElastic) handleDelete(w http.ResponseWriter, id string) {
	if _, ok := f.docs[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		f.writeJSON(w, map[string]any{"result": "not_found"})
		return
	}
	delete(f.docs, id)
	f.writeJSON(w, map[string]any{"result": "deleted"})
}

func (f *fakeElastic) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Size     int     `json:"size"`
		MinScore float64 `json:"min_score"`
		Query    struct {
			ScriptScore struct {
				Query  map[string]any `json:"query"`
				Script struct {
					Source string `json:"source"`
					Params struct {
						QueryVector []float32 `json:"query_vector"`
					} `json:"params"`
				} `json:"script"`
			} `json:"script_score"`
		} `json:"query"`
	}
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
	assert.Contains(f.t, req.Query.ScriptScore.Script.Source, "cosineSimilarity")
	f.lastMinScore = req.MinScore

	type hit struct {
		id    string
		score float32
		doc   document
	}
	var hits []hit
	for id, doc := range f.docs {
		if !f.matchesFilter(req.Query.ScriptScore.Query, doc) {
			continue
		}
		score := vectorstore.CosineSimilarity(req.Query.ScriptScore.Script.Params.QueryVector, doc.Embedding) + 1
		if float64(score) < req.MinScore {
			continue
		}
		hits = append(hits, hit{id: id, score: score, doc: doc})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > req.Size {
		hits = hits[:req.Size]
	}

	type respHit struct {
		ID     string   `json:"_id"`
		Score  float32  `json:"_score"`
		Source document `json:"_source"`
	}
	resp := map[string]any{"hits": map[string]any{"hits": []respHit{}}}
	out := make([]respHit, 0, len(hits))
	for _, h := range hits {
		out = append(out, respHit{ID: h.id, Score: h.score, Source: h.doc})
	}
	resp["hits"] = map[string]any{"hits": out}
	f.writeJSON(w, resp)
}

// matchesFilter evaluates only the term clauses the tests use.
func (f *fakeElastic) matchesFilter(query map[string]any, doc document) bool {
	boolQuery, ok := query["bool"].(map[string]any)
	if !ok {
		return true // match_all
	}
	filters, _ := boolQuery["filter"].([]any)
	for _, raw := range filters {
		clause, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		term, ok := clause["term"].(map[string]any)
		if !ok {
			continue
		}
		for path, want := range term {
			field := strings.TrimSuffix(strings.TrimPrefix(path, "metadata."), ".keyword")
			if doc.Metadata[field] != want {
				return false
			}
		}
	}
	return true
}

func newElasticTestStore(t *testing.T, url string) *Store {
	t.Helper()
	store, err := NewStore(FromAddresses(url).WithDimension(4).WithTimeout(2*time.Second), nil)
	require.NoError(t, err)
	return store
}

func esAxisVector(axis int) []float32 {
	v := make([]float32, 4)
	v[axis] = 1
	return v
}

func TestElasticStoreCRUD(t *testing.T) {
	_, srv := newFakeElastic(t)
	store := newElasticTestStore(t, srv.URL)
	ctx := context.Background()

	now := time.Date(2025, 11, 2, 10, 0, 0, 0, time.UTC)
	rec := vectorstore.Record{
		ID:        "idea-1",
		Embedding: esAxisVector(0),
		Text:      "first idea",
		Metadata:  map[string]any{"category": "SaaS"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	outcome, err := store.Put(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, vectorstore.PutInserted, outcome)

	outcome, err = store.Put(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, vectorstore.PutUpdated, outcome)

	got, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Embedding, got.Embedding)
	assert.Equal(t, "SaaS", got.Metadata["category"])
	assert.True(t, got.CreatedAt.Equal(now))

	_, err = store.Get(ctx, "never-stored")
	assert.ErrorIs(t, err, vectorstore.ErrNotFound)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	existed, err := store.Delete(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = store.Delete(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, existed, "deleting an absent id must not be an error")
}

func TestElasticStoreRejectsBadInput(t *testing.T) {
	_, srv := newFakeElastic(t)
	store := newElasticTestStore(t, srv.URL)
	ctx := context.Background()

	_, err := store.Put(ctx, vectorstore.Record{ID: "", Embedding: esAxisVector(0)})
	assert.ErrorIs(t, err, vectorstore.ErrEmptyID)

	_, err = store.Put(ctx, vectorstore.Record{ID: "short", Embedding: []float32{1}})
	assert.ErrorIs(t, err, vectorstore.ErrDimensionMismatch)
}

func TestElasticStoreQueryScoreShift(t *testing.T) {
	fake, srv := newFakeElastic(t)
	store := newElasticTestStore(t, srv.URL)
	ctx := context.Background()

	records := []vectorstore.Record{
		{ID: "a", Embedding: esAxisVector(0), Text: "idea a", Metadata: map[string]any{"category": "SaaS"}},
		{ID: "b", Embedding: esAxisVector(1), Text: "idea b", Metadata: map[string]any{"category": "FinTech"}},
	}
	for _, rec := range records {
		_, err := store.Put(ctx, rec)
		require.NoError(t, err)
	}

	t.Run("ThresholdShiftedIntoNativeDomain", func(t *testing.T) {
		results, err := store.Query(ctx, vectorstore.SimilarityQuery{
			Embedding: esAxisVector(0),
			Limit:     10,
			Threshold: 0.5,
		})
		require.NoError(t, err)

		// threshold 0.5 must become min_score 1.5 on the wire.
		assert.InDelta(t, 1.5, fake.lastMinScore, 1e-6)

		// ...and the shifted score must come back down to similarity.
		require.Len(t, results, 1)
		assert.Equal(t, "a", results[0].ID)
		assert.InDelta(t, 1.0, float64(results[0].Similarity), 1e-6)
	})

	t.Run("NegativeThresholdSupported", func(t *testing.T) {
		results, err := store.Query(ctx, vectorstore.SimilarityQuery{
			Embedding: esAxisVector(0),
			Limit:     10,
			Threshold: -1,
		})
		require.NoError(t, err)
		assert.InDelta(t, 0.0, fake.lastMinScore, 1e-6)
		assert.Len(t, results, 2)
	})

	t.Run("FilterApplied", func(t *testing.T) {
		results, err := store.Query(ctx, vectorstore.SimilarityQuery{
			Embedding:       esAxisVector(0),
			Limit:           10,
			Threshold:       -1,
			Filters:         []vectorstore.FilterCondition{vectorstore.NewMatch("category", "FinTech")},
			IncludeMetadata: true,
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "b", results[0].ID)
		assert.Equal(t, "FinTech", results[0].Metadata["category"])
	})

	t.Run("MetadataOmittedByDefault", func(t *testing.T) {
		results, err := store.Query(ctx, vectorstore.SimilarityQuery{
			Embedding: esAxisVector(0),
			Limit:     1,
			Threshold: 0.5,
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Empty(t, results[0].Metadata)
	})
}
