package elasticstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
)

// Logger defines the logging interface used by the elasticstore package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Store implements vectorstore.Store over an Elasticsearch index with a
// dense_vector field.
//
// Elasticsearch script scores must be non-negative, so queries use
// cosineSimilarity(query, 'embedding') + 1.0, whose native range is
// [0, 2]. The adapter shifts consistently in both directions:
// min_score = threshold + 1 going down, similarity = score - 1 coming up.
type Store struct {
	api    *elasticsearch.Client
	cfg    *Config
	logger Logger
}

// NewStore constructs the Elasticsearch-backed store and ensures the index
// exists with the dense_vector mapping for the configured dimension.
func NewStore(cfg *Config, logger Logger) (*Store, error) {
	if len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("[Elasticsearch] at least one address is required")
	}
	if cfg.Index == "" {
		return nil, fmt.Errorf("[Elasticsearch] index name cannot be empty")
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("[Elasticsearch] dimension must be positive, got %d", cfg.Dimension)
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("[Elasticsearch] failed to initialize client: %w", err)
	}

	s := &Store{api: client, cfg: cfg, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := s.ensureIndex(ctx); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("elasticsearch store connected", nil, map[string]interface{}{
			"addresses": cfg.Addresses,
			"index":     cfg.Index,
			"dimension": cfg.Dimension,
		})
	}
	return s, nil
}

// Name identifies this backend in stats and logs.
func (s *Store) Name() string { return "elasticsearch" }

// Client returns the underlying Elasticsearch SDK client for direct access
// to low-level operations.
func (s *Store) Client() *elasticsearch.Client { return s.api }

// ensureIndex verifies the index exists and creates it with the
// dense_vector mapping if missing. Safe to call multiple times.
//
// The embedding field is not indexed for ANN search: queries use an exact
// script_score over the filtered document set, which is what gives the
// deterministic scores the cascade depends on.
func (s *Store) ensureIndex(ctx context.Context) error {
	res, err := s.api.Indices.Exists([]string{s.cfg.Index}, s.api.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("[Elasticsearch] failed to check index: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	mapping := map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"embedding": map[string]any{
					"type":  "dense_vector",
					"dims":  s.cfg.Dimension,
					"index": false,
				},
				"text":       map[string]any{"type": "text"},
				"created_at": map[string]any{"type": "date"},
				"updated_at": map[string]any{"type": "date"},
				"metadata":   map[string]any{"type": "object", "dynamic": true},
			},
		},
	}
	body, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("[Elasticsearch] encode mapping: %w", err)
	}

	createRes, err := s.api.Indices.Create(
		s.cfg.Index,
		s.api.Indices.Create.WithContext(ctx),
		s.api.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return fmt.Errorf("[Elasticsearch] failed to create index '%s': %w", s.cfg.Index, err)
	}
	defer createRes.Body.Close()
	if createRes.IsError() {
		return fmt.Errorf("[Elasticsearch] create index '%s' returned %s", s.cfg.Index, createRes.Status())
	}

	if s.logger != nil {
		s.logger.Info("created elasticsearch index", nil, map[string]interface{}{
			"index": s.cfg.Index,
		})
	}
	return nil
}

// opContext applies the configured request timeout.
func (s *Store) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.Timeout)
}
