package chromastore

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Logger defines the logging interface used by the chromastore package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Store implements vectorstore.Store over Chroma's REST API.
//
// Chroma reports cosine *distance*; the adapter converts every score with
// similarity = 1 - distance and applies the query threshold client-side,
// since the service has no native similarity cutoff.
type Store struct {
	httpClient *http.Client
	cfg        *Config
	logger     Logger

	// collectionID is the server-assigned id of the configured collection,
	// resolved once at construction via get_or_create.
	collectionID string
}

// NewStore constructs the Chroma-backed store and ensures the collection
// exists, created with the cosine distance function if missing.
func NewStore(cfg *Config, logger Logger) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("[Chroma] endpoint cannot be empty")
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("[Chroma] collection name cannot be empty")
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("[Chroma] dimension must be positive, got %d", cfg.Dimension)
	}

	s := &Store{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		logger:     logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := s.ensureCollection(ctx); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("chroma store connected", nil, map[string]interface{}{
			"endpoint":   cfg.Endpoint,
			"collection": cfg.Collection,
			"dimension":  cfg.Dimension,
		})
	}
	return s, nil
}

// Name identifies this backend in stats and logs.
func (s *Store) Name() string { return "chroma" }

// ensureCollection resolves the collection id, creating the collection
// with cosine distance if it does not exist. get_or_create makes the call
// idempotent, so repeated startups are safe.
func (s *Store) ensureCollection(ctx context.Context) error {
	var resp struct {
		ID string `json:"id"`
	}
	err := s.postJSON(ctx, s.apiURL("collections"), map[string]any{
		"name":          s.cfg.Collection,
		"metadata":      map[string]any{"hnsw:space": "cosine"},
		"get_or_create": true,
	}, &resp)
	if err != nil {
		return fmt.Errorf("[Chroma] failed to ensure collection '%s': %w", s.cfg.Collection, err)
	}
	if resp.ID == "" {
		return fmt.Errorf("[Chroma] collection response carried no id")
	}
	s.collectionID = resp.ID
	return nil
}

// apiURL joins path segments onto the configured base endpoint.
func (s *Store) apiURL(parts ...string) string {
	base := strings.TrimRight(s.cfg.Endpoint, "/")
	return base + "/api/v1/" + strings.Join(parts, "/")
}

// collectionURL builds an endpoint URL scoped to the resolved collection.
func (s *Store) collectionURL(op string) string {
	return s.apiURL("collections", s.collectionID, op)
}
