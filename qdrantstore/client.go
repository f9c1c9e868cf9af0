package qdrantstore

import (
	"context"
	"fmt"
	"slices"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
)

//
// ──────────────────────────────────────────────────────────────
//   QDRANT STORE
// ──────────────────────────────────────────────────────────────
//
// This file wires the official Qdrant Go client into the vectorstore.Store
// contract. Qdrant is the prioritized primary backend: its cosine score is
// already a similarity in [-1, 1], so no normalization is needed and the
// query threshold can be pushed down natively via ScoreThreshold.
//
// Responsibilities:
//   • Establish and validate connectivity with Qdrant.
//   • Create the collection with the configured dimension (idempotent).
//   • Upsert, get, delete, count, and search records.
//   • Translate the backend-agnostic filter conditions into Qdrant filters.
//

// Logger defines the logging interface used by the qdrantstore package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Store implements vectorstore.Store on top of a Qdrant collection.
type Store struct {
	api    *qdrant.Client
	cfg    *Config
	logger Logger
}

// NewStore constructs the Qdrant-backed store, validates connectivity via a
// health check, and ensures the collection exists with the configured
// dimension and cosine distance.
//
// The Qdrant Go SDK creates lightweight gRPC connections, so this performs
// an immediate health check to fail fast if the service is unreachable.
func NewStore(cfg *Config, logger Logger) (*Store, error) {
	if cfg.Collection == "" {
		return nil, fmt.Errorf("[Qdrant] collection name cannot be empty")
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("[Qdrant] dimension must be positive, got %d", cfg.Dimension)
	}

	port := cfg.Port
	if port == 0 {
		port = 6334
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:                   cfg.Endpoint,
		Port:                   port,
		APIKey:                 cfg.ApiKey,
		SkipCompatibilityCheck: !cfg.CheckCompatibility,
	})
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to initialize client: %w", err)
	}

	s := &Store{api: client, cfg: cfg, logger: logger}

	if err := s.healthCheck(); err != nil {
		return nil, fmt.Errorf("[Qdrant] health check failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := s.ensureCollection(ctx); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("qdrant store connected", nil, map[string]interface{}{
			"endpoint":   cfg.Endpoint,
			"collection": cfg.Collection,
			"dimension":  cfg.Dimension,
		})
	}
	return s, nil
}

// Name identifies this backend in stats and logs.
func (s *Store) Name() string { return "qdrant" }

// Client returns the underlying Qdrant SDK client for direct access to
// low-level operations.
func (s *Store) Client() *qdrant.Client { return s.api }

// healthCheck verifies the availability of the Qdrant service. Lightweight
// and fast — used during startup and readiness probes.
func (s *Store) healthCheck() error {
	if s.api == nil {
		return fmt.Errorf("[Qdrant] client not initialized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := s.api.HealthCheck(ctx); err != nil {
		return fmt.Errorf("[Qdrant] health check failed: %w", err)
	}
	return nil
}

// ensureCollection verifies the collection exists and creates it if missing.
// Safe to call multiple times — if the collection already exists the
// function exits early, which keeps startup logic simple for services that
// bootstrap their own collections.
func (s *Store) ensureCollection(ctx context.Context) error {
	collections, err := s.api.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("[Qdrant] failed to list collections: %w", err)
	}

	if slices.Contains(collections, s.cfg.Collection) {
		return nil
	}

	req := &qdrant.CreateCollection{
		CollectionName: s.cfg.Collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.cfg.Dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	}

	if err := s.api.CreateCollection(ctx, req); err != nil {
		return fmt.Errorf("[Qdrant] failed to create collection '%s': %w", s.cfg.Collection, err)
	}

	if s.logger != nil {
		s.logger.Info("created qdrant collection", nil, map[string]interface{}{
			"collection": s.cfg.Collection,
		})
	}
	return nil
}

// Close gracefully shuts down the Qdrant client.
func (s *Store) Close() error {
	if s.api == nil {
		return nil
	}
	return s.api.Close()
}

// opContext applies the configured request timeout.
func (s *Store) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.Timeout)
}
