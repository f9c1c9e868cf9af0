package memstore

import (
	"fmt"
	"sync"

	"github.com/ideascout/vectorsearch/vectorstore"
)

// Logger defines the logging interface used by the memstore package.
// Any implementation with these methods can be plugged in.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Config holds settings for the in-process store.
type Config struct {
	// Dimension is the fixed embedding length for the collection.
	Dimension int `yaml:"dimension" env:"MEMSTORE_DIMENSION"`

	// Logger is optional; nil disables logging.
	Logger Logger `yaml:"-"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{Dimension: 768}
}

// Store is the in-process exact-search backend. It keeps records in a
// mutex-guarded map and answers similarity queries by linear scan — O(n)
// per query, acceptable only because this tier is the last resort, never
// the primary path at scale.
//
// The orchestrator uses one Store instance as the mirror for the primary
// backend; it is explicitly owned, constructed once at startup, and passed
// by reference, so there is no hidden global state.
type Store struct {
	mu      sync.RWMutex
	records map[string]vectorstore.Record
	cfg     Config
	logger  Logger
}

// New constructs an empty in-process store.
func New(cfg Config) (*Store, error) {
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("[Memstore] dimension must be positive, got %d", cfg.Dimension)
	}
	return &Store{
		records: make(map[string]vectorstore.Record),
		cfg:     cfg,
		logger:  cfg.Logger,
	}, nil
}

// Name identifies this backend in stats and logs.
func (s *Store) Name() string { return "memory" }

// Len returns the current record count without a context, for stats paths
// that must never block or fail.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
