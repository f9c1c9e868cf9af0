package vectorservice

import "time"

// Config holds the orchestrator settings.
type Config struct {
	// BatchConcurrency bounds how many batch entries are written at once.
	BatchConcurrency int `yaml:"batch_concurrency" env:"VECTORSERVICE_BATCH_CONCURRENCY"`

	// OperationTimeout caps a single orchestrated operation end to end,
	// including the fallback attempt. Zero disables the cap and defers to
	// the per-backend timeouts.
	OperationTimeout time.Duration `yaml:"operation_timeout" env:"VECTORSERVICE_OPERATION_TIMEOUT"`

	// DefaultLimit is used when a search request does not set one.
	DefaultLimit int `yaml:"default_limit" env:"VECTORSERVICE_DEFAULT_LIMIT"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchConcurrency: 4,
		OperationTimeout: 30 * time.Second,
		DefaultLimit:     10,
	}
}

// WithBatchConcurrency sets the batch write parallelism.
func (c *Config) WithBatchConcurrency(n int) *Config {
	c.BatchConcurrency = n
	return c
}

// WithOperationTimeout sets the per-operation deadline.
func (c *Config) WithOperationTimeout(d time.Duration) *Config {
	c.OperationTimeout = d
	return c
}

// WithDefaultLimit sets the search limit applied when a request omits one.
func (c *Config) WithDefaultLimit(n int) *Config {
	c.DefaultLimit = n
	return c
}
