package embedding

import (
	"os"
	"strconv"
	"time"
)

// Config holds settings for the embedding client.
//
// The remote endpoint is optional: when it is empty or unreachable, the
// client serves vectors from the deterministic fallback generator instead
// of failing, because a write must never be blocked solely by embedding
// provider unavailability.
type Config struct {
	// Base URL of the OpenAI-compatible inference service
	// (no /embeddings appended — the provider adds paths itself).
	Endpoint string `yaml:"endpoint" env:"EMBEDDING_ENDPOINT"`

	// Bearer token for the inference service.
	ServiceToken string `yaml:"service_token" env:"EMBEDDING_SERVICE_TOKEN"`

	// Model identifier passed to the inference service.
	Model string `yaml:"model" env:"EMBEDDING_MODEL"`

	// Dimension is the fixed embedding length for the collection.
	// Remote responses with a different length are treated as provider
	// failures and routed to the fallback.
	Dimension int `yaml:"dimension" env:"EMBEDDING_DIMENSION"`

	// HTTPTimeout bounds each inference request.
	HTTPTimeout time.Duration `yaml:"http_timeout" env:"EMBEDDING_HTTP_TIMEOUT"`

	// Cache configures the optional Redis vector cache.
	Cache CacheConfig `yaml:"cache"`
}

// CacheConfig configures the Redis-backed embedding cache.
type CacheConfig struct {
	// Enabled toggles the cache; disabled means every Embed call hits
	// the provider cascade directly.
	Enabled bool `yaml:"enabled" env:"EMBEDDING_CACHE_ENABLED"`

	// Addr is the Redis host:port.
	Addr string `yaml:"addr" env:"EMBEDDING_CACHE_ADDR"`

	// Password for secured deployments.
	Password string `yaml:"password" env:"EMBEDDING_CACHE_PASSWORD"`

	// DB selects the Redis logical database.
	DB int `yaml:"db" env:"EMBEDDING_CACHE_DB"`

	// TTL bounds how long cached vectors live. Zero means no expiry.
	TTL time.Duration `yaml:"ttl" env:"EMBEDDING_CACHE_TTL"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		Model:       "text-embedding-3-small",
		Dimension:   768,
		HTTPTimeout: 30 * time.Second,
		Cache: CacheConfig{
			Addr: "localhost:6379",
			TTL:  24 * time.Hour,
		},
	}
}

// NewConfig reads from environment variables on top of the defaults.
func NewConfig() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("EMBEDDING_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("EMBEDDING_SERVICE_TOKEN"); v != "" {
		cfg.ServiceToken = v
	}
	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("EMBEDDING_DIMENSION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Dimension = n
		}
	}
	if v := os.Getenv("EMBEDDING_HTTP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPTimeout = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("EMBEDDING_CACHE_ADDR"); v != "" {
		cfg.Cache.Addr = v
		cfg.Cache.Enabled = true
	}

	return cfg
}

// Builder-style helpers (optional, ergonomic)
func (c *Config) WithEndpoint(url string) *Config {
	c.Endpoint = url
	return c
}

func (c *Config) WithModel(model string) *Config {
	c.Model = model
	return c
}

func (c *Config) WithDimension(dim int) *Config {
	c.Dimension = dim
	return c
}

func (c *Config) WithHTTPTimeout(d time.Duration) *Config {
	c.HTTPTimeout = d
	return c
}
