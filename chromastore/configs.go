package chromastore

import (
	"time"
)

// Config holds connection and behavior settings for the Chroma backend.
//
// Example (builder style):
//
//	cfg := chromastore.FromEndpoint("http://localhost:8000").
//	    WithCollection("ideas").
//	    WithTimeout(10 * time.Second)
type Config struct {
	// Endpoint is the base URL of the Chroma server, e.g. "http://localhost:8000".
	Endpoint string `yaml:"endpoint" env:"CHROMA_ENDPOINT"`

	// Collection this store operates on.
	Collection string `yaml:"collection" env:"CHROMA_COLLECTION"`

	// Dimension is the fixed embedding length. Chroma infers dimensions
	// from the first insert, so this is enforced client-side.
	Dimension int `yaml:"dimension" env:"CHROMA_DIMENSION"`

	// Maximum request duration before timing out.
	Timeout time.Duration `yaml:"timeout" env:"CHROMA_TIMEOUT"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:   "http://localhost:8000",
		Collection: "ideas",
		Dimension:  768,
		Timeout:    5 * time.Second,
	}
}

// FromEndpoint returns a default config pre-filled with a specific endpoint.
func FromEndpoint(endpoint string) *Config {
	cfg := DefaultConfig()
	cfg.Endpoint = endpoint
	return cfg
}

// Builder-style helpers (optional, ergonomic)
func (c *Config) WithCollection(name string) *Config {
	c.Collection = name
	return c
}

func (c *Config) WithDimension(dim int) *Config {
	c.Dimension = dim
	return c
}

func (c *Config) WithTimeout(d time.Duration) *Config {
	c.Timeout = d
	return c
}
