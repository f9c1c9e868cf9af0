package elasticstore

import (
	"time"
)

// Config holds connection and behavior settings for the Elasticsearch
// backend.
//
// Example (builder style):
//
//	cfg := elasticstore.FromAddresses("http://localhost:9200").
//	    WithIndex("ideas").
//	    WithTimeout(10 * time.Second)
type Config struct {
	// Addresses of the Elasticsearch nodes, e.g. ["http://localhost:9200"].
	Addresses []string `yaml:"addresses" env:"ELASTICSEARCH_ADDRESSES"`

	// Optional basic auth credentials.
	Username string `yaml:"username" env:"ELASTICSEARCH_USERNAME"`
	Password string `yaml:"password" env:"ELASTICSEARCH_PASSWORD"`

	// Index this store operates on.
	Index string `yaml:"index" env:"ELASTICSEARCH_INDEX"`

	// Dimension is the fixed embedding length; the index is created with a
	// dense_vector mapping of this size if missing.
	Dimension int `yaml:"dimension" env:"ELASTICSEARCH_DIMENSION"`

	// Maximum request duration before timing out.
	Timeout time.Duration `yaml:"timeout" env:"ELASTICSEARCH_TIMEOUT"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		Addresses: []string{"http://localhost:9200"},
		Index:     "ideas",
		Dimension: 768,
		Timeout:   5 * time.Second,
	}
}

// FromAddresses returns a default config pre-filled with specific node
// addresses.
func FromAddresses(addresses ...string) *Config {
	cfg := DefaultConfig()
	cfg.Addresses = addresses
	return cfg
}

// Builder-style helpers (optional, ergonomic)
func (c *Config) WithIndex(name string) *Config {
	c.Index = name
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

func (c *Config) WithBasicAuth(username, password string) *Config {
	c.Username = username
	c.Password = password
	return c
}
