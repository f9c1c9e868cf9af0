package embedding

import (
	"context"
	"fmt"
)

// Client is the public entrypoint for computing embeddings.
//
// It hides all provider details from the application layer and implements
// the cascade the orchestrator relies on: cache → remote provider →
// deterministic fallback. Embed never returns a provider error; the
// fallback is a pure local computation and the tier of last resort.
type Client struct {
	remote   Provider // nil when no endpoint is configured
	fallback *FallbackProvider
	cache    *Cache // nil when caching is disabled
	cfg      *Config
	logger   Logger
}

// NewClient constructs a Client from Config.
//
// A missing or invalid remote configuration is not an error: the client
// starts in fallback-only mode and logs the degradation once.
func NewClient(cfg *Config, logger Logger) (*Client, error) {
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("embedding: dimension must be positive, got %d", cfg.Dimension)
	}

	c := &Client{
		fallback: NewFallbackProvider(cfg.Dimension),
		cfg:      cfg,
		logger:   logger,
	}

	remote, err := newInferenceProvider(cfg)
	if err != nil {
		if logger != nil {
			logger.Warn("remote embedding provider unavailable, using deterministic fallback", err, nil)
		}
	} else {
		c.remote = remote
	}

	if cfg.Cache.Enabled {
		c.cache = NewCache(cfg.Cache, cfg.Model, logger)
	}

	return c, nil
}

// Dimension returns the fixed embedding length this client produces.
func (c *Client) Dimension() int { return c.cfg.Dimension }

// Embed turns text into a vector of the configured dimension. It never
// fails: remote errors route to the deterministic fallback.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if c.cache != nil {
		if v, ok := c.cache.Get(ctx, text); ok && len(v) == c.cfg.Dimension {
			return v, nil
		}
	}

	if c.remote != nil {
		v, err := c.remote.Embed(ctx, text)
		if err == nil {
			if c.cache != nil {
				c.cache.Set(ctx, text, v)
			}
			return v, nil
		}
		if c.logger != nil {
			c.logger.Warn("remote embedding failed, falling back to hash generator", err, map[string]interface{}{
				"text_len": len(text),
			})
		}
	}

	// Fallback vectors are intentionally not cached: a later successful
	// remote call should replace them.
	return c.fallback.Embed(ctx, text)
}

// EmbedBatch embeds multiple texts, preserving order. The whole batch is
// tried remotely first; on failure every entry comes from the fallback so
// the batch stays internally comparable.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	if c.remote != nil {
		vectors, err := c.remote.EmbedBatch(ctx, texts)
		if err == nil {
			if c.cache != nil {
				for i, text := range texts {
					c.cache.Set(ctx, text, vectors[i])
				}
			}
			return vectors, nil
		}
		if c.logger != nil {
			c.logger.Warn("remote batch embedding failed, falling back to hash generator", err, map[string]interface{}{
				"batch_size": len(texts),
			})
		}
	}

	return c.fallback.EmbedBatch(ctx, texts)
}

// Close releases internal resources (currently only the cache connection).
func (c *Client) Close() error {
	if c.cache != nil {
		return c.cache.Close()
	}
	return nil
}
