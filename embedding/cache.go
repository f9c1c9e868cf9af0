package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "embedding:"

// Cache stores computed vectors in Redis keyed by a digest of model+text.
// Cache failures are never fatal: a broken cache degrades to computing
// embeddings on every call, nothing more.
type Cache struct {
	rdb    redis.UniversalClient
	cfg    CacheConfig
	model  string
	logger Logger
}

// NewCache constructs a Redis-backed embedding cache.
func NewCache(cfg CacheConfig, model string, logger Logger) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Cache{rdb: rdb, cfg: cfg, model: model, logger: logger}
}

// Get returns the cached vector for text, or (nil, false) on miss or on
// any cache error.
func (c *Cache) Get(ctx context.Context, text string) ([]float32, bool) {
	raw, err := c.rdb.Get(ctx, c.key(text)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && c.logger != nil {
			c.logger.Warn("embedding cache read failed", err, nil)
		}
		return nil, false
	}

	var v []float32
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		if c.logger != nil {
			c.logger.Warn("embedding cache entry corrupt, ignoring", err, nil)
		}
		return nil, false
	}
	return v, true
}

// Set stores a vector best-effort.
func (c *Cache) Set(ctx context.Context, text string, vector []float32) {
	raw, err := json.Marshal(vector)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key(text), raw, c.cfg.TTL).Err(); err != nil && c.logger != nil {
		c.logger.Warn("embedding cache write failed", err, nil)
	}
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	return c.rdb.Close()
}

// key digests model+text so the key length stays bounded and distinct
// models never share entries.
func (c *Cache) key(text string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%s", c.model, text)))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
