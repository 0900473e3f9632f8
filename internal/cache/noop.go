package cache

import (
	"context"
	"time"

	"gemini-gateway/internal/llm"
)

// NoOpCache is a cache implementation that does nothing. Used as a fallback
// when Redis is not configured: all operations succeed but every lookup is
// a miss.
type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) GetResult(ctx context.Context, key string) (*llm.Result, error) {
	return nil, nil
}

func (c *NoOpCache) SetResult(ctx context.Context, key string, result *llm.Result, ttl time.Duration) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}
