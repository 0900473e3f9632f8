package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"gemini-gateway/internal/llm"
)

// Cache provides short-lived caching of generation results. Grounded
// results are never stored; their answers depend on live search.
type Cache interface {
	// GetResult retrieves a cached result by key. Returns nil on miss.
	GetResult(ctx context.Context, key string) (*llm.Result, error)

	// SetResult stores a result with TTL.
	SetResult(ctx context.Context, key string, result *llm.Result, ttl time.Duration) error

	// Close closes the cache connection.
	Close() error
}

// GenerateKey derives a stable cache key from everything that shapes an
// ungrounded response. Provider and model are part of the key: the Redis
// backend outlives process restarts, and a reconfigured deployment must not
// serve another model's answers.
func GenerateKey(provider, model, query, systemPrompt string, structured bool) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x00%t", provider, model, query, systemPrompt, structured)
	return hex.EncodeToString(h.Sum(nil))
}
