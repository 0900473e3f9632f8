package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"gemini-gateway/internal/llm"
)

func newTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	srv := miniredis.RunT(t)
	c, err := NewRedisCache(srv.Addr(), "")
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()

	stored := &llm.Result{
		Text:    "Answer: 4",
		Sources: []llm.Source{{URI: "https://a.example", Title: "A"}},
	}
	if err := c.SetResult(ctx, "key1", stored, time.Minute); err != nil {
		t.Fatalf("SetResult: %v", err)
	}

	got, err := c.GetResult(ctx, "key1")
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if got == nil {
		t.Fatal("expected cache hit")
	}
	if got.Text != stored.Text || len(got.Sources) != 1 || got.Sources[0] != stored.Sources[0] {
		t.Errorf("got %+v, want %+v", got, stored)
	}
}

func TestRedisCacheMiss(t *testing.T) {
	c := newTestRedis(t)

	got, err := c.GetResult(context.Background(), "absent")
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if got != nil {
		t.Errorf("expected miss, got %+v", got)
	}
}
