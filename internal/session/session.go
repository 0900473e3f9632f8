// Package session owns the generate and summarize actions and the state
// shared between them.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gemini-gateway/internal/cache"
	"gemini-gateway/internal/llm"
	"gemini-gateway/internal/resolve"
)

var (
	// ErrEmptyQuery means the query was empty after trimming.
	ErrEmptyQuery = errors.New("session: query must not be empty")

	// ErrNothingToSummarize means summarize was invoked before any
	// response existed. User-facing condition, not a system error.
	ErrNothingToSummarize = errors.New("session: no response to summarize yet")
)

const (
	summarizeSystemPrompt = "You are a helpful assistant that creates concise, clear summaries."
	summarizeTemplate     = "Please provide a concise 2-3 sentence summary of the following text:\n\n%s"
)

// Controller runs both actions against one provider client and one state
// pair. Its mutex serializes generate against summarize, so a summarize
// triggered mid-generation cannot read state that is about to be replaced.
type Controller struct {
	log      *slog.Logger
	client   llm.Client
	cache    cache.Cache
	cacheTTL time.Duration
	provider string
	model    string
	state    *resolve.State
	resolver *resolve.Resolver

	mu sync.Mutex
}

// New builds a controller. cache may be a no-op implementation; provider and
// model identify the configured backend and scope its cache keys.
func New(log *slog.Logger, client llm.Client, c cache.Cache, cacheTTL time.Duration, provider, model string) *Controller {
	state := resolve.NewState()
	return &Controller{
		log:      log,
		client:   client,
		cache:    c,
		cacheTTL: cacheTTL,
		provider: provider,
		model:    model,
		state:    state,
		resolver: resolve.NewResolver(state),
	}
}

// State exposes the current-response state, mainly for tests and handlers.
func (c *Controller) State() *resolve.State { return c.state }

// Generate is the primary action: validate, normalize the flag pair,
// call the provider, resolve. Structured wins when both flags are set.
func (c *Controller) Generate(ctx context.Context, query, systemPrompt string, grounding, structured bool) (resolve.Output, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return resolve.Output{}, ErrEmptyQuery
	}
	if structured {
		grounding = false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	req := llm.Request{
		Query:        query,
		SystemPrompt: systemPrompt,
		Grounding:    grounding,
		Structured:   structured,
	}

	result, err := c.generateCached(ctx, req)
	if err != nil {
		return resolve.Output{}, err
	}
	out, err := c.resolver.Resolve(result, structured)
	if err != nil {
		return resolve.Output{}, err
	}
	// The state pair moves together: the system prompt is recorded only once
	// the response it produced has been resolved.
	c.state.SetSystemPrompt(systemPrompt)
	return out, nil
}

// Summarize condenses the current response through the same client and the
// plain resolve path. No network call is made when there is nothing to
// summarize.
func (c *Controller) Summarize(ctx context.Context) (resolve.Output, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.state.Response()
	if strings.TrimSpace(current) == "" {
		return resolve.Output{}, ErrNothingToSummarize
	}
	c.log.Info("summarizing current response",
		"chars", len(current),
		"source_system_prompt", c.state.SystemPrompt(),
	)

	req := llm.Request{
		Query:        fmt.Sprintf(summarizeTemplate, current),
		SystemPrompt: summarizeSystemPrompt,
	}

	result, err := c.generateCached(ctx, req)
	if err != nil {
		return resolve.Output{}, err
	}
	out, err := c.resolver.Resolve(result, false)
	if err != nil {
		return resolve.Output{}, err
	}
	c.state.SetSystemPrompt(summarizeSystemPrompt)
	return out, nil
}

// generateCached consults the result cache for ungrounded requests; grounded
// answers depend on live search and are never cached. Cache failures are
// logged and treated as misses.
func (c *Controller) generateCached(ctx context.Context, req llm.Request) (llm.Result, error) {
	var key string
	if !req.Grounding {
		key = cache.GenerateKey(c.provider, c.model, req.Query, req.SystemPrompt, req.Structured)
		if cached, err := c.cache.GetResult(ctx, key); err != nil {
			c.log.Warn("cache lookup failed", "err", err)
		} else if cached != nil {
			c.log.Info("cache hit", "key", key)
			return *cached, nil
		}
	}

	result, err := c.client.Generate(ctx, req)
	if err != nil {
		return llm.Result{}, err
	}

	if key != "" {
		if err := c.cache.SetResult(ctx, key, &result, c.cacheTTL); err != nil {
			c.log.Warn("cache write failed", "err", err)
		}
	}
	return result, nil
}
