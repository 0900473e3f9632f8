package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"gemini-gateway/internal/retry"
)

const (
	defaultBaseURL     = "https://generativelanguage.googleapis.com"
	defaultGeminiModel = "gemini-2.0-flash"
	defaultMaxAttempts = 5
	defaultBackoffBase = 1 * time.Second
	defaultHTTPTimeout = 60 * time.Second
)

// GeminiConfig holds construction parameters for the Gemini REST client.
// Zero values fall back to defaults; only APIKey is required.
type GeminiConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxAttempts int
	BackoffBase time.Duration
}

// GeminiClient calls the Gemini generateContent REST API directly.
type GeminiClient struct {
	apiKey      string
	model       string
	baseURL     string
	maxAttempts int
	backoffBase time.Duration
	httpc       *http.Client
	log         *slog.Logger

	// sleep waits out a backoff delay; swapped in tests to record delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewGemini builds a client with defaults against generativelanguage.googleapis.com.
func NewGemini(log *slog.Logger, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaultBackoffBase
	}
	return &GeminiClient{
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		baseURL:     cfg.BaseURL,
		maxAttempts: cfg.MaxAttempts,
		backoffBase: cfg.BackoffBase,
		httpc:       &http.Client{Timeout: defaultHTTPTimeout},
		log:         log,
		sleep:       sleepCtx,
	}, nil
}

// Generate performs one generation call sequence with retry. Every failure
// kind (transport, non-2xx, missing candidate, empty content) is retried
// identically; after the attempt cap the last cause is wrapped in
// *RetriesExhaustedError.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (Result, error) {
	body, err := json.Marshal(buildGeminiPayload(req))
	if err != nil {
		return Result{}, fmt.Errorf("marshal payload: %w", err)
	}

	var last error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := retry.ExponentialBackoff(attempt, c.backoffBase)
			c.log.Info("retrying generation", "attempt", attempt+1, "delay_ms", delay.Milliseconds())
			if err := c.sleep(ctx, delay); err != nil {
				return Result{}, err
			}
		}
		res, err := c.attempt(ctx, req.Grounding, body)
		if err == nil {
			c.log.Info("generation succeeded", "attempt", attempt+1, "sources", len(res.Sources))
			return res, nil
		}
		last = err
		c.log.Warn("generation attempt failed", "attempt", attempt+1, "err", err)
	}
	return Result{}, &RetriesExhaustedError{Attempts: c.maxAttempts, Last: last}
}

func (c *GeminiClient) attempt(ctx context.Context, grounded bool, body []byte) (Result, error) {
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, c.model, url.QueryEscape(c.apiKey))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("transport: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := http.StatusText(resp.StatusCode)
		var eb geminiErrorResponse
		if json.Unmarshal(data, &eb) == nil && eb.Error.Message != "" {
			msg = eb.Error.Message
		}
		return Result{}, &HTTPStatusError{Status: resp.StatusCode, Message: msg}
	}

	var out generateContentResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}
	return extractResult(out, grounded)
}

// extractResult takes the first candidate's first text part and, for grounded
// requests, maps attributions to sources, dropping entries missing a URI or
// title while preserving order.
func extractResult(out generateContentResponse, grounded bool) (Result, error) {
	if len(out.Candidates) == 0 {
		return Result{}, ErrNoCandidate
	}
	cand := out.Candidates[0]
	if len(cand.Content.Parts) == 0 || cand.Content.Parts[0].Text == "" {
		return Result{}, ErrEmptyContent
	}
	res := Result{Text: cand.Content.Parts[0].Text}
	if grounded && cand.GroundingMetadata != nil {
		for _, attr := range cand.GroundingMetadata.GroundingAttributions {
			if attr.Web == nil || attr.Web.URI == "" || attr.Web.Title == "" {
				continue
			}
			res.Sources = append(res.Sources, Source{URI: attr.Web.URI, Title: attr.Web.Title})
		}
	}
	return res, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
