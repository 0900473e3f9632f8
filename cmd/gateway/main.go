package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"gemini-gateway/internal/app"
	"gemini-gateway/internal/events"
	"gemini-gateway/internal/httputil"
	"gemini-gateway/internal/llm"
	"gemini-gateway/internal/markup"
	"gemini-gateway/internal/resolve"
	"gemini-gateway/internal/session"
)

type generateRequest struct {
	Query        string `json:"query" validate:"required,max=8000"`
	SystemPrompt string `json:"system_prompt" validate:"omitempty,max=4000"`
	Grounding    bool   `json:"grounding"`
	Structured   bool   `json:"structured"`
}

type sourceResponse struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	r := httputil.NewRouter(deps.Log)

	r.Post("/api/generate", generateHandler(deps))
	r.Post("/api/summarize", summarizeHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", deps.Config.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Log.Info("gateway listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := deps.Events.Close(); err != nil {
			deps.Log.Warn("event publisher close failed", "err", err)
		}
		if err := deps.Cache.Close(); err != nil {
			deps.Log.Warn("cache close failed", "err", err)
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("gateway stopped", "err", err)
		os.Exit(1)
	}
}

func generateHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		start := time.Now()
		out, err := deps.Session.Generate(r.Context(), req.Query, req.SystemPrompt, req.Grounding, req.Structured)
		if err != nil {
			writeActionError(deps, w, err)
			return
		}

		requestID := uuid.New()
		publish(deps, events.Event{
			RequestID:   requestID,
			Action:      events.ActionGenerate,
			Grounding:   req.Grounding && !req.Structured,
			Structured:  req.Structured,
			SourceCount: len(out.Sources),
			DurationMS:  time.Since(start).Milliseconds(),
		})
		httputil.WriteJSON(w, http.StatusOK, outputBody(requestID, out))
	}
}

func summarizeHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		out, err := deps.Session.Summarize(r.Context())
		if err != nil {
			writeActionError(deps, w, err)
			return
		}

		requestID := uuid.New()
		publish(deps, events.Event{
			RequestID:  requestID,
			Action:     events.ActionSummarize,
			DurationMS: time.Since(start).Milliseconds(),
		})
		httputil.WriteJSON(w, http.StatusOK, outputBody(requestID, out))
	}
}

func outputBody(requestID uuid.UUID, out resolve.Output) map[string]any {
	sources := make([]sourceResponse, len(out.Sources))
	for i, s := range out.Sources {
		sources[i] = sourceResponse{URI: s.URI, Title: s.Title}
	}
	body := map[string]any{
		"request_id": requestID.String(),
		"text":       out.Text,
		"html":       markup.Render(out.Text),
		"sources":    sources,
	}
	if out.Structured != nil {
		body["structured"] = out.Structured
	}
	return body
}

// writeActionError maps core failures onto HTTP statuses. A structured-parse
// failure carries the raw text so the UI can fall back to showing it.
func writeActionError(deps app.Deps, w http.ResponseWriter, err error) {
	var parseErr *resolve.StructuredParseError
	var exhausted *llm.RetriesExhaustedError
	switch {
	case errors.Is(err, session.ErrEmptyQuery):
		httputil.Fail(deps.Log, w, "query must not be empty", err, http.StatusBadRequest)
	case errors.Is(err, session.ErrNothingToSummarize):
		httputil.Fail(deps.Log, w, "nothing to summarize yet", err, http.StatusConflict)
	case errors.As(err, &parseErr):
		deps.Log.Error("structured response did not parse", "err", err)
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": "structured response did not parse",
			"raw":   parseErr.Raw,
			"html":  markup.Render(parseErr.Raw),
		})
	case errors.Is(err, llm.ErrGroundingUnsupported):
		httputil.Fail(deps.Log, w, "grounding is not supported by the configured provider", err, http.StatusBadRequest)
	case errors.Is(err, context.DeadlineExceeded):
		httputil.Fail(deps.Log, w, "generation timed out", err, http.StatusGatewayTimeout)
	case errors.As(err, &exhausted):
		httputil.Fail(deps.Log, w, "generation failed after retries", err, http.StatusBadGateway)
	default:
		httputil.Fail(deps.Log, w, "generation failed", err, http.StatusInternalServerError)
	}
}

func publish(deps app.Deps, ev events.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := deps.Events.GenerationCompleted(ctx, ev); err != nil {
		deps.Log.Warn("failed to publish event", "err", err)
	}
}
