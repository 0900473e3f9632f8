package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action identifies which user action produced an event.
type Action string

const (
	ActionGenerate  Action = "generate"
	ActionSummarize Action = "summarize"
)

// Event is the telemetry record published after a completed generation.
type Event struct {
	RequestID   uuid.UUID `json:"request_id"`
	Action      Action    `json:"action"`
	Grounding   bool      `json:"grounding"`
	Structured  bool      `json:"structured"`
	SourceCount int       `json:"source_count"`
	DurationMS  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// Publisher emits generation telemetry. Publish failures are informational;
// callers log them and move on.
type Publisher interface {
	GenerationCompleted(ctx context.Context, ev Event) error
	Close() error
}
