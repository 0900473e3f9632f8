package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const subjectGenerationCompleted = "generations.completed"

// NewNATS constructs a thin NATS-based publisher.
func NewNATS(log *slog.Logger, nc *nats.Conn) Publisher {
	return &natsPublisher{log: log, nc: nc}
}

type natsPublisher struct {
	log *slog.Logger
	nc  *nats.Conn
}

func (p *natsPublisher) GenerationCompleted(_ context.Context, ev Event) error {
	if ev.RequestID == uuid.Nil {
		ev.RequestID = uuid.New()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.nc.Publish(subjectGenerationCompleted, body)
}

func (p *natsPublisher) Close() error {
	p.nc.Close()
	return nil
}
