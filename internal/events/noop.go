package events

import "context"

// NoOpPublisher drops all events. Used when no broker is configured.
type NoOpPublisher struct{}

func NewNoOpPublisher() *NoOpPublisher {
	return &NoOpPublisher{}
}

func (p *NoOpPublisher) GenerationCompleted(ctx context.Context, ev Event) error {
	return nil
}

func (p *NoOpPublisher) Close() error {
	return nil
}
