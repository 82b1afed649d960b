// Package eventbus hands outbox messages to the notification service over
// a message broker.
package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// Envelope is one message bound for the broker.
type Envelope struct {
	MessageID  string
	RoutingKey string
	Payload    []byte
}

// Publisher sends envelopes to the broker.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
	Close() error
}

// LogPublisher logs envelopes instead of sending them. Local mode uses it
// when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger

	mu   sync.Mutex
	sent []Envelope
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, env Envelope) error {
	p.mu.Lock()
	p.sent = append(p.sent, env)
	p.mu.Unlock()

	p.logger.Info("event published locally",
		"routing_key", env.RoutingKey,
		"message_id", env.MessageID,
		"size", len(env.Payload),
	)
	return nil
}

// Sent returns a copy of everything published so far.
func (p *LogPublisher) Sent() []Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Envelope, len(p.sent))
	copy(out, p.sent)
	return out
}

func (p *LogPublisher) Close() error { return nil }
