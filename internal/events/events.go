// Package events publishes catalog lifecycle events to a message
// broker so downstream consumers (feeds, notifications) can react to
// admin edits and new comments without polling the API.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Event kinds.
const (
	KindItemCreated    = "item.created"
	KindItemUpdated    = "item.updated"
	KindItemDeleted    = "item.deleted"
	KindCommentCreated = "comment.created"
)

// Event describes a single catalog change.
type Event struct {
	Kind       string    `json:"kind"`
	ItemID     string    `json:"item_id"`
	Category   string    `json:"category"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Backend defines the broker-agnostic publish operation.
type Backend interface {
	Publish(ctx context.Context, topic string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

// Publisher wraps a backend with a stable, typed API.
type Publisher struct {
	backend Backend
	topic   string
}

// NewPublisher constructs a Publisher for the provided backend and
// topic.
func NewPublisher(backend Backend, topic string) *Publisher {
	return &Publisher{backend: backend, topic: topic}
}

// Publish sends the event to the configured topic. The event's
// OccurredAt is stamped here if unset.
func (p *Publisher) Publish(ctx context.Context, event Event) (string, error) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	attrs := map[string]string{
		"kind":     event.Kind,
		"category": event.Category,
	}
	return p.backend.Publish(ctx, p.topic, data, attrs)
}

// Close closes the underlying backend.
func (p *Publisher) Close() error {
	return p.backend.Close()
}
