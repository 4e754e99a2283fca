// Package events publishes domain events about orders to downstream
// consumers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type names a domain event.
type Type string

const (
	OrderCreated       Type = "order.created"
	OrderStatusChanged Type = "order.status_changed"
)

// Event is the envelope sent to subscribers. Data carries the event-specific
// payload.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Type        Type      `json:"type"`
	AggregateID uuid.UUID `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Data        any       `json:"data"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType Type, aggregateID uuid.UUID, data any) Event {
	return Event{
		ID:          uuid.New(),
		Type:        eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Data:        data,
	}
}

// Attributes are the routing attributes attached to each message.
func (e Event) Attributes() map[string]string {
	return map[string]string{
		"event_id":     e.ID.String(),
		"event_type":   string(e.Type),
		"aggregate_id": e.AggregateID.String(),
		"occurred_at":  e.OccurredAt.Format(time.RFC3339Nano),
	}
}

// Encode serializes the event body.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events. Callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// OrderCreatedData is the payload of OrderCreated.
type OrderCreatedData struct {
	UserID uuid.UUID `json:"user_id"`
	Status string    `json:"status"`
	Total  string    `json:"total"`
	Items  int       `json:"items"`
}

// OrderStatusChangedData is the payload of OrderStatusChanged.
type OrderStatusChangedData struct {
	UserID uuid.UUID `json:"user_id"`
	From   string    `json:"from"`
	To     string    `json:"to"`
}
