package events

import (
	"context"

	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

// LogPublisher records events in the application log instead of sending
// them anywhere. It is used when Pub/Sub is disabled.
type LogPublisher struct {
	logg *logger.Logger
}

func NewLogPublisher(logg *logger.Logger) *LogPublisher {
	if logg == nil {
		logg = logger.Nop()
	}
	return &LogPublisher{logg: logg}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	ctx = p.logg.WithFields(ctx, map[string]any{
		"event_id":     event.ID.String(),
		"event_type":   string(event.Type),
		"aggregate_id": event.AggregateID.String(),
	})
	p.logg.Debug(ctx, "domain event (pubsub disabled)")
	return nil
}
