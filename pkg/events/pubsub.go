package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
)

const defaultPublishTimeout = 10 * time.Second

type publishResult interface {
	Get(ctx context.Context) (string, error)
}

type topicPublisher interface {
	Publish(ctx context.Context, msg *gcppubsub.Message) publishResult
}

// Recorder counts publish outcomes.
type Recorder interface {
	IncPublished(eventType string, ok bool)
}

// PubSubPublisher sends events to a Pub/Sub topic and waits for the server
// acknowledgement.
type PubSubPublisher struct {
	topic    topicPublisher
	recorder Recorder
	timeout  time.Duration
}

// NewPubSubPublisher wraps a topic publisher. recorder may be nil.
func NewPubSubPublisher(p *gcppubsub.Publisher, recorder Recorder) (*PubSubPublisher, error) {
	if p == nil {
		return nil, errors.New("pubsub publisher required")
	}
	return newPubSubPublisher(&gcpPublisher{Publisher: p}, recorder), nil
}

func newPubSubPublisher(topic topicPublisher, recorder Recorder) *PubSubPublisher {
	return &PubSubPublisher{topic: topic, recorder: recorder, timeout: defaultPublishTimeout}
}

func (p *PubSubPublisher) Publish(ctx context.Context, event Event) (err error) {
	defer func() {
		if p.recorder != nil {
			p.recorder.IncPublished(string(event.Type), err == nil)
		}
	}()

	data, err := event.Encode()
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.Type, err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	result := p.topic.Publish(publishCtx, &gcppubsub.Message{
		Data:       data,
		Attributes: event.Attributes(),
	})
	if result == nil {
		return fmt.Errorf("publish %s: no result", event.Type)
	}
	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	if p == nil || p.Publisher == nil {
		return nil
	}
	return &gcpPublishResult{PublishResult: p.Publisher.Publish(ctx, msg)}
}

type gcpPublishResult struct {
	*gcppubsub.PublishResult
}

func (r *gcpPublishResult) Get(ctx context.Context) (string, error) {
	if r == nil || r.PublishResult == nil {
		return "", errors.New("publish result is nil")
	}
	return r.PublishResult.Get(ctx)
}
