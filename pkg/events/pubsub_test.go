package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
)

func TestPubSubPublisherSendsEnvelope(t *testing.T) {
	topic := &fakeTopic{}
	rec := &fakeRecorder{}
	pub := newPubSubPublisher(topic, rec)

	orderID := uuid.New()
	event := New(OrderCreated, orderID, OrderCreatedData{Status: "PENDING", Total: "12.50", Items: 2})
	if err := pub.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(topic.messages) != 1 {
		t.Fatalf("expected one message got %d", len(topic.messages))
	}
	msg := topic.messages[0]
	if msg.Attributes["event_type"] != "order.created" {
		t.Fatalf("unexpected event_type %q", msg.Attributes["event_type"])
	}
	if msg.Attributes["aggregate_id"] != orderID.String() {
		t.Fatalf("unexpected aggregate_id %q", msg.Attributes["aggregate_id"])
	}

	var body struct {
		Type string `json:"type"`
		Data struct {
			Total string `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(msg.Data, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Type != "order.created" || body.Data.Total != "12.50" {
		t.Fatalf("unexpected body %+v", body)
	}
	if rec.ok != 1 || rec.failed != 0 {
		t.Fatalf("unexpected recorder counts ok=%d failed=%d", rec.ok, rec.failed)
	}
}

func TestPubSubPublisherReportsFailure(t *testing.T) {
	topic := &fakeTopic{err: errors.New("unavailable")}
	rec := &fakeRecorder{}
	pub := newPubSubPublisher(topic, rec)

	err := pub.Publish(context.Background(), New(OrderStatusChanged, uuid.New(), nil))
	if err == nil {
		t.Fatal("expected error")
	}
	if rec.failed != 1 {
		t.Fatalf("expected failure recorded, got %d", rec.failed)
	}
}

func TestNewPubSubPublisherRequiresTopic(t *testing.T) {
	if _, err := NewPubSubPublisher(nil, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestLogPublisherNeverFails(t *testing.T) {
	if err := NewLogPublisher(nil).Publish(context.Background(), New(OrderCreated, uuid.New(), nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

type fakeTopic struct {
	messages []*gcppubsub.Message
	err      error
}

func (f *fakeTopic) Publish(_ context.Context, msg *gcppubsub.Message) publishResult {
	f.messages = append(f.messages, msg)
	return fakeResult{err: f.err}
}

type fakeResult struct {
	err error
}

func (r fakeResult) Get(context.Context) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return "msg-1", nil
}

type fakeRecorder struct {
	ok, failed int
}

func (f *fakeRecorder) IncPublished(_ string, ok bool) {
	if ok {
		f.ok++
		return
	}
	f.failed++
}
