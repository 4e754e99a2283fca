package pubsub

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	gax "github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
)

type fakeTopics struct {
	err  error
	seen string
}

func (f *fakeTopics) GetTopic(_ context.Context, req *pubsubpb.GetTopicRequest, _ ...gax.CallOption) (*pubsubpb.Topic, error) {
	f.seen = req.GetTopic()
	if f.err != nil {
		return nil, f.err
	}
	return &pubsubpb.Topic{Name: req.GetTopic()}, nil
}

func TestTopicResourceName(t *testing.T) {
	cases := []struct {
		project, name, want string
	}{
		{"proj", "orders", "projects/proj/topics/orders"},
		{"proj", " orders ", "projects/proj/topics/orders"},
		{"proj", "projects/other/topics/orders", "projects/other/topics/orders"},
		{"", "orders", ""},
		{"proj", "", ""},
	}
	for _, tc := range cases {
		if got := TopicResourceName(tc.project, tc.name); got != tc.want {
			t.Fatalf("TopicResourceName(%q, %q) = %q, want %q", tc.project, tc.name, got, tc.want)
		}
	}
}

func TestNewClientValidatesConfig(t *testing.T) {
	_, err := NewClient(context.Background(), config.GCPConfig{}, config.PubSubConfig{OrdersTopic: "orders"}, nil)
	if !errors.Is(err, errProjectIDRequired) {
		t.Fatalf("expected errProjectIDRequired, got %v", err)
	}
	_, err = NewClient(context.Background(), config.GCPConfig{ProjectID: "proj"}, config.PubSubConfig{}, nil)
	if !errors.Is(err, errNoTopic) {
		t.Fatalf("expected errNoTopic, got %v", err)
	}
}

func TestPingReportsTopicState(t *testing.T) {
	topics := &fakeTopics{}
	c := &Client{topics: topics, ordersTopic: "projects/p/topics/orders"}

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if topics.seen != "projects/p/topics/orders" {
		t.Fatalf("unexpected topic requested %q", topics.seen)
	}

	topics.err = status.Error(codes.NotFound, "gone")
	if err := c.Ping(context.Background()); err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected missing topic error, got %v", err)
	}

	topics.err = status.Error(codes.Unavailable, "down")
	if err := c.Ping(context.Background()); err == nil || !strings.Contains(err.Error(), "checking topic") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	if c.OrdersPublisher() != nil {
		t.Fatal("expected nil publisher")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Ping(context.Background()); !errors.Is(err, errNotInitialized) {
		t.Fatalf("expected errNotInitialized, got %v", err)
	}
}
