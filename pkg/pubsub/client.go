// Package pubsub connects to Google Cloud Pub/Sub for order domain events.
package pubsub

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	pubsub "cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	gax "github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

var (
	errProjectIDRequired = errors.New("gcp project id is required")
	errNoTopic           = errors.New("pubsub orders topic is required")
	errNotInitialized    = errors.New("pubsub client not initialized")
)

// topicGetter is the admin call used to verify the topic.
type topicGetter interface {
	GetTopic(ctx context.Context, req *pubsubpb.GetTopicRequest, opts ...gax.CallOption) (*pubsubpb.Topic, error)
}

// Client owns the Pub/Sub connection and the long lived orders publisher.
type Client struct {
	client      *pubsub.Client
	topics      topicGetter
	ordersTopic string

	once   sync.Once
	orders *pubsub.Publisher
}

// NewClient dials Pub/Sub and fails unless the orders topic already exists.
// Topics are provisioned outside the service.
func NewClient(ctx context.Context, gcp config.GCPConfig, cfg config.PubSubConfig, logg *logger.Logger) (*Client, error) {
	projectID := strings.TrimSpace(gcp.ProjectID)
	if projectID == "" {
		return nil, errProjectIDRequired
	}
	topic := TopicResourceName(projectID, cfg.OrdersTopic)
	if topic == "" {
		return nil, errNoTopic
	}

	var opts []option.ClientOption
	if path := strings.TrimSpace(gcp.CredentialsFile); path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}
	psClient, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	c := &Client{client: psClient, topics: psClient.TopicAdminClient, ordersTopic: topic}
	if err := c.Ping(ctx); err != nil {
		_ = psClient.Close()
		return nil, err
	}

	logg.Info(logg.WithField(ctx, "topic", topic), "pubsub client initialized")
	return c, nil
}

// OrdersPublisher returns the shared publisher for order events.
func (c *Client) OrdersPublisher() *pubsub.Publisher {
	if c == nil || c.client == nil {
		return nil
	}
	c.once.Do(func() {
		c.orders = c.client.Publisher(c.ordersTopic)
	})
	return c.orders
}

// Ping checks that the orders topic is still reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.topics == nil {
		return errNotInitialized
	}
	_, err := c.topics.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: c.ordersTopic})
	switch {
	case err == nil:
		return nil
	case status.Code(err) == codes.NotFound:
		return fmt.Errorf("topic %q does not exist", c.ordersTopic)
	default:
		return fmt.Errorf("checking topic %q: %w", c.ordersTopic, err)
	}
}

// Close flushes pending publishes before releasing the connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	if c.orders != nil {
		c.orders.Stop()
	}
	return c.client.Close()
}

// TopicResourceName expands a bare topic id into its full resource name.
// Full names are returned unchanged.
func TopicResourceName(projectID, name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return ""
	}
	if strings.HasPrefix(n, "projects/") && strings.Contains(n, "/topics/") {
		return n
	}
	p := strings.TrimSpace(projectID)
	if p == "" {
		return ""
	}
	return "projects/" + p + "/topics/" + n
}
