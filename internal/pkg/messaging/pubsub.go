package messaging

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/pubsub/v2"
	"google.golang.org/api/option"
)

// ErrPubSubProjectIDRequired is returned when the project ID is missing.
var ErrPubSubProjectIDRequired = errors.New("messaging: pubsub project id is required")

// PubSubConfig configures the Google Pub/Sub implementation.
type PubSubConfig struct {
	ProjectID     string
	ClientOptions []option.ClientOption
}

// PubSub is a publisher backed by Google Pub/Sub.
type PubSub struct {
	client     *pubsub.Client
	publishers *topicCache[*pubsub.Publisher]
}

// NewPubSub constructs a PubSub publisher.
func NewPubSub(ctx context.Context, cfg PubSubConfig) (*PubSub, error) {
	if cfg.ProjectID == "" {
		return nil, ErrPubSubProjectIDRequired
	}

	c, err := pubsub.NewClient(ctx, cfg.ProjectID, cfg.ClientOptions...)
	if err != nil {
		return nil, fmt.Errorf("messaging: pubsub new client: %w", err)
	}

	return &PubSub{client: c, publishers: newTopicCache(c.Publisher)}, nil
}

// Close flushes and stops publishers, then closes the client.
func (p *PubSub) Close() error {
	pubs := p.publishers.drain()
	if pubs == nil {
		return nil
	}
	for _, pub := range pubs {
		pub.Stop()
	}
	return p.client.Close()
}

// Publish waits for the server ack. Headers are sent as attributes.
func (p *PubSub) Publish(ctx context.Context, topic string, msg Message) error {
	if err := checkPublish(ctx, topic); err != nil {
		return err
	}

	pub, err := p.publishers.get(topic)
	if err != nil {
		return err
	}

	if _, err := pub.Publish(ctx, &pubsub.Message{Data: msg.Body, Attributes: msg.Headers}).Get(ctx); err != nil {
		return fmt.Errorf("messaging: pubsub publish: %w", err)
	}
	return nil
}
