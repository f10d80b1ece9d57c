package messaging

import (
	"context"
	"errors"
	"io"
	"sync"
)

var (
	// ErrTopicRequired is returned when the topic or subject is empty.
	ErrTopicRequired = errors.New("messaging: topic is required")
	// ErrClosed is returned by Publish after Close.
	ErrClosed = errors.New("messaging: publisher closed")
)

// Messaging is a publisher that owns broker resources.
type Messaging interface {
	io.Closer
	Publisher
}

// Publisher publishes messages to a topic (a subject on NATS).
type Publisher interface {
	Publish(ctx context.Context, topic string, msg Message) error
}

// Message is a broker-agnostic event.
type Message struct {
	// Key partitions on Kafka. Other brokers ignore it.
	Key string
	Body []byte
	// Headers become message headers on Kafka and NATS and attributes on
	// Pub/Sub. NSQ has no headers and drops them.
	Headers map[string]string
}

func checkPublish(ctx context.Context, topic string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	return nil
}

// topicCache lazily builds one client handle per topic and releases them all on drain.
type topicCache[T any] struct {
	mu     sync.Mutex
	closed bool
	items  map[string]T
	build  func(topic string) T
}

func newTopicCache[T any](build func(topic string) T) *topicCache[T] {
	return &topicCache[T]{items: map[string]T{}, build: build}
}

func (c *topicCache[T]) get(topic string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		var zero T
		return zero, ErrClosed
	}
	item, ok := c.items[topic]
	if !ok {
		item = c.build(topic)
		c.items[topic] = item
	}
	return item, nil
}

// drain marks the cache closed and returns its items. It returns nil when
// already drained.
func (c *topicCache[T]) drain() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	items := make([]T, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, item)
	}
	c.items = nil
	return items
}
