package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
)

// ErrNATSURLRequired is returned when the NATS server URL is missing.
var ErrNATSURLRequired = errors.New("messaging: nats url is required")

// NATSConfig configures the NATS implementation.
type NATSConfig struct {
	URL     string
	Options []nats.Option
}

// NATS is a publisher backed by a core NATS connection.
type NATS struct {
	conn *nats.Conn
}

// NewNATS connects to NATS.
func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect: %w", err)
	}

	return &NATS{conn: conn}, nil
}

// Close drains pending messages, then closes the connection.
func (n *NATS) Close() error {
	if n.conn.IsClosed() {
		return nil
	}

	err := n.conn.Drain()
	n.conn.Close()
	return err
}

// Publish sends msg and waits until the server has processed it.
func (n *NATS) Publish(ctx context.Context, topic string, msg Message) error {
	if err := checkPublish(ctx, topic); err != nil {
		return err
	}

	nmsg := nats.NewMsg(topic)
	nmsg.Data = msg.Body
	for k, v := range msg.Headers {
		nmsg.Header.Set(k, v)
	}

	if err := n.conn.PublishMsg(nmsg); err != nil {
		return fmt.Errorf("messaging: nats publish: %w", err)
	}
	if err := n.flush(ctx); err != nil {
		return fmt.Errorf("messaging: nats flush: %w", err)
	}
	return nil
}

// flush honours the ctx deadline when there is one; FlushWithContext rejects
// contexts without a deadline.
func (n *NATS) flush(ctx context.Context) error {
	if _, ok := ctx.Deadline(); ok {
		return n.conn.FlushWithContext(ctx)
	}
	return n.conn.Flush()
}
