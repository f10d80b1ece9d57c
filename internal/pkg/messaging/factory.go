package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

const (
	// DriverNoop discards messages.
	DriverNoop = "noop"
	// DriverNSQ selects the NSQ backend.
	DriverNSQ = "nsq"
	// DriverNATS selects the NATS backend.
	DriverNATS = "nats"
	// DriverKafka selects the Kafka backend.
	DriverKafka = "kafka"
	// DriverGooglePubSub selects the Google Pub/Sub backend.
	DriverGooglePubSub = "google-pubsub"
)

// ErrUnknownDriver indicates an unsupported messaging driver.
var ErrUnknownDriver = errors.New("messaging: unknown driver")

// FactoryOptions groups config for supported messaging backends. Only the
// section matching the selected driver is read.
type FactoryOptions struct {
	NSQ    NSQConfig
	Kafka  KafkaConfig
	NATS   NATSConfig
	PubSub PubSubConfig
}

var constructors = map[string]func(context.Context, FactoryOptions) (Messaging, error){
	DriverNoop: func(context.Context, FactoryOptions) (Messaging, error) {
		return NewNoop(), nil
	},
	DriverNSQ: func(_ context.Context, o FactoryOptions) (Messaging, error) {
		return NewNSQ(o.NSQ)
	},
	DriverNATS: func(_ context.Context, o FactoryOptions) (Messaging, error) {
		return NewNATS(o.NATS)
	},
	DriverKafka: func(_ context.Context, o FactoryOptions) (Messaging, error) {
		return NewKafka(o.Kafka)
	},
	DriverGooglePubSub: func(ctx context.Context, o FactoryOptions) (Messaging, error) {
		return NewPubSub(ctx, o.PubSub)
	},
}

// NewFromDriver constructs a Messaging implementation by driver name.
// An empty driver selects Noop.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Messaging, error) {
	name := lo.CoalesceOrEmpty(strings.ToLower(strings.TrimSpace(driver)), DriverNoop)

	build, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	return build(ctx, opts)
}
