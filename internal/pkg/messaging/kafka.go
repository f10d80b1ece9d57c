package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// ErrKafkaBrokersRequired is returned when no Kafka brokers are configured.
var ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")

// KafkaConfig configures the Kafka implementation.
type KafkaConfig struct {
	Brokers []string
	Dialer  *kafka.Dialer
}

// Kafka is a publisher backed by kafka-go, with one writer per topic.
type Kafka struct {
	writers *topicCache[*kafka.Writer]
}

// NewKafka constructs a Kafka publisher. Brokers are dialed on first publish.
func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}

	brokers := append([]string(nil), cfg.Brokers...)
	return &Kafka{writers: newTopicCache(func(topic string) *kafka.Writer {
		return kafka.NewWriter(kafka.WriterConfig{
			Brokers:  brokers,
			Topic:    topic,
			Balancer: &kafka.Hash{},
			Dialer:   cfg.Dialer,
		})
	})}, nil
}

func (k *Kafka) Close() error {
	var err error
	for _, w := range k.writers.drain() {
		err = errors.Join(err, w.Close())
	}
	return err
}

// Publish writes msg synchronously. Messages sharing a key land on the same partition.
func (k *Kafka) Publish(ctx context.Context, topic string, msg Message) error {
	if err := checkPublish(ctx, topic); err != nil {
		return err
	}

	w, err := k.writers.get(topic)
	if err != nil {
		return err
	}

	kmsg := kafka.Message{Value: msg.Body}
	if msg.Key != "" {
		kmsg.Key = []byte(msg.Key)
	}
	for name, v := range msg.Headers {
		kmsg.Headers = append(kmsg.Headers, kafka.Header{Key: name, Value: []byte(v)})
	}

	if err := w.WriteMessages(ctx, kmsg); err != nil {
		return fmt.Errorf("messaging: kafka publish: %w", err)
	}
	return nil
}
