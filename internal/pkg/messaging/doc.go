// Package messaging provides a broker-agnostic API for publishing messages.
//
// Business code depends on Publisher only, so the broker (NATS, NSQ, Kafka,
// Google Pub/Sub) is chosen by configuration. Noop is used when messaging is
// disabled.
package messaging
