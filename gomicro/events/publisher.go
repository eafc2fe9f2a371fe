// Package events publishes domain events after a successful write.
//
// Delivery is at most once: a single publish attempt, no retry, no outbox,
// no ordering and no idempotency key. Failures never reach the caller of
// Emitter.Emit; they are logged as warnings and counted.
package events

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by publishers that cannot reach the broker
var ErrUnavailable = errors.New("event broker unavailable")

// Publisher sends one message to a topic exchange
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body []byte) error
	Close() error
}

// NopPublisher drops every message. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, []byte) error { return nil }

func (NopPublisher) Close() error { return nil }

// PublisherFunc adapts a function to Publisher
type PublisherFunc func(ctx context.Context, exchange, routingKey string, body []byte) error

func (f PublisherFunc) Publish(ctx context.Context, exchange, routingKey string, body []byte) error {
	return f(ctx, exchange, routingKey, body)
}

func (f PublisherFunc) Close() error { return nil }
