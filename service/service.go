// Package service holds thin boundary adapters for the upstream
// services. Each adapter owns the message shape for one business event
// and hands it to a publisher; business logic stays in the caller.
package service

import (
	"context"

	"github.com/mealdash/eventrelay/relay"
)

// EventSink publishes structured events to a fanout exchange.
// *relay.FanoutPublisher satisfies it.
type EventSink interface {
	Publish(ctx context.Context, evt relay.Event) error
}

// MessageSink publishes plain text messages to a durable queue.
// *relay.DurablePublisher satisfies it.
type MessageSink interface {
	Publish(ctx context.Context, message string) error
}
