package broker

import (
	"context"
)

// Event is a single delivered message.
type Event interface {
	// Topic returns the topic the message was delivered on.
	Topic() string

	// Message returns the decoded message.
	Message() *Message

	// RawMessage returns the transport-level delivery.
	RawMessage() any

	// Ack acknowledges the message.
	Ack() error

	// Error returns any error associated with the delivery.
	Error() error
}

// Handler is invoked by subscribers for each delivered event.
type Handler func(ctx context.Context, evt Event) error
