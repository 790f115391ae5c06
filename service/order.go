package service

import (
	"context"
	"fmt"
)

// UserDirectory looks up users in the user service. The order flow
// verifies the user exists before emitting a notification.
type UserDirectory interface {
	UserExists(ctx context.Context, userID int) (bool, error)
}

// Order notifies about newly placed orders via the shared
// notifications queue.
type Order struct {
	users         UserDirectory
	notifications MessageSink
}

func NewOrder(users UserDirectory, notifications MessageSink) *Order {
	return &Order{users: users, notifications: notifications}
}

// OrderCreated enqueues the order confirmation for the given user.
func (o *Order) OrderCreated(ctx context.Context, userID int) error {
	ok, err := o.users.UserExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("look up user %d: %w", userID, err)
	}
	if !ok {
		return fmt.Errorf("user %d not found", userID)
	}

	message := fmt.Sprintf("Order created for user %d", userID)
	if err := o.notifications.Publish(ctx, message); err != nil {
		return fmt.Errorf("publish order notification: %w", err)
	}
	return nil
}
