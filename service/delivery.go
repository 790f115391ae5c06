package service

import (
	"context"
	"fmt"
)

// OrderDirectory looks up orders in the order service.
type OrderDirectory interface {
	OrderExists(ctx context.Context, orderID int) (bool, error)
}

// Delivery notifies about courier assignments via the shared
// notifications queue.
type Delivery struct {
	orders        OrderDirectory
	notifications MessageSink
}

func NewDelivery(orders OrderDirectory, notifications MessageSink) *Delivery {
	return &Delivery{orders: orders, notifications: notifications}
}

// DeliveryAssigned enqueues the courier assignment notice for an order.
func (d *Delivery) DeliveryAssigned(ctx context.Context, orderID int) error {
	ok, err := d.orders.OrderExists(ctx, orderID)
	if err != nil {
		return fmt.Errorf("look up order %d: %w", orderID, err)
	}
	if !ok {
		return fmt.Errorf("order %d not found", orderID)
	}

	message := fmt.Sprintf("Delivery assigned: order %d", orderID)
	if err := d.notifications.Publish(ctx, message); err != nil {
		return fmt.Errorf("publish delivery notification: %w", err)
	}
	return nil
}
