package service

import (
	"context"
	"fmt"

	"github.com/mealdash/eventrelay/relay"
)

// Payment announces settled payments on the payment_events exchange.
type Payment struct {
	events EventSink
}

func NewPayment(events EventSink) *Payment {
	return &Payment{events: events}
}

// PaymentCompleted broadcasts a successful charge for an order.
func (p *Payment) PaymentCompleted(ctx context.Context, orderID int, amount float64) error {
	evt := relay.NewEvent("PaymentCompleted",
		relay.KV("order_id", orderID),
		relay.KV("amount", amount),
	)
	if err := p.events.Publish(ctx, evt); err != nil {
		return fmt.Errorf("publish PaymentCompleted: %w", err)
	}
	return nil
}
