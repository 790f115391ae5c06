package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealdash/eventrelay/relay"
)

type captureEventSink struct {
	events []relay.Event
	err    error
}

func (s *captureEventSink) Publish(_ context.Context, evt relay.Event) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, evt)
	return nil
}

type captureMessageSink struct {
	messages []string
	err      error
}

func (s *captureMessageSink) Publish(_ context.Context, message string) error {
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, message)
	return nil
}

type stubUsers struct {
	exists bool
	err    error
}

func (s stubUsers) UserExists(context.Context, int) (bool, error) { return s.exists, s.err }

type stubOrders struct {
	exists bool
	err    error
}

func (s stubOrders) OrderExists(context.Context, int) (bool, error) { return s.exists, s.err }

func TestCatalogDishCreated(t *testing.T) {
	sink := &captureEventSink{}
	c := NewCatalog(sink)

	require.NoError(t, c.DishCreated(context.Background(), 1, "Margherita"))
	require.Len(t, sink.events, 1)

	got, err := relay.LegacyCodec{}.Encode(sink.events[0])
	require.NoError(t, err)
	assert.Equal(t, "DishCreated:{'id': 1, 'name': 'Margherita'}", string(got))
}

func TestCatalogDishDeleted(t *testing.T) {
	sink := &captureEventSink{}
	c := NewCatalog(sink)

	require.NoError(t, c.DishDeleted(context.Background(), 3))
	require.Len(t, sink.events, 1)

	got, err := relay.LegacyCodec{}.Encode(sink.events[0])
	require.NoError(t, err)
	assert.Equal(t, "DishDeleted:{'id': 3}", string(got))
}

func TestPaymentCompleted(t *testing.T) {
	sink := &captureEventSink{}
	p := NewPayment(sink)

	require.NoError(t, p.PaymentCompleted(context.Background(), 42, 19.99))
	require.Len(t, sink.events, 1)

	got, err := relay.LegacyCodec{}.Encode(sink.events[0])
	require.NoError(t, err)
	assert.Equal(t, "PaymentCompleted:{'order_id': 42, 'amount': 19.99}", string(got))
}

func TestPaymentCompletedPublishError(t *testing.T) {
	sink := &captureEventSink{err: errors.New("broker down")}
	p := NewPayment(sink)

	err := p.PaymentCompleted(context.Background(), 42, 19.99)
	assert.ErrorContains(t, err, "broker down")
}

func TestOrderCreated(t *testing.T) {
	sink := &captureMessageSink{}
	o := NewOrder(stubUsers{exists: true}, sink)

	require.NoError(t, o.OrderCreated(context.Background(), 1))
	assert.Equal(t, []string{"Order created for user 1"}, sink.messages)
}

func TestOrderCreatedUnknownUser(t *testing.T) {
	sink := &captureMessageSink{}
	o := NewOrder(stubUsers{exists: false}, sink)

	err := o.OrderCreated(context.Background(), 99)
	assert.ErrorContains(t, err, "user 99 not found")
	assert.Empty(t, sink.messages)
}

func TestOrderCreatedDirectoryError(t *testing.T) {
	sink := &captureMessageSink{}
	o := NewOrder(stubUsers{err: errors.New("user service unreachable")}, sink)

	err := o.OrderCreated(context.Background(), 1)
	assert.ErrorContains(t, err, "user service unreachable")
	assert.Empty(t, sink.messages)
}

func TestDeliveryAssigned(t *testing.T) {
	sink := &captureMessageSink{}
	d := NewDelivery(stubOrders{exists: true}, sink)

	require.NoError(t, d.DeliveryAssigned(context.Background(), 7))
	assert.Equal(t, []string{"Delivery assigned: order 7"}, sink.messages)
}

func TestDeliveryAssignedUnknownOrder(t *testing.T) {
	sink := &captureMessageSink{}
	d := NewDelivery(stubOrders{exists: false}, sink)

	err := d.DeliveryAssigned(context.Background(), 7)
	assert.ErrorContains(t, err, "order 7 not found")
	assert.Empty(t, sink.messages)
}
