package notify

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealdash/eventrelay/broker"
	"github.com/mealdash/eventrelay/relay"
)

type stubEvent struct {
	topic string
	body  []byte
}

func (e *stubEvent) Topic() string            { return e.topic }
func (e *stubEvent) Message() *broker.Message { return &broker.Message{Body: &e.body} }
func (e *stubEvent) RawMessage() any          { return nil }
func (e *stubEvent) Ack() error               { return nil }
func (e *stubEvent) Error() error             { return nil }

func TestOnBroadcastDecodesLegacyWire(t *testing.T) {
	s := New()

	evt := &stubEvent{
		topic: PaymentExchange,
		body:  []byte("PaymentCompleted:{'order_id': 42, 'amount': 19.99}"),
	}

	err := s.onBroadcast(PaymentExchange)(context.Background(), evt)
	assert.NoError(t, err)
}

func TestOnBroadcastMalformedPayload(t *testing.T) {
	s := New()

	evt := &stubEvent{
		topic: CatalogExchange,
		body:  []byte("no separator here"),
	}

	err := s.onBroadcast(CatalogExchange)(context.Background(), evt)
	assert.Error(t, err)
}

func TestOnNotificationAcceptsPlainText(t *testing.T) {
	s := New()

	evt := &stubEvent{
		topic: NotificationsQueue,
		body:  []byte("Order created for user 1"),
	}

	err := s.onNotification(context.Background(), evt)
	assert.NoError(t, err)
}

func TestServiceMetrics(t *testing.T) {
	m := relay.NewMetrics()
	s := New(WithMetrics(m))

	ok := &stubEvent{
		topic: PaymentExchange,
		body:  []byte("PaymentCompleted:{'order_id': 1, 'amount': 5.0}"),
	}
	require.NoError(t, s.onBroadcast(PaymentExchange)(context.Background(), ok))

	// Failed deliveries reach the service through the broker error handler,
	// which also covers recovered handler panics.
	failed := &stubEvent{topic: PaymentExchange, body: []byte("garbage")}
	require.NoError(t, s.OnDeliveryError(context.Background(), failed))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Contains(t, rec.Body.String(), `relay_consume_total{source="payment_events"} 1`)
	assert.Contains(t, rec.Body.String(), `relay_handler_errors_total{source="payment_events"} 1`)
}
