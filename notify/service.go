package notify

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/mealdash/eventrelay/broker"
	mq "github.com/mealdash/eventrelay/broker/rabbitmq"
	"github.com/mealdash/eventrelay/rabbitmq"
	"github.com/mealdash/eventrelay/relay"
)

// Well-known destinations shared with the upstream services.
const (
	CatalogExchange    = "catalog_events"
	PaymentExchange    = "payment_events"
	NotificationsQueue = "notifications"
)

// Service consumes the platform's event streams and turns them into user
// facing notifications. Fanout subscriptions get a fresh exclusive queue
// per instance; the notifications queue is shared between instances.
type Service struct {
	codec   relay.Codec
	metrics *relay.Metrics
	log     *log.Helper
}

type Option func(*Service)

func WithCodec(c relay.Codec) Option {
	return func(s *Service) { s.codec = c }
}

func WithMetrics(m *relay.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(logger log.Logger) Option {
	return func(s *Service) { s.log = log.NewHelper(log.With(logger, "module", "notify")) }
}

func New(opts ...Option) *Service {
	s := &Service{
		codec: LegacyWire(),
		log:   log.NewHelper(log.With(log.GetLogger(), "module", "notify")),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// LegacyWire is the codec the rest of the platform speaks.
func LegacyWire() relay.Codec {
	c, _ := relay.CodecByName("legacy")
	return c
}

// Register binds the service's handlers to the server. Must be called
// before the server starts.
func (s *Service) Register(srv *rabbitmq.Server) error {
	for _, exchange := range []string{CatalogExchange, PaymentExchange} {
		if err := srv.RegisterSubscriber(
			exchange,
			s.onBroadcast(exchange),
			nil,
			mq.BindExchange(exchange),
		); err != nil {
			return fmt.Errorf("register %s subscriber: %w", exchange, err)
		}
	}

	if err := srv.RegisterSubscriber(
		NotificationsQueue,
		s.onNotification,
		nil,
		broker.Queue(NotificationsQueue),
		mq.DurableQueue(),
	); err != nil {
		return fmt.Errorf("register %s subscriber: %w", NotificationsQueue, err)
	}

	return nil
}

// onBroadcast handles events from a fanout exchange.
func (s *Service) onBroadcast(exchange string) broker.Handler {
	return func(_ context.Context, evt broker.Event) error {
		s.metrics.IncConsumed(exchange)

		body := eventBody(evt)
		if _, err := s.codec.Decode(body); err != nil {
			return fmt.Errorf("decode event from %s: %w", exchange, err)
		}

		s.log.Infof("Received event from %s: %s", exchange, string(body))
		return nil
	}
}

// OnDeliveryError is the broker error handler. It runs for every failed
// delivery, including recovered handler panics, and counts it by topic.
func (s *Service) OnDeliveryError(_ context.Context, evt broker.Event) error {
	s.metrics.IncHandlerError(evt.Topic())
	return nil
}

// onNotification handles direct messages from the shared durable queue.
func (s *Service) onNotification(_ context.Context, evt broker.Event) error {
	s.metrics.IncConsumed(NotificationsQueue)

	s.log.Infof("Notification received: %s", string(eventBody(evt)))
	return nil
}

// eventBody extracts the delivery payload. Handlers subscribe without a
// binder, so the body arrives as raw bytes.
func eventBody(evt broker.Event) []byte {
	switch body := evt.Message().Body.(type) {
	case *[]byte:
		return *body
	case []byte:
		return body
	case string:
		return []byte(body)
	default:
		return nil
	}
}
