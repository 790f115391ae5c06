package rabbitmq

import (
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mealdash/eventrelay/broker"
)

type subscriber struct {
	sync.RWMutex

	r *rabbitBroker

	options broker.SubscribeOptions
	topic   string
	ch      *rabbitChannel

	exchange  Exchange
	queueArgs map[string]interface{}
	headers   map[string]interface{}

	// declaredQueue is the broker-assigned name when Queue was empty.
	declaredQueue string

	fn func(msg amqp.Delivery)

	durableQueue bool
	autoDelete   bool
	exclusive    bool
	closed       bool
}

func (s *subscriber) Options() broker.SubscribeOptions {
	s.RLock()
	defer s.RUnlock()

	return s.options
}

func (s *subscriber) Topic() string {
	s.RLock()
	defer s.RUnlock()

	return s.topic
}

func (s *subscriber) Unsubscribe() error {
	s.Lock()
	defer s.Unlock()

	s.closed = true

	var err error
	if s.ch != nil {
		err = s.ch.Close()
	}

	if s.r != nil && s.r.subscribers != nil {
		_ = s.r.subscribers.Remove(s.topic)
	}

	return err
}

func (s *subscriber) IsClosed() bool {
	s.RLock()
	defer s.RUnlock()

	return s.closed
}

// resubscribe drives the subscription: it waits for a live connection,
// declares its queue and binding, then drains deliveries until the channel
// dies, at which point it starts over. Exclusive queues are redeclared on
// every reconnect since the broker drops them with the connection.
func (s *subscriber) resubscribe() {
	minResubscribeDelay := defaultMinResubscribeDelay
	maxResubscribeDelay := defaultMaxResubscribeDelay
	expFactor := defaultExpFactor
	reSubscribeDelay := defaultResubscribeDelay

	for {
		if s.IsClosed() {
			return
		}

		select {
		case <-s.r.conn.close:
			return
		case <-s.r.conn.waitConnection:
		}

		s.r.mtx.Lock()
		if !s.r.conn.connected {
			s.r.mtx.Unlock()
			continue
		}

		ch, sub, queueName, err := s.r.conn.Consume(
			s.exchange,
			s.options.Queue,
			amqp.Table(s.headers),
			amqp.Table(s.queueArgs),
			s.options.AutoAck,
			s.durableQueue,
			s.autoDelete,
			s.exclusive,
		)

		s.r.mtx.Unlock()
		switch err {
		case nil:
			reSubscribeDelay = minResubscribeDelay
			s.Lock()
			s.ch = ch
			s.declaredQueue = queueName
			s.Unlock()
		default:
			if reSubscribeDelay > maxResubscribeDelay {
				reSubscribeDelay = maxResubscribeDelay
			}
			time.Sleep(reSubscribeDelay)
			reSubscribeDelay *= expFactor
			continue
		}

		// Deliveries run synchronously: one message at a time per
		// subscription, in broker-delivered order.
		for d := range sub {
			s.r.wg.Add(1)
			s.fn(d)
			s.r.wg.Done()
		}
	}
}
