package relay

import (
	"context"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/mealdash/eventrelay/broker"
	"github.com/mealdash/eventrelay/broker/rabbitmq"
)

type publisherOptions struct {
	codec      Codec
	shared     bool
	metrics    *Metrics
	brokerOpts []broker.Option
}

type PublisherOption func(*publisherOptions)

// WithCodec selects the wire format, default legacy.
func WithCodec(c Codec) PublisherOption {
	return func(o *publisherOptions) {
		o.codec = c
	}
}

// WithSharedConnection keeps one broker connection alive across Publish
// calls instead of dialing per call. Reconnection on failure is handled by
// the connection watcher. Both modes satisfy the same wire contract.
func WithSharedConnection() PublisherOption {
	return func(o *publisherOptions) {
		o.shared = true
	}
}

func WithMetrics(m *Metrics) PublisherOption {
	return func(o *publisherOptions) {
		o.metrics = m
	}
}

// WithBrokerOptions appends low-level broker options, e.g. TLS or retry
// tuning.
func WithBrokerOptions(opts ...broker.Option) PublisherOption {
	return func(o *publisherOptions) {
		o.brokerOpts = append(o.brokerOpts, opts...)
	}
}

func newPublisherOptions(opts ...PublisherOption) publisherOptions {
	options := publisherOptions{
		codec: LegacyCodec{},
	}
	for _, o := range opts {
		o(&options)
	}
	return options
}

// publisherCore carries the connection strategy both publishers share: a
// scoped dial-publish-close per call, or a lazily connected long-lived
// broker.
type publisherCore struct {
	url  string
	opts publisherOptions

	mu     sync.Mutex
	shared broker.Broker

	log *log.Helper
}

func newPublisherCore(url string, opts publisherOptions) publisherCore {
	return publisherCore{
		url:  url,
		opts: opts,
		log:  log.NewHelper(log.GetLogger()),
	}
}

func (p *publisherCore) brokerOptions(extra ...broker.Option) []broker.Option {
	opts := []broker.Option{broker.Addrs(p.url)}
	opts = append(opts, extra...)
	opts = append(opts, p.opts.brokerOpts...)
	return opts
}

func (p *publisherCore) withBroker(extra []broker.Option, fn func(b broker.Broker) error) error {
	if p.opts.shared {
		b, err := p.sharedBroker(extra)
		if err != nil {
			return err
		}
		return fn(b)
	}

	// Scoped mode: a publish failure must surface synchronously to the
	// enclosing business operation, so the dial makes a single attempt
	// unless the caller tunes retries via WithBrokerOptions.
	opts := []broker.Option{broker.Addrs(p.url), rabbitmq.MaxRetries(1)}
	opts = append(opts, extra...)
	opts = append(opts, p.opts.brokerOpts...)

	b := rabbitmq.NewBroker(opts...)
	if err := b.Init(); err != nil {
		return err
	}
	if err := b.Connect(); err != nil {
		return err
	}
	defer func() {
		if err := b.Disconnect(); err != nil {
			p.log.Warnf("disconnect after publish: %v", err)
		}
	}()

	return fn(b)
}

func (p *publisherCore) sharedBroker(extra []broker.Option) (broker.Broker, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.shared != nil {
		return p.shared, nil
	}

	b := rabbitmq.NewBroker(p.brokerOptions(extra...)...)
	if err := b.Init(); err != nil {
		return nil, err
	}
	if err := b.Connect(); err != nil {
		return nil, err
	}

	p.shared = b
	return b, nil
}

func (p *publisherCore) close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.shared == nil {
		return nil
	}
	err := p.shared.Disconnect()
	p.shared = nil
	return err
}

// FanoutPublisher broadcasts events on a named fanout exchange. The
// exchange is declared idempotently on every connect; delivery is
// fire-and-forget with no confirmation and the message is transient.
type FanoutPublisher struct {
	publisherCore
	exchange string
}

func NewFanoutPublisher(url, exchange string, opts ...PublisherOption) *FanoutPublisher {
	return &FanoutPublisher{
		publisherCore: newPublisherCore(url, newPublisherOptions(opts...)),
		exchange:      exchange,
	}
}

func (p *FanoutPublisher) Publish(ctx context.Context, evt Event) error {
	body, err := p.opts.codec.Encode(evt)
	if err != nil {
		return err
	}

	start := time.Now()
	err = p.withBroker(
		[]broker.Option{rabbitmq.ExchangeName(p.exchange)},
		func(b broker.Broker) error {
			return b.Publish("", body, broker.PublishContext(ctx))
		},
	)
	p.opts.metrics.ObservePublish(p.exchange, time.Since(start), err)

	return err
}

func (p *FanoutPublisher) Close() error {
	return p.close()
}

// DurablePublisher delivers point-to-point messages that survive a broker
// restart: the queue is declared durable and the message published
// persistent through the default exchange.
type DurablePublisher struct {
	publisherCore
	queue string
}

func NewDurablePublisher(url, queue string, opts ...PublisherOption) *DurablePublisher {
	return &DurablePublisher{
		publisherCore: newPublisherCore(url, newPublisherOptions(opts...)),
		queue:         queue,
	}
}

func (p *DurablePublisher) Publish(ctx context.Context, message string) error {
	start := time.Now()
	err := p.withBroker(
		[]broker.Option{rabbitmq.ExchangeName("")},
		func(b broker.Broker) error {
			return b.Publish(p.queue, message,
				broker.PublishContext(ctx),
				rabbitmq.Persistent(),
				rabbitmq.PublishToDurableQueue(),
			)
		},
	)
	p.opts.metrics.ObservePublish(p.queue, time.Since(start), err)

	return err
}

func (p *DurablePublisher) Close() error {
	return p.close()
}
