package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	amqp "github.com/rabbitmq/amqp091-go"

	"go.opentelemetry.io/otel/attribute"
	semConv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/mealdash/eventrelay/broker"
	"github.com/mealdash/eventrelay/tracing"
)

type rabbitBroker struct {
	mtx sync.Mutex
	wg  sync.WaitGroup

	conn *rabbitMQConn
	opts broker.Options

	subscribers *broker.SubscriberSyncMap

	producerTracer *tracing.Tracer
	consumerTracer *tracing.Tracer

	log *log.Helper
}

func NewBroker(opts ...broker.Option) broker.Broker {
	options := broker.NewOptionsAndApply(opts...)

	return &rabbitBroker{
		opts:           options,
		subscribers:    broker.NewSubscriberSyncMap(),
		producerTracer: tracing.NewTracer(trace.SpanKindProducer, "rabbitmq.produce",
			tracing.WithTracerName("eventrelay.rabbitmq")),
		consumerTracer: tracing.NewTracer(trace.SpanKindConsumer, "rabbitmq.consume",
			tracing.WithTracerName("eventrelay.rabbitmq")),
		log:            log.NewHelper(log.GetLogger()),
	}
}

func (b *rabbitBroker) Name() string {
	return "rabbitmq"
}

func (b *rabbitBroker) Options() broker.Options {
	return b.opts
}

func (b *rabbitBroker) Address() string {
	if len(b.opts.Addrs) > 0 {
		return b.opts.Addrs[0]
	}
	return ""
}

func (b *rabbitBroker) Init(opts ...broker.Option) error {
	b.opts.Apply(opts...)

	var addrs []string
	for _, addr := range b.opts.Addrs {
		if len(addr) == 0 {
			continue
		}
		addrs = append(addrs, refitUrl(addr, b.opts.Secure))
	}
	if len(addrs) == 0 {
		addrs = []string{DefaultRabbitURL}
	}
	b.opts.Addrs = addrs

	return nil
}

func (b *rabbitBroker) Connect() error {
	if b.conn == nil {
		b.conn = newRabbitMQConn(
			b.opts.Context,
			b.exchangeFromOptions(),
			b.opts.Addrs,
			b.qosFromOptions(),
			b.retryFromOptions(),
		)
	}

	conf := DefaultAmqpConfig
	conf.TLSClientConfig = b.opts.TLSConfig

	return b.conn.Connect(b.opts.Secure, &conf)
}

func (b *rabbitBroker) Disconnect() error {
	if b.conn == nil {
		return errors.New("connection is nil")
	}

	b.subscribers.Clear()

	ret := b.conn.Close()
	b.wg.Wait()
	return ret
}

func (b *rabbitBroker) exchangeFromOptions() Exchange {
	ex := DefaultExchange

	if val, ok := b.opts.Context.Value(exchangeNameKey{}).(string); ok {
		ex.Name = val
	}
	if val, ok := b.opts.Context.Value(exchangeKindKey{}).(string); ok {
		ex.Kind = val
	}
	if val, ok := b.opts.Context.Value(durableExchangeKey{}).(bool); ok {
		ex.Durable = val
	}

	return ex
}

func (b *rabbitBroker) qosFromOptions() Qos {
	var qos Qos

	if val, ok := b.opts.Context.Value(prefetchCountKey{}).(int); ok {
		qos.PrefetchCount = val
	}
	if val, ok := b.opts.Context.Value(prefetchGlobalKey{}).(bool); ok {
		qos.PrefetchGlobal = val
	}

	return qos
}

func (b *rabbitBroker) retryFromOptions() RetryPolicy {
	retry := RetryPolicy{Interval: DefaultRetryInterval}

	if val, ok := b.opts.Context.Value(retryIntervalKey{}).(time.Duration); ok {
		retry.Interval = val
	}
	if val, ok := b.opts.Context.Value(maxRetriesKey{}).(int); ok {
		retry.MaxAttempts = val
	}

	return retry
}

func (b *rabbitBroker) Publish(topic string, msg broker.Any, opts ...broker.PublishOption) error {
	buf, err := broker.Marshal(b.opts.Codec, msg)
	if err != nil {
		return err
	}

	return b.publish(topic, buf, opts...)
}

func (b *rabbitBroker) publish(topic string, buf []byte, opts ...broker.PublishOption) error {
	if b.conn == nil {
		return errors.New("connection is nil")
	}

	options := broker.NewPublishOptions(opts...)

	msg := amqp.Publishing{
		Body:    buf,
		Headers: amqp.Table{},
	}

	if value, ok := options.Context.Value(deliveryModeKey{}).(uint8); ok {
		msg.DeliveryMode = value
	}

	if value, ok := options.Context.Value(contentTypeKey{}).(string); ok {
		msg.ContentType = value
	}

	if value, ok := options.Context.Value(messageIDKey{}).(string); ok {
		msg.MessageId = value
	}

	if value, ok := options.Context.Value(timestampKey{}).(time.Time); ok {
		msg.Timestamp = value
	}

	if headers, ok := options.Context.Value(publishHeadersKey{}).(map[string]interface{}); ok {
		for k, v := range headers {
			msg.Headers[k] = v
		}
	}

	exchange := b.conn.exchange.Name
	key := topic

	// Point-to-point path: declare the queue and route through the default
	// exchange, so the message lands in the named queue directly.
	if val, ok := options.Context.Value(publishToQueueKey{}).(bool); ok && val {
		if err := b.conn.DeclarePublishQueue(topic, nil, true); err != nil {
			return err
		}
		exchange = ""
	}

	ctx, span := b.startProducerSpan(options.Context, exchange, key, &msg)

	err := b.conn.Publish(ctx, exchange, key, msg)

	b.finishProducerSpan(span, err)

	return err
}

func (b *rabbitBroker) Subscribe(topic string, handler broker.Handler, binder broker.Binder, opts ...broker.SubscribeOption) (broker.Subscriber, error) {
	if b.conn == nil {
		return nil, errors.New("not connected")
	}

	options := broker.NewSubscribeOptions(opts...)

	var requeueOnError bool
	if val, ok := options.Context.Value(requeueOnErrorKey{}).(bool); ok {
		requeueOnError = val
	}

	var ackSuccess bool
	if val, ok := options.Context.Value(ackSuccessKey{}).(bool); ok && val {
		options.AutoAck = false
		ackSuccess = true
	}

	var durableQueue bool
	if val, ok := options.Context.Value(durableQueueKey{}).(bool); ok {
		durableQueue = val
	}

	sub := &subscriber{
		topic:   topic,
		options: options,
		r:       b,

		durableQueue: durableQueue,
		// Without a durable queue the subscription is listen-while-connected:
		// an exclusive auto-delete queue that dies with the connection.
		exclusive:  !durableQueue,
		autoDelete: !durableQueue,
	}

	if val, ok := options.Context.Value(bindExchangeKey{}).(string); ok {
		sub.exchange = Exchange{Name: val, Kind: ExchangeTypeFanout}
	} else if !durableQueue {
		sub.exchange = b.conn.exchange
	}

	if val, ok := options.Context.Value(headersKey{}).(map[string]interface{}); ok {
		sub.headers = val
	}

	if val, ok := options.Context.Value(queueArgumentsKey{}).(map[string]interface{}); ok {
		sub.queueArgs = val
	}

	sub.fn = func(msg amqp.Delivery) {
		m := &broker.Message{
			Headers: rabbitHeaderToMap(msg.Headers),
			Body:    nil,
		}

		ctx, span := b.startConsumerSpan(b.opts.Context, options.Queue, &msg)

		p := &publication{d: msg, m: m, t: topic}

		if binder != nil {
			m.Body = binder()
		} else {
			m.Body = &[]byte{}
		}

		if err := broker.Unmarshal(b.opts.Codec, msg.Body, m.Body); err != nil {
			p.err = err
			b.log.Errorf("unmarshal delivery from %s: %v", topic, err)
		}

		if p.err == nil {
			p.err = callHandler(ctx, handler, p)
		}

		if p.err != nil {
			// Under auto-ack the message is already gone; log and keep the
			// consume loop alive for the next delivery.
			b.log.Errorf("handle delivery from %s: %v", topic, p.err)
			if b.opts.ErrorHandler != nil {
				_ = b.opts.ErrorHandler(ctx, p)
			}
		}

		if !options.AutoAck {
			if p.err == nil && ackSuccess {
				_ = msg.Ack(false)
			} else if p.err != nil {
				_ = msg.Nack(false, requeueOnError)
			}
		}

		b.finishConsumerSpan(span, p.err)
	}

	go sub.resubscribe()

	b.subscribers.Add(topic, sub)

	return sub, nil
}

// callHandler isolates one delivery: a panicking handler must not take the
// consume loop down with it.
func callHandler(ctx context.Context, handler broker.Handler, evt broker.Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()
	return handler(ctx, evt)
}

func (b *rabbitBroker) startProducerSpan(ctx context.Context, exchange, routingKey string, msg *amqp.Publishing) (context.Context, trace.Span) {
	carrier := NewProducerMessageCarrier(msg)

	attrs := []attribute.KeyValue{
		semConv.MessagingSystemKey.String("rabbitmq"),
		semConv.MessagingDestinationKindTopic,
		semConv.MessagingDestinationKey.String(exchange),
		semConv.MessagingRabbitmqRoutingKeyKey.String(routingKey),
		semConv.MessagingProtocolKey.String("AMQP"),
		semConv.MessagingProtocolVersionKey.String("0.9.1"),
	}

	return b.producerTracer.Start(ctx, carrier, attrs...)
}

func (b *rabbitBroker) finishProducerSpan(span trace.Span, err error) {
	b.producerTracer.End(span, err)
}

func (b *rabbitBroker) startConsumerSpan(ctx context.Context, queueName string, msg *amqp.Delivery) (context.Context, trace.Span) {
	carrier := NewConsumerMessageCarrier(msg)

	attrs := []attribute.KeyValue{
		semConv.MessagingSystemKey.String("rabbitmq"),
		semConv.MessagingDestinationKindQueue,
		semConv.MessagingDestinationKey.String(queueName),
		semConv.MessagingOperationReceive,
		semConv.MessagingRabbitmqRoutingKeyKey.String(msg.RoutingKey),
		semConv.MessagingProtocolKey.String("AMQP"),
		semConv.MessagingProtocolVersionKey.String("0.9.1"),
	}

	return b.consumerTracer.Start(ctx, carrier, attrs...)
}

func (b *rabbitBroker) finishConsumerSpan(span trace.Span, err error) {
	b.consumerTracer.End(span, err)
}
