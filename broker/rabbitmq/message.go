package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel/propagation"
)

var _ propagation.TextMapCarrier = (*ProducerMessageCarrier)(nil)
var _ propagation.TextMapCarrier = (*ConsumerMessageCarrier)(nil)

// ProducerMessageCarrier propagates trace context via publishing headers.
type ProducerMessageCarrier struct {
	msg *amqp.Publishing
}

func NewProducerMessageCarrier(msg *amqp.Publishing) ProducerMessageCarrier {
	return ProducerMessageCarrier{msg: msg}
}

func (c ProducerMessageCarrier) Get(key string) string {
	return headerValue(c.msg.Headers, key)
}

func (c ProducerMessageCarrier) Set(key, val string) {
	if c.msg.Headers == nil {
		c.msg.Headers = make(amqp.Table)
	}
	c.msg.Headers[key] = val
}

func (c ProducerMessageCarrier) Keys() []string {
	return headerKeys(c.msg.Headers)
}

// ConsumerMessageCarrier extracts trace context from delivery headers.
type ConsumerMessageCarrier struct {
	msg *amqp.Delivery
}

func NewConsumerMessageCarrier(msg *amqp.Delivery) ConsumerMessageCarrier {
	return ConsumerMessageCarrier{msg: msg}
}

func (c ConsumerMessageCarrier) Get(key string) string {
	return headerValue(c.msg.Headers, key)
}

func (c ConsumerMessageCarrier) Set(key, val string) {
	if c.msg.Headers == nil {
		c.msg.Headers = make(amqp.Table)
	}
	c.msg.Headers[key] = val
}

func (c ConsumerMessageCarrier) Keys() []string {
	return headerKeys(c.msg.Headers)
}

func headerValue(h amqp.Table, key string) string {
	v, ok := h[key]
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

func headerKeys(h amqp.Table) []string {
	out := make([]string, 0, len(h))
	for k := range h {
		out = append(out, k)
	}
	return out
}
