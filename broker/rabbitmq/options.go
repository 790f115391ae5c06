package rabbitmq

import (
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mealdash/eventrelay/broker"
)

type exchangeNameKey struct{}
type exchangeKindKey struct{}
type durableExchangeKey struct{}
type prefetchCountKey struct{}
type prefetchGlobalKey struct{}
type retryIntervalKey struct{}
type maxRetriesKey struct{}

type bindExchangeKey struct{}
type durableQueueKey struct{}
type headersKey struct{}
type queueArgumentsKey struct{}
type requeueOnErrorKey struct{}
type ackSuccessKey struct{}

type deliveryModeKey struct{}
type contentTypeKey struct{}
type messageIDKey struct{}
type timestampKey struct{}
type publishHeadersKey struct{}
type publishToQueueKey struct{}

///////////////////////////////////////////////////////////////////////////////

// ExchangeName sets the exchange declared on connect.
func ExchangeName(name string) broker.Option {
	return broker.OptionContextWithValue(exchangeNameKey{}, name)
}

// ExchangeKind sets the exchange type, default fanout.
func ExchangeKind(kind string) broker.Option {
	return broker.OptionContextWithValue(exchangeKindKey{}, kind)
}

// DurableExchange declares the exchange durable.
func DurableExchange() broker.Option {
	return broker.OptionContextWithValue(durableExchangeKey{}, true)
}

func PrefetchCount(count int) broker.Option {
	return broker.OptionContextWithValue(prefetchCountKey{}, count)
}

func PrefetchGlobal() broker.Option {
	return broker.OptionContextWithValue(prefetchGlobalKey{}, true)
}

// RetryInterval sets the fixed delay between dial attempts.
func RetryInterval(interval time.Duration) broker.Option {
	return broker.OptionContextWithValue(retryIntervalKey{}, interval)
}

// MaxRetries bounds the dial loop. The default of zero retries forever,
// matching the platform's startup behavior of waiting out the broker.
func MaxRetries(attempts int) broker.Option {
	return broker.OptionContextWithValue(maxRetriesKey{}, attempts)
}

///////////////////////////////////////////////////////////////////////////////

// BindExchange binds the subscription queue to the named fanout exchange
// instead of the broker's connect-time exchange.
func BindExchange(name string) broker.SubscribeOption {
	return broker.SubscribeContextWithValue(bindExchangeKey{}, name)
}

// DurableQueue declares the subscription queue durable and shared so
// competing consumers split deliveries. It is never declared exclusive.
func DurableQueue() broker.SubscribeOption {
	return broker.SubscribeContextWithValue(durableQueueKey{}, true)
}

func Headers(h map[string]interface{}) broker.SubscribeOption {
	return broker.SubscribeContextWithValue(headersKey{}, h)
}

func QueueArguments(args map[string]interface{}) broker.SubscribeOption {
	return broker.SubscribeContextWithValue(queueArgumentsKey{}, args)
}

// RequeueOnError requeues a delivery whose handler failed. Only effective
// together with broker.DisableAutoAck.
func RequeueOnError() broker.SubscribeOption {
	return broker.SubscribeContextWithValue(requeueOnErrorKey{}, true)
}

// AckOnSuccess switches off auto-ack and acknowledges only after the
// handler completed without error. This is the hardened mode; the default
// stays auto-ack for compatibility with the deployed consumers.
func AckOnSuccess() broker.SubscribeOption {
	return broker.SubscribeContextWithValue(ackSuccessKey{}, true)
}

///////////////////////////////////////////////////////////////////////////////

func DeliveryMode(mode uint8) broker.PublishOption {
	return broker.PublishContextWithValue(deliveryModeKey{}, mode)
}

// Persistent marks the message to survive a broker restart while queued.
func Persistent() broker.PublishOption {
	return broker.PublishContextWithValue(deliveryModeKey{}, uint8(amqp.Persistent))
}

func ContentType(value string) broker.PublishOption {
	return broker.PublishContextWithValue(contentTypeKey{}, value)
}

func MessageId(value string) broker.PublishOption {
	return broker.PublishContextWithValue(messageIDKey{}, value)
}

func Timestamp(value time.Time) broker.PublishOption {
	return broker.PublishContextWithValue(timestampKey{}, value)
}

func PublishHeaders(h map[string]interface{}) broker.PublishOption {
	return broker.PublishContextWithValue(publishHeadersKey{}, h)
}

// PublishToDurableQueue declares the topic as a durable queue and publishes
// through the default exchange with the queue name as routing key, the
// point-to-point path used for the notifications queue.
func PublishToDurableQueue() broker.PublishOption {
	return broker.PublishContextWithValue(publishToQueueKey{}, true)
}
