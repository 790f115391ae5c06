package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type mapCarrier map[string]string

func (c mapCarrier) Get(key string) string { return c[key] }
func (c mapCarrier) Set(key, val string)   { c[key] = val }
func (c mapCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

const testTraceID = "4bf92f3577b34da6a3ce929d0e0e4736"

func TestConsumerExtractsTraceContext(t *testing.T) {
	tracer := NewTracer(trace.SpanKindConsumer, "rabbitmq.consume",
		WithTracerName("eventrelay.test"),
		WithPropagator(propagation.TraceContext{}),
	)

	carrier := mapCarrier{
		"traceparent": "00-" + testTraceID + "-00f067aa0ba902b7-01",
	}

	ctx, span := tracer.Start(context.Background(), carrier)
	defer tracer.End(span, nil)

	sc := trace.SpanContextFromContext(ctx)
	assert.True(t, sc.IsValid())
	assert.Equal(t, testTraceID, sc.TraceID().String())
}

func TestProducerInjectsTraceContext(t *testing.T) {
	tracer := NewTracer(trace.SpanKindProducer, "rabbitmq.produce",
		WithPropagator(propagation.TraceContext{}),
	)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    mustTraceID(t, testTraceID),
		SpanID:     trace.SpanID{1, 2, 3, 4, 5, 6, 7, 8},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	carrier := mapCarrier{}
	_, span := tracer.Start(ctx, carrier)
	tracer.End(span, nil)

	assert.Contains(t, carrier["traceparent"], testTraceID)
}

func mustTraceID(t *testing.T, s string) trace.TraceID {
	t.Helper()
	id, err := trace.TraceIDFromHex(s)
	if err != nil {
		t.Fatal(err)
	}
	return id
}
