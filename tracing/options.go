package tracing

import (
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type options struct {
	propagator propagation.TextMapPropagator
	kind       trace.SpanKind
	tracerName string
	spanName   string
}

type Option func(*options)

// WithTracerName names the instrumentation scope the spans are recorded
// under.
func WithTracerName(tracerName string) Option {
	return func(opts *options) {
		opts.tracerName = tracerName
	}
}

// WithPropagator replaces the default baggage plus tracecontext composite.
func WithPropagator(propagator propagation.TextMapPropagator) Option {
	return func(opts *options) {
		opts.propagator = propagator
	}
}
