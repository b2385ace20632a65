package middleware

import (
	"context"

	"github.com/vango-dev/history/pkg/history"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for history providers.
const defaultTracerName = "history"

// OTelConfig configures the OpenTelemetry sink.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "history").
	TracerName string

	// TracerProvider creates the tracer (default: otel.GetTracerProvider()).
	TracerProvider trace.TracerProvider

	// Context returns the parent context for each span
	// (default: context.Background).
	Context func() context.Context

	// Attributes are added to every span.
	Attributes []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry sink.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithParentContext sets the function returning each span's parent context.
func WithParentContext(fn func() context.Context) OTelOption {
	return func(c *OTelConfig) {
		c.Context = fn
	}
}

// WithAttributes adds constant attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// OpenTelemetry records a "history.change" span for every change event of h
// until the returned function is called.
func OpenTelemetry(h history.History, opts ...OTelOption) func() {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.TracerProvider == nil {
		config.TracerProvider = otel.GetTracerProvider()
	}
	if config.Context == nil {
		config.Context = context.Background
	}
	tracer := config.TracerProvider.Tracer(config.TracerName)

	return h.On(func(e history.Event) {
		attrs := append([]attribute.KeyValue{
			attribute.String("history.cause", string(e.Cause)),
			attribute.String("history.path", e.Value),
		}, config.Attributes...)

		_, span := tracer.Start(config.Context(), "history.change",
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		span.SetStatus(codes.Ok, "")
		span.End()
	})
}
