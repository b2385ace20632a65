package middleware

import (
	"context"
	"testing"

	"github.com/vango-dev/history/pkg/history"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type startedSpan struct {
	name  string
	attrs []attribute.KeyValue
	kind  trace.SpanKind
}

type recordingTracer struct {
	noop.Tracer
	started *[]startedSpan
}

func (r recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	*r.started = append(*r.started, startedSpan{name: name, attrs: cfg.Attributes(), kind: cfg.SpanKind()})
	return r.Tracer.Start(ctx, name, opts...)
}

type recordingProvider struct {
	noop.TracerProvider
	tracer recordingTracer
	names  *[]string
}

func (p recordingProvider) Tracer(name string, _ ...trace.TracerOption) trace.Tracer {
	*p.names = append(*p.names, name)
	return p.tracer
}

func newRecordingProvider() (recordingProvider, *[]startedSpan, *[]string) {
	started := &[]startedSpan{}
	names := &[]string{}
	return recordingProvider{tracer: recordingTracer{started: started}, names: names}, started, names
}

func attrValue(attrs []attribute.KeyValue, key string) (string, bool) {
	for _, a := range attrs {
		if string(a.Key) == key {
			return a.Value.AsString(), true
		}
	}
	return "", false
}

func TestOpenTelemetry_SpanPerChange(t *testing.T) {
	tp, started, names := newRecordingProvider()
	h := history.NewMemory()

	stop := OpenTelemetry(h,
		WithTracerProvider(tp),
		WithTracerName("nav"),
		WithAttributes(attribute.String("session.id", "s1")),
	)

	h.Set("a")
	h.Replace("b")

	if len(*names) != 1 || (*names)[0] != "nav" {
		t.Errorf("tracer names = %q, want [nav]", *names)
	}
	if len(*started) != 2 {
		t.Fatalf("spans = %d, want 2", len(*started))
	}

	first := (*started)[0]
	if first.name != "history.change" || first.kind != trace.SpanKindInternal {
		t.Errorf("span = %+v", first)
	}
	if v, _ := attrValue(first.attrs, "history.path"); v != "a" {
		t.Errorf("history.path = %q, want a", v)
	}
	if v, _ := attrValue(first.attrs, "history.cause"); v != "set" {
		t.Errorf("history.cause = %q, want set", v)
	}
	if v, _ := attrValue(first.attrs, "session.id"); v != "s1" {
		t.Errorf("session.id = %q, want s1", v)
	}
	if v, _ := attrValue((*started)[1].attrs, "history.cause"); v != "replace" {
		t.Errorf("second history.cause = %q, want replace", v)
	}

	stop()
	h.Set("c")
	if len(*started) != 2 {
		t.Errorf("spans after stop = %d, want 2", len(*started))
	}
}

func TestOpenTelemetry_DefaultsToGlobalProvider(t *testing.T) {
	h := history.NewMemory()
	stop := OpenTelemetry(h)
	defer stop()

	// The global provider is a no-op unless configured; this must not panic.
	h.Set("a")
}
