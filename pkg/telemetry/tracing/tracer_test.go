package tracing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/binlog-hq/logq/pkg/config"
	"github.com/binlog-hq/logq/pkg/telemetry/logging"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func enabledConfig(sampler string) *config.TracingConfig {
	return &config.TracingConfig{
		Enabled:     true,
		Sampler:     sampler,
		SampleRatio: 0.5,
		Exporter:    "otlp",
		Endpoint:    "localhost:4317",
		ServiceName: "logq-test",
		OTLP: config.OTLPConfig{
			Insecure: true,
			Timeout:  time.Second,
		},
	}
}

// newRecordingTracer returns an always-sampling tracer backed by an
// in-memory exporter.
func newRecordingTracer(t *testing.T) (*Tracer, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := New(enabledConfig(SamplerAlways), WithExporter(exporter), WithoutGlobal(), WithServiceVersion("test"))
	if err != nil {
		t.Fatalf("Failed to create tracer: %v", err)
	}
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })
	return tracer, exporter
}

func flushed(t *testing.T, tracer *Tracer, exporter *tracetest.InMemoryExporter) tracetest.SpanStubs {
	t.Helper()
	if err := tracer.ForceFlush(context.Background()); err != nil {
		t.Fatalf("ForceFlush() error = %v", err)
	}
	return exporter.GetSpans()
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *config.TracingConfig
		wantErr bool
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
		},
		{
			name:    "disabled tracing",
			config:  &config.TracingConfig{Enabled: false, ServiceName: "logq-test"},
			wantErr: false,
		},
		{
			name:    "enabled with always sampler",
			config:  enabledConfig(SamplerAlways),
			wantErr: false,
		},
		{
			name:    "enabled with ratio sampler",
			config:  enabledConfig(SamplerRatio),
			wantErr: false,
		},
		{
			name:    "invalid sampler",
			config:  enabledConfig("invalid"),
			wantErr: true,
		},
		{
			name: "unsupported exporter",
			config: func() *config.TracingConfig {
				cfg := enabledConfig(SamplerAlways)
				cfg.Exporter = "zipkin"
				return cfg
			}(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.config, WithoutGlobal())
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil {
				return
			}

			if tracer.Enabled() != tt.config.Enabled {
				t.Errorf("tracer.Enabled() = %v, want %v", tracer.Enabled(), tt.config.Enabled)
			}

			// The OTLP client connects lazily, so shutdown must not hang on an
			// absent collector
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = tracer.Shutdown(ctx)
		})
	}
}

func TestTracer_Disabled(t *testing.T) {
	tracer, err := New(&config.TracingConfig{Enabled: false})
	if err != nil {
		t.Fatal(err)
	}

	ctx, span := tracer.Start(context.Background(), SpanQueryParse)
	defer span.End()

	if span.SpanContext().IsValid() {
		t.Error("disabled tracer should produce invalid span contexts")
	}
	if TraceID(ctx) != "" {
		t.Errorf("TraceID() = %q, want empty", TraceID(ctx))
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestTracer_Nil(t *testing.T) {
	var tracer *Tracer

	_, span := tracer.Start(context.Background(), "noop")
	span.End()

	if tracer.Enabled() {
		t.Error("nil tracer reported enabled")
	}
	if err := tracer.ForceFlush(context.Background()); err != nil {
		t.Errorf("ForceFlush() error = %v", err)
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestTracer_SpanHierarchy(t *testing.T) {
	tracer, exporter := newRecordingTracer(t)

	ctx, root := tracer.Start(context.Background(), CommandSpanName("lint"))
	ctx, load := tracer.Start(ctx, SpanCatalogLoad)
	_, parse := tracer.Start(ctx, SpanQueryParse)
	parse.End()
	load.End()
	root.End()

	spans := flushed(t, tracer, exporter)
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %d", len(spans))
	}

	byName := map[string]tracetest.SpanStub{}
	for _, s := range spans {
		byName[s.Name] = s
	}
	if byName[SpanQueryParse].Parent.SpanID() != byName[SpanCatalogLoad].SpanContext.SpanID() {
		t.Error("query.parse should be a child of catalog.load")
	}
	if byName[SpanCatalogLoad].Parent.SpanID() != byName["cli.lint"].SpanContext.SpanID() {
		t.Error("catalog.load should be a child of cli.lint")
	}
	if byName["cli.lint"].Parent.IsValid() {
		t.Error("cli.lint should be a root span")
	}
}

func TestTracer_AttributeLengthLimit(t *testing.T) {
	tracer, exporter := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), SpanQueryParse)
	SetQueryAttributes(span, "", "/Task["+strings.Repeat("Id=1,", 1000)+"Id=1]")
	span.End()

	spans := flushed(t, tracer, exporter)
	v, ok := attrValue(spans[0].Attributes, AttrQueryExpression)
	if !ok {
		t.Fatal("expression attribute missing")
	}
	if len(v.AsString()) != maxAttributeLength {
		t.Errorf("expression attribute length = %d, want %d", len(v.AsString()), maxAttributeLength)
	}
	if _, ok := attrValue(spans[0].Attributes, AttrQueryName); ok {
		t.Error("empty query name should be omitted")
	}
}

func TestTraceAndSpanID(t *testing.T) {
	tracer, _ := newRecordingTracer(t)

	if TraceID(context.Background()) != "" || SpanID(context.Background()) != "" {
		t.Error("expected empty IDs without a span")
	}

	ctx, span := tracer.Start(context.Background(), "op")
	defer span.End()

	if got := TraceID(ctx); len(got) != 32 {
		t.Errorf("TraceID() = %q, want 32 hex chars", got)
	}
	if got := SpanID(ctx); len(got) != 16 {
		t.Errorf("SpanID() = %q, want 16 hex chars", got)
	}
	if !IsSampled(ctx) {
		t.Error("always sampler should sample")
	}
	if SpanFromContext(ctx) != span {
		t.Error("SpanFromContext() did not return the active span")
	}
}

func TestLogContext(t *testing.T) {
	tracer, _ := newRecordingTracer(t)

	plain := context.Background()
	if LogContext(plain) != plain {
		t.Error("LogContext without a span should return the same context")
	}

	ctx, span := tracer.Start(plain, "op")
	defer span.End()

	ctx = LogContext(ctx)
	if logging.GetTraceID(ctx) != TraceID(ctx) {
		t.Errorf("logging trace_id = %q, want %q", logging.GetTraceID(ctx), TraceID(ctx))
	}
	if logging.GetSpanID(ctx) != SpanID(ctx) {
		t.Errorf("logging span_id = %q, want %q", logging.GetSpanID(ctx), SpanID(ctx))
	}
}

func TestSetErrorAndStatus(t *testing.T) {
	tracer, exporter := newRecordingTracer(t)

	_, failed := tracer.Start(context.Background(), "failed")
	err := errors.New("unknown keyword 'tsak'")
	SetError(failed, err)
	SetStatus(failed, err)
	SetParseFailure(failed, "UnknownKeyword", 9)
	failed.End()

	_, ok := tracer.Start(context.Background(), "ok")
	SetError(ok, nil)
	SetStatus(ok, nil)
	SetParseSuccess(ok, 3)
	ok.End()

	for _, s := range flushed(t, tracer, exporter) {
		switch s.Name {
		case "failed":
			if s.Status.Code != codes.Error {
				t.Errorf("status = %v, want Error", s.Status.Code)
			}
			if len(s.Events) != 1 || s.Events[0].Name != "exception" {
				t.Errorf("expected one exception event, got %+v", s.Events)
			}
			if v, _ := attrValue(s.Attributes, AttrParseCategory); v.AsString() != "UnknownKeyword" {
				t.Errorf("category attribute = %q", v.AsString())
			}
			if v, _ := attrValue(s.Attributes, AttrParseOffset); v.AsInt64() != 9 {
				t.Errorf("offset attribute = %d", v.AsInt64())
			}
		case "ok":
			if s.Status.Code != codes.Ok {
				t.Errorf("status = %v, want Ok", s.Status.Code)
			}
			if len(s.Events) != 0 {
				t.Errorf("SetError(nil) recorded events: %+v", s.Events)
			}
			if v, _ := attrValue(s.Attributes, AttrPathDepth); v.AsInt64() != 3 {
				t.Errorf("depth attribute = %d", v.AsInt64())
			}
		}
	}
}

func TestSetCatalogAttributes(t *testing.T) {
	tracer, exporter := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), SpanCatalogLoad)
	SetCatalogAttributes(span, "ci.yaml", 4, 1)
	AddEvent(span, "reload", attribute.String("trigger", "write"))
	span.End()

	s := flushed(t, tracer, exporter)[0]
	if v, _ := attrValue(s.Attributes, AttrCatalogPath); v.AsString() != "ci.yaml" {
		t.Errorf("catalog path = %q", v.AsString())
	}
	if v, _ := attrValue(s.Attributes, AttrCatalogInvalid); v.AsInt64() != 1 {
		t.Errorf("invalid count = %d", v.AsInt64())
	}
	if len(s.Events) != 1 || s.Events[0].Name != "reload" {
		t.Errorf("expected reload event, got %+v", s.Events)
	}
}

func TestNeverSampler(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := New(enabledConfig(SamplerNever), WithExporter(exporter), WithoutGlobal())
	if err != nil {
		t.Fatal(err)
	}
	defer tracer.Shutdown(context.Background())

	ctx, span := tracer.Start(context.Background(), "dropped")
	span.End()

	if IsSampled(ctx) {
		t.Error("never sampler should not sample")
	}
	if spans := flushed(t, tracer, exporter); len(spans) != 0 {
		t.Errorf("expected no exported spans, got %d", len(spans))
	}
}

// compile-time check that the in-memory exporter satisfies the SDK interface
var _ sdktrace.SpanExporter = (*tracetest.InMemoryExporter)(nil)
