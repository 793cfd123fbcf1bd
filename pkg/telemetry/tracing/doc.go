// Package tracing provides OpenTelemetry tracing for logq.
//
// # Overview
//
// Tracing is off by default. When enabled, spans are exported over OTLP gRPC
// to the configured collector. Each CLI invocation opens a root span named
// cli.<command>; catalog loads and individual parses become child spans:
//
//	cli.lint
//	└── catalog.load        logq.catalog.path, logq.catalog.queries.*
//	    ├── query.parse     logq.query.name, logq.query.expression
//	    └── query.parse     logq.parse.category, logq.parse.offset
//
// Expression attributes are capped at 1024 bytes.
//
// # Sampling
//
// Three strategies are supported, each wrapped in a parent-based sampler:
//   - always: Sample all traces
//   - never: Sample no traces
//   - ratio: Sample a fraction of traces by trace ID
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, tracing.WithServiceVersion(version))
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, tracing.CommandSpanName("lint"))
//	defer span.End()
//	ctx = tracing.LogContext(ctx) // log records now carry trace_id and span_id
//
// When tracing is disabled, New returns a tracer whose spans are noops, and a
// nil *Tracer behaves the same way.
package tracing
