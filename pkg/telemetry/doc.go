// Package telemetry groups logq's observability packages.
//
//   - logging: slog-based structured logging with run and trace context
//   - metrics: Prometheus collectors for parses and catalog loads
//   - tracing: OpenTelemetry spans exported over OTLP
//   - health: liveness and readiness endpoints for "logq watch"
//
// Each subpackage is configured from the matching section of
// config.TelemetryConfig and can be used on its own.
package telemetry
