package config

import "time"

// Config is the root configuration structure for logq.
// It contains the parser limits, the query catalog location, and the
// telemetry settings shared by every command.
type Config struct {
	// Query contains limits applied when parsing query expressions.
	Query QueryConfig `yaml:"query"`

	// Catalog contains the location of the query catalog and its watch
	// settings.
	Catalog CatalogConfig `yaml:"catalog"`

	// Telemetry contains configuration for observability including logging,
	// metrics, tracing and health endpoints.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// QueryConfig contains limits for the query parser.
type QueryConfig struct {
	// MaxConstraints caps the number of constraints in one bracket list.
	// Zero means unlimited.
	// Default: 0
	MaxConstraints int `yaml:"max_constraints"`

	// MaxExpressionLength caps the length in bytes of a single expression
	// read from a catalog or the command line. Zero means unlimited.
	// Default: 4096
	MaxExpressionLength int `yaml:"max_expression_length"`
}

// CatalogConfig contains configuration for query catalogs.
type CatalogConfig struct {
	// Path is the catalog file used by "logq lint" and "logq watch" when no
	// --file flag is given.
	// Default: "./queries.yaml"
	Path string `yaml:"path"`

	// Watch enables hot reload of the catalog file.
	// Default: false
	Watch bool `yaml:"watch"`

	// Debounce is how long to wait after the last file event before
	// reloading the catalog.
	// Default: 100ms
	Debounce time.Duration `yaml:"debounce"`

	// MaxFileSize is the largest catalog file that will be loaded, in bytes.
	// Default: 10MB
	MaxFileSize int64 `yaml:"max_file_size"`
}

// TelemetryConfig contains configuration for logging, metrics, tracing and
// health checks.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`

	// Health contains health check endpoint configuration.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// MaxFieldLength truncates string fields (such as long query
	// expressions) to this many bytes. Zero disables truncation.
	// Default: 256
	MaxFieldLength int `yaml:"max_field_length"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address "logq watch" serves metrics and health
	// endpoints on.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "logq"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "parser"
	Subsystem string `yaml:"subsystem"`

	// ParseDurationBuckets defines histogram buckets for parse duration (seconds).
	// Default: [0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01]
	ParseDurationBuckets []float64 `yaml:"parse_duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Exporter determines the trace exporter to use.
	// Options: "otlp"
	// Default: "otlp"
	Exporter string `yaml:"exporter"`

	// Endpoint is the OTLP collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "logq"
	ServiceName string `yaml:"service_name"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for the OTLP connection.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// HealthConfig contains health check endpoint configuration.
type HealthConfig struct {
	// Enabled controls whether "logq watch" serves health endpoints.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// LivenessPath is the path for the liveness probe endpoint.
	// Default: "/healthz"
	LivenessPath string `yaml:"liveness_path"`

	// ReadinessPath is the path for the readiness probe endpoint.
	// Default: "/readyz"
	ReadinessPath string `yaml:"readiness_path"`

	// CheckTimeout is the timeout for individual readiness checks.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}
