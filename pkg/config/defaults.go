package config

import "time"

// Default values for configuration fields.
const (
	// Query defaults
	DefaultMaxConstraints      = 0
	DefaultMaxExpressionLength = 4096

	// Catalog defaults
	DefaultCatalogPath        = "./queries.yaml"
	DefaultCatalogWatch       = false
	DefaultCatalogDebounce    = 100 * time.Millisecond
	DefaultCatalogMaxFileSize = int64(10 * 1024 * 1024) // 10MB

	// Logging defaults
	DefaultLoggingLevel    = "info"
	DefaultLoggingFormat   = "text"
	DefaultLoggingMaxField = 256

	// Metrics defaults
	DefaultMetricsEnabled       = true
	DefaultMetricsListenAddress = "127.0.0.1:9464"
	DefaultPrometheusPath       = "/metrics"
	DefaultMetricsNamespace     = "logq"
	DefaultMetricsSubsystem     = "parser"

	// Tracing defaults
	DefaultTracingEnabled      = false
	DefaultTracingSampler      = "ratio"
	DefaultTracingSamplingRate = 0.1
	DefaultTracingExporter     = "otlp"
	DefaultTracingEndpoint     = "localhost:4317"
	DefaultTracingServiceName  = "logq"
	DefaultOTLPInsecure        = true
	DefaultOTLPTimeout         = 10 * time.Second

	// Health defaults
	DefaultHealthEnabled       = true
	DefaultHealthLivenessPath  = "/healthz"
	DefaultHealthReadinessPath = "/readyz"
	DefaultHealthCheckTimeout  = 5 * time.Second
)

// DefaultParseDurationBuckets are histogram buckets sized for sub-millisecond parses.
var DefaultParseDurationBuckets = []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01}

// Default returns a configuration with every field set to its default.
// Boolean fields that default to true are only set here, since ApplyDefaults
// cannot tell an explicit false from an absent value.
func Default() *Config {
	cfg := &Config{}
	cfg.Catalog.Watch = DefaultCatalogWatch
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	cfg.Telemetry.Tracing.Enabled = DefaultTracingEnabled
	cfg.Telemetry.Tracing.OTLP.Insecure = DefaultOTLPInsecure
	cfg.Telemetry.Health.Enabled = DefaultHealthEnabled
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
// It never overrides values that were set explicitly.
func ApplyDefaults(cfg *Config) {
	// Query defaults
	if cfg.Query.MaxExpressionLength == 0 {
		cfg.Query.MaxExpressionLength = DefaultMaxExpressionLength
	}

	// Catalog defaults
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = DefaultCatalogPath
	}
	if cfg.Catalog.Debounce == 0 {
		cfg.Catalog.Debounce = DefaultCatalogDebounce
	}
	if cfg.Catalog.MaxFileSize == 0 {
		cfg.Catalog.MaxFileSize = DefaultCatalogMaxFileSize
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Logging.MaxFieldLength == 0 {
		cfg.Telemetry.Logging.MaxFieldLength = DefaultLoggingMaxField
	}
	applyMetricsDefaults(&cfg.Telemetry.Metrics)
	applyTracingDefaults(&cfg.Telemetry.Tracing)

	if cfg.Telemetry.Health.LivenessPath == "" {
		cfg.Telemetry.Health.LivenessPath = DefaultHealthLivenessPath
	}
	if cfg.Telemetry.Health.ReadinessPath == "" {
		cfg.Telemetry.Health.ReadinessPath = DefaultHealthReadinessPath
	}
	if cfg.Telemetry.Health.CheckTimeout == 0 {
		cfg.Telemetry.Health.CheckTimeout = DefaultHealthCheckTimeout
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Path == "" {
		cfg.Path = DefaultPrometheusPath
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.ParseDurationBuckets) == 0 {
		cfg.ParseDurationBuckets = append([]float64(nil), DefaultParseDurationBuckets...)
	}
}

func applyTracingDefaults(cfg *TracingConfig) {
	if cfg.Sampler == "" {
		cfg.Sampler = DefaultTracingSampler
	}
	if cfg.SampleRatio == 0 {
		cfg.SampleRatio = DefaultTracingSamplingRate
	}
	if cfg.Exporter == "" {
		cfg.Exporter = DefaultTracingExporter
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultTracingEndpoint
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultTracingServiceName
	}
	if cfg.OTLP.Timeout == 0 {
		cfg.OTLP.Timeout = DefaultOTLPTimeout
	}
}
