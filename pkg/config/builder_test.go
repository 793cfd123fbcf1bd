package config

import "time"

// ConfigBuilder provides a fluent API for building Config instances in tests.
// It starts with default values and allows selective overrides.
type ConfigBuilder struct {
	cfg Config
}

// NewTestConfig creates a new ConfigBuilder starting from the defaults.
// The resulting configuration is valid and can be used immediately.
func NewTestConfig() *ConfigBuilder {
	return &ConfigBuilder{cfg: *Default()}
}

// Build returns the built Config instance.
func (b *ConfigBuilder) Build() *Config {
	return &b.cfg
}

// WithMaxConstraints sets the parser constraint limit.
func (b *ConfigBuilder) WithMaxConstraints(n int) *ConfigBuilder {
	b.cfg.Query.MaxConstraints = n
	return b
}

// WithCatalog sets the catalog path and watch mode.
func (b *ConfigBuilder) WithCatalog(path string, watch bool) *ConfigBuilder {
	b.cfg.Catalog.Path = path
	b.cfg.Catalog.Watch = watch
	return b
}

// WithDebounce sets the catalog reload debounce.
func (b *ConfigBuilder) WithDebounce(d time.Duration) *ConfigBuilder {
	b.cfg.Catalog.Debounce = d
	return b
}

// WithLogging sets the logging level and format.
func (b *ConfigBuilder) WithLogging(level, format string) *ConfigBuilder {
	b.cfg.Telemetry.Logging.Level = level
	b.cfg.Telemetry.Logging.Format = format
	return b
}

// WithTracing enables tracing against endpoint.
func (b *ConfigBuilder) WithTracing(endpoint string) *ConfigBuilder {
	b.cfg.Telemetry.Tracing.Enabled = true
	b.cfg.Telemetry.Tracing.Endpoint = endpoint
	return b
}

// WithoutServer disables the metrics and health endpoints.
func (b *ConfigBuilder) WithoutServer() *ConfigBuilder {
	b.cfg.Telemetry.Metrics.Enabled = false
	b.cfg.Telemetry.Health.Enabled = false
	return b
}

// MinimalConfig returns a minimal valid configuration for testing.
func MinimalConfig() *Config {
	return NewTestConfig().Build()
}
