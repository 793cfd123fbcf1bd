package metrics

import (
	"sync"
	"time"

	"github.com/binlog-hq/logq/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// otherCatalog replaces catalog labels once the cardinality limit is reached.
const otherCatalog = "other"

// Collector owns every Prometheus metric logq exports. It manages metric
// registration and provides a single interface for recording parse and
// catalog outcomes.
//
// All methods are safe on a nil *Collector, which records nothing. Commands
// that run without metrics pass nil instead of a disabled collector.
type Collector struct {
	config   config.MetricsConfig
	registry *prometheus.Registry

	parseMetrics   *ParseMetrics
	catalogMetrics *CatalogMetrics

	// Catalog paths are user supplied, so the label set is capped
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created.
// Zero-valued configuration fields take their defaults; cfg is not modified.
//
// Example:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	http.Handle("/metrics", collector.Handler())
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		config:             withDefaults(cfg),
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(1000),
	}

	c.parseMetrics = NewParseMetrics(&c.config, registry)
	c.catalogMetrics = NewCatalogMetrics(&c.config, registry)

	return c
}

func withDefaults(cfg *config.MetricsConfig) config.MetricsConfig {
	var out config.MetricsConfig
	if cfg != nil {
		out = *cfg
	}
	if out.Namespace == "" {
		out.Namespace = config.DefaultMetricsNamespace
	}
	if out.Subsystem == "" {
		out.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(out.ParseDurationBuckets) == 0 {
		out.ParseDurationBuckets = config.DefaultParseDurationBuckets
	}
	return out
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordParse records the outcome of parsing one expression.
//
// Parameters:
//   - category: ParseError category name, or "" for a successful parse
//   - duration: Parse duration
//   - segments: Path length; ignored for failures
//
// Example:
//
//	start := time.Now()
//	path, err := query.Parse(expr)
//	collector.RecordParse(errors.CategoryOf(err).String(), time.Since(start), path.Depth())
func (c *Collector) RecordParse(category string, duration time.Duration, segments int) {
	if !c.enabled() {
		return
	}

	if category == "" {
		c.parseMetrics.RecordSuccess(duration, segments)
		return
	}
	c.parseMetrics.RecordFailure(category, duration)
}

// RecordCatalogLoad records a catalog load that produced a set of queries.
func (c *Collector) RecordCatalogLoad(catalog string, duration time.Duration, valid, invalid int) {
	if !c.enabled() {
		return
	}

	result := ResultOK
	if invalid > 0 {
		result = ResultError
	}
	c.catalogMetrics.RecordLoad(c.catalogLabel(catalog), result, duration, valid, invalid)
}

// RecordCatalogFailure records a catalog that could not be read or decoded.
func (c *Collector) RecordCatalogFailure(catalog string, duration time.Duration) {
	if !c.enabled() {
		return
	}

	c.catalogMetrics.RecordLoadFailure(c.catalogLabel(catalog), duration)
}

// RecordCatalogReload records a watcher-triggered reload attempt.
func (c *Collector) RecordCatalogReload(catalog string, ok bool) {
	if !c.enabled() {
		return
	}

	result := ResultOK
	if !ok {
		result = ResultError
	}
	c.catalogMetrics.RecordReload(c.catalogLabel(catalog), result)
}

func (c *Collector) catalogLabel(catalog string) string {
	if !c.cardinalityLimiter.Allow(catalog) {
		return otherCatalog
	}
	return catalog
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label value is allowed. Returns true if the value
// already exists or if the limit has not been reached yet.
func (cl *CardinalityLimiter) Allow(label string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[label]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[label]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[label] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
