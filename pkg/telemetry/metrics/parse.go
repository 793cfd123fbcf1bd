package metrics

import (
	"time"

	"github.com/binlog-hq/logq/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"

	// ResultFailed marks catalog loads that could not be read or decoded.
	ResultFailed = "failed"
)

// categoryNone labels successful parses, which have no error category.
const categoryNone = "none"

// ParseMetrics tracks query parsing outcomes.
//
// Metrics:
//   - logq_parser_parses_total: Parses by result and error category
//   - logq_parser_parse_duration_seconds: Parse duration histogram by result
//   - logq_parser_path_segments: Segment count of successfully parsed paths
type ParseMetrics struct {
	// Total parse count
	parsesTotal *prometheus.CounterVec

	// Parse duration histogram
	parseDuration *prometheus.HistogramVec

	// Segments per successfully parsed path
	segments prometheus.Histogram
}

// NewParseMetrics creates and registers parse metrics with the provided registry.
func NewParseMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ParseMetrics {
	pm := &ParseMetrics{
		parsesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "parses_total",
				Help:      "Total number of query expressions parsed",
			},
			[]string{"result", "category"},
		),

		parseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "parse_duration_seconds",
				Help:      "Duration of query parsing in seconds",
				Buckets:   cfg.ParseDurationBuckets,
			},
			[]string{"result"},
		),

		segments: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "path_segments",
				Help:      "Number of segments in successfully parsed query paths",
				Buckets:   prometheus.LinearBuckets(1, 1, 6), // 1 to 6 segments
			},
		),
	}

	registry.MustRegister(
		pm.parsesTotal,
		pm.parseDuration,
		pm.segments,
	)

	return pm
}

// RecordSuccess records a parse that produced a path of the given length.
func (pm *ParseMetrics) RecordSuccess(duration time.Duration, segments int) {
	pm.parsesTotal.WithLabelValues(ResultOK, categoryNone).Inc()
	pm.parseDuration.WithLabelValues(ResultOK).Observe(duration.Seconds())
	pm.segments.Observe(float64(segments))
}

// RecordFailure records a rejected expression.
//
// Parameters:
//   - category: ParseError category name (e.g., "UnknownKeyword")
//   - duration: Time spent before the error was detected
func (pm *ParseMetrics) RecordFailure(category string, duration time.Duration) {
	pm.parsesTotal.WithLabelValues(ResultError, category).Inc()
	pm.parseDuration.WithLabelValues(ResultError).Observe(duration.Seconds())
}
