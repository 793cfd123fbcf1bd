package metrics

import (
	"time"

	"github.com/binlog-hq/logq/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics tracks query catalog loads.
//
// Metrics:
//   - logq_parser_catalog_loads_total: Catalog loads by catalog and result
//   - logq_parser_catalog_load_duration_seconds: Load duration histogram
//   - logq_parser_catalog_queries: Queries in the last load, by validity
//   - logq_parser_catalog_reloads_total: Reloads triggered by file changes
type CatalogMetrics struct {
	loadsTotal *prometheus.CounterVec

	loadDuration *prometheus.HistogramVec

	queries *prometheus.GaugeVec

	reloadsTotal *prometheus.CounterVec
}

// NewCatalogMetrics creates and registers catalog metrics with the provided registry.
func NewCatalogMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CatalogMetrics {
	cm := &CatalogMetrics{
		loadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "catalog_loads_total",
				Help:      "Total number of query catalog loads",
			},
			[]string{"catalog", "result"},
		),

		loadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "catalog_load_duration_seconds",
				Help:      "Duration of query catalog loads in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8), // 100µs to ~1.6s
			},
			[]string{"catalog"},
		),

		queries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "catalog_queries",
				Help:      "Number of queries in the most recently loaded catalog",
			},
			[]string{"catalog", "state"},
		),

		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "catalog_reloads_total",
				Help:      "Total number of catalog reloads triggered by file changes",
			},
			[]string{"catalog", "result"},
		),
	}

	registry.MustRegister(
		cm.loadsTotal,
		cm.loadDuration,
		cm.queries,
		cm.reloadsTotal,
	)

	return cm
}

// RecordLoad records one catalog load.
//
// Parameters:
//   - catalog: Catalog file path
//   - result: "ok" when every query parsed, "error" otherwise
//   - duration: Time to read and parse the file
//   - valid, invalid: Query counts by parse outcome
func (cm *CatalogMetrics) RecordLoad(catalog, result string, duration time.Duration, valid, invalid int) {
	cm.loadsTotal.WithLabelValues(catalog, result).Inc()
	cm.loadDuration.WithLabelValues(catalog).Observe(duration.Seconds())
	cm.queries.WithLabelValues(catalog, "valid").Set(float64(valid))
	cm.queries.WithLabelValues(catalog, "invalid").Set(float64(invalid))
}

// RecordReload records a reload attempt triggered by the file watcher.
func (cm *CatalogMetrics) RecordReload(catalog, result string) {
	cm.reloadsTotal.WithLabelValues(catalog, result).Inc()
}

// RecordLoadFailure records a load that produced no catalog at all, such as an
// unreadable file or malformed YAML. Query gauges keep their previous values.
func (cm *CatalogMetrics) RecordLoadFailure(catalog string, duration time.Duration) {
	cm.loadsTotal.WithLabelValues(catalog, ResultFailed).Inc()
	cm.loadDuration.WithLabelValues(catalog).Observe(duration.Seconds())
}
