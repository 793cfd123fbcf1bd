// Package metrics provides Prometheus metrics collection for logq.
//
// # Metrics
//
// All names are prefixed with the configured namespace and subsystem
// (logq_parser_ by default):
//
//	parses_total{result,category}         counter
//	parse_duration_seconds{result}        histogram
//	path_segments                         histogram
//	catalog_loads_total{catalog,result}   counter
//	catalog_load_duration_seconds{catalog} histogram
//	catalog_queries{catalog,state}        gauge
//	catalog_reloads_total{catalog,result} counter
//
// The category label carries the ParseError category name for failed parses
// and "none" for successful ones. Catalog labels are the catalog file path,
// capped at 1000 distinct values; later paths are recorded as "other".
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordParse("", elapsed, 3)
//	collector.RecordParse("UnknownKeyword", elapsed, 0)
//	http.Handle("/metrics", collector.Handler())
//
// A nil *Collector is valid and records nothing.
package metrics
