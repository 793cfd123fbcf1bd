// Package health provides liveness and readiness endpoints for "logq watch".
//
// Liveness always reports "ok" while the process runs. Readiness runs every
// registered check concurrently, each bounded by the configured timeout, and
// reports "ready" (HTTP 200) or "degraded" (HTTP 503). The watch command
// registers a "catalog" check that fails while the most recent catalog load
// has invalid queries or no catalog has loaded yet.
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.RegisterCheck("catalog", watcher.Healthy)
//	health.Mount(mux, checker, cfg.Telemetry.Health, version, commit, buildTime)
package health
