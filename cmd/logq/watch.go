package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/binlog-hq/logq/pkg/catalog"
	"github.com/binlog-hq/logq/pkg/cli"
	"github.com/binlog-hq/logq/pkg/telemetry/health"
	"github.com/binlog-hq/logq/pkg/telemetry/logging"
	"github.com/binlog-hq/logq/pkg/telemetry/metrics"
)

const shutdownTimeout = 5 * time.Second

var watchFlags struct {
	file   string
	dir    string
	format string
	listen string
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Lint catalogs and re-lint whenever they change",
	Long: `Load a catalog file or directory, report its problems and keep watching
for changes. Every reload is linted and reported; a broken edit keeps the last
good version of the catalog in service.

While running, logq serves Prometheus metrics and health endpoints on the
address configured under telemetry.metrics.listen_address:

  /metrics   parse and catalog metrics (telemetry.metrics.enabled)
  /healthz   liveness (telemetry.health.enabled)
  /readyz    ready once every catalog has loaded without errors
  /version   build information

Stop with Ctrl+C.

Examples:
  logq watch --file queries.yaml
  logq watch --dir catalogs/ --listen :9464`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.file, "file", "f", "", "catalog file to watch")
	watchCmd.Flags().StringVarP(&watchFlags.dir, "dir", "d", "", "directory of catalog files to watch")
	watchCmd.Flags().StringVar(&watchFlags.format, "format", "text", "output format: text, json, yaml")
	watchCmd.Flags().StringVar(&watchFlags.listen, "listen", "", "address for metrics and health endpoints (overrides config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchFlags.file != "" && watchFlags.dir != "" {
		return cli.NewUsageError("watch", fmt.Errorf("--file and --dir are mutually exclusive"))
	}
	format, err := cli.ParseFormat(watchFlags.format)
	if err != nil {
		return cli.NewUsageError("watch", err)
	}

	path := watchFlags.file
	if watchFlags.dir != "" {
		path = watchFlags.dir
	}
	if path == "" {
		path = currentApp().cfg.Catalog.Path
	}
	return watchCatalogs(cmd, path, format)
}

// watchCatalogs runs a catalog watcher on path until the command context
// is cancelled, printing a lint result for every load.
func watchCatalogs(cmd *cobra.Command, path string, format cli.OutputFormat) error {
	a := currentApp()
	cfg := a.cfg
	ctx := logging.WithCatalog(cmd.Context(), path)

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}

	opts := catalog.OptionsFromConfig(cfg)
	opts.Metrics = collector
	opts.Tracer = a.tracer
	opts.Logger = a.logger
	loader := catalog.NewLoader(opts)
	registry := catalog.NewRegistry()

	report := newReloadReporter(cmd.OutOrStdout(), format)
	watcher, err := catalog.NewWatcher(catalog.WatcherConfig{
		Path:     path,
		Debounce: cfg.Catalog.Debounce,
		OnReload: report.onReload,
		Metrics:  collector,
		Logger:   a.logger,
	}, loader, registry)
	if err != nil {
		return cli.NewUsageError("watch", err)
	}

	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
	checker.RegisterCheck("catalog", watcher.Healthy)

	listen := cfg.Telemetry.Metrics.ListenAddress
	if watchFlags.listen != "" {
		listen = watchFlags.listen
	}

	var srv *http.Server
	serveErr := make(chan error, 1)
	if listen != "" && (collector != nil || cfg.Telemetry.Health.Enabled) {
		mux := http.NewServeMux()
		if collector != nil {
			mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
		}
		health.Mount(mux, checker, cfg.Telemetry.Health, Version, GitCommit, BuildDate)

		ln, err := net.Listen("tcp", listen)
		if err != nil {
			return cli.NewCommandError("watch", fmt.Errorf("failed to listen on %s: %w", listen, err))
		}
		srv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- fmt.Errorf("server error: %w", err)
			}
		}()
		a.logger.InfoContext(ctx, "serving telemetry endpoints", "address", ln.Addr().String())
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	watchErr := make(chan error, 1)
	go func() { watchErr <- watcher.Run(watchCtx) }()

	var runErr error
	select {
	case err := <-watchErr:
		if err != nil {
			runErr = cli.NewCommandError("watch", err)
		}
	case err := <-serveErr:
		cancel()
		<-watchErr
		runErr = cli.NewCommandError("watch", err)
	}

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("shutdown failed", "error", err)
			if runErr == nil {
				runErr = cli.NewCommandError("watch", err)
			}
		}
	}

	if runErr == nil {
		a.logger.InfoContext(ctx, "watcher stopped", "catalogs", registry.Count(), "version", registry.Version())
	}
	return runErr
}

// reloadReporter prints one lint result per catalog load. Reloads arrive
// from the watcher goroutine.
type reloadReporter struct {
	mu     sync.Mutex
	out    io.Writer
	format cli.OutputFormat
}

func newReloadReporter(out io.Writer, format cli.OutputFormat) *reloadReporter {
	return &reloadReporter{out: out, format: format}
}

func (r *reloadReporter) onReload(source string, cat *catalog.Catalog, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := newLintResult(source, cat, err)
	if r.format != cli.FormatText {
		_ = cli.NewFormatter(r.format).FormatTo(r.out, result)
		return
	}
	fmt.Fprintf(r.out, "[%s] ", time.Now().Format(time.TimeOnly))
	writeLintText(r.out, result)
}
