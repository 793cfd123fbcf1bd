package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/binlog-hq/logq/pkg/cli"
	"github.com/binlog-hq/logq/pkg/config"
	"github.com/binlog-hq/logq/pkg/telemetry/logging"
	"github.com/binlog-hq/logq/pkg/telemetry/tracing"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

// skipSetup marks commands that run without loading configuration.
const skipSetup = "logq.skip-setup"

var rootCmd = &cobra.Command{
	Use:   "logq",
	Short: "logq - path queries over build logs",
	Long: `logq parses path queries that select projects, targets, tasks, messages,
warnings and errors inside a build log, and lints catalogs of named queries.

A query is a sequence of segments in the fixed order project, target, task,
followed by at most one of message, warning or error:

  /Project/Target/Task[Id=3]/error
  /Project//warning
  //message

"/" selects direct children and "//" selects descendants at any depth;
"//" is only allowed before message, warning or error.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupApp,
}

// app holds what every command shares once configuration is loaded.
type app struct {
	cfg    *config.Config
	logger *logging.Logger
	tracer *tracing.Tracer
	span   trace.Span
}

// state is set by setupApp. Commands read it through currentApp.
var state *app

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if state != nil {
		state.close(err)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return cli.ExitCode(err)
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "logq.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return cli.NewUsageError(cmd.Name(), err)
	})
}

// setupApp loads configuration and starts logging and tracing for the
// command about to run. A missing config file means defaults.
func setupApp(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipSetup] != "" {
		return nil
	}

	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError(cfgFile, "failed to load config", err)
	}

	a, ctx, err := newApp(cmd.Context(), config.GetConfig(), verbose, cmd.Name())
	if err != nil {
		return err
	}
	state = a
	cmd.SetContext(ctx)

	if path := config.Path(); path != "" {
		a.logger.DebugContext(ctx, "configuration loaded", "path", path)
	} else {
		a.logger.DebugContext(ctx, "no config file, using defaults", "path", cfgFile)
	}
	return nil
}

// newApp builds the logger and tracer for cfg and opens the root span of
// the command. The returned context carries the run ID, the command name
// and the trace IDs for log correlation.
func newApp(parent context.Context, cfg *config.Config, debug bool, command string) (*app, context.Context, error) {
	if parent == nil {
		parent = context.Background()
	}

	logCfg := logging.FromConfig(cfg.Telemetry.Logging)
	if debug {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, nil, cli.NewConfigError(cfgFile, "invalid logging settings", err)
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, tracing.WithServiceVersion(Version))
	if err != nil {
		return nil, nil, cli.NewConfigError(cfgFile, "invalid tracing settings", err)
	}

	ctx := logging.WithRunID(parent, logging.NewRunID())
	ctx = logging.WithCommand(ctx, command)
	ctx, span := tracer.Start(ctx, tracing.CommandSpanName(command))
	span.SetAttributes(attribute.String(tracing.AttrCommand, command))
	ctx = tracing.LogContext(ctx)

	return &app{cfg: cfg, logger: logger, tracer: tracer, span: span}, ctx, nil
}

// currentApp returns the state set up for the running command, or a quiet
// default one when no setup ran.
func currentApp() *app {
	if state == nil {
		state = &app{
			cfg:    config.Default(),
			logger: logging.Discard(),
			span:   trace.SpanFromContext(context.Background()),
		}
	}
	return state
}

// close ends the command span and flushes telemetry.
func (a *app) close(err error) {
	tracing.SetStatus(a.span, err)
	a.span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := a.tracer.Shutdown(ctx); shutdownErr != nil {
		a.logger.Warn("tracer shutdown failed", "error", shutdownErr)
	}
	_ = a.logger.Shutdown()
}
