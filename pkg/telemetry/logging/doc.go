// Package logging provides structured logging for logq.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats
//   - Context-aware logging with run IDs, command and catalog names
//   - Truncation of oversized string fields such as long query expressions
//   - Configurable log levels (debug, info, warn, error)
//
// Records are written to stderr by default so that command output on stdout
// stays machine readable.
//
// # Usage
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
//	if err != nil {
//	    return err
//	}
//
//	ctx = logging.WithRunID(ctx, logging.NewRunID())
//	ctx = logging.WithCommand(ctx, "lint")
//	logger.InfoContext(ctx, "catalog loaded", "queries", 12)
//	// run_id=... command=lint msg="catalog loaded" queries=12
//
// # Truncation
//
// When MaxFieldLength is positive, string values longer than the limit are cut
// on a rune boundary and suffixed with "...(truncated)[N bytes]". Keys are
// never modified.
package logging
