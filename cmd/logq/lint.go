package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/binlog-hq/logq/pkg/catalog"
	"github.com/binlog-hq/logq/pkg/cli"
	queryErrors "github.com/binlog-hq/logq/pkg/query/errors"
)

var lintFlags struct {
	file     string
	dir      string
	format   string
	progress bool
	watch    bool
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate query catalogs",
	Long: `Validate query catalogs for YAML, structure and expression errors.

Every query in a catalog is parsed and all problems are reported together,
each with its line, column, error category and a suggested fix where one is
known. Without --file or --dir the catalog path from the config file is used.

Examples:
  # Lint a single catalog
  logq lint --file queries.yaml

  # Lint every catalog under a directory
  logq lint --dir catalogs/ --progress

  # JSON output for CI/CD
  logq lint --dir catalogs/ --format json

  # Keep linting as files change
  logq lint --file queries.yaml --watch`,
	RunE: lintCatalogs,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "catalog file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of catalog files")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json, yaml")
	lintCmd.Flags().BoolVar(&lintFlags.progress, "progress", false, "show a progress bar on stderr when linting a directory")
	lintCmd.Flags().BoolVarP(&lintFlags.watch, "watch", "w", false, "re-lint on changes (defaults to catalog.watch from config)")
}

// LintResult is the outcome of validating one catalog file.
type LintResult struct {
	File    string      `json:"file" yaml:"file"`
	Valid   bool        `json:"valid" yaml:"valid"`
	Queries int         `json:"queries" yaml:"queries"`
	Errors  []LintError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// LintError is a single problem found in a catalog.
type LintError struct {
	Line       int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column     int    `json:"column,omitempty" yaml:"column,omitempty"`
	Type       string `json:"type,omitempty" yaml:"type,omitempty"`
	Category   string `json:"category,omitempty" yaml:"category,omitempty"`
	Query      string `json:"query,omitempty" yaml:"query,omitempty"`
	Message    string `json:"message" yaml:"message"`
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	Context    string `json:"-" yaml:"-"`
}

func lintCatalogs(cmd *cobra.Command, args []string) error {
	if lintFlags.file != "" && lintFlags.dir != "" {
		return cli.NewUsageError("lint", fmt.Errorf("--file and --dir are mutually exclusive"))
	}
	format, err := cli.ParseFormat(lintFlags.format)
	if err != nil {
		return cli.NewUsageError("lint", err)
	}

	a := currentApp()
	path := lintFlags.file
	if lintFlags.dir != "" {
		path = lintFlags.dir
	}

	watch := lintFlags.watch
	if !cmd.Flags().Changed("watch") {
		watch = a.cfg.Catalog.Watch
	}
	if watch {
		if path == "" {
			path = a.cfg.Catalog.Path
		}
		return watchCatalogs(cmd, path, format)
	}

	opts := catalog.OptionsFromConfig(a.cfg)
	opts.Tracer = a.tracer
	opts.Logger = a.logger
	loader := catalog.NewLoader(opts)
	ctx := cmd.Context()

	var results []LintResult
	if lintFlags.dir != "" {
		progress := cli.NewProgressReporter(nil, "")
		if lintFlags.progress {
			progress = cli.NewProgressReporter(cmd.ErrOrStderr(), "lint")
		}
		loaded, err := loader.LoadDir(ctx, lintFlags.dir, progress.Update)
		progress.Finish()
		if err != nil {
			fmt.Fprint(cmd.ErrOrStderr(), err)
			return cli.NewCommandError("lint", errors.New("cannot read catalog directory"))
		}
		for _, r := range loaded {
			results = append(results, newLintResult(r.Source, r.Catalog, r.Err))
		}
	} else {
		if path == "" {
			path = a.cfg.Catalog.Path
		}
		cat, err := loader.Load(ctx, path)
		results = append(results, newLintResult(path, cat, err))
	}

	if err := outputLint(cmd.OutOrStdout(), format, results); err != nil {
		return cli.NewCommandError("lint", err)
	}

	if failed := countFailed(results); failed > 0 {
		return cli.NewCommandError("lint", fmt.Errorf("%d of %d catalog(s) failed validation", failed, len(results)))
	}
	return nil
}

// newLintResult converts a load outcome into a LintResult.
func newLintResult(source string, cat *catalog.Catalog, err error) LintResult {
	result := LintResult{File: source, Valid: err == nil}
	if cat != nil {
		result.Queries = cat.Len()
	}
	if err == nil {
		return result
	}

	var errList *queryErrors.ErrorList
	var catErr *queryErrors.Error
	switch {
	case errors.As(err, &errList):
		for _, e := range errList.Errors {
			result.Errors = append(result.Errors, newLintError(e))
		}
	case errors.As(err, &catErr):
		result.Errors = append(result.Errors, newLintError(catErr))
	default:
		result.Errors = append(result.Errors, LintError{Message: err.Error()})
	}
	return result
}

func newLintError(e *queryErrors.Error) LintError {
	return LintError{
		Line:       e.Location.Line,
		Column:     e.Location.Column,
		Type:       string(e.Type),
		Category:   string(e.Category()),
		Query:      e.Query,
		Message:    e.Message,
		Suggestion: e.Suggestion,
		Context:    e.Context,
	}
}

func countFailed(results []LintResult) int {
	failed := 0
	for _, r := range results {
		if !r.Valid {
			failed++
		}
	}
	return failed
}

func outputLint(w io.Writer, format cli.OutputFormat, results []LintResult) error {
	if format != cli.FormatText {
		return cli.NewFormatter(format).FormatTo(w, results)
	}

	totalErrors := 0
	for _, result := range results {
		writeLintText(w, result)
		totalErrors += len(result.Errors)
	}

	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  %d file(s), %d failed, %d error(s)\n", len(results), countFailed(results), totalErrors)
	return nil
}

// writeLintText prints one result the way a reviewer reads it: the file,
// then each error with its location, source excerpt and suggestion.
func writeLintText(w io.Writer, result LintResult) {
	fmt.Fprintf(w, "Validating %s...\n", result.File)

	if result.Valid {
		fmt.Fprintf(w, "✓ %d quer%s valid\n\n", result.Queries, plural(result.Queries, "y", "ies"))
		return
	}

	for _, e := range result.Errors {
		fmt.Fprint(w, "✗ Error: ")
		if e.Query != "" {
			fmt.Fprintf(w, "%s: ", e.Query)
		}
		fmt.Fprint(w, e.Message)
		if e.Line > 0 {
			fmt.Fprintf(w, " (line %d", e.Line)
			if e.Column > 0 {
				fmt.Fprintf(w, ", col %d", e.Column)
			}
			fmt.Fprint(w, ")")
		}
		if e.Type != "" {
			fmt.Fprintf(w, " [%s]", e.Type)
		}
		fmt.Fprintln(w)
		if e.Context != "" {
			fmt.Fprint(w, e.Context)
		}
		if e.Suggestion != "" {
			fmt.Fprintf(w, "  = suggestion: %s\n", e.Suggestion)
		}
	}
	fmt.Fprintln(w)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
