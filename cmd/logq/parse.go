package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/binlog-hq/logq/pkg/catalog"
	"github.com/binlog-hq/logq/pkg/cli"
)

var parseFlags struct {
	format string
}

var parseCmd = &cobra.Command{
	Use:   "parse [EXPR...]",
	Short: "Parse query expressions and print their trees",
	Long: `Parse one or more query expressions and print the resulting trees.

With no arguments, expressions are read from standard input, one per line.
Blank lines and lines starting with '#' are skipped.

Parsing stops at the first malformed expression: the trees parsed so far are
printed, followed by a diagnostic pointing at the offending character.

Examples:
  logq parse '/Project/Target[Id=2]//error'
  logq parse --format json '//warning' '/Task[Id=7]/message'
  grep -v '^$' queries.txt | logq parse`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseFlags.format, "format", "text", "output format (text, json, yaml)")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(parseFlags.format)
	if err != nil {
		return cli.NewUsageError("parse", err)
	}

	expressions := args
	if len(expressions) == 0 {
		expressions, err = readExpressions(cmd)
		if err != nil {
			return cli.NewCommandError("parse", err)
		}
		if len(expressions) == 0 {
			return cli.NewUsageError("parse", fmt.Errorf("no expressions given"))
		}
	}

	a := currentApp()
	ctx := cmd.Context()
	opts := catalog.OptionsFromConfig(a.cfg)
	opts.Tracer = a.tracer
	opts.Logger = a.logger
	loader := catalog.NewLoader(opts)

	views := make([]pathView, 0, len(expressions))
	var failure error
	failed := 0
	for i, expr := range expressions {
		if err := loader.CheckExpression(expr); err != nil {
			failure, failed = err, i
			break
		}
		root, err := loader.ParseExpression(ctx, "", expr)
		if err != nil {
			failure, failed = err, i
			break
		}
		views = append(views, newPathView(expr, root))
	}

	if len(views) > 0 {
		if err := writeViews(cmd, format, views); err != nil {
			return cli.NewCommandError("parse", err)
		}
	}

	if failure != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "expression %d:\n%v\n", failed+1, failure)
		return cli.NewCommandError("parse", fmt.Errorf("expression %d is malformed", failed+1))
	}
	return nil
}

// writeViews prints views in format. A single tree is printed on its own
// rather than as a one-element list.
func writeViews(cmd *cobra.Command, format cli.OutputFormat, views []pathView) error {
	out := cmd.OutOrStdout()
	formatter := cli.NewFormatter(format)

	if format == cli.FormatText {
		for i, v := range views {
			if i > 0 {
				fmt.Fprintln(out)
			}
			if err := formatter.FormatTo(out, v); err != nil {
				return err
			}
		}
		return nil
	}

	if len(views) == 1 {
		return formatter.FormatTo(out, views[0])
	}
	return formatter.FormatTo(out, views)
}

func readExpressions(cmd *cobra.Command) ([]string, error) {
	var expressions []string
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		expressions = append(expressions, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expressions: %w", err)
	}
	return expressions, nil
}
