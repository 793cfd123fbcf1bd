package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/binlog-hq/logq/pkg/catalog"
	"github.com/binlog-hq/logq/pkg/cli"
)

var showFlags struct {
	file   string
	dir    string
	format string
}

var showCmd = &cobra.Command{
	Use:   "show [NAME...]",
	Short: "Show named queries from catalogs",
	Long: `Load catalogs and print the parsed tree of each named query.

With no names, every query of every catalog is listed. When the same name is
defined in several catalogs of a directory, the catalog whose path sorts
first wins. Catalogs that fail validation are reported and skipped.

Examples:
  logq show --file queries.yaml failed-tasks
  logq show --dir catalogs/ --format yaml`,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVarP(&showFlags.file, "file", "f", "", "catalog file")
	showCmd.Flags().StringVarP(&showFlags.dir, "dir", "d", "", "directory of catalog files")
	showCmd.Flags().StringVar(&showFlags.format, "format", "text", "output format: text, json, yaml")
}

func runShow(cmd *cobra.Command, args []string) error {
	if showFlags.file != "" && showFlags.dir != "" {
		return cli.NewUsageError("show", fmt.Errorf("--file and --dir are mutually exclusive"))
	}
	format, err := cli.ParseFormat(showFlags.format)
	if err != nil {
		return cli.NewUsageError("show", err)
	}

	a := currentApp()
	opts := catalog.OptionsFromConfig(a.cfg)
	opts.Tracer = a.tracer
	opts.Logger = a.logger
	loader := catalog.NewLoader(opts)
	ctx := cmd.Context()

	var results []catalog.Result
	if showFlags.dir != "" {
		results, err = loader.LoadDir(ctx, showFlags.dir, nil)
		if err != nil {
			fmt.Fprint(cmd.ErrOrStderr(), err)
			return cli.NewCommandError("show", errors.New("cannot read catalog directory"))
		}
	} else {
		path := showFlags.file
		if path == "" {
			path = a.cfg.Catalog.Path
		}
		cat, err := loader.Load(ctx, path)
		results = append(results, catalog.Result{Source: path, Catalog: cat, Err: err})
	}

	var loaded []*catalog.Catalog
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s:\n%v\n", r.Source, r.Err)
			continue
		}
		loaded = append(loaded, r.Catalog)
	}

	registry := catalog.NewRegistry()
	if err := registry.ReplaceAll(loaded); err != nil {
		return cli.NewCommandError("show", err)
	}

	views, missing := collectViews(registry, args)
	if len(views) > 0 {
		if err := writeViews(cmd, format, views); err != nil {
			return cli.NewCommandError("show", err)
		}
	}

	if len(missing) > 0 {
		return cli.NewCommandError("show", fmt.Errorf("unknown quer%s: %s",
			plural(len(missing), "y", "ies"), strings.Join(missing, ", ")))
	}
	if len(loaded) < len(results) {
		return cli.NewCommandError("show", fmt.Errorf("%d catalog(s) failed validation", len(results)-len(loaded)))
	}
	return nil
}

// collectViews resolves names in registry. Without names it returns every
// query in source order.
func collectViews(registry *catalog.Registry, names []string) (views []pathView, missing []string) {
	if len(names) == 0 {
		for _, cat := range registry.Catalogs() {
			for _, q := range cat.Queries {
				views = append(views, queryView(q, cat))
			}
		}
		return views, nil
	}

	for _, name := range names {
		q, cat, ok := registry.Lookup(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		views = append(views, queryView(q, cat))
	}
	return views, missing
}

func queryView(q *catalog.Query, cat *catalog.Catalog) pathView {
	v := newPathView(q.Expression, q.Root)
	v.Name = q.Name
	v.Source = cat.Source
	return v
}
