/*
Package cli provides helpers shared by the logq commands.

Output Formatting:

Commands print results as text, JSON or YAML:

	format, err := cli.ParseFormat(flagValue)
	if err != nil {
		return cli.NewUsageError("parse", err)
	}
	if err := cli.NewFormatter(format).FormatTo(os.Stdout, result); err != nil {
		return err
	}

Exit Codes:

Commands return a *CommandError to choose the exit code; main passes the
returned error through ExitCode.

Progress Reporting:

Linting a directory reports progress on stderr:

	progress := cli.NewProgressReporter(os.Stderr, "lint")
	results, err := loader.LoadDir(ctx, dir, progress.Update)
	progress.Finish()

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
