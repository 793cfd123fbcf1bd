// Package catalog loads named query expressions from YAML files.
//
// A catalog file looks like:
//
//	version: "1"
//	name: ci-diagnostics
//	queries:
//	  - name: all-errors
//	    description: every error anywhere in the log
//	    expression: "//error"
//	  - name: task-warnings
//	    expression: /Project/Target/Task[Id=3]/warning
//
// Loading is all-or-nothing per file. Every problem in the file is collected
// into an *errors.ErrorList before returning, with a file:line:column
// location, a few lines of surrounding source, and the parse error category
// for expressions that do not parse. For single-line expressions the
// column points at the offending token rather than the start of the value.
//
// A Registry holds the catalogs currently in use and a Watcher keeps it in
// sync with the files on disk.
package catalog
