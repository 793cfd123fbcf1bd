// logq parses and lints path queries over build logs.
//
// A query selects nodes of a build log: projects, targets, tasks and the
// messages, warnings and errors they emit. Queries are written as paths:
//
//	/Project/Target/Task[Id=3]/error   errors directly under task 3
//	/Project//warning                  warnings anywhere in a project
//	//message                          every message
//
// Usage:
//
//	# Parse expressions and print their trees
//	logq parse '/Project//error' '/Task[Id=1,Id=2]/message'
//
//	# Lint a catalog of named queries
//	logq lint --file queries.yaml
//
//	# Lint a directory of catalogs as JSON for CI
//	logq lint --dir catalogs/ --format json
//
//	# Re-lint on every change and serve /metrics, /healthz and /readyz
//	logq watch --file queries.yaml
//
//	# Show named queries from a catalog
//	logq show --file queries.yaml all-errors
package main

import "os"

func main() {
	os.Exit(Execute())
}
