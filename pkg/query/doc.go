// Package query is the entry point for logq path queries.
//
// A path query selects nodes of a build log: projects, targets, tasks and
// the messages, warnings and errors they emit.
//
//	/message                          messages directly below the root
//	//error                           errors anywhere in the log
//	/Project[Id=1]/Target//Warning    warnings anywhere below targets of project 1
//	/Task[Id=3, Id=4]                 tasks 3 and 4
//
// Subpackages:
//
//   - ast: the query tree
//   - parser: tokenizer and recursive-descent parser
//   - errors: ParseError and catalog error types
package query
