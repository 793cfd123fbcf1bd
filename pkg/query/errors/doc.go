// Package errors provides the error types for logq query parsing and
// catalog loading.
//
// # Parse Errors
//
// Every malformed expression yields a *ParseError tagged with one Category:
//
// CategoryEmptyExpression: the expression is ""
//
// CategoryMissingLeadingSeparator: a segment does not start with "/" or "//"
//
// CategoryUnknownKeyword: a node name is missing or not one of project,
// target, task, message, warning, error
//
// CategoryOutOfOrderOrDuplicateNode: a segment does not rank strictly above
// the previous one (e.g. "/task/task", "/task/project")
//
// CategoryTrailingContentAfterLeaf: something follows a message, warning or
// error segment
//
// CategoryWildcardOnNonLeaf: "//" before project, target or task
//
// CategoryMalformedConstraintList: unbalanced or nested brackets, missing
// "=", dangling commas
//
// CategoryInvalidConstraintKey: a key other than "id", or an empty key
//
// CategoryInvalidConstraintValue: a quoted, signed or non-numeric value
//
// Inspect the category with CategoryOf or IsCategory; both look through
// wrapped errors:
//
//	if errors.IsCategory(err, errors.CategoryUnknownKeyword) {
//	    ...
//	}
//
// # Catalog Errors
//
// Loading a catalog accumulates *Error values in an *ErrorList instead of
// failing on the first problem. Each Error carries the catalog Location and,
// for query errors, the underlying *ParseError as its Cause:
//
//	errList := errors.NewErrorList()
//	errList.AddError(errors.ErrorTypeStructural, "Missing 'name'", location)
//	if errList.HasErrors() {
//	    return errList.ToError()
//	}
//
// # Error Format
//
//	[query] failing-builds: [UnknownKeyword] unknown node name "tsak"
//	  --> queries.yaml:7:23
//	  |
//	   6 |   - name: failing-builds
//	-> 7 |     expression: "/Project/tsak//Error"
//	     |                           ^
//	   8 |
//	  |
//	  = suggestion: Did you mean 'task'?
package errors
