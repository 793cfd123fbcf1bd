package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Category names the grammar rule a query expression violated.
type Category string

const (
	CategoryEmptyExpression           Category = "EmptyExpression"
	CategoryMissingLeadingSeparator   Category = "MissingLeadingSeparator"
	CategoryUnknownKeyword            Category = "UnknownKeyword"
	CategoryOutOfOrderOrDuplicateNode Category = "OutOfOrderOrDuplicateNode"
	CategoryTrailingContentAfterLeaf  Category = "TrailingContentAfterLeaf"
	CategoryWildcardOnNonLeaf         Category = "WildcardOnNonLeaf"
	CategoryMalformedConstraintList   Category = "MalformedConstraintList"
	CategoryInvalidConstraintKey      Category = "InvalidConstraintKey"
	CategoryInvalidConstraintValue    Category = "InvalidConstraintValue"
)

// Categories lists every parse error category.
var Categories = []Category{
	CategoryEmptyExpression,
	CategoryMissingLeadingSeparator,
	CategoryUnknownKeyword,
	CategoryOutOfOrderOrDuplicateNode,
	CategoryTrailingContentAfterLeaf,
	CategoryWildcardOnNonLeaf,
	CategoryMalformedConstraintList,
	CategoryInvalidConstraintKey,
	CategoryInvalidConstraintValue,
}

// ParseError is returned for every malformed query expression.
// Parsing is all-or-nothing: when a ParseError is returned no tree is.
type ParseError struct {
	Category   Category // Violated rule
	Expression string   // Original expression text
	Offset     int      // Byte offset of the offending token
	Message    string   // Human-readable description
	Suggestion string   // Suggested fix (optional)
}

// Error implements the error interface.
// It returns the category, the message, the expression with a caret under
// the offending position, and the suggestion if any.
func (e *ParseError) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s", e.Category, e.Message))

	if e.Expression != "" {
		sb.WriteString("\n")
		sb.WriteString(Caret(e.Expression, e.Offset))
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\n  = suggestion: %s", e.Suggestion))
	}

	return sb.String()
}

// Is reports whether target is a ParseError of the same category.
// This lets callers write errors.Is(err, &ParseError{Category: c}).
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return t.Category == e.Category
}

// NewParseError creates a ParseError for expression at offset.
func NewParseError(category Category, expression string, offset int, format string, args ...any) *ParseError {
	return &ParseError{
		Category:   category,
		Expression: expression,
		Offset:     offset,
		Message:    fmt.Sprintf(format, args...),
	}
}

// WithSuggestion sets the suggestion and returns the error.
func (e *ParseError) WithSuggestion(suggestion string) *ParseError {
	e.Suggestion = suggestion
	return e
}

// CategoryOf returns the category of the first ParseError in err's chain,
// or "" if there is none.
func CategoryOf(err error) Category {
	var pe *ParseError
	if stderrors.As(err, &pe) {
		return pe.Category
	}
	return ""
}

// IsCategory returns true if err wraps a ParseError of the given category.
func IsCategory(err error, category Category) bool {
	return CategoryOf(err) == category
}
