package errors

import (
	"fmt"
	"strings"
)

// ErrorType categorizes problems found while loading a query catalog.
type ErrorType string

const (
	ErrorTypeSyntax     ErrorType = "syntax"     // YAML syntax error
	ErrorTypeStructural ErrorType = "structural" // Missing/duplicate/invalid catalog fields
	ErrorTypeQuery      ErrorType = "query"      // Query expression failed to parse
	ErrorTypeIO         ErrorType = "io"         // File I/O error
)

// Error represents a catalog error with location, context, and suggestions.
type Error struct {
	Type       ErrorType // Category of error
	Query      string    // Name of the catalog query, if any
	Message    string    // Error message
	Location   Location  // Source location (file, line, column)
	Context    string    // Surrounding lines of the catalog file
	Suggestion string    // Suggested fix (optional)
	Cause      error     // Underlying error, e.g. a *ParseError
}

// Error implements the error interface.
// It returns a formatted error message with location and context.
func (e *Error) Error() string {
	var sb strings.Builder

	// Error type and message
	if e.Query != "" {
		sb.WriteString(fmt.Sprintf("[%s] %s: %s\n", e.Type, e.Query, e.Message))
	} else {
		sb.WriteString(fmt.Sprintf("[%s] %s\n", e.Type, e.Message))
	}

	// Location
	if e.Location.File != "" {
		sb.WriteString(fmt.Sprintf("  --> %s\n", e.Location.String()))
	}

	// Context (surrounding lines)
	if e.Context != "" {
		sb.WriteString("  |\n")
		sb.WriteString(e.Context)
		sb.WriteString("  |\n")
	}

	// Suggestion
	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  = suggestion: %s\n", e.Suggestion))
	}

	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Category returns the parse error category for query errors, or "".
func (e *Error) Category() Category {
	return CategoryOf(e.Cause)
}

// ErrorList represents a collection of errors encountered while loading a catalog.
// It allows accumulating multiple errors instead of failing on the first error.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*Error, 0),
	}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddError creates and adds a new error with the given parameters.
func (el *ErrorList) AddError(errType ErrorType, message string, location Location) {
	el.Add(&Error{
		Type:     errType,
		Message:  message,
		Location: location,
	})
}

// AddErrorWithSuggestion creates and adds a new error with a suggestion.
func (el *ErrorList) AddErrorWithSuggestion(errType ErrorType, message string, location Location, suggestion string) {
	el.Add(&Error{
		Type:       errType,
		Message:    message,
		Location:   location,
		Suggestion: suggestion,
	})
}

// AddQueryError records a parse failure of the named catalog query.
// The location is shifted to the column of the offending token when the
// expression sits on a single line.
func (el *ErrorList) AddQueryError(name string, pe *ParseError, location Location) {
	if location.Column > 0 {
		location.Column += pe.Offset
	}
	el.AddQueryErrorAt(name, pe, location)
}

// AddQueryErrorAt records a parse failure of the named catalog query at
// location as given. Block scalars use it since their offsets do not map
// onto a single source column.
func (el *ErrorList) AddQueryErrorAt(name string, pe *ParseError, location Location) {
	el.Add(&Error{
		Type:       ErrorTypeQuery,
		Query:      name,
		Message:    fmt.Sprintf("[%s] %s", pe.Category, pe.Message),
		Location:   location,
		Suggestion: pe.Suggestion,
		Cause:      pe,
	})
}

// HasErrors returns true if the error list contains any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Count returns the number of errors in the list.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Error implements the error interface.
// It returns all errors formatted as a single string.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d error(s):\n\n", el.Count()))

	for i, err := range el.Errors {
		sb.WriteString(fmt.Sprintf("Error %d:\n", i+1))
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// ToError returns nil if the error list is empty, otherwise returns the error list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// ByType returns all errors of the given type.
func (el *ErrorList) ByType(errType ErrorType) []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.Type == errType {
			result = append(result, err)
		}
	}
	return result
}

// HasErrorType returns true if the error list contains at least one error of the given type.
func (el *ErrorList) HasErrorType(errType ErrorType) bool {
	for _, err := range el.Errors {
		if err.Type == errType {
			return true
		}
	}
	return false
}
