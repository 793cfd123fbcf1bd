package errors

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// ExtractContext reads the catalog file and extracts the surrounding lines
// around the given location for error context display.
// It returns a formatted string showing the error location with line numbers.
func ExtractContext(location Location, contextLines int) string {
	if !location.IsValid() {
		return ""
	}

	file, err := os.Open(location.File)
	if err != nil {
		// File not accessible, return empty context
		return ""
	}
	defer file.Close()

	lines, err := readLines(file)
	if err != nil {
		return ""
	}
	return formatContext(lines, location, contextLines)
}

// ExtractContextFromBytes is like ExtractContext but reads the catalog
// source from memory. It is used for catalogs loaded with LoadBytes.
func ExtractContextFromBytes(data []byte, location Location, contextLines int) string {
	if location.Line <= 0 {
		return ""
	}
	lines, err := readLines(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return formatContext(lines, location, contextLines)
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	lines := make([]string, 0)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func formatContext(lines []string, location Location, contextLines int) string {
	// Calculate context range
	errorLine := location.Line - 1 // Convert to 0-based index
	if errorLine >= len(lines) {
		return ""
	}
	startLine := errorLine - contextLines
	endLine := errorLine + contextLines

	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(lines) {
		endLine = len(lines) - 1
	}

	// Build context string
	var sb strings.Builder
	maxLineNumWidth := len(fmt.Sprintf("%d", endLine+1))

	for i := startLine; i <= endLine; i++ {
		lineNumStr := fmt.Sprintf("%*d", maxLineNumWidth, i+1)
		prefix := "  "
		if i == errorLine {
			prefix = "->"
		}

		sb.WriteString(fmt.Sprintf("%s %s | %s\n", prefix, lineNumStr, lines[i]))

		// Add column indicator for error line
		if i == errorLine && location.Column > 0 {
			padding := strings.Repeat(" ", location.Column-1)
			sb.WriteString(fmt.Sprintf("   %s | %s^\n", strings.Repeat(" ", maxLineNumWidth), padding))
		}
	}

	return sb.String()
}

// WithContext fills err.Context from the catalog file on disk.
func WithContext(err *Error, contextLines int) *Error {
	if err.Location.IsValid() {
		err.Context = ExtractContext(err.Location, contextLines)
	}
	return err
}

// AddContextToError adds context to an error by reading the source file.
// This is typically called after creating an error to enrich it with source context.
func AddContextToError(err *Error) *Error {
	return WithContext(err, 2) // Show 2 lines before and after by default
}

// Caret renders expression on one line and a caret under byte offset on
// the next, both indented for display under an error message.
func Caret(expression string, offset int) string {
	if offset < 0 {
		offset = 0
	}
	if offset > len(expression) {
		offset = len(expression)
	}
	return fmt.Sprintf("  | %s\n  | %s^", expression, strings.Repeat(" ", offset))
}
