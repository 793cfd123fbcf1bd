package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanCatalogLoad = "catalog.load"
	SpanQueryParse  = "query.parse"
)

// CommandSpanName returns the root span name for a CLI command.
func CommandSpanName(command string) string {
	return "cli." + command
}

// Attribute keys. Custom keys use the "logq.*" namespace.
const (
	AttrCommand = "logq.command"

	AttrQueryName       = "logq.query.name"
	AttrQueryExpression = "logq.query.expression"
	AttrPathDepth       = "logq.path.depth"

	AttrParseCategory = "logq.parse.category"
	AttrParseOffset   = "logq.parse.offset"

	AttrCatalogPath    = "logq.catalog.path"
	AttrCatalogValid   = "logq.catalog.queries.valid"
	AttrCatalogInvalid = "logq.catalog.queries.invalid"

	AttrErrorMessage = "error.message"
)

// SetQueryAttributes sets the name and expression of the query being parsed.
// An empty name (for an ad-hoc expression) is omitted.
//
// Example:
//
//	SetQueryAttributes(span, "failed-tasks", "//Task/Error")
func SetQueryAttributes(span trace.Span, name, expression string) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrQueryExpression, expression),
	}
	if name != "" {
		attrs = append(attrs, attribute.String(AttrQueryName, name))
	}
	span.SetAttributes(attrs...)
}

// SetParseSuccess records the depth of a successfully parsed path.
func SetParseSuccess(span trace.Span, depth int) {
	span.SetAttributes(attribute.Int(AttrPathDepth, depth))
}

// SetParseFailure records the category and byte offset of a parse error.
func SetParseFailure(span trace.Span, category string, offset int) {
	span.SetAttributes(
		attribute.String(AttrParseCategory, category),
		attribute.Int(AttrParseOffset, offset),
	)
}

// SetCatalogAttributes records the outcome of a catalog load.
func SetCatalogAttributes(span trace.Span, path string, valid, invalid int) {
	span.SetAttributes(
		attribute.String(AttrCatalogPath, path),
		attribute.Int(AttrCatalogValid, valid),
		attribute.Int(AttrCatalogInvalid, invalid),
	)
}

// AddEvent adds a named event to the span.
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
