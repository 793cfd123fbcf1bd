package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	queryErrors "github.com/binlog-hq/logq/pkg/query/errors"
)

// builder turns a decoded document into a Catalog, accumulating every
// problem it finds instead of stopping at the first.
type builder struct {
	source string
	data   []byte
	errors *queryErrors.ErrorList

	valid   int
	invalid int
}

func newBuilder(source string, data []byte) *builder {
	return &builder{
		source: source,
		data:   data,
		errors: queryErrors.NewErrorList(),
	}
}

func (b *builder) at(node *yaml.Node) queryErrors.Location {
	if node == nil {
		return queryErrors.Location{File: b.source}
	}
	return queryErrors.Location{File: b.source, Line: node.Line, Column: node.Column}
}

func (b *builder) structural(node *yaml.Node, message, suggestion string) {
	b.errors.AddErrorWithSuggestion(queryErrors.ErrorTypeStructural, message, b.at(node), suggestion)
}

func (b *builder) queryStructural(name string, node *yaml.Node, message, suggestion string) {
	b.errors.Add(&queryErrors.Error{
		Type:       queryErrors.ErrorTypeStructural,
		Query:      name,
		Message:    message,
		Location:   b.at(node),
		Suggestion: suggestion,
	})
}

// buildCatalog validates raw and parses every expression with l.
func (b *builder) buildCatalog(ctx context.Context, l *Loader, raw *yamlCatalog) *Catalog {
	version := raw.Version
	switch {
	case raw.versionNode == nil || version == "":
		version = CurrentVersion
	case version != CurrentVersion:
		b.structural(raw.versionNode, fmt.Sprintf("unsupported catalog version %q", version),
			fmt.Sprintf("Set 'version: \"%s\"'", CurrentVersion))
	}

	name := raw.Name
	if name == "" {
		name = defaultName(b.source)
	}

	cat := newCatalog(name, version, raw.Description, b.source)

	if raw.node != nil && raw.node.Kind == yaml.MappingNode && len(raw.Queries) == 0 {
		b.structural(raw.node, "catalog defines no queries", "Add at least one entry under 'queries'")
	}

	seen := make(map[string]*yaml.Node, len(raw.Queries))
	for i := range raw.Queries {
		q := &raw.Queries[i]
		before := b.errors.Count()

		parsed, ok := b.buildQuery(ctx, l, q, seen)
		if ok && !q.invalid && b.errors.Count() == before {
			cat.add(&Query{
				Name:        q.Name,
				Description: q.Description,
				Expression:  q.Expression,
				Tags:        q.Tags,
				Root:        parsed.Root,
				Location:    parsed.Location,
			})
			b.valid++
			continue
		}
		b.invalid++
	}

	return cat
}

// buildQuery checks one entry and parses its expression. The returned Query
// only carries Root and Location.
func (b *builder) buildQuery(ctx context.Context, l *Loader, q *yamlQuery, seen map[string]*yaml.Node) (*Query, bool) {
	ok := true

	switch {
	case q.Name == "":
		b.queryStructural("", q.node, "query is missing a name", "Add 'name: <identifier>' to the entry")
		ok = false
	case strings.IndexFunc(q.Name, unicode.IsSpace) >= 0:
		b.queryStructural(q.Name, q.nameNode, fmt.Sprintf("query name %q contains whitespace", q.Name),
			"Use dashes or underscores instead of spaces")
		ok = false
	default:
		if first, dup := seen[q.Name]; dup {
			b.queryStructural(q.Name, q.nameNode, fmt.Sprintf("duplicate query name %q", q.Name),
				fmt.Sprintf("The name is already used at line %d", first.Line))
			ok = false
		} else {
			seen[q.Name] = q.nameNode
		}
	}

	if q.exprNode == nil || q.Expression == "" {
		node := q.exprNode
		if node == nil {
			node = q.node
		}
		b.queryStructural(q.Name, node, "query has an empty expression", "Add 'expression: <path>', e.g. \"//error\"")
		return nil, false
	}

	if err := l.CheckExpression(q.Expression); err != nil {
		b.queryStructural(q.Name, q.exprNode, err.Error(),
			"Split the query or raise query.max_expression_length")
		return nil, false
	}

	loc, shift := expressionLocation(b.source, q.exprNode)

	root, err := l.ParseExpression(ctx, q.Name, q.Expression)
	if err != nil {
		var pe *queryErrors.ParseError
		if !errors.As(err, &pe) {
			b.errors.Add(&queryErrors.Error{
				Type:     queryErrors.ErrorTypeQuery,
				Query:    q.Name,
				Message:  err.Error(),
				Location: loc,
				Cause:    err,
			})
			return nil, false
		}
		if shift {
			b.errors.AddQueryError(q.Name, pe, loc)
		} else {
			b.errors.AddQueryErrorAt(q.Name, pe, loc)
		}
		return nil, false
	}

	return &Query{Root: root, Location: loc}, ok
}

// finish attaches source context to every error and returns the list,
// or nil when there were no problems.
func (b *builder) finish(contextLines int) error {
	for _, e := range b.errors.Errors {
		if e.Location.Line > 0 && e.Context == "" {
			e.Context = queryErrors.ExtractContextFromBytes(b.data, e.Location, contextLines)
		}
	}
	return b.errors.ToError()
}
