package query

import (
	"fmt"

	"github.com/binlog-hq/logq/pkg/query/ast"
	"github.com/binlog-hq/logq/pkg/query/parser"
)

// Parse is a convenience function that parses an expression with the
// default parser configuration.
func Parse(expression string) (ast.Node, error) {
	return parser.Parse(expression)
}

// MustParse parses expression and panics if it is malformed.
// Use it for expressions known at compile time.
func MustParse(expression string) ast.Node {
	root, err := parser.Parse(expression)
	if err != nil {
		panic(fmt.Sprintf("query: MustParse(%q): %v", expression, err))
	}
	return root
}

// ParseAll parses every expression with p (the default parser if p is nil)
// and returns the trees in input order. It stops at the first malformed
// expression and wraps its error with the expression index.
func ParseAll(p *parser.Parser, expressions []string) ([]ast.Node, error) {
	if p == nil {
		p = parser.NewParser()
	}

	roots := make([]ast.Node, 0, len(expressions))
	for i, expr := range expressions {
		root, err := p.Parse(expr)
		if err != nil {
			return nil, fmt.Errorf("expression %d: %w", i, err)
		}
		roots = append(roots, root)
	}
	return roots, nil
}
