package parser

import (
	"github.com/binlog-hq/logq/pkg/query/ast"
	queryErrors "github.com/binlog-hq/logq/pkg/query/errors"
)

// segment is one parsed "<axis><keyword>[constraints]" unit.
type segment struct {
	kind        ast.Kind
	constraints []ast.Constraint
}

// keywordNames is the suggestion vocabulary for unknown node names.
var keywordNames = func() []string {
	names := make([]string, len(ast.Kinds))
	for i, k := range ast.Kinds {
		names[i] = k.String()
	}
	return names
}()

// parseSegment consumes a keyword and, for structural keywords, an optional
// constraint list. sep is the separator token that introduced the segment.
func (s *state) parseSegment(sep Token, axis ast.Axis, parent ast.Kind) (segment, error) {
	tok := s.current()
	switch tok.Type {
	case TokenKeyword:
	case TokenEOF:
		return segment{}, s.fail(queryErrors.CategoryUnknownKeyword, tok,
			"expected node name after %s", sep.Type).
			WithSuggestion(queryErrors.SuggestKeyword("", keywordNames))
	case TokenInvalid:
		return segment{}, s.fail(queryErrors.CategoryUnknownKeyword, tok,
			"unknown node name %s", tok.describe()).
			WithSuggestion(queryErrors.SuggestKeyword(tok.Literal, keywordNames))
	default:
		return segment{}, s.fail(queryErrors.CategoryUnknownKeyword, tok,
			"expected node name after %s, found %s", sep.Type, tok.describe()).
			WithSuggestion(queryErrors.SuggestKeyword("", keywordNames))
	}

	kind, ok := ast.KindFromKeyword(tok.Literal)
	if !ok {
		return segment{}, s.fail(queryErrors.CategoryUnknownKeyword, tok,
			"unknown node name %q", tok.Literal).
			WithSuggestion(queryErrors.SuggestKeyword(tok.Literal, keywordNames))
	}
	s.next()

	if axis == ast.AxisAll && !kind.IsLeaf() {
		return segment{}, s.fail(queryErrors.CategoryWildcardOnNonLeaf, sep,
			"'//' is only valid before message, warning or error, not %q", kind).
			WithSuggestion("Use '/' before " + kind.String())
	}

	if kind.Rank() <= parent.Rank() {
		if kind == parent {
			return segment{}, s.fail(queryErrors.CategoryOutOfOrderOrDuplicateNode, tok,
				"duplicate %q segment", kind)
		}
		return segment{}, s.fail(queryErrors.CategoryOutOfOrderOrDuplicateNode, tok,
			"%q cannot appear below %q", kind, parent).
			WithSuggestion("Order segments as project, target, task, then message, warning or error")
	}

	seg := segment{kind: kind}
	if kind.IsStructural() && s.current().Type == TokenLBracket {
		constraints, err := s.parseConstraints()
		if err != nil {
			return segment{}, err
		}
		seg.constraints = constraints
	}
	return seg, nil
}
