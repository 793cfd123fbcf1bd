package parser

import (
	"github.com/binlog-hq/logq/pkg/query/ast"
	queryErrors "github.com/binlog-hq/logq/pkg/query/errors"
)

// Parser parses path query expressions into ASTs.
// A Parser is safe for concurrent use once configured.
type Parser struct {
	// Configuration
	maxConstraints int // Maximum constraints per list (0: unlimited)
}

// NewParser creates a new parser with default configuration.
func NewParser() *Parser {
	return &Parser{
		maxConstraints: 0,
	}
}

// WithMaxConstraints limits the number of constraints in one bracket list.
// Zero or a negative value removes the limit.
func (p *Parser) WithMaxConstraints(n int) *Parser {
	if n < 0 {
		n = 0
	}
	p.maxConstraints = n
	return p
}

// MaxConstraints returns the configured constraint limit (0: unlimited).
func (p *Parser) MaxConstraints() int {
	return p.maxConstraints
}

var defaultParser = NewParser()

// Parse parses expression with the default configuration.
func Parse(expression string) (ast.Node, error) {
	return defaultParser.Parse(expression)
}

// Parse parses expression and returns the root of the query tree.
// On failure it returns a *errors.ParseError and no tree.
func (p *Parser) Parse(expression string) (ast.Node, error) {
	if expression == "" {
		return nil, queryErrors.NewParseError(queryErrors.CategoryEmptyExpression,
			expression, 0, "query expression is empty").
			WithSuggestion("Start with a separator, e.g. \"//error\"")
	}

	s := &state{
		expression:     expression,
		tokens:         NewLexer(expression).Tokenize(),
		maxConstraints: p.maxConstraints,
	}

	if tok := s.current(); !tok.isSeparator() {
		return nil, queryErrors.NewParseError(queryErrors.CategoryMissingLeadingSeparator,
			expression, tok.Offset, "query must start with '/' or '//', found %s", tok.describe()).
			WithSuggestion("Prefix the expression with '/'")
	}

	root, err := s.parsePath("")
	if err != nil {
		return nil, err
	}
	return root, nil
}

// state holds the token stream of a single Parse call.
type state struct {
	expression     string
	tokens         []Token
	pos            int
	maxConstraints int
}

// current returns the token under the cursor. The stream always ends with
// TokenEOF, and the cursor never moves past it.
func (s *state) current() Token {
	return s.tokens[s.pos]
}

// next returns the current token and advances the cursor.
func (s *state) next() Token {
	tok := s.tokens[s.pos]
	if tok.Type != TokenEOF {
		s.pos++
	}
	return tok
}

func (s *state) fail(category queryErrors.Category, tok Token, format string, args ...any) *queryErrors.ParseError {
	return queryErrors.NewParseError(category, s.expression, tok.Offset, format, args...)
}

// parsePath consumes one separator and one segment, then recurses for the
// rest of the path. parent is the kind of the enclosing segment ("" at the
// root). Recursion depth is bounded by the four ranks.
func (s *state) parsePath(parent ast.Kind) (ast.Node, error) {
	sep := s.next()
	axis := ast.AxisDirect
	if sep.Type == TokenDoubleSlash {
		axis = ast.AxisAll
	}

	seg, err := s.parseSegment(sep, axis, parent)
	if err != nil {
		return nil, err
	}

	if seg.kind.IsLeaf() {
		if tok := s.current(); tok.Type != TokenEOF {
			if tok.Type == TokenLBracket {
				return nil, s.fail(queryErrors.CategoryTrailingContentAfterLeaf, tok,
					"constraints are not permitted on leaf node %q", seg.kind)
			}
			return nil, s.fail(queryErrors.CategoryTrailingContentAfterLeaf, tok,
				"unexpected %s after terminal node %q", tok.describe(), seg.kind)
		}
		return ast.NewLeaf(seg.kind, axis), nil
	}

	var child ast.Node
	switch tok := s.current(); tok.Type {
	case TokenEOF:
		// A structural segment may end the path; its child stays absent
	case TokenSlash, TokenDoubleSlash:
		if child, err = s.parsePath(seg.kind); err != nil {
			return nil, err
		}
	case TokenRBracket:
		return nil, s.fail(queryErrors.CategoryMalformedConstraintList, tok,
			"unmatched ']' after %q", seg.kind)
	default:
		return nil, s.fail(queryErrors.CategoryMissingLeadingSeparator, tok,
			"expected '/' or '//' after %q, found %s", seg.kind, tok.describe())
	}

	return ast.NewStructural(seg.kind, child, seg.constraints), nil
}
