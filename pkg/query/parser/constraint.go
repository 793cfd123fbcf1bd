package parser

import (
	"strconv"
	"strings"

	"github.com/binlog-hq/logq/pkg/query/ast"
	queryErrors "github.com/binlog-hq/logq/pkg/query/errors"
)

// parseConstraints consumes '[' (Constraint (',' Constraint)*)? ']'.
// The list is parsed in a loop so long lists cannot grow the stack.
func (s *state) parseConstraints() ([]ast.Constraint, error) {
	open := s.next() // '['

	var constraints []ast.Constraint
	if s.current().Type == TokenRBracket {
		s.next()
		return constraints, nil
	}

	for {
		c, err := s.parseConstraint(open)
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, c)

		if s.maxConstraints > 0 && len(constraints) > s.maxConstraints {
			return nil, s.fail(queryErrors.CategoryMalformedConstraintList, open,
				"constraint list exceeds %d entries", s.maxConstraints)
		}

		switch tok := s.current(); tok.Type {
		case TokenRBracket:
			s.next()
			return constraints, nil
		case TokenComma:
			s.next()
			switch after := s.current(); after.Type {
			case TokenRBracket:
				return nil, s.fail(queryErrors.CategoryMalformedConstraintList, tok,
					"trailing ',' in constraint list")
			case TokenComma:
				return nil, s.fail(queryErrors.CategoryMalformedConstraintList, after,
					"empty constraint between ','")
			}
		case TokenEOF:
			return nil, s.unterminated(open)
		case TokenLBracket:
			return nil, s.fail(queryErrors.CategoryMalformedConstraintList, tok,
				"nested '[' in constraint list")
		default:
			return nil, s.fail(queryErrors.CategoryMalformedConstraintList, tok,
				"expected ',' or ']' in constraint list, found %s", tok.describe())
		}
	}
}

// parseConstraint consumes Key '=' Integer. The key must be "id" in any case.
func (s *state) parseConstraint(open Token) (ast.Constraint, error) {
	key := s.current()
	switch key.Type {
	case TokenKeyword:
		if !strings.EqualFold(key.Literal, "id") {
			return nil, s.fail(queryErrors.CategoryInvalidConstraintKey, key,
				"unknown constraint key %q", key.Literal).
				WithSuggestion(queryErrors.SuggestConstraintKey(key.Literal))
		}
	case TokenEquals:
		return nil, s.fail(queryErrors.CategoryInvalidConstraintKey, key,
			"missing constraint key before '='").
			WithSuggestion(queryErrors.SuggestConstraintKey(""))
	case TokenInteger, TokenInvalid, TokenString:
		return nil, s.fail(queryErrors.CategoryInvalidConstraintKey, key,
			"invalid constraint key %s", key.describe()).
			WithSuggestion(queryErrors.SuggestConstraintKey(key.Literal))
	case TokenComma:
		return nil, s.fail(queryErrors.CategoryMalformedConstraintList, key,
			"empty constraint before ','")
	case TokenLBracket:
		return nil, s.fail(queryErrors.CategoryMalformedConstraintList, key,
			"nested '[' in constraint list")
	case TokenEOF:
		return nil, s.unterminated(open)
	default:
		return nil, s.fail(queryErrors.CategoryMalformedConstraintList, key,
			"unexpected %s in constraint list", key.describe())
	}
	s.next()

	switch eq := s.current(); eq.Type {
	case TokenEquals:
		s.next()
	case TokenEOF:
		return nil, s.unterminated(open)
	case TokenLBracket:
		return nil, s.fail(queryErrors.CategoryMalformedConstraintList, eq,
			"nested '[' in constraint list")
	default:
		return nil, s.fail(queryErrors.CategoryMalformedConstraintList, eq,
			"expected '=' after %q, found %s", key.Literal, eq.describe()).
			WithSuggestion(queryErrors.SuggestConstraintKey(""))
	}

	val := s.current()
	switch val.Type {
	case TokenInteger:
		// "1.5" or "1-2" lex as an integer glued to junk; reject the whole value
		if after := s.tokens[s.pos+1]; after.Type == TokenInvalid && after.Offset == val.Offset+len(val.Literal) {
			return nil, s.fail(queryErrors.CategoryInvalidConstraintValue, val,
				"Id value must be a non-negative integer, found %q", val.Literal+after.Literal)
		}
		v, err := strconv.ParseUint(val.Literal, 10, 64)
		if err != nil {
			return nil, s.fail(queryErrors.CategoryInvalidConstraintValue, val,
				"Id value %s is out of range", val.Literal)
		}
		s.next()
		return ast.ID(v), nil
	case TokenString:
		return nil, s.fail(queryErrors.CategoryInvalidConstraintValue, val,
			"Id value must be an unquoted integer, found %s", val.describe()).
			WithSuggestion("Remove the quotes, e.g. Id=" + strings.Trim(val.Literal, `"'`))
	case TokenEOF:
		return nil, s.unterminated(open)
	case TokenLBracket:
		return nil, s.fail(queryErrors.CategoryMalformedConstraintList, val,
			"nested '[' in constraint list")
	case TokenComma, TokenRBracket:
		return nil, s.fail(queryErrors.CategoryInvalidConstraintValue, val,
			"missing value after '='")
	default:
		return nil, s.fail(queryErrors.CategoryInvalidConstraintValue, val,
			"Id value must be a non-negative integer, found %s", val.describe())
	}
}

// unterminated reports a '[' with no matching ']'.
func (s *state) unterminated(open Token) *queryErrors.ParseError {
	return s.fail(queryErrors.CategoryMalformedConstraintList, open,
		"unmatched '[': constraint list is not closed").
		WithSuggestion("Add ']' to close the constraint list")
}
