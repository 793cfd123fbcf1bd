package parser

import (
	"fmt"
	"unicode/utf8"
)

// TokenType identifies the lexical class of a token.
type TokenType int

const (
	TokenEOF         TokenType = iota
	TokenSlash                 // "/"
	TokenDoubleSlash           // "//"
	TokenKeyword               // run of letters
	TokenInteger               // run of decimal digits
	TokenString                // quoted text, never valid in a query
	TokenLBracket              // "["
	TokenRBracket              // "]"
	TokenComma                 // ","
	TokenEquals                // "="
	TokenInvalid               // anything else
)

// String returns a readable name for the token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of input"
	case TokenSlash:
		return "'/'"
	case TokenDoubleSlash:
		return "'//'"
	case TokenKeyword:
		return "keyword"
	case TokenInteger:
		return "integer"
	case TokenString:
		return "quoted string"
	case TokenLBracket:
		return "'['"
	case TokenRBracket:
		return "']'"
	case TokenComma:
		return "','"
	case TokenEquals:
		return "'='"
	default:
		return "invalid token"
	}
}

// Token is a lexical unit of a query expression.
type Token struct {
	Type    TokenType
	Literal string // Source text of the token, case preserved
	Offset  int    // Byte offset in the expression
}

// describe renders the token for error messages.
func (t Token) describe() string {
	switch t.Type {
	case TokenKeyword, TokenInteger, TokenInvalid:
		return fmt.Sprintf("%q", t.Literal)
	case TokenString:
		return fmt.Sprintf("quoted string %s", t.Literal)
	default:
		return t.Type.String()
	}
}

// isSeparator returns true for "/" and "//".
func (t Token) isSeparator() bool {
	return t.Type == TokenSlash || t.Type == TokenDoubleSlash
}

// Lexer scans a query expression and produces tokens.
// Spaces and tabs are insignificant inside brackets only.
type Lexer struct {
	input    string // the entire input to tokenize
	position int    // current reading position in input
	depth    int    // bracket nesting depth
	tokens   []Token
}

// NewLexer returns a new Lexer with the given input and initializes state.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		tokens: make([]Token, 0, len(input)/2+1),
	}
}

// Tokenize processes the entire input and produces the list of tokens.
// The list always ends with a TokenEOF. Lexical errors are reported as
// TokenInvalid or TokenString tokens and rejected by the parser, which
// knows which grammar rule they break.
func (l *Lexer) Tokenize() []Token {
	for l.position < len(l.input) {
		start := l.position
		switch c := l.input[l.position]; {
		case c == '/':
			// "//" is one token; never read it as two slashes
			if l.position+1 < len(l.input) && l.input[l.position+1] == '/' {
				l.addToken(TokenDoubleSlash, "//", start)
				l.position += 2
			} else {
				l.addToken(TokenSlash, "/", start)
				l.position++
			}

		case c == '[':
			l.depth++
			l.addToken(TokenLBracket, "[", start)
			l.position++

		case c == ']':
			if l.depth > 0 {
				l.depth--
			}
			l.addToken(TokenRBracket, "]", start)
			l.position++

		case c == ',':
			l.addToken(TokenComma, ",", start)
			l.position++

		case c == '=':
			l.addToken(TokenEquals, "=", start)
			l.position++

		case c == '"' || c == '\'':
			l.lexString(c)

		case (c == ' ' || c == '\t') && l.depth > 0:
			l.position++

		case isWordChar(c):
			l.lexWord()

		default:
			// Consume a whole rune so multi-byte characters produce one token
			_, size := utf8.DecodeRuneInString(l.input[l.position:])
			l.addToken(TokenInvalid, l.input[start:start+size], start)
			l.position += size
		}
	}

	// At the end, add an EOF token to indicate we're done.
	l.addToken(TokenEOF, "", l.position)
	return l.tokens
}

// lexWord scans a maximal run of letters, digits and underscores.
// All letters make a keyword, all digits an integer; a mix is invalid.
func (l *Lexer) lexWord() {
	start := l.position
	letters, digits := 0, 0
	for l.position < len(l.input) && isWordChar(l.input[l.position]) {
		switch c := l.input[l.position]; {
		case isLetter(c):
			letters++
		case isDigit(c):
			digits++
		}
		l.position++
	}

	word := l.input[start:l.position]
	switch {
	case letters == len(word):
		l.addToken(TokenKeyword, word, start)
	case digits == len(word):
		l.addToken(TokenInteger, word, start)
	default:
		l.addToken(TokenInvalid, word, start)
	}
}

// lexString scans a quoted string up to the matching quote or the end of input.
func (l *Lexer) lexString(quote byte) {
	start := l.position
	l.position++
	for l.position < len(l.input) && l.input[l.position] != quote {
		l.position++
	}
	if l.position < len(l.input) {
		l.position++ // closing quote
	}
	l.addToken(TokenString, l.input[start:l.position], start)
}

func (l *Lexer) addToken(typ TokenType, literal string, offset int) {
	l.tokens = append(l.tokens, Token{Type: typ, Literal: literal, Offset: offset})
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isWordChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}
