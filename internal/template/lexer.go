package template

import (
	"strings"
	"unicode/utf8"
)

// TokenType identifies the type of token.
type TokenType int

// Token types.
const (
	TokenText TokenType = iota // literal SQL
	TokenExpr                  // content of {{ }}
	TokenStmt                  // content of {* *}
	TokenEOF
)

func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "TEXT"
	case TokenExpr:
		return "EXPR"
	case TokenStmt:
		return "STMT"
	case TokenEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// Token is a lexical token.
type Token struct {
	Type  TokenType
	Value string
	Pos   Position
}

const (
	exprOpen  = "{{"
	exprClose = "}}"
	stmtOpen  = "{*"
	stmtClose = "*}"
)

// Lexer splits a template into text, expression and statement tokens.
type Lexer struct {
	input string
	file  string
	pos   int
	line  int
	col   int
}

// NewLexer creates a lexer for input; file is used in positions.
func NewLexer(input, file string) *Lexer {
	return &Lexer{input: input, file: file, line: 1, col: 1}
}

// Tokenize returns all tokens, ending with TokenEOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for l.pos < len(l.input) {
		var tok Token
		var err error
		switch {
		case l.at(exprOpen):
			tok, err = l.scanDelimited(TokenExpr, exprOpen, exprClose)
		case l.at(stmtOpen):
			tok, err = l.scanDelimited(TokenStmt, stmtOpen, stmtClose)
		default:
			tok = l.scanText()
		}
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return append(tokens, Token{Type: TokenEOF, Pos: l.position()}), nil
}

func (l *Lexer) scanText() Token {
	start, pos := l.pos, l.position()
	for l.pos < len(l.input) && !l.at(exprOpen) && !l.at(stmtOpen) {
		l.advance()
	}
	return Token{Type: TokenText, Value: l.input[start:l.pos], Pos: pos}
}

// scanDelimited reads up to the closing delimiter. Braces inside an
// expression nest, so dict literals may contain "}}".
func (l *Lexer) scanDelimited(typ TokenType, open, closing string) (Token, error) {
	pos := l.position()
	l.skip(len(open))

	start := l.pos
	depth := 0
	for l.pos < len(l.input) {
		if depth == 0 && l.at(closing) {
			value := strings.TrimSpace(l.input[start:l.pos])
			l.skip(len(closing))
			return Token{Type: typ, Value: value, Pos: pos}, nil
		}
		if typ == TokenExpr {
			switch l.input[l.pos] {
			case '{':
				depth++
			case '}':
				if depth > 0 {
					depth--
				}
			}
		}
		l.advance()
	}
	return Token{}, NewLexError(pos, "unclosed "+open+": missing '"+closing+"'")
}

func (l *Lexer) at(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

// skip advances over n bytes of delimiter on the current line.
func (l *Lexer) skip(n int) {
	l.pos += n
	l.col += n
}

func (l *Lexer) advance() {
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) position() Position {
	return Position{File: l.file, Line: l.line, Column: l.col}
}
