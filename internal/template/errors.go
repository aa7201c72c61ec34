package template

import "fmt"

// Error is implemented by all template errors.
type Error interface {
	error
	Position() Position
}

type baseError struct {
	pos Position
	msg string
}

func (e *baseError) Position() Position { return e.pos }
func (e *baseError) Error() string      { return e.pos.String() + ": " + e.msg }

// LexError is a malformed delimiter.
type LexError struct {
	baseError
}

// NewLexError creates a lexer error.
func NewLexError(pos Position, msg string) *LexError {
	return &LexError{baseError{pos: pos, msg: msg}}
}

// ParseError is a malformed or unbalanced statement.
type ParseError struct {
	baseError
}

// NewParseErrorf creates a parser error.
func NewParseErrorf(pos Position, format string, args ...any) *ParseError {
	return &ParseError{baseError{pos: pos, msg: fmt.Sprintf(format, args...)}}
}

// RenderError is a failure while evaluating an expression or block.
type RenderError struct {
	baseError
	Cause error
}

// WrapRenderError wraps an evaluation error with its template position.
func WrapRenderError(pos Position, msg string, cause error) *RenderError {
	return &RenderError{baseError: baseError{pos: pos, msg: msg}, Cause: cause}
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.baseError.Error(), e.Cause)
	}
	return e.baseError.Error()
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
