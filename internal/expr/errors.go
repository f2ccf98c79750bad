package expr

import (
	"errors"
	"fmt"
)

// ParseError represents a failure to parse an expression.
//
// Parse errors are always recoverable: the caller keeps whatever tree it
// had before and no state changes. The Code distinguishes the failure
// kinds the editor surfaces differently:
//   - Empty input: no tokens at all
//   - Unexpected token: a token that fits no grammar position
//   - Unclosed paren: '(' without a matching ')'
//   - Trailing input: a complete expression followed by more tokens
type ParseError struct {
	// Code identifies the error category.
	Code ParseErrorCode

	// Message is a human-readable description.
	Message string

	// Pos is the byte offset in the (normalized) input where the error
	// was detected.
	Pos int

	// Token is the offending token's text, if any.
	Token string
}

// ParseErrorCode categorizes parse errors.
type ParseErrorCode string

const (
	// ErrCodeEmptyInput indicates the input contained no tokens.
	ErrCodeEmptyInput ParseErrorCode = "EMPTY_INPUT"

	// ErrCodeUnexpectedToken indicates a token that fits no grammar position.
	ErrCodeUnexpectedToken ParseErrorCode = "UNEXPECTED_TOKEN"

	// ErrCodeUnclosedParen indicates a '(' without a matching ')'.
	ErrCodeUnclosedParen ParseErrorCode = "UNCLOSED_PAREN"

	// ErrCodeTrailingInput indicates input remained after a complete
	// expression was parsed.
	ErrCodeTrailingInput ParseErrorCode = "TRAILING_INPUT"
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("%s: %s (token %q at offset %d)", e.Code, e.Message, e.Token, e.Pos)
	}
	return fmt.Sprintf("%s: %s (offset %d)", e.Code, e.Message, e.Pos)
}

// IsEmptyInput reports whether the error is an empty-input parse error.
// Uses errors.As to handle wrapped errors.
func IsEmptyInput(err error) bool {
	return hasCode(err, ErrCodeEmptyInput)
}

// IsUnexpectedToken reports whether the error is an unexpected-token parse error.
func IsUnexpectedToken(err error) bool {
	return hasCode(err, ErrCodeUnexpectedToken)
}

// IsUnclosedParen reports whether the error is an unclosed-paren parse error.
func IsUnclosedParen(err error) bool {
	return hasCode(err, ErrCodeUnclosedParen)
}

// IsTrailingInput reports whether the error is a trailing-input parse error.
func IsTrailingInput(err error) bool {
	return hasCode(err, ErrCodeTrailingInput)
}

func hasCode(err error, code ParseErrorCode) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

func newEmptyInputError() *ParseError {
	return &ParseError{
		Code:    ErrCodeEmptyInput,
		Message: "expression is empty",
	}
}

func newUnexpectedTokenError(tok token) *ParseError {
	msg := "unexpected token"
	if tok.kind == tokenEOF {
		msg = "unexpected end of input"
	}
	return &ParseError{
		Code:    ErrCodeUnexpectedToken,
		Message: msg,
		Pos:     tok.pos,
		Token:   tok.text,
	}
}

func newUnclosedParenError(tok token) *ParseError {
	return &ParseError{
		Code:    ErrCodeUnclosedParen,
		Message: "missing closing parenthesis",
		Pos:     tok.pos,
		Token:   tok.text,
	}
}

func newTrailingInputError(tok token) *ParseError {
	return &ParseError{
		Code:    ErrCodeTrailingInput,
		Message: "unexpected input after expression",
		Pos:     tok.pos,
		Token:   tok.text,
	}
}
