package expr

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// tokenKind distinguishes the lexical token classes.
type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenNumber
	tokenIdent
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenLParen
	tokenRParen
	// tokenInvalid marks a character or malformed literal that belongs to
	// no token class. The parser reports it as an unexpected token.
	tokenInvalid
)

// token is a single lexical token with its source position.
type token struct {
	kind tokenKind
	text string
	pos  int // byte offset in the normalized input

	// number holds the parsed value for tokenNumber.
	number float64
}

// lex splits src into tokens, appending a trailing EOF token.
//
// The input is NFC-normalized first so that variable names written with
// combining characters compare equal to their precomposed forms. Binding
// identity is name identity, so normalization has to happen before any
// name is extracted.
func lex(src string) []token {
	src = norm.NFC.String(src)

	var toks []token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '+':
			toks = append(toks, token{kind: tokenPlus, text: "+", pos: i})
			i += size
		case r == '-':
			toks = append(toks, token{kind: tokenMinus, text: "-", pos: i})
			i += size
		case r == '*':
			toks = append(toks, token{kind: tokenStar, text: "*", pos: i})
			i += size
		case r == '/':
			toks = append(toks, token{kind: tokenSlash, text: "/", pos: i})
			i += size
		case r == '(':
			toks = append(toks, token{kind: tokenLParen, text: "(", pos: i})
			i += size
		case r == ')':
			toks = append(toks, token{kind: tokenRParen, text: ")", pos: i})
			i += size
		case r >= '0' && r <= '9' || r == '.':
			tok, next := lexNumber(src, i)
			toks = append(toks, tok)
			i = next
		case unicode.IsLetter(r) || r == '_':
			tok, next := lexIdent(src, i)
			toks = append(toks, tok)
			i = next
		default:
			toks = append(toks, token{kind: tokenInvalid, text: string(r), pos: i})
			i += size
		}
	}
	toks = append(toks, token{kind: tokenEOF, pos: len(src)})
	return toks
}

// lexNumber scans an integer or decimal literal starting at pos,
// including leading-dot fractions like ".5". A literal that ParseFloat
// rejects (e.g. "1.2.3" or a bare ".") becomes an invalid token.
func lexNumber(src string, pos int) (token, int) {
	end := pos
	for end < len(src) && (src[end] >= '0' && src[end] <= '9' || src[end] == '.') {
		end++
	}
	text := src[pos:end]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{kind: tokenInvalid, text: text, pos: pos}, end
	}
	return token{kind: tokenNumber, text: text, pos: pos, number: v}, end
}

// lexIdent scans an identifier: a Unicode letter or underscore followed
// by letters, digits, or underscores.
func lexIdent(src string, pos int) (token, int) {
	end := pos
	for end < len(src) {
		r, size := utf8.DecodeRuneInString(src[end:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		end += size
	}
	return token{kind: tokenIdent, text: src[pos:end], pos: pos}, end
}
