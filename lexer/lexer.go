// Package lexer turns a source-program string into a sequence of
// tokens for the parser to consume.
package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"minic/token"
)

// TokenizeError is returned when the lexer meets a character it
// cannot turn into a token.
type TokenizeError struct {
	Pos int
	Ch  rune
}

func (e *TokenizeError) Error() string {
	return fmt.Sprintf("tokenize error at position %d: unexpected character %q", e.Pos, e.Ch)
}

// Lexer holds our object-state.
type Lexer struct {
	position     int    //current character position
	readPosition int    //next character position
	ch           rune   //current character
	characters   []rune //rune slice of input string
}

// New a Lexer instance from string input.
func New(input string) *Lexer {
	l := &Lexer{characters: []rune(input)}
	l.readChar()
	return l
}

// All tokenizes the whole of input, returning the full token
// sequence terminated by exactly one token.EOF, or the first
// tokenize error encountered.
func All(input string) ([]token.Token, error) {
	l := New(input)
	var toks []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks, nil
}

// read one forward character
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.characters) {
		l.ch = rune(0)
	} else {
		l.ch = l.characters[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// rest returns the unconsumed tail of the input, starting at the
// current character - used for the prefix tests below.
func (l *Lexer) rest() string {
	if l.position >= len(l.characters) {
		return ""
	}
	return string(l.characters[l.position:])
}

// NextToken reads the next token, skipping whitespace.
//
// Punctuators are tried longest-first (see token.Puncts), then
// keywords are tried as literal prefixes of what remains - before any
// identifier is scanned. That ordering is deliberate: it reproduces
// the upstream tokenizer's lack of a trailing word-boundary check, so
// a source token such as "returnx" lexes as Return followed by
// Ident("x") rather than as a single identifier.
func (l *Lexer) NextToken() (token.Token, error) {
	l.skipWhitespace()

	pos := l.position

	if l.ch == rune(0) {
		return token.Token{Type: token.EOF, Pos: pos}, nil
	}

	for _, p := range token.Puncts {
		if strings.HasPrefix(l.rest(), p) {
			l.advanceN(len(p))
			return token.Token{Type: token.PUNCT, Literal: p, Pos: pos}, nil
		}
	}

	for _, kw := range token.Keywords {
		if strings.HasPrefix(l.rest(), kw.Literal) {
			l.advanceN(len(kw.Literal))
			return token.Token{Type: kw.Type, Literal: kw.Literal, Pos: pos}, nil
		}
	}

	if isIdentStart(l.ch) {
		lit := l.readIdentifier()
		return token.Token{Type: token.IDENT, Literal: lit, Pos: pos}, nil
	}

	if isDigit(l.ch) {
		n, lit := l.readNumber()
		return token.Token{Type: token.NUM, Literal: lit, Num: n, Pos: pos}, nil
	}

	return token.Token{}, &TokenizeError{Pos: pos, Ch: l.ch}
}

// advanceN consumes n runes.
func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.readChar()
	}
}

// skip white space - a single space character at a time; tabs,
// newlines, and comments are out of scope.
func (l *Lexer) skipWhitespace() {
	for l.ch == rune(' ') {
		l.readChar()
	}
}

// readIdentifier reads the maximal run of ASCII alphanumerics
// starting at the current (already-confirmed-alphabetic) character.
func (l *Lexer) readIdentifier() string {
	start := l.position
	for isIdentRest(l.ch) {
		l.readChar()
	}
	return string(l.characters[start:l.position])
}

// readNumber reads the maximal run of ASCII digits as a base-10 i64.
func (l *Lexer) readNumber() (int64, string) {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	lit := string(l.characters[start:l.position])
	n, _ := strconv.ParseInt(lit, 10, 64)
	return n, lit
}

// is Digit
func isDigit(ch rune) bool {
	return rune('0') <= ch && ch <= rune('9')
}

func isIdentStart(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentRest(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}
