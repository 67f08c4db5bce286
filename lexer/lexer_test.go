package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minic/token"
)

// Trivial test of the parsing of numbers and punctuators.
func TestNextTokenBasics(t *testing.T) {
	input := `3 43 + - == != <= >= < > ( ) ; = { } , &`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.NUM, "3"},
		{token.NUM, "43"},
		{token.PUNCT, "+"},
		{token.PUNCT, "-"},
		{token.PUNCT, "=="},
		{token.PUNCT, "!="},
		{token.PUNCT, "<="},
		{token.PUNCT, ">="},
		{token.PUNCT, "<"},
		{token.PUNCT, ">"},
		{token.PUNCT, "("},
		{token.PUNCT, ")"},
		{token.PUNCT, ";"},
		{token.PUNCT, "="},
		{token.PUNCT, "{"},
		{token.PUNCT, "}"},
		{token.PUNCT, ","},
		{token.PUNCT, "&"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok, err := l.NextToken()
		require.NoError(t, err)
		assert.Equal(t, tt.expectedType, tok.Type, "tests[%d]", i)
		assert.Equal(t, tt.expectedLiteral, tok.Literal, "tests[%d]", i)
	}
}

// Keywords are recognized without a trailing word-boundary check:
// "returnx" is Return followed by Ident("x"), reproducing the
// upstream tutorial's behavior (see SPEC_FULL.md).
func TestKeywordsHaveNoBoundaryCheck(t *testing.T) {
	l := New("returnx")

	tok, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, token.RETURN, tok.Type)

	tok, err = l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, token.IDENT, tok.Type)
	assert.Equal(t, "x", tok.Literal)
}

func TestKeywordsAndIdents(t *testing.T) {
	input := `int if else for while x foo123`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.INT, "int"},
		{token.IF, "if"},
		{token.ELSE, "else"},
		{token.FOR, "for"},
		{token.WHILE, "while"},
		{token.IDENT, "x"},
		{token.IDENT, "foo123"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok, err := l.NextToken()
		require.NoError(t, err)
		assert.Equal(t, tt.expectedType, tok.Type, "tests[%d]", i)
		assert.Equal(t, tt.expectedLiteral, tok.Literal, "tests[%d]", i)
	}
}

func TestInvalidCharacter(t *testing.T) {
	_, err := All("3 5 $")
	require.Error(t, err)

	var tErr *TokenizeError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, '$', tErr.Ch)
}

func TestAllEndsInEOF(t *testing.T) {
	toks, err := All("1 + 2")
	require.NoError(t, err)
	require.NotEmpty(t, toks)
	assert.Equal(t, token.EOF, toks[len(toks)-1].Type)
}
