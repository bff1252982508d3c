package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		Keyword:      "keyword",
		Identifier:   "identifier",
		Parameter:    "parameter",
		Number:       "number",
		String:       "string",
		Operator:     "operator",
		Punctuation:  "punctuation",
		LineComment:  "line_comment",
		BlockComment: "block_comment",
		Whitespace:   "whitespace",
		EOF:          "eof",
		Illegal:      "illegal",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
}

func TestNewIdentifierLikeUppercasesKeywordsAndIdentifiers(t *testing.T) {
	kw := NewIdentifierLike(Keyword, "select", 0, 1, 1)
	assert.Equal(t, "SELECT", kw.Upper)

	id := NewIdentifierLike(Identifier, "MyTable", 7, 1, 8)
	assert.Equal(t, "MYTABLE", id.Upper)

	num := NewIdentifierLike(Number, "42", 0, 1, 1)
	assert.Empty(t, num.Upper, "non-identifier-like kinds should not populate Upper")
}

func TestTokenEnd(t *testing.T) {
	tok := Token{Text: "hello", Position: 10}
	assert.Equal(t, 15, tok.End())
}

func TestTokenIs(t *testing.T) {
	kw := Token{Kind: Keyword, Text: "select", Upper: "SELECT"}
	assert.True(t, kw.Is("SELECT"))
	assert.False(t, kw.Is("FROM"))

	ident := Token{Kind: Identifier, Text: "foo", Upper: "FOO"}
	assert.True(t, ident.Is("FOO"))

	num := Token{Kind: Number, Text: "1", Upper: ""}
	assert.False(t, num.Is(""))
}

func TestTokenIsOperatorAndIsPunct(t *testing.T) {
	op := Token{Kind: Operator, Text: "<>"}
	assert.True(t, op.IsOperator("<>"))
	assert.False(t, op.IsOperator("="))
	assert.False(t, op.IsPunct("<>"))

	punct := Token{Kind: Punctuation, Text: ")"}
	assert.True(t, punct.IsPunct(")"))
	assert.False(t, punct.IsPunct("("))
}
