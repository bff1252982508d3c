package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinsidious/sqlfmt/dialect"
	"github.com/vinsidious/sqlfmt/token"
)

// significant filters out whitespace tokens and the trailing EOF so
// assertions can focus on meaningful lexemes.
func significant(toks []token.Token) []token.Token {
	var out []token.Token
	for _, t := range toks {
		if t.Kind == token.Whitespace || t.Kind == token.EOF {
			continue
		}
		out = append(out, t)
	}
	return out
}

func mustTokenize(t *testing.T, src string, opts *Options) []token.Token {
	t.Helper()
	toks, err := Tokenize(src, opts)
	require.NoError(t, err)
	return toks
}

func TestTokenizeEmitsExactlyOneTrailingEOF(t *testing.T) {
	toks := mustTokenize(t, "SELECT 1", nil)
	require.NotEmpty(t, toks)
	assert.Equal(t, token.EOF, toks[len(toks)-1].Kind)
	for _, tok := range toks[:len(toks)-1] {
		assert.NotEqual(t, token.EOF, tok.Kind)
	}
}

func TestTokenizeSimpleSelect(t *testing.T) {
	toks := significant(mustTokenize(t, "SELECT a, b FROM t WHERE a = 1", nil))
	var kinds []token.Kind
	var texts []string
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
		texts = append(texts, tok.Text)
	}
	assert.Equal(t, []string{"SELECT", "a", ",", "b", "FROM", "t", "WHERE", "a", "=", "1"}, texts)
	assert.Equal(t, token.Keyword, kinds[0])
	assert.Equal(t, token.Identifier, kinds[1])
	assert.Equal(t, token.Punctuation, kinds[2])
	assert.Equal(t, token.Keyword, kinds[4])
	assert.Equal(t, token.Operator, kinds[8])
	assert.Equal(t, token.Number, kinds[9])
}

func TestTokenizeKeywordCaseInsensitiveUpperField(t *testing.T) {
	toks := significant(mustTokenize(t, "select Select SELECT", nil))
	require.Len(t, toks, 3)
	for _, tok := range toks {
		assert.Equal(t, token.Keyword, tok.Kind)
		assert.Equal(t, "SELECT", tok.Upper)
	}
}

func TestTokenizeDialectAdditionalKeywords(t *testing.T) {
	d := dialect.Postgres()
	toks := significant(mustTokenize(t, "SELECT DISTINCT a FROM t", &Options{Dialect: &d}))
	assert.Equal(t, token.Keyword, toks[1].Kind)
	assert.Equal(t, "DISTINCT", toks[1].Upper)
}

func TestTokenizeNumbers(t *testing.T) {
	cases := map[string]string{
		"42":        "42",
		"3.14":      "3.14",
		"1e10":      "1e10",
		"1e":        "1", // no exponent digits: backtrack to bare "1"
		"0xFF":      "0xFF",
		"1_000_000": "1_000_000",
		"10ms":      "10ms",
	}
	for src, want := range cases {
		toks := significant(mustTokenize(t, src, nil))
		require.NotEmpty(t, toks, src)
		assert.Equal(t, token.Number, toks[0].Kind, src)
		assert.Equal(t, want, toks[0].Text, src)
	}
}

func TestTokenizeExponentBacktrackLeavesTrailingIdent(t *testing.T) {
	toks := significant(mustTokenize(t, "1e", nil))
	require.Len(t, toks, 2)
	assert.Equal(t, token.Number, toks[0].Kind)
	assert.Equal(t, "1", toks[0].Text)
	assert.Equal(t, token.Identifier, toks[1].Kind)
	assert.Equal(t, "e", toks[1].Text)
}

func TestTokenizeStrings(t *testing.T) {
	toks := significant(mustTokenize(t, `'hello world'`, nil))
	require.Len(t, toks, 1)
	assert.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, `'hello world'`, toks[0].Text)
}

func TestTokenizeQuotedIdentifiers(t *testing.T) {
	toks := significant(mustTokenize(t, `"My Table"`, nil))
	require.Len(t, toks, 1)
	assert.Equal(t, token.Identifier, toks[0].Kind)
	assert.Equal(t, `"My Table"`, toks[0].Text)

	backtick := significant(mustTokenize(t, "`my_table`", nil))
	require.Len(t, backtick, 1)
	assert.Equal(t, token.Identifier, backtick[0].Kind)
}

func TestTokenizeDollarQuotedString(t *testing.T) {
	toks := significant(mustTokenize(t, "$$hello$$", nil))
	require.Len(t, toks, 1)
	assert.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, "$$hello$$", toks[0].Text)
}

func TestTokenizeTaggedDollarQuotedString(t *testing.T) {
	toks := significant(mustTokenize(t, "$tag$hello$tag$", nil))
	require.Len(t, toks, 1)
	assert.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, "$tag$hello$tag$", toks[0].Text)
}

func TestTokenizePositionalParameters(t *testing.T) {
	toks := significant(mustTokenize(t, "SELECT $1, $2", nil))
	require.Len(t, toks, 4)
	assert.Equal(t, token.Parameter, toks[1].Kind)
	assert.Equal(t, "$1", toks[1].Text)
	assert.Equal(t, token.Parameter, toks[3].Kind)
	assert.Equal(t, "$2", toks[3].Text)
}

func TestTokenizeNamedColonParameter(t *testing.T) {
	toks := significant(mustTokenize(t, "SELECT :name", nil))
	require.Len(t, toks, 2)
	assert.Equal(t, token.Parameter, toks[1].Kind)
	assert.Equal(t, ":name", toks[1].Text)
}

func TestTokenizeQuestionMarkParameter(t *testing.T) {
	toks := significant(mustTokenize(t, "SELECT ?", nil))
	require.Len(t, toks, 2)
	assert.Equal(t, token.Parameter, toks[1].Kind)
	assert.Equal(t, "?", toks[1].Text)
}

func TestTokenizeMultiCharOperatorsPreferLongestMatch(t *testing.T) {
	cases := []struct{ src, want string }{
		{"a <> b", "<>"},
		{"a <= b", "<="},
		{"a ->> b", "->>"},
		{"a -> b", "->"},
		{"a || b", "||"},
		{"a :: int", "::"},
	}
	for _, c := range cases {
		toks := significant(mustTokenize(t, c.src, nil))
		require.Len(t, toks, 3, c.src)
		assert.Equal(t, token.Operator, toks[1].Kind, c.src)
		assert.Equal(t, c.want, toks[1].Text, c.src)
	}
}

func TestTokenizeLineComment(t *testing.T) {
	toks := mustTokenize(t, "SELECT 1 -- trailing note\n", nil)
	var comment *token.Token
	for i := range toks {
		if toks[i].Kind == token.LineComment {
			comment = &toks[i]
		}
	}
	require.NotNil(t, comment)
	assert.Equal(t, "-- trailing note", comment.Text)
}

func TestTokenizeBlockComment(t *testing.T) {
	toks := mustTokenize(t, "SELECT /* inline */ 1", nil)
	var comment *token.Token
	for i := range toks {
		if toks[i].Kind == token.BlockComment {
			comment = &toks[i]
		}
	}
	require.NotNil(t, comment)
	assert.Equal(t, "/* inline */", comment.Text)
}

func TestTokenizeUnterminatedBlockCommentErrors(t *testing.T) {
	_, err := Tokenize("SELECT /* oops", nil)
	require.Error(t, err)
}

func TestTokenizeMaxTokenCountExceeded(t *testing.T) {
	_, err := Tokenize("SELECT 1, 2, 3", &Options{MaxTokenCount: 2})
	require.Error(t, err)
}

func TestTokenizePunctuation(t *testing.T) {
	toks := significant(mustTokenize(t, "(a, b)", nil))
	texts := make([]string, len(toks))
	for i, tok := range toks {
		texts[i] = tok.Text
	}
	assert.Equal(t, []string{"(", "a", ",", "b", ")"}, texts)
	for _, tok := range []token.Token{toks[0], toks[2], toks[4]} {
		assert.Equal(t, token.Punctuation, tok.Kind)
	}
}

func TestTokenizeMetaCommandOnlyRecognizedWhenAllowed(t *testing.T) {
	withoutMeta := significant(mustTokenize(t, `\d my_table`, nil))
	assert.Equal(t, token.Operator, withoutMeta[0].Kind, "backslash falls back to a bare operator without AllowMetaCommands")

	withMeta := significant(mustTokenize(t, `\d my_table`, &Options{AllowMetaCommands: true}))
	assert.Equal(t, token.LineComment, withMeta[0].Kind)
	assert.Equal(t, `\d my_table`, withMeta[0].Text)
}

func TestTokenizeCopyFromStdinDataLines(t *testing.T) {
	src := "COPY t FROM STDIN;\n1\tfoo\n2\tbar\n\\.\n"
	toks := mustTokenize(t, src, nil)
	var dataLines []string
	for _, tok := range toks {
		if tok.Kind == token.LineComment {
			dataLines = append(dataLines, tok.Text)
		}
	}
	assert.Equal(t, []string{"1\tfoo", "2\tbar", `\.`}, dataLines)
}
