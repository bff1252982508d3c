// Package lexer turns SQL source text into a stream of positioned,
// classified tokens (spec.md §4.1). It never fails silently: anything it
// cannot make sense of either becomes a best-effort Operator token (e.g. a
// bare unmatched "$") or a TokenizeError, never a panic.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vinsidious/sqlfmt/dialect"
	"github.com/vinsidious/sqlfmt/token"
)

// DefaultMaxTokenCount is the tokenizer's safety cap on emitted tokens.
const DefaultMaxTokenCount = 1_000_000

// MaxIdentifierLength is the hard ceiling on a (quoted or unquoted)
// identifier's length, in characters.
const MaxIdentifierLength = 10_000

// Options configures a Tokenize call. The zero value is valid and means:
// no dialect extras, default token cap, meta-commands not recognized.
type Options struct {
	Dialect           *dialect.Dialect
	MaxTokenCount     int
	AllowMetaCommands bool
}

func (o *Options) maxTokenCount() int {
	if o == nil || o.MaxTokenCount <= 0 {
		return DefaultMaxTokenCount
	}
	return o.MaxTokenCount
}

func (o *Options) additionalKeywords() []string {
	if o == nil || o.Dialect == nil {
		return nil
	}
	return o.Dialect.AdditionalKeywords
}

func (o *Options) allowMeta() bool {
	return o != nil && o.AllowMetaCommands
}

// multiCharOperators must be tried longest-first; spec.md §4.1's table.
var multiCharOperators = []string{
	"!~*", "!~", "!=", "<@", "<>", "<<", "<=", ">=", ">>",
	"->>", "->", "#>>", "#>", "@>", "@?", "@@", "?|", "?&",
	"~*", "&&", "||", "::", ":=",
	"+=", "-=", "*=", "/=", "%=", "&=", "^=", "|=",
}

const singleCharOperators = "=+-*/%^&|~?!@#<>$\\"
const punctuationChars = "(),;.[]:{}"

// ddlContextKeywords precede angle-bracket template identifiers like
// `<Foo, Bar>` (spec.md §4.1).
var ddlContextKeywords = map[string]bool{
	"TABLE": true, "JOIN": true, "REFERENCES": true, "INTO": true, "FROM": true,
}

type lexer struct {
	src      string
	pos      int // byte offset
	line     int
	col      int // 1-based, UTF-16 code units
	keywords map[string]bool
	opts     *Options
	tokens   []token.Token
	maxCount int

	lastSignificant      *token.Token // last non-whitespace/comment token emitted
	copyStdin            bool         // inside COPY ... FROM STDIN data-line mode
	copyPending          bool         // saw "FROM STDIN", waiting for the statement ";"
	prevSignificantUpper string
}

// Tokenize converts text into a token stream terminated by exactly one EOF
// token. On any lexical error it returns a *TokenizeError and no partial
// token stream, per spec.md §4.1/§7.
func Tokenize(src string, opts *Options) ([]token.Token, error) {
	l := &lexer{
		src:      src,
		line:     1,
		col:      1,
		keywords: newKeywordSet(opts.additionalKeywords()),
		opts:     opts,
		maxCount: opts.maxTokenCount(),
	}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

func (l *lexer) run() error {
	for l.pos < len(l.src) {
		if err := l.scanOne(); err != nil {
			return err
		}
	}
	if err := l.emit(token.Token{Kind: token.EOF, Text: "", Position: l.pos, Line: l.line, Column: l.col}); err != nil {
		return err
	}
	return nil
}

func (l *lexer) emit(t token.Token) error {
	if len(l.tokens) >= l.maxCount {
		return newErrorAt(t.Position, t.Line, t.Column, "token count exceeds maxTokenCount")
	}
	l.tokens = append(l.tokens, t)
	if t.Kind != token.Whitespace && t.Kind != token.LineComment && t.Kind != token.BlockComment && t.Kind != token.EOF {
		cp := t
		l.lastSignificant = &cp
	}
	l.maybeEnterCopyMode(t)
	return nil
}

func (l *lexer) peekByte(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *lexer) rest() string {
	return l.src[l.pos:]
}

// advance moves pos forward past text, tracking line/col
// (UTF-16 code units; astral runes count as 2).
func (l *lexer) advance(text string) {
	for _, r := range text {
		if r == '\n' {
			l.line++
			l.col = 1
			continue
		}
		l.col += utf16RuneWidth(r)
	}
	l.pos += len(text)
}

func utf16RuneWidth(r rune) int {
	if r > 0xFFFF {
		return 2
	}
	return 1
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}

func (l *lexer) scanOne() error {
	r, _ := utf8.DecodeRuneInString(l.rest())

	switch {
	case l.copyStdin:
		return l.scanCopyDataLine()
	case unicode.IsSpace(r):
		return l.scanWhitespace()
	case strings.HasPrefix(l.rest(), "--"):
		return l.scanLineComment("--")
	case strings.HasPrefix(l.rest(), "/*"):
		return l.scanBlockComment()
	case (r == 'R' || r == 'r') && l.atLineStart() && hasFoldPrefix(l.rest(), "REM") && wordBoundaryAfter(l.rest(), 3):
		return l.scanLineComment("REM")
	case (r == '#' || r == '$') && l.afterDDLContextKeyword() && identStartsAfter(l.rest()):
		return l.scanIdentOrKeyword()
	case r == '#' && l.atLineStart() && !strings.HasPrefix(l.rest(), "#>"):
		return l.scanLineComment("#")
	case r == '\\' && l.opts.allowMeta() && l.atLineStart():
		return l.scanMetaCommand()
	case r == '\'' || r == '‘' || r == '’':
		return l.scanString('\'', false)
	case r == '"':
		return l.scanQuotedIdent('"', token.Identifier)
	case r == '`':
		return l.scanQuotedIdent('`', token.Identifier)
	case r == '[' && strings.HasPrefix(l.rest(), "[["):
		return l.scanBracketLongString()
	case r == '[' && l.bracketIsIdentifier():
		return l.scanBracketIdent()
	case (r == 'q' || r == 'Q') && l.peekByte(1) == '\'':
		return l.scanOracleQuote()
	case isPrefixedStringStart(l.rest()):
		return l.scanPrefixedString()
	case r == '$':
		return l.scanDollarSignForm()
	case unicode.IsDigit(r):
		return l.scanNumber()
	case r == '.' && unicode.IsDigit(rune(l.peekByte(1))):
		return l.scanNumber()
	case r == ':' && l.peekByte(1) == '=':
		return l.scanOperatorFixed(":=")
	case r == ':':
		return l.scanColonParamOrOperator()
	case r == '?':
		return l.scanQuestionParamOrOperator()
	case r == '&':
		return l.scanAmpParamOrOperator()
	case r == '@':
		return l.scanAtParamOrOperator()
	case r == '{' && strings.HasPrefix(l.rest(), "{{"):
		return l.scanTemplateParam()
	case isIdentStart(r):
		return l.scanIdentOrKeyword()
	case r == '<' && l.afterDDLContextKeyword():
		return l.scanAngleTemplateIdent()
	default:
		return l.scanOperatorOrPunct()
	}
}

// identStartsAfter reports whether the rune immediately after s's first
// rune begins an identifier, used to decide whether a leading `#`/`$` is
// the first character of a disambiguated identifier (`#temp`) rather than
// an operator/comment marker.
func identStartsAfter(s string) bool {
	_, size := utf8.DecodeRuneInString(s)
	if size >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[size:])
	return isIdentStart(r)
}

func (l *lexer) atLineStart() bool {
	if l.pos == 0 {
		return true
	}
	i := l.pos - 1
	for i >= 0 {
		c := l.src[i]
		if c == '\n' {
			return true
		}
		if c == ' ' || c == '\t' || c == '\r' {
			i--
			continue
		}
		return false
	}
	return true
}

func hasFoldPrefix(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return strings.EqualFold(s[:len(prefix)], prefix)
}

func wordBoundaryAfter(s string, n int) bool {
	if len(s) == n {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[n:])
	return !isIdentContinue(r)
}

func isPrefixedStringStart(s string) bool {
	prefixes := []string{"E'", "e'", "N'", "n'", "B'", "b'", "X'", "x'"}
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	if len(s) >= 3 && (s[0] == 'U' || s[0] == 'u') && s[1] == '&' && s[2] == '\'' {
		return true
	}
	return false
}

