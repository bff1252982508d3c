package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/vinsidious/sqlfmt/token"
)

// scanString consumes a single-quoted string literal (including the
// smart-quote forms U+2018/U+2019), doubling ('') as the escape. The
// emitted Text is the original source verbatim; normalization to ASCII
// quotes is a formatter-output concern (spec.md §4.1/§4.3), not a lexing
// one.
func (l *lexer) scanString(quote rune, prefixed bool) error {
	startPos, startLine, startCol := l.pos, l.line, l.col
	open, openSize := utf8.DecodeRuneInString(l.rest())
	closeQuote := matchingSmartQuote(open)
	i := openSize
	for {
		if i >= len(l.rest()) {
			return newErrorAt(startPos, startLine, startCol, "unterminated string literal")
		}
		r, size := utf8.DecodeRuneInString(l.rest()[i:])
		if r == closeQuote {
			// doubled close-quote is an escaped literal quote character
			if i+size < len(l.rest()) {
				r2, size2 := utf8.DecodeRuneInString(l.rest()[i+size:])
				if r2 == closeQuote {
					i += size + size2
					continue
				}
			}
			i += size
			break
		}
		if r == '\\' && prefixed {
			// E'...': backslash escapes the following character.
			if i+size < len(l.rest()) {
				_, size2 := utf8.DecodeRuneInString(l.rest()[i+size:])
				i += size + size2
				continue
			}
		}
		i += size
	}
	text := l.rest()[:i]
	l.advance(text)
	return l.emit(token.Token{Kind: token.String, Text: text, Position: startPos, Line: startLine, Column: startCol})
}

func matchingSmartQuote(open rune) rune {
	switch open {
	case '‘':
		return '’'
	case '’':
		return '’' // some editors reuse the closing smart quote for both ends
	default:
		return '\''
	}
}

// scanPrefixedString handles E'...', N'...', B'...', X'...', U&'...'.
func (l *lexer) scanPrefixedString() error {
	startPos, startLine, startCol := l.pos, l.line, l.col
	quoteIdx := strings.IndexByte(l.rest(), '\'')
	prefix := l.rest()[:quoteIdx]
	// advance past the prefix first so scanString starts at the quote.
	l.advance(prefix)
	isEscaped := strings.EqualFold(prefix, "E")
	if err := l.scanStringBody(isEscaped); err != nil {
		return err
	}
	// merge prefix + string into a single token by rewriting the last
	// emitted token's Position/Text to include the prefix.
	last := &l.tokens[len(l.tokens)-1]
	last.Text = prefix + last.Text
	last.Position = startPos
	last.Line = startLine
	last.Column = startCol
	return nil
}

func (l *lexer) scanStringBody(escaped bool) error {
	return l.scanString('\'', escaped)
}

// scanQuotedIdent handles "id" (doubled "" escape) and `id` (doubled ``
// escape), enforcing MaxIdentifierLength.
func (l *lexer) scanQuotedIdent(quote byte, kind token.Kind) error {
	startPos, startLine, startCol := l.pos, l.line, l.col
	i := 1
	length := 0
	for {
		if i >= len(l.rest()) {
			return newErrorAt(startPos, startLine, startCol, "unterminated quoted identifier")
		}
		c := l.rest()[i]
		if c == quote {
			if i+1 < len(l.rest()) && l.rest()[i+1] == quote {
				i += 2
				length++
				continue
			}
			i++
			break
		}
		_, size := utf8.DecodeRuneInString(l.rest()[i:])
		i += size
		length++
		if length > MaxIdentifierLength {
			return newErrorAt(startPos, startLine, startCol, "identifier exceeds maximum length")
		}
	}
	text := l.rest()[:i]
	l.advance(text)
	return l.emit(token.Token{Kind: kind, Text: text, Position: startPos, Line: startLine, Column: startCol})
}

// bracketIsIdentifier disambiguates `[id]` (a quoted identifier, T-SQL
// style) from `[` used as a subscript/array-literal open bracket: it is an
// identifier only when the previous significant token is not something
// that would make `[` a subscript (an identifier, a closing paren/bracket,
// or a string).
func (l *lexer) bracketIsIdentifier() bool {
	if l.lastSignificant == nil {
		return true
	}
	switch l.lastSignificant.Kind {
	case token.Identifier, token.String, token.Number:
		return false
	case token.Punctuation:
		return l.lastSignificant.Text != ")" && l.lastSignificant.Text != "]"
	default:
		return true
	}
}

func (l *lexer) scanBracketIdent() error {
	startPos, startLine, startCol := l.pos, l.line, l.col
	i := 1
	for {
		if i >= len(l.rest()) {
			return newErrorAt(startPos, startLine, startCol, "unterminated bracketed identifier")
		}
		if l.rest()[i] == ']' {
			if i+1 < len(l.rest()) && l.rest()[i+1] == ']' {
				i += 2
				continue
			}
			i++
			break
		}
		_, size := utf8.DecodeRuneInString(l.rest()[i:])
		i += size
	}
	text := l.rest()[:i]
	l.advance(text)
	return l.emit(token.Token{Kind: token.Identifier, Text: text, Position: startPos, Line: startLine, Column: startCol})
}

// scanBracketLongString handles Lua-style/Exasol `[[...]]` long strings.
func (l *lexer) scanBracketLongString() error {
	startPos, startLine, startCol := l.pos, l.line, l.col
	end := strings.Index(l.rest()[2:], "]]")
	if end < 0 {
		return newErrorAt(startPos, startLine, startCol, "unterminated bracket long string")
	}
	text := l.rest()[:end+4]
	l.advance(text)
	return l.emit(token.Token{Kind: token.String, Text: text, Position: startPos, Line: startLine, Column: startCol})
}

// oracleQuoteDelims maps an opening delimiter character to its closer, for
// `q'[...]'`, `q'{...}'`, `q'(...)'`, `q'<...>'`, `q'!...!'`.
var oracleQuoteDelims = map[byte]byte{
	'[': ']', '{': '}', '(': ')', '<': '>', '!': '!',
}

// scanOracleQuote handles Oracle's `q'<delim> ... <delim-close>'` alternative
// quoting mechanism. Matching is purely by the opening delimiter's mirror
// (or itself); first matching close wins, per spec.md §4.1.
func (l *lexer) scanOracleQuote() error {
	startPos, startLine, startCol := l.pos, l.line, l.col
	if len(l.rest()) < 3 {
		return l.scanIdentOrKeyword()
	}
	openDelim := l.rest()[2]
	closeDelim, ok := oracleQuoteDelims[openDelim]
	if !ok {
		return l.scanIdentOrKeyword()
	}
	closer := string(closeDelim) + "'"
	bodyStart := 3
	end := strings.Index(l.rest()[bodyStart:], closer)
	if end < 0 {
		return newErrorAt(startPos, startLine, startCol, "unterminated Oracle quoted string")
	}
	text := l.rest()[:bodyStart+end+len(closer)]
	l.advance(text)
	return l.emit(token.Token{Kind: token.String, Text: text, Position: startPos, Line: startLine, Column: startCol})
}
