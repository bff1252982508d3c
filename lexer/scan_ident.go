package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/vinsidious/sqlfmt/token"
)

// scanIdentOrKeyword consumes an unquoted identifier (or keyword, if it
// matches the active keyword set case-insensitively), enforcing
// MaxIdentifierLength.
func (l *lexer) scanIdentOrKeyword() error {
	startPos, startLine, startCol := l.pos, l.line, l.col
	s := l.rest()
	i := 0
	length := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if i == 0 {
			if !isIdentStart(r) && r != '#' && r != '$' {
				break
			}
		} else if !isIdentContinue(r) && r != '$' && r != '#' {
			break
		}
		i += size
		length++
		if length > MaxIdentifierLength {
			return newErrorAt(startPos, startLine, startCol, "identifier exceeds maximum length")
		}
	}
	text := s[:i]
	upper := strings.ToUpper(text)
	kind := token.Identifier
	if l.keywords[upper] {
		kind = token.Keyword
	}
	l.advance(text)
	return l.emit(token.NewIdentifierLike(kind, text, startPos, startLine, startCol))
}

// afterDDLContextKeyword reports whether the previous significant token
// was a DDL keyword (TABLE, JOIN, REFERENCES, INTO, FROM) or a `.`, the
// contexts in which `#temp`/`$temp`-style leading-punctuation identifiers
// and `<Foo, Bar>` angle-bracket template identifiers are disambiguated
// from an operator/comparison reading, per spec.md §4.1.
func (l *lexer) afterDDLContextKeyword() bool {
	if l.lastSignificant == nil {
		return false
	}
	t := *l.lastSignificant
	if t.Kind == token.Keyword && ddlContextKeywords[t.Upper] {
		return true
	}
	return t.IsPunct(".")
}

// scanAngleTemplateIdent consumes `<Foo, Bar>` as a single Identifier
// token when it directly follows a DDL context keyword, rather than
// tokenizing `<` as a comparison operator.
func (l *lexer) scanAngleTemplateIdent() error {
	startPos, startLine, startCol := l.pos, l.line, l.col
	end := strings.IndexByte(l.rest(), '>')
	if end < 0 || strings.ContainsAny(l.rest()[:end], ";()") {
		return l.scanOperatorOrPunct()
	}
	text := l.rest()[:end+1]
	l.advance(text)
	return l.emit(token.Token{Kind: token.Identifier, Text: text, Position: startPos, Line: startLine, Column: startCol})
}
