package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vinsidious/sqlfmt/token"
)

func (l *lexer) scanOperatorOrPunct() error {
	startPos, startLine, startCol := l.pos, l.line, l.col
	s := l.rest()

	r, size := utf8.DecodeRuneInString(s)
	if r == '/' && l.soleOnLine() && !l.divisionContextHere() {
		l.advance("/")
		return l.emit(token.Token{Kind: token.Punctuation, Text: "/", Position: startPos, Line: startLine, Column: startCol})
	}

	for _, op := range multiCharOperators {
		if strings.HasPrefix(s, op) {
			l.advance(op)
			return l.emit(token.Token{Kind: token.Operator, Text: op, Position: startPos, Line: startLine, Column: startCol})
		}
	}

	if strings.ContainsRune(punctuationChars, r) {
		l.advance(s[:size])
		return l.emit(token.Token{Kind: token.Punctuation, Text: s[:size], Position: startPos, Line: startLine, Column: startCol})
	}

	if strings.ContainsRune(singleCharOperators, r) {
		l.advance(s[:size])
		return l.emit(token.Token{Kind: token.Operator, Text: s[:size], Position: startPos, Line: startLine, Column: startCol})
	}

	if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
		return newErrorAt(startPos, startLine, startCol, fmt.Sprintf("unexpected control character U+%04X", r))
	}

	// Unrecognized but printable rune (e.g. stray Unicode punctuation):
	// surface it as a single-rune operator token rather than failing the
	// whole tokenize call, matching the tokenizer's general "keep going"
	// posture for anything short of the explicit error conditions in
	// spec.md §4.1.
	l.advance(s[:size])
	return l.emit(token.Token{Kind: token.Operator, Text: s[:size], Position: startPos, Line: startLine, Column: startCol})
}

// soleOnLine reports whether the current position's rune is the only
// non-whitespace character on its source line.
func (l *lexer) soleOnLine() bool {
	lineStart := strings.LastIndexByte(l.src[:l.pos], '\n') + 1
	before := l.src[lineStart:l.pos]
	if strings.TrimSpace(before) != "" {
		return false
	}
	rest := l.rest()[1:]
	nl := strings.IndexByte(rest, '\n')
	var afterLine string
	if nl < 0 {
		afterLine = rest
	} else {
		afterLine = rest[:nl]
	}
	return strings.TrimSpace(afterLine) == ""
}

// divisionContextHere implements the "unless following context clearly
// indicates division" half of the standalone-`/` heuristic (spec.md
// §4.1/§9): division wins when the prior significant token is `,` `(` `;`
// or there is none, or when the next significant character looks like the
// start of a literal or a parenthesis.
func (l *lexer) divisionContextHere() bool {
	if l.lastSignificant != nil {
		t := *l.lastSignificant
		if t.IsPunct(",") || t.IsPunct("(") || t.IsPunct(";") {
			return true
		}
	} else {
		return true
	}
	rest := strings.TrimLeft(l.rest()[1:], " \t\r\n")
	if rest == "" {
		return false
	}
	c := rest[0]
	if c == '(' || c == '\'' || c == '"' || (c >= '0' && c <= '9') {
		return true
	}
	return false
}
