package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/vinsidious/sqlfmt/token"
)

// durationUnits are the compact duration suffixes recognized when they
// immediately (no gap) follow a number, per spec.md §4.1 (KWDB-style
// literals like `10y`, `1000ms`).
var durationUnits = []string{"ns", "us", "ms", "s", "m", "h", "d", "w", "y"}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// scanNumber handles integers, decimals, exponents (with `1e` backtracking
// to a bare integer plus a trailing identifier), hex literals, digit-
// underscore groupings, and compact duration literals.
func (l *lexer) scanNumber() error {
	startPos, startLine, startCol := l.pos, l.line, l.col
	s := l.rest()
	i := 0

	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		i = 2
		for i < len(s) && (isHexDigit(s[i]) || s[i] == '_') {
			i++
		}
		return l.finishNumber(s[:i], startPos, startLine, startCol)
	}

	for i < len(s) && (isDigitOrUnderscore(s[i])) {
		i++
	}
	if i < len(s) && s[i] == '.' && !(i+1 < len(s) && s[i+1] == '.') {
		// Don't consume `.` if it's immediately followed by another `.`
		// (range operator in some dialects) — not part of this grammar,
		// but being conservative costs nothing.
		j := i + 1
		for j < len(s) && isDigitOrUnderscore(s[j]) {
			j++
		}
		i = j
	}

	// Exponent, with backtrack: `1e` with no exponent digits must leave
	// the `e` as a separate identifier token (spec.md §4.1/§8).
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigitOrUnderscore(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
		// else: leave `i` before the `e`, so it tokenizes separately next.
	}

	numText := s[:i]

	// Compact duration literal: unit glued on with no gap.
	for _, unit := range durationUnits {
		if len(s) >= i+len(unit) && s[i:i+len(unit)] == unit {
			after := i + len(unit)
			var r rune
			if after < len(s) {
				r, _ = utf8.DecodeRuneInString(s[after:])
			}
			if after == len(s) || !isIdentContinue(r) {
				full := s[:after]
				l.advance(full)
				return l.emit(token.Token{Kind: token.Number, Text: full, Position: startPos, Line: startLine, Column: startCol})
			}
		}
	}

	return l.finishNumber(numText, startPos, startLine, startCol)
}

func isDigitOrUnderscore(b byte) bool {
	return unicode.IsDigit(rune(b)) || b == '_'
}

func (l *lexer) finishNumber(text string, startPos, startLine, startCol int) error {
	l.advance(text)
	return l.emit(token.Token{Kind: token.Number, Text: text, Position: startPos, Line: startLine, Column: startCol})
}
