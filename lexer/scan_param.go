package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vinsidious/sqlfmt/token"
)

func (l *lexer) scanDollarSignForm() error {
	startPos, startLine, startCol := l.pos, l.line, l.col
	s := l.rest()

	if strings.HasPrefix(s, "$$") {
		return l.scanDollarQuoted(startPos, startLine, startCol, "")
	}

	// Tagged dollar-quote: $tag$ ... $tag$ — tag is an identifier run.
	if len(s) > 1 {
		r, size := utf8.DecodeRuneInString(s[1:])
		if isIdentStart(r) {
			i := 1 + size
			for i < len(s) {
				r2, size2 := utf8.DecodeRuneInString(s[i:])
				if r2 == '$' {
					tag := s[1:i]
					return l.scanDollarQuoted(startPos, startLine, startCol, tag)
				}
				if !isIdentContinue(r2) {
					break
				}
				i += size2
			}
		}
	}

	// Positional parameter: $1, $2, ...
	if len(s) > 1 && unicode.IsDigit(rune(s[1])) {
		i := 1
		for i < len(s) && unicode.IsDigit(rune(s[i])) {
			i++
		}
		text := s[:i]
		l.advance(text)
		return l.emit(token.Token{Kind: token.Parameter, Text: text, Position: startPos, Line: startLine, Column: startCol})
	}

	// Bare `$` with no valid dollar-quote and no digit suffix: emit as an
	// operator rather than erroring, per spec.md §4.1/§8 ("the tokenizer
	// does not throw").
	l.advance("$")
	return l.emit(token.Token{Kind: token.Operator, Text: "$", Position: startPos, Line: startLine, Column: startCol})
}

// scanDollarQuoted consumes a PostgreSQL dollar-quoted string with the
// given tag (empty for `$$...$$`). Matching is by exact delimiter; the
// first matching close wins.
func (l *lexer) scanDollarQuoted(startPos, startLine, startCol int, tag string) error {
	delim := "$" + tag + "$"
	body := l.rest()[len(delim):]
	end := strings.Index(body, delim)
	if end < 0 {
		// Unterminated: emit the opening delimiter as a bare operator run
		// rather than failing the whole tokenize call, consistent with
		// the "$ never throws" rule extended to malformed dollar-quotes
		// that share its prefix.
		l.advance("$")
		return l.emit(token.Token{Kind: token.Operator, Text: "$", Position: startPos, Line: startLine, Column: startCol})
	}
	text := l.rest()[:len(delim)+end+len(delim)]
	l.advance(text)
	return l.emit(token.Token{Kind: token.String, Text: text, Position: startPos, Line: startLine, Column: startCol})
}

func (l *lexer) scanColonParamOrOperator() error {
	startPos, startLine, startCol := l.pos, l.line, l.col
	s := l.rest()
	if strings.HasPrefix(s, "::") {
		return l.scanOperatorOrPunct()
	}
	if len(s) > 1 {
		r, _ := utf8.DecodeRuneInString(s[1:])
		if isIdentStart(r) || unicode.IsDigit(r) {
			i := 1
			for i < len(s) {
				r2, size2 := utf8.DecodeRuneInString(s[i:])
				if i == 1 {
					if !isIdentStart(r2) && !unicode.IsDigit(r2) {
						break
					}
				} else if !isIdentContinue(r2) {
					break
				}
				i += size2
			}
			text := s[:i]
			l.advance(text)
			return l.emit(token.Token{Kind: token.Parameter, Text: text, Position: startPos, Line: startLine, Column: startCol})
		}
	}
	return l.scanOperatorOrPunct()
}

func (l *lexer) scanQuestionParamOrOperator() error {
	startPos, startLine, startCol := l.pos, l.line, l.col
	s := l.rest()
	if strings.HasPrefix(s, "?|") || strings.HasPrefix(s, "?&") {
		return l.scanOperatorOrPunct()
	}
	i := 1
	for i < len(s) && unicode.IsDigit(rune(s[i])) {
		i++
	}
	text := s[:i]
	l.advance(text)
	return l.emit(token.Token{Kind: token.Parameter, Text: text, Position: startPos, Line: startLine, Column: startCol})
}

func (l *lexer) scanAmpParamOrOperator() error {
	startPos, startLine, startCol := l.pos, l.line, l.col
	s := l.rest()
	lead := 1
	if strings.HasPrefix(s, "&&") {
		lead = 2
	}
	if len(s) > lead {
		r, _ := utf8.DecodeRuneInString(s[lead:])
		if isIdentStart(r) {
			i := lead
			for i < len(s) {
				r2, size2 := utf8.DecodeRuneInString(s[i:])
				if !isIdentContinue(r2) {
					break
				}
				i += size2
			}
			text := s[:i]
			l.advance(text)
			return l.emit(token.Token{Kind: token.Parameter, Text: text, Position: startPos, Line: startLine, Column: startCol})
		}
	}
	return l.scanOperatorOrPunct()
}

func (l *lexer) scanAtParamOrOperator() error {
	startPos, startLine, startCol := l.pos, l.line, l.col
	s := l.rest()
	lead := 1
	if strings.HasPrefix(s, "@@") {
		lead = 2
	}
	if len(s) > lead {
		r, _ := utf8.DecodeRuneInString(s[lead:])
		if isIdentStart(r) {
			i := lead
			for i < len(s) {
				r2, size2 := utf8.DecodeRuneInString(s[i:])
				if !isIdentContinue(r2) {
					break
				}
				i += size2
			}
			text := s[:i]
			l.advance(text)
			return l.emit(token.Token{Kind: token.Parameter, Text: text, Position: startPos, Line: startLine, Column: startCol})
		}
	}
	return l.scanOperatorOrPunct()
}

// scanTemplateParam handles `{{template}}` parameters.
func (l *lexer) scanTemplateParam() error {
	startPos, startLine, startCol := l.pos, l.line, l.col
	end := strings.Index(l.rest()[2:], "}}")
	if end < 0 {
		return l.scanOperatorOrPunct()
	}
	text := l.rest()[:end+4]
	l.advance(text)
	return l.emit(token.Token{Kind: token.Parameter, Text: text, Position: startPos, Line: startLine, Column: startCol})
}

func (l *lexer) scanOperatorFixed(op string) error {
	startPos, startLine, startCol := l.pos, l.line, l.col
	l.advance(op)
	return l.emit(token.Token{Kind: token.Operator, Text: op, Position: startPos, Line: startLine, Column: startCol})
}
