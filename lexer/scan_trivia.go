package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vinsidious/sqlfmt/token"
)

func (l *lexer) scanWhitespace() error {
	startPos, startLine, startCol := l.pos, l.line, l.col
	i := 0
	for i < len(l.rest()) {
		r, size := utf8.DecodeRuneInString(l.rest()[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	text := l.rest()[:i]
	l.advance(text)
	return l.emit(token.Token{Kind: token.Whitespace, Text: text, Position: startPos, Line: startLine, Column: startCol})
}

// scanLineComment consumes a "-- to EOL" / "REM ..." / "# ..." comment.
// Trailing ASCII whitespace is trimmed from the emitted token text, per
// spec.md §4.1 (an Open Question the spec explicitly tells us to keep).
func (l *lexer) scanLineComment(marker string) error {
	startPos, startLine, startCol := l.pos, l.line, l.col
	nl := strings.IndexByte(l.rest(), '\n')
	var full string
	if nl < 0 {
		full = l.rest()
	} else {
		full = l.rest()[:nl]
	}
	text := strings.TrimRight(full, " \t\r")
	_ = marker
	l.advance(text)
	return l.emit(token.Token{Kind: token.LineComment, Text: text, Position: startPos, Line: startLine, Column: startCol})
}

func (l *lexer) scanBlockComment() error {
	startPos, startLine, startCol := l.pos, l.line, l.col
	end := strings.Index(l.rest()[2:], "*/")
	if end < 0 {
		return newErrorAt(startPos, startLine, startCol, "unterminated block comment")
	}
	text := l.rest()[:end+4]
	l.advance(text)
	return l.emit(token.Token{Kind: token.BlockComment, Text: text, Position: startPos, Line: startLine, Column: startCol})
}

// scanMetaCommand recognizes a psql backslash-line under AllowMetaCommands,
// emitted as a LineComment so the parser's recovery boundary scan and the
// formatter treat it uniformly with other line-oriented trivia.
func (l *lexer) scanMetaCommand() error {
	startPos, startLine, startCol := l.pos, l.line, l.col
	nl := strings.IndexByte(l.rest(), '\n')
	var full string
	if nl < 0 {
		full = l.rest()
	} else {
		full = l.rest()[:nl]
	}
	text := strings.TrimRight(full, " \t\r")
	l.advance(text)
	return l.emit(token.Token{Kind: token.LineComment, Text: text, Position: startPos, Line: startLine, Column: startCol})
}

// scanCopyDataLine implements the `COPY ... FROM STDIN` data-line mode: one
// LineComment token per line until a line equal to "\." closes it. Entered
// automatically once the lexer observes a `FROM STDIN` token pair followed
// by the statement-terminating `;` (see maybeEnterCopyMode).
func (l *lexer) scanCopyDataLine() error {
	startPos, startLine, startCol := l.pos, l.line, l.col
	nl := strings.IndexByte(l.rest(), '\n')
	var line string
	if nl < 0 {
		line = l.rest()
	} else {
		line = l.rest()[:nl]
	}
	if l.pos > 0 && l.src[l.pos-1] != '\n' && strings.TrimSpace(line) == "" {
		// The blank rest of the COPY statement's own line, after its `;`,
		// is whitespace, not a data line.
		text := line
		if nl >= 0 {
			text = l.rest()[:nl+1]
		}
		l.advance(text)
		return l.emit(token.Token{Kind: token.Whitespace, Text: text, Position: startPos, Line: startLine, Column: startCol})
	}
	l.advance(line)
	if nl >= 0 {
		l.advance("\n")
	}
	if strings.TrimRight(line, "\r") == `\.` {
		l.copyStdin = false
	}
	return l.emit(token.Token{Kind: token.LineComment, Text: line, Position: startPos, Line: startLine, Column: startCol})
}

// maybeEnterCopyMode inspects the token just emitted and the one before it
// to recognize `FROM STDIN` (arming copyPending) and the `;` that follows
// it (switching the lexer into copy-data mode for the next line onward).
func (l *lexer) maybeEnterCopyMode(t token.Token) {
	if t.Kind == token.Keyword || t.Kind == token.Identifier {
		if t.Upper == "STDIN" && l.prevSignificantUpper == "FROM" {
			l.copyPending = true
		}
	}
	if l.copyPending && t.IsPunct(";") {
		l.copyPending = false
		l.copyStdin = true
	}
	if t.Kind != token.Whitespace && t.Kind != token.LineComment && t.Kind != token.BlockComment && t.Kind != token.EOF {
		l.prevSignificantUpper = t.Upper
	}
}
