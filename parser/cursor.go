package parser

import (
	"fmt"
	"strings"

	"github.com/vinsidious/sqlfmt/ast"
	"github.com/vinsidious/sqlfmt/token"
)

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.opts.maxDepth() {
		return &MaxDepthError{MaxDepth: p.opts.maxDepth()}
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) peek(n int) token.Token {
	i := p.pos + n
	if i >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[i]
}

func (p *parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	p.skipTrivia()
	return t
}

// skipTrivia moves past Whitespace tokens. Comment tokens are left in
// place; takeLeadingComments collects the ones that precede a statement.
func (p *parser) skipTrivia() {
	for p.pos < len(p.tokens) {
		k := p.tokens[p.pos].Kind
		if k == token.Whitespace {
			p.pos++
			continue
		}
		break
	}
}

func (p *parser) skipSemicolons() {
	for p.isPunct(";") {
		p.advance()
	}
}

func (p *parser) atEOF() bool {
	return p.cur().Kind == token.EOF
}

func (p *parser) isKw(upper string) bool {
	t := p.cur()
	return t.Kind == token.Keyword && t.Upper == upper
}

func (p *parser) isAnyKw(uppers ...string) bool {
	t := p.cur()
	if t.Kind != token.Keyword {
		return false
	}
	for _, u := range uppers {
		if t.Upper == u {
			return true
		}
	}
	return false
}

func (p *parser) peekIsKw(n int, upper string) bool {
	t := p.peek(n)
	return t.Kind == token.Keyword && t.Upper == upper
}

func (p *parser) isPunct(text string) bool {
	return p.cur().IsPunct(text)
}

func (p *parser) isOperator(text string) bool {
	return p.cur().IsOperator(text)
}

func (p *parser) isIdent() bool {
	return p.cur().Kind == token.Identifier
}

// expectKw consumes a keyword token, matching case-insensitively against
// Upper, and errors if it's not present.
func (p *parser) expectKw(upper string) error {
	if !p.isKw(upper) {
		return p.errHere(fmt.Sprintf("expected %s", upper))
	}
	p.advance()
	return nil
}

func (p *parser) expectPunct(text string) error {
	if !p.isPunct(text) {
		return p.errHere(fmt.Sprintf("expected %q", text))
	}
	p.advance()
	return nil
}

func (p *parser) tryKw(upper string) bool {
	if p.isKw(upper) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) tryPunct(text string) bool {
	if p.isPunct(text) {
		p.advance()
		return true
	}
	return false
}

// tryKwSeq consumes a fixed sequence of keywords only if all are present,
// leaving the cursor untouched otherwise.
func (p *parser) tryKwSeq(uppers ...string) bool {
	for i, u := range uppers {
		if !p.peekIsKw(i, u) {
			return false
		}
	}
	for range uppers {
		p.advance()
	}
	return true
}

func (p *parser) errHere(msg string) error {
	t := p.cur()
	return &ParseError{Position: t.Position, Line: t.Line, Column: t.Column, Message: msg + ", got " + describeToken(t)}
}

func (p *parser) failHere(msg string) (ast.Statement, error) {
	return nil, p.errHere(msg)
}

func describeToken(t token.Token) string {
	if t.Kind == token.EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Text)
}

// parseIdentPath reads a dotted identifier path (schema.table, a.b.c),
// returning the joined display form (quoting preserved per segment).
func (p *parser) parseIdentPath() (string, error) {
	if !p.isIdent() && p.cur().Kind != token.Keyword {
		return "", p.errHere("expected identifier")
	}
	parts := []string{p.cur().Text}
	p.advance()
	for p.isPunct(".") {
		p.advance()
		if !p.isIdent() && p.cur().Kind != token.Keyword && !p.isOperator("*") {
			return "", p.errHere("expected identifier after '.'")
		}
		parts = append(parts, p.cur().Text)
		p.advance()
	}
	return strings.Join(parts, "."), nil
}

// takeLeadingComments collects contiguous comment tokens (and the
// whitespace between them) immediately preceding the next significant
// token, attaching them as leading comments of the node about to be
// parsed.
func (p *parser) takeLeadingComments() []ast.Comment {
	var out []ast.Comment
	for p.pos < len(p.tokens) {
		t := p.tokens[p.pos]
		switch t.Kind {
		case token.Whitespace:
			p.pos++
		case token.LineComment:
			out = append(out, ast.Comment{Text: t.Text, Block: false})
			p.pos++
		case token.BlockComment:
			out = append(out, ast.Comment{Text: t.Text, Block: true})
			p.pos++
		default:
			return out
		}
	}
	return out
}

// parseIdentList reads a parenthesized, comma-separated list of column
// names: (a, b, c).
func (p *parser) parseIdentList() ([]string, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var names []string
	for {
		name, err := p.parseIdentPath()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if p.tryPunct(",") {
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return names, nil
}
