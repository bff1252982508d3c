package parser

import (
	"strings"

	"github.com/vinsidious/sqlfmt/ast"
	"github.com/vinsidious/sqlfmt/token"
)

func (p *parser) parsePrimary() (ast.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	t := p.cur()
	switch {
	case t.Kind == token.Number:
		p.advance()
		return &ast.Literal{Text: t.Text}, nil
	case t.Kind == token.String:
		return p.parseStringPrimary(t)
	case t.Kind == token.Parameter:
		p.advance()
		return &ast.Param{Text: t.Text}, nil
	case t.Kind == token.Operator && t.Text == "*":
		p.advance()
		return &ast.Star{}, nil
	case p.isKw("NULL"):
		p.advance()
		return &ast.NullLit{}, nil
	case p.isKw("TRUE"):
		p.advance()
		return &ast.BoolLit{Value: true}, nil
	case p.isKw("FALSE"):
		p.advance()
		return &ast.BoolLit{Value: false}, nil
	case p.isKw("CASE"):
		return p.parseCaseExpr()
	case p.isKw("CAST"):
		return p.parseCastExpr()
	case p.isKw("EXTRACT"):
		return p.parseExtractExpr()
	case p.isKw("INTERVAL"):
		return p.parseIntervalExpr()
	case p.isKw("EXISTS"):
		return p.parseExistsExpr()
	case p.isKw("ARRAY"):
		return p.parseArrayExpr()
	case p.isKw("NOT"):
		return p.parseNotExpr()
	case isTypedStringIntroducer(t):
		return p.parseTypedStringExpr()
	case p.isPunct("("):
		return p.parseParenOrTuple()
	case t.Kind == token.Identifier || t.Kind == token.Keyword:
		return p.parseIdentOrCall()
	default:
		return nil, p.errHere("expected expression")
	}
}

func (p *parser) parseStringPrimary(t token.Token) (ast.Expr, error) {
	p.advance()
	lit := ast.Expr(&ast.Literal{Text: t.Text})
	// Adjacent string literals are implicitly concatenated by the grammar
	// (standard SQL line-continuation); represent that explicitly so the
	// formatter always has a concrete `||` to align on.
	for p.cur().Kind == token.String {
		next := p.cur()
		p.advance()
		lit = &ast.Binary{Left: lit, Operator: "||", Right: &ast.Literal{Text: next.Text}}
	}
	return lit, nil
}

var typedStringKeywords = map[string]bool{
	"DATE": true, "TIME": true, "TIMESTAMP": true,
}

func isTypedStringIntroducer(t token.Token) bool {
	return t.Kind == token.Keyword && typedStringKeywords[t.Upper]
}

func (p *parser) parseTypedStringExpr() (ast.Expr, error) {
	name := p.cur().Upper
	p.advance()
	for p.isAnyKw("WITH", "WITHOUT", "LOCAL", "TIME", "ZONE") {
		name += " " + p.cur().Upper
		p.advance()
	}
	if p.cur().Kind != token.String {
		// Bare keyword used as an identifier/function, not a typed literal.
		return &ast.Ident{Parts: []string{name}}, nil
	}
	val := p.cur().Text
	p.advance()
	return &ast.TypedString{TypeName: name, Value: val}, nil
}

func (p *parser) parseCaseExpr() (ast.Expr, error) {
	p.advance() // CASE
	c := &ast.CaseExpr{}
	if !p.isKw("WHEN") {
		operand, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		c.Operand = operand
	}
	for p.isKw("WHEN") {
		p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectKw("THEN"); err != nil {
			return nil, err
		}
		result, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		c.Whens = append(c.Whens, ast.WhenClause{Condition: cond, Result: result})
	}
	if p.isKw("ELSE") {
		p.advance()
		elseExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		c.Else = elseExpr
	}
	if err := p.expectKw("END"); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *parser) parseCastExpr() (ast.Expr, error) {
	p.advance() // CAST
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	operand, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKw("AS"); err != nil {
		return nil, err
	}
	typeName, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return &ast.Cast{Operand: operand, TypeName: typeName}, nil
}

func (p *parser) parseExtractExpr() (ast.Expr, error) {
	p.advance() // EXTRACT
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	field := p.cur().Text
	p.advance()
	if err := p.expectKw("FROM"); err != nil {
		return nil, err
	}
	source, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return &ast.Extract{Field: field, Source: source}, nil
}

func (p *parser) parseIntervalExpr() (ast.Expr, error) {
	p.advance() // INTERVAL
	if p.cur().Kind != token.String {
		return nil, p.errHere("expected string literal after INTERVAL")
	}
	val := p.cur().Text
	p.advance()
	iv := &ast.Interval{Value: val}
	if p.cur().Kind == token.Keyword {
		iv.FromUnit = p.cur().Upper
		p.advance()
		if p.isKw("TO") {
			p.advance()
			iv.ToUnit = p.cur().Upper
			p.advance()
		}
	}
	return iv, nil
}

func (p *parser) parseExistsExpr() (ast.Expr, error) {
	p.advance() // EXISTS
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	q, err := p.parseSelectChain(nil)
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return &ast.Exists{Query: q}, nil
}

func (p *parser) parseArrayExpr() (ast.Expr, error) {
	p.advance() // ARRAY
	if p.isPunct("(") {
		p.advance()
		q, err := p.parseSelectChain(nil)
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return &ast.ArrayConstructor{Query: q}, nil
	}
	if err := p.expectPunct("["); err != nil {
		return nil, err
	}
	var items []ast.Expr
	if !p.isPunct("]") {
		var err error
		items, err = p.parseExprList()
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectPunct("]"); err != nil {
		return nil, err
	}
	return &ast.ArrayConstructor{Items: items}, nil
}

func (p *parser) parseParenOrTuple() (ast.Expr, error) {
	p.advance() // (
	if p.isKw("SELECT") || p.isKw("WITH") {
		q, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return &ast.Subquery{Query: q}, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.isPunct(",") {
		items := []ast.Expr{first}
		for p.tryPunct(",") {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			items = append(items, e)
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return &ast.Tuple{Items: items}, nil
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return &ast.Paren{Inner: first}, nil
}

// parseIdentOrCall reads a dotted identifier, then decides between a plain
// identifier reference, `ident.*`, and a function call based on what
// follows.
func (p *parser) parseIdentOrCall() (ast.Expr, error) {
	parts := []string{p.cur().Text}
	p.advance()
	for p.isPunct(".") {
		p.advance()
		if p.isOperator("*") {
			p.advance()
			return &ast.Star{Qualifier: strings.Join(parts, ".")}, nil
		}
		parts = append(parts, p.cur().Text)
		p.advance()
	}
	if p.isPunct("(") {
		return p.parseFuncCallTail(strings.Join(parts, "."))
	}
	return &ast.Ident{Parts: parts}, nil
}

func (p *parser) parseFuncCallTail(name string) (ast.Expr, error) {
	p.advance() // (
	fc := &ast.FuncCall{Name: name}
	if p.isKw("DISTINCT") {
		p.advance()
		fc.Distinct = true
	}
	if !p.isPunct(")") {
		if p.isOperator("*") {
			p.advance()
			fc.Args = []ast.Expr{&ast.Star{}}
		} else {
			args, err := p.parseExprList()
			if err != nil {
				return nil, err
			}
			fc.Args = args
		}
		if p.isKw("ORDER") {
			orderBy, err := p.parseOrderByItems()
			if err != nil {
				return nil, err
			}
			fc.WithinGroup = orderBy
		}
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	if p.isKw("WITHIN") {
		p.advance()
		if err := p.expectKw("GROUP"); err != nil {
			return nil, err
		}
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		orderBy, err := p.parseOrderByItems()
		if err != nil {
			return nil, err
		}
		fc.WithinGroup = orderBy
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
	}
	if p.isKw("FILTER") {
		p.advance()
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		if err := p.expectKw("WHERE"); err != nil {
			return nil, err
		}
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fc.Filter = cond
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
	}
	if p.isKw("OVER") {
		p.advance()
		if p.isPunct("(") {
			spec, err := p.parseWindowSpecBody()
			if err != nil {
				return nil, err
			}
			fc.Over = spec
		} else {
			fc.OverName = p.cur().Text
			p.advance()
		}
	}
	return fc, nil
}
