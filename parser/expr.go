package parser

import (
	"strings"

	"github.com/vinsidious/sqlfmt/ast"
	"github.com/vinsidious/sqlfmt/token"
)

// Precedence levels, low to high (spec.md §4.3's operator table).
const (
	precNone = iota
	precOr
	precAnd
	precNot
	precComparison // = <> < > <= >= IS IN BETWEEN LIKE ~ etc.
	precBitOr
	precBitAnd
	precShift
	precConcat // ||
	precAdd    // + -
	precMul    // * / %
	precExp    // ^
	precUnary
)

var binOpPrec = map[string]int{
	"||": precConcat,
	"+":  precAdd, "-": precAdd,
	"*": precMul, "/": precMul, "%": precMul,
	"^": precExp,
	"<<": precShift, ">>": precShift,
	"&": precBitAnd,
	"|": precBitOr,
	"#": precBitOr,
	"@>": precComparison, "<@": precComparison, "?": precComparison,
	"?|": precComparison, "?&": precComparison, "@@": precComparison,
	"->": precConcat, "->>": precConcat, "#>": precConcat, "#>>": precConcat,
}

var comparisonOps = map[string]bool{
	"=": true, "<>": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
}

func (p *parser) parseExpr() (ast.Expr, error) {
	return p.parseOrExpr()
}

func (p *parser) parseOrExpr() (ast.Expr, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.isKw("OR") {
		p.advance()
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Operator: "OR", Right: right}
	}
	return left, nil
}

func (p *parser) parseAndExpr() (ast.Expr, error) {
	left, err := p.parseNotExpr()
	if err != nil {
		return nil, err
	}
	for p.isKw("AND") {
		p.advance()
		right, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Operator: "AND", Right: right}
	}
	return left, nil
}

func (p *parser) parseNotExpr() (ast.Expr, error) {
	if p.isKw("NOT") {
		p.advance()
		operand, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Operator: "NOT", Operand: operand}, nil
	}
	return p.parseComparisonExpr()
}

func (p *parser) parseComparisonExpr() (ast.Expr, error) {
	left, err := p.parseBitOrExpr()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.cur().Kind == token.Operator && comparisonOps[p.cur().Upper]:
			op := p.cur().Text
			p.advance()
			if quant, ok := p.tryQuantifier(); ok {
				query, list, err := p.parseQuantifiedOperand()
				if err != nil {
					return nil, err
				}
				left = &ast.QuantifiedComparison{Left: left, Operator: op, Quantifier: quant, Query: query, List: list}
				continue
			}
			right, err := p.parseBitOrExpr()
			if err != nil {
				return nil, err
			}
			left = &ast.Binary{Left: left, Operator: op, Right: right}
		case p.isKw("IS"):
			left, err = p.parseIsTail(left)
			if err != nil {
				return nil, err
			}
		case p.matchesNotPrefix("BETWEEN"):
			left, err = p.parseBetweenTail(left)
			if err != nil {
				return nil, err
			}
		case p.matchesNotPrefix("IN"):
			left, err = p.parseInTail(left)
			if err != nil {
				return nil, err
			}
		case p.matchesNotPrefix("LIKE") || p.matchesNotPrefix("ILIKE") || p.matchesNotPrefixSeq("SIMILAR", "TO"):
			left, err = p.parseLikeTail(left)
			if err != nil {
				return nil, err
			}
		case p.isOperator("~") || p.isOperator("!~") || p.isOperator("~*") || p.isOperator("!~*"):
			op := p.cur().Text
			p.advance()
			pattern, err := p.parseBitOrExpr()
			if err != nil {
				return nil, err
			}
			left = &ast.RegexMatch{Operand: left, Operator: op, Pattern: pattern}
		default:
			return left, nil
		}
	}
}

// matchesNotPrefix reports (without consuming) whether the cursor is at
// `kw` or at `NOT kw`.
func (p *parser) matchesNotPrefix(kw string) bool {
	if p.isKw(kw) {
		return true
	}
	return p.isKw("NOT") && p.peekIsKw(1, kw)
}

func (p *parser) matchesNotPrefixSeq(kw1, kw2 string) bool {
	if p.isKw(kw1) && p.peekIsKw(1, kw2) {
		return true
	}
	return p.isKw("NOT") && p.peekIsKw(1, kw1) && p.peekIsKw(2, kw2)
}

func (p *parser) consumeNot() bool {
	if p.isKw("NOT") {
		p.advance()
		return true
	}
	return false
}

func (p *parser) tryQuantifier() (string, bool) {
	if p.isAnyKw("ANY", "ALL", "SOME") {
		q := p.cur().Upper
		p.advance()
		return q, true
	}
	return "", false
}

func (p *parser) parseQuantifiedOperand() (ast.Statement, []ast.Expr, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, nil, err
	}
	if p.isKw("SELECT") {
		q, err := p.parseSelectChain(nil)
		if err != nil {
			return nil, nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, nil, err
		}
		return q, nil, nil
	}
	list, err := p.parseExprList()
	if err != nil {
		return nil, nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, nil, err
	}
	return nil, list, nil
}

func (p *parser) parseIsTail(left ast.Expr) (ast.Expr, error) {
	p.advance() // IS
	not := p.consumeNot()
	if p.isKw("DISTINCT") {
		p.advance()
		if err := p.expectKw("FROM"); err != nil {
			return nil, err
		}
		right, err := p.parseBitOrExpr()
		if err != nil {
			return nil, err
		}
		return &ast.IsDistinctFrom{Left: left, Not: not, Right: right}, nil
	}
	switch {
	case p.isKw("NULL"):
		p.advance()
		return &ast.IsCheck{Operand: left, Not: not, What: "NULL"}, nil
	case p.isKw("TRUE"):
		p.advance()
		return &ast.IsCheck{Operand: left, Not: not, What: "TRUE"}, nil
	case p.isKw("FALSE"):
		p.advance()
		return &ast.IsCheck{Operand: left, Not: not, What: "FALSE"}, nil
	case p.isKw("UNKNOWN"):
		p.advance()
		return &ast.IsCheck{Operand: left, Not: not, What: "UNKNOWN"}, nil
	}
	return nil, p.errHere("expected NULL, TRUE, FALSE, UNKNOWN or DISTINCT FROM after IS")
}

func (p *parser) parseBetweenTail(left ast.Expr) (ast.Expr, error) {
	not := p.consumeNot()
	p.advance() // BETWEEN
	low, err := p.parseBitOrExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKw("AND"); err != nil {
		return nil, err
	}
	high, err := p.parseBitOrExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Between{Operand: left, Not: not, Low: low, High: high}, nil
}

func (p *parser) parseInTail(left ast.Expr) (ast.Expr, error) {
	not := p.consumeNot()
	p.advance() // IN
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	if p.isKw("SELECT") {
		q, err := p.parseSelectChain(nil)
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return &ast.InExpr{Operand: left, Not: not, Query: q}, nil
	}
	list, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return &ast.InExpr{Operand: left, Not: not, List: list}, nil
}

func (p *parser) parseLikeTail(left ast.Expr) (ast.Expr, error) {
	not := p.consumeNot()
	kind := p.cur().Upper
	if kind == "SIMILAR" {
		p.advance() // SIMILAR
		p.advance() // TO
		kind = "SIMILAR TO"
	} else {
		p.advance()
	}
	pattern, err := p.parseBitOrExpr()
	if err != nil {
		return nil, err
	}
	var escape ast.Expr
	if p.isKw("ESCAPE") {
		p.advance()
		escape, err = p.parseBitOrExpr()
		if err != nil {
			return nil, err
		}
	}
	return &ast.Like{Operand: left, Not: not, Kind: kind, Pattern: pattern, Escape: escape}, nil
}

func (p *parser) parseBitOrExpr() (ast.Expr, error) {
	return p.parseBinaryLevel(precBitOr)
}

// parseBinaryLevel implements precedence climbing for the purely
// arithmetic/bitwise/concatenation operator levels above `precComparison`.
func (p *parser) parseBinaryLevel(minPrec int) (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		if p.cur().Kind != token.Operator {
			return left, nil
		}
		op := p.cur().Text
		prec, ok := binOpPrec[op]
		if !ok || prec < minPrec || prec >= precUnary {
			return left, nil
		}
		p.advance()
		right, err := p.parseBinaryLevelAbove(prec)
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Operator: op, Right: right}
	}
}

func (p *parser) parseBinaryLevelAbove(prec int) (ast.Expr, error) {
	return p.parseBinaryLevel(prec + 1)
}

func (p *parser) parseUnary() (ast.Expr, error) {
	if p.cur().Kind == token.Operator && (p.cur().Text == "-" || p.cur().Text == "+" || p.cur().Text == "~") {
		op := p.cur().Text
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Operator: op, Operand: operand}, nil
	}
	return p.parsePostfix()
}

// parsePostfix handles `::type` casts, ISNULL/NOTNULL postfixes.
func (p *parser) parsePostfix() (ast.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isOperator("::"):
			p.advance()
			typeName, err := p.parseTypeName()
			if err != nil {
				return nil, err
			}
			e = &ast.Cast{Operand: e, TypeName: typeName, DoubleColon: true}
		case p.isKw("ISNULL"):
			p.advance()
			e = &ast.IsCheck{Operand: e, What: "NULL"}
		case p.isKw("NOTNULL"):
			p.advance()
			e = &ast.IsCheck{Operand: e, Not: true, What: "NULL"}
		case p.isPunct("["):
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			e = &ast.Binary{Left: e, Operator: "[]", Right: idx}
		default:
			return e, nil
		}
	}
}

func (p *parser) parseExprList() ([]ast.Expr, error) {
	var items []ast.Expr
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, e)
		if p.tryPunct(",") {
			continue
		}
		break
	}
	return items, nil
}

// parseTypeName reads a (possibly multi-word, possibly parameterized) type
// name: `INTEGER`, `NUMERIC(10,2)`, `TIMESTAMP WITH TIME ZONE`, `foo.bar[]`.
func (p *parser) parseTypeName() (string, error) {
	var parts []string
	if !p.isIdent() && p.cur().Kind != token.Keyword {
		return "", p.errHere("expected type name")
	}
	parts = append(parts, p.cur().Text)
	p.advance()
	for p.isPunct(".") {
		p.advance()
		parts = append(parts, p.cur().Text)
		p.advance()
	}
	for multiWordTypeContinuation(p) {
		parts = append(parts, p.cur().Text)
		p.advance()
	}
	name := strings.Join(parts, " ")
	if p.isPunct("(") {
		p.advance()
		var args []string
		for !p.isPunct(")") {
			args = append(args, p.cur().Text)
			p.advance()
			if p.tryPunct(",") {
				continue
			}
		}
		if err := p.expectPunct(")"); err != nil {
			return "", err
		}
		name += "(" + strings.Join(args, ", ") + ")"
	}
	for p.isPunct("[") && p.peek(1).IsPunct("]") {
		p.advance()
		p.advance()
		name += "[]"
	}
	return name, nil
}

var typeContinuationWords = map[string]bool{
	"PRECISION": true, "VARYING": true, "ZONE": true, "WITH": true, "WITHOUT": true, "TIME": true, "LOCAL": true,
}

func multiWordTypeContinuation(p *parser) bool {
	t := p.cur()
	return t.Kind == token.Keyword && typeContinuationWords[t.Upper]
}
