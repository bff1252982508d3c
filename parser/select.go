package parser

import (
	"github.com/vinsidious/sqlfmt/ast"
)

func (p *parser) parseOptionalWithClause() ([]ast.Cte, bool, error) {
	if !p.isKw("WITH") {
		return nil, false, nil
	}
	p.advance()
	recursive := p.tryKw("RECURSIVE")
	var ctes []ast.Cte
	for {
		name, err := p.parseIdentPath()
		if err != nil {
			return nil, false, err
		}
		cte := ast.Cte{Name: name}
		if p.isPunct("(") {
			cols, err := p.parseIdentList()
			if err != nil {
				return nil, false, err
			}
			cte.Columns = cols
		}
		if err := p.expectKw("AS"); err != nil {
			return nil, false, err
		}
		if p.isKw("MATERIALIZED") {
			p.advance()
			cte.Materialized = "MATERIALIZED"
		} else if p.isKw("NOT") && p.peekIsKw(1, "MATERIALIZED") {
			p.advance()
			p.advance()
			cte.Materialized = "NOT MATERIALIZED"
		}
		if err := p.expectPunct("("); err != nil {
			return nil, false, err
		}
		query, err := p.parseStatement()
		if err != nil {
			return nil, false, err
		}
		cte.Query = query
		if err := p.expectPunct(")"); err != nil {
			return nil, false, err
		}
		ctes = append(ctes, cte)
		if p.tryPunct(",") {
			continue
		}
		break
	}
	return ctes, recursive, nil
}

// parseSelectChain parses a SELECT and folds any trailing
// UNION/INTERSECT/EXCEPT into an ast.Union, attaching a shared trailing
// ORDER BY/LIMIT/OFFSET the way the grammar allows after the last arm.
func (p *parser) parseSelectChain(ctes []ast.Cte) (ast.Statement, error) {
	left, err := p.parseSelectCore(ctes)
	if err != nil {
		return nil, err
	}
	var result ast.Statement = left
	for p.isAnyKw("UNION", "INTERSECT", "EXCEPT") {
		op := setOpFor(p.cur().Upper)
		p.advance()
		all := p.tryKw("ALL")
		_ = p.tryKw("DISTINCT")
		var right ast.Statement
		if p.isKw("SELECT") {
			right, err = p.parseSelectCore(nil)
		} else if p.isPunct("(") {
			p.advance()
			right, err = p.parseSelectChain(nil)
			if err == nil {
				if err2 := p.expectPunct(")"); err2 != nil {
					err = err2
				}
			}
		} else {
			err = p.errHere("expected SELECT after set operator")
		}
		if err != nil {
			return nil, err
		}
		result = &ast.Union{Left: result, Op: op, All: all, Right: right}
	}
	if u, ok := result.(*ast.Union); ok {
		if err := p.parseUnionTrailer(u); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func setOpFor(upper string) ast.SetOp {
	switch upper {
	case "INTERSECT":
		return ast.IntersectOp
	case "EXCEPT":
		return ast.ExceptOp
	default:
		return ast.UnionOp
	}
}

func (p *parser) parseUnionTrailer(u *ast.Union) error {
	if p.isKw("ORDER") {
		items, err := p.parseOrderByItems()
		if err != nil {
			return err
		}
		u.OrderBy = items
	}
	if p.isKw("LIMIT") {
		p.advance()
		limit, err := p.parseExpr()
		if err != nil {
			return err
		}
		u.Limit = limit
	}
	if p.isKw("OFFSET") {
		p.advance()
		offset, err := p.parseExpr()
		if err != nil {
			return err
		}
		u.Offset = offset
		p.tryKw("ROW")
		p.tryKw("ROWS")
	}
	return nil
}

func (p *parser) parseSelectCore(ctes []ast.Cte) (*ast.Select, error) {
	if err := p.expectKw("SELECT"); err != nil {
		return nil, err
	}
	s := &ast.Select{Ctes: ctes}
	if p.isKw("DISTINCT") {
		p.advance()
		s.Distinct = true
		if p.isKw("ON") {
			p.advance()
			if err := p.expectPunct("("); err != nil {
				return nil, err
			}
			items, err := p.parseExprList()
			if err != nil {
				return nil, err
			}
			s.DistinctOn = items
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
		}
	} else {
		p.tryKw("ALL")
	}

	items, err := p.parseSelectItems()
	if err != nil {
		return nil, err
	}
	s.Columns = items

	if p.isKw("INTO") {
		p.advance()
		name, err := p.parseIdentPath()
		if err != nil {
			return nil, err
		}
		s.Into = name
	}

	if p.isKw("FROM") {
		p.advance()
		from, err := p.parseFromList()
		if err != nil {
			return nil, err
		}
		s.From = from
	}

	if p.isKw("WHERE") {
		p.advance()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		s.Where = where
	}

	if p.isKw("GROUP") {
		gb, err := p.parseGroupByClause()
		if err != nil {
			return nil, err
		}
		s.GroupBy = gb
	}

	if p.isKw("HAVING") {
		p.advance()
		having, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		s.Having = having
	}

	if p.isKw("WINDOW") {
		p.advance()
		for {
			name := p.cur().Text
			p.advance()
			if err := p.expectKw("AS"); err != nil {
				return nil, err
			}
			if err := p.expectPunct("("); err != nil {
				return nil, err
			}
			spec, err := p.parseWindowSpecBody()
			if err != nil {
				return nil, err
			}
			spec.Name = name
			s.Windows = append(s.Windows, *spec)
			if p.tryPunct(",") {
				continue
			}
			break
		}
	}

	if p.isKw("ORDER") {
		items, err := p.parseOrderByItems()
		if err != nil {
			return nil, err
		}
		s.OrderBy = items
	}

	if p.isKw("LIMIT") {
		p.advance()
		if p.isKw("ALL") {
			p.advance()
		} else {
			limit, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			s.Limit = limit
		}
	}

	if p.isKw("OFFSET") {
		p.advance()
		offset, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		s.Offset = offset
		p.tryKw("ROW")
		p.tryKw("ROWS")
	}

	if p.isKw("FETCH") {
		p.advance()
		if !p.tryKw("FIRST") {
			if err := p.expectKw("NEXT"); err != nil {
				return nil, err
			}
		}
		var count ast.Expr
		if !p.isKw("ROW") && !p.isKw("ROWS") {
			var err error
			count, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		p.tryKw("ROW")
		p.tryKw("ROWS")
		withTies := false
		if p.isKw("ONLY") {
			p.advance()
		} else if p.tryKwSeq("WITH", "TIES") {
			withTies = true
		}
		s.Fetch = &ast.FetchClause{Count: count, WithTies: withTies}
	}

	for p.isKw("FOR") {
		lc, err := p.parseLockingClause()
		if err != nil {
			return nil, err
		}
		s.Locking = append(s.Locking, *lc)
	}

	return s, nil
}

func (p *parser) parseSelectItems() ([]ast.SelectItem, error) {
	var items []ast.SelectItem
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		item := ast.SelectItem{Expr: e}
		if p.isKw("AS") {
			p.advance()
			item.Alias = p.cur().Text
			p.advance()
		} else if p.isIdent() && !p.startsClauseKeyword() {
			item.Alias = p.cur().Text
			p.advance()
		}
		items = append(items, item)
		if p.tryPunct(",") {
			continue
		}
		break
	}
	return items, nil
}

// startsClauseKeyword reports whether the current token is a keyword that
// could only begin the next clause, used to decide whether a bare word
// following an expression is an unparenthesized alias.
func (p *parser) startsClauseKeyword() bool {
	return false // identifiers can't be ambiguous with keywords (different Kind)
}

func (p *parser) parseOrderByItems() ([]ast.OrderedExpr, error) {
	p.advance() // ORDER
	if err := p.expectKw("BY"); err != nil {
		return nil, err
	}
	var items []ast.OrderedExpr
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		oe := ast.OrderedExpr{Value: e}
		if p.isKw("ASC") {
			p.advance()
			oe.HasDir = true
		} else if p.isKw("DESC") {
			p.advance()
			oe.HasDir = true
			oe.Descending = true
		}
		if p.isKw("NULLS") {
			p.advance()
			oe.HasNulls = true
			if p.isKw("FIRST") {
				oe.NullsFirst = true
			} else if err := p.expectKw("LAST"); err != nil {
				return nil, err
			}
			p.advance()
		}
		items = append(items, oe)
		if p.tryPunct(",") {
			continue
		}
		break
	}
	return items, nil
}

func (p *parser) parseGroupByClause() (*ast.GroupByClause, error) {
	p.advance() // GROUP
	if err := p.expectKw("BY"); err != nil {
		return nil, err
	}
	gb := &ast.GroupByClause{}
	if p.isKw("ALL") {
		p.advance()
		gb.All = true
		return gb, nil
	}
	if p.isKw("ROLLUP") {
		p.advance()
		items, err := p.parseParenExprList()
		if err != nil {
			return nil, err
		}
		gb.Rollup = true
		gb.Items = items
		return gb, nil
	}
	if p.isKw("CUBE") {
		p.advance()
		items, err := p.parseParenExprList()
		if err != nil {
			return nil, err
		}
		gb.Cube = true
		gb.Items = items
		return gb, nil
	}
	if p.isKw("GROUPING") {
		p.advance()
		if err := p.expectKw("SETS"); err != nil {
			return nil, err
		}
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		for {
			set, err := p.parseParenExprList()
			if err != nil {
				return nil, err
			}
			gb.GroupingSets = append(gb.GroupingSets, set)
			if p.tryPunct(",") {
				continue
			}
			break
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return gb, nil
	}
	items, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	gb.Items = items
	return gb, nil
}

func (p *parser) parseParenExprList() ([]ast.Expr, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	items, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *parser) parseWindowSpecBody() (*ast.WindowSpec, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	spec := &ast.WindowSpec{}
	if p.isIdent() && !p.isKw("PARTITION") && !p.isKw("ORDER") {
		spec.BaseWindow = p.cur().Text
		p.advance()
	}
	if p.isKw("PARTITION") {
		p.advance()
		if err := p.expectKw("BY"); err != nil {
			return nil, err
		}
		items, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		spec.PartitionBy = items
	}
	if p.isKw("ORDER") {
		items, err := p.parseOrderByItems()
		if err != nil {
			return nil, err
		}
		spec.OrderBy = items
	}
	if p.isAnyKw("ROWS", "RANGE", "GROUPS") {
		start := p.pos
		depth := 0
		for !p.atEOF() {
			if p.isPunct("(") {
				depth++
			}
			if p.isPunct(")") {
				if depth == 0 {
					break
				}
				depth--
			}
			p.advance()
		}
		spec.Frame = p.sliceText(start, p.pos)
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return spec, nil
}

func (p *parser) parseLockingClause() (*ast.LockingClause, error) {
	p.advance() // FOR
	lc := &ast.LockingClause{}
	switch {
	case p.tryKw("UPDATE"):
		lc.Strength = "UPDATE"
	case p.tryKwSeq("NO", "KEY", "UPDATE"):
		lc.Strength = "NO KEY UPDATE"
	case p.tryKwSeq("KEY", "SHARE"):
		lc.Strength = "KEY SHARE"
	case p.tryKw("SHARE"):
		lc.Strength = "SHARE"
	default:
		return nil, p.errHere("expected UPDATE or SHARE after FOR")
	}
	if p.isKw("OF") {
		p.advance()
		for {
			name, err := p.parseIdentPath()
			if err != nil {
				return nil, err
			}
			lc.Of = append(lc.Of, name)
			if p.tryPunct(",") {
				continue
			}
			break
		}
	}
	if p.tryKw("NOWAIT") {
		lc.Wait = "NOWAIT"
	} else if p.tryKwSeq("SKIP", "LOCKED") {
		lc.Wait = "SKIP LOCKED"
	}
	return lc, nil
}
