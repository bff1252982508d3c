package parser

import "github.com/vinsidious/sqlfmt/ast"

func (p *parser) parseInsert(ctes []ast.Cte) (ast.Statement, error) {
	p.advance() // INSERT
	if err := p.expectKw("INTO"); err != nil {
		return nil, err
	}
	table, err := p.parseIdentPath()
	if err != nil {
		return nil, err
	}
	ins := &ast.Insert{Ctes: ctes, Table: table}
	if p.isIdent() {
		ins.Alias = p.cur().Text
		p.advance()
	}
	if p.isPunct("(") {
		cols, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		ins.Columns = cols
	}
	switch {
	case p.tryKwSeq("DEFAULT", "VALUES"):
		ins.Default = true
	case p.isKw("VALUES"):
		p.advance()
		for {
			row, err := p.parseValuesRow()
			if err != nil {
				return nil, err
			}
			ins.Values = append(ins.Values, row)
			if p.tryPunct(",") {
				continue
			}
			break
		}
	case p.isKw("SELECT") || p.isKw("WITH"):
		q, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		ins.Query = q
	default:
		return nil, p.errHere("expected VALUES, SELECT or DEFAULT VALUES")
	}

	if p.isKw("ON") {
		oc, err := p.parseOnConflict()
		if err != nil {
			return nil, err
		}
		ins.OnConflict = oc
	}

	if p.isKw("RETURNING") {
		items, err := p.parseReturning()
		if err != nil {
			return nil, err
		}
		ins.Returning = items
	}

	return ins, nil
}

func (p *parser) parseValuesRow() ([]ast.Expr, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var row []ast.Expr
	for {
		if p.isKw("DEFAULT") {
			p.advance()
			row = append(row, &ast.Ident{Parts: []string{"DEFAULT"}})
		} else {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			row = append(row, e)
		}
		if p.tryPunct(",") {
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return row, nil
}

func (p *parser) parseOnConflict() (*ast.OnConflictClause, error) {
	p.advance() // ON
	if err := p.expectKw("CONFLICT"); err != nil {
		return nil, err
	}
	oc := &ast.OnConflictClause{}
	if p.isPunct("(") {
		cols, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		oc.Columns = cols
	} else if p.isKw("ON") {
		// ON CONSTRAINT name
		p.advance()
		if err := p.expectKw("CONSTRAINT"); err != nil {
			return nil, err
		}
		name, err := p.parseIdentPath()
		if err != nil {
			return nil, err
		}
		oc.Constraint = name
	}
	if err := p.expectKw("DO"); err != nil {
		return nil, err
	}
	if p.tryKw("NOTHING") {
		oc.DoNothing = true
		return oc, nil
	}
	if err := p.expectKw("UPDATE"); err != nil {
		return nil, err
	}
	if err := p.expectKw("SET"); err != nil {
		return nil, err
	}
	assigns, err := p.parseAssignments()
	if err != nil {
		return nil, err
	}
	oc.DoUpdate = assigns
	if p.isKw("WHERE") {
		p.advance()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		oc.Where = where
	}
	return oc, nil
}

func (p *parser) parseAssignments() ([]ast.Assignment, error) {
	var assigns []ast.Assignment
	for {
		col, err := p.parseIdentPath()
		if err != nil {
			return nil, err
		}
		if err := p.expectOperatorEq(); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		assigns = append(assigns, ast.Assignment{Column: col, Value: val})
		if p.tryPunct(",") {
			continue
		}
		break
	}
	return assigns, nil
}

func (p *parser) expectOperatorEq() error {
	if !p.isOperator("=") {
		return p.errHere("expected '='")
	}
	p.advance()
	return nil
}

func (p *parser) parseReturning() ([]ast.SelectItem, error) {
	p.advance() // RETURNING
	return p.parseSelectItems()
}

func (p *parser) parseUpdate(ctes []ast.Cte) (ast.Statement, error) {
	p.advance() // UPDATE
	table, err := p.parseIdentPath()
	if err != nil {
		return nil, err
	}
	u := &ast.Update{Ctes: ctes, Table: table}
	if p.isIdent() {
		u.Alias = p.cur().Text
		p.advance()
	}
	if err := p.expectKw("SET"); err != nil {
		return nil, err
	}
	assigns, err := p.parseAssignments()
	if err != nil {
		return nil, err
	}
	u.Set = assigns
	if p.isKw("FROM") {
		p.advance()
		from, err := p.parseFromList()
		if err != nil {
			return nil, err
		}
		u.From = from
	}
	if p.isKw("WHERE") {
		p.advance()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		u.Where = where
	}
	if p.isKw("RETURNING") {
		items, err := p.parseReturning()
		if err != nil {
			return nil, err
		}
		u.Returning = items
	}
	return u, nil
}

func (p *parser) parseDelete(ctes []ast.Cte) (ast.Statement, error) {
	p.advance() // DELETE
	if err := p.expectKw("FROM"); err != nil {
		return nil, err
	}
	table, err := p.parseIdentPath()
	if err != nil {
		return nil, err
	}
	d := &ast.Delete{Ctes: ctes, Table: table}
	if p.isIdent() {
		d.Alias = p.cur().Text
		p.advance()
	}
	if p.isKw("USING") {
		p.advance()
		using, err := p.parseFromList()
		if err != nil {
			return nil, err
		}
		d.Using = using
	}
	if p.isKw("WHERE") {
		p.advance()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		d.Where = where
	}
	if p.isKw("RETURNING") {
		items, err := p.parseReturning()
		if err != nil {
			return nil, err
		}
		d.Returning = items
	}
	return d, nil
}

func (p *parser) parseMerge() (ast.Statement, error) {
	p.advance() // MERGE
	p.tryKw("INTO")
	target, err := p.parseIdentPath()
	if err != nil {
		return nil, err
	}
	m := &ast.Merge{Target: target}
	if p.isIdent() {
		m.TargetAlias = p.cur().Text
		p.advance()
	}
	if err := p.expectKw("USING"); err != nil {
		return nil, err
	}
	src, err := p.parseFromItem()
	if err != nil {
		return nil, err
	}
	m.Source = src
	if err := p.expectKw("ON"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	m.On = cond
	for p.isKw("WHEN") {
		w, err := p.parseMergeWhen()
		if err != nil {
			return nil, err
		}
		m.Whens = append(m.Whens, *w)
	}
	return m, nil
}

func (p *parser) parseMergeWhen() (*ast.MergeWhen, error) {
	p.advance() // WHEN
	w := &ast.MergeWhen{}
	if p.tryKw("NOT") {
		if err := p.expectKw("MATCHED"); err != nil {
			return nil, err
		}
	} else {
		if err := p.expectKw("MATCHED"); err != nil {
			return nil, err
		}
		w.Matched = true
	}
	if p.isKw("BY") {
		p.advance()
		if p.tryKw("TARGET") {
			w.ByTarget = true
		} else if err := p.expectKw("SOURCE"); err != nil {
			return nil, err
		}
	}
	if p.isKw("AND") {
		p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		w.Condition = cond
	}
	if err := p.expectKw("THEN"); err != nil {
		return nil, err
	}
	switch {
	case p.tryKw("UPDATE"):
		w.Action = "UPDATE"
		if err := p.expectKw("SET"); err != nil {
			return nil, err
		}
		assigns, err := p.parseAssignments()
		if err != nil {
			return nil, err
		}
		w.Set = assigns
	case p.tryKw("DELETE"):
		w.Action = "DELETE"
	case p.tryKw("INSERT"):
		w.Action = "INSERT"
		if p.isPunct("(") {
			cols, err := p.parseIdentList()
			if err != nil {
				return nil, err
			}
			w.Columns = cols
		}
		if err := p.expectKw("VALUES"); err != nil {
			return nil, err
		}
		row, err := p.parseValuesRow()
		if err != nil {
			return nil, err
		}
		w.Values = row
	case p.tryKwSeq("DO", "NOTHING"):
		w.Action = "DO NOTHING"
	default:
		return nil, p.errHere("expected UPDATE, DELETE, INSERT or DO NOTHING")
	}
	return w, nil
}
