package parser

import (
	"strings"

	"github.com/vinsidious/sqlfmt/ast"
	"github.com/vinsidious/sqlfmt/token"
)

func (p *parser) parseCreate() (ast.Statement, error) {
	p.advance() // CREATE
	orReplace := false
	if p.tryKw("OR") {
		if err := p.expectKw("REPLACE"); err != nil {
			return nil, err
		}
		orReplace = true
	}
	unique := p.tryKw("UNIQUE")
	temporary := p.isAnyKw("TEMP", "TEMPORARY")
	if temporary {
		p.advance()
	}
	unlogged := p.tryKw("UNLOGGED")
	materialized := false
	if p.isKw("MATERIALIZED") {
		p.advance()
		materialized = true
	}

	switch {
	case p.isKw("TABLE"):
		return p.parseCreateTable(temporary, unlogged)
	case p.isKw("INDEX"):
		return p.parseCreateIndex(unique)
	case p.isKw("VIEW"):
		return p.parseCreateView(orReplace, materialized)
	case p.isKw("POLICY"):
		return p.parseCreatePolicy()
	default:
		return p.failHere("unsupported CREATE statement")
	}
}

func (p *parser) parseCreateTable(temporary, unlogged bool) (ast.Statement, error) {
	p.advance() // TABLE
	ifNotExists := p.tryKwSeq("IF", "NOT", "EXISTS")
	name, err := p.parseIdentPath()
	if err != nil {
		return nil, err
	}
	ct := &ast.CreateTable{IfNotExists: ifNotExists, Name: name, Temporary: temporary, Unlogged: unlogged}

	if p.isKw("AS") {
		p.advance()
		q, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		ct.As = q
		return ct, nil
	}

	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	if !p.isPunct(")") {
		for {
			if p.startsTableConstraint() {
				tc, err := p.parseTableConstraint()
				if err != nil {
					return nil, err
				}
				ct.Constraints = append(ct.Constraints, *tc)
			} else {
				col, err := p.parseColumnDef()
				if err != nil {
					return nil, err
				}
				ct.Columns = append(ct.Columns, *col)
			}
			if p.tryPunct(",") {
				continue
			}
			break
		}
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}

	if p.isKw("INHERITS") {
		p.advance()
		tables, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		ct.Inherits = tables
	}

	if p.tryKwSeq("PARTITION", "BY") {
		start := p.pos
		p.skipBalancedUntilStatementEnd()
		ct.PartitionBy = strings.TrimSpace(p.sliceText(start, p.pos))
	}

	for !p.atEOF() && !p.isPunct(";") {
		start := p.pos
		p.advance()
		ct.Options = append(ct.Options, p.sliceText(start, p.pos))
	}

	return ct, nil
}

var tableConstraintStarters = map[string]bool{
	"CONSTRAINT": true, "PRIMARY": true, "UNIQUE": true, "FOREIGN": true, "CHECK": true, "EXCLUDE": true,
}

func (p *parser) startsTableConstraint() bool {
	return p.cur().Kind == token.Keyword && tableConstraintStarters[p.cur().Upper]
}

func (p *parser) parseTableConstraint() (*ast.TableConstraint, error) {
	tc := &ast.TableConstraint{}
	if p.isKw("CONSTRAINT") {
		p.advance()
		tc.Name = p.cur().Text
		p.advance()
	}
	start := p.pos
	depth := 0
	for !p.atEOF() {
		if p.isPunct("(") {
			depth++
		} else if p.isPunct(")") {
			if depth == 0 {
				break
			}
			depth--
		} else if depth == 0 && p.isPunct(",") {
			break
		}
		p.advance()
	}
	tc.Text = strings.TrimSpace(p.sliceText(start, p.pos))
	return tc, nil
}

func (p *parser) parseColumnDef() (*ast.ColumnDef, error) {
	name, err := p.parseIdentPath()
	if err != nil {
		return nil, err
	}
	typeName, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	col := &ast.ColumnDef{Name: name, TypeName: typeName}
	for {
		start := p.pos
		switch {
		case p.tryKwSeq("NOT", "NULL"):
			col.Constraints = append(col.Constraints, "NOT NULL")
			continue
		case p.tryKw("NULL"):
			col.Constraints = append(col.Constraints, "NULL")
			continue
		case p.isKw("DEFAULT"):
			p.advance()
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			_ = expr
			col.Constraints = append(col.Constraints, strings.TrimSpace(p.sliceText(start, p.pos)))
			continue
		case p.tryKwSeq("PRIMARY", "KEY"):
			col.Constraints = append(col.Constraints, "PRIMARY KEY")
			continue
		case p.tryKw("UNIQUE"):
			col.Constraints = append(col.Constraints, "UNIQUE")
			continue
		case p.isKw("REFERENCES"):
			p.advance()
			ref, err := p.parseIdentPath()
			if err != nil {
				return nil, err
			}
			text := "REFERENCES " + ref
			if p.isPunct("(") {
				cols, err := p.parseIdentList()
				if err != nil {
					return nil, err
				}
				text += "(" + strings.Join(cols, ", ") + ")"
			}
			col.Constraints = append(col.Constraints, text)
			continue
		case p.isKw("CHECK"):
			p.advance()
			if err := p.expectPunct("("); err != nil {
				return nil, err
			}
			cond, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			_ = cond
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			col.Constraints = append(col.Constraints, strings.TrimSpace(p.sliceText(start, p.pos)))
			continue
		case p.tryKw("COLLATE"):
			p.advance()
			col.Constraints = append(col.Constraints, strings.TrimSpace(p.sliceText(start, p.pos)))
			continue
		case p.tryKwSeq("GENERATED", "ALWAYS"):
			for !p.atEOF() && !p.isPunct(",") && !p.isPunct(")") {
				p.advance()
			}
			col.Constraints = append(col.Constraints, strings.TrimSpace(p.sliceText(start, p.pos)))
			continue
		}
		break
	}
	return col, nil
}

// skipBalancedUntilStatementEnd advances past a trailing clause whose
// precise grammar isn't modeled (PARTITION BY expressions vary widely by
// dialect), stopping at the statement's top-level terminator.
func (p *parser) skipBalancedUntilStatementEnd() {
	depth := 0
	for !p.atEOF() {
		if p.isPunct("(") {
			depth++
		} else if p.isPunct(")") {
			if depth == 0 {
				return
			}
			depth--
		} else if depth == 0 && p.isPunct(";") {
			return
		}
		p.advance()
	}
}

func (p *parser) parseCreateIndex(unique bool) (ast.Statement, error) {
	p.advance() // INDEX
	ci := &ast.CreateIndex{Unique: unique}
	if p.tryKw("CONCURRENTLY") {
		ci.Concurrently = true
	}
	ci.IfNotExists = p.tryKwSeq("IF", "NOT", "EXISTS")
	if !p.isKw("ON") {
		ci.Name = p.cur().Text
		p.advance()
	}
	if err := p.expectKw("ON"); err != nil {
		return nil, err
	}
	table, err := p.parseIdentPath()
	if err != nil {
		return nil, err
	}
	ci.Table = table
	if p.isKw("USING") {
		p.advance()
		ci.Using = p.cur().Text
		p.advance()
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ic := ast.IndexColumn{Expr: e}
		if p.isIdent() {
			ic.Opclass = p.cur().Text
			p.advance()
		}
		if p.isKw("ASC") {
			p.advance()
			ic.HasDir = true
		} else if p.isKw("DESC") {
			p.advance()
			ic.HasDir = true
			ic.Descending = true
		}
		ci.Columns = append(ci.Columns, ic)
		if p.tryPunct(",") {
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	if p.isKw("INCLUDE") {
		p.advance()
		cols, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		ci.Include = cols
	}
	if p.isKw("WHERE") {
		p.advance()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ci.Where = where
	}
	return ci, nil
}

func (p *parser) parseCreateView(orReplace, materialized bool) (ast.Statement, error) {
	p.advance() // VIEW
	name, err := p.parseIdentPath()
	if err != nil {
		return nil, err
	}
	cv := &ast.CreateView{OrReplace: orReplace, Materialized: materialized, Name: name}
	if p.isPunct("(") {
		cols, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		cv.Columns = cols
	}
	if err := p.expectKw("AS"); err != nil {
		return nil, err
	}
	q, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	cv.Query = q
	if p.isKw("WITH") {
		p.advance()
		if p.tryKw("LOCAL") {
			cv.WithCheckOption = "LOCAL"
		} else if p.tryKw("CASCADED") {
			cv.WithCheckOption = "CASCADED"
		}
		if err := p.expectKw("CHECK"); err != nil {
			return nil, err
		}
		if err := p.expectKw("OPTION"); err != nil {
			return nil, err
		}
		if cv.WithCheckOption == "" {
			cv.WithCheckOption = "CASCADED"
		}
	}
	return cv, nil
}

func (p *parser) parseCreatePolicy() (ast.Statement, error) {
	p.advance() // POLICY
	name := p.cur().Text
	p.advance()
	if err := p.expectKw("ON"); err != nil {
		return nil, err
	}
	table, err := p.parseIdentPath()
	if err != nil {
		return nil, err
	}
	cp := &ast.CreatePolicy{Name: name, Table: table, Command: "ALL", Permissive: true}
	if p.isKw("AS") {
		p.advance()
		if p.tryKw("RESTRICTIVE") {
			cp.Permissive = false
		} else {
			p.tryKw("PERMISSIVE")
		}
	}
	if p.isKw("FOR") {
		p.advance()
		cp.Command = p.cur().Upper
		p.advance()
	}
	if p.isKw("TO") {
		p.advance()
		for {
			cp.Roles = append(cp.Roles, p.cur().Text)
			p.advance()
			if p.tryPunct(",") {
				continue
			}
			break
		}
	}
	if p.isKw("USING") {
		p.advance()
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		using, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		cp.Using = using
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
	}
	if p.tryKwSeq("WITH", "CHECK") {
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		check, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		cp.WithCheck = check
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
	}
	return cp, nil
}

func (p *parser) parseAlterTable() (ast.Statement, error) {
	p.advance() // ALTER
	p.advance() // TABLE
	p.tryKwSeq("IF", "EXISTS")
	name, err := p.parseIdentPath()
	if err != nil {
		return nil, err
	}
	at := &ast.AlterTable{Name: name}
	for {
		start := p.pos
		depth := 0
		for !p.atEOF() {
			if p.isPunct("(") {
				depth++
			} else if p.isPunct(")") {
				depth--
			} else if depth <= 0 && (p.isPunct(",") || p.isPunct(";")) {
				break
			}
			p.advance()
		}
		at.Actions = append(at.Actions, ast.AlterAction{Text: strings.TrimSpace(p.sliceText(start, p.pos))})
		if p.tryPunct(",") {
			continue
		}
		break
	}
	return at, nil
}

func (p *parser) parseDropTable() (ast.Statement, error) {
	p.advance() // DROP
	p.advance() // TABLE
	ifExists := p.tryKwSeq("IF", "EXISTS")
	dt := &ast.DropTable{IfExists: ifExists}
	for {
		name, err := p.parseIdentPath()
		if err != nil {
			return nil, err
		}
		dt.Names = append(dt.Names, name)
		if p.tryPunct(",") {
			continue
		}
		break
	}
	if p.tryKw("CASCADE") {
		dt.Cascade = true
	} else if p.tryKw("RESTRICT") {
		dt.Restrict = true
	}
	return dt, nil
}

func (p *parser) parseTruncate() (ast.Statement, error) {
	p.advance() // TRUNCATE
	p.tryKw("TABLE")
	tr := &ast.Truncate{}
	for {
		name, err := p.parseIdentPath()
		if err != nil {
			return nil, err
		}
		tr.Names = append(tr.Names, name)
		if p.tryPunct(",") {
			continue
		}
		break
	}
	if p.tryKwSeq("RESTART", "IDENTITY") {
		tr.RestartIdentity = true
	} else {
		p.tryKwSeq("CONTINUE", "IDENTITY")
	}
	if p.tryKw("CASCADE") {
		tr.Cascade = true
	} else {
		p.tryKw("RESTRICT")
	}
	return tr, nil
}

func (p *parser) parseGrantRevoke(revoke bool) (ast.Statement, error) {
	p.advance() // GRANT/REVOKE
	gr := &ast.GrantRevoke{Revoke: revoke}
	for {
		priv := p.cur().Text
		p.advance()
		if p.isPunct("(") {
			cols, err := p.parseIdentList()
			if err != nil {
				return nil, err
			}
			priv += "(" + strings.Join(cols, ", ") + ")"
		}
		gr.Privileges = append(gr.Privileges, priv)
		if p.tryPunct(",") {
			continue
		}
		break
	}
	if err := p.expectKw("ON"); err != nil {
		return nil, err
	}
	on, err := p.parseIdentPath()
	if err != nil {
		return nil, err
	}
	gr.On = on
	if revoke {
		if err := p.expectKw("FROM"); err != nil {
			return nil, err
		}
	} else {
		if err := p.expectKw("TO"); err != nil {
			return nil, err
		}
	}
	for {
		gr.To = append(gr.To, p.cur().Text)
		p.advance()
		if p.tryPunct(",") {
			continue
		}
		break
	}
	if !revoke && p.tryKwSeq("WITH", "GRANT", "OPTION") {
		gr.WithGrantOption = true
	}
	if revoke && p.tryKw("CASCADE") {
		gr.Cascade = true
	}
	return gr, nil
}

func (p *parser) parseExplain() (ast.Statement, error) {
	p.advance() // EXPLAIN
	ex := &ast.Explain{}
	if p.tryKw("ANALYZE") {
		ex.Analyze = true
	}
	if p.isPunct("(") {
		p.advance()
		for !p.isPunct(")") {
			ex.Options = append(ex.Options, p.cur().Text)
			p.advance()
			p.tryPunct(",")
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
	}
	q, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	ex.Query = q
	return ex, nil
}

func (p *parser) parseCommentOn() (ast.Statement, error) {
	p.advance() // COMMENT
	p.advance() // ON
	kindParts := []string{p.cur().Text}
	p.advance()
	// Two-word object kinds: MATERIALIZED VIEW, FOREIGN TABLE.
	if p.isIdent() || p.cur().Kind == token.Keyword {
		if !p.isKw("IS") {
			kindParts = append(kindParts, p.cur().Text)
			p.advance()
		}
	}
	co := &ast.CommentOn{ObjectKind: strings.Join(kindParts, " ")}
	name, err := p.parseIdentPath()
	if err != nil {
		return nil, err
	}
	co.ObjectName = name
	if err := p.expectKw("IS"); err != nil {
		return nil, err
	}
	co.Text = p.cur().Text
	p.advance()
	return co, nil
}
