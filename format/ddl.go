package format

import (
	"strings"

	"github.com/vinsidious/sqlfmt/ast"
)

func (f *formatter) formatCreateTable(v *ast.CreateTable, indent string) {
	f.writeComments(v.Leading, indent)
	head := "CREATE"
	if v.Unlogged {
		head += " UNLOGGED"
	}
	if v.Temporary {
		head += " TEMPORARY"
	}
	head += " TABLE"
	if v.IfNotExists {
		head += " IF NOT EXISTS"
	}
	head += " " + v.Name

	if v.As != nil {
		f.buf.WriteString(indent + head + " AS\n")
		_ = f.formatStatement(v.As, indent)
		return
	}

	f.buf.WriteString(indent + head + " (\n")
	inner := indent + f.opts.indent()
	var rows []string
	for _, c := range v.Columns {
		rows = append(rows, renderColumnDef(c))
	}
	for _, c := range v.Constraints {
		s := ""
		if c.Name != "" {
			s = "CONSTRAINT " + c.Name + " "
		}
		rows = append(rows, s+c.Text)
	}
	for i, r := range rows {
		suffix := ","
		if i == len(rows)-1 {
			suffix = ""
		}
		f.buf.WriteString(inner + r + suffix + "\n")
	}
	f.buf.WriteString(indent + ")")
	if len(v.Inherits) > 0 {
		f.buf.WriteString(" INHERITS (" + strings.Join(v.Inherits, ", ") + ")")
	}
	if v.PartitionBy != "" {
		f.buf.WriteString(" PARTITION BY " + v.PartitionBy)
	}
	for _, o := range v.Options {
		f.buf.WriteString(" " + o)
	}
	f.terminate()
}

func renderColumnDef(c ast.ColumnDef) string {
	s := c.Name + " " + c.TypeName
	for _, cons := range c.Constraints {
		s += " " + cons
	}
	return s
}

func (f *formatter) formatCreateIndex(v *ast.CreateIndex, indent string) {
	var clauses []riverClause
	head := "CREATE"
	if v.Unique {
		head += " UNIQUE"
	}
	head += " INDEX"
	if v.Concurrently {
		head += " CONCURRENTLY"
	}
	if v.IfNotExists {
		head += " IF NOT EXISTS"
	}
	if v.Name != "" {
		head += " " + v.Name
	}
	cols := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		s := renderExpr(c.Expr)
		if c.Opclass != "" {
			s += " " + c.Opclass
		}
		if c.HasDir {
			if c.Descending {
				s += " DESC"
			} else {
				s += " ASC"
			}
		}
		cols[i] = s
	}
	on := v.Table
	if v.Using != "" {
		on += " USING " + v.Using
	}
	on += " (" + strings.Join(cols, ", ") + ")"
	if len(v.Include) > 0 {
		on += " INCLUDE (" + strings.Join(v.Include, ", ") + ")"
	}
	clauses = append(clauses, riverClause{Keyword: head, Lines: []string{"ON " + on}})
	if v.Where != nil {
		clauses = append(clauses, riverClause{Keyword: "WHERE", Lines: splitBoolChain(v.Where)})
	}
	f.writeRiver(v.Leading, clauses, indent)
	f.terminate()
}

func (f *formatter) formatCreateView(v *ast.CreateView, indent string) error {
	f.writeComments(v.Leading, indent)
	head := "CREATE"
	if v.OrReplace {
		head += " OR REPLACE"
	}
	if v.Materialized {
		head += " MATERIALIZED"
	}
	head += " VIEW " + v.Name
	if len(v.Columns) > 0 {
		head += " (" + strings.Join(v.Columns, ", ") + ")"
	}
	f.buf.WriteString(indent + head + " AS\n")
	if err := f.formatStatement(v.Query, indent); err != nil {
		return err
	}
	if v.WithCheckOption != "" {
		f.dropTrailingTerminator()
		f.buf.WriteString(indent + "WITH " + v.WithCheckOption + " CHECK OPTION\n")
		f.terminate()
	}
	return nil
}

func (f *formatter) formatCreatePolicy(v *ast.CreatePolicy, indent string) {
	var clauses []riverClause
	clauses = append(clauses, riverClause{Keyword: "CREATE POLICY", Lines: []string{v.Name}})
	as := "RESTRICTIVE"
	if v.Permissive {
		as = "PERMISSIVE"
	}
	clauses = append(clauses, riverClause{Keyword: "ON", Lines: []string{v.Table + " AS " + as + " FOR " + v.Command}})
	if len(v.Roles) > 0 {
		clauses = append(clauses, riverClause{Keyword: "TO", Lines: []string{strings.Join(v.Roles, ", ")}})
	}
	if v.Using != nil {
		clauses = append(clauses, riverClause{Keyword: "USING", Lines: []string{"(" + renderExpr(v.Using) + ")"}})
	}
	if v.WithCheck != nil {
		clauses = append(clauses, riverClause{Keyword: "WITH CHECK", Lines: []string{"(" + renderExpr(v.WithCheck) + ")"}})
	}
	f.writeRiver(v.Leading, clauses, indent)
	f.terminate()
}

func (f *formatter) formatAlterTable(v *ast.AlterTable, indent string) {
	f.writeComments(v.Leading, indent)
	lines := make([]string, len(v.Actions))
	for i, a := range v.Actions {
		suffix := ","
		if i == len(v.Actions)-1 {
			suffix = ""
		}
		lines[i] = a.Text + suffix
	}
	f.writeRiver(nil, []riverClause{{Keyword: "ALTER TABLE", Lines: []string{v.Name}}}, indent)
	inner := indent + f.opts.indent()
	for _, l := range lines {
		f.buf.WriteString(inner + l + "\n")
	}
	f.terminate()
}

func (f *formatter) formatDropTable(v *ast.DropTable, indent string) {
	f.writeComments(v.Leading, indent)
	head := "DROP TABLE"
	if v.IfExists {
		head += " IF EXISTS"
	}
	f.buf.WriteString(indent + head + " " + strings.Join(v.Names, ", "))
	if v.Cascade {
		f.buf.WriteString(" CASCADE")
	} else if v.Restrict {
		f.buf.WriteString(" RESTRICT")
	}
	f.terminate()
}

func (f *formatter) formatTruncate(v *ast.Truncate, indent string) {
	f.writeComments(v.Leading, indent)
	f.buf.WriteString(indent + "TRUNCATE " + strings.Join(v.Names, ", "))
	if v.RestartIdentity {
		f.buf.WriteString(" RESTART IDENTITY")
	}
	if v.Cascade {
		f.buf.WriteString(" CASCADE")
	}
	f.terminate()
}

func (f *formatter) formatGrantRevoke(v *ast.GrantRevoke, indent string) {
	f.writeComments(v.Leading, indent)
	head := "GRANT"
	prep := "TO"
	if v.Revoke {
		head = "REVOKE"
		prep = "FROM"
	}
	f.buf.WriteString(indent + head + " " + strings.Join(v.Privileges, ", ") + " ON " + v.On + " " + prep + " " + strings.Join(v.To, ", "))
	if v.WithGrantOption {
		f.buf.WriteString(" WITH GRANT OPTION")
	}
	if v.Cascade {
		f.buf.WriteString(" CASCADE")
	}
	f.terminate()
}

func (f *formatter) formatExplain(v *ast.Explain, indent string) error {
	f.writeComments(v.Leading, indent)
	head := "EXPLAIN"
	if v.Analyze {
		head += " ANALYZE"
	}
	if len(v.Options) > 0 {
		head += " (" + strings.Join(v.Options, ", ") + ")"
	}
	f.buf.WriteString(indent + head + "\n")
	return f.formatStatement(v.Query, indent)
}

func (f *formatter) formatCommentOn(v *ast.CommentOn, indent string) {
	f.writeComments(v.Leading, indent)
	f.buf.WriteString(indent + "COMMENT ON " + v.ObjectKind + " " + v.ObjectName + " IS " + v.Text)
	f.terminate()
}
