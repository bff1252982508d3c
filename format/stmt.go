package format

import (
	"fmt"
	"strings"

	"github.com/vinsidious/sqlfmt/ast"
)

// riverClause is one top-level clause of a statement: a keyword right-
// justified to the statement's gutter column, followed by one or more
// content lines. Continuation lines start one column past the river
// (indent + gutter width + 1), which is under the first line's content
// when the clause keyword is a single word.
type riverClause struct {
	Keyword string
	Lines   []string
}

// riverFirstWord returns the leading word of a (possibly multi-word)
// clause keyword — e.g. "GROUP" out of "GROUP BY". The gutter is sized to
// this first word, not the full keyword, so a single-word keyword like
// SELECT sits at the left margin and a multi-word keyword like GROUP BY
// or ORDER BY overflows to the right of the river instead of widening it.
func riverFirstWord(keyword string) string {
	if i := strings.IndexByte(keyword, ' '); i >= 0 {
		return keyword[:i]
	}
	return keyword
}

func (f *formatter) writeRiver(comments []ast.Comment, clauses []riverClause, indent string) {
	f.writeComments(comments, indent)
	width := 0
	for _, c := range clauses {
		if len(c.Lines) == 0 {
			continue
		}
		if w := len(riverFirstWord(c.Keyword)); w > width {
			width = w
		}
	}
	cont := indent + strings.Repeat(" ", width+1)
	for _, c := range clauses {
		if len(c.Lines) == 0 {
			continue
		}
		pad := strings.Repeat(" ", width-len(riverFirstWord(c.Keyword)))
		f.buf.WriteString(indent + pad + c.Keyword + " " + c.Lines[0] + "\n")
		for _, l := range c.Lines[1:] {
			f.buf.WriteString(cont + l + "\n")
		}
	}
}

// terminate appends the statement-ending `;` to the line just written,
// in place of the trailing newline, rather than placing it on its own
// line (spec.md §8 scenario 1: "SELECT 1;" not "SELECT 1\n;").
func (f *formatter) terminate() {
	s := f.buf.String()
	if strings.HasSuffix(s, "\n") {
		s = s[:len(s)-1]
	}
	f.buf.Reset()
	f.buf.WriteString(s)
	f.buf.WriteString(";\n")
}

func (f *formatter) formatStatement(s ast.Statement, indent string) error {
	if err := f.enter(); err != nil {
		return err
	}
	defer f.leave()

	switch v := s.(type) {
	case *ast.Select:
		f.formatSelect(v, indent)
	case *ast.Union:
		if err := f.formatUnion(v, indent); err != nil {
			return err
		}
	case *ast.Insert:
		f.formatInsert(v, indent)
	case *ast.Update:
		f.formatUpdate(v, indent)
	case *ast.Delete:
		f.formatDelete(v, indent)
	case *ast.Merge:
		f.formatMerge(v, indent)
	case *ast.CreateTable:
		f.formatCreateTable(v, indent)
	case *ast.CreateIndex:
		f.formatCreateIndex(v, indent)
	case *ast.CreateView:
		if err := f.formatCreateView(v, indent); err != nil {
			return err
		}
	case *ast.CreatePolicy:
		f.formatCreatePolicy(v, indent)
	case *ast.AlterTable:
		f.formatAlterTable(v, indent)
	case *ast.DropTable:
		f.formatDropTable(v, indent)
	case *ast.Truncate:
		f.formatTruncate(v, indent)
	case *ast.GrantRevoke:
		f.formatGrantRevoke(v, indent)
	case *ast.Explain:
		if err := f.formatExplain(v, indent); err != nil {
			return err
		}
	case *ast.CommentOn:
		f.formatCommentOn(v, indent)
	case *ast.Raw:
		f.writeComments(v.Leading, indent)
		f.buf.WriteString(indent)
		f.buf.WriteString(strings.TrimRight(v.Text, " \t\r\n"))
		f.buf.WriteString("\n")
	default:
		return fmt.Errorf("format: unhandled statement type %T", s)
	}
	return nil
}

// formatStatementInline renders a statement for use as a subquery nested
// inside an expression, a CTE body or an INSERT source. A Select is written
// on one line; any other statement keeps its multi-line form, without the
// terminating `;` and trailing newline.
func (f *formatter) formatStatementInline(s ast.Statement) error {
	sel, ok := s.(*ast.Select)
	if !ok {
		if err := f.formatStatement(s, ""); err != nil {
			return err
		}
		f.dropTrailingTerminator()
		out := strings.TrimRight(f.buf.String(), "\n")
		f.buf.Reset()
		f.buf.WriteString(out)
		return nil
	}
	var parts []string
	if len(sel.Ctes) > 0 {
		parts = append(parts, "WITH "+renderCtes(sel.Ctes))
	}
	head := "SELECT"
	if sel.Distinct {
		head += " DISTINCT"
	}
	parts = append(parts, head+" "+renderSelectItems(sel.Columns))
	if len(sel.From) > 0 {
		parts = append(parts, "FROM "+renderFromList(sel.From))
	}
	if sel.Where != nil {
		parts = append(parts, "WHERE "+renderExpr(sel.Where))
	}
	if sel.GroupBy != nil {
		parts = append(parts, "GROUP BY "+renderExprList(sel.GroupBy.Items))
	}
	if sel.Having != nil {
		parts = append(parts, "HAVING "+renderExpr(sel.Having))
	}
	if len(sel.OrderBy) > 0 {
		parts = append(parts, "ORDER BY "+renderOrderedExprList(sel.OrderBy))
	}
	if sel.Limit != nil {
		parts = append(parts, "LIMIT "+renderExpr(sel.Limit))
	}
	f.buf.WriteString(strings.Join(parts, " "))
	return nil
}

func renderCtes(ctes []ast.Cte) string {
	parts := make([]string, len(ctes))
	for i, c := range ctes {
		name := c.Name
		if len(c.Columns) > 0 {
			name += "(" + strings.Join(c.Columns, ", ") + ")"
		}
		inline := &formatter{}
		_ = inline.formatStatementInline(c.Query)
		parts[i] = name + " AS (" + inline.buf.String() + ")"
	}
	return strings.Join(parts, ", ")
}

func renderSelectItems(items []ast.SelectItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		s := renderExpr(it.Expr)
		if it.Alias != "" {
			s += " AS " + it.Alias
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}

func renderFromItem(it ast.FromItem) string {
	s := ""
	if it.Lateral {
		s += "LATERAL "
	}
	s += renderExpr(it.Source)
	if it.TableSample != nil {
		s += " TABLESAMPLE " + it.TableSample.Method + "(" + renderExprList(it.TableSample.Args) + ")"
	}
	if it.Alias != "" {
		s += " AS " + it.Alias
		if len(it.Columns) > 0 {
			s += "(" + strings.Join(it.Columns, ", ") + ")"
		}
	}
	return s
}

func renderFromList(items []ast.FromItem) string {
	var parts []string
	for i, it := range items {
		if it.Join == nil || i == 0 {
			parts = append(parts, renderFromItem(it))
			continue
		}
		s := it.Join.Kind + " JOIN " + renderFromItem(it)
		if it.Join.On != nil {
			s += " ON " + renderExpr(it.Join.On)
		} else if len(it.Join.Using) > 0 {
			s += " USING (" + strings.Join(it.Join.Using, ", ") + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

func (f *formatter) formatSelect(s *ast.Select, indent string) {
	var clauses []riverClause
	if len(s.Ctes) > 0 {
		clauses = append(clauses, riverClause{Keyword: "WITH", Lines: []string{renderCtes(s.Ctes)}})
	}
	head := "SELECT"
	if s.Distinct {
		head = "SELECT DISTINCT"
		if len(s.DistinctOn) > 0 {
			head = "SELECT DISTINCT ON (" + renderExprList(s.DistinctOn) + ")"
		}
	}
	colLines := make([]string, len(s.Columns))
	for i, it := range s.Columns {
		line := renderExpr(it.Expr)
		if it.Alias != "" {
			line += " AS " + it.Alias
		}
		if i < len(s.Columns)-1 {
			line += ","
		}
		colLines[i] = line
	}
	clauses = append(clauses, riverClause{Keyword: head, Lines: colLines})

	if s.Into != "" {
		clauses = append(clauses, riverClause{Keyword: "INTO", Lines: []string{s.Into}})
	}

	if len(s.From) > 0 {
		var fromLines []string
		for i, it := range s.From {
			if i == 0 {
				fromLines = append(fromLines, renderFromItem(it))
				continue
			}
			line := it.Join.Kind + " JOIN " + renderFromItem(it)
			if it.Join.On != nil {
				line += " ON " + renderExpr(it.Join.On)
			} else if len(it.Join.Using) > 0 {
				line += " USING (" + strings.Join(it.Join.Using, ", ") + ")"
			}
			fromLines = append(fromLines, line)
		}
		clauses = append(clauses, riverClause{Keyword: "FROM", Lines: fromLines})
	}

	if s.Where != nil {
		clauses = append(clauses, riverClause{Keyword: "WHERE", Lines: splitBoolChain(s.Where)})
	}

	if s.GroupBy != nil {
		clauses = append(clauses, riverClause{Keyword: "GROUP BY", Lines: []string{renderGroupBy(s.GroupBy)}})
	}

	if s.Having != nil {
		clauses = append(clauses, riverClause{Keyword: "HAVING", Lines: splitBoolChain(s.Having)})
	}

	for _, w := range s.Windows {
		clauses = append(clauses, riverClause{Keyword: "WINDOW", Lines: []string{w.Name + " AS (" + renderWindowSpecInline(w) + ")"}})
	}

	if len(s.OrderBy) > 0 {
		clauses = append(clauses, riverClause{Keyword: "ORDER BY", Lines: []string{renderOrderedExprList(s.OrderBy)}})
	}

	if s.Limit != nil {
		clauses = append(clauses, riverClause{Keyword: "LIMIT", Lines: []string{renderExpr(s.Limit)}})
	}
	if s.Offset != nil {
		clauses = append(clauses, riverClause{Keyword: "OFFSET", Lines: []string{renderExpr(s.Offset)}})
	}
	if s.Fetch != nil {
		line := "FIRST"
		if s.Fetch.Count != nil {
			line += " " + renderExpr(s.Fetch.Count)
		}
		line += " ROWS"
		if s.Fetch.WithTies {
			line += " WITH TIES"
		} else {
			line += " ONLY"
		}
		clauses = append(clauses, riverClause{Keyword: "FETCH", Lines: []string{line}})
	}
	for _, lc := range s.Locking {
		line := lc.Strength
		if len(lc.Of) > 0 {
			line += " OF " + strings.Join(lc.Of, ", ")
		}
		if lc.Wait != "" {
			line += " " + lc.Wait
		}
		clauses = append(clauses, riverClause{Keyword: "FOR", Lines: []string{line}})
	}

	f.writeRiver(s.Leading, clauses, indent)
	f.terminate()
}

func renderGroupBy(gb *ast.GroupByClause) string {
	switch {
	case gb.All:
		return "ALL"
	case gb.Rollup:
		return "ROLLUP (" + renderExprList(gb.Items) + ")"
	case gb.Cube:
		return "CUBE (" + renderExprList(gb.Items) + ")"
	case gb.GroupingSets != nil:
		sets := make([]string, len(gb.GroupingSets))
		for i, s := range gb.GroupingSets {
			sets[i] = "(" + renderExprList(s) + ")"
		}
		return "GROUPING SETS (" + strings.Join(sets, ", ") + ")"
	default:
		return renderExprList(gb.Items)
	}
}

// splitBoolChain breaks a top-level AND/OR chain into one line per
// operand, with the connective leading each continuation line — the
// conventional way a river-aligned formatter keeps long WHERE/HAVING
// clauses readable.
func splitBoolChain(e ast.Expr) []string {
	var lines []string
	var walk func(ast.Expr)
	walk = func(e ast.Expr) {
		if b, ok := e.(*ast.Binary); ok && (b.Operator == "AND" || b.Operator == "OR") {
			walk(b.Left)
			lines = append(lines, b.Operator+" "+renderExpr(b.Right))
			return
		}
		lines = append(lines, renderExpr(e))
	}
	walk(e)
	return lines
}

func (f *formatter) formatUnion(u *ast.Union, indent string) error {
	f.writeComments(u.Leading, indent)
	if err := f.formatStatement(u.Left, indent); err != nil {
		return err
	}
	// formatStatement already wrote the left arm's terminator; drop it so
	// the set operator sits between the two arms instead of after a bogus
	// mid-statement semicolon.
	f.dropTrailingTerminator()
	op := map[ast.SetOp]string{ast.UnionOp: "UNION", ast.IntersectOp: "INTERSECT", ast.ExceptOp: "EXCEPT"}[u.Op]
	if u.All {
		op += " ALL"
	}
	f.buf.WriteString(indent + op + "\n")
	if err := f.formatStatement(u.Right, indent); err != nil {
		return err
	}
	f.dropTrailingTerminator()
	if len(u.OrderBy) > 0 {
		f.writeRiver(nil, []riverClause{{Keyword: "ORDER BY", Lines: []string{renderOrderedExprList(u.OrderBy)}}}, indent)
	}
	if u.Limit != nil {
		f.writeRiver(nil, []riverClause{{Keyword: "LIMIT", Lines: []string{renderExpr(u.Limit)}}}, indent)
	}
	if u.Offset != nil {
		f.writeRiver(nil, []riverClause{{Keyword: "OFFSET", Lines: []string{renderExpr(u.Offset)}}}, indent)
	}
	f.terminate()
	return nil
}

// dropTrailingTerminator strips the `;` appended to the buffer's last
// content line by a just-completed formatStatement call, so a UNION's set
// operator can sit between the two arms instead of after a bogus
// mid-statement semicolon.
func (f *formatter) dropTrailingTerminator() {
	s := f.buf.String()
	if strings.HasSuffix(s, ";\n") {
		f.buf.Reset()
		f.buf.WriteString(s[:len(s)-2])
		f.buf.WriteString("\n")
	}
}

func (f *formatter) formatInsert(v *ast.Insert, indent string) {
	var clauses []riverClause
	if len(v.Ctes) > 0 {
		clauses = append(clauses, riverClause{Keyword: "WITH", Lines: []string{renderCtes(v.Ctes)}})
	}
	into := v.Table
	if len(v.Columns) > 0 {
		into += " (" + strings.Join(v.Columns, ", ") + ")"
	}
	clauses = append(clauses, riverClause{Keyword: "INSERT INTO", Lines: []string{into}})

	switch {
	case v.Default:
		clauses = append(clauses, riverClause{Keyword: "DEFAULT", Lines: []string{"VALUES"}})
	case v.Query != nil:
		inline := &formatter{}
		_ = inline.formatStatementInline(v.Query)
		clauses = append(clauses, riverClause{Keyword: "", Lines: []string{inline.buf.String()}})
	default:
		rowLines := make([]string, len(v.Values))
		for i, row := range v.Values {
			line := "(" + renderExprList(row) + ")"
			if i < len(v.Values)-1 {
				line += ","
			}
			rowLines[i] = line
		}
		clauses = append(clauses, riverClause{Keyword: "VALUES", Lines: rowLines})
	}

	if v.OnConflict != nil {
		clauses = append(clauses, riverClause{Keyword: "ON CONFLICT", Lines: []string{renderOnConflict(v.OnConflict)}})
	}
	if len(v.Returning) > 0 {
		clauses = append(clauses, riverClause{Keyword: "RETURNING", Lines: []string{renderSelectItems(v.Returning)}})
	}

	f.writeRiver(v.Leading, clauses, indent)
	f.terminate()
}

func renderOnConflict(oc *ast.OnConflictClause) string {
	s := ""
	if len(oc.Columns) > 0 {
		s += "(" + strings.Join(oc.Columns, ", ") + ") "
	} else if oc.Constraint != "" {
		s += "ON CONSTRAINT " + oc.Constraint + " "
	}
	if oc.DoNothing {
		return s + "DO NOTHING"
	}
	s += "DO UPDATE SET " + renderAssignments(oc.DoUpdate)
	if oc.Where != nil {
		s += " WHERE " + renderExpr(oc.Where)
	}
	return s
}

func renderAssignments(assigns []ast.Assignment) string {
	parts := make([]string, len(assigns))
	for i, a := range assigns {
		parts[i] = a.Column + " = " + renderExpr(a.Value)
	}
	return strings.Join(parts, ", ")
}

func (f *formatter) formatUpdate(v *ast.Update, indent string) {
	var clauses []riverClause
	if len(v.Ctes) > 0 {
		clauses = append(clauses, riverClause{Keyword: "WITH", Lines: []string{renderCtes(v.Ctes)}})
	}
	table := v.Table
	if v.Alias != "" {
		table += " " + v.Alias
	}
	clauses = append(clauses, riverClause{Keyword: "UPDATE", Lines: []string{table}})
	clauses = append(clauses, riverClause{Keyword: "SET", Lines: []string{renderAssignments(v.Set)}})
	if len(v.From) > 0 {
		clauses = append(clauses, riverClause{Keyword: "FROM", Lines: []string{renderFromList(v.From)}})
	}
	if v.Where != nil {
		clauses = append(clauses, riverClause{Keyword: "WHERE", Lines: splitBoolChain(v.Where)})
	}
	if len(v.Returning) > 0 {
		clauses = append(clauses, riverClause{Keyword: "RETURNING", Lines: []string{renderSelectItems(v.Returning)}})
	}
	f.writeRiver(v.Leading, clauses, indent)
	f.terminate()
}

func (f *formatter) formatDelete(v *ast.Delete, indent string) {
	var clauses []riverClause
	if len(v.Ctes) > 0 {
		clauses = append(clauses, riverClause{Keyword: "WITH", Lines: []string{renderCtes(v.Ctes)}})
	}
	table := v.Table
	if v.Alias != "" {
		table += " " + v.Alias
	}
	clauses = append(clauses, riverClause{Keyword: "DELETE FROM", Lines: []string{table}})
	if len(v.Using) > 0 {
		clauses = append(clauses, riverClause{Keyword: "USING", Lines: []string{renderFromList(v.Using)}})
	}
	if v.Where != nil {
		clauses = append(clauses, riverClause{Keyword: "WHERE", Lines: splitBoolChain(v.Where)})
	}
	if len(v.Returning) > 0 {
		clauses = append(clauses, riverClause{Keyword: "RETURNING", Lines: []string{renderSelectItems(v.Returning)}})
	}
	f.writeRiver(v.Leading, clauses, indent)
	f.terminate()
}

func (f *formatter) formatMerge(v *ast.Merge, indent string) {
	var clauses []riverClause
	target := v.Target
	if v.TargetAlias != "" {
		target += " " + v.TargetAlias
	}
	clauses = append(clauses, riverClause{Keyword: "MERGE INTO", Lines: []string{target}})
	clauses = append(clauses, riverClause{Keyword: "USING", Lines: []string{renderFromItem(v.Source)}})
	clauses = append(clauses, riverClause{Keyword: "ON", Lines: []string{renderExpr(v.On)}})
	f.writeRiver(v.Leading, clauses, indent)
	for _, w := range v.Whens {
		f.buf.WriteString(indent + renderMergeWhen(w) + "\n")
	}
	f.terminate()
}

func renderMergeWhen(w ast.MergeWhen) string {
	s := "WHEN "
	if !w.Matched {
		s += "NOT "
	}
	s += "MATCHED"
	if w.ByTarget {
		s += " BY TARGET"
	}
	if w.Condition != nil {
		s += " AND " + renderExpr(w.Condition)
	}
	s += " THEN "
	switch w.Action {
	case "UPDATE":
		s += "UPDATE SET " + renderAssignments(w.Set)
	case "DELETE":
		s += "DELETE"
	case "INSERT":
		s += "INSERT"
		if len(w.Columns) > 0 {
			s += " (" + strings.Join(w.Columns, ", ") + ")"
		}
		s += " VALUES (" + renderExprList(w.Values) + ")"
	case "DO NOTHING":
		s += "DO NOTHING"
	}
	return s
}
