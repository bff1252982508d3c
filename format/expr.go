package format

import (
	"strings"

	"github.com/vinsidious/sqlfmt/ast"
)

// renderExpr renders an expression to a single line. Statement-level
// wrapping (one SELECT column per line, one AND-clause per line, etc.) is
// handled by the caller; expressions themselves stay inline, matching the
// teacher corpus's general preference for keeping leaf expressions compact
// and only breaking at clause boundaries.
func renderExpr(e ast.Expr) string {
	switch v := e.(type) {
	case nil:
		return ""
	case *ast.Literal:
		return v.Text
	case *ast.NullLit:
		return "NULL"
	case *ast.BoolLit:
		if v.Value {
			return "TRUE"
		}
		return "FALSE"
	case *ast.Star:
		if v.Qualifier == "" {
			return "*"
		}
		return v.Qualifier + ".*"
	case *ast.Ident:
		return strings.Join(v.Parts, ".")
	case *ast.Param:
		return v.Text
	case *ast.FuncCall:
		return renderFuncCall(v)
	case *ast.Binary:
		return renderExpr(v.Left) + " " + v.Operator + " " + renderExpr(v.Right)
	case *ast.Unary:
		if v.Operator == "NOT" {
			return "NOT " + renderExpr(v.Operand)
		}
		return v.Operator + renderExpr(v.Operand)
	case *ast.Paren:
		return "(" + renderExpr(v.Inner) + ")"
	case *ast.Tuple:
		return "(" + renderExprList(v.Items) + ")"
	case *ast.CaseExpr:
		return renderCase(v)
	case *ast.Cast:
		if v.DoubleColon {
			return renderExpr(v.Operand) + "::" + v.TypeName
		}
		return "CAST(" + renderExpr(v.Operand) + " AS " + v.TypeName + ")"
	case *ast.Extract:
		return "EXTRACT(" + v.Field + " FROM " + renderExpr(v.Source) + ")"
	case *ast.Interval:
		s := "INTERVAL " + v.Value
		if v.FromUnit != "" {
			s += " " + v.FromUnit
		}
		if v.ToUnit != "" {
			s += " TO " + v.ToUnit
		}
		return s
	case *ast.TypedString:
		return v.TypeName + " " + v.Value
	case *ast.Exists:
		return "EXISTS (" + renderSubqueryInline(v.Query) + ")"
	case *ast.Subquery:
		return "(" + renderSubqueryInline(v.Query) + ")"
	case *ast.InExpr:
		return renderIn(v)
	case *ast.Between:
		s := renderExpr(v.Operand)
		if v.Not {
			s += " NOT BETWEEN "
		} else {
			s += " BETWEEN "
		}
		return s + renderExpr(v.Low) + " AND " + renderExpr(v.High)
	case *ast.Like:
		s := renderExpr(v.Operand)
		if v.Not {
			s += " NOT " + v.Kind + " "
		} else {
			s += " " + v.Kind + " "
		}
		s += renderExpr(v.Pattern)
		if v.Escape != nil {
			s += " ESCAPE " + renderExpr(v.Escape)
		}
		return s
	case *ast.IsCheck:
		s := renderExpr(v.Operand) + " IS "
		if v.Not {
			s += "NOT "
		}
		return s + v.What
	case *ast.IsDistinctFrom:
		s := renderExpr(v.Left) + " IS "
		if v.Not {
			s += "NOT "
		}
		return s + "DISTINCT FROM " + renderExpr(v.Right)
	case *ast.RegexMatch:
		return renderExpr(v.Operand) + " " + v.Operator + " " + renderExpr(v.Pattern)
	case *ast.QuantifiedComparison:
		inner := ""
		if v.Query != nil {
			inner = renderSubqueryInline(v.Query)
		} else {
			inner = renderExprList(v.List)
		}
		return renderExpr(v.Left) + " " + v.Operator + " " + v.Quantifier + " (" + inner + ")"
	case *ast.ArrayConstructor:
		if v.Query != nil {
			return "ARRAY(" + renderSubqueryInline(v.Query) + ")"
		}
		return "ARRAY[" + renderExprList(v.Items) + "]"
	case *ast.OrderedExpr:
		return renderOrderedExpr(*v)
	case *ast.Raw:
		return v.Text
	default:
		return ""
	}
}

func renderExprList(items []ast.Expr) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = renderExpr(it)
	}
	return strings.Join(parts, ", ")
}

func renderOrderedExpr(oe ast.OrderedExpr) string {
	s := renderExpr(oe.Value)
	if oe.HasDir {
		if oe.Descending {
			s += " DESC"
		} else {
			s += " ASC"
		}
	}
	if oe.HasNulls {
		if oe.NullsFirst {
			s += " NULLS FIRST"
		} else {
			s += " NULLS LAST"
		}
	}
	return s
}

func renderOrderedExprList(items []ast.OrderedExpr) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = renderOrderedExpr(it)
	}
	return strings.Join(parts, ", ")
}

func renderFuncCall(fc *ast.FuncCall) string {
	var b strings.Builder
	b.WriteString(fc.Name)
	b.WriteString("(")
	if fc.Distinct {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(renderExprList(fc.Args))
	if len(fc.WithinGroup) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(renderOrderedExprList(fc.WithinGroup))
	}
	b.WriteString(")")
	if fc.Filter != nil {
		b.WriteString(" FILTER (WHERE ")
		b.WriteString(renderExpr(fc.Filter))
		b.WriteString(")")
	}
	if fc.Over != nil {
		b.WriteString(" OVER (")
		b.WriteString(renderWindowSpecInline(*fc.Over))
		b.WriteString(")")
	} else if fc.OverName != "" {
		b.WriteString(" OVER ")
		b.WriteString(fc.OverName)
	}
	return b.String()
}

func renderWindowSpecInline(w ast.WindowSpec) string {
	var parts []string
	if w.BaseWindow != "" {
		parts = append(parts, w.BaseWindow)
	}
	if len(w.PartitionBy) > 0 {
		parts = append(parts, "PARTITION BY "+renderExprList(w.PartitionBy))
	}
	if len(w.OrderBy) > 0 {
		parts = append(parts, "ORDER BY "+renderOrderedExprList(w.OrderBy))
	}
	if w.Frame != "" {
		parts = append(parts, w.Frame)
	}
	return strings.Join(parts, " ")
}

func renderCase(c *ast.CaseExpr) string {
	var b strings.Builder
	b.WriteString("CASE")
	if c.Operand != nil {
		b.WriteString(" ")
		b.WriteString(renderExpr(c.Operand))
	}
	for _, w := range c.Whens {
		b.WriteString(" WHEN ")
		b.WriteString(renderExpr(w.Condition))
		b.WriteString(" THEN ")
		b.WriteString(renderExpr(w.Result))
	}
	if c.Else != nil {
		b.WriteString(" ELSE ")
		b.WriteString(renderExpr(c.Else))
	}
	b.WriteString(" END")
	return b.String()
}

func renderIn(v *ast.InExpr) string {
	s := renderExpr(v.Operand)
	if v.Not {
		s += " NOT IN ("
	} else {
		s += " IN ("
	}
	if v.Query != nil {
		s += renderSubqueryInline(v.Query)
	} else {
		s += renderExprList(v.List)
	}
	return s + ")"
}

// renderSubqueryInline renders a nested statement compactly on one line;
// used inside expressions (EXISTS, scalar subqueries, IN lists) where the
// river-aligned multi-line form would read worse than a flat one.
func renderSubqueryInline(s ast.Statement) string {
	f := &formatter{}
	_ = f.formatStatementInline(s)
	return strings.TrimRight(f.buf.String(), "\n")
}
