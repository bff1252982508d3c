package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinsidious/sqlfmt/ast"
)

func ident(parts ...string) *ast.Ident { return &ast.Ident{Parts: parts} }

func lit(text string) *ast.Literal { return &ast.Literal{Text: text} }

func TestFormatEmptyStatementListReturnsEmptyString(t *testing.T) {
	out, err := Format(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestFormatSimpleSelectLiteral(t *testing.T) {
	sel := &ast.Select{Columns: []ast.SelectItem{{Expr: lit("1")}}}
	out, err := Format([]ast.Statement{sel}, nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;\n", out)
}

func TestFormatSelectWithFromAndWhere(t *testing.T) {
	sel := &ast.Select{
		Columns: []ast.SelectItem{{Expr: ident("a")}, {Expr: ident("b")}},
		From:    []ast.FromItem{{Source: ident("t")}},
		Where: &ast.Binary{
			Left:     ident("a"),
			Operator: "=",
			Right:    lit("1"),
		},
	}
	out, err := Format([]ast.Statement{sel}, nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT a,\n       b\n  FROM t\n WHERE a = 1;\n", out)
}

func TestFormatSelectColumnAliasRendered(t *testing.T) {
	sel := &ast.Select{
		Columns: []ast.SelectItem{{Expr: ident("a"), Alias: "x"}},
	}
	out, err := Format([]ast.Statement{sel}, nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT a AS x;\n", out)
}

func TestFormatSelectStar(t *testing.T) {
	sel := &ast.Select{
		Columns: []ast.SelectItem{{Expr: &ast.Star{}}},
		From:    []ast.FromItem{{Source: ident("t")}},
	}
	out, err := Format([]ast.Statement{sel}, nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT *\n  FROM t;\n", out)
}

func TestFormatWhereAndChainSplitsOneOperandPerLine(t *testing.T) {
	where := &ast.Binary{
		Left: &ast.Binary{
			Left:     ident("a"),
			Operator: "=",
			Right:    lit("1"),
		},
		Operator: "AND",
		Right: &ast.Binary{
			Left:     ident("b"),
			Operator: "=",
			Right:    lit("2"),
		},
	}
	sel := &ast.Select{
		Columns: []ast.SelectItem{{Expr: lit("1")}},
		From:    []ast.FromItem{{Source: ident("t")}},
		Where:   where,
	}
	out, err := Format([]ast.Statement{sel}, nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1\n  FROM t\n WHERE a = 1\n       AND b = 2;\n", out)
}

func TestFormatJoinClauseRendersKindAndOn(t *testing.T) {
	sel := &ast.Select{
		Columns: []ast.SelectItem{{Expr: lit("1")}},
		From: []ast.FromItem{
			{Source: ident("a")},
			{
				Source: ident("b"),
				Join: &ast.JoinClause{
					Kind: "LEFT OUTER",
					On: &ast.Binary{
						Left:     ident("a", "id"),
						Operator: "=",
						Right:    ident("b", "id"),
					},
				},
			},
		},
	}
	out, err := Format([]ast.Statement{sel}, nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1\n  FROM a\n       LEFT OUTER JOIN b ON a.id = b.id;\n", out)
}

// TestFormatGutterWidthUsesFirstWordOfMultiWordKeywords verifies that a
// two-word clause keyword like GROUP BY doesn't widen the gutter itself:
// the river is sized to each keyword's first word, so SELECT stays at the
// left margin and GROUP BY overflows one column to its right.
func TestFormatGutterWidthUsesFirstWordOfMultiWordKeywords(t *testing.T) {
	sel := &ast.Select{
		Columns: []ast.SelectItem{{Expr: lit("1")}},
		From:    []ast.FromItem{{Source: ident("t")}},
		GroupBy: &ast.GroupByClause{Items: []ast.Expr{ident("a")}},
	}
	out, err := Format([]ast.Statement{sel}, nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1\n  FROM t\n GROUP BY a;\n", out)
}

func TestFormatInsertValues(t *testing.T) {
	ins := &ast.Insert{
		Table:   "t",
		Columns: []string{"a", "b"},
		Values:  [][]ast.Expr{{lit("1"), lit("2")}},
	}
	out, err := Format([]ast.Statement{ins}, nil)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO t (a, b)\nVALUES (1, 2);\n", out)
}

func TestFormatInsertOnConflictDoNothing(t *testing.T) {
	ins := &ast.Insert{
		Table:   "t",
		Columns: []string{"a"},
		Values:  [][]ast.Expr{{lit("1")}},
		OnConflict: &ast.OnConflictClause{
			Columns:   []string{"a"},
			DoNothing: true,
		},
	}
	out, err := Format([]ast.Statement{ins}, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "ON CONFLICT (a) DO NOTHING")
}

func TestFormatUpdateSetWhere(t *testing.T) {
	upd := &ast.Update{
		Table: "t",
		Set: []ast.Assignment{
			{Column: "a", Value: lit("1")},
		},
		Where: &ast.Binary{Left: ident("id"), Operator: "=", Right: lit("5")},
	}
	out, err := Format([]ast.Statement{upd}, nil)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE t\n   SET a = 1\n WHERE id = 5;\n", out)
}

func TestFormatDeleteFromWhere(t *testing.T) {
	del := &ast.Delete{
		Table: "t",
		Where: &ast.Binary{Left: ident("id"), Operator: "=", Right: lit("5")},
	}
	out, err := Format([]ast.Statement{del}, nil)
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM t\n WHERE id = 5;\n", out)
}

func TestFormatUnionDropsIntermediateTerminator(t *testing.T) {
	u := &ast.Union{
		Left:  &ast.Select{Columns: []ast.SelectItem{{Expr: lit("1")}}},
		Right: &ast.Select{Columns: []ast.SelectItem{{Expr: lit("2")}}},
		Op:    ast.UnionOp,
	}
	out, err := Format([]ast.Statement{u}, nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1\nUNION\nSELECT 2;\n", out)
	assert.Equal(t, 1, strings.Count(out, ";"))
}

func TestFormatUnionAll(t *testing.T) {
	u := &ast.Union{
		Left:  &ast.Select{Columns: []ast.SelectItem{{Expr: lit("1")}}},
		Right: &ast.Select{Columns: []ast.SelectItem{{Expr: lit("2")}}},
		Op:    ast.UnionOp,
		All:   true,
	}
	out, err := Format([]ast.Statement{u}, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "UNION ALL")
}

func TestFormatMultipleStatementsSeparatedByBlankLine(t *testing.T) {
	a := &ast.Select{Columns: []ast.SelectItem{{Expr: lit("1")}}}
	b := &ast.Select{Columns: []ast.SelectItem{{Expr: lit("2")}}}
	out, err := Format([]ast.Statement{a, b}, nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;\n\nSELECT 2;\n", out)
}

func TestFormatRawStatementPassesTextThrough(t *testing.T) {
	raw := &ast.Raw{Text: "CREATE EXTENSION foo", Reason: ast.Unsupported}
	out, err := Format([]ast.Statement{raw}, nil)
	require.NoError(t, err)
	assert.Equal(t, "CREATE EXTENSION foo\n", out)
}

func TestFormatMaxDepthExceededReturnsFormatterError(t *testing.T) {
	var inner ast.Expr = lit("1")
	for i := 0; i < 10; i++ {
		inner = &ast.Paren{Inner: inner}
	}
	sel := &ast.Select{Columns: []ast.SelectItem{{Expr: inner}}}
	_, err := Format([]ast.Statement{sel}, &Options{MaxDepth: 1})
	require.Error(t, err)
	var ferr *FormatterError
	assert.ErrorAs(t, err, &ferr)
}

func TestFormatCreateTableColumns(t *testing.T) {
	ct := &ast.CreateTable{
		Name: "t",
		Columns: []ast.ColumnDef{
			{Name: "id", TypeName: "INT"},
			{Name: "name", TypeName: "TEXT"},
		},
	}
	out, err := Format([]ast.Statement{ct}, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE TABLE t")
	assert.Contains(t, out, "id")
	assert.Contains(t, out, "name")
}

func TestFormatDropTable(t *testing.T) {
	dt := &ast.DropTable{Names: []string{"t"}, IfExists: true}
	out, err := Format([]ast.Statement{dt}, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "DROP TABLE")
	assert.Contains(t, out, "IF EXISTS")
	assert.Contains(t, out, "t")
}
