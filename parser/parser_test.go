package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinsidious/sqlfmt/ast"
	"github.com/vinsidious/sqlfmt/lexer"
	"github.com/vinsidious/sqlfmt/parser"
	"github.com/vinsidious/sqlfmt/token"
)

func parseOne(t *testing.T, src string) ast.Statement {
	t.Helper()
	toks, err := lexer.Tokenize(src, nil)
	require.NoError(t, err)
	stmts, err := parser.Parse(toks, nil)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	return stmts[0]
}

func TestParseSimpleSelect(t *testing.T) {
	stmt := parseOne(t, "SELECT a, b FROM t WHERE a = 1;")
	sel, ok := stmt.(*ast.Select)
	require.True(t, ok)
	require.Len(t, sel.Columns, 2)
	require.Len(t, sel.From, 1)
	require.NotNil(t, sel.Where)

	ident, ok := sel.From[0].Source.(*ast.Ident)
	require.True(t, ok)
	assert.Equal(t, []string{"t"}, ident.Parts)
}

func TestParseSelectStar(t *testing.T) {
	stmt := parseOne(t, "SELECT * FROM t;")
	sel := stmt.(*ast.Select)
	require.Len(t, sel.Columns, 1)
	_, ok := sel.Columns[0].Expr.(*ast.Star)
	assert.True(t, ok)
}

func TestParseSelectWithJoin(t *testing.T) {
	stmt := parseOne(t, "SELECT a.x FROM a JOIN b ON a.id = b.a_id;")
	sel := stmt.(*ast.Select)
	require.Len(t, sel.From, 2)
	assert.Nil(t, sel.From[0].Join)
	require.NotNil(t, sel.From[1].Join)
	assert.Equal(t, "INNER", sel.From[1].Join.Kind)
	assert.NotNil(t, sel.From[1].Join.On)
}

func TestParseSelectWithLeftOuterJoin(t *testing.T) {
	stmt := parseOne(t, "SELECT 1 FROM a LEFT OUTER JOIN b ON a.id = b.id;")
	sel := stmt.(*ast.Select)
	require.Len(t, sel.From, 2)
	assert.Equal(t, "LEFT OUTER", sel.From[1].Join.Kind)
}

func TestParseWhereAndChain(t *testing.T) {
	stmt := parseOne(t, "SELECT 1 FROM t WHERE a = 1 AND b = 2 AND c = 3;")
	sel := stmt.(*ast.Select)
	bin, ok := sel.Where.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "AND", bin.Operator)
}

func TestParseOrderByLimitOffset(t *testing.T) {
	stmt := parseOne(t, "SELECT 1 FROM t ORDER BY a DESC, b LIMIT 10 OFFSET 5;")
	sel := stmt.(*ast.Select)
	require.Len(t, sel.OrderBy, 2)
	assert.True(t, sel.OrderBy[0].HasDir)
	assert.True(t, sel.OrderBy[0].Descending)
	require.NotNil(t, sel.Limit)
	require.NotNil(t, sel.Offset)
}

func TestParseGroupByHaving(t *testing.T) {
	stmt := parseOne(t, "SELECT a, COUNT(*) FROM t GROUP BY a HAVING COUNT(*) > 1;")
	sel := stmt.(*ast.Select)
	require.NotNil(t, sel.GroupBy)
	require.Len(t, sel.GroupBy.Items, 1)
	require.NotNil(t, sel.Having)
}

func TestParseCte(t *testing.T) {
	stmt := parseOne(t, "WITH x AS (SELECT 1) SELECT * FROM x;")
	sel, ok := stmt.(*ast.Select)
	require.True(t, ok)
	require.Len(t, sel.Ctes, 1)
	assert.Equal(t, "x", sel.Ctes[0].Name)
	_, ok = sel.Ctes[0].Query.(*ast.Select)
	assert.True(t, ok)
}

func TestParseUnion(t *testing.T) {
	stmt := parseOne(t, "SELECT 1 UNION SELECT 2;")
	u, ok := stmt.(*ast.Union)
	require.True(t, ok)
	assert.Equal(t, ast.UnionOp, u.Op)
	assert.False(t, u.All)
}

func TestParseUnionAll(t *testing.T) {
	stmt := parseOne(t, "SELECT 1 UNION ALL SELECT 2;")
	u := stmt.(*ast.Union)
	assert.True(t, u.All)
}

func TestParseInsertValues(t *testing.T) {
	stmt := parseOne(t, "INSERT INTO t (a, b) VALUES (1, 2);")
	ins, ok := stmt.(*ast.Insert)
	require.True(t, ok)
	assert.Equal(t, "t", ins.Table)
	assert.Equal(t, []string{"a", "b"}, ins.Columns)
	require.Len(t, ins.Values, 1)
	require.Len(t, ins.Values[0], 2)
}

func TestParseInsertOnConflictDoNothing(t *testing.T) {
	stmt := parseOne(t, "INSERT INTO t (a) VALUES (1) ON CONFLICT (a) DO NOTHING;")
	ins := stmt.(*ast.Insert)
	require.NotNil(t, ins.OnConflict)
	assert.True(t, ins.OnConflict.DoNothing)
	assert.Equal(t, []string{"a"}, ins.OnConflict.Columns)
}

func TestParseInsertReturning(t *testing.T) {
	stmt := parseOne(t, "INSERT INTO t (a) VALUES (1) RETURNING id;")
	ins := stmt.(*ast.Insert)
	require.Len(t, ins.Returning, 1)
}

func TestParseUpdate(t *testing.T) {
	stmt := parseOne(t, "UPDATE t SET a = 1, b = 2 WHERE id = 5;")
	upd, ok := stmt.(*ast.Update)
	require.True(t, ok)
	assert.Equal(t, "t", upd.Table)
	require.Len(t, upd.Set, 2)
	require.NotNil(t, upd.Where)
}

func TestParseDelete(t *testing.T) {
	stmt := parseOne(t, "DELETE FROM t WHERE id = 5;")
	del, ok := stmt.(*ast.Delete)
	require.True(t, ok)
	assert.Equal(t, "t", del.Table)
	require.NotNil(t, del.Where)
}

func TestParseCreateTable(t *testing.T) {
	stmt := parseOne(t, "CREATE TABLE t (id INT PRIMARY KEY, name TEXT NOT NULL);")
	ct, ok := stmt.(*ast.CreateTable)
	require.True(t, ok)
	assert.Equal(t, "t", ct.Name)
	require.Len(t, ct.Columns, 2)
	assert.Equal(t, "id", ct.Columns[0].Name)
}

func TestParseCreateIndex(t *testing.T) {
	stmt := parseOne(t, "CREATE UNIQUE INDEX idx_t_a ON t (a);")
	ci, ok := stmt.(*ast.CreateIndex)
	require.True(t, ok)
	assert.True(t, ci.Unique)
	assert.Equal(t, "idx_t_a", ci.Name)
	assert.Equal(t, "t", ci.Table)
	require.Len(t, ci.Columns, 1)
}

func TestParseDropTable(t *testing.T) {
	stmt := parseOne(t, "DROP TABLE IF EXISTS t;")
	dt, ok := stmt.(*ast.DropTable)
	require.True(t, ok)
	assert.True(t, dt.IfExists)
	assert.Equal(t, []string{"t"}, dt.Names)
}

func TestParseTruncate(t *testing.T) {
	stmt := parseOne(t, "TRUNCATE TABLE t;")
	tr, ok := stmt.(*ast.Truncate)
	require.True(t, ok)
	assert.Equal(t, []string{"t"}, tr.Names)
}

func TestParseExplain(t *testing.T) {
	stmt := parseOne(t, "EXPLAIN SELECT 1;")
	ex, ok := stmt.(*ast.Explain)
	require.True(t, ok)
	require.NotNil(t, ex.Query)
}

func TestParseMultipleStatements(t *testing.T) {
	toks, err := lexer.Tokenize("SELECT 1; SELECT 2;", nil)
	require.NoError(t, err)
	stmts, err := parser.Parse(toks, nil)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
}

func TestParseStrictModeFailsOnGarbage(t *testing.T) {
	toks, err := lexer.Tokenize("SELEKT 1;", nil)
	require.NoError(t, err)
	_, err = parser.Parse(toks, &parser.Options{Recover: false})
	assert.Error(t, err)
	var perr *parser.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestParseRecoveryModeProducesRawNode(t *testing.T) {
	toks, err := lexer.Tokenize("SELEKT 1; SELECT 2;", nil)
	require.NoError(t, err)
	var recoveryCalls int
	stmts, err := parser.Parse(toks, &parser.Options{
		Recover: true,
		OnRecovery: func(start, end token.Token, err error) {
			recoveryCalls++
		},
	})
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Equal(t, 1, recoveryCalls)

	raw, ok := stmts[0].(*ast.Raw)
	require.True(t, ok)
	assert.Equal(t, ast.Unsupported, raw.Reason)

	_, ok = stmts[1].(*ast.Select)
	assert.True(t, ok)
}
