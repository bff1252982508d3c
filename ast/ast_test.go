package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawImplementsStatementAndExpr(t *testing.T) {
	var _ Statement = (*Raw)(nil)
	var _ Expr = (*Raw)(nil)

	r := &Raw{Text: "WHATEVER THE GRAMMAR SKIPPED", Reason: Unsupported}
	assert.Equal(t, "WHATEVER THE GRAMMAR SKIPPED", r.Text)
	assert.Equal(t, Unsupported, r.Reason)
}

func TestStmtBaseComments(t *testing.T) {
	comments := []Comment{{Text: "-- note", Block: false}}
	base := StmtBase{Leading: comments}
	assert.Equal(t, comments, base.Comments())
}

func TestEveryStatementVariantImplementsStatement(t *testing.T) {
	var stmts = []Statement{
		&Select{}, &Union{}, &Insert{}, &Update{}, &Delete{}, &Merge{},
		&CreateTable{}, &CreateIndex{}, &CreateView{}, &CreatePolicy{},
		&AlterTable{}, &DropTable{}, &Truncate{}, &GrantRevoke{},
		&Explain{}, &CommentOn{}, &Raw{},
	}
	for _, s := range stmts {
		assert.Empty(t, s.Comments(), "%T zero value should have no leading comments", s)
	}
}

func TestEveryExprVariantImplementsExpr(t *testing.T) {
	var exprs = []Expr{
		&Literal{}, &NullLit{}, &BoolLit{}, &Star{}, &Ident{}, &FuncCall{},
		&Binary{}, &Unary{}, &Paren{}, &Tuple{}, &CaseExpr{}, &Cast{},
		&Extract{}, &Interval{}, &TypedString{}, &Exists{}, &Subquery{},
		&InExpr{}, &Between{}, &Like{}, &IsCheck{}, &IsDistinctFrom{},
		&RegexMatch{}, &QuantifiedComparison{}, &ArrayConstructor{},
		&OrderedExpr{}, &Param{}, &Raw{},
	}
	for _, e := range exprs {
		_ = e // marker-method interface satisfaction checked at compile time
	}
}

func TestNewIdent(t *testing.T) {
	id := NewIdent("a", "b", "c")
	assert.Equal(t, []string{"a", "b", "c"}, id.Parts)
}
