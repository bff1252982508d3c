// Package parser builds the typed ast.Statement tree from a token stream
// (spec.md §5). It runs in one of two modes: strict (first unparsable
// construct fails the whole call with a *ParseError) or recovery (the
// unparsable span becomes an ast.Raw node and parsing resumes at the next
// statement boundary). Both modes are driven by the same grammar; recovery
// only changes what happens when the grammar gets stuck.
package parser

import (
	"github.com/vinsidious/sqlfmt/ast"
	"github.com/vinsidious/sqlfmt/dialect"
	"github.com/vinsidious/sqlfmt/token"
)

// DefaultMaxDepth bounds expression/statement nesting (spec.md §5).
const DefaultMaxDepth = 200

// Options configures Parse. The zero value means: strict mode, default
// depth, no dialect extras.
type Options struct {
	Recover    bool
	MaxDepth   int
	Dialect    *dialect.Dialect
	OnRecovery func(start, end token.Token, err error)
}

func (o *Options) maxDepth() int {
	if o == nil || o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

func (o *Options) recover() bool { return o != nil && o.Recover }

func (o *Options) clauseKeywords() map[string]bool {
	set := map[string]bool{}
	if o != nil && o.Dialect != nil {
		for _, k := range o.Dialect.ClauseKeywords {
			set[k] = true
		}
	}
	return set
}

type parser struct {
	tokens  []token.Token
	pos     int
	depth   int
	opts    *Options
	clauseKw map[string]bool
}

// Parse consumes a full token stream (as produced by lexer.Tokenize,
// including the trailing EOF) and returns the statements found in it.
func Parse(tokens []token.Token, opts *Options) ([]ast.Statement, error) {
	p := &parser{tokens: tokens, opts: opts, clauseKw: opts.clauseKeywords()}
	var stmts []ast.Statement
	for !p.atEOF() {
		p.skipSemicolons()
		if p.atEOF() {
			break
		}
		leading := p.takeLeadingComments()
		stmt, err := p.parseStatementRecovering(leading)
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, nil
}

func (p *parser) parseStatementRecovering(leading []ast.Comment) (ast.Statement, error) {
	start := p.cur()
	checkpoint := p.pos
	stmt, err := p.parseStatement()
	if err == nil {
		attachLeading(stmt, leading)
		return stmt, nil
	}
	if !p.opts.recover() {
		return nil, err
	}
	p.pos = checkpoint
	end := p.skipToStatementBoundary()
	if p.opts.OnRecovery != nil {
		p.opts.OnRecovery(start, end, err)
	}
	text := p.sliceText(checkpoint, p.pos)
	raw := &ast.Raw{StmtBase: ast.StmtBase{Leading: leading}, Text: text, Reason: ast.Unsupported}
	return raw, nil
}

// skipToStatementBoundary advances past tokens until a top-level `;` (which
// it consumes), a psql meta-command line (which it leaves for the next
// statement), or EOF, returning the last token consumed so callers can
// report a span.
func (p *parser) skipToStatementBoundary() token.Token {
	depth := 0
	var last token.Token
	for !p.atEOF() {
		t := p.cur()
		if depth <= 0 && last.Text != "" && t.Kind == token.LineComment && len(t.Text) > 0 && t.Text[0] == '\\' {
			return last
		}
		if t.IsPunct("(") {
			depth++
		}
		if t.IsPunct(")") {
			depth--
		}
		if depth <= 0 && t.IsPunct(";") {
			last = t
			p.advance()
			return last
		}
		last = t
		p.advance()
	}
	return last
}

func (p *parser) sliceText(from, to int) string {
	var b []byte
	for i := from; i < to && i < len(p.tokens); i++ {
		b = append(b, p.tokens[i].Text...)
	}
	return string(b)
}

func attachLeading(stmt ast.Statement, leading []ast.Comment) {
	switch s := stmt.(type) {
	case *ast.Select:
		s.Leading = leading
	case *ast.Union:
		s.Leading = leading
	case *ast.Insert:
		s.Leading = leading
	case *ast.Update:
		s.Leading = leading
	case *ast.Delete:
		s.Leading = leading
	case *ast.Merge:
		s.Leading = leading
	case *ast.CreateTable:
		s.Leading = leading
	case *ast.CreateIndex:
		s.Leading = leading
	case *ast.CreateView:
		s.Leading = leading
	case *ast.CreatePolicy:
		s.Leading = leading
	case *ast.AlterTable:
		s.Leading = leading
	case *ast.DropTable:
		s.Leading = leading
	case *ast.Truncate:
		s.Leading = leading
	case *ast.GrantRevoke:
		s.Leading = leading
	case *ast.Explain:
		s.Leading = leading
	case *ast.CommentOn:
		s.Leading = leading
	case *ast.Raw:
		s.Leading = leading
	}
}

func (p *parser) parseStatement() (ast.Statement, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	ctes, recursive, err := p.parseOptionalWithClause()
	if err != nil {
		return nil, err
	}
	if ctes != nil {
		return p.parseCteBody(ctes, recursive)
	}

	switch {
	case p.isKw("SELECT"):
		return p.parseSelectChain(nil)
	case p.isKw("INSERT"):
		return p.parseInsert(nil)
	case p.isKw("UPDATE"):
		return p.parseUpdate(nil)
	case p.isKw("DELETE"):
		return p.parseDelete(nil)
	case p.isKw("MERGE"):
		return p.parseMerge()
	case p.isKw("CREATE"):
		return p.parseCreate()
	case p.isKw("ALTER") && p.peekIsKw(1, "TABLE"):
		return p.parseAlterTable()
	case p.isKw("DROP") && p.peekIsKw(1, "TABLE"):
		return p.parseDropTable()
	case p.isKw("TRUNCATE"):
		return p.parseTruncate()
	case p.isKw("GRANT"):
		return p.parseGrantRevoke(false)
	case p.isKw("REVOKE"):
		return p.parseGrantRevoke(true)
	case p.isKw("EXPLAIN"):
		return p.parseExplain()
	case p.isKw("COMMENT") && p.peekIsKw(1, "ON"):
		return p.parseCommentOn()
	default:
		return p.failHere("unrecognized statement")
	}
}

func (p *parser) parseCteBody(ctes []ast.Cte, recursive bool) (ast.Statement, error) {
	switch {
	case p.isKw("SELECT"):
		return p.parseSelectChain(ctes)
	case p.isKw("INSERT"):
		return p.parseInsert(ctes)
	case p.isKw("UPDATE"):
		return p.parseUpdate(ctes)
	case p.isKw("DELETE"):
		return p.parseDelete(ctes)
	default:
		return p.failHere("expected SELECT, INSERT, UPDATE or DELETE after WITH clause")
	}
}
