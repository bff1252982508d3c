// Package sqlfmt is the library surface of the formatter: Tokenize, Parse
// and Format compose into the one-directional pipeline described in
// spec.md §5 (tokenizer → parser → formatter, never the other way).
package sqlfmt

import (
	"github.com/vinsidious/sqlfmt/ast"
	"github.com/vinsidious/sqlfmt/dialect"
	"github.com/vinsidious/sqlfmt/format"
	"github.com/vinsidious/sqlfmt/lexer"
	"github.com/vinsidious/sqlfmt/parser"
	"github.com/vinsidious/sqlfmt/token"
)

// Options bundles the knobs of all three stages behind one call, the way
// callers in practice want to configure a single Format invocation rather
// than wiring lexer.Options/parser.Options/format.Options separately.
type Options struct {
	Dialect           *dialect.Dialect
	AllowMetaCommands bool
	Recover           bool
	MaxDepth          int
	LineWidth         int
	Indent            string
	OnRecovery        func(start, end token.Token, err error)
}

func (o *Options) lexOpts() *lexer.Options {
	if o == nil {
		return nil
	}
	return &lexer.Options{Dialect: o.Dialect, AllowMetaCommands: o.AllowMetaCommands}
}

func (o *Options) parseOpts() *parser.Options {
	if o == nil {
		return nil
	}
	return &parser.Options{Recover: o.Recover, MaxDepth: o.MaxDepth, Dialect: o.Dialect, OnRecovery: o.OnRecovery}
}

func (o *Options) formatOpts() *format.Options {
	if o == nil {
		return nil
	}
	return &format.Options{LineWidth: o.LineWidth, MaxDepth: o.MaxDepth, Indent: o.Indent}
}

// Tokenize exposes the lexer stage directly, for callers that only need the
// token stream (editors, syntax highlighters).
func Tokenize(src string, opts *Options) ([]token.Token, error) {
	return lexer.Tokenize(src, opts.lexOpts())
}

// Parse tokenizes and parses src, returning the statement tree.
func Parse(src string, opts *Options) ([]ast.Statement, error) {
	tokens, err := Tokenize(src, opts)
	if err != nil {
		return nil, err
	}
	return parser.Parse(tokens, opts.parseOpts())
}

// Format runs the full pipeline and returns the formatted source. Recovery
// mode (Options.Recover) is normally on for Format, since a formatter's
// job is to improve whatever it's given, not to reject it.
func Format(src string, opts *Options) (string, error) {
	stmts, err := Parse(src, opts)
	if err != nil {
		return "", err
	}
	return format.Format(stmts, opts.formatOpts())
}
