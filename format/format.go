// Package format renders a parsed ast.Statement tree back to source text
// using river alignment: each top-level clause keyword of a statement is
// right-justified to a shared gutter column so the clause bodies all start
// flush (spec.md §6). Formatting is pure and deterministic — the same tree
// always produces the same text, and formatting an already-formatted tree
// is a no-op (idempotence).
package format

import (
	"strings"

	"github.com/vinsidious/sqlfmt/ast"
)

// DefaultMaxDepth mirrors the parser's recursion guard so a pathological
// tree can't blow the formatter's stack either.
const DefaultMaxDepth = 200

// DefaultLineWidth is the line width Options reports when LineWidth is
// unset. No rendering step reads the line width; lines are not wrapped.
const DefaultLineWidth = 80

// Options configures Format. The zero value is valid: default line width,
// default depth, keywords upper, no trailing newline suppression.
type Options struct {
	LineWidth int
	MaxDepth  int
	Indent    string // defaults to two spaces
}

func (o *Options) lineWidth() int {
	if o == nil || o.LineWidth <= 0 {
		return DefaultLineWidth
	}
	return o.LineWidth
}

func (o *Options) maxDepth() int {
	if o == nil || o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

func (o *Options) indent() string {
	if o == nil || o.Indent == "" {
		return "  "
	}
	return o.Indent
}

// FormatterError is returned when the tree cannot be safely rendered —
// currently only on exceeding the recursion depth guard.
type FormatterError struct {
	Message string
}

func (e *FormatterError) Error() string { return e.Message }

type formatter struct {
	opts  *Options
	depth int
	buf   strings.Builder
}

// Format renders a full statement list. Statements are separated by a
// blank line; each parsed statement ends with its terminating `;` appended
// to its last content line (added if the source lacked one), while a Raw
// statement is written as its source text with no `;` added. The assembled result is
// trimmed of leading/trailing whitespace and ends with exactly one
// newline (spec.md §6). Empty input formats to an empty string (spec.md
// §6's whitespace/comment-only normalization: callers that fed only
// trivia to the parser get no statements here, and an empty statement
// list always yields "").
func Format(stmts []ast.Statement, opts *Options) (string, error) {
	f := &formatter{opts: opts}
	for i, s := range stmts {
		if i > 0 {
			f.buf.WriteString("\n")
		}
		if err := f.enter(); err != nil {
			return "", err
		}
		if err := f.formatStatement(s, ""); err != nil {
			return "", err
		}
		f.leave()
	}
	out := strings.TrimSpace(f.buf.String())
	if out == "" {
		return "", nil
	}
	return out + "\n", nil
}

func (f *formatter) enter() error {
	f.depth++
	if f.depth > f.opts.maxDepth() {
		return &FormatterError{Message: "max recursion depth exceeded"}
	}
	return nil
}

func (f *formatter) leave() { f.depth-- }

func (f *formatter) writeComments(comments []ast.Comment, indent string) {
	for _, c := range comments {
		f.buf.WriteString(indent)
		f.buf.WriteString(c.Text)
		f.buf.WriteString("\n")
	}
}
