package parser

import "fmt"

// ParseError is returned by strict-mode Parse when the token stream cannot
// be reconciled with the grammar (spec.md §5/§7). Recovery mode never
// returns this; it emits an ast.Raw node and keeps going instead.
type ParseError struct {
	Position int
	Line     int
	Column   int
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// MaxDepthError guards against stack overflow on pathologically nested
// input (spec.md §5's depth-guard requirement).
type MaxDepthError struct {
	MaxDepth int
}

func (e *MaxDepthError) Error() string {
	return fmt.Sprintf("max recursion depth of %d exceeded", e.MaxDepth)
}
