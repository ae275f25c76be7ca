package plugin

import (
	"fmt"

	"loom/internal/ast"
	"loom/internal/diag"
	"loom/internal/source"
	"loom/internal/types"
)

// Context is what an action may touch: the arena, the string interner, the
// type table and the diagnostic sink.
type Context struct {
	AST     *ast.Builder
	Strings *source.Interner
	Types   *types.Interner

	sink   diag.Reporter
	errors int
}

// NewContext bundles the run state for actions. sink may be nil.
func NewContext(b *ast.Builder, tt *types.Interner, sink diag.Reporter) *Context {
	if sink == nil {
		sink = diag.NopReporter{}
	}
	return &Context{AST: b, Strings: b.Strings, Types: tt, sink: sink}
}

// Report implements diag.Reporter, so actions can hand the context to any
// helper that takes a reporter.
func (c *Context) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	if sev >= diag.SevError {
		c.errors++
	}
	c.sink.Report(code, sev, primary, msg, notes)
}

// Errorf reports a formatted diagnostic.
func (c *Context) Errorf(sev diag.Severity, code diag.Code, at source.Span, format string, args ...any) {
	c.Report(code, sev, at, fmt.Sprintf(format, args...), nil)
}

// Fail reports an error and returns the failure sentinel, so actions can
// write `return ctx.Fail(...)`.
func (c *Context) Fail(code diag.Code, at source.Span, format string, args ...any) ast.List {
	c.Errorf(diag.SevError, code, at, format, args...)
	return ast.List{}
}

// Span returns the location of id, falling back to the location of call
// for synthesized nodes without one.
func (c *Context) Span(id, call ast.NodeID) source.Span {
	if sp := c.AST.SpanOf(id); sp.Known() {
		return sp
	}
	return c.AST.SpanOf(call)
}

// Name returns the text of an interned string.
func (c *Context) Name(id source.StringID) string {
	s, _ := c.Strings.Lookup(id)
	return s
}

// Errors counts error diagnostics reported through this context.
func (c *Context) Errors() int {
	return c.errors
}
