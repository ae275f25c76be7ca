package plugin

import (
	"context"
	"errors"
	"fmt"

	"loom/internal/ast"
	"loom/internal/diag"
	"loom/internal/trace"
)

// Stats counts what a dispatcher did over its lifetime.
type Stats struct {
	Invocations int
	Expanded    int
	Failed      int
	Unknown     int
	Panics      int
}

// Dispatcher runs actions from a registry against one context.
type Dispatcher struct {
	reg   *Registry
	ctx   *Context
	stats Stats

	tracer trace.Tracer
	parent uint64
}

func NewDispatcher(reg *Registry, ctx *Context) *Dispatcher {
	return &Dispatcher{reg: reg, ctx: ctx, tracer: trace.Nop}
}

func (d *Dispatcher) Stats() Stats {
	return d.stats
}

// Invoke calls the action name for the invocation node call. On failure every
// node allocated by the action is discarded and (List{}, false) is returned.
func (d *Dispatcher) Invoke(name string, call ast.NodeID, args ast.List) (ast.List, bool) {
	return d.invoke(name, call, args, false)
}

func (d *Dispatcher) invoke(name string, call ast.NodeID, args ast.List, single bool) (ast.List, bool) {
	d.stats.Invocations++
	b := d.ctx.AST
	at := b.SpanOf(call)

	fn, ok := d.reg.Lookup(name)
	if !ok {
		d.stats.Unknown++
		d.ctx.Errorf(diag.SevError, diag.PluginUnknownAction, at, "no plugin action named %q", name)
		d.point(name, "unknown")
		return ast.List{}, false
	}

	mark := b.Mark()
	before := d.ctx.Errors()
	res, panicked := d.call(fn, name, call, args)

	outcome := "ok"
	switch {
	case panicked:
		outcome = "panic"
	case res.Empty():
		outcome = "failed"
		if d.ctx.Errors() == before {
			d.ctx.Errorf(diag.SevError, diag.PluginFailed, at, "plugin action %q failed", name)
		}
	case single && b.Count(res) != 1:
		outcome = "shape"
		d.ctx.Errorf(diag.SevError, diag.PluginResultShape, at,
			"plugin action %q produced %d nodes where a single expression is expected", name, b.Count(res))
	default:
		d.stats.Expanded++
		d.point(name, outcome)
		return res, true
	}

	b.Rollback(mark)
	d.stats.Failed++
	d.point(name, outcome)
	return ast.List{}, false
}

// call runs fn and turns a panic into a PluginPanic diagnostic. Arena
// exhaustion is fatal and keeps unwinding.
func (d *Dispatcher) call(fn Action, name string, call ast.NodeID, args ast.List) (res ast.List, panicked bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if err, ok := r.(error); ok && errors.Is(err, ast.ErrArenaOverflow) {
			panic(r)
		}
		panicked = true
		res = ast.List{}
		d.stats.Panics++
		d.ctx.Errorf(diag.SevError, diag.PluginPanic, d.ctx.AST.SpanOf(call),
			"plugin action %q panicked: %v", name, r)
	}()
	return fn(d.ctx, call, args), false
}

func (d *Dispatcher) point(name, outcome string) {
	trace.Point(d.tracer, trace.ScopeNode, "invoke:"+name, outcome, d.parent)
}

// ExpandAll replaces every Invoke node below root with the result of its
// action, innermost invocations first. The results themselves are not
// expanded again. In a list an invocation may expand to any number of nodes;
// in a single slot exactly one is required. A failed invocation is removed
// from its list, or replaced by a Bad node flagged ExpansionFailed.
func (d *Dispatcher) ExpandAll(ctx context.Context, root ast.NodeID) Stats {
	start := d.stats
	d.tracer = trace.FromContext(ctx)
	d.parent = trace.CurrentSpan(ctx).SpanID
	defer func() { d.tracer, d.parent = trace.Nop, 0 }()

	d.expandNode(root)

	return Stats{
		Invocations: d.stats.Invocations - start.Invocations,
		Expanded:    d.stats.Expanded - start.Expanded,
		Failed:      d.stats.Failed - start.Failed,
		Unknown:     d.stats.Unknown - start.Unknown,
		Panics:      d.stats.Panics - start.Panics,
	}
}

// Edge pointers die on every allocation, so slots and lists are re-read
// after each expansion.
func (d *Dispatcher) expandNode(id ast.NodeID) {
	b := d.ctx.AST
	slots := len(b.Edges(id).Nodes)
	for i := range slots {
		child := *b.Edges(id).Nodes[i]
		if !child.IsValid() {
			continue
		}
		if repl := d.expandSlot(child); repl != child {
			*b.Edges(id).Nodes[i] = repl
		}
	}
	lists := len(b.Edges(id).Lists)
	for i := range lists {
		d.expandList(id, i)
	}
}

func (d *Dispatcher) expandSlot(id ast.NodeID) ast.NodeID {
	d.expandNode(id)
	inv, ok := d.ctx.AST.Invoke(id)
	if !ok {
		return id
	}
	res, ok := d.invoke(d.ctx.Name(inv.Name), id, inv.Args, true)
	if !ok {
		return d.failed(id)
	}
	return res.Head
}

func (d *Dispatcher) expandList(parent ast.NodeID, i int) {
	b := d.ctx.AST
	cur := b.Edges(parent).Lists[i].Head
	for cur.IsValid() {
		next := b.Get(cur).Next
		d.expandNode(cur)
		if inv, ok := b.Invoke(cur); ok {
			res, _ := d.invoke(d.ctx.Name(inv.Name), cur, inv.Args, false)
			if !b.Splice(b.Edges(parent).Lists[i], cur, res) {
				panic(fmt.Sprintf("plugin: invocation %d vanished from its list", cur))
			}
		}
		cur = next
	}
}

func (d *Dispatcher) failed(call ast.NodeID) ast.NodeID {
	return d.ctx.AST.NewBad(d.ctx.AST.SpanOf(call), ast.FlagExpansionFailed)
}
