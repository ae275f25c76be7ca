package builtin

import (
	"loom/internal/ast"
	"loom/internal/diag"
	"loom/internal/plugin"
	"loom/internal/types"
)

const (
	helloText = "Hello World!"
	synth     = ast.FlagSynthesized
)

// arity reports PluginArity unless args has exactly want elements. The
// argument ids are returned in order.
func arity(ctx *plugin.Context, name string, call ast.NodeID, args ast.List, want int) ([]ast.NodeID, bool) {
	ids := ctx.AST.IDs(args)
	if len(ids) != want {
		ctx.Errorf(diag.SevError, diag.PluginArity, ctx.AST.SpanOf(call),
			"%s expects %d argument(s), got %d", name, want, len(ids))
		return nil, false
	}
	return ids, true
}

// detach unlinks argument nodes from the invocation's argument chain so they
// can be reused as children. Call it only once the action cannot fail.
func detach(b *ast.Builder, ids ...ast.NodeID) {
	for _, id := range ids {
		b.Get(id).Next = ast.NoNodeID
	}
}

// Hello takes no arguments and yields the string literal "Hello World!".
func Hello(ctx *plugin.Context, call ast.NodeID, args ast.List) ast.List {
	if _, ok := arity(ctx, "hello", call, args, 0); !ok {
		return ast.List{}
	}
	b := ctx.AST
	lit := b.NewStringLit(b.SpanOf(call), synth, ctx.Strings.Intern(helloText))
	return b.ListOf(lit)
}

// Add yields a + b over its two arguments.
func Add(ctx *plugin.Context, call ast.NodeID, args ast.List) ast.List {
	ids, ok := arity(ctx, "add", call, args, 2)
	if !ok {
		return ast.List{}
	}
	for _, id := range ids {
		if !ctx.AST.TagOf(id).IsExpr() {
			return ctx.Fail(diag.PluginShape, ctx.Span(id, call),
				"add: argument must be an expression, got %v", ctx.AST.TagOf(id))
		}
	}
	b := ctx.AST
	detach(b, ids...)
	return b.ListOf(b.NewBinary(b.SpanOf(call), synth, ast.BinaryAdd, ids[0], ids[1]))
}

// Call takes (f, a, b) where f names a function and yields f(a) * b.
func Call(ctx *plugin.Context, call ast.NodeID, args ast.List) ast.List {
	ids, ok := arity(ctx, "call", call, args, 3)
	if !ok {
		return ast.List{}
	}
	b := ctx.AST
	fn, a, rhs := ids[0], ids[1], ids[2]

	decl := b.Resolve(fn)
	if b.TagOf(decl) != ast.TagFunc {
		return ctx.Fail(diag.PluginResolution, ctx.Span(fn, call),
			"call: %s does not name a function", describe(ctx, fn))
	}

	sp := b.SpanOf(call)
	detach(b, ids...)
	inner := b.NewCall(sp, synth, fn, b.ListOf(a))
	if f, ok := b.Func(decl); ok && f.Result != types.NoTypeID {
		b.SetType(inner, f.Result)
	}
	return b.ListOf(b.NewBinary(sp, synth, ast.BinaryMul, inner, rhs))
}

// AddMembers turns (name, type) pairs into field declarations, in argument
// order. The type is a type reference or an identifier naming a struct, enum
// or type alias.
func AddMembers(ctx *plugin.Context, call ast.NodeID, args ast.List) ast.List {
	b := ctx.AST
	ids := b.IDs(args)
	if len(ids) == 0 {
		return ctx.Fail(diag.PluginArity, b.SpanOf(call), "addMembers expects at least one (name, type) pair")
	}

	members := make([]member, 0, len(ids))
	failed := false
	for i, id := range ids {
		m, ok := memberOf(ctx, call, i, id)
		if !ok {
			failed = true
			continue
		}
		members = append(members, m)
	}
	if failed {
		return ast.List{}
	}

	var out ast.List
	for _, m := range members {
		ident, _ := b.Ident(m.name)
		b.Append(&out, b.NewField(ctx.Span(m.at, call), synth, ident.Name, m.typ))
	}
	return out
}

type member struct {
	at   ast.NodeID
	name ast.NodeID
	typ  types.TypeID
}

// memberOf checks that argument i is a (name, type) pair and reports the
// offending part when it is not.
func memberOf(ctx *plugin.Context, call ast.NodeID, i int, id ast.NodeID) (member, bool) {
	b := ctx.AST
	pair, ok := b.Pair(id)
	if !ok {
		ctx.Errorf(diag.SevError, diag.PluginShape, ctx.Span(id, call),
			"addMembers: argument %d must be a (name, type) pair, got %v", i+1, b.TagOf(id))
		return member{}, false
	}
	if _, ok := b.Ident(pair.First); !ok {
		ctx.Errorf(diag.SevError, diag.PluginShape, ctx.Span(pair.First, id),
			"addMembers: member %d has no name", i+1)
		return member{}, false
	}
	typ, ok := memberType(b, pair.Second)
	if !ok {
		ctx.Errorf(diag.SevError, diag.PluginShape, ctx.Span(pair.Second, id),
			"addMembers: %s is not a type", describe(ctx, pair.Second))
		return member{}, false
	}
	return member{at: id, name: pair.First, typ: typ}, true
}

func memberType(b *ast.Builder, id ast.NodeID) (types.TypeID, bool) {
	if b.TagOf(id) == ast.TagTypeRef {
		t := b.TypeOf(id)
		return t, t != types.NoTypeID
	}
	if _, ok := b.Ident(id); !ok {
		return types.NoTypeID, false
	}
	decl := b.Resolve(id)
	switch b.TagOf(decl) {
	case ast.TagStruct, ast.TagEnum, ast.TagTypeAlias:
		t := b.TypeOf(decl)
		return t, t != types.NoTypeID
	default:
		return types.NoTypeID, false
	}
}

func describe(ctx *plugin.Context, id ast.NodeID) string {
	if ident, ok := ctx.AST.Ident(id); ok {
		return "'" + ctx.Name(ident.Name) + "'"
	}
	return ctx.AST.TagOf(id).String()
}
