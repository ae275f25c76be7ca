package ast

import "fmt"

// Edges holds pointers to a node's child slots. They point into payload
// arenas and are invalidated by any allocation; re-fetch after building.
type Edges struct {
	Nodes []*NodeID
	Lists []*List
}

// Edges enumerates the child slots of id. Every tag is handled explicitly; a
// tag this switch does not know is a programming error and panics.
func (b *Builder) Edges(id NodeID) Edges {
	n := b.Get(id)
	if n == nil {
		return Edges{}
	}
	var e Edges
	switch n.Tag {
	case TagBad, TagModule, TagIdent, TagTypeRef,
		TagIntLit, TagFloatLit, TagStringLit, TagBoolLit, TagNullLit:
		// листья
	case TagProgram:
		p, _ := b.Program(id)
		e.Nodes = []*NodeID{&p.Module}
		e.Lists = []*List{&p.Decls}
	case TagFunc:
		f, _ := b.Func(id)
		e.Nodes = []*NodeID{&f.Body}
		e.Lists = []*List{&f.Params}
	case TagParam, TagField, TagVar, TagEnumMember, TagTypeAlias:
		d, _ := b.Decl(id)
		e.Nodes = []*NodeID{&d.Init}
	case TagStruct, TagEnum:
		a, _ := b.Aggregate(id)
		e.Lists = []*List{&a.Members}
	case TagBinary:
		bin, _ := b.Binary(id)
		e.Nodes = []*NodeID{&bin.Left, &bin.Right}
	case TagUnary:
		u, _ := b.Unary(id)
		e.Nodes = []*NodeID{&u.Operand}
	case TagCall:
		c, _ := b.Call(id)
		e.Nodes = []*NodeID{&c.Callee}
		e.Lists = []*List{&c.Args}
	case TagMember:
		m, _ := b.Member(id)
		e.Nodes = []*NodeID{&m.Target}
	case TagInvoke:
		inv, _ := b.Invoke(id)
		e.Lists = []*List{&inv.Args}
	case TagPair:
		p, _ := b.Pair(id)
		e.Nodes = []*NodeID{&p.First, &p.Second}
	case TagBlock:
		blk, _ := b.Block(id)
		e.Lists = []*List{&blk.Stmts}
	case TagReturn, TagExprStmt:
		w, _ := b.Wrap(id)
		e.Nodes = []*NodeID{&w.Value}
	default:
		panic(fmt.Sprintf("ast: unhandled tag %v", n.Tag))
	}
	return e
}

// Children returns the direct children of id in source order: single
// slots first, then list elements.
func (b *Builder) Children(id NodeID) []NodeID {
	e := b.Edges(id)
	var out []NodeID
	for _, slot := range e.Nodes {
		if slot.IsValid() {
			out = append(out, *slot)
		}
	}
	lists := make([]List, len(e.Lists))
	for i, l := range e.Lists {
		lists[i] = *l
	}
	for _, l := range lists {
		out = append(out, b.IDs(l)...)
	}
	return out
}

// Walk visits id and its descendants depth-first, pre-order. Returning false
// from fn skips the children of that node.
func (b *Builder) Walk(id NodeID, fn func(id NodeID) bool) {
	if !id.IsValid() {
		return
	}
	if !fn(id) {
		return
	}
	for _, c := range b.Children(id) {
		b.Walk(c, fn)
	}
}
