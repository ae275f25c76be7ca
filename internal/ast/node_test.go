package ast

import (
	"testing"

	"loom/internal/source"
	"loom/internal/types"
)

func TestAccessorsCheckTag(t *testing.T) {
	b := newTestBuilder()
	name := b.Strings.Intern("x")
	id := b.NewIdent(source.Span{}, 0, name)
	if _, ok := b.Func(id); ok {
		t.Fatalf("Func accessor accepted an ident")
	}
	ident, ok := b.Ident(id)
	if !ok || ident.Name != name {
		t.Fatalf("Ident accessor failed")
	}
	if _, ok := b.Ident(NoNodeID); ok {
		t.Fatalf("NoNodeID must not resolve to a payload")
	}
}

func TestEdgesCoversEveryTag(t *testing.T) {
	b := newTestBuilder()
	sp := source.Span{}
	x := b.Strings.Intern("x")
	nodes := []NodeID{
		b.NewBad(sp, 0),
		b.NewModule(sp, 0, x, x),
		b.NewFunc(sp, 0, x, List{}, types.NoTypeID, NoNodeID),
		b.NewParam(sp, 0, x, types.NoTypeID),
		b.NewVar(sp, 0, x, types.NoTypeID, NoNodeID),
		b.NewField(sp, 0, x, types.NoTypeID),
		b.NewStruct(sp, 0, x, types.NoTypeID, List{}),
		b.NewEnum(sp, 0, x, types.NoTypeID, List{}),
		b.NewEnumMember(sp, 0, x, NoNodeID),
		b.NewTypeAlias(sp, 0, x, types.NoTypeID),
		b.NewIdent(sp, 0, x),
		b.NewTypeRef(sp, 0, x, types.NoTypeID),
		b.NewIntLit(sp, 0, 1),
		b.NewFloatLit(sp, 0, 1.5),
		b.NewStringLit(sp, 0, x),
		b.NewBoolLit(sp, 0, true),
		b.NewNullLit(sp, 0),
		b.NewBinary(sp, 0, BinaryAdd, NoNodeID, NoNodeID),
		b.NewUnary(sp, 0, UnaryNeg, NoNodeID),
		b.NewCall(sp, 0, NoNodeID, List{}),
		b.NewMember(sp, 0, NoNodeID, x),
		b.NewInvoke(sp, 0, x, List{}),
		b.NewPair(sp, 0, NoNodeID, NoNodeID),
		b.NewBlock(sp, 0, List{}),
		b.NewReturn(sp, 0, NoNodeID),
		b.NewExprStmt(sp, 0, NoNodeID),
	}
	nodes = append(nodes, b.NewProgram(sp, 0, nodes[1], List{}))
	seen := make(map[Tag]bool)
	for _, id := range nodes {
		seen[b.TagOf(id)] = true
		_ = b.Edges(id) // must not panic
	}
	for tag := Tag(0); tag < tagCount; tag++ {
		if !seen[tag] {
			t.Errorf("no constructor exercised tag %v", tag)
		}
	}
}

func TestEdgesPanicsOnUnknownTag(t *testing.T) {
	b := newTestBuilder()
	id := b.NewBad(source.Span{}, 0)
	b.Get(id).Tag = tagCount
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown tag")
		}
	}()
	b.Edges(id)
}

func TestResolveFollowsChain(t *testing.T) {
	b := newTestBuilder()
	sp := source.Span{}
	fn := b.NewFunc(sp, 0, b.Strings.Intern("f"), List{}, types.NoTypeID, NoNodeID)
	inner := b.NewIdent(sp, 0, b.Strings.Intern("f"))
	outer := b.NewIdent(sp, 0, b.Strings.Intern("g"))
	b.Bind(inner, fn)
	b.Bind(outer, inner)

	before := *b.Get(fn)
	if got := b.Resolve(outer); got != fn {
		t.Fatalf("Resolve = %d, want %d", got, fn)
	}
	if *b.Get(fn) != before {
		t.Fatalf("Resolve mutated the declaration")
	}
	if got := b.Resolve(fn); got != fn {
		t.Fatalf("declarations resolve to themselves")
	}
}

func TestResolveUnboundAndCycle(t *testing.T) {
	b := newTestBuilder()
	sp := source.Span{}
	a := b.NewIdent(sp, 0, b.Strings.Intern("a"))
	if b.Resolve(a) != NoNodeID {
		t.Fatalf("unbound ident must resolve to NoNodeID")
	}
	c := b.NewIdent(sp, 0, b.Strings.Intern("c"))
	b.Bind(a, c)
	b.Bind(c, a)
	if b.Resolve(a) != NoNodeID {
		t.Fatalf("cyclic binding must resolve to NoNodeID")
	}
}

func TestRollbackDiscardsNewNodes(t *testing.T) {
	b := newTestBuilder()
	keep := b.NewIntLit(source.Span{}, 0, 1)
	m := b.Mark()
	b.NewBinary(source.Span{}, 0, BinaryAdd, keep, b.NewIntLit(source.Span{}, 0, 2))
	b.Rollback(m)
	if b.Allocated() != 1 {
		t.Fatalf("Allocated = %d after rollback, want 1", b.Allocated())
	}
	if b.Binaries.Len() != 0 {
		t.Fatalf("binary payload survived rollback")
	}
	if lit, ok := b.Lit(keep); !ok || lit.Int != 1 {
		t.Fatalf("pre-existing node damaged by rollback")
	}
}

func TestWalkPreOrder(t *testing.T) {
	b := newTestBuilder()
	sp := source.Span{}
	l := b.NewIntLit(sp, 0, 1)
	r := b.NewIntLit(sp, 0, 2)
	bin := b.NewBinary(sp, 0, BinaryAdd, l, r)
	stmt := b.NewExprStmt(sp, 0, bin)
	var order []NodeID
	b.Walk(stmt, func(id NodeID) bool {
		order = append(order, id)
		return true
	})
	want := []NodeID{stmt, bin, l, r}
	if len(order) != len(want) {
		t.Fatalf("walk order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("walk order = %v, want %v", order, want)
		}
	}
}
