package ast

import (
	"loom/internal/source"
	"loom/internal/types"
)

type Hints struct{ Nodes, Decls, Exprs uint }

// Builder owns every node of one compilation run. It must not be shared
// across runs.
type Builder struct {
	Nodes      *Arena[Node]
	Programs   *Arena[ProgramData]
	Modules    *Arena[ModuleData]
	Funcs      *Arena[FuncData]
	Decls      *Arena[DeclData]
	Aggregates *Arena[AggregateData]
	Idents     *Arena[IdentData]
	Lits       *Arena[LitData]
	Binaries   *Arena[BinaryData]
	Unaries    *Arena[UnaryData]
	Calls      *Arena[CallData]
	Members    *Arena[MemberData]
	Invokes    *Arena[InvokeData]
	Pairs      *Arena[PairData]
	Blocks     *Arena[BlockData]
	Wraps      *Arena[WrapData]
	TypeRefs   *Arena[TypeRefData]

	Strings *source.Interner
}

func NewBuilder(hints Hints, strings *source.Interner) *Builder {
	if hints.Nodes == 0 {
		hints.Nodes = 1 << 9
	}
	if hints.Decls == 0 {
		hints.Decls = 1 << 7
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		Nodes:      NewArena[Node](hints.Nodes),
		Programs:   NewArena[ProgramData](8),
		Modules:    NewArena[ModuleData](8),
		Funcs:      NewArena[FuncData](hints.Decls),
		Decls:      NewArena[DeclData](hints.Decls),
		Aggregates: NewArena[AggregateData](hints.Decls),
		Idents:     NewArena[IdentData](hints.Exprs),
		Lits:       NewArena[LitData](hints.Exprs),
		Binaries:   NewArena[BinaryData](hints.Exprs),
		Unaries:    NewArena[UnaryData](hints.Exprs),
		Calls:      NewArena[CallData](hints.Exprs),
		Members:    NewArena[MemberData](hints.Exprs),
		Invokes:    NewArena[InvokeData](hints.Exprs),
		Pairs:      NewArena[PairData](hints.Exprs),
		Blocks:     NewArena[BlockData](hints.Decls),
		Wraps:      NewArena[WrapData](hints.Exprs),
		TypeRefs:   NewArena[TypeRefData](hints.Exprs),
		Strings:    strings,
	}
}

// Get returns the node header, nil for NoNodeID.
func (b *Builder) Get(id NodeID) *Node {
	return b.Nodes.Get(uint32(id))
}

// TagOf returns TagBad for unknown ids.
func (b *Builder) TagOf(id NodeID) Tag {
	if n := b.Get(id); n != nil {
		return n.Tag
	}
	return TagBad
}

func (b *Builder) SpanOf(id NodeID) source.Span {
	if n := b.Get(id); n != nil {
		return n.Span
	}
	return source.Span{}
}

// SetType records the resolved type of a node.
func (b *Builder) SetType(id NodeID, t types.TypeID) {
	if n := b.Get(id); n != nil {
		n.Type = t
	}
}

func (b *Builder) TypeOf(id NodeID) types.TypeID {
	if n := b.Get(id); n != nil {
		return n.Type
	}
	return types.NoTypeID
}

func (b *Builder) newNode(tag Tag, sp source.Span, flags Flags, payload uint32) NodeID {
	return NodeID(b.Nodes.Allocate(Node{
		Tag:     tag,
		Span:    sp,
		Flags:   flags,
		Payload: PayloadID(payload),
	}))
}

// Mark captures arena sizes so a failed construction can be undone with
// Rollback. Interned strings are not rolled back.
type Mark struct {
	sizes [17]uint32
}

func (b *Builder) arenaLens() [17]uint32 {
	return [17]uint32{
		b.Nodes.Len(), b.Programs.Len(), b.Modules.Len(), b.Funcs.Len(),
		b.Decls.Len(), b.Aggregates.Len(), b.Idents.Len(), b.Lits.Len(),
		b.Binaries.Len(), b.Unaries.Len(), b.Calls.Len(), b.Members.Len(),
		b.Invokes.Len(), b.Pairs.Len(), b.Blocks.Len(), b.Wraps.Len(),
		b.TypeRefs.Len(),
	}
}

func (b *Builder) Mark() Mark {
	return Mark{sizes: b.arenaLens()}
}

// Rollback discards every node and payload allocated since m. Nodes that
// existed at m are untouched, so a rollback never corrupts the live tree as
// long as no pre-existing node was mutated to point at the discarded ones.
func (b *Builder) Rollback(m Mark) {
	s := m.sizes
	b.Nodes.Truncate(s[0])
	b.Programs.Truncate(s[1])
	b.Modules.Truncate(s[2])
	b.Funcs.Truncate(s[3])
	b.Decls.Truncate(s[4])
	b.Aggregates.Truncate(s[5])
	b.Idents.Truncate(s[6])
	b.Lits.Truncate(s[7])
	b.Binaries.Truncate(s[8])
	b.Unaries.Truncate(s[9])
	b.Calls.Truncate(s[10])
	b.Members.Truncate(s[11])
	b.Invokes.Truncate(s[12])
	b.Pairs.Truncate(s[13])
	b.Blocks.Truncate(s[14])
	b.Wraps.Truncate(s[15])
	b.TypeRefs.Truncate(s[16])
}

// Allocated reports how many nodes exist; handy for checking that a failed
// expansion left nothing behind.
func (b *Builder) Allocated() uint32 {
	return b.Nodes.Len()
}
