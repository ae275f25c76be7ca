package ast

import "loom/internal/source"

// Typed accessors return false when id is unknown or carries another tag.

func (b *Builder) payload(id NodeID, tags ...Tag) (uint32, bool) {
	n := b.Get(id)
	if n == nil {
		return 0, false
	}
	for _, t := range tags {
		if n.Tag == t {
			return uint32(n.Payload), n.Payload.IsValid()
		}
	}
	return 0, false
}

func (b *Builder) Program(id NodeID) (*ProgramData, bool) {
	p, ok := b.payload(id, TagProgram)
	if !ok {
		return nil, false
	}
	return b.Programs.Get(p), true
}

func (b *Builder) Module(id NodeID) (*ModuleData, bool) {
	p, ok := b.payload(id, TagModule)
	if !ok {
		return nil, false
	}
	return b.Modules.Get(p), true
}

func (b *Builder) Func(id NodeID) (*FuncData, bool) {
	p, ok := b.payload(id, TagFunc)
	if !ok {
		return nil, false
	}
	return b.Funcs.Get(p), true
}

// Decl covers Param, Field, Var, EnumMember and TypeAlias.
func (b *Builder) Decl(id NodeID) (*DeclData, bool) {
	p, ok := b.payload(id, TagParam, TagField, TagVar, TagEnumMember, TagTypeAlias)
	if !ok {
		return nil, false
	}
	return b.Decls.Get(p), true
}

// Aggregate covers Struct and Enum.
func (b *Builder) Aggregate(id NodeID) (*AggregateData, bool) {
	p, ok := b.payload(id, TagStruct, TagEnum)
	if !ok {
		return nil, false
	}
	return b.Aggregates.Get(p), true
}

func (b *Builder) Ident(id NodeID) (*IdentData, bool) {
	p, ok := b.payload(id, TagIdent)
	if !ok {
		return nil, false
	}
	return b.Idents.Get(p), true
}

func (b *Builder) TypeRef(id NodeID) (*TypeRefData, bool) {
	p, ok := b.payload(id, TagTypeRef)
	if !ok {
		return nil, false
	}
	return b.TypeRefs.Get(p), true
}

// Lit covers Int, Float, String and Bool literals.
func (b *Builder) Lit(id NodeID) (*LitData, bool) {
	p, ok := b.payload(id, TagIntLit, TagFloatLit, TagStringLit, TagBoolLit)
	if !ok {
		return nil, false
	}
	return b.Lits.Get(p), true
}

func (b *Builder) Binary(id NodeID) (*BinaryData, bool) {
	p, ok := b.payload(id, TagBinary)
	if !ok {
		return nil, false
	}
	return b.Binaries.Get(p), true
}

func (b *Builder) Unary(id NodeID) (*UnaryData, bool) {
	p, ok := b.payload(id, TagUnary)
	if !ok {
		return nil, false
	}
	return b.Unaries.Get(p), true
}

func (b *Builder) Call(id NodeID) (*CallData, bool) {
	p, ok := b.payload(id, TagCall)
	if !ok {
		return nil, false
	}
	return b.Calls.Get(p), true
}

func (b *Builder) Member(id NodeID) (*MemberData, bool) {
	p, ok := b.payload(id, TagMember)
	if !ok {
		return nil, false
	}
	return b.Members.Get(p), true
}

func (b *Builder) Invoke(id NodeID) (*InvokeData, bool) {
	p, ok := b.payload(id, TagInvoke)
	if !ok {
		return nil, false
	}
	return b.Invokes.Get(p), true
}

func (b *Builder) Pair(id NodeID) (*PairData, bool) {
	p, ok := b.payload(id, TagPair)
	if !ok {
		return nil, false
	}
	return b.Pairs.Get(p), true
}

func (b *Builder) Block(id NodeID) (*BlockData, bool) {
	p, ok := b.payload(id, TagBlock)
	if !ok {
		return nil, false
	}
	return b.Blocks.Get(p), true
}

// Wrap covers Return and ExprStmt.
func (b *Builder) Wrap(id NodeID) (*WrapData, bool) {
	p, ok := b.payload(id, TagReturn, TagExprStmt)
	if !ok {
		return nil, false
	}
	return b.Wraps.Get(p), true
}

// DeclName returns the declared name of any named declaration, or
// NoStringID.
func (b *Builder) DeclName(id NodeID) source.StringID {
	switch b.TagOf(id) {
	case TagFunc:
		f, _ := b.Func(id)
		return f.Name
	case TagParam, TagField, TagVar, TagEnumMember, TagTypeAlias:
		d, _ := b.Decl(id)
		return d.Name
	case TagStruct, TagEnum:
		a, _ := b.Aggregate(id)
		return a.Name
	case TagModule:
		m, _ := b.Module(id)
		return m.Name
	default:
		return source.NoStringID
	}
}
