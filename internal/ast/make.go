package ast

import (
	"loom/internal/source"
	"loom/internal/types"
)

// Constructors never fail; every returned node is fully formed. Lists passed
// in are adopted as-is: the caller gives up the chain.

func (b *Builder) NewBad(sp source.Span, flags Flags) NodeID {
	return b.newNode(TagBad, sp, flags, 0)
}

func (b *Builder) NewProgram(sp source.Span, flags Flags, module NodeID, decls List) NodeID {
	payload := b.Programs.Allocate(ProgramData{Module: module, Decls: decls})
	return b.newNode(TagProgram, sp, flags, payload)
}

func (b *Builder) NewModule(sp source.Span, flags Flags, name, path source.StringID) NodeID {
	payload := b.Modules.Allocate(ModuleData{Name: name, Path: path})
	return b.newNode(TagModule, sp, flags, payload)
}

func (b *Builder) NewFunc(sp source.Span, flags Flags, name source.StringID, params List, result types.TypeID, body NodeID) NodeID {
	payload := b.Funcs.Allocate(FuncData{Name: name, Params: params, Result: result, Body: body})
	return b.newNode(TagFunc, sp, flags, payload)
}

func (b *Builder) newDecl(tag Tag, sp source.Span, flags Flags, name source.StringID, typ types.TypeID, init NodeID) NodeID {
	payload := b.Decls.Allocate(DeclData{Name: name, Init: init})
	id := b.newNode(tag, sp, flags, payload)
	b.Get(id).Type = typ
	return id
}

func (b *Builder) NewParam(sp source.Span, flags Flags, name source.StringID, typ types.TypeID) NodeID {
	return b.newDecl(TagParam, sp, flags, name, typ, NoNodeID)
}

func (b *Builder) NewField(sp source.Span, flags Flags, name source.StringID, typ types.TypeID) NodeID {
	return b.newDecl(TagField, sp, flags, name, typ, NoNodeID)
}

func (b *Builder) NewVar(sp source.Span, flags Flags, name source.StringID, typ types.TypeID, init NodeID) NodeID {
	return b.newDecl(TagVar, sp, flags, name, typ, init)
}

func (b *Builder) NewEnumMember(sp source.Span, flags Flags, name source.StringID, value NodeID) NodeID {
	return b.newDecl(TagEnumMember, sp, flags, name, types.NoTypeID, value)
}

func (b *Builder) NewTypeAlias(sp source.Span, flags Flags, name source.StringID, alias types.TypeID) NodeID {
	return b.newDecl(TagTypeAlias, sp, flags, name, alias, NoNodeID)
}

func (b *Builder) NewStruct(sp source.Span, flags Flags, name source.StringID, typ types.TypeID, fields List) NodeID {
	payload := b.Aggregates.Allocate(AggregateData{Name: name, Members: fields})
	id := b.newNode(TagStruct, sp, flags, payload)
	b.Get(id).Type = typ
	return id
}

func (b *Builder) NewEnum(sp source.Span, flags Flags, name source.StringID, typ types.TypeID, members List) NodeID {
	payload := b.Aggregates.Allocate(AggregateData{Name: name, Members: members})
	id := b.newNode(TagEnum, sp, flags, payload)
	b.Get(id).Type = typ
	return id
}

func (b *Builder) NewIdent(sp source.Span, flags Flags, name source.StringID) NodeID {
	payload := b.Idents.Allocate(IdentData{Name: name})
	return b.newNode(TagIdent, sp, flags, payload)
}

func (b *Builder) NewTypeRef(sp source.Span, flags Flags, name source.StringID, typ types.TypeID) NodeID {
	payload := b.TypeRefs.Allocate(TypeRefData{Name: name})
	id := b.newNode(TagTypeRef, sp, flags, payload)
	b.Get(id).Type = typ
	return id
}

func (b *Builder) NewIntLit(sp source.Span, flags Flags, v int64) NodeID {
	payload := b.Lits.Allocate(LitData{Int: v})
	return b.newNode(TagIntLit, sp, flags, payload)
}

func (b *Builder) NewFloatLit(sp source.Span, flags Flags, v float64) NodeID {
	payload := b.Lits.Allocate(LitData{Float: v})
	return b.newNode(TagFloatLit, sp, flags, payload)
}

func (b *Builder) NewStringLit(sp source.Span, flags Flags, v source.StringID) NodeID {
	payload := b.Lits.Allocate(LitData{Str: v})
	return b.newNode(TagStringLit, sp, flags, payload)
}

func (b *Builder) NewBoolLit(sp source.Span, flags Flags, v bool) NodeID {
	payload := b.Lits.Allocate(LitData{Bool: v})
	return b.newNode(TagBoolLit, sp, flags, payload)
}

func (b *Builder) NewNullLit(sp source.Span, flags Flags) NodeID {
	return b.newNode(TagNullLit, sp, flags, 0)
}

func (b *Builder) NewBinary(sp source.Span, flags Flags, op BinaryOp, left, right NodeID) NodeID {
	payload := b.Binaries.Allocate(BinaryData{Op: op, Left: left, Right: right})
	return b.newNode(TagBinary, sp, flags, payload)
}

func (b *Builder) NewUnary(sp source.Span, flags Flags, op UnaryOp, operand NodeID) NodeID {
	payload := b.Unaries.Allocate(UnaryData{Op: op, Operand: operand})
	return b.newNode(TagUnary, sp, flags, payload)
}

func (b *Builder) NewCall(sp source.Span, flags Flags, callee NodeID, args List) NodeID {
	payload := b.Calls.Allocate(CallData{Callee: callee, Args: args})
	return b.newNode(TagCall, sp, flags, payload)
}

func (b *Builder) NewMember(sp source.Span, flags Flags, target NodeID, name source.StringID) NodeID {
	payload := b.Members.Allocate(MemberData{Target: target, Name: name})
	return b.newNode(TagMember, sp, flags, payload)
}

func (b *Builder) NewInvoke(sp source.Span, flags Flags, name source.StringID, args List) NodeID {
	payload := b.Invokes.Allocate(InvokeData{Name: name, Args: args})
	return b.newNode(TagInvoke, sp, flags, payload)
}

func (b *Builder) NewPair(sp source.Span, flags Flags, first, second NodeID) NodeID {
	payload := b.Pairs.Allocate(PairData{First: first, Second: second})
	return b.newNode(TagPair, sp, flags, payload)
}

func (b *Builder) NewBlock(sp source.Span, flags Flags, stmts List) NodeID {
	payload := b.Blocks.Allocate(BlockData{Stmts: stmts})
	return b.newNode(TagBlock, sp, flags, payload)
}

func (b *Builder) NewReturn(sp source.Span, flags Flags, value NodeID) NodeID {
	payload := b.Wraps.Allocate(WrapData{Value: value})
	return b.newNode(TagReturn, sp, flags, payload)
}

func (b *Builder) NewExprStmt(sp source.Span, flags Flags, value NodeID) NodeID {
	payload := b.Wraps.Allocate(WrapData{Value: value})
	return b.newNode(TagExprStmt, sp, flags, payload)
}
