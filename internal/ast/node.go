package ast

import (
	"loom/internal/source"
	"loom/internal/types"
)

// Node is the common header of every AST node. Tag decides which payload
// arena Payload indexes into; Next chains the node into at most one List.
type Node struct {
	Tag     Tag
	Span    source.Span
	Flags   Flags
	Type    types.TypeID // resolved type, NoTypeID until known
	Next    NodeID
	Payload PayloadID
}

// ProgramData wraps one module: its synthesized Module declaration and the
// top-level declarations collected for its path.
type ProgramData struct {
	Module NodeID
	Decls  List
}

type ModuleData struct {
	Name source.StringID
	Path source.StringID
}

type FuncData struct {
	Name   source.StringID
	Params List
	Result types.TypeID
	Body   NodeID
}

// DeclData serves the named single-value declarations: Param, Field, Var,
// EnumMember and TypeAlias. Init is the initializer or enumerator value.
type DeclData struct {
	Name source.StringID
	Init NodeID
}

// AggregateData serves Struct (Members are Fields) and Enum (Members are
// EnumMembers).
type AggregateData struct {
	Name    source.StringID
	Members List
}

// IdentData names something; Decl is the declaration the name was bound to,
// or NoNodeID while unresolved.
type IdentData struct {
	Name source.StringID
	Decl NodeID
}

// LitData holds the value of Int/Float/String/Bool literals; only the field
// matching the tag is meaningful.
type LitData struct {
	Int   int64
	Float float64
	Str   source.StringID
	Bool  bool
}

type BinaryData struct {
	Op    BinaryOp
	Left  NodeID
	Right NodeID
}

type UnaryData struct {
	Op      UnaryOp
	Operand NodeID
}

type CallData struct {
	Callee NodeID
	Args   List
}

type MemberData struct {
	Target NodeID
	Name   source.StringID
}

// InvokeData is an extension point: a named plugin action applied to raw,
// unevaluated argument nodes.
type InvokeData struct {
	Name source.StringID
	Args List
}

type PairData struct {
	First  NodeID
	Second NodeID
}

type BlockData struct {
	Stmts List
}

// WrapData serves Return and ExprStmt.
type WrapData struct {
	Value NodeID
}

// TypeRefData records the spelling of a type reference; the node's Type holds
// the resolved type.
type TypeRefData struct {
	Name source.StringID
}
