package types

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

var (
	// ErrNotModule is returned when a module-only operation gets another type.
	ErrNotModule = errors.New("not a module type")
	// ErrDepsAlreadySet is returned by a second SetModuleDeps on one module.
	ErrDepsAlreadySet = errors.New("module dependencies already attached")
)

// Builtins stores TypeIDs for the types every run starts with.
type Builtins struct {
	Error  TypeID
	Auto   TypeID
	Void   TypeID
	Null   TypeID
	Bool   TypeID
	Char   TypeID
	I8     TypeID
	I16    TypeID
	I32    TypeID
	I64    TypeID
	U8     TypeID
	U16    TypeID
	U32    TypeID
	U64    TypeID
	F32    TypeID
	F64    TypeID
	String TypeID
}

// Interner is the single owner of type identity for a run. Structural
// shapes are canonicalized, so TypeID equality is type equality; nominal
// kinds get a fresh TypeID per registration.
type Interner struct {
	types  []Type
	index  map[typeKey]TypeID
	shapes map[string]TypeID

	tuples  []TupleInfo
	unions  []UnionInfo
	fns     []FnInfo
	aliases []AliasInfo
	structs []StructInfo
	enums   []EnumInfo
	modules []ModuleInfo

	builtins Builtins

	// PointerSize is the target pointer width in bytes.
	PointerSize uint64
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		types:       []Type{{}}, // reserve 0 as NoTypeID
		index:       make(map[typeKey]TypeID, 64),
		shapes:      make(map[string]TypeID, 32),
		tuples:      []TupleInfo{{}},
		unions:      []UnionInfo{{}},
		fns:         []FnInfo{{}},
		aliases:     []AliasInfo{{}},
		structs:     []StructInfo{{}},
		enums:       []EnumInfo{{}},
		modules:     []ModuleInfo{{}},
		PointerSize: 8,
	}
	b := &in.builtins
	b.Error = in.Intern(Type{Kind: KindError})
	b.Auto = in.Intern(Type{Kind: KindAuto})
	b.Void = in.Intern(Type{Kind: KindVoid})
	b.Null = in.Intern(Type{Kind: KindNull})
	b.String = in.Intern(Type{Kind: KindString})
	b.Bool = in.Intern(MakePrimitive(PrimBool))
	b.Char = in.Intern(MakePrimitive(PrimChar))
	b.I8 = in.Intern(MakePrimitive(PrimI8))
	b.I16 = in.Intern(MakePrimitive(PrimI16))
	b.I32 = in.Intern(MakePrimitive(PrimI32))
	b.I64 = in.Intern(MakePrimitive(PrimI64))
	b.U8 = in.Intern(MakePrimitive(PrimU8))
	b.U16 = in.Intern(MakePrimitive(PrimU16))
	b.U32 = in.Intern(MakePrimitive(PrimU32))
	b.U64 = in.Intern(MakePrimitive(PrimU64))
	b.F32 = in.Intern(MakePrimitive(PrimF32))
	b.F64 = in.Intern(MakePrimitive(PrimF64))
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Primitive returns the canonical TypeID of p.
func (in *Interner) Primitive(p Prim) TypeID {
	if p == PrimNone {
		return NoTypeID
	}
	return in.Intern(MakePrimitive(p))
}

// Intern returns the canonical TypeID for a payload-free descriptor
// (primitives, pointers, arrays, maps and the special kinds). Kinds that
// carry a payload must go through their Register* function.
func (in *Interner) Intern(t Type) TypeID {
	if t.Payload != 0 || t.Kind.registered() {
		panic(fmt.Sprintf("types: Intern called with %v; use Register*", t.Kind))
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	id := in.internRaw(t)
	in.index[key] = id
	return id
}

// registered reports whether values of kind k are built by a Register*
// function and own an info slot.
func (k Kind) registered() bool {
	switch k {
	case KindAlias, KindUnion, KindTuple, KindFunction, KindEnum, KindStruct, KindModule:
		return true
	}
	return false
}

// internRaw adds the descriptor to the storage without consulting the maps.
func (in *Interner) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	in.types = append(in.types, t)
	return TypeID(n)
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// KindOf returns KindError for unknown ids.
func (in *Interner) KindOf(id TypeID) Kind {
	tt, ok := in.Lookup(id)
	if !ok {
		return KindError
	}
	return tt.Kind
}

// Len counts interned types, excluding the NoTypeID slot.
func (in *Interner) Len() int {
	return len(in.types) - 1
}

type typeKey Type

func slot(n int, what string) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("%s info overflow: %w", what, err))
	}
	return v
}
