package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindError Kind = iota
	KindAuto
	KindVoid
	KindNull
	KindPrimitive
	KindString
	KindPointer
	KindArray
	KindMap
	KindAlias
	KindUnion
	KindTuple
	KindFunction
	KindEnum
	KindStruct
	KindModule
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindAuto:
		return "auto"
	case KindVoid:
		return "void"
	case KindNull:
		return "null"
	case KindPrimitive:
		return "primitive"
	case KindString:
		return "string"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindAlias:
		return "alias"
	case KindUnion:
		return "union"
	case KindTuple:
		return "tuple"
	case KindFunction:
		return "function"
	case KindEnum:
		return "enum"
	case KindStruct:
		return "struct"
	case KindModule:
		return "module"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Nominal reports whether types of this kind are distinct per declaration
// even when their shapes match.
func (k Kind) Nominal() bool {
	return k == KindStruct || k == KindEnum || k == KindModule
}

// Prim selects a primitive scalar.
type Prim uint8

const (
	PrimNone Prim = iota
	PrimBool
	PrimChar
	PrimI8
	PrimI16
	PrimI32
	PrimI64
	PrimU8
	PrimU16
	PrimU32
	PrimU64
	PrimF32
	PrimF64
)

// Family groups numeric primitives that widen into each other.
type Family uint8

const (
	FamilyNone Family = iota
	FamilySigned
	FamilyUnsigned
	FamilyFloat
)

type primInfo struct {
	name   string
	family Family
	bits   uint8
}

var primTable = [...]primInfo{
	PrimNone: {"none", FamilyNone, 0},
	PrimBool: {"bool", FamilyNone, 8},
	PrimChar: {"char", FamilyNone, 8},
	PrimI8:   {"i8", FamilySigned, 8},
	PrimI16:  {"i16", FamilySigned, 16},
	PrimI32:  {"i32", FamilySigned, 32},
	PrimI64:  {"i64", FamilySigned, 64},
	PrimU8:   {"u8", FamilyUnsigned, 8},
	PrimU16:  {"u16", FamilyUnsigned, 16},
	PrimU32:  {"u32", FamilyUnsigned, 32},
	PrimU64:  {"u64", FamilyUnsigned, 64},
	PrimF32:  {"f32", FamilyFloat, 32},
	PrimF64:  {"f64", FamilyFloat, 64},
}

func (p Prim) String() string {
	if int(p) < len(primTable) {
		return primTable[p].name
	}
	return fmt.Sprintf("Prim(%d)", p)
}

func (p Prim) Family() Family {
	if int(p) < len(primTable) {
		return primTable[p].family
	}
	return FamilyNone
}

// Bits is the storage width of the primitive.
func (p Prim) Bits() uint8 {
	if int(p) < len(primTable) {
		return primTable[p].bits
	}
	return 0
}

// ParsePrim looks a primitive up by its canonical spelling ("i32", "f64").
func ParsePrim(name string) (Prim, bool) {
	for i := PrimBool; int(i) < len(primTable); i++ {
		if primTable[i].name == name {
			return i, true
		}
	}
	return PrimNone, false
}

// ArrayDynamic marks arrays whose length is not known at compile time.
const ArrayDynamic = ^uint32(0)

// Type is a compact structural descriptor. Payload indexes the per-kind
// info table for union, tuple, function, alias, enum, struct and module.
type Type struct {
	Kind    Kind
	Prim    Prim
	Elem    TypeID // pointer/array element, map value
	Key     TypeID // map key
	Count   uint32 // array length or ArrayDynamic
	Payload uint32
}

// MakePrimitive describes a primitive scalar.
func MakePrimitive(p Prim) Type {
	return Type{Kind: KindPrimitive, Prim: p}
}

// MakePointer describes a raw pointer to elem.
func MakePointer(elem TypeID) Type {
	return Type{Kind: KindPointer, Elem: elem}
}

// MakeArray describes an array; use ArrayDynamic for an unsized one.
func MakeArray(elem TypeID, count uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count}
}

func MakeMap(key, value TypeID) Type {
	return Type{Kind: KindMap, Key: key, Elem: value}
}
