package feed

import (
	"strings"

	"loom/internal/types"
)

// cPrims maps C spellings onto primitives. Canonical names ("i32") are
// accepted through types.ParsePrim.
var cPrims = map[string]types.Prim{
	"_Bool":              types.PrimBool,
	"bool":               types.PrimBool,
	"char":               types.PrimChar,
	"signed char":        types.PrimI8,
	"unsigned char":      types.PrimU8,
	"short":              types.PrimI16,
	"short int":          types.PrimI16,
	"unsigned short":     types.PrimU16,
	"unsigned short int": types.PrimU16,
	"int":                types.PrimI32,
	"signed":             types.PrimI32,
	"signed int":         types.PrimI32,
	"unsigned":           types.PrimU32,
	"unsigned int":       types.PrimU32,
	"long":               types.PrimI64,
	"long int":           types.PrimI64,
	"unsigned long":      types.PrimU64,
	"unsigned long int":  types.PrimU64,
	"long long":          types.PrimI64,
	"unsigned long long": types.PrimU64,
	"float":              types.PrimF32,
	"double":             types.PrimF64,
	"long double":        types.PrimF64,
	"int8_t":             types.PrimI8,
	"int16_t":            types.PrimI16,
	"int32_t":            types.PrimI32,
	"int64_t":            types.PrimI64,
	"uint8_t":            types.PrimU8,
	"uint16_t":           types.PrimU16,
	"uint32_t":           types.PrimU32,
	"uint64_t":           types.PrimU64,
	"size_t":             types.PrimU64,
	"ssize_t":            types.PrimI64,
	"ptrdiff_t":          types.PrimI64,
	"intptr_t":           types.PrimI64,
	"uintptr_t":          types.PrimU64,
}

// builtinType resolves name when it denotes a primitive or special type.
func builtinType(tt *types.Interner, name string) (types.TypeID, bool) {
	name = strings.Join(strings.Fields(name), " ")
	switch name {
	case "void":
		return tt.Builtins().Void, true
	case "string":
		return tt.Builtins().String, true
	}
	if p, ok := cPrims[name]; ok {
		return tt.Primitive(p), true
	}
	if p, ok := types.ParsePrim(name); ok {
		return tt.Primitive(p), true
	}
	return types.NoTypeID, false
}
