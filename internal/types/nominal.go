package types

import (
	"fmt"
	"slices"

	"loom/internal/source"
)

// StructField describes a single field inside a nominal struct type.
type StructField struct {
	Name source.StringID
	Type TypeID
}

// StructInfo stores metadata for a struct type. Base is the embedded parent
// struct, NoTypeID when there is none.
type StructInfo struct {
	Name   source.StringID
	Decl   source.Span
	Base   TypeID
	Fields []StructField
}

type EnumMember struct {
	Name  source.StringID
	Value int64
}

// EnumInfo stores an enum's underlying integer type and its enumerators in
// declaration order.
type EnumInfo struct {
	Name    source.StringID
	Decl    source.Span
	Base    TypeID
	Members []EnumMember
}

// ModuleInfo describes one module of the linked program. Deps is attached
// once, after every module type exists.
type ModuleInfo struct {
	Name   source.StringID
	Path   source.StringID
	Deps   []TypeID
	linked bool
}

// RegisterStruct allocates a nominal struct type slot and returns its TypeID.
func (in *Interner) RegisterStruct(name source.StringID, decl source.Span) TypeID {
	in.structs = append(in.structs, StructInfo{Name: name, Decl: decl})
	return in.internRaw(Type{Kind: KindStruct, Payload: slot(len(in.structs)-1, "struct")})
}

// SetStructFields stores the resolved base and field descriptors.
func (in *Interner) SetStructFields(typeID, base TypeID, fields []StructField) {
	info := in.structInfo(typeID)
	if info == nil {
		return
	}
	info.Base = base
	info.Fields = slices.Clone(fields)
}

// StructInfo returns metadata for the provided struct TypeID.
func (in *Interner) StructInfo(typeID TypeID) (*StructInfo, bool) {
	info := in.structInfo(typeID)
	return info, info != nil
}

// RegisterEnum allocates a nominal enum; base defaults to i32.
func (in *Interner) RegisterEnum(name source.StringID, decl source.Span, base TypeID) TypeID {
	if base == NoTypeID {
		base = in.builtins.I32
	}
	in.enums = append(in.enums, EnumInfo{Name: name, Decl: decl, Base: base})
	return in.internRaw(Type{Kind: KindEnum, Payload: slot(len(in.enums)-1, "enum")})
}

func (in *Interner) SetEnumMembers(typeID TypeID, members []EnumMember) {
	info := in.enumInfo(typeID)
	if info == nil {
		return
	}
	info.Members = slices.Clone(members)
}

func (in *Interner) EnumInfo(typeID TypeID) (*EnumInfo, bool) {
	info := in.enumInfo(typeID)
	return info, info != nil
}

// RegisterModule allocates the type of one module. Its dependency list stays
// empty until SetModuleDeps.
func (in *Interner) RegisterModule(name, path source.StringID) TypeID {
	in.modules = append(in.modules, ModuleInfo{Name: name, Path: path})
	return in.internRaw(Type{Kind: KindModule, Payload: slot(len(in.modules)-1, "module")})
}

// SetModuleDeps attaches the dependency list of a module. The list is copied
// into a fixed slice owned by the interner; a second call is rejected.
func (in *Interner) SetModuleDeps(typeID TypeID, deps []TypeID) error {
	info := in.moduleInfo(typeID)
	if info == nil {
		return fmt.Errorf("type %d: %w", typeID, ErrNotModule)
	}
	if info.linked {
		return fmt.Errorf("module %d: %w", typeID, ErrDepsAlreadySet)
	}
	fixed := make([]TypeID, len(deps))
	copy(fixed, deps)
	info.Deps = fixed
	info.linked = true
	return nil
}

// ModuleInfo returns a read-only view; callers must not modify Deps.
func (in *Interner) ModuleInfo(typeID TypeID) (*ModuleInfo, bool) {
	info := in.moduleInfo(typeID)
	return info, info != nil
}

// ModuleDeps returns the attached dependency list and whether it has been
// attached yet.
func (in *Interner) ModuleDeps(typeID TypeID) ([]TypeID, bool) {
	info := in.moduleInfo(typeID)
	if info == nil {
		return nil, false
	}
	return info.Deps, info.linked
}

func (in *Interner) structInfo(typeID TypeID) *StructInfo {
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindStruct || tt.Payload == 0 || int(tt.Payload) >= len(in.structs) {
		return nil
	}
	return &in.structs[tt.Payload]
}

func (in *Interner) enumInfo(typeID TypeID) *EnumInfo {
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindEnum || tt.Payload == 0 || int(tt.Payload) >= len(in.enums) {
		return nil
	}
	return &in.enums[tt.Payload]
}

func (in *Interner) moduleInfo(typeID TypeID) *ModuleInfo {
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindModule || tt.Payload == 0 || int(tt.Payload) >= len(in.modules) {
		return nil
	}
	return &in.modules[tt.Payload]
}
