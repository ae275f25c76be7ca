package types

import (
	"slices"
	"strconv"
	"strings"

	"loom/internal/source"
)

// TupleInfo stores the element types for a tuple type.
type TupleInfo struct {
	Elems []TypeID
}

// UnionInfo stores the members of a union in canonical (ascending TypeID)
// order.
type UnionInfo struct {
	Members []TypeID
}

// FnInfo stores metadata for function types.
type FnInfo struct {
	Params   []TypeID
	Variadic bool
	Result   TypeID
}

// AliasInfo names another type. Aliases are transparent for every query.
type AliasInfo struct {
	Name   source.StringID
	Target TypeID
}

// shapeKey renders a structural signature used to canonicalize payload
// types.
func shapeKey(kind Kind, extra string, ids []TypeID) string {
	var sb strings.Builder
	sb.WriteString(kind.String())
	sb.WriteByte(':')
	sb.WriteString(extra)
	sb.WriteByte('(')
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	sb.WriteByte(')')
	return sb.String()
}

func (in *Interner) canonical(key string, mk func() Type) TypeID {
	if id, ok := in.shapes[key]; ok {
		return id
	}
	id := in.internRaw(mk())
	in.shapes[key] = id
	return id
}

// RegisterTuple creates or finds the tuple with the given elements.
func (in *Interner) RegisterTuple(elems []TypeID) TypeID {
	key := shapeKey(KindTuple, "", elems)
	return in.canonical(key, func() Type {
		in.tuples = append(in.tuples, TupleInfo{Elems: slices.Clone(elems)})
		return Type{Kind: KindTuple, Payload: slot(len(in.tuples)-1, "tuple")}
	})
}

// RegisterUnion creates or finds the union of members. Member order and
// repetition do not matter: a|b and b|a|a are the same type.
func (in *Interner) RegisterUnion(members []TypeID) TypeID {
	canon := slices.Clone(members)
	slices.Sort(canon)
	canon = slices.Compact(canon)
	key := shapeKey(KindUnion, "", canon)
	return in.canonical(key, func() Type {
		in.unions = append(in.unions, UnionInfo{Members: canon})
		return Type{Kind: KindUnion, Payload: slot(len(in.unions)-1, "union")}
	})
}

// RegisterFn creates or finds a function type.
func (in *Interner) RegisterFn(params []TypeID, variadic bool, result TypeID) TypeID {
	extra := strconv.FormatUint(uint64(result), 10)
	if variadic {
		extra += "..."
	}
	key := shapeKey(KindFunction, extra, params)
	return in.canonical(key, func() Type {
		in.fns = append(in.fns, FnInfo{Params: slices.Clone(params), Variadic: variadic, Result: result})
		return Type{Kind: KindFunction, Payload: slot(len(in.fns)-1, "fn")}
	})
}

// RegisterAlias creates or finds the alias name = target.
func (in *Interner) RegisterAlias(name source.StringID, target TypeID) TypeID {
	if _, ok := in.Lookup(target); !ok {
		panic("types: RegisterAlias target " + strconv.FormatUint(uint64(target), 10) + " does not exist")
	}
	extra := strconv.FormatUint(uint64(name), 10)
	key := shapeKey(KindAlias, extra, []TypeID{target})
	return in.canonical(key, func() Type {
		in.aliases = append(in.aliases, AliasInfo{Name: name, Target: target})
		return Type{Kind: KindAlias, Payload: slot(len(in.aliases)-1, "alias")}
	})
}

// TupleInfo returns the element types for a tuple TypeID.
func (in *Interner) TupleInfo(id TypeID) (*TupleInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTuple || int(tt.Payload) >= len(in.tuples) {
		return nil, false
	}
	return &in.tuples[tt.Payload], true
}

func (in *Interner) UnionInfo(id TypeID) (*UnionInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindUnion || int(tt.Payload) >= len(in.unions) {
		return nil, false
	}
	return &in.unions[tt.Payload], true
}

// FnInfo retrieves function type metadata by TypeID.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFunction || int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}

func (in *Interner) AliasInfo(id TypeID) (*AliasInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindAlias || int(tt.Payload) >= len(in.aliases) {
		return nil, false
	}
	return &in.aliases[tt.Payload], true
}

// Unalias strips every alias layer from id.
func (in *Interner) Unalias(id TypeID) TypeID {
	// цель алиаса всегда старше самого алиаса (RegisterAlias), цикла нет
	for {
		info, ok := in.AliasInfo(id)
		if !ok {
			return id
		}
		id = info.Target
	}
}
