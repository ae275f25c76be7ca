package types

import (
	"errors"
	"testing"

	"loom/internal/source"
)

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Void == NoTypeID || b.I32 == NoTypeID || b.String == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	if in.KindOf(b.Null) != KindNull {
		t.Fatalf("expected null kind, got %v", in.KindOf(b.Null))
	}
	if in.Primitive(PrimI32) != b.I32 {
		t.Fatalf("Primitive(i32) must return the builtin")
	}
}

func TestInternIsIdempotent(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	p1 := in.Intern(MakePointer(b.Char))
	p2 := in.Intern(MakePointer(b.Char))
	if p1 != p2 {
		t.Fatalf("pointer types should be deduplicated")
	}
	if in.Intern(MakeArray(b.I32, 4)) == in.Intern(MakeArray(b.I32, 5)) {
		t.Fatalf("arrays of different length must differ")
	}
	if in.Intern(MakeArray(b.I32, ArrayDynamic)) != in.Intern(MakeArray(b.I32, ArrayDynamic)) {
		t.Fatalf("dynamic arrays should be deduplicated")
	}
	if in.Intern(MakeMap(b.String, b.I32)) == in.Intern(MakeMap(b.I32, b.String)) {
		t.Fatalf("map key and value are not interchangeable")
	}
}

func TestStructuralPayloadTypesAreCanonical(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	if in.RegisterTuple([]TypeID{b.I32, b.F64}) != in.RegisterTuple([]TypeID{b.I32, b.F64}) {
		t.Fatalf("tuple not canonical")
	}
	if in.RegisterTuple([]TypeID{b.I32, b.F64}) == in.RegisterTuple([]TypeID{b.F64, b.I32}) {
		t.Fatalf("tuple element order is significant")
	}
	if in.RegisterUnion([]TypeID{b.I32, b.F64}) != in.RegisterUnion([]TypeID{b.F64, b.I32, b.I32}) {
		t.Fatalf("union must ignore member order and repetition")
	}
	fn1 := in.RegisterFn([]TypeID{b.I32}, false, b.Void)
	if fn1 != in.RegisterFn([]TypeID{b.I32}, false, b.Void) {
		t.Fatalf("fn not canonical")
	}
	if fn1 == in.RegisterFn([]TypeID{b.I32}, true, b.Void) {
		t.Fatalf("variadic flag must be part of the identity")
	}
	if fn1 == in.RegisterFn([]TypeID{b.I32}, false, b.I32) {
		t.Fatalf("result type must be part of the identity")
	}
	strs := source.NewInterner()
	size := strs.Intern("size_t")
	if in.RegisterAlias(size, b.U64) != in.RegisterAlias(size, b.U64) {
		t.Fatalf("alias not canonical")
	}
}

func TestRegisterCopiesInput(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	elems := []TypeID{b.I8, b.I16}
	tup := in.RegisterTuple(elems)
	elems[0] = b.F64
	info, _ := in.TupleInfo(tup)
	if info.Elems[0] != b.I8 {
		t.Fatalf("tuple payload aliases the caller slice")
	}
}

func TestNominalTypesAreDistinct(t *testing.T) {
	in := NewInterner()
	strs := source.NewInterner()
	point := strs.Intern("point")
	a := in.RegisterStruct(point, source.Span{})
	b := in.RegisterStruct(point, source.Span{})
	if a == b {
		t.Fatalf("structs with the same name must be nominally distinct")
	}
	if in.RegisterEnum(point, source.Span{}, NoTypeID) == in.RegisterEnum(point, source.Span{}, NoTypeID) {
		t.Fatalf("enums must be nominally distinct")
	}
	m1 := in.RegisterModule(point, point)
	m2 := in.RegisterModule(point, point)
	if m1 == m2 {
		t.Fatalf("modules must be nominally distinct")
	}
}

func TestModuleDepsAttachOnce(t *testing.T) {
	in := NewInterner()
	strs := source.NewInterner()
	a := in.RegisterModule(strs.Intern("a"), strs.Intern("a.h"))
	b := in.RegisterModule(strs.Intern("b"), strs.Intern("b.h"))

	if _, linked := in.ModuleDeps(a); linked {
		t.Fatalf("deps must start unattached")
	}
	deps := []TypeID{b, b}
	if err := in.SetModuleDeps(a, deps); err != nil {
		t.Fatalf("SetModuleDeps: %v", err)
	}
	deps[0] = NoTypeID
	got, linked := in.ModuleDeps(a)
	if !linked || len(got) != 2 || got[0] != b {
		t.Fatalf("deps = %v (linked=%v), want [b b]", got, linked)
	}
	if err := in.SetModuleDeps(a, nil); !errors.Is(err, ErrDepsAlreadySet) {
		t.Fatalf("second SetModuleDeps err = %v, want ErrDepsAlreadySet", err)
	}
	if err := in.SetModuleDeps(in.Builtins().I32, nil); !errors.Is(err, ErrNotModule) {
		t.Fatalf("SetModuleDeps on i32 err = %v, want ErrNotModule", err)
	}
}

func TestSizes(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	strs := source.NewInterner()

	point := in.RegisterStruct(strs.Intern("point"), source.Span{})
	in.SetStructFields(point, NoTypeID, []StructField{
		{Name: strs.Intern("tag"), Type: b.U8},
		{Name: strs.Intern("x"), Type: b.I32},
		{Name: strs.Intern("y"), Type: b.I64},
	})

	cases := []struct {
		name string
		id   TypeID
		want uint64
	}{
		{"i16", b.I16, 2},
		{"f64", b.F64, 8},
		{"pointer", in.Intern(MakePointer(b.Void)), 8},
		{"array", in.Intern(MakeArray(b.I32, 10)), 40},
		{"slice", in.Intern(MakeArray(b.I32, ArrayDynamic)), 16},
		{"struct", point, 16},
		{"tuple", in.RegisterTuple([]TypeID{b.U8, b.U16}), 4},
		{"union", in.RegisterUnion([]TypeID{b.U8, b.I64}), 8},
		{"enum", in.RegisterEnum(strs.Intern("color"), source.Span{}, NoTypeID), 4},
		{"alias", in.RegisterAlias(strs.Intern("word"), b.U16), 2},
		{"void", b.Void, 0},
	}
	for _, tc := range cases {
		if got := in.Size(tc.id); got != tc.want {
			t.Errorf("Size(%s) = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestFormat(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	strs := source.NewInterner()
	fn := in.RegisterFn([]TypeID{in.Intern(MakePointer(b.Char))}, true, b.I32)
	if got := in.Format(fn, strs); got != "fn(*char, ...) -> i32" {
		t.Fatalf("Format(fn) = %q", got)
	}
	mod := in.RegisterModule(strs.Intern("stdio"), strs.Intern("stdio.h"))
	if got := in.Format(mod, strs); got != "module stdio" {
		t.Fatalf("Format(module) = %q", got)
	}
	if got := in.Format(in.Intern(MakeMap(b.String, in.Intern(MakeArray(b.U8, 3)))), strs); got != "map[string][3]u8" {
		t.Fatalf("Format(map) = %q", got)
	}
}

func TestInternRejectsRegisteredKinds(t *testing.T) {
	kinds := []Kind{KindAlias, KindUnion, KindTuple, KindFunction, KindEnum, KindStruct, KindModule}
	for _, k := range kinds {
		t.Run(k.String(), func(t *testing.T) {
			in := NewInterner()
			defer func() {
				if recover() == nil {
					t.Fatalf("Intern(%v) without a payload did not panic", k)
				}
			}()
			in.Intern(Type{Kind: k})
		})
	}
}

func TestRegisterAliasNeedsExistingTarget(t *testing.T) {
	in := NewInterner()
	strs := source.NewInterner()
	for _, target := range []TypeID{NoTypeID, TypeID(9999)} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("RegisterAlias to %d did not panic", target)
				}
			}()
			in.RegisterAlias(strs.Intern("loop"), target)
		}()
	}
	inner := in.RegisterAlias(strs.Intern("inner"), in.Builtins().I32)
	outer := in.RegisterAlias(strs.Intern("outer"), inner)
	if in.Unalias(outer) != in.Builtins().I32 {
		t.Fatalf("Unalias(outer) = %v, want i32", in.Unalias(outer))
	}
}
