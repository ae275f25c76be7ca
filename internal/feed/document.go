package feed

import (
	"errors"

	"loom/internal/source"
)

// SchemaVersion is bumped whenever the document layout changes.
const SchemaVersion uint16 = 1

var (
	// ErrSchema is returned for documents written with another schema.
	ErrSchema = errors.New("unsupported feed schema")
	// ErrEmpty is returned for a stream that holds no document.
	ErrEmpty = errors.New("empty feed")
)

// Document is one feed shard.
type Document struct {
	Schema uint16 `msgpack:"schema"`
	// Main is the designated main path; shards other than the first may
	// leave it empty.
	Main  string `msgpack:"main,omitempty"`
	Files []File `msgpack:"files"`
	Decls []Decl `msgpack:"decls"`
	Edges []Edge `msgpack:"edges,omitempty"`
}

// File is one source file the foreign parser visited.
type File struct {
	Path string `msgpack:"path"`
	// Foreign marks headers outside the project.
	Foreign bool   `msgpack:"foreign,omitempty"`
	Content []byte `msgpack:"content,omitempty"`
}

// Decl is a top-level declaration seen in Path.
type Decl struct {
	Path string `msgpack:"path"`
	Node *Node  `msgpack:"node"`
}

// Edge is an inclusion of To from From, at the include directive.
type Edge struct {
	From string `msgpack:"from"`
	To   string `msgpack:"to"`
	At   Pos    `msgpack:"at"`
}

// Pos is a 1-based line and column; zero means unknown.
type Pos struct {
	Line uint32 `msgpack:"l"`
	Col  uint32 `msgpack:"c"`
}

// Span is a half-open range inside the file of the enclosing Decl.
type Span struct {
	Start Pos `msgpack:"s"`
	End   Pos `msgpack:"e"`
}

func (s Span) in(file source.FileID) source.Span {
	return source.Span{
		File:  file,
		Start: source.Pos{Line: s.Start.Line, Col: s.Start.Col},
		End:   source.Pos{Line: s.End.Line, Col: s.End.Col},
	}
}

// Node is a generic AST node. Kind is an ast tag name ("func", "struct",
// "binary", ...); which of the other fields are read depends on it:
//
//	func         Name, Type (result), Flags, Children: params then an optional block
//	param, field Name, Type
//	var          Name, Type, Children: optional initializer
//	struct       Name, Base (optional named base), Children: fields
//	enum         Name, Type (optional base), Children: enum-members
//	enum-member  Name, Int, Children: optional value expression
//	type-alias   Name, Type (target)
//	ident        Name
//	type-ref     Type
//	int float string bool null   Int, Float, Str, Bool
//	binary unary Op, Children: operands
//	call         Children: callee then arguments
//	member       Name, Children: target
//	invoke       Name, Children: arguments
//	pair         Children: first, second
//	block        Children: statements
//	return expr-stmt             Children: optional value
type Node struct {
	Kind     string   `msgpack:"k"`
	Name     string   `msgpack:"n,omitempty"`
	Span     Span     `msgpack:"sp"`
	Flags    []string `msgpack:"f,omitempty"`
	Type     *Type    `msgpack:"t,omitempty"`
	Base     *Type    `msgpack:"b,omitempty"`
	Op       string   `msgpack:"op,omitempty"`
	Int      int64    `msgpack:"i,omitempty"`
	Float    float64  `msgpack:"fl,omitempty"`
	Str      string   `msgpack:"s,omitempty"`
	Bool     bool     `msgpack:"bo,omitempty"`
	Children []*Node  `msgpack:"ch,omitempty"`
}

// Type is a generic type expression. Kind is one of:
//
//	name      a primitive or C type name, or a declared struct/enum/alias
//	pointer   Elem
//	array     Elem, Len (negative for an unsized array)
//	map       Key, Elem
//	tuple     Elems
//	union     Elems
//	fn        Elems (params), Elem (result), Variadic
type Type struct {
	Kind     string  `msgpack:"k"`
	Name     string  `msgpack:"n,omitempty"`
	Elem     *Type   `msgpack:"e,omitempty"`
	Key      *Type   `msgpack:"key,omitempty"`
	Len      int64   `msgpack:"len,omitempty"`
	Elems    []*Type `msgpack:"el,omitempty"`
	Variadic bool    `msgpack:"v,omitempty"`
}

// Named is a shorthand for a name type.
func Named(name string) *Type {
	return &Type{Kind: "name", Name: name}
}

// PointerTo is a shorthand for a pointer type.
func PointerTo(elem *Type) *Type {
	return &Type{Kind: "pointer", Elem: elem}
}
