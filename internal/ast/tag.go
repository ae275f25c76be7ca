package ast

import "fmt"

// Tag selects which payload of a Node is valid.
type Tag uint8

const (
	// TagBad stands in for a subtree that could not be built.
	TagBad Tag = iota

	// декларации
	TagProgram
	TagModule
	TagFunc
	TagParam
	TagVar
	TagField
	TagStruct
	TagEnum
	TagEnumMember
	TagTypeAlias

	// выражения
	TagIdent
	TagTypeRef
	TagIntLit
	TagFloatLit
	TagStringLit
	TagBoolLit
	TagNullLit
	TagBinary
	TagUnary
	TagCall
	TagMember
	TagInvoke
	TagPair

	// инструкции
	TagBlock
	TagReturn
	TagExprStmt

	tagCount
)

var tagNames = [tagCount]string{
	TagBad:        "bad",
	TagProgram:    "program",
	TagModule:     "module",
	TagFunc:       "func",
	TagParam:      "param",
	TagVar:        "var",
	TagField:      "field",
	TagStruct:     "struct",
	TagEnum:       "enum",
	TagEnumMember: "enum-member",
	TagTypeAlias:  "type-alias",
	TagIdent:      "ident",
	TagTypeRef:    "type-ref",
	TagIntLit:     "int",
	TagFloatLit:   "float",
	TagStringLit:  "string",
	TagBoolLit:    "bool",
	TagNullLit:    "null",
	TagBinary:     "binary",
	TagUnary:      "unary",
	TagCall:       "call",
	TagMember:     "member",
	TagInvoke:     "invoke",
	TagPair:       "pair",
	TagBlock:      "block",
	TagReturn:     "return",
	TagExprStmt:   "expr-stmt",
}

func (t Tag) String() string {
	if t < tagCount {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag(%d)", uint8(t))
}

// IsDecl reports whether t names a declaration.
func (t Tag) IsDecl() bool {
	return t >= TagModule && t <= TagTypeAlias
}

func (t Tag) IsExpr() bool {
	return t >= TagIdent && t <= TagPair
}

func (t Tag) IsStmt() bool {
	return t >= TagBlock && t <= TagExprStmt
}

// ParseTag is the inverse of Tag.String.
func ParseTag(name string) (Tag, bool) {
	for i, n := range tagNames {
		if n == name {
			return Tag(i), true //nolint:gosec // i < tagCount
		}
	}
	return TagBad, false
}

// Flags is a bit set of node properties.
type Flags uint16

const (
	FlagExtern Flags = 1 << iota
	// FlagImportedModule marks modules that came from an included header
	// rather than the main path.
	FlagImportedModule
	FlagVariadic
	FlagExported
	// FlagSynthesized marks nodes that no source text produced
	// (plugin output, the implicit main module).
	FlagSynthesized
	FlagExpansionFailed
)

func (f Flags) Has(flag Flags) bool {
	return f&flag != 0
}

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagExtern, "extern"},
	{FlagImportedModule, "imported"},
	{FlagVariadic, "variadic"},
	{FlagExported, "exported"},
	{FlagSynthesized, "synthesized"},
	{FlagExpansionFailed, "expansion-failed"},
}

// Names lists the set flags in declaration order.
func (f Flags) Names() []string {
	var out []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			out = append(out, fn.name)
		}
	}
	return out
}

// ParseFlag maps a flag name back to its bit.
func ParseFlag(name string) (Flags, bool) {
	for _, fn := range flagNames {
		if fn.name == name {
			return fn.flag, true
		}
	}
	return 0, false
}
