package types

import (
	"fmt"
	"strings"

	"loom/internal/source"
)

// Format renders id for diagnostics. strs may be nil, in which case names
// print as #ID.
func (in *Interner) Format(id TypeID, strs *source.Interner) string {
	var sb strings.Builder
	in.format(&sb, id, strs, 0)
	return sb.String()
}

func name(strs *source.Interner, id source.StringID) string {
	if strs != nil {
		if s, ok := strs.Lookup(id); ok && s != "" {
			return s
		}
	}
	return fmt.Sprintf("#%d", id)
}

func (in *Interner) format(sb *strings.Builder, id TypeID, strs *source.Interner, depth int) {
	tt, ok := in.Lookup(id)
	if !ok {
		sb.WriteString("<none>")
		return
	}
	if depth > maxLayoutDepth {
		sb.WriteString("...")
		return
	}
	list := func(ids []TypeID, sep string) {
		for i, e := range ids {
			if i > 0 {
				sb.WriteString(sep)
			}
			in.format(sb, e, strs, depth+1)
		}
	}
	switch tt.Kind {
	case KindPrimitive:
		sb.WriteString(tt.Prim.String())
	case KindPointer:
		sb.WriteByte('*')
		in.format(sb, tt.Elem, strs, depth+1)
	case KindArray:
		if tt.Count == ArrayDynamic {
			sb.WriteString("[]")
		} else {
			fmt.Fprintf(sb, "[%d]", tt.Count)
		}
		in.format(sb, tt.Elem, strs, depth+1)
	case KindMap:
		sb.WriteString("map[")
		in.format(sb, tt.Key, strs, depth+1)
		sb.WriteByte(']')
		in.format(sb, tt.Elem, strs, depth+1)
	case KindAlias:
		info, _ := in.AliasInfo(id)
		sb.WriteString(name(strs, info.Name))
	case KindUnion:
		info, _ := in.UnionInfo(id)
		sb.WriteByte('(')
		list(info.Members, " | ")
		sb.WriteByte(')')
	case KindTuple:
		info, _ := in.TupleInfo(id)
		sb.WriteByte('(')
		list(info.Elems, ", ")
		sb.WriteByte(')')
	case KindFunction:
		info, _ := in.FnInfo(id)
		sb.WriteString("fn(")
		list(info.Params, ", ")
		if info.Variadic {
			if len(info.Params) > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("...")
		}
		sb.WriteString(") -> ")
		in.format(sb, info.Result, strs, depth+1)
	case KindEnum:
		info, _ := in.EnumInfo(id)
		sb.WriteString("enum " + name(strs, info.Name))
	case KindStruct:
		info, _ := in.StructInfo(id)
		sb.WriteString("struct " + name(strs, info.Name))
	case KindModule:
		info, _ := in.ModuleInfo(id)
		sb.WriteString("module " + name(strs, info.Name))
	default:
		sb.WriteString(tt.Kind.String())
	}
}
