package types

// Size returns the storage size in bytes. Incomplete types (structs without
// fields yet, unknown ids) report 0.
func (in *Interner) Size(id TypeID) uint64 {
	return in.size(id, 0)
}

// Align returns the natural alignment in bytes, at least 1 for sized types.
func (in *Interner) Align(id TypeID) uint64 {
	return in.align(id, 0)
}

const maxLayoutDepth = 64

func (in *Interner) size(id TypeID, depth int) uint64 {
	tt, ok := in.Lookup(id)
	if !ok || depth > maxLayoutDepth {
		return 0
	}
	switch tt.Kind {
	case KindError, KindAuto, KindVoid, KindModule:
		return 0
	case KindNull, KindPointer, KindString, KindFunction, KindMap:
		return in.PointerSize
	case KindPrimitive:
		return uint64(tt.Prim.Bits() / 8)
	case KindArray:
		if tt.Count == ArrayDynamic {
			return 2 * in.PointerSize
		}
		return uint64(tt.Count) * in.size(tt.Elem, depth+1)
	case KindAlias:
		info, _ := in.AliasInfo(id)
		return in.size(info.Target, depth+1)
	case KindEnum:
		info, _ := in.EnumInfo(id)
		return in.size(info.Base, depth+1)
	case KindUnion:
		info, _ := in.UnionInfo(id)
		var maxSize, maxAlign uint64 = 0, 1
		for _, m := range info.Members {
			maxSize = max(maxSize, in.size(m, depth+1))
			maxAlign = max(maxAlign, in.align(m, depth+1))
		}
		return alignUp(maxSize, maxAlign)
	case KindTuple:
		info, _ := in.TupleInfo(id)
		return in.layout(info.Elems, depth)
	case KindStruct:
		info, _ := in.StructInfo(id)
		elems := make([]TypeID, 0, len(info.Fields)+1)
		if info.Base != NoTypeID {
			elems = append(elems, info.Base)
		}
		for _, f := range info.Fields {
			elems = append(elems, f.Type)
		}
		return in.layout(elems, depth)
	}
	return 0
}

func (in *Interner) layout(elems []TypeID, depth int) uint64 {
	var off, maxAlign uint64 = 0, 1
	for _, e := range elems {
		a := in.align(e, depth+1)
		off = alignUp(off, a) + in.size(e, depth+1)
		maxAlign = max(maxAlign, a)
	}
	return alignUp(off, maxAlign)
}

func (in *Interner) align(id TypeID, depth int) uint64 {
	tt, ok := in.Lookup(id)
	if !ok || depth > maxLayoutDepth {
		return 1
	}
	switch tt.Kind {
	case KindArray:
		if tt.Count == ArrayDynamic {
			return in.PointerSize
		}
		return in.align(tt.Elem, depth+1)
	case KindAlias:
		info, _ := in.AliasInfo(id)
		return in.align(info.Target, depth+1)
	case KindEnum:
		info, _ := in.EnumInfo(id)
		return in.align(info.Base, depth+1)
	case KindStruct, KindTuple, KindUnion:
		var elems []TypeID
		switch tt.Kind {
		case KindStruct:
			info, _ := in.StructInfo(id)
			if info.Base != NoTypeID {
				elems = append(elems, info.Base)
			}
			for _, f := range info.Fields {
				elems = append(elems, f.Type)
			}
		case KindTuple:
			info, _ := in.TupleInfo(id)
			elems = info.Elems
		default:
			info, _ := in.UnionInfo(id)
			elems = info.Members
		}
		var a uint64 = 1
		for _, e := range elems {
			a = max(a, in.align(e, depth+1))
		}
		return a
	}
	return max(in.size(id, depth), 1)
}

func alignUp(n, a uint64) uint64 {
	if a <= 1 {
		return n
	}
	return (n + a - 1) / a * a
}
