package feed

import (
	"loom/internal/ast"
	"loom/internal/diag"
	"loom/internal/source"
	"loom/internal/types"
)

// decl materializes a top-level declaration. It returns NoNodeID when n is
// not a declaration.
func (m *Materializer) decl(file source.FileID, n *Node) ast.NodeID {
	tag, ok := ast.ParseTag(n.Kind)
	if !ok || !tag.IsDecl() || tag == ast.TagModule {
		m.report(diag.FeedBadNode, diag.SevError, n.Span.in(file), "%q is not a top-level declaration", n.Kind)
		return ast.NoNodeID
	}
	if tag == ast.TagParam || tag == ast.TagField || tag == ast.TagEnumMember {
		m.report(diag.FeedBadNode, diag.SevError, n.Span.in(file), "%s outside its parent declaration", n.Kind)
		return ast.NoNodeID
	}
	id := m.node(file, n)
	if m.ast.TagOf(id) == ast.TagBad {
		return ast.NoNodeID
	}
	m.declare(file, n.Name, id)
	return id
}

// declare makes a named declaration visible to identifiers. The first
// declaration of a name wins.
func (m *Materializer) declare(file source.FileID, name string, id ast.NodeID) {
	if name == "" {
		return
	}
	scope := m.scopes[file]
	if scope == nil {
		scope = make(map[string]ast.NodeID)
		m.scopes[file] = scope
	}
	if _, ok := scope[name]; !ok {
		scope[name] = id
	}
	if _, ok := m.global[name]; !ok {
		m.global[name] = id
	}
}

func (m *Materializer) bad(file source.FileID, n *Node, format string, args ...any) ast.NodeID {
	sp := n.Span.in(file)
	m.report(diag.FeedBadNode, diag.SevError, sp, format, args...)
	return m.ast.NewBad(sp, 0)
}

// want checks the operand count of n and reports a mismatch.
func (m *Materializer) want(file source.FileID, n *Node, lo, hi int) bool {
	c := len(n.Children)
	if c >= lo && c <= hi {
		return true
	}
	sp := n.Span.in(file)
	if lo == hi {
		m.report(diag.FeedBadNode, diag.SevError, sp, "%s expects %d operand(s), got %d", n.Kind, lo, c)
	} else {
		m.report(diag.FeedBadNode, diag.SevError, sp, "%s expects %d to %d operand(s), got %d", n.Kind, lo, hi, c)
	}
	return false
}

func (m *Materializer) child(file source.FileID, n *Node, i int) ast.NodeID {
	if i >= len(n.Children) {
		return ast.NoNodeID
	}
	return m.node(file, n.Children[i])
}

func (m *Materializer) list(file source.FileID, nodes []*Node) ast.List {
	var l ast.List
	for _, c := range nodes {
		m.ast.Append(&l, m.node(file, c))
	}
	return l
}

// node materializes any node. Malformed nodes are reported and become Bad.
func (m *Materializer) node(file source.FileID, n *Node) ast.NodeID {
	b := m.ast
	if n == nil {
		return b.NewBad(source.Span{File: file}, 0)
	}
	sp := n.Span.in(file)
	if sp.End.Known() && sp.End.Before(sp.Start) {
		m.report(diag.FeedBadSpan, diag.SevWarning, sp, "span of %s ends before it starts", n.Kind)
		sp.End = sp.Start
	}
	flags := m.flags(file, n)
	name := m.intern(n.Name)

	tag, ok := ast.ParseTag(n.Kind)
	if !ok {
		return m.bad(file, n, "unknown node kind %q", n.Kind)
	}

	switch tag {
	case ast.TagFunc:
		return m.fn(file, n, sp, flags)
	case ast.TagStruct:
		return m.structDecl(file, n, sp, flags)
	case ast.TagEnum:
		return m.enumDecl(file, n, sp, flags)
	case ast.TagTypeAlias:
		if n.Name == "" {
			return m.bad(file, n, "type alias without a name")
		}
		typ, _ := m.namedTypeID(n.Name, sp)
		return b.NewTypeAlias(sp, flags, name, typ)
	case ast.TagVar:
		if !m.want(file, n, 0, 1) {
			return b.NewBad(sp, 0)
		}
		typ := m.types.Builtins().Auto
		if n.Type != nil {
			typ = m.typ(file, n.Type, sp)
		}
		return b.NewVar(sp, flags, name, typ, m.child(file, n, 0))
	case ast.TagParam, ast.TagField:
		return m.bad(file, n, "%s outside its parent declaration", n.Kind)

	case ast.TagIdent:
		if n.Name == "" {
			return m.bad(file, n, "identifier without a name")
		}
		id := b.NewIdent(sp, flags, name)
		m.lookup(file, id, n.Name)
		return id
	case ast.TagTypeRef:
		typ := m.typ(file, n.Type, sp)
		if name == source.NoStringID {
			name = m.intern(m.types.Format(typ, b.Strings))
		}
		return b.NewTypeRef(sp, flags, name, typ)
	case ast.TagIntLit:
		return b.NewIntLit(sp, flags, n.Int)
	case ast.TagFloatLit:
		return b.NewFloatLit(sp, flags, n.Float)
	case ast.TagStringLit:
		return b.NewStringLit(sp, flags, b.Strings.Intern(n.Str))
	case ast.TagBoolLit:
		return b.NewBoolLit(sp, flags, n.Bool)
	case ast.TagNullLit:
		return b.NewNullLit(sp, flags)
	case ast.TagBinary:
		op, ok := ast.ParseBinaryOp(n.Op)
		if !ok {
			return m.bad(file, n, "unknown binary operator %q", n.Op)
		}
		if !m.want(file, n, 2, 2) {
			return b.NewBad(sp, 0)
		}
		return b.NewBinary(sp, flags, op, m.child(file, n, 0), m.child(file, n, 1))
	case ast.TagUnary:
		op, ok := ast.ParseUnaryOp(n.Op)
		if !ok {
			return m.bad(file, n, "unknown unary operator %q", n.Op)
		}
		if !m.want(file, n, 1, 1) {
			return b.NewBad(sp, 0)
		}
		return b.NewUnary(sp, flags, op, m.child(file, n, 0))
	case ast.TagCall:
		if len(n.Children) == 0 {
			return m.bad(file, n, "call without a callee")
		}
		callee := m.child(file, n, 0)
		return b.NewCall(sp, flags, callee, m.list(file, n.Children[1:]))
	case ast.TagMember:
		if !m.want(file, n, 1, 1) {
			return b.NewBad(sp, 0)
		}
		return b.NewMember(sp, flags, m.child(file, n, 0), name)
	case ast.TagInvoke:
		if n.Name == "" {
			return m.bad(file, n, "invocation without an action name")
		}
		return b.NewInvoke(sp, flags, name, m.list(file, n.Children))
	case ast.TagPair:
		if !m.want(file, n, 2, 2) {
			return b.NewBad(sp, 0)
		}
		return b.NewPair(sp, flags, m.child(file, n, 0), m.child(file, n, 1))
	case ast.TagBlock:
		return m.block(file, n, sp, flags)
	case ast.TagReturn:
		if !m.want(file, n, 0, 1) {
			return b.NewBad(sp, 0)
		}
		return b.NewReturn(sp, flags, m.child(file, n, 0))
	case ast.TagExprStmt:
		if !m.want(file, n, 1, 1) {
			return b.NewBad(sp, 0)
		}
		return b.NewExprStmt(sp, flags, m.child(file, n, 0))
	default:
		return m.bad(file, n, "%s nodes are built by the linker, not read from a feed", n.Kind)
	}
}

// lookup binds id right away when a local scope declares name; otherwise it
// waits for Bind.
func (m *Materializer) lookup(file source.FileID, id ast.NodeID, name string) {
	for i := len(m.locals) - 1; i >= 0; i-- {
		if decl, ok := m.locals[i][name]; ok {
			m.bind(id, decl)
			m.stats.Bound++
			return
		}
	}
	m.pending = append(m.pending, pendingIdent{id: id, file: file, name: name})
}

func (m *Materializer) push() map[string]ast.NodeID {
	scope := make(map[string]ast.NodeID)
	m.locals = append(m.locals, scope)
	return scope
}

func (m *Materializer) pop() {
	m.locals = m.locals[:len(m.locals)-1]
}

func (m *Materializer) fn(file source.FileID, n *Node, sp source.Span, flags ast.Flags) ast.NodeID {
	b := m.ast
	if n.Name == "" {
		return m.bad(file, n, "function without a name")
	}
	result := m.types.Builtins().Void
	if n.Type != nil {
		result = m.typ(file, n.Type, sp)
	}

	scope := m.push()
	defer m.pop()

	var (
		params     ast.List
		paramTypes []types.TypeID
		body       = ast.NoNodeID
	)
	for _, c := range n.Children {
		switch c.Kind {
		case "param":
			psp := c.Span.in(file)
			pt := m.typ(file, c.Type, psp)
			p := b.NewParam(psp, m.flags(file, c), m.intern(c.Name), pt)
			b.Append(&params, p)
			paramTypes = append(paramTypes, pt)
			if c.Name != "" {
				scope[c.Name] = p
			}
		case "block":
			if body.IsValid() {
				m.bad(file, c, "function %q has more than one body", n.Name)
				continue
			}
			body = m.node(file, c)
		default:
			m.bad(file, c, "unexpected %s in function %q", c.Kind, n.Name)
		}
	}

	id := b.NewFunc(sp, flags, m.intern(n.Name), params, result, body)
	b.SetType(id, m.types.RegisterFn(paramTypes, flags.Has(ast.FlagVariadic), result))
	return id
}

func (m *Materializer) structDecl(file source.FileID, n *Node, sp source.Span, flags ast.Flags) ast.NodeID {
	b := m.ast
	if n.Name == "" {
		return m.bad(file, n, "struct without a name")
	}
	typ, _ := m.namedTypeID(n.Name, sp)

	base := types.NoTypeID
	if n.Base != nil {
		base = m.typ(file, n.Base, sp)
		if m.types.KindOf(m.types.Unalias(base)) != types.KindStruct {
			m.report(diag.FeedBadType, diag.SevError, sp, "base of struct %q is not a struct", n.Name)
			base = types.NoTypeID
		}
	}

	var (
		fields ast.List
		infos  []types.StructField
	)
	for _, c := range n.Children {
		if c.Kind != "field" {
			m.bad(file, c, "unexpected %s in struct %q", c.Kind, n.Name)
			continue
		}
		fsp := c.Span.in(file)
		ft := m.typ(file, c.Type, fsp)
		fname := m.intern(c.Name)
		b.Append(&fields, b.NewField(fsp, m.flags(file, c), fname, ft))
		infos = append(infos, types.StructField{Name: fname, Type: ft})
	}
	if info, ok := m.types.StructInfo(typ); ok && info.Fields == nil {
		m.types.SetStructFields(typ, base, infos)
	}
	return b.NewStruct(sp, flags, m.intern(n.Name), typ, fields)
}

func (m *Materializer) enumDecl(file source.FileID, n *Node, sp source.Span, flags ast.Flags) ast.NodeID {
	b := m.ast
	if n.Name == "" {
		return m.bad(file, n, "enum without a name")
	}
	typ, _ := m.namedTypeID(n.Name, sp)

	var (
		members ast.List
		infos   []types.EnumMember
		next    int64
	)
	for _, c := range n.Children {
		if c.Kind != "enum-member" {
			m.bad(file, c, "unexpected %s in enum %q", c.Kind, n.Name)
			continue
		}
		msp := c.Span.in(file)
		value := ast.NoNodeID
		if len(c.Children) > 0 {
			value = m.node(file, c.Children[0])
			if lit, ok := b.Lit(value); ok && b.TagOf(value) == ast.TagIntLit {
				next = lit.Int
			}
		}
		mname := m.intern(c.Name)
		member := b.NewEnumMember(msp, m.flags(file, c), mname, value)
		b.SetType(member, typ)
		b.Append(&members, member)
		infos = append(infos, types.EnumMember{Name: mname, Value: next})
		// перечислители видны как обычные имена
		m.declare(file, c.Name, member)
		next++
	}
	if info, ok := m.types.EnumInfo(typ); ok && info.Members == nil {
		m.types.SetEnumMembers(typ, infos)
	}
	return b.NewEnum(sp, flags, m.intern(n.Name), typ, members)
}

func (m *Materializer) block(file source.FileID, n *Node, sp source.Span, flags ast.Flags) ast.NodeID {
	b := m.ast
	scope := m.push()
	defer m.pop()

	var stmts ast.List
	for _, c := range n.Children {
		id := m.node(file, c)
		b.Append(&stmts, id)
		if c != nil && c.Kind == "var" && c.Name != "" && b.TagOf(id) == ast.TagVar {
			scope[c.Name] = id
		}
	}
	return b.NewBlock(sp, flags, stmts)
}
