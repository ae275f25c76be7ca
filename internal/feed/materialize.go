package feed

import (
	"fmt"

	"fortio.org/safecast"

	"loom/internal/ast"
	"loom/internal/diag"
	"loom/internal/linker"
	"loom/internal/source"
	"loom/internal/types"
)

// Stats counts what a Materializer produced.
type Stats struct {
	Files   int
	Decls   int
	Bad     int
	Edges   int
	Bound   int
	Unbound int
}

type resolveState uint8

const (
	stateNew resolveState = iota
	stateResolving
	stateDone
)

// namedType is a struct, enum or alias declaration reachable by name from
// type expressions anywhere in the run.
type namedType struct {
	node  *Node
	file  source.FileID
	typ   types.TypeID
	state resolveState
}

type pendingIdent struct {
	id   ast.NodeID
	file source.FileID
	name string
}

// Materializer converts feed documents into ast nodes and interned types.
// One Materializer serves every shard of a run: Load each document, then
// Finish and Bind once.
type Materializer struct {
	files    *source.FileSet
	ast      *ast.Builder
	types    *types.Interner
	reporter diag.Reporter

	named   map[string]*namedType
	scopes  map[source.FileID]map[string]ast.NodeID
	global  map[string]ast.NodeID
	pending []pendingIdent
	locals  []map[string]ast.NodeID
	queue   []loaded
	stats   Stats
}

func NewMaterializer(files *source.FileSet, b *ast.Builder, tt *types.Interner, reporter diag.Reporter) *Materializer {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Materializer{
		files:    files,
		ast:      b,
		types:    tt,
		reporter: reporter,
		named:    make(map[string]*namedType),
		scopes:   make(map[source.FileID]map[string]ast.NodeID),
		global:   make(map[string]ast.NodeID),
	}
}

func (m *Materializer) Stats() Stats {
	return m.stats
}

// loaded is a document whose files and named types are registered but whose
// declarations and edges wait for Finish.
type loaded struct {
	doc   *Document
	files []source.FileID
}

// Load registers the files, declaration paths and named types of doc. Its
// declarations and inclusion edges are materialized by Finish, so an edge or
// a type name may refer to a file or type that only a later document
// introduces. Errors are builder phase errors.
func (m *Materializer) Load(doc *Document, lb *linker.Builder) error {
	for _, f := range doc.Files {
		var flags source.FileFlags
		if f.Foreign {
			flags |= source.FileForeign
		}
		id, err := lb.DeclareFile(f.Path, flags)
		if err != nil {
			return err
		}
		if len(f.Content) > 0 {
			m.files.SetContent(id, f.Content)
		}
		m.stats.Files++
	}

	files := make([]source.FileID, len(doc.Decls))
	for i, d := range doc.Decls {
		id, err := lb.DeclareFile(d.Path, 0)
		if err != nil {
			return err
		}
		files[i] = id
		if d.Node != nil {
			m.declareNamed(id, d.Node)
		}
	}
	m.queue = append(m.queue, loaded{doc: doc, files: files})
	return nil
}

// Finish materializes the declarations and inclusion edges of every document
// loaded so far, in load order. Problems in the documents are reported as
// diagnostics; the error is a builder phase error.
func (m *Materializer) Finish(lb *linker.Builder) error {
	queue := m.queue
	m.queue = nil
	for _, q := range queue {
		if err := m.decls(q, lb); err != nil {
			return err
		}
	}
	for _, q := range queue {
		if err := m.edges(q.doc, lb); err != nil {
			return err
		}
	}
	return nil
}

func (m *Materializer) decls(q loaded, lb *linker.Builder) error {
	for i, d := range q.doc.Decls {
		if d.Node == nil {
			m.report(diag.FeedBadNode, diag.SevError, source.Span{File: q.files[i]},
				"declaration %d in %s has no node", i, d.Path)
			m.stats.Bad++
			continue
		}
		id := m.decl(q.files[i], d.Node)
		if !id.IsValid() {
			m.stats.Bad++
			continue
		}
		if err := lb.AddDeclTo(q.files[i], id); err != nil {
			return err
		}
		m.stats.Decls++
	}
	return nil
}

func (m *Materializer) edges(doc *Document, lb *linker.Builder) error {
	for _, e := range doc.Edges {
		from := m.fileRef(e.From, source.Span{})
		at := source.Span{
			File:  from,
			Start: source.Pos{Line: e.At.Line, Col: e.At.Col},
			End:   source.Pos{Line: e.At.Line, Col: e.At.Col},
		}
		to := m.fileRef(e.To, at)
		if err := lb.AddInclude(from, to, at); err != nil {
			return err
		}
		m.stats.Edges++
	}
	return nil
}

// fileRef looks up an edge endpoint. Unknown paths stay NoFileID so the
// linker drops the edge.
func (m *Materializer) fileRef(path string, at source.Span) source.FileID {
	if id, ok := m.files.Lookup(path); ok {
		return id
	}
	m.report(diag.FeedUnknownRef, diag.SevWarning, at, "include edge names unknown file %q", path)
	return source.NoFileID
}

// Bind resolves every identifier recorded so far against the declarations
// of its own file, then against every other file. It returns how many
// identifiers stayed unbound.
func (m *Materializer) Bind() int {
	unbound := 0
	for _, p := range m.pending {
		decl, ok := m.scopes[p.file][p.name]
		if !ok {
			decl, ok = m.global[p.name]
		}
		if !ok {
			unbound++
			continue
		}
		m.bind(p.id, decl)
		m.stats.Bound++
	}
	m.pending = m.pending[:0]
	m.stats.Unbound += unbound
	return unbound
}

func (m *Materializer) bind(id, decl ast.NodeID) {
	m.ast.Bind(id, decl)
	if t := m.ast.TypeOf(decl); t != types.NoTypeID {
		m.ast.SetType(id, t)
	}
}

func (m *Materializer) report(code diag.Code, sev diag.Severity, at source.Span, format string, args ...any) {
	m.reporter.Report(code, sev, at, fmt.Sprintf(format, args...), nil)
}

func (m *Materializer) intern(s string) source.StringID {
	if s == "" {
		return source.NoStringID
	}
	return m.ast.Strings.Intern(s)
}

func (m *Materializer) flags(file source.FileID, n *Node) ast.Flags {
	var out ast.Flags
	for _, name := range n.Flags {
		f, ok := ast.ParseFlag(name)
		if !ok {
			m.report(diag.FeedBadNode, diag.SevWarning, n.Span.in(file), "unknown flag %q on %s", name, n.Kind)
			continue
		}
		out |= f
	}
	return out
}

func (m *Materializer) declareNamed(file source.FileID, n *Node) {
	switch n.Kind {
	case "struct", "enum", "type-alias":
	default:
		return
	}
	if n.Name == "" {
		return
	}
	if _, ok := m.named[n.Name]; ok {
		return
	}
	m.named[n.Name] = &namedType{node: n, file: file}
}

// namedTypeID gives the type of a struct, enum or alias by name, creating it
// on first use.
func (m *Materializer) namedTypeID(name string, at source.Span) (types.TypeID, bool) {
	nt, ok := m.named[name]
	if !ok {
		return types.NoTypeID, false
	}
	switch nt.state {
	case stateDone:
		return nt.typ, true
	case stateResolving:
		m.report(diag.FeedBadType, diag.SevError, at, "type %q is defined in terms of itself", name)
		return m.types.Builtins().Error, true
	}

	n, sp := nt.node, nt.node.Span.in(nt.file)
	nt.state = stateResolving
	switch n.Kind {
	case "struct":
		nt.typ = m.types.RegisterStruct(m.intern(name), sp)
	case "enum":
		base := types.NoTypeID
		if n.Type != nil {
			base = m.typ(nt.file, n.Type, sp)
		}
		nt.typ = m.types.RegisterEnum(m.intern(name), sp, base)
	case "type-alias":
		target := m.types.Builtins().Error
		if n.Type != nil {
			target = m.typ(nt.file, n.Type, sp)
		} else {
			m.report(diag.FeedBadType, diag.SevError, sp, "type alias %q has no target", name)
		}
		nt.typ = m.types.RegisterAlias(m.intern(name), target)
	}
	nt.state = stateDone
	return nt.typ, true
}

// typ interns a feed type. Unknown or malformed types are reported and
// become the error type.
func (m *Materializer) typ(file source.FileID, t *Type, at source.Span) types.TypeID {
	bad := m.types.Builtins().Error
	if t == nil {
		m.report(diag.FeedBadType, diag.SevError, at, "missing type")
		return bad
	}
	switch t.Kind {
	case "name":
		if id, ok := builtinType(m.types, t.Name); ok {
			return id
		}
		if id, ok := m.namedTypeID(t.Name, at); ok {
			return id
		}
		m.report(diag.FeedBadType, diag.SevError, at, "unknown type %q", t.Name)
		return bad
	case "pointer":
		return m.types.Intern(types.MakePointer(m.typ(file, t.Elem, at)))
	case "array":
		elem := m.typ(file, t.Elem, at)
		if t.Len < 0 {
			return m.types.Intern(types.MakeArray(elem, types.ArrayDynamic))
		}
		n, err := safecast.Conv[uint32](t.Len)
		if err != nil || n == types.ArrayDynamic {
			m.report(diag.FeedBadType, diag.SevError, at, "array length %d out of range", t.Len)
			return bad
		}
		return m.types.Intern(types.MakeArray(elem, n))
	case "map":
		return m.types.Intern(types.MakeMap(m.typ(file, t.Key, at), m.typ(file, t.Elem, at)))
	case "tuple":
		return m.types.RegisterTuple(m.typs(file, t.Elems, at))
	case "union":
		if len(t.Elems) == 0 {
			m.report(diag.FeedBadType, diag.SevError, at, "union without members")
			return bad
		}
		return m.types.RegisterUnion(m.typs(file, t.Elems, at))
	case "fn":
		result := m.types.Builtins().Void
		if t.Elem != nil {
			result = m.typ(file, t.Elem, at)
		}
		return m.types.RegisterFn(m.typs(file, t.Elems, at), t.Variadic, result)
	default:
		m.report(diag.FeedBadType, diag.SevError, at, "unknown type kind %q", t.Kind)
		return bad
	}
}

func (m *Materializer) typs(file source.FileID, ts []*Type, at source.Span) []types.TypeID {
	out := make([]types.TypeID, len(ts))
	for i, t := range ts {
		out[i] = m.typ(file, t, at)
	}
	return out
}
