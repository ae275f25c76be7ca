package feed

import (
	"bytes"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"loom/internal/ast"
	"loom/internal/diag"
	"loom/internal/linker"
	"loom/internal/source"
	"loom/internal/types"
)

func span(line, col uint32) Span {
	return Span{Start: Pos{Line: line, Col: col}, End: Pos{Line: line, Col: col + 1}}
}

func ident(name string) *Node { return &Node{Kind: "ident", Name: name} }

// sampleDoc is a main.c that includes stdio.h:
//
//	int printf(char *fmt, ...);            // stdio.h
//	struct point { int x; int y; };
//	typedef struct point coord;
//	int main() { return printf("hi"); }
//	int inc(int x) { return x + 1; }
func sampleDoc() *Document {
	i32 := Named("int")
	return &Document{
		Main: "main.c",
		Files: []File{
			{Path: "main.c", Content: []byte("#include <stdio.h>\nint main() { return printf(\"hi\"); }\n")},
			{Path: "/usr/include/stdio.h", Foreign: true},
		},
		Decls: []Decl{
			{Path: "/usr/include/stdio.h", Node: &Node{
				Kind: "func", Name: "printf", Type: i32, Flags: []string{"extern", "variadic"},
				Children: []*Node{{Kind: "param", Name: "fmt", Type: PointerTo(Named("char"))}},
			}},
			{Path: "main.c", Node: &Node{Kind: "struct", Name: "point", Children: []*Node{
				{Kind: "field", Name: "x", Type: i32},
				{Kind: "field", Name: "y", Type: i32},
			}}},
			{Path: "main.c", Node: &Node{Kind: "type-alias", Name: "coord", Type: Named("point")}},
			{Path: "main.c", Node: &Node{Kind: "func", Name: "main", Type: i32, Span: span(2, 1), Children: []*Node{
				{Kind: "block", Children: []*Node{
					{Kind: "return", Children: []*Node{
						{Kind: "call", Children: []*Node{ident("printf"), {Kind: "string", Str: "hi"}}},
					}},
				}},
			}}},
			{Path: "main.c", Node: &Node{Kind: "func", Name: "inc", Type: i32, Children: []*Node{
				{Kind: "param", Name: "x", Type: i32},
				{Kind: "block", Children: []*Node{
					{Kind: "return", Children: []*Node{
						{Kind: "binary", Op: "+", Children: []*Node{ident("x"), {Kind: "int", Int: 1}}},
					}},
				}},
			}}},
		},
		Edges: []Edge{{From: "main.c", To: "/usr/include/stdio.h", At: Pos{Line: 1, Col: 1}}},
	}
}

type env struct {
	files *source.FileSet
	b     *ast.Builder
	tt    *types.Interner
	bag   *diag.Bag
	lb    *linker.Builder
	m     *Materializer
}

func newEnv() *env {
	e := &env{
		files: source.NewFileSet(),
		b:     ast.NewBuilder(ast.Hints{}, nil),
		tt:    types.NewInterner(),
		bag:   diag.NewBag(0),
	}
	rep := diag.BagReporter{Bag: e.bag}
	e.lb = linker.NewBuilder(e.files, e.b, e.tt, rep)
	e.m = NewMaterializer(e.files, e.b, e.tt, rep)
	return e
}

func (e *env) codes() []diag.Code {
	var out []diag.Code
	for _, d := range e.bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func (e *env) find(name string) ast.NodeID {
	want, _ := e.b.Strings.Find(name)
	for i := uint32(1); i <= e.b.Allocated(); i++ {
		id := ast.NodeID(i)
		if e.b.TagOf(id).IsDecl() && e.b.DeclName(id) == want && want != source.NoStringID {
			return id
		}
	}
	return ast.NoNodeID
}

func TestEncodeDecode(t *testing.T) {
	var buf bytes.Buffer
	doc := sampleDoc()
	if err := Encode(&buf, doc); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Main != "main.c" || len(got.Files) != 2 || len(got.Decls) != 5 || len(got.Edges) != 1 {
		t.Fatalf("decoded %+v", got)
	}
	fn := got.Decls[0].Node
	if fn.Kind != "func" || fn.Name != "printf" || !slices.Equal(fn.Flags, []string{"extern", "variadic"}) {
		t.Fatalf("first decl = %+v", fn)
	}
	if p := fn.Children[0]; p.Type.Kind != "pointer" || p.Type.Elem.Name != "char" {
		t.Fatalf("param type = %+v", p.Type)
	}
	if !got.Files[1].Foreign || got.Files[0].Foreign {
		t.Fatalf("foreign flags lost: %+v", got.Files)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode(bytes.NewReader(nil)); !errors.Is(err, ErrEmpty) {
		t.Fatalf("empty stream: %v", err)
	}

	stale, err := msgpack.Marshal(&Document{Schema: SchemaVersion + 6, Main: "main.c"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if _, err := Decode(bytes.NewReader(stale)); !errors.Is(err, ErrSchema) {
		t.Fatalf("stale schema: %v", err)
	}

	if _, err := Decode(bytes.NewReader([]byte{0xc1})); err == nil {
		t.Fatalf("garbage decoded")
	}
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.mp")
	if err := WriteFile(path, sampleDoc()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	doc, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(doc.Decls) != 5 {
		t.Fatalf("read %d decls", len(doc.Decls))
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "absent.mp")); err == nil {
		t.Fatalf("missing file read")
	}
}

func TestMaterialize(t *testing.T) {
	e := newEnv()
	if err := e.m.Load(sampleDoc(), e.lb); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := e.m.Finish(e.lb); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if unbound := e.m.Bind(); unbound != 0 {
		t.Fatalf("%d identifiers unbound", unbound)
	}
	if e.bag.Len() != 0 {
		t.Fatalf("diagnostics = %v", e.codes())
	}
	st := e.m.Stats()
	if st.Files != 2 || st.Decls != 5 || st.Bad != 0 || st.Edges != 1 || st.Bound != 2 {
		t.Fatalf("stats = %+v", st)
	}

	printf := e.find("printf")
	if got := e.tt.Format(e.b.TypeOf(printf), e.b.Strings); got != "fn(*char, ...) -> i32" {
		t.Fatalf("printf type = %q", got)
	}
	if f := e.b.Get(printf).Flags; !f.Has(ast.FlagExtern) || !f.Has(ast.FlagVariadic) {
		t.Fatalf("printf flags = %v", f.Names())
	}

	point := e.find("point")
	if e.tt.KindOf(e.b.TypeOf(point)) != types.KindStruct || e.tt.Size(e.b.TypeOf(point)) != 8 {
		t.Fatalf("point type kind %v size %d", e.tt.KindOf(e.b.TypeOf(point)), e.tt.Size(e.b.TypeOf(point)))
	}
	coord := e.find("coord")
	if e.tt.Unalias(e.b.TypeOf(coord)) != e.b.TypeOf(point) {
		t.Fatalf("coord does not alias point")
	}

	// x в теле inc привязан к параметру
	inc, _ := e.b.Func(e.find("inc"))
	param := inc.Params.Head
	blk, _ := e.b.Block(inc.Body)
	ret, _ := e.b.Wrap(blk.Stmts.Head)
	sum, _ := e.b.Binary(ret.Value)
	if e.b.Resolve(sum.Left) != param {
		t.Fatalf("x resolves to %d, want param %d", e.b.Resolve(sum.Left), param)
	}
	if e.b.TypeOf(sum.Left) != e.tt.Builtins().I32 {
		t.Fatalf("bound ident has no type")
	}

	main, _ := e.b.Func(e.find("main"))
	blk, _ = e.b.Block(main.Body)
	ret, _ = e.b.Wrap(blk.Stmts.Head)
	call, _ := e.b.Call(ret.Value)
	if e.b.Resolve(call.Callee) != printf {
		t.Fatalf("printf in main.c not bound across files")
	}

	forest, err := e.lb.Close(sampleDoc().Main)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := e.lb.Link(linker.LinkOptions{}); err != nil {
		t.Fatalf("Link: %v", err)
	}
	if forest.Len() != 2 {
		t.Fatalf("forest has %d modules", forest.Len())
	}
	deps := forest.Deps(e.tt, forest.Main)
	if len(deps) != 1 || deps[0].Path != "/usr/include/stdio.h" {
		t.Fatalf("main deps = %v", deps)
	}
	if !e.b.Get(deps[0].Decl).Flags.Has(ast.FlagExtern) {
		t.Fatalf("foreign module not marked extern")
	}
	mainFile := e.files.Get(forest.Main.File)
	if mainFile.Line(2) != `int main() { return printf("hi"); }` {
		t.Fatalf("content not attached: %q", mainFile.Line(2))
	}
}

func TestMaterializeEnum(t *testing.T) {
	e := newEnv()
	doc := &Document{
		Main:  "c.h",
		Files: []File{{Path: "c.h"}},
		Decls: []Decl{{Path: "c.h", Node: &Node{Kind: "enum", Name: "color", Children: []*Node{
			{Kind: "enum-member", Name: "red"},
			{Kind: "enum-member", Name: "green", Children: []*Node{{Kind: "int", Int: 5}}},
			{Kind: "enum-member", Name: "blue"},
		}}}, {Path: "c.h", Node: &Node{Kind: "var", Name: "c", Type: Named("color"), Children: []*Node{ident("blue")}}}},
	}
	if err := e.m.Load(doc, e.lb); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := e.m.Finish(e.lb); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	e.m.Bind()
	typ := e.b.TypeOf(e.find("color"))
	info, ok := e.tt.EnumInfo(typ)
	if !ok {
		t.Fatalf("color is not an enum")
	}
	var values []int64
	for _, m := range info.Members {
		values = append(values, m.Value)
	}
	if !slices.Equal(values, []int64{0, 5, 6}) {
		t.Fatalf("values = %v", values)
	}
	if info.Base != e.tt.Builtins().I32 {
		t.Fatalf("enum base = %v", info.Base)
	}
	v, _ := e.b.Decl(e.find("c"))
	if e.b.Resolve(v.Init) != e.find("blue") {
		t.Fatalf("enumerator not bound")
	}
	if e.b.TypeOf(v.Init) != typ {
		t.Fatalf("enumerator ident typed %v", e.b.TypeOf(v.Init))
	}
}

func TestMaterializeProblems(t *testing.T) {
	e := newEnv()
	doc := &Document{
		Main:  "main.c",
		Files: []File{{Path: "main.c"}},
		Decls: []Decl{
			{Path: "main.c", Node: &Node{Kind: "return"}},
			{Path: "main.c", Node: nil},
			{Path: "main.c", Node: &Node{Kind: "var", Name: "v", Type: Named("widget")}},
			{Path: "main.c", Node: &Node{Kind: "type-alias", Name: "a", Type: Named("b")}},
			{Path: "main.c", Node: &Node{Kind: "type-alias", Name: "b", Type: Named("a")}},
			{Path: "main.c", Node: &Node{Kind: "var", Name: "w", Type: Named("int"), Children: []*Node{
				{Kind: "binary", Op: "+", Children: []*Node{{Kind: "int", Int: 1}}},
			}}},
			{Path: "main.c", Node: &Node{Kind: "var", Name: "u", Type: Named("int"), Children: []*Node{ident("nowhere")}}},
		},
		Edges: []Edge{{From: "main.c", To: "missing.h"}},
	}
	if err := e.m.Load(doc, e.lb); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := e.m.Finish(e.lb); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if unbound := e.m.Bind(); unbound != 1 {
		t.Fatalf("unbound = %d, want 1", unbound)
	}
	want := []diag.Code{
		diag.FeedBadNode,    // return on top level
		diag.FeedBadNode,    // nil node
		diag.FeedBadType,    // widget
		diag.FeedBadType,    // a -> b -> a
		diag.FeedBadNode,    // binary with one operand
		diag.FeedUnknownRef, // missing.h
	}
	if got := e.codes(); !slices.Equal(got, want) {
		t.Fatalf("diagnostics = %v, want %v", got, want)
	}
	st := e.m.Stats()
	if st.Bad != 2 || st.Decls != 5 {
		t.Fatalf("stats = %+v", st)
	}
	w, _ := e.b.Decl(e.find("w"))
	if e.b.TagOf(w.Init) != ast.TagBad {
		t.Fatalf("malformed initializer became %v", e.b.TagOf(w.Init))
	}
	if e.b.Get(e.find("v")).Type != e.tt.Builtins().Error {
		t.Fatalf("unknown type not mapped to error type")
	}
}

func TestBuiltinTypeNames(t *testing.T) {
	tt := types.NewInterner()
	bi := tt.Builtins()
	cases := []struct {
		name string
		want types.TypeID
	}{
		{"int", bi.I32},
		{"unsigned  long", bi.U64},
		{"char", bi.Char},
		{"u16", bi.U16},
		{"double", bi.F64},
		{"size_t", bi.U64},
		{"void", bi.Void},
	}
	for _, tc := range cases {
		got, ok := builtinType(tt, tc.name)
		if !ok || got != tc.want {
			t.Errorf("builtinType(%q) = %v, %v; want %v", tc.name, got, ok, tc.want)
		}
	}
	if _, ok := builtinType(tt, "point"); ok {
		t.Errorf("point resolved as builtin")
	}
}

// main.c includes lib.h and uses its struct, but only lib's document knows
// the file.
func splitDocs() (mainDoc, libDoc *Document) {
	mainDoc = &Document{
		Main:  "main.c",
		Files: []File{{Path: "main.c"}},
		Decls: []Decl{{Path: "main.c", Node: &Node{Kind: "var", Name: "r", Type: Named("rect")}}},
		Edges: []Edge{{From: "main.c", To: "lib.h", At: Pos{Line: 1, Col: 1}}},
	}
	libDoc = &Document{
		Files: []File{{Path: "lib.h"}},
		Decls: []Decl{{Path: "lib.h", Node: &Node{Kind: "struct", Name: "rect", Children: []*Node{
			{Kind: "field", Name: "w", Type: Named("int")},
		}}}},
	}
	return mainDoc, libDoc
}

func TestMaterializeAcrossDocuments(t *testing.T) {
	mainDoc, libDoc := splitDocs()
	orders := map[string][]*Document{
		"lib first":  {libDoc, mainDoc},
		"main first": {mainDoc, libDoc},
	}
	for name, docs := range orders {
		t.Run(name, func(t *testing.T) {
			e := newEnv()
			for _, doc := range docs {
				if err := e.m.Load(doc, e.lb); err != nil {
					t.Fatalf("Load: %v", err)
				}
			}
			if err := e.m.Finish(e.lb); err != nil {
				t.Fatalf("Finish: %v", err)
			}
			e.m.Bind()
			if e.bag.Len() != 0 {
				t.Fatalf("diagnostics = %v", e.codes())
			}
			if k := e.tt.KindOf(e.b.Get(e.find("r")).Type); k != types.KindStruct {
				t.Fatalf("r has kind %v, want struct", k)
			}

			forest, err := e.lb.Close("main.c")
			if err != nil {
				t.Fatalf("Close: %v", err)
			}
			stats, err := e.lb.Link(linker.LinkOptions{})
			if err != nil {
				t.Fatalf("Link: %v", err)
			}
			if stats.Dropped != 0 || stats.Resolved != 1 {
				t.Fatalf("link stats = %+v", stats)
			}
			deps := forest.Deps(e.tt, forest.Main)
			if len(deps) != 1 || deps[0].Path != "lib.h" {
				t.Fatalf("main deps = %v", deps)
			}
		})
	}
}
