package builtin

import (
	"context"
	"slices"
	"testing"

	"loom/internal/ast"
	"loom/internal/diag"
	"loom/internal/plugin"
	"loom/internal/source"
	"loom/internal/testkit"
	"loom/internal/types"
)

type env struct {
	b    *ast.Builder
	tt   *types.Interner
	bag  *diag.Bag
	disp *plugin.Dispatcher
}

func newEnv(t *testing.T) *env {
	t.Helper()
	b := ast.NewBuilder(ast.Hints{}, nil)
	tt := types.NewInterner()
	bag := diag.NewBag(0)
	reg := plugin.NewRegistry()
	host := plugin.NewHost(reg, diag.BagReporter{Bag: bag})
	if !host.Init(Name, Init, source.Span{}) {
		t.Fatalf("builtin init failed")
	}
	ctx := plugin.NewContext(b, tt, diag.BagReporter{Bag: bag})
	return &env{b: b, tt: tt, bag: bag, disp: plugin.NewDispatcher(reg, ctx)}
}

func (e *env) ident(name string) ast.NodeID {
	return e.b.NewIdent(source.At(1, 2, 1), 0, e.b.Strings.Intern(name))
}

func (e *env) call(name string, args ...ast.NodeID) (ast.List, bool) {
	inv := e.b.NewInvoke(source.At(1, 1, 1), 0, e.b.Strings.Intern(name), e.b.ListOf(args...))
	invData, _ := e.b.Invoke(inv)
	return e.disp.Invoke(name, inv, invData.Args)
}

func (e *env) codes() []diag.Code {
	var out []diag.Code
	for _, d := range e.bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestInitRegistersAll(t *testing.T) {
	reg := plugin.NewRegistry()
	Init(plugin.NewHost(reg, nil), source.Span{})
	want := []string{"add", "addMembers", "call", "hello"}
	if got := reg.Names(); !slices.Equal(got, want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}
}

func TestHello(t *testing.T) {
	e := newEnv(t)
	res, ok := e.call("hello")
	if !ok || e.b.Count(res) != 1 {
		t.Fatalf("hello failed: %v", e.codes())
	}
	lit, isLit := e.b.Lit(res.Head)
	if !isLit || e.b.TagOf(res.Head) != ast.TagStringLit {
		t.Fatalf("hello produced %v", e.b.TagOf(res.Head))
	}
	if s := e.b.Strings.MustLookup(lit.Str); s != "Hello World!" {
		t.Fatalf("hello text = %q", s)
	}
	if !e.b.Get(res.Head).Flags.Has(ast.FlagSynthesized) {
		t.Fatalf("hello result not marked synthesized")
	}

	if _, ok := e.call("hello", e.ident("x")); ok {
		t.Fatalf("hello accepted an argument")
	}
	if got := e.codes(); !slices.Equal(got, []diag.Code{diag.PluginArity}) {
		t.Fatalf("diagnostics = %v", got)
	}
}

func TestAdd(t *testing.T) {
	e := newEnv(t)
	a, b := e.ident("a"), e.ident("b")
	res, ok := e.call("add", a, b)
	if !ok {
		t.Fatalf("add failed: %v", e.codes())
	}
	bin, isBin := e.b.Binary(res.Head)
	if !isBin || bin.Op != ast.BinaryAdd || bin.Left != a || bin.Right != b {
		t.Fatalf("add produced %+v", bin)
	}
	if e.b.Get(a).Next != ast.NoNodeID {
		t.Fatalf("left operand still chained to the argument list")
	}
}

func TestAddArity(t *testing.T) {
	e := newEnv(t)
	before := e.b.Allocated()
	if _, ok := e.call("add", e.ident("a")); ok {
		t.Fatalf("add with one argument succeeded")
	}
	if _, ok := e.call("add", e.ident("a"), e.ident("b"), e.ident("c")); ok {
		t.Fatalf("add with three arguments succeeded")
	}
	want := []diag.Code{diag.PluginArity, diag.PluginArity}
	if got := e.codes(); !slices.Equal(got, want) {
		t.Fatalf("diagnostics = %v, want %v", got, want)
	}
	// только аргументы и сами вызовы
	if got := e.b.Allocated() - before; got != 6 {
		t.Fatalf("allocated %d nodes, want 6", got)
	}
}

func TestCall(t *testing.T) {
	e := newEnv(t)
	i32 := e.tt.Builtins().I32
	fn := e.b.NewFunc(source.Span{}, 0, e.b.Strings.Intern("sq"), ast.List{}, i32, ast.NoNodeID)

	f := e.ident("sq")
	e.b.Bind(f, fn)
	x, y := e.b.NewIntLit(source.Span{}, 0, 3), e.b.NewIntLit(source.Span{}, 0, 4)

	res, ok := e.call("call", f, x, y)
	if !ok {
		t.Fatalf("call failed: %v", e.codes())
	}
	mul, _ := e.b.Binary(res.Head)
	if mul == nil || mul.Op != ast.BinaryMul || mul.Right != y {
		t.Fatalf("call produced %v", e.b.TagOf(res.Head))
	}
	c, isCall := e.b.Call(mul.Left)
	if !isCall || c.Callee != f {
		t.Fatalf("left of * is %v", e.b.TagOf(mul.Left))
	}
	if got := e.b.IDs(c.Args); !slices.Equal(got, []ast.NodeID{x}) {
		t.Fatalf("call args = %v", got)
	}
	if e.b.TypeOf(mul.Left) != i32 {
		t.Fatalf("call result type not taken from the function")
	}
}

func TestCallResolution(t *testing.T) {
	e := newEnv(t)
	v := e.b.NewVar(source.Span{}, 0, e.b.Strings.Intern("v"), types.NoTypeID, ast.NoNodeID)
	bound := e.ident("v")
	e.b.Bind(bound, v)
	one := func() ast.NodeID { return e.b.NewIntLit(source.Span{}, 0, 1) }

	if _, ok := e.call("call", bound, one(), one()); ok {
		t.Fatalf("call accepted a variable as the function")
	}
	if _, ok := e.call("call", e.ident("unbound"), one(), one()); ok {
		t.Fatalf("call accepted an unbound name")
	}
	if _, ok := e.call("call", bound, one()); ok {
		t.Fatalf("call accepted two arguments")
	}
	want := []diag.Code{diag.PluginResolution, diag.PluginResolution, diag.PluginArity}
	if got := e.codes(); !slices.Equal(got, want) {
		t.Fatalf("diagnostics = %v, want %v", got, want)
	}
	if e.bag.Items()[0].Primary != source.At(1, 2, 1) {
		t.Fatalf("resolution error reported at %v, want the argument", e.bag.Items()[0].Primary)
	}
}

func TestAddMembers(t *testing.T) {
	e := newEnv(t)
	sp := source.Span{}
	bi := e.tt.Builtins()

	pt := e.tt.RegisterStruct(e.b.Strings.Intern("point"), sp)
	decl := e.b.NewStruct(sp, 0, e.b.Strings.Intern("point"), pt, ast.List{})
	ptRef := e.ident("point")
	e.b.Bind(ptRef, decl)

	p1 := e.b.NewPair(sp, 0, e.ident("count"), e.b.NewTypeRef(sp, 0, e.b.Strings.Intern("int"), bi.I32))
	p2 := e.b.NewPair(sp, 0, e.ident("origin"), ptRef)

	res, ok := e.call("addMembers", p1, p2)
	if !ok {
		t.Fatalf("addMembers failed: %v", e.codes())
	}
	ids := e.b.IDs(res)
	if len(ids) != 2 {
		t.Fatalf("addMembers produced %d nodes", len(ids))
	}
	wantNames := []string{"count", "origin"}
	wantTypes := []types.TypeID{bi.I32, pt}
	for i, id := range ids {
		if e.b.TagOf(id) != ast.TagField {
			t.Fatalf("member %d is %v", i, e.b.TagOf(id))
		}
		if name := e.b.Strings.MustLookup(e.b.DeclName(id)); name != wantNames[i] {
			t.Fatalf("member %d name = %q", i, name)
		}
		if e.b.TypeOf(id) != wantTypes[i] {
			t.Fatalf("member %d type = %v", i, e.b.TypeOf(id))
		}
	}
}

func TestAddMembersShape(t *testing.T) {
	e := newEnv(t)
	sp := source.Span{}
	good := e.b.NewPair(sp, 0, e.ident("a"), e.b.NewTypeRef(sp, 0, e.b.Strings.Intern("int"), e.tt.Builtins().I32))
	notPair := e.b.NewIntLit(source.At(1, 9, 9), 0, 1)

	before := e.b.Allocated()
	if _, ok := e.call("addMembers", good, notPair); ok {
		t.Fatalf("addMembers accepted a non-pair")
	}
	if _, ok := e.call("addMembers", e.b.NewPair(sp, 0, e.ident("b"), e.ident("unbound"))); ok {
		t.Fatalf("addMembers accepted an unbound type name")
	}
	if _, ok := e.call("addMembers"); ok {
		t.Fatalf("addMembers accepted no arguments")
	}
	want := []diag.Code{diag.PluginShape, diag.PluginShape, diag.PluginArity}
	if got := e.codes(); !slices.Equal(got, want) {
		t.Fatalf("diagnostics = %v, want %v", got, want)
	}
	if e.bag.Items()[0].Primary != source.At(1, 9, 9) {
		t.Fatalf("shape error at %v, want the offending argument", e.bag.Items()[0].Primary)
	}
	// only the invocations and their arguments remain
	if got := e.b.Allocated() - before; got != 6 {
		t.Fatalf("allocated %d nodes, want 6", got)
	}
}

func TestExpandBuiltinsInTree(t *testing.T) {
	e := newEnv(t)
	sp := source.Span{}
	add := e.b.NewInvoke(sp, 0, e.b.Strings.Intern("add"), e.b.ListOf(e.ident("a"), e.ident("b")))
	broken := e.b.NewInvoke(sp, 0, e.b.Strings.Intern("add"), e.b.ListOf(e.ident("a")))
	hello := e.b.NewInvoke(sp, 0, e.b.Strings.Intern("hello"), ast.List{})
	block := e.b.NewBlock(sp, 0, e.b.ListOf(
		e.b.NewExprStmt(sp, 0, add),
		e.b.NewExprStmt(sp, 0, broken),
		hello,
	))

	st := e.disp.ExpandAll(context.Background(), block)
	if st.Expanded != 2 || st.Failed != 1 {
		t.Fatalf("stats = %+v", st)
	}
	blk, _ := e.b.Block(block)
	ids := e.b.IDs(blk.Stmts)
	if len(ids) != 3 {
		t.Fatalf("block has %d statements", len(ids))
	}
	first, _ := e.b.Wrap(ids[0])
	if e.b.TagOf(first.Value) != ast.TagBinary {
		t.Fatalf("add not expanded: %v", e.b.TagOf(first.Value))
	}
	second, _ := e.b.Wrap(ids[1])
	if e.b.TagOf(second.Value) != ast.TagBad {
		t.Fatalf("broken add left %v", e.b.TagOf(second.Value))
	}
	if e.b.TagOf(ids[2]) != ast.TagStringLit {
		t.Fatalf("hello not expanded: %v", e.b.TagOf(ids[2]))
	}
	if err := testkit.CheckExpanded(e.b, block); err != nil {
		t.Fatalf("expanded tree: %v", err)
	}
}

func TestAddMembersReportsEveryArgument(t *testing.T) {
	e := newEnv(t)
	first := e.b.NewIntLit(source.At(1, 1, 3), 0, 1)
	second := e.b.NewIntLit(source.At(1, 1, 7), 0, 2)
	if _, ok := e.call("addMembers", first, second); ok {
		t.Fatalf("addMembers accepted two non-pairs")
	}
	items := e.bag.Items()
	if len(items) != 2 {
		t.Fatalf("diagnostics = %v, want one per argument", e.codes())
	}
	for i, want := range []source.Span{source.At(1, 1, 3), source.At(1, 1, 7)} {
		if items[i].Code != diag.PluginShape || items[i].Primary != want {
			t.Fatalf("item %d = %v at %v, want PluginShape at %v", i, items[i].Code, items[i].Primary, want)
		}
	}
	if title := diag.PluginShape.Title(); title == diag.PluginResultShape.Title() {
		t.Fatalf("argument and result shape errors share the title %q", title)
	}
}
