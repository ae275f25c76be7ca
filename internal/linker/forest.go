package linker

import (
	"loom/internal/ast"
	"loom/internal/source"
	"loom/internal/types"
)

// Module is one realized source unit.
type Module struct {
	File        source.FileID
	Path        string
	Name        source.StringID
	Program     ast.NodeID
	Decl        ast.NodeID
	Type        types.TypeID // NoTypeID when the path yields no name
	Main        bool
	Synthesized bool
}

// Typed reports whether the module took part in linking.
func (m *Module) Typed() bool {
	return m.Type != types.NoTypeID
}

// Forest holds every module of a run in discovery order.
type Forest struct {
	Modules []*Module
	Main    *Module

	byFile map[source.FileID]*Module
	byType map[types.TypeID]*Module
}

func newForest(capacity int) *Forest {
	return &Forest{
		Modules: make([]*Module, 0, capacity),
		byFile:  make(map[source.FileID]*Module, capacity),
		byType:  make(map[types.TypeID]*Module, capacity),
	}
}

func (f *Forest) add(m *Module) {
	f.Modules = append(f.Modules, m)
	f.byFile[m.File] = m
	if m.Typed() {
		f.byType[m.Type] = m
	}
	if m.Main {
		f.Main = m
	}
}

func (f *Forest) Len() int {
	return len(f.Modules)
}

// ByFile returns the module realized for a file.
func (f *Forest) ByFile(id source.FileID) (*Module, bool) {
	m, ok := f.byFile[id]
	return m, ok
}

// ByType maps a Module type back to its module.
func (f *Forest) ByType(id types.TypeID) (*Module, bool) {
	m, ok := f.byType[id]
	return m, ok
}

// Deps returns the modules m depends on, in dependency-list order. It is empty
// before Link and for untyped modules.
func (f *Forest) Deps(tt *types.Interner, m *Module) []*Module {
	if !m.Typed() {
		return nil
	}
	ids, _ := tt.ModuleDeps(m.Type)
	out := make([]*Module, 0, len(ids))
	for _, id := range ids {
		if dep, ok := f.byType[id]; ok {
			out = append(out, dep)
		}
	}
	return out
}
