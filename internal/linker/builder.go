package linker

import (
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"loom/internal/ast"
	"loom/internal/diag"
	"loom/internal/source"
	"loom/internal/types"
)

// Phase is the builder state.
type Phase uint8

const (
	PhaseOpen Phase = iota
	PhaseAccumulating
	PhaseClosed
	PhaseLinked
)

func (p Phase) String() string {
	switch p {
	case PhaseOpen:
		return "open"
	case PhaseAccumulating:
		return "accumulating"
	case PhaseClosed:
		return "closed"
	case PhaseLinked:
		return "linked"
	default:
		return fmt.Sprintf("Phase(%d)", p)
	}
}

var (
	// ErrPhase is returned when an operation is called in the wrong phase.
	ErrPhase = errors.New("operation not allowed in this phase")
	// ErrNoMainPath is returned by Close when no main path is given.
	ErrNoMainPath = errors.New("main module path is empty")
	// ErrUnknownFile is returned for declarations on unregistered files.
	ErrUnknownFile = errors.New("unknown file")
)

// Edge is one raw inclusion relationship as the foreign parser saw it.
type Edge struct {
	From source.FileID
	To   source.FileID
	Span source.Span
}

type openFile struct {
	id    source.FileID
	decls ast.List
}

// Builder accumulates declarations and edges for one run. It is not safe for
// concurrent use.
type Builder struct {
	files    *source.FileSet
	ast      *ast.Builder
	types    *types.Interner
	reporter diag.Reporter

	phase  Phase
	opened []openFile
	index  map[source.FileID]int
	edges  []Edge
	forest *Forest
}

// NewBuilder binds a builder to the run's file set, AST arena and type
// table. reporter may be nil.
func NewBuilder(files *source.FileSet, b *ast.Builder, tt *types.Interner, reporter diag.Reporter) *Builder {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Builder{
		files:    files,
		ast:      b,
		types:    tt,
		reporter: reporter,
		index:    make(map[source.FileID]int),
	}
}

func (l *Builder) Phase() Phase {
	return l.phase
}

// Edges returns the recorded inclusion edges in recording order.
func (l *Builder) Edges() []Edge {
	return l.edges
}

func (l *Builder) accepting() error {
	if l.phase > PhaseAccumulating {
		return fmt.Errorf("%w: builder is %s", ErrPhase, l.phase)
	}
	return nil
}

// DeclareFile registers path with the file set without opening a module.
func (l *Builder) DeclareFile(path string, flags source.FileFlags) (source.FileID, error) {
	if err := l.accepting(); err != nil {
		return source.NoFileID, err
	}
	return l.files.Register(path, flags), nil
}

// open returns the declaration list of id, opening it on first sight.
func (l *Builder) open(id source.FileID) *openFile {
	if i, ok := l.index[id]; ok {
		return &l.opened[i]
	}
	l.index[id] = len(l.opened)
	l.opened = append(l.opened, openFile{id: id})
	l.phase = PhaseAccumulating
	return &l.opened[len(l.opened)-1]
}

// AddDecl appends node to the declaration list of path. The path is
// registered on first use.
func (l *Builder) AddDecl(path string, node ast.NodeID) error {
	if err := l.accepting(); err != nil {
		return err
	}
	if !node.IsValid() {
		return fmt.Errorf("declaration for %q: invalid node", path)
	}
	f := l.open(l.files.Register(path, 0))
	l.ast.Append(&f.decls, node)
	return nil
}

// AddDeclTo is AddDecl for an already registered file.
func (l *Builder) AddDeclTo(file source.FileID, node ast.NodeID) error {
	if err := l.accepting(); err != nil {
		return err
	}
	if l.files.Get(file) == nil {
		return fmt.Errorf("file %d: %w", file, ErrUnknownFile)
	}
	if !node.IsValid() {
		return fmt.Errorf("declaration for file %d: invalid node", file)
	}
	f := l.open(file)
	l.ast.Append(&f.decls, node)
	return nil
}

// AddInclude records (from -> to). Both sides open a module when the file set
// knows them; unknown ids are recorded too and dropped by Link.
func (l *Builder) AddInclude(from, to source.FileID, at source.Span) error {
	if err := l.accepting(); err != nil {
		return err
	}
	for _, id := range [...]source.FileID{from, to} {
		if l.files.Get(id) != nil {
			l.open(id)
		}
	}
	l.edges = append(l.edges, Edge{From: from, To: to, Span: at})
	l.phase = PhaseAccumulating
	return nil
}

// Close converts every opened path, in discovery order, into a Program node
// wrapping a Module declaration plus a Module type. A main module is
// synthesized when mainPath was never opened.
func (l *Builder) Close(mainPath string) (*Forest, error) {
	if err := l.accepting(); err != nil {
		return nil, err
	}
	if mainPath == "" {
		return nil, ErrNoMainPath
	}
	mainID := l.files.Register(mainPath, source.FileMain)
	_, mainOpened := l.index[mainID]

	forest := newForest(len(l.opened) + 1)
	for i := range l.opened {
		f := &l.opened[i]
		forest.add(l.realize(f.id, f.decls, f.id == mainID, false))
	}
	if !mainOpened {
		forest.add(l.realize(mainID, ast.List{}, true, true))
		diag.ReportInfo(l.reporter, diag.LinkMainSynthesize, source.Span{File: mainID},
			fmt.Sprintf("main path %s has no declarations, an empty module stands in for it", l.files.Path(mainID))).Emit()
	}
	l.forest = forest
	l.phase = PhaseClosed
	return forest, nil
}

func (l *Builder) realize(id source.FileID, decls ast.List, main, synthesized bool) *Module {
	path := l.files.Path(id)
	name := ModuleName(path)
	strs := l.ast.Strings

	var flags ast.Flags
	if !main {
		flags |= ast.FlagImportedModule
	}
	if synthesized {
		flags |= ast.FlagSynthesized
	}
	if f := l.files.Get(id); f != nil && f.Flags&source.FileForeign != 0 {
		flags |= ast.FlagExtern
	}

	sp := source.Span{File: id}
	var nameID source.StringID
	if name != "" {
		nameID = strs.Intern(name)
	}
	pathID := strs.Intern(path)
	decl := l.ast.NewModule(sp, flags, nameID, pathID)
	prog := l.ast.NewProgram(sp, flags, decl, decls)

	m := &Module{
		File:        id,
		Path:        path,
		Name:        nameID,
		Program:     prog,
		Decl:        decl,
		Main:        main,
		Synthesized: synthesized,
	}
	// имя пустое - типа нет, рёбра модуля потом пропускаются
	if name == "" {
		diag.ReportInfo(l.reporter, diag.LinkUntypedModule, sp,
			fmt.Sprintf("path %q yields no module name, its includes are skipped", path)).Emit()
		return m
	}
	m.Type = l.types.RegisterModule(nameID, pathID)
	l.ast.SetType(prog, m.Type)
	l.ast.SetType(decl, m.Type)
	return m
}

// ModuleName derives a module name from the final path component minus its
// extension, NFC-normalized so that differently composed file names agree.
func ModuleName(path string) string {
	return norm.NFC.String(source.BaseName(path))
}
