package driver

import (
	"context"
	"errors"
	"fmt"

	"loom/internal/ast"
	"loom/internal/diag"
	"loom/internal/feed"
	"loom/internal/linker"
	"loom/internal/linker/dag"
	"loom/internal/observ"
	"loom/internal/plugin"
	"loom/internal/project"
	"loom/internal/source"
	"loom/internal/trace"
	"loom/internal/types"
)

// ErrNoMain is returned when neither the options nor any feed name a main
// path.
var ErrNoMain = errors.New("no main path: pass --main or set it in a feed")

// Options configures one run.
type Options struct {
	Feeds []string
	// Main overrides the main path carried by the feeds.
	Main           string
	Link           linker.LinkOptions
	Expand         bool
	Builtin        bool
	Plugins        []string
	Jobs           int
	MaxDiagnostics int
	Timer          *observ.Timer
}

// Result holds everything a run produced. Bag is set even when Run fails.
type Result struct {
	Files  *source.FileSet
	AST    *ast.Builder
	Types  *types.Interner
	Bag    *diag.Bag
	Shards []Shard
	Main   string
	Digest project.Digest

	Forest  *linker.Forest
	Order   *dag.Topo
	Feed    feed.Stats
	Link    linker.LinkStats
	Expand  plugin.Stats
	Actions []string
}

// Run executes the pipeline. Problems in the input are diagnostics in
// Result.Bag; the error is reserved for cancellation and misuse.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	span, ctx := trace.StartSpan(ctx, trace.ScopeDriver, "run")
	defer span.End("")

	files := source.NewFileSet()
	res := &Result{
		Files: files,
		AST:   ast.NewBuilder(ast.Hints{}, nil),
		Types: types.NewInterner(),
		Bag:   diag.NewBag(opts.MaxDiagnostics),
	}
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	tm := opts.Timer

	if err := pass(ctx, tm, "decode", func(ctx context.Context) error {
		shards, err := DecodeShards(ctx, opts.Feeds, opts.Jobs, opts.MaxDiagnostics)
		if err != nil {
			return err
		}
		res.Shards = shards
		digests := make([]project.Digest, 0, len(shards))
		for _, sh := range shards {
			res.Bag.Merge(sh.Bag)
			digests = append(digests, sh.Digest)
		}
		res.Digest = project.Combine(digests...)
		return nil
	}); err != nil {
		return res, err
	}

	res.Main = opts.Main
	for _, sh := range res.Shards {
		if res.Main == "" && sh.Doc != nil {
			res.Main = sh.Doc.Main
		}
	}
	if res.Main == "" {
		return res, ErrNoMain
	}

	lb := linker.NewBuilder(files, res.AST, res.Types, reporter)
	if err := pass(ctx, tm, "build", func(context.Context) error {
		m := feed.NewMaterializer(files, res.AST, res.Types, reporter)
		for _, sh := range res.Shards {
			if sh.Doc == nil || sh.Duplicate {
				continue
			}
			if err := m.Load(sh.Doc, lb); err != nil {
				return fmt.Errorf("%s: %w", sh.Path, err)
			}
		}
		if err := m.Finish(lb); err != nil {
			return err
		}
		m.Bind()
		res.Feed = m.Stats()
		return nil
	}); err != nil {
		return res, err
	}

	if err := pass(ctx, tm, "close", func(context.Context) error {
		forest, err := lb.Close(res.Main)
		res.Forest = forest
		return err
	}); err != nil {
		return res, err
	}

	if err := pass(ctx, tm, "link", func(context.Context) error {
		stats, err := lb.Link(opts.Link)
		if err != nil {
			return err
		}
		res.Link = stats
		res.Order = dag.Order(res.Forest, res.Types, reporter)
		return nil
	}); err != nil {
		return res, err
	}

	if !opts.Expand {
		return res, nil
	}
	err := pass(ctx, tm, "expand", func(ctx context.Context) error {
		return expand(ctx, res, opts, reporter)
	})
	return res, err
}

// pass runs fn as one traced, timed pipeline pass.
func pass(ctx context.Context, tm *observ.Timer, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	span, ctx := trace.StartSpan(ctx, trace.ScopePass, name)
	idx := tm.Begin(name)
	err := fn(ctx)
	note := ""
	if err != nil {
		note = err.Error()
	}
	tm.End(idx, note)
	span.End(note)
	return err
}
