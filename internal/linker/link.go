package linker

import (
	"fmt"
	"slices"

	"loom/internal/diag"
	"loom/internal/source"
	"loom/internal/types"
)

// LinkOptions tightens the default best-effort linking.
type LinkOptions struct {
	// Strict reports every dropped edge as a LinkDanglingEdge warning.
	Strict bool
	// Dedup keeps one entry per included module instead of one per edge.
	Dedup bool
}

// LinkStats summarizes one Link pass.
type LinkStats struct {
	Edges      int // recorded edges
	Resolved   int // edges that became dependency entries
	Dropped    int // edges without a typed module on either side
	Duplicates int // resolved edges repeating an earlier (from, to) pair
	Modules    int // modules that received a dependency list
}

// Link walks every recorded edge and attaches the accumulated dependency list
// to each typed module. Edges whose including module is missing or untyped
// contribute nothing; edges to files that never became typed modules are
// dropped. Lists are sorted by TypeID, so the result does not depend on edge
// recording order.
func (l *Builder) Link(opts LinkOptions) (LinkStats, error) {
	if l.phase != PhaseClosed {
		return LinkStats{}, fmt.Errorf("%w: Link needs a closed builder, have %s", ErrPhase, l.phase)
	}
	forest := l.forest
	stats := LinkStats{Edges: len(l.edges)}

	acc := make(map[types.TypeID][]types.TypeID, forest.Len())
	for _, e := range l.edges {
		from, ok := forest.ByFile(e.From)
		if !ok || !from.Typed() {
			stats.Dropped++
			l.dangling(opts, e, "including file %s has no typed module", l.label(e.From))
			continue
		}
		to, ok := forest.ByFile(e.To)
		if !ok || !to.Typed() {
			stats.Dropped++
			l.dangling(opts, e, "included file %s has no typed module", l.label(e.To))
			continue
		}
		if from == to && opts.Strict {
			diag.ReportWarning(l.reporter, diag.LinkSelfInclude, e.Span,
				fmt.Sprintf("module %q includes itself", from.Path)).Emit()
		}
		if slices.Contains(acc[from.Type], to.Type) {
			stats.Duplicates++
			if opts.Dedup {
				continue
			}
		}
		acc[from.Type] = append(acc[from.Type], to.Type)
		stats.Resolved++
	}

	for _, m := range forest.Modules {
		if !m.Typed() {
			continue
		}
		deps := acc[m.Type]
		slices.Sort(deps)
		if err := l.types.SetModuleDeps(m.Type, deps); err != nil {
			return stats, fmt.Errorf("link module %q: %w", m.Path, err)
		}
		stats.Modules++
	}
	l.phase = PhaseLinked
	return stats, nil
}

func (l *Builder) dangling(opts LinkOptions, e Edge, format string, args ...any) {
	if !opts.Strict {
		return
	}
	diag.Reportf(l.reporter, diag.SevWarning, diag.LinkDanglingEdge, e.Span, "dropped include edge: "+format, args...)
}

func (l *Builder) label(id source.FileID) string {
	if p := l.files.Path(id); p != "" {
		return fmt.Sprintf("%q", p)
	}
	return fmt.Sprintf("#%d", id)
}
