package dag

import (
	"fmt"
	"strings"

	"loom/internal/diag"
	"loom/internal/linker"
	"loom/internal/source"
	"loom/internal/types"
)

// ReportCycles emits one LinkImportCycle info per module left in a cycle.
// Include cycles are legal for headers guarded against re-inclusion, so they
// are not errors.
func ReportCycles(f *linker.Forest, topo *Topo, r diag.Reporter) {
	if !topo.Cyclic || len(topo.Cycles) == 0 || r == nil {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, f.Modules[id].Path)
	}
	summary := strings.Join(names, " -> ")

	for _, id := range topo.Cycles {
		m := f.Modules[id]
		msg := fmt.Sprintf("module %q participates in an include cycle: %s", m.Path, summary)
		diag.ReportInfo(r, diag.LinkImportCycle, spanOf(m), msg).Emit()
	}
}

// Order is BuildGraph + ToposortKahn + ReportCycles.
func Order(f *linker.Forest, tt *types.Interner, r diag.Reporter) *Topo {
	topo := ToposortKahn(BuildGraph(f, tt))
	ReportCycles(f, topo, r)
	return topo
}

// Names maps ids to module paths.
func Names(f *linker.Forest, ids []ModuleID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = f.Modules[id].Path
	}
	return out
}

func spanOf(m *linker.Module) source.Span {
	return source.Span{File: m.File}
}
