package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"loom/internal/linker"
	"loom/internal/types"
)

// ModuleID indexes Forest.Modules.
type ModuleID uint32

// Graph stores edges dependency -> dependent, so that Kahn's order lists a
// module only after everything it includes.
type Graph struct {
	Edges   [][]ModuleID // Edges[dep] = модули, которые включают dep
	Indeg   []int        // число различных зависимостей модуля
	Present []bool       // модуль типизирован и участвует в порядке
	Self    []bool       // модуль включает сам себя
}

// BuildGraph reads the linked dependency lists of the forest. Untyped
// modules are absent; repeated and self edges do not count toward ordering.
func BuildGraph(f *linker.Forest, tt *types.Interner) Graph {
	n := f.Len()
	g := Graph{
		Edges:   make([][]ModuleID, n),
		Indeg:   make([]int, n),
		Present: make([]bool, n),
		Self:    make([]bool, n),
	}
	index := make(map[*linker.Module]ModuleID, n)
	for i, m := range f.Modules {
		index[m] = toID(i)
		g.Present[i] = m.Typed()
	}

	for i, m := range f.Modules {
		if !g.Present[i] {
			continue
		}
		seen := make(map[ModuleID]struct{})
		for _, dep := range f.Deps(tt, m) {
			depID := index[dep]
			if depID == toID(i) {
				g.Self[i] = true
				continue
			}
			if _, dup := seen[depID]; dup {
				continue
			}
			seen[depID] = struct{}{}
			g.Edges[depID] = append(g.Edges[depID], toID(i))
			g.Indeg[i]++
		}
	}
	for i := range g.Edges {
		slices.Sort(g.Edges[i])
	}
	return g
}

func toID(i int) ModuleID {
	id, err := safecast.Conv[ModuleID](i)
	if err != nil {
		panic(fmt.Errorf("module id overflow: %w", err))
	}
	return id
}
