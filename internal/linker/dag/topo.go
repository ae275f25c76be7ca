package dag

import "slices"

// Topo is a link order over the typed modules of a forest.
type Topo struct {
	Order []ModuleID
	// Batches are waves of modules whose dependencies all sit in earlier
	// waves; modules of one wave do not depend on each other.
	Batches [][]ModuleID
	Cyclic  bool
	// Cycles holds every module Order could not place: members of a cycle
	// and everything that depends on one. Index order.
	Cycles []ModuleID
}

// ToposortKahn orders g wave by wave. The first wave is in index order,
// later waves are sorted, so the result depends only on the graph.
func ToposortKahn(g Graph) *Topo {
	left := slices.Clone(g.Indeg)
	topo := &Topo{}

	var wave []ModuleID
	for i, present := range g.Present {
		if present && left[i] == 0 {
			wave = append(wave, toID(i))
		}
	}
	for len(wave) > 0 {
		topo.Batches = append(topo.Batches, wave)
		topo.Order = append(topo.Order, wave...)
		var ready []ModuleID
		for _, id := range wave {
			for _, dependent := range g.Edges[id] {
				left[dependent]--
				if left[dependent] == 0 {
					ready = append(ready, dependent)
				}
			}
		}
		slices.Sort(ready)
		wave = ready
	}

	for i, present := range g.Present {
		if present && left[i] > 0 {
			topo.Cycles = append(topo.Cycles, toID(i))
		}
	}
	topo.Cyclic = len(topo.Cycles) > 0
	return topo
}
