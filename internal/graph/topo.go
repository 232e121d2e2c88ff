package graph

import (
	"cmp"
	"slices"
)

// TopologicalOrder returns the nodes ordered so that every node appears
// after all of its successors (callees before callers). The second return
// is false when the graph contains a cycle and no complete ordering exists.
//
// Kahn's algorithm with a sorted ready set, so the ordering is deterministic
// for a given graph.
func TopologicalOrder[T cmp.Ordered](g *DiGraph[T]) ([]T, bool) {
	if g.NodeCount() == 0 {
		return nil, true
	}

	// pending counts unemitted successors per node; a node is ready once
	// everything it points at has been emitted.
	pending := make(map[T]int, g.NodeCount())
	var ready []T
	for _, n := range g.Nodes() {
		d := g.OutDegree(n)
		pending[n] = d
		if d == 0 {
			ready = append(ready, n)
		}
	}

	order := make([]T, 0, g.NodeCount())
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)
		for _, pred := range g.Predecessors(n) {
			pending[pred]--
			if pending[pred] == 0 {
				ready = append(ready, pred)
			}
		}
	}

	if len(order) != g.NodeCount() {
		return nil, false
	}
	return order, true
}

// DetectCycles returns the cycles of g, each as a sorted slice of member
// nodes. An acyclic graph yields an empty result.
//
// Kahn's algorithm first peels away every orderable node; whatever remains
// participates in or feeds a cycle, and is partitioned into strongly
// connected components (Tarjan) restricted to the residue. Components of
// size one are kept only when they carry a self-loop. Cycles are sorted by
// their first member so output is reproducible across runs.
func DetectCycles[T cmp.Ordered](g *DiGraph[T]) [][]T {
	order, ok := TopologicalOrder(g)
	if ok {
		return nil
	}

	emitted := make(map[T]struct{}, len(order))
	for _, n := range order {
		emitted[n] = struct{}{}
	}
	var residue []T
	for _, n := range g.Nodes() {
		if _, done := emitted[n]; !done {
			residue = append(residue, n)
		}
	}

	components := stronglyConnected(g, residue)

	var cycles [][]T
	for _, comp := range components {
		if len(comp) > 1 || (len(comp) == 1 && g.HasEdge(comp[0], comp[0])) {
			cycles = append(cycles, comp)
		}
	}
	return cycles
}

// stronglyConnected runs Tarjan's algorithm over the subgraph induced by
// nodes, returning each component sorted internally, components ordered by
// first member.
func stronglyConnected[T cmp.Ordered](g *DiGraph[T], nodes []T) [][]T {
	inScope := make(map[T]struct{}, len(nodes))
	for _, n := range nodes {
		inScope[n] = struct{}{}
	}

	index := make(map[T]int, len(nodes))
	lowlink := make(map[T]int, len(nodes))
	onStack := make(map[T]bool, len(nodes))
	var stack []T
	next := 0
	var components [][]T

	// Iterative Tarjan: recursion depth equals the longest path through the
	// residue, which can exceed the goroutine stack on large graphs.
	type frame struct {
		node T
		succ []T
		pos  int
	}

	var visit func(root T)
	visit = func(root T) {
		frames := []frame{{node: root, succ: scopedSuccessors(g, root, inScope)}}
		index[root] = next
		lowlink[root] = next
		next++
		stack = append(stack, root)
		onStack[root] = true

		for len(frames) > 0 {
			f := &frames[len(frames)-1]
			if f.pos < len(f.succ) {
				w := f.succ[f.pos]
				f.pos++
				if _, seen := index[w]; !seen {
					index[w] = next
					lowlink[w] = next
					next++
					stack = append(stack, w)
					onStack[w] = true
					frames = append(frames, frame{node: w, succ: scopedSuccessors(g, w, inScope)})
				} else if onStack[w] && index[w] < lowlink[f.node] {
					lowlink[f.node] = index[w]
				}
				continue
			}

			// All successors handled: maybe pop a component, then propagate
			// the lowlink to the parent frame.
			if lowlink[f.node] == index[f.node] {
				var comp []T
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					comp = append(comp, w)
					if w == f.node {
						break
					}
				}
				slices.Sort(comp)
				components = append(components, comp)
			}
			done := f.node
			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				parent := &frames[len(frames)-1]
				if lowlink[done] < lowlink[parent.node] {
					lowlink[parent.node] = lowlink[done]
				}
			}
		}
	}

	for _, n := range nodes {
		if _, seen := index[n]; !seen {
			visit(n)
		}
	}

	slices.SortFunc(components, func(a, b []T) int {
		return cmp.Compare(a[0], b[0])
	})
	return components
}

func scopedSuccessors[T cmp.Ordered](g *DiGraph[T], n T, inScope map[T]struct{}) []T {
	all := g.Successors(n)
	scoped := make([]T, 0, len(all))
	for _, s := range all {
		if _, ok := inScope[s]; ok {
			scoped = append(scoped, s)
		}
	}
	return scoped
}

