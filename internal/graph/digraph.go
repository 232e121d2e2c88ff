// Package graph provides an immutable generic directed graph with O(1)
// bidirectional adjacency lookup, plus topological ordering and cycle
// detection over it.
//
// A DiGraph is built once from an edge list and never mutated; evolving a
// graph means constructing a new one. Invariants (node closure and adjacency
// symmetry) are checked at construction and any inconsistency is a defect in
// the caller, reported immediately rather than silently repaired.
package graph

import (
	"cmp"
	"slices"

	"layercheck/internal/errors"
)

// Edge is a single directed from→to pair.
type Edge[T cmp.Ordered] struct {
	From T
	To   T
}

// DiGraph is an immutable directed graph.
//
// Successor and predecessor slices are precomputed sorted at construction so
// adjacency queries are O(1) lookups with deterministic iteration order.
type DiGraph[T cmp.Ordered] struct {
	forward map[T][]T
	reverse map[T][]T
	fwdSet  map[T]map[T]struct{}
	nodes   map[T]struct{}
	ordered []T
	edges   int
}

// Empty returns a graph with no nodes and no edges.
func Empty[T cmp.Ordered]() *DiGraph[T] {
	return &DiGraph[T]{
		forward: map[T][]T{},
		reverse: map[T][]T{},
		fwdSet:  map[T]map[T]struct{}{},
		nodes:   map[T]struct{}{},
	}
}

// FromEdges builds a graph from an edge list in one pass, O(E).
// Duplicate edges collapse to one. extraNodes adds isolated nodes that
// appear in no edge.
func FromEdges[T cmp.Ordered](edges []Edge[T], extraNodes ...T) (*DiGraph[T], error) {
	fwd := make(map[T]map[T]struct{})
	rev := make(map[T]map[T]struct{})
	nodes := make(map[T]struct{})

	for _, e := range edges {
		nodes[e.From] = struct{}{}
		nodes[e.To] = struct{}{}
		if fwd[e.From] == nil {
			fwd[e.From] = make(map[T]struct{})
		}
		fwd[e.From][e.To] = struct{}{}
		if rev[e.To] == nil {
			rev[e.To] = make(map[T]struct{})
		}
		rev[e.To][e.From] = struct{}{}
	}
	for _, n := range extraNodes {
		nodes[n] = struct{}{}
	}

	g := &DiGraph[T]{
		forward: make(map[T][]T, len(fwd)),
		reverse: make(map[T][]T, len(rev)),
		fwdSet:  fwd,
		nodes:   nodes,
		ordered: make([]T, 0, len(nodes)),
	}
	for from, succs := range fwd {
		g.forward[from] = sortedKeys(succs)
		g.edges += len(succs)
	}
	for to, preds := range rev {
		g.reverse[to] = sortedKeys(preds)
	}
	for n := range nodes {
		g.ordered = append(g.ordered, n)
	}
	slices.Sort(g.ordered)

	if err := g.validate(rev); err != nil {
		return nil, err
	}
	return g, nil
}

// validate checks node closure and adjacency symmetry. An inconsistency here
// is a construction bug, never recoverable input.
func (g *DiGraph[T]) validate(rev map[T]map[T]struct{}) error {
	for from, succs := range g.fwdSet {
		if _, ok := g.nodes[from]; !ok {
			return errors.Newf(errors.GraphInconsistent, "forward key %v not in nodes", from)
		}
		for to := range succs {
			if _, ok := g.nodes[to]; !ok {
				return errors.Newf(errors.GraphInconsistent, "successor %v of %v not in nodes", to, from)
			}
			if _, ok := rev[to][from]; !ok {
				return errors.Newf(errors.GraphInconsistent,
					"edge %v->%v in forward but not in reverse", from, to)
			}
		}
	}
	for to, preds := range rev {
		if _, ok := g.nodes[to]; !ok {
			return errors.Newf(errors.GraphInconsistent, "reverse key %v not in nodes", to)
		}
		for from := range preds {
			if _, ok := g.fwdSet[from][to]; !ok {
				return errors.Newf(errors.GraphInconsistent,
					"edge %v->%v in reverse but not in forward", from, to)
			}
		}
	}
	return nil
}

// Successors returns the direct successors of n in sorted order.
// The returned slice is shared; callers must not modify it.
func (g *DiGraph[T]) Successors(n T) []T {
	return g.forward[n]
}

// Predecessors returns the direct predecessors of n in sorted order.
// The returned slice is shared; callers must not modify it.
func (g *DiGraph[T]) Predecessors(n T) []T {
	return g.reverse[n]
}

// HasEdge reports whether the edge from→to exists. O(1).
func (g *DiGraph[T]) HasEdge(from, to T) bool {
	_, ok := g.fwdSet[from][to]
	return ok
}

// HasNode reports whether n is in the graph. O(1).
func (g *DiGraph[T]) HasNode(n T) bool {
	_, ok := g.nodes[n]
	return ok
}

// Nodes returns all nodes in sorted order.
// The returned slice is shared; callers must not modify it.
func (g *DiGraph[T]) Nodes() []T {
	return g.ordered
}

// OutDegree returns the number of outgoing edges of n.
func (g *DiGraph[T]) OutDegree(n T) int {
	return len(g.forward[n])
}

// InDegree returns the number of incoming edges of n.
func (g *DiGraph[T]) InDegree(n T) int {
	return len(g.reverse[n])
}

// NodeCount returns the total number of nodes.
func (g *DiGraph[T]) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the total number of edges.
func (g *DiGraph[T]) EdgeCount() int {
	return g.edges
}

func sortedKeys[T cmp.Ordered](set map[T]struct{}) []T {
	keys := make([]T, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
