// Package merge combines a static call graph and a runtime call graph into
// one annotated MergedCallGraph, classifying every edge's semantic nature
// and building the cross-reference indices validators query.
package merge

import (
	"layercheck/internal/callgraph"
	"layercheck/internal/classify"
	"layercheck/internal/errors"
)

// MergedCallEdge is one caller→callee relationship with its evidence from
// either or both sources and its classified nature.
//
// Invariant: Static and Runtime are never both nil; an edge must be
// evidenced by at least one source. Enforced at construction; a violation is
// an integration defect, not user error.
type MergedCallEdge struct {
	Caller  string                     `json:"caller"`
	Callee  string                     `json:"callee"`
	Static  *callgraph.StaticCallEdge  `json:"static,omitempty"`
	Runtime *callgraph.RuntimeCallEdge `json:"runtime,omitempty"`
	Nature  classify.EdgeNature        `json:"nature"`
}

// NewMergedCallEdge builds a MergedCallEdge, validating the
// at-least-one-source invariant.
func NewMergedCallEdge(caller, callee string, static *callgraph.StaticCallEdge, runtime *callgraph.RuntimeCallEdge, nature classify.EdgeNature) (MergedCallEdge, error) {
	if caller == "" || callee == "" {
		return MergedCallEdge{}, errors.New(errors.InvalidCallFact, "merged edge endpoints must not be empty")
	}
	if static == nil && runtime == nil {
		return MergedCallEdge{}, errors.Newf(errors.MissingEdgeSource,
			"merged edge %s -> %s has neither static nor runtime evidence", caller, callee)
	}
	return MergedCallEdge{Caller: caller, Callee: callee, Static: static, Runtime: runtime, Nature: nature}, nil
}

// HasStatic reports whether the edge is visible in source structure.
func (e MergedCallEdge) HasStatic() bool { return e.Static != nil }

// HasRuntime reports whether the edge was observed executing.
func (e MergedCallEdge) HasRuntime() bool { return e.Runtime != nil }

// FirstLocation returns the best location for reporting: the static call
// site when present, else the first observed runtime site.
func (e MergedCallEdge) FirstLocation() callgraph.Location {
	if e.Static != nil {
		// Static edges carry no file path of their own.
		return callgraph.Location{File: ".", Line: e.Static.Line}
	}
	return e.Runtime.First().Location
}

// MergedCallGraph is the immutable merged view. The three indices are
// derived from Edges once at construction and never diverge from it; no
// partial-update path exists.
type MergedCallGraph struct {
	Edges []MergedCallEdge

	nodes    map[string]struct{}
	byCaller map[string]map[string]struct{}
	byCallee map[string]map[string]struct{}
	byNature map[classify.EdgeNature][]MergedCallEdge
	byPair   map[[2]string]int
}

// NewMergedCallGraph validates every edge's invariant and derives the
// indices in a single pass.
func NewMergedCallGraph(edges []MergedCallEdge) (*MergedCallGraph, error) {
	g := &MergedCallGraph{
		Edges:    edges,
		nodes:    make(map[string]struct{}),
		byCaller: make(map[string]map[string]struct{}),
		byCallee: make(map[string]map[string]struct{}),
		byNature: make(map[classify.EdgeNature][]MergedCallEdge),
		byPair:   make(map[[2]string]int, len(edges)),
	}

	for i, e := range edges {
		if e.Static == nil && e.Runtime == nil {
			return nil, errors.Newf(errors.MissingEdgeSource,
				"merged edge %s -> %s has neither static nor runtime evidence", e.Caller, e.Callee)
		}
		pair := [2]string{e.Caller, e.Callee}
		if _, dup := g.byPair[pair]; dup {
			return nil, errors.Newf(errors.InvalidCallFact, "duplicate merged edge %s -> %s", e.Caller, e.Callee)
		}
		g.byPair[pair] = i

		g.nodes[e.Caller] = struct{}{}
		g.nodes[e.Callee] = struct{}{}

		if g.byCaller[e.Caller] == nil {
			g.byCaller[e.Caller] = make(map[string]struct{})
		}
		g.byCaller[e.Caller][e.Callee] = struct{}{}

		if g.byCallee[e.Callee] == nil {
			g.byCallee[e.Callee] = make(map[string]struct{})
		}
		g.byCallee[e.Callee][e.Caller] = struct{}{}

		g.byNature[e.Nature] = append(g.byNature[e.Nature], e)
	}

	return g, nil
}

// EmptyMergedCallGraph returns a graph with no edges.
func EmptyMergedCallGraph() *MergedCallGraph {
	g, _ := NewMergedCallGraph(nil)
	return g
}

// Nodes returns the set of all FQNs appearing as caller or callee.
func (g *MergedCallGraph) Nodes() map[string]struct{} { return g.nodes }

// NodeCount returns the number of distinct FQNs.
func (g *MergedCallGraph) NodeCount() int { return len(g.nodes) }

// EdgeByPair returns the merged edge for a pair, if any. O(1).
func (g *MergedCallGraph) EdgeByPair(caller, callee string) (MergedCallEdge, bool) {
	if i, ok := g.byPair[[2]string{caller, callee}]; ok {
		return g.Edges[i], true
	}
	return MergedCallEdge{}, false
}

// CalleesOf returns the FQNs called by fqn. O(1).
func (g *MergedCallGraph) CalleesOf(fqn string) map[string]struct{} {
	return g.byCaller[fqn]
}

// CallersOf returns the FQNs calling fqn. O(1).
func (g *MergedCallGraph) CallersOf(fqn string) map[string]struct{} {
	return g.byCallee[fqn]
}

// EdgesByNature returns all edges with the given nature. O(1).
func (g *MergedCallGraph) EdgesByNature(nature classify.EdgeNature) []MergedCallEdge {
	return g.byNature[nature]
}

// DirectEdges returns the edges boundary validation cares about.
func (g *MergedCallGraph) DirectEdges() []MergedCallEdge {
	return g.byNature[classify.Direct]
}

// StaticOnlyEdges returns edges visible in source but never observed
// executing, for coverage-style queries over unexercised dependencies.
func (g *MergedCallGraph) StaticOnlyEdges() []MergedCallEdge {
	var out []MergedCallEdge
	for _, e := range g.Edges {
		if e.HasStatic() && !e.HasRuntime() {
			out = append(out, e)
		}
	}
	return out
}

// RuntimeOnlyEdges returns edges observed executing but invisible in source
// structure, e.g. dynamic dispatch.
func (g *MergedCallGraph) RuntimeOnlyEdges() []MergedCallEdge {
	var out []MergedCallEdge
	for _, e := range g.Edges {
		if e.HasRuntime() && !e.HasStatic() {
			out = append(out, e)
		}
	}
	return out
}
