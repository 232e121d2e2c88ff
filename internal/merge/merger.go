package merge

import (
	"slices"

	"layercheck/internal/callgraph"
	"layercheck/internal/classify"
)

// Merger combines static and runtime call graphs. The classifier decides
// each merged edge's nature from the call type the static analysis recorded,
// falling back to the first observed runtime call type for edges only the
// trace saw.
type Merger struct {
	classifier *classify.Classifier
}

// NewMerger builds a Merger around the given classifier.
func NewMerger(classifier *classify.Classifier) *Merger {
	return &Merger{classifier: classifier}
}

// Merge unions the caller→callee pairs of both graphs. Pairs present in both
// carry both payloads; pairs present in one carry that one. Edges come out
// sorted by caller then callee so repeated runs produce identical output.
func (m *Merger) Merge(static *callgraph.StaticCallGraph, runtime *callgraph.RuntimeCallGraph) (*MergedCallGraph, error) {
	type pair struct{ caller, callee string }
	seen := make(map[pair]struct{})
	var pairs []pair

	for _, e := range static.Edges {
		p := pair{e.Caller, e.Callee}
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			pairs = append(pairs, p)
		}
	}
	for _, e := range runtime.Edges {
		p := pair{e.Caller, e.Callee}
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			pairs = append(pairs, p)
		}
	}

	slices.SortFunc(pairs, func(a, b pair) int {
		if a.caller != b.caller {
			if a.caller < b.caller {
				return -1
			}
			return 1
		}
		if a.callee < b.callee {
			return -1
		}
		if a.callee > b.callee {
			return 1
		}
		return 0
	})

	edges := make([]MergedCallEdge, 0, len(pairs))
	for _, p := range pairs {
		var se *callgraph.StaticCallEdge
		var re *callgraph.RuntimeCallEdge

		if s, ok := static.EdgeByPair(p.caller, p.callee); ok {
			sc := s
			se = &sc
		}
		if r, ok := runtime.EdgeByPair(p.caller, p.callee); ok {
			rc := r
			re = &rc
		}

		ct := authoritativeCallType(se, re)
		nature := m.classifier.Classify(p.caller, p.callee, ct)

		edge, err := NewMergedCallEdge(p.caller, p.callee, se, re, nature)
		if err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}

	return NewMergedCallGraph(edges)
}

// authoritativeCallType prefers the statically recorded call type; a trace
// only knows how a call happened to dispatch, not how it was written.
// At least one payload is always present: every merged pair came from one of
// the two source graphs.
func authoritativeCallType(se *callgraph.StaticCallEdge, re *callgraph.RuntimeCallEdge) callgraph.CallType {
	if se != nil {
		return se.CallType
	}
	return re.First().CallType
}
