package callgraph

import (
	"fmt"

	"layercheck/internal/errors"
)

// StaticCallEdge is one caller→callee relationship found by source analysis.
type StaticCallEdge struct {
	Caller   string   `json:"caller"`
	Callee   string   `json:"callee"`
	Line     int      `json:"line"` // 1-based
	CallType CallType `json:"callType"`
}

// NewStaticCallEdge builds a StaticCallEdge, validating its invariants.
func NewStaticCallEdge(caller, callee string, line int, callType CallType) (StaticCallEdge, error) {
	if caller == "" {
		return StaticCallEdge{}, errors.New(errors.InvalidCallFact, "static edge caller must not be empty")
	}
	if callee == "" {
		return StaticCallEdge{}, errors.New(errors.InvalidCallFact, "static edge callee must not be empty")
	}
	if line < 1 {
		return StaticCallEdge{}, errors.Newf(errors.InvalidCallFact, "static edge line must be >= 1, got %d", line)
	}
	return StaticCallEdge{Caller: caller, Callee: callee, Line: line, CallType: callType}, nil
}

// String formats the edge as caller → callee:line (type).
func (e StaticCallEdge) String() string {
	return fmt.Sprintf("%s → %s:%d (%s)", e.Caller, e.Callee, e.Line, e.CallType)
}

// StaticCallGraph aggregates everything source analysis produced: call edges,
// the set of all known function FQNs, and the per-module import index used by
// edge classification.
type StaticCallGraph struct {
	Edges     []StaticCallEdge    `json:"edges"`
	Functions map[string]struct{} `json:"-"`
	// ModuleImports maps a module FQN to the module FQNs it imports.
	ModuleImports map[string][]string `json:"moduleImports"`

	byPair map[[2]string]int
}

// NewStaticCallGraph validates that every edge caller is a known function and
// returns the aggregate. Collectors hand in already-resolved data; an unknown
// caller here is an integration defect.
func NewStaticCallGraph(edges []StaticCallEdge, functions map[string]struct{}, moduleImports map[string][]string) (*StaticCallGraph, error) {
	byPair := make(map[[2]string]int, len(edges))
	for i, e := range edges {
		if _, ok := functions[e.Caller]; !ok {
			return nil, errors.Newf(errors.InvalidCallFact, "static edge caller %q not in known functions", e.Caller)
		}
		pair := [2]string{e.Caller, e.Callee}
		if _, ok := byPair[pair]; !ok {
			byPair[pair] = i
		}
	}
	if functions == nil {
		functions = map[string]struct{}{}
	}
	if moduleImports == nil {
		moduleImports = map[string][]string{}
	}
	return &StaticCallGraph{Edges: edges, Functions: functions, ModuleImports: moduleImports, byPair: byPair}, nil
}

// EmptyStaticCallGraph returns a graph with no edges or functions.
func EmptyStaticCallGraph() *StaticCallGraph {
	return &StaticCallGraph{
		Functions:     map[string]struct{}{},
		ModuleImports: map[string][]string{},
		byPair:        map[[2]string]int{},
	}
}

// EdgeByPair returns the first static edge for the given pair, if any. O(1).
func (g *StaticCallGraph) EdgeByPair(caller, callee string) (StaticCallEdge, bool) {
	if i, ok := g.byPair[[2]string{caller, callee}]; ok {
		return g.Edges[i], true
	}
	return StaticCallEdge{}, false
}
