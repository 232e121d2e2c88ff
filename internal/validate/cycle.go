package validate

import (
	"fmt"
	"strings"

	"layercheck/internal/callgraph"
	"layercheck/internal/graph"
	"layercheck/internal/merge"
)

// CycleValidator detects circular dependencies over the full merged graph.
// It is stateless and always active; cycles are never acceptable.
type CycleValidator struct{}

// NewCycleValidator is the registry factory. It ignores the policy: cycle
// detection cannot be configured off.
func NewCycleValidator(Policy) Validator {
	return CycleValidator{}
}

func (CycleValidator) Name() string { return "no_cycles" }

// Validate emits one violation per detected cycle. Members are sorted before
// display so repeated runs over the same input produce identical messages.
func (CycleValidator) Validate(g *merge.MergedCallGraph) ([]Violation, error) {
	edges := make([]graph.Edge[string], 0, len(g.Edges))
	for _, e := range g.Edges {
		edges = append(edges, graph.Edge[string]{From: e.Caller, To: e.Callee})
	}
	extra := make([]string, 0, g.NodeCount())
	for n := range g.Nodes() {
		extra = append(extra, n)
	}

	dg, err := graph.FromEdges(edges, extra...)
	if err != nil {
		return nil, err
	}

	cycles := graph.DetectCycles(dg)
	if len(cycles) == 0 {
		return nil, nil
	}

	violations := make([]Violation, 0, len(cycles))
	for _, members := range cycles {
		subject := formatCycle(members)
		v, err := NewViolation(Violation{
			RuleName:   "no_cycles",
			Message:    fmt.Sprintf("Circular dependency detected: %s", subject),
			Location:   callgraph.Location{File: ".", Line: 1},
			Severity:   SeverityError,
			Category:   CategoryCoupling,
			Subject:    subject,
			Expected:   "No circular dependencies",
			Actual:     fmt.Sprintf("Cycle with %d nodes", len(members)),
			Suggestion: "Break the cycle by introducing an interface or restructuring",
		})
		if err != nil {
			return nil, err
		}
		violations = append(violations, v)
	}
	return violations, nil
}

// formatCycle joins up to the first five members (already sorted by
// DetectCycles) and notes the total size when truncated.
func formatCycle(members []string) string {
	shown := members
	if len(shown) > 5 {
		shown = shown[:5]
	}
	s := strings.Join(shown, " → ")
	if len(members) > 5 {
		s += fmt.Sprintf(" → ... (%d nodes)", len(members))
	}
	return s
}
