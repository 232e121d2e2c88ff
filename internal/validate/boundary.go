package validate

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"layercheck/internal/merge"
)

// BoundaryValidator enforces the layer boundary policy over direct edges.
// Parametric, inherited and framework edges are categorically exempt: they do
// not represent a source-level dependency the caller's module owns.
type BoundaryValidator struct {
	allowed map[string]map[string]struct{}
}

// NewBoundaryValidator is the registry factory. It returns nil when no
// policy is configured: without allowed_imports the validator does not exist,
// rather than existing and allowing everything.
func NewBoundaryValidator(p Policy) Validator {
	if p.AllowedImports == nil {
		return nil
	}
	allowed := make(map[string]map[string]struct{}, len(p.AllowedImports))
	for layer, targets := range p.AllowedImports {
		set := make(map[string]struct{}, len(targets))
		for _, t := range targets {
			set[t] = struct{}{}
		}
		allowed[layer] = set
	}
	return &BoundaryValidator{allowed: allowed}
}

func (*BoundaryValidator) Name() string { return "layer_boundary" }

// Validate checks every direct edge's caller layer against the policy.
// Intra-layer calls are always allowed, even for layers the policy never
// mentions.
func (v *BoundaryValidator) Validate(g *merge.MergedCallGraph) ([]Violation, error) {
	var violations []Violation
	for _, e := range g.DirectEdges() {
		callerLayer := LayerOf(e.Caller)
		calleeLayer := LayerOf(e.Callee)

		if callerLayer == calleeLayer {
			continue
		}

		allowedForCaller := v.allowed[callerLayer]
		if _, ok := allowedForCaller[calleeLayer]; ok {
			continue
		}

		vio, err := NewViolation(Violation{
			RuleName:   "layer_boundary",
			Message:    fmt.Sprintf("Layer '%s' cannot depend on '%s'", callerLayer, calleeLayer),
			Location:   e.FirstLocation(),
			Severity:   SeverityError,
			Category:   CategoryBoundaries,
			Subject:    fmt.Sprintf("%s → %s", e.Caller, e.Callee),
			Expected:   fmt.Sprintf("Imports from: %s", formatAllowed(allowedForCaller)),
			Actual:     fmt.Sprintf("Import from: %s", calleeLayer),
			Suggestion: "Move code to allowed layer or update allowed_imports config",
		})
		if err != nil {
			return nil, err
		}
		violations = append(violations, vio)
	}
	return violations, nil
}

// LayerOf extracts the architectural layer from an FQN. Only the module
// prefix counts: segments from the first capitalized one onward name a class
// and its members, not a layer. A two-or-more segment module yields its
// second segment ("myapp.domain.model.user" → "domain"); a single-segment
// module is its own layer ("application.Service.run" → "application"); an
// FQN opening with a class name falls back to its first segment.
func LayerOf(fqn string) string {
	parts := strings.Split(fqn, ".")
	modLen := len(parts)
	for i, part := range parts {
		first, _ := utf8.DecodeRuneInString(part)
		if unicode.IsUpper(first) {
			modLen = i
			break
		}
	}
	switch {
	case modLen >= 2:
		return parts[1]
	case modLen == 1:
		return parts[0]
	default:
		return parts[0]
	}
}

func formatAllowed(allowed map[string]struct{}) string {
	if len(allowed) == 0 {
		return "(none)"
	}
	names := make([]string, 0, len(allowed))
	for name := range allowed {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
