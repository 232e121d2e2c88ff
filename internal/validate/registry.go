package validate

import "layercheck/internal/merge"

// Policy carries the configured rule inputs validators are built from.
type Policy struct {
	// AllowedImports maps a layer to the layers it may depend on. nil
	// disables boundary checking entirely; an empty-but-present map means no
	// cross-layer call is allowed anywhere.
	AllowedImports map[string][]string
}

// Validator checks one rule family against the merged graph. Validators are
// stateless after construction and safe to run concurrently over the same
// graph; results only ever depend on the graph and the construction-time
// policy.
type Validator interface {
	Name() string
	Validate(g *merge.MergedCallGraph) ([]Violation, error)
}

// Factory builds a validator from the policy, or returns nil when the policy
// disables it.
type Factory func(Policy) Validator

// Registry holds the validator factories in their fixed evaluation order:
// cycle detection first, boundary enforcement second. Order only affects the
// sequence of violations in output; validators are independent.
type Registry struct {
	factories []Factory
}

// NewRegistry returns the registry with the built-in validators.
func NewRegistry() *Registry {
	return &Registry{factories: []Factory{
		NewCycleValidator,
		NewBoundaryValidator,
	}}
}

// Active instantiates every enabled validator for the given policy.
func (r *Registry) Active(p Policy) []Validator {
	var active []Validator
	for _, f := range r.factories {
		if v := f(p); v != nil {
			active = append(active, v)
		}
	}
	return active
}

// RunAll runs every active validator in registry order and concatenates the
// violations.
func (r *Registry) RunAll(p Policy, g *merge.MergedCallGraph) ([]Violation, error) {
	var all []Violation
	for _, v := range r.Active(p) {
		violations, err := v.Validate(g)
		if err != nil {
			return nil, err
		}
		all = append(all, violations...)
	}
	return all, nil
}
