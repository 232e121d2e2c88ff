// Package classify assigns a semantic nature to each caller→callee
// relationship based on the module import index and the declared framework
// prefixes.
package classify

// EdgeNature classifies the semantic origin of a caller→callee relationship.
type EdgeNature string

const (
	// Direct means the caller's module imports the callee's module. The only
	// nature layer-boundary rules enforce against.
	Direct EdgeNature = "direct"
	// Parametric means no import relationship exists; the callee was likely
	// reached through a parameter, callback, or injected dependency.
	Parametric EdgeNature = "parametric"
	// Inherited means the call is a superclass dispatch. Explicit in source,
	// never a hidden dependency.
	Inherited EdgeNature = "inherited"
	// Framework means a declared framework entry point calling into
	// application code. Not a dependency of the application on the framework.
	Framework EdgeNature = "framework"
)

// AllNatures lists every nature in a fixed order, used when building
// per-nature indices.
var AllNatures = []EdgeNature{Direct, Parametric, Inherited, Framework}
