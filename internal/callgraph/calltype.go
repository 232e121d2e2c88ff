// Package callgraph defines the call-fact records the analysis engine
// consumes: static call edges extracted from source structure, runtime call
// edges observed during execution, and the thread-safe recorder that
// accumulates runtime observations before they are frozen into an immutable
// snapshot.
package callgraph

// CallType classifies how a call site invokes its target.
type CallType string

const (
	// CallFunction is a plain function call
	CallFunction CallType = "function"
	// CallMethod is a method call on a receiver or instance
	CallMethod CallType = "method"
	// CallConstructor is a type instantiation
	CallConstructor CallType = "constructor"
	// CallDecorator is a decorator application
	CallDecorator CallType = "decorator"
	// CallSuper is a superclass dispatch
	CallSuper CallType = "super"
)

// ParseCallType converts a string to a CallType, defaulting to function.
func ParseCallType(s string) CallType {
	switch CallType(s) {
	case CallMethod, CallConstructor, CallDecorator, CallSuper:
		return CallType(s)
	default:
		return CallFunction
	}
}
