package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"layercheck/internal/callgraph"
)

// Classifier determines the EdgeNature of a caller→callee relationship.
// It is a pure function of its inputs and fixed configuration: the
// per-module import index and the set of known framework module prefixes.
type Classifier struct {
	imports    map[string]map[string]struct{}
	frameworks []string
}

// NewClassifier builds a classifier from the module import index and the
// framework prefixes. Both may be empty; there are no ambient defaults, the
// caller supplies everything.
func NewClassifier(moduleImports map[string][]string, knownFrameworks []string) *Classifier {
	imports := make(map[string]map[string]struct{}, len(moduleImports))
	for module, imported := range moduleImports {
		set := make(map[string]struct{}, len(imported))
		for _, imp := range imported {
			set[imp] = struct{}{}
		}
		imports[module] = set
	}
	return &Classifier{imports: imports, frameworks: knownFrameworks}
}

// Classify returns the nature of the edge. Priority order, first match wins:
//
//  1. super call → Inherited
//  2. caller's module under a framework prefix → Framework
//  3. callee's module in (or covered by) caller's imports → Direct
//  4. otherwise → Parametric
func (c *Classifier) Classify(callerFQN, calleeFQN string, callType callgraph.CallType) EdgeNature {
	if callType == callgraph.CallSuper {
		return Inherited
	}

	callerModule := ModuleOf(callerFQN)
	if c.isFramework(callerModule) {
		return Framework
	}

	calleeModule := ModuleOf(calleeFQN)
	if c.isImported(callerModule, calleeModule) {
		return Direct
	}

	return Parametric
}

func (c *Classifier) isFramework(module string) bool {
	for _, fw := range c.frameworks {
		if module == fw || strings.HasPrefix(module, fw+".") {
			return true
		}
	}
	return false
}

// isImported reports whether calleeModule is reachable through callerModule's
// imports. Importing a package covers all of its submodules.
func (c *Classifier) isImported(callerModule, calleeModule string) bool {
	imported := c.imports[callerModule]
	if _, ok := imported[calleeModule]; ok {
		return true
	}
	for imp := range imported {
		if strings.HasPrefix(calleeModule, imp+".") {
			return true
		}
	}
	return false
}

// ModuleOf extracts the enclosing module from a dotted FQN.
//
// The first segment starting with an uppercase character is treated as a
// class name and everything before it is the module; when no such segment
// exists, the module is all segments except the last (a function name).
//
//	"myapp.domain.User.save" → "myapp.domain"
//	"myapp.utils.helper"     → "myapp.utils"
//	"myapp"                  → "myapp"
//
// This is a heuristic and a known limitation: a module whose name starts
// with a capital, or deeply nested classes, are misattributed. Ambiguous
// cases are not guessed at further; an explicit module boundary supplied by
// the upstream parser is the long-term fix.
func ModuleOf(fqn string) string {
	parts := strings.Split(fqn, ".")

	for i, part := range parts {
		if part == "" {
			continue
		}
		first, _ := utf8.DecodeRuneInString(part)
		if unicode.IsUpper(first) {
			if i == 0 {
				return parts[0]
			}
			return strings.Join(parts[:i], ".")
		}
	}

	if len(parts) > 1 {
		return strings.Join(parts[:len(parts)-1], ".")
	}
	return parts[0]
}
