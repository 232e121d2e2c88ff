// Package pysrc extracts static call facts from Python sources. Parsing is
// tree-sitter based and needs cgo; resolution of parsed facts to
// fully-qualified edges is pure Go.
package pysrc

import (
	"path/filepath"
	"strings"
)

// Import is one import statement in a module.
type Import struct {
	// Module is the dotted module path ("a.b" in "from a.b import c").
	Module string
	// Name is the imported symbol for from-imports, empty for whole-module
	// imports.
	Name string
	// Alias is the local binding from "as", if any.
	Alias string
	// Level counts leading dots of a relative import; 0 means absolute.
	Level int
	Line  int
}

// Call is one call expression found in a function body, unresolved.
type Call struct {
	// Target is the callee text: "foo", "obj.method", "self.helper",
	// "super().setup".
	Target string
	Line   int
}

// Function is one function or method definition.
type Function struct {
	Name       string
	FQN        string
	Line       int
	Decorators []Call
	Calls      []Call
}

// Class is one class definition with its methods.
type Class struct {
	Name    string
	FQN     string
	Bases   []string
	Methods []Function
}

// Module is everything extracted from one Python file.
type Module struct {
	FQN       string
	Path      string
	Imports   []Import
	Functions []Function
	Classes   []Class
}

// ModuleFQN derives the dotted module name from a file path relative to the
// source root. "__init__.py" names its package.
func ModuleFQN(relPath string) string {
	p := strings.TrimSuffix(filepath.ToSlash(relPath), ".py")
	p = strings.TrimSuffix(p, "/__init__")
	if p == "__init__" {
		return ""
	}
	return strings.ReplaceAll(p, "/", ".")
}
