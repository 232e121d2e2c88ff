package pysrc

import (
	"strings"

	"layercheck/internal/callgraph"
)

const (
	selfPrefix  = "self."
	superPrefix = "super()."
)

// UnresolvedCall records a call that could not be resolved to a known FQN,
// with the reason. Unresolved calls are data-completeness information, not
// errors.
type UnresolvedCall struct {
	Caller string `json:"caller"`
	Callee string `json:"callee"`
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type codebase struct {
	modules   map[string]*Module
	functions map[string]struct{}
	classes   map[string]*Class
}

// Resolve links the per-module parse results into a static call graph.
// Calls into code outside the analyzed set (stdlib, third-party internals,
// dynamic attributes) come back as unresolved.
func Resolve(modules []*Module) (*callgraph.StaticCallGraph, []UnresolvedCall, error) {
	cb := &codebase{
		modules:   make(map[string]*Module, len(modules)),
		functions: make(map[string]struct{}),
		classes:   make(map[string]*Class),
	}
	for _, m := range modules {
		cb.modules[m.FQN] = m
		for i := range m.Functions {
			cb.functions[m.Functions[i].FQN] = struct{}{}
		}
		for i := range m.Classes {
			cls := &m.Classes[i]
			cb.classes[cls.FQN] = cls
			for j := range cls.Methods {
				cb.functions[cls.Methods[j].FQN] = struct{}{}
			}
		}
	}

	var edges []callgraph.StaticCallEdge
	var unresolved []UnresolvedCall
	moduleImports := make(map[string][]string, len(modules))

	for _, m := range modules {
		symbols := buildSymbolTable(m)
		moduleImports[m.FQN] = importedModules(m)

		r := &resolver{cb: cb, symbols: symbols, module: m}
		for i := range m.Functions {
			r.function(&m.Functions[i], nil, &edges, &unresolved)
		}
		for i := range m.Classes {
			cls := &m.Classes[i]
			for j := range cls.Methods {
				r.function(&cls.Methods[j], cls, &edges, &unresolved)
			}
		}
	}

	graph, err := callgraph.NewStaticCallGraph(edges, cb.functions, moduleImports)
	if err != nil {
		return nil, nil, err
	}
	return graph, unresolved, nil
}

// buildSymbolTable maps local names to FQNs: imports first, then the
// module's own definitions, which shadow imports like they do at runtime.
func buildSymbolTable(m *Module) map[string]string {
	symbols := make(map[string]string)
	for _, imp := range m.Imports {
		local, fqn := resolveImport(imp, m.FQN)
		if local != "" {
			symbols[local] = fqn
		}
	}
	for i := range m.Functions {
		symbols[m.Functions[i].Name] = m.Functions[i].FQN
	}
	for i := range m.Classes {
		symbols[m.Classes[i].Name] = m.Classes[i].FQN
	}
	return symbols
}

// resolveImport maps one import to its (local_name, FQN) binding.
//
//	import X            → ("X", "X")
//	import X.Y          → ("X", "X.Y")
//	import X as Y       → ("Y", "X")
//	from X import Y     → ("Y", "X.Y")
//	from X import Y as Z → ("Z", "X.Y")
//	from . import Y     → ("Y", "<parent>.Y")
func resolveImport(imp Import, moduleFQN string) (string, string) {
	var fqn string
	switch {
	case imp.Level > 0:
		fqn = resolveRelative(imp, moduleFQN)
	case imp.Name == "":
		fqn = imp.Module
	case imp.Module == "":
		fqn = imp.Name
	default:
		fqn = imp.Module + "." + imp.Name
	}

	local := imp.Alias
	if local == "" {
		local = imp.Name
	}
	if local == "" {
		local, _, _ = strings.Cut(imp.Module, ".")
	}
	return local, fqn
}

func resolveRelative(imp Import, moduleFQN string) string {
	parts := strings.Split(moduleFQN, ".")
	if imp.Level > len(parts) {
		// Deeper than the package root; keep what we have.
		parts = nil
	} else {
		parts = parts[:len(parts)-imp.Level]
	}
	result := append([]string{}, parts...)
	if imp.Module != "" {
		result = append(result, imp.Module)
	}
	if imp.Name != "" {
		result = append(result, imp.Name)
	}
	return strings.Join(result, ".")
}

// importedModules lists the absolute module FQNs a module imports, for the
// classifier's import index.
func importedModules(m *Module) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(fqn string) {
		if fqn == "" {
			return
		}
		if _, ok := seen[fqn]; !ok {
			seen[fqn] = struct{}{}
			out = append(out, fqn)
		}
	}
	for _, imp := range m.Imports {
		if imp.Level > 0 {
			rel := imp
			rel.Name = ""
			add(resolveRelative(rel, m.FQN))
			continue
		}
		add(imp.Module)
		if imp.Module == "" && imp.Name != "" {
			add(imp.Name)
		}
	}
	return out
}

type resolver struct {
	cb      *codebase
	symbols map[string]string
	module  *Module
}

func (r *resolver) function(fn *Function, owner *Class, edges *[]callgraph.StaticCallEdge, unresolved *[]UnresolvedCall) {
	for _, dec := range fn.Decorators {
		r.nameCall(decoratorName(dec.Target), fn.FQN, dec.Line, callgraph.CallDecorator, edges, unresolved)
	}
	for _, call := range fn.Calls {
		r.bodyCall(call, fn.FQN, owner, edges, unresolved)
	}
}

func (r *resolver) bodyCall(call Call, caller string, owner *Class, edges *[]callgraph.StaticCallEdge, unresolved *[]UnresolvedCall) {
	switch {
	case strings.HasPrefix(call.Target, selfPrefix):
		r.selfCall(strings.TrimPrefix(call.Target, selfPrefix), caller, call.Line, owner, edges, unresolved)
	case strings.HasPrefix(call.Target, superPrefix):
		r.superCall(strings.TrimPrefix(call.Target, superPrefix), caller, call.Line, owner, edges, unresolved)
	case strings.Contains(call.Target, "."):
		r.attributeCall(call.Target, caller, call.Line, edges, unresolved)
	default:
		r.nameCall(call.Target, caller, call.Line, callgraph.CallFunction, edges, unresolved)
	}
}

func (r *resolver) selfCall(method, caller string, line int, owner *Class, edges *[]callgraph.StaticCallEdge, unresolved *[]UnresolvedCall) {
	if owner == nil {
		*unresolved = append(*unresolved, UnresolvedCall{caller, selfPrefix + method, line, "self outside class"})
		return
	}
	for i := range owner.Methods {
		if owner.Methods[i].Name == method {
			r.emit(caller, owner.Methods[i].FQN, line, callgraph.CallMethod, edges)
			return
		}
	}
	*unresolved = append(*unresolved, UnresolvedCall{caller, selfPrefix + method, line, "method not found"})
}

func (r *resolver) superCall(method, caller string, line int, owner *Class, edges *[]callgraph.StaticCallEdge, unresolved *[]UnresolvedCall) {
	if owner == nil {
		*unresolved = append(*unresolved, UnresolvedCall{caller, superPrefix + method, line, "super outside class"})
		return
	}
	for _, base := range owner.Bases {
		baseFQN, ok := r.symbols[base]
		if !ok {
			continue
		}
		parent, ok := r.cb.classes[baseFQN]
		if !ok {
			continue
		}
		for i := range parent.Methods {
			if parent.Methods[i].Name == method {
				r.emit(caller, parent.Methods[i].FQN, line, callgraph.CallSuper, edges)
				return
			}
		}
	}
	*unresolved = append(*unresolved, UnresolvedCall{caller, superPrefix + method, line, "parent method not found"})
}

func (r *resolver) attributeCall(target, caller string, line int, edges *[]callgraph.StaticCallEdge, unresolved *[]UnresolvedCall) {
	obj, attr, _ := strings.Cut(target, ".")
	fqn, ok := r.symbols[obj]
	if !ok {
		*unresolved = append(*unresolved, UnresolvedCall{caller, target, line, "dynamic"})
		return
	}

	// module.func() or module.Class()
	if targetModule, ok := r.cb.modules[fqn]; ok {
		calleeFQN := fqn + "." + attr
		for i := range targetModule.Functions {
			if targetModule.Functions[i].Name == attr {
				r.emit(caller, calleeFQN, line, callgraph.CallFunction, edges)
				return
			}
		}
		for i := range targetModule.Classes {
			if targetModule.Classes[i].Name == attr {
				r.emit(caller, calleeFQN, line, callgraph.CallConstructor, edges)
				return
			}
		}
		*unresolved = append(*unresolved, UnresolvedCall{caller, target, line, "not found in module"})
		return
	}

	// Class.method() on an imported or local class
	if cls, ok := r.cb.classes[fqn]; ok {
		for i := range cls.Methods {
			if cls.Methods[i].Name == attr {
				r.emit(caller, cls.Methods[i].FQN, line, callgraph.CallMethod, edges)
				return
			}
		}
	}
	*unresolved = append(*unresolved, UnresolvedCall{caller, target, line, "dynamic"})
}

func (r *resolver) nameCall(name, caller string, line int, callType callgraph.CallType, edges *[]callgraph.StaticCallEdge, unresolved *[]UnresolvedCall) {
	fqn, ok := r.symbols[name]
	if !ok {
		*unresolved = append(*unresolved, UnresolvedCall{caller, name, line, "unknown name"})
		return
	}
	if _, isClass := r.cb.classes[fqn]; isClass && callType == callgraph.CallFunction {
		callType = callgraph.CallConstructor
	}
	r.emit(caller, fqn, line, callType, edges)
}

func (r *resolver) emit(caller, callee string, line int, callType callgraph.CallType, edges *[]callgraph.StaticCallEdge) {
	if line < 1 {
		line = 1
	}
	*edges = append(*edges, callgraph.StaticCallEdge{Caller: caller, Callee: callee, Line: line, CallType: callType})
}

// decoratorName strips decorator arguments: "route('/api')" → "route".
func decoratorName(dec string) string {
	if i := strings.IndexByte(dec, '('); i > 0 {
		return dec[:i]
	}
	return dec
}
