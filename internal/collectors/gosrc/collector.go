// Package gosrc derives static call facts for Go modules using SSA and
// variable type analysis. Import paths are mapped to dotted FQNs so the core
// treats Go and Python facts identically.
package gosrc

import (
	"context"
	"go/types"
	"strings"

	xcallgraph "golang.org/x/tools/go/callgraph"
	"golang.org/x/tools/go/callgraph/cha"
	"golang.org/x/tools/go/callgraph/vta"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"

	"layercheck/internal/callgraph"
	"layercheck/internal/errors"
	"layercheck/internal/logging"
)

// Collector builds a static call graph for the Go module rooted at Dir.
type Collector struct {
	log *logging.Logger
}

// NewCollector creates a Go source collector.
func NewCollector(log *logging.Logger) *Collector {
	return &Collector{log: log}
}

// Collect loads the module under dir, builds SSA, runs VTA and converts the
// resulting call graph. Only edges whose caller belongs to the analyzed
// module are kept; callees may be external, the classifier decides what
// those edges mean.
func (c *Collector) Collect(ctx context.Context, dir string) (*callgraph.StaticCallGraph, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
			packages.NeedImports | packages.NeedDeps | packages.NeedTypes |
			packages.NeedSyntax | packages.NeedTypesInfo | packages.NeedModule,
		Dir:     dir,
		Context: ctx,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, errors.Wrap(errors.CollectFailed, "loading packages", err)
	}
	if n := packages.PrintErrors(pkgs); n > 0 {
		c.log.Warn("package load errors, continuing with partial results", map[string]interface{}{"count": n})
	}
	if len(pkgs) == 0 {
		return nil, errors.New(errors.CollectFailed, "no packages found under "+dir)
	}

	module := modulePath(pkgs)
	if module == "" {
		return nil, errors.New(errors.CollectFailed, "cannot determine module path; run inside a Go module")
	}
	c.log.Debug("loaded packages", map[string]interface{}{"module": module, "packages": len(pkgs)})

	functions := make(map[string]struct{})
	moduleImports := make(map[string][]string)

	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		if !inModule(pkg.PkgPath, module) {
			return
		}
		pkgFQN := dotted(pkg.PkgPath)
		var imports []string
		for path := range pkg.Imports {
			imports = append(imports, dotted(path))
		}
		moduleImports[pkgFQN] = imports

		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			obj := scope.Lookup(name)
			switch o := obj.(type) {
			case *types.Func:
				functions[pkgFQN+"."+name] = struct{}{}
			case *types.TypeName:
				if named, ok := o.Type().(*types.Named); ok {
					for i := 0; i < named.NumMethods(); i++ {
						functions[pkgFQN+"."+name+"."+named.Method(i).Name()] = struct{}{}
					}
				}
			}
		}
	})

	prog, ssaPkgs := ssautil.AllPackages(pkgs, ssa.InstantiateGenerics)
	for _, p := range ssaPkgs {
		if p != nil {
			p.Build()
		}
	}
	// x/tools v0.24.0 requires an explicit initial graph; newer versions
	// build the same CHA graph internally when passed nil.
	cg := vta.CallGraph(ssautil.AllFunctions(prog), cha.CallGraph(prog))

	seen := make(map[[2]string]struct{})
	var edges []callgraph.StaticCallEdge

	xcallgraph.GraphVisitEdges(cg, func(edge *xcallgraph.Edge) error {
		caller := edge.Caller.Func
		callee := edge.Callee.Func
		if caller.Pkg == nil || callee.Pkg == nil {
			return nil
		}
		if !inModule(caller.Pkg.Pkg.Path(), module) {
			return nil
		}

		callerFQN := funcFQN(caller)
		calleeFQN := funcFQN(callee)
		if callerFQN == calleeFQN {
			return nil
		}

		// Synthetic wrappers share the FQN of a declared function; any
		// duplicate pair collapses to the first site seen.
		pair := [2]string{callerFQN, calleeFQN}
		if _, dup := seen[pair]; dup {
			return nil
		}
		seen[pair] = struct{}{}

		line := 1
		callType := callgraph.CallFunction
		if edge.Site != nil {
			if pos := prog.Fset.Position(edge.Site.Pos()); pos.Line > 0 {
				line = pos.Line
			}
			if edge.Site.Common().IsInvoke() {
				callType = callgraph.CallMethod
			}
		}
		if callType == callgraph.CallFunction && callee.Signature.Recv() != nil {
			callType = callgraph.CallMethod
		}

		// Callers surfaced only by SSA (init functions, instantiations)
		// still need to be known functions.
		functions[callerFQN] = struct{}{}

		edges = append(edges, callgraph.StaticCallEdge{
			Caller:   callerFQN,
			Callee:   calleeFQN,
			Line:     line,
			CallType: callType,
		})
		return nil
	})

	c.log.Debug("go collection complete", map[string]interface{}{
		"functions": len(functions),
		"edges":     len(edges),
	})
	return callgraph.NewStaticCallGraph(edges, functions, moduleImports)
}

// modulePath returns the module path of the first package that carries
// module metadata.
func modulePath(pkgs []*packages.Package) string {
	for _, pkg := range pkgs {
		if pkg.Module != nil {
			return pkg.Module.Path
		}
	}
	return ""
}

func inModule(pkgPath, module string) bool {
	return pkgPath == module || strings.HasPrefix(pkgPath, module+"/")
}

// dotted converts an import path to the dotted FQN form the core uses.
func dotted(importPath string) string {
	return strings.ReplaceAll(importPath, "/", ".")
}

// funcFQN names an SSA function as package.[Receiver.]Name in dotted form.
func funcFQN(fn *ssa.Function) string {
	pkgFQN := dotted(fn.Pkg.Pkg.Path())
	if recv := fn.Signature.Recv(); recv != nil {
		recvType := recv.Type()
		if ptr, ok := recvType.(*types.Pointer); ok {
			recvType = ptr.Elem()
		}
		if named, ok := recvType.(*types.Named); ok {
			return pkgFQN + "." + named.Obj().Name() + "." + fn.Name()
		}
	}
	return pkgFQN + "." + fn.Name()
}
