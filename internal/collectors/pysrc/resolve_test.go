package pysrc

import (
	"testing"

	"layercheck/internal/callgraph"
)

func TestModuleFQN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"app/services/user.py", "app.services.user"},
		{"app/__init__.py", "app"},
		{"main.py", "main"},
		{"__init__.py", ""},
	}
	for _, tt := range tests {
		if got := ModuleFQN(tt.path); got != tt.want {
			t.Errorf("ModuleFQN(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestResolveImport(t *testing.T) {
	tests := []struct {
		name      string
		imp       Import
		wantLocal string
		wantFQN   string
	}{
		{"whole module", Import{Module: "os"}, "os", "os"},
		{"dotted module", Import{Module: "app.services"}, "app", "app.services"},
		{"aliased module", Import{Module: "numpy", Alias: "np"}, "np", "numpy"},
		{"from import", Import{Module: "app.db", Name: "Store"}, "Store", "app.db.Store"},
		{"from import aliased", Import{Module: "app.db", Name: "Store", Alias: "S"}, "S", "app.db.Store"},
		{"relative sibling", Import{Level: 1, Module: "utils", Name: "helper"}, "helper", "app.services.utils.helper"},
		{"relative parent", Import{Level: 2, Module: "models", Name: "User"}, "User", "app.models.User"},
		{"bare relative", Import{Level: 1, Name: "helper"}, "helper", "app.services.helper"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local, fqn := resolveImport(tt.imp, "app.services.user")
			if local != tt.wantLocal || fqn != tt.wantFQN {
				t.Errorf("resolveImport = (%q, %q), want (%q, %q)", local, fqn, tt.wantLocal, tt.wantFQN)
			}
		})
	}
}

// twoModuleFixture builds app.api calling into app.core.
func twoModuleFixture() []*Module {
	core := &Module{
		FQN: "app.core",
		Functions: []Function{
			{Name: "compute", FQN: "app.core.compute"},
		},
		Classes: []Class{
			{
				Name: "Service",
				FQN:  "app.core.Service",
				Methods: []Function{
					{Name: "run", FQN: "app.core.Service.run", Calls: []Call{{Target: "self.step", Line: 10}}},
					{Name: "step", FQN: "app.core.Service.step"},
				},
			},
		},
	}
	api := &Module{
		FQN: "app.api",
		Imports: []Import{
			{Module: "app", Name: "core"},
			{Module: "app.core", Name: "Service"},
		},
		Functions: []Function{
			{
				Name: "handle",
				FQN:  "app.api.handle",
				Calls: []Call{
					{Target: "core.compute", Line: 5},
					{Target: "Service", Line: 6},
					{Target: "mystery", Line: 7},
				},
			},
		},
	}
	return []*Module{core, api}
}

func TestResolveCrossModule(t *testing.T) {
	graph, unresolved, err := Resolve(twoModuleFixture())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	want := []struct {
		caller, callee string
		callType       callgraph.CallType
	}{
		{"app.core.Service.run", "app.core.Service.step", callgraph.CallMethod},
		{"app.api.handle", "app.core.compute", callgraph.CallFunction},
		{"app.api.handle", "app.core.Service", callgraph.CallConstructor},
	}
	for _, w := range want {
		e, ok := graph.EdgeByPair(w.caller, w.callee)
		if !ok {
			t.Errorf("missing edge %s -> %s", w.caller, w.callee)
			continue
		}
		if e.CallType != w.callType {
			t.Errorf("edge %s -> %s call type = %s, want %s", w.caller, w.callee, e.CallType, w.callType)
		}
	}

	if len(unresolved) != 1 || unresolved[0].Callee != "mystery" {
		t.Errorf("unresolved = %v, want exactly the mystery call", unresolved)
	}

	imports := graph.ModuleImports["app.api"]
	if len(imports) != 2 {
		t.Errorf("ModuleImports[app.api] = %v", imports)
	}
}

func TestResolveSuperCall(t *testing.T) {
	base := &Module{
		FQN: "app.base",
		Classes: []Class{
			{
				Name: "Base",
				FQN:  "app.base.Base",
				Methods: []Function{
					{Name: "setup", FQN: "app.base.Base.setup"},
				},
			},
		},
	}
	child := &Module{
		FQN: "app.child",
		Imports: []Import{
			{Module: "app.base", Name: "Base"},
		},
		Classes: []Class{
			{
				Name:  "Child",
				FQN:   "app.child.Child",
				Bases: []string{"Base"},
				Methods: []Function{
					{Name: "setup", FQN: "app.child.Child.setup", Calls: []Call{{Target: "super().setup", Line: 4}}},
				},
			},
		},
	}

	graph, _, err := Resolve([]*Module{base, child})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	e, ok := graph.EdgeByPair("app.child.Child.setup", "app.base.Base.setup")
	if !ok {
		t.Fatal("missing super edge")
	}
	if e.CallType != callgraph.CallSuper {
		t.Errorf("call type = %s, want super", e.CallType)
	}
}

func TestResolveDecorator(t *testing.T) {
	m := &Module{
		FQN: "app.web",
		Functions: []Function{
			{Name: "route", FQN: "app.web.route"},
			{
				Name:       "index",
				FQN:        "app.web.index",
				Decorators: []Call{{Target: "route('/')", Line: 1}},
			},
		},
	}
	graph, _, err := Resolve([]*Module{m})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	e, ok := graph.EdgeByPair("app.web.index", "app.web.route")
	if !ok {
		t.Fatal("missing decorator edge")
	}
	if e.CallType != callgraph.CallDecorator {
		t.Errorf("call type = %s, want decorator", e.CallType)
	}
}

func TestResolveSelfOutsideClassUnresolved(t *testing.T) {
	m := &Module{
		FQN: "app.odd",
		Functions: []Function{
			{Name: "f", FQN: "app.odd.f", Calls: []Call{{Target: "self.g", Line: 2}}},
		},
	}
	_, unresolved, err := Resolve([]*Module{m})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(unresolved) != 1 || unresolved[0].Reason != "self outside class" {
		t.Errorf("unresolved = %v", unresolved)
	}
}
