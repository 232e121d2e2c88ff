package validate

import (
	"strings"
	"testing"

	"layercheck/internal/callgraph"
	"layercheck/internal/classify"
	"layercheck/internal/merge"
)

// mergedGraph builds a merged graph of direct edges from caller→callee pairs.
func mergedGraph(t *testing.T, pairs ...[2]string) *merge.MergedCallGraph {
	t.Helper()
	return mergedGraphNature(t, classify.Direct, pairs...)
}

func mergedGraphNature(t *testing.T, nature classify.EdgeNature, pairs ...[2]string) *merge.MergedCallGraph {
	t.Helper()
	edges := make([]merge.MergedCallEdge, 0, len(pairs))
	for _, p := range pairs {
		se := callgraph.StaticCallEdge{Caller: p[0], Callee: p[1], Line: 1, CallType: callgraph.CallFunction}
		edges = append(edges, merge.MergedCallEdge{Caller: p[0], Callee: p[1], Static: &se, Nature: nature})
	}
	g, err := merge.NewMergedCallGraph(edges)
	if err != nil {
		t.Fatalf("NewMergedCallGraph: %v", err)
	}
	return g
}

func TestViolationRejectsEmptyFields(t *testing.T) {
	base := Violation{
		RuleName: "r", Message: "m", Severity: SeverityError,
		Category: CategoryCoupling, Subject: "s", Expected: "e", Actual: "a",
	}
	if _, err := NewViolation(base); err != nil {
		t.Fatalf("valid violation rejected: %v", err)
	}

	for _, clear := range []func(*Violation){
		func(v *Violation) { v.RuleName = "" },
		func(v *Violation) { v.Message = "" },
		func(v *Violation) { v.Subject = "" },
		func(v *Violation) { v.Expected = "" },
		func(v *Violation) { v.Actual = "" },
	} {
		v := base
		clear(&v)
		if _, err := NewViolation(v); err == nil {
			t.Errorf("expected error for empty field in %+v", v)
		}
	}

	// Suggestion is optional.
	v := base
	v.Suggestion = ""
	if _, err := NewViolation(v); err != nil {
		t.Errorf("empty suggestion should be allowed: %v", err)
	}
}

func TestCycleValidatorPositive(t *testing.T) {
	g := mergedGraph(t, [2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "a"})

	violations, err := CycleValidator{}.Validate(g)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(violations))
	}
	v := violations[0]
	if v.Subject != "a → b → c" {
		t.Errorf("subject = %q, want %q", v.Subject, "a → b → c")
	}
	if v.RuleName != "no_cycles" || v.Severity != SeverityError {
		t.Errorf("unexpected rule/severity: %s/%s", v.RuleName, v.Severity)
	}
	if v.Expected != "No circular dependencies" {
		t.Errorf("expected = %q", v.Expected)
	}
	if v.Actual != "Cycle with 3 nodes" {
		t.Errorf("actual = %q", v.Actual)
	}
}

func TestCycleValidatorNegative(t *testing.T) {
	g := mergedGraph(t, [2]string{"a", "b"}, [2]string{"b", "c"})

	violations, err := CycleValidator{}.Validate(g)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(violations) != 0 {
		t.Errorf("acyclic graph produced %d violations", len(violations))
	}
}

func TestCycleValidatorTruncation(t *testing.T) {
	g := mergedGraph(t,
		[2]string{"n1", "n2"}, [2]string{"n2", "n3"}, [2]string{"n3", "n4"},
		[2]string{"n4", "n5"}, [2]string{"n5", "n6"}, [2]string{"n6", "n7"},
		[2]string{"n7", "n1"},
	)

	violations, err := CycleValidator{}.Validate(g)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(violations))
	}
	v := violations[0]
	if v.Subject != "n1 → n2 → n3 → n4 → n5 → ... (7 nodes)" {
		t.Errorf("subject = %q", v.Subject)
	}
	if v.Actual != "Cycle with 7 nodes" {
		t.Errorf("actual = %q", v.Actual)
	}
}

func TestLayerOf(t *testing.T) {
	tests := []struct {
		fqn  string
		want string
	}{
		{"myapp.domain.model.user", "domain"},
		{"myapp.services.auth", "services"},
		{"myapp.domain", "domain"},
		{"myapp", "myapp"},
		{"application.Service.run", "application"},
		{"domain.Repo.save", "domain"},
		{"Service.run", "Service"},
	}
	for _, tt := range tests {
		if got := LayerOf(tt.fqn); got != tt.want {
			t.Errorf("LayerOf(%q) = %q, want %q", tt.fqn, got, tt.want)
		}
	}
}

func TestBoundaryValidatorScenario(t *testing.T) {
	p := Policy{AllowedImports: map[string][]string{"application": {"domain"}}}
	v := NewBoundaryValidator(p)
	if v == nil {
		t.Fatal("validator should be enabled")
	}

	ok := mergedGraph(t, [2]string{"application.Service.run", "domain.Repo.save"})
	violations, err := v.Validate(ok)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(violations) != 0 {
		t.Errorf("allowed edge produced violations: %v", violations)
	}

	bad := mergedGraph(t, [2]string{"domain.Repo.save", "application.Service.run"})
	violations, err = v.Validate(bad)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(violations))
	}
	got := violations[0]
	if got.Actual != "Import from: application" {
		t.Errorf("actual = %q", got.Actual)
	}
	if got.Subject != "domain.Repo.save → application.Service.run" {
		t.Errorf("subject = %q", got.Subject)
	}
	if got.RuleName != "layer_boundary" || got.Category != CategoryBoundaries {
		t.Errorf("unexpected rule/category: %s/%s", got.RuleName, got.Category)
	}
}

func TestBoundarySameLayerExempt(t *testing.T) {
	// Same-layer calls pass even though "domain" appears nowhere in the
	// policy.
	p := Policy{AllowedImports: map[string][]string{"services": {"domain"}}}
	v := NewBoundaryValidator(p)

	g := mergedGraph(t, [2]string{"myapp.domain.model.User", "myapp.domain.repository.UserRepo"})
	violations, err := v.Validate(g)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(violations) != 0 {
		t.Errorf("same-layer edge produced violations: %v", violations)
	}
}

func TestBoundaryNatureExemption(t *testing.T) {
	p := Policy{AllowedImports: map[string][]string{"application": {"domain"}}}
	v := NewBoundaryValidator(p)

	for _, nature := range []classify.EdgeNature{classify.Parametric, classify.Inherited, classify.Framework} {
		g := mergedGraphNature(t, nature, [2]string{"domain.Repo.save", "application.Service.run"})
		violations, err := v.Validate(g)
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if len(violations) != 0 {
			t.Errorf("%s edge should be exempt, got %v", nature, violations)
		}
	}
}

func TestBoundaryUnknownCallerLayer(t *testing.T) {
	p := Policy{AllowedImports: map[string][]string{"services": {"domain"}}}
	v := NewBoundaryValidator(p)

	g := mergedGraph(t, [2]string{"myapp.unknown.module.fn", "myapp.domain.model.User"})
	violations, err := v.Validate(g)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(violations) != 1 {
		t.Fatalf("unknown caller layer should violate, got %d", len(violations))
	}
	if violations[0].Expected != "Imports from: (none)" {
		t.Errorf("expected = %q", violations[0].Expected)
	}
}

func TestBoundaryDisabledWithoutPolicy(t *testing.T) {
	if v := NewBoundaryValidator(Policy{}); v != nil {
		t.Error("boundary validator should be nil without allowed_imports")
	}
}

func TestRegistryOrderAndActivation(t *testing.T) {
	r := NewRegistry()

	active := r.Active(Policy{})
	if len(active) != 1 {
		t.Fatalf("expected only cycle validator without policy, got %d", len(active))
	}
	if active[0].Name() != "no_cycles" {
		t.Errorf("first validator = %q", active[0].Name())
	}

	active = r.Active(Policy{AllowedImports: map[string][]string{"a": {"b"}}})
	if len(active) != 2 {
		t.Fatalf("expected 2 active validators, got %d", len(active))
	}
	if active[0].Name() != "no_cycles" || active[1].Name() != "layer_boundary" {
		t.Errorf("wrong order: %s, %s", active[0].Name(), active[1].Name())
	}
}

func TestRunAllConcatenates(t *testing.T) {
	// A cycle inside "domain" plus a forbidden cross-layer edge: one
	// violation from each validator, cycle first.
	g := mergedGraph(t,
		[2]string{"myapp.domain.a", "myapp.domain.b"},
		[2]string{"myapp.domain.b", "myapp.domain.a"},
		[2]string{"myapp.domain.a", "myapp.services.auth"},
	)
	p := Policy{AllowedImports: map[string][]string{"services": {"domain"}}}

	violations, err := NewRegistry().RunAll(p, g)
	if err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %d: %v", len(violations), violations)
	}
	if violations[0].RuleName != "no_cycles" || violations[1].RuleName != "layer_boundary" {
		t.Errorf("wrong violation order: %s, %s", violations[0].RuleName, violations[1].RuleName)
	}
}

func TestViolationString(t *testing.T) {
	v := Violation{
		RuleName: "layer_boundary", Message: "msg",
		Location: callgraph.Location{File: "a.py", Line: 3},
		Severity: SeverityError, Category: CategoryBoundaries,
		Subject: "x → y", Expected: "e", Actual: "a", Suggestion: "fix it",
	}
	s := v.String()
	for _, want := range []string{"[ERROR] layer_boundary: msg", "a.py:3", "suggestion: fix it"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}
}
