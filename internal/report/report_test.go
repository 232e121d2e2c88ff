package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"layercheck/internal/callgraph"
	"layercheck/internal/classify"
	"layercheck/internal/merge"
	"layercheck/internal/validate"
)

func sampleGraph(t *testing.T) *merge.MergedCallGraph {
	t.Helper()
	se := callgraph.StaticCallEdge{Caller: "a.x", Callee: "b.y", Line: 1, CallType: callgraph.CallFunction}
	re := callgraph.RuntimeCallEdge{Caller: "a.x", Callee: "b.y", Calls: []callgraph.CallInstance{
		{Location: callgraph.Location{File: "a.py", Line: 1}, CallType: callgraph.CallFunction, Count: 1},
	}}
	g, err := merge.NewMergedCallGraph([]merge.MergedCallEdge{
		{Caller: "a.x", Callee: "b.y", Static: &se, Runtime: &re, Nature: classify.Direct},
		{Caller: "a.x", Callee: "c.z", Static: &se, Nature: classify.Direct},
		{Caller: "a.x", Callee: "d.w", Runtime: &re, Nature: classify.Parametric},
	})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func sampleViolation() validate.Violation {
	return validate.Violation{
		RuleName: "layer_boundary", Message: "Layer 'a' cannot depend on 'b'",
		Location: callgraph.Location{File: "a.py", Line: 1},
		Severity: validate.SeverityError, Category: validate.CategoryBoundaries,
		Subject: "a.x → b.y", Expected: "Imports from: (none)", Actual: "Import from: b",
		Suggestion: "Move code to allowed layer or update allowed_imports config",
	}
}

func TestNewResult(t *testing.T) {
	g := sampleGraph(t)

	r := NewResult(g, nil, Stats{RunID: "run-1", ValidatorsRun: 2})
	if !r.Passed {
		t.Error("no violations should pass")
	}
	if r.Stats.Nodes != 4 || r.Stats.Edges != 3 {
		t.Errorf("stats = %+v", r.Stats)
	}
	if r.Coverage.BothSources != 1 || r.Coverage.StaticOnly != 1 || r.Coverage.RuntimeOnly != 1 {
		t.Errorf("coverage = %+v", r.Coverage)
	}
	if r.Coverage.Percent != 50 {
		t.Errorf("coverage percent = %v, want 50", r.Coverage.Percent)
	}

	r = NewResult(g, []validate.Violation{sampleViolation()}, Stats{})
	if r.Passed {
		t.Error("an ERROR violation should fail the run")
	}
	if r.Summary.ErrorCount != 1 || r.Summary.ViolationCount != 1 {
		t.Errorf("summary = %+v", r.Summary)
	}

	warn := sampleViolation()
	warn.Severity = validate.SeverityWarning
	r = NewResult(g, []validate.Violation{warn}, Stats{})
	if !r.Passed {
		t.Error("warnings alone should not fail the run")
	}
}

func TestConsoleReporter(t *testing.T) {
	r := NewResult(sampleGraph(t), []validate.Violation{sampleViolation()}, Stats{ValidatorsRun: 2})

	var buf bytes.Buffer
	if err := (&ConsoleReporter{ShowSuggestions: true}).Report(&buf, r); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Architecture check FAILED",
		"[ERROR] layer_boundary",
		"subject:  a.x → b.y",
		"suggestion: Move code",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := (&ConsoleReporter{}).Report(&buf, r); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "suggestion:") {
		t.Error("suggestions should be suppressed")
	}
}

func TestJSONReporterRoundTrip(t *testing.T) {
	r := NewResult(sampleGraph(t), []validate.Violation{sampleViolation()}, Stats{RunID: "run-9"})

	var buf bytes.Buffer
	if err := (&JSONReporter{}).Report(&buf, r); err != nil {
		t.Fatal(err)
	}

	var decoded Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Stats.RunID != "run-9" || len(decoded.Violations) != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Violations[0].RuleName != "layer_boundary" {
		t.Errorf("violation = %+v", decoded.Violations[0])
	}
}

func TestJSONReporterEmptyViolations(t *testing.T) {
	r := NewResult(sampleGraph(t), nil, Stats{})

	var buf bytes.Buffer
	if err := (&JSONReporter{Compact: true}).Report(&buf, r); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), `"violations":null`) {
		t.Error("violations must encode as an array, not null")
	}
}

func TestPlainReporter(t *testing.T) {
	r := NewResult(sampleGraph(t), []validate.Violation{sampleViolation()}, Stats{})

	var buf bytes.Buffer
	if err := (PlainReporter{}).Report(&buf, r); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Architecture Check Results",
		"Status: FAIL",
		"1. [ERROR] layer_boundary",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("plain output missing %q:\n%s", want, out)
		}
	}
}
