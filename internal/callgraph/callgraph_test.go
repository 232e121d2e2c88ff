package callgraph

import (
	"testing"
)

func TestParseCallType(t *testing.T) {
	testCases := []struct {
		input    string
		expected CallType
	}{
		{"function", CallFunction},
		{"method", CallMethod},
		{"constructor", CallConstructor},
		{"decorator", CallDecorator},
		{"super", CallSuper},
		{"", CallFunction},
		{"garbage", CallFunction},
	}

	for _, tc := range testCases {
		if got := ParseCallType(tc.input); got != tc.expected {
			t.Errorf("ParseCallType(%q) = %s, expected %s", tc.input, got, tc.expected)
		}
	}
}

func TestNewLocationValidation(t *testing.T) {
	if _, err := NewLocation("app/service.py", 0, 0); err == nil {
		t.Error("Expected error for line 0")
	}
	if _, err := NewLocation("app/service.py", 3, -1); err == nil {
		t.Error("Expected error for negative column")
	}
	loc, err := NewLocation("app/service.py", 3, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if loc.String() != "app/service.py:3:0" {
		t.Errorf("Unexpected location string: %s", loc.String())
	}
}

func TestNewStaticCallEdgeValidation(t *testing.T) {
	testCases := []struct {
		name           string
		caller, callee string
		line           int
		wantErr        bool
	}{
		{"valid", "app.a", "app.b", 1, false},
		{"empty caller", "", "app.b", 1, true},
		{"empty callee", "app.a", "", 1, true},
		{"zero line", "app.a", "app.b", 0, true},
	}

	for _, tc := range testCases {
		_, err := NewStaticCallEdge(tc.caller, tc.callee, tc.line, CallFunction)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: NewStaticCallEdge error = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
	}
}

func TestNewStaticCallGraphUnknownCaller(t *testing.T) {
	edge, _ := NewStaticCallEdge("app.ghost", "app.b", 1, CallFunction)
	_, err := NewStaticCallGraph([]StaticCallEdge{edge}, map[string]struct{}{"app.b": {}}, nil)
	if err == nil {
		t.Error("Expected error for edge caller not in known functions")
	}
}

func TestStaticCallGraphEdgeByPair(t *testing.T) {
	functions := map[string]struct{}{"app.a": {}, "app.b": {}}
	edges := []StaticCallEdge{
		{Caller: "app.a", Callee: "app.b", Line: 3, CallType: CallFunction},
		{Caller: "app.a", Callee: "app.b", Line: 9, CallType: CallMethod},
		{Caller: "app.b", Callee: "app.c", Line: 5, CallType: CallFunction},
	}
	g, err := NewStaticCallGraph(edges, functions, nil)
	if err != nil {
		t.Fatalf("NewStaticCallGraph: %v", err)
	}

	edge, ok := g.EdgeByPair("app.a", "app.b")
	if !ok {
		t.Fatal("expected edge for app.a → app.b")
	}
	// The first recorded edge for a pair wins.
	if edge.Line != 3 || edge.CallType != CallFunction {
		t.Errorf("EdgeByPair returned %v, want the line-3 function edge", edge)
	}

	if _, ok := g.EdgeByPair("app.b", "app.a"); ok {
		t.Error("did not expect a reversed edge")
	}
	if _, ok := EmptyStaticCallGraph().EdgeByPair("app.a", "app.b"); ok {
		t.Error("empty graph should have no edges")
	}
}

func TestNewCallInstanceCountInvariant(t *testing.T) {
	loc := Location{File: "a.py", Line: 1}
	if _, err := NewCallInstance(loc, CallFunction, 0); err == nil {
		t.Error("Expected error for zero count")
	}
	inst, err := NewCallInstance(loc, CallFunction, 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if inst.Count != 3 {
		t.Errorf("Expected count 3, got %d", inst.Count)
	}
}

func TestNewRuntimeCallEdgeValidation(t *testing.T) {
	inst := CallInstance{Location: Location{File: "a.py", Line: 1}, CallType: CallFunction, Count: 1}

	if _, err := NewRuntimeCallEdge("app.a", "app.b", nil); err == nil {
		t.Error("Expected error for edge without call instances")
	}
	edge, err := NewRuntimeCallEdge("app.a", "app.b", []CallInstance{inst, inst})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if edge.TotalCount() != 2 {
		t.Errorf("Expected total count 2, got %d", edge.TotalCount())
	}
}

func TestRecorderFreeze(t *testing.T) {
	rec := NewRecorder()
	loc1 := Location{File: "app/svc.py", Line: 10}
	loc2 := Location{File: "app/svc.py", Line: 22}

	rec.Record("app.svc.run", "app.repo.save", loc1, CallMethod)
	rec.Record("app.svc.run", "app.repo.save", loc1, CallMethod)
	rec.Record("app.svc.run", "app.repo.save", loc2, CallMethod)
	rec.Record("app.svc.run", "app.util.log", loc1, CallFunction)

	snap := rec.Freeze()
	if len(snap.Edges) != 2 {
		t.Fatalf("Expected 2 aggregated edges, got %d", len(snap.Edges))
	}

	edge, ok := snap.EdgeByPair("app.svc.run", "app.repo.save")
	if !ok {
		t.Fatal("Expected edge app.svc.run -> app.repo.save")
	}
	if len(edge.Calls) != 2 {
		t.Errorf("Expected 2 call instances (two sites), got %d", len(edge.Calls))
	}
	if edge.TotalCount() != 3 {
		t.Errorf("Expected total count 3, got %d", edge.TotalCount())
	}
	if edge.Calls[0].Location.Line != 10 {
		t.Errorf("Expected instances sorted by line, got first line %d", edge.Calls[0].Location.Line)
	}
}

func TestRecorderFreezeIsSnapshot(t *testing.T) {
	rec := NewRecorder()
	loc := Location{File: "a.py", Line: 1}
	rec.Record("app.a", "app.b", loc, CallFunction)

	snap := rec.Freeze()
	rec.Record("app.a", "app.c", loc, CallFunction)

	if len(snap.Edges) != 1 {
		t.Errorf("Snapshot must not grow after further recording, got %d edges", len(snap.Edges))
	}
}

func TestRecorderConcurrent(t *testing.T) {
	rec := NewRecorder()
	loc := Location{File: "a.py", Line: 1}

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				rec.Record("app.a", "app.b", loc, CallFunction)
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	snap := rec.Freeze()
	edge, ok := snap.EdgeByPair("app.a", "app.b")
	if !ok {
		t.Fatal("Expected recorded edge")
	}
	if edge.TotalCount() != 800 {
		t.Errorf("Expected 800 recorded calls, got %d", edge.TotalCount())
	}
}

func TestEmptyRuntimeCallGraph(t *testing.T) {
	g := EmptyRuntimeCallGraph()
	if len(g.Edges) != 0 {
		t.Errorf("Expected no edges, got %d", len(g.Edges))
	}
	if _, ok := g.EdgeByPair("a", "b"); ok {
		t.Error("Empty graph should resolve no pair")
	}
}
