package callgraph

import (
	"sort"
	"sync"

	"layercheck/internal/errors"
)

// CallInstance is one observed call site with an execution count.
type CallInstance struct {
	Location Location `json:"location"`
	CallType CallType `json:"callType"`
	Count    int      `json:"count"` // >= 1
}

// NewCallInstance builds a CallInstance, validating its invariants.
// A call that was never executed cannot exist as an instance.
func NewCallInstance(loc Location, callType CallType, count int) (CallInstance, error) {
	if count < 1 {
		return CallInstance{}, errors.Newf(errors.InvalidCallFact, "call instance count must be >= 1, got %d", count)
	}
	return CallInstance{Location: loc, CallType: callType, Count: count}, nil
}

// RuntimeCallEdge aggregates the observed call instances for one
// (caller, callee) pair. A pair with zero instances cannot exist.
type RuntimeCallEdge struct {
	Caller string         `json:"caller"`
	Callee string         `json:"callee"`
	Calls  []CallInstance `json:"calls"` // non-empty
}

// NewRuntimeCallEdge builds a RuntimeCallEdge, validating its invariants.
func NewRuntimeCallEdge(caller, callee string, calls []CallInstance) (RuntimeCallEdge, error) {
	if caller == "" {
		return RuntimeCallEdge{}, errors.New(errors.InvalidCallFact, "runtime edge caller must not be empty")
	}
	if callee == "" {
		return RuntimeCallEdge{}, errors.New(errors.InvalidCallFact, "runtime edge callee must not be empty")
	}
	if len(calls) == 0 {
		return RuntimeCallEdge{}, errors.New(errors.InvalidCallFact, "runtime edge must carry at least one call instance")
	}
	return RuntimeCallEdge{Caller: caller, Callee: callee, Calls: calls}, nil
}

// TotalCount returns the total execution count across all instances.
func (e RuntimeCallEdge) TotalCount() int {
	total := 0
	for _, c := range e.Calls {
		total += c.Count
	}
	return total
}

// First returns the first recorded instance. The call type recorded there is
// authoritative when no static edge exists for the pair.
func (e RuntimeCallEdge) First() CallInstance {
	return e.Calls[0]
}

// RuntimeCallGraph is an immutable snapshot of observed runtime calls.
type RuntimeCallGraph struct {
	Edges  []RuntimeCallEdge `json:"edges"`
	byPair map[[2]string]int
}

// NewRuntimeCallGraph builds the snapshot and its pair index.
func NewRuntimeCallGraph(edges []RuntimeCallEdge) *RuntimeCallGraph {
	byPair := make(map[[2]string]int, len(edges))
	for i, e := range edges {
		byPair[[2]string{e.Caller, e.Callee}] = i
	}
	return &RuntimeCallGraph{Edges: edges, byPair: byPair}
}

// EmptyRuntimeCallGraph returns a snapshot with no observations, used for
// static-only analysis.
func EmptyRuntimeCallGraph() *RuntimeCallGraph {
	return NewRuntimeCallGraph(nil)
}

// EdgeByPair returns the runtime edge for the given pair, if any. O(1).
func (g *RuntimeCallGraph) EdgeByPair(caller, callee string) (RuntimeCallEdge, bool) {
	if i, ok := g.byPair[[2]string{caller, callee}]; ok {
		return g.Edges[i], true
	}
	return RuntimeCallEdge{}, false
}

// Recorder is the lock-guarded mutable accumulator used while observing a
// live run. It sits outside the analysis core: the engine only ever consumes
// the immutable snapshot returned by Freeze.
type Recorder struct {
	mu    sync.Mutex
	calls map[recordKey]int
}

type recordKey struct {
	caller   string
	callee   string
	loc      Location
	callType CallType
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{calls: make(map[recordKey]int)}
}

// Record counts one observed call. Safe for concurrent use.
func (r *Recorder) Record(caller, callee string, loc Location, callType CallType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[recordKey{caller: caller, callee: callee, loc: loc, callType: callType}]++
}

// RecordN counts n observed calls at once, for trace files that carry
// pre-aggregated counts. n < 1 is ignored.
func (r *Recorder) RecordN(caller, callee string, loc Location, callType CallType, n int) {
	if n < 1 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[recordKey{caller: caller, callee: callee, loc: loc, callType: callType}] += n
}

// Freeze aggregates the accumulated observations into an immutable
// RuntimeCallGraph. The recorder may keep collecting afterwards; the
// snapshot never changes. Edges and instances come out in sorted order so
// identical observations produce identical snapshots.
func (r *Recorder) Freeze() *RuntimeCallGraph {
	r.mu.Lock()
	defer r.mu.Unlock()

	grouped := make(map[[2]string][]CallInstance)
	for key, count := range r.calls {
		inst := CallInstance{Location: key.loc, CallType: key.callType, Count: count}
		pair := [2]string{key.caller, key.callee}
		grouped[pair] = append(grouped[pair], inst)
	}

	pairs := make([][2]string, 0, len(grouped))
	for pair := range grouped {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})

	edges := make([]RuntimeCallEdge, 0, len(pairs))
	for _, pair := range pairs {
		calls := grouped[pair]
		sort.Slice(calls, func(i, j int) bool {
			if calls[i].Location.File != calls[j].Location.File {
				return calls[i].Location.File < calls[j].Location.File
			}
			return calls[i].Location.Line < calls[j].Location.Line
		})
		edges = append(edges, RuntimeCallEdge{Caller: pair[0], Callee: pair[1], Calls: calls})
	}

	return NewRuntimeCallGraph(edges)
}
