// Package runtimetrace loads runtime call observations from a trace file and
// replays them into an immutable runtime call graph. The trace is produced
// by an external profiler hook; this package only decodes and aggregates.
package runtimetrace

import (
	"encoding/json"
	"os"

	"layercheck/internal/callgraph"
	"layercheck/internal/errors"
)

// TraceVersion is the trace schema version this package reads.
const TraceVersion = 1

// Event is one observed call in the trace file. Count defaults to 1 when
// omitted, for hooks that emit one event per call.
type Event struct {
	Caller   string `json:"caller"`
	Callee   string `json:"callee"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	CallType string `json:"callType,omitempty"`
	Count    int    `json:"count,omitempty"`
}

// Trace is the decoded trace document.
type Trace struct {
	Version int     `json:"version"`
	Events  []Event `json:"events"`
}

// Load reads and replays a trace file into a frozen runtime call graph.
func Load(path string) (*callgraph.RuntimeCallGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TraceInvalid, "reading trace file", err)
	}
	return Decode(data)
}

// Decode replays trace bytes into a frozen runtime call graph.
func Decode(data []byte) (*callgraph.RuntimeCallGraph, error) {
	var trace Trace
	if err := json.Unmarshal(data, &trace); err != nil {
		return nil, errors.Wrap(errors.TraceInvalid, "decoding trace file", err)
	}
	if trace.Version != TraceVersion {
		return nil, errors.Newf(errors.TraceInvalid, "unsupported trace version %d", trace.Version)
	}

	rec := callgraph.NewRecorder()
	for i, ev := range trace.Events {
		if ev.Caller == "" || ev.Callee == "" {
			return nil, errors.Newf(errors.TraceInvalid, "event %d has empty caller or callee", i)
		}
		if ev.Line < 1 {
			return nil, errors.Newf(errors.TraceInvalid, "event %d has invalid line %d", i, ev.Line)
		}
		count := ev.Count
		if count == 0 {
			count = 1
		}
		if count < 0 {
			return nil, errors.Newf(errors.TraceInvalid, "event %d has negative count %d", i, ev.Count)
		}
		loc := callgraph.Location{File: ev.File, Line: ev.Line, Column: ev.Column}
		rec.RecordN(ev.Caller, ev.Callee, loc, callgraph.ParseCallType(ev.CallType), count)
	}
	return rec.Freeze(), nil
}
