// Package report turns an analysis run's outcome into output documents.
// Reporters write to a caller-supplied writer; the engine never prints.
package report

import (
	"io"

	"layercheck/internal/merge"
	"layercheck/internal/validate"
)

// Coverage summarizes how the static and runtime evidence overlap.
type Coverage struct {
	TotalEdges  int     `json:"totalEdges"`
	BothSources int     `json:"bothSources"`
	StaticOnly  int     `json:"staticOnly"`
	RuntimeOnly int     `json:"runtimeOnly"`
	Percent     float64 `json:"percent"`
}

// Stats carries run provenance and sizes.
type Stats struct {
	RunID          string `json:"runId"`
	Nodes          int    `json:"nodes"`
	Edges          int    `json:"edges"`
	ValidatorsRun  int    `json:"validatorsRun"`
	AnalysisTimeMs int64  `json:"analysisTimeMs"`
}

// Summary aggregates violation counts.
type Summary struct {
	ViolationCount int `json:"violationCount"`
	ErrorCount     int `json:"errorCount"`
	WarningCount   int `json:"warningCount"`
}

// Result is the complete outcome of one merge+validate run.
type Result struct {
	Passed     bool                 `json:"passed"`
	Summary    Summary              `json:"summary"`
	Violations []validate.Violation `json:"violations"`
	Coverage   Coverage             `json:"coverage"`
	Stats      Stats                `json:"stats"`
}

// NewResult assembles a Result. A run passes when no violation has ERROR
// severity; warnings and infos do not fail it.
func NewResult(g *merge.MergedCallGraph, violations []validate.Violation, stats Stats) Result {
	summary := Summary{ViolationCount: len(violations)}
	for _, v := range violations {
		switch v.Severity {
		case validate.SeverityError:
			summary.ErrorCount++
		case validate.SeverityWarning:
			summary.WarningCount++
		}
	}

	cov := Coverage{TotalEdges: len(g.Edges)}
	for _, e := range g.Edges {
		switch {
		case e.HasStatic() && e.HasRuntime():
			cov.BothSources++
		case e.HasStatic():
			cov.StaticOnly++
		default:
			cov.RuntimeOnly++
		}
	}
	staticTotal := cov.BothSources + cov.StaticOnly
	if staticTotal > 0 {
		cov.Percent = float64(cov.BothSources) / float64(staticTotal) * 100
	}

	stats.Nodes = g.NodeCount()
	stats.Edges = len(g.Edges)

	return Result{
		Passed:     summary.ErrorCount == 0,
		Summary:    summary,
		Violations: violations,
		Coverage:   cov,
		Stats:      stats,
	}
}

// Reporter renders a Result to a writer.
type Reporter interface {
	Report(w io.Writer, r Result) error
}
