package report

import (
	"fmt"
	"io"
)

// ConsoleReporter renders a human-oriented summary with one block per
// violation.
type ConsoleReporter struct {
	// ShowSuggestions includes the fix suggestion line when set.
	ShowSuggestions bool
}

func (c *ConsoleReporter) Report(w io.Writer, r Result) error {
	status := "PASSED"
	if !r.Passed {
		status = "FAILED"
	}
	fmt.Fprintf(w, "Architecture check %s\n", status)
	fmt.Fprintf(w, "  nodes: %d  edges: %d  validators: %d  time: %dms\n",
		r.Stats.Nodes, r.Stats.Edges, r.Stats.ValidatorsRun, r.Stats.AnalysisTimeMs)
	fmt.Fprintf(w, "  runtime coverage: %.1f%% (%d of %d static edges observed)\n",
		r.Coverage.Percent, r.Coverage.BothSources, r.Coverage.BothSources+r.Coverage.StaticOnly)

	if len(r.Violations) == 0 {
		fmt.Fprintln(w, "\nNo violations.")
		return nil
	}

	fmt.Fprintf(w, "\n%d violation(s): %d error(s), %d warning(s)\n\n",
		r.Summary.ViolationCount, r.Summary.ErrorCount, r.Summary.WarningCount)

	for _, v := range r.Violations {
		fmt.Fprintf(w, "[%s] %s: %s\n", v.Severity, v.RuleName, v.Message)
		fmt.Fprintf(w, "  at %s\n", v.Location)
		fmt.Fprintf(w, "  subject:  %s\n", v.Subject)
		fmt.Fprintf(w, "  expected: %s\n", v.Expected)
		fmt.Fprintf(w, "  actual:   %s\n", v.Actual)
		if c.ShowSuggestions && v.Suggestion != "" {
			fmt.Fprintf(w, "  suggestion: %s\n", v.Suggestion)
		}
		fmt.Fprintln(w)
	}
	return nil
}
