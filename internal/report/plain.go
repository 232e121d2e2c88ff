package report

import (
	"fmt"
	"io"
	"strings"
)

// PlainReporter renders a minimal sectioned text report, suited to logs and
// terminals without utf-8 guarantees.
type PlainReporter struct{}

func (PlainReporter) Report(w io.Writer, r Result) error {
	rule := strings.Repeat("=", 70)
	thin := strings.Repeat("-", 70)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Architecture Check Results")
	fmt.Fprintln(w, rule)

	status := "PASS"
	if !r.Passed {
		status = "FAIL"
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  Coverage: %.1f%%\n", r.Coverage.Percent)
	fmt.Fprintf(w, "  Violations: %d\n", r.Summary.ViolationCount)
	fmt.Fprintf(w, "    Errors: %d\n", r.Summary.ErrorCount)
	fmt.Fprintf(w, "    Warnings: %d\n", r.Summary.WarningCount)
	fmt.Fprintf(w, "  Status: %s\n", status)

	if len(r.Violations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, thin)
		fmt.Fprintf(w, "Violations (%d):\n", len(r.Violations))
		fmt.Fprintln(w, thin)
		for i, v := range r.Violations {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "%d. [%s] %s\n", i+1, v.Severity, v.RuleName)
			fmt.Fprintf(w, "   %s\n", v.Message)
			fmt.Fprintf(w, "   Subject: %s\n", v.Subject)
			fmt.Fprintf(w, "   Expected: %s\n", v.Expected)
			fmt.Fprintf(w, "   Actual: %s\n", v.Actual)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	return nil
}
