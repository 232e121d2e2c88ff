// Package validate checks a merged call graph against architecture rules and
// reports problems as Violation values. Detected problems are ordinary data,
// never errors: the engine does not fail because a cycle exists.
package validate

import (
	"fmt"
	"strings"

	"layercheck/internal/callgraph"
	"layercheck/internal/errors"
)

// Severity of a violation.
type Severity string

const (
	SeverityError   Severity = "ERROR"   // check fails
	SeverityWarning Severity = "WARNING" // check passes, warning shown
	SeverityInfo    Severity = "INFO"
)

// Category groups violations by validation domain.
type Category string

const (
	CategoryCoupling   Category = "coupling"   // cycles, fan-out
	CategoryBoundaries Category = "boundaries" // layer boundary crossings
)

// Violation is one detected architecture problem.
type Violation struct {
	RuleName   string             `json:"ruleName"`
	Message    string             `json:"message"`
	Location   callgraph.Location `json:"location"`
	Severity   Severity           `json:"severity"`
	Category   Category           `json:"category"`
	Subject    string             `json:"subject"`
	Expected   string             `json:"expected"`
	Actual     string             `json:"actual"`
	Suggestion string             `json:"suggestion,omitempty"`
}

// NewViolation builds a Violation, rejecting empty required fields. An empty
// field here is a validator bug, not a property of the analyzed code.
func NewViolation(v Violation) (Violation, error) {
	for _, f := range []struct{ name, value string }{
		{"rule_name", v.RuleName},
		{"message", v.Message},
		{"subject", v.Subject},
		{"expected", v.Expected},
		{"actual", v.Actual},
	} {
		if f.value == "" {
			return Violation{}, errors.Newf(errors.InvalidViolation, "violation %s must not be empty", f.name)
		}
	}
	return v, nil
}

// String formats the violation for console display.
func (v Violation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s\n", v.Severity, v.RuleName, v.Message)
	fmt.Fprintf(&b, "  at %s\n", v.Location)
	fmt.Fprintf(&b, "  subject: %s\n", v.Subject)
	fmt.Fprintf(&b, "  expected: %s\n", v.Expected)
	fmt.Fprintf(&b, "  actual: %s", v.Actual)
	if v.Suggestion != "" {
		fmt.Fprintf(&b, "\n  suggestion: %s", v.Suggestion)
	}
	return b.String()
}
