package report

import (
	"encoding/json"
	"io"

	"layercheck/internal/validate"
)

// JSONReporter renders the result as an indented JSON document for CI
// integration. Field order is fixed by the Result struct, so identical runs
// produce byte-identical output.
type JSONReporter struct {
	// Compact drops indentation.
	Compact bool
}

func (j *JSONReporter) Report(w io.Writer, r Result) error {
	// Never emit null for the violations array.
	if r.Violations == nil {
		r.Violations = []validate.Violation{}
	}
	enc := json.NewEncoder(w)
	if !j.Compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(r)
}
