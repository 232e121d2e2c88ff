package callgraph

import (
	"fmt"

	"layercheck/internal/errors"
)

// Location is an exact position in source code.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`   // 1-based
	Column int    `json:"column"` // 0-based
}

// NewLocation builds a Location, validating its invariants.
func NewLocation(file string, line, column int) (Location, error) {
	if line < 1 {
		return Location{}, errors.Newf(errors.InvalidCallFact, "location line must be >= 1, got %d", line)
	}
	if column < 0 {
		return Location{}, errors.Newf(errors.InvalidCallFact, "location column must be >= 0, got %d", column)
	}
	return Location{File: file, Line: line, Column: column}, nil
}

// String formats the location as file:line:column.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}
