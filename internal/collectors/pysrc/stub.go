//go:build !cgo

package pysrc

import (
	"context"

	"layercheck/internal/callgraph"
	"layercheck/internal/errors"
	"layercheck/internal/logging"
)

// Collector is unavailable without cgo; tree-sitter needs it.
type Collector struct{}

// NewCollector returns the stub collector.
func NewCollector(*logging.Logger) *Collector {
	return &Collector{}
}

// Collect always fails: this binary was built without cgo.
func (*Collector) Collect(context.Context, []string, []string) (*callgraph.StaticCallGraph, []UnresolvedCall, error) {
	return nil, nil, errors.New(errors.CollectFailed, "python collection requires a cgo-enabled build")
}
