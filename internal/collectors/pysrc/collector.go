//go:build cgo

package pysrc

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"layercheck/internal/callgraph"
	"layercheck/internal/errors"
	"layercheck/internal/logging"
)

// Collector walks Python source roots and produces a static call graph.
type Collector struct {
	parser *Parser
	log    *logging.Logger
}

// NewCollector creates a Python source collector.
func NewCollector(log *logging.Logger) *Collector {
	return &Collector{parser: NewParser(), log: log}
}

// Collect parses every .py file under the given roots and resolves the
// result into one static call graph. Files that fail to parse are skipped
// with a warning; an unreadable root is an error.
func (c *Collector) Collect(ctx context.Context, roots []string, ignore []string) (*callgraph.StaticCallGraph, []UnresolvedCall, error) {
	skip := make(map[string]struct{}, len(ignore))
	for _, name := range ignore {
		skip[name] = struct{}{}
	}

	var modules []*Module
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			return nil, nil, errors.Wrap(errors.CollectFailed, "source root "+root, err)
		}
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if info.IsDir() {
				name := info.Name()
				if _, ok := skip[name]; ok || (strings.HasPrefix(name, ".") && path != root) {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(path, ".py") {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				rel = path
			}
			source, err := os.ReadFile(path)
			if err != nil {
				c.log.Warn("skipping unreadable file", map[string]interface{}{"path": path, "error": err.Error()})
				return nil
			}
			m, err := c.parser.ParseSource(ctx, rel, source)
			if err != nil {
				c.log.Warn("skipping unparseable file", map[string]interface{}{"path": path, "error": err.Error()})
				return nil
			}
			modules = append(modules, m)
			return nil
		})
		if err != nil {
			return nil, nil, errors.Wrap(errors.CollectFailed, "walking "+root, err)
		}
	}

	graph, unresolved, err := Resolve(modules)
	if err != nil {
		return nil, nil, err
	}
	c.log.Debug("python collection complete", map[string]interface{}{
		"modules":    len(modules),
		"edges":      len(graph.Edges),
		"unresolved": len(unresolved),
	})
	return graph, unresolved, nil
}
