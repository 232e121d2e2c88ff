package main

import (
	"context"
	"path/filepath"

	"layercheck/internal/callgraph"
	"layercheck/internal/classify"
	"layercheck/internal/collectors/gosrc"
	"layercheck/internal/collectors/pysrc"
	"layercheck/internal/collectors/runtimetrace"
	"layercheck/internal/config"
	"layercheck/internal/logging"
	"layercheck/internal/merge"
)

// collectStatic runs the configured source collector over the repo.
func collectStatic(ctx context.Context, repoRoot string, cfg *config.Config, logger *logging.Logger) (*callgraph.StaticCallGraph, error) {
	roots := make([]string, 0, len(cfg.Collect.Paths))
	for _, p := range cfg.Collect.Paths {
		roots = append(roots, filepath.Join(repoRoot, p))
	}
	if len(roots) == 0 {
		roots = []string{repoRoot}
	}

	switch cfg.Collect.Language {
	case "go":
		return gosrc.NewCollector(logger).Collect(ctx, roots[0])
	default:
		graph, unresolved, err := pysrc.NewCollector(logger).Collect(ctx, roots, cfg.Collect.Ignore)
		if err != nil {
			return nil, err
		}
		if len(unresolved) > 0 {
			logger.Warn("Some calls could not be resolved", map[string]interface{}{
				"count": len(unresolved),
			})
		}
		return graph, nil
	}
}

// buildMergedGraph runs the full collection pipeline: static collection, an
// optional runtime trace, edge classification, and the merge.
func buildMergedGraph(ctx context.Context, repoRoot string, cfg *config.Config, logger *logging.Logger) (*merge.MergedCallGraph, error) {
	static, err := collectStatic(ctx, repoRoot, cfg, logger)
	if err != nil {
		return nil, err
	}

	runtime := callgraph.EmptyRuntimeCallGraph()
	if cfg.Collect.TraceFile != "" {
		runtime, err = runtimetrace.Load(filepath.Join(repoRoot, cfg.Collect.TraceFile))
		if err != nil {
			return nil, err
		}
		logger.Debug("Loaded runtime trace", map[string]interface{}{
			"trace_file": cfg.Collect.TraceFile,
		})
	}

	classifier := classify.NewClassifier(static.ModuleImports, cfg.Rules.KnownFrameworks)
	return merge.NewMerger(classifier).Merge(static, runtime)
}
