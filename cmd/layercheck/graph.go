package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"layercheck/internal/classify"
	"layercheck/internal/config"
	"layercheck/internal/merge"

	"github.com/spf13/cobra"
)

var (
	graphFormat string
	graphNature string
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Dump the merged call graph",
	Long: `Collect call facts and print the merged call graph without validating it.

Useful for inspecting what the collectors actually saw and how static and
runtime evidence overlap.

Examples:
  layercheck graph
  layercheck graph --format=json
  layercheck graph --nature=direct`,
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().StringVar(&graphFormat, "format", "human", "Output format (json, human)")
	graphCmd.Flags().StringVar(&graphNature, "nature", "", "Only show edges of this nature (direct, parametric, inherited, framework)")
	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(repoRoot)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg)

	merged, err := buildMergedGraph(context.Background(), repoRoot, cfg, logger)
	if err != nil {
		return err
	}

	edges := merged.Edges
	if graphNature != "" {
		edges = merged.EdgesByNature(classify.EdgeNature(graphNature))
	}

	switch graphFormat {
	case "json":
		data, jsonErr := json.MarshalIndent(edges, "", "  ")
		if jsonErr != nil {
			return jsonErr
		}
		fmt.Println(string(data))
	case "human":
		fmt.Print(formatGraphHuman(merged, edges))
	default:
		return fmt.Errorf("unsupported format: %s", graphFormat)
	}
	return nil
}

// formatGraphHuman renders the graph as a readable edge listing.
func formatGraphHuman(g *merge.MergedCallGraph, edges []merge.MergedCallEdge) string {
	var b strings.Builder

	b.WriteString("Call Graph\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("Nodes: %d\n", g.NodeCount()))
	b.WriteString(fmt.Sprintf("Edges: %d (static only: %d, runtime only: %d)\n\n",
		len(g.Edges), len(g.StaticOnlyEdges()), len(g.RuntimeOnlyEdges())))

	for _, e := range edges {
		sources := "static+runtime"
		switch {
		case e.HasStatic() && !e.HasRuntime():
			sources = "static"
		case e.HasRuntime() && !e.HasStatic():
			sources = "runtime"
		}
		b.WriteString(fmt.Sprintf("  %s -> %s [%s, %s]\n", e.Caller, e.Callee, e.Nature, sources))
	}

	return b.String()
}
