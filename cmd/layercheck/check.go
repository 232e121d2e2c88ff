package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"layercheck/internal/config"
	"layercheck/internal/report"
	"layercheck/internal/validate"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	checkFormat      string
	checkRulesFile   string
	checkTraceFile   string
	checkSuggestions bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the architecture",
	Long: `Collect call facts from source, merge in an optional runtime trace, and
validate the resulting call graph against the configured rules.

Exits with status 1 when any ERROR severity violation is found.

Examples:
  layercheck check
  layercheck check --format=json
  layercheck check --rules=.layercheck/rules.toml
  layercheck check --trace=trace.json --format=sarif`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", "", "Output format (console, json, plain, sarif)")
	checkCmd.Flags().StringVar(&checkRulesFile, "rules", "", "Architecture rules file (.toml, .yaml or .json)")
	checkCmd.Flags().StringVar(&checkTraceFile, "trace", "", "Runtime trace file to merge in")
	checkCmd.Flags().BoolVar(&checkSuggestions, "suggestions", true, "Show fix suggestions in console output")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	start := time.Now()

	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(repoRoot)
	if err != nil {
		return err
	}

	// CLI flags override the config file
	if checkFormat != "" {
		cfg.Report.Format = checkFormat
	}
	if checkTraceFile != "" {
		cfg.Collect.TraceFile = checkTraceFile
	}
	if checkRulesFile != "" {
		rules, rulesErr := config.LoadRules(filepath.Join(repoRoot, checkRulesFile))
		if rulesErr != nil {
			return rulesErr
		}
		cfg.Rules = *rules
	}
	if cmd.Flags().Changed("suggestions") {
		cfg.Report.ShowSuggestions = checkSuggestions
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := newLogger(cfg).With(map[string]interface{}{"run_id": runID})
	ctx := context.Background()

	merged, err := buildMergedGraph(ctx, repoRoot, cfg, logger)
	if err != nil {
		return err
	}

	registry := validate.NewRegistry()
	policy := validate.Policy{AllowedImports: cfg.Rules.AllowedImports}

	violations, err := registry.RunAll(policy, merged)
	if err != nil {
		return err
	}

	result := report.NewResult(merged, violations, report.Stats{
		RunID:          runID,
		ValidatorsRun:  len(registry.Active(policy)),
		AnalysisTimeMs: time.Since(start).Milliseconds(),
	})

	if err := renderResult(os.Stdout, result, cfg); err != nil {
		return err
	}

	if !result.Passed {
		os.Exit(1)
	}
	return nil
}
