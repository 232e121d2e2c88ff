package main

import (
	"os"

	"layercheck/internal/config"
	"layercheck/internal/logging"
	"layercheck/internal/version"

	"github.com/spf13/cobra"
)

var (
	// repoRootFlag is the CLI --repo-root flag value
	repoRootFlag string
)

var rootCmd = &cobra.Command{
	Use:   "layercheck",
	Short: "layercheck - Layered architecture validation",
	Long: `layercheck validates a codebase against its declared layered architecture.
It collects call facts from source (and optionally from a runtime trace),
merges them into a single call graph, and checks the graph for circular
dependencies and layer boundary violations.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("layercheck version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&repoRootFlag, "repo-root", "",
		"Repository root (default: current directory)")
}

// resolveRepoRoot determines the effective repo root from CLI flag, env var,
// and the current directory.
// Precedence: CLI flag > LAYERCHECK_REPO_ROOT env var > cwd
func resolveRepoRoot() (string, error) {
	if repoRootFlag != "" {
		return repoRootFlag, nil
	}
	if env := os.Getenv("LAYERCHECK_REPO_ROOT"); env != "" {
		return env, nil
	}
	return os.Getwd()
}

// newLogger builds a logger from the config's logging section.
func newLogger(cfg *config.Config) *logging.Logger {
	return logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.ParseLevel(cfg.Logging.Level),
	})
}
