package main

import (
	"fmt"
	"os"
	"path/filepath"

	"layercheck/internal/config"
	"layercheck/internal/errors"
	"layercheck/internal/logging"

	"github.com/spf13/cobra"
)

var (
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize layercheck configuration",
	Long:  "Creates a .layercheck/ directory with a default config.json and a starter rules.toml in the repository root",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Force reinitialization (removes existing .layercheck directory)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	logger := logging.NewLogger(logging.Config{
		Format: logging.HumanFormat,
		Level:  logging.InfoLevel,
	})

	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return errors.Wrap(errors.InternalError, "Failed to determine repository root", err)
	}

	// Idempotent behavior: already initialized is success (CI-friendly)
	checkDir := filepath.Join(repoRoot, ".layercheck")
	if _, statErr := os.Stat(checkDir); statErr == nil {
		if !initForce {
			fmt.Println("layercheck already initialized.")
			fmt.Printf("Configuration at: %s\n", filepath.Join(checkDir, "config.json"))
			fmt.Println("\nRun 'layercheck init --force' to reinitialize.")
			return nil
		}
		if removeErr := os.RemoveAll(checkDir); removeErr != nil {
			return errors.Wrap(errors.InternalError, "Failed to remove existing .layercheck directory", removeErr)
		}
		logger.Info("Removed existing .layercheck directory", nil)
	}

	if mkdirErr := os.MkdirAll(checkDir, 0755); mkdirErr != nil {
		return errors.Wrap(errors.InternalError, "Failed to create .layercheck directory", mkdirErr)
	}

	cfg := config.DefaultConfig()
	cfg.RulesFile = filepath.Join(".layercheck", "rules.toml")

	if saveErr := cfg.Save(repoRoot); saveErr != nil {
		return errors.Wrap(errors.InternalError, "Failed to write config file", saveErr)
	}

	rulesPath := filepath.Join(checkDir, "rules.toml")
	rules := starterRules()
	if rulesErr := config.SaveRules(rulesPath, rules); rulesErr != nil {
		return errors.Wrap(errors.InternalError, "Failed to write rules file", rulesErr)
	}

	logger.Info("layercheck initialized successfully", map[string]interface{}{
		"config_path": filepath.Join(checkDir, "config.json"),
		"rules_path":  rulesPath,
	})

	fmt.Println("layercheck initialized successfully!")
	fmt.Printf("Configuration written to: %s\n", filepath.Join(checkDir, "config.json"))
	fmt.Printf("Rules written to: %s\n", rulesPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit .layercheck/rules.toml to match your layer layout")
	fmt.Println("  2. Run 'layercheck check' to validate the architecture")

	return nil
}

// starterRules returns a conventional three-layer ruleset as a starting point.
func starterRules() *config.RulesConfig {
	return &config.RulesConfig{
		AllowedImports: map[string][]string{
			"presentation":   {"application"},
			"application":    {"domain"},
			"domain":         {},
			"infrastructure": {"domain", "application"},
		},
		KnownFrameworks: []string{},
	}
}
