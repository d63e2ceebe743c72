package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"archmap/internal/config"
	"archmap/internal/scan"
)

var initWithDeclarations bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize archmap in a project",
	Long: `Create .archmap/config.json with defaults, and optionally an example
ARCHMAP.toml for hand-declared components.

Examples:
  archmap init
  archmap init --with-declarations`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initWithDeclarations, "with-declarations", false,
		"Also write an example ARCHMAP.toml")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}

	configPath := filepath.Join(root, ".archmap", "config.json")
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("already initialized: %s exists", configPath)
	}
	if err := config.DefaultConfig().Save(root); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Printf("Created %s\n", configPath)

	if initWithDeclarations {
		declPath := filepath.Join(root, scan.DeclaredFile)
		if _, err := os.Stat(declPath); err == nil {
			fmt.Printf("Skipped %s (already exists)\n", declPath)
			return nil
		}
		if err := os.WriteFile(declPath, []byte(exampleDeclarations), 0644); err != nil {
			return fmt.Errorf("failed to write declarations: %w", err)
		}
		fmt.Printf("Created %s\n", declPath)
	}
	return nil
}

const exampleDeclarations = `# Hand-declared architecture entries. Declarations carry confidence 1.0
# and override scanner-detected metadata for the same component.
version = 1

[[component]]
name = "billing-service"
type = "service"
purpose = "Subscription billing"
layer = "backend"
critical = true

[[connection]]
from = "billing-service"
to = "stripe"
type = "service-call"
description = "Charges cards via the Stripe API"
`
