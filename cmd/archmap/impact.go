package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"archmap/internal/impact"
)

var impactFormat string

var impactCmd = &cobra.Command{
	Use:   "impact <component>",
	Short: "Analyze change impact",
	Long: `Analyze what would be affected by changing a component.

The component may be named by id, name, or a file path it was detected
from. Output covers direct dependents, one hop of transitive dependents,
the distinct files involved, and an overall severity.

Examples:
  archmap impact postgres
  archmap impact src/db/client.ts
  archmap impact stripe --format=json`,
	Args: cobra.ExactArgs(1),
	RunE: runImpact,
}

func init() {
	impactCmd.Flags().StringVar(&impactFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(impactCmd)
}

func runImpact(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, impactFormat)

	lg, err := openGraph(root, logger)
	if err != nil {
		return err
	}
	defer lg.Close()

	target, err := resolveComponent(args[0], lg)
	if err != nil {
		return err
	}

	analysis, err := impact.Analyze(target, lg.graph)
	if err != nil {
		return err
	}

	output, err := FormatResponse(analysis, OutputFormat(impactFormat))
	if err != nil {
		return err
	}
	fmt.Println(output)
	return nil
}
