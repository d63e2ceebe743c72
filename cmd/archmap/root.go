package main

import (
	"github.com/spf13/cobra"

	"archmap/internal/version"
)

var rootFlag string

var rootCmd = &cobra.Command{
	Use:   "archmap",
	Short: "archmap - Architecture map for codebases",
	Long: `archmap scans a codebase for architectural components (packages,
frameworks, databases, queues, services, LLM providers) and the connections
between them, then answers graph questions: what breaks if this changes,
how does data flow from here, what does this area of the system look like,
and what changed since the last scan.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("archmap version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".",
		"Project root to operate on")
}
