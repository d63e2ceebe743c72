package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"archmap/internal/model"
	"archmap/internal/resolve"
)

var (
	resolveFormat string
	resolveMax    int
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <query>",
	Short: "Resolve a name, id, or file path to a component",
	Long: `Resolve a query against the architecture map. An exact id or name
match wins; otherwise ranked candidates are listed.

Examples:
  archmap resolve postgres
  archmap resolve src/lib/db.ts
  archmap resolve redi --max=3`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveFormat, "format", "human", "Output format (json, human)")
	resolveCmd.Flags().IntVar(&resolveMax, "max", resolve.DefaultMaxCandidates, "Maximum candidates to list")
	rootCmd.AddCommand(resolveCmd)
}

// resolveReport is the resolve command's output payload
type resolveReport struct {
	Query      string                  `json:"query"`
	Match      *model.CompactComponent `json:"match,omitempty"`
	Candidates []resolve.Candidate     `json:"candidates,omitempty"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, resolveFormat)

	lg, err := openGraph(root, logger)
	if err != nil {
		return err
	}
	defer lg.Close()

	report := &resolveReport{Query: args[0]}
	if c := resolve.Resolve(args[0], lg.result.Components, lg.fileMap); c != nil {
		view := model.CompactView(c)
		report.Match = &view
	} else {
		report.Candidates = resolve.FindCandidates(args[0], lg.result.Components, resolveMax)
	}

	if OutputFormat(resolveFormat) == FormatJSON {
		output, err := FormatResponse(report, FormatJSON)
		if err != nil {
			return err
		}
		fmt.Println(output)
		return nil
	}

	fmt.Println(formatResolveHuman(report))
	return nil
}

func formatResolveHuman(report *resolveReport) string {
	var b strings.Builder
	if report.Match != nil {
		fmt.Fprintf(&b, "%s (%s, %s layer)", report.Match.Name, report.Match.Type, report.Match.Layer)
		return b.String()
	}
	if len(report.Candidates) == 0 {
		fmt.Fprintf(&b, "No component matches %q.", report.Query)
		return b.String()
	}
	fmt.Fprintf(&b, "No exact match for %q. Candidates:\n", report.Query)
	for _, cand := range report.Candidates {
		fmt.Fprintf(&b, "  %-30s %-14s score=%d\n",
			cand.Component.Name, cand.Component.Type, cand.Score)
	}
	return strings.TrimRight(b.String(), "\n")
}
