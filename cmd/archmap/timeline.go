package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"archmap/internal/diff"
)

var (
	timelineFormat string
	timelineLimit  int
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show the architecture change history",
	Long: `List recorded architecture changes, newest first. The history is
bounded; the oldest entries fall off once the limit is reached.

Examples:
  archmap timeline
  archmap timeline -n 10
  archmap timeline --format=json`,
	RunE: runTimeline,
}

func init() {
	timelineCmd.Flags().StringVar(&timelineFormat, "format", "human", "Output format (json, human)")
	timelineCmd.Flags().IntVarP(&timelineLimit, "limit", "n", 0, "Number of entries to show (0 uses the config limit)")
	rootCmd.AddCommand(timelineCmd)
}

func runTimeline(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, timelineFormat)

	lg, err := openGraph(root, logger)
	if err != nil {
		return err
	}
	defer lg.Close()

	limit := timelineLimit
	if limit <= 0 {
		limit = cfg.Timeline.Limit
	}
	entries, err := lg.db.LoadTimeline(limit)
	if err != nil {
		return err
	}

	if OutputFormat(timelineFormat) == FormatJSON {
		output, err := FormatResponse(entries, FormatJSON)
		if err != nil {
			return err
		}
		fmt.Println(output)
		return nil
	}

	fmt.Println(formatTimelineHuman(entries))
	return nil
}

func formatTimelineHuman(entries []*diff.TimelineEntry) string {
	if len(entries) == 0 {
		return "No changes recorded yet."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Timeline (%d entries)\n", len(entries))
	b.WriteString(strings.Repeat("=", 60) + "\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  [%s]  %s\n",
			e.Timestamp.Format(time.RFC3339), e.Significance, e.Summary)
	}
	return b.String()
}
