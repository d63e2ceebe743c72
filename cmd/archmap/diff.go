package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"archmap/internal/diff"
)

var (
	diffFormat string
	diffFrom   string
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show what changed between snapshots",
	Long: `Compare the two most recent snapshots, or a named snapshot against
the latest, and classify the significance of the change.

Examples:
  archmap diff
  archmap diff --from=<snapshot-id>
  archmap diff --format=json`,
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&diffFormat, "format", "human", "Output format (json, human)")
	diffCmd.Flags().StringVar(&diffFrom, "from", "", "Snapshot id to diff from (default: previous snapshot)")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, diffFormat)

	lg, err := openGraph(root, logger)
	if err != nil {
		return err
	}
	defer lg.Close()

	current, err := lg.db.LoadLatestSnapshot()
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("no snapshot found; run 'archmap scan' first")
	}

	var previous *diff.Snapshot
	if diffFrom != "" {
		previous, err = lg.db.LoadSnapshot(diffFrom)
		if err != nil {
			return err
		}
		if previous == nil {
			return fmt.Errorf("snapshot %q not found", diffFrom)
		}
	} else {
		// The most recent timeline entry carries the diff that produced the
		// current snapshot; replaying it avoids a second full comparison.
		entries, err := lg.db.LoadTimeline(1)
		if err != nil {
			return err
		}
		if len(entries) > 0 && entries[0].SnapshotID == current.ID {
			output, err := FormatResponse(entries[0].Diff, OutputFormat(diffFormat))
			if err != nil {
				return err
			}
			fmt.Println(output)
			return nil
		}
		// A no-change scan records no timeline entry; fall back to comparing
		// the two most recent snapshots directly.
		previous, err = lg.db.LoadPreviousSnapshot()
		if err != nil {
			return err
		}
	}

	result := diff.Compare(previous, current)

	output, err := FormatResponse(result, OutputFormat(diffFormat))
	if err != nil {
		return err
	}
	fmt.Println(output)
	return nil
}
