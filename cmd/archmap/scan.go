package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"archmap/internal/diff"
	"archmap/internal/logging"
	"archmap/internal/scan"
	"archmap/internal/storage"
)

var (
	scanFormat  string
	scanWorkers int
	scanDryRun  bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the project and update the architecture map",
	Long: `Scan the project for components and connections, persist the result,
and record a timeline entry describing what changed since the last scan.

Examples:
  archmap scan
  archmap scan --root=../service
  archmap scan --dry-run          # Scan without persisting anything`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanFormat, "format", "human", "Output format (json, human)")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "Concurrent scanners (0 uses the config value)")
	scanCmd.Flags().BoolVar(&scanDryRun, "dry-run", false, "Scan without persisting the result")
	rootCmd.AddCommand(scanCmd)
}

// scanReport is the scan command's output payload
type scanReport struct {
	RunID       string         `json:"runId,omitempty"`
	Components  int            `json:"components"`
	Connections int            `json:"connections"`
	Warnings    []scan.Warning `json:"warnings,omitempty"`
	Diff        *diff.Result   `json:"diff,omitempty"`
	DurationMs  int64          `json:"durationMs"`
}

func runScan(cmd *cobra.Command, args []string) error {
	start := time.Now()
	root, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, scanFormat)

	files, warnings, err := scan.EnumerateFiles(root, scan.EnumerateOptions{
		IgnoreDirs:       cfg.Scan.IgnoreDirs,
		MaxFileSizeBytes: cfg.Scan.MaxFileSizeBytes,
		MaxFiles:         cfg.Scan.MaxFiles,
	})
	if err != nil {
		return fmt.Errorf("failed to enumerate files: %w", err)
	}
	logger.Debug("Enumerated files", map[string]interface{}{"count": len(files)})

	workers := scanWorkers
	if workers <= 0 {
		workers = cfg.Scan.Workers
	}
	runner := scan.NewRunner(scan.DefaultScanners(), logger)
	result, err := runner.Run(context.Background(), files, scan.Options{
		Workers:     workers,
		ScanTimeout: time.Duration(cfg.Scan.ScanTimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	result.Warnings = append(warnings, result.Warnings...)
	dropLowConfidence(result, cfg.Scan.ConfidenceThreshold)

	report := &scanReport{
		Components:  len(result.Components),
		Connections: len(result.Connections),
		Warnings:    result.Warnings,
	}

	if !scanDryRun {
		if err := persistScan(root, result, report, cfg.Timeline.Limit, logger); err != nil {
			return err
		}
	}
	report.DurationMs = time.Since(start).Milliseconds()

	output, err := FormatResponse(report, OutputFormat(scanFormat))
	if err != nil {
		return err
	}
	fmt.Println(output)
	return nil
}

// persistScan saves the run, snapshots it, and appends the change diff
// against the previous snapshot to the timeline.
func persistScan(root string, result *scan.Result, report *scanReport, timelineLimit int, logger *logging.Logger) error {
	db, err := storage.Open(root, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	now := time.Now().UTC()
	runID, err := db.SaveScanRun(result, now)
	if err != nil {
		return err
	}
	report.RunID = runID

	// A corrupt snapshot loads as nil, degrading to a full-history diff.
	previous, err := db.LoadLatestSnapshot()
	if err != nil {
		return err
	}

	current := diff.TakeSnapshot(result.Components, result.Connections, now)
	changes := diff.Compare(previous, current)
	report.Diff = changes

	if err := db.SaveSnapshot(current); err != nil {
		return err
	}
	if changes.TotalChanges() > 0 || previous == nil {
		entry := diff.NewTimelineEntry(changes, current.ID, now)
		if err := db.AppendTimelineEntry(&entry, timelineLimit); err != nil {
			return err
		}
	}
	return nil
}

// dropLowConfidence removes components below the configured threshold and
// any connections left referencing them.
func dropLowConfidence(result *scan.Result, threshold float64) {
	if threshold <= 0 {
		return
	}
	kept := result.Components[:0]
	removed := make(map[string]bool)
	for _, c := range result.Components {
		if c.Source.Confidence >= threshold {
			kept = append(kept, c)
		} else {
			removed[c.ID] = true
		}
	}
	result.Components = kept

	keptConns := result.Connections[:0]
	for _, conn := range result.Connections {
		if removed[conn.From.ComponentID] || removed[conn.To.ComponentID] {
			continue
		}
		keptConns = append(keptConns, conn)
	}
	result.Connections = keptConns

	if len(removed) > 0 {
		fmt.Fprintf(os.Stderr, "dropped %d low-confidence components\n", len(removed))
	}
}
