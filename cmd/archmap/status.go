package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"archmap/internal/model"
	"archmap/internal/storage"
	"archmap/internal/version"
)

var statusFormat string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the architecture map",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(statusCmd)
}

// statusReport is the status command's output payload
type statusReport struct {
	Version     string                      `json:"version"`
	LastScan    *storage.ScanRunMeta        `json:"lastScan,omitempty"`
	Components  int                         `json:"components"`
	Connections int                         `json:"connections"`
	ByLayer     map[model.Layer]int         `json:"byLayer,omitempty"`
	ByType      map[model.ComponentType]int `json:"byType,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, statusFormat)

	report := &statusReport{Version: version.Version}

	lg, err := openGraph(root, logger)
	if err == nil {
		defer lg.Close()
		report.Components = len(lg.result.Components)
		report.Connections = len(lg.result.Connections)
		report.ByLayer = make(map[model.Layer]int)
		report.ByType = make(map[model.ComponentType]int)
		for _, c := range lg.result.Components {
			report.ByLayer[c.Role.Layer]++
			report.ByType[c.Type]++
		}
		if runs, err := lg.db.ListScanRuns(1); err == nil && len(runs) > 0 {
			report.LastScan = &runs[0]
		}
	}

	if OutputFormat(statusFormat) == FormatJSON {
		output, err := FormatResponse(report, FormatJSON)
		if err != nil {
			return err
		}
		fmt.Println(output)
		return nil
	}

	fmt.Println(formatStatusHuman(report))
	return nil
}

func formatStatusHuman(report *statusReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "archmap v%s\n", report.Version)
	b.WriteString(strings.Repeat("=", 60) + "\n")
	if report.LastScan == nil {
		b.WriteString("No scan recorded. Run 'archmap scan' to build the map.")
		return b.String()
	}
	fmt.Fprintf(&b, "Last scan:   %s\n", report.LastScan.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Components:  %d\n", report.Components)
	fmt.Fprintf(&b, "Connections: %d\n", report.Connections)
	if len(report.ByLayer) > 0 {
		b.WriteString("\nBy layer:\n")
		for _, layer := range []model.Layer{
			model.LayerFrontend, model.LayerBackend, model.LayerDatabase,
			model.LayerQueue, model.LayerInfra, model.LayerExternal,
		} {
			if n := report.ByLayer[layer]; n > 0 {
				fmt.Fprintf(&b, "  %-10s %d\n", layer, n)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
