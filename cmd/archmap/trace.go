package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"archmap/internal/model"
	"archmap/internal/trace"
)

var (
	traceFormat         string
	traceDepth          int
	traceDirection      string
	traceClassification string
)

var traceCmd = &cobra.Command{
	Use:   "trace <component>",
	Short: "Trace dataflow paths from a component",
	Long: `Trace dataflow paths through the architecture graph starting from a
component, following connection direction.

Examples:
  archmap trace api-gateway
  archmap trace postgres --direction=backward
  archmap trace frontend --depth=3 --classification=production`,
	Args: cobra.ExactArgs(1),
	RunE: runTrace,
}

func init() {
	traceCmd.Flags().StringVar(&traceFormat, "format", "human", "Output format (json, human)")
	traceCmd.Flags().IntVar(&traceDepth, "depth", trace.DefaultMaxDepth, "Maximum hops per path (default from config when unset)")
	traceCmd.Flags().StringVar(&traceDirection, "direction", "forward", "Traversal direction (forward, backward, both)")
	traceCmd.Flags().StringVar(&traceClassification, "classification", "", "Only follow connections with this classification")
	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, traceFormat)

	depth := flagOrConfig(cmd, "depth", traceDepth, cfg.Trace.MaxDepth)

	direction := trace.Direction(traceDirection)
	switch direction {
	case trace.DirectionForward, trace.DirectionBackward, trace.DirectionBoth:
	default:
		return fmt.Errorf("invalid direction %q", traceDirection)
	}

	lg, err := openGraph(root, logger)
	if err != nil {
		return err
	}
	defer lg.Close()

	start, err := resolveComponent(args[0], lg)
	if err != nil {
		return err
	}

	result, err := trace.Trace(start, lg.graph, trace.Options{
		MaxDepth:             depth,
		Direction:            direction,
		ClassificationFilter: model.Classification(traceClassification),
	})
	if err != nil {
		return err
	}

	output, err := FormatResponse(result, OutputFormat(traceFormat))
	if err != nil {
		return err
	}
	fmt.Println(output)
	return nil
}
