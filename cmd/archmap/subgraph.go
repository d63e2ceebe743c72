package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"archmap/internal/model"
	"archmap/internal/subgraph"
)

var (
	subgraphFormat         string
	subgraphFocus          []string
	subgraphLayers         []string
	subgraphClassification string
	subgraphDepth          int
	subgraphMaxNodes       int
)

var subgraphCmd = &cobra.Command{
	Use:   "subgraph",
	Short: "Extract a focused slice of the architecture graph",
	Long: `Extract a bounded neighborhood of the architecture graph around one
or more focus components, optionally filtered by layer and classification.

Without --focus the whole graph is eligible, still bounded by --max-nodes.

Examples:
  archmap subgraph --focus=postgres
  archmap subgraph --focus=api,worker --depth=1
  archmap subgraph --layers=backend,database --classification=production`,
	RunE: runSubgraph,
}

func init() {
	subgraphCmd.Flags().StringVar(&subgraphFormat, "format", "human", "Output format (json, human)")
	subgraphCmd.Flags().StringSliceVar(&subgraphFocus, "focus", nil, "Focus components (id, name, or file path)")
	subgraphCmd.Flags().StringSliceVar(&subgraphLayers, "layers", nil, "Keep only these layers")
	subgraphCmd.Flags().StringVar(&subgraphClassification, "classification", "", "Keep only connections with this classification")
	subgraphCmd.Flags().IntVar(&subgraphDepth, "depth", subgraph.DefaultDepth, "Neighborhood depth around focus (default from config when unset)")
	subgraphCmd.Flags().IntVar(&subgraphMaxNodes, "max-nodes", subgraph.DefaultMaxNodes, "Node cap for the extracted slice (default from config when unset)")
	rootCmd.AddCommand(subgraphCmd)
}

func runSubgraph(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, subgraphFormat)

	depth := flagOrConfig(cmd, "depth", subgraphDepth, cfg.Subgraph.Depth)
	maxNodes := flagOrConfig(cmd, "max-nodes", subgraphMaxNodes, cfg.Subgraph.MaxNodes)

	lg, err := openGraph(root, logger)
	if err != nil {
		return err
	}
	defer lg.Close()

	layers := make([]model.Layer, 0, len(subgraphLayers))
	for _, l := range subgraphLayers {
		layer, err := model.ParseLayer(l)
		if err != nil {
			return err
		}
		layers = append(layers, layer)
	}

	result := subgraph.Extract(lg.graph, subgraph.Options{
		Focus:          subgraphFocus,
		Layers:         layers,
		Classification: model.Classification(subgraphClassification),
		Depth:          depth,
		MaxNodes:       maxNodes,
		FileMap:        lg.fileMap,
	})

	output, err := FormatResponse(result, OutputFormat(subgraphFormat))
	if err != nil {
		return err
	}
	fmt.Println(output)
	return nil
}
