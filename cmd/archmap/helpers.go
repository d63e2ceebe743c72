package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"archmap/internal/config"
	"archmap/internal/graph"
	"archmap/internal/logging"
	"archmap/internal/model"
	"archmap/internal/paths"
	"archmap/internal/resolve"
	"archmap/internal/scan"
	"archmap/internal/storage"
)

// newLogger builds a logger from the loaded config, forced to JSON when the
// output format is JSON so log lines never interleave with the payload.
func newLogger(cfg *config.Config, outputFormat string) *logging.Logger {
	format := logging.Format(cfg.Logging.Format)
	if outputFormat == string(FormatJSON) {
		format = logging.JSONFormat
	}
	return logging.NewLogger(logging.Config{
		Format: format,
		Level:  logging.LogLevel(cfg.Logging.Level),
	})
}

// flagOrConfig returns the flag value when the user set the flag on the
// command line, and the configured value otherwise.
func flagOrConfig(cmd *cobra.Command, name string, flagVal, cfgVal int) int {
	if cmd.Flags().Changed(name) {
		return flagVal
	}
	return cfgVal
}

func projectRoot() (string, error) {
	abs, err := filepath.Abs(rootFlag)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project root: %w", err)
	}
	return abs, nil
}

func loadConfig(root string) (*config.Config, error) {
	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadedGraph bundles everything a query command needs from storage
type loadedGraph struct {
	db      *storage.DB
	result  *scan.Result
	graph   *graph.Graph
	fileMap map[string]string
}

// openGraph opens storage and loads the latest scan into a query graph.
// The caller must Close the returned db.
func openGraph(root string, logger *logging.Logger) (*loadedGraph, error) {
	db, err := storage.Open(root, logger)
	if err != nil {
		return nil, err
	}
	result, err := db.LoadLatestScanRun()
	if err != nil {
		db.Close()
		return nil, err
	}
	if result == nil {
		db.Close()
		return nil, fmt.Errorf("no scan found; run 'archmap scan' first")
	}
	return &loadedGraph{
		db:      db,
		result:  result,
		graph:   graph.Build(result.Components, result.Connections),
		fileMap: buildFileMap(result.Components),
	}, nil
}

func (lg *loadedGraph) Close() {
	lg.db.Close()
}

// buildFileMap maps normalized config-file paths onto component ids so
// queries can name a component by one of the files it was detected from.
func buildFileMap(components []*model.Component) map[string]string {
	fileMap := make(map[string]string)
	for _, c := range components {
		for _, f := range c.Source.ConfigFiles {
			key := paths.NormalizePath(f)
			if _, taken := fileMap[key]; !taken {
				fileMap[key] = c.ID
			}
		}
	}
	return fileMap
}

// resolveComponent resolves a user-supplied query to a single component,
// with candidate suggestions in the error when nothing matches.
func resolveComponent(query string, lg *loadedGraph) (*model.Component, error) {
	if c := resolve.Resolve(query, lg.result.Components, lg.fileMap); c != nil {
		return c, nil
	}
	candidates := resolve.FindCandidates(query, lg.result.Components, resolve.DefaultMaxCandidates)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no component matches %q", query)
	}
	names := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		names = append(names, cand.Component.Name)
	}
	return nil, fmt.Errorf("no component matches %q; did you mean one of %v", query, names)
}
