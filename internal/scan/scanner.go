// Package scan implements the detection pipeline: signature-table-driven
// scanners that find components and the connections between them in raw
// source text. Scanners are heuristic by design — no AST, no type checker —
// and trade recall for precision: extraction only starts from a verified
// anchor, never from "this text looks interesting".
package scan

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"archmap/internal/logging"
	"archmap/internal/model"
)

// SourceFile is one enumerated source file handed to the scanners. Path is
// project-relative with forward slashes.
type SourceFile struct {
	Path    string
	Content string
}

// Warning records a non-fatal scan problem. Unreadable files, unparseable
// manifests, and low-confidence detections are warnings; scanning continues.
type Warning struct {
	File    string `json:"file,omitempty"`
	Scanner string `json:"scanner,omitempty"`
	Message string `json:"message"`
}

// Result is the output of one scanner or of a whole run
type Result struct {
	Components  []*model.Component  `json:"components"`
	Connections []*model.Connection `json:"connections"`
	Warnings    []Warning           `json:"warnings,omitempty"`
}

// Scanner detects components and connections in a set of source files.
// Implementations must be pure over the supplied contents: no disk access,
// no mutation of shared state.
type Scanner interface {
	Name() string
	Scan(ctx context.Context, files []SourceFile) (*Result, error)
}

// Options bounds a scan run
type Options struct {
	Workers     int           // concurrent scanners; <=0 means 4
	ScanTimeout time.Duration // whole-run budget; <=0 means no timeout
}

// Runner fans the file set out across scanners and merges their results
type Runner struct {
	scanners []Scanner
	logger   *logging.Logger
}

// NewRunner creates a runner over the given scanners
func NewRunner(scanners []Scanner, logger *logging.Logger) *Runner {
	return &Runner{scanners: scanners, logger: logger}
}

// DefaultScanners returns the standard scanner set
func DefaultScanners() []Scanner {
	return []Scanner{
		NewDeclaredScanner(),
		NewManifestScanner(),
		NewInfraScanner(),
		NewImportScanner(),
		NewCallTracer(),
	}
}

// Run executes every scanner against the file set. Scanners run
// concurrently with per-scanner local accumulation; results merge once at
// the end, so the shared lists never see interleaved partial writes. A
// failing scanner degrades to a warning rather than failing the run.
func (r *Runner) Run(ctx context.Context, files []SourceFile, opts Options) (*Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	if opts.ScanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.ScanTimeout)
		defer cancel()
	}

	results := make([]*Result, len(r.scanners))
	var warnMu sync.Mutex
	var runWarnings []Warning

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, scanner := range r.scanners {
		i, scanner := i, scanner
		g.Go(func() error {
			res, err := scanner.Scan(gctx, files)
			if err != nil {
				warnMu.Lock()
				runWarnings = append(runWarnings, Warning{
					Scanner: scanner.Name(),
					Message: "scanner failed: " + err.Error(),
				})
				warnMu.Unlock()
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := mergeResults(results)
	merged.Warnings = append(merged.Warnings, runWarnings...)

	if err := wireAndValidate(merged); err != nil {
		return nil, err
	}

	if r.logger != nil {
		r.logger.Info("Scan completed", map[string]interface{}{
			"files":       len(files),
			"components":  len(merged.Components),
			"connections": len(merged.Connections),
			"warnings":    len(merged.Warnings),
		})
	}
	return merged, nil
}

// mergeResults concatenates scanner outputs and deduplicates components by
// semantic key (name, type), keeping the higher-confidence record and
// remapping connection endpoints onto the surviving id. Scanner order is
// fixed, so the merge is deterministic.
func mergeResults(results []*Result) *Result {
	merged := &Result{
		Components:  []*model.Component{},
		Connections: []*model.Connection{},
	}
	canonical := make(map[string]*model.Component) // semantic key -> survivor
	remap := make(map[string]string)               // duplicate id -> survivor id

	for _, res := range results {
		if res == nil {
			continue
		}
		merged.Warnings = append(merged.Warnings, res.Warnings...)
		for _, c := range res.Components {
			key := c.SemanticKey()
			existing, dup := canonical[key]
			if !dup {
				canonical[key] = c
				merged.Components = append(merged.Components, c)
				continue
			}
			remap[c.ID] = existing.ID
			if c.Source.Confidence > existing.Source.Confidence {
				existing.Source.Confidence = c.Source.Confidence
				existing.Source.DetectionMethod = c.Source.DetectionMethod
			}
			existing.Source.ConfigFiles = mergeStrings(existing.Source.ConfigFiles, c.Source.ConfigFiles)
			if existing.Version == "" {
				existing.Version = c.Version
			}
		}
		merged.Connections = append(merged.Connections, res.Connections...)
	}

	for _, conn := range merged.Connections {
		if id, ok := remap[conn.From.ComponentID]; ok {
			conn.From.ComponentID = id
		}
		if id, ok := remap[conn.To.ComponentID]; ok {
			conn.To.ComponentID = id
		}
	}
	return merged
}

// wireAndValidate rebuilds the weak back-reference lists on every component
// and enforces the data-model invariants. A dangling connection is a broken
// contract and surfaces as a fatal error, not a warning.
func wireAndValidate(res *Result) error {
	known := make(map[string]bool, len(res.Components))
	byID := make(map[string]*model.Component, len(res.Components))
	for _, c := range res.Components {
		if err := model.ValidateComponent(c); err != nil {
			return err
		}
		known[c.ID] = true
		byID[c.ID] = c
		c.ConnectsTo = nil
		c.ConnectedFrom = nil
	}
	for _, conn := range res.Connections {
		if err := model.ValidateConnection(conn, known); err != nil {
			return err
		}
		if from := byID[conn.From.ComponentID]; from != nil {
			from.ConnectsTo = append(from.ConnectsTo, model.ConnectionRef{
				ConnectionID: conn.ID,
				ComponentID:  conn.To.ComponentID,
				Type:         conn.Type,
			})
		}
		if to := byID[conn.To.ComponentID]; to != nil {
			to.ConnectedFrom = append(to.ConnectedFrom, model.ConnectionRef{
				ConnectionID: conn.ID,
				ComponentID:  conn.From.ComponentID,
				Type:         conn.Type,
			})
		}
	}
	return nil
}

func mergeStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, s := range append(append([]string{}, a...), b...) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
