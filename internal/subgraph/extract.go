// Package subgraph slices the component graph down to a focused view:
// an undirected BFS neighborhood around focus components, optionally
// filtered by layer and connection classification, truncated to a node
// budget, and projected into compact form.
package subgraph

import (
	"archmap/internal/graph"
	"archmap/internal/model"
	"archmap/internal/resolve"
)

// Defaults for the extraction bounds. MaxNodes is a hard safety bound on
// output size, not merely a feature.
const (
	DefaultDepth    = 2
	DefaultMaxNodes = 50
)

// Options configures a subgraph extraction
type Options struct {
	Focus          []string             // free-text component queries; empty means whole graph
	Layers         []model.Layer        // keep only these layers (applied after traversal)
	Classification model.Classification // keep only matching connections
	Depth          int                  // BFS hops from focus; negative means DefaultDepth
	MaxNodes       int                  // component budget; <=0 means DefaultMaxNodes
	FileMap        map[string]string    // optional path -> component id, for focus resolution
}

// Result is the extracted slice in compact projection form
type Result struct {
	Components  []model.CompactComponent  `json:"components"`
	Connections []model.CompactConnection `json:"connections"`
	NodeCount   int                       `json:"nodeCount"`
	EdgeCount   int                       `json:"edgeCount"`
	Truncated   bool                      `json:"truncated"`
}

// Extract builds the focused subgraph. Focus names that fail to resolve are
// skipped; if none resolve the result is explicitly empty, never an error.
// Component order follows the input component list, so truncation under
// MaxNodes is stable for identical input.
func Extract(g *graph.Graph, opts Options) *Result {
	depth := opts.Depth
	if depth < 0 {
		depth = DefaultDepth
	}
	maxNodes := opts.MaxNodes
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}

	included := make(map[string]bool)

	if len(opts.Focus) > 0 {
		seeds := make([]string, 0, len(opts.Focus))
		for _, q := range opts.Focus {
			if c := resolve.Resolve(q, g.Components(), opts.FileMap); c != nil {
				seeds = append(seeds, c.ID)
			}
		}
		if len(seeds) == 0 {
			return &Result{
				Components:  []model.CompactComponent{},
				Connections: []model.CompactConnection{},
			}
		}
		for id := range bfsNeighborhood(g, seeds, depth) {
			included[id] = true
		}
	} else {
		for _, c := range g.Components() {
			included[c.ID] = true
		}
	}

	// Layer filter applies after traversal so a focus component outside the
	// allowed layers still anchors the neighborhood it was asked about.
	if len(opts.Layers) > 0 {
		allowed := make(map[model.Layer]bool, len(opts.Layers))
		for _, l := range opts.Layers {
			allowed[l] = true
		}
		for id := range included {
			if c := g.Component(id); c == nil || !allowed[c.Role.Layer] {
				delete(included, id)
			}
		}
	}

	// Stable-ordered node list, truncated to budget.
	result := &Result{
		Components:  []model.CompactComponent{},
		Connections: []model.CompactConnection{},
	}
	kept := make(map[string]bool)
	for _, c := range g.Components() {
		if !included[c.ID] {
			continue
		}
		if len(result.Components) >= maxNodes {
			result.Truncated = true
			break
		}
		kept[c.ID] = true
		result.Components = append(result.Components, model.CompactView(c))
	}

	// Connections survive only when both endpoints survived truncation and
	// the classification filter admits them.
	for _, conn := range g.Connections() {
		if !kept[conn.From.ComponentID] || !kept[conn.To.ComponentID] {
			continue
		}
		if opts.Classification != "" {
			if conn.Semantic == nil || conn.Semantic.Classification != opts.Classification {
				continue
			}
		}
		result.Connections = append(result.Connections, model.CompactConnectionView(conn, g.NameOf))
	}

	result.NodeCount = len(result.Components)
	result.EdgeCount = len(result.Connections)
	return result
}

// bfsNeighborhood collects every component within depth undirected hops of
// the seed set. Depth 0 returns exactly the seeds.
func bfsNeighborhood(g *graph.Graph, seeds []string, depth int) map[string]bool {
	visited := make(map[string]bool, len(seeds))
	frontier := make([]string, 0, len(seeds))
	for _, id := range seeds {
		if !visited[id] {
			visited[id] = true
			frontier = append(frontier, id)
		}
	}

	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		var next []string
		for _, id := range frontier {
			for _, conn := range g.Outgoing(id) {
				if !visited[conn.To.ComponentID] {
					visited[conn.To.ComponentID] = true
					next = append(next, conn.To.ComponentID)
				}
			}
			for _, conn := range g.Incoming(id) {
				if !visited[conn.From.ComponentID] {
					visited[conn.From.ComponentID] = true
					next = append(next, conn.From.ComponentID)
				}
			}
		}
		frontier = next
	}

	return visited
}
