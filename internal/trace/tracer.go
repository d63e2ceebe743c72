// Package trace enumerates end-to-end dataflow paths through the component
// graph: a bounded breadth-first search over partial paths that reports every
// distinct route from a starting component.
package trace

import (
	"fmt"
	"strings"

	"archmap/internal/graph"
	"archmap/internal/model"
)

// Direction controls which edges a trace may follow
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
	DirectionBoth     Direction = "both"
)

// DefaultMaxDepth bounds path length when the caller does not say otherwise.
// This is a hard safety bound, not a feature: the per-path visited set stops
// infinite loops on cycles, but the number of distinct paths can still grow
// quickly in densely connected graphs.
const DefaultMaxDepth = 5

// Options configures a trace query. MaxDepth of 0 is meaningful (no
// traversal); negative means DefaultMaxDepth.
type Options struct {
	MaxDepth             int
	Direction            Direction      // defaults to forward
	ClassificationFilter Classification // optional: only follow matching connections
}

// Classification is an optional filter over connection semantics; empty
// means no filtering.
type Classification = model.Classification

// Hop is one traversed edge within a path
type Hop struct {
	ComponentID   string               `json:"componentId"`
	ComponentName string               `json:"componentName"`
	ConnectionID  string               `json:"connectionId"`
	Type          model.ConnectionType `json:"connectionType"`
	Reversed      bool                 `json:"reversed,omitempty"` // followed against edge direction
}

// Path is one finished dataflow path
type Path struct {
	Start          string               `json:"start"`
	Hops           []Hop                `json:"hops"`
	Classification model.Classification `json:"classification"`
	Description    string               `json:"description"`
}

// ComponentIDs returns the ordered id sequence of the path including start
func (p *Path) ComponentIDs() []string {
	ids := make([]string, 0, len(p.Hops)+1)
	ids = append(ids, p.Start)
	for _, h := range p.Hops {
		ids = append(ids, h.ComponentID)
	}
	return ids
}

// Result aggregates all discovered paths
type Result struct {
	Start             model.CompactComponent `json:"start"`
	Paths             []Path                 `json:"paths"`
	ComponentsTouched []string               `json:"componentsTouched"` // distinct ids, start first
	LayersCrossed     []model.Layer          `json:"layersCrossed"`     // distinct, first-seen order
}

// partialPath is the BFS work item. Each path carries its own visited set:
// disjoint paths may legitimately revisit a node through a different route,
// so a shared visited set would incorrectly prune valid alternates.
type partialPath struct {
	hops    []Hop
	visited map[string]bool
	last    string
}

// Trace enumerates dataflow paths from start. Processing is FIFO and
// connections are considered in input order, so path enumeration and
// classification tie-breaking are reproducible for identical input.
//
// A partial path is finalized when it reaches opts.MaxDepth or has no
// eligible next hop, but only once it has advanced past the start node.
// With MaxDepth of 0 the result has no paths and touches only the start.
func Trace(start *model.Component, g *graph.Graph, opts Options) (*Result, error) {
	if start == nil {
		return nil, fmt.Errorf("start component cannot be nil")
	}
	direction := opts.Direction
	if direction == "" {
		direction = DirectionForward
	}
	maxDepth := opts.MaxDepth
	if maxDepth < 0 {
		maxDepth = DefaultMaxDepth
	}

	result := &Result{
		Start:             model.CompactView(start),
		Paths:             make([]Path, 0),
		ComponentsTouched: []string{start.ID},
		LayersCrossed:     make([]model.Layer, 0),
	}
	touched := map[string]bool{start.ID: true}
	layerSeen := make(map[model.Layer]bool)
	markLayer := func(l model.Layer) {
		if !layerSeen[l] {
			layerSeen[l] = true
			result.LayersCrossed = append(result.LayersCrossed, l)
		}
	}
	markLayer(start.Role.Layer)

	if maxDepth == 0 {
		return result, nil
	}

	queue := []partialPath{{
		hops:    nil,
		visited: map[string]bool{start.ID: true},
		last:    start.ID,
	}}
	emitted := make(map[string]bool) // dedup by ordered id sequence

	emit := func(p partialPath) {
		if len(p.hops) == 0 {
			return // never left the start node
		}
		path := Path{Start: start.ID, Hops: p.hops}
		key := strings.Join(path.ComponentIDs(), ">")
		if emitted[key] {
			return
		}
		emitted[key] = true
		path.Classification = majorityClassification(g, p.hops)
		path.Description = describePath(start, p.hops)
		result.Paths = append(result.Paths, path)
		for _, h := range p.hops {
			if !touched[h.ComponentID] {
				touched[h.ComponentID] = true
				result.ComponentsTouched = append(result.ComponentsTouched, h.ComponentID)
			}
			if c := g.Component(h.ComponentID); c != nil {
				markLayer(c.Role.Layer)
			}
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if len(current.hops) >= maxDepth {
			emit(current)
			continue
		}

		advanced := false
		for _, next := range candidateHops(g, current.last, direction, opts.ClassificationFilter) {
			if current.visited[next.ComponentID] {
				continue
			}
			extended := partialPath{
				hops:    append(append([]Hop(nil), current.hops...), next),
				visited: copyVisited(current.visited),
				last:    next.ComponentID,
			}
			extended.visited[next.ComponentID] = true
			queue = append(queue, extended)
			advanced = true
		}
		if !advanced {
			emit(current)
		}
	}

	return result, nil
}

// candidateHops lists the eligible next hops from a component, outgoing
// first, in the adjacency lists' input order.
func candidateHops(g *graph.Graph, fromID string, direction Direction, filter Classification) []Hop {
	var hops []Hop
	if direction == DirectionForward || direction == DirectionBoth {
		for _, conn := range g.Outgoing(fromID) {
			if !classificationAllows(conn, filter) {
				continue
			}
			hops = append(hops, Hop{
				ComponentID:   conn.To.ComponentID,
				ComponentName: g.NameOf(conn.To.ComponentID),
				ConnectionID:  conn.ID,
				Type:          conn.Type,
			})
		}
	}
	if direction == DirectionBackward || direction == DirectionBoth {
		for _, conn := range g.Incoming(fromID) {
			if !classificationAllows(conn, filter) {
				continue
			}
			hops = append(hops, Hop{
				ComponentID:   conn.From.ComponentID,
				ComponentName: g.NameOf(conn.From.ComponentID),
				ConnectionID:  conn.ID,
				Type:          conn.Type,
				Reversed:      true,
			})
		}
	}
	return hops
}

func classificationAllows(conn *model.Connection, filter Classification) bool {
	if filter == "" {
		return true
	}
	if conn.Semantic == nil {
		return false
	}
	return conn.Semantic.Classification == filter
}

// majorityClassification tags a path with the most common classification
// among its traversed connections; ties break by first-seen order.
// Connections without semantics count as unknown.
func majorityClassification(g *graph.Graph, hops []Hop) model.Classification {
	counts := make(map[model.Classification]int)
	var order []model.Classification
	for _, h := range hops {
		class := model.ClassUnknown
		if conn := g.ConnectionByID(h.ConnectionID); conn != nil && conn.Semantic != nil {
			class = conn.Semantic.Classification
		}
		if counts[class] == 0 {
			order = append(order, class)
		}
		counts[class]++
	}
	best := model.ClassUnknown
	bestCount := -1
	for _, class := range order {
		if counts[class] > bestCount {
			best = class
			bestCount = counts[class]
		}
	}
	return best
}

func copyVisited(visited map[string]bool) map[string]bool {
	out := make(map[string]bool, len(visited)+1)
	for id := range visited {
		out[id] = true
	}
	return out
}

func describePath(start *model.Component, hops []Hop) string {
	parts := []string{start.Name}
	for _, h := range hops {
		parts = append(parts, h.ComponentName)
	}
	return strings.Join(parts, " -> ")
}
