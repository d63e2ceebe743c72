// Package impact answers "what breaks if this component changes": direct
// dependents, one hop of transitive dependents, and an ordinal severity.
package impact

import (
	"fmt"
	"strings"

	"archmap/internal/graph"
	"archmap/internal/model"
)

// DependentKind distinguishes how an affected component reaches the target
type DependentKind string

const (
	// KindDirect means the component connects straight to the target
	KindDirect DependentKind = "direct"
	// KindTransitive means the component connects to a direct dependent
	KindTransitive DependentKind = "transitive"
)

// Affected is one component that would be impacted by changing the target
type Affected struct {
	ComponentID string               `json:"componentId"`
	Name        string               `json:"name"`
	Kind        DependentKind        `json:"kind"`
	Via         model.ConnectionType `json:"via"`
	File        string               `json:"file,omitempty"`
	Message     string               `json:"message"`
}

// Analysis is the full result of an impact query
type Analysis struct {
	Target             model.CompactComponent `json:"target"`
	Severity           model.Severity         `json:"severity"`
	Affected           []Affected             `json:"affected"`
	DirectCount        int                    `json:"directCount"`
	TransitiveCount    int                    `json:"transitiveCount"`
	TotalFilesAffected int                    `json:"totalFilesAffected"`
	Summary            string                 `json:"summary"`
}

// Analyze computes the impact of changing the given component. The graph is
// treated as read-only; results are freshly allocated.
//
// Direct dependents are every component with a connection into the target.
// Transitive dependents are one hop beyond each direct dependent, excluding
// the target itself and anything already counted as direct — this prevents
// double-counting and self-loops on cyclic graphs. Severity is computed
// from the direct dependent count only.
func Analyze(component *model.Component, g *graph.Graph) (*Analysis, error) {
	if component == nil {
		return nil, fmt.Errorf("component cannot be nil")
	}

	result := &Analysis{
		Target:   model.CompactView(component),
		Affected: make([]Affected, 0),
	}

	directIDs := make(map[string]bool)
	files := make(map[string]bool)

	// Direct dependents: connections whose To is the target.
	for _, conn := range g.Incoming(component.ID) {
		fromID := conn.From.ComponentID
		if fromID == component.ID {
			continue // self-loop
		}
		name := g.NameOf(fromID)
		file := originFile(conn)
		if file != "" {
			files[file] = true
		}
		if !directIDs[fromID] {
			directIDs[fromID] = true
			result.Affected = append(result.Affected, Affected{
				ComponentID: fromID,
				Name:        name,
				Kind:        KindDirect,
				Via:         conn.Type,
				File:        file,
				Message:     fmt.Sprintf("%s depends on %s via %s", name, component.Name, conn.Type),
			})
		}
	}
	result.DirectCount = len(directIDs)

	// Transitive dependents: one hop behind each direct dependent.
	transitiveIDs := make(map[string]bool)
	for _, direct := range result.Affected {
		for _, conn := range g.Incoming(direct.ComponentID) {
			fromID := conn.From.ComponentID
			if fromID == component.ID || directIDs[fromID] || transitiveIDs[fromID] {
				continue
			}
			transitiveIDs[fromID] = true
			name := g.NameOf(fromID)
			file := originFile(conn)
			if file != "" {
				files[file] = true
			}
			result.Affected = append(result.Affected, Affected{
				ComponentID: fromID,
				Name:        name,
				Kind:        KindTransitive,
				Via:         conn.Type,
				File:        file,
				Message:     fmt.Sprintf("%s is affected through %s", name, direct.Name),
			})
		}
	}
	result.TransitiveCount = len(transitiveIDs)
	result.TotalFilesAffected = len(files)

	result.Severity = ComputeSeverity(component, result.DirectCount)
	result.Summary = summarize(result)

	return result, nil
}

func summarize(a *Analysis) string {
	if a.DirectCount == 0 {
		return fmt.Sprintf("%s: %s has zero direct dependents",
			strings.ToUpper(string(a.Severity)), a.Target.Name)
	}
	return fmt.Sprintf("%s: %d direct dependents, %d transitive, %d files affected",
		strings.ToUpper(string(a.Severity)), a.DirectCount, a.TransitiveCount, a.TotalFilesAffected)
}

// originFile extracts the origin file of a connection, preferring the code
// reference over the From endpoint location.
func originFile(conn *model.Connection) string {
	if conn.CodeReference != nil && conn.CodeReference.File != "" {
		return conn.CodeReference.File
	}
	return conn.From.File
}
