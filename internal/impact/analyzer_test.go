package impact

import (
	"strings"
	"testing"

	"archmap/internal/graph"
	"archmap/internal/model"
)

func component(id, name string, layer model.Layer) *model.Component {
	return &model.Component{
		ID:     id,
		Name:   name,
		Type:   model.TypeService,
		Role:   model.Role{Layer: layer},
		Status: model.StatusActive,
	}
}

func connection(id, from, to, file string) *model.Connection {
	return &model.Connection{
		ID:   id,
		From: model.Endpoint{ComponentID: from, File: file},
		To:   model.Endpoint{ComponentID: to},
		Type: model.ConnServiceCall,
	}
}

// a -> b -> db, c -> db. Impact of db: direct {b, c}, transitive {a}.
func buildTestGraph() *graph.Graph {
	components := []*model.Component{
		component("a", "frontend", model.LayerFrontend),
		component("b", "api", model.LayerBackend),
		component("c", "worker", model.LayerBackend),
		component("db", "postgres", model.LayerDatabase),
	}
	connections := []*model.Connection{
		connection("e1", "a", "b", "src/app.ts"),
		connection("e2", "b", "db", "src/api.ts"),
		connection("e3", "c", "db", "src/worker.ts"),
	}
	return graph.Build(components, connections)
}

func TestAnalyzeDirectAndTransitive(t *testing.T) {
	g := buildTestGraph()
	target := g.Component("db")
	analysis, err := Analyze(target, g)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if analysis.DirectCount != 2 {
		t.Errorf("Expected 2 direct dependents, got %d", analysis.DirectCount)
	}
	if analysis.TransitiveCount != 1 {
		t.Errorf("Expected 1 transitive dependent, got %d", analysis.TransitiveCount)
	}
	if analysis.TotalFilesAffected != 3 {
		t.Errorf("Expected 3 files affected, got %d", analysis.TotalFilesAffected)
	}
	if analysis.Severity != model.SeverityCritical {
		t.Errorf("Expected critical severity for database layer, got %s", analysis.Severity)
	}
	if !strings.HasPrefix(analysis.Summary, "CRITICAL: 2 direct dependents") {
		t.Errorf("Unexpected summary: %q", analysis.Summary)
	}
}

// A component must never appear as both direct and transitive.
func TestAnalyzeDisjointSets(t *testing.T) {
	components := []*model.Component{
		component("a", "a", model.LayerBackend),
		component("b", "b", model.LayerBackend),
		component("t", "target", model.LayerFrontend),
	}
	// a -> t directly, and a -> b -> t, so a is reachable both ways.
	connections := []*model.Connection{
		connection("e1", "a", "t", ""),
		connection("e2", "b", "t", ""),
		connection("e3", "a", "b", ""),
	}
	g := graph.Build(components, connections)

	analysis, err := Analyze(g.Component("t"), g)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	seen := make(map[string]DependentKind)
	for _, aff := range analysis.Affected {
		if prior, dup := seen[aff.ComponentID]; dup {
			t.Errorf("Component %s appears twice (%s and %s)", aff.ComponentID, prior, aff.Kind)
		}
		seen[aff.ComponentID] = aff.Kind
	}
	if seen["a"] != KindDirect {
		t.Errorf("Expected a to be direct, got %s", seen["a"])
	}
	if analysis.TransitiveCount != 0 {
		t.Errorf("Expected 0 transitive dependents, got %d", analysis.TransitiveCount)
	}
}

func TestAnalyzeZeroDependents(t *testing.T) {
	g := buildTestGraph()
	analysis, err := Analyze(g.Component("a"), g)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if analysis.DirectCount != 0 || analysis.TransitiveCount != 0 {
		t.Errorf("Expected no dependents, got %d direct, %d transitive",
			analysis.DirectCount, analysis.TransitiveCount)
	}
	if !strings.Contains(analysis.Summary, "zero direct dependents") {
		t.Errorf("Unexpected summary: %q", analysis.Summary)
	}
}

func TestAnalyzeSelfLoopIgnored(t *testing.T) {
	components := []*model.Component{component("s", "self", model.LayerBackend)}
	connections := []*model.Connection{connection("e1", "s", "s", "")}
	g := graph.Build(components, connections)

	analysis, err := Analyze(g.Component("s"), g)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if analysis.DirectCount != 0 {
		t.Errorf("Self-loop counted as dependent: %d", analysis.DirectCount)
	}
}

func TestAnalyzeNilComponent(t *testing.T) {
	g := buildTestGraph()
	if _, err := Analyze(nil, g); err == nil {
		t.Error("Expected error for nil component")
	}
}
