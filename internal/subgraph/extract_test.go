package subgraph

import (
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

func connection(id, from, to string) *model.Connection {
	return &model.Connection{
		ID:   id,
		From: model.Endpoint{ComponentID: from},
		To:   model.Endpoint{ComponentID: to},
		Type: model.ConnServiceCall,
	}
}

// a -> b -> c -> d, plus e isolated
func lineGraph() *graph.Graph {
	return graph.Build(
		[]*model.Component{
			component("a", "alpha", model.LayerFrontend),
			component("b", "beta", model.LayerBackend),
			component("c", "gamma", model.LayerDatabase),
			component("d", "delta", model.LayerInfra),
			component("e", "epsilon", model.LayerExternal),
		},
		[]*model.Connection{
			connection("e1", "a", "b"),
			connection("e2", "b", "c"),
			connection("e3", "c", "d"),
		},
	)
}

func TestExtractFocusNeighborhood(t *testing.T) {
	g := lineGraph()
	result := Extract(g, Options{Focus: []string{"beta"}, Depth: 1})

	names := make(map[string]bool)
	for _, c := range result.Components {
		names[c.Name] = true
	}
	for _, want := range []string{"alpha", "beta", "gamma"} {
		if !names[want] {
			t.Errorf("Expected %s in depth-1 neighborhood of beta", want)
		}
	}
	if names["delta"] || names["epsilon"] {
		t.Errorf("Unexpected components in neighborhood: %v", names)
	}
	if result.EdgeCount != 2 {
		t.Errorf("Expected 2 connections, got %d", result.EdgeCount)
	}
}

// Depth 0 keeps exactly the focus seeds.
func TestExtractDepthZero(t *testing.T) {
	g := lineGraph()
	result := Extract(g, Options{Focus: []string{"beta"}, Depth: 0, MaxNodes: 10})
	if result.NodeCount != 1 {
		t.Fatalf("Expected only the focus at depth 0, got %d nodes", result.NodeCount)
	}
	if result.Components[0].Name != "beta" {
		t.Errorf("Expected beta, got %s", result.Components[0].Name)
	}
	if result.EdgeCount != 0 {
		t.Errorf("Expected no connections at depth 0, got %d", result.EdgeCount)
	}
}

// An unresolvable focus yields an explicitly empty result, not an error
// and not the whole graph.
func TestExtractFocusNoMatch(t *testing.T) {
	g := lineGraph()
	result := Extract(g, Options{Focus: []string{"nonexistent"}})
	if result.NodeCount != 0 || result.EdgeCount != 0 {
		t.Errorf("Expected empty result, got %d nodes, %d edges",
			result.NodeCount, result.EdgeCount)
	}
	if result.Components == nil || result.Connections == nil {
		t.Error("Empty result must have non-nil slices")
	}
}

func TestExtractNoFocusWholeGraph(t *testing.T) {
	g := lineGraph()
	result := Extract(g, Options{})
	if result.NodeCount != 5 {
		t.Errorf("Expected whole graph (5 nodes), got %d", result.NodeCount)
	}
	if result.Truncated {
		t.Error("Whole graph under budget must not be truncated")
	}
}

func TestExtractMaxNodesTruncation(t *testing.T) {
	g := lineGraph()
	first := Extract(g, Options{MaxNodes: 2})
	if first.NodeCount != 2 {
		t.Fatalf("Expected 2 nodes, got %d", first.NodeCount)
	}
	if !first.Truncated {
		t.Error("Expected truncated flag")
	}
	// Truncation is stable: same input, same survivors.
	second := Extract(g, Options{MaxNodes: 2})
	for i := range first.Components {
		if first.Components[i].Name != second.Components[i].Name {
			t.Errorf("Truncation unstable at %d: %s vs %s",
				i, first.Components[i].Name, second.Components[i].Name)
		}
	}
	// Connections with a truncated endpoint are dropped.
	for _, conn := range first.Connections {
		if conn.From == "gamma" || conn.To == "gamma" {
			t.Errorf("Connection references truncated component: %+v", conn)
		}
	}
}

func TestExtractLayerFilter(t *testing.T) {
	g := lineGraph()
	result := Extract(g, Options{Layers: []model.Layer{model.LayerBackend, model.LayerDatabase}})
	if result.NodeCount != 2 {
		t.Fatalf("Expected 2 nodes after layer filter, got %d", result.NodeCount)
	}
	for _, c := range result.Components {
		if c.Layer != model.LayerBackend && c.Layer != model.LayerDatabase {
			t.Errorf("Component %s has filtered-out layer %s", c.Name, c.Layer)
		}
	}
}

func TestExtractClassificationFilter(t *testing.T) {
	prod := connection("e1", "a", "b")
	prod.Semantic = &model.Semantic{Classification: model.ClassProduction, Confidence: 0.9}
	test := connection("e2", "a", "b")
	test.Semantic = &model.Semantic{Classification: model.ClassTest, Confidence: 0.9}

	g := graph.Build(
		[]*model.Component{
			component("a", "a", model.LayerBackend),
			component("b", "b", model.LayerBackend),
		},
		[]*model.Connection{prod, test},
	)
	result := Extract(g, Options{Classification: model.ClassProduction})
	if result.EdgeCount != 1 {
		t.Errorf("Expected 1 production connection, got %d", result.EdgeCount)
	}
}
