package trace

import (
	"reflect"
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

func connection(id, from, to string, class model.Classification) *model.Connection {
	conn := &model.Connection{
		ID:   id,
		From: model.Endpoint{ComponentID: from},
		To:   model.Endpoint{ComponentID: to},
		Type: model.ConnServiceCall,
	}
	if class != "" {
		conn.Semantic = &model.Semantic{Classification: class, Confidence: 0.9}
	}
	return conn
}

// linear chain: a -> b -> c
func chainGraph() *graph.Graph {
	return graph.Build(
		[]*model.Component{
			component("a", "frontend", model.LayerFrontend),
			component("b", "api", model.LayerBackend),
			component("c", "postgres", model.LayerDatabase),
		},
		[]*model.Connection{
			connection("e1", "a", "b", model.ClassProduction),
			connection("e2", "b", "c", model.ClassProduction),
		},
	)
}

func TestTraceLinearChain(t *testing.T) {
	g := chainGraph()
	result, err := Trace(g.Component("a"), g, Options{MaxDepth: -1})
	if err != nil {
		t.Fatalf("Trace returned error: %v", err)
	}

	if len(result.Paths) != 1 {
		t.Fatalf("Expected 1 path, got %d", len(result.Paths))
	}
	path := result.Paths[0]
	if got := path.ComponentIDs(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Unexpected path ids: %v", got)
	}
	if path.Description != "frontend -> api -> postgres" {
		t.Errorf("Unexpected description: %q", path.Description)
	}
	if path.Classification != model.ClassProduction {
		t.Errorf("Expected production classification, got %s", path.Classification)
	}
	expectedLayers := []model.Layer{model.LayerFrontend, model.LayerBackend, model.LayerDatabase}
	if !reflect.DeepEqual(result.LayersCrossed, expectedLayers) {
		t.Errorf("Unexpected layers crossed: %v", result.LayersCrossed)
	}
	if result.ComponentsTouched[0] != "a" {
		t.Errorf("Start must lead ComponentsTouched, got %v", result.ComponentsTouched)
	}
}

func TestTraceMaxDepthZero(t *testing.T) {
	g := chainGraph()
	result, err := Trace(g.Component("a"), g, Options{MaxDepth: 0})
	if err != nil {
		t.Fatalf("Trace returned error: %v", err)
	}
	if len(result.Paths) != 0 {
		t.Errorf("Expected no paths at depth 0, got %d", len(result.Paths))
	}
	if !reflect.DeepEqual(result.ComponentsTouched, []string{"a"}) {
		t.Errorf("Expected only the start touched, got %v", result.ComponentsTouched)
	}
}

func TestTraceMaxDepthTruncates(t *testing.T) {
	g := chainGraph()
	result, err := Trace(g.Component("a"), g, Options{MaxDepth: 1})
	if err != nil {
		t.Fatalf("Trace returned error: %v", err)
	}
	if len(result.Paths) != 1 {
		t.Fatalf("Expected 1 path, got %d", len(result.Paths))
	}
	if len(result.Paths[0].Hops) != 1 {
		t.Errorf("Expected 1 hop, got %d", len(result.Paths[0].Hops))
	}
}

func TestTraceCycleTerminates(t *testing.T) {
	g := graph.Build(
		[]*model.Component{
			component("a", "a", model.LayerBackend),
			component("b", "b", model.LayerBackend),
		},
		[]*model.Connection{
			connection("e1", "a", "b", ""),
			connection("e2", "b", "a", ""),
		},
	)
	result, err := Trace(g.Component("a"), g, Options{MaxDepth: 10})
	if err != nil {
		t.Fatalf("Trace returned error: %v", err)
	}
	// The per-path visited set stops the loop at one hop.
	if len(result.Paths) != 1 {
		t.Fatalf("Expected 1 path on a two-node cycle, got %d", len(result.Paths))
	}
	if got := result.Paths[0].ComponentIDs(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Unexpected cycle path: %v", got)
	}
}

func TestTraceBackward(t *testing.T) {
	g := chainGraph()
	result, err := Trace(g.Component("c"), g, Options{MaxDepth: -1, Direction: DirectionBackward})
	if err != nil {
		t.Fatalf("Trace returned error: %v", err)
	}
	if len(result.Paths) != 1 {
		t.Fatalf("Expected 1 backward path, got %d", len(result.Paths))
	}
	path := result.Paths[0]
	if got := path.ComponentIDs(); !reflect.DeepEqual(got, []string{"c", "b", "a"}) {
		t.Errorf("Unexpected backward path: %v", got)
	}
	for _, hop := range path.Hops {
		if !hop.Reversed {
			t.Errorf("Backward hop to %s not marked reversed", hop.ComponentID)
		}
	}
}

func TestTraceClassificationFilter(t *testing.T) {
	g := graph.Build(
		[]*model.Component{
			component("a", "a", model.LayerBackend),
			component("b", "b", model.LayerBackend),
			component("c", "c", model.LayerBackend),
		},
		[]*model.Connection{
			connection("e1", "a", "b", model.ClassProduction),
			connection("e2", "a", "c", model.ClassTest),
		},
	)
	result, err := Trace(g.Component("a"), g, Options{
		MaxDepth:             -1,
		ClassificationFilter: model.ClassProduction,
	})
	if err != nil {
		t.Fatalf("Trace returned error: %v", err)
	}
	if len(result.Paths) != 1 {
		t.Fatalf("Expected 1 filtered path, got %d", len(result.Paths))
	}
	if result.Paths[0].Hops[0].ComponentID != "b" {
		t.Errorf("Expected path through b, got %s", result.Paths[0].Hops[0].ComponentID)
	}
}

// Identical input must produce identical output across runs.
func TestTraceDeterministic(t *testing.T) {
	g := graph.Build(
		[]*model.Component{
			component("a", "a", model.LayerBackend),
			component("b", "b", model.LayerBackend),
			component("c", "c", model.LayerBackend),
			component("d", "d", model.LayerDatabase),
		},
		[]*model.Connection{
			connection("e1", "a", "b", ""),
			connection("e2", "a", "c", ""),
			connection("e3", "b", "d", ""),
			connection("e4", "c", "d", ""),
		},
	)
	first, err := Trace(g.Component("a"), g, Options{MaxDepth: -1})
	if err != nil {
		t.Fatalf("Trace returned error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Trace(g.Component("a"), g, Options{MaxDepth: -1})
		if err != nil {
			t.Fatalf("Trace returned error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Trace output differs between identical runs")
		}
	}
	if len(first.Paths) != 2 {
		t.Errorf("Expected 2 distinct paths, got %d", len(first.Paths))
	}
}

func TestTraceNilStart(t *testing.T) {
	g := chainGraph()
	if _, err := Trace(nil, g, Options{}); err == nil {
		t.Error("Expected error for nil start component")
	}
}
