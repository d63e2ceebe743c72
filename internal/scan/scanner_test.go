package scan

import (
	"context"
	"errors"
	"testing"
	"time"

	"archmap/internal/model"
)

func testComponent(id, name string, componentType model.ComponentType, confidence float64) *model.Component {
	return &model.Component{
		ID:     id,
		Name:   name,
		Type:   componentType,
		Role:   model.Role{Layer: model.LayerBackend},
		Source: model.Source{DetectionMethod: "test", Confidence: confidence},
		Status: model.StatusActive,
	}
}

func TestMergeResultsKeepsHigherConfidence(t *testing.T) {
	low := testComponent("comp-a", "pg", model.TypeDatabase, 0.6)
	low.Source.ConfigFiles = []string{"src/db.ts"}
	high := testComponent("comp-b", "pg", model.TypeDatabase, 0.95)
	high.Source.ConfigFiles = []string{"package.json"}
	high.Version = "8.11.0"

	conn := &model.Connection{
		ID:         "conn-1",
		From:       model.Endpoint{ComponentID: "file:src/db.ts"},
		To:         model.Endpoint{ComponentID: "comp-b"},
		Type:       model.ConnImports,
		Confidence: 0.6,
	}

	merged := mergeResults([]*Result{
		{Components: []*model.Component{low}, Connections: []*model.Connection{}},
		{Components: []*model.Component{high}, Connections: []*model.Connection{conn}},
	})

	if len(merged.Components) != 1 {
		t.Fatalf("Expected 1 merged component, got %d", len(merged.Components))
	}
	survivor := merged.Components[0]
	// First occurrence survives, carrying the best confidence seen.
	if survivor.ID != "comp-a" {
		t.Errorf("Expected first occurrence to survive, got %s", survivor.ID)
	}
	if survivor.Source.Confidence != 0.95 {
		t.Errorf("Expected confidence raised to 0.95, got %f", survivor.Source.Confidence)
	}
	if survivor.Version != "8.11.0" {
		t.Errorf("Expected version filled from the duplicate, got %q", survivor.Version)
	}
	if len(survivor.Source.ConfigFiles) != 2 {
		t.Errorf("Expected config files merged, got %v", survivor.Source.ConfigFiles)
	}
	// The duplicate's connections remap onto the survivor.
	if merged.Connections[0].To.ComponentID != "comp-a" {
		t.Errorf("Expected endpoint remapped to comp-a, got %s", merged.Connections[0].To.ComponentID)
	}
}

func TestMergeResultsSkipsNil(t *testing.T) {
	merged := mergeResults([]*Result{
		nil,
		{Components: []*model.Component{testComponent("comp-a", "redis", model.TypeDatabase, 0.9)}},
	})
	if len(merged.Components) != 1 {
		t.Errorf("Expected nil results skipped, got %d components", len(merged.Components))
	}
}

func TestWireAndValidateBackRefs(t *testing.T) {
	a := testComponent("comp-a", "api", model.TypeService, 0.9)
	b := testComponent("comp-b", "postgres", model.TypeDatabase, 0.9)
	res := &Result{
		Components: []*model.Component{a, b},
		Connections: []*model.Connection{{
			ID:         "conn-1",
			From:       model.Endpoint{ComponentID: "comp-a"},
			To:         model.Endpoint{ComponentID: "comp-b"},
			Type:       model.ConnAPICallsDB,
			Confidence: 0.9,
		}},
	}
	if err := wireAndValidate(res); err != nil {
		t.Fatalf("wireAndValidate returned error: %v", err)
	}
	if len(a.ConnectsTo) != 1 || a.ConnectsTo[0].ComponentID != "comp-b" {
		t.Errorf("Expected outgoing back-reference on a, got %+v", a.ConnectsTo)
	}
	if len(b.ConnectedFrom) != 1 || b.ConnectedFrom[0].ComponentID != "comp-a" {
		t.Errorf("Expected incoming back-reference on b, got %+v", b.ConnectedFrom)
	}
}

func TestWireAndValidateDanglingFatal(t *testing.T) {
	res := &Result{
		Components: []*model.Component{testComponent("comp-a", "api", model.TypeService, 0.9)},
		Connections: []*model.Connection{{
			ID:         "conn-1",
			From:       model.Endpoint{ComponentID: "comp-a"},
			To:         model.Endpoint{ComponentID: "comp-gone"},
			Type:       model.ConnServiceCall,
			Confidence: 0.9,
		}},
	}
	if err := wireAndValidate(res); err == nil {
		t.Error("Expected dangling connection to fail validation")
	}
}

// failingScanner always errors; the runner must degrade it to a warning.
type failingScanner struct{}

func (failingScanner) Name() string { return "broken" }
func (failingScanner) Scan(ctx context.Context, files []SourceFile) (*Result, error) {
	return nil, errors.New("boom")
}

func TestRunnerDegradesFailedScanner(t *testing.T) {
	runner := NewRunner([]Scanner{failingScanner{}, NewManifestScanner()}, nil)
	result, err := runner.Run(context.Background(), []SourceFile{
		{Path: "package.json", Content: `{"dependencies": {"react": "18.2.0"}}`},
	}, Options{})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	found := false
	for _, w := range result.Warnings {
		if w.Scanner == "broken" {
			found = true
		}
	}
	if !found {
		t.Error("Expected a warning from the failed scanner")
	}
	if findComponent(result, "react") == nil {
		t.Error("Expected surviving scanners to still contribute")
	}
}

func TestRunnerEndToEnd(t *testing.T) {
	files := []SourceFile{
		{Path: "package.json", Content: `{"dependencies": {"pg": "8.11.0"}}`},
		{Path: "src/db.ts", Content: `import { Pool } from 'pg'`},
	}
	runner := NewRunner(DefaultScanners(), nil)
	result, err := runner.Run(context.Background(), files, Options{Workers: 2, ScanTimeout: 30 * time.Second})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	var pgCount int
	var pg *model.Component
	for _, c := range result.Components {
		if c.Name == "pg" {
			pgCount++
			pg = c
		}
	}
	if pgCount != 1 {
		t.Fatalf("Expected pg merged to one component, got %d", pgCount)
	}
	// Manifest detection outranks import detection.
	if pg.Source.Confidence != 0.95 {
		t.Errorf("Expected merged confidence 0.95, got %f", pg.Source.Confidence)
	}

	if len(result.Connections) != 2 {
		t.Fatalf("Expected uses-package and imports connections, got %d", len(result.Connections))
	}
	for _, conn := range result.Connections {
		if conn.To.ComponentID != pg.ID {
			t.Errorf("Expected connection remapped to surviving pg id, got %s", conn.To.ComponentID)
		}
	}
	if len(pg.ConnectedFrom) != 2 {
		t.Errorf("Expected both connections wired as back-references, got %d", len(pg.ConnectedFrom))
	}
}
