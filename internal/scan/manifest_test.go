package scan

import (
	"context"
	"testing"

	"archmap/internal/model"
)

func findComponent(result *Result, name string) *model.Component {
	for _, c := range result.Components {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestManifestScannerPackageJSON(t *testing.T) {
	content := `{
		"dependencies": {
			"react": "^18.2.0",
			"pg": "8.11.0",
			"some-internal-lib": "1.0.0"
		},
		"devDependencies": {
			"vitest": "~1.2.0"
		}
	}`
	scanner := NewManifestScanner()
	result, err := scanner.Scan(context.Background(), []SourceFile{
		{Path: "web/package.json", Content: content},
	})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	if len(result.Components) != 4 {
		t.Fatalf("Expected 4 components, got %d", len(result.Components))
	}

	react := findComponent(result, "react")
	if react == nil {
		t.Fatal("Expected react component")
	}
	if react.Type != model.TypeFramework {
		t.Errorf("Known signature must set type, got %s", react.Type)
	}
	if react.Version != "18.2.0" {
		t.Errorf("Expected range operator stripped, got %q", react.Version)
	}
	if react.Source.Confidence != 0.95 {
		t.Errorf("Known package confidence should be 0.95, got %f", react.Source.Confidence)
	}

	pg := findComponent(result, "pg")
	if pg == nil || pg.Role.Layer != model.LayerDatabase {
		t.Error("Expected pg on the database layer")
	}

	unknown := findComponent(result, "some-internal-lib")
	if unknown == nil {
		t.Fatal("Expected unknown package still detected")
	}
	if unknown.Type != model.TypeNpmPackage || unknown.Source.Confidence != 0.7 {
		t.Errorf("Unknown package should be generic npm-package at 0.7, got %s %f",
			unknown.Type, unknown.Source.Confidence)
	}

	// Dev dependency carries a dev-only semantic on its connection.
	devConn := false
	for _, conn := range result.Connections {
		if conn.CodeReference != nil && conn.CodeReference.Symbol == "vitest" {
			if conn.Semantic != nil && conn.Semantic.Classification == model.ClassDevOnly {
				devConn = true
			}
		}
	}
	if !devConn {
		t.Error("Expected vitest connection classified dev-only")
	}

	// Every connection starts at the manifest's file placeholder.
	for _, conn := range result.Connections {
		if conn.From.ComponentID != "file:web/package.json" {
			t.Errorf("Unexpected connection origin %s", conn.From.ComponentID)
		}
		if conn.Type != model.ConnUsesPackage {
			t.Errorf("Expected uses-package, got %s", conn.Type)
		}
	}
}

func TestManifestScannerGoMod(t *testing.T) {
	content := `module example.com/svc

go 1.22

require (
	github.com/gin-gonic/gin v1.9.1
	github.com/spf13/pflag v1.0.5 // indirect
)

require github.com/google/uuid v1.6.0
`
	scanner := NewManifestScanner()
	result, err := scanner.Scan(context.Background(), []SourceFile{
		{Path: "go.mod", Content: content},
	})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	if findComponent(result, "github.com/gin-gonic/gin") == nil {
		t.Error("Expected gin detected from require block")
	}
	if findComponent(result, "github.com/google/uuid") == nil {
		t.Error("Expected uuid detected from single-line require")
	}
	if findComponent(result, "github.com/spf13/pflag") != nil {
		t.Error("Indirect dependency must be skipped")
	}
}

func TestManifestScannerRequirements(t *testing.T) {
	content := `# api deps
Django==4.2.1
celery >= 5.3
-r other.txt

flask
`
	scanner := NewManifestScanner()
	result, err := scanner.Scan(context.Background(), []SourceFile{
		{Path: "requirements.txt", Content: content},
	})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	django := findComponent(result, "django")
	if django == nil {
		t.Fatal("Expected django (lowercased) detected")
	}
	if django.Version != "4.2.1" {
		t.Errorf("Expected version 4.2.1, got %q", django.Version)
	}
	if findComponent(result, "celery") == nil || findComponent(result, "flask") == nil {
		t.Error("Expected celery and flask detected")
	}
	if len(result.Components) != 3 {
		t.Errorf("Expected 3 components, got %d", len(result.Components))
	}
}

func TestManifestScannerMalformedJSON(t *testing.T) {
	scanner := NewManifestScanner()
	result, err := scanner.Scan(context.Background(), []SourceFile{
		{Path: "package.json", Content: "{not json"},
	})
	if err != nil {
		t.Fatalf("Malformed manifest must warn, not fail: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("Expected 1 warning, got %d", len(result.Warnings))
	}
	if len(result.Components) != 0 {
		t.Errorf("Expected no components from malformed manifest")
	}
}

// Identical manifest input yields components in identical order.
func TestManifestScannerDeterministicOrder(t *testing.T) {
	content := `{"dependencies": {"zlib-wrap": "1.0.0", "axios": "1.6.0", "mongoose": "8.0.0"}}`
	scanner := NewManifestScanner()

	var firstOrder []string
	for run := 0; run < 5; run++ {
		result, err := scanner.Scan(context.Background(), []SourceFile{
			{Path: "package.json", Content: content},
		})
		if err != nil {
			t.Fatalf("Scan returned error: %v", err)
		}
		var order []string
		for _, c := range result.Components {
			order = append(order, c.Name)
		}
		if run == 0 {
			firstOrder = order
			continue
		}
		for i := range order {
			if order[i] != firstOrder[i] {
				t.Fatalf("Component order differs between runs: %v vs %v", order, firstOrder)
			}
		}
	}
}
