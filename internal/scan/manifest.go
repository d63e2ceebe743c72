package scan

import (
	"context"
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"time"

	gotoml "github.com/pelletier/go-toml/v2"

	"archmap/internal/identity"
	"archmap/internal/model"
	"archmap/internal/sigtables"
)

// ManifestScanner parses dependency manifests (package.json, go.mod,
// requirements.txt, Cargo.toml, pyproject.toml) against the package
// signature tables. One or two passes: locate the manifest, read its
// dependency block — manifests carry no call arguments to extract.
type ManifestScanner struct{}

// NewManifestScanner creates a manifest scanner
func NewManifestScanner() *ManifestScanner { return &ManifestScanner{} }

// Name implements Scanner
func (s *ManifestScanner) Name() string { return "manifest" }

// Scan implements Scanner
func (s *ManifestScanner) Scan(ctx context.Context, files []SourceFile) (*Result, error) {
	result := &Result{
		Components:  []*model.Component{},
		Connections: []*model.Connection{},
	}
	now := time.Now().UTC()

	for _, f := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		switch baseName(f.Path) {
		case "package.json":
			s.scanPackageJSON(f, result, now)
		case "go.mod":
			s.scanGoMod(f, result, now)
		case "requirements.txt":
			s.scanRequirements(f, result, now)
		case "Cargo.toml":
			s.scanCargoToml(f, result, now)
		case "pyproject.toml":
			s.scanPyprojectToml(f, result, now)
		}
	}
	return result, nil
}

type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func (s *ManifestScanner) scanPackageJSON(f SourceFile, result *Result, now time.Time) {
	var manifest packageJSON
	if err := json.Unmarshal([]byte(f.Content), &manifest); err != nil {
		result.Warnings = append(result.Warnings, Warning{
			File: f.Path, Scanner: s.Name(), Message: "unparseable manifest: " + err.Error(),
		})
		return
	}
	for _, name := range sortedKeys(manifest.Dependencies) {
		s.addPackage(result, f.Path, model.TypeNpmPackage, name, cleanVersion(manifest.Dependencies[name]), false, now)
	}
	for _, name := range sortedKeys(manifest.DevDependencies) {
		s.addPackage(result, f.Path, model.TypeNpmPackage, name, cleanVersion(manifest.DevDependencies[name]), true, now)
	}
}

var goRequireRe = regexp.MustCompile(`^\s*([\w./-]+)\s+(v[\w.+-]+)(\s*//\s*indirect)?`)

func (s *ManifestScanner) scanGoMod(f SourceFile, result *Result, now time.Time) {
	inBlock := false
	for _, line := range strings.Split(f.Content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "require ("):
			inBlock = true
			continue
		case inBlock && trimmed == ")":
			inBlock = false
			continue
		case strings.HasPrefix(trimmed, "require "):
			trimmed = strings.TrimPrefix(trimmed, "require ")
		case !inBlock:
			continue
		}
		m := goRequireRe.FindStringSubmatch(trimmed)
		if m == nil || m[3] != "" { // skip indirect deps
			continue
		}
		s.addPackage(result, f.Path, model.TypeGoPackage, m[1], m[2], false, now)
	}
}

var requirementRe = regexp.MustCompile(`^\s*([A-Za-z0-9._-]+)\s*(?:[=<>!~]=?\s*([\w.]+))?`)

func (s *ManifestScanner) scanRequirements(f SourceFile, result *Result, now time.Time) {
	for _, line := range strings.Split(f.Content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "-") {
			continue
		}
		m := requirementRe.FindStringSubmatch(trimmed)
		if m == nil || m[1] == "" {
			continue
		}
		s.addPackage(result, f.Path, model.TypePythonPackage, strings.ToLower(m[1]), m[2], false, now)
	}
}

type cargoToml struct {
	Dependencies map[string]interface{} `toml:"dependencies"`
}

func (s *ManifestScanner) scanCargoToml(f SourceFile, result *Result, now time.Time) {
	var manifest cargoToml
	if err := gotoml.Unmarshal([]byte(f.Content), &manifest); err != nil {
		result.Warnings = append(result.Warnings, Warning{
			File: f.Path, Scanner: s.Name(), Message: "unparseable manifest: " + err.Error(),
		})
		return
	}
	for _, name := range sortedKeys(manifest.Dependencies) {
		version := ""
		switch v := manifest.Dependencies[name].(type) {
		case string:
			version = v
		case map[string]interface{}:
			if sv, ok := v["version"].(string); ok {
				version = sv
			}
		}
		s.addPackage(result, f.Path, model.TypeRustPackage, name, version, false, now)
	}
}

type pyprojectToml struct {
	Project struct {
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
}

func (s *ManifestScanner) scanPyprojectToml(f SourceFile, result *Result, now time.Time) {
	var manifest pyprojectToml
	if err := gotoml.Unmarshal([]byte(f.Content), &manifest); err != nil {
		result.Warnings = append(result.Warnings, Warning{
			File: f.Path, Scanner: s.Name(), Message: "unparseable manifest: " + err.Error(),
		})
		return
	}
	for _, dep := range manifest.Project.Dependencies {
		m := requirementRe.FindStringSubmatch(dep)
		if m == nil || m[1] == "" {
			continue
		}
		s.addPackage(result, f.Path, model.TypePythonPackage, strings.ToLower(m[1]), m[2], false, now)
	}
}

// addPackage synthesizes a package component plus a uses-package connection
// from the manifest's file-level pseudo-component. Known signatures take
// their table metadata; unknown packages become low-criticality entries on
// the layer the ecosystem suggests.
func (s *ManifestScanner) addPackage(result *Result, manifestPath string, ecosystem model.ComponentType, name, version string, dev bool, now time.Time) {
	sig, known := sigtables.LookupPackage(ecosystem, name)

	componentType := ecosystem
	layer := model.LayerBackend
	purpose := "dependency"
	critical := false
	confidence := 0.7
	if known {
		componentType = sig.Type
		layer = sig.Layer
		purpose = sig.Purpose
		critical = sig.Critical
		confidence = 0.95
	}
	if ecosystem == model.TypeNpmPackage && !known {
		layer = model.LayerFrontend
	}

	comp := &model.Component{
		ID:      identity.NewComponentID(string(componentType), name),
		Name:    name,
		Version: version,
		Type:    componentType,
		Role:    model.Role{Purpose: purpose, Layer: layer, Critical: critical},
		Source: model.Source{
			DetectionMethod: "manifest",
			ConfigFiles:     []string{manifestPath},
			Confidence:      confidence,
		},
		Status:      model.StatusActive,
		Timestamp:   now,
		LastUpdated: now,
	}
	if dev {
		comp.Tags = []string{"dev-dependency"}
	}
	result.Components = append(result.Components, comp)

	semantic := &model.Semantic{Classification: model.ClassProduction, Confidence: 0.8}
	if dev {
		semantic = &model.Semantic{Classification: model.ClassDevOnly, Confidence: 0.9}
	}
	result.Connections = append(result.Connections, &model.Connection{
		ID:   identity.NewConnectionID(string(model.ConnUsesPackage)),
		From: model.Endpoint{ComponentID: model.FilePlaceholderPrefix + manifestPath, File: manifestPath},
		To:   model.Endpoint{ComponentID: comp.ID},
		Type: model.ConnUsesPackage,
		CodeReference: &model.CodeReference{
			File:       manifestPath,
			Symbol:     name,
			SymbolType: "dependency",
		},
		Semantic:     semantic,
		Description:  "declared in " + manifestPath,
		DetectedFrom: "manifest",
		Confidence:   confidence,
		Timestamp:    now,
		LastVerified: now,
	})
}

// cleanVersion strips range operators from a manifest version spec
func cleanVersion(v string) string {
	return strings.TrimLeft(v, "^~><= ")
}

// sortedKeys returns map keys in sorted order so component output is
// deterministic for identical input.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
