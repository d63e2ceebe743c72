package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"archmap/internal/identity"
	"archmap/internal/model"
)

// DeclaredFile is the filename for hand-declared architecture entries.
// Declarations carry confidence 1.0 and win any merge against detected
// copies of the same component.
const DeclaredFile = "ARCHMAP.toml"

// ComponentDeclaration is one [[component]] entry in ARCHMAP.toml
type ComponentDeclaration struct {
	Name     string   `toml:"name"`
	Type     string   `toml:"type"`
	Version  string   `toml:"version"`
	Purpose  string   `toml:"purpose"`
	Layer    string   `toml:"layer"`
	Critical bool     `toml:"critical"`
	Tags     []string `toml:"tags"`
}

// ConnectionDeclaration is one [[connection]] entry. From and To name
// declared or detected components by name.
type ConnectionDeclaration struct {
	From        string `toml:"from"`
	To          string `toml:"to"`
	Type        string `toml:"type"`
	Description string `toml:"description"`
}

// declaredFile is the root structure of ARCHMAP.toml
type declaredFile struct {
	Version     int                     `toml:"version"`
	Components  []ComponentDeclaration  `toml:"component"`
	Connections []ConnectionDeclaration `toml:"connection"`
}

// DeclaredScanner turns ARCHMAP.toml declarations into components and
// connections. Declared connections resolve endpoint names after the
// cross-scanner merge, so they reference components by name placeholder
// until the runner wires them.
type DeclaredScanner struct{}

// NewDeclaredScanner creates a declared-components scanner
func NewDeclaredScanner() *DeclaredScanner { return &DeclaredScanner{} }

// Name implements Scanner
func (s *DeclaredScanner) Name() string { return "declared" }

// Scan implements Scanner
func (s *DeclaredScanner) Scan(ctx context.Context, files []SourceFile) (*Result, error) {
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
		if baseName(f.Path) != DeclaredFile {
			continue
		}

		var decl declaredFile
		if err := toml.Unmarshal([]byte(f.Content), &decl); err != nil {
			result.Warnings = append(result.Warnings, Warning{
				File: f.Path, Scanner: s.Name(),
				Message: "unparseable declaration file: " + err.Error(),
			})
			continue
		}

		byName := make(map[string]*model.Component, len(decl.Components))
		for i, cd := range decl.Components {
			comp, err := s.componentFrom(cd, f.Path, now)
			if err != nil {
				result.Warnings = append(result.Warnings, Warning{
					File: f.Path, Scanner: s.Name(),
					Message: fmt.Sprintf("component %d: %v", i+1, err),
				})
				continue
			}
			byName[comp.Name] = comp
			result.Components = append(result.Components, comp)
		}

		for i, cd := range decl.Connections {
			conn, err := s.connectionFrom(cd, byName, f.Path, now)
			if err != nil {
				result.Warnings = append(result.Warnings, Warning{
					File: f.Path, Scanner: s.Name(),
					Message: fmt.Sprintf("connection %d: %v", i+1, err),
				})
				continue
			}
			result.Connections = append(result.Connections, conn)
		}
	}
	return result, nil
}

func (s *DeclaredScanner) componentFrom(cd ComponentDeclaration, file string, now time.Time) (*model.Component, error) {
	if cd.Name == "" {
		return nil, fmt.Errorf("missing required 'name' field")
	}
	componentType := model.ComponentType(cd.Type)
	if cd.Type == "" {
		componentType = model.TypeService
	}
	layer := model.LayerBackend
	if cd.Layer != "" {
		parsed, err := model.ParseLayer(cd.Layer)
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", cd.Name, err)
		}
		layer = parsed
	}
	comp := &model.Component{
		ID:      identity.NewComponentID(string(componentType), cd.Name),
		Name:    cd.Name,
		Version: cd.Version,
		Type:    componentType,
		Role:    model.Role{Purpose: cd.Purpose, Layer: layer, Critical: cd.Critical},
		Source: model.Source{
			DetectionMethod: "declared",
			ConfigFiles:     []string{file},
			Confidence:      1.0,
		},
		Status:      model.StatusActive,
		Tags:        cd.Tags,
		Timestamp:   now,
		LastUpdated: now,
	}
	if err := model.ValidateComponent(comp); err != nil {
		return nil, err
	}
	return comp, nil
}

func (s *DeclaredScanner) connectionFrom(cd ConnectionDeclaration, byName map[string]*model.Component, file string, now time.Time) (*model.Connection, error) {
	if cd.From == "" || cd.To == "" {
		return nil, fmt.Errorf("missing required 'from' or 'to' field")
	}
	connType := model.ConnServiceCall
	if cd.Type != "" {
		connType = model.ConnectionType(cd.Type)
	}

	// Endpoints declared by name resolve against this file's components
	// first, then fall back to external placeholders so a declaration can
	// point at things no scanner detects.
	fromID := model.ExternalPlaceholderPrefix + cd.From
	if comp, ok := byName[cd.From]; ok {
		fromID = comp.ID
	}
	toID := model.ExternalPlaceholderPrefix + cd.To
	if comp, ok := byName[cd.To]; ok {
		toID = comp.ID
	}

	conn := &model.Connection{
		ID:   identity.NewConnectionID(string(connType)),
		From: model.Endpoint{ComponentID: fromID, File: file},
		To:   model.Endpoint{ComponentID: toID},
		Type: connType,
		CodeReference: &model.CodeReference{
			File:       file,
			Symbol:     cd.From + " -> " + cd.To,
			SymbolType: "declaration",
		},
		Semantic:     &model.Semantic{Classification: model.ClassProduction, Confidence: 1.0},
		Description:  cd.Description,
		DetectedFrom: "declared",
		Confidence:   1.0,
		Timestamp:    now,
		LastVerified: now,
	}

	known := make(map[string]bool, len(byName))
	for _, comp := range byName {
		known[comp.ID] = true
	}
	if err := model.ValidateConnection(conn, known); err != nil {
		return nil, err
	}
	return conn, nil
}
