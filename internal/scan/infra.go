package scan

import (
	"context"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"archmap/internal/identity"
	"archmap/internal/model"
	"archmap/internal/sigtables"
)

// InfraScanner detects infrastructure components from deployment files:
// docker-compose services, Kubernetes manifests, and Dockerfiles. Images
// resolve against the infra signature table; unknown images still become
// service components so the deploy topology stays visible.
type InfraScanner struct{}

// NewInfraScanner creates an infra scanner
func NewInfraScanner() *InfraScanner { return &InfraScanner{} }

// Name implements Scanner
func (s *InfraScanner) Name() string { return "infra" }

// Scan implements Scanner
func (s *InfraScanner) Scan(ctx context.Context, files []SourceFile) (*Result, error) {
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
		base := baseName(f.Path)
		switch {
		case strings.HasPrefix(base, "docker-compose") && hasExt(f.Path, ".yml", ".yaml"):
			s.scanCompose(f, result, now)
		case base == "Dockerfile" || strings.HasPrefix(base, "Dockerfile."):
			s.scanDockerfile(f, result, now)
		case hasExt(f.Path, ".yml", ".yaml"):
			s.scanKubernetes(f, result, now)
		}
	}
	return result, nil
}

type composeFile struct {
	Services map[string]composeService `yaml:"services"`
}

type composeService struct {
	Image     string   `yaml:"image"`
	Build     any      `yaml:"build"`
	DependsOn any      `yaml:"depends_on"`
	Ports     []string `yaml:"ports"`
}

func (s *InfraScanner) scanCompose(f SourceFile, result *Result, now time.Time) {
	var compose composeFile
	if err := yaml.Unmarshal([]byte(f.Content), &compose); err != nil {
		result.Warnings = append(result.Warnings, Warning{
			File: f.Path, Scanner: s.Name(), Message: "unparseable compose file: " + err.Error(),
		})
		return
	}
	if len(compose.Services) == 0 {
		return
	}

	names := make([]string, 0, len(compose.Services))
	for name := range compose.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	created := make(map[string]*model.Component, len(names))
	for _, name := range names {
		svc := compose.Services[name]
		comp := s.componentForService(name, svc.Image, f.Path, now)
		created[name] = comp
		result.Components = append(result.Components, comp)
	}

	// depends_on edges become deploys-to connections between services.
	for _, name := range names {
		svc := compose.Services[name]
		from := created[name]
		for _, dep := range dependsOnNames(svc.DependsOn) {
			to, ok := created[dep]
			if !ok {
				continue
			}
			result.Connections = append(result.Connections, &model.Connection{
				ID:   identity.NewConnectionID(string(model.ConnDeploysTo)),
				From: model.Endpoint{ComponentID: from.ID, File: f.Path},
				To:   model.Endpoint{ComponentID: to.ID},
				Type: model.ConnDeploysTo,
				CodeReference: &model.CodeReference{
					File:       f.Path,
					Symbol:     name,
					SymbolType: "service",
				},
				Semantic:     &model.Semantic{Classification: model.ClassProduction, Confidence: 0.9},
				Description:  name + " depends on " + dep,
				DetectedFrom: "infra",
				Confidence:   0.9,
				Timestamp:    now,
				LastVerified: now,
			})
		}
	}
}

func (s *InfraScanner) componentForService(name, image, configFile string, now time.Time) *model.Component {
	componentType := model.TypeService
	layer := model.LayerBackend
	purpose := "containerized service"
	critical := false
	confidence := 0.75

	if image != "" {
		if sig, ok := sigtables.LookupImage(image); ok {
			componentType = sig.Type
			layer = sig.Layer
			purpose = sig.Purpose
			critical = true
			confidence = 0.95
		}
	}

	return &model.Component{
		ID:      identity.NewComponentID(string(componentType), name),
		Name:    name,
		Version: imageTag(image),
		Type:    componentType,
		Role:    model.Role{Purpose: purpose, Layer: layer, Critical: critical},
		Source: model.Source{
			DetectionMethod: "infra",
			ConfigFiles:     []string{configFile},
			Confidence:      confidence,
		},
		Status:      model.StatusActive,
		Metadata:    map[string]interface{}{"image": image},
		Timestamp:   now,
		LastUpdated: now,
	}
}

type k8sManifest struct {
	Kind     string `yaml:"kind"`
	Metadata struct {
		Name string `yaml:"name"`
	} `yaml:"metadata"`
	Spec struct {
		Template struct {
			Spec struct {
				Containers []struct {
					Name  string `yaml:"name"`
					Image string `yaml:"image"`
				} `yaml:"containers"`
			} `yaml:"spec"`
		} `yaml:"template"`
	} `yaml:"spec"`
}

var k8sWorkloadKinds = map[string]bool{
	"Deployment": true, "StatefulSet": true, "DaemonSet": true,
	"Job": true, "CronJob": true,
}

func (s *InfraScanner) scanKubernetes(f SourceFile, result *Result, now time.Time) {
	// Multi-document manifests are common; undecodable documents are
	// ignored silently since most YAML in a repo is not Kubernetes.
	for _, doc := range strings.Split(f.Content, "\n---") {
		var manifest k8sManifest
		if err := yaml.Unmarshal([]byte(doc), &manifest); err != nil {
			continue
		}
		if !k8sWorkloadKinds[manifest.Kind] || manifest.Metadata.Name == "" {
			continue
		}
		name := manifest.Metadata.Name
		image := ""
		if containers := manifest.Spec.Template.Spec.Containers; len(containers) > 0 {
			image = containers[0].Image
		}
		comp := s.componentForService(name, image, f.Path, now)
		comp.Tags = []string{"kubernetes", strings.ToLower(manifest.Kind)}
		result.Components = append(result.Components, comp)
	}
}

func (s *InfraScanner) scanDockerfile(f SourceFile, result *Result, now time.Time) {
	for i, line := range strings.Split(f.Content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(strings.ToUpper(trimmed), "FROM ") {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			continue
		}
		image := fields[1]
		if image == "scratch" {
			continue
		}
		sig, known := sigtables.LookupImage(image)
		if !known {
			continue // base build images are not architecture components
		}
		comp := &model.Component{
			ID:      identity.NewComponentID(string(sig.Type), sig.Name),
			Name:    sig.Name,
			Version: imageTag(image),
			Type:    sig.Type,
			Role:    model.Role{Purpose: sig.Purpose, Layer: sig.Layer, Critical: true},
			Source: model.Source{
				DetectionMethod: "infra",
				ConfigFiles:     []string{f.Path},
				Confidence:      0.85,
			},
			Status:      model.StatusActive,
			Timestamp:   now,
			LastUpdated: now,
		}
		result.Components = append(result.Components, comp)
		result.Connections = append(result.Connections, &model.Connection{
			ID:   identity.NewConnectionID(string(model.ConnDeploysTo)),
			From: model.Endpoint{ComponentID: model.FilePlaceholderPrefix + f.Path, File: f.Path, Line: i + 1},
			To:   model.Endpoint{ComponentID: comp.ID},
			Type: model.ConnDeploysTo,
			CodeReference: &model.CodeReference{
				File:       f.Path,
				Symbol:     image,
				SymbolType: "image",
				LineStart:  i + 1,
				LineEnd:    i + 1,
			},
			Semantic:     &model.Semantic{Classification: model.ClassProduction, Confidence: 0.9},
			Description:  "built on " + image,
			DetectedFrom: "infra",
			Confidence:   0.85,
			Timestamp:    now,
			LastVerified: now,
		})
	}
}

// dependsOnNames handles both compose depends_on forms: a plain list and
// the condition-map form.
func dependsOnNames(dependsOn any) []string {
	var names []string
	switch v := dependsOn.(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}
	case map[string]any:
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	return names
}

func imageTag(image string) string {
	idx := strings.LastIndex(image, ":")
	if idx < 0 || strings.Contains(image[idx:], "/") {
		return ""
	}
	return image[idx+1:]
}
