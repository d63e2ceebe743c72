package scan

import (
	"context"
	"regexp"
	"strings"
	"time"

	"archmap/internal/identity"
	"archmap/internal/model"
	"archmap/internal/sigtables"
)

// ImportScanner walks source files for import statements and outbound HTTP
// calls. Imports of known packages produce imports connections anchored at
// the importing file. HTTP calls produce frontend-calls-api connections for
// relative /api paths and service-call connections for absolute URLs.
//
// Components emitted here carry lower confidence than manifest-detected
// ones; the merge step keeps whichever copy scored higher.
type ImportScanner struct{}

// NewImportScanner creates an import scanner
func NewImportScanner() *ImportScanner { return &ImportScanner{} }

// Name implements Scanner
func (s *ImportScanner) Name() string { return "imports" }

const importDetectionConfidence = 0.6

var (
	goImportBlockRe  = regexp.MustCompile(`(?s)import\s*\((.*?)\)`)
	goImportSingleRe = regexp.MustCompile(`(?m)^import\s+(?:\w+\s+)?"([^"]+)"`)
	goImportLineRe   = regexp.MustCompile(`"([^"]+)"`)
	rustUseRe        = regexp.MustCompile(`(?m)^\s*use\s+([\w]+)(?:::|;)`)
	fetchCallRe      = regexp.MustCompile(`fetch\(\s*` + "[`'\"]" + `([^'"` + "`" + `]+)`)
	httpClientCallRe = regexp.MustCompile(`(?:axios|got|ky)\s*(?:\.\s*(?:get|post|put|patch|delete|request))?\s*\(\s*` + "[`'\"]" + `([^'"` + "`" + `]+)`)
	absoluteURLRe    = regexp.MustCompile(`^https?://([^/\s]+)`)
)

// Scan implements Scanner
func (s *ImportScanner) Scan(ctx context.Context, files []SourceFile) (*Result, error) {
	result := &Result{
		Components:  []*model.Component{},
		Connections: []*model.Connection{},
	}
	now := time.Now().UTC()

	// Components dedup within this scanner by semantic key so one package
	// imported from fifty files yields one component and fifty connections.
	seen := make(map[string]*model.Component)

	for _, f := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		switch {
		case hasExt(f.Path, ".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"):
			s.scanJSImports(f, seen, result, now)
			s.scanHTTPCalls(f, seen, result, now)
		case hasExt(f.Path, ".py"):
			s.scanPythonImports(f, seen, result, now)
		case hasExt(f.Path, ".go"):
			s.scanGoImports(f, seen, result, now)
		case hasExt(f.Path, ".rs"):
			s.scanRustImports(f, seen, result, now)
		}
	}
	return result, nil
}

func (s *ImportScanner) scanJSImports(f SourceFile, seen map[string]*model.Component, result *Result, now time.Time) {
	for i, line := range strings.Split(f.Content, "\n") {
		if isCommentLine(line) {
			continue
		}
		var pkg string
		if m := importFromRe.FindStringSubmatch(line); m != nil {
			pkg = m[2]
		} else if m := requireRe.FindStringSubmatch(line); m != nil {
			pkg = m[2]
		} else if m := dynamicImportRe.FindStringSubmatch(line); m != nil {
			pkg = m[1]
		} else if m := importBareRe.FindStringSubmatch(line); m != nil {
			pkg = m[1]
		}
		if pkg == "" || strings.HasPrefix(pkg, ".") || strings.HasPrefix(pkg, "/") {
			continue
		}
		pkg = npmPackageRoot(pkg)
		s.recordImport(f, i+1, line, model.TypeNpmPackage, pkg, seen, result, now)
	}
}

func (s *ImportScanner) scanPythonImports(f SourceFile, seen map[string]*model.Component, result *Result, now time.Time) {
	for i, line := range strings.Split(f.Content, "\n") {
		m := pythonImportRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		pkg := m[1]
		if pkg == "" {
			pkg = m[3]
		}
		if pkg == "" || strings.HasPrefix(pkg, ".") {
			continue
		}
		if dot := strings.Index(pkg, "."); dot > 0 {
			pkg = pkg[:dot]
		}
		s.recordImport(f, i+1, line, model.TypePythonPackage, pkg, seen, result, now)
	}
}

func (s *ImportScanner) scanGoImports(f SourceFile, seen map[string]*model.Component, result *Result, now time.Time) {
	record := func(path string, lineNum int, line string) {
		// Stdlib paths have no dot in the first segment.
		first := path
		if i := strings.Index(path, "/"); i > 0 {
			first = path[:i]
		}
		if !strings.Contains(first, ".") {
			return
		}
		s.recordImport(f, lineNum, line, model.TypeGoPackage, goModuleRoot(path), seen, result, now)
	}

	if m := goImportBlockRe.FindStringSubmatchIndex(f.Content); m != nil {
		block := f.Content[m[2]:m[3]]
		startLine := 1 + strings.Count(f.Content[:m[2]], "\n")
		for i, line := range strings.Split(block, "\n") {
			if pm := goImportLineRe.FindStringSubmatch(line); pm != nil {
				record(pm[1], startLine+i, strings.TrimSpace(line))
			}
		}
	}
	for _, m := range goImportSingleRe.FindAllStringSubmatchIndex(f.Content, -1) {
		path := f.Content[m[2]:m[3]]
		lineNum := 1 + strings.Count(f.Content[:m[0]], "\n")
		record(path, lineNum, f.Content[m[0]:m[1]])
	}
}

func (s *ImportScanner) scanRustImports(f SourceFile, seen map[string]*model.Component, result *Result, now time.Time) {
	for i, line := range strings.Split(f.Content, "\n") {
		m := rustUseRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		crate := m[1]
		if crate == "crate" || crate == "self" || crate == "super" || crate == "std" || crate == "core" || crate == "alloc" {
			continue
		}
		// Crate names use hyphens in Cargo.toml but underscores in code.
		crate = strings.ReplaceAll(crate, "_", "-")
		s.recordImport(f, i+1, line, model.TypeRustPackage, crate, seen, result, now)
	}
}

func (s *ImportScanner) recordImport(f SourceFile, lineNum int, line string, ecosystem model.ComponentType, pkg string, seen map[string]*model.Component, result *Result, now time.Time) {
	sig, known := sigtables.LookupPackage(ecosystem, pkg)
	if !known {
		return // unknown imports stay invisible, manifests cover the full list
	}
	comp := s.ensureComponent(pkg, ecosystem, sig, f.Path, seen, result, now)

	result.Connections = append(result.Connections, &model.Connection{
		ID:   identity.NewConnectionID(string(model.ConnImports)),
		From: model.Endpoint{ComponentID: model.FilePlaceholderPrefix + f.Path, File: f.Path, Line: lineNum},
		To:   model.Endpoint{ComponentID: comp.ID},
		Type: model.ConnImports,
		CodeReference: &model.CodeReference{
			File:        f.Path,
			Symbol:      pkg,
			SymbolType:  "import",
			LineStart:   lineNum,
			LineEnd:     lineNum,
			CodeSnippet: truncate(strings.TrimSpace(line), snippetMaxLen),
		},
		Semantic:     &model.Semantic{Classification: classifyPath(f.Path), Confidence: importDetectionConfidence},
		DetectedFrom: "imports",
		Confidence:   importDetectionConfidence,
		Timestamp:    now,
		LastVerified: now,
	})
}

func (s *ImportScanner) ensureComponent(name string, ecosystem model.ComponentType, sig sigtables.PackageSignature, file string, seen map[string]*model.Component, result *Result, now time.Time) *model.Component {
	key := name + "|" + string(sig.Type)
	if comp, ok := seen[key]; ok {
		comp.Source.ConfigFiles = mergeStrings(comp.Source.ConfigFiles, []string{file})
		return comp
	}
	comp := &model.Component{
		ID:   identity.NewComponentID(string(sig.Type), name),
		Name: name,
		Type: sig.Type,
		Role: model.Role{Purpose: sig.Purpose, Layer: sig.Layer, Critical: sig.Critical},
		Source: model.Source{
			DetectionMethod: "imports",
			ConfigFiles:     []string{file},
			Confidence:      importDetectionConfidence,
		},
		Status:      model.StatusActive,
		Metadata:    map[string]interface{}{"ecosystem": string(ecosystem)},
		Timestamp:   now,
		LastUpdated: now,
	}
	seen[key] = comp
	result.Components = append(result.Components, comp)
	return comp
}

// scanHTTPCalls detects fetch/axios style call sites. Relative /api paths
// become api-endpoint components with frontend-calls-api edges; absolute
// URLs become external service components with service-call edges.
func (s *ImportScanner) scanHTTPCalls(f SourceFile, seen map[string]*model.Component, result *Result, now time.Time) {
	for i, line := range strings.Split(f.Content, "\n") {
		if isCommentLine(line) {
			continue
		}
		var url string
		if m := fetchCallRe.FindStringSubmatch(line); m != nil {
			url = m[1]
		} else if m := httpClientCallRe.FindStringSubmatch(line); m != nil {
			url = m[1]
		}
		if url == "" {
			continue
		}

		if m := absoluteURLRe.FindStringSubmatch(url); m != nil {
			host := m[1]
			if strings.HasPrefix(host, "localhost") || strings.HasPrefix(host, "127.0.0.1") {
				continue
			}
			s.recordHTTPCall(f, i+1, line, host, model.TypeService, model.LayerExternal,
				"external API at "+host, model.ConnServiceCall, seen, result, now)
			continue
		}
		if strings.HasPrefix(url, "/api/") || strings.HasPrefix(url, "/api?") || url == "/api" {
			route := routeName(url)
			s.recordHTTPCall(f, i+1, line, route, model.TypeAPIEndpoint, model.LayerBackend,
				"HTTP API endpoint", model.ConnFrontendCallsAPI, seen, result, now)
		}
	}
}

func (s *ImportScanner) recordHTTPCall(f SourceFile, lineNum int, line, name string, componentType model.ComponentType, layer model.Layer, purpose string, connType model.ConnectionType, seen map[string]*model.Component, result *Result, now time.Time) {
	key := name + "|" + string(componentType)
	comp, ok := seen[key]
	if !ok {
		comp = &model.Component{
			ID:   identity.NewComponentID(string(componentType), name),
			Name: name,
			Type: componentType,
			Role: model.Role{Purpose: purpose, Layer: layer},
			Source: model.Source{
				DetectionMethod: "imports",
				ConfigFiles:     []string{f.Path},
				Confidence:      0.7,
			},
			Status:      model.StatusActive,
			Timestamp:   now,
			LastUpdated: now,
		}
		seen[key] = comp
		result.Components = append(result.Components, comp)
	} else {
		comp.Source.ConfigFiles = mergeStrings(comp.Source.ConfigFiles, []string{f.Path})
	}

	result.Connections = append(result.Connections, &model.Connection{
		ID:   identity.NewConnectionID(string(connType)),
		From: model.Endpoint{ComponentID: model.FilePlaceholderPrefix + f.Path, File: f.Path, Line: lineNum},
		To:   model.Endpoint{ComponentID: comp.ID},
		Type: connType,
		CodeReference: &model.CodeReference{
			File:        f.Path,
			Symbol:      name,
			SymbolType:  "call",
			LineStart:   lineNum,
			LineEnd:     lineNum,
			CodeSnippet: truncate(strings.TrimSpace(line), snippetMaxLen),
		},
		Semantic:     &model.Semantic{Classification: classifyPath(f.Path), Confidence: 0.7},
		DetectedFrom: "imports",
		Confidence:   0.7,
		Timestamp:    now,
		LastVerified: now,
	})
}

// npmPackageRoot trims a deep import specifier to its package name,
// keeping the scope segment for scoped packages.
func npmPackageRoot(specifier string) string {
	parts := strings.Split(specifier, "/")
	if strings.HasPrefix(specifier, "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

// goModuleRoot trims an import path to its likely module path, three
// segments for the common host/org/repo layout.
func goModuleRoot(importPath string) string {
	parts := strings.Split(importPath, "/")
	if len(parts) <= 3 {
		return importPath
	}
	return strings.Join(parts[:3], "/")
}

func routeName(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return strings.TrimSuffix(url, "/")
}
