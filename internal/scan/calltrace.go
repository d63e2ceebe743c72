package scan

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"archmap/internal/identity"
	"archmap/internal/model"
	"archmap/internal/sigtables"
)

// Window bounds for the backward/forward textual heuristics. These scans are
// approximate by design: they promise the best available answer within N
// lines, not an exact one.
const (
	// functionLookbackLines bounds the backward scan for the containing
	// function header of an anchor.
	functionLookbackLines = 30
	// argumentWindowLines bounds the forward window pass 4 extracts from.
	argumentWindowLines = 30
	// snippetMaxLen truncates stored code snippets.
	snippetMaxLen = 160

	callTracerWorkers = 8
)

// CallTracer finds AI-provider integration call sites with a four-pass
// anchor-based extraction:
//
//	pass 1: import/require bindings of known provider packages
//	pass 2: client instantiations bound to variables (incl. member forms)
//	pass 3: call anchors, verified against bindings or imported symbols
//	pass 4: argument extraction in a bounded window after each anchor
//
// Requiring a verified anchor before extraction trades recall for precision:
// no anchor, no guessing.
type CallTracer struct {
	providers []sigtables.ProviderSignature
}

// NewCallTracer creates a tracer over the built-in provider table
func NewCallTracer() *CallTracer {
	return &CallTracer{providers: sigtables.Providers}
}

// Name implements Scanner
func (t *CallTracer) Name() string { return "call-tracer" }

// importBinding is a pass-1 record: a file importing a provider package
type importBinding struct {
	File     string
	Line     int
	Package  string
	Provider string
	SDK      string
	Symbols  []string
}

// clientBinding is a pass-2 record: a variable bound to a provider client
type clientBinding struct {
	File     string
	Line     int
	VarName  string // may be member-qualified ("this.client")
	Provider string
	SDK      string
	Class    string
}

// anchor is a pass-3 record: a verified call site
type anchor struct {
	File       string
	Line       int
	Snippet    string
	Method     string
	Provider   string
	SDK        string
	Kind       sigtables.CallKind
	InFunction string
}

var (
	importFromRe    = regexp.MustCompile(`import\s+(.+?)\s+from\s+['"]([^'"]+)['"]`)
	importBareRe    = regexp.MustCompile(`import\s+['"]([^'"]+)['"]`)
	requireRe       = regexp.MustCompile(`(?:const|let|var)\s+(\{[^}]*\}|[\w$]+)\s*=\s*(?:await\s+)?require\(\s*['"]([^'"]+)['"]\s*\)`)
	dynamicImportRe = regexp.MustCompile(`import\(\s*['"]([^'"]+)['"]\s*\)`)
	pythonImportRe  = regexp.MustCompile(`^\s*(?:from\s+([\w.]+)\s+import\s+(.+)|import\s+([\w.]+))`)
	newClientRe     = regexp.MustCompile(`([\w$]+(?:\.[\w$]+)*)\s*=\s*new\s+([\w$]+)\s*\(`)
	funcHeaderRes   = []*regexp.Regexp{
		regexp.MustCompile(`function\s+([\w$]+)\s*\(`),
		regexp.MustCompile(`(?:const|let|var)\s+([\w$]+)\s*=\s*(?:async\s+)?(?:function\b|\()`),
		regexp.MustCompile(`([\w$]+)\s*[:=]\s*(?:async\s+)?\([^)]*\)\s*=>`),
		regexp.MustCompile(`^\s*(?:public|private|protected|static|async|\s)*([\w$]+)\s*\([^)]*\)\s*\{`),
		regexp.MustCompile(`^\s*def\s+([\w_]+)\s*\(`),
		regexp.MustCompile(`^func\s+(?:\([^)]+\)\s+)?([\w]+)\s*\(`),
	}
)

// Scan implements Scanner. Passes 1-2 are file-local; cross-file client
// re-exports are resolved before the per-file pass-3/4 fan-out so the
// binding table is read-only shared state during the parallel phase.
func (t *CallTracer) Scan(ctx context.Context, files []SourceFile) (*Result, error) {
	sourceFiles := make([]SourceFile, 0, len(files))
	for _, f := range files {
		if hasExt(f.Path, ".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs", ".py") {
			sourceFiles = append(sourceFiles, f)
		}
	}

	imports := make(map[string][]importBinding) // file -> bindings
	clients := make(map[string][]clientBinding)
	for _, f := range sourceFiles {
		fileImports := t.findImportBindings(f)
		if len(fileImports) == 0 {
			continue
		}
		imports[f.Path] = fileImports
		clients[f.Path] = t.findClientBindings(f, fileImports)
	}
	t.propagateReexports(sourceFiles, clients)

	// Pass 3/4 fan-out: per-worker accumulation, merged once at the end.
	type fileAnchors struct {
		index   int
		anchors []extractedAnchor
	}
	var mu sync.Mutex
	var collected []fileAnchors

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(callTracerWorkers)
	for i, f := range sourceFiles {
		if len(imports) == 0 {
			break
		}
		i, f := i, f
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			anchors := t.findAnchors(f, imports[f.Path], clients[f.Path])
			if len(anchors) == 0 {
				return nil
			}
			extracted := make([]extractedAnchor, 0, len(anchors))
			lines := strings.Split(f.Content, "\n")
			for _, a := range anchors {
				extracted = append(extracted, extractArguments(a, lines, len(imports[f.Path]) > 0))
			}
			mu.Lock()
			collected = append(collected, fileAnchors{index: i, anchors: extracted})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Deterministic assembly order regardless of worker completion order.
	sort.Slice(collected, func(i, j int) bool { return collected[i].index < collected[j].index })
	var all []extractedAnchor
	for _, fa := range collected {
		all = append(all, fa.anchors...)
	}
	return t.assemble(all), nil
}

// findImportBindings is pass 1: declarative import/require statements whose
// package matches a provider signature. Covers static-import, require, and
// dynamic-import syntaxes plus Python imports.
func (t *CallTracer) findImportBindings(f SourceFile) []importBinding {
	var bindings []importBinding
	for i, line := range strings.Split(f.Content, "\n") {
		if isCommentLine(line) {
			continue
		}
		if m := importFromRe.FindStringSubmatch(line); m != nil {
			if b, ok := t.bindingFor(f.Path, i+1, m[2], parseImportClause(m[1])); ok {
				bindings = append(bindings, b)
			}
			continue
		}
		if m := requireRe.FindStringSubmatch(line); m != nil {
			if b, ok := t.bindingFor(f.Path, i+1, m[2], parseImportClause(m[1])); ok {
				bindings = append(bindings, b)
			}
			continue
		}
		if m := dynamicImportRe.FindStringSubmatch(line); m != nil {
			if b, ok := t.bindingFor(f.Path, i+1, m[1], nil); ok {
				bindings = append(bindings, b)
			}
			continue
		}
		if m := importBareRe.FindStringSubmatch(line); m != nil {
			if b, ok := t.bindingFor(f.Path, i+1, m[1], nil); ok {
				bindings = append(bindings, b)
			}
			continue
		}
		if m := pythonImportRe.FindStringSubmatch(line); m != nil {
			pkg, symbols := m[1], splitSymbols(m[2])
			if pkg == "" {
				pkg = m[3]
				symbols = []string{m[3]}
			}
			if b, ok := t.bindingFor(f.Path, i+1, pkg, symbols); ok {
				bindings = append(bindings, b)
			}
		}
	}
	return bindings
}

func (t *CallTracer) bindingFor(file string, line int, pkg string, symbols []string) (importBinding, bool) {
	sig, ok := sigtables.ProviderForPackage(pkg)
	if !ok {
		return importBinding{}, false
	}
	return importBinding{
		File:     file,
		Line:     line,
		Package:  pkg,
		Provider: sig.Provider,
		SDK:      sig.SDK,
		Symbols:  symbols,
	}, true
}

// findClientBindings is pass 2: constructor-style initialization lines where
// the class matches an imported symbol or a table-known client class.
func (t *CallTracer) findClientBindings(f SourceFile, fileImports []importBinding) []clientBinding {
	known := make(map[string]*importBinding)
	for i := range fileImports {
		sig, _ := sigtables.ProviderByName(fileImports[i].Provider)
		for _, sym := range fileImports[i].Symbols {
			known[sym] = &fileImports[i]
		}
		if sig != nil {
			for _, class := range sig.ClientClasses {
				known[class] = &fileImports[i]
			}
		}
	}
	if len(known) == 0 {
		return nil
	}

	var bindings []clientBinding
	for i, line := range strings.Split(f.Content, "\n") {
		if isCommentLine(line) {
			continue
		}
		m := newClientRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		varName := strings.TrimPrefix(m[1], "const ")
		class := m[2]
		imp, ok := known[class]
		if !ok {
			continue
		}
		bindings = append(bindings, clientBinding{
			File:     f.Path,
			Line:     i + 1,
			VarName:  varName,
			Provider: imp.Provider,
			SDK:      imp.SDK,
			Class:    class,
		})
	}
	return bindings
}

// propagateReexports follows import chains that re-bind a known client
// variable name across files: a file importing a symbol that another file
// bound to a provider client inherits that binding. One propagation level —
// deeper chains are out of heuristic reach.
func (t *CallTracer) propagateReexports(files []SourceFile, clients map[string][]clientBinding) {
	exported := make(map[string]clientBinding)
	for _, bindings := range clients {
		for _, b := range bindings {
			// Member-qualified bindings are never re-exported symbols.
			if !strings.Contains(b.VarName, ".") {
				exported[b.VarName] = b
			}
		}
	}
	if len(exported) == 0 {
		return
	}

	for _, f := range files {
		for i, line := range strings.Split(f.Content, "\n") {
			m := importFromRe.FindStringSubmatch(line)
			if m == nil || !strings.HasPrefix(m[2], ".") {
				continue
			}
			for _, sym := range parseImportClause(m[1]) {
				src, ok := exported[sym]
				if !ok {
					continue
				}
				clients[f.Path] = append(clients[f.Path], clientBinding{
					File:     f.Path,
					Line:     i + 1,
					VarName:  sym,
					Provider: src.Provider,
					SDK:      src.SDK,
					Class:    src.Class,
				})
			}
		}
	}
}

// findAnchors is pass 3: test every provider call pattern against every
// line, verifying the receiver (or imported symbol) before emitting.
// Anchors deduplicate by (file, line).
func (t *CallTracer) findAnchors(f SourceFile, fileImports []importBinding, fileClients []clientBinding) []anchor {
	importedSymbols := make(map[string]string) // symbol -> provider
	for _, imp := range fileImports {
		for _, sym := range imp.Symbols {
			importedSymbols[sym] = imp.Provider
		}
	}

	lines := strings.Split(f.Content, "\n")
	seen := make(map[int]bool)
	var anchors []anchor

	for i, line := range lines {
		if isCommentLine(line) || seen[i+1] {
			continue
		}
		for pi := range t.providers {
			provider := &t.providers[pi]
			matched := false
			for _, pattern := range provider.Patterns {
				idx := strings.Index(line, pattern.Pattern)
				if idx < 0 {
					continue
				}
				var sdk string
				if pattern.RequiresClient {
					receiver := receiverBefore(line, idx)
					binding := resolveReceiver(receiver, fileClients, provider.Provider)
					if binding == nil {
						continue
					}
					sdk = binding.SDK
				} else {
					fn := strings.TrimSuffix(strings.TrimPrefix(pattern.Pattern, "."), "(")
					// Dotted patterns name a module-object call; the
					// imported symbol is the leading segment.
					if dot := strings.Index(fn, "."); dot >= 0 {
						fn = fn[:dot]
					}
					if prov, ok := importedSymbols[fn]; !ok || prov != provider.Provider {
						continue
					}
					sdk = provider.SDK
				}
				anchors = append(anchors, anchor{
					File:       f.Path,
					Line:       i + 1,
					Snippet:    truncate(strings.TrimSpace(line), snippetMaxLen),
					Method:     pattern.Method,
					Provider:   provider.Provider,
					SDK:        sdk,
					Kind:       pattern.Kind,
					InFunction: containingFunction(lines, i),
				})
				seen[i+1] = true
				matched = true
				break
			}
			if matched {
				break
			}
		}
	}
	return anchors
}

// receiverBefore extracts the identifier chain immediately preceding a
// matched method-chain pattern.
func receiverBefore(line string, patternIdx int) string {
	end := patternIdx
	start := end
	for start > 0 {
		ch := line[start-1]
		if ch == '_' || ch == '$' || ch == '.' ||
			(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			start--
			continue
		}
		break
	}
	return line[start:end]
}

// resolveReceiver checks a receiver expression against the pass-2 bindings
// of the expected provider. "this."-qualified receivers match both the
// qualified and unqualified binding forms.
func resolveReceiver(receiver string, bindings []clientBinding, provider string) *clientBinding {
	if receiver == "" {
		return nil
	}
	unqualified := strings.TrimPrefix(receiver, "this.")
	for i := range bindings {
		b := &bindings[i]
		if b.Provider != provider {
			continue
		}
		bound := strings.TrimPrefix(b.VarName, "this.")
		if receiver == b.VarName || unqualified == bound {
			return b
		}
	}
	return nil
}

// containingFunction scans backward from an anchor line for the nearest
// recognizable function/method/definition header, within the lookback
// window. Comments are skipped before pattern matching. Best effort: an
// anchor outside any recognizable header reports an empty name.
func containingFunction(lines []string, anchorIdx int) string {
	limit := anchorIdx - functionLookbackLines
	if limit < 0 {
		limit = 0
	}
	for i := anchorIdx; i >= limit; i-- {
		line := lines[i]
		if isCommentLine(line) {
			continue
		}
		for _, re := range funcHeaderRes {
			if m := re.FindStringSubmatch(line); m != nil {
				return m[1]
			}
		}
	}
	return ""
}

// assemble synthesizes one component per distinct provider and one
// connection per anchor, from the file-level pseudo-component to the
// provider component.
func (t *CallTracer) assemble(anchors []extractedAnchor) *Result {
	result := &Result{
		Components:  []*model.Component{},
		Connections: []*model.Connection{},
	}
	now := time.Now().UTC()
	providerComponents := make(map[string]*model.Component)

	for _, ea := range anchors {
		comp, ok := providerComponents[ea.Provider]
		if !ok {
			comp = &model.Component{
				ID:   identity.NewComponentID(string(model.TypeLLMProvider), ea.Provider),
				Name: ea.Provider,
				Type: model.TypeLLMProvider,
				Role: model.Role{
					Purpose:  "AI provider integration",
					Layer:    model.LayerExternal,
					Critical: true,
				},
				Source: model.Source{
					DetectionMethod: "call-tracer",
					Confidence:      ea.Confidence,
				},
				Status:      model.StatusActive,
				Metadata:    map[string]interface{}{"sdk": ea.SDK},
				Timestamp:   now,
				LastUpdated: now,
			}
			providerComponents[ea.Provider] = comp
			result.Components = append(result.Components, comp)
		}
		// Component confidence is the max over its call sites.
		if ea.Confidence > comp.Source.Confidence {
			comp.Source.Confidence = ea.Confidence
		}
		comp.Source.ConfigFiles = mergeStrings(comp.Source.ConfigFiles, []string{ea.File})

		result.Connections = append(result.Connections, t.connectionFor(ea, comp, now))
	}
	return result
}

func (t *CallTracer) connectionFor(ea extractedAnchor, comp *model.Component, now time.Time) *model.Connection {
	symbol := ea.InFunction
	symbolType := "function"
	if symbol == "" {
		symbol = baseName(ea.File)
		symbolType = "file"
	}
	description := ea.Provider + " " + ea.Method
	if ea.Model != "" {
		description += " (model " + ea.Model + ")"
	}
	return &model.Connection{
		ID: identity.NewConnectionID(string(model.ConnPromptUsage)),
		From: model.Endpoint{
			ComponentID: model.FilePlaceholderPrefix + ea.File,
			File:        ea.File,
			Line:        ea.Line,
			Function:    ea.InFunction,
		},
		To:   model.Endpoint{ComponentID: comp.ID},
		Type: model.ConnPromptUsage,
		CodeReference: &model.CodeReference{
			File:        ea.File,
			Symbol:      symbol,
			SymbolType:  symbolType,
			LineStart:   ea.Line,
			LineEnd:     ea.Line,
			CodeSnippet: ea.Snippet,
		},
		Semantic: &model.Semantic{
			Classification: classifyPath(ea.File),
			Confidence:     0.7,
		},
		Description:  description,
		DetectedFrom: "call-tracer",
		Confidence:   ea.Confidence,
		Timestamp:    now,
		LastVerified: now,
	}
}

// classifyPath assigns a coarse semantic classification from the file path
func classifyPath(path string) model.Classification {
	lower := strings.ToLower(path)
	switch {
	case strings.Contains(lower, "test") || strings.Contains(lower, "spec"):
		return model.ClassTest
	case strings.Contains(lower, "migration"):
		return model.ClassMigration
	case strings.Contains(lower, "admin"):
		return model.ClassAdmin
	case strings.Contains(lower, "analytics"):
		return model.ClassAnalytics
	case strings.Contains(lower, "dev") || strings.Contains(lower, "script"):
		return model.ClassDevOnly
	default:
		return model.ClassProduction
	}
}

// parseImportClause extracts symbol names from an import clause:
// default imports, named groups with aliases, and namespace imports.
func parseImportClause(clause string) []string {
	clause = strings.TrimSpace(clause)
	var symbols []string
	if strings.HasPrefix(clause, "{") {
		inner := strings.Trim(clause, "{} ")
		for _, part := range strings.Split(inner, ",") {
			name := strings.TrimSpace(part)
			if idx := strings.Index(name, " as "); idx >= 0 {
				name = strings.TrimSpace(name[idx+4:])
			}
			if name != "" {
				symbols = append(symbols, name)
			}
		}
		return symbols
	}
	if strings.HasPrefix(clause, "* as ") {
		return []string{strings.TrimSpace(strings.TrimPrefix(clause, "* as "))}
	}
	// "Default, { a, b }" mixed form
	if idx := strings.Index(clause, ","); idx >= 0 {
		symbols = append(symbols, strings.TrimSpace(clause[:idx]))
		symbols = append(symbols, parseImportClause(clause[idx+1:])...)
		return symbols
	}
	if clause != "" {
		symbols = append(symbols, clause)
	}
	return symbols
}

func splitSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		if idx := strings.Index(name, " as "); idx >= 0 {
			name = strings.TrimSpace(name[idx+4:])
		}
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

func isCommentLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*") ||
		strings.HasPrefix(trimmed, "#")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
