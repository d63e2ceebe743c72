package scan

import (
	"regexp"
	"strconv"
	"strings"
)

// Confidence contributions for the call tracer. An anchor alone is worth
// 0.6; corroborating evidence adds up to the 1.0 cap.
const (
	confidenceAnchor  = 0.60
	confidenceImport  = 0.15
	confidenceModel   = 0.10
	confidencePayload = 0.10
	confidenceConfig  = 0.05
)

// PromptShape classifies the syntactic form of an anchor's payload
type PromptShape string

const (
	ShapeMessages PromptShape = "array-of-messages"
	ShapeString   PromptShape = "single-string"
	ShapeTemplate PromptShape = "template"
	ShapeVariable PromptShape = "variable-reference"
)

// extractedAnchor is an anchor enriched by pass-4 argument extraction
type extractedAnchor struct {
	anchor

	Model        string      // resolved model identifier, or "dynamic"
	ModelDynamic bool        // true when the model could not be resolved
	Shape        PromptShape // payload classification, empty when absent
	SystemPrompt string      // extracted system-role entry, truncated
	UserPrompt   string      // extracted user-role entry, truncated
	TemplateVars []string    // interpolation variable names
	Temperature  *float64
	MaxTokens    *int
	Streaming    bool
	HasTools     bool
	Confidence   float64
}

var (
	modelLiteralRe  = regexp.MustCompile(`model\s*[:=]\s*["'\x60]([^"'\x60]+)["'\x60]`)
	modelVariableRe = regexp.MustCompile(`model\s*[:=]\s*([A-Za-z_$][\w.$]*)`)

	messagesRe     = regexp.MustCompile(`messages\s*[:=]\s*\[`)
	promptLiteralRe = regexp.MustCompile(`prompt\s*[:=]\s*["'\x60]`)
	promptVarRe    = regexp.MustCompile(`prompt\s*[:=]\s*[A-Za-z_$]`)
	contentsRe     = regexp.MustCompile(`contents\s*[:=]\s*\[`)

	roleEntryRe = regexp.MustCompile(`role\s*[:=]\s*["'](system|user)["']\s*,\s*content\s*[:=]\s*["'\x60]([^"'\x60]*)["'\x60]`)

	// Template-syntax detectors: JS interpolation, double- and triple-brace
	// mustache style.
	interpVarRe      = regexp.MustCompile(`\$\{\s*([\w.$]+)\s*\}`)
	tripleMustacheRe = regexp.MustCompile(`\{\{\{\s*([\w.$]+)\s*\}\}\}`)
	doubleMustacheRe = regexp.MustCompile(`\{\{\s*([\w.$]+)\s*\}\}`)

	temperatureRe = regexp.MustCompile(`temperature\s*[:=]\s*([0-9.]+)`)
	maxTokensRe   = regexp.MustCompile(`(?:max_tokens|maxTokens|max_length|maxOutputTokens)\s*[:=]\s*([0-9]+)`)
	streamRe      = regexp.MustCompile(`stream(?:ing)?\s*[:=]\s*true`)
	toolsRe       = regexp.MustCompile(`(?:tools|functions|tool_choice)\s*[:=]`)
)

// extractArguments is pass 4: take a bounded forward window after the anchor
// as a single blob and pull out the model identifier, payload shape, and
// configuration flags. hasImport reports whether a pass-1 binding
// corroborates the anchor's provider in this file.
func extractArguments(a anchor, lines []string, hasImport bool) extractedAnchor {
	end := a.Line - 1 + argumentWindowLines
	if end > len(lines) {
		end = len(lines)
	}
	window := strings.Join(lines[a.Line-1:end], "\n")

	ea := extractedAnchor{anchor: a}

	ea.Model, ea.ModelDynamic = extractModel(window, lines, a.Line-1)
	extractPayload(&ea, window)
	extractConfig(&ea, window)

	conf := confidenceAnchor
	if hasImport {
		conf += confidenceImport
	}
	if ea.Model != "" && !ea.ModelDynamic {
		conf += confidenceModel
	}
	if ea.SystemPrompt != "" || ea.UserPrompt != "" || len(ea.TemplateVars) > 0 ||
		ea.Shape == ShapeString || ea.Shape == ShapeMessages {
		conf += confidencePayload
	}
	if ea.Temperature != nil || ea.MaxTokens != nil || ea.Streaming || ea.HasTools {
		conf += confidenceConfig
	}
	if conf > 1.0 {
		conf = 1.0
	}
	ea.Confidence = conf
	return ea
}

// extractModel finds the model/target identifier in the window. A literal
// wins outright; a variable reference is resolved by scanning backward from
// the anchor (bounded window first, then the first matching assignment
// anywhere earlier in the file). Unresolved variables are marked dynamic.
func extractModel(window string, lines []string, anchorIdx int) (string, bool) {
	if m := modelLiteralRe.FindStringSubmatch(window); m != nil {
		return m[1], false
	}
	m := modelVariableRe.FindStringSubmatch(window)
	if m == nil {
		return "", false
	}
	varName := m[1]
	// Member expressions (config.MODEL) resolve on their final segment.
	if idx := strings.LastIndex(varName, "."); idx >= 0 {
		varName = varName[idx+1:]
	}
	if value, ok := resolveVariable(varName, lines, anchorIdx); ok {
		return value, false
	}
	return "dynamic", true
}

// resolveVariable scans backward from the anchor for a literal assignment to
// the variable: first within the bounded lookback window, then falling back
// to the first matching assignment from the top of the file.
func resolveVariable(varName string, lines []string, anchorIdx int) (string, bool) {
	assignRe := regexp.MustCompile(
		`(?:const|let|var)?\s*` + regexp.QuoteMeta(varName) + `\s*=\s*["'\x60]([^"'\x60]+)["'\x60]`)

	limit := anchorIdx - argumentWindowLines
	if limit < 0 {
		limit = 0
	}
	for i := anchorIdx; i >= limit; i-- {
		if m := assignRe.FindStringSubmatch(lines[i]); m != nil {
			return m[1], true
		}
	}
	for i := 0; i < limit; i++ {
		if m := assignRe.FindStringSubmatch(lines[i]); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// extractPayload classifies the payload shape by syntactic markers and pulls
// out structured sub-fields and template variable names when present.
func extractPayload(ea *extractedAnchor, window string) {
	switch {
	case messagesRe.MatchString(window) || contentsRe.MatchString(window):
		ea.Shape = ShapeMessages
	case promptLiteralRe.MatchString(window):
		ea.Shape = ShapeString
	case promptVarRe.MatchString(window):
		ea.Shape = ShapeVariable
	}

	for _, m := range roleEntryRe.FindAllStringSubmatch(window, -1) {
		switch m[1] {
		case "system":
			if ea.SystemPrompt == "" {
				ea.SystemPrompt = truncate(m[2], snippetMaxLen)
			}
		case "user":
			if ea.UserPrompt == "" {
				ea.UserPrompt = truncate(m[2], snippetMaxLen)
			}
		}
	}

	seen := make(map[string]bool)
	for _, re := range []*regexp.Regexp{interpVarRe, tripleMustacheRe, doubleMustacheRe} {
		for _, m := range re.FindAllStringSubmatch(window, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				ea.TemplateVars = append(ea.TemplateVars, m[1])
			}
		}
	}
	if len(ea.TemplateVars) > 0 && ea.Shape == "" {
		ea.Shape = ShapeTemplate
	}
}

// extractConfig pulls numeric/boolean settings and tool declarations
func extractConfig(ea *extractedAnchor, window string) {
	if m := temperatureRe.FindStringSubmatch(window); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			ea.Temperature = &v
		}
	}
	if m := maxTokensRe.FindStringSubmatch(window); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			ea.MaxTokens = &v
		}
	}
	ea.Streaming = streamRe.MatchString(window)
	ea.HasTools = toolsRe.MatchString(window)
}
