package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"archmap/internal/diff"
	"archmap/internal/impact"
	"archmap/internal/subgraph"
	"archmap/internal/trace"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *impact.Analysis:
		return formatImpactHuman(v), nil
	case *trace.Result:
		return formatTraceHuman(v), nil
	case *subgraph.Result:
		return formatSubgraphHuman(v), nil
	case *diff.Result:
		return formatDiffHuman(v), nil
	default:
		return formatJSON(resp)
	}
}

func formatImpactHuman(a *impact.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Impact: %s (%s)\n", a.Target.Name, a.Target.Type)
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "%s\n\n", a.Summary)
	for _, aff := range a.Affected {
		marker := "  "
		if aff.Kind == impact.KindDirect {
			marker = "* "
		}
		fmt.Fprintf(&b, "%s%s (%s)", marker, aff.Name, aff.Kind)
		if aff.File != "" {
			fmt.Fprintf(&b, "  %s", aff.File)
		}
		b.WriteString("\n")
		if aff.Message != "" {
			fmt.Fprintf(&b, "    %s\n", aff.Message)
		}
	}
	return b.String()
}

func formatTraceHuman(r *trace.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trace from %s\n", r.Start.Name)
	b.WriteString(strings.Repeat("=", 60) + "\n")
	if len(r.Paths) == 0 {
		b.WriteString("No outgoing paths.\n")
		return b.String()
	}
	for i, path := range r.Paths {
		fmt.Fprintf(&b, "%d. %s\n", i+1, path.Description)
		for _, hop := range path.Hops {
			arrow := "->"
			if hop.Reversed {
				arrow = "<-"
			}
			fmt.Fprintf(&b, "   %s %s [%s]\n", arrow, hop.ComponentName, hop.Type)
		}
	}
	fmt.Fprintf(&b, "\nComponents touched: %d, layers crossed: %v\n",
		len(r.ComponentsTouched), r.LayersCrossed)
	return b.String()
}

func formatSubgraphHuman(r *subgraph.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subgraph: %d components, %d connections", r.NodeCount, r.EdgeCount)
	if r.Truncated {
		b.WriteString(" (truncated)")
	}
	b.WriteString("\n" + strings.Repeat("=", 60) + "\n")
	for _, c := range r.Components {
		fmt.Fprintf(&b, "  %-30s %-14s %s\n", c.Name, c.Type, c.Layer)
	}
	if len(r.Connections) > 0 {
		b.WriteString("\nConnections:\n")
		for _, conn := range r.Connections {
			fmt.Fprintf(&b, "  %s -> %s [%s]\n", conn.From, conn.To, conn.Type)
		}
	}
	return b.String()
}

func formatDiffHuman(r *diff.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.Summary)
	fmt.Fprintf(&b, "Significance: %s", r.Significance)
	if len(r.Triggers) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(r.Triggers, ", "))
	}
	b.WriteString("\n" + strings.Repeat("=", 60) + "\n")
	for _, c := range r.AddedComponents {
		fmt.Fprintf(&b, "  + %s (%s)\n", c.Name, c.Type)
	}
	for _, c := range r.RemovedComponents {
		fmt.Fprintf(&b, "  - %s (%s)\n", c.Name, c.Type)
	}
	for _, m := range r.ModifiedComponents {
		fmt.Fprintf(&b, "  ~ %s: %s\n", m.Name, strings.Join(m.Changes, ", "))
	}
	for _, c := range r.AddedConnections {
		fmt.Fprintf(&b, "  + %s -> %s [%s]\n", c.FromName, c.ToName, c.Type)
	}
	for _, c := range r.RemovedConnections {
		fmt.Fprintf(&b, "  - %s -> %s [%s]\n", c.FromName, c.ToName, c.Type)
	}
	return b.String()
}
