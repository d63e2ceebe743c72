package diff

import (
	"strings"

	"archmap/internal/model"
)

// highChurnRatio is the fraction of the prior component count above which a
// diff counts as high churn.
const highChurnRatio = 0.20

// Trigger names, recorded on the result so callers can see why a diff was
// classified the way it was.
const (
	TriggerLayerChange      = "layer-change"
	TriggerHighChurn        = "high-churn"
	TriggerNewLayer         = "new-layer"
	TriggerNewPackage       = "new-package"
	TriggerConnectionChange = "connection-change"
	TriggerVersionBump      = "version-bump"
	TriggerMetadataOnly     = "metadata-only"
)

// ClassifySignificance evaluates the independent triggers against a diff and
// folds them into an ordinal significance. prevComponentCount is the prior
// snapshot's component count (0 when diffing against nothing).
//
// Major triggers: a database/infra component added or removed, churn above
// highChurnRatio of the prior count, or an added component introducing a
// layer not seen among the diff's removed/modified components. Minor
// triggers: an added package-type component, any connection change, or a
// major version segment change. Anything else with at least one change is
// metadata-only and classifies as patch.
func ClassifySignificance(r *Result, prevComponentCount int) (model.Significance, []string) {
	var triggers []string

	if hasLayerChange(r) {
		triggers = append(triggers, TriggerLayerChange)
	}
	if isHighChurn(r, prevComponentCount) {
		triggers = append(triggers, TriggerHighChurn)
	}
	if hasNewLayer(r) {
		triggers = append(triggers, TriggerNewLayer)
	}
	if hasNewPackage(r) {
		triggers = append(triggers, TriggerNewPackage)
	}
	if len(r.AddedConnections) > 0 || len(r.RemovedConnections) > 0 {
		triggers = append(triggers, TriggerConnectionChange)
	}
	if hasVersionBump(r) {
		triggers = append(triggers, TriggerVersionBump)
	}
	if len(triggers) == 0 && r.TotalChanges() > 0 {
		triggers = append(triggers, TriggerMetadataOnly)
	}

	major := map[string]bool{TriggerLayerChange: true, TriggerHighChurn: true, TriggerNewLayer: true}
	minor := map[string]bool{TriggerNewPackage: true, TriggerConnectionChange: true, TriggerVersionBump: true}

	significance := model.SignificancePatch
	for _, t := range triggers {
		if major[t] {
			significance = model.SignificanceMajor
			break
		}
		if minor[t] {
			significance = model.SignificanceMinor
		}
	}
	return significance, triggers
}

// hasLayerChange fires when a component on the database or infra layer was
// added or removed.
func hasLayerChange(r *Result) bool {
	structural := func(c SnapshotComponent) bool {
		return c.Layer == model.LayerDatabase || c.Layer == model.LayerInfra
	}
	for _, c := range r.AddedComponents {
		if structural(c) {
			return true
		}
	}
	for _, c := range r.RemovedComponents {
		if structural(c) {
			return true
		}
	}
	return false
}

func isHighChurn(r *Result, prevComponentCount int) bool {
	if prevComponentCount == 0 {
		return false
	}
	churned := len(r.AddedComponents) + len(r.RemovedComponents) + len(r.ModifiedComponents)
	return float64(churned) > highChurnRatio*float64(prevComponentCount)
}

// hasNewLayer fires when an added component's layer appears among neither
// the removed nor the modified components of the diff.
func hasNewLayer(r *Result) bool {
	if len(r.AddedComponents) == 0 {
		return false
	}
	seen := make(map[model.Layer]bool)
	for _, c := range r.RemovedComponents {
		seen[c.Layer] = true
	}
	for _, m := range r.ModifiedComponents {
		seen[m.Layer] = true
	}
	for _, c := range r.AddedComponents {
		if !seen[c.Layer] {
			return true
		}
	}
	return false
}

func hasNewPackage(r *Result) bool {
	for _, c := range r.AddedComponents {
		if c.Type.IsPackageType() {
			return true
		}
	}
	return false
}

// hasVersionBump fires when a modified component's version change differs in
// its major segment (the part before the first dot, ignoring a leading v).
func hasVersionBump(r *Result) bool {
	for _, m := range r.ModifiedComponents {
		for _, change := range m.Changes {
			from, to, ok := splitChange(change, "version: ")
			if !ok {
				continue
			}
			if majorSegment(from) != majorSegment(to) {
				return true
			}
		}
	}
	return false
}

// splitChange parses a "<prefix><old> -> <new>" change string
func splitChange(change, prefix string) (string, string, bool) {
	if !strings.HasPrefix(change, prefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(change, prefix)
	parts := strings.SplitN(rest, " -> ", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func majorSegment(version string) string {
	v := strings.TrimPrefix(strings.TrimSpace(version), "v")
	if i := strings.IndexByte(v, '.'); i >= 0 {
		return v[:i]
	}
	return v
}
