package impact

import "archmap/internal/model"

// Severity thresholds on the direct dependent count. Severity is computed
// from direct dependents only; transitive reach never changes the tier.
const (
	criticalDependentThreshold = 5 // more than this => critical
	highDependentMin           = 3
	highDependentMax           = 5
	mediumDependentCount       = 2
)

// ComputeSeverity classifies how impactful changing a component would be.
// Rules are evaluated in order; the first match wins:
//  1. critical: database/infra layer, >5 direct dependents, or marked critical
//  2. high:     backend layer or 3-5 direct dependents
//  3. medium:   exactly 2 direct dependents
//  4. low:      otherwise
//
// The function is pure over (layer, critical flag, dependent count) and
// monotonic in the dependent count.
func ComputeSeverity(component *model.Component, directDependents int) model.Severity {
	layer := component.Role.Layer
	switch {
	case layer == model.LayerDatabase || layer == model.LayerInfra ||
		directDependents > criticalDependentThreshold || component.Role.Critical:
		return model.SeverityCritical
	case layer == model.LayerBackend ||
		(directDependents >= highDependentMin && directDependents <= highDependentMax):
		return model.SeverityHigh
	case directDependents == mediumDependentCount:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}
