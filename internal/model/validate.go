package model

import (
	"strings"

	"archmap/internal/errors"
)

// Placeholder id prefixes. A connection endpoint may reference a pseudo
// component instead of a scanned component:
//   - "file:<path>" stands for the source file a call site lives in
//   - "external:<name>" stands for an endpoint outside the scanned project
const (
	FilePlaceholderPrefix     = "file:"
	ExternalPlaceholderPrefix = "external:"
)

// IsPlaceholderID reports whether an endpoint id is a recognized placeholder
// form rather than a scanned component id.
func IsPlaceholderID(id string) bool {
	return strings.HasPrefix(id, FilePlaceholderPrefix) ||
		strings.HasPrefix(id, ExternalPlaceholderPrefix)
}

// ValidateComponent checks the closed-enum and range invariants of a
// component. Violations are programming-contract errors, not scan warnings.
func ValidateComponent(c *Component) error {
	if c.Name == "" {
		return errors.New(errors.InvalidEnum, "component has empty name", nil)
	}
	if !validComponentTypes[c.Type] {
		return errors.New(errors.InvalidEnum, "invalid component type "+string(c.Type), nil)
	}
	if !validLayers[c.Role.Layer] {
		return errors.New(errors.InvalidEnum, "invalid layer "+string(c.Role.Layer), nil)
	}
	if !validStatuses[c.Status] {
		return errors.New(errors.InvalidEnum, "invalid status "+string(c.Status), nil)
	}
	if c.Source.Confidence < 0 || c.Source.Confidence > 1 {
		return errors.New(errors.InvalidEnum, "component confidence out of [0,1]", nil)
	}
	return nil
}

// ValidateConnection checks a connection's enums, confidence range, and that
// both endpoints resolve within the same scan result. knownIDs holds every
// component id in the result; placeholder forms are always accepted.
func ValidateConnection(conn *Connection, knownIDs map[string]bool) error {
	if !validConnectionTypes[conn.Type] {
		return errors.New(errors.InvalidEnum, "invalid connection type "+string(conn.Type), nil)
	}
	if conn.Confidence < 0 || conn.Confidence > 1 {
		return errors.New(errors.InvalidEnum, "connection confidence out of [0,1]", nil)
	}
	if conn.Semantic != nil {
		if !validClassifications[conn.Semantic.Classification] {
			return errors.New(errors.InvalidEnum,
				"invalid classification "+string(conn.Semantic.Classification), nil)
		}
		if conn.Semantic.Confidence < 0 || conn.Semantic.Confidence > 1 {
			return errors.New(errors.InvalidEnum, "semantic confidence out of [0,1]", nil)
		}
	}
	for _, id := range []string{conn.From.ComponentID, conn.To.ComponentID} {
		if id == "" {
			return errors.New(errors.DanglingConnection,
				"connection "+conn.ID+" has an empty endpoint", nil)
		}
		if !knownIDs[id] && !IsPlaceholderID(id) {
			return errors.New(errors.DanglingConnection,
				"connection "+conn.ID+" references unknown component "+id, nil)
		}
	}
	return nil
}
