// Package model defines the component/connection data model shared by the
// detection pipeline, the graph query algorithms, and the diff engine.
//
// Component and connection ids are generated per scan and include a random
// suffix; they are NOT stable across scans. Anything that needs cross-scan
// identity (the diff engine, snapshots) keys on the semantic identity
// (name, type) / (from_name, to_name, type) instead.
package model

import "time"

// Role describes a component's purpose within the architecture
type Role struct {
	Purpose  string `json:"purpose"`
	Layer    Layer  `json:"layer"`
	Critical bool   `json:"critical"`
}

// Source records how a component was detected
type Source struct {
	DetectionMethod string   `json:"detectionMethod"`
	ConfigFiles     []string `json:"configFiles,omitempty"`
	Confidence      float64  `json:"confidence"` // in [0,1]
}

// ConnectionRef is a weak back-reference from a component to a connection.
// It never owns the connection; the flat connection list does.
type ConnectionRef struct {
	ConnectionID string         `json:"connectionId"`
	ComponentID  string         `json:"componentId"`
	Type         ConnectionType `json:"type"`
}

// Health carries optional freshness/vulnerability info for a component
type Health struct {
	LatestVersion   string   `json:"latestVersion,omitempty"`
	UpdateAvailable bool     `json:"updateAvailable,omitempty"`
	Vulnerabilities []string `json:"vulnerabilities,omitempty"`
}

// Component is a detected architectural unit
type Component struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Version       string                 `json:"version,omitempty"`
	Type          ComponentType          `json:"type"`
	Role          Role                   `json:"role"`
	Source        Source                 `json:"source"`
	ConnectsTo    []ConnectionRef        `json:"connectsTo,omitempty"`
	ConnectedFrom []ConnectionRef        `json:"connectedFrom,omitempty"`
	Status        Status                 `json:"status"`
	Health        *Health                `json:"health,omitempty"`
	Tags          []string               `json:"tags,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	Timestamp     time.Time              `json:"timestamp"`
	LastUpdated   time.Time              `json:"lastUpdated"`
}

// SemanticKey returns the cross-scan identity of the component.
// Generated ids regenerate every scan, so this is the only key safe to
// compare between snapshots.
func (c *Component) SemanticKey() string {
	return c.Name + "|" + string(c.Type)
}
