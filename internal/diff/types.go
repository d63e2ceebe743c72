// Package diff compares semantically-keyed snapshots of the component graph
// and maintains a bounded change timeline.
//
// Component and connection ids regenerate on every scan, so snapshots never
// key on them: a component is identified by (name, type) and a connection by
// (from_name, to_name, type). Diffing any other way would report the whole
// graph as churned on every scan.
package diff

import (
	"time"

	"archmap/internal/model"
)

// SchemaVersion is the current snapshot schema version. Snapshots below it
// are upgraded on load by Migrate (one-way, lossy).
const SchemaVersion = 2

// SnapshotComponent is the semantically-keyed record of one component
type SnapshotComponent struct {
	Name     string              `json:"name"`
	Type     model.ComponentType `json:"type"`
	Version  string              `json:"version,omitempty"`
	Status   model.Status        `json:"status"`
	Layer    model.Layer         `json:"layer"`
	Critical bool                `json:"critical"`
}

// Key returns the cross-scan identity of the component
func (s *SnapshotComponent) Key() string {
	return s.Name + "|" + string(s.Type)
}

// SnapshotConnection is the semantically-keyed record of one connection
type SnapshotConnection struct {
	FromName string               `json:"fromName"`
	ToName   string               `json:"toName"`
	Type     model.ConnectionType `json:"type"`
}

// Key returns the cross-scan identity of the connection
func (s *SnapshotConnection) Key() string {
	return model.SemanticConnectionKey(s.FromName, s.ToName, s.Type)
}

// Snapshot is a point-in-time capture of the full component/connection set
type Snapshot struct {
	SchemaVersion int                  `json:"schemaVersion"`
	ID            string               `json:"id"`
	Timestamp     time.Time            `json:"timestamp"`
	Components    []SnapshotComponent  `json:"components"`
	Connections   []SnapshotConnection `json:"connections"`
}

// ModifiedComponent records a component present in both snapshots with at
// least one changed field. Changes are "field: old -> new" strings; an entry
// is only emitted when at least one field differs. Layer is the component's
// current layer, whether or not the layer is among the changes.
type ModifiedComponent struct {
	Name    string              `json:"name"`
	Type    model.ComponentType `json:"type"`
	Layer   model.Layer         `json:"layer"`
	Changes []string            `json:"changes"`
}

// Result is the outcome of comparing two snapshots. Connections have no
// modified state: a changed connection appears as a remove plus an add.
type Result struct {
	AddedComponents    []SnapshotComponent  `json:"addedComponents"`
	RemovedComponents  []SnapshotComponent  `json:"removedComponents"`
	ModifiedComponents []ModifiedComponent  `json:"modifiedComponents"`
	AddedConnections   []SnapshotConnection `json:"addedConnections"`
	RemovedConnections []SnapshotConnection `json:"removedConnections"`

	Significance model.Significance `json:"significance"`
	Triggers     []string           `json:"triggers,omitempty"`
	Summary      string             `json:"summary"`
}

// TotalChanges counts every change in the result
func (r *Result) TotalChanges() int {
	return len(r.AddedComponents) + len(r.RemovedComponents) +
		len(r.ModifiedComponents) + len(r.AddedConnections) + len(r.RemovedConnections)
}

// TimelineEntry is one appended diff in the change history
type TimelineEntry struct {
	ID           string             `json:"id"`
	Timestamp    time.Time          `json:"timestamp"`
	SnapshotID   string             `json:"snapshotId"`
	Significance model.Significance `json:"significance"`
	Summary      string             `json:"summary"`
	Diff         *Result            `json:"diff,omitempty"`
}
