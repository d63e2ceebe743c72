package diff

import (
	"fmt"
	"time"

	"archmap/internal/identity"
	"archmap/internal/model"
)

// TakeSnapshot captures a scan result's component/connection lists in
// semantically-keyed form. Endpoint ids are resolved to names through the
// supplied lookup so connection keys survive id regeneration; placeholder
// endpoints keep their own label.
func TakeSnapshot(components []*model.Component, connections []*model.Connection, now time.Time) *Snapshot {
	nameOf := make(map[string]string, len(components))
	for _, c := range components {
		nameOf[c.ID] = c.Name
	}
	resolveName := func(id string) string {
		if n, ok := nameOf[id]; ok {
			return n
		}
		return id
	}

	snap := &Snapshot{
		SchemaVersion: SchemaVersion,
		ID:            identity.NewConnectionID("snapshot"),
		Timestamp:     now,
		Components:    make([]SnapshotComponent, 0, len(components)),
		Connections:   make([]SnapshotConnection, 0, len(connections)),
	}
	for _, c := range components {
		snap.Components = append(snap.Components, SnapshotComponent{
			Name:     c.Name,
			Type:     c.Type,
			Version:  c.Version,
			Status:   c.Status,
			Layer:    c.Role.Layer,
			Critical: c.Role.Critical,
		})
	}
	for _, conn := range connections {
		snap.Connections = append(snap.Connections, SnapshotConnection{
			FromName: resolveName(conn.From.ComponentID),
			ToName:   resolveName(conn.To.ComponentID),
			Type:     conn.Type,
		})
	}
	return snap
}

// Compare diffs two snapshots by semantic key. previous may be nil, which is
// valid and means everything currently present is newly added. Neither input
// is mutated.
func Compare(previous, current *Snapshot) *Result {
	result := &Result{
		AddedComponents:    []SnapshotComponent{},
		RemovedComponents:  []SnapshotComponent{},
		ModifiedComponents: []ModifiedComponent{},
		AddedConnections:   []SnapshotConnection{},
		RemovedConnections: []SnapshotConnection{},
	}

	var prevComponents map[string]SnapshotComponent
	var prevConnections map[string]SnapshotConnection
	var prevCount int
	if previous != nil {
		prevComponents = indexComponents(previous.Components)
		prevConnections = indexConnections(previous.Connections)
		prevCount = len(previous.Components)
	}
	currComponents := indexComponents(current.Components)
	currConnections := indexConnections(current.Connections)

	// Components: added, modified.
	for _, c := range current.Components {
		prev, existed := prevComponents[c.Key()]
		if !existed {
			result.AddedComponents = append(result.AddedComponents, c)
			continue
		}
		if changes := fieldChanges(prev, c); len(changes) > 0 {
			result.ModifiedComponents = append(result.ModifiedComponents, ModifiedComponent{
				Name:    c.Name,
				Type:    c.Type,
				Layer:   c.Layer,
				Changes: changes,
			})
		}
	}
	// Components: removed.
	if previous != nil {
		for _, c := range previous.Components {
			if _, stillThere := currComponents[c.Key()]; !stillThere {
				result.RemovedComponents = append(result.RemovedComponents, c)
			}
		}
	}

	// Connections: add/remove only.
	for _, conn := range current.Connections {
		if _, existed := prevConnections[conn.Key()]; !existed {
			result.AddedConnections = append(result.AddedConnections, conn)
		}
	}
	if previous != nil {
		for _, conn := range previous.Connections {
			if _, stillThere := currConnections[conn.Key()]; !stillThere {
				result.RemovedConnections = append(result.RemovedConnections, conn)
			}
		}
	}

	result.Significance, result.Triggers = ClassifySignificance(result, prevCount)
	result.Summary = summarize(result)
	return result
}

// fieldChanges reports version/status/layer differences between two records
// of the same component.
func fieldChanges(prev, curr SnapshotComponent) []string {
	var changes []string
	if prev.Version != curr.Version {
		changes = append(changes, fmt.Sprintf("version: %s -> %s", prev.Version, curr.Version))
	}
	if prev.Status != curr.Status {
		changes = append(changes, fmt.Sprintf("status: %s -> %s", prev.Status, curr.Status))
	}
	if prev.Layer != curr.Layer {
		changes = append(changes, fmt.Sprintf("layer: %s -> %s", prev.Layer, curr.Layer))
	}
	return changes
}

func indexComponents(components []SnapshotComponent) map[string]SnapshotComponent {
	index := make(map[string]SnapshotComponent, len(components))
	for _, c := range components {
		index[c.Key()] = c
	}
	return index
}

func indexConnections(connections []SnapshotConnection) map[string]SnapshotConnection {
	index := make(map[string]SnapshotConnection, len(connections))
	for _, c := range connections {
		index[c.Key()] = c
	}
	return index
}

func summarize(r *Result) string {
	if r.TotalChanges() == 0 {
		return "no changes"
	}
	return fmt.Sprintf("%s: +%d/-%d/~%d components, +%d/-%d connections",
		r.Significance,
		len(r.AddedComponents), len(r.RemovedComponents), len(r.ModifiedComponents),
		len(r.AddedConnections), len(r.RemovedConnections))
}
