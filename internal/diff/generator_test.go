package diff

import (
	"testing"
	"time"

	"archmap/internal/model"
)

func snapComponent(name string, componentType model.ComponentType, version string, layer model.Layer) SnapshotComponent {
	return SnapshotComponent{
		Name:    name,
		Type:    componentType,
		Version: version,
		Status:  model.StatusActive,
		Layer:   layer,
	}
}

func snapConnection(from, to string) SnapshotConnection {
	return SnapshotConnection{FromName: from, ToName: to, Type: model.ConnServiceCall}
}

func baseSnapshot(components []SnapshotComponent, connections []SnapshotConnection) *Snapshot {
	return &Snapshot{
		SchemaVersion: SchemaVersion,
		ID:            "snap-test",
		Timestamp:     time.Now().UTC(),
		Components:    components,
		Connections:   connections,
	}
}

// diff(nil, S) is valid and marks everything as added.
func TestCompareNilPrevious(t *testing.T) {
	current := baseSnapshot(
		[]SnapshotComponent{
			snapComponent("api", model.TypeService, "", model.LayerBackend),
			snapComponent("postgres", model.TypeDatabase, "16", model.LayerDatabase),
		},
		[]SnapshotConnection{snapConnection("api", "postgres")},
	)
	result := Compare(nil, current)

	if len(result.AddedComponents) != 2 {
		t.Errorf("Expected 2 added components, got %d", len(result.AddedComponents))
	}
	if len(result.RemovedComponents) != 0 || len(result.ModifiedComponents) != 0 {
		t.Errorf("Expected no removals/modifications against nil previous")
	}
	if len(result.AddedConnections) != 1 {
		t.Errorf("Expected 1 added connection, got %d", len(result.AddedConnections))
	}
}

// diff(S, S) is empty.
func TestCompareIdentical(t *testing.T) {
	snap := baseSnapshot(
		[]SnapshotComponent{snapComponent("api", model.TypeService, "1.0.0", model.LayerBackend)},
		[]SnapshotConnection{snapConnection("api", "postgres")},
	)
	result := Compare(snap, snap)
	if result.TotalChanges() != 0 {
		t.Errorf("Expected empty diff of a snapshot against itself, got %d changes",
			result.TotalChanges())
	}
	if result.Summary != "no changes" {
		t.Errorf("Unexpected summary: %q", result.Summary)
	}
}

func TestCompareFieldChanges(t *testing.T) {
	previous := baseSnapshot(
		[]SnapshotComponent{snapComponent("react", model.TypeNpmPackage, "17.0.2", model.LayerFrontend)},
		nil,
	)
	current := baseSnapshot(
		[]SnapshotComponent{snapComponent("react", model.TypeNpmPackage, "18.2.0", model.LayerFrontend)},
		nil,
	)
	result := Compare(previous, current)

	if len(result.ModifiedComponents) != 1 {
		t.Fatalf("Expected 1 modified component, got %d", len(result.ModifiedComponents))
	}
	changes := result.ModifiedComponents[0].Changes
	if len(changes) != 1 || changes[0] != "version: 17.0.2 -> 18.2.0" {
		t.Errorf("Unexpected change strings: %v", changes)
	}
	// The current layer is carried even when it is not among the changes.
	if result.ModifiedComponents[0].Layer != model.LayerFrontend {
		t.Errorf("Expected layer frontend on modified entry, got %s", result.ModifiedComponents[0].Layer)
	}
}

// The semantic key is (name, type): a renamed component is a remove+add,
// not a modification.
func TestCompareRenameIsRemoveAdd(t *testing.T) {
	previous := baseSnapshot(
		[]SnapshotComponent{snapComponent("old-name", model.TypeService, "", model.LayerBackend)},
		nil,
	)
	current := baseSnapshot(
		[]SnapshotComponent{snapComponent("new-name", model.TypeService, "", model.LayerBackend)},
		nil,
	)
	result := Compare(previous, current)

	if len(result.AddedComponents) != 1 || len(result.RemovedComponents) != 1 {
		t.Errorf("Expected rename as +1/-1, got +%d/-%d",
			len(result.AddedComponents), len(result.RemovedComponents))
	}
	if len(result.ModifiedComponents) != 0 {
		t.Errorf("Rename must not appear as modification")
	}
}

func TestTakeSnapshotResolvesEndpointNames(t *testing.T) {
	components := []*model.Component{
		{ID: "api-service-x9k2", Name: "api", Type: model.TypeService,
			Role: model.Role{Layer: model.LayerBackend}, Status: model.StatusActive},
	}
	connections := []*model.Connection{
		{ID: "conn-1",
			From: model.Endpoint{ComponentID: "api-service-x9k2"},
			To:   model.Endpoint{ComponentID: "file:src/db.ts"},
			Type: model.ConnAPICallsDB},
	}
	snap := TakeSnapshot(components, connections, time.Now().UTC())

	if snap.Connections[0].FromName != "api" {
		t.Errorf("Expected endpoint id resolved to name, got %q", snap.Connections[0].FromName)
	}
	if snap.Connections[0].ToName != "file:src/db.ts" {
		t.Errorf("Placeholder endpoint must keep its label, got %q", snap.Connections[0].ToName)
	}
}

func TestAppendBounded(t *testing.T) {
	var entries []TimelineEntry
	for i := 0; i < 7; i++ {
		entries = AppendBounded(entries, TimelineEntry{ID: string(rune('a' + i))}, 5)
	}
	if len(entries) != 5 {
		t.Fatalf("Expected timeline bounded at 5, got %d", len(entries))
	}
	if entries[0].ID != "c" {
		t.Errorf("Expected oldest entries dropped, got first entry %q", entries[0].ID)
	}
	if entries[4].ID != "g" {
		t.Errorf("Expected newest entry last, got %q", entries[4].ID)
	}
}

func TestMigrate(t *testing.T) {
	legacy := &Snapshot{
		SchemaVersion: 1,
		Components: []SnapshotComponent{
			{Name: "mystery", Type: model.TypeOther},
			{Name: "api", Type: model.TypeService, Layer: model.LayerBackend, Status: model.StatusActive},
		},
	}
	if !Migrate(legacy) {
		t.Fatal("Expected migration to report changes")
	}
	if legacy.Components[0].Layer != model.LayerExternal {
		t.Errorf("Empty layer must default to external, got %s", legacy.Components[0].Layer)
	}
	if legacy.Components[0].Status != model.StatusActive {
		t.Errorf("Empty status must default to active, got %s", legacy.Components[0].Status)
	}
	if legacy.Components[1].Layer != model.LayerBackend {
		t.Errorf("Populated layer must be untouched, got %s", legacy.Components[1].Layer)
	}
	if legacy.SchemaVersion != SchemaVersion {
		t.Errorf("Expected schema version %d, got %d", SchemaVersion, legacy.SchemaVersion)
	}
	// Migration never re-applies.
	if Migrate(legacy) {
		t.Error("Expected no-op on current schema version")
	}
}
