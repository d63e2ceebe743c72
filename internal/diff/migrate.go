package diff

import "archmap/internal/model"

// Migrate upgrades a legacy snapshot to the current schema in place and
// reports whether anything changed. Snapshots written before layer and
// criticality existed carry empty layers; those default to external. The
// default is a best-effort guess, not a verified semantic mapping — it is
// chosen to be non-crashing, not correct.
//
// Migration is one-way and lossy, and is never re-applied once a snapshot
// reports the current schema version.
func Migrate(snap *Snapshot) bool {
	if snap == nil || snap.SchemaVersion >= SchemaVersion {
		return false
	}
	for i := range snap.Components {
		if snap.Components[i].Layer == "" {
			snap.Components[i].Layer = model.LayerExternal
		}
		if snap.Components[i].Status == "" {
			snap.Components[i].Status = model.StatusActive
		}
	}
	snap.SchemaVersion = SchemaVersion
	return true
}
