package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"archmap/internal/diff"
	"archmap/internal/errors"
	"archmap/internal/scan"
)

// ScanRunMeta is the listing row for a stored scan run
type ScanRunMeta struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"createdAt"`
	ComponentCount  int       `json:"componentCount"`
	ConnectionCount int       `json:"connectionCount"`
	WarningCount    int       `json:"warningCount"`
}

// SaveScanRun persists a completed scan result and returns its run id
func (db *DB) SaveScanRun(result *scan.Result, at time.Time) (string, error) {
	blob, err := encodeBlob(result)
	if err != nil {
		return "", err
	}
	runID := uuid.NewString()

	err = db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO scan_runs (id, created_at, component_count, connection_count, warning_count, result_blob)
			VALUES (?, ?, ?, ?, ?, ?)
		`, runID, at.UTC().Format(time.RFC3339), len(result.Components), len(result.Connections), len(result.Warnings), blob)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to save scan run: %w", err)
	}
	return runID, nil
}

// LoadLatestScanRun returns the most recent scan result, or nil when the
// database holds none yet.
func (db *DB) LoadLatestScanRun() (*scan.Result, error) {
	var blob []byte
	err := db.conn.QueryRow(`
		SELECT result_blob FROM scan_runs ORDER BY created_at DESC, id DESC LIMIT 1
	`).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New(errors.StorageUnavailable, "failed to load scan run", err)
	}

	var result scan.Result
	if err := decodeBlob(blob, &result); err != nil {
		return nil, errors.New(errors.SnapshotCorrupt, "stored scan run is unreadable", err)
	}
	return &result, nil
}

// ListScanRuns returns scan run metadata, newest first
func (db *DB) ListScanRuns(limit int) ([]ScanRunMeta, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, created_at, component_count, connection_count, warning_count
		FROM scan_runs ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.New(errors.StorageUnavailable, "failed to list scan runs", err)
	}
	defer rows.Close()

	var runs []ScanRunMeta
	for rows.Next() {
		var meta ScanRunMeta
		var createdAt string
		if err := rows.Scan(&meta.ID, &createdAt, &meta.ComponentCount, &meta.ConnectionCount, &meta.WarningCount); err != nil {
			return nil, err
		}
		meta.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

// SaveSnapshot persists a semantic snapshot
func (db *DB) SaveSnapshot(snap *diff.Snapshot) error {
	blob, err := encodeBlob(snap)
	if err != nil {
		return err
	}
	err = db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO snapshots (id, created_at, schema_version, snapshot_blob)
			VALUES (?, ?, ?, ?)
		`, snap.ID, snap.Timestamp.UTC().Format(time.RFC3339), snap.SchemaVersion, blob)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadLatestSnapshot returns the most recent snapshot, migrated to the
// current schema, or nil when none exists. A corrupt blob is treated as
// absent so current-state queries keep working.
func (db *DB) LoadLatestSnapshot() (*diff.Snapshot, error) {
	var blob []byte
	err := db.conn.QueryRow(`
		SELECT snapshot_blob FROM snapshots ORDER BY created_at DESC, id DESC LIMIT 1
	`).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New(errors.StorageUnavailable, "failed to load snapshot", err)
	}
	return db.decodeSnapshot(blob)
}

// LoadPreviousSnapshot returns the second-most-recent snapshot, or nil when
// fewer than two exist.
func (db *DB) LoadPreviousSnapshot() (*diff.Snapshot, error) {
	var blob []byte
	err := db.conn.QueryRow(`
		SELECT snapshot_blob FROM snapshots ORDER BY created_at DESC, id DESC LIMIT 1 OFFSET 1
	`).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New(errors.StorageUnavailable, "failed to load snapshot", err)
	}
	return db.decodeSnapshot(blob)
}

// LoadSnapshot returns a snapshot by id, or nil when absent
func (db *DB) LoadSnapshot(id string) (*diff.Snapshot, error) {
	var blob []byte
	err := db.conn.QueryRow(`SELECT snapshot_blob FROM snapshots WHERE id = ?`, id).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New(errors.StorageUnavailable, "failed to load snapshot", err)
	}
	return db.decodeSnapshot(blob)
}

// decodeSnapshot decodes and migrates a stored snapshot blob. An unreadable
// blob decodes to nil so callers treat it as a missing snapshot.
func (db *DB) decodeSnapshot(blob []byte) (*diff.Snapshot, error) {
	var snap diff.Snapshot
	if err := decodeBlob(blob, &snap); err != nil {
		db.logger.Warn("Stored snapshot is unreadable, treating as absent", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, nil
	}
	if diff.Migrate(&snap) {
		db.logger.Debug("Migrated snapshot to current schema", map[string]interface{}{
			"snapshot": snap.ID,
			"version":  snap.SchemaVersion,
		})
	}
	return &snap, nil
}
