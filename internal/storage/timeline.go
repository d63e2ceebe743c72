package storage

import (
	"database/sql"
	"time"

	"archmap/internal/diff"
	"archmap/internal/errors"
)

// AppendTimelineEntry stores a timeline entry and prunes rows beyond the
// bound, oldest first. The bound keeps the timeline a ring buffer rather
// than an ever-growing log.
func (db *DB) AppendTimelineEntry(entry *diff.TimelineEntry, limit int) error {
	if limit <= 0 {
		limit = diff.DefaultTimelineLimit
	}
	blob, err := encodeBlob(entry)
	if err != nil {
		return err
	}

	return db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO timeline (id, created_at, snapshot_id, significance, summary, entry_blob)
			VALUES (?, ?, ?, ?, ?, ?)
		`, entry.ID, entry.Timestamp.UTC().Format(time.RFC3339), entry.SnapshotID,
			string(entry.Significance), entry.Summary, blob)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			DELETE FROM timeline WHERE id NOT IN (
				SELECT id FROM timeline ORDER BY created_at DESC, id DESC LIMIT ?
			)
		`, limit)
		return err
	})
}

// LoadTimeline returns timeline entries, newest first
func (db *DB) LoadTimeline(limit int) ([]*diff.TimelineEntry, error) {
	if limit <= 0 {
		limit = diff.DefaultTimelineLimit
	}
	rows, err := db.conn.Query(`
		SELECT entry_blob FROM timeline ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.New(errors.StorageUnavailable, "failed to load timeline", err)
	}
	defer rows.Close()

	var entries []*diff.TimelineEntry
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		var entry diff.TimelineEntry
		if err := decodeBlob(blob, &entry); err != nil {
			db.logger.Warn("Stored timeline entry is unreadable, skipping", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
