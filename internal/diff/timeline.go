package diff

import (
	"time"

	"archmap/internal/identity"
)

// DefaultTimelineLimit bounds the in-memory timeline length. The timeline is
// append-only with ring-buffer semantics: once the bound is exceeded the
// oldest entries are dropped.
const DefaultTimelineLimit = 50

// NewTimelineEntry builds an entry for an appended diff
func NewTimelineEntry(result *Result, snapshotID string, now time.Time) TimelineEntry {
	return TimelineEntry{
		ID:           identity.NewConnectionID("timeline"),
		Timestamp:    now,
		SnapshotID:   snapshotID,
		Significance: result.Significance,
		Summary:      result.Summary,
		Diff:         result,
	}
}

// AppendBounded appends an entry and prunes to the limit, dropping the
// oldest entries first. limit <= 0 means DefaultTimelineLimit. The input
// slice is not mutated.
func AppendBounded(entries []TimelineEntry, entry TimelineEntry, limit int) []TimelineEntry {
	if limit <= 0 {
		limit = DefaultTimelineLimit
	}
	out := make([]TimelineEntry, 0, len(entries)+1)
	out = append(out, entries...)
	out = append(out, entry)
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
