// Package changelog derives an append-only operation history from
// successive operation-layer invocations and renders it in several
// formats.
package changelog

import (
	"fmt"
	"sort"
	"sync"

	"evalgo.org/svgg/models"
)

// Tracker accumulates changelog records while tracking is enabled.
// Tracking state is process-local; the log is only persisted when
// explicitly serialized into the container metadata.
type Tracker struct {
	mu       sync.Mutex
	tracking bool
	entries  []models.ChangelogEntry
}

// NewTracker returns a tracker in the not-tracking state.
func NewTracker() *Tracker {
	return &Tracker{}
}

// StartTracking moves the tracker into the tracking state. Already
// accumulated records are kept.
func (t *Tracker) StartTracking() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tracking = true
}

// StopTracking stops recording. The accumulated log is kept.
func (t *Tracker) StopTracking() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tracking = false
}

// Tracking reports whether operations are currently recorded.
func (t *Tracker) Tracking() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tracking
}

// Record appends one changelog record for a successful operation.
// No-op while not tracking. Records are never mutated or reordered
// after insertion.
func (t *Tracker) Record(operation string, affected []string, summary string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.tracking {
		return
	}
	t.entries = append(t.entries, models.NewChangelogEntry(operation, affected, summary))
}

// Entries returns the accumulated records, oldest first.
func (t *Tracker) Entries() []models.ChangelogEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.ChangelogEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Load seeds the tracker with records previously persisted in a
// container, keeping them ahead of anything recorded later.
func (t *Tracker) Load(entries []models.ChangelogEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(append([]models.ChangelogEntry(nil), entries...), t.entries...)
}

// Diff computes which paths were added and removed between two
// entry-set snapshots.
func Diff(before, after []string) (added, removed []string) {
	beforeSet := make(map[string]bool, len(before))
	for _, p := range before {
		beforeSet[p] = true
	}
	afterSet := make(map[string]bool, len(after))
	for _, p := range after {
		afterSet[p] = true
	}
	for _, p := range after {
		if !beforeSet[p] {
			added = append(added, p)
		}
	}
	for _, p := range before {
		if !afterSet[p] {
			removed = append(removed, p)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

// Summarize renders a human-readable description of an entry-set
// diff for the changelog record.
func Summarize(operation string, added, removed []string) string {
	switch {
	case len(added) > 0 && len(removed) > 0:
		return fmt.Sprintf("%s: %d added, %d removed", operation, len(added), len(removed))
	case len(added) > 0:
		return fmt.Sprintf("%s: %d file(s) added", operation, len(added))
	case len(removed) > 0:
		return fmt.Sprintf("%s: %d file(s) removed", operation, len(removed))
	default:
		return fmt.Sprintf("%s: no entry changes", operation)
	}
}
