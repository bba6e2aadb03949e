package models

import "time"

// Operation kinds recorded in the changelog.
const (
	OpImport         = "import"
	OpExport         = "export"
	OpExclude        = "exclude"
	OpMetadataUpdate = "metadata-update"
	OpRepair         = "repair"
)

// ChangelogEntry records one successful operation against a
// container. Entries are append-only: never mutated or reordered.
type ChangelogEntry struct {
	// ID is a unique identifier for the record.
	ID string `json:"id"`

	// Timestamp is when the operation completed.
	Timestamp time.Time `json:"timestamp"`

	// Operation is one of import, export, exclude, metadata-update.
	Operation string `json:"operation"`

	// AffectedPaths are the logical paths touched by the operation.
	AffectedPaths []string `json:"affected_paths"`

	// Summary is a human-readable description derived from the
	// before/after diff of the entry set.
	Summary string `json:"summary"`
}

// NewChangelogEntry creates a changelog record with a fresh ID and
// the current time.
func NewChangelogEntry(operation string, affected []string, summary string) ChangelogEntry {
	return ChangelogEntry{
		ID:            GenerateID("change"),
		Timestamp:     time.Now().UTC(),
		Operation:     operation,
		AffectedPaths: affected,
		Summary:       summary,
	}
}
