package models

// Outcome of a single file within a batch import.
type OutcomeStatus string

const (
	OutcomeAdded            OutcomeStatus = "added"
	OutcomeSkippedDuplicate OutcomeStatus = "skipped-duplicate"
	OutcomeOverwritten      OutcomeStatus = "overwritten"
	OutcomeFailed           OutcomeStatus = "failed"
)

// FileOutcome describes what happened to one file during a batch
// import or export.
type FileOutcome struct {
	Path   string        `json:"path"`
	Status OutcomeStatus `json:"status"`
	Size   int64         `json:"size,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// ImportResult is the manifest returned by an import operation.
type ImportResult struct {
	Container string        `json:"container"`
	Outcomes  []FileOutcome `json:"outcomes"`
	Added     int           `json:"added"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
}

// Record appends an outcome and updates the counters.
func (r *ImportResult) Record(o FileOutcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch o.Status {
	case OutcomeAdded, OutcomeOverwritten:
		r.Added++
	case OutcomeSkippedDuplicate:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}
}

// ExportedFile describes one entry handed to an export sink.
type ExportedFile struct {
	Path    string `json:"path"`
	Size    int64  `json:"size"`
	Removed bool   `json:"removed,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ExportResult is the manifest returned by an export operation.
type ExportResult struct {
	Container string         `json:"container"`
	Files     []ExportedFile `json:"files"`
	Exported  int            `json:"exported"`
	Failed    int            `json:"failed"`
}

// ExcludeResult reports entries removed by an exclude operation.
type ExcludeResult struct {
	Container string   `json:"container"`
	Removed   []string `json:"removed"`
}

// MetadataResult returns the metadata mapping after a metadata verb.
type MetadataResult struct {
	Container string   `json:"container"`
	Metadata  Metadata `json:"metadata"`
}
