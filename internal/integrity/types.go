// Package integrity inspects containers for consistency problems and
// plans repairs for the ones that can be fixed mechanically.
//
// The checks cover:
//   - Payloads that no longer decode or fail checksum verification
//   - Metadata counters that drifted from the entry set
//   - Structure trees naming entries that no longer exist
//   - Identical content stored under multiple logical paths
//
// Inspection never mutates a container. Repair rebuilds the derived
// state (counters, structure tree) from the flat entry mapping, which
// is the source of truth; corrupt payloads are only removed when the
// caller explicitly opts in, since that is the one repair that loses
// data.
package integrity

import (
	"time"

	"evalgo.org/svgg/models"
)

// IssueType classifies one detected problem.
type IssueType string

const (
	// IssueCorruptPayload is an entry whose payload fails to decode
	// or does not match its recorded checksum.
	IssueCorruptPayload IssueType = "corrupt-payload"

	// IssueCountDrift is a files_count metadata value that differs
	// from the actual number of entries.
	IssueCountDrift IssueType = "count-drift"

	// IssueStructureDrift is a structure tree that disagrees with
	// the flat entry mapping.
	IssueStructureDrift IssueType = "structure-drift"

	// IssueDuplicateContent is identical content stored under more
	// than one logical path. Informational: duplicates are legal.
	IssueDuplicateContent IssueType = "duplicate-content"
)

// Severity grades an issue.
type Severity string

const (
	// SeverityLow marks informational findings.
	SeverityLow Severity = "low"

	// SeverityMedium marks derived state that drifted but is fully
	// recomputable.
	SeverityMedium Severity = "medium"

	// SeverityHigh marks entries whose content can no longer be
	// recovered from the container.
	SeverityHigh Severity = "high"
)

// Issue is one finding from a container inspection.
type Issue struct {
	Type      IssueType `json:"type"`
	Severity  Severity  `json:"severity"`
	Container string    `json:"container"`
	Paths     []string  `json:"paths,omitempty"`
	Detail    string    `json:"detail"`

	// Repairable reports whether Repair can fix this issue without
	// the Force option.
	Repairable bool `json:"repairable"`
}

// Report is the result of auditing one or more containers.
type Report struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Containers int `json:"containers"`
	Entries    int `json:"entries"`

	Issues []Issue `json:"issues,omitempty"`

	// Errors lists containers that could not be inspected at all,
	// keyed by container path.
	Errors map[string]string `json:"errors,omitempty"`

	// HealthScore is 100 for a clean audit, reduced per issue by
	// severity weight, floored at 0.
	HealthScore int `json:"health_score"`
}

// NewReport returns an empty report with a fresh ID.
func NewReport() *Report {
	return &Report{
		ID:        models.GenerateID("audit"),
		StartedAt: time.Now().UTC(),
		Errors:    map[string]string{},
	}
}

// Finish stamps the end time and computes the health score.
func (r *Report) Finish() {
	r.FinishedAt = time.Now().UTC()
	r.HealthScore = healthScore(r.Issues, len(r.Errors))
}

// IssuesFor returns the issues recorded for one container.
func (r *Report) IssuesFor(containerPath string) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Container == containerPath {
			out = append(out, issue)
		}
	}
	return out
}

var severityWeight = map[Severity]int{
	SeverityLow:    2,
	SeverityMedium: 10,
	SeverityHigh:   25,
}

func healthScore(issues []Issue, unreadable int) int {
	score := 100
	for _, issue := range issues {
		score -= severityWeight[issue.Severity]
	}
	score -= 40 * unreadable
	if score < 0 {
		score = 0
	}
	return score
}

// RepairOptions controls a repair run.
type RepairOptions struct {
	// DryRun plans the repair without mutating the container.
	DryRun bool

	// Force also removes entries with corrupt payloads. Without it
	// those entries are left in place and reported as skipped, since
	// removal is the only repair that destroys data.
	Force bool
}

// RepairAction describes one step of a repair plan.
type RepairAction struct {
	Issue   IssueType `json:"issue"`
	Detail  string    `json:"detail"`
	Paths   []string  `json:"paths,omitempty"`
	Applied bool      `json:"applied"`
}
