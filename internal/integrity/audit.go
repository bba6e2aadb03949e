package integrity

import (
	"fmt"
	"sort"

	"evalgo.org/svgg/internal/container"
	"evalgo.org/svgg/internal/structure"
)

// Inspect audits one parsed container and returns its findings. The
// container is not mutated.
func Inspect(containerPath string, c *container.Container) []Issue {
	var issues []Issue

	if corrupt := corruptPayloads(c); len(corrupt) > 0 {
		issues = append(issues, Issue{
			Type:      IssueCorruptPayload,
			Severity:  SeverityHigh,
			Container: containerPath,
			Paths:     corrupt,
			Detail:    fmt.Sprintf("%d entr%s failed payload verification", len(corrupt), plural(len(corrupt), "y", "ies")),
		})
	}

	if recorded := c.Metadata().FilesCount(); recorded != c.Len() {
		issues = append(issues, Issue{
			Type:       IssueCountDrift,
			Severity:   SeverityMedium,
			Container:  containerPath,
			Detail:     fmt.Sprintf("metadata records %d files, container holds %d", recorded, c.Len()),
			Repairable: true,
		})
	}

	if tree := c.Structure(); tree != nil {
		if err := structure.Validate(tree, c.Paths()); err != nil {
			issues = append(issues, Issue{
				Type:       IssueStructureDrift,
				Severity:   SeverityMedium,
				Container:  containerPath,
				Detail:     err.Error(),
				Repairable: true,
			})
		}
	}

	for _, group := range duplicateContent(c) {
		issues = append(issues, Issue{
			Type:      IssueDuplicateContent,
			Severity:  SeverityLow,
			Container: containerPath,
			Paths:     group,
			Detail:    fmt.Sprintf("%d paths share identical content", len(group)),
		})
	}

	return issues
}

// corruptPayloads returns the paths of entries that fail to decode
// or mismatch their recorded checksum, in container order.
func corruptPayloads(c *container.Container) []string {
	var corrupt []string
	for _, entry := range c.Entries() {
		if _, err := c.DecodeEntry(entry.Path); err != nil {
			corrupt = append(corrupt, entry.Path)
		}
	}
	return corrupt
}

// duplicateContent groups logical paths by checksum and returns the
// groups holding more than one path, sorted for deterministic
// reports.
func duplicateContent(c *container.Container) [][]string {
	byChecksum := make(map[string][]string)
	for _, entry := range c.Entries() {
		if entry.Checksum == "" {
			continue
		}
		byChecksum[entry.Checksum] = append(byChecksum[entry.Checksum], entry.Path)
	}

	var groups [][]string
	for _, paths := range byChecksum {
		if len(paths) > 1 {
			sort.Strings(paths)
			groups = append(groups, paths)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
