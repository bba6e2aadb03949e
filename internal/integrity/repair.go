package integrity

import (
	"fmt"

	"evalgo.org/svgg/internal/container"
	"evalgo.org/svgg/internal/structure"
)

// Repair fixes the repairable issues found by Inspect, mutating the
// container in place, and returns the plan that was (or would be)
// applied. With DryRun the container is left untouched and every
// action is reported unapplied.
//
// Derived state is rebuilt from the flat entry mapping: the counter
// drift repair recomputes the protected metadata keys, the structure
// drift repair regenerates the tree. Corrupt entries are removed
// only with Force; the caller reports them otherwise.
func Repair(c *container.Container, issues []Issue, opts RepairOptions) ([]RepairAction, error) {
	var actions []RepairAction

	for _, issue := range issues {
		switch issue.Type {
		case IssueCountDrift:
			action := RepairAction{
				Issue:  IssueCountDrift,
				Detail: "recompute metadata counters from the entry set",
			}
			if !opts.DryRun {
				c.SetMetadata(c.Metadata())
				action.Applied = true
			}
			actions = append(actions, action)

		case IssueStructureDrift:
			action := RepairAction{
				Issue:  IssueStructureDrift,
				Detail: "rebuild structure tree from the entry set",
			}
			if !opts.DryRun {
				c.SetStructure(structure.BuildTree(c.Entries()))
				action.Applied = true
			}
			actions = append(actions, action)

		case IssueCorruptPayload:
			if !opts.Force {
				actions = append(actions, RepairAction{
					Issue:  IssueCorruptPayload,
					Detail: "corrupt entries kept, pass force to remove them",
					Paths:  issue.Paths,
				})
				continue
			}
			action := RepairAction{
				Issue:  IssueCorruptPayload,
				Detail: fmt.Sprintf("remove %d corrupt entr%s", len(issue.Paths), plural(len(issue.Paths), "y", "ies")),
				Paths:  issue.Paths,
			}
			if !opts.DryRun {
				for _, p := range issue.Paths {
					if _, err := c.RemoveEntry(p); err != nil {
						return actions, fmt.Errorf("remove corrupt entry %q: %w", p, err)
					}
				}
				if c.Structure() != nil {
					c.SetStructure(structure.BuildTree(c.Entries()))
				}
				action.Applied = true
			}
			actions = append(actions, action)

		case IssueDuplicateContent:
			// Legal state, nothing to repair.
		}
	}

	return actions, nil
}
