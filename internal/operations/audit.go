package operations

import (
	"context"
	"sync"

	"evalgo.org/svgg/internal/integrity"
	"evalgo.org/svgg/models"
)

// Audit inspects the given containers for integrity problems:
// corrupt payloads, drifted metadata counters, stale structure
// trees, duplicated content. Containers are inspected in parallel
// with the batch worker pool; one unreadable container does not
// abort the rest.
func (s *Service) Audit(ctx context.Context, containerPaths []string) *integrity.Report {
	report := integrity.NewReport()
	var mu sync.Mutex

	results := s.RunBatch(ctx, containerPaths, func(ctx context.Context, containerPath string) error {
		lock := s.lockFor(containerPath)
		lock.Lock()
		defer lock.Unlock()

		c, _, err := s.load(containerPath)
		if err != nil {
			return err
		}
		issues := integrity.Inspect(containerPath, c)

		mu.Lock()
		defer mu.Unlock()
		report.Containers++
		report.Entries += c.Len()
		report.Issues = append(report.Issues, issues...)
		return nil
	})

	for _, r := range results {
		if r.Err != nil {
			report.Errors[r.Container] = r.Err.Error()
		}
	}

	report.Finish()
	s.log.Info("audit finished",
		"containers", report.Containers, "issues", len(report.Issues), "score", report.HealthScore)
	return report
}

// Repair fixes the repairable issues of one container and persists
// the result. A dry run returns the plan without touching the host
// document. Corrupt entries are only removed with Force.
func (s *Service) Repair(containerPath string, opts integrity.RepairOptions) ([]integrity.RepairAction, error) {
	lock := s.lockFor(containerPath)
	lock.Lock()
	defer lock.Unlock()

	c, frags, err := s.load(containerPath)
	if err != nil {
		return nil, err
	}

	issues := integrity.Inspect(containerPath, c)
	actions, err := integrity.Repair(c, issues, opts)
	if err != nil {
		return actions, err
	}

	applied := 0
	var affected []string
	for _, a := range actions {
		if a.Applied {
			applied++
			affected = append(affected, a.Paths...)
		}
	}
	if applied == 0 {
		return actions, nil
	}

	if err := s.store(containerPath, c, frags); err != nil {
		return actions, err
	}

	s.tracker.Record(models.OpRepair, affected, "repair: "+keyListActions(actions))
	s.log.Info("repair finished", "container", containerPath, "actions", applied)
	return actions, nil
}

func keyListActions(actions []integrity.RepairAction) string {
	out := ""
	for _, a := range actions {
		if !a.Applied {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += string(a.Issue)
	}
	return out
}
