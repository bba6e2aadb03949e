package operations

import (
	"fmt"

	"evalgo.org/svgg/internal/changelog"
	"evalgo.org/svgg/internal/container"
	"evalgo.org/svgg/internal/structure"
	"evalgo.org/svgg/models"
)

// Exclude removes entries by name without persisting their bytes
// anywhere. All names are validated first: a single missing name
// fails the whole call with ErrNotFound and the container is left
// unchanged.
func (s *Service) Exclude(containerPath string, names []string) (*models.ExcludeResult, error) {
	lock := s.lockFor(containerPath)
	lock.Lock()
	defer lock.Unlock()

	c, frags, err := s.load(containerPath)
	if err != nil {
		return nil, err
	}

	for _, name := range names {
		if !c.Has(name) {
			return nil, fmt.Errorf("exclude %q: %w", name, container.ErrNotFound)
		}
	}

	result := &models.ExcludeResult{Container: containerPath}
	for _, name := range names {
		if _, err := c.RemoveEntry(name); err != nil {
			return nil, err
		}
		result.Removed = append(result.Removed, name)
	}

	if c.Structure() != nil {
		c.SetStructure(structure.BuildTree(c.Entries()))
	}

	if err := s.store(containerPath, c, frags); err != nil {
		return nil, err
	}

	summary := changelog.Summarize(models.OpExclude, nil, result.Removed)
	s.tracker.Record(models.OpExclude, result.Removed, summary)

	s.log.Info("exclude finished", "container", containerPath, "removed", len(result.Removed))
	return result, nil
}
