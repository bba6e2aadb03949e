package operations

import (
	"evalgo.org/svgg/internal/changelog"
)

// StartTracking enables changelog recording for subsequent
// operations in this process.
func (s *Service) StartTracking() {
	s.tracker.StartTracking()
	s.log.Debug("changelog tracking started")
}

// GenerateChangelog renders the operations recorded in this process.
func (s *Service) GenerateChangelog(format changelog.Format) ([]byte, error) {
	return s.tracker.Generate(format)
}

// PersistChangelog writes the tracked records into the container
// metadata block so the history survives the process.
func (s *Service) PersistChangelog(containerPath string) error {
	lock := s.lockFor(containerPath)
	lock.Lock()
	defer lock.Unlock()

	c, frags, err := s.load(containerPath)
	if err != nil {
		return err
	}

	merged := append(c.Changelog(), s.tracker.Entries()...)
	c.SetChangelog(merged)

	return s.store(containerPath, c, frags)
}

// RenderPersistedChangelog renders the changelog previously persisted
// inside a container.
func (s *Service) RenderPersistedChangelog(containerPath string, format changelog.Format) ([]byte, error) {
	lock := s.lockFor(containerPath)
	lock.Lock()
	defer lock.Unlock()

	c, _, err := s.load(containerPath)
	if err != nil {
		return nil, err
	}
	return changelog.Render(c.Changelog(), format)
}
