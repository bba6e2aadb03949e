package operations

import (
	"strings"

	"evalgo.org/svgg/models"
)

// ListFilter narrows a listing. The zero value matches everything.
type ListFilter struct {
	// MediaType keeps entries whose media type equals the filter or
	// starts with it ("image/" matches all images).
	MediaType string

	// Pattern is a glob or exact path filter, matched like an export
	// selector.
	Pattern string

	// Verify decodes each payload and checks it against the recorded
	// checksum, filling EntryInfo.Verified. Corrupt entries are
	// reported, not fatal: listing stays a metadata-only read.
	Verify bool
}

// List returns the metadata projection of the container's entries in
// insertion order. Never mutates the container or the host document.
func (s *Service) List(containerPath string, filter ListFilter) ([]models.EntryInfo, error) {
	lock := s.lockFor(containerPath)
	lock.Lock()
	defer lock.Unlock()

	c, _, err := s.load(containerPath)
	if err != nil {
		return nil, err
	}

	infos := make([]models.EntryInfo, 0, c.Len())
	for _, entry := range c.Entries() {
		if filter.MediaType != "" && !matchMediaType(entry.MediaType, filter.MediaType) {
			continue
		}
		if filter.Pattern != "" && !matchSelector(filter.Pattern, entry.Path) {
			continue
		}
		info := entry.Info()
		if filter.Verify {
			_, err := c.DecodeEntry(entry.Path)
			ok := err == nil
			info.Verified = &ok
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// ReadEntry decodes a single entry and returns its raw bytes together
// with the recorded media type.
func (s *Service) ReadEntry(containerPath, entryPath string) ([]byte, string, error) {
	lock := s.lockFor(containerPath)
	lock.Lock()
	defer lock.Unlock()

	c, _, err := s.load(containerPath)
	if err != nil {
		return nil, "", err
	}

	entry, err := c.Entry(entryPath)
	if err != nil {
		return nil, "", err
	}
	data, err := c.DecodeEntry(entryPath)
	if err != nil {
		return nil, "", err
	}
	return data, entry.MediaType, nil
}

// Metadata returns a copy of the container's metadata mapping.
func (s *Service) Metadata(containerPath string) (models.Metadata, error) {
	lock := s.lockFor(containerPath)
	lock.Lock()
	defer lock.Unlock()

	c, _, err := s.load(containerPath)
	if err != nil {
		return nil, err
	}
	return c.Metadata().Clone(), nil
}

// Structure returns the container's directory-tree description, or
// nil when structure preservation was never requested.
func (s *Service) Structure(containerPath string) (*models.TreeNode, error) {
	lock := s.lockFor(containerPath)
	lock.Lock()
	defer lock.Unlock()

	c, _, err := s.load(containerPath)
	if err != nil {
		return nil, err
	}
	return c.Structure(), nil
}

func matchMediaType(mediaType, filter string) bool {
	if mediaType == filter {
		return true
	}
	return strings.HasSuffix(filter, "/") && strings.HasPrefix(mediaType, filter)
}
