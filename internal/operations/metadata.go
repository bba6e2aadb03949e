package operations

import (
	"fmt"
	"sort"
	"strings"

	"evalgo.org/svgg/models"
)

// UpdateMetadata merges caller-supplied keys into the container
// metadata. Protected keys (files_count, structure and friends) are
// silently skipped and recomputed.
func (s *Service) UpdateMetadata(containerPath string, values models.Metadata) (*models.MetadataResult, error) {
	return s.metadataOp(containerPath, fmt.Sprintf("update %s", keyList(values)), func(c metadataContainer) {
		c.MergeMetadata(values)
	})
}

// RemoveMetadata deletes the given keys from the container metadata.
// Protected keys are skipped.
func (s *Service) RemoveMetadata(containerPath string, keys []string) (*models.MetadataResult, error) {
	return s.metadataOp(containerPath, "remove "+strings.Join(keys, ", "), func(c metadataContainer) {
		c.DeleteMetadata(keys...)
	})
}

// CleanMetadata reduces the metadata to the essential descriptive
// subset: title, description, creator.
func (s *Service) CleanMetadata(containerPath string) (*models.MetadataResult, error) {
	return s.metadataOp(containerPath, "clean to essential keys", func(c metadataContainer) {
		c.CleanMetadata()
	})
}

// ClearMetadata empties the metadata mapping. The protected keys are
// recomputed immediately so the container stays self-describing.
func (s *Service) ClearMetadata(containerPath string) (*models.MetadataResult, error) {
	return s.metadataOp(containerPath, "clear", func(c metadataContainer) {
		c.ClearMetadata()
	})
}

// metadataContainer is the slice of the container model the metadata
// verbs need.
type metadataContainer interface {
	MergeMetadata(models.Metadata)
	DeleteMetadata(...string)
	CleanMetadata()
	ClearMetadata()
}

func (s *Service) metadataOp(containerPath, summary string, mutate func(metadataContainer)) (*models.MetadataResult, error) {
	lock := s.lockFor(containerPath)
	lock.Lock()
	defer lock.Unlock()

	c, frags, err := s.load(containerPath)
	if err != nil {
		return nil, err
	}

	mutate(c)

	if err := s.store(containerPath, c, frags); err != nil {
		return nil, err
	}

	s.tracker.Record(models.OpMetadataUpdate, nil, "metadata-update: "+summary)
	s.log.Info("metadata updated", "container", containerPath, "change", summary)

	return &models.MetadataResult{
		Container: containerPath,
		Metadata:  c.Metadata().Clone(),
	}, nil
}

func keyList(values models.Metadata) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
