package operations

import (
	"context"
	"errors"
	"fmt"

	"evalgo.org/svgg/internal/changelog"
	"evalgo.org/svgg/internal/codec"
	"evalgo.org/svgg/internal/container"
	"evalgo.org/svgg/internal/structure"
	"evalgo.org/svgg/models"
)

// ImportOptions controls an import operation. Unknown knobs do not
// exist: every option is a named, typed field.
type ImportOptions struct {
	// Strategy maps source-relative paths to logical paths. The zero
	// value preserves relative paths as-is; flat drops files into
	// the root; nested and by-source prefix a source segment.
	Strategy structure.MergeStrategy

	// PreserveStructure records the directory tree alongside the
	// flat entry mapping.
	PreserveStructure bool

	// Compress enables the deflate pass for embedded payloads.
	Compress bool

	// Overwrite replaces entries at existing logical paths. Without
	// it duplicates are reported as skipped.
	Overwrite bool

	// FailFast aborts the whole batch on the first per-file failure,
	// leaving the host document untouched. The default is to record
	// the failure and continue.
	FailFast bool

	// MediaType overrides extension-based inference. Only sensible
	// for single-file imports.
	MediaType string

	// Metadata is merged into the container metadata after the
	// entries are added. Protected keys are ignored.
	Metadata models.Metadata
}

// Import adds files from the given sources to the container inside
// the host document. Returns a per-file outcome manifest. Size limit
// violations and fail-fast failures abort before anything is written
// to the host document.
func (s *Service) Import(ctx context.Context, containerPath string, sources []Source, opts ImportOptions) (*models.ImportResult, error) {
	lock := s.lockFor(containerPath)
	lock.Lock()
	defer lock.Unlock()

	c, frags, err := s.load(containerPath)
	if err != nil {
		return nil, err
	}

	before := c.Paths()
	result := &models.ImportResult{Container: containerPath}
	total := totalRawSize(c)
	var overwritten []string

	for _, source := range sources {
		files, err := source.Files()
		if err != nil {
			if opts.FailFast {
				return nil, err
			}
			result.Record(models.FileOutcome{
				Path:   source.Name(),
				Status: models.OutcomeFailed,
				Error:  err.Error(),
			})
			continue
		}

		for _, file := range files {
			if err := ctx.Err(); err != nil {
				// Cooperative cancellation: stop dispatching. Nothing
				// reaches the host document because store never runs.
				return nil, err
			}

			if file.Size > s.cfg.Limits.MaxFileSize {
				return nil, fmt.Errorf("%s (%d bytes): %w", file.RelPath, file.Size, ErrLimitExceeded)
			}

			logical := structure.MapPath(opts.Strategy, source.Name(), file.RelPath)

			existing, hasExisting := s.existingEntry(c, logical)

			data, err := file.Read()
			if err != nil {
				if opts.FailFast {
					return nil, fmt.Errorf("read %s: %w", file.RelPath, err)
				}
				result.Record(models.FileOutcome{
					Path:   logical,
					Status: models.OutcomeFailed,
					Error:  err.Error(),
				})
				continue
			}

			if hasExisting {
				if !opts.Overwrite {
					result.Record(models.FileOutcome{
						Path:   logical,
						Status: models.OutcomeSkippedDuplicate,
						Size:   int64(len(data)),
						Error:  container.ErrDuplicatePath.Error(),
					})
					continue
				}
				// Dedup-aware overwrite: identical content is a skip,
				// not a rewrite.
				if existing.Checksum != "" && existing.RawSize == int64(len(data)) {
					if existing.Checksum == codec.Checksum(data) {
						result.Record(models.FileOutcome{
							Path:   logical,
							Status: models.OutcomeSkippedDuplicate,
							Size:   int64(len(data)),
						})
						continue
					}
				}
				total -= existing.RawSize
			}

			total += int64(len(data))
			if total > s.cfg.Limits.MaxTotalSize {
				return nil, fmt.Errorf("container would reach %d bytes: %w", total, ErrLimitExceeded)
			}

			entry, err := c.AddEntry(logical, data, container.AddOptions{
				MediaType: opts.MediaType,
				Compress:  opts.Compress,
				Overwrite: opts.Overwrite,
			})
			if err != nil {
				if errors.Is(err, container.ErrDuplicatePath) {
					result.Record(models.FileOutcome{
						Path:   logical,
						Status: models.OutcomeSkippedDuplicate,
						Size:   int64(len(data)),
						Error:  err.Error(),
					})
					continue
				}
				if opts.FailFast {
					return nil, err
				}
				result.Record(models.FileOutcome{
					Path:   logical,
					Status: models.OutcomeFailed,
					Error:  err.Error(),
				})
				continue
			}

			status := models.OutcomeAdded
			if hasExisting {
				status = models.OutcomeOverwritten
				overwritten = append(overwritten, logical)
			}
			result.Record(models.FileOutcome{
				Path:   logical,
				Status: status,
				Size:   entry.RawSize,
			})
			s.log.Debug("imported", "container", containerPath, "path", logical, "size", entry.RawSize)
		}
	}

	if opts.PreserveStructure || c.Structure() != nil {
		c.SetStructure(structure.BuildTree(c.Entries()))
	}
	if len(opts.Metadata) > 0 {
		c.MergeMetadata(opts.Metadata)
	}

	if err := s.store(containerPath, c, frags); err != nil {
		return nil, err
	}

	added, _ := changelog.Diff(before, c.Paths())
	affected := append(append([]string(nil), added...), overwritten...)
	summary := changelog.Summarize(models.OpImport, affected, nil)
	if len(overwritten) > 0 {
		summary = fmt.Sprintf("%s (%d overwritten)", summary, len(overwritten))
	}
	s.tracker.Record(models.OpImport, affected, summary)

	s.log.Info("import finished",
		"container", containerPath,
		"added", result.Added, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

// existingEntry returns the current entry at path, if any.
func (s *Service) existingEntry(c *container.Container, path string) (*models.Entry, bool) {
	if !c.Has(path) {
		return nil, false
	}
	entry, err := c.Entry(path)
	if err != nil {
		return nil, false
	}
	return entry, true
}
