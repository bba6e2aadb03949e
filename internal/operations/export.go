package operations

import (
	"context"
	"fmt"
	"path"
	"strings"

	"evalgo.org/svgg/internal/changelog"
	"evalgo.org/svgg/internal/structure"
	"evalgo.org/svgg/models"
)

// ExportOptions controls an export operation.
type ExportOptions struct {
	// Remove deletes each entry from the container after its bytes
	// reached the sink. A sink failure for an entry leaves that
	// entry in place.
	Remove bool

	// FailFast aborts on the first decode or sink failure, leaving
	// the host document untouched.
	FailFast bool
}

// Export decodes the entries matched by the selector and hands them
// to the sink. An empty selector matches every entry. Selector
// elements are exact logical paths or glob patterns; an exact name
// with no match is reported as a per-file failure. Export owns the
// sink lifecycle and closes it on every return path.
func (s *Service) Export(ctx context.Context, containerPath string, selector []string, sink Sink, opts ExportOptions) (*models.ExportResult, error) {
	lock := s.lockFor(containerPath)
	lock.Lock()
	defer lock.Unlock()

	finalized := false
	defer func() {
		if !finalized {
			sink.Close()
		}
	}()

	c, frags, err := s.load(containerPath)
	if err != nil {
		return nil, err
	}

	matched, missing := selectPaths(c.Paths(), selector)
	result := &models.ExportResult{Container: containerPath}
	for _, name := range missing {
		if opts.FailFast {
			return nil, fmt.Errorf("export %q: no matching entry", name)
		}
		result.Files = append(result.Files, models.ExportedFile{
			Path:  name,
			Error: "no matching entry",
		})
		result.Failed++
	}

	var removed []string
	var exported []string
	for _, p := range matched {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := c.DecodeEntry(p)
		if err != nil {
			if opts.FailFast {
				return nil, err
			}
			result.Files = append(result.Files, models.ExportedFile{Path: p, Error: err.Error()})
			result.Failed++
			continue
		}

		if err := sink.Write(p, data); err != nil {
			if opts.FailFast {
				return nil, err
			}
			result.Files = append(result.Files, models.ExportedFile{Path: p, Error: err.Error()})
			result.Failed++
			continue
		}

		file := models.ExportedFile{Path: p, Size: int64(len(data))}
		if opts.Remove {
			// Removal only after the sink accepted the bytes.
			if _, err := c.RemoveEntry(p); err != nil {
				return nil, err
			}
			file.Removed = true
			removed = append(removed, p)
		}
		result.Files = append(result.Files, file)
		result.Exported++
		exported = append(exported, p)
	}

	// The sink is finalized before any removal reaches the host
	// document: an archive's bytes are not durable until its central
	// directory is written, and a failed Close must keep every entry.
	finalized = true
	if err := sink.Close(); err != nil {
		return nil, fmt.Errorf("finalize sink: %w", err)
	}

	if len(removed) > 0 {
		if c.Structure() != nil {
			c.SetStructure(structure.BuildTree(c.Entries()))
		}
		if err := s.store(containerPath, c, frags); err != nil {
			return nil, err
		}
	}

	summary := changelog.Summarize(models.OpExport, nil, removed)
	summary = fmt.Sprintf("%s, %d exported", summary, result.Exported)
	s.tracker.Record(models.OpExport, exported, summary)

	s.log.Info("export finished",
		"container", containerPath, "exported", result.Exported, "failed", result.Failed)
	return result, nil
}

// selectPaths partitions the selector into matched container paths
// (in container order, without duplicates) and exact names that
// matched nothing. Glob patterns matching nothing are not an error.
func selectPaths(paths []string, selector []string) (matched, missing []string) {
	if len(selector) == 0 {
		return paths, nil
	}

	seen := make(map[string]bool)
	matchedSet := make(map[string]bool)
	for _, pattern := range selector {
		found := false
		for _, p := range paths {
			if matchSelector(pattern, p) {
				found = true
				if !matchedSet[p] {
					matchedSet[p] = true
				}
			}
		}
		if !found && !isGlob(pattern) && !seen[pattern] {
			seen[pattern] = true
			missing = append(missing, pattern)
		}
	}

	for _, p := range paths {
		if matchedSet[p] {
			matched = append(matched, p)
		}
	}
	return matched, missing
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// matchSelector matches a logical path against a pattern: exact
// match, glob on the full path, or glob on the base name so that
// "*.png" finds images in subdirectories.
func matchSelector(pattern, logical string) bool {
	if pattern == logical {
		return true
	}
	if !isGlob(pattern) {
		return false
	}
	if ok, err := path.Match(pattern, logical); err == nil && ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		if ok, err := path.Match(pattern, path.Base(logical)); err == nil && ok {
			return true
		}
	}
	return false
}
