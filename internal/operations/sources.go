package operations

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SourceFile is one file offered by an import source. Content is
// read lazily so a failed file does not abort the rest of the batch.
type SourceFile struct {
	// RelPath is the path relative to the source root, forward-slash
	// separated.
	RelPath string

	// Size is the raw size in bytes, used for the limit pre-check.
	Size int64

	// Read returns the file content.
	Read func() ([]byte, error)
}

// Source supplies files to the import operation. External
// collaborators (URL fetchers, cloud adapters) implement the same
// interface.
type Source interface {
	// Name is the source's base name, used as the top-level segment
	// for nested and by-source merges.
	Name() string

	// Files enumerates the source's files.
	Files() ([]SourceFile, error)
}

// FileSource imports a single file from the local filesystem under
// its base name.
type FileSource struct {
	Path string
}

func (f FileSource) Name() string {
	return strings.TrimSuffix(filepath.Base(f.Path), filepath.Ext(f.Path))
}

func (f FileSource) Files() ([]SourceFile, error) {
	info, err := os.Stat(f.Path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", f.Path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, use a directory source", f.Path)
	}
	path := f.Path
	return []SourceFile{{
		RelPath: filepath.Base(path),
		Size:    info.Size(),
		Read:    func() ([]byte, error) { return os.ReadFile(path) },
	}}, nil
}

// DirectorySource walks a directory tree, skipping entries that
// match the ignore patterns.
type DirectorySource struct {
	Path   string
	Ignore *IgnoreList
}

func (d DirectorySource) Name() string {
	return filepath.Base(filepath.Clean(d.Path))
}

func (d DirectorySource) Files() ([]SourceFile, error) {
	ignore := d.Ignore
	if ignore == nil {
		ignore = DefaultIgnoreList()
	}

	var files []SourceFile
	root := filepath.Clean(d.Path)
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, matching the behavior
			// of scanning a project directory with mixed permissions.
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if ignore.Match(rel) {
			if entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		info, infoErr := entry.Info()
		if infoErr != nil {
			return nil
		}
		filePath := path
		files = append(files, SourceFile{
			RelPath: rel,
			Size:    info.Size(),
			Read:    func() ([]byte, error) { return os.ReadFile(filePath) },
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", d.Path, err)
	}
	return files, nil
}

// ZipSource imports the contents of a zip archive, preserving the
// archive's internal paths.
type ZipSource struct {
	Path string
}

func (z ZipSource) Name() string {
	return strings.TrimSuffix(filepath.Base(z.Path), filepath.Ext(z.Path))
}

func (z ZipSource) Files() ([]SourceFile, error) {
	reader, err := zip.OpenReader(z.Path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", z.Path, err)
	}
	// The reader stays open until every lazy Read has run; entries
	// are read eagerly instead so the archive can be closed here.
	defer reader.Close()

	var files []SourceFile
	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rel := filepath.ToSlash(f.Name)
		if strings.HasPrefix(rel, "/") || strings.Contains(rel, "..") {
			return nil, fmt.Errorf("archive %s: unsafe member path %q", z.Path, f.Name)
		}
		data, err := readZipMember(f)
		if err != nil {
			return nil, fmt.Errorf("archive %s: read %s: %w", z.Path, f.Name, err)
		}
		files = append(files, SourceFile{
			RelPath: rel,
			Size:    int64(len(data)),
			Read:    func() ([]byte, error) { return data, nil },
		})
	}
	return files, nil
}

// MemorySource supplies in-memory files. Used by the API server for
// multipart uploads and by tests.
type MemorySource struct {
	SourceName string
	Items      []SourceFile
}

func (m MemorySource) Name() string                 { return m.SourceName }
func (m MemorySource) Files() ([]SourceFile, error) { return m.Items, nil }

func readZipMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
