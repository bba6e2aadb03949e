package operations

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
)

// Sink receives decoded entries from the export operation. External
// collaborators (upload adapters, document exporters) implement the
// same interface.
type Sink interface {
	// Write persists one decoded entry under its logical path.
	Write(relPath string, data []byte) error

	// Close finalizes the sink. Export calls it exactly once after
	// the last write; entry removals are persisted only after Close
	// succeeded, since archive sinks are not durable until then.
	Close() error
}

// DirectorySink writes decoded entries into a directory tree,
// recreating the logical path hierarchy.
type DirectorySink struct {
	Root string
}

func (d DirectorySink) Write(relPath string, data []byte) error {
	dest := filepath.Join(d.Root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", relPath, err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}

func (d DirectorySink) Close() error { return nil }

// ZipSink writes decoded entries into a zip archive.
type ZipSink struct {
	file   *os.File
	writer *zip.Writer
}

// NewZipSink creates the archive file and its writer.
func NewZipSink(path string) (*ZipSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create archive %s: %w", path, err)
	}
	return &ZipSink{file: f, writer: zip.NewWriter(f)}, nil
}

func (z *ZipSink) Write(relPath string, data []byte) error {
	w, err := z.writer.Create(relPath)
	if err != nil {
		return fmt.Errorf("archive member %s: %w", relPath, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("archive member %s: %w", relPath, err)
	}
	return nil
}

func (z *ZipSink) Close() error {
	if err := z.writer.Close(); err != nil {
		z.file.Close()
		return err
	}
	return z.file.Close()
}

// MemorySink collects decoded entries in memory. Used by the API
// server and by tests.
type MemorySink struct {
	Files map[string][]byte

	// FailPaths simulates sink failures for the listed paths.
	FailPaths map[string]bool

	// FailClose simulates a finalization failure.
	FailClose bool
}

func NewMemorySink() *MemorySink {
	return &MemorySink{Files: make(map[string][]byte)}
}

func (m *MemorySink) Write(relPath string, data []byte) error {
	if m.FailPaths[relPath] {
		return fmt.Errorf("sink rejected %s", relPath)
	}
	m.Files[relPath] = append([]byte(nil), data...)
	return nil
}

func (m *MemorySink) Close() error {
	if m.FailClose {
		return fmt.Errorf("sink close failed")
	}
	return nil
}
