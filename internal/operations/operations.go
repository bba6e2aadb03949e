// Package operations implements the user-facing verbs (import,
// export, list, exclude, metadata, changelog) on top of the
// container reader/writer.
//
// Each verb is a read-modify-write cycle over one host document:
// parse into the container model, mutate, serialize, persist. Access
// to one host document is serialized with a per-path mutex; distinct
// documents may be processed in parallel. The host file is only
// written at the end of a successful cycle, with an atomic
// temp-and-rename, so no failure mode leaves it partially written.
package operations

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"evalgo.org/svgg/internal/changelog"
	"evalgo.org/svgg/internal/config"
	"evalgo.org/svgg/internal/container"
	"evalgo.org/svgg/internal/svgio"
)

// ErrLimitExceeded is returned when an import would exceed the
// configured size guards. The check happens before any byte is
// written to the host document.
var ErrLimitExceeded = errors.New("size limit exceeded")

// Service exposes the container operations. Safe for concurrent use
// across distinct host documents; operations on the same document
// are serialized internally.
type Service struct {
	cfg     *config.Config
	log     *log.Logger
	tracker *changelog.Tracker

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an operation service.
func New(cfg *config.Config, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Service{
		cfg:     cfg,
		log:     logger,
		tracker: changelog.NewTracker(),
		locks:   make(map[string]*sync.Mutex),
	}
}

// Tracker returns the service's changelog tracker.
func (s *Service) Tracker() *changelog.Tracker { return s.tracker }

// lockFor returns the mutex serializing access to one host document.
func (s *Service) lockFor(containerPath string) *sync.Mutex {
	key := containerPath
	if abs, err := filepath.Abs(containerPath); err == nil {
		key = abs
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// load reads and parses a host document.
func (s *Service) load(containerPath string) (*container.Container, *svgio.Fragments, error) {
	doc, err := os.ReadFile(containerPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read host document: %w", err)
	}
	c, frags, err := svgio.Parse(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", containerPath, err)
	}
	return c, frags, nil
}

// store serializes the container and atomically replaces the host
// document. The original file is untouched on any error.
func (s *Service) store(containerPath string, c *container.Container, frags *svgio.Fragments) error {
	doc, err := svgio.Serialize(c, frags)
	if err != nil {
		return fmt.Errorf("serialize %s: %w", containerPath, err)
	}
	if err := writeFileAtomic(containerPath, doc); err != nil {
		return fmt.Errorf("write %s: %w", containerPath, err)
	}
	return nil
}

// writeFileAtomic writes data to a temporary file in the target
// directory and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".svgg-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// totalRawSize sums the raw sizes of all entries.
func totalRawSize(c *container.Container) int64 {
	var total int64
	for _, e := range c.Entries() {
		total += e.RawSize
	}
	return total
}
