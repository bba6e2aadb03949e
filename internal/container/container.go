// Package container implements the in-memory container model: an
// ordered mapping of logical paths to entries plus a metadata record
// that is kept consistent with the entry set on every mutation.
package container

import (
	"fmt"
	"strings"
	"time"

	"evalgo.org/svgg/internal/codec"
	"evalgo.org/svgg/internal/version"
	"evalgo.org/svgg/models"
)

// Generator is the value recorded under the "generator" metadata key.
const Generator = "svgg"

// Container is the embedded file set for one host document. A
// Container instance must not be mutated concurrently; the operation
// layer serializes access per host document.
type Container struct {
	entries []*models.Entry
	index   map[string]int
	meta    models.Metadata

	// structure is the optional directory-tree description. The flat
	// entry mapping is the source of truth; the tree is validated
	// against it, never the other way around.
	structure *models.TreeNode

	changelog []models.ChangelogEntry
}

// New returns an empty container with initialized metadata.
func New() *Container {
	c := &Container{
		index: make(map[string]int),
		meta:  models.Metadata{},
	}
	c.touch()
	return c
}

// AddOptions controls how a file is added to a container.
type AddOptions struct {
	// MediaType overrides extension-based inference when set.
	MediaType string

	// Compress enables the deflate pass in the entry codec.
	Compress bool

	// Overwrite replaces an existing entry at the same path instead
	// of failing with ErrDuplicatePath.
	Overwrite bool
}

// AddEntry encodes raw bytes and inserts them under the given
// logical path. Returns ErrDuplicatePath when the path exists and
// Overwrite is not set. Metadata counters update atomically with the
// entry change.
func (c *Container) AddEntry(path string, raw []byte, opts AddOptions) (*models.Entry, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}

	if i, exists := c.index[path]; exists {
		if !opts.Overwrite {
			return nil, fmt.Errorf("add %q: %w", path, ErrDuplicatePath)
		}
		payload, encoding, mediaType, err := encodeEntry(path, raw, opts)
		if err != nil {
			return nil, err
		}
		entry := newEntry(path, raw, payload, encoding, mediaType)
		c.entries[i] = entry
		c.touch()
		return entry, nil
	}

	payload, encoding, mediaType, err := encodeEntry(path, raw, opts)
	if err != nil {
		return nil, err
	}
	entry := newEntry(path, raw, payload, encoding, mediaType)
	c.index[path] = len(c.entries)
	c.entries = append(c.entries, entry)
	c.touch()
	return entry, nil
}

func encodeEntry(path string, raw []byte, opts AddOptions) (string, codec.Encoding, string, error) {
	payload, encoding, mediaType, err := codec.Encode(raw, codec.EncodeOptions{
		Path:      path,
		MediaType: opts.MediaType,
		Compress:  opts.Compress,
	})
	if err != nil {
		return "", "", "", fmt.Errorf("encode %q: %w", path, err)
	}
	return payload, encoding, mediaType, nil
}

func newEntry(path string, raw []byte, payload string, encoding codec.Encoding, mediaType string) *models.Entry {
	return &models.Entry{
		Path:        path,
		Payload:     payload,
		MediaType:   mediaType,
		Encoding:    string(encoding),
		Checksum:    codec.Checksum(raw),
		RawSize:     int64(len(raw)),
		EncodedSize: int64(len(payload)),
		AddedAt:     time.Now().UTC().Truncate(time.Second),
	}
}

// PutEntry inserts an already-constructed entry, preserving its
// payload and timestamps. Used by the reader when rebuilding a
// container from a parsed host document.
func (c *Container) PutEntry(entry *models.Entry) error {
	if err := ValidatePath(entry.Path); err != nil {
		return err
	}
	if _, exists := c.index[entry.Path]; exists {
		return fmt.Errorf("put %q: %w", entry.Path, ErrDuplicatePath)
	}
	c.index[entry.Path] = len(c.entries)
	c.entries = append(c.entries, entry)
	c.syncCount()
	return nil
}

// RemoveEntry deletes the entry at path and returns it.
func (c *Container) RemoveEntry(path string) (*models.Entry, error) {
	i, exists := c.index[path]
	if !exists {
		return nil, fmt.Errorf("remove %q: %w", path, ErrNotFound)
	}
	entry := c.entries[i]
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	delete(c.index, path)
	for j := i; j < len(c.entries); j++ {
		c.index[c.entries[j].Path] = j
	}
	c.touch()
	return entry, nil
}

// RenameEntry moves an entry to a new logical path, keeping its
// position in the insertion order.
func (c *Container) RenameEntry(oldPath, newPath string) error {
	if err := ValidatePath(newPath); err != nil {
		return err
	}
	i, exists := c.index[oldPath]
	if !exists {
		return fmt.Errorf("rename %q: %w", oldPath, ErrNotFound)
	}
	if _, taken := c.index[newPath]; taken {
		return fmt.Errorf("rename to %q: %w", newPath, ErrDuplicatePath)
	}
	c.entries[i].Path = newPath
	delete(c.index, oldPath)
	c.index[newPath] = i
	c.touch()
	return nil
}

// Entry returns the entry at path, or ErrNotFound.
func (c *Container) Entry(path string) (*models.Entry, error) {
	i, exists := c.index[path]
	if !exists {
		return nil, fmt.Errorf("entry %q: %w", path, ErrNotFound)
	}
	return c.entries[i], nil
}

// Has reports whether an entry exists at path.
func (c *Container) Has(path string) bool {
	_, exists := c.index[path]
	return exists
}

// Entries returns the entries in insertion order. The slice is a
// copy; the entries are not.
func (c *Container) Entries() []*models.Entry {
	out := make([]*models.Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Paths returns the logical paths in insertion order.
func (c *Container) Paths() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Path
	}
	return out
}

// Len returns the number of entries.
func (c *Container) Len() int { return len(c.entries) }

// DecodeEntry decodes an entry's payload and verifies it against the
// recorded checksum and raw size. A mismatch is reported as a
// *codec.DecodeError so corrupted payloads and unknown tags surface
// the same way.
func (c *Container) DecodeEntry(path string) ([]byte, error) {
	entry, err := c.Entry(path)
	if err != nil {
		return nil, err
	}
	raw, err := codec.Decode(entry.Payload, codec.Encoding(entry.Encoding))
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", path, err)
	}
	if int64(len(raw)) != entry.RawSize {
		return nil, fmt.Errorf("entry %q: %w", path, &codec.DecodeError{
			Encoding: codec.Encoding(entry.Encoding),
			Reason:   fmt.Sprintf("decoded length %d does not match recorded raw size %d", len(raw), entry.RawSize),
		})
	}
	if !codec.VerifyChecksum(raw, entry.Checksum) {
		return nil, fmt.Errorf("entry %q: %w", path, &codec.DecodeError{
			Encoding: codec.Encoding(entry.Encoding),
			Reason:   "checksum mismatch",
		})
	}
	return raw, nil
}

// Metadata returns the live metadata mapping.
func (c *Container) Metadata() models.Metadata { return c.meta }

// SetMetadata replaces the metadata mapping, then recomputes the
// protected keys so caller-supplied values can never desynchronize
// the container.
func (c *Container) SetMetadata(meta models.Metadata) {
	if meta == nil {
		meta = models.Metadata{}
	}
	c.meta = meta
	c.touch()
}

// RestoreMetadata installs a metadata mapping verbatim, without
// recomputing protected keys. Used by the reader when rebuilding a
// container from a parsed host document so that a parse/serialize
// round trip does not rewrite timestamps.
func (c *Container) RestoreMetadata(meta models.Metadata) {
	if meta == nil {
		meta = models.Metadata{}
	}
	c.meta = meta
}

// MergeMetadata merges caller-supplied keys into the metadata
// mapping. Protected keys are silently skipped.
func (c *Container) MergeMetadata(values models.Metadata) {
	for k, v := range values {
		if models.IsProtectedKey(k) {
			continue
		}
		c.meta[k] = v
	}
	c.touch()
}

// DeleteMetadata removes the given keys. Protected keys are skipped.
func (c *Container) DeleteMetadata(keys ...string) {
	for _, k := range keys {
		if models.IsProtectedKey(k) {
			continue
		}
		delete(c.meta, k)
	}
	c.touch()
}

// CleanMetadata reduces the mapping to the essential descriptive
// subset (title, description, creator) plus the protected keys.
func (c *Container) CleanMetadata() {
	cleaned := models.Metadata{}
	for _, k := range []string{models.MetaTitle, models.MetaDescription, models.MetaCreator} {
		if v, ok := c.meta[k]; ok {
			cleaned[k] = v
		}
	}
	c.meta = cleaned
	c.touch()
}

// ClearMetadata empties the mapping. Protected keys are recomputed
// immediately so the block stays self-describing.
func (c *Container) ClearMetadata() {
	c.meta = models.Metadata{}
	c.touch()
}

// Structure returns the directory-tree description, or nil.
func (c *Container) Structure() *models.TreeNode { return c.structure }

// SetStructure records a directory-tree description.
func (c *Container) SetStructure(tree *models.TreeNode) { c.structure = tree }

// ClearStructure drops the directory-tree description.
func (c *Container) ClearStructure() { c.structure = nil }

// Changelog returns the persisted changelog records, oldest first.
func (c *Container) Changelog() []models.ChangelogEntry {
	out := make([]models.ChangelogEntry, len(c.changelog))
	copy(out, c.changelog)
	return out
}

// SetChangelog replaces the persisted changelog records. Used by the
// reader and by the tracker when persisting its log.
func (c *Container) SetChangelog(entries []models.ChangelogEntry) {
	c.changelog = append([]models.ChangelogEntry(nil), entries...)
}

// touch recomputes the protected metadata keys. Called as the second
// half of every in-memory transaction: entry change and metadata
// update happen together or not at all.
func (c *Container) touch() {
	c.meta[models.MetaGenerator] = Generator
	c.meta[models.MetaVersion] = version.Version
	c.meta[models.MetaFilesCount] = len(c.entries)
	c.meta[models.MetaLastModified] = time.Now().UTC().Format(time.RFC3339)
}

func (c *Container) syncCount() {
	c.meta[models.MetaFilesCount] = len(c.entries)
}

// ValidatePath checks a logical path: relative, forward-slash
// separated, non-empty, no leading slash, no "." or ".." segments,
// no empty segments.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if strings.HasPrefix(path, "/") {
		return fmt.Errorf("%w: %q starts with '/'", ErrInvalidPath, path)
	}
	if strings.ContainsRune(path, '\\') {
		return fmt.Errorf("%w: %q contains backslash", ErrInvalidPath, path)
	}
	for _, segment := range strings.Split(path, "/") {
		switch segment {
		case "":
			return fmt.Errorf("%w: %q contains an empty segment", ErrInvalidPath, path)
		case ".", "..":
			return fmt.Errorf("%w: %q contains a %q segment", ErrInvalidPath, path, segment)
		}
	}
	return nil
}
