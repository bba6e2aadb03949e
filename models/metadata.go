package models

import "time"

// Metadata keys managed by the container itself. Caller-supplied
// values for these keys are ignored and recomputed on the next
// mutation so the metadata block can never drift from the entry set.
const (
	MetaGenerator    = "generator"
	MetaVersion      = "version"
	MetaFilesCount   = "files_count"
	MetaLastModified = "last_modified"
	MetaStructure    = "structure"
	MetaChangelog    = "changelog"
)

// Essential descriptive keys kept by a metadata clean.
const (
	MetaTitle       = "title"
	MetaDescription = "description"
	MetaCreator     = "creator"
)

// Metadata is the open string-to-value mapping persisted in the
// container's metadata block.
type Metadata map[string]interface{}

// ProtectedKeys lists keys that cannot be altered directly by
// caller-supplied metadata.
var ProtectedKeys = []string{
	MetaGenerator,
	MetaVersion,
	MetaFilesCount,
	MetaLastModified,
	MetaStructure,
	MetaChangelog,
}

// IsProtectedKey reports whether key is managed by the container.
func IsProtectedKey(key string) bool {
	for _, k := range ProtectedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Clone returns a shallow copy of the metadata mapping.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// FilesCount returns the recorded entry count, or 0 when absent.
// JSON round-trips store numbers as float64, so both int and float64
// representations are accepted.
func (m Metadata) FilesCount() int {
	switch v := m[MetaFilesCount].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// LastModified returns the recorded last-modified timestamp, or the
// zero time when absent or unparsable.
func (m Metadata) LastModified() time.Time {
	s, ok := m[MetaLastModified].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
