package models

import "time"

// Entry is one embedded file inside a container.
type Entry struct {
	// Path is the logical path of the file within the container.
	// Relative, forward-slash separated, unique, case-sensitive.
	Path string `json:"path" validate:"required"`

	// Payload is the encoded byte representation of the file content.
	Payload string `json:"-"`

	// MediaType is the MIME type, inferred from the extension when
	// not supplied by the caller.
	MediaType string `json:"media_type" validate:"required"`

	// Encoding identifies how Payload was produced
	// (base64, utf8-text, base64+deflate).
	Encoding string `json:"encoding" validate:"required"`

	// Checksum is the hex BLAKE3 hash of the raw (decoded) bytes.
	Checksum string `json:"checksum" validate:"required,len=64,hexadecimal"`

	// RawSize is the byte length before encoding.
	RawSize int64 `json:"raw_size" validate:"min=0"`

	// EncodedSize is the byte length of Payload.
	EncodedSize int64 `json:"encoded_size" validate:"min=0"`

	// AddedAt is when the entry was inserted into the container.
	AddedAt time.Time `json:"added_at"`
}

// Info returns the read-only listing projection of the entry.
func (e *Entry) Info() EntryInfo {
	return EntryInfo{
		Path:      e.Path,
		Size:      e.RawSize,
		MediaType: e.MediaType,
		Encoding:  e.Encoding,
		Checksum:  e.Checksum,
		AddedAt:   e.AddedAt,
	}
}

// EntryInfo is the metadata-only view of an entry returned by list
// operations. It never carries the payload.
type EntryInfo struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	MediaType string    `json:"media_type"`
	Encoding  string    `json:"encoding"`
	Checksum  string    `json:"checksum"`
	AddedAt   time.Time `json:"added_at"`

	// Verified is set by list --verify: nil means not checked,
	// otherwise whether the payload decoded and matched the checksum.
	Verified *bool `json:"verified,omitempty"`
}
