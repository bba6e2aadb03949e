// Package codec converts raw file bytes into the embeddable payload
// representation stored inside a container and back.
//
// Three encodings are supported:
//   - utf8-text: verbatim text, used for declared text media types
//     whose bytes are valid UTF-8 and safe as XML character data
//   - base64: standard base64, the default for everything else
//   - base64+deflate: DEFLATE compression wrapped in base64, used
//     when compression is requested and actually shrinks the data
//
// Encoding is a pure, deterministic transform: the same bytes under
// the same policy always produce an identical payload.
package codec

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/klauspost/compress/flate"
)

// Encoding identifies how an entry payload was produced. The tags
// are stored in entry blocks; changing them breaks compatibility
// with existing containers.
type Encoding string

const (
	// EncodingBase64 is standard base64 without compression.
	EncodingBase64 Encoding = "base64"

	// EncodingUTF8Text stores text content verbatim. Only used for
	// declared text media types that pass the XML-safety check.
	EncodingUTF8Text Encoding = "utf8-text"

	// EncodingBase64Deflate is DEFLATE followed by base64. Decoding
	// reverses base64 first, then inflates.
	EncodingBase64Deflate Encoding = "base64+deflate"
)

// ParseEncoding parses an encoding tag from its string form.
func ParseEncoding(name string) (Encoding, error) {
	switch Encoding(name) {
	case EncodingBase64, EncodingUTF8Text, EncodingBase64Deflate:
		return Encoding(name), nil
	default:
		return "", &DecodeError{Encoding: Encoding(name), Reason: "unknown encoding tag"}
	}
}

// DecodeError reports a payload that could not be decoded: an
// unrecognized encoding tag, malformed base64, or a corrupt
// compression stream.
type DecodeError struct {
	Encoding Encoding
	Reason   string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode %s payload: %s: %v", e.Encoding, e.Reason, e.Err)
	}
	return fmt.Sprintf("decode %s payload: %s", e.Encoding, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeOptions controls the encoding policy for a single file.
type EncodeOptions struct {
	// Path is the logical path, used for media type inference when
	// MediaType is empty.
	Path string

	// MediaType overrides extension-based inference when set.
	MediaType string

	// Compress enables the optional DEFLATE pass. Data that does not
	// shrink falls back to plain base64.
	Compress bool
}

// Encode converts raw bytes into a payload string, its encoding tag,
// and the resolved media type.
func Encode(raw []byte, opts EncodeOptions) (payload string, encoding Encoding, mediaType string, err error) {
	mediaType = opts.MediaType
	if mediaType == "" {
		mediaType = TypeByPath(opts.Path)
	}

	if opts.Compress {
		compressed, compressErr := deflate(raw)
		if compressErr == nil {
			return base64.StdEncoding.EncodeToString(compressed), EncodingBase64Deflate, mediaType, nil
		}
		if !isIncompressible(compressErr) {
			return "", "", "", compressErr
		}
		// Fall through to the uncompressed encodings.
	}

	if IsTextMediaType(mediaType) && isXMLSafeText(raw) {
		return string(raw), EncodingUTF8Text, mediaType, nil
	}

	return base64.StdEncoding.EncodeToString(raw), EncodingBase64, mediaType, nil
}

// Decode reverses Encode for the given encoding tag.
func Decode(payload string, encoding Encoding) ([]byte, error) {
	switch encoding {
	case EncodingUTF8Text:
		if !utf8.ValidString(payload) {
			return nil, &DecodeError{Encoding: encoding, Reason: "payload is not valid UTF-8"}
		}
		return []byte(payload), nil

	case EncodingBase64:
		raw, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, &DecodeError{Encoding: encoding, Reason: "malformed base64", Err: err}
		}
		return raw, nil

	case EncodingBase64Deflate:
		compressed, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, &DecodeError{Encoding: encoding, Reason: "malformed base64", Err: err}
		}
		raw, err := inflate(compressed)
		if err != nil {
			return nil, &DecodeError{Encoding: encoding, Reason: "corrupt deflate stream", Err: err}
		}
		return raw, nil

	default:
		return nil, &DecodeError{Encoding: encoding, Reason: "unknown encoding tag"}
	}
}

// errIncompressible is returned when the compressed output is not
// smaller than the input. The caller falls back to plain base64.
var errIncompressible = fmt.Errorf("data is incompressible")

func isIncompressible(err error) bool {
	return err == errIncompressible
}

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("deflate init: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	if buf.Len() >= len(data) {
		return nil, errIncompressible
	}
	return buf.Bytes(), nil
}

func inflate(compressed []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// isXMLSafeText reports whether raw can be stored verbatim as XML
// character data: valid UTF-8 with no control characters other than
// tab, newline, and carriage return. Anything else must go through
// base64 so the host document stays well-formed.
func isXMLSafeText(raw []byte) bool {
	if !utf8.Valid(raw) {
		return false
	}
	for _, r := range string(raw) {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
		if r == 0xFFFD {
			return false
		}
	}
	return true
}
