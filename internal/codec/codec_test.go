package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		opts EncodeOptions
		want Encoding
	}{
		{
			name: "markdown stays verbatim",
			raw:  []byte("# Title\n\nBody text.\n"),
			opts: EncodeOptions{Path: "readme.md"},
			want: EncodingUTF8Text,
		},
		{
			name: "binary goes base64",
			raw:  []byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0x01},
			opts: EncodeOptions{Path: "logo.png"},
			want: EncodingBase64,
		},
		{
			name: "text with control bytes goes base64",
			raw:  []byte("hello\x00world"),
			opts: EncodeOptions{Path: "data.txt"},
			want: EncodingBase64,
		},
		{
			name: "invalid utf8 text goes base64",
			raw:  []byte{'h', 'i', 0xff, 0xfe},
			opts: EncodeOptions{Path: "notes.txt"},
			want: EncodingBase64,
		},
		{
			name: "repetitive data compresses",
			raw:  bytes.Repeat([]byte("abcdefgh"), 512),
			opts: EncodeOptions{Path: "blob.bin", Compress: true},
			want: EncodingBase64Deflate,
		},
		{
			name: "empty file",
			raw:  []byte{},
			opts: EncodeOptions{Path: "empty.txt"},
			want: EncodingUTF8Text,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, encoding, mediaType, err := Encode(tt.raw, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, encoding)
			assert.NotEmpty(t, mediaType)

			decoded, err := Decode(payload, encoding)
			require.NoError(t, err)
			assert.Equal(t, tt.raw, decoded)
		})
	}
}

func TestEncodeDeterministic(t *testing.T) {
	raw := []byte("the same bytes every time")
	opts := EncodeOptions{Path: "a.txt", Compress: true}

	p1, e1, m1, err := Encode(raw, opts)
	require.NoError(t, err)
	p2, e2, m2, err := Encode(raw, opts)
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, e1, e2)
	assert.Equal(t, m1, m2)
}

func TestEncodeIncompressibleFallsBack(t *testing.T) {
	// High-entropy-ish unique bytes: deflate cannot shrink 64 bytes
	// of non-repeating data below input size with its header
	// overhead.
	raw := make([]byte, 64)
	for i := range raw {
		raw[i] = byte(i*37 + 11)
	}

	payload, encoding, _, err := Encode(raw, EncodeOptions{Path: "rand.bin", Compress: true})
	require.NoError(t, err)
	assert.Equal(t, EncodingBase64, encoding)

	decoded, err := Decode(payload, encoding)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestEncodeMediaTypeOverride(t *testing.T) {
	_, _, mediaType, err := Encode([]byte("x"), EncodeOptions{Path: "weird.bin", MediaType: "application/x-custom"})
	require.NoError(t, err)
	assert.Equal(t, "application/x-custom", mediaType)
}

func TestDecodeErrors(t *testing.T) {
	t.Run("unknown encoding", func(t *testing.T) {
		_, err := Decode("payload", Encoding("rot13"))
		var derr *DecodeError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, Encoding("rot13"), derr.Encoding)
	})

	t.Run("malformed base64", func(t *testing.T) {
		_, err := Decode("%%%", EncodingBase64)
		var derr *DecodeError
		require.ErrorAs(t, err, &derr)
		assert.Contains(t, derr.Reason, "base64")
	})

	t.Run("corrupt deflate stream", func(t *testing.T) {
		// Valid base64 of bytes that are not a deflate stream.
		_, err := Decode("AAAA", EncodingBase64Deflate)
		var derr *DecodeError
		require.ErrorAs(t, err, &derr)
	})
}

func TestParseEncoding(t *testing.T) {
	for _, valid := range []string{"base64", "utf8-text", "base64+deflate"} {
		enc, err := ParseEncoding(valid)
		require.NoError(t, err)
		assert.Equal(t, Encoding(valid), enc)
	}

	_, err := ParseEncoding("gzip")
	assert.Error(t, err)
}

func TestChecksum(t *testing.T) {
	sum := Checksum([]byte("hello"))
	assert.Len(t, sum, 64)
	assert.Equal(t, strings.ToLower(sum), sum)

	// Deterministic and content-sensitive.
	assert.Equal(t, sum, Checksum([]byte("hello")))
	assert.NotEqual(t, sum, Checksum([]byte("hello!")))

	assert.True(t, VerifyChecksum([]byte("hello"), sum))
	assert.False(t, VerifyChecksum([]byte("bye"), sum))
}

func TestTypeByPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"docs/readme.md", "text/markdown"},
		{"main.go", "text/x-go"},
		{"image.PNG", "image/png"},
		{"config.yaml", "application/yaml"},
		{"mystery.qqq", "application/octet-stream"},
		{"noextension", "application/octet-stream"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TypeByPath(tt.path), tt.path)
	}
}

func TestIsTextMediaType(t *testing.T) {
	assert.True(t, IsTextMediaType("text/plain"))
	assert.True(t, IsTextMediaType("application/json"))
	assert.False(t, IsTextMediaType("image/png"))
	assert.False(t, IsTextMediaType("application/octet-stream"))
}
