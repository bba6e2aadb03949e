package codec

import (
	"mime"
	"path"
	"strings"
)

// extensionTypes supplements the platform MIME database for
// extensions common in embedded projects that it often misses.
var extensionTypes = map[string]string{
	".md":   "text/markdown",
	".go":   "text/x-go",
	".py":   "text/x-python",
	".rs":   "text/x-rust",
	".sh":   "text/x-shellscript",
	".toml": "application/toml",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".sql":  "application/sql",
	".csv":  "text/csv",
	".log":  "text/plain",
	".txt":  "text/plain",
	".json": "application/json",
	".xml":  "application/xml",
}

// TypeByPath infers a MIME type from the extension of a logical
// path. Unknown extensions default to application/octet-stream.
func TypeByPath(logicalPath string) string {
	ext := strings.ToLower(path.Ext(logicalPath))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		// Strip parameters such as "; charset=utf-8".
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = strings.TrimSpace(t[:i])
		}
		return t
	}
	return "application/octet-stream"
}

// textTypes are non-"text/" media types eligible for verbatim
// utf8-text storage.
var textTypes = map[string]bool{
	"application/json":     true,
	"application/xml":      true,
	"application/yaml":     true,
	"application/toml":     true,
	"application/sql":      true,
	"application/x-ndjson": true,
}

// IsTextMediaType reports whether a media type declares textual
// content that may be stored verbatim instead of base64.
func IsTextMediaType(mediaType string) bool {
	if strings.HasPrefix(mediaType, "text/") {
		return true
	}
	return textTypes[mediaType]
}
