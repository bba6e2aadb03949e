package operations

import (
	"path"
	"strings"
)

// defaultIgnorePatterns are directory and file patterns skipped
// during directory imports: VCS internals, build output, caches, and
// editor droppings.
var defaultIgnorePatterns = []string{
	".git", ".svn", ".hg", ".DS_Store",
	"__pycache__", "*.pyc", "*.pyo",
	"node_modules", "dist", "build",
	"venv", ".venv", ".env",
	"*.tmp", "*.bak", "*.swp",
}

// IgnoreList matches relative paths against glob-style patterns. A
// pattern matches if any path segment matches it.
type IgnoreList struct {
	patterns []string
}

// DefaultIgnoreList returns the built-in ignore patterns.
func DefaultIgnoreList() *IgnoreList {
	return NewIgnoreList(nil)
}

// NewIgnoreList combines the built-in patterns with extras.
func NewIgnoreList(extra []string) *IgnoreList {
	patterns := make([]string, 0, len(defaultIgnorePatterns)+len(extra))
	patterns = append(patterns, defaultIgnorePatterns...)
	patterns = append(patterns, extra...)
	return &IgnoreList{patterns: patterns}
}

// Add appends a pattern.
func (l *IgnoreList) Add(pattern string) {
	l.patterns = append(l.patterns, pattern)
}

// Match reports whether the relative path should be skipped.
func (l *IgnoreList) Match(relPath string) bool {
	for _, segment := range strings.Split(relPath, "/") {
		for _, pattern := range l.patterns {
			if ok, err := path.Match(pattern, segment); err == nil && ok {
				return true
			}
		}
	}
	return false
}
