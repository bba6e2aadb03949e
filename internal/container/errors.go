package container

import "errors"

// Sentinel errors for the container model. Callers match with
// errors.Is; the operation layer converts them into per-item outcome
// records for batch calls.
var (
	// ErrDuplicatePath is returned when adding or renaming to a
	// logical path that already exists without the overwrite flag.
	ErrDuplicatePath = errors.New("logical path already exists")

	// ErrNotFound is returned when an operation references a logical
	// path that is not present in the container.
	ErrNotFound = errors.New("entry not found")

	// ErrInvalidPath is returned for logical paths that are empty,
	// absolute, backslash-separated, or contain ".." segments.
	ErrInvalidPath = errors.New("invalid logical path")
)
