package structure

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"evalgo.org/svgg/models"
)

// MergeStrategy selects how an imported tree is combined with the
// container's existing structure.
type MergeStrategy string

const (
	// MergePreserve keeps source-relative paths as-is. This is the
	// zero value and the default when no strategy is requested.
	MergePreserve MergeStrategy = ""

	// MergeFlat drops imported files into the root, ignoring their
	// original folders. Shadowing an existing file at an identical
	// path is a conflict the caller must resolve.
	MergeFlat MergeStrategy = "flat"

	// MergeNested inserts the imported tree as a new top-level
	// segment named after the archive or source.
	MergeNested MergeStrategy = "nested"

	// MergeBySource gives each import source its own top-level
	// segment.
	MergeBySource MergeStrategy = "by-source"
)

// ParseMergeStrategy parses a strategy from its flag value. The
// empty string selects MergePreserve.
func ParseMergeStrategy(name string) (MergeStrategy, error) {
	switch MergeStrategy(name) {
	case MergePreserve, MergeFlat, MergeNested, MergeBySource:
		return MergeStrategy(name), nil
	default:
		return "", fmt.Errorf("unknown merge strategy: %q", name)
	}
}

// MapPath translates a source-relative file path into the logical
// path it will occupy under the given strategy. sourceName is the
// top-level segment used by nested and by-source merges (typically
// the archive or directory base name).
func MapPath(strategy MergeStrategy, sourceName, relPath string) string {
	relPath = strings.TrimPrefix(path.Clean(relPath), "./")
	switch strategy {
	case MergeFlat:
		return path.Base(relPath)
	case MergeNested, MergeBySource:
		return sourceName + "/" + relPath
	default:
		return relPath
	}
}

// MergeTree combines an imported tree into an existing structure
// under the given strategy and returns the merged tree. Neither
// input is mutated. Under MergeFlat, an imported file whose name
// collides with an existing root-level file is a
// ErrStructureConflict; the error lists every colliding path.
func MergeTree(existing, imported *models.TreeNode, strategy MergeStrategy, sourceName string) (*models.TreeNode, error) {
	merged := cloneTree(existing)
	if merged == nil {
		merged = &models.TreeNode{Kind: models.NodeDirectory}
	}

	switch strategy {
	case MergeFlat:
		var conflicts []string
		files := fileNodes(imported)
		for _, f := range files {
			if child := merged.Child(f.Name); child != nil {
				conflicts = append(conflicts, f.Name)
			}
		}
		if len(conflicts) > 0 {
			sort.Strings(conflicts)
			return nil, fmt.Errorf("%w: flat merge would shadow %s",
				ErrStructureConflict, strings.Join(conflicts, ", "))
		}
		for _, f := range files {
			merged.Children = append(merged.Children, cloneTree(f))
		}

	case MergeNested, MergeBySource:
		if child := merged.Child(sourceName); child != nil {
			return nil, fmt.Errorf("%w: top-level segment %q already exists",
				ErrStructureConflict, sourceName)
		}
		wrapper := cloneTree(imported)
		wrapper.Name = sourceName
		wrapper.Kind = models.NodeDirectory
		merged.Children = append(merged.Children, wrapper)

	default:
		return nil, fmt.Errorf("unknown merge strategy: %q", strategy)
	}

	sortTree(merged)
	return merged, nil
}

func cloneTree(node *models.TreeNode) *models.TreeNode {
	if node == nil {
		return nil
	}
	out := &models.TreeNode{
		Name:      node.Name,
		Kind:      node.Kind,
		Size:      node.Size,
		MediaType: node.MediaType,
	}
	for _, c := range node.Children {
		out.Children = append(out.Children, cloneTree(c))
	}
	return out
}

// fileNodes returns all file nodes in the tree, depth-first.
func fileNodes(node *models.TreeNode) []*models.TreeNode {
	if node == nil {
		return nil
	}
	var files []*models.TreeNode
	for _, c := range node.Children {
		if c.Kind == models.NodeFile {
			files = append(files, c)
		} else {
			files = append(files, fileNodes(c)...)
		}
	}
	return files
}
