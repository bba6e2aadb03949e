// Package structure builds and restores the directory-tree
// description recorded alongside the flat entry mapping when
// structure preservation is requested.
//
// The flat mapping is the single source of truth. Trees are derived
// from it with BuildTree, turned back into path sets with
// FlattenTree, and checked against it with Validate. The two views
// are never mutated independently.
package structure

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"evalgo.org/svgg/models"
)

// ErrStructureConflict is returned when a merge would silently
// shadow an existing file at an identical path, or when a tree and
// the flat entry mapping disagree.
var ErrStructureConflict = errors.New("structure conflict")

// BuildTree groups the entries' logical paths by "/"-separated
// segments into a directory tree. The root is an unnamed directory
// node. Children are ordered by name for deterministic output.
func BuildTree(entries []*models.Entry) *models.TreeNode {
	root := &models.TreeNode{Kind: models.NodeDirectory}
	for _, entry := range entries {
		insertPath(root, entry)
	}
	sortTree(root)
	return root
}

func insertPath(root *models.TreeNode, entry *models.Entry) {
	segments := strings.Split(entry.Path, "/")
	node := root
	for _, segment := range segments[:len(segments)-1] {
		child := node.Child(segment)
		if child == nil {
			child = &models.TreeNode{Name: segment, Kind: models.NodeDirectory}
			node.Children = append(node.Children, child)
		}
		node = child
	}
	name := segments[len(segments)-1]
	node.Children = append(node.Children, &models.TreeNode{
		Name:      name,
		Kind:      models.NodeFile,
		Size:      entry.RawSize,
		MediaType: entry.MediaType,
	})
}

func sortTree(node *models.TreeNode) {
	sort.Slice(node.Children, func(i, j int) bool {
		return node.Children[i].Name < node.Children[j].Name
	})
	for _, c := range node.Children {
		if c.Kind == models.NodeDirectory {
			sortTree(c)
		}
	}
}

// FlattenTree returns the logical paths of all file nodes in the
// tree, depth-first, sorted. FlattenTree(BuildTree(entries)) yields
// exactly the entries' path set.
func FlattenTree(root *models.TreeNode) []string {
	var paths []string
	collectPaths(root, "", &paths)
	sort.Strings(paths)
	return paths
}

func collectPaths(node *models.TreeNode, prefix string, paths *[]string) {
	for _, c := range node.Children {
		full := c.Name
		if prefix != "" {
			full = prefix + "/" + c.Name
		}
		if c.Kind == models.NodeFile {
			*paths = append(*paths, full)
		} else {
			collectPaths(c, full, paths)
		}
	}
}

// Validate checks that a tree and a flat path set describe the same
// files: every tree path exists in the set and vice versa, child
// names are unique within each parent, and the tree's file count
// matches the set size.
func Validate(root *models.TreeNode, paths []string) error {
	if err := checkUniqueChildren(root, ""); err != nil {
		return err
	}

	treePaths := FlattenTree(root)
	if len(treePaths) != len(paths) {
		return fmt.Errorf("%w: tree describes %d files, container holds %d",
			ErrStructureConflict, len(treePaths), len(paths))
	}

	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	for _, p := range treePaths {
		if !set[p] {
			return fmt.Errorf("%w: tree path %q has no entry", ErrStructureConflict, p)
		}
		delete(set, p)
	}
	for p := range set {
		return fmt.Errorf("%w: entry %q missing from tree", ErrStructureConflict, p)
	}
	return nil
}

func checkUniqueChildren(node *models.TreeNode, prefix string) error {
	seen := make(map[string]bool, len(node.Children))
	for _, c := range node.Children {
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate child %q under %q", ErrStructureConflict, c.Name, prefix)
		}
		seen[c.Name] = true
		if c.Kind == models.NodeDirectory {
			full := c.Name
			if prefix != "" {
				full = prefix + "/" + c.Name
			}
			if err := checkUniqueChildren(c, full); err != nil {
				return err
			}
		}
	}
	return nil
}
