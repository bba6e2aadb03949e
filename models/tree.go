package models

// NodeKind distinguishes files from directories in a structure tree.
type NodeKind string

const (
	NodeFile      NodeKind = "file"
	NodeDirectory NodeKind = "directory"
)

// TreeNode is one node of the directory-tree description recorded
// when a container is built with structure preservation. The flat
// entry mapping is the source of truth; trees are derived from it
// and validated against it, never mutated independently.
type TreeNode struct {
	Name      string      `json:"name"`
	Kind      NodeKind    `json:"kind"`
	Children  []*TreeNode `json:"children,omitempty"`
	Size      int64       `json:"size,omitempty"`
	MediaType string      `json:"media_type,omitempty"`
}

// Child returns the direct child with the given name, or nil.
func (n *TreeNode) Child(name string) *TreeNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// FileCount returns the number of file nodes in the subtree.
func (n *TreeNode) FileCount() int {
	if n.Kind == NodeFile {
		return 1
	}
	count := 0
	for _, c := range n.Children {
		count += c.FileCount()
	}
	return count
}

// TotalSize returns the summed size of all file nodes in the subtree.
func (n *TreeNode) TotalSize() int64 {
	if n.Kind == NodeFile {
		return n.Size
	}
	var total int64
	for _, c := range n.Children {
		total += c.TotalSize()
	}
	return total
}
