package structure

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/svgg/models"
)

func entriesFor(paths ...string) []*models.Entry {
	entries := make([]*models.Entry, len(paths))
	for i, p := range paths {
		entries[i] = &models.Entry{Path: p, RawSize: int64(i + 1)}
	}
	return entries
}

func TestBuildTreeFlattenInverse(t *testing.T) {
	paths := []string{
		"readme.md",
		"docs/guide.md",
		"docs/images/logo.png",
		"src/main.go",
		"src/util/helper.go",
	}

	tree := BuildTree(entriesFor(paths...))
	got := FlattenTree(tree)

	want := append([]string(nil), paths...)
	sort.Strings(want)
	assert.Equal(t, want, got)
}

func TestBuildTreeDeterministic(t *testing.T) {
	// Same path set, different insertion order: identical trees.
	a := BuildTree(entriesFor("b/x.txt", "a.txt", "b/a.txt"))
	b := BuildTree(entriesFor("a.txt", "b/a.txt", "b/x.txt"))

	assert.Equal(t, FlattenTree(a), FlattenTree(b))
	assert.Equal(t, a.Children[0].Name, b.Children[0].Name)
}

func TestTreeCounts(t *testing.T) {
	tree := BuildTree(entriesFor("a.txt", "d/b.txt", "d/e/c.txt"))

	assert.Equal(t, 3, tree.FileCount())
	assert.Equal(t, int64(1+2+3), tree.TotalSize())

	d := tree.Child("d")
	require.NotNil(t, d)
	assert.Equal(t, models.NodeDirectory, d.Kind)
	assert.Equal(t, 2, d.FileCount())
}

func TestValidate(t *testing.T) {
	entries := entriesFor("a.txt", "d/b.txt")
	tree := BuildTree(entries)

	t.Run("matching set", func(t *testing.T) {
		assert.NoError(t, Validate(tree, []string{"a.txt", "d/b.txt"}))
	})

	t.Run("missing entry", func(t *testing.T) {
		err := Validate(tree, []string{"a.txt"})
		assert.ErrorIs(t, err, ErrStructureConflict)
	})

	t.Run("extra entry", func(t *testing.T) {
		err := Validate(tree, []string{"a.txt", "d/b.txt", "ghost.txt"})
		assert.ErrorIs(t, err, ErrStructureConflict)
	})

	t.Run("duplicate child names", func(t *testing.T) {
		bad := &models.TreeNode{Kind: models.NodeDirectory, Children: []*models.TreeNode{
			{Name: "a.txt", Kind: models.NodeFile},
			{Name: "a.txt", Kind: models.NodeFile},
		}}
		err := Validate(bad, []string{"a.txt", "a.txt"})
		assert.ErrorIs(t, err, ErrStructureConflict)
	})
}

func TestParseMergeStrategy(t *testing.T) {
	for _, valid := range []string{"flat", "nested", "by-source"} {
		s, err := ParseMergeStrategy(valid)
		require.NoError(t, err)
		assert.Equal(t, MergeStrategy(valid), s)
	}

	// An unset flag must not prefix paths with a source segment:
	// "svgg import bundle.svg README.md" embeds README.md, not
	// README/README.md.
	s, err := ParseMergeStrategy("")
	require.NoError(t, err)
	assert.Equal(t, MergePreserve, s)
	assert.Equal(t, "README.md", MapPath(s, "README", "README.md"))

	_, err = ParseMergeStrategy("zigzag")
	assert.Error(t, err)
}

func TestMapPath(t *testing.T) {
	tests := []struct {
		strategy MergeStrategy
		rel      string
		want     string
	}{
		{MergeFlat, "docs/deep/file.txt", "file.txt"},
		{MergeNested, "docs/file.txt", "src/docs/file.txt"},
		{MergeBySource, "file.txt", "src/file.txt"},
		{"", "docs/file.txt", "docs/file.txt"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapPath(tt.strategy, "src", tt.rel), "%s %s", tt.strategy, tt.rel)
	}
}

func TestMergeTreeFlatConflict(t *testing.T) {
	existing := BuildTree(entriesFor("readme.md", "docs/a.txt"))
	imported := BuildTree(entriesFor("pkg/readme.md", "pkg/new.txt"))

	_, err := MergeTree(existing, imported, MergeFlat, "pkg")
	require.ErrorIs(t, err, ErrStructureConflict)
	assert.Contains(t, err.Error(), "readme.md")
}

func TestMergeTreeFlat(t *testing.T) {
	existing := BuildTree(entriesFor("a.txt"))
	imported := BuildTree(entriesFor("deep/nested/b.txt"))

	merged, err := MergeTree(existing, imported, MergeFlat, "src")
	require.NoError(t, err)

	// Flat merge drops the folders: b.txt lands at the root.
	assert.NotNil(t, merged.Child("a.txt"))
	assert.NotNil(t, merged.Child("b.txt"))
	assert.Nil(t, merged.Child("deep"))

	// Inputs are untouched.
	assert.Nil(t, existing.Child("b.txt"))
}

func TestMergeTreeNested(t *testing.T) {
	existing := BuildTree(entriesFor("a.txt"))
	imported := BuildTree(entriesFor("b.txt", "sub/c.txt"))

	merged, err := MergeTree(existing, imported, MergeNested, "bundle")
	require.NoError(t, err)

	wrapper := merged.Child("bundle")
	require.NotNil(t, wrapper)
	assert.Equal(t, models.NodeDirectory, wrapper.Kind)
	assert.NotNil(t, wrapper.Child("b.txt"))
	assert.NotNil(t, wrapper.Child("sub"))

	// A second merge under the same segment conflicts.
	_, err = MergeTree(merged, imported, MergeNested, "bundle")
	assert.ErrorIs(t, err, ErrStructureConflict)
}

func TestMergeTreeDeterministic(t *testing.T) {
	existing := BuildTree(entriesFor("z.txt", "a.txt"))
	imported := BuildTree(entriesFor("m.txt"))

	m1, err := MergeTree(existing, imported, MergeFlat, "src")
	require.NoError(t, err)
	m2, err := MergeTree(existing, imported, MergeFlat, "src")
	require.NoError(t, err)

	assert.Equal(t, FlattenTree(m1), FlattenTree(m2))
	for i := range m1.Children {
		assert.Equal(t, m1.Children[i].Name, m2.Children[i].Name)
	}
}
