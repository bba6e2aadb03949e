package operations

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		dest := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o755))
		require.NoError(t, os.WriteFile(dest, []byte(content), 0o644))
	}
}

func relPaths(files []SourceFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.RelPath)
	}
	sort.Strings(out)
	return out
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"notes.txt": "hello"})

	src := FileSource{Path: filepath.Join(dir, "notes.txt")}
	assert.Equal(t, "notes", src.Name())

	files, err := src.Files()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "notes.txt", files[0].RelPath)
	assert.Equal(t, int64(5), files[0].Size)

	data, err := files[0].Read()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestFileSourceRejectsDirectory(t *testing.T) {
	src := FileSource{Path: t.TempDir()}
	_, err := src.Files()
	assert.Error(t, err)
}

func TestDirectorySourceSkipsIgnoredPaths(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"main.go":              "package main\n",
		"docs/readme.md":       "# readme\n",
		".git/config":          "[core]\n",
		"node_modules/x/y.js":  "x",
		"cache/session.tmp":    "x",
		"sub/.DS_Store":        "x",
		"sub/keep.txt":         "kept",
	})

	src := DirectorySource{Path: dir}
	files, err := src.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/readme.md", "main.go", "sub/keep.txt"}, relPaths(files))
}

func TestDirectorySourceExtraIgnorePatterns(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"keep.txt":    "x",
		"skip.log":    "x",
		"inner/a.log": "x",
	})

	src := DirectorySource{Path: dir, Ignore: NewIgnoreList([]string{"*.log"})}
	files, err := src.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.txt"}, relPaths(files))
}

func TestZipSource(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "input.zip")
	f, err := os.Create(archive)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range map[string]string{
		"docs/a.md": "alpha",
		"b.txt":     "beta",
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	src := ZipSource{Path: archive}
	assert.Equal(t, "input", src.Name())

	files, err := src.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt", "docs/a.md"}, relPaths(files))

	for _, sf := range files {
		data, err := sf.Read()
		require.NoError(t, err)
		assert.Equal(t, sf.Size, int64(len(data)))
	}
}

func TestZipSourceRejectsUnsafeMemberPaths(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "evil.zip")
	f, err := os.Create(archive)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("../escape.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	src := ZipSource{Path: archive}
	_, err = src.Files()
	assert.Error(t, err)
}

func TestIgnoreListMatch(t *testing.T) {
	l := DefaultIgnoreList()
	assert.True(t, l.Match(".git/config"))
	assert.True(t, l.Match("a/node_modules/b.js"))
	assert.True(t, l.Match("report.bak"))
	assert.False(t, l.Match("src/main.go"))

	l.Add("secret*")
	assert.True(t, l.Match("conf/secrets.yaml"))
}
