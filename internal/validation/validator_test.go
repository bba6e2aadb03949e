package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/svgg/internal/container"
	"evalgo.org/svgg/models"
)

func TestValidateHostDocument(t *testing.T) {
	v := New()

	t.Run("valid svg", func(t *testing.T) {
		result := v.ValidateHostDocument([]byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"></svg>`))
		assert.True(t, result.Valid)
		assert.Empty(t, result.Errors)
		assert.Empty(t, result.Warnings)
	})

	t.Run("not xml", func(t *testing.T) {
		result := v.ValidateHostDocument([]byte(`<svg><unclosed>`))
		assert.False(t, result.Valid)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "document", result.Errors[0].Field)
	})

	t.Run("wrong root", func(t *testing.T) {
		result := v.ValidateHostDocument([]byte(`<html></html>`))
		assert.False(t, result.Valid)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "root", result.Errors[0].Field)
		assert.Equal(t, "html", result.Errors[0].Value)
	})

	t.Run("missing dimensions is a warning", func(t *testing.T) {
		result := v.ValidateHostDocument([]byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`))
		assert.True(t, result.Valid)
		assert.Len(t, result.Warnings, 1)
	})

	t.Run("empty document", func(t *testing.T) {
		result := v.ValidateHostDocument(nil)
		assert.False(t, result.Valid)
	})
}

func TestValidateEntry(t *testing.T) {
	v := New()

	valid := &models.Entry{
		Path:        "docs/readme.md",
		MediaType:   "text/markdown",
		Encoding:    "base64",
		Checksum:    strings.Repeat("ab", 32),
		RawSize:     4,
		EncodedSize: 8,
		AddedAt:     time.Now().UTC(),
	}

	t.Run("valid entry", func(t *testing.T) {
		result := v.ValidateEntry(valid)
		assert.True(t, result.Valid)
	})

	t.Run("bad path", func(t *testing.T) {
		bad := *valid
		bad.Path = "../escape"
		result := v.ValidateEntry(&bad)
		assert.False(t, result.Valid)
		require.NotEmpty(t, result.Errors)
		assert.Equal(t, "path", result.Errors[0].Field)
	})

	t.Run("missing media type", func(t *testing.T) {
		bad := *valid
		bad.MediaType = ""
		result := v.ValidateEntry(&bad)
		assert.False(t, result.Valid)
	})
}

func TestValidateContainer(t *testing.T) {
	v := New()

	t.Run("consistent container", func(t *testing.T) {
		c := container.New()
		_, err := c.AddEntry("a.txt", []byte("hello"), container.AddOptions{})
		require.NoError(t, err)

		result := v.ValidateContainer(c)
		assert.True(t, result.Valid)
	})

	t.Run("corrupted payload", func(t *testing.T) {
		c := container.New()
		entry, err := c.AddEntry("a.bin", []byte{0x00, 0x01, 0x02}, container.AddOptions{})
		require.NoError(t, err)
		entry.Payload = "%%%not-base64%%%"

		result := v.ValidateContainer(c)
		assert.False(t, result.Valid)
		require.NotEmpty(t, result.Errors)
		assert.Equal(t, "a.bin", result.Errors[0].Field)
	})

	t.Run("structure drift", func(t *testing.T) {
		c := container.New()
		_, err := c.AddEntry("a.txt", []byte("hello"), container.AddOptions{})
		require.NoError(t, err)
		c.SetStructure(&models.TreeNode{Kind: models.NodeDirectory, Children: []*models.TreeNode{
			{Name: "a.txt", Kind: models.NodeFile},
			{Name: "ghost.txt", Kind: models.NodeFile},
		}})

		result := v.ValidateContainer(c)
		assert.False(t, result.Valid)
		require.NotEmpty(t, result.Errors)
		assert.Equal(t, "structure", result.Errors[0].Field)
	})

	t.Run("files count drift", func(t *testing.T) {
		c := container.New()
		_, err := c.AddEntry("a.txt", []byte("hello"), container.AddOptions{})
		require.NoError(t, err)
		c.RestoreMetadata(models.Metadata{models.MetaFilesCount: 5})

		result := v.ValidateContainer(c)
		assert.False(t, result.Valid)
	})
}
