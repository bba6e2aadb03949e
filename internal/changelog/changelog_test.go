package changelog

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"evalgo.org/svgg/models"
)

func TestTrackerRecordsOnlyWhileTracking(t *testing.T) {
	tr := NewTracker()

	tr.Record("import", []string{"a.txt"}, "import: 1 file(s) added")
	assert.Empty(t, tr.Entries())

	tr.StartTracking()
	assert.True(t, tr.Tracking())
	tr.Record("import", []string{"a.txt"}, "import: 1 file(s) added")
	tr.Record("exclude", []string{"a.txt"}, "exclude: 1 file(s) removed")

	tr.StopTracking()
	tr.Record("import", []string{"b.txt"}, "import: 1 file(s) added")

	entries := tr.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "import", entries[0].Operation)
	assert.Equal(t, "exclude", entries[1].Operation)
	assert.NotEmpty(t, entries[0].ID)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestTrackerLoadKeepsPersistedRecordsFirst(t *testing.T) {
	tr := NewTracker()
	tr.StartTracking()
	tr.Record("import", []string{"new.txt"}, "import: 1 file(s) added")

	persisted := []models.ChangelogEntry{
		models.NewChangelogEntry("create", nil, "create: no entry changes"),
	}
	tr.Load(persisted)

	entries := tr.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "create", entries[0].Operation)
	assert.Equal(t, "import", entries[1].Operation)
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name        string
		before      []string
		after       []string
		wantAdded   []string
		wantRemoved []string
	}{
		{
			name:      "additions only",
			before:    []string{"a.txt"},
			after:     []string{"a.txt", "c.txt", "b.txt"},
			wantAdded: []string{"b.txt", "c.txt"},
		},
		{
			name:        "removals only",
			before:      []string{"a.txt", "b.txt"},
			after:       []string{"b.txt"},
			wantRemoved: []string{"a.txt"},
		},
		{
			name:        "mixed",
			before:      []string{"a.txt", "b.txt"},
			after:       []string{"b.txt", "c.txt"},
			wantAdded:   []string{"c.txt"},
			wantRemoved: []string{"a.txt"},
		},
		{
			name:   "no change",
			before: []string{"a.txt"},
			after:  []string{"a.txt"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			added, removed := Diff(tt.before, tt.after)
			assert.Equal(t, tt.wantAdded, added)
			assert.Equal(t, tt.wantRemoved, removed)
		})
	}
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "import: 2 file(s) added", Summarize("import", []string{"a", "b"}, nil))
	assert.Equal(t, "exclude: 1 file(s) removed", Summarize("exclude", nil, []string{"a"}))
	assert.Equal(t, "import: 1 added, 2 removed", Summarize("import", []string{"a"}, []string{"b", "c"}))
	assert.Equal(t, "metadata: no entry changes", Summarize("metadata", nil, nil))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"markdown", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"JSON", FormatJSON, false},
		{"xml", FormatXML, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"", FormatMarkdown, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func sampleEntries() []models.ChangelogEntry {
	return []models.ChangelogEntry{
		models.NewChangelogEntry("import", []string{"docs/a.md", "docs/b.md"}, "import: 2 file(s) added"),
		models.NewChangelogEntry("exclude", []string{"docs/a.md"}, "exclude: 1 file(s) removed"),
	}
}

func TestRenderMarkdown(t *testing.T) {
	out, err := Render(sampleEntries(), FormatMarkdown)
	require.NoError(t, err)
	md := string(out)
	assert.True(t, strings.HasPrefix(md, "# Changelog\n"))
	assert.Contains(t, md, "import: 2 file(s) added")
	assert.Contains(t, md, "- `docs/a.md`")
	assert.Contains(t, md, "exclude")
}

func TestRenderMarkdownEmpty(t *testing.T) {
	out, err := Render(nil, FormatMarkdown)
	require.NoError(t, err)
	assert.Contains(t, string(out), "No operations recorded.")
}

func TestRenderJSON(t *testing.T) {
	entries := sampleEntries()
	out, err := Render(entries, FormatJSON)
	require.NoError(t, err)

	var decoded []models.ChangelogEntry
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, entries[0].ID, decoded[0].ID)
	assert.Equal(t, entries[1].AffectedPaths, decoded[1].AffectedPaths)
}

func TestRenderXML(t *testing.T) {
	out, err := Render(sampleEntries(), FormatXML)
	require.NoError(t, err)
	s := string(out)
	assert.True(t, strings.HasPrefix(s, "<?xml"))
	assert.Contains(t, s, "<changelog>")
	assert.Contains(t, s, `operation="import"`)
	assert.Contains(t, s, "<path>docs/a.md</path>")
}

func TestRenderYAML(t *testing.T) {
	entries := sampleEntries()
	out, err := Render(entries, FormatYAML)
	require.NoError(t, err)

	var decoded []models.ChangelogEntry
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, entries[0].Operation, decoded[0].Operation)
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(sampleEntries(), Format("csv"))
	assert.Error(t, err)
}

func TestGenerateDoesNotMutateLog(t *testing.T) {
	tr := NewTracker()
	tr.StartTracking()
	tr.Record("import", []string{"a.txt"}, "import: 1 file(s) added")

	_, err := tr.Generate(FormatMarkdown)
	require.NoError(t, err)
	_, err = tr.Generate(FormatJSON)
	require.NoError(t, err)

	assert.Len(t, tr.Entries(), 1)
}
