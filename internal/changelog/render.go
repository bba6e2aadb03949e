package changelog

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"evalgo.org/svgg/models"
)

// Format selects the changelog rendering.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatXML      Format = "xml"
	FormatYAML     Format = "yaml"
)

// ParseFormat parses a rendering format from its flag value.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatXML:
		return FormatXML, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case "":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown changelog format: %q", name)
	}
}

// Generate renders the accumulated records without mutating the log.
func (t *Tracker) Generate(format Format) ([]byte, error) {
	return Render(t.Entries(), format)
}

// Render renders changelog records in the given format, oldest
// first.
func Render(entries []models.ChangelogEntry, format Format) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		return renderMarkdown(entries), nil
	case FormatJSON:
		return json.MarshalIndent(entries, "", "  ")
	case FormatXML:
		return renderXML(entries)
	case FormatYAML:
		return yaml.Marshal(entries)
	default:
		return nil, fmt.Errorf("unknown changelog format: %q", format)
	}
}

func renderMarkdown(entries []models.ChangelogEntry) []byte {
	var buf bytes.Buffer
	buf.WriteString("# Changelog\n")
	if len(entries) == 0 {
		buf.WriteString("\nNo operations recorded.\n")
		return buf.Bytes()
	}
	for _, e := range entries {
		fmt.Fprintf(&buf, "\n## %s — %s\n\n", e.Timestamp.Format(time.RFC3339), e.Operation)
		fmt.Fprintf(&buf, "%s\n", e.Summary)
		if len(e.AffectedPaths) > 0 {
			buf.WriteString("\n")
			for _, p := range e.AffectedPaths {
				fmt.Fprintf(&buf, "- `%s`\n", p)
			}
		}
	}
	return buf.Bytes()
}

type xmlChangelog struct {
	XMLName xml.Name   `xml:"changelog"`
	Entries []xmlEntry `xml:"entry"`
}

type xmlEntry struct {
	ID        string   `xml:"id,attr"`
	Timestamp string   `xml:"timestamp,attr"`
	Operation string   `xml:"operation,attr"`
	Summary   string   `xml:"summary"`
	Paths     []string `xml:"paths>path"`
}

func renderXML(entries []models.ChangelogEntry) ([]byte, error) {
	doc := xmlChangelog{}
	for _, e := range entries {
		doc.Entries = append(doc.Entries, xmlEntry{
			ID:        e.ID,
			Timestamp: e.Timestamp.Format(time.RFC3339),
			Operation: e.Operation,
			Summary:   e.Summary,
			Paths:     e.AffectedPaths,
		})
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render changelog xml: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
