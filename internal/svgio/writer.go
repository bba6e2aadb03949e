package svgio

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"evalgo.org/svgg/internal/container"
)

// Serialize renders the container region and splices it between the
// passthrough fragments. The fragments are emitted byte-identical;
// the write is all-or-nothing because the whole document is built in
// memory before the caller persists it.
func Serialize(c *container.Container, frags *Fragments) ([]byte, error) {
	region, err := renderRegion(c)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(frags.Prefix)+len(region)+len(frags.Suffix))
	out = append(out, frags.Prefix...)
	out = append(out, region...)
	out = append(out, frags.Suffix...)
	return out, nil
}

func renderRegion(c *container.Container) ([]byte, error) {
	meta := metaDocument{
		Metadata:  c.Metadata(),
		Structure: c.Structure(),
		Changelog: c.Changelog(),
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal container metadata: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(`<metadata id="` + RegionID + `" xmlns:svgg="` + Namespace + `">`)
	buf.WriteString("\n  <svgg:meta>")
	if err := escapeText(&buf, metaJSON); err != nil {
		return nil, err
	}
	buf.WriteString("</svgg:meta>")

	for _, entry := range c.Entries() {
		buf.WriteString("\n  <svgg:file")
		if err := writeAttr(&buf, "path", entry.Path); err != nil {
			return nil, err
		}
		if err := writeAttr(&buf, "media-type", entry.MediaType); err != nil {
			return nil, err
		}
		if err := writeAttr(&buf, "encoding", entry.Encoding); err != nil {
			return nil, err
		}
		if err := writeAttr(&buf, "checksum", entry.Checksum); err != nil {
			return nil, err
		}
		if err := writeAttr(&buf, "raw-size", strconv.FormatInt(entry.RawSize, 10)); err != nil {
			return nil, err
		}
		if err := writeAttr(&buf, "encoded-size", strconv.FormatInt(entry.EncodedSize, 10)); err != nil {
			return nil, err
		}
		if err := writeAttr(&buf, "added-at", entry.AddedAt.UTC().Format(time.RFC3339)); err != nil {
			return nil, err
		}
		// Payload text starts immediately after '>': no indentation,
		// because utf8-text payloads carry significant whitespace.
		buf.WriteByte('>')
		if err := escapeText(&buf, []byte(entry.Payload)); err != nil {
			return nil, err
		}
		buf.WriteString("</svgg:file>")
	}

	buf.WriteString("\n</metadata>")
	return buf.Bytes(), nil
}

func writeAttr(buf *bytes.Buffer, name, value string) error {
	buf.WriteByte(' ')
	buf.WriteString(name)
	buf.WriteString(`="`)
	if err := escapeText(buf, []byte(value)); err != nil {
		return err
	}
	buf.WriteByte('"')
	return nil
}

func escapeText(buf *bytes.Buffer, text []byte) error {
	if err := xml.EscapeText(buf, text); err != nil {
		return fmt.Errorf("escape container text: %w", err)
	}
	return nil
}
