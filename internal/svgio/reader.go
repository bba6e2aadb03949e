package svgio

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"

	"evalgo.org/svgg/internal/container"
	"evalgo.org/svgg/internal/structure"
	"evalgo.org/svgg/models"
)

// metaDocument is the JSON payload of the svgg:meta block.
type metaDocument struct {
	Metadata  models.Metadata         `json:"metadata"`
	Structure *models.TreeNode        `json:"structure,omitempty"`
	Changelog []models.ChangelogEntry `json:"changelog,omitempty"`
}

// region records where the container region sits in the host bytes.
type region struct {
	start int64 // offset of '<' of the region start tag
	end   int64 // offset just past the region end tag
}

// Parse reads a host document and rebuilds the container it embeds.
// A document without a container region yields an empty container.
// A document that is not well-formed XML fails with
// ErrInvalidHostFormat; more than one region fails with
// structure.ErrStructureConflict.
func Parse(doc []byte) (*container.Container, *Fragments, error) {
	scan, err := scanDocument(doc)
	if err != nil {
		return nil, nil, err
	}

	if len(scan.regions) > 1 {
		return nil, nil, fmt.Errorf("%w: %d container regions in one document",
			structure.ErrStructureConflict, len(scan.regions))
	}

	if len(scan.regions) == 0 {
		c := container.New()
		frags := virginFragments(doc, scan)
		return c, frags, nil
	}

	reg := scan.regions[0]
	c, err := parseRegion(doc[reg.start:reg.end])
	if err != nil {
		return nil, nil, err
	}
	frags := &Fragments{
		Prefix: doc[:reg.start],
		Suffix: doc[reg.end:],
	}
	return c, frags, nil
}

// scanResult captures what a full well-formedness pass over the host
// document found.
type scanResult struct {
	regions []region

	rootName string
	// rootEnd is the offset of the root element's end tag, or of the
	// "/>" terminating a self-closed root.
	rootEnd     int64
	selfClosing bool
}

// scanDocument tokenizes the entire document. Any tokenizer error
// means the host is not well-formed and the whole operation aborts.
func scanDocument(doc []byte) (*scanResult, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	result := &scanResult{}

	depth := 0
	sawRoot := false
	var regionStart int64
	regionDepth := -1

	for {
		pos := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidHostFormat, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				sawRoot = true
				result.rootName = t.Name.Local
			}
			if regionDepth < 0 && isRegionStart(t) {
				regionStart = pos
				regionDepth = depth
			}
			depth++

		case xml.EndElement:
			depth--
			after := dec.InputOffset()
			if regionDepth == depth {
				result.regions = append(result.regions, region{start: regionStart, end: after})
				regionDepth = -1
			}
			if depth == 0 {
				result.rootEnd = pos
				// A self-closed root emits a synthetic EndElement
				// that consumes no input bytes.
				result.selfClosing = after == pos
			}
		}
	}

	if !sawRoot {
		return nil, fmt.Errorf("%w: no root element", ErrInvalidHostFormat)
	}
	return result, nil
}

func isRegionStart(se xml.StartElement) bool {
	if se.Name.Local != "metadata" {
		return false
	}
	for _, a := range se.Attr {
		if a.Name.Local == "id" && a.Value == RegionID {
			return true
		}
	}
	return false
}

// virginFragments splits a document without a container region at
// the insertion point before the root end tag. The cosmetic newlines
// become part of the fragments so subsequent round trips are
// byte-stable.
func virginFragments(doc []byte, scan *scanResult) *Fragments {
	if scan.selfClosing {
		// <svg .../> has no interior: expand it so the region can be
		// injected. scan.rootEnd is the offset just past "/>".
		open := bytes.TrimSuffix(doc[:scan.rootEnd], []byte("/>"))
		prefix := append(append([]byte{}, open...), []byte(">\n")...)
		suffix := append([]byte("\n</"+scan.rootName+">"), doc[scan.rootEnd:]...)
		return &Fragments{Prefix: prefix, Suffix: suffix}
	}
	prefix := append(append([]byte{}, doc[:scan.rootEnd]...), '\n')
	suffix := append([]byte{'\n'}, doc[scan.rootEnd:]...)
	return &Fragments{Prefix: prefix, Suffix: suffix}
}

// parseRegion rebuilds a container from the bytes of a single
// container region element.
func parseRegion(regionBytes []byte) (*container.Container, error) {
	dec := xml.NewDecoder(bytes.NewReader(regionBytes))
	c := container.New()

	var meta *metaDocument
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: container region: %v", ErrInvalidHostFormat, err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch {
		case se.Name.Local == "metadata":
			// The region element itself.
			continue

		case isContainerElement(se.Name, "meta"):
			if meta != nil {
				return nil, fmt.Errorf("%w: multiple metadata blocks", structure.ErrStructureConflict)
			}
			parsed, err := parseMetaBlock(dec, se)
			if err != nil {
				return nil, err
			}
			meta = parsed

		case isContainerElement(se.Name, "file"):
			entry, err := parseFileBlock(dec, se)
			if err != nil {
				return nil, err
			}
			if err := c.PutEntry(entry); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidHostFormat, err)
			}

		default:
			if err := dec.Skip(); err != nil {
				return nil, fmt.Errorf("%w: container region: %v", ErrInvalidHostFormat, err)
			}
		}
	}

	if meta == nil {
		return nil, fmt.Errorf("%w: container region has no metadata block", ErrInvalidHostFormat)
	}

	c.RestoreMetadata(meta.Metadata)
	if meta.Structure != nil {
		// The tree is restored verbatim even when it disagrees with
		// the entry set. Drift in a persisted document is a
		// repairable condition surfaced by validation and audit, not
		// a parse failure.
		c.SetStructure(meta.Structure)
	}
	if len(meta.Changelog) > 0 {
		c.SetChangelog(meta.Changelog)
	}
	return c, nil
}

// isContainerElement matches svgg container elements whether the
// namespace prefix resolved to the svgg namespace URL or was left
// unbound by a lenient producer.
func isContainerElement(name xml.Name, local string) bool {
	if name.Local != local {
		return false
	}
	return name.Space == Namespace || name.Space == "svgg" || name.Space == ""
}

func parseMetaBlock(dec *xml.Decoder, start xml.StartElement) (*metaDocument, error) {
	text, err := elementText(dec, start)
	if err != nil {
		return nil, err
	}
	meta := &metaDocument{}
	if err := json.Unmarshal([]byte(text), meta); err != nil {
		return nil, fmt.Errorf("%w: metadata block is not valid JSON: %v", ErrInvalidHostFormat, err)
	}
	if meta.Metadata == nil {
		meta.Metadata = models.Metadata{}
	}
	return meta, nil
}

func parseFileBlock(dec *xml.Decoder, start xml.StartElement) (*models.Entry, error) {
	entry := &models.Entry{}
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "path":
			entry.Path = a.Value
		case "media-type":
			entry.MediaType = a.Value
		case "encoding":
			entry.Encoding = a.Value
		case "checksum":
			entry.Checksum = a.Value
		case "raw-size":
			n, err := strconv.ParseInt(a.Value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: entry %q: bad raw-size: %v", ErrInvalidHostFormat, entry.Path, err)
			}
			entry.RawSize = n
		case "encoded-size":
			n, err := strconv.ParseInt(a.Value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: entry %q: bad encoded-size: %v", ErrInvalidHostFormat, entry.Path, err)
			}
			entry.EncodedSize = n
		case "added-at":
			t, err := time.Parse(time.RFC3339, a.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: entry %q: bad added-at: %v", ErrInvalidHostFormat, entry.Path, err)
			}
			entry.AddedAt = t
		}
	}
	if entry.Path == "" {
		return nil, fmt.Errorf("%w: entry block missing path attribute", ErrInvalidHostFormat)
	}

	payload, err := elementText(dec, start)
	if err != nil {
		return nil, err
	}
	entry.Payload = payload
	return entry, nil
}

// elementText collects the character data of an element that must
// not contain child elements. The payload is returned exactly as
// unescaped by the tokenizer: no trimming, since utf8-text payloads
// carry significant whitespace.
func elementText(dec *xml.Decoder, start xml.StartElement) (string, error) {
	var buf bytes.Buffer
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("%w: inside <%s>: %v", ErrInvalidHostFormat, start.Name.Local, err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			return buf.String(), nil
		case xml.StartElement:
			return "", fmt.Errorf("%w: unexpected child element <%s> inside <%s>",
				ErrInvalidHostFormat, t.Name.Local, start.Name.Local)
		}
	}
}
