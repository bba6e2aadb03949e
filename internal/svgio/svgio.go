// Package svgio serializes the container model to and from the host
// SVG/XML document.
//
// All container state lives inside a single well-known region: one
// <metadata id="svgg-container"> element holding a svgg:meta block
// (the metadata mapping, the optional structure tree, and any
// persisted changelog as embedded JSON) followed by zero or more
// svgg:file entry blocks. Everything outside the region is
// passthrough: the reader records it verbatim and the writer emits
// it byte-identical, so unrelated host markup survives any number of
// round trips unchanged.
package svgio

import "errors"

// Namespace is the XML namespace of svgg container elements.
const Namespace = "https://svgg.dev/ns"

// RegionID is the id attribute marking the container region element.
const RegionID = "svgg-container"

// ErrInvalidHostFormat is returned when the host document is not
// well-formed structured markup. The operation is aborted before any
// mutation.
var ErrInvalidHostFormat = errors.New("invalid host document format")

// Fragments is the passthrough host-document content surrounding the
// container region. Serialize emits Prefix and Suffix byte-identical.
type Fragments struct {
	Prefix []byte
	Suffix []byte
}
