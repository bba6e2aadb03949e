// Package svgg turns SVG documents into self-describing file containers.
//
// # Overview
//
// svgg embeds arbitrary files inside a host SVG/XML document. The host
// stays a valid, renderable image; the embedded files live in a single
// well-known metadata region and travel with it. A container needs no
// sidecar manifest: entry paths, media types, checksums and the
// optional directory structure are all recorded in the document itself.
//
// The module consists of three main layers:
//   - CLI: create, import, export, list, exclude, metadata, changelog,
//     audit and server commands
//   - Operation Layer: atomic read-modify-write cycles over host
//     documents, with per-container locking and batch processing
//   - Container Core: the entry codec, the in-memory container model
//     and the SVG reader/writer
//
// # Architecture
//
//	┌──────────────┐      ┌──────────────┐
//	│     CLI      │      │  API Server  │
//	│   (Cobra)    │      │ (Echo REST)  │
//	└──────┬───────┘      └──────┬───────┘
//	       │                     │
//	┌──────▼─────────────────────▼───────┐
//	│          Operation Layer           │
//	│  import / export / list / exclude  │
//	│  metadata / changelog / audit      │
//	└──────┬─────────────────────────────┘
//	       │
//	┌──────▼───────┐  ┌───────────┐  ┌──────────┐
//	│  Container   │  │   Codec   │  │  svgio   │
//	│    Model     │  │ (encode,  │  │ (parse,  │
//	│              │  │ checksum) │  │  write)  │
//	└──────────────┘  └───────────┘  └──────────┘
//
// # Core Features
//
// Container format:
//   - One <metadata id="svgg-container"> region per document
//   - Self-describing entries: logical path, media type, encoding,
//     BLAKE3 checksum, sizes, timestamp
//   - Byte-identical passthrough of all host markup outside the region
//
// Operations:
//   - Import from files, directories and zip archives with merge
//     strategies, ignore patterns and size guards
//   - Export to directories, archives or memory, optionally removing
//     entries after a successful sink write
//   - Changelog tracking with markdown/JSON/XML/YAML rendering
//   - Integrity auditing with mechanical repair of derived state
//
// # Usage
//
// Create a bundle and work with it:
//
//	svgg create bundle.svg
//	svgg import bundle.svg ./project --preserve-structure
//	svgg list bundle.svg --verify
//	svgg export bundle.svg -o ./restored
//
// Start the API server:
//
//	svgg server --config configs/config.yaml
//
// # Configuration
//
// Configuration can be provided via:
//   - YAML file (configs/config.yaml)
//   - Environment variables (SVGG_ prefix)
//   - .env file
//
// Example configuration:
//
//	limits:
//	  max_file_size: 10485760
//	  max_total_size: 104857600
//	server:
//	  host: localhost
//	  port: 5000
//	  work_dir: /srv/bundles
//
// See the internal packages for implementation details and the models
// package for the shared data types.
package svgg
