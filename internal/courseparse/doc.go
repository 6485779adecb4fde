// Package courseparse turns loosely structured course documents into course
// metadata and an ordered lesson list. Two extractors are available: a
// structured one that understands module tables and "Modulo N" narratives,
// and a flat one that treats top-level headings as lesson boundaries. The
// structured extractor falls back to the flat one when a document declares no
// modules. Nothing in this package returns an error: malformed input yields
// partial results.
package courseparse
