// Package item holds the STAC Item document model used by stacx.
//
// An Item keeps the fields the rest of the toolkit needs to reason about
// (id, stac_version, stac_extensions, geometry, bbox, properties, links,
// assets) and preserves every other top-level member so that a document
// read from disk serializes back to the same JSON. Property and asset
// values are opaque JSON-compatible values; nothing in this package
// interprets them.
package item
