// Package extension tracks which STAC extensions an item declares.
// It keeps a registry of known extension definitions (identifier,
// property prefix, schema version) and answers enable, disable and
// membership questions against an item's stac_extensions list, matching
// schema URIs of any compatible version.
package extension
