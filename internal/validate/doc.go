// Package validate checks STAC Item documents against embedded JSON
// schemas: the core item schema plus the schema of every known extension
// the document declares. Validation is always an explicit step; nothing
// in the accessor packages calls it on mutation.
package validate
