package extension

import (
	"fmt"
	"log/slog"

	"github.com/stacx-labs/stacx/internal/item"
)

// Enable declares the extension named by id on the item. Enabling an
// extension that is already declared, in any compatible form, is a no-op.
func (r *Registry) Enable(it *item.Item, id string) error {
	d, ok := r.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownExtension, id)
	}
	if r.enabled(it, d) {
		return nil
	}
	it.StacExtensions = append(it.StacExtensions, d.SchemaURI())
	slog.Debug("extension enabled", "item", it.ID, "extension", d.ID)
	return nil
}

// Disable removes every stac_extensions entry that refers to the
// extension. Disabling an extension that is not declared is a no-op.
func (r *Registry) Disable(it *item.Item, id string) error {
	d, ok := r.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownExtension, id)
	}

	kept := it.StacExtensions[:0]
	for _, e := range it.StacExtensions {
		if !d.Matches(e) {
			kept = append(kept, e)
		}
	}
	it.StacExtensions = kept
	return nil
}

// Enabled reports whether the item declares the extension named by id.
// Unknown identifiers are never enabled.
func (r *Registry) Enabled(it *item.Item, id string) bool {
	d, ok := r.Lookup(id)
	if !ok {
		return false
	}
	return r.enabled(it, d)
}

// Require returns a NotEnabledError unless the item declares the extension.
func (r *Registry) Require(it *item.Item, id string) error {
	if r.Enabled(it, id) {
		return nil
	}
	return &NotEnabledError{Extension: id, ItemID: it.ID}
}

// List returns the known extensions declared on the item.
func (r *Registry) List(it *item.Item) []Definition {
	var out []Definition
	for _, d := range r.Definitions() {
		if r.enabled(it, d) {
			out = append(out, d)
		}
	}
	return out
}

func (r *Registry) enabled(it *item.Item, d Definition) bool {
	for _, e := range it.StacExtensions {
		if d.Matches(e) {
			return true
		}
	}
	return false
}

// Enable declares an extension using the Default registry.
func Enable(it *item.Item, id string) error { return Default.Enable(it, id) }

// Disable removes an extension using the Default registry.
func Disable(it *item.Item, id string) error { return Default.Disable(it, id) }

// Enabled checks an extension using the Default registry.
func Enabled(it *item.Item, id string) bool { return Default.Enabled(it, id) }

// Require checks an extension using the Default registry.
func Require(it *item.Item, id string) error { return Default.Require(it, id) }

// List returns the Default registry's extensions declared on the item.
func List(it *item.Item) []Definition { return Default.List(it) }
