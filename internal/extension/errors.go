package extension

import (
	"errors"
	"fmt"
)

var (
	// ErrNotEnabled is matched by every NotEnabledError.
	ErrNotEnabled = errors.New("extension not enabled")

	// ErrUnknownExtension is returned when an identifier does not name a
	// registered extension.
	ErrUnknownExtension = errors.New("unknown extension")
)

// NotEnabledError reports access to an extension's fields on an item
// that does not declare the extension.
type NotEnabledError struct {
	Extension string
	ItemID    string
}

func (e *NotEnabledError) Error() string {
	if e.ItemID == "" {
		return fmt.Sprintf("extension %q is not enabled", e.Extension)
	}
	return fmt.Sprintf("extension %q is not enabled on item %q", e.Extension, e.ItemID)
}

// Is reports whether target is ErrNotEnabled.
func (e *NotEnabledError) Is(target error) bool {
	return target == ErrNotEnabled
}
