package validate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaValidation is matched by every ValidationError.
var ErrSchemaValidation = errors.New("schema validation failed")

// Issue is a single violated schema constraint.
type Issue struct {
	Path    string // Instance location (e.g., "/properties/proj:centroid")
	Message string // Human-readable error message
	Keyword string // Schema keyword that failed
	Schema  string // Schema the constraint belongs to
}

func (i Issue) String() string {
	path := i.Path
	if path == "" {
		path = "/"
	}
	if i.Keyword == "" {
		return fmt.Sprintf("%s: %s", path, i.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", path, i.Message, i.Keyword)
}

// ValidationError reports a document that does not conform to its schemas.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("%s: %d issue(s): %s", ErrSchemaValidation, len(e.Issues), strings.Join(parts, "; "))
}

// Is reports whether target is ErrSchemaValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrSchemaValidation
}
