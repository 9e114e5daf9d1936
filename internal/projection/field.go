package projection

import (
	"fmt"
	"strings"

	"github.com/stacx-labs/stacx/internal/extension"
)

// Field names a projection extension field.
type Field string

const (
	FieldEPSG      Field = "epsg"
	FieldWKT2      Field = "wkt2"
	FieldPROJJSON  Field = "projjson"
	FieldGeometry  Field = "geometry"
	FieldBBox      Field = "bbox"
	FieldCentroid  Field = "centroid"
	FieldShape     Field = "shape"
	FieldTransform Field = "transform"
)

var fields = []Field{
	FieldEPSG, FieldWKT2, FieldPROJJSON, FieldGeometry,
	FieldBBox, FieldCentroid, FieldShape, FieldTransform,
}

// Fields returns every projection field in canonical order.
func Fields() []Field {
	return append([]Field(nil), fields...)
}

// Key returns the namespaced property key, e.g. "proj:epsg".
func (f Field) Key() string {
	return extension.ProjectionDefinition.Key(string(f))
}

// ParseField accepts a bare field name ("epsg") or a namespaced key
// ("proj:epsg").
func ParseField(s string) (Field, error) {
	name := strings.TrimPrefix(s, extension.ProjectionDefinition.Prefix+":")
	for _, f := range fields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown projection field %q", s)
}
