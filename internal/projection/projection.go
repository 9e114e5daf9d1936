package projection

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/stacx-labs/stacx/internal/extension"
	"github.com/stacx-labs/stacx/internal/item"
)

// Centroid is the approximate center of the data footprint in WGS 84.
type Centroid struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// UnmarshalJSON requires both lat and lon and rejects any other member.
func (c *Centroid) UnmarshalJSON(data []byte) error {
	var raw struct {
		Lat *float64 `json:"lat"`
		Lon *float64 `json:"lon"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw.Lat == nil || raw.Lon == nil {
		return errors.New("centroid needs both lat and lon")
	}
	c.Lat, c.Lon = *raw.Lat, *raw.Lon
	return nil
}

// Extension reads and writes projection fields on an item or an asset.
type Extension struct {
	item     *item.Item
	assetKey string
}

// ForItem returns an accessor for the item's properties.
func ForItem(it *item.Item) *Extension {
	return &Extension{item: it}
}

// ForAsset returns an accessor for the fields of the asset stored under key.
func ForAsset(it *item.Item, key string) (*Extension, error) {
	if it.Asset(key) == nil {
		return nil, fmt.Errorf("item %q has no asset %q", it.ID, key)
	}
	return &Extension{item: it, assetKey: key}, nil
}

func (e *Extension) fields() map[string]any {
	if e.assetKey != "" {
		return e.item.Assets[e.assetKey]
	}
	if e.item.Properties == nil {
		e.item.Properties = make(map[string]any)
	}
	return e.item.Properties
}

func (e *Extension) check() error {
	if err := extension.Require(e.item, extension.Projection); err != nil {
		return err
	}
	if e.assetKey != "" && e.item.Asset(e.assetKey) == nil {
		return fmt.Errorf("item %q has no asset %q", e.item.ID, e.assetKey)
	}
	return nil
}

// Get returns the value stored for f, or nil if it is unset.
func (e *Extension) Get(f Field) (any, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	return e.fields()[f.Key()], nil
}

// Set stores v for f without conversion or validation. A nil v is stored
// as JSON null.
func (e *Extension) Set(f Field, v any) error {
	if err := e.check(); err != nil {
		return err
	}
	e.fields()[f.Key()] = v
	return nil
}

// Unset removes f.
func (e *Extension) Unset(f Field) error {
	if err := e.check(); err != nil {
		return err
	}
	delete(e.fields(), f.Key())
	return nil
}

// EPSG returns proj:epsg, or nil when unset or null.
func (e *Extension) EPSG() (*int, error) {
	return getAs[int](e, FieldEPSG)
}

// SetEPSG stores proj:epsg. A nil code stores null, meaning the data has
// no EPSG code.
func (e *Extension) SetEPSG(code *int) error {
	if code == nil {
		return e.Set(FieldEPSG, nil)
	}
	return e.Set(FieldEPSG, *code)
}

// WKT2 returns proj:wkt2.
func (e *Extension) WKT2() (*string, error) {
	return getAs[string](e, FieldWKT2)
}

// SetWKT2 stores proj:wkt2.
func (e *Extension) SetWKT2(wkt *string) error {
	if wkt == nil {
		return e.Set(FieldWKT2, nil)
	}
	return e.Set(FieldWKT2, *wkt)
}

// PROJJSON returns proj:projjson.
func (e *Extension) PROJJSON() (map[string]any, error) {
	v, err := getAs[map[string]any](e, FieldPROJJSON)
	if err != nil || v == nil {
		return nil, err
	}
	return *v, nil
}

// SetPROJJSON stores proj:projjson.
func (e *Extension) SetPROJJSON(crs map[string]any) error {
	if crs == nil {
		return e.Set(FieldPROJJSON, nil)
	}
	return e.Set(FieldPROJJSON, crs)
}

// Geometry returns proj:geometry, a GeoJSON geometry in the item's CRS.
func (e *Extension) Geometry() (map[string]any, error) {
	v, err := getAs[map[string]any](e, FieldGeometry)
	if err != nil || v == nil {
		return nil, err
	}
	return *v, nil
}

// SetGeometry stores proj:geometry.
func (e *Extension) SetGeometry(g map[string]any) error {
	if g == nil {
		return e.Set(FieldGeometry, nil)
	}
	return e.Set(FieldGeometry, g)
}

// BBox returns proj:bbox.
func (e *Extension) BBox() ([]float64, error) {
	v, err := getAs[[]float64](e, FieldBBox)
	if err != nil || v == nil {
		return nil, err
	}
	return *v, nil
}

// SetBBox stores proj:bbox.
func (e *Extension) SetBBox(bbox []float64) error {
	if bbox == nil {
		return e.Set(FieldBBox, nil)
	}
	return e.Set(FieldBBox, bbox)
}

// Centroid returns proj:centroid.
func (e *Extension) Centroid() (*Centroid, error) {
	return getAs[Centroid](e, FieldCentroid)
}

// SetCentroid stores proj:centroid.
func (e *Extension) SetCentroid(c *Centroid) error {
	if c == nil {
		return e.Set(FieldCentroid, nil)
	}
	return e.Set(FieldCentroid, *c)
}

// Shape returns proj:shape as [rows, columns].
func (e *Extension) Shape() ([]int, error) {
	v, err := getAs[[]int](e, FieldShape)
	if err != nil || v == nil {
		return nil, err
	}
	return *v, nil
}

// SetShape stores proj:shape.
func (e *Extension) SetShape(shape []int) error {
	if shape == nil {
		return e.Set(FieldShape, nil)
	}
	return e.Set(FieldShape, shape)
}

// Transform returns proj:transform, the affine coefficients in row-major
// order (6 or 9 values).
func (e *Extension) Transform() ([]float64, error) {
	v, err := getAs[[]float64](e, FieldTransform)
	if err != nil || v == nil {
		return nil, err
	}
	return *v, nil
}

// SetTransform stores proj:transform.
func (e *Extension) SetTransform(t []float64) error {
	if t == nil {
		return e.Set(FieldTransform, nil)
	}
	return e.Set(FieldTransform, t)
}

// getAs reads f and converts it to T. Values written through the typed
// setters are returned as is; decoded JSON values are converted through
// their JSON form. Members T does not declare are an error, so the result
// never drops part of the stored value.
func getAs[T any](e *Extension, f Field) (*T, error) {
	raw, err := e.Get(f)
	if err != nil || raw == nil {
		return nil, err
	}
	if v, ok := raw.(T); ok {
		return &v, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", f.Key(), err)
	}
	var v T
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("reading %s as %T: %w", f.Key(), v, err)
	}
	return &v, nil
}
