package projection

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/stacx-labs/stacx/internal/extension"
	"github.com/stacx-labs/stacx/internal/item"
	"github.com/stacx-labs/stacx/internal/validate"
)

const wkt2 = `GEOGCS["WGS 84",
    DATUM["WGS_1984",
        SPHEROID["WGS 84",6378137,298.257223563,
            AUTHORITY["EPSG","7030"]],
        AUTHORITY["EPSG","6326"]],
    PRIMEM["Greenwich",0,
        AUTHORITY["EPSG","8901"]],
    UNIT["degree",0.0174532925199433,
        AUTHORITY["EPSG","9122"]],
    AXIS["Latitude",NORTH],
    AXIS["Longitude",EAST],
    AUTHORITY["EPSG","4326"]]`

const projjsonDoc = `{
    "$schema": "https://proj.org/schemas/v0.1/projjson.schema.json",
    "type": "GeographicCRS",
    "name": "WGS 84",
    "datum": {
        "type": "GeodeticReferenceFrame",
        "name": "World Geodetic System 1984",
        "ellipsoid": {
            "name": "WGS 84",
            "semi_major_axis": 6378137,
            "inverse_flattening": 298.257223563
        }
    },
    "coordinate_system": {
        "subtype": "ellipsoidal",
        "axis": [
            {"name": "Geodetic latitude", "abbreviation": "Lat", "direction": "north", "unit": "degree"},
            {"name": "Geodetic longitude", "abbreviation": "Lon", "direction": "east", "unit": "degree"}
        ]
    },
    "area": "World",
    "bbox": {
        "south_latitude": -90,
        "west_longitude": -180,
        "north_latitude": 90,
        "east_longitude": 180
    },
    "id": {"authority": "EPSG", "code": 4326}
}`

func projjson(t *testing.T) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(projjsonDoc), &m); err != nil {
		t.Fatal(err)
	}
	return m
}

func landsat(t *testing.T) *item.Item {
	t.Helper()
	it, err := item.ParseFile(filepath.Join("testdata", "example-landsat8.json"))
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	return it
}

func validator(t *testing.T) validate.Validator {
	t.Helper()
	v, err := validate.Default()
	if err != nil {
		t.Fatalf("validate.Default() error: %v", err)
	}
	return v
}

func mustValid(t *testing.T, it *item.Item) {
	t.Helper()
	if err := validate.ValidateItem(validator(t), it); err != nil {
		t.Fatalf("ValidateItem() error = %v", err)
	}
}

func mustInvalid(t *testing.T, it *item.Item) {
	t.Helper()
	err := validate.ValidateItem(validator(t), it)
	if !errors.Is(err, validate.ErrSchemaValidation) {
		t.Fatalf("ValidateItem() error = %v, want ErrSchemaValidation", err)
	}
}

func intPtr(v int) *int { return &v }

func TestNotEnabled(t *testing.T) {
	it := item.New("plain")
	it.Properties["datetime"] = "2020-01-01T00:00:00Z"
	proj := ForItem(it)

	ops := map[string]func() error{
		"Get":          func() error { _, err := proj.Get(FieldEPSG); return err },
		"Set":          func() error { return proj.Set(FieldEPSG, 4326) },
		"Unset":        func() error { return proj.Unset(FieldEPSG) },
		"EPSG":         func() error { _, err := proj.EPSG(); return err },
		"SetEPSG":      func() error { return proj.SetEPSG(intPtr(4326)) },
		"WKT2":         func() error { _, err := proj.WKT2(); return err },
		"SetWKT2":      func() error { s := wkt2; return proj.SetWKT2(&s) },
		"PROJJSON":     func() error { _, err := proj.PROJJSON(); return err },
		"SetPROJJSON":  func() error { return proj.SetPROJJSON(projjson(t)) },
		"Geometry":     func() error { _, err := proj.Geometry(); return err },
		"SetGeometry":  func() error { return proj.SetGeometry(map[string]any{"type": "Point"}) },
		"BBox":         func() error { _, err := proj.BBox(); return err },
		"SetBBox":      func() error { return proj.SetBBox([]float64{1, 2, 3, 4}) },
		"Centroid":     func() error { _, err := proj.Centroid(); return err },
		"SetCentroid":  func() error { return proj.SetCentroid(&Centroid{Lat: 1, Lon: 2}) },
		"Shape":        func() error { _, err := proj.Shape(); return err },
		"SetShape":     func() error { return proj.SetShape([]int{1, 2}) },
		"Transform":    func() error { _, err := proj.Transform(); return err },
		"SetTransform": func() error { return proj.SetTransform([]float64{1, 2, 3, 4, 5, 6}) },
		"Apply":        func() error { return proj.Apply(intPtr(4326)) },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op()
			if !errors.Is(err, extension.ErrNotEnabled) {
				t.Errorf("%s error = %v, want ErrNotEnabled", name, err)
			}
		})
	}

	for _, f := range Fields() {
		if _, ok := it.Properties[f.Key()]; ok {
			t.Errorf("%s written on an item without the extension", f.Key())
		}
	}

	if err := extension.Enable(it, extension.Projection); err != nil {
		t.Fatal(err)
	}
	for name, op := range ops {
		if err := op(); err != nil {
			t.Errorf("%s after enable error = %v", name, err)
		}
	}
}

func TestApply(t *testing.T) {
	it := landsat(t)
	it.StacExtensions = nil
	proj := ForItem(it)

	if _, err := proj.EPSG(); !errors.Is(err, extension.ErrNotEnabled) {
		t.Fatalf("EPSG() error = %v, want ErrNotEnabled", err)
	}

	if err := extension.Enable(it, extension.Projection); err != nil {
		t.Fatal(err)
	}
	geom, ok := it.Geometry.(map[string]any)
	if !ok {
		t.Fatalf("item geometry is %T", it.Geometry)
	}
	bbox := []float64{148.13933, 59.51584, 152.52758, 60.63437}

	err := proj.Apply(intPtr(4326),
		WithWKT2(wkt2),
		WithPROJJSON(projjson(t)),
		WithGeometry(geom),
		WithBBox(bbox),
		WithCentroid(Centroid{Lat: 0.0, Lon: 1.0}),
		WithShape([]int{100, 100}),
		WithTransform([]float64{30.0, 0.0, 224985.0, 0.0, -30.0, 6790215.0, 0.0, 0.0, 1.0}),
	)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	code, err := proj.EPSG()
	if err != nil || code == nil || *code != 4326 {
		t.Errorf("EPSG() = %v, %v; want 4326", code, err)
	}
	if got, _ := proj.WKT2(); got == nil || *got != wkt2 {
		t.Errorf("WKT2() = %v", got)
	}
	if got, _ := proj.BBox(); !reflect.DeepEqual(got, bbox) {
		t.Errorf("BBox() = %v, want %v", got, bbox)
	}
	if got, _ := proj.Centroid(); got == nil || *got != (Centroid{Lat: 0, Lon: 1}) {
		t.Errorf("Centroid() = %v", got)
	}
	mustValid(t, it)
}

func TestApply_LeavesUnsetFields(t *testing.T) {
	it := landsat(t)
	proj := ForItem(it)
	before := it.Properties[FieldShape.Key()]

	if err := proj.Apply(intPtr(3857)); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !reflect.DeepEqual(it.Properties[FieldShape.Key()], before) {
		t.Errorf("proj:shape changed by Apply without WithShape")
	}
	if it.Properties[FieldEPSG.Key()] != 3857 {
		t.Errorf("proj:epsg = %v, want 3857", it.Properties[FieldEPSG.Key()])
	}
}

func TestValidateLandsat(t *testing.T) {
	mustValid(t, landsat(t))
}

func TestEPSG(t *testing.T) {
	it := landsat(t)
	proj := ForItem(it)

	if _, ok := it.Properties["proj:epsg"]; !ok {
		t.Fatal("expected proj:epsg in properties")
	}
	code, err := proj.EPSG()
	if err != nil {
		t.Fatalf("EPSG() error = %v", err)
	}
	if float64(*code) != it.Properties["proj:epsg"] {
		t.Errorf("EPSG() = %d, properties hold %v", *code, it.Properties["proj:epsg"])
	}

	if err := proj.SetEPSG(intPtr(*code + 100)); err != nil {
		t.Fatalf("SetEPSG() error = %v", err)
	}
	if it.Properties["proj:epsg"] != *code+100 {
		t.Errorf("proj:epsg = %v, want %d", it.Properties["proj:epsg"], *code+100)
	}
	mustValid(t, it)

	if err := proj.SetEPSG(nil); err != nil {
		t.Fatalf("SetEPSG(nil) error = %v", err)
	}
	if v, ok := it.Properties["proj:epsg"]; !ok || v != nil {
		t.Errorf("proj:epsg = %v (present %v), want stored null", v, ok)
	}
	if got, err := proj.EPSG(); err != nil || got != nil {
		t.Errorf("EPSG() = %v, %v; want nil, nil", got, err)
	}
	mustValid(t, it)
}

func TestEPSG_Scenario(t *testing.T) {
	it := item.New("scenario")
	it.Properties["datetime"] = "2020-01-01T00:00:00Z"
	if err := extension.Enable(it, "proj"); err != nil {
		t.Fatal(err)
	}
	proj := ForItem(it)

	if err := proj.Set(FieldEPSG, 4326); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := proj.Get(FieldEPSG)
	if err != nil || got != 4326 {
		t.Errorf("Get() = %v, %v; want 4326", got, err)
	}
	mustValid(t, it)
}

func TestWKT2(t *testing.T) {
	it := landsat(t)
	proj := ForItem(it)

	got, err := proj.WKT2()
	if err != nil {
		t.Fatalf("WKT2() error = %v", err)
	}
	if *got != it.Properties["proj:wkt2"] {
		t.Errorf("WKT2() does not match properties")
	}

	s := wkt2
	if err := proj.SetWKT2(&s); err != nil {
		t.Fatalf("SetWKT2() error = %v", err)
	}
	if it.Properties["proj:wkt2"] != wkt2 {
		t.Errorf("proj:wkt2 not updated")
	}
	mustValid(t, it)
}

func TestPROJJSON(t *testing.T) {
	it := landsat(t)
	proj := ForItem(it)

	got, err := proj.PROJJSON()
	if err != nil {
		t.Fatalf("PROJJSON() error = %v", err)
	}
	if !reflect.DeepEqual(got, it.Properties["proj:projjson"]) {
		t.Errorf("PROJJSON() does not match properties")
	}

	crs := projjson(t)
	if err := proj.SetPROJJSON(crs); err != nil {
		t.Fatalf("SetPROJJSON() error = %v", err)
	}
	if !reflect.DeepEqual(it.Properties["proj:projjson"], crs) {
		t.Errorf("proj:projjson not updated")
	}
	mustValid(t, it)

	if err := proj.SetPROJJSON(map[string]any{"bad": "data"}); err != nil {
		t.Fatalf("SetPROJJSON(bad) error = %v, want nil", err)
	}
	mustInvalid(t, it)
}

func TestGeometry(t *testing.T) {
	it := landsat(t)
	proj := ForItem(it)

	got, err := proj.Geometry()
	if err != nil {
		t.Fatalf("Geometry() error = %v", err)
	}
	if !reflect.DeepEqual(got, it.Properties["proj:geometry"]) {
		t.Errorf("Geometry() does not match properties")
	}

	geom := it.Geometry.(map[string]any)
	if err := proj.SetGeometry(geom); err != nil {
		t.Fatalf("SetGeometry() error = %v", err)
	}
	if !reflect.DeepEqual(it.Properties["proj:geometry"], it.Geometry) {
		t.Errorf("proj:geometry not updated")
	}
	mustValid(t, it)

	if err := proj.SetGeometry(map[string]any{"bad": "data"}); err != nil {
		t.Fatalf("SetGeometry(bad) error = %v, want nil", err)
	}
	mustInvalid(t, it)
}

func TestBBox(t *testing.T) {
	it := landsat(t)
	proj := ForItem(it)

	got, err := proj.BBox()
	if err != nil {
		t.Fatalf("BBox() error = %v", err)
	}
	if len(got) != 4 || got[0] != 169200.0 {
		t.Errorf("BBox() = %v", got)
	}

	want := []float64{1.0, 2.0, 3.0, 4.0}
	if err := proj.SetBBox(want); err != nil {
		t.Fatalf("SetBBox() error = %v", err)
	}
	if !reflect.DeepEqual(it.Properties["proj:bbox"], want) {
		t.Errorf("proj:bbox = %v, want %v", it.Properties["proj:bbox"], want)
	}
	if got, _ := proj.BBox(); !reflect.DeepEqual(got, want) {
		t.Errorf("BBox() = %v, want %v", got, want)
	}
	mustValid(t, it)
}

func TestCentroid(t *testing.T) {
	it := landsat(t)
	proj := ForItem(it)

	got, err := proj.Centroid()
	if err != nil {
		t.Fatalf("Centroid() error = %v", err)
	}
	raw := it.Properties["proj:centroid"].(map[string]any)
	if got.Lat != raw["lat"] || got.Lon != raw["lon"] {
		t.Errorf("Centroid() = %+v, properties hold %v", got, raw)
	}

	want := map[string]any{"lat": 2.0, "lon": 3.0}
	if err := proj.Set(FieldCentroid, want); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !reflect.DeepEqual(it.Properties["proj:centroid"], want) {
		t.Errorf("proj:centroid = %v, want %v", it.Properties["proj:centroid"], want)
	}
	mustValid(t, it)

	// A misnamed field is stored as given and only caught by validation.
	if err := proj.Set(FieldCentroid, map[string]any{"lat": 2.0, "lng": 3.0}); err != nil {
		t.Fatalf("Set(bad centroid) error = %v, want nil", err)
	}
	mustInvalid(t, it)
}

func TestCentroid_Misnamed(t *testing.T) {
	tests := []struct {
		name  string
		value map[string]any
	}{
		{"lng instead of lon", map[string]any{"lat": 2.0, "lng": 3.0}},
		{"missing lon", map[string]any{"lat": 2.0}},
		{"missing lat", map[string]any{"lon": 3.0}},
		{"extra member", map[string]any{"lat": 2.0, "lon": 3.0, "alt": 1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proj := ForItem(landsat(t))
			if err := proj.Set(FieldCentroid, tt.value); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			got, err := proj.Centroid()
			if err == nil {
				t.Errorf("Centroid() = %+v, want error", got)
			}

			raw, err := proj.Get(FieldCentroid)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !reflect.DeepEqual(raw, tt.value) {
				t.Errorf("Get() = %v, want stored %v", raw, tt.value)
			}
		})
	}
}

func TestShape(t *testing.T) {
	it := landsat(t)
	proj := ForItem(it)

	got, err := proj.Shape()
	if err != nil {
		t.Fatalf("Shape() error = %v", err)
	}
	if !reflect.DeepEqual(got, []int{8391, 8311}) {
		t.Errorf("Shape() = %v", got)
	}

	want := []int{100, 200}
	if err := proj.SetShape(want); err != nil {
		t.Fatalf("SetShape() error = %v", err)
	}
	if !reflect.DeepEqual(it.Properties["proj:shape"], want) {
		t.Errorf("proj:shape = %v, want %v", it.Properties["proj:shape"], want)
	}
	mustValid(t, it)
}

func TestTransform(t *testing.T) {
	it := landsat(t)
	proj := ForItem(it)

	got, err := proj.Transform()
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if len(got) != 9 {
		t.Errorf("Transform() len = %d, want 9", len(got))
	}

	want := []float64{1.0, 2.0, 3.0, 4.0, 5.0, 6.0}
	if err := proj.SetTransform(want); err != nil {
		t.Fatalf("SetTransform() error = %v", err)
	}
	if !reflect.DeepEqual(it.Properties["proj:transform"], want) {
		t.Errorf("proj:transform = %v, want %v", it.Properties["proj:transform"], want)
	}
	mustValid(t, it)

	if err := proj.SetTransform([]float64{1, 2, 3}); err != nil {
		t.Fatalf("SetTransform(short) error = %v", err)
	}
	mustInvalid(t, it)
}

func TestRoundTrip_Verbatim(t *testing.T) {
	it := landsat(t)
	proj := ForItem(it)

	values := []any{
		nil,
		"text",
		4326,
		[]any{1.0, "two", nil},
		map[string]any{"nested": map[string]any{"x": []int{1}}},
	}
	for _, f := range Fields() {
		for _, v := range values {
			if err := proj.Set(f, v); err != nil {
				t.Fatalf("Set(%s) error = %v", f, err)
			}
			got, err := proj.Get(f)
			if err != nil {
				t.Fatalf("Get(%s) error = %v", f, err)
			}
			if !reflect.DeepEqual(got, v) {
				t.Errorf("Get(%s) = %#v, want %#v", f, got, v)
			}
		}
	}
}

func TestUnset(t *testing.T) {
	it := landsat(t)
	proj := ForItem(it)

	if err := proj.Unset(FieldWKT2); err != nil {
		t.Fatalf("Unset() error = %v", err)
	}
	if _, ok := it.Properties["proj:wkt2"]; ok {
		t.Error("proj:wkt2 still present after Unset")
	}
	if got, err := proj.WKT2(); err != nil || got != nil {
		t.Errorf("WKT2() = %v, %v; want nil, nil", got, err)
	}
	mustValid(t, it)
}

func TestTypedGetter_WrongType(t *testing.T) {
	it := landsat(t)
	proj := ForItem(it)

	if err := proj.Set(FieldEPSG, "EPSG:4326"); err != nil {
		t.Fatal(err)
	}
	if _, err := proj.EPSG(); err == nil {
		t.Error("expected error reading a string as an EPSG code")
	}
}

func TestForAsset(t *testing.T) {
	it := landsat(t)

	if _, err := ForAsset(it, "missing"); err == nil {
		t.Fatal("expected error for missing asset")
	}

	b8, err := ForAsset(it, "B8")
	if err != nil {
		t.Fatalf("ForAsset() error = %v", err)
	}
	shape, err := b8.Shape()
	if err != nil {
		t.Fatalf("Shape() error = %v", err)
	}
	if !reflect.DeepEqual(shape, []int{16781, 16621}) {
		t.Errorf("asset Shape() = %v", shape)
	}

	b1, err := ForAsset(it, "B1")
	if err != nil {
		t.Fatal(err)
	}
	if got, err := b1.EPSG(); err != nil || got != nil {
		t.Errorf("B1 EPSG() = %v, %v; want nil, nil", got, err)
	}
	if err := b1.SetEPSG(intPtr(32614)); err != nil {
		t.Fatalf("SetEPSG() error = %v", err)
	}
	if it.Assets["B1"]["proj:epsg"] != 32614 {
		t.Errorf("asset proj:epsg = %v", it.Assets["B1"]["proj:epsg"])
	}
	mustValid(t, it)

	if err := b1.SetShape([]int{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	mustInvalid(t, it)

	delete(it.Assets, "B1")
	if _, err := b1.Get(FieldShape); err == nil {
		t.Error("expected error after the asset was removed")
	}

	it.StacExtensions = nil
	if _, err := b8.Shape(); !errors.Is(err, extension.ErrNotEnabled) {
		t.Errorf("asset Shape() error = %v, want ErrNotEnabled", err)
	}
}

func TestParseField(t *testing.T) {
	tests := []struct {
		in      string
		want    Field
		wantErr bool
	}{
		{"epsg", FieldEPSG, false},
		{"proj:transform", FieldTransform, false},
		{"centroid", FieldCentroid, false},
		{"proj:unknown", "", true},
		{"eo:bands", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseField(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseField(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseField(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFields(t *testing.T) {
	got := Fields()
	if len(got) != len(extension.ProjectionDefinition.Fields) {
		t.Fatalf("Fields() len = %d, want %d", len(got), len(extension.ProjectionDefinition.Fields))
	}
	for i, f := range got {
		if string(f) != extension.ProjectionDefinition.Fields[i] {
			t.Errorf("Fields()[%d] = %s, want %s", i, f, extension.ProjectionDefinition.Fields[i])
		}
	}
	got[0] = "mutated"
	if Fields()[0] != FieldEPSG {
		t.Error("Fields() returned the internal slice")
	}
}
