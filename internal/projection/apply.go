package projection

// Option sets one projection field during Apply.
type Option func(e *Extension)

// WithWKT2 sets proj:wkt2.
func WithWKT2(wkt string) Option {
	return func(e *Extension) { e.fields()[FieldWKT2.Key()] = wkt }
}

// WithPROJJSON sets proj:projjson.
func WithPROJJSON(crs map[string]any) Option {
	return func(e *Extension) { e.fields()[FieldPROJJSON.Key()] = crs }
}

// WithGeometry sets proj:geometry.
func WithGeometry(g map[string]any) Option {
	return func(e *Extension) { e.fields()[FieldGeometry.Key()] = g }
}

// WithBBox sets proj:bbox.
func WithBBox(bbox []float64) Option {
	return func(e *Extension) { e.fields()[FieldBBox.Key()] = bbox }
}

// WithCentroid sets proj:centroid.
func WithCentroid(c Centroid) Option {
	return func(e *Extension) { e.fields()[FieldCentroid.Key()] = c }
}

// WithShape sets proj:shape.
func WithShape(shape []int) Option {
	return func(e *Extension) { e.fields()[FieldShape.Key()] = shape }
}

// WithTransform sets proj:transform.
func WithTransform(t []float64) Option {
	return func(e *Extension) { e.fields()[FieldTransform.Key()] = t }
}

// Apply sets proj:epsg and any fields given as options in one call. Fields
// without an option are left untouched.
func (e *Extension) Apply(epsg *int, opts ...Option) error {
	if err := e.SetEPSG(epsg); err != nil {
		return err
	}
	for _, opt := range opts {
		opt(e)
	}
	return nil
}
