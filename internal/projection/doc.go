// Package projection provides typed access to the STAC projection
// extension fields ("proj:epsg", "proj:wkt2", "proj:projjson",
// "proj:geometry", "proj:bbox", "proj:centroid", "proj:shape" and
// "proj:transform") stored on an item's properties or on one of its
// assets.
//
// Every accessor first checks that the owning item declares the
// projection extension and fails with an extension.NotEnabledError
// otherwise. Values are written verbatim; conformity is checked only when
// the document is passed to a validator.
package projection
