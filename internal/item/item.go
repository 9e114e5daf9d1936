package item

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	json "github.com/goccy/go-json"
)

// TypeFeature is the only valid value of an Item's "type" member.
const TypeFeature = "Feature"

// Asset is the field map of a single asset entry. Keys are JSON member
// names ("href", "type", "roles", or extension fields such as "proj:shape").
type Asset map[string]any

// Href returns the asset's href, or "" if it is missing or not a string.
func (a Asset) Href() string {
	s, _ := a["href"].(string)
	return s
}

// Item is a STAC Item: a GeoJSON Feature with a properties store and assets.
type Item struct {
	ID             string
	StacVersion    string
	StacExtensions []string
	Collection     string

	// Geometry and BBox are kept verbatim. Geometry may be nil (JSON null).
	Geometry any
	BBox     any

	Properties map[string]any
	Links      []map[string]any
	Assets     map[string]Asset

	// Extra holds foreign top-level members not modeled above.
	Extra map[string]any

	hasBBox bool
}

// New returns an empty Item with the given id and stac_version 1.0.0.
func New(id string) *Item {
	return &Item{
		ID:          id,
		StacVersion: "1.0.0",
		Properties:  make(map[string]any),
		Links:       []map[string]any{},
		Assets:      make(map[string]Asset),
	}
}

// Version parses stac_version as a semantic version.
func (it *Item) Version() (*semver.Version, error) {
	v, err := semver.NewVersion(it.StacVersion)
	if err != nil {
		return nil, fmt.Errorf("parsing stac_version %q: %w", it.StacVersion, err)
	}
	return v, nil
}

// SetBBox replaces the top-level bbox. A nil value removes it.
func (it *Item) SetBBox(bbox any) {
	it.BBox = bbox
	it.hasBBox = bbox != nil
}

// Asset returns the asset stored under key, or nil.
func (it *Item) Asset(key string) Asset {
	if it.Assets == nil {
		return nil
	}
	return it.Assets[key]
}

// ToMap converts the item back to its generic document form.
func (it *Item) ToMap() map[string]any {
	doc := make(map[string]any, len(it.Extra)+10)
	for k, v := range it.Extra {
		doc[k] = v
	}

	doc["type"] = TypeFeature
	doc["stac_version"] = it.StacVersion
	if it.StacExtensions != nil {
		exts := make([]any, len(it.StacExtensions))
		for i, e := range it.StacExtensions {
			exts[i] = e
		}
		doc["stac_extensions"] = exts
	}
	doc["id"] = it.ID
	doc["geometry"] = it.Geometry
	if it.hasBBox || it.BBox != nil {
		doc["bbox"] = it.BBox
	}

	props := it.Properties
	if props == nil {
		props = map[string]any{}
	}
	doc["properties"] = props

	links := make([]any, len(it.Links))
	for i, l := range it.Links {
		links[i] = map[string]any(l)
	}
	doc["links"] = links

	assets := make(map[string]any, len(it.Assets))
	for k, a := range it.Assets {
		assets[k] = map[string]any(a)
	}
	doc["assets"] = assets

	if it.Collection != "" {
		doc["collection"] = it.Collection
	}
	return doc
}

// MarshalJSON encodes the item as a STAC Item document.
func (it *Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(it.ToMap())
}

// FromMap builds an Item from a decoded document. Unknown members are kept
// in Extra. Only structural shape is checked; conformity is left to schema
// validation.
func FromMap(doc map[string]any) (*Item, error) {
	if t, ok := doc["type"]; ok && t != TypeFeature {
		return nil, fmt.Errorf("document type %v is not %q", t, TypeFeature)
	}

	it := &Item{Extra: make(map[string]any)}

	for k, v := range doc {
		switch k {
		case "type":
		case "id":
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("'id' field is not a string")
			}
			it.ID = s
		case "stac_version":
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("'stac_version' field is not a string")
			}
			it.StacVersion = s
		case "stac_extensions":
			exts, err := stringList(v)
			if err != nil {
				return nil, fmt.Errorf("'stac_extensions' field: %w", err)
			}
			it.StacExtensions = exts
		case "collection":
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("'collection' field is not a string")
			}
			it.Collection = s
		case "geometry":
			it.Geometry = v
		case "bbox":
			it.BBox = v
			it.hasBBox = true
		case "properties":
			m, ok := v.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("'properties' field is not an object")
			}
			it.Properties = m
		case "links":
			links, err := linkList(v)
			if err != nil {
				return nil, fmt.Errorf("'links' field: %w", err)
			}
			it.Links = links
		case "assets":
			assets, err := assetMap(v)
			if err != nil {
				return nil, fmt.Errorf("'assets' field: %w", err)
			}
			it.Assets = assets
		default:
			it.Extra[k] = v
		}
	}

	if it.Properties == nil {
		it.Properties = make(map[string]any)
	}
	if it.Assets == nil {
		it.Assets = make(map[string]Asset)
	}
	return it, nil
}

func stringList(v any) ([]string, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("not an array")
	}
	out := make([]string, 0, len(arr))
	for i, e := range arr {
		s, ok := e.(string)
		if !ok {
			return nil, fmt.Errorf("entry %d is not a string", i)
		}
		out = append(out, s)
	}
	return out, nil
}

func linkList(v any) ([]map[string]any, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("not an array")
	}
	out := make([]map[string]any, 0, len(arr))
	for i, e := range arr {
		m, ok := e.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("entry %d is not an object", i)
		}
		out = append(out, m)
	}
	return out, nil
}

func assetMap(v any) (map[string]Asset, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("not an object")
	}
	out := make(map[string]Asset, len(m))
	for k, e := range m {
		a, ok := e.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("asset %q is not an object", k)
		}
		out[k] = Asset(a)
	}
	return out, nil
}
