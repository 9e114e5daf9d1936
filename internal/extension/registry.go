package extension

import (
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"
)

// Projection is the identifier of the projection extension.
const Projection = "projection"

// schemaURIPattern matches the canonical stac-extensions schema location.
var schemaURIPattern = regexp.MustCompile(`^https://stac-extensions\.github\.io/([a-z0-9-]+)/v([^/]+)/schema\.json$`)

// Definition describes a STAC extension the toolkit knows about.
type Definition struct {
	ID      string
	Prefix  string
	Version *semver.Version
	Fields  []string
}

// SchemaURI returns the schema location written to stac_extensions.
func (d Definition) SchemaURI() string {
	return fmt.Sprintf("https://stac-extensions.github.io/%s/v%s/schema.json", d.ID, d.Version)
}

// Key returns the namespaced property key for a field, e.g. "proj:epsg".
func (d Definition) Key(field string) string {
	return d.Prefix + ":" + field
}

// Matches reports whether a stac_extensions entry refers to this
// extension. Legacy short identifiers ("projection") match, as do schema
// URIs whose version has the same major version as the definition.
func (d Definition) Matches(entry string) bool {
	if entry == d.ID {
		return true
	}
	m := schemaURIPattern.FindStringSubmatch(entry)
	if m == nil || m[1] != d.ID {
		return false
	}
	v, err := semver.NewVersion(m[2])
	if err != nil {
		return false
	}
	c, err := semver.NewConstraint(fmt.Sprintf("^%d", d.Version.Major()))
	if err != nil {
		return false
	}
	return c.Check(v)
}

// Registry is a set of extension definitions keyed by identifier.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewRegistry returns a registry holding defs.
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		r.Register(d)
	}
	return r
}

// Register adds or replaces a definition.
func (r *Registry) Register(d Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[d.ID] = d
}

// Lookup finds a definition by identifier, property prefix or schema URI.
func (r *Registry) Lookup(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if d, ok := r.defs[name]; ok {
		return d, true
	}
	for _, d := range r.defs {
		if d.Prefix == name || d.Matches(name) {
			return d, true
		}
	}
	return Definition{}, false
}

// Definitions returns all registered definitions sorted by identifier.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ProjectionDefinition describes the projection extension, v1.1.0.
var ProjectionDefinition = Definition{
	ID:      Projection,
	Prefix:  "proj",
	Version: semver.MustParse("1.1.0"),
	Fields: []string{
		"epsg", "wkt2", "projjson", "geometry",
		"bbox", "centroid", "shape", "transform",
	},
}

// Default is the registry used by the package-level functions.
var Default = NewRegistry(ProjectionDefinition)
