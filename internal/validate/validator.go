package validate

import (
	"bytes"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/stacx-labs/stacx/internal/extension"
	"github.com/stacx-labs/stacx/internal/item"
)

//go:embed schema/*.json
var schemaFS embed.FS

const (
	itemSchemaFile = "schema/item.json"

	itemSchemaURL = "https://schemas.stacspec.org/v1.0.0/item-spec/json-schema/item.json"
)

// extensionSchemaFiles maps extension identifiers to their embedded schema.
var extensionSchemaFiles = map[string]string{
	extension.Projection: "schema/projection.json",
}

var printer = message.NewPrinter(language.English)

// Validator checks a serialized document.
type Validator interface {
	Validate(doc []byte) error
}

// Result contains the outcome of a schema validation.
type Result struct {
	Valid  bool
	Issues []Issue
}

// Err returns a *ValidationError for an invalid result, nil otherwise.
func (r *Result) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Issues: r.Issues}
}

// SchemaValidator validates STAC Items with the embedded schemas.
type SchemaValidator struct {
	registry   *extension.Registry
	core       *jsonschema.Schema
	extensions map[string]*jsonschema.Schema
}

// New compiles the embedded schemas. Extensions in reg without an embedded
// schema are accepted without extension-level checks.
func New(reg *extension.Registry) (*SchemaValidator, error) {
	c := jsonschema.NewCompiler()

	entries, err := schemaFS.ReadDir("schema")
	if err != nil {
		return nil, fmt.Errorf("listing embedded schemas: %w", err)
	}
	urls := make(map[string]string, len(entries))
	for _, entry := range entries {
		name := "schema/" + entry.Name()
		url, err := addResource(c, name)
		if err != nil {
			return nil, err
		}
		urls[name] = url
	}

	v := &SchemaValidator{
		registry:   reg,
		extensions: make(map[string]*jsonschema.Schema),
	}

	v.core, err = c.Compile(urls[itemSchemaFile])
	if err != nil {
		return nil, fmt.Errorf("compiling item schema: %w", err)
	}

	for _, d := range reg.Definitions() {
		file, ok := extensionSchemaFiles[d.ID]
		if !ok {
			continue
		}
		sch, err := c.Compile(urls[file])
		if err != nil {
			return nil, fmt.Errorf("compiling %s schema: %w", d.ID, err)
		}
		v.extensions[d.ID] = sch
	}
	return v, nil
}

// addResource registers an embedded schema under its $id and returns it.
func addResource(c *jsonschema.Compiler, name string) (string, error) {
	data, err := schemaFS.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("reading embedded schema %s: %w", name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("unmarshaling schema %s: %w", name, err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return "", fmt.Errorf("schema %s is not an object", name)
	}
	url, ok := obj["$id"].(string)
	if !ok {
		return "", fmt.Errorf("schema %s has no $id", name)
	}
	if err := c.AddResource(url, doc); err != nil {
		return "", fmt.Errorf("adding schema resource %s: %w", name, err)
	}
	return url, nil
}

var (
	defaultValidator *SchemaValidator
	defaultOnce      sync.Once
	defaultErr       error
)

// Default returns a validator for extension.Default, compiled once.
func Default() (*SchemaValidator, error) {
	defaultOnce.Do(func() {
		defaultValidator, defaultErr = New(extension.Default)
	})
	return defaultValidator, defaultErr
}

// Validate implements Validator. It returns a *ValidationError when the
// document does not conform, or another error when it cannot be read.
func (v *SchemaValidator) Validate(doc []byte) error {
	res, err := v.Check(doc)
	if err != nil {
		return err
	}
	return res.Err()
}

// Check validates a JSON document and reports every issue found. The
// error return is for documents that are not JSON.
func (v *SchemaValidator) Check(doc []byte) (*Result, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	var issues issueSet
	invalid := false

	if err := v.core.Validate(inst); err != nil {
		invalid = true
		issues.addError(err, itemSchemaURL)
	}

	for _, id := range v.declared(inst) {
		sch, ok := v.extensions[id]
		if !ok {
			continue
		}
		if err := sch.Validate(inst); err != nil {
			invalid = true
			issues.addError(err, id)
		}
	}

	if !invalid {
		return &Result{Valid: true}, nil
	}
	return &Result{Valid: false, Issues: issues.list}, nil
}

// declared returns the identifiers of known extensions listed in the
// document's stac_extensions, in sorted order.
func (v *SchemaValidator) declared(inst any) []string {
	obj, ok := inst.(map[string]any)
	if !ok {
		return nil
	}
	entries, ok := obj["stac_extensions"].([]any)
	if !ok {
		return nil
	}

	seen := make(map[string]bool)
	for _, e := range entries {
		s, ok := e.(string)
		if !ok {
			continue
		}
		d, ok := v.registry.Lookup(s)
		if !ok {
			slog.Debug("skipping unknown extension schema", "extension", s)
			continue
		}
		seen[d.ID] = true
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ValidateItem serializes the item and validates it with v.
func ValidateItem(v Validator, it *item.Item) error {
	data, err := json.Marshal(it.ToMap())
	if err != nil {
		return fmt.Errorf("marshaling item %s: %w", it.ID, err)
	}
	return v.Validate(data)
}

// ValidateFile reads a JSON document and validates it with the default
// validator.
func ValidateFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	v, err := Default()
	if err != nil {
		return nil, fmt.Errorf("loading schemas: %w", err)
	}
	return v.Check(data)
}

// issueSet gathers leaf issues from one or more schema failures. An issue
// already reported with the same path, keyword and message is dropped, so
// a constraint broken under both the core and an extension schema shows once.
type issueSet struct {
	seen map[string]bool
	list []Issue
}

func (s *issueSet) add(issue Issue) {
	key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.list = append(s.list, issue)
}

// addError records the failure err reported by schema. When the error tree
// holds no informative leaf the top-level message is kept instead.
func (s *issueSet) addError(err error, schema string) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		s.add(Issue{Message: err.Error(), Schema: schema})
		return
	}
	if s.walk(ve, schema) == 0 {
		s.add(Issue{Message: ve.Error(), Schema: schema})
	}
}

// walk descends into every cause, including each oneOf branch, and records
// the leaves. It returns how many informative leaves it saw.
func (s *issueSet) walk(ve *jsonschema.ValidationError, schema string) int {
	if len(ve.Causes) > 0 {
		n := 0
		for _, cause := range ve.Causes {
			n += s.walk(cause, schema)
		}
		return n
	}
	if ve.ErrorKind == nil {
		return 0
	}

	var keyword string
	if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
		keyword = kw[len(kw)-1]
	}
	switch keyword {
	case "", "$ref", "allOf", "oneOf":
		// Containers; their causes carry the detail.
		return 0
	}

	var path string
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	s.add(Issue{
		Path:    path,
		Message: ve.ErrorKind.LocalizedString(printer),
		Keyword: keyword,
		Schema:  schema,
	})
	return 1
}
