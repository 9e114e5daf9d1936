package item

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"go.yaml.in/yaml/v3"
)

// Parse decodes a JSON STAC Item document.
func Parse(data []byte) (*Item, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling JSON: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("document is not a JSON object")
	}
	return FromMap(doc)
}

// ParseYAML decodes a STAC Item written as YAML. Values are normalized to
// the types a JSON decoder would produce.
func ParseYAML(data []byte) (*Item, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling YAML: %w", err)
	}
	doc, ok := normalizeYAML(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document is not a YAML mapping")
	}
	return FromMap(doc)
}

// ParseFile reads an item from disk. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func ParseFile(path string) (*Item, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var it *Item
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		it, err = ParseYAML(data)
	default:
		it, err = Parse(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing item %s: %w", path, err)
	}
	return it, nil
}

// Encode returns the indented JSON form of the item.
func Encode(it *Item) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(it.ToMap()); err != nil {
		return nil, fmt.Errorf("encoding item %s: %w", it.ID, err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes the item as indented JSON, or YAML when path ends in
// .yaml or .yml.
func WriteFile(path string, it *Item) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(it.ToMap())
		if err != nil {
			return fmt.Errorf("marshaling item %s: %w", it.ID, err)
		}
	default:
		data, err = Encode(it)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing item %s: %w", path, err)
	}
	return nil
}

// normalizeYAML recursively converts YAML-decoded values to the types the
// JSON decoder produces: integers become float64 and non-string mapping
// keys are formatted as strings.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[k] = normalizeYAML(v)
		}
		return m
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case []interface{}:
		a := make([]interface{}, len(val))
		for i, v := range val {
			a[i] = normalizeYAML(v)
		}
		return a
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case uint64:
		return float64(val)
	default:
		return val
	}
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
