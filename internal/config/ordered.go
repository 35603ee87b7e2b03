package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ReadOrderedMapping reads a JSON (or YAML) file whose top level is an object and
// calls fn for each key in file order. Go maps lose that order, and both the zone
// and alias tables resolve ties by definition order.
func ReadOrderedMapping(path string, fn func(key string, value *yaml.Node) error) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return DecodeOrderedMapping(data, fn)
}

// DecodeOrderedMapping is ReadOrderedMapping for in-memory data.
func DecodeOrderedMapping(data []byte, fn func(key string, value *yaml.Node) error) error {
	// JSON allows tab indentation, YAML does not. Raw tabs cannot appear inside
	// valid JSON strings, so replacing them is lossless.
	data = bytes.ReplaceAll(data, []byte("\t"), []byte("  "))

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse mapping: %w", err)
	}
	if doc.Kind == 0 {
		return nil // empty file
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return fmt.Errorf("unexpected document kind %d", doc.Kind)
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: top level must be an object", root.Line)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if err := fn(root.Content[i].Value, root.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}
