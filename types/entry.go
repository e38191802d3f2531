// Package types contains shared types used across the regression runner
package types

import (
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"
)

// Reserved keys of a test list node. Every other key is carried in TestEntry.Fields.
const (
	KeyTest       = "test"
	KeyName       = "name"
	KeyIterations = "iterations"
	KeyImport     = "import"
)

// TestEntry is one selectable regression test.
type TestEntry struct {
	Name       string
	Iterations int
	// Fields holds the remaining keys of the node (command template,
	// description, generator options, ...). They are passed through untouched.
	Fields map[string]any
}

// Clone returns a copy of the entry that does not share its Fields map.
func (e TestEntry) Clone() TestEntry {
	out := e
	if e.Fields != nil {
		out.Fields = maps.Clone(e.Fields)
	}
	return out
}

// Field returns the string value of a pass-through field, or "" when the
// field is absent or not a scalar.
func (e TestEntry) Field(key string) string {
	v, ok := e.Fields[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case int, int64, float64, bool:
		return fmt.Sprint(val)
	default:
		return ""
	}
}

// Node is a single item of a test list document: either an import of another
// document or a test entry.
type Node struct {
	Import string
	Entry  TestEntry
	Line   int
}

// IsImport reports whether the node references another document.
func (n Node) IsImport() bool {
	return n.Import != ""
}

// UnmarshalYAML implements yaml.Unmarshaler for a test list node.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: test list item must be a mapping", value.Line)
	}

	raw := make(map[string]any)
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}

	n.Line = value.Line
	if imp, ok := raw[KeyImport]; ok {
		path, ok := imp.(string)
		if !ok || path == "" {
			return fmt.Errorf("line %d: import must be a non-empty string", value.Line)
		}
		n.Import = path
		return nil
	}

	name, ok := raw[KeyTest].(string)
	if !ok {
		name, ok = raw[KeyName].(string)
	}
	if !ok || name == "" {
		return fmt.Errorf("line %d: test entry requires a %q key", value.Line, KeyTest)
	}

	iterations := 0
	if it, present := raw[KeyIterations]; present {
		v, ok := it.(int)
		if !ok {
			return fmt.Errorf("line %d: iterations of %q must be an integer", value.Line, name)
		}
		iterations = v
	}

	delete(raw, KeyTest)
	delete(raw, KeyName)
	delete(raw, KeyIterations)

	n.Entry = TestEntry{
		Name:       name,
		Iterations: iterations,
		Fields:     raw,
	}
	return nil
}
