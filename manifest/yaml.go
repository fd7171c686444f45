package manifest

import (
	"bytes"
	"fmt"
	"time"

	"go.yaml.in/yaml/v3"
)

func (t epoch) MarshalYAML() (interface{}, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: t.String()}, nil
}

func (t *epoch) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := parseEpoch(node.Value)
	if err != nil {
		return err
	}
	*t = epoch(parsed)
	return nil
}

func (d isoDuration) MarshalYAML() (interface{}, error) {
	return FormatDuration(time.Duration(d)), nil
}

func (d *isoDuration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseDuration(node.Value)
	if err != nil {
		return err
	}
	*d = isoDuration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (e *Entry) MarshalYAML() (interface{}, error) {
	return e.toWire(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	var w wireEntry
	if err := node.Decode(&w); err != nil {
		return err
	}
	return e.fromWire(w)
}

// RenderYAML returns the manifest as a YAML document indented by indent spaces.
func RenderYAML(e *Entry, indent int) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if indent > 0 {
		enc.SetIndent(indent)
	}
	if err := enc.Encode(e); err != nil {
		return "", fmt.Errorf("manifest: render yaml %q: %w", e.Name, err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("manifest: render yaml %q: %w", e.Name, err)
	}
	return buf.String(), nil
}
